package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chronitrack/internal/healthlog"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func TestHealthLogServiceAddAssignsIDAndTimestamp(t *testing.T) {
	base := time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC)
	svc := NewHealthLogService(false, time.UTC).WithClock(fixedClock(base))

	entry, err := svc.Add("session-a", EntryInput{Type: "symptom", Name: " Migraine ", Severity: healthlog.Ptr(6)})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	symptom, ok := entry.(healthlog.Symptom)
	if !ok {
		t.Fatalf("expected Symptom, got %T", entry)
	}
	if symptom.ID == "" {
		t.Fatal("expected generated id")
	}
	if !symptom.Timestamp.Equal(base) {
		t.Fatalf("expected timestamp %v, got %v", base, symptom.Timestamp)
	}
	if symptom.Name != "Migraine" {
		t.Fatalf("expected trimmed name, got %q", symptom.Name)
	}

	second, err := svc.Add("session-a", EntryInput{Type: "treatment", Name: "Rest", Dosage: "1 hour"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if second.EntryID() == symptom.ID {
		t.Fatal("expected unique ids")
	}

	entries, err := svc.List("session-a")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].EntryID() != second.EntryID() {
		t.Fatalf("expected newest entry first, got %v", entries)
	}
}

func TestHealthLogServiceValidation(t *testing.T) {
	svc := NewHealthLogService(false, time.UTC)

	tests := []struct {
		name  string
		input EntryInput
		want  error
	}{
		{name: "unknown type", input: EntryInput{Type: "mood"}, want: healthlog.ErrUnknownType},
		{name: "missing severity", input: EntryInput{Type: "symptom", Name: "Cough"}, want: healthlog.ErrInvalidEntry},
		{name: "severity out of range", input: EntryInput{Type: "symptom", Name: "Cough", Severity: healthlog.Ptr(12)}, want: healthlog.ErrInvalidEntry},
		{name: "missing lifestyle subtype", input: EntryInput{Type: "lifestyle"}, want: healthlog.ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add("s", tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := svc.Add("  ", EntryInput{Type: "symptom"}); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestHealthLogServiceIsolatesSessions(t *testing.T) {
	svc := NewHealthLogService(false, time.UTC)

	if _, err := svc.Add("alice", EntryInput{Type: "symptom", Name: "Rash", Severity: healthlog.Ptr(3)}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	bob, err := svc.List("bob")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(bob) != 0 {
		t.Fatalf("expected bob's log to be empty, got %d entries", len(bob))
	}
	if svc.SessionCount() != 2 {
		t.Fatalf("expected 2 sessions, got %d", svc.SessionCount())
	}
}

func TestHealthLogServiceSeedsSampleData(t *testing.T) {
	svc := NewHealthLogService(true, time.UTC)

	entries, err := svc.List("fresh")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("expected 7 sample entries, got %d", len(entries))
	}
	if entries[0].EntryID() != "7" || entries[len(entries)-1].EntryID() != "1" {
		t.Fatalf("expected sample data sorted newest first, got %s..%s", entries[0].EntryID(), entries[len(entries)-1].EntryID())
	}

	daily, err := svc.Daily("fresh")
	if err != nil {
		t.Fatalf("Daily returned error: %v", err)
	}
	if len(daily) != 3 {
		t.Fatalf("expected 3 days, got %d", len(daily))
	}

	want := []struct {
		date     string
		severity float64
		sleep    *int
	}{
		{date: "2024-07-15", severity: 7, sleep: healthlog.Ptr(5)},
		{date: "2024-07-16", severity: 5, sleep: healthlog.Ptr(8)},
		{date: "2024-07-17", severity: 2, sleep: nil},
	}
	for i, w := range want {
		row := daily[i]
		if row.Date != w.date || row.SymptomSeverity == nil || *row.SymptomSeverity != w.severity {
			t.Fatalf("row %d: unexpected %+v", i, row)
		}
		if (w.sleep == nil) != (row.SleepQuality == nil) || (w.sleep != nil && *w.sleep != *row.SleepQuality) {
			t.Fatalf("row %d: unexpected sleep quality %v", i, row.SleepQuality)
		}
	}
}

func TestHealthLogServiceExport(t *testing.T) {
	now := time.Date(2024, 7, 18, 12, 0, 0, 0, time.UTC)
	svc := NewHealthLogService(false, time.UTC).WithClock(func() time.Time { return now })

	if _, err := svc.Export("empty", "chronitrack"); !errors.Is(err, healthlog.ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Add("full", EntryInput{Type: "lifestyle", Subtype: "exercise", ExerciseType: healthlog.Ptr(fmt.Sprintf("Walk %d", i)), ExerciseDuration: healthlog.Ptr(20)}); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	file, err := svc.Export("full", "mylog")
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if file.Name != "mylog_export_2024-07-18.csv" {
		t.Fatalf("unexpected file name %s", file.Name)
	}
	if file.ContentType != healthlog.CSVContentType {
		t.Fatalf("unexpected content type %s", file.ContentType)
	}
	if lines := strings.Split(file.Body, "\n"); len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
}

func TestHealthLogServiceDropsIdleSessions(t *testing.T) {
	now := time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC)
	svc := NewHealthLogService(false, time.UTC).
		WithClock(func() time.Time { return now }).
		WithIdleTimeout(time.Hour)

	if _, err := svc.Add("idle", EntryInput{Type: "symptom", Name: "Rash", Severity: healthlog.Ptr(3)}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if _, err := svc.List("active"); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	now = now.Add(40 * time.Minute)
	if _, err := svc.List("active"); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if svc.SessionCount() != 2 {
		t.Fatalf("expected both sessions within the idle window, got %d", svc.SessionCount())
	}

	now = now.Add(30 * time.Minute)
	if _, err := svc.List("active"); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if svc.SessionCount() != 1 {
		t.Fatalf("expected idle session to be dropped, got %d sessions", svc.SessionCount())
	}

	entries, err := svc.List("idle")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected a fresh log for the expired session, got %d entries", len(entries))
	}
}

func TestHealthLogServiceCapsSessionCount(t *testing.T) {
	now := time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC)
	svc := NewHealthLogService(true, time.UTC).
		WithClock(func() time.Time { return now }).
		WithMaxSessions(2)

	for _, id := range []string{"a", "b"} {
		if _, err := svc.List(id); err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		now = now.Add(time.Second)
	}
	if _, err := svc.Add("a", EntryInput{Type: "symptom", Name: "Rash", Severity: healthlog.Ptr(3)}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	now = now.Add(time.Second)

	for i := 0; i < 100; i++ {
		if _, err := svc.List(fmt.Sprintf("bot-%d", i)); err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if svc.SessionCount() > 2 {
			t.Fatalf("expected at most 2 sessions, got %d", svc.SessionCount())
		}
		now = now.Add(time.Second)
	}

	if _, err := svc.List("b"); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if svc.SessionCount() != 2 {
		t.Fatalf("expected cap to hold, got %d sessions", svc.SessionCount())
	}
}
