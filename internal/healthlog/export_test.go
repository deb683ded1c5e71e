package healthlog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleEntries() []Entry {
	return []Entry{
		Lifestyle{ID: "7", Timestamp: day(17, 13), Subtype: SubtypeDiet, Item: Ptr("Salad with chicken"), Notes: Ptr("Light lunch")},
		Symptom{ID: "6", Timestamp: day(17, 8), Name: "Headache", Severity: 2, Notes: Ptr("Almost gone.")},
		Lifestyle{ID: "5", Timestamp: day(16, 22), Subtype: SubtypeSleep, Quality: Ptr(8), Duration: Ptr(7.5)},
		Treatment{ID: "4", Timestamp: day(16, 9), Name: "Ibuprofen", Dosage: "200mg", Notes: Ptr("Took with water")},
		Lifestyle{ID: "8", Timestamp: day(16, 7), Subtype: SubtypeExercise, ExerciseType: Ptr("Yoga"), ExerciseDuration: Ptr(30)},
	}
}

func TestExportCSVEmpty(t *testing.T) {
	out, err := ExportCSV(nil)
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestExportCSVLayout(t *testing.T) {
	entries := sampleEntries()
	out, err := ExportCSV(entries)
	if err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != len(entries)+1 {
		t.Fatalf("expected %d lines, got %d", len(entries)+1, len(lines))
	}

	wantHeader := "id,timestamp,type,name,severity,notes,dosage,subtype,quality,duration,item,exerciseType,exerciseDuration"
	if lines[0] != wantHeader {
		t.Fatalf("unexpected header %q", lines[0])
	}

	wantSymptom := `"6","2024-07-17T08:00:00.000Z","symptom","Headache","2","Almost gone.","","","","","","",""`
	if lines[2] != wantSymptom {
		t.Fatalf("unexpected symptom row\nwant %s\ngot  %s", wantSymptom, lines[2])
	}

	wantSleep := `"5","2024-07-16T22:00:00.000Z","lifestyle","","","","","sleep","8","7.5","","",""`
	if lines[3] != wantSleep {
		t.Fatalf("unexpected sleep row\nwant %s\ngot  %s", wantSleep, lines[3])
	}
}

func TestExportCSVRoundTripWithCSVReader(t *testing.T) {
	entries := sampleEntries()
	entries = append(entries, Symptom{ID: "9", Timestamp: day(18, 6), Name: "Back pain, lower", Severity: 4})

	out, err := ExportCSV(entries)
	if err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse failed: %v", err)
	}
	if len(records) != len(entries)+1 {
		t.Fatalf("expected %d records, got %d", len(entries)+1, len(records))
	}

	for i, e := range entries {
		want := exportRow(e)
		got := records[i+1]
		for col, name := range ExportColumns {
			if got[col] != want[name] {
				t.Fatalf("entry %s column %s: want %q, got %q", e.EntryID(), name, want[name], got[col])
			}
		}
	}
}

func TestExportCSVEscapesQuotesAndNewlines(t *testing.T) {
	notes := "said \"ouch\"\nthen slept, <finally> & done"
	entries := []Entry{Symptom{ID: "q", Timestamp: day(15, 8), Name: "Cramp", Severity: 6, Notes: &notes}}

	out, err := ExportCSV(entries)
	if err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("embedded newline must stay escaped, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], `<finally> & done`) {
		t.Fatalf("html characters should not be escaped: %s", lines[1])
	}

	// 每个字段都是 JSON 字符串字面量，整行包进数组即可还原
	var fields []string
	if err := json.Unmarshal([]byte("["+lines[1]+"]"), &fields); err != nil {
		t.Fatalf("failed to decode row: %v", err)
	}
	if len(fields) != len(ExportColumns) {
		t.Fatalf("expected %d fields, got %d", len(ExportColumns), len(fields))
	}
	if fields[5] != notes {
		t.Fatalf("notes did not round-trip: %q", fields[5])
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 7, 18, 23, 30, 0, 0, time.UTC)
	if got := ExportFileName("chronitrack", now); got != "chronitrack_export_2024-07-18.csv" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := ExportFileName("  ", now); got != "chronitrack_export_2024-07-18.csv" {
		t.Fatalf("expected default prefix, got %q", got)
	}
}
