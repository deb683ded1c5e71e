package view

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/chronitrack/internal/healthlog"
)

func TestRenderNotesSanitizesMarkdown(t *testing.T) {
	notes := "**Better** today <script>alert(1)</script>"
	rendered := string(RenderNotes(&notes))

	if !strings.Contains(rendered, "<strong>Better</strong>") {
		t.Fatalf("expected markdown emphasis, got %s", rendered)
	}
	if strings.Contains(rendered, "<script>") {
		t.Fatalf("expected script tag to be removed, got %s", rendered)
	}

	blank := "   "
	if RenderNotes(&blank) != "" || RenderNotes(nil) != "" {
		t.Fatal("expected empty output for blank notes")
	}
}

func TestEntryIconSVGFallback(t *testing.T) {
	if EntryIconSVG(" Sleep ") != EntryIconSVG("sleep") {
		t.Fatal("expected case-insensitive lookup")
	}
	if EntryIconSVG("unknown") != template.HTML(defaultEntryIcon.SVG) {
		t.Fatal("expected default icon for unknown keys")
	}
	if len(entryIconLookup) != len(entryIconDefinitions)+1 {
		t.Fatal("expected lookup to include every icon plus the default")
	}
}

func TestDashboardTemplateRenders(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates returned error: %v", err)
	}

	notes := "Took with _water_"
	at := time.Date(2024, 7, 16, 9, 5, 0, 0, time.UTC)
	data := map[string]any{
		"title":           "ChroniTrack",
		"defaultLocation": "New York",
		"chartURL":        "/api/analytics/daily.png",
		"entries": []healthlog.Record{
			{ID: "4", Type: "treatment", Timestamp: at, Name: "Ibuprofen", Dosage: "200mg", Notes: &notes},
			{ID: "5", Type: "lifestyle", Timestamp: at, Subtype: "sleep", Quality: healthlog.Ptr(8), Duration: healthlog.Ptr(7.5)},
		},
		"daily": []struct {
			Label           string
			SymptomSeverity *float64
			SleepQuality    *int
		}{
			{Label: "Jul 16", SymptomSeverity: healthlog.Ptr(5.0)},
		},
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		t.Fatalf("execute dashboard: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Ibuprofen", "<em>water</em>", "quality 8, 7.5 h", "Jul 16", "Jul 16, 2024 09:05 UTC", "/api/analytics/daily.png"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected dashboard to contain %q", want)
		}
	}
}
