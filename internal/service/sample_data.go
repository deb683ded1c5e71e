package service

import (
	"time"

	"github.com/chronitrack/internal/healthlog"
)

// sampleEntries 返回新会话的演示数据，覆盖三类记录与三天的日期。
func sampleEntries() []healthlog.Entry {
	at := func(value string) time.Time {
		t, _ := time.Parse(time.RFC3339, value)
		return t
	}

	return []healthlog.Entry{
		healthlog.Symptom{ID: "1", Timestamp: at("2024-07-15T08:00:00Z"), Name: "Headache", Severity: 7, Notes: healthlog.Ptr("Woke up with it.")},
		healthlog.Lifestyle{ID: "2", Timestamp: at("2024-07-15T22:00:00Z"), Subtype: healthlog.SubtypeSleep, Quality: healthlog.Ptr(5), Duration: healthlog.Ptr(6.0)},
		healthlog.Symptom{ID: "3", Timestamp: at("2024-07-16T09:00:00Z"), Name: "Headache", Severity: 5, Notes: healthlog.Ptr("Feeling a bit better.")},
		healthlog.Treatment{ID: "4", Timestamp: at("2024-07-16T09:05:00Z"), Name: "Ibuprofen", Dosage: "200mg", Notes: healthlog.Ptr("Took with water")},
		healthlog.Lifestyle{ID: "5", Timestamp: at("2024-07-16T22:30:00Z"), Subtype: healthlog.SubtypeSleep, Quality: healthlog.Ptr(8), Duration: healthlog.Ptr(7.5)},
		healthlog.Symptom{ID: "6", Timestamp: at("2024-07-17T08:30:00Z"), Name: "Headache", Severity: 2, Notes: healthlog.Ptr("Almost gone.")},
		healthlog.Lifestyle{ID: "7", Timestamp: at("2024-07-17T13:00:00Z"), Subtype: healthlog.SubtypeDiet, Item: healthlog.Ptr("Salad with chicken"), Notes: healthlog.Ptr("Light lunch")},
	}
}
