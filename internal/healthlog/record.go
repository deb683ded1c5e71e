package healthlog

import (
	"fmt"
	"strings"
	"time"
)

// Record 是记录的扁平 JSON 形态，type 字段作为判别字段。
type Record struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Timestamp        time.Time `json:"timestamp"`
	Name             string    `json:"name,omitempty"`
	Severity         *int      `json:"severity,omitempty"`
	Dosage           string    `json:"dosage,omitempty"`
	Subtype          string    `json:"subtype,omitempty"`
	Quality          *int      `json:"quality,omitempty"`
	Duration         *float64  `json:"duration,omitempty"`
	Item             *string   `json:"item,omitempty"`
	ExerciseType     *string   `json:"exerciseType,omitempty"`
	ExerciseDuration *int      `json:"exerciseDuration,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
}

// ToRecord 将任意记录转换为扁平形态。
func ToRecord(e Entry) Record {
	rec := Record{
		ID:        e.EntryID(),
		Type:      string(e.Type()),
		Timestamp: e.EntryTime(),
		Notes:     NotesOf(e),
	}

	switch v := e.(type) {
	case Symptom:
		rec.Name = v.Name
		rec.Severity = Ptr(v.Severity)
	case Treatment:
		rec.Name = v.Name
		rec.Dosage = v.Dosage
	case Lifestyle:
		rec.Subtype = string(v.Subtype)
		rec.Quality = v.Quality
		rec.Duration = v.Duration
		rec.Item = v.Item
		rec.ExerciseType = v.ExerciseType
		rec.ExerciseDuration = v.ExerciseDuration
	}

	return rec
}

// ToRecords 批量转换，始终返回非 nil 切片。
func ToRecords(entries []Entry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, ToRecord(e))
	}
	return records
}

// Entry 根据 Type 构造对应的记录，并丢弃与子类型无关的字段。
// 返回值尚未校验，插入 Store 时会调用 Validate。
func (r Record) Entry() (Entry, error) {
	entryType, err := ParseEntryType(r.Type)
	if err != nil {
		return nil, err
	}

	notes := trimOptional(r.Notes)

	switch entryType {
	case TypeSymptom:
		if r.Severity == nil {
			return nil, fmt.Errorf("%w: severity is required", ErrInvalidEntry)
		}
		return Symptom{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Name:      strings.TrimSpace(r.Name),
			Severity:  *r.Severity,
			Notes:     notes,
		}, nil
	case TypeTreatment:
		return Treatment{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Name:      strings.TrimSpace(r.Name),
			Dosage:    strings.TrimSpace(r.Dosage),
			Notes:     notes,
		}, nil
	default:
		subtype, err := ParseSubtype(r.Subtype)
		if err != nil {
			return nil, err
		}
		entry := Lifestyle{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Subtype:   subtype,
			Notes:     notes,
		}
		switch subtype {
		case SubtypeSleep:
			entry.Quality = r.Quality
			entry.Duration = r.Duration
		case SubtypeDiet:
			entry.Item = trimOptional(r.Item)
		case SubtypeExercise:
			entry.ExerciseType = trimOptional(r.ExerciseType)
			entry.ExerciseDuration = r.ExerciseDuration
		}
		return entry, nil
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
