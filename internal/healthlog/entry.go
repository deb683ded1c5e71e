package healthlog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EntryType 区分三类日志记录。
type EntryType string

const (
	// TypeSymptom 表示症状记录。
	TypeSymptom EntryType = "symptom"
	// TypeTreatment 表示治疗/用药记录。
	TypeTreatment EntryType = "treatment"
	// TypeLifestyle 表示饮食、运动、睡眠等生活方式记录。
	TypeLifestyle EntryType = "lifestyle"
)

// LifestyleSubtype 细分生活方式记录。
type LifestyleSubtype string

const (
	SubtypeDiet     LifestyleSubtype = "diet"
	SubtypeExercise LifestyleSubtype = "exercise"
	SubtypeSleep    LifestyleSubtype = "sleep"
)

const (
	minScore = 1
	maxScore = 10
)

var (
	// ErrInvalidEntry 在记录字段不满足约束时返回。
	ErrInvalidEntry = errors.New("invalid log entry")
	// ErrUnknownType 在 type 字段无法识别时返回。
	ErrUnknownType = errors.New("unknown log entry type")
)

// Entry 是 Symptom、Treatment、Lifestyle 三者的和类型。
// 接口方法不导出，外部包无法新增实现，按类型 switch 即可覆盖全部情况。
type Entry interface {
	EntryID() string
	EntryTime() time.Time
	Type() EntryType
	entry()
}

// Symptom 记录一次症状及其严重程度（1-10）。
type Symptom struct {
	ID        string
	Timestamp time.Time
	Name      string
	Severity  int
	Notes     *string
}

// Treatment 记录一次治疗或用药。
type Treatment struct {
	ID        string
	Timestamp time.Time
	Name      string
	Dosage    string
	Notes     *string
}

// Lifestyle 记录饮食、运动或睡眠。
// 只允许填写与 Subtype 对应的字段，其余字段必须为 nil。
type Lifestyle struct {
	ID        string
	Timestamp time.Time
	Subtype   LifestyleSubtype
	Notes     *string

	// sleep
	Quality  *int
	Duration *float64

	// diet
	Item *string

	// exercise
	ExerciseType     *string
	ExerciseDuration *int
}

func (s Symptom) EntryID() string      { return s.ID }
func (s Symptom) EntryTime() time.Time { return s.Timestamp }
func (Symptom) Type() EntryType        { return TypeSymptom }
func (Symptom) entry()                 {}

func (t Treatment) EntryID() string      { return t.ID }
func (t Treatment) EntryTime() time.Time { return t.Timestamp }
func (Treatment) Type() EntryType        { return TypeTreatment }
func (Treatment) entry()                 {}

func (l Lifestyle) EntryID() string      { return l.ID }
func (l Lifestyle) EntryTime() time.Time { return l.Timestamp }
func (Lifestyle) Type() EntryType        { return TypeLifestyle }
func (Lifestyle) entry()                 {}

// ParseEntryType 将外部输入规范化为 EntryType。
func ParseEntryType(raw string) (EntryType, error) {
	switch EntryType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeSymptom:
		return TypeSymptom, nil
	case TypeTreatment:
		return TypeTreatment, nil
	case TypeLifestyle:
		return TypeLifestyle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
}

// ParseSubtype 将外部输入规范化为 LifestyleSubtype。
func ParseSubtype(raw string) (LifestyleSubtype, error) {
	switch LifestyleSubtype(strings.ToLower(strings.TrimSpace(raw))) {
	case SubtypeDiet:
		return SubtypeDiet, nil
	case SubtypeExercise:
		return SubtypeExercise, nil
	case SubtypeSleep:
		return SubtypeSleep, nil
	default:
		return "", fmt.Errorf("%w: unsupported lifestyle subtype %q", ErrInvalidEntry, raw)
	}
}

// Validate 检查记录是否满足数据模型约束。
func Validate(e Entry) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.EntryID()) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}
	if e.EntryTime().IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidEntry)
	}

	switch v := e.(type) {
	case Symptom:
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("%w: symptom name is required", ErrInvalidEntry)
		}
		if !validScore(v.Severity) {
			return fmt.Errorf("%w: severity must be between %d and %d", ErrInvalidEntry, minScore, maxScore)
		}
	case Treatment:
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("%w: treatment name is required", ErrInvalidEntry)
		}
		if strings.TrimSpace(v.Dosage) == "" {
			return fmt.Errorf("%w: dosage is required", ErrInvalidEntry)
		}
	case Lifestyle:
		return validateLifestyle(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, e)
	}
	return nil
}

func validateLifestyle(l Lifestyle) error {
	sleepSet := l.Quality != nil || l.Duration != nil
	dietSet := l.Item != nil
	exerciseSet := l.ExerciseType != nil || l.ExerciseDuration != nil

	switch l.Subtype {
	case SubtypeSleep:
		if dietSet || exerciseSet {
			return fmt.Errorf("%w: sleep entry carries fields of another subtype", ErrInvalidEntry)
		}
		if l.Quality != nil && !validScore(*l.Quality) {
			return fmt.Errorf("%w: sleep quality must be between %d and %d", ErrInvalidEntry, minScore, maxScore)
		}
		if l.Duration != nil && *l.Duration < 0 {
			return fmt.Errorf("%w: sleep duration must not be negative", ErrInvalidEntry)
		}
	case SubtypeDiet:
		if sleepSet || exerciseSet {
			return fmt.Errorf("%w: diet entry carries fields of another subtype", ErrInvalidEntry)
		}
	case SubtypeExercise:
		if sleepSet || dietSet {
			return fmt.Errorf("%w: exercise entry carries fields of another subtype", ErrInvalidEntry)
		}
		if l.ExerciseDuration != nil && *l.ExerciseDuration < 0 {
			return fmt.Errorf("%w: exercise duration must not be negative", ErrInvalidEntry)
		}
	default:
		return fmt.Errorf("%w: unsupported lifestyle subtype %q", ErrInvalidEntry, l.Subtype)
	}
	return nil
}

func validScore(v int) bool {
	return v >= minScore && v <= maxScore
}

// NotesOf 返回任意记录的备注。
func NotesOf(e Entry) *string {
	switch v := e.(type) {
	case Symptom:
		return v.Notes
	case Treatment:
		return v.Notes
	case Lifestyle:
		return v.Notes
	}
	return nil
}

// Ptr 便于构造可选字段。
func Ptr[T any](v T) *T {
	return &v
}
