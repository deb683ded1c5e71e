package healthlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNothingToExport 表示没有可导出的记录，调用方应提示用户而非视为故障。
var ErrNothingToExport = errors.New("there is no data to export")

// CSVContentType 是导出文件的 MIME 类型。
const CSVContentType = "text/csv; charset=utf-8"

// ExportTimeFormat 为导出时间戳的 ISO-8601 格式（UTC，毫秒精度）。
const ExportTimeFormat = "2006-01-02T15:04:05.000Z"

// ExportColumns 是导出 CSV 的固定列顺序。
var ExportColumns = []string{
	"id", "timestamp", "type", "name", "severity", "notes",
	"dosage", "subtype", "quality", "duration", "item",
	"exerciseType", "exerciseDuration",
}

// ExportCSV 将记录按输入顺序展开为固定列的 CSV 文本。
// 表头不加引号；每个字段按 JSON 字符串规则转义并加引号，不适用的列输出 ""。
func ExportCSV(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNothingToExport
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, strings.Join(ExportColumns, ","))

	for _, e := range entries {
		row := exportRow(e)
		fields := make([]string, 0, len(ExportColumns))
		for _, column := range ExportColumns {
			encoded, err := quoteField(row[column])
			if err != nil {
				return "", fmt.Errorf("encode %s of entry %s: %w", column, e.EntryID(), err)
			}
			fields = append(fields, encoded)
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n"), nil
}

// ExportFileName 生成 <prefix>_export_<YYYY-MM-DD>.csv。
func ExportFileName(prefix string, now time.Time) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "chronitrack"
	}
	return fmt.Sprintf("%s_export_%s.csv", prefix, now.UTC().Format(DateFormat))
}

func exportRow(e Entry) map[string]string {
	row := map[string]string{
		"id":        e.EntryID(),
		"timestamp": e.EntryTime().UTC().Format(ExportTimeFormat),
		"type":      string(e.Type()),
		"notes":     deref(NotesOf(e)),
	}

	switch v := e.(type) {
	case Symptom:
		row["name"] = v.Name
		row["severity"] = strconv.Itoa(v.Severity)
	case Treatment:
		row["name"] = v.Name
		row["dosage"] = v.Dosage
	case Lifestyle:
		row["subtype"] = string(v.Subtype)
		if v.Quality != nil {
			row["quality"] = strconv.Itoa(*v.Quality)
		}
		if v.Duration != nil {
			row["duration"] = strconv.FormatFloat(*v.Duration, 'f', -1, 64)
		}
		row["item"] = deref(v.Item)
		row["exerciseType"] = deref(v.ExerciseType)
		if v.ExerciseDuration != nil {
			row["exerciseDuration"] = strconv.Itoa(*v.ExerciseDuration)
		}
	}

	return row
}

// quoteField 按 JSON 字符串规则编码，保留 <、>、& 原样。
func quoteField(value string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
