package view

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// DisplayTimeFormat 是仪表盘中记录时间的展示格式。
const DisplayTimeFormat = "Jan 2, 2006 15:04 MST"

// FuncMap 返回模板中使用的辅助函数。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"icon":  EntryIconSVG,
		"notes": RenderNotes,
		"formatTime": func(t time.Time) string {
			return t.UTC().Format(DisplayTimeFormat)
		},
		"optInt": func(v *int) string {
			if v == nil {
				return "-"
			}
			return strconv.Itoa(*v)
		},
		"optFloat": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return strconv.FormatFloat(*v, 'f', -1, 64)
		},
		"optString": func(v *string) string {
			if v == nil || *v == "" {
				return "-"
			}
			return *v
		},
	}
}

// Templates 解析内嵌的全部页面模板。
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
