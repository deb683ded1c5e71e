package view

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RenderNotes 把记录备注按 Markdown 渲染并清洗，nil 或空白备注返回空串。
func RenderNotes(notes *string) template.HTML {
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return ""
	}
	rendered, err := renderMarkdown(*notes)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(*notes))
	}
	return rendered
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
