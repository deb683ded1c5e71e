package view

import (
	"html/template"
	"strings"
)

type entryIconAsset struct {
	Key   string
	SVG   string
	Label string
}

var (
	entryIconDefinitions = []entryIconAsset{
		{Key: "symptom", Label: "Symptom", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M21 8.25c0-2.485-2.099-4.5-4.688-4.5-1.935 0-3.597 1.126-4.312 2.733-.715-1.607-2.377-2.733-4.313-2.733C5.1 3.75 3 5.765 3 8.25c0 7.22 9 12 9 12s9-4.78 9-12Z"/><path d="M7.5 12h2.25l1.5-3 1.5 6 1.5-3h2.25"/></svg>`},
		{Key: "treatment", Label: "Treatment", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="m10.5 20.5-7-7a4.95 4.95 0 0 1 7-7l7 7a4.95 4.95 0 0 1-7 7Z"/><path d="m8.5 8.5 7 7"/></svg>`},
		{Key: "diet", Label: "Diet", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M6 3v7.5a2.25 2.25 0 0 0 4.5 0V3M8.25 3v18M17.25 21V3c-1.657 0-3 2.015-3 4.5v5.25h3"/></svg>`},
		{Key: "exercise", Label: "Exercise", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M3.75 9v6M20.25 9v6M6.75 6.75v10.5M17.25 6.75v10.5M6.75 12h10.5"/></svg>`},
		{Key: "sleep", Label: "Sleep", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M21.752 15.002A9.72 9.72 0 0 1 18 15.75c-5.385 0-9.75-4.365-9.75-9.75 0-1.33.266-2.597.748-3.752A9.753 9.753 0 0 0 3 11.25C3 16.635 7.365 21 12.75 21a9.753 9.753 0 0 0 9.002-5.998Z"/></svg>`},
	}
	defaultEntryIcon = entryIconAsset{Key: "default", Label: "Entry", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M19.5 14.25v-2.625a3.375 3.375 0 0 0-3.375-3.375h-1.5A1.125 1.125 0 0 1 13.5 7.125v-1.5a3.375 3.375 0 0 0-3.375-3.375H8.25M9 16.5h6M9 12.75h3M10.5 2.25H5.625c-.621 0-1.125.504-1.125 1.125v17.25c0 .621.504 1.125 1.125 1.125h12.75c.621 0 1.125-.504 1.125-1.125V11.25a9 9 0 0 0-9-9Z"/></svg>`}
	entryIconLookup  = func() map[string]entryIconAsset {
		lookup := make(map[string]entryIconAsset, len(entryIconDefinitions)+1)
		for _, icon := range entryIconDefinitions {
			lookup[icon.Key] = icon
		}
		lookup[defaultEntryIcon.Key] = defaultEntryIcon
		return lookup
	}()
)

// EntryIconSVG 按记录类型或生活方式子类返回图标，未知键回退默认图标。
func EntryIconSVG(key string) template.HTML {
	trimmed := strings.ToLower(strings.TrimSpace(key))
	if icon, ok := entryIconLookup[trimmed]; ok {
		return template.HTML(icon.SVG)
	}
	return template.HTML(defaultEntryIcon.SVG)
}
