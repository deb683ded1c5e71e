package service

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

const maxEnvironmentLogRunes = 512

// logEnvironmentExchange 记录环境数据请求的一次往返，按地点归类便于排查模型输出。
func logEnvironmentExchange(phase, location, content string) {
	log.Print(formatEnvironmentExchange(phase, location, content))
}

// formatEnvironmentExchange 把内容压成单行，超长时截断。
func formatEnvironmentExchange(phase, location, content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	if flat == "" {
		return fmt.Sprintf("[AI ENV] %s location=%q: <empty>", phase, location)
	}

	runeCount := utf8.RuneCountInString(flat)
	if runeCount > maxEnvironmentLogRunes {
		flat = truncateRunes(flat, maxEnvironmentLogRunes) + "…(truncated)"
	}
	return fmt.Sprintf("[AI ENV] %s location=%q runes=%d: %s", phase, location, runeCount, flat)
}
