package logger

import (
	"strings"

	"go.uber.org/zap"
)

const ellipsis = "..."

// Preview cuts s to at most limit runes after trimming it and marks the cut
// with an ellipsis. A non-positive limit yields an empty preview.
func Preview(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > limit {
		return string(runes[:limit]) + ellipsis
	}
	return s
}

// PreviewField is a zap field holding a Preview of s.
func PreviewField(key, s string, limit int) zap.Field {
	return zap.String(key, Preview(s, limit))
}
