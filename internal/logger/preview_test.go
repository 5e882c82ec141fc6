package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "8/10 strong overlap", limit: 0, expect: ""},
		{name: "shorter than limit", input: "8/10", limit: 10, expect: "8/10"},
		{name: "cut with ellipsis", input: "8/10 strong overlap", limit: 4, expect: "8/10..."},
		{name: "trims first", input: "  Python, SQL  ", limit: 6, expect: "Python..."},
		{name: "counts runes", input: "Робототехника", limit: 5, expect: "Робот..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Preview(tt.input, tt.limit))
		})
	}
}

func TestPreviewField(t *testing.T) {
	field := PreviewField("prompt_preview", "Expert Skills: Python", 6)

	assert.Equal(t, "prompt_preview", field.Key)
	assert.Equal(t, "Expert...", field.String)
}
