package parsing

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go lang", "Go"},
		{"JS to JavaScript uppercase", "JS", "JavaScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"postgres to PostgreSQL", "Postgres", "PostgreSQL"},
		{"python to Python", "python", "Python"},
		{"non-ASCII first letter", "élixir", "Élixir"},
		{"non-Latin word", "ärlang", "Ärlang"},
		{"hyphenated keeps rest", "scikit-learn", "Scikit-learn"},
		{"acronym kept", "GRPC", "GRPC"},
		{"sql uppercased", "sql", "SQL"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Trimmed", "  Go ", "Go"},
		{"Multi-word stays as-is", "distributed systems", "distributed systems"},
		{"Mixed case single word", "JavaScript", "JavaScript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSkillName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got), "invalid UTF-8: %q", got)
		})
	}
}

func TestCanonicalizeSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			name: "normalize and deduplicate",
			input: map[string]any{"skills": []any{
				map[string]any{"skillName": "Go"},
				map[string]any{"skillName": "golang"},
				map[string]any{"skillName": "js"},
				map[string]any{"skillName": "JavaScript"},
			}},
			expected: map[string]any{"skills": []any{
				map[string]any{"skillName": "Go"},
				map[string]any{"skillName": "JavaScript"},
			}},
		},
		{
			name:     "no skills untouched",
			input:    map[string]any{"resumeTitle": "x"},
			expected: map[string]any{"resumeTitle": "x"},
		},
		{
			name: "all blank removes key",
			input: map[string]any{"resumeTitle": "x", "skills": []any{
				map[string]any{"skillName": " "},
			}},
			expected: map[string]any{"resumeTitle": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			CanonicalizeSkills(tt.input)
			assert.Equal(t, tt.expected, tt.input)
		})
	}
}
