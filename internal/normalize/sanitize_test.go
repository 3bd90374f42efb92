package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  any
	}{
		{"score strips percent", "score", "96%", "96"},
		{"score strips every percent and spaces", "score", " 9.1 %% ", "9.1"},
		{"score leaves numbers alone", "score", 96.0, 96.0},
		{"startDate completes month", "startDate", "2022-08", "2022-08-01"},
		{"startDate full date unchanged", "startDate", "2022-08-01", "2022-08-01"},
		{"endDate short string unchanged", "endDate", "2022", "2022"},
		{"endDate present is seven chars", "endDate", "Present", "Present-01"},
		{"issueDate completes month", "issueDate", "2021-11", "2021-11-01"},
		{"startDate null unchanged", "startDate", nil, nil},
		{"socials non sequence becomes empty", "socials", "github.com/x", []any{}},
		{"links sequence unchanged", "links", []any{"a"}, []any{"a"}},
		{"skillName number becomes empty", "skillName", 3.0, ""},
		{"skillName string unchanged", "skillName", "Go", "Go"},
		{"unknown field unchanged", "fullName", 42.0, 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.field, tt.value))
		})
	}
}

func TestSanitizerFor(t *testing.T) {
	fn, ok := SanitizerFor("score")
	assert.True(t, ok)
	assert.Equal(t, "80", fn("80%"))

	_, ok = SanitizerFor("companyName")
	assert.False(t, ok)
}
