package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeglueHeadings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "heading glued to following capital",
			input:    "EducationRCC Institute",
			expected: "Education\nRCC Institute",
		},
		{
			name:     "heading inside a line moves to its own line",
			input:    "Jane Doe Skills Go, Python",
			expected: "Jane Doe \nSkills\nGo, Python",
		},
		{
			name:     "colon junk removed",
			input:    "Skills: Go",
			expected: "Skills\nGo",
		},
		{
			name:     "slash junk removed",
			input:    "Honors / Dean's list",
			expected: "Honors\nDean's list",
		},
		{
			name:     "lowercase continuation is not split",
			input:    "Educational Services",
			expected: "Educational Services",
		},
		{
			name:     "blank runs collapsed",
			input:    "Header\n\n\n\nProjects\nX",
			expected: "Header\n\nProjects\nX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeglueHeadings(tt.input))
		})
	}
}

func TestSplitSections(t *testing.T) {
	text := "Jane Doe\njane@example.com\n" +
		"WORK EXPERIENCE\nAcme\n" +
		"Technical Skills\nGo\n" +
		"Awards\nHackathon winner\n" +
		"Experience\nGlobex"

	s := SplitSections(text)

	assert.Equal(t, []string{"Header", "Experience", "Skills", "Honors"}, s.Names())

	header, ok := s.Get("Header")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe\njane@example.com", header)

	experience, _ := s.Get("Experience")
	assert.Equal(t, "Acme\nGlobex", experience)

	honors, _ := s.Get("Honors")
	assert.Equal(t, "Hackathon winner", honors)
}

func TestSplitSections_NoHeadings(t *testing.T) {
	s := SplitSections("just a name")
	assert.Equal(t, []string{"Header"}, s.Names())

	assert.Empty(t, SplitSections("   ").Names())
}

func TestNormalizeHeading(t *testing.T) {
	tests := map[string]string{
		"work experience":  "Experience",
		"EDUCATION":        "Education",
		"projects":         "Projects",
		"Technical Skills": "Skills",
		"achievements":     "Honors",
		"Awards":           "Honors",
		"certifications":   "Certifications",
		"PUBLICATIONS":     "Publications",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, normalizeHeading(input), input)
	}
}

func TestShortenSections_PriorityAndLimits(t *testing.T) {
	s := &Sections{bodies: map[string]string{}}
	s.add("Education", "State University")
	s.add("Skills", strings.Repeat("skill\n", 15))
	s.add(HeaderSection, "Jane Doe")

	out := ShortenSections(s, DefaultMaxChars)

	assert.True(t, strings.HasPrefix(out, "Jane Doe\n\nSkills:\n"))
	assert.Less(t, strings.Index(out, "Skills:"), strings.Index(out, "Education:"))
	assert.Equal(t, 10, strings.Count(out, "skill"))
}

func TestShortenSections_UnknownSectionsAppended(t *testing.T) {
	s := &Sections{bodies: map[string]string{}}
	s.add("Volunteering", "Food bank")
	s.add("Skills", "Go")

	out := ShortenSections(s, DefaultMaxChars)
	assert.Equal(t, "Skills:\nGo\n\nVolunteering:\nFood bank", out)
}

func TestLimitSentences(t *testing.T) {
	assert.Equal(t, "One. Two!", limitSentences("One. Two! Three? Four.", 2))
	assert.Equal(t, "No punctuation\nhere", limitSentences("No punctuation\nhere", 1))
	assert.Equal(t, "v1.2 shipped.", limitSentences("v1.2 shipped.   Next.", 1))
}

func TestLimitLines(t *testing.T) {
	assert.Equal(t, "a\nb", limitLines("  a \n\n b\nc", 2))
}

func TestCapChars(t *testing.T) {
	assert.Equal(t, "short", capChars("short", 10))
	assert.Equal(t, "One.", capChars("One. Two three four", 10))
	assert.Equal(t, "abcdef", capChars("abcdefghij", 6))
	assert.Equal(t, "é\n", capChars("é\néé", 3))
}
