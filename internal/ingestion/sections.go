package ingestion

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxChars is the character budget of the text sent to the model.
const DefaultMaxChars = 6000

// HeaderSection holds the text before the first recognized heading.
const HeaderSection = "Header"

// headingTokens are the section headings recognized in resume text.
// "Experience" precedes "Work Experience" so both match at their own offsets.
var headingTokens = []string{
	"Education", "Experience", "Work Experience",
	"Projects", "Skills", "Technical Skills",
	"Honors", "Awards", "Achievements",
	"Certifications", "Publications",
}

type sectionLimit struct {
	lines     int
	sentences int
}

var sectionLimits = map[string]sectionLimit{
	HeaderSection:    {6, 6},
	"Skills":         {10, 10},
	"Experience":     {22, 18},
	"Projects":       {20, 16},
	"Education":      {12, 12},
	"Honors":         {8, 6},
	"Certifications": {8, 6},
	"Publications":   {8, 6},
}

var sectionPriority = []string{
	HeaderSection, "Skills", "Experience", "Projects",
	"Education", "Honors", "Certifications", "Publications",
}

var (
	headingAlternation = buildHeadingAlternation()

	// heading glued to a following capital or digit: "EducationRCC"
	gluedAfterPattern = regexp.MustCompile(`\b((?i:` + headingAlternation + `))([A-Z0-9])`)
	headingWordPattern = regexp.MustCompile(`(?i)\b(?:` + headingAlternation + `)\b`)
	// heading followed by junk such as "Skills:" or "Honors /"
	headingJunkPattern = regexp.MustCompile(`(?i)\b(` + headingAlternation + `)\b\s*[:/\\\-]?\s*`)
	blankRunPattern    = regexp.MustCompile(`\n{3,}`)
)

func buildHeadingAlternation() string {
	quoted := make([]string, len(headingTokens))
	for i, h := range headingTokens {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return strings.Join(quoted, "|")
}

// DeglueHeadings puts every recognized heading on its own line, fixing text
// such as "...coderEducationRCC" that PDF extraction runs together.
func DeglueHeadings(text string) string {
	text = gluedAfterPattern.ReplaceAllString(text, "$1\n$2")
	text = breakBeforeHeadings(text)
	text = headingJunkPattern.ReplaceAllString(text, "$1\n")
	return blankRunPattern.ReplaceAllString(text, "\n\n")
}

// breakBeforeHeadings inserts a newline before headings that do not start a line.
func breakBeforeHeadings(text string) string {
	matches := headingWordPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(matches))
	prev := 0
	for _, m := range matches {
		start := m[0]
		sb.WriteString(text[prev:start])
		if start > 0 && text[start-1] != '\n' {
			sb.WriteByte('\n')
		}
		prev = start
	}
	sb.WriteString(text[prev:])
	return sb.String()
}

// Sections is resume text keyed by normalized heading, in order of first appearance.
type Sections struct {
	names  []string
	bodies map[string]string
}

// Names returns the section names in order of first appearance.
func (s *Sections) Names() []string {
	return append([]string(nil), s.names...)
}

// Get returns the body of a section.
func (s *Sections) Get(name string) (string, bool) {
	body, ok := s.bodies[name]
	return body, ok
}

func (s *Sections) add(name, body string) {
	if existing, ok := s.bodies[name]; ok {
		s.bodies[name] = existing + "\n" + body
		return
	}
	s.names = append(s.names, name)
	s.bodies[name] = body
}

// SplitSections splits text at recognized headings. Text before the first
// heading becomes the Header section. Repeated headings are concatenated.
func SplitSections(text string) *Sections {
	s := &Sections{bodies: make(map[string]string)}

	matches := headingWordPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		if body := strings.TrimSpace(text); body != "" {
			s.add(HeaderSection, body)
		}
		return s
	}

	if header := strings.TrimSpace(text[:matches[0][0]]); header != "" {
		s.add(HeaderSection, header)
	}

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		heading := normalizeHeading(text[m[0]:m[1]])
		s.add(heading, strings.TrimSpace(text[m[1]:end]))
	}
	return s
}

// normalizeHeading maps heading variants onto the canonical section names.
func normalizeHeading(raw string) string {
	// Casers keep state, so one is built per call.
	heading := cases.Title(language.English).String(strings.TrimSpace(raw))
	switch {
	case strings.Contains(heading, "Experience"):
		return "Experience"
	case strings.Contains(heading, "Education"):
		return "Education"
	case strings.Contains(heading, "Project"):
		return "Projects"
	case strings.Contains(heading, "Skill"):
		return "Skills"
	case strings.Contains(heading, "Honor"),
		strings.Contains(heading, "Award"),
		strings.Contains(heading, "Achievement"):
		return "Honors"
	case strings.Contains(heading, "Certification"):
		return "Certifications"
	case strings.Contains(heading, "Publication"):
		return "Publications"
	default:
		return heading
	}
}

// ShortenSections renders sections in priority order, each cut to its line
// and sentence limits, and caps the result at maxChars characters, cutting
// back to the last period or newline when possible.
func ShortenSections(s *Sections, maxChars int) string {
	used := make(map[string]bool, len(sectionPriority))
	blocks := make([]string, 0, len(s.names))

	for _, name := range sectionPriority {
		body, ok := s.bodies[name]
		if !ok {
			continue
		}
		used[name] = true

		limit := sectionLimits[name]
		block := limitSentences(limitLines(body, limit.lines), limit.sentences)
		if name != HeaderSection {
			block = name + ":\n" + block
		}
		blocks = append(blocks, block)
	}

	for _, name := range s.names {
		if body := strings.TrimSpace(s.bodies[name]); !used[name] && body != "" {
			blocks = append(blocks, name+":\n"+body)
		}
	}

	final := strings.TrimSpace(strings.Join(blocks, "\n\n"))
	return capChars(final, maxChars)
}

func capChars(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	text = string(runes[:maxChars])
	cut := max(strings.LastIndexByte(text, '.'), strings.LastIndexByte(text, '\n'))
	if cut > 0 {
		text = text[:cut+1]
	}
	return text
}

func limitLines(block string, maxLines int) string {
	lines := make([]string, 0, maxLines)
	for _, line := range strings.Split(block, "\n") {
		if len(lines) == maxLines {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// limitSentences keeps the first maxItems sentences. A sentence ends at
// '.', '!' or '?' followed by whitespace.
func limitSentences(block string, maxItems int) string {
	parts := splitSentences(block)
	kept := make([]string, 0, maxItems)
	for _, p := range parts {
		if len(kept) == maxItems {
			break
		}
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func splitSentences(block string) []string {
	var parts []string
	start := 0
	runes := []rune(block)
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		parts = append(parts, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
