package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Control characters except tab and newline, C1 controls, private use area.
	badCharsPattern = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F-\x9F\x{E000}-\x{F8FF}]`)
	bulletPattern   = regexp.MustCompile(`[•●▪◦·■□★◆►▶]`)

	// "linkedin . com" and "github .com/x"
	spacedDotPattern = regexp.MustCompile(`([A-Za-z0-9\-])\s+\.\s*([A-Za-z0-9\-])`)
	// "linkedin. com"; restricted to common TLDs so sentence ends survive
	spacedTLDPattern = regexp.MustCompile(`([A-Za-z0-9\-])\.\s+(com|org|net|io|dev|edu|ai|app)\b`)
	schemeGapPattern = regexp.MustCompile(`(https?://)\s+`)
	slashGapPattern  = regexp.MustCompile(`/\s+([A-Za-z0-9])`)

	horizontalSpacePattern = regexp.MustCompile(`[ \t]+`)
	lineBreakPattern       = regexp.MustCompile(`\s*\n\s*`)
)

var typographicReplacer = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`,
	"\u2018", "'", "\u2019", "'",
	"\u2014", "-", "\u2013", "-",
	"\u00a0", " ", "\u200b", "", "\ufeff", "",
)

// StripBadChars removes invalid UTF-8, control characters other than tab and
// newline, and private-use code points that PDF fonts leave behind.
func StripBadChars(content string) string {
	content = strings.ToValidUTF8(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return badCharsPattern.ReplaceAllString(content, "")
}

// CleanText repairs common PDF extraction artifacts: typographic quotes and
// dashes, bullet glyphs, URLs split by spaces. Whitespace is collapsed to
// single spaces and single newlines.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = typographicReplacer.Replace(content)
	content = bulletPattern.ReplaceAllString(content, " ")

	content = spacedDotPattern.ReplaceAllString(content, "$1.$2")
	content = spacedTLDPattern.ReplaceAllString(content, "$1.$2")
	content = schemeGapPattern.ReplaceAllString(content, "$1")
	content = slashGapPattern.ReplaceAllString(content, "/$1")

	content = horizontalSpacePattern.ReplaceAllString(content, " ")
	content = lineBreakPattern.ReplaceAllString(content, "\n")
	return strings.TrimSpace(content)
}

// PrepareText runs the whole cleanup on raw page text and shortens the
// result to at most maxChars characters (DefaultMaxChars when zero).
func PrepareText(raw string, maxChars int) (string, []string) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text := StripBadChars(raw)
	text = CleanText(text)
	text = DeglueHeadings(text)
	sections := SplitSections(text)
	return ShortenSections(sections, maxChars), sections.Names()
}

// ExtractFromFile reads a PDF, extracts its text and returns it with metadata
func ExtractFromFile(path string, opts ExtractOptions) (*Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	extraction, err := ExtractPDFText(data, opts)
	if err != nil {
		return nil, err
	}
	extraction.Metadata.FileName = filepath.Base(path)
	return extraction, nil
}

// WriteOutput writes the extracted text and metadata to outDir
func WriteOutput(outDir string, extraction *Extraction) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	textPath := filepath.Join(outDir, "resume.extracted.txt")
	if err := os.WriteFile(textPath, []byte(extraction.Text), 0644); err != nil {
		return fmt.Errorf("failed to write extracted text file: %w", err)
	}

	metaPath := filepath.Join(outDir, "resume.meta.json")
	metaJSON, err := extraction.Metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
