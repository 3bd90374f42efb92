// Package ingestion extracts resume text from PDF documents and prepares it
// for the model: artifact cleanup, section detection and a character budget.
package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotPDF is returned when the data does not start with a PDF header
	ErrNotPDF = errors.New("not a PDF document")
	// ErrTooManyPages is returned when the document exceeds ExtractOptions.MaxPages
	ErrTooManyPages = errors.New("PDF has too many pages")
	// ErrNoText is returned when no page yields text, e.g. scanned documents
	ErrNoText = errors.New("no extractable text in PDF")
)

// ExtractionError wraps failures reading a PDF
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("PDF extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("PDF extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ExtractOptions bounds the work done on an uploaded document.
type ExtractOptions struct {
	// MaxPages rejects longer documents; zero disables the check
	MaxPages int
	// MaxChars is the budget of the prepared text; zero means DefaultMaxChars
	MaxChars int
	Logger   logrus.FieldLogger
}

// Extraction is the text of a PDF prepared for the model
type Extraction struct {
	// Text is the cleaned, sectioned and shortened text
	Text string
	// RawText is the page text as extracted, pages joined by newlines
	RawText  string
	Metadata *Metadata
}

// ExtractPDFText extracts page text from data and prepares it for the model.
func ExtractPDFText(data []byte, opts ExtractOptions) (*Extraction, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF")) {
		return nil, &ExtractionError{Message: "invalid document", Cause: ErrNotPDF}
	}

	pageCount := 0
	if opts.MaxPages > 0 {
		n, err := PageCount(data)
		if err != nil {
			// pdfcpu is stricter than the text extractor; carry on without a count
			logger.WithError(err).Warn("could not count PDF pages")
		} else {
			pageCount = n
			if n > opts.MaxPages {
				return nil, &ExtractionError{
					Message: fmt.Sprintf("%d pages, at most %d allowed", n, opts.MaxPages),
					Cause:   ErrTooManyPages,
				}
			}
		}
	}

	pages, err := extractPages(data, logger)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		pageCount = len(pages)
	}

	raw := strings.Join(pages, "\n")
	if strings.TrimSpace(raw) == "" {
		return nil, &ExtractionError{Message: "document has no text layer", Cause: ErrNoText}
	}

	text, sections := PrepareText(raw, opts.MaxChars)

	meta := NewMetadata(data, "")
	meta.Pages = pageCount
	meta.RawChars = len([]rune(raw))
	meta.SourceChars = len([]rune(text))
	meta.Sections = sections

	logger.WithFields(logrus.Fields{
		"pages":        pageCount,
		"raw_chars":    meta.RawChars,
		"source_chars": meta.SourceChars,
		"sections":     sections,
	}).Debug("extracted PDF text")

	return &Extraction{Text: text, RawText: raw, Metadata: meta}, nil
}

// PageCount returns the number of pages reported by the document structure.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// extractPages returns the plain text of every page. Pages that fail to
// decode are logged and skipped. The PDF reader panics on some malformed
// input; that is reported as an ExtractionError.
func extractPages(data []byte, logger logrus.FieldLogger) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &ExtractionError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Message: "could not open PDF", Cause: err}
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.WithError(err).WithField("page", i).Warn("skipping unreadable PDF page")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
