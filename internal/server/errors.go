package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPayloadTooLarge indicates an upload over the configured size limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("file exceeds the %d byte upload limit", e.Limit)
}

// ErrNotFound indicates a stored extraction does not exist
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("extraction not found: %s", e.ID)
}

// errStorageDisabled is returned by storage endpoints when no database is configured
var errStorageDisabled = errors.New("extraction storage is not configured")

// errInsufficientText is returned when the PDF yields too little text to parse
var errInsufficientText = errors.New("could not extract sufficient text from PDF")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		tooLargeErr   *ErrPayloadTooLarge
		notFoundErr   *ErrNotFound
		maxBytesErr   *http.MaxBytesError
		apiErr        *parsing.APICallError
	)

	switch {
	case errors.As(err, &validationErr), errors.Is(err, ingestion.ErrNotPDF):
		return http.StatusBadRequest
	case errors.As(err, &tooLargeErr), errors.As(err, &maxBytesErr), errors.Is(err, ingestion.ErrTooManyPages):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.Is(err, parsing.ErrNoUsableData), errors.Is(err, ingestion.ErrNoText), errors.Is(err, errInsufficientText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errStorageDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &apiErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text returned to API clients. Internal details
// of backend and schema failures stay in the logs.
func publicMessage(err error) string {
	var apiErr *parsing.APICallError
	var schemaErr *parsing.ValidationError

	switch {
	case errors.Is(err, parsing.ErrNoUsableData):
		return "No usable resume data could be extracted"
	case errors.Is(err, ingestion.ErrNoText), errors.Is(err, errInsufficientText):
		return "Could not extract sufficient text from PDF"
	case errors.Is(err, ingestion.ErrNotPDF):
		return "File must be a PDF"
	case errors.As(err, &apiErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return "Resume generation timed out"
		}
		return "Resume generation failed"
	case errors.As(err, &schemaErr):
		return "Generated resume failed schema validation"
	}

	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "Error processing PDF"
	default:
		return err.Error()
	}
}
