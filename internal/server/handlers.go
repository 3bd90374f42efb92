package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/schemas"
)

const (
	// uploadField is the multipart field carrying the PDF
	uploadField = "pdf"
	// minSourceChars is the shortest extracted text worth sending to the model
	minSourceChars = 10
	// multipartOverhead allows for boundaries and headers around the file
	multipartOverhead = 64 << 10
	// multipartMemory is held in memory before spilling to temp files
	multipartMemory = 8 << 20
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Storage bool   `json:"storage"`
	Auth    bool   `json:"auth"`
}

// ExtractionListResponse is the body of GET /extractions
type ExtractionListResponse struct {
	Extractions []db.ExtractionSummary `json:"extractions"`
	Limit       int                    `json:"limit"`
	Offset      int                    `json:"offset"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Model:   s.client.GetModel(llm.TierStandard),
		Storage: s.store != nil,
		Auth:    s.jwtService != nil,
	})
}

// handleSchema returns the JSON Schema of /process responses, or the
// example document sent to the model with ?format=example
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("format") {
	case "", "jsonschema":
		s.jsonResponse(w, http.StatusOK, schemas.JSONSchema(schemas.Resume))
	case "example":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, schemas.Resume.ExampleJSON()+"\n")
	default:
		s.errorFromErr(w, r, &ErrValidation{Field: "format", Message: "must be jsonschema or example"})
	}
}

// handleProcess extracts text from an uploaded PDF and returns the
// normalized resume JSON
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	data, fileName, err := s.readUpload(w, r)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	extraction, err := ingestion.ExtractPDFText(data, ingestion.ExtractOptions{
		MaxPages: s.cfg.MaxPages,
		MaxChars: s.cfg.MaxChars,
		Logger:   logger,
	})
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	extraction.Metadata.FileName = fileName

	if utf8.RuneCountInString(strings.TrimSpace(extraction.Text)) < minSourceChars {
		s.errorFromErr(w, r, errInsufficientText)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.GenerationTimeout)
	defer cancel()

	resume, err := parsing.BuildResume(ctx, s.client, extraction.Text,
		parsing.WithLogger(logger),
		parsing.WithCanonicalSkills(s.cfg.CanonicalSkills),
	)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	if s.store != nil {
		record := &db.Extraction{
			FileName:    fileName,
			FileHash:    extraction.Metadata.Hash,
			Pages:       extraction.Metadata.Pages,
			SourceChars: extraction.Metadata.SourceChars,
			Model:       s.client.GetModel(llm.TierStandard),
			Result:      resume,
		}
		// The upload already succeeded; a storage failure only loses history
		if err := s.store.SaveExtraction(r.Context(), record); err != nil {
			logger.WithError(err).Warn("failed to store extraction")
		} else {
			w.Header().Set("X-Extraction-ID", record.ID.String())
		}
	}

	logger.WithField("fields", len(resume)).Info("resume extracted")
	s.jsonResponse(w, http.StatusOK, resume)
}

// readUpload returns the bytes and name of the uploaded PDF, enforcing the
// size limit and the .pdf extension.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	limit := s.cfg.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, "", &ErrPayloadTooLarge{Limit: limit}
		}
		return nil, "", &ErrValidation{Field: uploadField, Message: "expected a multipart/form-data upload"}
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, "", &ErrValidation{Field: uploadField, Message: "no PDF file provided"}
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return nil, "", &ErrValidation{Field: uploadField, Message: "file must be a PDF"}
	}
	if header.Size > limit {
		return nil, "", &ErrPayloadTooLarge{Limit: limit}
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > limit {
		return nil, "", &ErrPayloadTooLarge{Limit: limit}
	}
	return data, filepath.Base(header.Filename), nil
}

// handleGetExtraction returns a stored extraction
func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, r, errStorageDisabled)
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorFromErr(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	extraction, err := s.store.GetExtraction(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if extraction == nil {
		s.errorFromErr(w, r, &ErrNotFound{ID: idStr})
		return
	}

	s.jsonResponse(w, http.StatusOK, extraction)
}

// handleListExtractions returns recent extractions without their payloads
func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, r, errStorageDisabled)
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	limit, offset = db.ClampPage(limit, offset)

	extractions, err := s.store.ListExtractions(r.Context(), limit, offset)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if extractions == nil {
		extractions = []db.ExtractionSummary{}
	}

	s.jsonResponse(w, http.StatusOK, ExtractionListResponse{
		Extractions: extractions,
		Limit:       limit,
		Offset:      offset,
	})
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
