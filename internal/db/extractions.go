package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultListLimit and MaxListLimit bound ListExtractions page sizes.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Extraction is a stored resume extraction
type Extraction struct {
	ID          uuid.UUID      `json:"id"`
	FileName    string         `json:"file_name"`
	FileHash    string         `json:"file_hash"`
	Pages       int            `json:"pages"`
	SourceChars int            `json:"source_chars"`
	Model       string         `json:"model"`
	Result      map[string]any `json:"result"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ExtractionSummary is a list row without the result payload
type ExtractionSummary struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	FileHash  string    `json:"file_hash"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveExtraction stores an extraction and fills in its ID and creation time
func (db *DB) SaveExtraction(ctx context.Context, e *Extraction) error {
	if e.FileHash == "" {
		return fmt.Errorf("failed to save extraction: file hash is required")
	}

	resultJSON, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction result: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_extractions (file_name, file_hash, pages, source_chars, model, result)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		e.FileName, e.FileHash, e.Pages, e.SourceChars, e.Model, resultJSON,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}
	return nil
}

// GetExtraction retrieves an extraction by ID. Returns nil, nil when not found.
func (db *DB) GetExtraction(ctx context.Context, id uuid.UUID) (*Extraction, error) {
	var e Extraction
	var resultJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, file_name, file_hash, pages, source_chars, model, result, created_at
		 FROM resume_extractions WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.FileName, &e.FileHash, &e.Pages, &e.SourceChars, &e.Model, &resultJSON, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &e.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction result: %w", err)
	}
	return &e, nil
}

// FindByHash returns the most recent extraction of an identical upload.
// Returns nil, nil when the file was never processed.
func (db *DB) FindByHash(ctx context.Context, fileHash string) (*Extraction, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM resume_extractions WHERE file_hash = $1
		 ORDER BY created_at DESC LIMIT 1`,
		fileHash,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find extraction by hash: %w", err)
	}
	return db.GetExtraction(ctx, id)
}

// ListExtractions retrieves recent extractions, newest first
func (db *DB) ListExtractions(ctx context.Context, limit, offset int) ([]ExtractionSummary, error) {
	limit, offset = ClampPage(limit, offset)

	rows, err := db.pool.Query(ctx,
		`SELECT id, file_name, file_hash, model, created_at
		 FROM resume_extractions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExtractionSummary, error) {
		var s ExtractionSummary
		err := row.Scan(&s.ID, &s.FileName, &s.FileHash, &s.Model, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan extractions: %w", err)
	}
	return summaries, nil
}

// ClampPage applies the default and maximum page size and rejects negative offsets.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return min(limit, MaxListLimit), max(offset, 0)
}
