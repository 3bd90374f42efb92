package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an uploaded resume and the text extracted from it
type Metadata struct {
	FileName    string   `json:"file_name,omitempty"`
	Timestamp   string   `json:"timestamp"`          // RFC3339 format
	Hash        string   `json:"hash"`               // SHA256 hex digest of the upload
	Pages       int      `json:"pages"`              // Page count of the document
	RawChars    int      `json:"raw_chars"`          // Characters extracted before cleanup
	SourceChars int      `json:"source_chars"`       // Characters sent to the model
	Sections    []string `json:"sections,omitempty"` // Detected section names
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(data []byte, fileName string) *Metadata {
	return &Metadata{
		FileName:  fileName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(data),
	}
}

// ComputeHash computes the SHA256 hash of data and returns it hex encoded
func ComputeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
