package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested CV upload
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	Size      int    `json:"size"`      // Original upload size in bytes
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename string, data []byte) *Metadata {
	return &Metadata{
		Filename:  filename,
		Size:      len(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(data),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(data []byte) string {
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
