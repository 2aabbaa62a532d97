package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/timebox/internal/models"
)

// EncodeDocument serializes the whole document as indented JSON.
func EncodeDocument(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to serialize storage: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses persisted bytes. The result is not normalized.
func DecodeDocument(data []byte) (*models.Document, error) {
	doc := &models.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	return doc, nil
}
