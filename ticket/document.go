package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document is the on-disk layout of the store file.
type Document struct {
	Tickets []Ticket `json:"tickets"`

	// Epics is reserved. Its contents are carried through rewrites untouched.
	Epics []json.RawMessage `json:"epics"`
}

// EmptyDocument is the canonical serialization of an empty store.
var EmptyDocument = []byte("{\n  \"tickets\": [],\n  \"epics\": []\n}\n")

// isBlank reports whether data holds nothing but whitespace.
func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

// DecodeDocument parses a store file. Empty or whitespace-only input is an
// empty document. Enumerated fields outside their enumeration, duplicate IDs,
// and other invariant violations are errors.
func DecodeDocument(data []byte) (Document, error) {
	if isBlank(data) {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	// Titles already on disk are not held to the current length bound.
	if err := ValidateCollection(doc.Tickets, -1); err != nil {
		return Document{}, fmt.Errorf("validate document: %w", err)
	}
	return doc, nil
}

// EncodeDocument serializes a document with two-space indentation and a
// trailing newline. Nil slices are written as empty arrays.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.Tickets == nil {
		doc.Tickets = []Ticket{}
	}
	if doc.Epics == nil {
		doc.Epics = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// checkDocumentShape reports whether data is a JSON object whose tickets and
// epics members, when present, are arrays. Ticket contents are not inspected.
func checkDocumentShape(data []byte) error {
	var shape struct {
		Tickets []json.RawMessage `json:"tickets"`
		Epics   []json.RawMessage `json:"epics"`
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("document is not a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&shape); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after document")
	}
	return nil
}
