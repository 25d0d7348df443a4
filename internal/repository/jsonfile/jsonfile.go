// Package jsonfile implements the trip store as a single flat JSON file.
//
// This is the original persistence model of the system: the whole dataset
// lives in one document, read and rewritten in full on every operation.
// A missing or blank file is an empty dataset, never an error, so a fresh
// deployment needs no initialization step.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/sevillaa/Travel-bros/internal/model"
)

// Store persists the document at a fixed file path.
type Store struct {
	path string
}

// New creates a Store writing to path, creating the parent directory if
// needed. The data file itself is only created on the first Save.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: creating data directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Load reads and decodes the whole document.
func (s *Store) Load(_ context.Context) (*model.Document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &model.Document{Trips: []*model.Trip{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: reading %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return &model.Document{Trips: []*model.Trip{}}, nil
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("jsonfile: decoding %s: %w", s.path, err)
	}
	if doc.Trips == nil {
		doc.Trips = []*model.Trip{}
	}
	return &doc, nil
}

// Save encodes and writes the whole document. The write goes to a
// uniquely named temp file in the same directory which is then renamed
// over the data file, so a crash mid-write never leaves a truncated
// document behind. Rename is atomic only within one filesystem, which
// is why the temp file sits next to the target.
func (s *Store) Save(_ context.Context, doc *model.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding document: %w", err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, xid.New().String())
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("jsonfile: replacing %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between operations.
func (s *Store) Close() error {
	return nil
}
