// Package store persists the directory document to a single JSON file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meetloop/meetloop/internal/model"
)

// FileStore holds the durable document at a fixed path. The whole document
// is rewritten on every persist; writes go through a temp file in the same
// directory followed by a rename, so a concurrent reload never observes a
// torn document.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given path. The file is created
// on first persist; a missing file loads as an empty document.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document from disk.
func (s *FileStore) Load() (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.EmptyDocument(), nil
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc := &model.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.Messages == nil {
		doc.Messages = []model.ChatMessage{}
	}

	return doc, nil
}

// Ping verifies the document directory is reachable and writable enough
// for the next persist to succeed.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("document directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("document parent %s is not a directory", dir)
	}
	return nil
}

// Persist writes the full document. It returns only after the data has
// reached the file, so a nil return implies durability.
func (s *FileStore) Persist(ctx context.Context, doc *model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp document: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}

	return nil
}
