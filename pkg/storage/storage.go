// Package storage holds uploaded statements and their standardized outputs
// on the local filesystem for the lifetime of a processing session.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file exceeds maximum upload size")

// ErrNotFound is returned when a requested file does not exist in the store.
var ErrNotFound = errors.New("file not found")

// Store is a flat directory of uploaded and generated files. Stored names
// are sanitized and uuid-prefixed so uploads can never collide or escape the
// directory.
type Store struct {
	dir      string
	maxBytes int64
}

// New creates a store rooted at dir, creating it if needed. maxBytes caps
// individual file size; zero means no limit.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Save writes the reader's content under a unique name derived from the
// original filename and returns the stored name.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	stored := fmt.Sprintf("%s_%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	return stored, nil
}

// Put stores content under the exact given name, overwriting any previous
// file. Used for generated output whose name callers must be able to
// predict.
func (s *Store) Put(name string, content []byte) error {
	path, err := s.safePath(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Path resolves a stored name to its filesystem path, rejecting names that
// escape the store or do not exist.
func (s *Store) Path(name string) (string, error) {
	path, err := s.safePath(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	return path, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	path, err := s.safePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Store) safePath(name string) (string, error) {
	clean := sanitizeFilename(name)
	if clean == "" || clean != name {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return filepath.Join(s.dir, clean), nil
}

// sanitizeFilename removes path separators and other unsafe characters.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(filepath.Base(name))
}
