package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the single-slot persistence backend for the envelope. One record
// per profile under one well-known location; no partial update API by design.
type Storage interface {
	// Read returns the stored record, or os.ErrNotExist if none.
	Read() ([]byte, error)
	// Write replaces the record atomically.
	Write(data []byte) error
	// Delete removes the record irreversibly. Not an error if absent.
	Delete() error
	// Exists reports whether a record is present.
	Exists() bool
}

// FileStorage keeps the envelope in a single JSON file with 0600 permissions.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Read reads the envelope file.
func (s *FileStorage) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read envelope file: %w", err)
	}
	if len(data) == 0 {
		return nil, os.ErrNotExist
	}
	return data, nil
}

// Write writes the full record to a temp file in the same directory and
// renames over the target, so a crash never leaves a partially written
// envelope behind.
func (s *FileStorage) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".envelope-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write envelope: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod envelope: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close envelope: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace envelope: %w", err)
	}
	return nil
}

// Delete removes the envelope file.
func (s *FileStorage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete envelope: %w", err)
	}
	return nil
}

// Exists checks whether a non-empty envelope file is present.
func (s *FileStorage) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Size() > 0
}

// MemoryStorage is an in-memory Storage used in tests.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Read returns the stored record.
func (s *MemoryStorage) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Write replaces the stored record.
func (s *MemoryStorage) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

// Delete removes the stored record.
func (s *MemoryStorage) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Exists reports whether a record is stored.
func (s *MemoryStorage) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data != nil
}

// IsNotExist reports whether err means the storage slot is empty.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
