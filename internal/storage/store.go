package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/docassist/backend/internal/models"
	"github.com/google/uuid"
)

// Store defines the interface for transient attachment storage. Attachments
// are owned by the request that saved them and are removed once that request
// finishes processing.
type Store interface {
	Save(name, mediaType string, r io.Reader) (*models.Attachment, error)
	Get(id string) (*models.Attachment, error)
	Read(id string) ([]byte, error)
	Remove(id string) error
	GetFilePath(id string) (string, error)
	SweepOlderThan(maxAge time.Duration) int
}

// LocalStore implements Store using the local filesystem.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	files     map[string]*models.Attachment
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		files:     make(map[string]*models.Attachment),
	}, nil
}

// Save writes an attachment to the local filesystem.
func (s *LocalStore) Save(name, mediaType string, r io.Reader) (*models.Attachment, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	att := &models.Attachment{
		ID:         id,
		Name:       name,
		MediaType:  mediaType,
		Size:       size,
		UploadedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = att

	return att, nil
}

// Get retrieves attachment metadata by ID.
func (s *LocalStore) Get(id string) (*models.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	att, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("attachment not found: %s", id)
	}

	return att, nil
}

// Read returns the stored bytes of an attachment.
func (s *LocalStore) Read(id string) ([]byte, error) {
	path, err := s.GetFilePath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment %s: %w", id, err)
	}

	return data, nil
}

// Remove deletes an attachment from storage. Removing an attachment that is
// already gone is a silent no-op, so a second cleanup attempt is harmless.
func (s *LocalStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting attachment: %w", err)
	}

	delete(s.files, id)

	return nil
}

// GetFilePath returns the absolute path to an attachment.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("attachment not found: %s", id)
	}

	return filepath.Join(s.uploadDir, id), nil
}

// SweepOlderThan removes transient files older than maxAge. It scans the
// upload directory rather than the metadata map so that leftovers from a
// previous run are reclaimed too. Returns the number of files removed.
func (s *LocalStore) SweepOlderThan(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		fmt.Printf("[storage] sweep failed to read %s: %v\n", s.uploadDir, err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		s.mu.Lock()
		path := filepath.Join(s.uploadDir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Printf("[storage] sweep failed to remove %s: %v\n", entry.Name(), err)
		} else {
			delete(s.files, entry.Name())
			removed++
		}
		s.mu.Unlock()
	}

	return removed
}
