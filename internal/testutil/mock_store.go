// mock_store.go - Mock storage implementation for testing
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/docassist/backend/internal/models"
	"github.com/docassist/backend/internal/storage"
)

// MockStore implements storage.Store in memory with failure injection.
type MockStore struct {
	mu       sync.RWMutex
	seq      int
	files    map[string]*models.Attachment
	fileData map[string][]byte

	// Failure injection
	SaveErr   error
	ReadErr   error // applied to every Read
	RemoveErr error

	Removed []string // IDs passed to Remove, in order
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		files:    make(map[string]*models.Attachment),
		fileData: make(map[string][]byte),
	}
}

var _ storage.Store = (*MockStore)(nil)

func (m *MockStore) Save(name, mediaType string, r io.Reader) (*models.Attachment, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	var buf bytes.Buffer
	size, err := io.Copy(&buf, r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	att := &models.Attachment{
		ID:         fmt.Sprintf("mock-%04d", m.seq),
		Name:       name,
		MediaType:  mediaType,
		Size:       size,
		UploadedAt: time.Now(),
	}
	m.files[att.ID] = att
	m.fileData[att.ID] = buf.Bytes()

	return att, nil
}

func (m *MockStore) Get(id string) (*models.Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	att, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("attachment not found: %s", id)
	}
	return att, nil
}

func (m *MockStore) Read(id string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[id]
	if !ok {
		return nil, fmt.Errorf("attachment not found: %s", id)
	}
	return data, nil
}

func (m *MockStore) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Removed = append(m.Removed, id)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}

	delete(m.files, id)
	delete(m.fileData, id)
	return nil
}

func (m *MockStore) GetFilePath(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[id]; !ok {
		return "", fmt.Errorf("attachment not found: %s", id)
	}
	return "/mock/" + id, nil
}

func (m *MockStore) SweepOlderThan(maxAge time.Duration) int {
	return 0
}

// Len returns the number of stored attachments.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
