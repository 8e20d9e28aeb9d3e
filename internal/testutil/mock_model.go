// mock_model.go - Mock model client implementation for testing
package testutil

import (
	"context"
	"sync"

	"github.com/docassist/backend/internal/chat"
)

// MockModel implements chat.ModelClient for testing. It records every
// invocation and returns the configured response or error.
type MockModel struct {
	mu       sync.Mutex
	Response any
	Err      error
	Calls    [][]chat.ContentPart
}

// TextResponse is a canned response satisfying the text-producing
// capability check in the normalizer.
type TextResponse struct {
	Value string
}

// Text returns the canned text.
func (r TextResponse) Text() string {
	return r.Value
}

// NewMockModel creates a mock that answers every invocation with text.
func NewMockModel(text string) *MockModel {
	return &MockModel{Response: TextResponse{Value: text}}
}

// Invoke records the call and returns the canned result.
func (m *MockModel) Invoke(ctx context.Context, parts []chat.ContentPart) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, parts)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// ModelName returns a fixed identifier.
func (m *MockModel) ModelName() string {
	return "mock-model"
}

// CallCount returns the number of recorded invocations.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastParts returns the parts of the most recent invocation, or nil.
func (m *MockModel) LastParts() []chat.ContentPart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}
