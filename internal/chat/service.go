// service.go - The chat request pipeline
package chat

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/docassist/backend/internal/models"
	"github.com/docassist/backend/internal/storage"
)

// Service runs the request pipeline: validate, ingest into transient
// storage, assemble content parts, invoke the model once, normalize the
// response. Transient storage for the request is reclaimed on every exit
// path. A Service is safe for concurrent use; requests share no state
// beyond the store, which partitions files per attachment.
type Service struct {
	store storage.Store
	model ModelClient
}

// NewService creates a chat service. model may be nil when no API key is
// configured; requests then fail with a configuration error.
func NewService(store storage.Store, model ModelClient) *Service {
	return &Service{store: store, model: model}
}

// Configured reports whether a model client is available.
func (s *Service) Configured() bool {
	return s.model != nil
}

// ModelName returns the configured model identifier, or "" when none is.
func (s *Service) ModelName() string {
	if s.model == nil {
		return ""
	}
	return s.model.ModelName()
}

// Process handles one chat request end to end. Attachments are processed
// sequentially so that part order mirrors upload order and a failing
// attachment stays isolated.
func (s *Service) Process(ctx context.Context, prompt string, files []*multipart.FileHeader) (*Result, error) {
	if err := ValidateRequest(prompt, files); err != nil {
		return nil, err
	}

	atts := s.ingest(files)
	defer s.cleanup(atts)

	hasPrompt := strings.TrimSpace(prompt) != ""
	parts, processed := s.assemble(prompt, hasPrompt, atts)
	if len(parts) == 0 {
		return nil, &Error{Kind: KindValidation, Message: "no valid content to send to the model"}
	}

	if s.model == nil {
		return nil, &Error{Kind: KindConfiguration, Message: MsgNotConfigured}
	}

	resp, err := s.model.Invoke(ctx, parts)
	if err != nil {
		return nil, Classify(fmt.Errorf("model invocation: %w", err))
	}

	return &Result{
		Output:         NormalizeResponse(resp),
		FilesProcessed: processed,
	}, nil
}

// ingest copies each upload into transient storage in order. A file that
// cannot be stored is logged and skipped; the request continues with the
// remaining files.
func (s *Service) ingest(files []*multipart.FileHeader) []*models.Attachment {
	atts := make([]*models.Attachment, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			fmt.Printf("[chat] skipping upload %q: %v\n", fh.Filename, err)
			continue
		}

		att, err := s.store.Save(fh.Filename, MediaTypeOf(fh), src)
		src.Close()
		if err != nil {
			fmt.Printf("[chat] skipping upload %q: %v\n", fh.Filename, err)
			continue
		}

		atts = append(atts, att)
	}
	return atts
}

// cleanup removes the request's transient storage. Failures are logged
// and swallowed; storage leakage is degraded operation, not a request
// failure.
func (s *Service) cleanup(atts []*models.Attachment) {
	for _, att := range atts {
		if err := s.store.Remove(att.ID); err != nil {
			fmt.Printf("[chat] cleanup of attachment %s failed: %v\n", att.ID, err)
		}
	}
}
