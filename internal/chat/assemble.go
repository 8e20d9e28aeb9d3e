// assemble.go - Building the ordered content part sequence
package chat

import (
	"fmt"

	"github.com/docassist/backend/internal/models"
)

// Default instructions emitted when the user attached files without any
// prompt text.
const (
	defaultImagePrompt = "Please analyze this image and describe what you see in detail."
	defaultFilePrompt  = "Please summarize the content of this file."
)

// assemble builds the part sequence for one request: prompt text first (if
// any), then the parts for each attachment in upload order. A failing
// attachment is logged and skipped; the rest of the request proceeds.
// Returns the parts and the number of attachments that contributed.
func (s *Service) assemble(prompt string, hasPrompt bool, atts []*models.Attachment) ([]ContentPart, int) {
	var parts []ContentPart
	if hasPrompt {
		parts = append(parts, TextPart(prompt))
	}

	processed := 0
	for _, att := range atts {
		attParts, err := s.partsFor(att, hasPrompt)
		if err != nil {
			fmt.Printf("[chat] skipping attachment %q (%s): %v\n", att.Name, att.ID, err)
			continue
		}
		parts = append(parts, attParts...)
		processed++
	}

	return parts, processed
}

// partsFor produces the parts for a single validated attachment.
func (s *Service) partsFor(att *models.Attachment, hasPrompt bool) ([]ContentPart, error) {
	switch mt := att.MediaType; {
	case isImageType(mt):
		data, err := s.store.Read(att.ID)
		if err != nil {
			return nil, err
		}
		parts := []ContentPart{InlineDataPart(data, mt)}
		if !hasPrompt {
			parts = append(parts, TextPart(defaultImagePrompt))
		}
		return parts, nil

	case isTextType(mt):
		data, err := s.store.Read(att.ID)
		if err != nil {
			return nil, err
		}
		parts := []ContentPart{TextPart(fmt.Sprintf("Content of file %q:\n%s", att.Name, data))}
		if !hasPrompt {
			parts = append(parts, TextPart(defaultFilePrompt))
		}
		return parts, nil

	case isDocumentType(mt):
		// No text extraction is performed for PDF/Word; the model is told
		// to ask the user for a plain-text version.
		return []ContentPart{PlaceholderPart(fmt.Sprintf(
			"The user attached the document %q (%s), whose content cannot be read directly. Ask the user to provide the document text as plain text or markdown.",
			att.Name, mt))}, nil
	}

	// Unreachable after validation; kept as a guard.
	return nil, fmt.Errorf("unsupported media type %q", att.MediaType)
}
