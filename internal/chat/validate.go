// validate.go - Admission checks run before any attachment is read
package chat

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxAttachments is the per-request attachment limit.
	MaxAttachments = 10
	// MaxAttachmentSize is the per-file size limit in bytes.
	MaxAttachmentSize = 10 << 20 // 10 MB
)

const (
	mediaTypePDF  = "application/pdf"
	mediaTypeDoc  = "application/msword"
	mediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// allowedMediaTypes is the fixed admission allow-list.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"text/plain":    true,
	"text/markdown": true,
	mediaTypePDF:    true,
	mediaTypeDoc:    true,
	mediaTypeDocx:   true,
}

// extMediaTypes maps common extensions for uploads whose declared
// Content-Type is missing or generic.
var extMediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".txt":  "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
	".pdf":  mediaTypePDF,
	".doc":  mediaTypeDoc,
	".docx": mediaTypeDocx,
}

// ValidateRequest enforces the admission constraints on a raw submission.
// It inspects only counts, declared sizes and media types; no attachment
// content is read here.
func ValidateRequest(prompt string, files []*multipart.FileHeader) error {
	if strings.TrimSpace(prompt) == "" && len(files) == 0 {
		return &Error{Kind: KindValidation, Message: "request must include a prompt or at least one file"}
	}

	if len(files) > MaxAttachments {
		return &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("too many files: %d (limit %d)", len(files), MaxAttachments),
		}
	}

	for _, fh := range files {
		if fh.Size > MaxAttachmentSize {
			return &Error{
				Kind:    KindValidation,
				Message: fmt.Sprintf("file %q exceeds the %d MB size limit", fh.Filename, MaxAttachmentSize>>20),
			}
		}

		mt := MediaTypeOf(fh)
		if !allowedMediaTypes[mt] {
			return &Error{
				Kind:    KindValidation,
				Message: fmt.Sprintf("unsupported file type %q for %q", mt, fh.Filename),
			}
		}
	}

	return nil
}

// MediaTypeOf returns the normalized media type of an upload. The declared
// Content-Type wins; a missing or generic declaration falls back to the
// file extension.
func MediaTypeOf(fh *multipart.FileHeader) string {
	declared := fh.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		mt = strings.ToLower(mt)
		if mt != "" && mt != "application/octet-stream" {
			return mt
		}
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if mt, ok := extMediaTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if parsed, _, err := mime.ParseMediaType(mt); err == nil {
			return strings.ToLower(parsed)
		}
	}

	return strings.ToLower(strings.TrimSpace(declared))
}

func isImageType(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}

func isTextType(mt string) bool {
	return mt == "text/plain" || mt == "text/markdown"
}

func isDocumentType(mt string) bool {
	return mt == mediaTypePDF || mt == mediaTypeDoc || mt == mediaTypeDocx
}
