// validate_test.go - Tests for request admission checks
package chat

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Header:   h,
		Size:     size,
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		files   []*multipart.FileHeader
		wantErr string // substring of the expected message, "" for success
	}{
		{
			name:   "prompt only",
			prompt: "hello",
		},
		{
			name:   "prompt with valid image",
			prompt: "what is this",
			files:  []*multipart.FileHeader{header("pic.png", "image/png", 1024)},
		},
		{
			name:  "files only",
			files: []*multipart.FileHeader{header("notes.txt", "text/plain", 10)},
		},
		{
			name:    "missing content",
			wantErr: "must include a prompt or at least one file",
		},
		{
			name:    "whitespace prompt is missing content",
			prompt:  "   ",
			wantErr: "must include a prompt or at least one file",
		},
		{
			name:   "too many files",
			prompt: "hi",
			files: func() []*multipart.FileHeader {
				var fhs []*multipart.FileHeader
				for i := 0; i < MaxAttachments+1; i++ {
					fhs = append(fhs, header("f.txt", "text/plain", 10))
				}
				return fhs
			}(),
			wantErr: "too many files",
		},
		{
			name:    "oversize file",
			prompt:  "hi",
			files:   []*multipart.FileHeader{header("big.png", "image/png", MaxAttachmentSize+1)},
			wantErr: "size limit",
		},
		{
			name:    "disallowed media type",
			prompt:  "hi",
			files:   []*multipart.FileHeader{header("archive.zip", "application/zip", 10)},
			wantErr: "unsupported file type",
		},
		{
			name:   "one bad file fails the whole request",
			prompt: "hi",
			files: []*multipart.FileHeader{
				header("fine.txt", "text/plain", 10),
				header("bad.bin", "application/octet-stream", 10),
			},
			wantErr: "unsupported file type",
		},
		{
			name:   "word documents are accepted",
			prompt: "summarize",
			files: []*multipart.FileHeader{
				header("report.doc", "application/msword", 10),
				header("report.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 10),
				header("report.pdf", "application/pdf", 10),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.prompt, tt.files)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			cerr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if cerr.Kind != KindValidation {
				t.Errorf("expected kind %s, got %s", KindValidation, cerr.Kind)
			}
			if !strings.Contains(cerr.Message, tt.wantErr) {
				t.Errorf("expected message containing %q, got %q", tt.wantErr, cerr.Message)
			}
		})
	}
}

func TestMediaTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		want     string
	}{
		{"declared type wins", "x.bin", "image/png", "image/png"},
		{"parameters are stripped", "x.txt", "text/plain; charset=utf-8", "text/plain"},
		{"uppercase is normalized", "x.png", "IMAGE/PNG", "image/png"},
		{"extension fallback for markdown", "README.md", "", "text/markdown"},
		{"extension fallback for octet-stream", "photo.jpg", "application/octet-stream", "image/jpeg"},
		{"docx extension", "paper.docx", "", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MediaTypeOf(header(tt.filename, tt.declared, 1))
			if got != tt.want {
				t.Errorf("MediaTypeOf(%q, %q) = %q, want %q", tt.filename, tt.declared, got, tt.want)
			}
		})
	}
}
