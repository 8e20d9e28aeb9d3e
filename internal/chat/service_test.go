// service_test.go - Pipeline tests: ingestion, assembly order, cleanup
package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/docassist/backend/internal/storage"
)

// fakeModel implements ModelClient with a canned result.
type fakeModel struct {
	resp  any
	err   error
	calls [][]ContentPart
}

func (f *fakeModel) Invoke(ctx context.Context, parts []ContentPart) (any, error) {
	f.calls = append(f.calls, parts)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeModel) ModelName() string { return "fake" }

type fakeText struct {
	Value string
}

func (f fakeText) Text() string { return f.Value }

// failingReadStore wraps a Store and fails every Read.
type failingReadStore struct {
	storage.Store
}

func (f *failingReadStore) Read(id string) ([]byte, error) {
	return nil, errors.New("disk read failed")
}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

// fileHeaders round-trips the given files through a real multipart body so
// the headers are openable, exactly as the handler receives them.
func fileHeaders(t *testing.T, files []testFile) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart failed: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("writing part failed: %v", err)
		}
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm failed: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["files"]
}

func newTestService(t *testing.T, model ModelClient) (*Service, *storage.LocalStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return NewService(store, model), store
}

func TestProcess_PromptOnly(t *testing.T) {
	model := &fakeModel{resp: fakeText{Value: "answer"}}
	svc, _ := newTestService(t, model)

	res, err := svc.Process(context.Background(), "what is Go?", nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if res.Output != "answer" {
		t.Errorf("expected output %q, got %q", "answer", res.Output)
	}
	if res.FilesProcessed != 0 {
		t.Errorf("expected 0 files processed, got %d", res.FilesProcessed)
	}
	if len(model.calls) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(model.calls))
	}
	parts := model.calls[0]
	if len(parts) != 1 || parts[0].Type != PartText || parts[0].Text != "what is Go?" {
		t.Errorf("unexpected parts: %+v", parts)
	}
}

func TestProcess_PartOrderMirrorsUploadOrder(t *testing.T) {
	model := &fakeModel{resp: fakeText{Value: "ok"}}
	svc, _ := newTestService(t, model)

	files := fileHeaders(t, []testFile{
		{name: "a.txt", contentType: "text/plain", data: []byte("alpha")},
		{name: "b.txt", contentType: "text/plain", data: []byte("beta")},
	})

	res, err := svc.Process(context.Background(), "hi", files)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.FilesProcessed != 2 {
		t.Errorf("expected 2 files processed, got %d", res.FilesProcessed)
	}

	parts := model.calls[0]
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].Text != "hi" {
		t.Errorf("expected prompt first, got %q", parts[0].Text)
	}
	wantA := "Content of file \"a.txt\":\nalpha"
	if parts[1].Text != wantA {
		t.Errorf("expected %q, got %q", wantA, parts[1].Text)
	}
	wantB := "Content of file \"b.txt\":\nbeta"
	if parts[2].Text != wantB {
		t.Errorf("expected %q, got %q", wantB, parts[2].Text)
	}
}

func TestProcess_DefaultInstructionWithoutPrompt(t *testing.T) {
	model := &fakeModel{resp: fakeText{Value: "a red square"}}
	svc, _ := newTestService(t, model)

	files := fileHeaders(t, []testFile{
		{name: "pic.png", contentType: "image/png", data: []byte{0x89, 'P', 'N', 'G'}},
	})

	if _, err := svc.Process(context.Background(), "", files); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	parts := model.calls[0]
	if len(parts) != 2 {
		t.Fatalf("expected inline part plus default instruction, got %d parts", len(parts))
	}
	if parts[0].Type != PartInlineData || parts[0].MediaType != "image/png" {
		t.Errorf("expected inline image part first, got %+v", parts[0])
	}
	if parts[1].Text != defaultImagePrompt {
		t.Errorf("expected default image instruction, got %q", parts[1].Text)
	}
}

func TestProcess_DocumentBecomesPlaceholder(t *testing.T) {
	model := &fakeModel{resp: fakeText{Value: "ok"}}
	svc, _ := newTestService(t, model)

	files := fileHeaders(t, []testFile{
		{name: "paper.pdf", contentType: "application/pdf", data: []byte("%PDF-1.4")},
	})

	if _, err := svc.Process(context.Background(), "summarize", files); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	parts := model.calls[0]
	if len(parts) != 2 {
		t.Fatalf("expected prompt plus placeholder, got %d parts", len(parts))
	}
	if parts[1].Type != PartPlaceholder {
		t.Errorf("expected placeholder part, got %+v", parts[1])
	}
	if !strings.Contains(parts[1].Text, "paper.pdf") {
		t.Errorf("expected placeholder to name the file, got %q", parts[1].Text)
	}
}

func TestProcess_FailingAttachmentIsSkipped(t *testing.T) {
	model := &fakeModel{resp: fakeText{Value: "ok"}}
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	svc := NewService(&failingReadStore{Store: store}, model)

	files := fileHeaders(t, []testFile{
		{name: "a.txt", contentType: "text/plain", data: []byte("alpha")},
	})

	res, err := svc.Process(context.Background(), "hi", files)
	if err != nil {
		t.Fatalf("expected request to survive a failing attachment, got %v", err)
	}

	if res.FilesProcessed != 0 {
		t.Errorf("expected 0 files processed, got %d", res.FilesProcessed)
	}
	parts := model.calls[0]
	if len(parts) != 1 || parts[0].Text != "hi" {
		t.Errorf("expected prompt-only parts, got %+v", parts)
	}
}

func TestProcess_NoValidContentAfterAssembly(t *testing.T) {
	model := &fakeModel{resp: fakeText{Value: "ok"}}
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	svc := NewService(&failingReadStore{Store: store}, model)

	// No prompt, and the only attachment fails to read: validation passes
	// but assembly produces nothing.
	files := fileHeaders(t, []testFile{
		{name: "a.txt", contentType: "text/plain", data: []byte("alpha")},
	})

	_, err = svc.Process(context.Background(), "", files)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(cerr.Message, "no valid content") {
		t.Errorf("expected no-valid-content message, got %q", cerr.Message)
	}
	if len(model.calls) != 0 {
		t.Error("expected no model call when assembly produced nothing")
	}
}

func TestProcess_CleanupOnSuccessAndFailure(t *testing.T) {
	files := []testFile{
		{name: "a.txt", contentType: "text/plain", data: []byte("alpha")},
		{name: "b.txt", contentType: "text/plain", data: []byte("beta")},
	}

	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		store, err := storage.NewLocalStore(dir)
		if err != nil {
			t.Fatalf("creating store: %v", err)
		}
		model := &fakeModel{resp: fakeText{Value: "ok"}}
		svc := NewService(store, model)

		if _, err := svc.Process(context.Background(), "hi", fileHeaders(t, files)); err != nil {
			t.Fatalf("Process failed: %v", err)
		}

		assertDirEmpty(t, dir)
	})

	t.Run("model failure", func(t *testing.T) {
		dir := t.TempDir()
		store, err := storage.NewLocalStore(dir)
		if err != nil {
			t.Fatalf("creating store: %v", err)
		}
		model := &fakeModel{err: errors.New("connection reset")}
		svc := NewService(store, model)

		if _, err := svc.Process(context.Background(), "hi", fileHeaders(t, files)); err == nil {
			t.Fatal("expected model error")
		}

		assertDirEmpty(t, dir)
	})
}

// assertDirEmpty verifies the post-condition that no transient storage
// survives the request.
func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty upload dir after request, found %d entries", len(entries))
	}
}

func TestProcess_UnconfiguredModel(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Process(context.Background(), "hi", nil)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestProcess_ModelErrorIsClassified(t *testing.T) {
	model := &fakeModel{err: errors.New("blocked due to safety")}
	svc, _ := newTestService(t, model)

	_, err := svc.Process(context.Background(), "hi", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cerr.Kind != KindSafetyBlocked {
		t.Errorf("expected safety classification, got %s", cerr.Kind)
	}
}
