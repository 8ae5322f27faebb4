package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesDocx(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?><w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Go engineer</w:t></w:r></w:p></w:body></w:document>`)

	text, err := TextFromBytes(data, "cv.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Go engineer") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTextFromBytesPlainZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := TextFromBytes(buf.Bytes(), "notes.zip"); err == nil {
		t.Fatal("expected unsupported format error for plain zip")
	}
}

func TestTextFromBytesEmpty(t *testing.T) {
	if _, err := TextFromBytes(nil, "cv.pdf"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestTextFromBytesCorruptPDF(t *testing.T) {
	if _, err := TextFromBytes([]byte("%PDF-1.7 garbage"), "cv.pdf"); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

type fakeStore struct {
	objects map[string][]byte
	saved   map[string][]byte
	openErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, saved: map[string][]byte{}}
}

func (f *fakeStore) Save(ctx context.Context, jobID int, fileName string, r io.Reader) (string, int64, string, error) {
	return "", 0, "", errors.New("not implemented")
}

func (f *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.saved[key] = data
	return int64(len(data)), nil
}

func TestCVTextAbsorbsFailures(t *testing.T) {
	store := newFakeStore()
	store.openErr = errors.New("blob store unavailable")

	if got := CVText(context.Background(), store, "cvs/1/abc_cv.pdf", "cv.pdf"); got != "" {
		t.Fatalf("expected empty text on store failure, got %q", got)
	}

	store = newFakeStore()
	store.objects["cvs/1/abc_cv.pdf"] = []byte("not a pdf at all")
	if got := CVText(context.Background(), store, "cvs/1/abc_cv.pdf", "cv.bin"); got != "" {
		t.Fatalf("expected empty text on unsupported content, got %q", got)
	}
}

func TestCVTextPersistsDerivedCopy(t *testing.T) {
	store := newFakeStore()
	store.objects["cvs/1/abc_cv.docx"] = buildDocx(t, `<w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>Skills: Go, SQL</w:t></w:r></w:p></w:body></w:document>`)

	got := CVText(context.Background(), store, "cvs/1/abc_cv.docx", "cv.docx")
	if !strings.Contains(got, "Skills: Go, SQL") {
		t.Fatalf("unexpected text: %q", got)
	}
	if _, ok := store.saved["cvs/1/abc_cv.docx.extracted.txt"]; !ok {
		t.Fatal("expected derived .extracted.txt copy to be saved")
	}
}
