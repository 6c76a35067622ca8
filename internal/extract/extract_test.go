package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextExtractsDocx(t *testing.T) {
	data := buildDocx(t, "Registered Nurse with ICU experience")

	text, err := Text(context.Background(), data, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "Registered Nurse") {
		t.Fatalf("extracted text %q missing content", text)
	}
}

func TestTextNormalizesMimeFromExtension(t *testing.T) {
	data := buildDocx(t, "content")
	if _, err := Text(context.Background(), data, "application/octet-stream", "resume.docx"); err != nil {
		t.Fatalf("expected extension fallback, got %v", err)
	}
}

func TestTextRejectsUnknownMime(t *testing.T) {
	_, err := Text(context.Background(), []byte("plain"), "text/plain", "notes.txt")
	if err == nil {
		t.Fatal("expected unsupported mime error")
	}
	if !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("a", ExcerptLimit+100)
	got := Excerpt(long)
	if len(got) != ExcerptLimit {
		t.Fatalf("excerpt length = %d, want %d", len(got), ExcerptLimit)
	}
	if Excerpt("short") != "short" {
		t.Fatal("short text should pass through")
	}
}
