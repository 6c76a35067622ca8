package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("my resume/v2.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "my resume_v2.pdf" {
		t.Fatalf("expected separators replaced, got %q", got)
	}

	for _, bad := range []string{"", "   ", "../../etc/passwd", "notes..pdf"} {
		if _, err := SanitizeFileName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestSanitizePathSegment(t *testing.T) {
	got, err := SanitizePathSegment("resumes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "resumes" {
		t.Fatalf("expected segment unchanged, got %q", got)
	}

	for _, bad := range []string{"", "a/b", `a\b`, ".."} {
		if _, err := SanitizePathSegment(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
