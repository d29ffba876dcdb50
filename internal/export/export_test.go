package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "spaces", input: "Q1 2025 CMVR", expected: "Q1-2025-CMVR"},
		{name: "punctuation dropped", input: "Acme/Toledo: report!", expected: "AcmeToledo-report"},
		{name: "empty falls back", input: "!!!", expected: "document"},
		{name: "keeps separators", input: "north_pit-q1", expected: "north_pit-q1"},
		{
			name:     "length capped",
			input:    "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			expected: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("General Info.pdf", FormatPDF); got != "General-Info.pdf" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename("", FormatDOCX); got != "document.docx" {
		t.Errorf("Filename = %q", got)
	}
}

func TestFormatMimeType(t *testing.T) {
	if FormatPDF.MimeType() != "application/pdf" {
		t.Errorf("unexpected pdf mime type %q", FormatPDF.MimeType())
	}
	if Format("txt").MimeType() != "application/octet-stream" {
		t.Errorf("unexpected fallback mime type")
	}
}

func TestDirArchivePut(t *testing.T) {
	root := t.TempDir()
	archive := DirArchive{Root: root}

	location, err := archive.Put(context.Background(), "cmvr 42", Result{
		Data:     []byte("%PDF-1.7"),
		Filename: "general info.pdf",
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	want := filepath.Join(root, "cmvr-42", "general-info.pdf")
	if location != want {
		t.Errorf("location = %q, want %q", location, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read archived file: %v", err)
	}
	if string(data) != "%PDF-1.7" {
		t.Errorf("archived content = %q", data)
	}
}

func TestDirArchiveRejectsEmpty(t *testing.T) {
	_, err := DirArchive{Root: t.TempDir()}.Put(context.Background(), "x", Result{Filename: "a.pdf"})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestBrowserOpenerRejectsBlank(t *testing.T) {
	if err := (BrowserOpener{}).Open(context.Background(), "  "); !errors.Is(err, ErrNoOpenTarget) {
		t.Errorf("expected ErrNoOpenTarget, got %v", err)
	}
}
