// Package export delivers rendered CMVR documents: it opens download links on
// the device and keeps copies of downloaded files.
package export

import (
	"errors"
	"strings"
)

// Format represents a rendered document format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

func (f Format) MimeType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// Result is a downloaded document
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrEmptyDocument indicates the service returned no bytes.
	ErrEmptyDocument = errors.New("export document is empty")
	// ErrNoOpenTarget indicates there was no link to open.
	ErrNoOpenTarget = errors.New("export has nothing to open")
)

// SanitizeFilename keeps letters, digits, hyphens and underscores, turns
// spaces into hyphens and caps the length.
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		case r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	result := b.String()
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "document"
	}
	return result
}

// Filename builds a safe file name with the format's extension. An existing
// extension on name is dropped first.
func Filename(name string, format Format) string {
	base := strings.TrimSpace(name)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return SanitizeFilename(base) + "." + string(format)
}
