// Package ingest turns study material (PDF, text files, web pages) into
// plain text suitable for prompts.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxSourceRunes caps extracted material so a single oversized document
// does not blow the prompt budget.
const maxSourceRunes = 60000

// FromFile extracts plain text from a local file. PDF files are parsed
// page by page; .txt and .md files are read directly.
func FromFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return fromPDF(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return Truncate(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported file type %q (use .pdf, .txt or .md)", filepath.Ext(path))
	}
}

func fromPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages with exotic encodings are skipped rather than
			// failing the whole document.
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return Truncate(out), nil
}

// Truncate caps text at the source material limit.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSourceRunes {
		return s
	}
	return string(runes[:maxSourceRunes])
}
