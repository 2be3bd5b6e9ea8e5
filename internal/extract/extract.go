// Package extract pulls plain text out of indexed files for chunking and
// summarization. Unsupported formats yield empty text rather than errors so
// callers can skip them without special-casing.
package extract

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Limits bounds how much of a document is read. PDF reads stop after
// MaxPDFPages leading pages or once accumulated text exceeds MaxChars.
type Limits struct {
	MaxPDFPages int
	MaxChars    int
}

// IndexLimits bounds extraction during reindexing, where whole documents
// feed the chunk store.
var IndexLimits = Limits{MaxPDFPages: 20, MaxChars: 20000}

// SummaryLimits bounds extraction for summarization, where the text lands
// in a prompt and must stay small.
var SummaryLimits = Limits{MaxPDFPages: 10, MaxChars: 6000}

var textExts = map[string]bool{".txt": true, ".md": true, ".rtf": true}

// Summarizable reports whether automatic summarization is implemented for
// the extension.
func Summarizable(ext string) bool {
	return ext == ".pdf" || ext == ".docx" || textExts[ext]
}

// Text extracts plain text from the file at path according to its
// extension. Text-like formats are read directly, PDFs page by page under
// the given limits, and Word documents by paragraph. Unsupported formats
// return ("", nil).
func Text(path, ext string, lim Limits) (string, error) {
	ext = strings.ToLower(ext)
	switch {
	case textExts[ext]:
		return readTextFile(path)
	case ext == ".pdf":
		return pdfText(path, lim)
	case ext == ".docx":
		return docxText(path)
	default:
		return "", nil
	}
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func pdfText(path string, lim Limits) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	maxPages := reader.NumPage()
	if lim.MaxPDFPages > 0 && maxPages > lim.MaxPDFPages {
		maxPages = lim.MaxPDFPages
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
		if lim.MaxChars > 0 && b.Len() > lim.MaxChars {
			break
		}
	}
	return b.String(), nil
}

var xmlTag = regexp.MustCompile(`<[^>]*>`)

func docxText(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()

	// GetContent returns the raw document XML; paragraph closes become
	// newlines and remaining tags are dropped.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return content, nil
}
