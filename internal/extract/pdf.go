package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor turns a document on disk into plain text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// PDFText extracts text from PDF files. Pages are concatenated in page order
// without a separator; a page that yields no text contributes an empty string.
// Scanned documents without a text layer therefore produce empty content.
type PDFText struct{}

func (PDFText) ExtractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf %s: %v", path, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		builder.WriteString(pageText(reader.Page(i)))
	}

	return builder.String(), nil
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}

	// GetPlainText starts every text line with a newline, the first one included.
	return strings.TrimPrefix(text, "\n")
}
