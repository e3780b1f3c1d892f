// Package pdfextract turns an uploaded PDF into plain text for use as
// document context.
package pdfextract

import (
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoExtractableText is returned when a PDF parses but yields no text,
// e.g. a pure scan without an OCR layer.
var ErrNoExtractableText = errors.New("no extractable text in pdf")

// Extract parses the PDF in r and returns its plain text and page count.
func Extract(r io.ReaderAt, size int64) (string, int, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", 0, err
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, textReader); err != nil {
		return "", 0, err
	}

	text := sanitize(buf.String())
	if text == "" {
		return "", 0, ErrNoExtractableText
	}
	return text, reader.NumPage(), nil
}

// sanitize strips control bytes the extractor sometimes leaks and normalizes
// line endings.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\x00' || (r < ' ' && r != '\n' && r != '\t') {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
