package extract

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrInvalidText = errors.New("document is not valid utf-8 text")

// Extractor turns raw uploaded document bytes into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// PDF extracts plain text from PDF bytes.
type PDF struct{}

// Extract reads every page of the document into one text blob. The parser
// panics on some malformed files, so the panic is converted into an error.
func (PDF) Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// PlainText passes pre-extracted text through unchanged.
type PlainText struct{}

// Extract validates the payload is UTF-8 text.
func (PlainText) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidText
	}
	return string(data), nil
}

// Truncate caps text at max runes to bound downstream cost and latency.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
