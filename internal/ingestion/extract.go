// Package ingestion converts uploaded CV files into clean plain text.
//
// CVs arrive as PDF, DOCX, or plain-text uploads. Each format is
// extracted with a format-specific reader and then normalized with
// CleanText so downstream parsing and scoring always see the same
// kind of text.
package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ExtractionError indicates that text could not be recovered from an
// uploaded file.
type ExtractionError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s: %s", e.Filename, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ExtractText pulls the text content out of an uploaded CV file.
// The format is chosen by file extension: .pdf and .docx get dedicated
// readers, everything else is treated as plain text. The result is
// normalized with CleanText.
func ExtractText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Filename: filename, Message: "file is empty"}
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		text, err = extractPlain(data)
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Message: "failed to extract text", Cause: err}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", &ExtractionError{Filename: filename, Message: "no text content found"}
	}
	return cleaned, nil
}

// extractPDF reads the document page by page. The PDF parser panics on
// some malformed files, so panics are recovered and reported as errors.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	// Paragraph and break boundaries become newlines before the
	// remaining markup is stripped, otherwise adjacent runs merge.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:br/>", "\n")
	content = docxTagPattern.ReplaceAllString(content, " ")
	return html.UnescapeString(content), nil
}

func extractPlain(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Salvage what we can from files in legacy encodings.
	return strings.ToValidUTF8(string(data), ""), nil
}
