// Package extract turns uploaded resume files into plain text.
// Only the formats candidates actually submit are accepted: PDF,
// DOCX, and plain text.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for file types outside the resume
// allow-list.
type ErrUnsupportedFormat struct {
	Ext string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported resume format %q (accepted: .pdf, .docx, .txt)", e.Ext)
}

// Extractor converts resume files to text.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether filename's extension is on the resume
// allow-list. Use it to reject uploads before writing them to disk.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content. ext includes the leading
// dot and is matched case-insensitively.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".txt":
		return plainText(content), nil
	default:
		return "", &ErrUnsupportedFormat{Ext: ext}
	}
}

// plainText returns content as a string, replacing invalid UTF-8
// sequences so downstream regex scanning never sees broken runes.
func plainText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "�")
}
