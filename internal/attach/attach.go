// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach turns files into a single synthetic user message.
//
// Each file becomes a block of the form
//
//	File: <name>
//
//	Content:
//	<text>
//	---
//
// and blocks are joined by a blank line. Text is produced by an Extractor
// chosen by file extension: spreadsheets (.xlsx) become JSON rows, Word
// documents (.docx) become raw text and everything else is read as plain
// text. Legacy binary office formats and PDF are reported as unsupported
// until an extractor is registered for them.
package attach

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/unicode/norm"
)

// Limits on a single attachment batch.
const (
	MaxFiles     = 5
	MaxFileBytes = 1 << 20
)

var (
	// ErrNoFiles is returned when no paths are given.
	ErrNoFiles = errors.New("no files to attach")

	// ErrTooManyFiles is returned for more than MaxFiles paths.
	ErrTooManyFiles = fmt.Errorf("maximum %d files allowed", MaxFiles)

	// ErrUnsupported is returned for formats without an extractor.
	ErrUnsupported = errors.New("unsupported file type")

	// ErrBinary is returned when a file is not valid UTF-8 text.
	ErrBinary = errors.New("file is not text")

	// ErrTooLarge is returned for files above MaxFileBytes.
	ErrTooLarge = fmt.Errorf("file exceeds %s", humanize.IBytes(MaxFileBytes))
)

// FileError ties an extraction failure to its file.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

// Unwrap returns the underlying cause.
func (e *FileError) Unwrap() error {
	return e.Err
}

// =============================================================================
// EXTRACTORS
// =============================================================================

// Extractor converts raw file bytes into text.
type Extractor interface {
	Extract(name string, data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(name string, data []byte) (string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(name string, data []byte) (string, error) {
	return f(name, data)
}

// PlainText accepts UTF-8 text, strips a byte order mark, converts CRLF
// line endings and normalizes to NFC.
var PlainText = ExtractorFunc(func(_ string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", ErrBinary
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return norm.NFC.String(text), nil
})

// Unsupported rejects every file.
var Unsupported = ExtractorFunc(func(string, []byte) (string, error) {
	return "", ErrUnsupported
})

// unsupportedExtensions are binary formats without a built-in decoder.
var unsupportedExtensions = []string{".doc", ".xls", ".pdf"}

// =============================================================================
// ATTACHER
// =============================================================================

// File is one extracted attachment.
type File struct {
	Name    string
	Content string
}

// Attacher reads files and formats them as a message.
type Attacher struct {
	extractors map[string]Extractor
	fallback   Extractor
	readFile   func(string) ([]byte, error)
}

// New returns an Attacher with the built-in extractors.
func New() *Attacher {
	a := &Attacher{
		extractors: make(map[string]Extractor),
		fallback:   PlainText,
		readFile:   readLimited,
	}
	a.Register(".xlsx", Spreadsheet)
	a.Register(".docx", WordDocument)
	for _, ext := range unsupportedExtensions {
		a.Register(ext, Unsupported)
	}
	return a
}

// Register sets the extractor for a file extension such as ".docx".
func (a *Attacher) Register(ext string, e Extractor) {
	a.extractors[strings.ToLower(ext)] = e
}

// Load extracts every path in order. The first failure aborts the batch.
func (a *Attacher) Load(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if len(paths) > MaxFiles {
		return nil, ErrTooManyFiles
	}

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		data, err := a.readFile(path)
		if err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
		text, err := a.extractorFor(path).Extract(filepath.Base(path), data)
		if err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
		files = append(files, File{Name: filepath.Base(path), Content: text})
	}
	return files, nil
}

// Message loads paths and returns the formatted message text.
func (a *Attacher) Message(paths ...string) (string, error) {
	files, err := a.Load(paths)
	if err != nil {
		return "", err
	}
	return Format(files), nil
}

func (a *Attacher) extractorFor(path string) Extractor {
	if e, ok := a.extractors[strings.ToLower(filepath.Ext(path))]; ok {
		return e
	}
	return a.fallback
}

// Format renders files as the attachment message.
func Format(files []File) string {
	blocks := make([]string, len(files))
	for i, f := range files {
		blocks[i] = fmt.Sprintf("File: %s\n\nContent:\n%s\n---", f.Name, f.Content)
	}
	return strings.Join(blocks, "\n\n")
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("is a directory")
	}
	if info.Size() > MaxFileBytes {
		return nil, ErrTooLarge
	}
	return os.ReadFile(path)
}
