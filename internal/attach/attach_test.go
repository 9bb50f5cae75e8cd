// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFormat(t *testing.T) {
	got := Format([]File{
		{Name: "a.txt", Content: "alpha"},
		{Name: "b.md", Content: "# beta"},
	})
	want := "File: a.txt\n\nContent:\nalpha\n---\n\nFile: b.md\n\nContent:\n# beta\n---"
	assert.Equal(t, want, got)

	assert.Equal(t, "", Format(nil))
}

func TestMessage(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "notes.txt", []byte("first line\r\nsecond line"))
	b := writeFile(t, dir, "main.go", []byte("package main\n"))

	got, err := New().Message(a, b)
	require.NoError(t, err)
	assert.Equal(t,
		"File: notes.txt\n\nContent:\nfirst line\nsecond line\n---\n\n"+
			"File: main.go\n\nContent:\npackage main\n\n---",
		got)
}

func TestLoad_Limits(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < MaxFiles+1; i++ {
		paths = append(paths, writeFile(t, dir, string(rune('a'+i))+".txt", []byte("x")))
	}

	_, err := New().Load(paths)
	assert.ErrorIs(t, err, ErrTooManyFiles)

	files, err := New().Load(paths[:MaxFiles])
	require.NoError(t, err)
	assert.Len(t, files, MaxFiles)

	_, err = New().Load(nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.txt", []byte("fine"))
	bin := writeFile(t, dir, "blob.bin", []byte{0x00, 0xff, 0xfe})
	doc := writeFile(t, dir, "Report.DOC", []byte{0xd0, 0xcf, 0x11, 0xe0})
	big := writeFile(t, dir, "big.txt", []byte(strings.Repeat("a", MaxFileBytes+1)))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"binary", bin, ErrBinary},
		{"office", doc, ErrUnsupported},
		{"too large", big, ErrTooLarge},
		{"missing", filepath.Join(dir, "nope.txt"), os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Load([]string{ok, tt.path})
			assert.ErrorIs(t, err, tt.want)

			var ferr *FileError
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, tt.path, ferr.Path)
			assert.Contains(t, ferr.Error(), filepath.Base(tt.path))
		})
	}

	_, err := New().Load([]string{dir})
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	got, err := PlainText.Extract("x.txt", []byte("\xef\xbb\xbfcafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", got)

	_, err = PlainText.Extract("x.txt", []byte("nul\x00byte"))
	assert.ErrorIs(t, err, ErrBinary)
}

func TestRegister(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sheet.xlsx", []byte("raw"))

	a := New()
	a.Register(".XLSX", ExtractorFunc(func(name string, data []byte) (string, error) {
		return "decoded " + name + " " + string(data), nil
	}))

	files, err := a.Load([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "decoded sheet.xlsx raw", files[0].Content)
}
