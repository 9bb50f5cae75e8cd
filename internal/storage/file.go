// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/jeranaias/jarvis-tui/internal/util"
)

// FileKV stores each key as <BaseDir>/<key>.json.
type FileKV struct {
	BaseDir string
}

// NewFileKV creates a file-backed store rooted at baseDir.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &FileKV{BaseDir: baseDir}, nil
}

// Get returns the value stored under key.
func (s *FileKV) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the value stored under key.
// RELIABILITY: Atomic write with fsync prevents a torn history file on crash.
func (s *FileKV) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return util.AtomicWriteFile(s.filePath(key), value, 0600)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileKV) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.filePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileKV) Close() error {
	return nil
}

func (s *FileKV) filePath(key string) string {
	return filepath.Join(s.BaseDir, key+".json")
}
