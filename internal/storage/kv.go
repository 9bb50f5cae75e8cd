// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by OpenKV.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNotFound is returned by KV.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid key")

// KV is a minimal local key-value store. Values are opaque bytes.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// OpenKV opens the backend named by backend, keeping its data under dir.
func OpenKV(backend, dir string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(filepath.Join(dir, "store"))
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dir, "jarvis.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// validateKey rejects keys that are empty or could escape a directory.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
