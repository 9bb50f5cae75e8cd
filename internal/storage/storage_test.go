// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

// =============================================================================
// KV BACKENDS
// =============================================================================

func backends(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	sqliteKV, err := NewSQLiteKV(filepath.Join(t.TempDir(), "jarvis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteKV.Close() })

	return map[string]KV{"file": fileKV, "sqlite": sqliteKV}
}

func TestKV_GetSetDelete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set("k", []byte("one")))
			got, err := kv.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "one", string(got))

			require.NoError(t, kv.Set("k", []byte("two")))
			got, err = kv.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "two", string(got))

			require.NoError(t, kv.Delete("k"))
			_, err = kv.Get("k")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, kv.Delete("k"), "deleting a missing key is not an error")
		})
	}
}

func TestKV_InvalidKeys(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", ".", "..", "a/b", `a\b`} {
				assert.ErrorIs(t, kv.Set(key, []byte("x")), ErrInvalidKey, "key %q", key)
				_, err := kv.Get(key)
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestFileKV_WritesPrivateFile(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Set(HistoryKey, []byte("[]")))

	info, err := os.Stat(filepath.Join(kv.BaseDir, HistoryKey+".json"))
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jarvis.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("k", []byte("value")))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "value", string(got))
	assert.Equal(t, path, kv.Path())
}

func TestOpenKV(t *testing.T) {
	dir := t.TempDir()

	kv, err := OpenKV("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)

	kv, err = OpenKV(BackendSQLite, dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	require.NoError(t, kv.Close())

	_, err = OpenKV("redis", dir)
	assert.Error(t, err)
}

// =============================================================================
// HISTORY STORE
// =============================================================================

func sampleHistory() []model.Message {
	base := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	return []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "Hello", Timestamp: base},
		{ID: "m2", Role: model.RoleAssistant, Content: "Hi there\n```go\nfmt.Println()\n```", Timestamp: base.Add(time.Second)},
	}
}

func TestHistoryStore_RoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewHistoryStore(kv, nil)
			want := sampleHistory()

			store.Save(want)
			got := store.Load()

			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].ID, got[i].ID)
				assert.Equal(t, want[i].Role, got[i].Role)
				assert.Equal(t, want[i].Content, got[i].Content)
				assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp),
					"timestamp %v != %v", want[i].Timestamp, got[i].Timestamp)
			}
		})
	}
}

func TestHistoryStore_SaveOverwrites(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	store := NewHistoryStore(kv, nil)

	store.Save(sampleHistory())
	store.Save(sampleHistory()[:1])

	assert.Len(t, store.Load(), 1)
}

func TestHistoryStore_LoadMissingIsEmpty(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	got := NewHistoryStore(kv, logger).Load()

	assert.NotNil(t, got)
	assert.Empty(t, got)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level, "missing history should not warn")
	}
}

func TestHistoryStore_LoadCorruptFailsSoft(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Set(HistoryKey, []byte("{not json")))

	logger, hook := test.NewNullLogger()
	got := NewHistoryStore(kv, logger).Load()

	assert.Empty(t, got)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	var perr *PersistenceError
	require.True(t, errors.As(hook.LastEntry().Data[logrus.ErrorKey].(error), &perr))
	assert.Equal(t, "load", perr.Op)
	assert.Equal(t, HistoryKey, perr.Key)
}

func TestHistoryStore_LoadDropsUnknownRoles(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Set(HistoryKey, []byte(`[
		{"id":"a","content":"hi","role":"user","timestamp":"2025-01-01T10:00:00.000Z"},
		{"id":"b","content":"sys","role":"system","timestamp":"2025-01-01T10:00:01.000Z"}
	]`)))

	got := NewHistoryStore(kv, nil).Load()

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), got[0].Timestamp.UTC())
}

type failingKV struct{ err error }

func (f failingKV) Get(string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(string, []byte) error   { return f.err }
func (f failingKV) Delete(string) error        { return f.err }
func (f failingKV) Close() error               { return nil }

func TestHistoryStore_SaveFailsSoft(t *testing.T) {
	quota := errors.New("quota exceeded")
	logger, hook := test.NewNullLogger()
	store := NewHistoryStore(failingKV{err: quota}, logger)

	assert.NotPanics(t, func() { store.Save(sampleHistory()) })
	require.NotNil(t, hook.LastEntry())

	err, ok := hook.LastEntry().Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, quota)

	assert.Empty(t, store.Load())
}

func TestHistoryStore_Clear(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	store := NewHistoryStore(kv, nil)

	store.Save(sampleHistory())
	store.Clear()

	assert.Empty(t, store.Load())
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk full")
	err := &PersistenceError{Op: "save", Key: HistoryKey, Err: cause}

	assert.Contains(t, err.Error(), "save")
	assert.Contains(t, err.Error(), HistoryKey)
	assert.ErrorIs(t, err, cause)
}
