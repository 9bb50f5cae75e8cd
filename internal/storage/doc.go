// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for jarvis.
//
// A small key-value abstraction (KV) has two backends:
//
//   - FileKV: one JSON file per key, written atomically
//   - SQLiteKV: a single kv table in a pure-Go SQLite database
//
// HistoryStore keeps the whole chat history under one key. Writes overwrite
// the previous value; there is no incremental append and no versioning.
// Both Save and Load fail soft: problems are logged and never returned.
//
// # Usage
//
//	kv, err := storage.OpenKV(storage.BackendFile, dir)
//	history := storage.NewHistoryStore(kv, logger)
//	history.Save(messages)
//	restored := history.Load()
package storage
