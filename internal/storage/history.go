// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/model"
)

// HistoryKey is the single key that holds the serialized chat history.
const HistoryKey = "chat_messages"

// =============================================================================
// ERRORS
// =============================================================================

// PersistenceError describes a failed read or write of the local store.
// It is logged by HistoryStore and never returned to callers of Save/Load.
type PersistenceError struct {
	Op  string // "save", "load" or "clear"
	Key string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore persists the full message list under HistoryKey.
// It is used from a single goroutine; no locking is done here.
type HistoryStore struct {
	kv  KV
	key string
	log logrus.FieldLogger
}

// NewHistoryStore wraps kv. A nil logger discards log output.
func NewHistoryStore(kv KV, log logrus.FieldLogger) *HistoryStore {
	if log == nil {
		log = logging.Discard()
	}
	return &HistoryStore{kv: kv, key: HistoryKey, log: log}
}

// Save serializes messages and overwrites the stored value.
// Failures are logged and swallowed.
func (h *HistoryStore) Save(messages []model.Message) {
	if messages == nil {
		messages = []model.Message{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		h.report(&PersistenceError{Op: "save", Key: h.key, Err: err})
		return
	}
	if err := h.kv.Set(h.key, data); err != nil {
		h.report(&PersistenceError{Op: "save", Key: h.key, Err: err})
		return
	}
	h.log.WithField("count", len(messages)).Debug("history saved")
}

// Load returns the stored history, or an empty slice if nothing usable is
// stored. Entries with an unknown role are dropped.
func (h *HistoryStore) Load() []model.Message {
	data, err := h.kv.Get(h.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.log.Debug("no stored history")
		} else {
			h.report(&PersistenceError{Op: "load", Key: h.key, Err: err})
		}
		return []model.Message{}
	}

	var stored []model.Message
	if err := json.Unmarshal(data, &stored); err != nil {
		h.report(&PersistenceError{Op: "load", Key: h.key, Err: err})
		return []model.Message{}
	}

	messages := make([]model.Message, 0, len(stored))
	for _, msg := range stored {
		if !msg.Role.Valid() {
			h.log.WithFields(logrus.Fields{"id": msg.ID, "role": msg.Role}).
				Warn("dropping stored message with unknown role")
			continue
		}
		messages = append(messages, msg)
	}
	h.log.WithField("count", len(messages)).Debug("history loaded")
	return messages
}

// Clear removes the stored history.
func (h *HistoryStore) Clear() {
	if err := h.kv.Delete(h.key); err != nil {
		h.report(&PersistenceError{Op: "clear", Key: h.key, Err: err})
	}
}

func (h *HistoryStore) report(err *PersistenceError) {
	h.log.WithError(err).WithField("op", err.Op).Warn("history store failure")
}
