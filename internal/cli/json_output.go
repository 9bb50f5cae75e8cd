// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json command writes.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Command   string      `json:"command,omitempty"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Command:   command,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// COMMAND DATA
// =============================================================================

// VersionData is returned by `version --json`.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// AskData is returned by `ask --json`.
type AskData struct {
	Question   string `json:"question"`
	Response   string `json:"response"`
	Model      string `json:"model"`
	DurationMs int64  `json:"duration_ms"`
}

// HistoryEntry is one stored message in `history show --json`.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryData is returned by `history show --json`.
type HistoryData struct {
	Total    int            `json:"total"`
	Messages []HistoryEntry `json:"messages"`
}

// ConfigValue is returned by `config get --json`.
type ConfigValue struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}
