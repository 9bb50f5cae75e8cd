// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/jarvis-tui/internal/cloud"
	"github.com/jeranaias/jarvis-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitNetworkError = 5
	ExitNotFound     = 7
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError wraps a failure inside a command with what was being done.
// When Message is set it replaces the text of Err, which stays reachable
// through Unwrap for exit code mapping.
type CommandError struct {
	Command string // e.g. "history"
	Action  string // e.g. "export"
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError reports arguments the command cannot run with.
type UsageError struct {
	Reason string
	Usage  string // example invocation, optional
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (usage: %s)", e.Reason, e.Usage)
}

// NotFoundError reports a key or item that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewCommandError returns nil when err is nil.
func NewCommandError(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// NewUsageError creates a UsageError.
func NewUsageError(reason, usage string) error {
	return &UsageError{Reason: reason, Usage: usage}
}

// ErrMissingArgument reports a required positional that was not given.
func ErrMissingArgument(name, usage string) error {
	return &UsageError{Reason: "missing argument: " + name, Usage: usage}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCode maps err onto a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ExitNotFound
	}
	var invalid config.ValidateErrors
	if errors.As(err, &invalid) {
		return ExitConfigError
	}
	var remote *cloud.RemoteCallError
	if errors.As(err, &remote) {
		return ExitNetworkError
	}
	return ExitGeneralError
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w, as JSON when jsonMode is set.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if !jsonMode {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), err)
		return
	}

	output := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"exit_code": ExitCode(err),
	}
	var cmdErr *CommandError
	var usage *UsageError
	var notFound *NotFoundError
	switch {
	case errors.As(err, &usage):
		output["error_type"] = "usage_error"
		if usage.Usage != "" {
			output["usage"] = usage.Usage
		}
	case errors.As(err, &notFound):
		output["error_type"] = "not_found_error"
		output["resource"] = notFound.Resource
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
	default:
		output["error_type"] = "generic_error"
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(output)
}
