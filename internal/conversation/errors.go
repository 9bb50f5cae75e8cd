// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"errors"
	"fmt"
)

// ValidationError reports input the controller refuses to act on.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// Is matches another ValidationError with the same field and reason.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Field == t.Field && e.Reason == t.Reason
}

var (
	// ErrEmptyInput is returned by Begin for empty or whitespace-only text.
	ErrEmptyInput = &ValidationError{Field: "message", Reason: "empty input"}

	// ErrBusy is returned while a reply is being generated.
	ErrBusy = errors.New("a reply is already being generated")

	// ErrStaleTurn is returned by Finish for a turn that is not in flight.
	ErrStaleTurn = errors.New("turn is not in flight")
)
