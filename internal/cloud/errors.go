// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"errors"
	"fmt"
	"net"

	openai "github.com/openai/openai-go"
)

// ErrorKind classifies a failed completion call.
type ErrorKind string

const (
	KindNetwork   ErrorKind = "network"   // transport failure, no response
	KindStatus    ErrorKind = "status"    // non-2xx response
	KindMalformed ErrorKind = "malformed" // body could not be decoded
	KindEmpty     ErrorKind = "empty"     // no choices returned
)

// Sentinels for errors.Is matching on kind alone.
var (
	ErrNetwork   = &RemoteCallError{Kind: KindNetwork}
	ErrStatus    = &RemoteCallError{Kind: KindStatus}
	ErrMalformed = &RemoteCallError{Kind: KindMalformed}
	ErrEmpty     = &RemoteCallError{Kind: KindEmpty}
)

// RemoteCallError is returned by Client.Complete for every failure.
type RemoteCallError struct {
	Kind       ErrorKind
	StatusCode int // set for KindStatus
	Err        error
}

// Error implements the error interface.
func (e *RemoteCallError) Error() string {
	switch {
	case e.Kind == KindStatus && e.Err != nil:
		return fmt.Sprintf("remote call failed (HTTP %d): %v", e.StatusCode, e.Err)
	case e.Kind == KindStatus:
		return fmt.Sprintf("remote call failed (HTTP %d)", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("remote call failed (%s): %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("remote call failed (%s)", e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// Is matches another RemoteCallError of the same kind.
func (e *RemoteCallError) Is(target error) bool {
	t, ok := target.(*RemoteCallError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// classify maps an error from the SDK onto a RemoteCallError.
func classify(err error) *RemoteCallError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &RemoteCallError{Kind: KindStatus, StatusCode: apiErr.StatusCode, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &RemoteCallError{Kind: KindNetwork, Err: err}
	}

	return &RemoteCallError{Kind: KindMalformed, Err: err}
}
