// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the chat state and drives one turn at a time.
//
// A Controller holds two lists: the session list shown on screen and the
// rolling background context used for prompts. A turn is split into three
// steps so the UI can run the slow middle step off its event loop:
//
//	turn, err := ctl.Begin(text)        // append user message, go busy
//	result := ctl.Request(ctx, turn)    // remote call, touches no state
//	outcome := ctl.Finish(turn, result) // append reply, go idle
//
// Send runs all three in place for line-oriented callers.
//
// # States
//
//	Idle --Begin--> AwaitingReply --Finish--> Idle
//
// Begin while AwaitingReply fails with ErrBusy. Failed turns produce a fixed
// assistant error message and leave the background context untouched.
package conversation
