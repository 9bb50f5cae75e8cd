// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud sends chat completions to the hosted model endpoint.
//
// The endpoint speaks the OpenAI chat-completions protocol. Each call carries
// exactly two entries: a system instruction (with recent history folded in as
// a transcript) and the new user text.
//
// # Key Types
//
//   - Client: single-attempt completion client built on openai-go
//   - RemoteCallError: network, status, malformed or empty failures
//
// # Usage
//
//	client := cloud.NewClient(apiKey).
//	    WithBaseURL(cfg.API.BaseURL).
//	    WithModel(cfg.API.Model).
//	    WithLogger(logger)
//	reply, err := client.Complete(ctx, "Hello", history)
//
// # Logging
//
// Requests are logged as method, path, status and duration. Headers and
// bodies are never logged, so the API key and conversation stay out of logs.
package cloud
