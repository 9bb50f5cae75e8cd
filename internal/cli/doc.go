// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the jarvis command line and runs the non-TUI commands.
//
// # Commands
//
//	jarvis                    Start the TUI (default)
//	jarvis chat               Line-mode chat with input history
//	jarvis ask "question"     One question, one answer
//	jarvis history [sub]      Show, clear or export the stored context
//	jarvis config [sub]       Read and edit config.toml
//	jarvis version            Print version information
//
// Handlers take an Env so they can run against buffers in tests. Errors are
// returned to main, which maps them to exit codes with ExitCode.
package cli
