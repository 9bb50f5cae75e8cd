// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat view.
//
// # Built-in Commands
//
//   - /help: Show available commands
//   - /attach: Attach up to five files as one message
//   - /save: Save the conversation context
//   - /copy: Copy the last reply to the clipboard
//   - /clear: Clear the messages on screen
//   - /emoji: Open the emoji picker
//   - /quit: Exit jarvis
//
// # Usage
//
//	parser := commands.NewParser(commands.NewRegistry())
//	result := parser.Parse(input)
//	if result.IsCommand && result.Error == nil {
//	    switch result.Command.Name { ... }
//	}
//
// Tab completion:
//
//	completions := commands.NewCompleter(registry).Complete("/at", 3)
//	// Returns "/attach"
package commands
