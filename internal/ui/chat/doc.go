// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model for the jarvis TUI.

# Model (model.go)

Model owns the compose line, the transcript viewport and the overlays. All
conversation state lives in a conversation.Controller; the view re-renders
from Controller.Messages after every event.

# Onboarding (onboarding.go)

Without a saved profile the model starts in an onboarding form that asks
for a display name and an avatar glyph.

# Update Loop (update.go)

Submitting text calls Controller.Begin on the UI goroutine, runs
Controller.Request inside a tea.Cmd, and applies the result with
Controller.Finish when replyMsg arrives. The compose line is disabled in
between.

# Slash Commands (commands.go)

Lines starting with "/" are parsed by the commands package: /attach, /save,
/copy, /clear, /emoji, /help and /quit.
*/
package chat
