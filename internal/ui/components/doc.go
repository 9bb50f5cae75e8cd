// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the jarvis TUI.

# Display Components

Header (header.go) - Assistant persona and the signed-in user.
MessageList / MessageBubble (message.go) - Chat bubbles built from parsed
message segments: prose goes through MarkdownRenderer (markdown.go), fenced
code through CodeBlock (codeblock.go).
ChatViewport (viewport.go) - Scrollable transcript with auto-scroll.
StatusBar (statusbar.go) - Model name, notices and key hints.

# Input Helpers

CompletionPopup (completion.go) - Slash command and file completions.
EmojiPicker (emoji.go) - Glyph grid opened with ctrl+e.
ThinkingIndicator (spinner.go) - Shown while a reply is pending.
*/
package components
