// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/model"
)

// replyMsg carries the result of a remote call back to the UI goroutine.
type replyMsg struct {
	turn   *conversation.Turn
	result conversation.Result
}

// attachedMsg carries the synthetic message built from attached files.
type attachedMsg struct {
	content string
	count   int
	err     error
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	chars int
	err   error
}

// clearNoticeMsg hides the notice with the matching id.
type clearNoticeMsg struct {
	id int
}

// profileSavedMsg reports the outcome of persisting onboarding settings.
type profileSavedMsg struct {
	settings *model.UserSettings
	err      error
}
