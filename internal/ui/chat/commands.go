// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/jarvis-tui/internal/attach"
	"github.com/jeranaias/jarvis-tui/internal/commands"
	"github.com/jeranaias/jarvis-tui/internal/conversation"
)

// runCommand executes a parsed slash command.
func (m Model) runCommand(result commands.ParseResult) (tea.Model, tea.Cmd) {
	if result.Error != nil {
		return m, m.notify(result.Error.Error(), true)
	}

	switch result.Command.Name {
	case commands.CmdHelp:
		m.closePopups()
		m.showHelp = true
		m.layout()
		return m, nil

	case commands.CmdQuit:
		m.quitting = true
		return m, tea.Quit

	case commands.CmdAttach:
		m.attaching = true
		return m, tea.Batch(m.attachFiles(result.Args), m.notify("Reading "+pluralize(len(result.Args), "file")+"...", false))

	case commands.CmdSave:
		return m, m.saveHistory()

	case commands.CmdCopy:
		return m, m.copyLastReply()

	case commands.CmdClear:
		if err := m.ctrl.Reset(); err != nil {
			return m, m.notify(err.Error(), true)
		}
		m.messages.Invalidate()
		m.refresh()
		return m, m.notify("Screen cleared; earlier turns are still in context", false)

	case commands.CmdEmoji:
		m.closePopups()
		m.emoji.Open()
		m.layout()
		return m, nil
	}

	m.log.WithField("command", result.Command.Name).Warn("registered command has no handler")
	return m, nil
}

// attachFiles reads the files off the UI goroutine.
func (m Model) attachFiles(paths []string) tea.Cmd {
	attacher := m.attacher
	return func() tea.Msg {
		content, err := attacher.Message(paths...)
		return attachedMsg{content: content, count: len(paths), err: err}
	}
}

// handleAttached sends the synthetic file message as a user turn. The
// success notice is shown only when the turn actually started.
func (m Model) handleAttached(msg attachedMsg) (tea.Model, tea.Cmd) {
	m.attaching = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("attach failed")
		return m, m.notify(attachErrorText(msg.err), true)
	}
	turn, err := m.ctrl.Begin(msg.content)
	if err != nil {
		m.log.WithError(err).Warn("attachment not sent")
		return m, m.notify(attachNotSentText(err), true)
	}
	cmd := m.startTurn(turn)
	return m, tea.Batch(cmd, m.notify("Attached "+pluralize(msg.count, "file"), false))
}

func attachNotSentText(err error) string {
	if errors.Is(err, conversation.ErrBusy) {
		return "Attachment not sent: still waiting for the last reply"
	}
	return "Attachment not sent: " + err.Error()
}

func attachErrorText(err error) string {
	var fe *attach.FileError
	if errors.As(err, &fe) {
		return "Cannot attach " + fe.Path + ": " + fe.Err.Error()
	}
	return "Cannot attach: " + err.Error()
}

func (m *Model) saveHistory() tea.Cmd {
	if !m.ctrl.Save() {
		return m.notify("History storage is not configured", true)
	}
	return m.notify("History saved", false)
}

func (m *Model) copyLastReply() tea.Cmd {
	reply, ok := m.ctrl.LastReply()
	if !ok || strings.TrimSpace(reply.Content) == "" {
		return m.notify("No reply to copy yet", true)
	}
	write := m.opts.Clipboard
	content := reply.Content
	return func() tea.Msg {
		return copiedMsg{chars: len([]rune(content)), err: write(content)}
	}
}

// helpView lists slash commands and key bindings.
func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.OnboardingTitle.Render("Commands"))
	b.WriteString("\n")
	b.WriteString(m.registry.Help())
	b.WriteString("\n\n")
	b.WriteString(m.theme.OnboardingTitle.Render("Keys"))
	for _, binding := range m.keys.Bindings() {
		h := binding.Help()
		b.WriteString("\n")
		b.WriteString(m.theme.ShortcutKey.Render(padKey(h.Key)))
		b.WriteString(" ")
		b.WriteString(m.theme.ShortcutDesc.Render(h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.OnboardingHint.Render("esc to close"))
	return m.theme.CompletionPopup.Render(b.String())
}

func padKey(k string) string {
	const width = 10
	if len(k) >= width {
		return k
	}
	return k + strings.Repeat(" ", width-len(k))
}
