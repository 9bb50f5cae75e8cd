// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
)

// noticeTTL is how long status bar notices stay visible.
const noticeTTL = 4 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == StateOnboarding {
			return m.handleOnboardingKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.viewport, _ = m.viewport.Update(msg)
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("profile not saved")
			return m, m.notify("Profile not saved: "+msg.err.Error(), true)
		}
		return m, nil

	case replyMsg:
		return m.handleReply(msg)

	case attachedMsg:
		return m.handleAttached(msg)

	case copiedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("clipboard write failed")
			return m, m.notify("Copy failed: "+msg.err.Error(), true)
		}
		return m, m.notify("Copied last reply ("+pluralize(msg.chars, "char")+")", false)

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.statusBar.ClearNotice()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		return m, cmd
	}

	if m.state == StateChat && !m.ctrl.Generating() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleOnboardingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ob, done, cmd := m.onboarding.Update(msg)
	m.onboarding = ob
	if done == nil {
		return m, cmd
	}

	m.setProfile(done)
	m.layout()
	save := m.opts.SaveProfile
	if save == nil {
		return m, textinput.Blink
	}
	return m, tea.Batch(textinput.Blink, func() tea.Msg {
		return profileSavedMsg{settings: done, err: save(done)}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays take keys first.
	if m.emoji.IsOpen() {
		glyph, closed := m.emoji.Update(msg)
		if glyph != "" {
			m.input.SetValue(m.input.Value() + glyph)
			m.input.CursorEnd()
		}
		if closed {
			m.layout()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		m.viewport, _ = m.viewport.Update(msg)
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastReply()
	case key.Matches(msg, m.keys.Save):
		return m, m.saveHistory()
	}

	if m.ctrl.Generating() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Emoji):
		m.closePopups()
		m.emoji.Open()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.closePopups()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		m.complete(true)
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.complete(false)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.completions.Visible {
			m.input.SetValue(m.completions.Accept())
			m.input.CursorEnd()
			m.completions.Clear()
			m.layout()
			return m, nil
		}
		if m.attaching {
			return m, m.notify("Still reading attachments", true)
		}
		text := m.input.Value()
		m.input.Reset()
		m.showHelp = false
		return m.submit(text)
	}

	// Any other key edits the compose line and drops stale completions.
	if m.completions.Visible {
		m.completions.Clear()
		m.layout()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// complete cycles through candidates, computing them on first press. A
// single candidate is applied immediately.
func (m *Model) complete(forward bool) {
	if m.completions.Visible {
		if forward {
			m.completions.Next()
		} else {
			m.completions.Prev()
		}
		return
	}
	value := m.input.Value()
	candidates := m.completer.Complete(value, m.input.Position())
	switch len(candidates) {
	case 0:
		return
	case 1:
		m.completions.Update(value, candidates)
		m.input.SetValue(m.completions.Accept())
		m.input.CursorEnd()
		m.completions.Clear()
	default:
		m.completions.Update(value, candidates)
	}
	m.layout()
}

func (m *Model) closePopups() {
	m.completions.Clear()
	m.emoji.Close()
	m.showHelp = false
}

// =============================================================================
// TURNS
// =============================================================================

// submit routes slash commands and starts a turn for anything else.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	if result := m.parser.Parse(text); result.IsCommand {
		return m.runCommand(result)
	}
	turn, err := m.ctrl.Begin(text)
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		return m, nil
	case errors.Is(err, conversation.ErrBusy):
		return m, m.notify("Still waiting for the last reply", true)
	case err != nil:
		return m, m.notify(err.Error(), true)
	}
	return m, m.startTurn(turn)
}

// startTurn switches the view to waiting and sends the request.
func (m *Model) startTurn(turn *conversation.Turn) tea.Cmd {
	m.input.Blur()
	m.viewport.ScrollToBottom()
	m.refresh()
	start := m.thinking.Start()
	m.layout()
	return tea.Batch(start, m.request(turn))
}

// request runs the remote call off the UI goroutine.
func (m Model) request(turn *conversation.Turn) tea.Cmd {
	ctrl, ctx := m.ctrl, m.opts.Context
	return func() tea.Msg {
		return replyMsg{turn: turn, result: ctrl.Request(ctx, turn)}
	}
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	outcome := m.ctrl.Finish(msg.turn, msg.result)
	if errors.Is(outcome.Err, conversation.ErrStaleTurn) {
		return m, nil
	}

	m.thinking.Stop()
	m.refresh()
	m.layout()
	cmds := []tea.Cmd{m.input.Focus()}
	if outcome.Failed() {
		cmds = append(cmds, m.notify("Request failed, see log for details", true))
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// NOTICES AND LAYOUT
// =============================================================================

// notify shows text in the status bar and schedules its removal.
func (m *Model) notify(text string, isError bool) tea.Cmd {
	m.noticeID++
	id := m.noticeID
	m.statusBar.SetNotice(text, isError)
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

// refresh re-renders the transcript from the controller.
func (m *Model) refresh() {
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(m.greeting())
		return
	}
	m.viewport.SetContent(m.messages.Render(msgs))
}

// layout sizes every widget for the current window and overlays.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.header.SetWidth(m.width)
	m.statusBar.Width = m.width
	m.popup.Width = min(m.width-2, 70)
	m.input.Width = max(m.width-6, 10)
	m.messages.SetWidth(m.width - 2)

	const inputHeight = 2 // top border + line
	const statusHeight = 1
	const thinkingHeight = 1
	body := m.height - components.HeaderHeight - inputHeight - statusHeight - thinkingHeight - m.overlayHeight()
	m.viewport.SetSize(m.width, max(body, 3))
	m.refresh()
}

func (m Model) overlayHeight() int {
	switch {
	case m.emoji.IsOpen():
		return lipgloss.Height(m.emoji.View())
	case m.completions.Visible:
		return m.popup.Height(m.completions)
	case m.showHelp:
		return lipgloss.Height(m.helpView())
	}
	return 0
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
