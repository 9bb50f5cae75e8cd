// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the chat view key hints.
var DefaultShortcuts = []Shortcut{
	{"enter", "send"},
	{"tab", "complete"},
	{"ctrl+e", "emoji"},
	{"ctrl+y", "copy"},
	{"ctrl+s", "save"},
	{"pgup/pgdn", "scroll"},
	{"ctrl+c", "quit"},
}

// StatusBar shows a transient notice on the left and key hints on the right.
type StatusBar struct {
	Width     int
	Notice    string
	IsError   bool
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the default hints.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, Shortcuts: DefaultShortcuts, theme: theme}
}

// SetNotice shows msg until ClearNotice is called.
func (s *StatusBar) SetNotice(msg string, isError bool) {
	s.Notice = msg
	s.IsError = isError
}

// ClearNotice removes the notice.
func (s *StatusBar) ClearNotice() {
	s.Notice = ""
	s.IsError = false
}

// View renders a single row. Hints are dropped from the right until the
// row fits.
func (s *StatusBar) View() string {
	notice := ""
	if s.Notice != "" {
		style := s.theme.Notice
		if s.IsError {
			style = s.theme.NoticeError
		}
		notice = style.Render(s.Notice)
	}

	inner := max(s.Width-2, 0)
	hints := s.Shortcuts
	var right string
	for len(hints) > 0 {
		right = s.renderShortcuts(hints)
		if lipgloss.Width(notice)+lipgloss.Width(right)+1 <= inner {
			break
		}
		hints = hints[:len(hints)-1]
		right = ""
	}

	gap := max(inner-lipgloss.Width(notice)-lipgloss.Width(right), 0)
	return s.theme.StatusBar.Render(notice + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderShortcuts(hints []Shortcut) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = s.theme.ShortcutKey.Render(h.Key) + " " + s.theme.ShortcutDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}
