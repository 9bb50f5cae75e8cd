// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Starting..."
	}
	if m.state == StateOnboarding {
		return m.onboarding.View(m.width, m.height)
	}
	return m.renderChat()
}

func (m Model) renderChat() string {
	parts := []string{
		m.header.View(),
		m.viewport.View(),
		m.renderThinkingLine(),
	}
	if overlay := m.renderOverlay(); overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, m.statusBar.View(), m.renderInput())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderThinkingLine always occupies one row so the layout does not jump
// when a reply starts or ends.
func (m Model) renderThinkingLine() string {
	line := m.thinking.View()
	if line == "" {
		return " "
	}
	return " " + line
}

func (m Model) renderOverlay() string {
	switch {
	case m.emoji.IsOpen():
		return m.emoji.View()
	case m.completions.Visible:
		return m.popup.View(m.completions)
	case m.showHelp:
		return m.helpView()
	}
	return ""
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer.Width(max(m.width-2, 0))
	if m.ctrl.Generating() {
		return style.Render(m.theme.InputDisabled.Render("  waiting for " + m.header.Assistant.Name + "..."))
	}
	return style.Render(m.input.View())
}

// greeting fills the transcript before the first message.
func (m Model) greeting() string {
	name := "there"
	if m.profile != nil {
		name = m.profile.Name
	}
	lines := []string{
		m.theme.AssistantName.Render(m.header.Assistant.Label()),
		"",
		"Hello " + name + "! Ask me anything.",
		m.theme.OnboardingHint.Render("Type /help for commands, /attach <file> to share files."),
	}
	if n := len(m.ctrl.Context()); n > 0 {
		lines = append(lines, m.theme.Timestamp.Render(
			"I remember "+pluralize(n, "earlier message")+" from previous sessions."))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}
