// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// CHAT VIEWPORT COMPONENT - Scrollable chat area with indicators
// =============================================================================

// ChatViewport is the scrollable transcript. It follows new content until
// the user scrolls up, and resumes following once they return to the bottom.
type ChatViewport struct {
	viewport   viewport.Model
	width      int
	height     int
	ready      bool
	autoScroll bool
	theme      *styles.Theme
}

// NewChatViewport creates a new ChatViewport.
func NewChatViewport(theme *styles.Theme) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	// Key handling lives in Update so the compose line keeps j/k/space.
	vp.KeyMap = viewport.KeyMap{}

	return &ChatViewport{
		viewport:   vp,
		width:      80,
		height:     20,
		autoScroll: true,
		theme:      theme,
	}
}

// SetSize updates the viewport dimensions. One line is reserved for the
// scroll indicator.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = max(height, 1)
	cv.viewport.Width = width
	cv.viewport.Height = max(height-1, 1)
	cv.ready = true
	if cv.autoScroll {
		cv.viewport.GotoBottom()
	}
}

// SetContent replaces the rendered transcript.
func (cv *ChatViewport) SetContent(content string) {
	cv.viewport.SetContent(content)
	if cv.autoScroll {
		cv.viewport.GotoBottom()
	}
}

// ScrollToBottom scrolls to the newest content and resumes following it.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
	cv.autoScroll = true
}

// PageUp scrolls up by one page.
func (cv *ChatViewport) PageUp() {
	cv.viewport.ViewUp()
	cv.autoScroll = cv.viewport.AtBottom()
}

// PageDown scrolls down by one page.
func (cv *ChatViewport) PageDown() {
	cv.viewport.ViewDown()
	cv.autoScroll = cv.viewport.AtBottom()
}

// ScrollUp scrolls up by n lines.
func (cv *ChatViewport) ScrollUp(n int) {
	cv.viewport.LineUp(n)
	cv.autoScroll = cv.viewport.AtBottom()
}

// ScrollDown scrolls down by n lines.
func (cv *ChatViewport) ScrollDown(n int) {
	cv.viewport.LineDown(n)
	cv.autoScroll = cv.viewport.AtBottom()
}

// AtBottom reports whether the newest content is visible.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// AutoScroll reports whether new content scrolls into view.
func (cv *ChatViewport) AutoScroll() bool {
	return cv.autoScroll
}

// Update handles scrolling keys and the mouse wheel.
func (cv *ChatViewport) Update(msg tea.Msg) (*ChatViewport, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup":
			cv.PageUp()
		case "pgdown":
			cv.PageDown()
		case "ctrl+home":
			cv.viewport.GotoTop()
			cv.autoScroll = false
		case "ctrl+end":
			cv.ScrollToBottom()
		}
		return cv, nil

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			cv.ScrollUp(3)
		case tea.MouseWheelDown:
			cv.ScrollDown(3)
		}
		return cv, nil
	}
	return cv, nil
}

// View renders the viewport and a one-line scroll indicator.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}
	var b strings.Builder
	b.WriteString(cv.viewport.View())
	b.WriteString("\n")
	b.WriteString(cv.renderIndicator())
	return b.String()
}

func (cv *ChatViewport) renderIndicator() string {
	line := lipgloss.NewStyle().Width(cv.width).Align(lipgloss.Center)
	if cv.viewport.AtBottom() {
		return line.Render("")
	}
	pct := fmt.Sprintf("%3.0f%%", cv.viewport.ScrollPercent()*100)
	text := lipgloss.NewStyle().Foreground(styles.Cyan).Render("v") + " " +
		lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true).Render("more below, pgdn to scroll "+pct)
	return line.Render(text)
}
