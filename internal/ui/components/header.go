// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// HeaderHeight is the number of rows Header.View occupies.
const HeaderHeight = 3

// Header shows the assistant persona on the left and the user on the right.
type Header struct {
	Width     int
	Assistant Speaker
	User      Speaker
	Model     string
	theme     *styles.Theme
}

// NewHeader creates a header for the Jarvis persona.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Width:     80,
		Assistant: AssistantSpeaker,
		theme:     theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header box.
func (h *Header) View() string {
	width := max(h.Width, 40)
	// border (2) + Padding(0, 2) (4)
	inner := width - 6

	left := h.theme.HeaderAvatar.Render(h.Assistant.Avatar) + " " +
		h.theme.HeaderTitle.Render(h.Assistant.Name)
	if h.Model != "" && h.theme.GetLayoutMode() != styles.LayoutNarrow {
		left += "  " + h.theme.HeaderSubtitle.Render(h.Model)
	}

	right := ""
	if h.User.Name != "" {
		right = h.theme.HeaderSubtitle.Render(h.User.Name) + " " + h.User.Avatar
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return h.theme.Header.Width(width - 2).MaxHeight(HeaderHeight).Render(line)
}
