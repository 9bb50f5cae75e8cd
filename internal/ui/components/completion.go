// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/commands"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
	"github.com/jeranaias/jarvis-tui/internal/util"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup renders the candidates held in a commands.CompletionState.
type CompletionPopup struct {
	Width      int
	MaxVisible int
	theme      *styles.Theme
}

// NewCompletionPopup creates a popup showing up to 6 rows.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{Width: 50, MaxVisible: 6, theme: theme}
}

// Height returns the rows the popup occupies for state.
func (c *CompletionPopup) Height(state *commands.CompletionState) int {
	if state == nil || !state.Visible {
		return 0
	}
	return min(len(state.Completions), c.MaxVisible) + 2
}

// View renders the popup, or nothing when state has no visible candidates.
func (c *CompletionPopup) View(state *commands.CompletionState) string {
	if state == nil || !state.Visible || len(state.Completions) == 0 {
		return ""
	}
	start, end := visibleWindow(len(state.Completions), state.Selected, c.MaxVisible)

	items := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, c.renderItem(state.Completions[i], i == state.Selected))
	}
	return c.theme.CompletionPopup.
		Width(c.Width).
		Render(strings.Join(items, "\n"))
}

func (c *CompletionPopup) renderItem(comp commands.Completion, selected bool) string {
	value := comp.Display
	if value == "" {
		value = comp.Value
	}
	const valueWidth = 20
	value = util.PadRight(util.TruncateWidth(value, valueWidth), valueWidth)
	desc := util.TruncateWidth(comp.Description, max(c.Width-valueWidth-6, 0))

	indicator := "  "
	valueStyle := c.theme.CompletionItem
	if selected {
		indicator = "> "
		valueStyle = c.theme.CompletionSelected
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		indicator,
		valueStyle.Render(value),
		" ",
		c.theme.CompletionDesc.Render(desc),
	)
}

// visibleWindow keeps the selected row inside a window of size rows.
func visibleWindow(total, selected, size int) (start, end int) {
	if size <= 0 || total <= size {
		return 0, total
	}
	start = max(selected-size/2, 0)
	end = start + size
	if end > total {
		end = total
		start = end - size
	}
	return start, end
}
