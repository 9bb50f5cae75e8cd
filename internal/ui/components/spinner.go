// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// ThinkingIndicator is shown in place of the next reply while one is pending.
type ThinkingIndicator struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
	theme     *styles.Theme

	// now is replaced in tests.
	now func() time.Time
}

// NewThinkingIndicator creates an indicator attributed to the assistant.
func NewThinkingIndicator(theme *styles.Theme) ThinkingIndicator {
	s := spinner.New()
	s.Spinner = styles.DotsSpinner.Spinner()
	s.Style = theme.Spinner
	return ThinkingIndicator{
		spinner: s,
		message: AssistantSpeaker.Name + " is thinking",
		theme:   theme,
		now:     time.Now,
	}
}

// Start begins the animation and returns its first tick.
func (t *ThinkingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = t.now()
	return t.spinner.Tick
}

// Stop ends the animation. Pending ticks are dropped by Update.
func (t *ThinkingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the indicator is running.
func (t *ThinkingIndicator) IsActive() bool {
	return t.active
}

// Elapsed returns the time since Start.
func (t *ThinkingIndicator) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return t.now().Sub(t.startTime)
}

// Update advances the animation while active.
func (t ThinkingIndicator) Update(msg tea.Msg) (ThinkingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or nothing when stopped.
func (t ThinkingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.theme.AssistantName.Render(AssistantSpeaker.Avatar) + " " +
		t.theme.ThinkingText.Render(t.message) +
		t.spinner.View() +
		t.theme.Timestamp.Render(" ("+formatElapsed(t.Elapsed())+")")
}

// formatElapsed formats a duration as "12s" or "1m 5s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return strconv.Itoa(seconds) + "s"
	}
	return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
}
