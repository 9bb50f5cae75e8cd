// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// Shared styles for CLI output. main sets the lipgloss color profile from
// ColorProfile, so these degrade to plain text when piped.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	speakerStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)
