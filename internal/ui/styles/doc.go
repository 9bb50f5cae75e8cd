// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the jarvis TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values, so the same token renders
correctly on light and dark terminals:

	Purple - assistant bubbles, selections
	Cyan   - brand color, user highlights, prompts
	Rose   - error bubbles and error status lines
	Amber  - notices and warnings

# Theme System (theme.go)

A Theme bundles every lipgloss.Style the UI uses. The background can be
detected from the terminal or forced from configuration:

	theme := styles.NewTheme(styles.ModeAuto)
	bubble := theme.AssistantBubble.Render(text)

# Spinners (spinner.go)

SpinnerConfig frame sets convert to bubbles spinners with Spinner().
*/
package styles
