// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME MODE
// =============================================================================

// Mode selects how the terminal background is determined.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode converts a configuration value into a Mode. An empty value is auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeDark:
		return ModeDark, nil
	case ModeLight:
		return ModeLight, nil
	}
	return ModeAuto, fmt.Errorf("unknown theme %q", s)
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
type Theme struct {
	Mode         Mode
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	App lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderAvatar   lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	UserSpeaker     lipgloss.Style
	AssistantName   lipgloss.Style
	Timestamp       lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputDisabled    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Notice       lipgloss.Style
	NoticeError  lipgloss.Style

	// Completion popup
	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDesc     lipgloss.Style

	// Loading
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Code blocks
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style

	// Emoji picker
	EmojiPicker   lipgloss.Style
	EmojiItem     lipgloss.Style
	EmojiSelected lipgloss.Style

	// Onboarding
	OnboardingBox   lipgloss.Style
	OnboardingTitle lipgloss.Style
	OnboardingLabel lipgloss.Style
	OnboardingHint  lipgloss.Style
}

// NewTheme creates a theme. ModeDark and ModeLight force the background
// for every adaptive color; ModeAuto asks the terminal.
func NewTheme(mode Mode) *Theme {
	isDark := true
	switch mode {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderAvatar = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2)

	// No background: glamour output carries its own colors and resets.
	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 2)

	t.UserSpeaker = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AssistantName = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputDisabled = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.NoticeError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Completion popup
	t.CompletionPopup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CompletionSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true)

	t.CompletionDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	// Emoji picker
	t.EmojiPicker = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.EmojiItem = lipgloss.NewStyle().
		Padding(0, 1)

	t.EmojiSelected = lipgloss.NewStyle().
		Background(Purple).
		Padding(0, 1)

	// Onboarding
	t.OnboardingBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.OnboardingTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.OnboardingLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.OnboardingHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth is the maximum width of a message bubble for the current size.
func (t *Theme) BubbleWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return max(t.Width-2, 20)
	case LayoutMedium:
		return t.Width * 85 / 100
	default:
		return t.Width * 3 / 4
	}
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
