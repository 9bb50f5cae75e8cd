// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/jarvis-tui/internal/markup"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "monokai"

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock represents a fenced code segment ready for display.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	Style    string
	LineNums bool
	theme    *styles.Theme
}

// NewCodeBlock creates a code block for a parsed code segment.
func NewCodeBlock(seg markup.Segment, theme *styles.Theme) CodeBlock {
	return CodeBlock{
		Language: seg.Language,
		Code:     seg.Content,
		MaxWidth: 80,
		Style:    DefaultCodeStyle,
		LineNums: true,
		theme:    theme,
	}
}

// Render renders the code block with a language badge and line numbers.
func (c CodeBlock) Render() string {
	highlighted := Highlight(c.Code, c.Language, c.Style, c.profile())
	lines := strings.Split(highlighted, "\n")

	if c.LineNums {
		width := len(strconv.Itoa(len(lines)))
		numStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(width).
			Align(lipgloss.Right).
			MarginRight(1)
		for i, line := range lines {
			lines[i] = numStyle.Render(strconv.Itoa(i+1)) + line
		}
	}

	badge := c.theme.CodeLangBadge.Render(c.label())
	maxWidth := c.MaxWidth
	if maxWidth < 20 {
		maxWidth = 20
	}
	return c.theme.CodeBlock.
		MaxWidth(maxWidth).
		Render(badge + "\n" + strings.Join(lines, "\n"))
}

func (c CodeBlock) label() string {
	if c.Language == "" {
		return markup.DefaultLanguage
	}
	return c.Language
}

func (c CodeBlock) profile() termenv.Profile {
	if c.theme == nil {
		return termenv.ANSI256
	}
	return c.theme.ColorProfile
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// Highlight applies chroma syntax highlighting for the terminal. Unknown
// languages fall back to content analysis, then to plain text. The input is
// returned unchanged if formatting fails or the terminal has no color.
func Highlight(code, language, style string, profile termenv.Profile) string {
	if profile == termenv.Ascii {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil || language == markup.DefaultLanguage {
		if analysed := lexers.Analyse(code); analysed != nil {
			lexer = analysed
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	chromaStyle := chromaStyles.Get(style)
	if chromaStyle == nil {
		chromaStyle = chromaStyles.Fallback
	}

	formatter := formatters.Get(formatterFor(profile))
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, chromaStyle, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func formatterFor(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI:
		return "terminal16"
	default:
		return "terminal256"
	}
}

// CodeStyleExists reports whether chroma knows the named style.
func CodeStyleExists(name string) bool {
	_, ok := chromaStyles.Registry[strings.ToLower(name)]
	return ok
}
