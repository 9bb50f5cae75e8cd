// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark-emoji/definition"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// EMOJI CATALOG
// =============================================================================

// Emoji is one selectable glyph.
type Emoji struct {
	ShortName string
	Glyph     string
}

// pickerShortNames is the picker's palette, in display order. Names are
// GitHub short codes resolved through the goldmark-emoji definitions.
var pickerShortNames = []string{
	"smile", "grin", "joy", "wink", "blush", "heart_eyes", "thinking",
	"sunglasses", "nerd_face", "sweat_smile", "upside_down_face", "neutral_face",
	"confused", "cry", "sob", "angry", "scream", "sleeping", "robot", "ghost",
	"+1", "-1", "clap", "wave", "pray", "muscle", "ok_hand", "raised_hands",
	"eyes", "brain", "heart", "fire", "sparkles", "star", "zap", "tada",
	"rocket", "bulb", "computer", "bug", "memo", "books", "coffee", "pizza",
	"white_check_mark", "x", "warning", "question", "100", "hourglass",
}

// EmojiCatalog resolves names against the GitHub emoji set. Unknown names
// are skipped.
func EmojiCatalog(names []string) []Emoji {
	defs := definition.Github()
	out := make([]Emoji, 0, len(names))
	for _, name := range names {
		e, ok := defs.Get(name)
		if !ok {
			continue
		}
		out = append(out, Emoji{ShortName: name, Glyph: string(e.Unicode)})
	}
	return out
}

// DefaultEmoji returns the picker's palette.
func DefaultEmoji() []Emoji {
	return EmojiCatalog(pickerShortNames)
}

// ExpandShortcodes replaces :short_name: codes with their glyphs. Unknown
// codes are left as typed.
func ExpandShortcodes(text string) string {
	if strings.Count(text, ":") < 2 {
		return text
	}
	defs := definition.Github()
	var b strings.Builder
	rest := text
	for {
		start := strings.IndexByte(rest, ':')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+1:], ':')
		if end < 0 {
			break
		}
		name := rest[start+1 : start+1+end]
		if e, ok := defs.Get(name); ok && isShortName(name) {
			b.WriteString(rest[:start])
			b.WriteString(string(e.Unicode))
			rest = rest[start+end+2:]
			continue
		}
		// Keep the first colon and retry from the second.
		b.WriteString(rest[:start+1])
		rest = rest[start+1:]
	}
	b.WriteString(rest)
	return b.String()
}

func isShortName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '+', r == '-':
		default:
			return false
		}
	}
	return true
}

// =============================================================================
// EMOJI PICKER
// =============================================================================

// EmojiPicker is a filterable grid of glyphs. Typing narrows the grid by
// short name; arrows move; enter picks; esc closes.
type EmojiPicker struct {
	entries  []Emoji
	filter   string
	selected int
	columns  int
	open     bool
	theme    *styles.Theme
}

// NewEmojiPicker creates a closed picker over the default palette.
func NewEmojiPicker(theme *styles.Theme) *EmojiPicker {
	return &EmojiPicker{
		entries: EmojiCatalog(pickerShortNames),
		columns: 10,
		theme:   theme,
	}
}

// Open shows the picker with an empty filter.
func (p *EmojiPicker) Open() {
	p.open = true
	p.filter = ""
	p.selected = 0
}

// Close hides the picker.
func (p *EmojiPicker) Close() {
	p.open = false
}

// IsOpen reports whether the picker is shown.
func (p *EmojiPicker) IsOpen() bool {
	return p.open
}

// Filter returns the current filter text.
func (p *EmojiPicker) Filter() string {
	return p.filter
}

// Visible returns the entries matching the filter.
func (p *EmojiPicker) Visible() []Emoji {
	if p.filter == "" {
		return p.entries
	}
	var out []Emoji
	for _, e := range p.entries {
		if strings.Contains(e.ShortName, p.filter) {
			out = append(out, e)
		}
	}
	return out
}

// Selected returns the highlighted entry.
func (p *EmojiPicker) Selected() (Emoji, bool) {
	visible := p.Visible()
	if p.selected < 0 || p.selected >= len(visible) {
		return Emoji{}, false
	}
	return visible[p.selected], true
}

// Update handles a key while open. It returns the picked glyph, if any, and
// whether the picker closed.
func (p *EmojiPicker) Update(msg tea.KeyMsg) (glyph string, closed bool) {
	if !p.open {
		return "", true
	}
	count := len(p.Visible())

	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlE:
		p.Close()
		return "", true
	case tea.KeyEnter:
		e, ok := p.Selected()
		p.Close()
		if !ok {
			return "", true
		}
		return e.Glyph, true
	case tea.KeyLeft:
		p.move(-1, count)
	case tea.KeyRight, tea.KeyTab:
		p.move(1, count)
	case tea.KeyUp:
		p.move(-p.columns, count)
	case tea.KeyDown:
		p.move(p.columns, count)
	case tea.KeyBackspace:
		if p.filter != "" {
			r := []rune(p.filter)
			p.filter = string(r[:len(r)-1])
			p.selected = 0
		}
	case tea.KeyRunes:
		p.filter += strings.ToLower(string(msg.Runes))
		p.selected = 0
	}
	return "", false
}

func (p *EmojiPicker) move(delta, count int) {
	if count == 0 {
		return
	}
	next := p.selected + delta
	if next < 0 || next >= count {
		return
	}
	p.selected = next
}

// View renders the grid with the filter and the highlighted short name.
func (p *EmojiPicker) View() string {
	if !p.open {
		return ""
	}
	visible := p.Visible()

	var rows []string
	for start := 0; start < len(visible); start += p.columns {
		end := min(start+p.columns, len(visible))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			style := p.theme.EmojiItem
			if i == p.selected {
				style = p.theme.EmojiSelected
			}
			cells = append(cells, style.Render(visible[i].Glyph))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	if len(rows) == 0 {
		rows = append(rows, p.theme.ShortcutDesc.Render("no match"))
	}

	caption := "search: " + p.filter
	if e, ok := p.Selected(); ok {
		caption += "  :" + e.ShortName + ":"
	}
	body := strings.Join(rows, "\n") + "\n" + p.theme.ShortcutDesc.Render(caption)
	return p.theme.EmojiPicker.Render(body)
}
