// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/jarvis-tui/internal/commands"
	"github.com/jeranaias/jarvis-tui/internal/markup"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testTheme(width int) *styles.Theme {
	theme := styles.NewTheme(styles.ModeDark)
	theme.ColorProfile = termenv.Ascii
	theme.SetSize(width, 40)
	return theme
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func TestHighlightWithoutColorReturnsInput(t *testing.T) {
	code := "func main() {}"
	assert.Equal(t, code, Highlight(code, "go", DefaultCodeStyle, termenv.Ascii))
}

func TestHighlightAddsEscapes(t *testing.T) {
	out := Highlight("package main\nfunc main() {}", "go", DefaultCodeStyle, termenv.ANSI256)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "main")
}

func TestFormatterFor(t *testing.T) {
	assert.Equal(t, "terminal16m", formatterFor(termenv.TrueColor))
	assert.Equal(t, "terminal256", formatterFor(termenv.ANSI256))
	assert.Equal(t, "terminal16", formatterFor(termenv.ANSI))
}

func TestCodeBlockRender(t *testing.T) {
	seg := markup.Segment{Kind: markup.KindCode, Language: "python", Content: "print(1)\nprint(2)"}
	out := NewCodeBlock(seg, testTheme(80)).Render()
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "1 print(1)")
	assert.Contains(t, out, "2 print(2)")

	bare := NewCodeBlock(markup.Segment{Kind: markup.KindCode, Content: "x"}, testTheme(80)).Render()
	assert.Contains(t, bare, markup.DefaultLanguage)
}

func TestCodeStyleExists(t *testing.T) {
	assert.True(t, CodeStyleExists("monokai"))
	assert.True(t, CodeStyleExists("Monokai"))
	assert.False(t, CodeStyleExists("no-such-style"))
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdownRenderer(t *testing.T) {
	md := NewMarkdownRenderer("notty")
	assert.Empty(t, md.Render("   ", 60))

	out := md.Render("Hello **world**", 60)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "world")

	// Renderers are reused per width.
	md.Render("again", 60)
	md.Render("narrow", 5)
	assert.Len(t, md.renderers, 2)
	assert.Contains(t, md.renderers, 20)
}

// =============================================================================
// MESSAGES
// =============================================================================

func TestSpeakerLabel(t *testing.T) {
	assert.Equal(t, "🤖 Jarvis", AssistantSpeaker.Label())
	assert.Equal(t, "Ada", Speaker{Name: "Ada"}.Label())
	assert.Equal(t, "🦊", Speaker{Avatar: "🦊"}.Label())
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2025, 3, 1, 15, 4, 0, 0, time.Local)
	assert.Equal(t, "3:04 PM", FormatClock(ts))
	assert.Equal(t, "9:30 AM", FormatClock(time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)))
}

func newTestList(width int) *MessageList {
	ml := NewMessageList(testTheme(width), NewMarkdownRenderer("notty"))
	ml.SetWidth(width)
	ml.SetUser(Speaker{Name: "Ada", Avatar: "🦊"})
	return ml
}

func TestUserBubbleShowsNameAvatarAndTime(t *testing.T) {
	ml := newTestList(80)
	msg := model.NewUserMessage("hello there")
	out := ml.Bubble(msg).View()

	assert.Contains(t, out, "Ada 🦊")
	assert.Contains(t, out, "hello there")
	assert.Contains(t, out, FormatClock(msg.Timestamp))
}

func TestTimestampHidden(t *testing.T) {
	ml := newTestList(80)
	ml.ShowTimestamp = false
	msg := model.NewUserMessage("hi")
	assert.NotContains(t, ml.Bubble(msg).View(), FormatClock(msg.Timestamp))
}

func TestAssistantBubbleRendersSegments(t *testing.T) {
	ml := newTestList(100)
	msg := model.NewAssistantMessage("Here you go:\n```go\nfmt.Println(\"hi\")\n```\nDone.")
	out := ml.Bubble(msg).View()

	assert.Contains(t, out, "🤖 Jarvis")
	assert.Contains(t, out, "Here you go:")
	assert.Contains(t, out, "go")
	assert.Contains(t, out, `fmt.Println("hi")`)
	assert.Contains(t, out, "Done.")
	assert.NotContains(t, out, "```")
}

func TestErrorBubble(t *testing.T) {
	ml := newTestList(80)
	ml.IsError = func(m model.Message) bool { return m.Content == "boom" }

	failed := ml.Bubble(model.NewAssistantMessage("boom"))
	assert.True(t, failed.IsError)
	assert.Contains(t, failed.View(), "boom")

	assert.False(t, ml.Bubble(model.NewAssistantMessage("fine")).IsError)
	assert.False(t, ml.Bubble(model.NewUserMessage("boom")).IsError)
}

func TestEmptyMessageBody(t *testing.T) {
	ml := newTestList(80)
	assert.Contains(t, ml.Bubble(model.NewAssistantMessage("")).View(), "...")
}

func TestMessageListRenderCaches(t *testing.T) {
	ml := newTestList(80)
	msgs := []model.Message{model.NewUserMessage("one"), model.NewAssistantMessage("two")}

	out := ml.Render(msgs)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Len(t, ml.cache, 2)
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))

	ml.SetWidth(80)
	assert.Len(t, ml.cache, 2)
	ml.SetWidth(60)
	assert.Empty(t, ml.cache)

	assert.Empty(t, ml.Render(nil))
}

// =============================================================================
// HEADER, STATUS BAR, SPINNER
// =============================================================================

func TestHeaderView(t *testing.T) {
	theme := testTheme(100)
	h := NewHeader(theme)
	h.SetWidth(100)
	h.User = Speaker{Name: "Ada", Avatar: "🦊"}
	h.Model = "gpt-test"

	out := h.View()
	assert.Contains(t, out, "Jarvis")
	assert.Contains(t, out, "gpt-test")
	assert.Contains(t, out, "Ada")
	assert.Equal(t, HeaderHeight, lipgloss.Height(out))
	assert.LessOrEqual(t, lipgloss.Width(out), 100)
}

func TestStatusBarDropsHintsToFit(t *testing.T) {
	sb := NewStatusBar(testTheme(200))
	sb.Width = 200
	wide := sb.View()
	assert.Contains(t, wide, "ctrl+c")

	sb.Width = 40
	sb.SetNotice("History saved", false)
	narrow := sb.View()
	assert.Contains(t, narrow, "History saved")
	assert.NotContains(t, narrow, "ctrl+c")
	assert.LessOrEqual(t, lipgloss.Width(narrow), 40)

	sb.ClearNotice()
	assert.Empty(t, sb.Notice)
}

func TestThinkingIndicator(t *testing.T) {
	ti := NewThinkingIndicator(testTheme(80))
	assert.Empty(t, ti.View())
	assert.Zero(t, ti.Elapsed())

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	ti.now = func() time.Time { return now }

	require.NotNil(t, ti.Start())
	assert.True(t, ti.IsActive())
	now = start.Add(65 * time.Second)
	assert.Equal(t, 65*time.Second, ti.Elapsed())
	assert.Contains(t, ti.View(), "Jarvis is thinking")
	assert.Contains(t, ti.View(), "1m 5s")

	ti.Stop()
	_, cmd := ti.Update(nil)
	assert.Nil(t, cmd)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0s", formatElapsed(0))
	assert.Equal(t, "59s", formatElapsed(59*time.Second))
	assert.Equal(t, "2m 0s", formatElapsed(120*time.Second))
}

// =============================================================================
// COMPLETION POPUP
// =============================================================================

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		total, selected, size int
		start, end            int
	}{
		{3, 0, 6, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
		{10, 2, 0, 0, 10},
	}
	for _, tt := range tests {
		start, end := visibleWindow(tt.total, tt.selected, tt.size)
		assert.Equal(t, tt.start, start, "%+v", tt)
		assert.Equal(t, tt.end, end, "%+v", tt)
	}
}

func TestCompletionPopup(t *testing.T) {
	popup := NewCompletionPopup(testTheme(80))
	state := commands.NewCompletionState()
	assert.Empty(t, popup.View(state))
	assert.Zero(t, popup.Height(state))

	state.Update("/c", []commands.Completion{
		{Value: "/clear", Description: "Clear the screen"},
		{Value: "/copy", Description: "Copy the last reply"},
	})
	state.Next()
	out := popup.View(state)
	assert.Contains(t, out, "/clear")
	assert.Contains(t, out, "> /copy")
	assert.Contains(t, out, "Copy the last reply")
	assert.Equal(t, 4, popup.Height(state))
}

// =============================================================================
// EMOJI PICKER
// =============================================================================

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEmojiCatalogResolvesGlyphs(t *testing.T) {
	got := EmojiCatalog([]string{"rocket", "not_a_real_emoji", "+1"})
	require.Len(t, got, 2)
	assert.Equal(t, Emoji{ShortName: "rocket", Glyph: "🚀"}, got[0])
	assert.Equal(t, "👍", got[1].Glyph)

	assert.NotEmpty(t, NewEmojiPicker(testTheme(80)).entries)
}

func TestEmojiPickerPick(t *testing.T) {
	p := NewEmojiPicker(testTheme(80))
	assert.Empty(t, p.View())

	p.Open()
	require.True(t, p.IsOpen())
	assert.NotEmpty(t, p.View())

	for _, r := range "rock" {
		glyph, closed := p.Update(keyRunes(string(r)))
		assert.Empty(t, glyph)
		assert.False(t, closed)
	}
	assert.Equal(t, "rock", p.Filter())
	require.Len(t, p.Visible(), 1)

	glyph, closed := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, closed)
	assert.Equal(t, "🚀", glyph)
	assert.False(t, p.IsOpen())
}

func TestEmojiPickerNavigation(t *testing.T) {
	p := NewEmojiPicker(testTheme(80))
	p.Open()

	first, _ := p.Selected()
	p.Update(tea.KeyMsg{Type: tea.KeyLeft})
	still, _ := p.Selected()
	assert.Equal(t, first, still)

	p.Update(tea.KeyMsg{Type: tea.KeyRight})
	second, _ := p.Selected()
	assert.Equal(t, p.entries[1], second)

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	below, _ := p.Selected()
	assert.Equal(t, p.entries[11], below)

	p.Update(keyRunes("zz"))
	assert.Empty(t, p.Visible())
	assert.Contains(t, p.View(), "no match")
	p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "z", p.Filter())

	glyph, closed := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, closed)
	assert.Empty(t, glyph)
}

func TestEmojiPickerEnterWithNoMatch(t *testing.T) {
	p := NewEmojiPicker(testTheme(80))
	p.Open()
	p.Update(keyRunes("qqqq"))
	glyph, closed := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, closed)
	assert.Empty(t, glyph)
}

func TestExpandShortcodes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ship it :rocket:", "ship it 🚀"},
		{":+1: :+1:", "👍 👍"},
		{"time 10:30:00", "time 10:30:00"},
		{"a :not_an_emoji: b", "a :not_an_emoji: b"},
		{"ratio 3:1 :fire:", "ratio 3:1 🔥"},
		{"no codes", "no codes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandShortcodes(tt.in), tt.in)
	}
	assert.Len(t, DefaultEmoji(), len(EmojiCatalog(pickerShortNames)))
}
