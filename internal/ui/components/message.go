// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/jarvis-tui/internal/markup"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// Speaker is the name and avatar shown above a bubble.
type Speaker struct {
	Name   string
	Avatar string
}

// Label joins avatar and name the way bubble headers show them.
func (s Speaker) Label() string {
	switch {
	case s.Avatar == "":
		return s.Name
	case s.Name == "":
		return s.Avatar
	}
	return s.Avatar + " " + s.Name
}

// AssistantSpeaker is the persona replies are attributed to.
var AssistantSpeaker = Speaker{Name: "Jarvis", Avatar: "🤖"}

// bubble chrome: rounded border plus Padding(0, 2).
const bubbleChrome = 6

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one message.
type MessageBubble struct {
	Message       model.Message
	Speaker       Speaker
	Width         int
	ShowTimestamp bool
	IsError       bool
	CodeStyle     string

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// View renders the bubble. User bubbles are right-aligned within Width.
func (b MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b MessageBubble) renderUser() string {
	body := b.renderBody(false)
	bubble := b.theme.UserBubble.Render(body)
	header := b.theme.UserSpeaker.Render(b.Speaker.Name+" "+b.Speaker.Avatar) + b.timestamp()
	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b MessageBubble) renderAssistant() string {
	style := b.theme.AssistantBubble
	if b.IsError {
		style = b.theme.ErrorBubble
	}
	bubble := style.Render(b.renderBody(!b.IsError))
	header := b.theme.AssistantName.Render(b.Speaker.Label()) + b.timestamp()
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// renderBody renders the bubble content. Prose is markdown for replies and
// plain wrapped text for user input.
func (b MessageBubble) renderBody(markdown bool) string {
	md := b.markdown
	if !markdown {
		md = nil
	}
	return RenderContent(b.Message.Content, ContentOptions{
		Width:     b.innerWidth(),
		Theme:     b.theme,
		Markdown:  md,
		CodeStyle: b.CodeStyle,
	})
}

// ContentOptions controls RenderContent.
type ContentOptions struct {
	Width     int
	Theme     *styles.Theme
	Markdown  *MarkdownRenderer // nil wraps prose as plain text
	CodeStyle string
}

// RenderContent renders each parsed segment of content. Code always goes
// through chroma; blank prose segments are dropped.
func RenderContent(content string, opts ContentOptions) string {
	segments := markup.Parse(content)
	if len(segments) == 0 {
		return "..."
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.IsCode() {
			cb := NewCodeBlock(seg, opts.Theme)
			cb.MaxWidth = opts.Width
			if opts.CodeStyle != "" {
				cb.Style = opts.CodeStyle
			}
			parts = append(parts, cb.Render())
			continue
		}
		text := strings.Trim(seg.Content, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if opts.Markdown != nil {
			parts = append(parts, opts.Markdown.Render(text, opts.Width))
			continue
		}
		parts = append(parts, wrapPlain(text, opts.Width))
	}
	if len(parts) == 0 {
		return "..."
	}
	return strings.Join(parts, "\n\n")
}

func (b MessageBubble) innerWidth() int {
	w := b.Width
	if b.theme != nil && b.theme.Width > 0 {
		w = min(w, b.theme.BubbleWidth())
	}
	return max(w-bubbleChrome, 20)
}

func (b MessageBubble) timestamp() string {
	if !b.ShowTimestamp || b.Message.Timestamp.IsZero() {
		return ""
	}
	return "  " + b.theme.Timestamp.Render(FormatClock(b.Message.Timestamp))
}

// FormatClock renders t as a local time of day, e.g. "3:04 PM".
func FormatClock(t time.Time) string {
	return t.Local().Format("3:04 PM")
}

// wrapPlain wraps text to width without padding lines that are shorter.
func wrapPlain(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a conversation. Rendered bubbles are cached by
// message ID until the width or speakers change.
type MessageList struct {
	User          Speaker
	Assistant     Speaker
	ShowTimestamp bool
	CodeStyle     string

	// IsError marks assistant messages that should use the error bubble.
	IsError func(model.Message) bool

	width    int
	theme    *styles.Theme
	markdown *MarkdownRenderer
	cache    map[string]string
}

// NewMessageList creates a list rendering with theme and markdown.
func NewMessageList(theme *styles.Theme, markdown *MarkdownRenderer) *MessageList {
	return &MessageList{
		Assistant:     AssistantSpeaker,
		ShowTimestamp: true,
		CodeStyle:     DefaultCodeStyle,
		width:         80,
		theme:         theme,
		markdown:      markdown,
		cache:         make(map[string]string),
	}
}

// SetWidth sets the list width and drops cached renders.
func (ml *MessageList) SetWidth(width int) {
	if width == ml.width {
		return
	}
	ml.width = width
	ml.Invalidate()
}

// SetUser sets the user speaker and drops cached renders.
func (ml *MessageList) SetUser(user Speaker) {
	ml.User = user
	ml.Invalidate()
}

// Invalidate drops every cached bubble.
func (ml *MessageList) Invalidate() {
	ml.cache = make(map[string]string)
}

// Bubble builds the bubble for msg.
func (ml *MessageList) Bubble(msg model.Message) MessageBubble {
	speaker := ml.Assistant
	if msg.IsUser() {
		speaker = ml.User
	}
	return MessageBubble{
		Message:       msg,
		Speaker:       speaker,
		Width:         ml.width,
		ShowTimestamp: ml.ShowTimestamp,
		IsError:       !msg.IsUser() && ml.IsError != nil && ml.IsError(msg),
		CodeStyle:     ml.CodeStyle,
		theme:         ml.theme,
		markdown:      ml.markdown,
	}
}

// Render renders msgs separated by blank lines.
func (ml *MessageList) Render(msgs []model.Message) string {
	views := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if v, ok := ml.cache[msg.ID]; ok && msg.ID != "" {
			views = append(views, v)
			continue
		}
		v := ml.Bubble(msg).View()
		if msg.ID != "" {
			ml.cache[msg.ID] = v
		}
		views = append(views, v)
	}
	return strings.Join(views, "\n\n")
}
