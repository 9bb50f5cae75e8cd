// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders prose segments with glamour. Renderers are built
// per wrap width and reused.
type MarkdownRenderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer using a glamour standard style
// such as "dark", "light" or "notty".
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = "dark"
	}
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders text wrapped at width. If glamour fails the text is
// returned as-is so a reply is never lost.
func (m *MarkdownRenderer) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	r, err := m.renderer(width)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *MarkdownRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
