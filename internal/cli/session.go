// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// newController builds a controller seeded from the history store.
func newController(env *Env, args Args) *conversation.Controller {
	opts := []conversation.Option{
		conversation.WithLogger(env.logger()),
		conversation.WithAutoSave(env.Config.History.AutoSave),
	}
	if env.History != nil && !args.NoHistory {
		opts = append(opts,
			conversation.WithBackground(env.History.Load()),
			conversation.WithPersister(env.History),
		)
	}
	return conversation.New(env.Completer, opts...)
}

// =============================================================================
// REPLY RENDERING
// =============================================================================

// replyPrinter writes assistant replies. On terminals the reply is split
// into segments the same way the TUI does it: prose through glamour, code
// through chroma. Otherwise the raw text is written.
type replyPrinter struct {
	env       *Env
	theme     *styles.Theme
	markdown  *components.MarkdownRenderer
	codeStyle string
}

func newReplyPrinter(env *Env, args Args) *replyPrinter {
	p := &replyPrinter{env: env}
	if env.Interactive {
		theme := args.Theme
		if theme == "" {
			theme = env.Config.UI.Theme
		}
		mode, err := styles.ParseMode(theme)
		if err != nil {
			mode = styles.ModeAuto
		}
		p.theme = styles.NewTheme(mode)
		p.theme.ColorProfile = ColorProfile()
		p.markdown = components.NewMarkdownRenderer(p.theme.GlamourStyle())
		p.codeStyle = env.Config.UI.CodeStyle
	}
	return p
}

func (p *replyPrinter) width() int {
	w := p.env.Width
	if ww := p.env.Config.UI.WordWrap; ww > 0 && (w == 0 || ww < w) {
		w = ww
	}
	if w <= 0 {
		w = DefaultTerminalWidth
	}
	return w
}

// Print writes msg. Error replies go out unrendered in the error style.
func (p *replyPrinter) Print(msg model.Message, failed bool) {
	out := p.env.Stdout
	switch {
	case failed:
		fmt.Fprintln(out, errorStyle.Render(msg.Content))
	case p.theme != nil:
		fmt.Fprintln(out, components.RenderContent(msg.Content, components.ContentOptions{
			Width:     p.width(),
			Theme:     p.theme,
			Markdown:  p.markdown,
			CodeStyle: p.codeStyle,
		}))
	default:
		fmt.Fprintln(out, msg.Content)
	}
}
