// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"

	"github.com/jeranaias/jarvis-tui/internal/attach"
	"github.com/jeranaias/jarvis-tui/internal/commands"
	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
)

// =============================================================================
// LINE EDITING
// =============================================================================

// LineReader reads one edited line at a time.
type LineReader interface {
	// Prompt returns io.EOF on ctrl+d and liner.ErrPromptAborted on ctrl+c.
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

type linerReader struct {
	state       *liner.State
	historyFile string
}

// NewLinerReader opens a liner session. Input history is read from and
// written back to historyFile; tab completes slash commands.
func NewLinerReader(historyFile string) LineReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	completer := commands.NewCompleter(commands.NewRegistry())
	state.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range completer.Complete(line, len(line)) {
			out = append(out, commands.Apply(line, c))
		}
		return out
	})

	if f, err := os.Open(historyFile); err == nil {
		_, _ = state.ReadHistory(f)
		f.Close()
	}
	return &linerReader{state: state, historyFile: historyFile}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

// Close writes the input history with owner-only permissions.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
			f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err == nil {
				_, _ = r.state.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.state.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

type chatSession struct {
	env      *Env
	args     Args
	ctrl     *conversation.Controller
	printer  *replyPrinter
	registry *commands.Registry
	parser   *commands.Parser
	attacher *attach.Attacher
	turns    int
}

// HandleChat runs the line-mode chat loop until /quit, ctrl+c or ctrl+d.
func HandleChat(ctx context.Context, env *Env, args Args) error {
	if env.NewLineReader == nil {
		return errors.New("line editing is not available")
	}
	reader, err := env.NewLineReader()
	if err != nil {
		return NewCommandError("chat", "open terminal", err)
	}
	defer reader.Close()

	registry := commands.NewRegistry()
	s := &chatSession{
		env:      env,
		args:     args,
		ctrl:     newController(env, args),
		printer:  newReplyPrinter(env, args),
		registry: registry,
		parser:   commands.NewParser(registry),
		attacher: attach.New(),
	}
	if !args.Quiet {
		s.printWelcome()
	}

	for {
		line, err := reader.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(env.Stdout)
				s.printSummary()
				return nil
			}
			return NewCommandError("chat", "read input", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		reader.AppendHistory(line)

		if commands.IsCommand(line) {
			if quit := s.runCommand(ctx, line); quit {
				s.printSummary()
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			s.printSummary()
			return nil
		}
		s.send(ctx, components.ExpandShortcodes(line))
	}
}

// send runs one turn. ctrl+c during the request cancels it.
func (s *chatSession) send(ctx context.Context, text string) {
	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !s.args.Quiet {
		fmt.Fprintln(s.env.Stderr, mutedStyle.Render(components.AssistantSpeaker.Name+" is thinking..."))
	}
	outcome, err := s.ctrl.Send(reqCtx, text)
	if err != nil {
		s.printError(err)
		return
	}
	s.turns++
	fmt.Fprintln(s.env.Stdout, speakerStyle.Render(components.AssistantSpeaker.Label()))
	s.printer.Print(outcome.Reply, outcome.Failed())
	fmt.Fprintln(s.env.Stdout)
}

// runCommand executes a slash command and reports whether to quit.
func (s *chatSession) runCommand(ctx context.Context, line string) bool {
	result := s.parser.Parse(line)
	if result.Error != nil {
		s.printError(result.Error)
		return false
	}

	switch result.Command.Name {
	case commands.CmdHelp:
		fmt.Fprintln(s.env.Stdout, titleStyle.Render("Commands"))
		fmt.Fprintln(s.env.Stdout, s.registry.Help())
		fmt.Fprintln(s.env.Stdout, mutedStyle.Render("Type :short_name: to insert an emoji, e.g. :rocket:"))

	case commands.CmdQuit:
		return true

	case commands.CmdAttach:
		content, err := s.attacher.Message(result.Args...)
		if err != nil {
			s.printError(err)
			return false
		}
		s.printInfo("Attached " + plural(len(result.Args), "file"))
		s.send(ctx, content)

	case commands.CmdSave:
		if s.ctrl.Save() {
			s.printInfo("History saved")
		} else {
			s.printError(errors.New("history storage is not configured"))
		}

	case commands.CmdCopy:
		reply, ok := s.ctrl.LastReply()
		if !ok || s.env.Clipboard == nil {
			s.printError(errors.New("no reply to copy yet"))
			return false
		}
		if err := s.env.Clipboard(reply.Content); err != nil {
			s.printError(fmt.Errorf("copy failed: %w", err))
			return false
		}
		s.printInfo("Copied last reply (" + plural(len([]rune(reply.Content)), "char") + ")")

	case commands.CmdClear:
		if err := s.ctrl.Reset(); err != nil {
			s.printError(err)
			return false
		}
		s.printInfo("Session cleared; earlier turns are still in context")

	case commands.CmdEmoji:
		s.printEmoji()
	}
	return false
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *chatSession) printWelcome() {
	out := s.env.Stdout
	fmt.Fprintln(out, titleStyle.Render(components.AssistantSpeaker.Label()))
	fmt.Fprintln(out, labelStyle.Render("Model: ")+s.env.Config.API.Model)
	if n := len(s.ctrl.Context()); n > 0 {
		fmt.Fprintln(out, mutedStyle.Render("I remember "+plural(n, "earlier message")+"."))
	}
	fmt.Fprintln(out, mutedStyle.Render("Type /help for commands, ctrl+d to exit."))
	fmt.Fprintln(out)
}

func (s *chatSession) printSummary() {
	if s.args.Quiet {
		return
	}
	fmt.Fprintln(s.env.Stdout, mutedStyle.Render("Goodbye. "+plural(s.turns, "turn")+" this session."))
}

func (s *chatSession) printEmoji() {
	var b strings.Builder
	for i, e := range components.DefaultEmoji() {
		if i > 0 && i%5 == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %-18s", e.Glyph, ":"+e.ShortName+":")
	}
	fmt.Fprintln(s.env.Stdout, strings.TrimRight(b.String(), " "))
}

func (s *chatSession) printInfo(text string) {
	fmt.Fprintln(s.env.Stderr, successStyle.Render(text))
}

func (s *chatSession) printError(err error) {
	fmt.Fprintf(s.env.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
