// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/storage"
)

// Version information, overridden at build time with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command is the top-level command to run.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[string]Command{
	"tui":     CmdTUI,
	"chat":    CmdChat,
	"ask":     CmdAsk,
	"history": CmdHistory,
	"hist":    CmdHistory,
	"config":  CmdConfig,
	"cfg":     CmdConfig,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// String returns the canonical command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdAsk:
		return "ask"
	case CmdHistory:
		return "history"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// switches are flags that never take a value.
var switches = []string{
	"json", "quiet", "q", "verbose", "v", "no-history",
	"yes", "y", "help", "h", "version", "raw",
}

// Args holds the parsed command line.
type Args struct {
	// Global flags
	Model     string
	Theme     string
	JSON      bool
	Quiet     bool
	Verbose   bool
	NoHistory bool

	// Params holds every flag and positional; Positional(0) is the command.
	Params *ArgParser
}

// Sub returns the subcommand, e.g. "show" in `history show`.
func (a Args) Sub() string {
	return a.Params.Positional(1)
}

// Rest returns the positionals after the subcommand.
func (a Args) Rest() []string {
	return a.Params.PositionalFrom(2)
}

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, switches...)
	args := Args{
		Model:     p.Flag("model", "m"),
		Theme:     p.Flag("theme"),
		JSON:      p.BoolFlag("json"),
		Quiet:     p.BoolFlag("quiet", "q"),
		Verbose:   p.BoolFlag("verbose", "v"),
		NoHistory: p.BoolFlag("no-history"),
		Params:    p,
	}

	if p.BoolFlag("version") {
		return CmdVersion, args, nil
	}
	name := strings.ToLower(p.Subcommand())
	if name == "" {
		if p.BoolFlag("help", "h") {
			return CmdHelp, args, nil
		}
		return CmdTUI, args, nil
	}
	cmd, ok := commandNames[name]
	if !ok {
		return CmdHelp, args, NewUsageError("unknown command: "+name, "jarvis help")
	}
	if p.BoolFlag("help", "h") {
		return CmdHelp, args, nil
	}
	return cmd, args, nil
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env carries the dependencies handlers need.
type Env struct {
	Config *config.Config
	Log    logrus.FieldLogger

	// History is nil when the store could not be opened.
	History *storage.HistoryStore
	// Completer answers questions; usually a *cloud.Client.
	Completer conversation.Completer

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive enables markdown rendering of replies.
	Interactive bool
	// Width is the wrap width for rendered replies.
	Width int

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
	// NewLineReader opens the line editor used by chat.
	NewLineReader func() (LineReader, error)
	// StartTUI runs the full-screen interface.
	StartTUI func(ctx context.Context) error
	// LoadStoredConfig reads the config file without environment overrides.
	LoadStoredConfig func() (*config.Config, error)
	// SaveConfig writes the config file.
	SaveConfig func(*config.Config) error
	// ConfigPath is shown by `config path`.
	ConfigPath string
}

func (e *Env) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logging.Discard()
	}
	return e.Log
}

// Run executes cmd.
func Run(ctx context.Context, env *Env, cmd Command, args Args) error {
	switch cmd {
	case CmdTUI:
		if env.StartTUI == nil {
			return errors.New("terminal UI is not available")
		}
		return env.StartTUI(ctx)
	case CmdChat:
		return HandleChat(ctx, env, args)
	case CmdAsk:
		return HandleAsk(ctx, env, args)
	case CmdHistory:
		return HandleHistory(env, args)
	case CmdConfig:
		return HandleConfig(env, args)
	case CmdVersion:
		return HandleVersion(env, args)
	default:
		PrintUsage(env.Stdout)
		return nil
	}
}

// =============================================================================
// USAGE AND VERSION
// =============================================================================

const usageText = `jarvis - chat with a hosted LLM from your terminal

Usage:
  jarvis                          Start the chat TUI (default)
  jarvis chat                     Line-mode chat with input history
  jarvis ask "question"           Ask one question and print the answer
  jarvis history [show|clear|export]
                                  Inspect the stored conversation context
  jarvis config [show|get|set|path|keys]
                                  Read and edit config.toml
  jarvis version                  Print version information

Global flags:
  -m, --model NAME                Use this model for the session
      --theme dark|light|auto     Override the color theme
      --no-history                Do not load or save the stored context
      --json                      Machine-readable output
  -q, --quiet                     Less output
  -v, --verbose                   Debug logging

History:
  jarvis history show [--limit N] Show stored messages (newest last)
  jarvis history clear --yes      Delete the stored context
  jarvis history export [--format json|markdown] [--output FILE]

Config:
  jarvis config get api.model
  jarvis config set ui.theme light
  jarvis config keys              List settable keys

In the TUI and chat, type /help for slash commands.
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// HandleVersion prints version information.
func HandleVersion(env *Env, args Args) error {
	data := VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if args.JSON {
		return NewJSONResponse("version", data).Print(env.Stdout)
	}
	fmt.Fprintf(env.Stdout, "jarvis version %s\n", data.Version)
	fmt.Fprintf(env.Stdout, "  Git commit: %s\n", data.GitCommit)
	fmt.Fprintf(env.Stdout, "  Build date: %s\n", data.BuildDate)
	fmt.Fprintf(env.Stdout, "  Go:         %s\n", data.GoVersion)
	return nil
}
