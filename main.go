// jarvis - chat with a hosted LLM from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/cli"
	"github.com/jeranaias/jarvis-tui/internal/cloud"
	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/storage"
	"github.com/jeranaias/jarvis-tui/internal/ui/chat"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses argv, wires the application and returns the exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.ExitCode(err)
	}
	if cmd != cli.CmdTUI {
		lipgloss.SetColorProfile(cli.ColorProfile())
	}

	env := &cli.Env{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: cli.IsStdoutTTY(),
		Width:       cli.TerminalWidth(),
		Clipboard:   clipboard.WriteAll,
	}
	if cmd == cli.CmdHelp || cmd == cli.CmdVersion {
		if err := cli.Run(context.Background(), env, cmd, args); err != nil {
			cli.DisplayError(os.Stderr, err, args.JSON)
			return cli.ExitCode(err)
		}
		return cli.ExitSuccess
	}

	a, err := setup(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.ExitConfigError
	}
	defer a.Close()

	env.Config = a.cfg
	env.Log = a.log
	env.History = a.history
	env.Completer = a.client
	env.ConfigPath = a.configPath
	env.LoadStoredConfig = config.LoadStored
	env.SaveConfig = config.Save
	env.NewLineReader = func() (cli.LineReader, error) {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		return cli.NewLinerReader(filepath.Join(dir, "chat_history")), nil
	}
	env.StartTUI = func(ctx context.Context) error {
		return runTUI(ctx, a, args)
	}

	a.log.WithField("command", cmd.String()).Debug("starting")
	if err := cli.Run(context.Background(), env, cmd, args); err != nil {
		a.log.WithError(err).WithField("command", cmd.String()).Error("command failed")
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// app holds the long-lived dependencies shared by every command.
type app struct {
	cfg        *config.Config
	configPath string
	log        *logrus.Logger
	closeLog   func() error
	kv         storage.KV
	history    *storage.HistoryStore
	client     *cloud.Client
}

// setup loads configuration and opens the log, the history store and the
// completion client. A history store that cannot be opened is logged and
// left nil; the session then runs without persistence.
func setup(args cli.Args) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if args.Model != "" {
		cfg.API.Model = args.Model
	}
	if args.Theme != "" {
		cfg.UI.Theme = args.Theme
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	configPath, err := config.PathTOML()
	if err != nil {
		return nil, err
	}

	logFile, err := cfg.LogFile()
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, configPath: configPath, log: log, closeLog: closeLog}

	if dir, err := cfg.HistoryDir(); err != nil {
		log.WithError(err).Warn("history disabled")
	} else if kv, err := storage.OpenKV(cfg.History.Backend, dir); err != nil {
		log.WithError(err).WithField("backend", cfg.History.Backend).Warn("history disabled")
	} else {
		a.kv = kv
		a.history = storage.NewHistoryStore(kv, log.WithField("component", "history"))
	}

	a.client = cloud.NewClient(cfg.API.APIKey).
		WithBaseURL(cfg.API.BaseURL).
		WithModel(cfg.API.Model).
		WithLogger(log.WithField("component", "cloud"))
	if !a.client.IsConfigured() {
		log.Warn("no API key configured; set JARVIS_API_KEY or api.api_key")
	}
	log.WithFields(logrus.Fields{
		"model":    a.client.Model(),
		"base_url": a.client.BaseURL(),
		"key":      a.client.KeyFingerprint(),
		"history":  cfg.History.Backend,
	}).Info("jarvis configured")
	return a, nil
}

// Close releases the store and the log file.
func (a *app) Close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.WithError(err).Warn("closing history store")
		}
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// =============================================================================
// TUI
// =============================================================================

// runTUI runs the full-screen chat until the user quits.
func runTUI(ctx context.Context, a *app, args cli.Args) error {
	mode, err := styles.ParseMode(a.cfg.UI.Theme)
	if err != nil {
		mode = styles.ModeAuto
	}
	theme := styles.NewTheme(mode)

	opts := []conversation.Option{
		conversation.WithLogger(a.log.WithField("component", "conversation")),
		conversation.WithAutoSave(a.cfg.History.AutoSave),
	}
	if a.history != nil && !args.NoHistory {
		opts = append(opts,
			conversation.WithBackground(a.history.Load()),
			conversation.WithPersister(a.history),
		)
	}
	ctrl := conversation.New(a.client, opts...)

	var profile *model.UserSettings
	if a.cfg.Profile.Name != "" {
		profile, _ = model.NewUserSettings(a.cfg.Profile.Name, a.cfg.Profile.Avatar)
	}

	m := chat.New(chat.Options{
		Controller:     ctrl,
		Theme:          theme,
		Logger:         a.log.WithField("component", "ui"),
		Profile:        profile,
		SaveProfile:    saveProfile,
		ModelName:      a.client.Model(),
		CodeStyle:      a.cfg.UI.CodeStyle,
		ShowTimestamps: a.cfg.UI.ShowTimestamps,
		Clipboard:      clipboard.WriteAll,
		Context:        ctx,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running jarvis: %w", err)
	}
	return nil
}

// saveProfile writes the onboarding answers to the config file so the next
// start skips onboarding.
func saveProfile(s *model.UserSettings) error {
	stored, err := config.LoadStored()
	if err != nil {
		return err
	}
	stored.Profile = config.ProfileConfig{Name: s.Name, Avatar: s.Avatar}
	return config.Save(stored)
}
