// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/attach"
	"github.com/jeranaias/jarvis-tui/internal/commands"
	"github.com/jeranaias/jarvis-tui/internal/conversation"
	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// Placeholder is shown in the empty compose line.
const Placeholder = "Type your message..."

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents which screen the model shows.
type State int

const (
	StateOnboarding State = iota // Asking for name and avatar
	StateChat                    // Conversation view
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model. Controller is required.
type Options struct {
	Controller *conversation.Controller
	Theme      *styles.Theme
	Attacher   *attach.Attacher
	Logger     logrus.FieldLogger

	// Profile skips onboarding when set.
	Profile *model.UserSettings
	// SaveProfile persists the settings chosen during onboarding.
	SaveProfile func(*model.UserSettings) error

	ModelName      string
	CodeStyle      string
	ShowTimestamps bool

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// Context is passed to every remote call.
	Context context.Context
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	ctrl  *conversation.Controller
	opts  Options
	log   logrus.FieldLogger
	keys  KeyMap

	theme    *styles.Theme
	width    int
	height   int
	profile  *model.UserSettings
	attacher *attach.Attacher

	// Widgets
	onboarding onboarding
	input      textinput.Model
	viewport   *components.ChatViewport
	header     *components.Header
	statusBar  *components.StatusBar
	thinking   components.ThinkingIndicator
	messages   *components.MessageList
	emoji      *components.EmojiPicker
	popup      *components.CompletionPopup

	// Commands
	registry    *commands.Registry
	parser      *commands.Parser
	completer   *commands.Completer
	completions *commands.CompletionState

	showHelp  bool
	attaching bool
	noticeID  int
	quitting  bool
}

// New creates the chat model.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ModeAuto)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Attacher == nil {
		opts.Attacher = attach.New()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	theme := opts.Theme

	input := textinput.New()
	input.Placeholder = Placeholder
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder

	messages := components.NewMessageList(theme, components.NewMarkdownRenderer(theme.GlamourStyle()))
	messages.ShowTimestamp = opts.ShowTimestamps
	if opts.CodeStyle != "" {
		messages.CodeStyle = opts.CodeStyle
	}
	messages.IsError = isErrorReply

	header := components.NewHeader(theme)
	header.Model = opts.ModelName

	registry := commands.NewRegistry()
	m := Model{
		state:       StateOnboarding,
		ctrl:        opts.Controller,
		opts:        opts,
		log:         opts.Logger,
		keys:        DefaultKeyMap(),
		theme:       theme,
		attacher:    opts.Attacher,
		onboarding:  newOnboarding(theme),
		input:       input,
		viewport:    components.NewChatViewport(theme),
		header:      header,
		statusBar:   components.NewStatusBar(theme),
		thinking:    components.NewThinkingIndicator(theme),
		messages:    messages,
		emoji:       components.NewEmojiPicker(theme),
		popup:       components.NewCompletionPopup(theme),
		registry:    registry,
		parser:      commands.NewParser(registry),
		completer:   commands.NewCompleter(registry),
		completions: commands.NewCompletionState(),
	}
	if opts.Profile != nil {
		m.setProfile(opts.Profile)
	}
	return m
}

// isErrorReply marks the fixed reply shown after a failed remote call.
func isErrorReply(msg model.Message) bool {
	return msg.Content == conversation.ErrorReply
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Profile returns the active user settings, nil during onboarding.
func (m Model) Profile() *model.UserSettings {
	return m.profile
}

// Input returns the compose line contents.
func (m Model) Input() string {
	return m.input.Value()
}

// Quitting reports whether the model asked the program to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m *Model) setProfile(settings *model.UserSettings) {
	m.profile = settings
	m.state = StateChat
	user := components.Speaker{Name: settings.Name, Avatar: settings.Avatar}
	m.messages.SetUser(user)
	m.header.User = user
	m.input.Focus()
	m.refresh()
}
