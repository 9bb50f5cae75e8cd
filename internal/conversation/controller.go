// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/model"
)

// Fixed assistant texts.
const (
	// FallbackReply replaces an empty reply from the model.
	FallbackReply = "Sorry, I encountered an error processing your request."

	// ErrorReply is shown when the remote call fails.
	ErrorReply = "Sorry, I encountered an error processing your request. Please try again."
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Completer produces a reply for userText given the combined history.
type Completer interface {
	Complete(ctx context.Context, userText string, history []model.Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, userText string, history []model.Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, userText string, history []model.Message) (string, error) {
	return f(ctx, userText, history)
}

// Persister stores the rolling context. Implementations fail soft.
type Persister interface {
	Save(messages []model.Message)
}

// =============================================================================
// STATE
// =============================================================================

// State is the controller's position in the turn cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Turn is a submitted message waiting for its reply.
type Turn struct {
	seq uint64

	// User is the message appended by Begin.
	User model.Message

	// Context is background ++ session at submission, ending with User.
	Context []model.Message
}

// Result is the raw outcome of the remote call.
type Result struct {
	Reply string
	Err   error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Outcome describes what Finish appended.
type Outcome struct {
	// Reply is the assistant message appended to the session.
	Reply model.Message

	// Err is the remote failure, if any. Reply then holds ErrorReply.
	Err error
}

// Failed reports whether the turn ended in the error message.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Option configures a Controller.
type Option func(*Controller)

// WithBackground seeds the rolling context, typically from the history store.
func WithBackground(messages []model.Message) Option {
	return func(c *Controller) {
		c.background = model.Clone(messages)
	}
}

// WithPersister sets where the rolling context is saved.
func WithPersister(p Persister) Option {
	return func(c *Controller) {
		c.persister = p
	}
}

// WithAutoSave controls whether the rolling context is saved after every
// successful turn. Default true.
func WithAutoSave(enabled bool) Option {
	return func(c *Controller) {
		c.autoSave = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithListener registers fn to run after every list mutation. It is called
// without the controller lock held.
func WithListener(fn func()) Option {
	return func(c *Controller) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// Controller owns the session list and the rolling background context.
type Controller struct {
	mu         sync.Mutex
	completer  Completer
	persister  Persister
	autoSave   bool
	log        logrus.FieldLogger
	listeners  []func()
	session    []model.Message
	background []model.Message
	state      State
	seq        uint64
	pending    uint64
}

// New creates an idle controller with an empty session.
func New(completer Completer, opts ...Option) *Controller {
	c := &Controller{
		completer: completer,
		autoSave:  true,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin appends a user message and enters StateAwaitingReply.
func (c *Controller) Begin(text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.state == StateAwaitingReply {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	user := model.NewUserMessage(text)
	c.session = append(c.session, user)
	c.state = StateAwaitingReply
	c.seq++
	c.pending = c.seq

	combined := make([]model.Message, 0, len(c.background)+len(c.session))
	combined = append(combined, c.background...)
	combined = append(combined, c.session...)
	turn := &Turn{seq: c.seq, User: user, Context: combined}
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"turn": turn.seq, "context": len(combined)}).Debug("turn started")
	c.notify()
	return turn, nil
}

// Request performs the remote call for turn. It reads no controller state
// and may run on any goroutine.
func (c *Controller) Request(ctx context.Context, turn *Turn) Result {
	reply, err := c.completer.Complete(ctx, turn.User.Content, turn.Context)
	return Result{Reply: reply, Err: err}
}

// Finish applies result to the conversation and returns to StateIdle.
// On success the user and assistant messages join the background context.
func (c *Controller) Finish(turn *Turn, result Result) Outcome {
	c.mu.Lock()
	if c.state != StateAwaitingReply || turn == nil || turn.seq != c.pending {
		c.mu.Unlock()
		c.log.Warn("ignoring result for a turn that is not in flight")
		return Outcome{Err: ErrStaleTurn}
	}

	var outcome Outcome
	var snapshot []model.Message
	if result.OK() {
		reply := result.Reply
		if reply == "" {
			reply = FallbackReply
		}
		outcome.Reply = model.NewAssistantMessage(reply)
		c.session = append(c.session, outcome.Reply)
		c.background = append(c.background, turn.User, outcome.Reply)
		if c.autoSave && c.persister != nil {
			snapshot = model.Clone(c.background)
		}
	} else {
		outcome.Err = result.Err
		outcome.Reply = model.NewAssistantMessage(ErrorReply)
		c.session = append(c.session, outcome.Reply)
	}
	c.state = StateIdle
	c.pending = 0
	c.mu.Unlock()

	if outcome.Failed() {
		c.log.WithError(outcome.Err).WithField("turn", turn.seq).Warn("turn failed")
	} else {
		c.log.WithField("turn", turn.seq).Debug("turn finished")
	}
	if snapshot != nil {
		c.persister.Save(snapshot)
	}
	c.notify()
	return outcome
}

// Send runs a whole turn on the calling goroutine.
func (c *Controller) Send(ctx context.Context, text string) (Outcome, error) {
	turn, err := c.Begin(text)
	if err != nil {
		return Outcome{}, err
	}
	return c.Finish(turn, c.Request(ctx, turn)), nil
}

// Save persists the rolling context now. It returns false when no
// persister is configured.
func (c *Controller) Save() bool {
	if c.persister == nil {
		return false
	}
	c.mu.Lock()
	snapshot := model.Clone(c.background)
	c.mu.Unlock()
	c.persister.Save(snapshot)
	return true
}

// Reset clears the session list. The background context is kept.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.state == StateAwaitingReply {
		c.mu.Unlock()
		return ErrBusy
	}
	c.session = nil
	c.mu.Unlock()

	c.notify()
	return nil
}

// Messages returns a copy of the session list.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Clone(c.session)
}

// Context returns a copy of the rolling background context.
func (c *Controller) Context() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Clone(c.background)
}

// LastReply returns the newest assistant message in the session.
func (c *Controller) LastReply() (model.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.session) - 1; i >= 0; i-- {
		if c.session[i].Role == model.RoleAssistant {
			return c.session[i], true
		}
	}
	return model.Message{}, false
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generating reports whether a reply is being generated.
func (c *Controller) Generating() bool {
	return c.State() == StateAwaitingReply
}

func (c *Controller) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}
