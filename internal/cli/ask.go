// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const askUsage = `jarvis ask "What is a goroutine?"`

// HandleAsk sends one question and prints the reply. A question of "-" is
// read from stdin.
func HandleAsk(ctx context.Context, env *Env, args Args) error {
	question := strings.Join(args.Params.PositionalFrom(1), " ")
	if question == "-" {
		if env.Stdin == nil {
			return ErrMissingArgument("question", askUsage)
		}
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return NewCommandError("ask", "read stdin", err)
		}
		question = string(data)
	}
	if strings.TrimSpace(question) == "" {
		return ErrMissingArgument("question", askUsage)
	}

	ctrl := newController(env, args)
	start := time.Now()
	outcome, err := ctrl.Send(ctx, question)
	if err != nil {
		return NewCommandError("ask", "send", err)
	}
	elapsed := time.Since(start)
	env.logger().WithField("duration", elapsed).WithField("failed", outcome.Failed()).Info("ask finished")

	if outcome.Failed() {
		if !args.JSON {
			newReplyPrinter(env, args).Print(outcome.Reply, true)
		}
		return &CommandError{Command: "ask", Action: "send", Message: outcome.Reply.Content, Err: outcome.Err}
	}

	if args.JSON {
		return NewJSONResponse("ask", AskData{
			Question:   question,
			Response:   outcome.Reply.Content,
			Model:      env.Config.API.Model,
			DurationMs: elapsed.Milliseconds(),
		}).Print(env.Stdout)
	}

	newReplyPrinter(env, args).Print(outcome.Reply, false)
	if !args.Quiet && env.Interactive {
		fmt.Fprintln(env.Stderr, mutedStyle.Render(fmt.Sprintf("%s · %s", env.Config.API.Model, elapsed.Round(100*time.Millisecond))))
	}
	return nil
}
