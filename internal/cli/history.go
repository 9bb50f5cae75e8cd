// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/components"
	"github.com/jeranaias/jarvis-tui/internal/util"
)

const (
	historyUsage       = "jarvis history [show|clear|export]"
	defaultShowLimit   = 20
	historyPreviewCols = 100
)

var errNoHistoryStore = errors.New("history storage is not configured")

// HandleHistory shows, clears or exports the stored context.
func HandleHistory(env *Env, args Args) error {
	if env.History == nil {
		return NewCommandError("history", "open", errNoHistoryStore)
	}

	switch sub := args.Sub(); sub {
	case "", "show", "list":
		return historyShow(env, args)
	case "clear":
		return historyClear(env, args)
	case "export":
		return historyExport(env, args)
	default:
		return NewUsageError("unknown history subcommand: "+sub, historyUsage)
	}
}

func historyShow(env *Env, args Args) error {
	limit, err := args.Params.FlagInt("limit", defaultShowLimit)
	if err != nil {
		return err
	}
	all := env.History.Load()
	shown := all
	if limit > 0 && len(shown) > limit {
		shown = shown[len(shown)-limit:]
	}

	if args.JSON {
		data := HistoryData{Total: len(all), Messages: make([]HistoryEntry, len(shown))}
		for i, msg := range shown {
			data.Messages[i] = HistoryEntry{
				ID:        msg.ID,
				Role:      msg.Role.String(),
				Content:   msg.Content,
				Timestamp: msg.Timestamp,
			}
		}
		return NewJSONResponse("history", data).Print(env.Stdout)
	}

	out := env.Stdout
	if len(all) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No stored history."))
		return nil
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Stored context: %s", plural(len(all), "message"))))
	if len(shown) < len(all) {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("showing the last %d, use --limit 0 for all", len(shown))))
	}
	for _, msg := range shown {
		who := speakerName(msg)
		when := humanize.Time(msg.Timestamp)
		preview := util.TruncateWidth(util.SingleLine(msg.Content), historyPreviewCols)
		fmt.Fprintf(out, "%s %s %s\n", speakerStyle.Render(who), mutedStyle.Render("("+when+")"), preview)
	}
	return nil
}

func historyClear(env *Env, args Args) error {
	if !args.Params.BoolFlag("yes", "y") {
		return NewUsageError("refusing to clear history without confirmation", "jarvis history clear --yes")
	}
	n := len(env.History.Load())
	env.History.Clear()
	env.logger().WithField("count", n).Info("history cleared")
	if !args.Quiet {
		fmt.Fprintln(env.Stdout, successStyle.Render("Cleared "+plural(n, "message")+"."))
	}
	return nil
}

func historyExport(env *Env, args Args) error {
	msgs := env.History.Load()

	var data []byte
	switch format := strings.ToLower(args.Params.FlagOrDefault("format", "json")); format {
	case "json":
		raw, err := json.MarshalIndent(msgs, "", "  ")
		if err != nil {
			return NewCommandError("history", "export", err)
		}
		data = append(raw, '\n')
	case "markdown", "md":
		data = []byte(exportMarkdown(msgs))
	default:
		return NewUsageError("unsupported format: "+format, "--format json|markdown")
	}

	path := args.Params.Flag("output", "o")
	if path == "" || path == "-" {
		_, err := env.Stdout.Write(data)
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return NewCommandError("history", "export", err)
	}
	if !args.Quiet {
		fmt.Fprintf(env.Stderr, "%s\n", successStyle.Render(
			fmt.Sprintf("Exported %s to %s (%s)", plural(len(msgs), "message"), path, humanize.Bytes(uint64(len(data))))))
	}
	return nil
}

// exportMarkdown renders msgs as a transcript with one heading per message.
func exportMarkdown(msgs []model.Message) string {
	var b strings.Builder
	b.WriteString("# " + components.AssistantSpeaker.Name + " conversation\n")
	for _, msg := range msgs {
		fmt.Fprintf(&b, "\n## %s (%s)\n\n%s\n", speakerName(msg), msg.Timestamp.Local().Format("2006-01-02 15:04"), msg.Content)
	}
	return b.String()
}

func speakerName(msg model.Message) string {
	if msg.IsUser() {
		return "You"
	}
	return components.AssistantSpeaker.Name
}
