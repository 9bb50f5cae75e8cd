// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

const maxFileCompletions = 20

// Completion is one candidate for tab completion.
type Completion struct {
	Value       string // replacement for the token being completed
	Display     string
	Description string
	Score       int
}

// =============================================================================
// COMPLETER
// =============================================================================

// Completer handles tab completion for commands and file arguments.
type Completer struct {
	registry *Registry

	// FilesFn overrides file path completion; used by tests.
	FilesFn func(prefix string) []string
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns completions for the input up to the cursor position.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos >= 0 && cursorPos < len(input) {
		input = input[:cursorPos]
	}
	input = strings.TrimLeft(input, " \t")
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := splitCommandLine(input)
	endsWithSpace := strings.HasSuffix(input, " ")

	if len(parts) == 1 && !endsWithSpace {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(parts[0])
	if cmd == nil {
		return nil
	}

	partial := ""
	if !endsWithSpace {
		partial = parts[len(parts)-1]
	}

	argIndex := len(parts) - 2
	if endsWithSpace {
		argIndex++
	}
	if argIndex >= len(cmd.Args) {
		if cmd.MaxArgs >= 0 || len(cmd.Args) == 0 {
			return nil
		}
		argIndex = len(cmd.Args) - 1
	}

	if cmd.Args[argIndex].Type == ArgTypeFile {
		return c.completeFiles(partial)
	}
	return nil
}

// Apply replaces the token being completed in input with completion.
func Apply(input string, completion Completion) string {
	if strings.HasSuffix(input, " ") {
		return input + quoteIfNeeded(completion.Value)
	}
	idx := strings.LastIndexAny(input, " \t")
	return input[:idx+1] + quoteIfNeeded(completion.Value)
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

func (c *Completer) completeCommands(partial string) []Completion {
	var completions []Completion
	partial = strings.ToLower(partial)

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(cmd.Name, partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
			continue
		}
		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, partial) {
				completions = append(completions, Completion{
					Value:       cmd.Name,
					Display:     alias + " → " + cmd.Name,
					Description: cmd.Description,
					Score:       calculateScore(alias, partial) - 10,
				})
				break
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// FILE COMPLETION
// =============================================================================

func (c *Completer) completeFiles(partial string) []Completion {
	if c.FilesFn != nil {
		var completions []Completion
		for _, path := range c.FilesFn(partial) {
			if strings.HasPrefix(path, partial) {
				completions = append(completions, Completion{
					Value:   path,
					Display: filepath.Base(path),
					Score:   calculateScore(path, partial),
				})
			}
		}
		sortCompletions(completions)
		return completions
	}
	return defaultFileCompletion(partial)
}

func defaultFileCompletion(partial string) []Completion {
	var completions []Completion

	dir := filepath.Dir(partial)
	prefix := filepath.Base(partial)
	if partial == "" {
		dir, prefix = ".", ""
	} else if strings.HasSuffix(partial, string(os.PathSeparator)) {
		dir, prefix = partial, ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	prefix = strings.ToLower(prefix)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		// Skip hidden files unless the prefix asks for them
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}

		path := name
		if dir != "." || strings.HasPrefix(partial, "."+string(os.PathSeparator)) {
			path = filepath.Join(dir, name)
		}

		score := calculateScore(name, prefix)
		desc := ""
		if entry.IsDir() {
			path += string(os.PathSeparator)
			score += 5
			desc = "directory"
		} else if info, err := entry.Info(); err == nil {
			desc = humanize.IBytes(uint64(info.Size()))
		}

		completions = append(completions, Completion{
			Value:       path,
			Display:     name,
			Description: desc,
			Score:       score,
		})
	}

	sortCompletions(completions)
	if len(completions) > maxFileCompletions {
		completions = completions[:maxFileCompletions]
	}
	return completions
}

// =============================================================================
// RANKING
// =============================================================================

// calculateScore ranks a candidate. Higher is better.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100
	if value == partial {
		return score + 100
	}
	if strings.HasPrefix(value, partial) {
		score += 50
		score += 20 - len(value)
	}
	score -= len(value) / 2
	return score
}

// sortCompletions sorts by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for cycling through completions.
type CompletionState struct {
	OriginalInput string
	Completions   []Completion
	Selected      int
	Visible       bool
}

// NewCompletionState creates an empty completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the candidates and selects the first one.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the input with the selected completion applied.
func (cs *CompletionState) Accept() string {
	if len(cs.Completions) == 0 {
		return cs.OriginalInput
	}
	idx := cs.Selected
	if idx < 0 || idx >= len(cs.Completions) {
		idx = 0
	}
	return Apply(cs.OriginalInput, cs.Completions[idx])
}

// Clear clears the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}
