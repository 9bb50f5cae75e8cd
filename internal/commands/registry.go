// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/attach <path>...")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// MaxArgs caps the argument count; 0 means the length of Args.
	// A negative value means unlimited.
	MaxArgs int

	// Hidden commands don't appear in help
	Hidden bool
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeFile                  // File path
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Help renders a one-line-per-command summary of visible commands.
func (r *Registry) Help() string {
	var sb strings.Builder
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		fmt.Fprintf(&sb, "%-22s %s\n", usage, cmd.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

// Built-in command names.
const (
	CmdHelp   = "/help"
	CmdQuit   = "/quit"
	CmdAttach = "/attach"
	CmdSave   = "/save"
	CmdCopy   = "/copy"
	CmdClear  = "/clear"
	CmdEmoji  = "/emoji"
)

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        CmdHelp,
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
	})

	r.Register(&Command{
		Name:        CmdQuit,
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit jarvis",
	})

	r.Register(&Command{
		Name:        CmdAttach,
		Aliases:     []string{"/a", "/file"},
		Description: "Send up to 5 files as one message",
		Usage:       "/attach <path>...",
		Args: []ArgDef{
			{Name: "path", Required: true, Type: ArgTypeFile, Description: "File to attach"},
		},
		MaxArgs: -1,
	})

	r.Register(&Command{
		Name:        CmdSave,
		Aliases:     []string{"/s"},
		Description: "Save the conversation context",
	})

	r.Register(&Command{
		Name:        CmdCopy,
		Aliases:     []string{"/y"},
		Description: "Copy the last reply to the clipboard",
	})

	r.Register(&Command{
		Name:        CmdClear,
		Aliases:     []string{"/c"},
		Description: "Clear the messages on screen",
	})

	r.Register(&Command{
		Name:        CmdEmoji,
		Aliases:     []string{"/e"},
		Description: "Open the emoji picker",
	})
}
