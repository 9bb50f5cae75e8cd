// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits raw arguments into flags and positionals.
//
// Supported forms:
//
//	--flag value     long flag with a value
//	--flag=value     long flag with an inline value
//	-f value         short flag with a value
//	--flag           boolean flag
//
// Names passed as switches never consume the following argument, so
// `ask --json "question"` keeps the question positional.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses raw. switches lists flag names that never take a value.
func NewArgParser(raw []string, switches ...string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
		raw:       raw,
	}
	isSwitch := make(map[string]bool, len(switches))
	for _, s := range switches {
		isSwitch[strings.TrimLeft(s, "-")] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		// "--" ends flag parsing; a lone "-" is a positional.
		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if n, v, ok := strings.Cut(name, "="); ok {
			if b, err := strconv.ParseBool(v); err == nil && isSwitch[n] {
				p.boolFlags[n] = b
			} else {
				p.flags[n] = v
			}
			continue
		}

		if !isSwitch[name] && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i++
			continue
		}
		p.boolFlags[name] = true
	}
	return p
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns the value of the first of names that is set.
func (p *ArgParser) Flag(names ...string) string {
	for _, name := range names {
		if val, ok := p.flags[strings.TrimLeft(name, "-")]; ok {
			return val
		}
	}
	return ""
}

// FlagOrDefault returns the flag value or def when it is unset.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if val := p.Flag(name); val != "" {
		return val
	}
	return def
}

// FlagInt parses the flag as an integer. Unset flags return def.
func (p *ArgParser) FlagInt(name string, def int) (int, error) {
	val := p.Flag(name)
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, NewUsageError(fmt.Sprintf("--%s must be an integer, got %q", name, val), "")
	}
	return n, nil
}

// BoolFlag reports whether any of names was given as a switch.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, name := range names {
		if p.boolFlags[strings.TrimLeft(name, "-")] {
			return true
		}
	}
	return false
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positional arguments from index on.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// HasFlag reports whether name was given in either form.
func (p *ArgParser) HasFlag(name string) bool {
	name = strings.TrimLeft(name, "-")
	_, hasValue := p.flags[name]
	_, hasSwitch := p.boolFlags[name]
	return hasValue || hasSwitch
}

// Raw returns the original arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}
