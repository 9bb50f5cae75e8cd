// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/jarvis-tui/internal/config"
)

const configUsage = "jarvis config [show|get <key>|set <key> <value>|path|keys]"

// HandleConfig reads and edits the config file by dotted key.
func HandleConfig(env *Env, args Args) error {
	switch sub := args.Sub(); sub {
	case "", "show":
		return configShow(env, args)
	case "get":
		return configGet(env, args)
	case "set":
		return configSet(env, args)
	case "path":
		fmt.Fprintln(env.Stdout, env.ConfigPath)
		return nil
	case "keys":
		for _, key := range config.Keys() {
			fmt.Fprintln(env.Stdout, key)
		}
		return nil
	default:
		return NewUsageError("unknown config subcommand: "+sub, configUsage)
	}
}

// configShow prints the effective configuration with secrets redacted.
func configShow(env *Env, args Args) error {
	if args.JSON {
		safe := env.Config.Clone()
		if safe.API.APIKey != "" {
			safe.API.APIKey = "[REDACTED]"
		}
		return NewJSONResponse("config", safe).Print(env.Stdout)
	}
	fmt.Fprint(env.Stdout, env.Config.String())
	return nil
}

func configGet(env *Env, args Args) error {
	key := args.Params.Positional(2)
	if key == "" {
		return ErrMissingArgument("key", "jarvis config get api.model")
	}
	value, err := env.Config.Get(key)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: key}
	}
	if strings.EqualFold(key, "api.api_key") && value != "" {
		value = "[REDACTED]"
	}
	if args.JSON {
		return NewJSONResponse("config", ConfigValue{Key: key, Value: value}).Print(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, value)
	return nil
}

// configSet edits the stored file, then mirrors the change into the
// running configuration.
func configSet(env *Env, args Args) error {
	key, value := args.Params.Positional(2), strings.Join(args.Params.PositionalFrom(3), " ")
	if key == "" || args.Params.PositionalCount() < 4 {
		return ErrMissingArgument("key and value", "jarvis config set ui.theme light")
	}
	if env.LoadStoredConfig == nil || env.SaveConfig == nil {
		return NewCommandError("config", "set", errors.New("config file is not available"))
	}

	stored, err := env.LoadStoredConfig()
	if err != nil {
		return NewCommandError("config", "load", err)
	}
	if err := stored.Set(key, value); err != nil {
		return NewUsageError(err.Error(), "jarvis config keys")
	}
	if err := stored.Validate(); err != nil {
		return err
	}
	if err := env.SaveConfig(stored); err != nil {
		return NewCommandError("config", "save", err)
	}
	_ = env.Config.Set(key, value)

	env.logger().WithField("key", key).Info("config updated")
	if !args.Quiet {
		fmt.Fprintln(env.Stdout, successStyle.Render(fmt.Sprintf("Set %s", key)))
	}
	return nil
}
