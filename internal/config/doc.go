// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for jarvis.
//
// Supports both TOML and JSON configuration formats, with defaults, .env
// files, environment variable overrides and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (JARVIS_*), including those set by .env files
//   - ~/.jarvis/config.toml
//   - ~/.jarvis/config.json
//   - Built-in defaults
//
// The jarvis home directory can be moved with JARVIS_HOME.
//
// # Usage
//
//	config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := cloud.NewClient(cfg.API.APIKey).WithBaseURL(cfg.API.BaseURL)
package config
