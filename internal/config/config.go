// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/util"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "JARVIS_"

// Defaults for the hosted endpoint.
const (
	DefaultBaseURL = "https://chatapi.akash.network/api/v1"
	DefaultModel   = "nvidia-Llama-3-1-Nemotron-70B-Instruct-HF"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete jarvis configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	History HistoryConfig `toml:"history" json:"history" envPrefix:"HISTORY_"`
	UI      UIConfig      `toml:"ui" json:"ui" envPrefix:"UI_"`
	Profile ProfileConfig `toml:"profile" json:"profile" envPrefix:"PROFILE_"`
	Log     LogConfig     `toml:"log" json:"log" envPrefix:"LOG_"`
}

// APIConfig describes the chat-completions endpoint.
type APIConfig struct {
	// BaseURL is the API root, without the /chat/completions suffix
	BaseURL string `toml:"base_url" json:"base_url" env:"BASE_URL"`
	// APIKey is sent as a bearer token
	APIKey string `toml:"api_key" json:"api_key" env:"API_KEY"`
	// Model is the hosted model identifier
	Model string `toml:"model" json:"model" env:"MODEL"`
}

// HistoryConfig controls local persistence of the conversation context.
type HistoryConfig struct {
	// Backend is "file" or "sqlite"
	Backend string `toml:"backend" json:"backend" env:"BACKEND"`
	// Dir holds the store; empty means the jarvis home directory
	Dir string `toml:"dir" json:"dir" env:"DIR"`
	// AutoSave persists the context after every successful reply
	AutoSave bool `toml:"auto_save" json:"auto_save" env:"AUTO_SAVE"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme" env:"THEME"`
	// WordWrap is the maximum rendered line width; 0 follows the terminal
	WordWrap int `toml:"word_wrap" json:"word_wrap" env:"WORD_WRAP"`
	// CodeStyle is a chroma style name used for code blocks
	CodeStyle string `toml:"code_style" json:"code_style" env:"CODE_STYLE"`
	// ShowTimestamps renders the time of day beside each message
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps" env:"SHOW_TIMESTAMPS"`
}

// ProfileConfig pre-seeds the user settings and skips onboarding.
type ProfileConfig struct {
	Name   string `toml:"name" json:"name" env:"NAME"`
	Avatar string `toml:"avatar" json:"avatar" env:"AVATAR"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Level is a logrus level name
	Level string `toml:"level" json:"level" env:"LEVEL"`
	// File is the log path; empty means jarvis.log in the jarvis home directory
	File string `toml:"file" json:"file" env:"FILE"`
}

// Default returns a configuration with all defaults set.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
		},
		History: HistoryConfig{
			Backend:  "file",
			AutoSave: true,
		},
		UI: UIConfig{
			Theme:          "dark",
			CodeStyle:      "monokai",
			ShowTimestamps: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the jarvis home directory (JARVIS_HOME or ~/.jarvis).
func Dir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".jarvis"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the path to the JSON config file.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryDir returns the resolved directory for the history store.
func (c *Config) HistoryDir() (string, error) {
	if c.History.Dir != "" {
		return expandHome(c.History.Dir)
	}
	return Dir()
}

// LogFile returns the resolved log file path.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jarvis.log"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ensureSecurePermissions tightens a config file to 0600.
// SECURITY: The file may hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory and the jarvis home
// directory, in that order. Variables already set are never overwritten.
// Missing files are skipped.
func LoadDotEnv() error {
	candidates := []string{".env"}
	if dir, err := Dir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	var existing []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	tomlPath, err := PathTOML()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		return LoadFromPath(tomlPath)
	}

	jsonPath, err := PathJSON()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(jsonPath); statErr == nil {
		return LoadFromPath(jsonPath)
	}

	cfg := Default()
	return cfg, finish(cfg)
}

// LoadStored loads the config file without environment overrides, so that
// edits written back with Save do not capture JARVIS_* variables.
func LoadStored() (*Config, error) {
	cfg := Default()
	tomlPath, err := PathTOML()
	if err != nil {
		return nil, err
	}
	jsonPath, err := PathJSON()
	if err != nil {
		return nil, err
	}

	switch {
	case fileExists(tomlPath):
		err = LoadTOML(cfg, tomlPath)
	case fileExists(jsonPath):
		err = LoadJSON(cfg, jsonPath)
	}
	if err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("could not secure config file permissions")
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logrus.WithField("keys", undecoded).Warn("unknown config keys ignored")
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("could not secure config file permissions")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies JARVIS_* environment variables:
//   - JARVIS_API_KEY, JARVIS_BASE_URL, JARVIS_MODEL
//   - JARVIS_HISTORY_BACKEND, JARVIS_HISTORY_DIR, JARVIS_HISTORY_AUTO_SAVE
//   - JARVIS_UI_THEME, JARVIS_UI_WORD_WRAP, JARVIS_UI_CODE_STYLE, JARVIS_UI_SHOW_TIMESTAMPS
//   - JARVIS_PROFILE_NAME, JARVIS_PROFILE_AVATAR
//   - JARVIS_LOG_LEVEL, JARVIS_LOG_FILE
//
// Unset variables leave the current value alone.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// SetDefaults fills empty fields with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if strings.TrimSpace(c.API.Model) == "" {
		c.API.Model = defaults.API.Model
	}
	c.API.APIKey = strings.TrimSpace(c.API.APIKey)

	if c.History.Backend == "" {
		c.History.Backend = defaults.History.Backend
	}
	c.History.Backend = strings.ToLower(c.History.Backend)

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.CodeStyle == "" {
		c.UI.CodeStyle = defaults.UI.CodeStyle
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
// RELIABILITY: Atomic write with fsync prevents a half-written config.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# jarvis configuration file")
	fmt.Fprintln(&buf, "# Environment variables (JARVIS_*) override these values.")
	fmt.Fprintln(&buf)

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate returns ValidateErrors listing every invalid field, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: fmt.Sprintf("invalid URL: %v", err)})
	} else if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must be an absolute http(s) URL"})
	}
	if strings.TrimSpace(c.API.Model) == "" {
		errs = append(errs, ValidationError{Field: "api.model", Message: "cannot be empty"})
	}

	switch c.History.Backend {
	case "file", "sqlite":
	default:
		errs = append(errs, ValidationError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite", c.History.Backend),
		})
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "cannot be negative"})
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.model").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the struct by toml tag names.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(strings.ToLower(key), ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.IsValid() && val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.IsValid() && val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every settable key in dot notation.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := section.Tag.Get("toml")
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML with the API key redacted.
// SECURITY: Secrets must not appear in anything that could be logged.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.API.APIKey != "" {
		safe.API.APIKey = "[REDACTED]"
	}
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(safe)
	return buf.String()
}
