// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for fenceline.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.fenceline/config.toml
//   - ~/.fenceline/config.json
//   - ~/.fenceline/config.yaml
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/fenceline/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete fenceline configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version" yaml:"version"`

	// Rendering of segmented responses
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Token batching for the replay viewer
	Stream StreamConfig `toml:"stream" json:"stream" yaml:"stream"`

	// HTTP diagnostics API
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`

	// Reveal animation memory
	Reveal RevealConfig `toml:"reveal" json:"reveal" yaml:"reveal"`

	// Code execution endpoint
	Execute ExecuteConfig `toml:"execute" json:"execute" yaml:"execute"`

	// Logging
	Log LogConfig `toml:"log" json:"log" yaml:"log"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto", "ascii"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// Width is the render width in columns; 0 uses the terminal width
	Width int `toml:"width" json:"width" yaml:"width"`
	// ShowLineNumbers prefixes code lines with their number
	ShowLineNumbers bool `toml:"show_line_numbers" json:"show_line_numbers" yaml:"show_line_numbers"`
	// CodeStyle is the chroma style used for syntax highlighting
	CodeStyle string `toml:"code_style" json:"code_style" yaml:"code_style"`
}

// StreamConfig controls how replayed tokens are batched before re-segmenting.
type StreamConfig struct {
	// BatchSize is the number of tokens buffered before a forced flush
	BatchSize int `toml:"batch_size" json:"batch_size" yaml:"batch_size"`
	// MaxFPS caps the number of re-renders per second
	MaxFPS int `toml:"max_fps" json:"max_fps" yaml:"max_fps"`
	// TokenDelayMs is the delay between replayed tokens
	TokenDelayMs int `toml:"token_delay_ms" json:"token_delay_ms" yaml:"token_delay_ms"`
}

// ServerConfig contains HTTP API configuration.
type ServerConfig struct {
	Host string `toml:"host" json:"host" yaml:"host"`
	Port int    `toml:"port" json:"port" yaml:"port"`
	// MaxBodyBytes limits request bodies
	MaxBodyBytes int64 `toml:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`
	// RateLimitRPS is the sustained request rate per client; 0 disables limiting
	RateLimitRPS float64 `toml:"rate_limit_rps" json:"rate_limit_rps" yaml:"rate_limit_rps"`
	// RateLimitBurst is the token bucket size per client
	RateLimitBurst int `toml:"rate_limit_burst" json:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// RevealConfig contains reveal animation settings.
type RevealConfig struct {
	// Enabled turns the reveal animation on
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`
	// StorePath is the SQLite file; empty keeps the memory in process only
	StorePath string `toml:"store_path" json:"store_path" yaml:"store_path"`
	// Frames is the number of animation frames per segment
	Frames int `toml:"frames" json:"frames" yaml:"frames"`
}

// ExecuteConfig contains code execution settings.
type ExecuteConfig struct {
	// Endpoint receives POSTed code blocks
	Endpoint string `toml:"endpoint" json:"endpoint" yaml:"endpoint"`
	// TimeoutSecs bounds a single execution
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level" yaml:"level"`
	// Format is "text" or "json"
	Format string `toml:"format" json:"format" yaml:"format"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		UI: UIConfig{
			Theme:           "auto",
			Width:           0,
			ShowLineNumbers: true,
			CodeStyle:       "monokai",
		},
		Stream: StreamConfig{
			BatchSize:    5,
			MaxFPS:       30,
			TokenDelayMs: 15,
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8787,
			MaxBodyBytes:   1 << 20,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Reveal: RevealConfig{
			Enabled: true,
			Frames:  8,
		},
		Execute: ExecuteConfig{
			TimeoutSecs: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the fenceline configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".fenceline"), nil
}

// configPath returns the path of the config file with the given extension.
func configPath(ext string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config."+ext), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	return configPath("toml")
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	return configPath("json")
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	return configPath("yaml")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DefaultRevealStorePath returns the reveal database location inside the
// config directory.
func DefaultRevealStorePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "reveal.db"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// loader decodes one file format into cfg.
type loader func(cfg *Config, path string) error

// Load loads configuration from the config file(s).
// Tries TOML, then JSON, then YAML, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	candidates := []struct {
		path func() (string, error)
		load loader
		name string
	}{
		{ConfigPathTOML, LoadTOML, "TOML"},
		{ConfigPathJSON, LoadJSON, "JSON"},
		{ConfigPathYAML, LoadYAML, "YAML"},
	}

	var loadErr error
	for _, c := range candidates {
		path, err := c.path()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg := Default()
		if err := c.load(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load %s config: %w", c.name, err)
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
// The format is chosen by extension; anything unknown is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

// finish applies environment overrides, defaults and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return fillDefaults(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.CodeStyle == "" {
		cfg.UI.CodeStyle = defaults.UI.CodeStyle
	}

	// Stream
	if cfg.Stream.BatchSize == 0 {
		cfg.Stream.BatchSize = defaults.Stream.BatchSize
	}
	if cfg.Stream.MaxFPS == 0 {
		cfg.Stream.MaxFPS = defaults.Stream.MaxFPS
	}

	// Server
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = defaults.Server.MaxBodyBytes
	}

	// Reveal
	if cfg.Reveal.Frames == 0 {
		cfg.Reveal.Frames = defaults.Reveal.Frames
	}

	// Execute
	if cfg.Execute.TimeoutSecs == 0 {
		cfg.Execute.TimeoutSecs = defaults.Execute.TimeoutSecs
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	err := util.WriteAtomic(path, 0600, func(w io.Writer) error {
		io.WriteString(w, "# fenceline configuration file\n# Generated by fenceline - edit with care\n\n")
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	})
	if err != nil {
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

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
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
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// UI
	// ==========================================================================

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true, "ascii": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto, ascii", c.UI.Theme),
		})
	}
	if c.UI.Width < 0 || c.UI.Width > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.width",
			Message: fmt.Sprintf("width must be 0-1000, got %d", c.UI.Width),
		})
	}

	// ==========================================================================
	// Stream
	// ==========================================================================

	if c.Stream.BatchSize < 1 || c.Stream.BatchSize > 1000 {
		errs = append(errs, ValidationError{
			Field:   "stream.batch_size",
			Message: fmt.Sprintf("batch_size must be 1-1000, got %d", c.Stream.BatchSize),
		})
	}
	if c.Stream.MaxFPS < 1 || c.Stream.MaxFPS > 240 {
		errs = append(errs, ValidationError{
			Field:   "stream.max_fps",
			Message: fmt.Sprintf("max_fps must be 1-240, got %d", c.Stream.MaxFPS),
		})
	}
	if c.Stream.TokenDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "stream.token_delay_ms",
			Message: "token_delay_ms cannot be negative",
		})
	}

	// ==========================================================================
	// Server
	// ==========================================================================

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be 1-65535, got %d", c.Server.Port),
		})
	}
	if c.Server.MaxBodyBytes < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.max_body_bytes",
			Message: "max_body_bytes must be positive",
		})
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_rps",
			Message: "rate_limit_rps cannot be negative",
		})
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_burst",
			Message: "rate_limit_burst must be at least 1 when rate limiting is enabled",
		})
	}

	// ==========================================================================
	// Reveal / Execute / Log
	// ==========================================================================

	if c.Reveal.Frames < 1 || c.Reveal.Frames > 120 {
		errs = append(errs, ValidationError{
			Field:   "reveal.frames",
			Message: fmt.Sprintf("frames must be 1-120, got %d", c.Reveal.Frames),
		})
	}

	if c.Execute.Endpoint != "" {
		u, err := url.Parse(c.Execute.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "execute.endpoint",
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host/...", c.Execute.Endpoint),
			})
		}
	}
	if c.Execute.TimeoutSecs < 1 || c.Execute.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "execute.timeout_secs",
			Message: fmt.Sprintf("timeout_secs must be 1-600, got %d", c.Execute.TimeoutSecs),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be text or json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults clamps values that are out of range but recoverable and fills
// zero values. Validation still runs afterwards.
func (c *Config) SetDefaults() {
	_ = fillDefaults(c)
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = int(c.Server.RateLimitRPS * 2)
		if c.Server.RateLimitBurst < 1 {
			c.Server.RateLimitBurst = 1
		}
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FENCELINE_THEME: overrides ui.theme
//   - FENCELINE_WIDTH: overrides ui.width
//   - FENCELINE_HOST / FENCELINE_PORT: override server.host / server.port
//   - FENCELINE_EXECUTE_ENDPOINT: overrides execute.endpoint
//   - FENCELINE_REVEAL: "0" or "false" disables the reveal animation
//   - FENCELINE_REVEAL_STORE: overrides reveal.store_path
//   - FENCELINE_LOG_LEVEL / FENCELINE_LOG_FORMAT: override log settings
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("FENCELINE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if width := os.Getenv("FENCELINE_WIDTH"); width != "" {
		if n, err := strconv.Atoi(width); err == nil {
			c.UI.Width = n
		}
	}
	if host := os.Getenv("FENCELINE_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("FENCELINE_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			c.Server.Port = n
		}
	}
	if endpoint := os.Getenv("FENCELINE_EXECUTE_ENDPOINT"); endpoint != "" {
		c.Execute.Endpoint = endpoint
	}
	if reveal := os.Getenv("FENCELINE_REVEAL"); reveal != "" {
		c.Reveal.Enabled = reveal == "1" || strings.ToLower(reveal) == "true"
	}
	if store := os.Getenv("FENCELINE_REVEAL_STORE"); store != "" {
		c.Reveal.StorePath = store
	}
	if level := os.Getenv("FENCELINE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("FENCELINE_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "server.port").
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

// lookup walks a dot-notation key to a leaf field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
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

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
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
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"ui.theme",
		"ui.width",
		"ui.show_line_numbers",
		"ui.code_style",
		"stream.batch_size",
		"stream.max_fps",
		"stream.token_delay_ms",
		"server.host",
		"server.port",
		"server.max_body_bytes",
		"server.rate_limit_rps",
		"server.rate_limit_burst",
		"reveal.enabled",
		"reveal.store_path",
		"reveal.frames",
		"execute.endpoint",
		"execute.timeout_secs",
		"log.level",
		"log.format",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil && cfg == nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return err
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
