// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points the config directory at a temp dir for the test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.UI.Theme = "dark"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if cfg := Global(); cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_ConcurrentMixedOperations tests a mix of all global operations
// happening concurrently.
func TestConfig_ConcurrentMixedOperations(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 90; i++ {
		wg.Add(1)
		switch i % 3 {
		case 0:
			go func() {
				defer wg.Done()
				if Global() == nil {
					t.Error("Global() returned nil")
				}
			}()
		case 1:
			go func() {
				defer wg.Done()
				c := Default()
				c.Version = "concurrent-test"
				SetGlobal(c)
			}()
		case 2:
			go func() {
				defer wg.Done()
				_ = ReloadGlobal()
			}()
		}
	}
	wg.Wait()
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	_ = Global()

	custom := Default()
	custom.Version = "custom-version"
	SetGlobal(custom)

	if got := Global().Version; got != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", got)
	}
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.UI.Theme != "auto" {
		t.Errorf("Expected default theme 'auto', got '%s'", cfg.UI.Theme)
	}
	if cfg.Stream.BatchSize != 5 || cfg.Stream.MaxFPS != 30 {
		t.Errorf("Unexpected stream defaults: %+v", cfg.Stream)
	}
	if cfg.Server.Port == 0 {
		t.Error("Default config should have a port")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, "", false},
		{"ascii theme", func(c *Config) { c.UI.Theme = "ascii" }, "", false},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme", true},
		{"negative width", func(c *Config) { c.UI.Width = -1 }, "ui.width", true},
		{"zero batch", func(c *Config) { c.Stream.BatchSize = 0 }, "stream.batch_size", true},
		{"fps too high", func(c *Config) { c.Stream.MaxFPS = 1000 }, "stream.max_fps", true},
		{"negative delay", func(c *Config) { c.Stream.TokenDelayMs = -5 }, "stream.token_delay_ms", true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port", true},
		{"no burst", func(c *Config) { c.Server.RateLimitBurst = 0 }, "server.rate_limit_burst", true},
		{"limiter off", func(c *Config) { c.Server.RateLimitRPS = 0; c.Server.RateLimitBurst = 0 }, "", false},
		{"bad endpoint", func(c *Config) { c.Execute.Endpoint = "ftp://x" }, "execute.endpoint", true},
		{"good endpoint", func(c *Config) { c.Execute.Endpoint = "http://localhost:9000/run" }, "", false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level", true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format", true},
		{"zero frames", func(c *Config) { c.Reveal.Frames = 0 }, "reveal.frames", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "auto", val)

	require.NoError(t, cfg.Set("server.port", "9000"))
	assert.Equal(t, 9000, cfg.Server.Port)

	require.NoError(t, cfg.Set("ui.show_line_numbers", "false"))
	assert.False(t, cfg.UI.ShowLineNumbers)

	require.NoError(t, cfg.Set("server.rate_limit_rps", "2.5"))
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)

	require.NoError(t, cfg.Set("stream.max_fps", 60))
	assert.Equal(t, 60, cfg.Stream.MaxFPS)

	_, err = cfg.Get("invalid.key")
	assert.Error(t, err)
	_, err = cfg.Get("ui")
	assert.Error(t, err, "sections are not values")
	assert.Error(t, cfg.Set("server.port", "not-a-number"))
	assert.Error(t, cfg.Set("", "x"))
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, "key %s", key)
	}
}

// TestConfig_Clone tests that Clone creates an independent copy.
func TestConfig_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.UI.Theme = "light"

	if original.UI.Theme != "auto" {
		t.Error("Clone should create an independent copy")
	}
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestSaveAndLoad_TOML(t *testing.T) {
	isolateHome(t)

	cfg := Default()
	cfg.UI.Theme = "light"
	cfg.Stream.BatchSize = 12
	require.NoError(t, Save(cfg))

	path, err := ConfigPathTOML()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %o", info.Mode().Perm())
	}

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)
	assert.Equal(t, 12, loaded.Stream.BatchSize)
}

func TestLoadFromPath_Formats(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"ui":{"theme":"dark"},"server":{"port":9100}}`), 0600))
	cfg, err := LoadFromPath(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "monokai", cfg.UI.CodeStyle, "missing values keep defaults")

	yamlPath := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("ui:\n  theme: ascii\nlog:\n  format: json\n"), 0600))
	cfg, err = LoadFromPath(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "ascii", cfg.UI.Theme)
	assert.Equal(t, "json", cfg.Log.Format)

	tomlPath := filepath.Join(dir, "c.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[reveal]\nenabled = false\n"), 0600))
	cfg, err = LoadFromPath(tomlPath)
	require.NoError(t, err)
	assert.False(t, cfg.Reveal.Enabled)

	badPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badPath, []byte("[ui]\ntheme = \"neon\"\n"), 0600))
	_, err = LoadFromPath(badPath)
	assert.Error(t, err)
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := Default()
	cfg.Execute.Endpoint = "https://run.example/v1"
	require.NoError(t, SaveJSON(cfg, path))

	loaded := Default()
	require.NoError(t, LoadJSON(loaded, path))
	assert.Equal(t, "https://run.example/v1", loaded.Execute.Endpoint)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FENCELINE_THEME", "light")
	t.Setenv("FENCELINE_PORT", "9999")
	t.Setenv("FENCELINE_WIDTH", "not-a-number")
	t.Setenv("FENCELINE_REVEAL", "false")
	t.Setenv("FENCELINE_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 0, cfg.UI.Width, "invalid numbers are ignored")
	assert.False(t, cfg.Reveal.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_String(t *testing.T) {
	out := Default().String()
	assert.Contains(t, out, "theme: auto")
	assert.Contains(t, out, "port: 8787")
}
