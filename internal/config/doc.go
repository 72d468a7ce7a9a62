// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for fenceline.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig / StreamConfig: rendering and replay batching
//   - ServerConfig: HTTP diagnostics API
//   - RevealConfig / ExecuteConfig / LogConfig
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FENCELINE_*)
//   - ~/.fenceline/config.toml
//   - ~/.fenceline/config.json
//   - ~/.fenceline/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	width := cfg.UI.Width
package config
