// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change configuration",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == FormatJSON {
				return writeStructured(out, format, a.cfg)
			}
			fmt.Fprint(out, a.cfg.String())
			return nil
		},
	}
	addFormatFlag(show, &format)

	get := &cobra.Command{
		Use:   "get KEY",
		Short: "Print one configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return config.GetAllKeys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.cfg.Get(args[0])
			if err != nil {
				return &NotFoundError{Resource: "config key", ID: args[0]}
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a configuration value and save it",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			cfg := a.cfg.Clone()
			if err := cfg.Set(key, value); err != nil {
				return &ConfigError{Err: fmt.Errorf("%s: %w", key, err)}
			}
			if err := cfg.Validate(); err != nil {
				return &ConfigError{Err: err}
			}

			path, err := a.save(cfg)
			if err != nil {
				return err
			}
			a.cfg = cfg
			config.SetGlobal(cfg)

			a.logger.WithFields(logrus.Fields{"key": key, "path": path}).Debug("config saved")
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (saved to %s)\n", key, value, path)
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	keys := &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.GetAllKeys(), "\n"))
			return nil
		},
	}

	cmd.AddCommand(show, get, set, path, keys)
	return cmd
}

// configFile returns --config or the default TOML location.
func (a *app) configFile() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	p, err := config.ConfigPathTOML()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return p, nil
}

// save writes cfg to the active config file. JSON files stay JSON; YAML
// files are read-only because no YAML writer is kept.
func (a *app) save(cfg *config.Config) (string, error) {
	if a.configPath == "" {
		p, err := a.configFile()
		if err != nil {
			return "", err
		}
		if err := config.Save(cfg); err != nil {
			return "", &ConfigError{Path: p, Err: err}
		}
		return p, nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(a.configPath)) {
	case ".json":
		err = config.SaveJSON(cfg, a.configPath)
	case ".yaml", ".yml":
		err = fmt.Errorf("cannot save YAML config; convert it to TOML or JSON")
	default:
		err = config.SaveTOML(cfg, a.configPath)
	}
	if err != nil {
		return "", &ConfigError{Path: a.configPath, Err: err}
	}
	return a.configPath, nil
}
