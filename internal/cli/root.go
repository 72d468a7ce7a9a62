// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/config"
	"github.com/jeranaias/fenceline/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app is the state shared by every command after flag parsing.
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool

	cfg    *config.Config
	logger *logrus.Logger
	colors bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "fenceline",
		Short: "Segment streaming chat responses into prose and fenced code",
		Long: `fenceline splits a chat response buffer into text and fenced code
segments while the response is still streaming. It can inspect buffers,
watch files grow, replay transcripts in the terminal and serve the
segmentation over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.fenceline/config.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsageError, Err: err}
	})

	root.AddCommand(
		newSegmentCommand(a),
		newValidateCommand(a),
		newBlocksCommand(a),
		newCrosscheckCommand(a),
		newWatchCommand(a),
		newReplCommand(a),
		newReplayCommand(a),
		newServeCommand(a),
		newRunCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration, builds the logger and decides on colors.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Options{
		Level:  logging.LevelFromFlags(cfg.Log.Level, a.verbose, a.quiet),
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return &ConfigError{Path: a.configPath, Err: err}
	}
	a.logger = logger

	a.colors = colorsEnabled(cmd.OutOrStdout(), a.noColor)
	color.NoColor = !a.colors
	return nil
}

// loadConfig reads --config when set, otherwise the default locations.
// A broken default file is reported and replaced by defaults.
func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		cfg, err := config.LoadFromPath(a.configPath)
		if err != nil {
			return nil, &ConfigError{Path: a.configPath, Err: err}
		}
		config.SetGlobal(cfg)
		return cfg, nil
	}

	cfg, err := config.Load()
	if cfg == nil {
		return nil, &ConfigError{Err: err}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

// run executes root with args and reports errors on stderr.
func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	silent := errors.As(err, &exitErr) && exitErr.Err == nil
	if err != nil && !silent {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
	}
	return ExitCode(err)
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &ExitError{Code: ExitUsageError, Err: err}
		}
		return nil
	}
}
