// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/model"
	"github.com/jeranaias/fenceline/internal/reveal"
	"github.com/jeranaias/fenceline/internal/ui/chat"
	"github.com/jeranaias/fenceline/internal/ui/components"
	"github.com/jeranaias/fenceline/internal/util"
)

func newReplayCommand(a *app) *cobra.Command {
	var (
		delayMs     int
		noReveal    bool
		resetReveal bool
		inline      bool
	)

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Stream a transcript through the terminal viewer",
		Long: `Replay a transcript token by token the way a model would stream it.
FILE is JSON or YAML ({title, messages: [{role, content}]}) or plain text,
which is replayed as a single assistant message.

When stdout is not a terminal the final transcript is printed instead.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := model.LoadTranscript(args[0])
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return &NotFoundError{Resource: "transcript", ID: args[0]}
				}
				return err
			}

			out := cmd.OutOrStdout()
			if !isTerminal(out) {
				printTranscript(out, a, conv)
				return nil
			}

			cfg := a.cfg.Clone()
			if delayMs > 0 {
				cfg.Stream.TokenDelayMs = delayMs
			}

			opts := chat.Options{
				Theme:  themeFor(out, cfg.UI.Theme, a.colors),
				Config: cfg,
				Logger: a.logger,
			}
			if cfg.Reveal.Enabled && !noReveal {
				store, closeStore, err := a.openRevealStore()
				if err != nil {
					return err
				}
				defer closeStore()
				if resetReveal {
					if err := store.Reset(cmd.Context()); err != nil {
						return fmt.Errorf("failed to reset reveal memory: %w", err)
					}
				}
				opts.Reveal = reveal.NewController(store, cfg.Reveal.Frames)
			}

			programOpts := []tea.ProgramOption{
				tea.WithContext(cmd.Context()),
				tea.WithOutput(out),
				tea.WithMouseCellMotion(),
			}
			if !inline {
				programOpts = append(programOpts, tea.WithAltScreen())
			}

			a.logger.WithField("messages", conv.MessageCount()).Debug("starting replay")
			if _, err := tea.NewProgram(chat.NewReplay(conv, opts), programOpts...).Run(); err != nil {
				if errors.Is(err, tea.ErrProgramKilled) {
					return nil
				}
				return fmt.Errorf("replay failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&delayMs, "delay", 0, "milliseconds between tokens (default from config)")
	cmd.Flags().BoolVar(&noReveal, "no-reveal", false, "disable the reveal animation")
	cmd.Flags().BoolVar(&resetReveal, "reset-reveal", false, "forget which segments were already revealed")
	cmd.Flags().BoolVar(&inline, "inline", false, "render below the prompt instead of the alternate screen")
	return cmd
}

// openRevealStore opens the configured SQLite memory, or an in-process
// store when no path is set.
func (a *app) openRevealStore() (reveal.Store, func(), error) {
	path := a.cfg.Reveal.StorePath
	if path == "" {
		return reveal.NewMemoryStore(), func() {}, nil
	}

	store, err := reveal.OpenSQLite(path)
	if err != nil {
		return nil, nil, &ConfigError{Path: path, Err: err}
	}
	a.logger.WithField("path", path).Debug("opened reveal store")
	return store, func() {
		if err := store.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close reveal store")
		}
	}, nil
}

// printTranscript writes the fully streamed transcript without animation.
func printTranscript(out io.Writer, a *app, conv *model.Conversation) {
	width := a.cfg.UI.Width
	if width <= 0 {
		width = terminalWidth(out)
	}
	list := components.NewMessageList(themeFor(out, a.cfg.UI.Theme, a.colors), components.SegmentOptions{
		Width:           width,
		ShowLineNumbers: a.cfg.UI.ShowLineNumbers,
		CodeStyle:       a.cfg.UI.CodeStyle,
	})
	list.SetWidth(width)
	list.SetMessages(conv.Messages)

	sum := conv.Summarize()
	header := fmt.Sprintf("%s (%s, %s)", conv.GetTitle(),
		util.Plural(sum.Messages, "message"), util.Plural(sum.CodeBlocks, "code block"))
	if len(sum.Languages) > 0 {
		header += ": " + strings.Join(sum.Languages, ", ")
	}
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, list.View())
}
