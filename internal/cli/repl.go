// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/config"
	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/util"
)

// =============================================================================
// REPL SESSION
// =============================================================================

const replHelp = `Type lines to append them to the buffer. Commands:
  :show    render the buffer
  :list    list the segments
  :undo    drop the last line
  :reset   clear the buffer
  :help    show this help
  :quit    leave`

// replSession holds the buffer built up by the REPL.
type replSession struct {
	app   *app
	out   io.Writer
	lines []string
}

func (s *replSession) buffer() string {
	return strings.Join(s.lines, "\n")
}

// handle processes one input line. It returns false when the session ends.
func (s *replSession) handle(line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit", ":q", ":exit":
		return false
	case ":help", ":h":
		fmt.Fprintln(s.out, replHelp)
		return true
	case ":reset":
		s.lines = nil
		fmt.Fprintln(s.out, "buffer cleared")
		return true
	case ":undo":
		if len(s.lines) > 0 {
			s.lines = s.lines[:len(s.lines)-1]
		}
		s.summary()
		return true
	case ":show":
		fmt.Fprintln(s.out, s.app.renderBuffer(s.out, s.buffer()))
		return true
	case ":list":
		printSegmentReport(s.out, newSegmentReport("buffer", s.buffer()))
		return true
	}

	s.lines = append(s.lines, line)
	s.summary()
	return true
}

// summary prints the segmentation after the last change.
func (s *replSession) summary() {
	buffer := s.buffer()
	segs := segment.Split(buffer)
	if segs == nil {
		fmt.Fprintf(s.out, "  %s, no fences\n", util.Plural(len(s.lines), "line"))
		return
	}

	last := segs[len(segs)-1]
	where := color.CyanString("in text")
	if last.IsCode() && !last.IsComplete {
		where = color.YellowString("inside %s block", last.Language)
	}
	fmt.Fprintf(s.out, "  %s (%s), %s\n",
		util.Plural(len(segs), "segment"), util.Plural(countCode(segs), "code block"), where)
}

// =============================================================================
// COMMAND
// =============================================================================

func newReplCommand(a *app) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build a buffer line by line and watch it re-segment",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := &replSession{app: a, out: cmd.OutOrStdout()}

			if !isTerminal(cmd.InOrStdin()) {
				return session.runPlain(cmd.InOrStdin())
			}
			return session.runInteractive(!noHistory)
		},
	}
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not read or save ~/.fenceline/repl_history")
	return cmd
}

// runPlain reads lines from a pipe without line editing.
func (s *replSession) runPlain(in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if !s.handle(line) {
			break
		}
	}
	return nil
}

// runInteractive runs the liner prompt loop with persistent history.
func (s *replSession) runInteractive(history bool) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if history {
		if dir, err := config.ConfigDir(); err == nil {
			historyFile = filepath.Join(dir, "repl_history")
			if f, err := os.Open(historyFile); err == nil {
				line.ReadHistory(f)
				f.Close()
			}
		}
	}

	fmt.Fprintln(s.out, replHelp)
	for {
		input, err := line.Prompt("fenceline> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				break
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !s.handle(input) {
			break
		}
	}

	if historyFile != "" {
		s.saveHistory(line, historyFile)
	}
	return nil
}

func (s *replSession) saveHistory(line *liner.State, path string) {
	err := util.WriteAtomic(path, 0600, func(w io.Writer) error {
		_, err := line.WriteHistory(w)
		return err
	})
	if err != nil {
		s.app.logger.WithError(err).Debug("could not save repl history")
	}
}
