// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/util"
	"github.com/jeranaias/fenceline/internal/watch"
)

// watchEvent is one line of --format json output.
type watchEvent struct {
	At         time.Time                 `json:"at"`
	Bytes      int                       `json:"bytes"`
	Segments   int                       `json:"segments"`
	CodeBlocks int                       `json:"code_blocks"`
	Incomplete bool                      `json:"incomplete"`
	Issues     []segment.ValidationIssue `json:"issues,omitempty"`
}

func newWatchCommand(a *app) *cobra.Command {
	var (
		format   string
		poll     bool
		debounce time.Duration
		render   bool
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-segment a file every time it is written",
		Long: `Watch a file that another process is appending a response to and
print the segmentation after every write. Stops on Ctrl+C.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != FormatText && format != FormatJSON {
				return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("watch supports text or json output, got %q", format)}
			}
			out := cmd.OutOrStdout()

			handler := func(u watch.Update) {
				switch {
				case format == FormatJSON:
					writeWatchEvent(out, u)
				case render:
					fmt.Fprintln(out, a.renderBuffer(out, u.Buffer))
				default:
					printWatchUpdate(out, u)
				}
			}

			opts := watch.Options{Debounce: debounce, Logger: a.logger}
			var (
				w   watch.FileWatcher
				err error
			)
			if poll {
				w = watch.NewPollingWatcher(args[0], handler, opts)
			} else {
				w, err = watch.New(args[0], handler, opts)
				if err != nil {
					return err
				}
			}

			if err := w.Watch(); err != nil {
				w.Close()
				if errors.Is(err, fs.ErrNotExist) {
					return &NotFoundError{Resource: "file", ID: args[0]}
				}
				return err
			}
			defer w.Close()

			a.logger.WithField("path", args[0]).Info("watching")
			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format: text or json (one object per line)")
	cmd.Flags().BoolVar(&poll, "poll", false, "poll the file instead of using filesystem events")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "coalesce writes closer together than this")
	cmd.Flags().BoolVarP(&render, "render", "r", false, "render the buffer after every change")
	return cmd
}

func countCode(segs []segment.Segment) int {
	return len(segment.CodeSegments(segs))
}

func printWatchUpdate(out io.Writer, u watch.Update) {
	state := color.GreenString("balanced")
	if u.Incomplete {
		state = color.YellowString("streaming")
	}
	fmt.Fprintf(out, "%s  %s  %s (%s)  %s\n",
		u.At.Format("15:04:05.000"),
		util.Plural(len(u.Buffer), "byte"),
		util.Plural(len(u.Segments), "segment"),
		util.Plural(countCode(u.Segments), "code block"),
		state)
	for _, issue := range u.Issues {
		fmt.Fprintf(out, "    %s\n", issue)
	}
}

func writeWatchEvent(out io.Writer, u watch.Update) {
	_ = json.NewEncoder(out).Encode(watchEvent{
		At:         u.At,
		Bytes:      len(u.Buffer),
		Segments:   len(u.Segments),
		CodeBlocks: countCode(u.Segments),
		Incomplete: u.Incomplete,
		Issues:     u.Issues,
	})
}
