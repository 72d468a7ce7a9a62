// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/execute"
	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/ui/styles"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		block    int
		endpoint string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "run FILE --block N",
		Short: "Send a code block to the execution endpoint",
		Long: `Post the Nth code block (0-based) of a buffer to the configured
execution endpoint and print the result. Blocks still waiting for their
closing fence are refused.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			buffer, _, err := readBuffer(cmd, args)
			if err != nil {
				return err
			}

			seg, err := selectBlock(buffer, block)
			if err != nil {
				return err
			}
			req, err := execute.FromSegment(seg)
			if err != nil {
				return err
			}

			ep := a.cfg.Execute.Endpoint
			if endpoint != "" {
				ep = endpoint
			}
			client := execute.NewHTTPClient(&execute.ClientConfig{
				Endpoint: ep,
				Timeout:  time.Duration(a.cfg.Execute.TimeoutSecs) * time.Second,
			})

			a.logger.WithFields(logrus.Fields{
				"block":        block,
				"language":     req.Language,
				"execution_id": req.ExecutionID,
			}).Debug("executing code block")

			result, err := client.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != FormatText {
				return writeStructured(out, format, result)
			}
			if result.Success {
				fmt.Fprintf(out, "%s %s block %d\n", color.GreenString(styles.StatusIndicators.Success), req.Language, block)
				if result.Result != "" {
					fmt.Fprintln(out, result.Result)
				}
				return nil
			}
			fmt.Fprintf(out, "%s %s block %d failed\n", color.RedString(styles.StatusIndicators.Error), req.Language, block)
			if result.Error != "" {
				fmt.Fprintln(out, result.Error)
			}
			return findings()
		},
	}
	cmd.Flags().IntVarP(&block, "block", "b", 0, "index of the code block to run")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "execution endpoint URL (default from config)")
	addFormatFlag(cmd, &format)
	return cmd
}

// selectBlock returns the code segment with the given index.
func selectBlock(buffer string, index int) (segment.Segment, error) {
	codes := segment.CodeSegments(segment.Split(buffer))
	if index < 0 || index >= len(codes) {
		return segment.Segment{}, fmt.Errorf("%w: %d (buffer has %d)", ErrBlockIndex, index, len(codes))
	}
	return codes[index], nil
}
