// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/crosscheck"
	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/ui/components"
	"github.com/jeranaias/fenceline/internal/ui/styles"
	"github.com/jeranaias/fenceline/internal/util"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

// segmentView is the structured form of a segment.
type segmentView struct {
	Key       string `json:"key" yaml:"key"`
	Kind      string `json:"kind" yaml:"kind"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	Complete  bool   `json:"complete" yaml:"complete"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	Offset    int    `json:"offset" yaml:"offset"`
	Content   string `json:"content" yaml:"content"`
}

// segmentReport is the structured output of the segment command.
type segmentReport struct {
	Source     string        `json:"source" yaml:"source"`
	Fenced     bool          `json:"fenced" yaml:"fenced"`
	Incomplete bool          `json:"incomplete" yaml:"incomplete"`
	Segments   []segmentView `json:"segments" yaml:"segments"`
}

func newSegmentReport(source, buffer string) segmentReport {
	segs := segment.Split(buffer)
	report := segmentReport{
		Source:   source,
		Fenced:   segs != nil,
		Segments: make([]segmentView, 0, len(segs)),
	}
	for _, seg := range segs {
		report.Segments = append(report.Segments, segmentView{
			Key:       seg.Key(),
			Kind:      seg.Kind.String(),
			Language:  seg.Language,
			Complete:  seg.IsComplete,
			StartLine: seg.StartLine,
			EndLine:   seg.EndLine,
			Offset:    seg.Offset,
			Content:   seg.Content,
		})
	}
	if n := len(segs); n > 0 {
		report.Incomplete = !segs[n-1].IsComplete
	}
	return report
}

type issuesReport struct {
	Source string                    `json:"source" yaml:"source"`
	Issues []segment.ValidationIssue `json:"issues" yaml:"issues"`
}

type blocksReport struct {
	Source string                    `json:"source" yaml:"source"`
	Blocks []segment.CodeBlockRecord `json:"blocks" yaml:"blocks"`
}

type crosscheckReport struct {
	Source      string                  `json:"source" yaml:"source"`
	Divergences []crosscheck.Divergence `json:"divergences" yaml:"divergences"`
}

// =============================================================================
// SEGMENT
// =============================================================================

func newSegmentCommand(a *app) *cobra.Command {
	var format string
	var render bool

	cmd := &cobra.Command{
		Use:   "segment [FILE|-]",
		Short: "Print the segmentation of a buffer",
		Long: `Split a buffer into text and fenced code segments and print them.
With --render the segments are drawn the way the terminal viewer shows them.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			buffer, source, err := readBuffer(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if render {
				fmt.Fprintln(out, a.renderBuffer(out, buffer))
				return nil
			}

			report := newSegmentReport(source, buffer)
			if format != FormatText {
				return writeStructured(out, format, report)
			}
			printSegmentReport(out, report)
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().BoolVarP(&render, "render", "r", false, "render segments instead of listing them")
	return cmd
}

// renderBuffer draws buffer with the segment renderer.
func (a *app) renderBuffer(out io.Writer, buffer string) string {
	width := a.cfg.UI.Width
	if width <= 0 {
		width = terminalWidth(out)
	}
	theme := themeFor(out, a.cfg.UI.Theme, a.colors)
	r := components.NewSegmentRenderer(theme, components.SegmentOptions{
		Width:           width,
		ShowLineNumbers: a.cfg.UI.ShowLineNumbers,
		CodeStyle:       a.cfg.UI.CodeStyle,
	})
	return r.RenderBuffer(buffer)
}

func printSegmentReport(out io.Writer, report segmentReport) {
	if !report.Fenced {
		fmt.Fprintf(out, "%s: no fences, the whole buffer is text\n", report.Source)
		return
	}

	codes := 0
	for _, seg := range report.Segments {
		if seg.Kind == segment.KindCode.String() {
			codes++
		}
	}
	state := color.GreenString("complete")
	if report.Incomplete {
		state = color.YellowString("streaming")
	}
	fmt.Fprintf(out, "%s: %s (%s), %s\n", report.Source,
		util.Plural(len(report.Segments), "segment"), util.Plural(codes, "code block"), state)

	for i, seg := range report.Segments {
		label := color.CyanString("%-7s", seg.Key)
		if seg.Kind == segment.KindCode.String() {
			label = color.MagentaString("%-7s", seg.Key)
		}
		detail := fmt.Sprintf("lines %d-%d", seg.StartLine+1, seg.EndLine)
		if seg.Language != "" {
			detail = seg.Language + "  " + detail
		}
		if !seg.Complete {
			detail += "  " + color.YellowString("open")
		}
		fmt.Fprintf(out, "[%d] %s %s\n", i, label, detail)
		fmt.Fprintln(out, indent(seg.Content, "    "))
	}
}

// =============================================================================
// VALIDATE
// =============================================================================

func newValidateCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate [FILE|-]",
		Short: "Report a code fence that is never closed",
		Long: `Check a buffer for a dangling fence. Exits with status 1 when an
issue is found so the command can gate scripts.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			buffer, source, err := readBuffer(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			issues := segment.ValidateSyntax(buffer)
			if format != FormatText {
				if issues == nil {
					issues = []segment.ValidationIssue{}
				}
				if err := writeStructured(out, format, issuesReport{Source: source, Issues: issues}); err != nil {
					return err
				}
			} else if len(issues) == 0 {
				fmt.Fprintf(out, "%s %s: fences balanced\n", color.GreenString(styles.StatusIndicators.Success), source)
			} else {
				for _, issue := range issues {
					fmt.Fprintf(out, "%s %s: %s\n", color.RedString(styles.StatusIndicators.Error), source, issue)
				}
			}

			a.logger.WithField("issues", len(issues)).Debug("validated buffer")
			if len(issues) > 0 {
				return findings()
			}
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

// =============================================================================
// BLOCKS
// =============================================================================

func newBlocksCommand(a *app) *cobra.Command {
	var format string
	var language string

	cmd := &cobra.Command{
		Use:   "blocks [FILE|-]",
		Short: "Print the code blocks of a buffer",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			buffer, source, err := readBuffer(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			blocks := []segment.CodeBlockRecord{}
			for _, b := range segment.ExtractCodeBlocks(buffer) {
				if language == "" || b.Language == language {
					blocks = append(blocks, b)
				}
			}
			a.logger.WithField("blocks", len(blocks)).Debug("extracted code blocks")

			if format != FormatText {
				return writeStructured(out, format, blocksReport{Source: source, Blocks: blocks})
			}
			if len(blocks) == 0 {
				fmt.Fprintf(out, "%s: no code blocks\n", source)
				return nil
			}
			for i, b := range blocks {
				state := color.GreenString("complete")
				if !b.IsComplete {
					state = color.YellowString("open")
				}
				fmt.Fprintf(out, "#%d %s  lines %d-%d  %s\n",
					i, color.MagentaString(b.Language), b.StartIndex+1, b.EndIndex+1, state)
				fmt.Fprintln(out, indent(b.Content, "    "))
			}
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	cmd.Flags().StringVarP(&language, "language", "l", "", "only print blocks with this language tag")
	return cmd
}

// =============================================================================
// CROSSCHECK
// =============================================================================

func newCrosscheckCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "crosscheck [FILE|-]",
		Short: "Compare code blocks against a CommonMark parse",
		Long: `Parse the buffer with a CommonMark parser and report every code
block where it disagrees with the fence segmentation. Exits with status 1
when the two disagree.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			buffer, source, err := readBuffer(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			divs := crosscheck.Compare(buffer)
			if format != FormatText {
				if divs == nil {
					divs = []crosscheck.Divergence{}
				}
				if err := writeStructured(out, format, crosscheckReport{Source: source, Divergences: divs}); err != nil {
					return err
				}
			} else if len(divs) == 0 {
				n := len(crosscheck.EngineBlocks(buffer))
				fmt.Fprintf(out, "%s %s: engine and CommonMark agree on %s\n",
					color.GreenString(styles.StatusIndicators.Success), source, util.Plural(n, "code block"))
			} else {
				for _, d := range divs {
					fmt.Fprintf(out, "%s %s: %s\n", color.YellowString(styles.StatusIndicators.Warning), source, d)
				}
			}

			a.logger.WithField("divergences", len(divs)).Debug("cross-checked buffer")
			if len(divs) > 0 {
				return findings()
			}
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
