package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"io"

	"github.com/npillmayer/restyle/dom"
	"github.com/spf13/cobra"
)

// MatchOptions holds the flags of command match.
type MatchOptions struct {
	HTML   string
	CSS    string
	Frames string
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Report which nodes every selector matches",
		Long: `Load an HTML document and a style sheet, and report for every selector
the nodes it matches. With --frames, mutation frames are replayed and a
report is printed after every batch (frames are batched by 'op: recompute').
Text output ends with the engine counters summed over all batches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.HTML, "html", "", "HTML document")
	cmd.Flags().StringVar(&opts.CSS, "css", "", "CSS style sheet (default: embedded styles)")
	cmd.Flags().StringVar(&opts.Frames, "frames", "", "YAML file of mutation frames")
	_ = cmd.MarkFlagRequired("html")
	return cmd
}

func runMatch(rootOpts *RootOptions, opts *MatchOptions, w io.Writer) error {
	s, err := rootOpts.loadSession(opts.HTML, opts.CSS)
	if err != nil {
		return err
	}
	if err := writeReport(w, rootOpts.Format, s.Doc, 0); err != nil {
		return err
	}
	if opts.Frames == "" {
		return nil
	}
	err = s.Replay(opts.Frames, func(n int) error {
		return writeReport(w, rootOpts.Format, s.Doc, n)
	})
	if err != nil || rootOpts.Format != dom.FormatText {
		return err
	}
	_, err = fmt.Fprintf(w, "# total: %v\n", &s.Total)
	return err
}

// writeReport writes the report of batch n. Text reports are headed by the
// batch number, YAML reports are separated as documents.
func writeReport(w io.Writer, format string, doc *dom.Document, n int) error {
	switch format {
	case dom.FormatText:
		if _, err := fmt.Fprintf(w, "# batch %d\n", n); err != nil {
			return err
		}
	case dom.FormatYAML:
		if n > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
	}
	return doc.Report().Write(w, format)
}
