package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"io"

	"github.com/npillmayer/restyle/dom/domdbg"
	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the styled document tree",
		Long: `Load an HTML document and a style sheet, replay mutation frames if given,
and print the document tree. Every node shows its automaton output and the
selectors it matches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(rootOpts, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.HTML, "html", "", "HTML document")
	cmd.Flags().StringVar(&opts.CSS, "css", "", "CSS style sheet (default: embedded styles)")
	cmd.Flags().StringVar(&opts.Frames, "frames", "", "YAML file of mutation frames")
	_ = cmd.MarkFlagRequired("html")
	return cmd
}

func runTree(rootOpts *RootOptions, opts *MatchOptions, w io.Writer) error {
	s, err := rootOpts.loadSession(opts.HTML, opts.CSS)
	if err != nil {
		return err
	}
	if opts.Frames != "" {
		if err := s.Replay(opts.Frames, func(int) error { return nil }); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, domdbg.PrintTree(s.Doc))
	return err
}
