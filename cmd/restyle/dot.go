package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"io"
	"os"

	"github.com/npillmayer/restyle/dom/domdbg"
	"github.com/npillmayer/restyle/dom/style/cssom/douceuradapter"
	"github.com/spf13/cobra"
)

// DotOptions holds the flags of command dot.
type DotOptions struct {
	CSS      string
	HTML     string
	Document bool
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{}
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the selector automaton in GraphViz format",
		Long: `Compile the selectors of a style sheet and print the automaton in
GraphViz (DOT) format. With --document, print the styled document of --html
instead, with the selectors every node matches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(rootOpts, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.CSS, "css", "", "CSS style sheet")
	cmd.Flags().StringVar(&opts.HTML, "html", "", "HTML document")
	cmd.Flags().BoolVar(&opts.Document, "document", false, "draw the document instead of the automaton")
	return cmd
}

func runDot(rootOpts *RootOptions, opts *DotOptions, w io.Writer) error {
	if opts.Document {
		if opts.HTML == "" {
			return errors.New("--document needs --html")
		}
		s, err := rootOpts.loadSession(opts.HTML, opts.CSS)
		if err != nil {
			return err
		}
		return domdbg.ToGraphViz(s.Doc, w)
	}
	if opts.CSS == "" {
		return ErrNoStyles
	}
	f, err := os.Open(opts.CSS)
	if err != nil {
		return err
	}
	defer f.Close()
	sheet, err := douceuradapter.Read(f)
	if err != nil {
		return err
	}
	c, err := compileStyles(sheet)
	if err != nil {
		return err
	}
	return domdbg.AutomatonToGraphViz(c.Automaton, c.Catalog, w)
}
