package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"os"

	"github.com/npillmayer/restyle/config"
	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string // configuration file
	Format  string // "text" | "json" | "yaml"
	Verbose bool
	Metrics string // file for the Prometheus text exposition
	Strict  bool   // cross-check every reuse decision

	conf     *config.Conf
	registry *prometheus.Registry
	recorder *metrics.Recorder
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{dom.FormatText, dom.FormatJSON, dom.FormatYAML}

// tracerKeys are the tracers switched to level Info by --verbose.
var tracerKeys = []string{
	"restyle.cli", "restyle.cssom", "restyle.dom", "restyle.engine",
	"restyle.automaton", "restyle.selector", "restyle.tree",
}

// NewRootCommand creates the root command for the restyle CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "restyle",
		Short: "restyle - incremental selector matching",
		Long: `Match CSS selectors against HTML documents with an incremental
selector automaton, and watch the matches change as the document is edited.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeMetrics()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose tracing")
	cmd.PersistentFlags().StringVar(&opts.Metrics, "metrics", "", "write Prometheus metrics to file")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "validate every reuse decision (panics on a stale cache)")

	// Add subcommands
	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewTreeCommand(opts))
	cmd.AddCommand(NewDotCommand(opts))

	return cmd
}

// setup loads the configuration, merges it with the flags and configures
// tracing and metrics.
func (opts *RootOptions) setup(cmd *cobra.Command) error {
	var err error
	if opts.Config != "" {
		if opts.conf, err = config.LoadFile(opts.Config); err != nil {
			return err
		}
	} else {
		opts.conf = config.New()
	}
	if !cmd.Flags().Changed("format") {
		opts.Format = opts.conf.GetString(config.KeyReportFormat)
	}
	if !isValidFormat(opts.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
	}
	if !cmd.Flags().Changed("strict") {
		opts.Strict = opts.conf.GetBool(config.KeyEngineStrict)
	}
	if opts.Verbose {
		for _, key := range tracerKeys {
			opts.conf.Set("trace."+key, "Info")
		}
	}
	if err := config.SetupTracing(opts.conf); err != nil {
		return err
	}
	opts.registry = prometheus.NewRegistry()
	opts.recorder = metrics.NewRecorder(opts.registry)
	return nil
}

func (opts *RootOptions) engineOptions() engine.Options {
	if opts.Strict {
		return engine.Options{Validate: engine.StrictValidator()}
	}
	return engine.Options{}
}

func (opts *RootOptions) writeMetrics() error {
	if opts.Metrics == "" || opts.registry == nil {
		return nil
	}
	f, err := os.Create(opts.Metrics)
	if err != nil {
		return err
	}
	if err := metrics.WriteText(f, opts.registry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
