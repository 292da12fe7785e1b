package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/restyle/tree"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned for unknown report formats.
var ErrFormat = errors.New("unknown report format")

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReportEntry lists the nodes matching one selector.
type ReportEntry struct {
	Selector string        `json:"selector" yaml:"selector"`
	Nodes    []tree.NodeID `json:"nodes" yaml:"nodes,flow"`
	Paths    []string      `json:"paths" yaml:"paths,flow"`
}

// Report lists, per rule of a document, the matching nodes.
type Report []ReportEntry

// Report collects the current matches of all rules, in rule order.
func (d *Document) Report() Report {
	report := make(Report, len(d.rules))
	for i, r := range d.rules {
		entry := ReportEntry{Selector: r.Selector, Nodes: []tree.NodeID{}, Paths: []string{}}
		for _, id := range d.Select(r.Accept) {
			entry.Nodes = append(entry.Nodes, id)
			entry.Paths = append(entry.Paths, d.PathOf(id).String())
		}
		report[i] = entry
	}
	return report
}

// Write writes the report in one of the formats "text", "json" or "yaml".
func (r Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return r.WriteText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}

// WriteText writes one line per selector: the selector, followed by the
// paths of all matching nodes.
func (r Report) WriteText(w io.Writer) error {
	for _, e := range r {
		line := fmt.Sprintf("%-30s %s", e.Selector, strings.Join(e.Paths, " "))
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
