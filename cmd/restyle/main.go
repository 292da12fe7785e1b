/*
Command restyle matches CSS selectors against HTML documents, using the
incremental selector automaton of package engine.

	restyle match --html page.html --css style.css --frames edits.yaml
	restyle tree  --html page.html --css style.css
	restyle dot   --css style.css > automaton.dot

Command match prints a report of matching nodes after the initial recompute
and after every batch of mutation frames (see dom.LoadFrames). Command tree
prints the styled document as a tree, command dot the selector automaton in
GraphViz format.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.cli'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.cli")
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "restyle: %v\n", err)
		os.Exit(1)
	}
}
