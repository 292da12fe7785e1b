package domdbg

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/tree"
	"golang.org/x/net/html"
)

// Mismatch is a node where the incremental match of a rule disagrees with
// cascadia.
type Mismatch struct {
	Node     tree.NodeID
	Selector string
	Want     bool // cascadia
	Got      bool // document
}

func (m Mismatch) String() string {
	return fmt.Sprintf("node %d, %q: cascadia=%v document=%v", m.Node, m.Selector, m.Want, m.Got)
}

// CrossCheck matches the rules of doc with cascadia against the HTML nodes
// the document nodes were imported from (see dom.ImportHTML) and reports
// every disagreement. Nodes without an HTML source are left out, as are rules
// using pseudo-classes, as cascadia knows nothing about hover or focus. The
// document must be recomputed.
func CrossCheck(doc *dom.Document) ([]Mismatch, error) {
	var sources []source
	if root, ok := doc.Root(); ok {
		work := []tree.NodeID{root}
		for len(work) > 0 {
			id := work[len(work)-1]
			work = work[:len(work)-1]
			if sn, ok := doc.Node(id); ok && sn.HTMLNode() != nil {
				sources = append(sources, source{id, sn.HTMLNode()})
			}
			work = append(work, doc.Children(id)...)
		}
	}
	var mismatches []Mismatch
	for _, r := range doc.Rules() {
		if strings.Contains(r.Selector, ":") {
			continue
		}
		sel, err := cascadia.Compile(r.Selector)
		if err != nil {
			return nil, fmt.Errorf("cascadia cannot compile %q: %w", r.Selector, err)
		}
		for _, src := range sources {
			want, got := sel.Match(src.h), doc.Matches(src.id, r.Accept)
			if want != got {
				mismatches = append(mismatches, Mismatch{Node: src.id, Selector: r.Selector, Want: want, Got: got})
			}
		}
	}
	if len(mismatches) > 0 {
		tracer().Errorf("cross-check found %d mismatches", len(mismatches))
	}
	return mismatches, nil
}

type source struct {
	id tree.NodeID
	h  *html.Node
}
