/*
Package domdbg implements helpers to debug a styled document and its
selector automaton.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"strings"

	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/dom/styledtree"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/tree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/xlab/treeprint"
)

// tracer traces with key 'restyle.dom'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.dom")
}

var all dom.Predicate = func(tree.NodeID, *styledtree.StyNode) bool { return true }

// Label returns a short description of a node: tag, id, classes and
// computed pseudo-classes, e.g. `li#x.note:hover`.
func Label(doc *dom.Document, id tree.NodeID) string {
	sn, ok := doc.Node(id)
	if !ok {
		return "?"
	}
	var b strings.Builder
	b.WriteString(sn.TagName())
	if v, ok := sn.Attribute("id"); ok && v != "" {
		b.WriteString("#" + v)
	}
	for _, c := range doc.ClassNames(sn) {
		b.WriteString("." + c)
	}
	b.WriteString(sn.ComputedPseudo().String())
	return b.String()
}

// PrintTree renders the document as an indented tree. Every node shows its
// label, its output vector and the selectors it matches. Dirty nodes show
// their dirty state as well.
func PrintTree(doc *dom.Document) string {
	if _, ok := doc.Root(); !ok {
		return "(empty)\n"
	}
	top := treeprint.New()
	branches := make(map[tree.NodeID]treeprint.Tree, doc.Len())
	for _, id := range doc.Find(all) { // pre-order: parents come first
		c := doc.Cache(id)
		text := fmt.Sprintf("%s [%s]", Label(doc, id), engine.BitString(c.Output()))
		if c.Dirty() != engine.Clean {
			text += " " + c.Dirty().String()
		}
		if rules := doc.MatchingRules(id); len(rules) > 0 {
			sels := make([]string, len(rules))
			for i, r := range rules {
				sels[i] = r.Selector
			}
			text += " {" + strings.Join(sels, ", ") + "}"
		}
		parent, ok := doc.Parent(id)
		if !ok {
			top.SetValue(text)
			branches[id] = top
			continue
		}
		branches[id] = branches[parent].AddBranch(text)
	}
	return top.String()
}
