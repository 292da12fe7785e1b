/*
Package dom maintains styled documents and their selector matches.

Overview

A Document is a tree of styled nodes (package styledtree) held in an arena
(package tree), together with a compiled selector automaton and the engine
which keeps the automaton state of every node up to date. Documents are
built and mutated through path-addressed operations:

	doc := dom.NewDocument(catalog, automaton, rules, engine.Options{})
	doc.AddNodeByPath(tree.Path{}, dom.NodeSpec{Tag: "html", Children: ...})
	doc.UpdateAttributeByPath(tree.Path{0, 1}, "class", "note")
	doc.Recompute()
	report := doc.Report()

Every mutation ends by marking the affected node dirty; nothing is
evaluated until Recompute is called. Recompute first derives the computed
pseudo-classes (hover is inherited from ancestors, focus-within is collected
from descendants) and then runs the engine over all dirty nodes.

Documents may also be imported from an HTML parse tree (ImportHTML) and
mutated by replaying frames loaded from YAML (LoadFrames, Apply).

Tree Implementation

Nodes refer to each other by tree.NodeID only; the arena owns them. Node
IDs are stable for the lifetime of a node and are never re-used, which makes
them suitable for reports and for correlating frames with nodes.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.dom'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.dom")
}
