/*
Package styledtree implements the element payload of a styled document tree.

Overview

A StyNode carries everything selector matching looks at: the tag, the id,
the set of classes, the attributes, and two sets of pseudo-classes (raw flags
set by the host, and the computed set derived from them). It also carries the
engine cache holding the automaton state of the element.

StyNodes do not know about their position in the tree. The document arena
(package tree) owns them as node payloads, and package dom wires them into
the engine.

StyNode implements selector.Element. Setters mutate the node only; marking
the node dirty is left to package dom, which funnels every mutation through
one routine.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.dom'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.dom")
}
