/*
Package selector holds the selector catalog and the selector predicate.

Selectors are interned into a Catalog, which hands out small, stable integer
IDs. Simple selectors (type, class, id, attribute) and compound selectors
(a conjunction of simple selectors plus a set of pseudo-classes) share one ID
space. The automaton refers to selectors by ID only; matching an element
against a selector ID is done by Catalog.Matches.

Package selector also includes a parser for the subset of CSS selector
syntax the automaton compiler understands: compound selectors joined by the
descendant combinator.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package selector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.selector'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.selector")
}
