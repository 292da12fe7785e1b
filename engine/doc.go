/*
Package engine incrementally maintains automaton state for a tree of elements.

Every element carries a Cache: the materialized output vector (one bit per
automaton state), a quad-state description of how each bit came about
(constant, or copied from a parent bit), the parent bits each state depends
on, and a tri-state fingerprint of the parent bits this element's observable
results actually consumed. Together with a per-element dirty state these let
the recompute driver skip unaffected subtrees and reuse cached results for
elements whose parent changed only in positions nobody reads.

Recompute walks the tree depth-first with an explicit stack. For each visited
element it decides between skipping, reusing, and re-evaluating, propagates
'input changed' to the children of elements whose output changed, and derives
the element's tri-state once all of its children have been visited.

Reuse decisions may be cross-checked with a ReuseValidator. StrictValidator
panics with an *InvariantError on the first disagreement and is meant for
tests and debug builds; a nil validator trusts the tri-state outright.

The engine is single-threaded. Clients have to serialize access to a tree
and its caches.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.engine'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.engine")
}
