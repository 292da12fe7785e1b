package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/dom/styledtree"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
)

// Predicate selects nodes of a document. Predicates are intended to be used
// with tree.Arena.Select.
type Predicate func(tree.NodeID, *styledtree.StyNode) bool

// NodeMatches is a predicate to match nodes at which accept state s is active.
func NodeMatches(s automaton.State) Predicate {
	return func(_ tree.NodeID, sn *styledtree.StyNode) bool {
		return sn.Cache().Active(s)
	}
}

// NodeIsDirty is a predicate to match nodes waiting for a recompute.
var NodeIsDirty Predicate = func(_ tree.NodeID, sn *styledtree.StyNode) bool {
	return sn.Cache().RecursiveDirty()
}

// NodeHasPseudo is a predicate to match nodes whose computed pseudo-classes
// include p.
func NodeHasPseudo(p selector.PseudoSet) Predicate {
	return func(_ tree.NodeID, sn *styledtree.StyNode) bool {
		return sn.ComputedPseudo().Contains(p)
	}
}

// Find returns all nodes of the document matching pred, in document order.
func (d *Document) Find(pred Predicate) []tree.NodeID {
	root, ok := d.arena.Root()
	if !ok {
		return nil
	}
	return d.arena.Select(root, pred)
}
