package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
)

// derivedPseudo are the pseudo-classes which depend on relatives of a node.
const derivedPseudo = selector.Hover | selector.Focus | selector.FocusWithin | selector.FocusRoot

// derivePseudoClasses recomputes the computed pseudo-classes of all nodes
// below root and marks nodes whose set changed. It returns the number of
// changed nodes.
//
// Hover flows top-down: a node is hovered if it is hovered itself or its
// parent is. Focus flows bottom-up: a node has focus if it is the focus root
// or has raw focus, and is focus-within if it has focus or any child is
// focus-within. Other raw flags are passed through.
//
// Both passes run over the whole tree, independent of dirty flags.
func (d *Document) derivePseudoClasses(root tree.NodeID) int {
	pending := make(map[tree.NodeID]selector.PseudoSet, d.arena.Len())
	d.arena.PreOrder(root, func(id tree.NodeID) bool {
		raw := d.arena.Payload(id).RawPseudo()
		p := raw.Without(derivedPseudo)
		if raw.Contains(selector.Hover) {
			p = p.With(selector.Hover)
		} else if parent, ok := d.arena.Parent(id); ok && pending[parent].Contains(selector.Hover) {
			p = p.With(selector.Hover)
		}
		pending[id] = p
		return true
	})
	changed := 0
	d.arena.PostOrder(root, func(id tree.NodeID) {
		sn := d.arena.Payload(id)
		p := pending[id]
		if raw := sn.RawPseudo(); raw&(selector.FocusRoot|selector.Focus) != 0 {
			p = p.With(selector.Focus | selector.FocusWithin)
		}
		for _, ch := range d.arena.Children(id) {
			if pending[ch].Contains(selector.FocusWithin) {
				p = p.With(selector.FocusWithin)
				break
			}
		}
		pending[id] = p
		if sn.SetComputedPseudo(p) {
			changed++
			d.markChanged(id)
		}
	})
	if changed > 0 {
		tracer().Debugf("pseudo-classes changed at %d nodes", changed)
	}
	return changed
}
