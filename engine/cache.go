package engine

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
)

// DirtyState tells the recompute driver what happened to an element since
// its last visit.
type DirtyState uint8

// Dirty states.
const (
	Clean        DirtyState = iota // nothing changed at this element
	InputChanged                   // the parent's output changed
	NodeChanged                    // the element itself was edited
)

func (d DirtyState) String() string {
	switch d {
	case Clean:
		return "clean"
	case InputChanged:
		return "input-changed"
	case NodeChanged:
		return "node-changed"
	}
	return fmt.Sprintf("dirty(%d)", d)
}

// Cache is the per-element engine state.
//
// Clients create caches with NewCache and read them freely, but must leave
// modification to the engine. Dirty flags in particular are only set by
// MarkChanged and the recompute driver.
type Cache struct {
	dirty     DirtyState
	recursive bool // this element or a descendant needs a visit
	output    []bool
	quad      QuadVector
	deps      [][]automaton.State
	tri       TriVector
	needed    []bool // needed set at the last tri-state derivation
	partial   bool   // output reused since the last evaluation
}

// NewCache creates the cache for a new element of an automaton with the
// given number of states: all bits false, tri-state unused, and the element
// flagged NodeChanged.
func NewCache(states int) *Cache {
	return &Cache{
		dirty:     NodeChanged,
		recursive: true,
		output:    make([]bool, states),
		quad:      make(QuadVector, states),
		deps:      make([][]automaton.State, states),
		tri:       make(TriVector, states),
	}
}

// Dirty returns the dirty state.
func (c *Cache) Dirty() DirtyState { return c.dirty }

// RecursiveDirty is true if the element or a descendant needs a visit.
func (c *Cache) RecursiveDirty() bool { return c.recursive }

// Output returns the materialized output vector. Clients must not modify it.
func (c *Cache) Output() []bool { return c.output }

// Quad returns the quad-state vector. Clients must not modify it.
func (c *Cache) Quad() QuadVector { return c.quad }

// Tri returns the tri-state vector. Clients must not modify it.
func (c *Cache) Tri() TriVector { return c.tri }

// Active is true if state s is set in the output vector.
func (c *Cache) Active(s automaton.State) bool {
	return c.output[s]
}

func (c *Cache) String() string {
	return fmt.Sprintf("{%s rec=%v out=%s tri=%s}", c.dirty, c.recursive, BitString(c.output), c.tri)
}

// store replaces the evaluation results and reports whether the materialized
// output changed.
func (c *Cache) store(ev Evaluation) bool {
	changed := !equalBits(c.output, ev.Output)
	c.output, c.quad, c.deps = ev.Output, ev.Quad, ev.Deps
	c.partial = false
	return changed
}

// markInputChanged is applied by the driver to the children of an element
// whose output changed. NodeChanged is never downgraded.
func (c *Cache) markInputChanged() {
	if c.dirty == Clean {
		c.dirty = InputChanged
	}
	c.recursive = true
}

func (c *Cache) settle(tri TriVector, needed []bool) {
	c.tri, c.needed = tri, needed
	c.dirty, c.recursive = Clean, false
}

// --- Marking ---------------------------------------------------------------

// Tree is the view of a document the engine operates on.
type Tree interface {
	Parent(tree.NodeID) (tree.NodeID, bool)
	Children(tree.NodeID) []tree.NodeID
	Cache(tree.NodeID) *Cache
	Element(tree.NodeID) selector.Element
}

// MarkChanged flags an element as edited and flags it and all of its
// ancestors as needing a visit. The walk up stops at the first ancestor
// already flagged. Every mutation of a document has to end by calling
// MarkChanged for the affected element.
func MarkChanged(t Tree, id tree.NodeID) {
	c := t.Cache(id)
	c.dirty = NodeChanged
	c.recursive = true
	for {
		p, ok := t.Parent(id)
		if !ok {
			return
		}
		pc := t.Cache(p)
		if pc.recursive {
			return
		}
		pc.recursive = true
		id = p
	}
}
