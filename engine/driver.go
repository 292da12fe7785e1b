package engine

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
)

// Options configures an Engine.
type Options struct {
	// Validate, if set, is called for every reuse decision, together with a
	// fresh evaluation to compare against. Leave nil to trust the tri-state.
	Validate ReuseValidator
}

// Engine evaluates an automaton over trees of elements.
type Engine struct {
	auto *automaton.Automaton
	cat  *selector.Catalog
	opts Options
	zero []bool
}

// New creates an engine for an automaton. Selectors referenced by the
// automaton's rules are resolved in cat.
func New(a *automaton.Automaton, cat *selector.Catalog, opts Options) *Engine {
	return &Engine{
		auto: a,
		cat:  cat,
		opts: opts,
		zero: make([]bool, a.NumStates()),
	}
}

// Automaton returns the automaton of e.
func (e *Engine) Automaton() *automaton.Automaton {
	return e.auto
}

// Catalog returns the selector catalog of e.
func (e *Engine) Catalog() *selector.Catalog {
	return e.cat
}

// NewCache creates an element cache sized for the automaton of e.
func (e *Engine) NewCache() *Cache {
	return NewCache(e.auto.NumStates())
}

// Attach evaluates a freshly inserted element against the current output of
// its parent and flags it as changed. The element's cache must be new.
func (e *Engine) Attach(t Tree, id tree.NodeID) {
	c := t.Cache(id)
	c.store(Evaluate(e.auto, e.cat, t.Element(id), e.input(t, id)))
	MarkChanged(t, id)
}

func (e *Engine) input(t Tree, id tree.NodeID) []bool {
	if p, ok := t.Parent(id); ok {
		return t.Cache(p).output
	}
	return e.zero
}

// frame is a stack entry of the recompute walk.
type frame struct {
	id       tree.NodeID
	input    []bool // output of the parent, zero vector for the root
	children []tree.NodeID
	next     int  // index of the next child to consider
	changed  bool // output changed at this visit; all children must be visited
	needed   []bool
}

// Recompute brings the caches of the tree below root up to date. The
// counters of the pass are added to m, which is returned. If m is nil, a
// fresh Metrics is allocated.
//
// The walk is a depth-first traversal with an explicit stack. Elements are
// evaluated on the way down and get their tri-state derived on the way up,
// once all of their children are done.
func (e *Engine) Recompute(t Tree, root tree.NodeID, m *Metrics) *Metrics {
	if m == nil {
		m = &Metrics{}
	}
	rc := t.Cache(root)
	if rc.dirty == Clean && !rc.recursive {
		m.Skipped++
		return m
	}
	stack := []*frame{e.enter(t, root, e.zero, m)}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next < len(f.children) {
			ch := f.children[f.next]
			f.next++
			if f.changed || t.Cache(ch).recursive {
				stack = append(stack, e.enter(t, ch, t.Cache(f.id).output, m))
			} else {
				m.Skipped++
			}
			continue
		}
		if e.fixup(t, f, m) {
			continue
		}
		c := t.Cache(f.id)
		c.settle(DeriveTriState(f.needed, c.deps, f.input), f.needed)
		stack = stack[:len(stack)-1]
	}
	tracer().Infof("recompute: %v", m)
	return m
}

// enter performs the top-down part of a visit.
func (e *Engine) enter(t Tree, id tree.NodeID, input []bool, m *Metrics) *frame {
	m.Visited++
	c := t.Cache(id)
	f := &frame{id: id, input: input, children: t.Children(id)}
	switch c.dirty {
	case Clean:
		tracer().Debugf("node %d: clean, passing through", id)
		e.validate(t, id, c, input, m)
	case InputChanged:
		if c.tri.Admits(input) {
			tracer().Debugf("node %d: tri-state %s admits input, reusing", id, c.tri)
			m.Reused++
			c.partial = true
			e.validate(t, id, c, input, m)
			break
		}
		f.changed = e.evaluate(t, id, c, input, m)
	case NodeChanged:
		f.changed = e.evaluate(t, id, c, input, m)
	}
	if f.changed {
		e.invalidate(t, f, m)
	}
	return f
}

func (e *Engine) evaluate(t Tree, id tree.NodeID, c *Cache, input []bool, m *Metrics) bool {
	m.Recomputed++
	changed := c.store(Evaluate(e.auto, e.cat, t.Element(id), input))
	if changed {
		m.OutputsChanged++
	}
	tracer().Debugf("node %d: %s, evaluated to %s (changed=%v)", id, c.dirty, c.quad, changed)
	return changed
}

func (e *Engine) invalidate(t Tree, f *frame, m *Metrics) {
	for _, ch := range f.children {
		t.Cache(ch).markInputChanged()
	}
	m.Invalidated += len(f.children)
}

func (e *Engine) validate(t Tree, id tree.NodeID, c *Cache, input []bool, m *Metrics) {
	if e.opts.Validate == nil {
		return
	}
	needed := c.needed
	if needed == nil {
		needed = e.needed(t, id)
	}
	m.Validated++
	e.opts.Validate(ReuseCheck{
		Node:   id,
		Dirty:  c.dirty,
		Needed: needed,
		Cached: c.output,
		Fresh:  Evaluate(e.auto, e.cat, t.Element(id), input).Output,
	})
}

func (e *Engine) needed(t Tree, id tree.NodeID) []bool {
	children := t.Children(id)
	tris := make([]TriVector, len(children))
	for i, ch := range children {
		tris[i] = t.Cache(ch).tri
	}
	return ComputeNeeded(e.auto, tris)
}

// fixup runs after all children of f are done. It computes the needed set of
// the element. If the element's output was reused and the needed set grew
// beyond the one its tri-state was derived for, the newly needed bits may be
// stale: fixup re-evaluates the element, and if its output changes, re-arms
// the frame to visit all children again. It returns true if the frame was
// re-armed.
func (e *Engine) fixup(t Tree, f *frame, m *Metrics) bool {
	c := t.Cache(f.id)
	f.needed = e.needed(t, f.id)
	if !c.partial || !grown(c.needed, f.needed) {
		return false
	}
	m.FixUps++
	tracer().Debugf("node %d: needed set grew after reuse, re-evaluating", f.id)
	if !e.evaluate(t, f.id, c, f.input, m) {
		return false
	}
	e.invalidate(t, f, m)
	f.changed = true
	f.next = 0
	m.Revisits += len(f.children)
	return true
}

func grown(before, after []bool) bool {
	for s, isNeeded := range after {
		if isNeeded && (before == nil || !before[s]) {
			return true
		}
	}
	return false
}
