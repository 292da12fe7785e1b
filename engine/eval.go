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
)

// Evaluation is the result of evaluating an automaton at one element.
type Evaluation struct {
	Quad   QuadVector          // how each output bit came about
	Deps   [][]automaton.State // parent bits consulted, per state
	Output []bool              // Quad materialized against the input
}

// Evaluate runs the rules of a at element e, with input being the output
// vector of e's parent (all false for the root).
//
// Intrinsic rules run first and are the only ones setting a state to
// ConstTrue. Parent-dependent rules run second and only touch states still
// at ConstFalse; the first rule whose parent bit is set wins. A rule records
// its parent bit as a dependency whenever its selector matches, regardless
// of the parent bit's value. Every evaluation starts from a fresh vector, so
// no copy-of-parent entry survives from an earlier evaluation of the same
// element.
func Evaluate(a *automaton.Automaton, cat *selector.Catalog, e selector.Element, input []bool) Evaluation {
	n := a.NumStates()
	ev := Evaluation{
		Quad: make(QuadVector, n),
		Deps: make([][]automaton.State, n),
	}
	for _, r := range a.IntrinsicRules() {
		if ev.Quad[r.Target].Kind == ConstTrue {
			continue
		}
		if cat.Matches(e, r.Selector) {
			ev.Quad[r.Target] = Quad{Kind: ConstTrue}
		}
	}
	for _, r := range a.PropagatingRules() {
		if ev.Quad[r.Target].Kind != ConstFalse {
			continue
		}
		if !cat.Matches(e, r.Selector) {
			continue
		}
		ev.Deps[r.Target] = appendDep(ev.Deps[r.Target], r.Parent)
		if input[r.Parent] {
			ev.Quad[r.Target] = Quad{Kind: CopyParent, Parent: r.Parent}
		}
	}
	ev.Output = ev.Quad.Materialize(input)
	return ev
}

func appendDep(deps []automaton.State, k automaton.State) []automaton.State {
	for _, d := range deps {
		if d == k {
			return deps
		}
	}
	return append(deps, k)
}

// ComputeNeeded returns the states whose value at an element is observed:
// every accept state, and every state a child's tri-state pins.
func ComputeNeeded(a *automaton.Automaton, children []TriVector) []bool {
	needed := make([]bool, a.NumStates())
	for _, s := range a.Accept() {
		needed[s] = true
	}
	for _, tv := range children {
		for k, t := range tv {
			if t != Unused {
				needed[k] = true
			}
		}
	}
	return needed
}

// DeriveTriState pins, for every needed state, the parent bits it depends on
// to their current value in input. All other positions stay Unused.
func DeriveTriState(needed []bool, deps [][]automaton.State, input []bool) TriVector {
	tv := make(TriVector, len(input))
	for s, isNeeded := range needed {
		if !isNeeded {
			continue
		}
		for _, k := range deps[s] {
			if input[k] {
				tv[k] = PinnedTrue
			} else {
				tv[k] = PinnedFalse
			}
		}
	}
	return tv
}
