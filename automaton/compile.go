package automaton

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"

	"github.com/npillmayer/restyle/selector"
)

// ErrEmptySelector is returned by Compile for a selector without compounds.
var ErrEmptySelector = errors.New("cannot compile empty selector")

/*
Compilation of descendant chains

For a selector C1 C2 … Cn we use two families of states, both keyed by the
canonical text of a prefix of the chain:

	match(C1…Ci)   the element matches Ci and an ancestor is within(C1…Ci-1)
	within(C1…Ci)  the element or one of its ancestors is match(C1…Ci)

This yields the rules

	match(C1)      <- [sel C1]                                  (seed for '*')
	match(C1…Ci)   <- [sel Ci, parent within(C1…Ci-1)]          i ≥ 2
	within(C1)     <- [sel C1]
	within(C1…Ci)  <- [sel Ci, parent within(C1…Ci-1)]          i ≥ 2
	within(C1…Ci)  <- [parent within(C1…Ci)]

and the accept state of the selector is match(C1…Cn). Only the last compound
of a chain needs a match state, all others need a within state. Selectors
sharing a prefix share its states.
*/

// Compile translates a list of selectors into an automaton. Compound
// selectors are interned into cat. The i-th returned state is the accept
// state of selectors[i]; equal selectors share their accept state.
func Compile(cat *selector.Catalog, selectors []selector.Complex) (*Automaton, []State, error) {
	b := NewBuilder()
	accept := make([]State, len(selectors))
	for i, cx := range selectors {
		s, err := compileChain(b, cat, cx)
		if err != nil {
			return nil, nil, err
		}
		accept[i] = s
		b.Accept(s)
	}
	a, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("compiled %d selectors into %v", len(selectors), a)
	return a, accept, nil
}

func compileChain(b *Builder, cat *selector.Catalog, cx selector.Complex) (State, error) {
	if len(cx) == 0 {
		return NoState, ErrEmptySelector
	}
	within := NoState
	prefix := ""
	for i, cp := range cx {
		sel := cat.InternCompound(cp)
		if i > 0 {
			prefix += " "
		}
		prefix += cp.String()
		if i == len(cx)-1 {
			m := b.State("match(" + prefix + ")")
			b.Rule(Rule{Selector: sel, Parent: within, Target: m})
			return m, nil
		}
		w := b.State("within(" + prefix + ")")
		b.Rule(Rule{Selector: sel, Parent: within, Target: w})
		b.Propagate(selector.None, w, w)
		within = w
	}
	panic("unreachable")
}
