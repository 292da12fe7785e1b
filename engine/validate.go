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
	"github.com/npillmayer/restyle/tree"
)

// ReuseCheck is handed to a ReuseValidator whenever the driver keeps a
// cached output without re-evaluating: for clean elements visited on the way
// to a dirty descendant, and for elements whose tri-state admits the new
// input. Fresh is the output of an evaluation against the current input.
type ReuseCheck struct {
	Node   tree.NodeID
	Dirty  DirtyState
	Needed []bool
	Cached []bool
	Fresh  []bool
}

// Mismatch returns the first needed state at which the cached and the fresh
// output disagree.
func (rc ReuseCheck) Mismatch() (automaton.State, bool) {
	for s, isNeeded := range rc.Needed {
		if isNeeded && rc.Cached[s] != rc.Fresh[s] {
			return automaton.State(s), true
		}
	}
	return automaton.NoState, false
}

// ReuseValidator cross-checks reuse decisions of the driver.
type ReuseValidator func(ReuseCheck)

// InvariantError is the panic value of StrictValidator.
type InvariantError struct {
	Node   tree.NodeID
	Dirty  DirtyState
	State  automaton.State
	Cached bool
	Fresh  bool
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("stale cache at node %d (%s): state %d is %v, re-evaluation yields %v",
		e.Node, e.Dirty, e.State, e.Cached, e.Fresh)
}

// StrictValidator panics with an *InvariantError if a reused output differs
// from a fresh evaluation at any needed state.
func StrictValidator() ReuseValidator {
	return func(rc ReuseCheck) {
		if s, bad := rc.Mismatch(); bad {
			err := &InvariantError{
				Node:   rc.Node,
				Dirty:  rc.Dirty,
				State:  s,
				Cached: rc.Cached[s],
				Fresh:  rc.Fresh[s],
			}
			tracer().Errorf("%s", err)
			panic(err)
		}
	}
}

// TracingValidator reports disagreements as errors to the engine tracer and
// carries on.
func TracingValidator() ReuseValidator {
	return func(rc ReuseCheck) {
		if s, bad := rc.Mismatch(); bad {
			tracer().Errorf("stale cache at node %d (%s), state %d", rc.Node, rc.Dirty, s)
		}
	}
}
