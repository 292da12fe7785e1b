package automaton

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"

	"github.com/npillmayer/restyle/selector"
)

// ErrStateRange flags a rule or accept state referring to a state outside
// the automaton.
var ErrStateRange = errors.New("state index out of range")

// ErrNoStates is returned when building an automaton without states.
var ErrNoStates = errors.New("automaton has no states")

// State is the index of an automaton state.
type State int

// NoState marks the absence of a parent state in a rule.
const NoState State = -1

// Rule is a production of the automaton: Target is active at an element if
// the element matches Selector (always, for selector.None) and Parent is
// active at the element's parent (always, for NoState).
type Rule struct {
	Selector selector.ID
	Parent   State
	Target   State
}

// Intrinsic is true if the rule does not depend on the parent.
func (r Rule) Intrinsic() bool {
	return r.Parent == NoState
}

// Seed is true for an intrinsic rule without selector.
func (r Rule) Seed() bool {
	return r.Parent == NoState && r.Selector == selector.None
}

func (r Rule) String() string {
	switch {
	case r.Seed():
		return fmt.Sprintf("seed -> %d", r.Target)
	case r.Intrinsic():
		return fmt.Sprintf("[sel %d] -> %d", r.Selector, r.Target)
	case r.Selector == selector.None:
		return fmt.Sprintf("[parent %d] -> %d", r.Parent, r.Target)
	}
	return fmt.Sprintf("[sel %d, parent %d] -> %d", r.Selector, r.Parent, r.Target)
}

// Automaton is an immutable, validated rule set. It carries its own state
// count; vectors indexed by state have length NumStates.
type Automaton struct {
	states      int
	rules       []Rule
	intrinsic   []Rule
	propagating []Rule
	accept      []State
	isAccept    []bool
	labels      []string
}

// NumStates returns the number of states.
func (a *Automaton) NumStates() int {
	return a.states
}

// Rules returns all rules, intrinsic rules first, each group in
// insertion order. Clients must not modify the returned slice.
func (a *Automaton) Rules() []Rule {
	return a.rules
}

// IntrinsicRules returns the rules without a parent dependency.
func (a *Automaton) IntrinsicRules() []Rule {
	return a.intrinsic
}

// PropagatingRules returns the rules with a parent dependency.
func (a *Automaton) PropagatingRules() []Rule {
	return a.propagating
}

// Accept returns the accept states in insertion order.
func (a *Automaton) Accept() []State {
	return a.accept
}

// IsAccept is true if s is an accept state.
func (a *Automaton) IsAccept(s State) bool {
	return s >= 0 && int(s) < a.states && a.isAccept[s]
}

// Label returns the diagnostic label of a state.
func (a *Automaton) Label(s State) string {
	if s < 0 || int(s) >= a.states {
		return fmt.Sprintf("state(%d)", s)
	}
	return a.labels[s]
}

func (a *Automaton) String() string {
	return fmt.Sprintf("automaton(%d states, %d rules, %d accept)", a.states, len(a.rules), len(a.accept))
}

// --- Builder ---------------------------------------------------------------

// Builder assembles an automaton.
//
//	b := automaton.NewBuilder()
//	s := b.State("div")
//	b.Gate(divSelector, s)
//	b.Accept(s)
//	a, err := b.Build()
type Builder struct {
	labels  []string
	byLabel map[string]State
	rules   []Rule
	seen    map[Rule]bool
	accept  []State
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		byLabel: make(map[string]State),
		seen:    make(map[Rule]bool),
	}
}

// State returns the state with the given label, creating it if necessary.
// An empty label always creates a fresh state.
func (b *Builder) State(label string) State {
	if label != "" {
		if s, ok := b.byLabel[label]; ok {
			return s
		}
	}
	s := State(len(b.labels))
	if label == "" {
		label = fmt.Sprintf("s%d", s)
	}
	b.labels = append(b.labels, label)
	b.byLabel[label] = s
	return s
}

// NumStates returns the number of states created so far.
func (b *Builder) NumStates() int {
	return len(b.labels)
}

// Rule adds a rule. Duplicate rules are dropped.
func (b *Builder) Rule(r Rule) {
	if b.seen[r] {
		return
	}
	b.seen[r] = true
	b.rules = append(b.rules, r)
}

// Seed adds an unconditional seed rule for target.
func (b *Builder) Seed(target State) {
	b.Rule(Rule{Selector: selector.None, Parent: NoState, Target: target})
}

// Gate adds a selector-gated seed rule for target.
func (b *Builder) Gate(sel selector.ID, target State) {
	b.Rule(Rule{Selector: sel, Parent: NoState, Target: target})
}

// Propagate adds a parent-dependent rule. sel may be selector.None.
func (b *Builder) Propagate(sel selector.ID, parent, target State) {
	b.Rule(Rule{Selector: sel, Parent: parent, Target: target})
}

// Accept marks s as an accept state. Marking a state twice has no effect.
func (b *Builder) Accept(s State) {
	for _, a := range b.accept {
		if a == s {
			return
		}
	}
	b.accept = append(b.accept, s)
}

// Build validates the rules and returns the automaton.
func (b *Builder) Build() (*Automaton, error) {
	n := len(b.labels)
	if n == 0 {
		return nil, ErrNoStates
	}
	inRange := func(s State) bool { return s >= 0 && int(s) < n }
	a := &Automaton{
		states:   n,
		labels:   append([]string(nil), b.labels...),
		accept:   append([]State(nil), b.accept...),
		isAccept: make([]bool, n),
	}
	for _, r := range b.rules {
		if !inRange(r.Target) || (r.Parent != NoState && !inRange(r.Parent)) {
			return nil, fmt.Errorf("%w: rule %v in automaton of %d states", ErrStateRange, r, n)
		}
		if r.Intrinsic() {
			a.intrinsic = append(a.intrinsic, r)
		} else {
			a.propagating = append(a.propagating, r)
		}
	}
	for _, s := range a.accept {
		if !inRange(s) {
			return nil, fmt.Errorf("%w: accept state %d in automaton of %d states", ErrStateRange, s, n)
		}
		a.isAccept[s] = true
	}
	a.rules = make([]Rule, 0, len(b.rules))
	a.rules = append(a.rules, a.intrinsic...)
	a.rules = append(a.rules, a.propagating...)
	tracer().Debugf("built %v", a)
	return a, nil
}
