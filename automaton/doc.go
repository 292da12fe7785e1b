/*
Package automaton describes selector-matching automata.

An automaton is a set of numbered states and an ordered list of rules.
Every rule names a target state and, optionally, a selector the element has
to match locally and a state which has to be active at the element's
parent. A rule without a parent state is intrinsic: it depends on the
element alone. Accept states are the externally meaningful states, one per
compiled selector.

Automata are built with a Builder, which validates the rule set, or compiled
from parsed selectors with Compile. Once built, an automaton is immutable and
may be shared between documents.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package automaton

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.automaton")
}
