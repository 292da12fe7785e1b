package selector

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "strings"

// PseudoSet is a set of pseudo-classes, represented as bit flags.
//
// Elements carry two of these: the raw flags set by the host (pointer is over
// the element, element has keyboard focus, ...) and the computed set derived
// from the raw flags of the element and its relatives. Selectors only ever
// match against the computed set.
type PseudoSet uint8

// Pseudo-class flags. FocusRoot is a raw flag only: it marks the element
// holding the focus and is never part of a computed set.
const (
	Hover PseudoSet = 1 << iota
	Active
	Focus
	FocusWithin
	FocusRoot
)

var pseudoNames = []struct {
	flag PseudoSet
	name string
}{
	{Hover, "hover"},
	{Active, "active"},
	{Focus, "focus"},
	{FocusWithin, "focus-within"},
	{FocusRoot, "focus-root"},
}

// Contains is true if every flag of q is set in p.
func (p PseudoSet) Contains(q PseudoSet) bool {
	return p&q == q
}

// With returns p with the flags of q set.
func (p PseudoSet) With(q PseudoSet) PseudoSet {
	return p | q
}

// Without returns p with the flags of q cleared.
func (p PseudoSet) Without(q PseudoSet) PseudoSet {
	return p &^ q
}

// Names returns the names of all flags in p, in declaration order.
func (p PseudoSet) Names() []string {
	var names []string
	for _, pn := range pseudoNames {
		if p&pn.flag != 0 {
			names = append(names, pn.name)
		}
	}
	return names
}

// String returns the CSS notation of p, e.g. ":hover:focus".
func (p PseudoSet) String() string {
	var b strings.Builder
	for _, n := range p.Names() {
		b.WriteByte(':')
		b.WriteString(n)
	}
	return b.String()
}

// PseudoByName returns the flag for a pseudo-class name (without the colon).
// 'focus-root' is accepted as well, as it is a valid raw flag.
func PseudoByName(name string) (PseudoSet, bool) {
	name = strings.ToLower(name)
	for _, pn := range pseudoNames {
		if pn.name == name {
			return pn.flag, true
		}
	}
	return 0, false
}

// ParsePseudoSet converts a list of pseudo-class names into a set.
func ParsePseudoSet(names []string) (PseudoSet, error) {
	var p PseudoSet
	for _, n := range names {
		flag, ok := PseudoByName(strings.TrimPrefix(n, ":"))
		if !ok {
			return 0, unknownPseudo(n)
		}
		p |= flag
	}
	return p, nil
}
