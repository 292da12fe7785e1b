package engine

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strconv"
	"strings"

	"github.com/npillmayer/restyle/automaton"
)

// QuadKind tells how an output bit was derived.
type QuadKind uint8

// Quad kinds. The zero value is ConstFalse.
const (
	ConstFalse QuadKind = iota
	ConstTrue
	CopyParent
)

// Quad describes one output bit: constant, or a copy of parent bit Parent.
type Quad struct {
	Kind   QuadKind
	Parent automaton.State
}

// Resolve materializes q against a parent input vector.
func (q Quad) Resolve(input []bool) bool {
	switch q.Kind {
	case ConstTrue:
		return true
	case CopyParent:
		return input[q.Parent]
	}
	return false
}

func (q Quad) String() string {
	switch q.Kind {
	case ConstTrue:
		return "1"
	case CopyParent:
		return "^" + strconv.Itoa(int(q.Parent))
	}
	return "0"
}

// QuadVector holds one Quad per automaton state.
type QuadVector []Quad

// Materialize resolves every entry against input.
func (qv QuadVector) Materialize(input []bool) []bool {
	out := make([]bool, len(qv))
	for s, q := range qv {
		out[s] = q.Resolve(input)
	}
	return out
}

// Equal compares two quad vectors.
func (qv QuadVector) Equal(other QuadVector) bool {
	if len(qv) != len(other) {
		return false
	}
	for i := range qv {
		if qv[i] != other[i] {
			return false
		}
	}
	return true
}

func (qv QuadVector) String() string {
	parts := make([]string, len(qv))
	for i, q := range qv {
		parts[i] = q.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Tri is the reuse fingerprint of one parent bit.
type Tri uint8

// Tri values. The zero value is Unused.
const (
	Unused Tri = iota
	PinnedFalse
	PinnedTrue
)

func (t Tri) String() string {
	switch t {
	case PinnedFalse:
		return "0"
	case PinnedTrue:
		return "1"
	}
	return "-"
}

// TriVector holds one Tri per parent state.
type TriVector []Tri

// Admits is true if input agrees with every pinned position of tv.
func (tv TriVector) Admits(input []bool) bool {
	for k, t := range tv {
		switch t {
		case PinnedFalse:
			if input[k] {
				return false
			}
		case PinnedTrue:
			if !input[k] {
				return false
			}
		}
	}
	return true
}

func (tv TriVector) String() string {
	var b strings.Builder
	for _, t := range tv {
		b.WriteString(t.String())
	}
	return b.String()
}

// BitString renders a boolean vector as a string of '0' and '1'.
func BitString(v []bool) string {
	var b strings.Builder
	for _, x := range v {
		if x {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func equalBits(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
