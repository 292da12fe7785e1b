package engine

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "fmt"

// Metrics counts the decisions of one recompute pass.
type Metrics struct {
	Visited        int // elements visited
	Skipped        int // child subtrees not entered
	Reused         int // cached outputs kept on input change
	Validated      int // reuse decisions cross-checked by a validator
	Recomputed     int // full evaluations
	OutputsChanged int // evaluations changing the materialized output
	Invalidated    int // children flagged input-changed
	FixUps         int // re-evaluations after needed-set growth
	Revisits       int // children visited a second time after a fix-up
	PseudoChanged  int // elements whose computed pseudo-classes changed
}

// Add accumulates the counters of other into m.
func (m *Metrics) Add(other *Metrics) {
	m.Visited += other.Visited
	m.Skipped += other.Skipped
	m.Reused += other.Reused
	m.Validated += other.Validated
	m.Recomputed += other.Recomputed
	m.OutputsChanged += other.OutputsChanged
	m.Invalidated += other.Invalidated
	m.FixUps += other.FixUps
	m.Revisits += other.Revisits
	m.PseudoChanged += other.PseudoChanged
}

// Counters returns the counters by name, in a fixed order.
func (m *Metrics) Counters() []Counter {
	return []Counter{
		{"visited", m.Visited},
		{"skipped", m.Skipped},
		{"reused", m.Reused},
		{"validated", m.Validated},
		{"recomputed", m.Recomputed},
		{"outputs_changed", m.OutputsChanged},
		{"invalidated", m.Invalidated},
		{"fixups", m.FixUps},
		{"revisits", m.Revisits},
		{"pseudo_changed", m.PseudoChanged},
	}
}

// Counter is a named counter value.
type Counter struct {
	Name  string
	Value int
}

func (m *Metrics) String() string {
	return fmt.Sprintf("visited=%d skipped=%d reused=%d recomputed=%d changed=%d fixups=%d",
		m.Visited, m.Skipped, m.Reused, m.Recomputed, m.OutputsChanged, m.FixUps)
}
