package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"strings"

	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/selector"
)

// ErrNoSelectors is returned if a style sheet has no usable selector.
var ErrNoSelectors = errors.New("style sheet has no usable selectors")

// Skipped is a selector which has not been compiled.
type Skipped struct {
	Selector string
	Err      error
}

// Compiled is the selector automaton of a style sheet.
type Compiled struct {
	Catalog   *selector.Catalog
	Automaton *automaton.Automaton
	Rules     []dom.Rule // one per distinct selector, in sheet order
	Skipped   []Skipped
}

// Compile compiles the selectors of all rules of a style sheet.
func Compile(sheet StyleSheet) (*Compiled, error) {
	var texts []string
	for _, r := range sheet.Rules() {
		texts = append(texts, r.Selectors()...)
	}
	return CompileSelectors(texts)
}

// CompileSelectors compiles a list of selector texts. Duplicates are
// compiled once; selectors which do not parse are skipped.
func CompileSelectors(texts []string) (*Compiled, error) {
	c := &Compiled{Catalog: selector.NewCatalog()}
	seen := make(map[string]bool)
	var sels []selector.Complex
	for _, text := range texts {
		text = strings.TrimSpace(text)
		cx, err := selector.Parse(text)
		if err != nil {
			tracer().Infof("skipping selector %q: %v", text, err)
			c.Skipped = append(c.Skipped, Skipped{Selector: text, Err: err})
			continue
		}
		if seen[cx.String()] {
			continue
		}
		seen[cx.String()] = true
		sels = append(sels, cx)
		c.Rules = append(c.Rules, dom.Rule{Selector: text})
	}
	if len(sels) == 0 {
		return c, ErrNoSelectors
	}
	a, accept, err := automaton.Compile(c.Catalog, sels)
	if err != nil {
		return c, err
	}
	c.Automaton = a
	for i := range c.Rules {
		c.Rules[i].Accept = accept[i]
	}
	tracer().Debugf("compiled %d selectors, skipped %d", len(c.Rules), len(c.Skipped))
	return c, nil
}

// NewDocument creates an empty document matching the compiled selectors.
func (c *Compiled) NewDocument(opts engine.Options) *dom.Document {
	return dom.NewDocument(c.Catalog, c.Automaton, c.Rules, opts)
}
