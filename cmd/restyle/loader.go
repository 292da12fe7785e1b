package main

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/npillmayer/restyle/dom"
	"github.com/npillmayer/restyle/dom/style/cssom"
	"github.com/npillmayer/restyle/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/tree"
	"golang.org/x/net/html"
)

// ErrNoStyles is returned if neither a CSS file nor embedded styles are given.
var ErrNoStyles = errors.New("no style sheet: use --css or embed <style> elements")

// Session is a document loaded from files, ready for recomputes.
type Session struct {
	Doc      *dom.Document
	Compiled *cssom.Compiled
	HTML     *html.Node
	Mapping  map[*html.Node]tree.NodeID
	Total    engine.Metrics // counters summed over all recomputes
	opts     *RootOptions
}

// loadStyles parses the CSS file, if any, and appends the <style> elements
// of the HTML document, if any.
func loadStyles(cssPath string, h *html.Node) (cssom.StyleSheet, error) {
	var sheet *douceuradapter.CSSStyles
	if cssPath != "" {
		f, err := os.Open(cssPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if sheet, err = douceuradapter.Read(f); err != nil {
			return nil, fmt.Errorf("%s: %w", cssPath, err)
		}
	}
	if h != nil {
		for _, embedded := range douceuradapter.ExtractStyleElements(h) {
			if sheet == nil {
				sheet = embedded
				continue
			}
			sheet.AppendRules(embedded)
		}
	}
	if sheet == nil || sheet.Empty() {
		return nil, ErrNoStyles
	}
	return sheet, nil
}

// compileStyles compiles the selectors of a style sheet and reports skipped
// selectors.
func compileStyles(sheet cssom.StyleSheet) (*cssom.Compiled, error) {
	c, err := cssom.Compile(sheet)
	if c != nil {
		for _, s := range c.Skipped {
			tracer().Infof("skipped selector %q: %v", s.Selector, s.Err)
		}
	}
	return c, err
}

// loadSession reads an HTML document and a style sheet and builds a
// recomputed document from them.
func (opts *RootOptions) loadSession(htmlPath, cssPath string) (*Session, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", htmlPath, err)
	}
	sheet, err := loadStyles(cssPath, h)
	if err != nil {
		return nil, err
	}
	c, err := compileStyles(sheet)
	if err != nil {
		return nil, err
	}
	s := &Session{Compiled: c, HTML: h, opts: opts}
	s.Doc = c.NewDocument(opts.engineOptions())
	if s.Mapping, err = dom.ImportHTML(s.Doc, tree.Path{}, h); err != nil {
		return nil, err
	}
	tracer().Infof("loaded %s: %d nodes, %d selectors", htmlPath, s.Doc.Len(), len(c.Rules))
	s.Recompute()
	return s, nil
}

// Recompute recomputes the document and records the metrics of the pass,
// adding them to the session total.
func (s *Session) Recompute() *engine.Metrics {
	start := time.Now()
	m := s.Doc.Recompute()
	s.opts.recorder.ObserveDuration(time.Since(start))
	s.opts.recorder.Observe(m)
	s.Total.Add(m)
	tracer().Infof("recompute: %v", m)
	return m
}

// Replay applies frames from a file, calling batch after every recompute
// frame and after the last frame.
func (s *Session) Replay(framesPath string, batch func(n int) error) error {
	f, err := os.Open(framesPath)
	if err != nil {
		return err
	}
	defer f.Close()
	frames, err := dom.LoadFrames(f)
	if err != nil {
		return fmt.Errorf("%s: %w", framesPath, err)
	}
	n, pending := 0, false
	for i, fr := range frames {
		if fr.Op == dom.OpRecompute {
			if !pending {
				continue
			}
			n++
			s.Recompute()
			if err := batch(n); err != nil {
				return err
			}
			pending = false
			continue
		}
		if err := s.Doc.Apply(fr); err != nil {
			return fmt.Errorf("frame %d (%v): %w", i, fr, err)
		}
		pending = true
	}
	if pending {
		n++
		s.Recompute()
		return batch(n)
	}
	return nil
}
