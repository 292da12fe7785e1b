package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"io"

	"github.com/npillmayer/restyle/tree"
	"golang.org/x/net/html"
)

// ErrNoElement is returned when importing an HTML tree without elements.
var ErrNoElement = errors.New("no HTML element to import")

// ParseHTML parses an HTML document and imports its element tree as the
// root of doc.
func ParseHTML(doc *Document, r io.Reader) (*html.Node, map[*html.Node]tree.NodeID, error) {
	h, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}
	m, err := ImportHTML(doc, tree.Path{}, h)
	return h, m, err
}

// ImportHTML inserts the element subtree of an HTML parse tree at path.
// For a document node, its root element (usually <html>) is imported. Text,
// comment and other non-element nodes are skipped. The attribute 'class' is
// split on whitespace into the class set, 'id' becomes the id selector.
//
// ImportHTML returns the mapping from HTML nodes to document nodes. Styled
// nodes keep a link to their HTML node as well.
func ImportHTML(doc *Document, path tree.Path, h *html.Node) (map[*html.Node]tree.NodeID, error) {
	if h.Type == html.DocumentNode {
		h = firstElement(h)
	}
	if h == nil || h.Type != html.ElementNode {
		return nil, ErrNoElement
	}
	spec := specFromHTML(h)
	top, err := doc.AddNodeByPath(path, *spec)
	if err != nil {
		return nil, err
	}
	mapping := make(map[*html.Node]tree.NodeID)
	type pair struct {
		h  *html.Node
		id tree.NodeID
	}
	work := []pair{{h, top}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		mapping[p.h] = p.id
		doc.arena.Payload(p.id).SetHTMLNode(p.h)
		children := doc.arena.Children(p.id)
		i := 0
		for c := p.h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				work = append(work, pair{c, children[i]})
				i++
			}
		}
	}
	tracer().Infof("imported %d HTML elements", len(mapping))
	return mapping, nil
}

func firstElement(h *html.Node) *html.Node {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// specFromHTML converts an HTML element tree into a node specification.
func specFromHTML(root *html.Node) *NodeSpec {
	type pair struct {
		h    *html.Node
		spec *NodeSpec
	}
	top := &NodeSpec{}
	work := []pair{{root, top}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		p.spec.Tag = p.h.Data
		if len(p.h.Attr) > 0 {
			p.spec.Attrs = make(map[string]string, len(p.h.Attr))
			for _, a := range p.h.Attr {
				p.spec.Attrs[a.Key] = a.Val
			}
		}
		n := 0
		for c := p.h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				n++
			}
		}
		p.spec.Children = make([]NodeSpec, n)
		i := 0
		for c := p.h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				work = append(work, pair{c, &p.spec.Children[i]})
				i++
			}
		}
	}
	return top
}
