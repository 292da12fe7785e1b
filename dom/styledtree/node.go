package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/selector"
	"golang.org/x/net/html"
)

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tag      selector.ID
	tagName  string
	id       selector.ID
	classes  []selector.ID // insertion order, no duplicates
	attrs    map[string]string
	raw      selector.PseudoSet
	computed selector.PseudoSet
	cache    *engine.Cache
	htmlNode *html.Node // source node for imported documents, may be nil
}

var _ selector.Element = (*StyNode)(nil)

// NewNode creates a styled node for an element. tag is the type selector
// for tagName, interned in the catalog the document uses.
func NewNode(tag selector.ID, tagName string, cache *engine.Cache) *StyNode {
	return &StyNode{
		tag:     tag,
		tagName: strings.ToLower(tagName),
		id:      selector.None,
		attrs:   make(map[string]string),
		cache:   cache,
	}
}

// Tag is part of interface selector.Element.
func (sn *StyNode) Tag() selector.ID {
	return sn.tag
}

// TagName returns the lower-case tag name.
func (sn *StyNode) TagName() string {
	return sn.tagName
}

// HasClass is part of interface selector.Element.
func (sn *StyNode) HasClass(c selector.ID) bool {
	for _, cl := range sn.classes {
		if cl == c {
			return true
		}
	}
	return false
}

// IDSelector is part of interface selector.Element.
func (sn *StyNode) IDSelector() selector.ID {
	return sn.id
}

// Attribute is part of interface selector.Element.
func (sn *StyNode) Attribute(key string) (string, bool) {
	v, ok := sn.attrs[strings.ToLower(key)]
	return v, ok
}

// ComputedPseudo is part of interface selector.Element.
func (sn *StyNode) ComputedPseudo() selector.PseudoSet {
	return sn.computed
}

// Cache returns the engine cache of the node.
func (sn *StyNode) Cache() *engine.Cache {
	return sn.cache
}

// HTMLNode gets the HTML DOM node corresponding to this styled node, if the
// node has been imported from an HTML parse tree.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.htmlNode
}

// SetHTMLNode links the styled node to its HTML source node.
func (sn *StyNode) SetHTMLNode(h *html.Node) {
	sn.htmlNode = h
}

// SetID sets the id selector of the node. Use selector.None to clear it.
func (sn *StyNode) SetID(id selector.ID) {
	sn.id = id
}

// Classes returns the class selectors of the node.
func (sn *StyNode) Classes() []selector.ID {
	return sn.classes
}

// SetClasses replaces the class set of the node.
func (sn *StyNode) SetClasses(classes []selector.ID) {
	sn.classes = sn.classes[:0]
	for _, c := range classes {
		sn.AddClass(c)
	}
}

// AddClass adds a class and reports whether the class set changed.
func (sn *StyNode) AddClass(c selector.ID) bool {
	if sn.HasClass(c) {
		return false
	}
	sn.classes = append(sn.classes, c)
	return true
}

// RemoveClass removes a class and reports whether the class set changed.
func (sn *StyNode) RemoveClass(c selector.ID) bool {
	for i, cl := range sn.classes {
		if cl == c {
			sn.classes = append(sn.classes[:i], sn.classes[i+1:]...)
			return true
		}
	}
	return false
}

// SetAttribute sets an attribute. Keys are lower-cased.
func (sn *StyNode) SetAttribute(key, value string) {
	sn.attrs[strings.ToLower(key)] = value
}

// RemoveAttribute removes an attribute and reports whether it was present.
func (sn *StyNode) RemoveAttribute(key string) bool {
	key = strings.ToLower(key)
	_, ok := sn.attrs[key]
	delete(sn.attrs, key)
	return ok
}

// AttributeKeys returns the attribute keys in sorted order.
func (sn *StyNode) AttributeKeys() []string {
	keys := make([]string, 0, len(sn.attrs))
	for k := range sn.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RawPseudo returns the pseudo-class flags set by the host.
func (sn *StyNode) RawPseudo() selector.PseudoSet {
	return sn.raw
}

// SetRawPseudo replaces the raw pseudo-class flags.
func (sn *StyNode) SetRawPseudo(p selector.PseudoSet) {
	sn.raw = p
}

// SetComputedPseudo replaces the computed pseudo-class set and reports
// whether it changed.
func (sn *StyNode) SetComputedPseudo(p selector.PseudoSet) bool {
	if p == sn.computed {
		return false
	}
	tracer().Debugf("<%s> pseudo-classes %q -> %q", sn.tagName, sn.computed, p)
	sn.computed = p
	return true
}

func (sn *StyNode) String() string {
	return fmt.Sprintf("<%s>", sn.tagName)
}
