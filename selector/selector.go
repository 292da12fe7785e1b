package selector

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for selector text which is not valid CSS.
var ErrSyntax = errors.New("selector syntax error")

// ErrUnsupported is returned for valid CSS selector syntax we do not handle,
// e.g. child or sibling combinators.
var ErrUnsupported = errors.New("unsupported selector construct")

// ErrEmpty is returned for an empty selector text.
var ErrEmpty = errors.New("empty selector")

// ErrUnknownPseudo is returned for pseudo-class names we do not know.
var ErrUnknownPseudo = errors.New("unknown pseudo-class")

func unknownPseudo(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownPseudo, name)
}

// ID identifies an interned selector. IDs are small non-negative integers,
// handed out in interning order.
type ID int32

// None is the ID of 'no selector'. It matches every element.
const None ID = -1

// Kind is the kind of a selector.
type Kind uint8

// Selector kinds.
const (
	KindType       Kind = iota // 'div'
	KindClass                  // '.note'
	KindID                     // '#main'
	KindAttr                   // '[lang=de]'
	KindAttrExists             // '[lang]'
	KindCompound               // 'div.note:hover'
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindClass:
		return "class"
	case KindID:
		return "id"
	case KindAttr:
		return "attr"
	case KindAttrExists:
		return "attr-exists"
	case KindCompound:
		return "compound"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Selector is an interned selector.
//
// For simple selectors, Name holds the tag, class or id name or the attribute
// key, and Value holds the attribute value for KindAttr. Compound selectors
// refer to their simple components by ID and carry the pseudo-classes an
// element has to be in.
type Selector struct {
	Kind   Kind
	Name   string
	Value  string
	Parts  []ID
	Pseudo PseudoSet
}

// Element is what selectors match against. Class, id and tag are handed
// out as selector IDs of the same catalog the selector is interned in.
type Element interface {
	Tag() ID                             // type selector for the element's tag
	HasClass(ID) bool                    // is the element a member of a class
	IDSelector() ID                      // id selector of the element, or None
	Attribute(key string) (string, bool) // attribute value, keys are lower-case
	ComputedPseudo() PseudoSet           // derived pseudo-class state
}

// Catalog interns selectors and maps them to IDs and back.
// A Catalog is not safe for concurrent modification.
type Catalog struct {
	selectors []Selector
	text      []string
	index     map[string]ID
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]ID)}
}

// Len returns the number of interned selectors.
func (c *Catalog) Len() int {
	return len(c.selectors)
}

// Intern returns the ID for a selector, adding it to the catalog if it
// is not yet present. Compound selectors must refer to IDs already interned.
// Tag and attribute names are normalized to lower-case.
func (c *Catalog) Intern(s Selector) ID {
	switch s.Kind {
	case KindType, KindAttr, KindAttrExists:
		s.Name = strings.ToLower(s.Name)
	}
	key := c.key(s)
	if id, ok := c.index[key]; ok {
		return id
	}
	id := ID(len(c.selectors))
	if s.Parts != nil {
		s.Parts = append([]ID(nil), s.Parts...)
	}
	c.selectors = append(c.selectors, s)
	c.text = append(c.text, key)
	c.index[key] = id
	tracer().Debugf("interned selector %d = %s", id, key)
	return id
}

// Type interns a type selector.
func (c *Catalog) Type(tag string) ID {
	return c.Intern(Selector{Kind: KindType, Name: tag})
}

// Class interns a class selector.
func (c *Catalog) Class(name string) ID {
	return c.Intern(Selector{Kind: KindClass, Name: name})
}

// IDName interns an id selector.
func (c *Catalog) IDName(name string) ID {
	return c.Intern(Selector{Kind: KindID, Name: name})
}

// Attr interns an attribute equality selector.
func (c *Catalog) Attr(key, value string) ID {
	return c.Intern(Selector{Kind: KindAttr, Name: key, Value: value})
}

// AttrExists interns an attribute presence selector.
func (c *Catalog) AttrExists(key string) ID {
	return c.Intern(Selector{Kind: KindAttrExists, Name: key})
}

// Compound interns the conjunction of parts and pseudo-classes.
// A single part without pseudo-classes collapses to the part itself,
// and an empty conjunction collapses to None.
func (c *Catalog) Compound(parts []ID, pseudo PseudoSet) ID {
	if pseudo == 0 {
		switch len(parts) {
		case 0:
			return None
		case 1:
			return parts[0]
		}
	}
	return c.Intern(Selector{Kind: KindCompound, Parts: parts, Pseudo: pseudo})
}

// Lookup finds a selector by its canonical text, e.g. "div.note:hover".
func (c *Catalog) Lookup(text string) (ID, bool) {
	id, ok := c.index[text]
	return id, ok
}

// Selector returns the selector for an ID. It panics for IDs not handed out
// by this catalog.
func (c *Catalog) Selector(id ID) Selector {
	return c.selectors[c.check(id)]
}

// Text returns the canonical text of a selector, for diagnostics.
func (c *Catalog) Text(id ID) string {
	if id == None {
		return "*"
	}
	return c.text[c.check(id)]
}

func (c *Catalog) check(id ID) ID {
	if id < 0 || int(id) >= len(c.selectors) {
		tracer().Errorf("selector ID %d not in catalog of size %d", id, len(c.selectors))
		panic(fmt.Sprintf("selector ID %d not in catalog", id))
	}
	return id
}

func (c *Catalog) key(s Selector) string {
	switch s.Kind {
	case KindType:
		return s.Name
	case KindClass:
		return "." + s.Name
	case KindID:
		return "#" + s.Name
	case KindAttr:
		return "[" + s.Name + "=" + strconv.Quote(s.Value) + "]"
	case KindAttrExists:
		return "[" + s.Name + "]"
	}
	var b strings.Builder
	for _, p := range s.Parts {
		b.WriteString(c.Text(p))
	}
	b.WriteString(s.Pseudo.String())
	return b.String()
}

// Matches decides whether an element matches the selector with the given ID.
// None matches every element. Pseudo-classes of compound selectors are
// checked against the computed pseudo-class set of the element.
func (c *Catalog) Matches(e Element, id ID) bool {
	if id == None {
		return true
	}
	s := c.selectors[c.check(id)]
	switch s.Kind {
	case KindType:
		return e.Tag() == id
	case KindClass:
		return e.HasClass(id)
	case KindID:
		return e.IDSelector() == id
	case KindAttr:
		v, ok := e.Attribute(s.Name)
		return ok && v == s.Value
	case KindAttrExists:
		_, ok := e.Attribute(s.Name)
		return ok
	case KindCompound:
		for _, p := range s.Parts {
			if !c.Matches(e, p) {
				return false
			}
		}
		return e.ComputedPseudo().Contains(s.Pseudo)
	}
	return false
}
