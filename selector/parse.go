package selector

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/gorilla/css/scanner"
)

// AttrCond is an attribute condition of a compound selector.
type AttrCond struct {
	Key      string
	Value    string
	HasValue bool // false for '[key]'
}

func (a AttrCond) String() string {
	if !a.HasValue {
		return "[" + a.Key + "]"
	}
	return fmt.Sprintf("[%s=%q]", a.Key, a.Value)
}

// Compound is a parsed compound selector, i.e. a sequence of simple selectors
// without a combinator in between.
type Compound struct {
	Tag     string // empty or "*" for the universal selector
	ID      string
	Classes []string
	Attrs   []AttrCond
	Pseudo  PseudoSet
}

// Universal is true if the compound selector matches every element.
func (cp Compound) Universal() bool {
	return (cp.Tag == "" || cp.Tag == "*") && cp.ID == "" &&
		len(cp.Classes) == 0 && len(cp.Attrs) == 0 && cp.Pseudo == 0
}

func (cp Compound) String() string {
	if cp.Universal() {
		return "*"
	}
	var b strings.Builder
	if cp.Tag != "*" {
		b.WriteString(cp.Tag)
	}
	if cp.ID != "" {
		b.WriteString("#" + cp.ID)
	}
	for _, c := range cp.Classes {
		b.WriteString("." + c)
	}
	for _, a := range cp.Attrs {
		b.WriteString(a.String())
	}
	b.WriteString(cp.Pseudo.String())
	return b.String()
}

// Complex is a chain of compound selectors joined by descendant combinators,
// leftmost (outermost) first.
type Complex []Compound

func (cx Complex) String() string {
	parts := make([]string, len(cx))
	for i, cp := range cx {
		parts[i] = cp.String()
	}
	return strings.Join(parts, " ")
}

// InternCompound interns all simple selectors of cp and returns the ID of the
// compound. The universal selector yields None.
func (c *Catalog) InternCompound(cp Compound) ID {
	var parts []ID
	if cp.Tag != "" && cp.Tag != "*" {
		parts = append(parts, c.Type(cp.Tag))
	}
	if cp.ID != "" {
		parts = append(parts, c.IDName(cp.ID))
	}
	for _, cl := range cp.Classes {
		parts = append(parts, c.Class(cl))
	}
	for _, a := range cp.Attrs {
		if a.HasValue {
			parts = append(parts, c.Attr(a.Key, a.Value))
		} else {
			parts = append(parts, c.AttrExists(a.Key))
		}
	}
	return c.Compound(parts, cp.Pseudo)
}

// Parse parses a selector consisting of compound selectors separated by
// whitespace. Other combinators, pseudo-elements and functional
// pseudo-classes result in ErrUnsupported.
func Parse(text string) (Complex, error) {
	p := &parser{sc: scanner.New(text), text: text}
	cx, err := p.parse()
	if err != nil {
		tracer().Debugf("cannot parse selector %q: %v", text, err)
		return nil, err
	}
	return cx, nil
}

// MustParse is like Parse, but panics on error. Intended for tests and
// static selector tables.
func MustParse(text string) Complex {
	cx, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return cx
}

type parser struct {
	sc   *scanner.Scanner
	text string
}

func (p *parser) errorf(base error, tok *scanner.Token, msg string) error {
	return fmt.Errorf("%w: %s at column %d of %q", base, msg, tok.Column, p.text)
}

// next returns the next token, skipping comments, and whitespace if skipS is set.
func (p *parser) next(skipS bool) *scanner.Token {
	for {
		tok := p.sc.Next()
		if tok.Type == scanner.TokenComment || (skipS && tok.Type == scanner.TokenS) {
			continue
		}
		return tok
	}
}

func (p *parser) parse() (Complex, error) {
	var cx Complex
	var cur Compound
	started := false
	flush := func() {
		if started {
			cx = append(cx, cur)
			cur, started = Compound{}, false
		}
	}
	for {
		tok := p.next(false)
		switch tok.Type {
		case scanner.TokenEOF:
			flush()
			if len(cx) == 0 {
				return nil, ErrEmpty
			}
			return cx, nil
		case scanner.TokenS:
			flush()
		case scanner.TokenIdent:
			if started {
				return nil, p.errorf(ErrSyntax, tok, "type selector must come first")
			}
			cur.Tag = strings.ToLower(tok.Value)
			started = true
		case scanner.TokenHash:
			if cur.ID != "" {
				return nil, p.errorf(ErrSyntax, tok, "duplicate id selector")
			}
			cur.ID = tok.Value[1:]
			started = true
		case scanner.TokenChar:
			if err := p.char(tok, &cur, started); err != nil {
				return nil, err
			}
			started = true
		case scanner.TokenFunction:
			return nil, p.errorf(ErrUnsupported, tok, "functional notation "+tok.Value)
		case scanner.TokenIncludes, scanner.TokenDashMatch, scanner.TokenPrefixMatch,
			scanner.TokenSuffixMatch, scanner.TokenSubstringMatch:
			return nil, p.errorf(ErrUnsupported, tok, "attribute operator "+tok.Value)
		default:
			return nil, p.errorf(ErrSyntax, tok, "unexpected "+tok.Type.String())
		}
	}
}

func (p *parser) char(tok *scanner.Token, cur *Compound, started bool) error {
	switch tok.Value {
	case "*":
		if started {
			return p.errorf(ErrSyntax, tok, "universal selector must come first")
		}
		cur.Tag = "*"
	case ".":
		name := p.next(false)
		if name.Type != scanner.TokenIdent {
			return p.errorf(ErrSyntax, name, "class name expected")
		}
		cur.Classes = append(cur.Classes, name.Value)
	case "[":
		a, err := p.attribute()
		if err != nil {
			return err
		}
		cur.Attrs = append(cur.Attrs, a)
	case ":":
		name := p.next(false)
		switch name.Type {
		case scanner.TokenIdent:
		case scanner.TokenChar, scanner.TokenFunction:
			return p.errorf(ErrUnsupported, name, "pseudo-elements and functional pseudo-classes")
		default:
			return p.errorf(ErrSyntax, name, "pseudo-class name expected")
		}
		flag, ok := PseudoByName(name.Value)
		if !ok || flag == FocusRoot {
			return p.errorf(ErrUnsupported, name, "pseudo-class :"+name.Value)
		}
		cur.Pseudo |= flag
	case ">", "+", "~":
		return p.errorf(ErrUnsupported, tok, "combinator "+tok.Value)
	default:
		return p.errorf(ErrSyntax, tok, "unexpected character "+tok.Value)
	}
	return nil
}

func (p *parser) attribute() (AttrCond, error) {
	var a AttrCond
	key := p.next(true)
	if key.Type != scanner.TokenIdent {
		return a, p.errorf(ErrSyntax, key, "attribute name expected")
	}
	a.Key = strings.ToLower(key.Value)
	tok := p.next(true)
	switch {
	case tok.Type == scanner.TokenChar && tok.Value == "]":
		return a, nil
	case tok.Type == scanner.TokenChar && tok.Value == "=":
	case tok.Type == scanner.TokenIncludes, tok.Type == scanner.TokenDashMatch,
		tok.Type == scanner.TokenPrefixMatch, tok.Type == scanner.TokenSuffixMatch,
		tok.Type == scanner.TokenSubstringMatch:
		return a, p.errorf(ErrUnsupported, tok, "attribute operator "+tok.Value)
	default:
		return a, p.errorf(ErrSyntax, tok, "'=' or ']' expected")
	}
	val := p.next(true)
	switch val.Type {
	case scanner.TokenIdent:
		a.Value = val.Value
	case scanner.TokenString:
		a.Value = val.Value[1 : len(val.Value)-1]
	default:
		return a, p.errorf(ErrSyntax, val, "attribute value expected")
	}
	a.HasValue = true
	if end := p.next(true); end.Type != scanner.TokenChar || end.Value != "]" {
		return a, p.errorf(ErrSyntax, end, "']' expected")
	}
	return a, nil
}
