package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/dom/styledtree"
	"github.com/npillmayer/restyle/engine"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
)

// ErrNoSuchPath is returned for paths not addressing a node.
var ErrNoSuchPath = errors.New("no node at path")

// ErrRootExists is returned when inserting a root into a non-empty document.
var ErrRootExists = errors.New("document already has a root")

// ErrNodeSpec is returned for malformed node specifications.
var ErrNodeSpec = errors.New("invalid node specification")

// Rule connects a selector text to the accept state the automaton computes
// for it.
type Rule struct {
	Selector string
	Accept   automaton.State
}

// NodeSpec describes an element and its subtree, for insertion.
type NodeSpec struct {
	Tag      string            `yaml:"tag" json:"tag"`
	ID       string            `yaml:"id,omitempty" json:"id,omitempty"`
	Classes  []string          `yaml:"classes,omitempty" json:"classes,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Pseudo   []string          `yaml:"pseudo,omitempty" json:"pseudo,omitempty"`
	Children []NodeSpec        `yaml:"children,omitempty" json:"children,omitempty"`
}

// Validate checks a node specification and all of its children.
func (spec *NodeSpec) Validate() error {
	work := []*NodeSpec{spec}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		if strings.TrimSpace(s.Tag) == "" {
			return fmt.Errorf("%w: missing tag", ErrNodeSpec)
		}
		if _, err := selector.ParsePseudoSet(s.Pseudo); err != nil {
			return fmt.Errorf("%w: %v", ErrNodeSpec, err)
		}
		for i := range s.Children {
			work = append(work, &s.Children[i])
		}
	}
	return nil
}

// Document is a styled document with incrementally maintained selector
// matches. Documents are not safe for concurrent use.
type Document struct {
	arena *tree.Arena[*styledtree.StyNode]
	cat   *selector.Catalog
	eng   *engine.Engine
	rules []Rule
}

var _ engine.Tree = (*Document)(nil)

// NewDocument creates an empty document for an automaton. Selectors of the
// automaton are resolved in cat, which the document extends with the tags,
// classes and ids of its nodes. rules names the accept states for reports.
func NewDocument(cat *selector.Catalog, a *automaton.Automaton, rules []Rule, opts engine.Options) *Document {
	return &Document{
		arena: tree.NewArena[*styledtree.StyNode](),
		cat:   cat,
		eng:   engine.New(a, cat, opts),
		rules: rules,
	}
}

// Catalog returns the selector catalog of the document.
func (d *Document) Catalog() *selector.Catalog { return d.cat }

// Automaton returns the automaton of the document.
func (d *Document) Automaton() *automaton.Automaton { return d.eng.Automaton() }

// Rules returns the named accept states of the document.
func (d *Document) Rules() []Rule { return d.rules }

// Len returns the number of nodes.
func (d *Document) Len() int { return d.arena.Len() }

// --- engine.Tree -----------------------------------------------------------

// Parent is part of interface engine.Tree.
func (d *Document) Parent(id tree.NodeID) (tree.NodeID, bool) {
	return d.arena.Parent(id)
}

// Children is part of interface engine.Tree.
func (d *Document) Children(id tree.NodeID) []tree.NodeID {
	return d.arena.Children(id)
}

// Cache is part of interface engine.Tree.
func (d *Document) Cache(id tree.NodeID) *engine.Cache {
	return d.arena.Payload(id).Cache()
}

// Element is part of interface engine.Tree.
func (d *Document) Element(id tree.NodeID) selector.Element {
	return d.arena.Payload(id)
}

// --- Lookup ----------------------------------------------------------------

// Root returns the root node, if the document is not empty.
func (d *Document) Root() (tree.NodeID, bool) {
	return d.arena.Root()
}

// NodeIDByPath finds the node at a path.
func (d *Document) NodeIDByPath(path tree.Path) (tree.NodeID, bool) {
	return d.arena.Resolve(path)
}

// PathOf returns the path of a node.
func (d *Document) PathOf(id tree.NodeID) tree.Path {
	return d.arena.PathOf(id)
}

// Node returns the styled node for an ID.
func (d *Document) Node(id tree.NodeID) (*styledtree.StyNode, bool) {
	n, ok := d.arena.Node(id)
	if !ok {
		return nil, false
	}
	return n.Payload, true
}

func (d *Document) node(id tree.NodeID) (*styledtree.StyNode, error) {
	n, ok := d.arena.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", tree.ErrNoSuchNode, id)
	}
	return n.Payload, nil
}

func (d *Document) resolve(path tree.Path) (tree.NodeID, error) {
	id, ok := d.arena.Resolve(path)
	if !ok {
		return tree.NoNode, fmt.Errorf("%w: %s", ErrNoSuchPath, path)
	}
	return id, nil
}

// markChanged is the one place where mutations flag nodes for recompute.
func (d *Document) markChanged(id tree.NodeID) {
	engine.MarkChanged(d, id)
}

// --- Structural mutation ---------------------------------------------------

// AddNodeByPath inserts the subtree described by spec such that its top node
// ends up at path. The empty path inserts the root of an empty document.
// Every new node is evaluated against the current output of its parent and
// flagged as changed. AddNodeByPath returns the ID of the top node.
func (d *Document) AddNodeByPath(path tree.Path, spec NodeSpec) (tree.NodeID, error) {
	if err := spec.Validate(); err != nil {
		return tree.NoNode, err
	}
	parentPath, pos, ok := path.Parent()
	if !ok {
		if _, exists := d.arena.Root(); exists {
			return tree.NoNode, ErrRootExists
		}
		return d.insert(tree.NoNode, 0, &spec)
	}
	parent, err := d.resolve(parentPath)
	if err != nil {
		return tree.NoNode, err
	}
	if pos > len(d.arena.Children(parent)) {
		return tree.NoNode, fmt.Errorf("%w: %s", ErrNoSuchPath, path)
	}
	return d.insert(parent, pos, &spec)
}

func (d *Document) insert(parent tree.NodeID, pos int, spec *NodeSpec) (tree.NodeID, error) {
	type job struct {
		spec   *NodeSpec
		parent tree.NodeID
		pos    int
	}
	top := tree.NoNode
	work := []job{{spec: spec, parent: parent, pos: pos}}
	for len(work) > 0 {
		j := work[len(work)-1]
		work = work[:len(work)-1]
		id := d.arena.NewNode(d.newStyNode(j.spec))
		var err error
		if j.parent == tree.NoNode {
			err = d.arena.SetRoot(id)
		} else {
			err = d.arena.InsertChildAt(j.parent, j.pos, id)
		}
		if err != nil {
			d.arena.RemoveSubtree(id)
			return tree.NoNode, err
		}
		d.eng.Attach(d, id)
		if top == tree.NoNode {
			top = id
		}
		for i := len(j.spec.Children) - 1; i >= 0; i-- {
			work = append(work, job{spec: &j.spec.Children[i], parent: id, pos: i})
		}
	}
	tracer().Debugf("inserted subtree %d at %s", top, d.arena.PathOf(top))
	return top, nil
}

func (d *Document) newStyNode(spec *NodeSpec) *styledtree.StyNode {
	tag := strings.ToLower(strings.TrimSpace(spec.Tag))
	sn := styledtree.NewNode(d.cat.Type(tag), tag, d.eng.NewCache())
	for k, v := range spec.Attrs {
		d.applyAttribute(sn, k, v)
	}
	if spec.ID != "" {
		d.applyAttribute(sn, "id", spec.ID)
	}
	if len(spec.Classes) > 0 {
		classes := strings.Fields(spec.Attrs["class"])
		d.applyAttribute(sn, "class", strings.Join(append(classes, spec.Classes...), " "))
	}
	raw, _ := selector.ParsePseudoSet(spec.Pseudo)
	sn.SetRawPseudo(raw)
	return sn
}

// RemoveNodeByPath removes the node at path together with its subtree and
// flags the former parent as changed. It returns the IDs of all removed
// nodes. Removing the root empties the document.
func (d *Document) RemoveNodeByPath(path tree.Path) ([]tree.NodeID, error) {
	id, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	return d.RemoveNode(id)
}

// RemoveNode removes a node together with its subtree.
func (d *Document) RemoveNode(id tree.NodeID) ([]tree.NodeID, error) {
	parent, hasParent := d.arena.Parent(id)
	freed, err := d.arena.RemoveSubtree(id)
	if err != nil {
		return nil, err
	}
	if hasParent {
		d.markChanged(parent)
	}
	tracer().Debugf("removed %d nodes", len(freed))
	return freed, nil
}

// --- Attribute mutation ----------------------------------------------------

// UpdateAttributeByPath sets an attribute of the node at path.
func (d *Document) UpdateAttributeByPath(path tree.Path, key, value string) error {
	id, err := d.resolve(path)
	if err != nil {
		return err
	}
	return d.UpdateAttribute(id, key, value)
}

// UpdateAttribute sets an attribute of a node. The keys 'class' and 'id'
// replace the class set and the id of the node, respectively.
func (d *Document) UpdateAttribute(id tree.NodeID, key, value string) error {
	sn, err := d.node(id)
	if err != nil {
		return err
	}
	d.applyAttribute(sn, key, value)
	d.markChanged(id)
	return nil
}

// RemoveAttributeByPath removes an attribute of the node at path.
func (d *Document) RemoveAttributeByPath(path tree.Path, key string) error {
	id, err := d.resolve(path)
	if err != nil {
		return err
	}
	return d.RemoveAttribute(id, key)
}

// RemoveAttribute removes an attribute of a node. Removing 'class' or 'id'
// clears the class set or the id.
func (d *Document) RemoveAttribute(id tree.NodeID, key string) error {
	sn, err := d.node(id)
	if err != nil {
		return err
	}
	key = strings.ToLower(key)
	sn.RemoveAttribute(key)
	switch key {
	case "class":
		sn.SetClasses(nil)
	case "id":
		sn.SetID(selector.None)
	}
	d.markChanged(id)
	return nil
}

// AddClass adds a class to a node.
func (d *Document) AddClass(id tree.NodeID, class string) error {
	sn, err := d.node(id)
	if err != nil {
		return err
	}
	sn.AddClass(d.cat.Class(class))
	d.syncClassAttribute(sn)
	d.markChanged(id)
	return nil
}

// RemoveClass removes a class from a node.
func (d *Document) RemoveClass(id tree.NodeID, class string) error {
	sn, err := d.node(id)
	if err != nil {
		return err
	}
	sn.RemoveClass(d.cat.Class(class))
	d.syncClassAttribute(sn)
	d.markChanged(id)
	return nil
}

// SetPseudo switches raw pseudo-class flags of a node on or off.
func (d *Document) SetPseudo(id tree.NodeID, p selector.PseudoSet, on bool) error {
	sn, err := d.node(id)
	if err != nil {
		return err
	}
	if on {
		sn.SetRawPseudo(sn.RawPseudo().With(p))
	} else {
		sn.SetRawPseudo(sn.RawPseudo().Without(p))
	}
	d.markChanged(id)
	return nil
}

// SetPseudoByPath switches raw pseudo-class flags of the node at path.
func (d *Document) SetPseudoByPath(path tree.Path, p selector.PseudoSet, on bool) error {
	id, err := d.resolve(path)
	if err != nil {
		return err
	}
	return d.SetPseudo(id, p, on)
}

func (d *Document) applyAttribute(sn *styledtree.StyNode, key, value string) {
	key = strings.ToLower(key)
	sn.SetAttribute(key, value)
	switch key {
	case "class":
		var classes []selector.ID
		for _, c := range strings.Fields(value) {
			classes = append(classes, d.cat.Class(c))
		}
		sn.SetClasses(classes)
	case "id":
		if value == "" {
			sn.SetID(selector.None)
		} else {
			sn.SetID(d.cat.IDName(value))
		}
	}
}

func (d *Document) syncClassAttribute(sn *styledtree.StyNode) {
	names := d.ClassNames(sn)
	if len(names) == 0 {
		sn.RemoveAttribute("class")
		return
	}
	sn.SetAttribute("class", strings.Join(names, " "))
}

// ClassNames returns the class names of a node.
func (d *Document) ClassNames(sn *styledtree.StyNode) []string {
	names := make([]string, len(sn.Classes()))
	for i, c := range sn.Classes() {
		names[i] = d.cat.Selector(c).Name
	}
	return names
}

// --- Recompute and queries -------------------------------------------------

// Recompute derives the computed pseudo-classes and brings the automaton
// state of all nodes up to date. It returns the counters of the pass.
func (d *Document) Recompute() *engine.Metrics {
	root, ok := d.arena.Root()
	if !ok {
		return &engine.Metrics{}
	}
	m := &engine.Metrics{PseudoChanged: d.derivePseudoClasses(root)}
	return d.eng.Recompute(d, root, m)
}

// Matches is true if accept state s is active at a node. The result is
// current as of the last Recompute.
func (d *Document) Matches(id tree.NodeID, s automaton.State) bool {
	return d.Cache(id).Active(s)
}

// MatchingRules returns the rules matching a node.
func (d *Document) MatchingRules(id tree.NodeID) []Rule {
	var rules []Rule
	for _, r := range d.rules {
		if d.Matches(id, r.Accept) {
			rules = append(rules, r)
		}
	}
	return rules
}

// Select returns all nodes, in document order, at which s is active.
func (d *Document) Select(s automaton.State) []tree.NodeID {
	root, ok := d.arena.Root()
	if !ok {
		return nil
	}
	return d.arena.Select(root, NodeMatches(s))
}
