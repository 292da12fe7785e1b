package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/npillmayer/restyle/automaton"
	"github.com/npillmayer/restyle/selector"
	"github.com/npillmayer/restyle/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test fixtures ---------------------------------------------------------

type elem struct {
	tag     selector.ID
	classes map[selector.ID]bool
	pseudo  selector.PseudoSet
	cache   *Cache
}

func (e *elem) Tag() selector.ID                   { return e.tag }
func (e *elem) HasClass(c selector.ID) bool        { return e.classes[c] }
func (e *elem) IDSelector() selector.ID            { return selector.None }
func (e *elem) Attribute(string) (string, bool)    { return "", false }
func (e *elem) ComputedPseudo() selector.PseudoSet { return e.pseudo }

type testTree struct {
	arena  *tree.Arena[*elem]
	cat    *selector.Catalog
	auto   *automaton.Automaton
	accept []automaton.State
	eng    *Engine
}

func (tt *testTree) Parent(id tree.NodeID) (tree.NodeID, bool) { return tt.arena.Parent(id) }
func (tt *testTree) Children(id tree.NodeID) []tree.NodeID     { return tt.arena.Children(id) }
func (tt *testTree) Cache(id tree.NodeID) *Cache               { return tt.arena.Payload(id).cache }
func (tt *testTree) Element(id tree.NodeID) selector.Element   { return tt.arena.Payload(id) }

func newTestTree(t *testing.T, selectors ...string) *testTree {
	return newTestTreeWith(t, Options{Validate: StrictValidator()}, selectors...)
}

func newTestTreeWith(t *testing.T, opts Options, selectors ...string) *testTree {
	cat := selector.NewCatalog()
	sels := make([]selector.Complex, len(selectors))
	for i, s := range selectors {
		sels[i] = selector.MustParse(s)
	}
	a, accept, err := automaton.Compile(cat, sels)
	require.NoError(t, err)
	return withAutomaton(cat, a, accept, opts)
}

func withAutomaton(cat *selector.Catalog, a *automaton.Automaton, accept []automaton.State, opts Options) *testTree {
	return &testTree{
		arena:  tree.NewArena[*elem](),
		cat:    cat,
		auto:   a,
		accept: accept,
		eng:    New(a, cat, opts),
	}
}

func (tt *testTree) add(parent tree.NodeID, tag string, classes ...string) tree.NodeID {
	e := &elem{tag: tt.cat.Type(tag), classes: map[selector.ID]bool{}, cache: tt.eng.NewCache()}
	for _, c := range classes {
		e.classes[tt.cat.Class(c)] = true
	}
	id := tt.arena.NewNode(e)
	if parent == tree.NoNode {
		if err := tt.arena.SetRoot(id); err != nil {
			panic(err)
		}
	} else if err := tt.arena.InsertChildAt(parent, len(tt.arena.Children(parent)), id); err != nil {
		panic(err)
	}
	tt.eng.Attach(tt, id)
	return id
}

func (tt *testTree) setClass(id tree.NodeID, class string, on bool) {
	e := tt.arena.Payload(id)
	if on {
		e.classes[tt.cat.Class(class)] = true
	} else {
		delete(e.classes, tt.cat.Class(class))
	}
	MarkChanged(tt, id)
}

func (tt *testTree) setHover(id tree.NodeID, on bool) {
	e := tt.arena.Payload(id)
	if on {
		e.pseudo = e.pseudo.With(selector.Hover)
	} else {
		e.pseudo = e.pseudo.Without(selector.Hover)
	}
	MarkChanged(tt, id)
}

func (tt *testTree) remove(id tree.NodeID) {
	p, _ := tt.arena.Parent(id)
	if _, err := tt.arena.RemoveSubtree(id); err != nil {
		panic(err)
	}
	MarkChanged(tt, p)
}

func (tt *testTree) root() tree.NodeID {
	r, _ := tt.arena.Root()
	return r
}

func (tt *testTree) recompute() *Metrics {
	return tt.eng.Recompute(tt, tt.root(), nil)
}

// naive evaluates one element without any caching: a state is active iff some
// rule targeting it has a matching selector and, if it has a parent state,
// that state is active at the parent.
func naive(a *automaton.Automaton, cat *selector.Catalog, e selector.Element, input []bool) []bool {
	out := make([]bool, a.NumStates())
	for _, r := range a.Rules() {
		if cat.Matches(e, r.Selector) && (r.Intrinsic() || input[r.Parent]) {
			out[r.Target] = true
		}
	}
	return out
}

// oracle evaluates the whole tree from scratch.
func (tt *testTree) oracle() map[tree.NodeID][]bool {
	res := map[tree.NodeID][]bool{}
	zero := make([]bool, tt.auto.NumStates())
	tt.arena.PreOrder(tt.root(), func(id tree.NodeID) bool {
		input := zero
		if p, ok := tt.arena.Parent(id); ok {
			input = res[p]
		}
		res[id] = naive(tt.auto, tt.cat, tt.arena.Payload(id), input)
		return true
	})
	return res
}

// check compares the accept states of every element against the oracle.
func (tt *testTree) check(t *testing.T, step string) {
	t.Helper()
	want := tt.oracle()
	tt.arena.PreOrder(tt.root(), func(id tree.NodeID) bool {
		c := tt.Cache(id)
		if c.Dirty() != Clean || c.RecursiveDirty() {
			t.Errorf("%s: expected node %d to be clean after recompute, is %v", step, id, c)
		}
		for _, s := range tt.auto.Accept() {
			if c.Active(s) != want[id][s] {
				t.Errorf("%s: node %d, state %q: expected %v, is %v",
					step, id, tt.auto.Label(s), want[id][s], c.Active(s))
			}
		}
		return true
	})
}

// --- Evaluator -------------------------------------------------------------

func TestEvaluateIntrinsicWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	cat := selector.NewCatalog()
	div, x := cat.Type("div"), cat.Class("x")
	b := automaton.NewBuilder()
	p1, p2, s := b.State("p1"), b.State("p2"), b.State("s")
	b.Propagate(x, p1, s)
	b.Propagate(selector.None, p2, s)
	b.Gate(div, s)
	b.Accept(s)
	a, err := b.Build()
	require.NoError(t, err)
	input := []bool{true, true, false}
	e := &elem{tag: div, classes: map[selector.ID]bool{x: true}}
	ev := Evaluate(a, cat, e, input)
	assert.Equal(t, Quad{Kind: ConstTrue}, ev.Quad[s], "intrinsic rule must win")
	assert.Empty(t, ev.Deps[s])
	e.tag = cat.Type("p")
	ev = Evaluate(a, cat, e, input)
	assert.Equal(t, Quad{Kind: CopyParent, Parent: p1}, ev.Quad[s], "first propagating rule must win")
	assert.Equal(t, []automaton.State{p1}, ev.Deps[s])
	input[p1] = false
	ev = Evaluate(a, cat, e, input)
	assert.Equal(t, Quad{Kind: CopyParent, Parent: p2}, ev.Quad[s])
	assert.Equal(t, []automaton.State{p1, p2}, ev.Deps[s], "both parent bits were consulted")
	delete(e.classes, x)
	input[p2] = false
	ev = Evaluate(a, cat, e, input)
	assert.Equal(t, Quad{Kind: ConstFalse}, ev.Quad[s])
	assert.Equal(t, []automaton.State{p2}, ev.Deps[s], "rule without local match records no dependency")
	assert.Equal(t, []bool{false, false, false}, ev.Output)
}

func TestEvaluateEqualsNaive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div", ".x", "div .x", "p span", "div p .y", "* .y", ".x .x", "span.y:hover")
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		e := randomElem(rnd, tt.cat)
		input := randomBits(rnd, tt.auto.NumStates())
		ev := Evaluate(tt.auto, tt.cat, e, input)
		want := naive(tt.auto, tt.cat, e, input)
		if !equalBits(ev.Output, want) {
			t.Fatalf("element %d: expected %s, is %s", i, BitString(want), BitString(ev.Output))
		}
		if !equalBits(ev.Output, ev.Quad.Materialize(input)) {
			t.Fatalf("element %d: output is not the materialized quad vector", i)
		}
	}
}

func TestTriStateSoundness(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div", "div .x", "p span", "div p .y", "* .y", ".x .x")
	n := tt.auto.NumStates()
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		e := randomElem(rnd, tt.cat)
		in1 := randomBits(rnd, n)
		ev := Evaluate(tt.auto, tt.cat, e, in1)
		needed := make([]bool, n)
		for s := range needed {
			needed[s] = tt.auto.IsAccept(automaton.State(s)) || rnd.Intn(3) == 0
		}
		tri := DeriveTriState(needed, ev.Deps, in1)
		in2 := randomBits(rnd, n)
		for k, x := range tri {
			if x != Unused {
				in2[k] = in1[k]
			}
		}
		require.True(t, tri.Admits(in2))
		out2 := Evaluate(tt.auto, tt.cat, e, in2).Output
		for s := range needed {
			if needed[s] && ev.Output[s] != out2[s] {
				t.Fatalf("element %d: tri-state %s admits %s, but needed state %d differs",
					i, tri, BitString(in2), s)
			}
		}
	}
}

func TestComputeNeeded(t *testing.T) {
	tt := newTestTree(t, "div", "div p")
	children := []TriVector{
		make(TriVector, tt.auto.NumStates()),
		make(TriVector, tt.auto.NumStates()),
	}
	children[1][0] = PinnedFalse
	needed := ComputeNeeded(tt.auto, children)
	for s := range needed {
		want := tt.auto.IsAccept(automaton.State(s)) || s == 0
		assert.Equal(t, want, needed[s], "state %d", s)
	}
}

// --- Driver ----------------------------------------------------------------

func TestScenarioClassEnablesInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	cat := selector.NewCatalog()
	html, c := cat.Type("html"), cat.Class("c")
	b := automaton.NewBuilder()
	s, target := b.State("S"), b.State("T")
	b.Gate(html, s)
	b.Propagate(c, s, target)
	b.Accept(s)
	b.Accept(target)
	a, err := b.Build()
	require.NoError(t, err)
	tt := withAutomaton(cat, a, a.Accept(), Options{Validate: StrictValidator()})
	root := tt.add(tree.NoNode, "html")
	child := tt.add(root, "div")
	tt.recompute()
	assert.True(t, tt.Cache(root).Active(s))
	assert.False(t, tt.Cache(child).Active(target))
	tt.setClass(child, "c", true)
	assert.Equal(t, NodeChanged, tt.Cache(child).Dirty())
	assert.True(t, tt.Cache(root).RecursiveDirty())
	tt.recompute()
	assert.True(t, tt.Cache(child).Active(target))
	assert.Equal(t, Quad{Kind: CopyParent, Parent: s}, tt.Cache(child).Quad()[target])
	assert.Equal(t, PinnedTrue, tt.Cache(child).Tri()[s])
	tt.check(t, "after class change")
}

func TestScenarioIrrelevantEdit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div .x", "p")
	root := tt.add(tree.NoNode, "div")
	child := tt.add(root, "section", "x")
	grandchild := tt.add(child, "p")
	tt.recompute()
	out := append([]bool(nil), tt.Cache(child).Output()...)
	quad := append(QuadVector(nil), tt.Cache(child).Quad()...)
	tt.setClass(child, "unrelated", true)
	m := tt.recompute()
	assert.Equal(t, out, tt.Cache(child).Output())
	assert.True(t, quad.Equal(tt.Cache(child).Quad()))
	assert.Equal(t, 0, m.Invalidated, "children must not be invalidated")
	assert.Equal(t, 2, m.Visited, "grandchild must be skipped")
	assert.Equal(t, Clean, tt.Cache(grandchild).Dirty())
	tt.check(t, "after irrelevant edit")
}

func TestScenarioRemoval(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div span")
	root := tt.add(tree.NoNode, "body")
	div := tt.add(root, "div")
	sub := tt.add(div, "section")
	leaf := tt.add(sub, "span")
	tt.recompute()
	tt.remove(sub)
	assert.False(t, tt.arena.Contains(sub))
	assert.False(t, tt.arena.Contains(leaf))
	assert.Equal(t, NodeChanged, tt.Cache(div).Dirty())
	assert.True(t, tt.Cache(root).RecursiveDirty())
	tt.recompute()
	tt.check(t, "after removal")
}

func TestIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div .x", ".x .x", "p", "div p span")
	root := tt.add(tree.NoNode, "div")
	a := tt.add(root, "p", "x")
	tt.add(a, "span", "x")
	tt.add(root, "span")
	tt.recompute()
	type snapshot struct {
		out  []bool
		quad QuadVector
		tri  TriVector
	}
	before := map[tree.NodeID]snapshot{}
	tt.arena.PreOrder(root, func(id tree.NodeID) bool {
		c := tt.Cache(id)
		before[id] = snapshot{
			out:  append([]bool(nil), c.Output()...),
			quad: append(QuadVector(nil), c.Quad()...),
			tri:  append(TriVector(nil), c.Tri()...),
		}
		return true
	})
	m := tt.recompute()
	assert.Equal(t, 0, m.Visited, "clean tree must not be visited")
	// flag every node without editing it: all of them are evaluated again
	tt.arena.PreOrder(root, func(id tree.NodeID) bool {
		MarkChanged(tt, id)
		return true
	})
	m = tt.recompute()
	assert.Equal(t, len(before), m.Visited)
	assert.Equal(t, len(before), m.Recomputed)
	assert.Equal(t, 0, m.OutputsChanged)
	assert.Equal(t, 0, m.Invalidated)
	tt.arena.PreOrder(root, func(id tree.NodeID) bool {
		c, want := tt.Cache(id), before[id]
		assert.Equal(t, want.out, c.Output(), "output of node %d", id)
		assert.True(t, want.quad.Equal(c.Quad()), "quad of node %d: %s != %s", id, want.quad, c.Quad())
		assert.Equal(t, want.tri, c.Tri(), "tri-state of node %d", id)
		assert.Equal(t, Clean, c.Dirty())
		return true
	})
}

func TestRecomputeAddsIntoMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div p")
	root := tt.add(tree.NoNode, "div")
	tt.add(root, "p")
	first := tt.recompute()
	assert.Equal(t, 2, first.Visited)
	MarkChanged(tt, root)
	total := &Metrics{}
	total.Add(first)
	m := tt.eng.Recompute(tt, root, total)
	assert.Same(t, total, m, "counters must be added into the metrics passed in")
	assert.Equal(t, 3, total.Visited)
	assert.Equal(t, first.Recomputed+1, total.Recomputed)
	assert.Equal(t, first.Skipped+1, total.Skipped)
}

func TestReuseOnIrrelevantInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div", "p")
	root := tt.add(tree.NoNode, "body")
	div := tt.add(root, "div")
	tt.add(div, "p")
	tt.recompute()
	tt.setClass(root, "x", true)
	tt.arena.Payload(root).tag = tt.cat.Type("div")
	m := tt.recompute()
	assert.Equal(t, 1, m.OutputsChanged)
	assert.Equal(t, 1, m.Reused, "child does not read any parent bit")
	assert.Equal(t, 1, m.Skipped)
	tt.check(t, "after root change")
}

func TestStrictValidatorPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	tt := newTestTree(t, "div")
	root := tt.add(tree.NoNode, "body")
	child := tt.add(root, "p")
	tt.recompute()
	// edit the child without marking it: its cache goes stale
	tt.arena.Payload(child).tag = tt.cat.Type("div")
	tt.Cache(child).recursive = true
	MarkChanged(tt, root)
	// root output is unchanged, the clean child is visited and validated
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*InvariantError)
		require.True(t, ok, "expected *InvariantError, is %T", r)
		assert.Equal(t, child, err.Node)
		assert.Contains(t, err.Error(), "stale cache")
	}()
	tt.recompute()
}

func TestTracingValidatorCarriesOn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	mismatches := 0
	trace := TracingValidator()
	opts := Options{Validate: func(rc ReuseCheck) {
		if _, bad := rc.Mismatch(); bad {
			mismatches++
		}
		trace(rc)
	}}
	tt := newTestTreeWith(t, opts, "div")
	root := tt.add(tree.NoNode, "body")
	child := tt.add(root, "p")
	tt.recompute()
	tt.arena.Payload(child).tag = tt.cat.Type("div")
	tt.Cache(child).recursive = true
	MarkChanged(tt, root)
	var m *Metrics
	assert.NotPanics(t, func() { m = tt.recompute() })
	assert.Equal(t, 1, mismatches)
	assert.Equal(t, 1, m.Validated)
	assert.Equal(t, Clean, tt.Cache(child).Dirty())
}

func TestInsertBelowReusedNode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	// 'section' reads nothing from its parent at first. After the root
	// changes, section is reused with a stale 'within(div)' bit. A new
	// span below section then needs that bit.
	tt := newTestTree(t, "section", "div span")
	root := tt.add(tree.NoNode, "body")
	section := tt.add(root, "section")
	tt.recompute()
	tt.arena.Payload(root).tag = tt.cat.Type("div")
	MarkChanged(tt, root)
	m := tt.recompute()
	assert.Equal(t, 1, m.Reused)
	tt.add(section, "span")
	m = tt.recompute()
	assert.Equal(t, 1, m.FixUps)
	tt.check(t, "after insertion below reused node")
}

func TestRandomMutations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.engine")
	defer teardown()
	//
	selectors := []string{"div", ".x", "div .x", "p span", "div p .y", "* .y",
		".x .x", "span.y:hover", "div div div", ":hover p", "section .x .y"}
	modes := []struct {
		name string
		opts Options
	}{
		{"release", Options{}},
		{"strict", Options{Validate: StrictValidator()}},
	}
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				rnd := rand.New(rand.NewSource(seed))
				tt := newTestTreeWith(t, mode.opts, selectors...)
				root := tt.add(tree.NoNode, "div")
				nodes := []tree.NodeID{root}
				for i := 0; i < 30; i++ {
					parent := nodes[rnd.Intn(len(nodes))]
					nodes = append(nodes, tt.add(parent, randomTag(rnd), randomClasses(rnd)...))
				}
				tt.recompute()
				tt.check(t, fmt.Sprintf("seed %d, initial", seed))
				for step := 0; step < 60; step++ {
					for k := 0; k <= rnd.Intn(3); k++ {
						nodes = mutate(rnd, tt, nodes)
					}
					m := tt.recompute()
					if mode.opts.Validate == nil {
						require.Zero(t, m.Validated, "release mode must not validate")
					}
					tt.check(t, fmt.Sprintf("seed %d, step %d", seed, step))
					if t.Failed() {
						return
					}
				}
			}
		})
	}
}

func mutate(rnd *rand.Rand, tt *testTree, nodes []tree.NodeID) []tree.NodeID {
	id := nodes[rnd.Intn(len(nodes))]
	switch rnd.Intn(6) {
	case 0, 1:
		tt.setClass(id, []string{"x", "y"}[rnd.Intn(2)], rnd.Intn(2) == 0)
	case 2:
		tt.setHover(id, rnd.Intn(2) == 0)
	case 3:
		tt.arena.Payload(id).tag = tt.cat.Type(randomTag(rnd))
		MarkChanged(tt, id)
	case 4:
		nodes = append(nodes, tt.add(id, randomTag(rnd), randomClasses(rnd)...))
	case 5:
		if id == tt.root() {
			return nodes
		}
		tt.remove(id)
		alive := nodes[:0]
		for _, n := range nodes {
			if tt.arena.Contains(n) {
				alive = append(alive, n)
			}
		}
		nodes = alive
	}
	return nodes
}

func randomTag(rnd *rand.Rand) string {
	return []string{"div", "p", "span", "section"}[rnd.Intn(4)]
}

func randomClasses(rnd *rand.Rand) []string {
	var cls []string
	if rnd.Intn(3) == 0 {
		cls = append(cls, "x")
	}
	if rnd.Intn(3) == 0 {
		cls = append(cls, "y")
	}
	return cls
}

func randomElem(rnd *rand.Rand, cat *selector.Catalog) *elem {
	e := &elem{tag: cat.Type(randomTag(rnd)), classes: map[selector.ID]bool{}}
	for _, c := range randomClasses(rnd) {
		e.classes[cat.Class(c)] = true
	}
	if rnd.Intn(2) == 0 {
		e.pseudo = selector.Hover
	}
	return e
}

func randomBits(rnd *rand.Rand, n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = rnd.Intn(2) == 0
	}
	return v
}
