package tree

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tp "github.com/xlab/treeprint"
)

// build creates
//
//	a
//	├── b
//	│   ├── d
//	│   └── e
//	└── c
func build(t *testing.T) (*Arena[string], map[string]NodeID) {
	arena := NewArena[string]()
	ids := map[string]NodeID{}
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		ids[s] = arena.NewNode(s)
	}
	require.NoError(t, arena.SetRoot(ids["a"]))
	require.NoError(t, arena.InsertChildAt(ids["a"], 0, ids["c"]))
	require.NoError(t, arena.InsertChildAt(ids["a"], 0, ids["b"]))
	require.NoError(t, arena.InsertChildAt(ids["b"], 0, ids["d"]))
	require.NoError(t, arena.InsertChildAt(ids["b"], 1, ids["e"]))
	return arena, ids
}

func dump(arena *Arena[string], id NodeID, branch tp.Tree) {
	for _, ch := range arena.Children(id) {
		dump(arena, ch, branch.AddBranch(arena.Payload(ch)))
	}
}

func TestArenaBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.tree")
	defer teardown()
	//
	arena, ids := build(t)
	root, ok := arena.Root()
	require.True(t, ok)
	assert.Equal(t, ids["a"], root)
	out := tp.NewWithRoot(arena.Payload(root))
	dump(arena, root, out)
	t.Logf("\n%s", out.String())
	assert.Equal(t, []NodeID{ids["b"], ids["c"]}, arena.Children(root))
	p, ok := arena.Parent(ids["e"])
	assert.True(t, ok)
	assert.Equal(t, ids["b"], p)
}

func TestArenaInsertErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.tree")
	defer teardown()
	//
	arena, ids := build(t)
	assert.ErrorIs(t, arena.InsertChildAt(ids["a"], 0, ids["d"]), ErrAttached)
	assert.ErrorIs(t, arena.InsertChildAt(ids["a"], 5, arena.NewNode("x")), ErrPosition)
	assert.ErrorIs(t, arena.InsertChildAt(NodeID(99), 0, arena.NewNode("y")), ErrNoSuchNode)
	z := arena.NewNode("z")
	require.NoError(t, arena.InsertChildAt(ids["c"], 0, z))
	assert.ErrorIs(t, arena.InsertChildAt(z, 0, ids["a"]), ErrCycle)
}

func TestPaths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.tree")
	defer teardown()
	//
	arena, ids := build(t)
	p, err := ParsePath("/0/1")
	require.NoError(t, err)
	id, ok := arena.Resolve(p)
	require.True(t, ok)
	assert.Equal(t, ids["e"], id)
	assert.Equal(t, "/0/1", arena.PathOf(ids["e"]).String())
	assert.Equal(t, "/", arena.PathOf(ids["a"]).String())
	empty, err := ParsePath("")
	require.NoError(t, err)
	id, _ = arena.Resolve(empty)
	assert.Equal(t, ids["a"], id)
	_, ok = arena.Resolve(Path{3})
	assert.False(t, ok)
	_, err = ParsePath("0/x")
	assert.ErrorIs(t, err, ErrPath)
	parent, i, ok := p.Parent()
	assert.True(t, ok)
	assert.Equal(t, Path{0}, parent)
	assert.Equal(t, 1, i)
}

func TestRemoveSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.tree")
	defer teardown()
	//
	arena, ids := build(t)
	freed, err := arena.RemoveSubtree(ids["b"])
	require.NoError(t, err)
	assert.Equal(t, []NodeID{ids["b"], ids["d"], ids["e"]}, freed)
	assert.Equal(t, 2, arena.Len())
	for _, id := range freed {
		assert.False(t, arena.Contains(id), "node %d should be gone", id)
	}
	assert.Equal(t, []NodeID{ids["c"]}, arena.Children(ids["a"]))
	assert.Panics(t, func() { arena.MustNode(ids["d"]) })
}

func TestRootRevalidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.tree")
	defer teardown()
	//
	arena, ids := build(t)
	_, err := arena.RemoveSubtree(ids["a"])
	require.NoError(t, err)
	_, ok := arena.Root()
	assert.False(t, ok)
	n := arena.NewNode("n")
	root, ok := arena.Root()
	assert.True(t, ok)
	assert.Equal(t, n, root)
}

func TestWalks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "restyle.tree")
	defer teardown()
	//
	arena, ids := build(t)
	var pre, post []string
	arena.PreOrder(ids["a"], func(id NodeID) bool {
		pre = append(pre, arena.Payload(id))
		return id != ids["b"]
	})
	arena.PostOrder(ids["a"], func(id NodeID) {
		post = append(post, arena.Payload(id))
	})
	assert.Equal(t, []string{"a", "b", "c"}, pre)
	assert.Equal(t, []string{"d", "e", "b", "c", "a"}, post)
	vowels := arena.Select(ids["a"], func(_ NodeID, s string) bool { return s == "a" || s == "e" })
	assert.Equal(t, []NodeID{ids["a"], ids["e"]}, vowels)
}

func TestDeepTree(t *testing.T) {
	arena := NewArena[int]()
	prev := arena.NewNode(0)
	for i := 1; i < 100000; i++ {
		n := arena.NewNode(i)
		if err := arena.InsertChildAt(prev, 0, n); err != nil {
			t.Fatal(err)
		}
		prev = n
	}
	count := 0
	arena.PostOrder(NodeID(0), func(NodeID) { count++ })
	if count != 100000 {
		t.Errorf("expected post-order to visit 100000 nodes, is %d", count)
	}
	freed, _ := arena.RemoveSubtree(NodeID(0))
	if len(freed) != 100000 || arena.Len() != 0 {
		t.Errorf("expected deep subtree to be freed completely, %d nodes left", arena.Len())
	}
}
