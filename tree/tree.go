package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
)

// ErrNoSuchNode is returned for node IDs not present in an arena.
var ErrNoSuchNode = errors.New("no such node")

// ErrPosition is returned for child positions out of range.
var ErrPosition = errors.New("child position out of range")

// ErrAttached is returned when inserting a node which already has a parent.
var ErrAttached = errors.New("node is already attached")

// ErrCycle is returned when inserting a node below one of its descendants.
var ErrCycle = errors.New("insertion would create a cycle")

// Arena owns a tree of nodes with payload T.
type Arena[T any] struct {
	nodes map[NodeID]*Node[T]
	next  NodeID
	root  NodeID // cached; revalidated by Root
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{
		nodes: make(map[NodeID]*Node[T]),
		root:  NoNode,
	}
}

// Len returns the number of nodes in the arena.
func (a *Arena[T]) Len() int {
	return len(a.nodes)
}

// NewNode creates a detached node with the given payload.
func (a *Arena[T]) NewNode(payload T) NodeID {
	id := a.next
	a.next++
	a.nodes[id] = &Node[T]{id: id, parent: NoNode, Payload: payload}
	return id
}

// Node returns the node for an ID.
func (a *Arena[T]) Node(id NodeID) (*Node[T], bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// MustNode returns the node for an ID and panics if it is not present.
// A dangling node reference is a programming error.
func (a *Arena[T]) MustNode(id NodeID) *Node[T] {
	n, ok := a.nodes[id]
	if !ok {
		tracer().Errorf("dangling reference to node %d", id)
		panic(fmt.Sprintf("dangling reference to node %d", id))
	}
	return n
}

// Contains is true if id is present in the arena.
func (a *Arena[T]) Contains(id NodeID) bool {
	_, ok := a.nodes[id]
	return ok
}

// Payload returns the payload of a node. It panics for unknown IDs.
func (a *Arena[T]) Payload(id NodeID) T {
	return a.MustNode(id).Payload
}

// Parent returns the ID of the parent of a node.
func (a *Arena[T]) Parent(id NodeID) (NodeID, bool) {
	return a.MustNode(id).Parent()
}

// Children returns the IDs of the children of a node.
func (a *Arena[T]) Children(id NodeID) []NodeID {
	return a.MustNode(id).children
}

// InsertChildAt attaches the detached node ch as the i-th child of parent,
// shifting children at later positions. i may equal the number of children.
func (a *Arena[T]) InsertChildAt(parent NodeID, i int, ch NodeID) error {
	p, ok := a.nodes[parent]
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNoSuchNode, parent)
	}
	c, ok := a.nodes[ch]
	if !ok {
		return fmt.Errorf("%w: child %d", ErrNoSuchNode, ch)
	}
	if c.parent != NoNode {
		return fmt.Errorf("%w: node %d", ErrAttached, ch)
	}
	if i < 0 || i > len(p.children) {
		return fmt.Errorf("%w: %d of %d", ErrPosition, i, len(p.children))
	}
	if parent == ch || len(c.children) > 0 {
		for anc := parent; anc != NoNode; anc = a.nodes[anc].parent {
			if anc == ch {
				return fmt.Errorf("%w: node %d below itself", ErrCycle, ch)
			}
		}
	}
	p.insertChildAt(i, ch)
	c.parent = parent
	return nil
}

// SetRoot declares a detached node to be the root of the tree.
func (a *Arena[T]) SetRoot(id NodeID) error {
	n, ok := a.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoSuchNode, id)
	}
	if n.parent != NoNode {
		return fmt.Errorf("%w: root %d", ErrAttached, id)
	}
	a.root = id
	return nil
}

// Root returns the root of the tree. The cached root is revalidated on every
// call; if it became stale, the parentless node with the lowest ID takes
// its place.
func (a *Arena[T]) Root() (NodeID, bool) {
	if n, ok := a.nodes[a.root]; ok && n.parent == NoNode {
		return a.root, true
	}
	a.root = NoNode
	for id, n := range a.nodes {
		if n.parent == NoNode && (a.root == NoNode || id < a.root) {
			a.root = id
		}
	}
	if a.root != NoNode {
		tracer().Debugf("root re-resolved to node %d", a.root)
	}
	return a.root, a.root != NoNode
}

// RemoveSubtree detaches a node from its parent and frees it together with
// all of its descendants. It returns the IDs of the freed nodes, the
// removed node first.
func (a *Arena[T]) RemoveSubtree(id NodeID) ([]NodeID, error) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchNode, id)
	}
	if p, ok := n.Parent(); ok {
		a.nodes[p].removeChild(id)
	}
	var freed []NodeID
	worklist := []NodeID{id}
	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		node := a.nodes[cur]
		for i := len(node.children) - 1; i >= 0; i-- {
			worklist = append(worklist, node.children[i])
		}
		delete(a.nodes, cur)
		freed = append(freed, cur)
	}
	tracer().Debugf("freed %d nodes of subtree %d", len(freed), id)
	return freed, nil
}
