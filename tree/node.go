package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

// NodeID identifies a node of an arena. IDs are never re-used within an arena.
type NodeID int

// NoNode is the NodeID of 'no node', e.g. the parent of a root.
const NoNode NodeID = -1

/*
We manage a tree of mutable nodes. Each nodes carries a payload of type parameter T.
Nodes maintain a slice of children IDs, in document order.
*/

// Node is the base type our tree is built of.
type Node[T any] struct {
	id       NodeID
	parent   NodeID   // NoNode for the root and for detached nodes
	children []NodeID // order is significant for path addressing
	Payload  T        // nodes may carry a payload of arbitrary type
}

// ID returns the ID of the node.
func (node *Node[T]) ID() NodeID {
	return node.id
}

// Parent returns the parent's ID and true, or NoNode and false for a root.
func (node *Node[T]) Parent() (NodeID, bool) {
	return node.parent, node.parent != NoNode
}

// ChildCount returns the number of children of a node.
func (node *Node[T]) ChildCount() int {
	return len(node.children)
}

// Child returns the ID of the n-th child.
func (node *Node[T]) Child(n int) (NodeID, bool) {
	if n < 0 || n >= len(node.children) {
		return NoNode, false
	}
	return node.children[n], true
}

// Children returns the IDs of all children. Clients must not modify the
// returned slice.
func (node *Node[T]) Children() []NodeID {
	return node.children
}

// IndexOfChild returns the index of a child within the list of children,
// or -1.
func (node *Node[T]) IndexOfChild(ch NodeID) int {
	for i, c := range node.children {
		if c == ch {
			return i
		}
	}
	return -1
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node %d #ch=%d %v)", node.id, len(node.children), node.Payload)
}

// insertChildAt inserts ch at position i, shifting children at later positions.
func (node *Node[T]) insertChildAt(i int, ch NodeID) {
	node.children = append(node.children, NoNode) // make room for one child
	copy(node.children[i+1:], node.children[i:])  // shift i+1..n
	node.children[i] = ch
}

func (node *Node[T]) removeChild(ch NodeID) {
	if i := node.IndexOfChild(ch); i >= 0 {
		node.children = append(node.children[:i], node.children[i+1:]...)
	}
}
