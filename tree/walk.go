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
	"strconv"
	"strings"
)

// ErrPath is returned for malformed paths.
var ErrPath = errors.New("malformed path")

// Path addresses a node by child positions, starting at the root.
// The empty path addresses the root itself.
type Path []int

// ParsePath parses a path of the form "0/2/1". "" and "/" denote the
// empty path.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrPath, s)
		}
		p[i] = n
	}
	return p, nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return "/" + strings.Join(parts, "/")
}

// Parent returns the path of the parent and the child position, or false
// for the empty path.
func (p Path) Parent() (Path, int, bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}

// Resolve finds the node a path addresses.
func (a *Arena[T]) Resolve(p Path) (NodeID, bool) {
	id, ok := a.Root()
	if !ok {
		return NoNode, false
	}
	for _, i := range p {
		if id, ok = a.nodes[id].Child(i); !ok {
			return NoNode, false
		}
	}
	return id, true
}

// PathOf returns the path of a node, relative to the root of its tree.
func (a *Arena[T]) PathOf(id NodeID) Path {
	var rev Path
	for {
		n := a.MustNode(id)
		p, ok := n.Parent()
		if !ok {
			break
		}
		rev = append(rev, a.nodes[p].IndexOfChild(id))
		id = p
	}
	path := make(Path, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// PreOrder visits the subtree below start in document order, parents before
// children. If fn returns false, the children of the node are skipped.
func (a *Arena[T]) PreOrder(start NodeID, fn func(NodeID) bool) {
	stack := []NodeID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(id) {
			continue
		}
		ch := a.MustNode(id).children
		for i := len(ch) - 1; i >= 0; i-- {
			stack = append(stack, ch[i])
		}
	}
}

// PostOrder visits the subtree below start, children before parents.
// Siblings are visited in document order.
func (a *Arena[T]) PostOrder(start NodeID, fn func(NodeID)) {
	type entry struct {
		id   NodeID
		next int
	}
	stack := []entry{{id: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		ch := a.MustNode(top.id).children
		if top.next < len(ch) {
			c := ch[top.next]
			top.next++
			stack = append(stack, entry{id: c})
			continue
		}
		fn(top.id)
		stack = stack[:len(stack)-1]
	}
}

// Select collects, in document order, all nodes of the subtree below start
// for which pred holds.
func (a *Arena[T]) Select(start NodeID, pred func(NodeID, T) bool) []NodeID {
	var found []NodeID
	a.PreOrder(start, func(id NodeID) bool {
		if pred(id, a.nodes[id].Payload) {
			found = append(found, id)
		}
		return true
	})
	return found
}
