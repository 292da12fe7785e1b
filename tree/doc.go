/*
Package tree implements an arena of tree nodes addressed by stable integer IDs.

The arena is the sole owner of all nodes. Nodes refer to their parent and
children by NodeID only, so there are no reference cycles and a node can be
freed by dropping it from the arena. Nodes carry a payload of type parameter T.

Walks over the tree (pre-order, post-order, subtree removal) use explicit
stacks and worklists. Document depth is therefore not limited by the
goroutine stack.

Arenas are not safe for concurrent use.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'restyle.tree'.
func tracer() tracing.Trace {
	return tracing.Select("restyle.tree")
}
