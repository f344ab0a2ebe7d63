package btree

import (
	"duchm1606/bptree/internal/constants"
	"duchm1606/bptree/internal/util"

	"github.com/cockroachdb/errors"
)

// NodeID identifies a node in the arena.
type NodeID uint16

// RootID is the identifier of the structural root.
const RootID NodeID = 0

// ErrNodeLimit is returned when the arena runs out of node identifiers.
var ErrNodeLimit = errors.New("btree: node identifier space exhausted")

// arena owns every node of a materialized tree. Nodes refer to each other by
// NodeID only. Identifiers of deallocated nodes go to a free list and are
// handed out again before the counter advances.
type arena struct {
	nodes map[NodeID]*Node
	next  uint32   // next never-used identifier, starts at 1
	free  []NodeID // deallocated identifiers, oldest first
	limit int      // identifiers available to non-root nodes
}

func newArena() *arena {
	return &arena{nodes: make(map[NodeID]*Node), next: 1, limit: constants.MaxNodeID}
}

// dereference an identifier
func (a *arena) get(id NodeID) *Node {
	node, ok := a.nodes[id]
	util.Assertf(ok, "arena: node %d not found", id)
	return node
}

func (a *arena) lookup(id NodeID) (*Node, bool) {
	node, ok := a.nodes[id]
	return node, ok
}

// install a node under an existing or reserved identifier
func (a *arena) put(id NodeID, node *Node) {
	a.nodes[id] = node
}

// alloc stores node under a recycled or fresh identifier. Callers reserve
// beforehand.
func (a *arena) alloc(node *Node) NodeID {
	util.Assertf(a.remaining() > 0, "arena: alloc without reservation (%d live)", a.live())
	id, ok := a.popHead()
	if !ok {
		util.Assertf(a.next <= constants.MaxNodeID, "arena: counter overflow (next=%d)", a.next)
		id = NodeID(a.next)
		a.next++
	}
	util.Assertf(a.nodes[id] == nil, "arena: node %d already exists", id)
	a.nodes[id] = node
	return id
}

// reserve fails if fewer than n identifiers are left.
func (a *arena) reserve(n int) error {
	if left := a.remaining(); n > left {
		return errors.Wrapf(ErrNodeLimit, "need %d identifiers, %d left", n, left)
	}
	return nil
}

// remaining counts the identifiers that can still go to new nodes. The root
// lives at RootID and never competes for one.
func (a *arena) remaining() int {
	return a.limit - a.live()
}

// number of live non-root nodes
func (a *arena) live() int {
	n := len(a.nodes)
	if _, ok := a.nodes[RootID]; ok {
		n--
	}
	return n
}

func (a *arena) del(id NodeID) {
	util.Assertf(id != RootID, "arena: the root cannot be deallocated")
	_, ok := a.nodes[id]
	util.Assertf(ok, "arena: double free of node %d", id)
	delete(a.nodes, id)
	a.pushTail(id)
}

func (a *arena) pushTail(id NodeID) {
	a.free = append(a.free, id)
}

// take the oldest freed identifier, if any
func (a *arena) popHead() (NodeID, bool) {
	if len(a.free) == 0 {
		return 0, false
	}
	id := a.free[0]
	a.free = a.free[1:]
	return id, true
}

func (a *arena) len() int {
	return len(a.nodes)
}
