package btree

import (
	"fmt"
	"slices"

	"duchm1606/bptree/internal/constants"
	"duchm1606/bptree/internal/util"
)

/**
* Node data structure
* 1. Type: Internal or Leaf, fixed for the lifetime of the node.
* 2. Entries: ordered list of (key, value) pairs.
* - Leaf: key is the indexed key, value is the payload.
* - Internal: key is a separator, value is a child NodeID.
*
* Internal layout. A separator is the exclusive upper bound of its child,
* the last entry is the catch-all and carries the sentinel key 0:
*
* | sep0 -> c0 | sep1 -> c1 | ... | 0 -> cN |
* | k < sep0   | k < sep1   | ... | rest    |
 */

// Entry is a key/value pair. In internal nodes the value is a child NodeID.
type Entry struct {
	Key   uint16
	Value uint16
}

func (e Entry) String() string {
	return fmt.Sprintf("%d=%d", e.Key, e.Value)
}

// NodeType tags a node as internal or leaf.
type NodeType uint8

// Node Types
const (
	NodeTypeInternal NodeType = 1 // internal nodes, values are child ids
	NodeTypeLeaf     NodeType = 2 // leaf nodes with payloads
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeInternal:
		return "internal"
	case NodeTypeLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
}

// Node is a tagged list of entries.
type Node struct {
	btype   NodeType
	entries []Entry
	isRoot  bool
}

func newNode(btype NodeType, entries []Entry, isRoot bool) *Node {
	return &Node{btype: btype, entries: slices.Clone(entries), isRoot: isRoot}
}

// Type returns the node type.
func (node *Node) Type() NodeType { return node.btype }

// IsLeaf reports whether the node is a leaf.
func (node *Node) IsLeaf() bool { return node.btype == NodeTypeLeaf }

// IsRoot reports whether the node is the structural root.
func (node *Node) IsRoot() bool { return node.isRoot }

// Len returns the number of entries.
func (node *Node) Len() int { return len(node.entries) }

// Entries returns a copy of the node's entries.
func (node *Node) Entries() []Entry { return slices.Clone(node.entries) }

func (node *Node) clone() Node {
	return Node{btype: node.btype, entries: slices.Clone(node.entries), isRoot: node.isRoot}
}

func (node *Node) equal(other *Node) bool {
	return node.btype == other.btype && node.isRoot == other.isRoot &&
		slices.Equal(node.entries, other.entries)
}

func (node *Node) overflow() bool {
	if node.IsLeaf() {
		return len(node.entries) > constants.MaxKey
	}
	return len(node.entries) > constants.MaxChild
}

func (node *Node) underflow() bool {
	if node.IsLeaf() {
		return len(node.entries) < constants.MinKey
	}
	return len(node.entries) < constants.MinChild+1
}

// number of entries a node of this type can hold
func (node *Node) capacity() int {
	if node.IsLeaf() {
		return constants.MaxKey
	}
	return constants.MaxChild
}

// childFor selects the child whose subtree may contain key. Entries other than
// the last are scanned in order and the first separator above key wins; the
// last entry takes everything else.
func (node *Node) childFor(key uint16) NodeID {
	util.Assertf(!node.IsLeaf(), "childFor: leaf nodes have no children")
	util.Assertf(len(node.entries) > 0, "childFor: internal node without entries")

	last := len(node.entries) - 1
	for i := 0; i < last; i++ {
		if key < node.entries[i].Key {
			return NodeID(node.entries[i].Value)
		}
	}
	return NodeID(node.entries[last].Value)
}

// lookup returns the index of key, or -1.
func (node *Node) lookup(key uint16) int {
	for i, e := range node.entries {
		if e.Key == key {
			return i
		}
		if e.Key > key {
			break
		}
	}
	return -1
}

// upsert places e at its sorted position, replacing the value of an equal key.
// It reports whether an existing entry was updated.
func (node *Node) upsert(e Entry) bool {
	idx := len(node.entries)
	for i, cur := range node.entries {
		if cur.Key == e.Key {
			node.entries[i].Value = e.Value
			return true
		}
		if e.Key < cur.Key {
			idx = i
			break
		}
	}
	node.entries = slices.Insert(node.entries, idx, e)
	return false
}

// remove deletes the first entry with the given key.
func (node *Node) remove(key uint16) bool {
	for i, e := range node.entries {
		if e.Key == key {
			node.entries = slices.Delete(node.entries, i, i+1)
			return true
		}
	}
	return false
}

// position of the entry pointing at child
func (node *Node) indexOfChild(child NodeID) int {
	util.Assertf(!node.IsLeaf(), "indexOfChild: node %v is not internal", node)
	idx := slices.IndexFunc(node.entries, func(e Entry) bool { return NodeID(e.Value) == child })
	util.Assertf(idx >= 0, "indexOfChild: child %d not referenced by parent %v", child, node)
	return idx
}

func (node *Node) String() string {
	return fmt.Sprintf("%s%v", node.btype, node.entries)
}
