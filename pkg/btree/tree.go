package btree

import (
	"duchm1606/bptree/internal/util"

	"github.com/sirupsen/logrus"
)

// Tree is an in-memory B+tree mapping uint16 keys to uint16 values.
//
// A new tree starts in leaf-root phase: the whole index is one bare leaf and
// the arena is empty. The insert that overflows that leaf moves everything
// into the arena under an internal root with identifier RootID. The move is
// permanent.
//
// Tree is not safe for concurrent use.
type Tree struct {
	arena *arena
	// copy of arena[RootID], refreshed after every mutation
	root Node
	// the entire index while in leaf-root phase, nil afterwards
	leafTree *Node
	count    int
	log      logrus.FieldLogger
}

// New returns an empty tree in leaf-root phase.
func New(opts ...Option) *Tree {
	o := options{log: Log}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree{
		arena:    newArena(),
		leafTree: newNode(NodeTypeLeaf, nil, true),
		log:      o.log,
	}
}

// Materialized reports whether the tree has left leaf-root phase.
func (tree *Tree) Materialized() bool {
	return tree.leafTree == nil
}

// Len returns the number of keys in the tree.
func (tree *Tree) Len() int {
	return tree.count
}

// NodeCount returns the number of nodes held by the arena.
func (tree *Tree) NodeCount() int {
	return tree.arena.len()
}

// Root returns a copy of the root node. In leaf-root phase that is the single
// leaf holding the whole index.
func (tree *Tree) Root() Node {
	if !tree.Materialized() {
		return tree.leafTree.clone()
	}
	return tree.root.clone()
}

// Height returns the number of levels from the root to the leaves, leaves
// included.
func (tree *Tree) Height() int {
	if !tree.Materialized() {
		return 1
	}
	height := 1
	for node := &tree.root; !node.IsLeaf(); height++ {
		node = tree.arena.get(NodeID(node.entries[0].Value))
	}
	return height
}

// Entries returns a copy of the entries of node id. In leaf-root phase RootID
// names the single leaf.
func (tree *Tree) Entries(id NodeID) ([]Entry, bool) {
	if !tree.Materialized() {
		if id != RootID {
			return nil, false
		}
		return tree.leafTree.Entries(), true
	}
	node, ok := tree.arena.lookup(id)
	if !ok {
		return nil, false
	}
	return node.Entries(), true
}

// Search returns the leaf that would contain key and that leaf's parent.
// When the index is a single leaf both are RootID.
func (tree *Tree) Search(key uint16) (leaf NodeID, parent NodeID) {
	if !tree.Materialized() {
		return RootID, RootID
	}
	leaf, parent = RootID, RootID
	for node := &tree.root; !node.IsLeaf(); {
		parent = leaf
		leaf = node.childFor(key)
		node = tree.arena.get(leaf)
	}
	return leaf, parent
}

// Get a value by key
func (tree *Tree) Get(key uint16) (uint16, bool) {
	var node *Node
	if !tree.Materialized() {
		node = tree.leafTree
	} else {
		leaf, _ := tree.Search(key)
		node = tree.arena.get(leaf)
	}
	if idx := node.lookup(key); idx >= 0 {
		return node.entries[idx].Value, true
	}
	return 0, false
}

// descend records the identifiers from the root to the leaf for key
func (tree *Tree) descend(key uint16) []NodeID {
	path := []NodeID{RootID}
	for node := tree.arena.get(RootID); !node.IsLeaf(); {
		id := node.childFor(key)
		path = append(path, id)
		node = tree.arena.get(id)
	}
	return path
}

func (tree *Tree) refreshRoot() {
	root := tree.arena.get(RootID)
	util.Assert(root.isRoot, "refreshRoot: arena root is not flagged as root")
	tree.root = root.clone()
}

// number of fresh identifiers an insert into the leaf at the end of path
// may consume: one per split, two for growing the root
func (tree *Tree) splitsNeeded(path []NodeID) int {
	n := 0
	for i := len(path) - 1; i >= 0; i-- {
		node := tree.arena.get(path[i])
		if node.Len() < node.capacity() {
			return n
		}
		if i == 0 {
			return n + 2
		}
		n++
	}
	return n
}

// treeLog returns the logger with the tree's size attached.
func (tree *Tree) treeLog() logrus.FieldLogger {
	return tree.log.WithFields(logrus.Fields{
		"keys":  tree.count,
		"nodes": tree.arena.len(),
	})
}
