package btree

import (
	"slices"

	"duchm1606/bptree/internal/util"

	"github.com/sirupsen/logrus"
)

// Insert stores value under key, replacing the value if the key is present.
// It fails only when the arena cannot supply the identifiers the insert may
// need, in which case the tree is left untouched.
func (tree *Tree) Insert(key uint16, value uint16) error {
	kv := Entry{Key: key, Value: value}
	if !tree.Materialized() {
		return tree.insertLeafTree(kv)
	}

	path := tree.descend(key)
	leaf := tree.arena.get(path[len(path)-1])
	if idx := leaf.lookup(key); idx >= 0 {
		leaf.entries[idx].Value = value
		tree.refreshRoot()
		return nil
	}
	if err := tree.arena.reserve(tree.splitsNeeded(path)); err != nil {
		return err
	}

	leaf.upsert(kv)
	tree.count++
	// walk back up, the root is handled last
	for i := len(path) - 1; i > 0; i-- {
		if tree.arena.get(path[i]).overflow() {
			tree.split(path[i], path[i-1])
		}
	}
	if tree.arena.get(RootID).overflow() {
		tree.growRoot()
	}
	tree.refreshRoot()
	return nil
}

// insert while the whole index is one leaf
func (tree *Tree) insertLeafTree(kv Entry) error {
	util.Assert(!tree.leafTree.overflow(), "insertLeafTree: leaf root already overflowed")
	if tree.leafTree.upsert(kv) {
		return nil
	}
	tree.count++
	if !tree.leafTree.overflow() {
		return nil
	}
	// one leaf plus the sibling produced by its split
	if err := tree.arena.reserve(2); err != nil {
		tree.leafTree.remove(kv.Key)
		tree.count--
		return err
	}

	leafID := tree.arena.alloc(newNode(NodeTypeLeaf, tree.leafTree.entries, false))
	tree.arena.put(RootID, newNode(NodeTypeInternal, []Entry{{Key: 0, Value: uint16(leafID)}}, true))
	tree.leafTree = nil
	tree.treeLog().WithField("leaf", leafID).Debug("materialized leaf root")

	tree.split(leafID, RootID)
	tree.refreshRoot()
	return nil
}

// split moves the lower half of node into a new sibling that is linked into
// parent right before node. node keeps the upper half and its parent entry.
func (tree *Tree) split(id NodeID, parentID NodeID) {
	node := tree.arena.get(id)
	util.Assertf(node.Len() >= 2, "split: node %d has %d entries", id, node.Len())
	mid := node.Len() / 2

	lower := slices.Clone(node.entries[:mid])
	var divider uint16
	if node.IsLeaf() {
		// the first key kept by node
		divider = node.entries[mid].Key
	} else {
		// the last moved separator bounds the sibling, which gets a catch-all
		divider = lower[mid-1].Key
		lower[mid-1].Key = 0
	}
	node.entries = slices.Clone(node.entries[mid:])

	siblingID := tree.arena.alloc(newNode(node.btype, lower, false))
	parent := tree.arena.get(parentID)
	idx := parent.indexOfChild(id)
	parent.entries = slices.Insert(parent.entries, idx, Entry{Key: divider, Value: uint16(siblingID)})

	tree.treeLog().WithFields(logrus.Fields{
		"node":    id,
		"sibling": siblingID,
		"parent":  parentID,
		"divider": divider,
	}).Debugf("split %s", node.btype)
}

// growRoot adds a level: the root's entries move to a new node which becomes
// the root's only child, and that child is split.
func (tree *Tree) growRoot() {
	root := tree.arena.get(RootID)
	childID := tree.arena.alloc(newNode(root.btype, root.entries, false))
	tree.arena.put(RootID, newNode(NodeTypeInternal, []Entry{{Key: 0, Value: uint16(childID)}}, true))
	tree.treeLog().WithField("child", childID).Debug("grew root")

	tree.split(childID, RootID)
}
