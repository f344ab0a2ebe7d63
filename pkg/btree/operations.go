package btree

import (
	"slices"

	"duchm1606/bptree/internal/util"

	"github.com/sirupsen/logrus"
)

// redistribute fixes an underflowing node by merging it with a sibling or by
// borrowing one entry from it. The first child pairs with its right
// neighbour, every other child with its left neighbour.
func (tree *Tree) redistribute(id NodeID, parentID NodeID) {
	parent := tree.arena.get(parentID)
	util.Assertf(parent.Len() >= 2, "redistribute: parent %d of node %d has no other child", parentID, id)

	idx := parent.indexOfChild(id)
	if idx == 0 {
		tree.rebalanceWithRight(parent, id, NodeID(parent.entries[1].Value))
	} else {
		tree.rebalanceWithLeft(parent, idx, NodeID(parent.entries[idx-1].Value), id)
	}
}

// rebalanceWithRight handles an underflowing first child. The partner on its
// right either absorbs it or lends it its first entry.
func (tree *Tree) rebalanceWithRight(parent *Node, id NodeID, rightID NodeID) {
	node, right := tree.arena.get(id), tree.arena.get(rightID)
	util.Assertf(node.btype == right.btype, "rebalance: siblings %d and %d differ in type", id, rightID)
	// the separator of node bounds everything it holds
	divider := parent.entries[0].Key
	log := tree.treeLog().WithFields(logrus.Fields{"node": id, "sibling": rightID})

	if node.Len()+right.Len() <= node.capacity() {
		merged := append(slices.Clone(node.entries), right.entries...)
		if !node.IsLeaf() {
			merged[node.Len()-1].Key = divider
		}
		right.entries = merged
		tree.arena.del(id)
		parent.entries = slices.Delete(parent.entries, 0, 1)
		log.Debugf("merged %s into right sibling", node.btype)
		return
	}

	moved := right.entries[0]
	right.entries = slices.Delete(right.entries, 0, 1)
	if node.IsLeaf() {
		node.entries = append(node.entries, moved)
		parent.entries[0].Key = right.entries[0].Key
	} else {
		// node's catch-all now ends at the old separator and the moved child
		// becomes the new catch-all
		node.entries[node.Len()-1].Key = divider
		parent.entries[0].Key = moved.Key
		moved.Key = 0
		node.entries = append(node.entries, moved)
	}
	log.WithField("separator", parent.entries[0].Key).Debugf("borrowed from right %s", node.btype)
}

// rebalanceWithLeft handles an underflowing child at parent index idx > 0.
// The partner on its left either merges into it or lends it its last entry.
func (tree *Tree) rebalanceWithLeft(parent *Node, idx int, leftID NodeID, id NodeID) {
	left, node := tree.arena.get(leftID), tree.arena.get(id)
	util.Assertf(node.btype == left.btype, "rebalance: siblings %d and %d differ in type", leftID, id)
	// the separator of the left partner sits between the two
	divider := parent.entries[idx-1].Key
	log := tree.treeLog().WithFields(logrus.Fields{"node": id, "sibling": leftID})

	if left.Len()+node.Len() <= node.capacity() {
		merged := append(slices.Clone(left.entries), node.entries...)
		if !node.IsLeaf() {
			merged[left.Len()-1].Key = divider
		}
		node.entries = merged
		tree.arena.del(leftID)
		parent.entries = slices.Delete(parent.entries, idx-1, idx)
		log.Debugf("merged left sibling into %s", node.btype)
		return
	}

	last := left.Len() - 1
	moved := left.entries[last]
	left.entries = slices.Delete(left.entries, last, last+1)
	if node.IsLeaf() {
		parent.entries[idx-1].Key = moved.Key
	} else {
		// the left partner's new last child becomes its catch-all and the
		// moved child is bounded by the old separator
		last--
		parent.entries[idx-1].Key = left.entries[last].Key
		left.entries[last].Key = 0
		moved.Key = divider
	}
	node.entries = slices.Insert(node.entries, 0, moved)
	log.WithField("separator", parent.entries[idx-1].Key).Debugf("borrowed from left %s", node.btype)
}

// collapseRoot removes a level when the root is left with a single child.
// The child, internal or leaf, takes the root's place.
func (tree *Tree) collapseRoot() {
	root := tree.arena.get(RootID)
	if root.IsLeaf() || root.Len() > 1 {
		return
	}
	util.Assert(root.Len() == 1, "collapseRoot: internal root without children")

	childID := NodeID(root.entries[0].Value)
	child := tree.arena.get(childID)
	tree.arena.put(RootID, newNode(child.btype, child.entries, true))
	tree.arena.del(childID)
	tree.treeLog().WithFields(logrus.Fields{"child": childID, "type": child.btype}).Debug("collapsed root")
}
