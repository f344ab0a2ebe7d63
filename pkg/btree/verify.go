package btree

import (
	"math"

	"duchm1606/bptree/internal/constants"

	"github.com/cockroachdb/errors"
)

// Verify checks the structural invariants of the tree and returns the first
// violation found.
func (tree *Tree) Verify() error {
	if !tree.Materialized() {
		if n := tree.arena.len(); n != 0 {
			return errors.AssertionFailedf("leaf-root phase with %d arena nodes", n)
		}
		if tree.leafTree.Len() > constants.MaxKey {
			return errors.AssertionFailedf("leaf root holds %d entries", tree.leafTree.Len())
		}
		if tree.leafTree.Len() != tree.count {
			return errors.AssertionFailedf("leaf root holds %d entries, expected %d", tree.leafTree.Len(), tree.count)
		}
		return checkOrder(RootID, tree.leafTree.entries, 0, math.MaxUint16+1)
	}

	root, ok := tree.arena.lookup(RootID)
	if !ok {
		return errors.AssertionFailedf("materialized tree without a root")
	}
	if !root.equal(&tree.root) {
		return errors.AssertionFailedf("cached root %v differs from arena root %v", &tree.root, root)
	}

	v := verifier{tree: tree, seen: make(map[NodeID]bool), leafDepth: -1}
	if err := v.node(RootID, 0, 0, math.MaxUint16+1); err != nil {
		return err
	}
	if len(v.seen) != tree.arena.len() {
		return errors.AssertionFailedf("%d arena nodes, %d reachable", tree.arena.len(), len(v.seen))
	}
	if v.keys != tree.count {
		return errors.AssertionFailedf("%d keys in leaves, expected %d", v.keys, tree.count)
	}
	return nil
}

type verifier struct {
	tree      *Tree
	seen      map[NodeID]bool
	leafDepth int
	keys      int
}

// node checks the subtree at id. Keys must fall in [lo, hi).
func (v *verifier) node(id NodeID, depth int, lo, hi int) error {
	if v.seen[id] {
		return errors.AssertionFailedf("node %d referenced twice", id)
	}
	v.seen[id] = true
	node, ok := v.tree.arena.lookup(id)
	if !ok {
		return errors.AssertionFailedf("node %d referenced but not in the arena", id)
	}
	if node.isRoot != (id == RootID) {
		return errors.AssertionFailedf("node %d has root flag %t", id, node.isRoot)
	}
	if err := checkCapacity(id, node); err != nil {
		return err
	}

	if node.IsLeaf() {
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.AssertionFailedf("leaf %d at depth %d, expected %d", id, depth, v.leafDepth)
		}
		v.keys += node.Len()
		return checkOrder(id, node.entries, lo, hi)
	}

	last := node.Len() - 1
	if node.entries[last].Key != 0 {
		return errors.AssertionFailedf("internal node %d ends with separator %d", id, node.entries[last].Key)
	}
	bound := lo
	for i, e := range node.entries {
		upper := hi
		if i < last {
			upper = int(e.Key)
			if upper <= bound || upper >= hi {
				return errors.AssertionFailedf("internal node %d: separator %d outside (%d, %d)", id, e.Key, bound, hi)
			}
		}
		if err := v.node(NodeID(e.Value), depth+1, bound, upper); err != nil {
			return err
		}
		bound = upper
	}
	return nil
}

func checkCapacity(id NodeID, node *Node) error {
	n := node.Len()
	switch {
	case node.IsLeaf() && node.isRoot:
		if n > constants.MaxKey {
			return errors.AssertionFailedf("leaf root holds %d entries", n)
		}
	case node.IsLeaf():
		if n < constants.MinKey || n > constants.MaxKey {
			return errors.AssertionFailedf("leaf %d holds %d entries, want [%d, %d]", id, n, constants.MinKey, constants.MaxKey)
		}
	case node.isRoot:
		if n < 2 || n > constants.MaxChild {
			return errors.AssertionFailedf("internal root holds %d entries, want [2, %d]", n, constants.MaxChild)
		}
	default:
		if n < constants.MinChild+1 || n > constants.MaxChild {
			return errors.AssertionFailedf("internal node %d holds %d entries, want [%d, %d]", id, n, constants.MinChild+1, constants.MaxChild)
		}
	}
	return nil
}

func checkOrder(id NodeID, entries []Entry, lo, hi int) error {
	prev := lo - 1
	for _, e := range entries {
		k := int(e.Key)
		if k <= prev || k >= hi {
			return errors.AssertionFailedf("leaf %d: key %d out of order or outside [%d, %d)", id, k, lo, hi)
		}
		prev = k
	}
	return nil
}
