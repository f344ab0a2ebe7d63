package btree

// Delete removes key from the tree and reports whether it was present.
// A missing key is logged and leaves the tree unchanged.
func (tree *Tree) Delete(key uint16) bool {
	if !tree.Materialized() {
		if !tree.leafTree.remove(key) {
			tree.logMissing(key)
			return false
		}
		tree.count--
		return true
	}

	path := tree.descend(key)
	if !tree.arena.get(path[len(path)-1]).remove(key) {
		tree.logMissing(key)
		return false
	}
	tree.count--

	// walk back up, the root may underflow freely
	for i := len(path) - 1; i > 0; i-- {
		if tree.arena.get(path[i]).underflow() {
			tree.redistribute(path[i], path[i-1])
		}
	}
	tree.collapseRoot()
	tree.refreshRoot()
	return true
}

func (tree *Tree) logMissing(key uint16) {
	tree.treeLog().WithField("key", key).Info("delete: no such key")
}
