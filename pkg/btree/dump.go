package btree

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Dump writes an indented rendering of the tree to w.
//
//	internal 0
//	  3 -> 2
//	    leaf 2: 1=100 2=100
//	  0 -> 1
//	    leaf 1: 3=100 4=100 5=100
func (tree *Tree) Dump(w io.Writer) error {
	_, err := io.WriteString(w, tree.String())
	return errors.Wrap(err, "dump")
}

func (tree *Tree) String() string {
	var b strings.Builder
	if !tree.Materialized() {
		b.WriteString("leaf-root:")
		writeEntries(&b, tree.leafTree.entries)
		return b.String()
	}
	tree.dumpNode(&b, RootID, 0)
	return b.String()
}

func (tree *Tree) dumpNode(b *strings.Builder, id NodeID, depth int) {
	indent := strings.Repeat("  ", depth)
	node := tree.arena.get(id)
	if node.IsLeaf() {
		fmt.Fprintf(b, "%sleaf %d:", indent, id)
		writeEntries(b, node.entries)
		return
	}
	fmt.Fprintf(b, "%sinternal %d\n", indent, id)
	for _, e := range node.entries {
		fmt.Fprintf(b, "%s  %d -> %d\n", indent, e.Key, e.Value)
		tree.dumpNode(b, NodeID(e.Value), depth+2)
	}
}

func writeEntries(b *strings.Builder, entries []Entry) {
	if len(entries) == 0 {
		b.WriteString(" (empty)")
	}
	for _, e := range entries {
		fmt.Fprintf(b, " %s", e)
	}
	b.WriteByte('\n')
}
