package constants

// B+Tree Configuration
const (
	// Degree is the branching parameter D of the tree.
	Degree = 4

	// MinKey is the minimum number of entries in a non-root leaf.
	MinKey = Degree / 2

	// MaxKey is the maximum number of entries in a leaf.
	MaxKey = Degree

	// MinChild is the child floor of an internal node. Non-root internal nodes
	// must hold at least MinChild+1 entries.
	MinChild = (Degree + 1) / 2

	// MaxChild is the maximum number of entries in an internal node.
	MaxChild = Degree + 1
)

// Arena Configuration
const (
	// MaxNodeID is the largest identifier the arena can hand out.
	// Identifier 0 is reserved for the root.
	MaxNodeID = 1<<16 - 1
)
