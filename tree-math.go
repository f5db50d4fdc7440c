package aacs

// The below functions provide the index calculus for the key tree.  They are
// premised on the standard 1-indexed numbering of a complete binary tree: the
// root is node 1, the children of node i are 2i and 2i+1, and the leaves of a
// tree with 2^t leaves occupy the contiguous range [2^t, 2^(t+1)-1].  For
// example, a tree with 8 leaves has the following structure:
//
//                 1
//         2               3
//     4       5       6       7
//   8   9   a   b   c   d   e   f
//
// This allows us to compute relationships between tree nodes simply by
// manipulating indices, rather than having to maintain complicated structures
// in memory.  (The storage for a tree can just be a map[NodeID]TreeKey.)  The
// ascending-id order of this numbering is also the order in which cover nodes
// appear on the wire.

type NodeID uint32

const rootID NodeID = 1

// Parent of x; callers never invoke this on the root
func parentOf(x NodeID) NodeID {
	return x / 2
}

// Sibling of x
func siblingOf(x NodeID) NodeID {
	if x%2 == 0 {
		return x + 1
	}
	return x - 1
}

// Number of levels below the root for a tree with n leaves, i.e. ceil(log2(n))
func levelsFor(n int) uint {
	t := uint(0)
	for (1 << t) < n {
		t += 1
	}
	return t
}

// Direct path for x
// Ordered from x to root, including both.  Terminates for any id, including
// 0, whose parent is itself; key lookups reject such ids downstream.
func pathToRoot(x NodeID) []NodeID {
	d := []NodeID{x}
	for x > rootID {
		x = parentOf(x)
		d = append(d, x)
	}
	return d
}
