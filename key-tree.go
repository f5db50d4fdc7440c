package aacs

// KeyTree is a complete binary tree with one independently generated random
// key per node, root and internal nodes included.  The key table is populated
// at construction and never changes; this scheme does not rotate keys.
type KeyTree struct {
	n         int
	t         uint
	firstLeaf NodeID
	lastLeaf  NodeID
	nodes     map[NodeID]TreeKey
}

// NewKeyTree builds the tree for n devices.  The leaf level is rounded up to
// the next power of two so the tree stays complete; surplus leaves simply go
// unassigned.
func NewKeyTree(n int) (*KeyTree, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}

	t := levelsFor(n)
	tree := &KeyTree{
		n:         n,
		t:         t,
		firstLeaf: NodeID(1) << t,
		lastLeaf:  NodeID(1)<<(t+1) - 1,
		nodes:     map[NodeID]TreeKey{},
	}

	for id := rootID; id <= tree.lastLeaf; id += 1 {
		tree.nodes[id] = randomKey()
	}

	return tree, nil
}

// Levels is the number of levels below the root
func (tree *KeyTree) Levels() uint {
	return tree.t
}

func (tree *KeyTree) Depth() uint {
	return tree.t + 1
}

// Leaves returns the leaf ids in ascending order.
func (tree *KeyTree) Leaves() []NodeID {
	out := make([]NodeID, 0, tree.lastLeaf-tree.firstLeaf+1)
	for id := tree.firstLeaf; id <= tree.lastLeaf; id += 1 {
		out = append(out, id)
	}
	return out
}

// LeafForDevice maps an external 1-based device id onto its leaf.
func (tree *KeyTree) LeafForDevice(deviceID int) NodeID {
	return tree.firstLeaf + NodeID(deviceID) - 1
}

// PathToRoot returns the node ids from id up to and including the root.
func (tree *KeyTree) PathToRoot(id NodeID) []NodeID {
	return pathToRoot(id)
}

// KeyOf returns the key stored at id.
func (tree *KeyTree) KeyOf(id NodeID) (TreeKey, error) {
	key, ok := tree.nodes[id]
	if !ok {
		return TreeKey{}, ErrUnknownNode
	}
	return key, nil
}

// PathKeys returns the keys a device at the given node is entitled to hold:
// the keys along its path to the root, leaf first.
func (tree *KeyTree) PathKeys(id NodeID) ([]TreeKey, error) {
	path := tree.PathToRoot(id)
	keys := make([]TreeKey, 0, len(path))
	for _, node := range path {
		key, err := tree.KeyOf(node)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
