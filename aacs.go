package aacs

import (
	"errors"
	"sort"
	"sync"
)

const (
	// tagValid prefixes an encapsulated content key so a trial decryption can
	// confirm it used the right node key.  Must stay exactly one cipher block.
	tagValid = "is_valid_aacskey"

	// tagSeparator marks the end of the key blocks and the start of the
	// encrypted content.
	tagSeparator = "END_OF_KEYS"
)

var (
	ErrInvalidSize       = errors.New("aacs: tree size must be at least 1")
	ErrUnknownNode       = errors.New("aacs: unknown node id")
	ErrKeyNotFound       = errors.New("aacs: content key not recoverable with held keys")
	ErrSeparatorNotFound = errors.New("aacs: key separator not found in stream")
)

// AACS owns a key tree together with the revocation state of its device
// population, and keeps the minimal cover of the valid set current.
//
// Revoke and Encrypt/Cover are mutually exclusive on a given instance;
// Decrypt only reads the immutable key table and needs no lock.
type AACS struct {
	mu      sync.RWMutex
	tree    *KeyTree
	valid   map[NodeID]bool
	revoked map[NodeID]bool
	cover   []NodeID
}

// NewAACS builds the system for n devices.  All leaves start valid, so the
// initial cover is just the root.
func NewAACS(n int) (*AACS, error) {
	tree, err := NewKeyTree(n)
	if err != nil {
		return nil, err
	}

	a := &AACS{
		tree:    tree,
		valid:   map[NodeID]bool{},
		revoked: map[NodeID]bool{},
	}
	for _, leaf := range tree.Leaves() {
		a.valid[leaf] = true
	}

	a.cover = a.computeCover()
	return a, nil
}

func (a *AACS) Tree() *KeyTree {
	return a.tree
}

// LeafForDevice maps an external 1-based device id onto its leaf.
func (a *AACS) LeafForDevice(deviceID int) NodeID {
	return a.tree.LeafForDevice(deviceID)
}

// Revoke moves a leaf from the valid set to the revoked set and rebuilds the
// cover.  Revoking a leaf that is already revoked, or an id that is not a
// leaf of this tree, is a no-op and returns false.
func (a *AACS) Revoke(leaf NodeID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.valid[leaf] {
		return false
	}

	delete(a.valid, leaf)
	a.revoked[leaf] = true
	a.cover = a.computeCover()
	return true
}

// Revoked reports whether a leaf has been revoked.
func (a *AACS) Revoked(leaf NodeID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.revoked[leaf]
}

// Cover returns the current cover of the valid set, ascending by node id.
func (a *AACS) Cover() []NodeID {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]NodeID, len(a.cover))
	copy(out, a.cover)
	return out
}

// computeCover rebuilds the minimal antichain of subtree roots whose leaves
// are exactly the valid set (the Complete Subtree method).  With nothing
// revoked that is just the root.  Otherwise the cover is the set of siblings
// hanging off the revoked leaves' root paths, excluding siblings that lie on
// such a path themselves; when both children of a node are revoked, the
// node's own subtree contributes nothing.
//
// Caller must hold the write lock (or be the constructor).
func (a *AACS) computeCover() []NodeID {
	if len(a.revoked) == 0 {
		return []NodeID{rootID}
	}

	onRevokedPath := map[NodeID]bool{}
	for leaf := range a.revoked {
		for _, node := range pathToRoot(leaf) {
			onRevokedPath[node] = true
		}
	}

	// A set merges the repeated siblings contributed by revoked leaves that
	// share ancestors.
	coverSet := map[NodeID]bool{}
	for leaf := range a.revoked {
		for _, node := range pathToRoot(leaf) {
			if node == rootID {
				continue
			}

			sib := siblingOf(node)
			if onRevokedPath[sib] {
				continue
			}
			coverSet[sib] = true
		}
	}

	// Ascending id order is load-bearing: it fixes the key-block order on
	// the wire.
	cover := make([]NodeID, 0, len(coverSet))
	for node := range coverSet {
		cover = append(cover, node)
	}
	sort.Slice(cover, func(i, j int) bool { return cover[i] < cover[j] })
	return cover
}
