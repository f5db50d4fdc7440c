package aacs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParentSibling(t *testing.T) {
	require.Equal(t, NodeID(4), parentOf(8))
	require.Equal(t, NodeID(4), parentOf(9))
	require.Equal(t, NodeID(1), parentOf(2))
	require.Equal(t, NodeID(1), parentOf(3))

	require.Equal(t, NodeID(9), siblingOf(8))
	require.Equal(t, NodeID(8), siblingOf(9))
	require.Equal(t, NodeID(3), siblingOf(2))
	require.Equal(t, NodeID(2), siblingOf(3))
}

func TestLevelsFor(t *testing.T) {
	cases := map[int]uint{
		1:  0,
		2:  1,
		3:  2,
		4:  2,
		5:  3,
		8:  3,
		9:  4,
		16: 4,
	}

	for n, want := range cases {
		require.Equal(t, want, levelsFor(n), "n=%d", n)
	}
}

func TestPathToRoot(t *testing.T) {
	require.Equal(t, []NodeID{1}, pathToRoot(1))
	require.Equal(t, []NodeID{8, 4, 2, 1}, pathToRoot(8))
	require.Equal(t, []NodeID{13, 6, 3, 1}, pathToRoot(13))

	// Paths from internal nodes are just as valid
	require.Equal(t, []NodeID{6, 3, 1}, pathToRoot(6))

	// Id 0 is its own parent; the walk must still terminate
	require.Equal(t, []NodeID{0}, pathToRoot(0))
}
