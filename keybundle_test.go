package aacs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBundleDecrypt(t *testing.T) {
	a, err := NewAACS(8)
	require.Nil(t, err)

	bundle, err := a.BundleFor(10)
	require.Nil(t, err)
	require.Equal(t, NodeID(10), bundle.LeafID)
	require.Len(t, bundle.Keys, 4)

	m := []byte("bundle holders decrypt without the tree")
	stream, err := a.Encrypt(m)
	require.Nil(t, err)

	out, err := bundle.Decrypt(stream)
	require.Nil(t, err)
	require.Equal(t, m, out)
}

func TestBundleRevoked(t *testing.T) {
	a, err := NewAACS(8)
	require.Nil(t, err)

	bundle, err := a.BundleFor(10)
	require.Nil(t, err)

	require.True(t, a.Revoke(10))
	stream, err := a.Encrypt([]byte("m"))
	require.Nil(t, err)

	// The bundle is a snapshot of the device's keys; revocation invalidates
	// it for new streams all the same
	_, err = bundle.Decrypt(stream)
	require.Equal(t, ErrKeyNotFound, err)
}

func TestBundleForUnknownNode(t *testing.T) {
	a, err := NewAACS(8)
	require.Nil(t, err)

	_, err = a.BundleFor(0)
	require.Equal(t, ErrUnknownNode, err)
	_, err = a.BundleFor(16)
	require.Equal(t, ErrUnknownNode, err)
}

func TestSealedBundleRoundTrip(t *testing.T) {
	a, err := NewAACS(8)
	require.Nil(t, err)

	bundle, err := a.BundleFor(13)
	require.Nil(t, err)

	sealed, err := SealKeyBundle(bundle, []byte("hunter2"))
	require.Nil(t, err)

	opened, err := OpenKeyBundle(sealed, []byte("hunter2"))
	require.Nil(t, err)
	require.Equal(t, bundle.LeafID, opened.LeafID)
	require.Equal(t, bundle.Keys, opened.Keys)

	stream, err := a.Encrypt([]byte("m"))
	require.Nil(t, err)
	out, err := opened.Decrypt(stream)
	require.Nil(t, err)
	require.Equal(t, []byte("m"), out)
}

func TestSealedBundleWrongPassphrase(t *testing.T) {
	a, err := NewAACS(8)
	require.Nil(t, err)

	bundle, err := a.BundleFor(13)
	require.Nil(t, err)

	sealed, err := SealKeyBundle(bundle, []byte("hunter2"))
	require.Nil(t, err)

	_, err = OpenKeyBundle(sealed, []byte("hunter3"))
	require.Error(t, err)
}

func TestSealedBundleTruncated(t *testing.T) {
	_, err := OpenKeyBundle(randomBytes(16), []byte("x"))
	require.Error(t, err)

	_, err = OpenKeyBundle([]byte{}, []byte("x"))
	require.Error(t, err)
}
