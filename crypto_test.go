package aacs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPadRoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 31, 32, 50} {
		m := randomBytes(size)

		padded := pad(m)
		require.Equal(t, 0, len(padded)%aesBlockSize, "size=%d", size)
		require.True(t, len(padded) > len(m), "size=%d", size)

		out, err := unpad(padded)
		require.Nil(t, err, "size=%d", size)
		require.True(t, bytes.Equal(m, out), "size=%d", size)
	}
}

func TestPadAlignedAddsFullBlock(t *testing.T) {
	m := randomBytes(32)
	require.Equal(t, 48, len(pad(m)))
}

func TestUnpadRejectsGarbage(t *testing.T) {
	_, err := unpad([]byte{})
	require.Error(t, err)

	_, err = unpad(randomBytes(17))
	require.Error(t, err)

	// Pad byte claims more padding than a block can hold
	bad := randomBytes(16)
	bad[15] = 0xFF
	_, err = unpad(bad)
	require.Error(t, err)

	// Filler bytes must all carry the pad value
	bad = pad(make([]byte, 10))
	bad[12] ^= 0x01
	_, err = unpad(bad)
	require.Error(t, err)
}

func TestCBCRoundTrip(t *testing.T) {
	key := randomKey()
	pt := pad(randomBytes(50))

	iv, ct, err := encryptCBC(key[:], pt)
	require.Nil(t, err)
	require.Len(t, iv, ivSize)
	require.Equal(t, len(pt), len(ct))

	out, err := decryptCBC(key[:], iv, ct)
	require.Nil(t, err)
	require.Equal(t, pt, out)
}

func TestCBCRejectsRaggedInput(t *testing.T) {
	key := randomKey()

	_, _, err := encryptCBC(key[:], randomBytes(15))
	require.Error(t, err)

	_, err = decryptCBC(key[:], randomBytes(ivSize), randomBytes(17))
	require.Error(t, err)

	_, err = decryptCBC(key[:], randomBytes(8), randomBytes(16))
	require.Error(t, err)
}

func TestCBCFreshIVs(t *testing.T) {
	key := randomKey()
	pt := pad([]byte("same plaintext"))

	iv1, ct1, err := encryptCBC(key[:], pt)
	require.Nil(t, err)
	iv2, ct2, err := encryptCBC(key[:], pt)
	require.Nil(t, err)

	require.NotEqual(t, iv1, iv2)
	require.NotEqual(t, ct1, ct2)
}

func TestRandomKeysIndependent(t *testing.T) {
	require.NotEqual(t, randomKey(), randomKey())
}
