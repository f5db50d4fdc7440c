package aacs

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

const (
	// AES-128 throughout: keys, IVs and cipher blocks are all 16 bytes
	keySize      = 16
	ivSize       = 16
	aesBlockSize = 16
)

// TreeKey is the symmetric key assigned to a single tree node.
type TreeKey [keySize]byte

func randomBytes(size int) []byte {
	out := make([]byte, size)
	if _, err := rand.Read(out); err != nil {
		panic(err)
	}
	return out
}

func randomKey() TreeKey {
	var k TreeKey
	copy(k[:], randomBytes(keySize))
	return k
}

// encryptCBC encrypts a block-aligned plaintext under key with AES-128-CBC,
// generating a fresh random IV.
func encryptCBC(key, plaintext []byte) (iv, ciphertext []byte, err error) {
	if len(plaintext)%aesBlockSize != 0 {
		return nil, nil, fmt.Errorf("aacs: plaintext length %d is not block-aligned", len(plaintext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	iv = randomBytes(ivSize)
	ciphertext = make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)
	return iv, ciphertext, nil
}

func decryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != ivSize {
		return nil, fmt.Errorf("aacs: IV length %d, want %d", len(iv), ivSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aesBlockSize != 0 {
		return nil, fmt.Errorf("aacs: ciphertext length %d is not block-aligned", len(ciphertext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}

// pad extends m to a multiple of the cipher block size.  A full block of
// padding is added when m is already aligned, so unpad is unambiguous.  The
// pad byte holds padLength-1, repeated padLength times.
func pad(m []byte) []byte {
	p := aesBlockSize - len(m)%aesBlockSize
	out := make([]byte, len(m)+p)
	copy(out, m)
	for i := len(m); i < len(out); i += 1 {
		out[i] = byte(p - 1)
	}
	return out
}

func unpad(m []byte) ([]byte, error) {
	if len(m) == 0 || len(m)%aesBlockSize != 0 {
		return nil, fmt.Errorf("aacs: padded input length %d is not block-aligned", len(m))
	}

	p := int(m[len(m)-1]) + 1
	if p > aesBlockSize || p > len(m) {
		return nil, fmt.Errorf("aacs: invalid padding")
	}
	for _, v := range m[len(m)-p:] {
		if v != byte(p-1) {
			return nil, fmt.Errorf("aacs: inconsistent padding")
		}
	}
	return m[:len(m)-p], nil
}
