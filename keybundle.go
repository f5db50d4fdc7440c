package aacs

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/cisco/go-tls-syntax"
	"golang.org/x/crypto/pbkdf2"
)

// DeviceKeyBundle is the key material a single device is provisioned with:
// its leaf id and the keys along its path to the root, leaf first.  A device
// holding a bundle can decrypt broadcasts without any access to the tree.
type DeviceKeyBundle struct {
	LeafID NodeID
	Keys   []TreeKey `tls:"head=2"`
}

// BundleFor extracts the bundle for the device at the given leaf.
func (a *AACS) BundleFor(leaf NodeID) (*DeviceKeyBundle, error) {
	keys, err := a.tree.PathKeys(leaf)
	if err != nil {
		return nil, err
	}
	return &DeviceKeyBundle{LeafID: leaf, Keys: keys}, nil
}

// Decrypt recovers a broadcast message using only the bundle's keys.
func (b *DeviceKeyBundle) Decrypt(stream []byte) ([]byte, error) {
	return decryptWithKeys(b.Keys, stream)
}

///
/// Sealed bundle files
///

// Sealed form: salt(16) || IV(16) || AES-CBC ciphertext of
// pad(tagValid || syntax.Marshal(bundle)), keyed from the passphrase.
const (
	bundleSaltSize = 16
	bundleKDFIters = 4096
)

func bundleKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, bundleKDFIters, keySize, sha256.New)
}

// SealKeyBundle serializes a bundle and encrypts it under a key derived from
// the passphrase, for handing off to the device out of band.
func SealKeyBundle(b *DeviceKeyBundle, passphrase []byte) ([]byte, error) {
	enc, err := syntax.Marshal(*b)
	if err != nil {
		return nil, err
	}

	salt := randomBytes(bundleSaltSize)
	plaintext := append([]byte(tagValid), enc...)
	iv, ct, err := encryptCBC(bundleKey(passphrase, salt), pad(plaintext))
	if err != nil {
		return nil, err
	}

	out := NewWriteStream()
	out.AppendAll(salt, iv, ct)
	return out.Data(), nil
}

// OpenKeyBundle decrypts and deserializes a sealed bundle.  The validity tag
// inside the plaintext confirms the passphrase before parsing.
func OpenKeyBundle(data, passphrase []byte) (*DeviceKeyBundle, error) {
	s := NewReadStream(data)
	salt, okSalt := s.Take(bundleSaltSize)
	iv, okIV := s.Take(ivSize)
	if !okSalt || !okIV || s.Remaining() < aesBlockSize {
		return nil, fmt.Errorf("aacs: truncated key bundle (%d bytes)", len(data))
	}

	pt, err := decryptCBC(bundleKey(passphrase, salt), iv, s.Rest())
	if err != nil {
		return nil, err
	}

	pt, err = unpad(pt)
	if err != nil || !bytes.HasPrefix(pt, []byte(tagValid)) {
		return nil, fmt.Errorf("aacs: wrong passphrase or corrupted bundle")
	}

	var b DeviceKeyBundle
	if _, err := syntax.Unmarshal(pt[len(tagValid):], &b); err != nil {
		return nil, err
	}
	return &b, nil
}
