package aacs

import (
	"bytes"
	"fmt"
)

// Each key block carries the content key sealed under one cover node's key:
//
//   KeyBlock := IV(16) || E_ku(tagValid(16) || contentKey(16))
//
// The full broadcast is the key blocks in cover order, the literal separator,
// then IV(16) || E_k(pad(message)).  There is no count field; the decoder
// discovers the boundary by scanning for the separator at key-block strides.
// If the separator bytes happen to appear at a block-aligned offset inside a
// key block or inside the content ciphertext, the scan misparses; the format
// accepts that risk in exchange for staying self-delimiting.
const keyBlockSize = ivSize + len(tagValid) + keySize

// Encrypt seals m so that every currently valid device can recover it.  A
// fresh content key is sealed once per cover node, then m is encrypted under
// the content key.
func (a *AACS) Encrypt(m []byte) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	k := randomKey()
	sealed := append([]byte(tagValid), k[:]...)

	out := NewWriteStream()
	for _, u := range a.cover {
		ku, err := a.tree.KeyOf(u)
		if err != nil {
			return nil, err
		}

		iv, ct, err := encryptCBC(ku[:], sealed)
		if err != nil {
			return nil, err
		}
		out.AppendAll(iv, ct)
	}

	out.Append([]byte(tagSeparator))

	iv, ct, err := encryptCBC(k[:], pad(m))
	if err != nil {
		return nil, err
	}
	out.AppendAll(iv, ct)

	return out.Data(), nil
}

// Decrypt recovers the message on behalf of the device at the given node,
// using the keys along that node's path to the root.  A revoked device, or
// one foreign to this tree's broadcast, fails with ErrKeyNotFound.
func (a *AACS) Decrypt(node NodeID, stream []byte) ([]byte, error) {
	known, err := a.tree.PathKeys(node)
	if err != nil {
		return nil, err
	}
	return decryptWithKeys(known, stream)
}

// decryptWithKeys is the trial-decryption scan shared by the engine and
// provisioned devices.  Two phases over one cursor: stride over key blocks
// attempting each held key until the content key is recovered, then keep
// striding purely to locate the separator.
func decryptWithKeys(known []TreeKey, stream []byte) ([]byte, error) {
	s := NewReadStream(stream)
	separator := []byte(tagSeparator)

	var contentKey []byte
	separatorFound := false
	for !s.Exhausted() {
		if s.HasPrefix(separator) {
			separatorFound = true
			break
		}

		block, ok := s.Take(keyBlockSize)
		if !ok {
			// Ragged tail with no separator in sight
			break
		}

		if contentKey != nil {
			continue
		}

		// Trial-decrypt this block under every held key, leaf to root.  The
		// right key reveals the validity tag.
		iv, ct := block[:ivSize], block[ivSize:]
		for _, ku := range known {
			pt, err := decryptCBC(ku[:], iv, ct)
			if err != nil {
				return nil, err
			}

			if bytes.HasPrefix(pt, []byte(tagValid)) {
				contentKey = pt[len(tagValid):]
				break
			}
		}
	}

	if !separatorFound {
		return nil, ErrSeparatorNotFound
	}
	if contentKey == nil {
		return nil, ErrKeyNotFound
	}

	s.Skip(len(separator))
	content := s.Rest()
	if len(content) < ivSize+aesBlockSize {
		return nil, fmt.Errorf("aacs: truncated content segment (%d bytes)", len(content))
	}

	pt, err := decryptCBC(contentKey, content[:ivSize], content[ivSize:])
	if err != nil {
		return nil, err
	}
	return unpad(pt)
}
