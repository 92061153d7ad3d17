package clvm

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash is a 32-byte structural digest of a program tree. Two trees with the
// same Hash are interchangeable as commitments.
type Hash [32]byte

// String returns the lowercase hex form.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns a fresh copy of the digest.
func (h Hash) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, h[:])
	return out
}

// HashFromBytes converts a 32-byte slice into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != 32 {
		return h, fmt.Errorf("clvm: hash must be 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// HashFromHex parses a 64-character hex digest.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	return HashFromBytes(b)
}

// Domain prefixes for the structural hash. An atom hashes as
// sha256(0x01 || bytes); a pair hashes as sha256(0x02 || hash(first) || hash(rest)).
const (
	atomPrefix = 0x01
	pairPrefix = 0x02
)

// TreeHash returns the structural hash of n.
func TreeHash(n *Node) Hash {
	if !n.pair {
		return HashAtom(n.atom)
	}
	return HashPair(TreeHash(n.first), TreeHash(n.rest))
}

// HashAtom returns the structural hash of an atom with the given bytes.
func HashAtom(b []byte) Hash {
	h := sha256.New()
	h.Write([]byte{atomPrefix})
	h.Write(b)
	var out Hash
	h.Sum(out[:0])
	return out
}

// HashPair returns the structural hash of a pair from its children's hashes.
func HashPair(first, rest Hash) Hash {
	h := sha256.New()
	h.Write([]byte{pairPrefix})
	h.Write(first[:])
	h.Write(rest[:])
	var out Hash
	h.Sum(out[:0])
	return out
}
