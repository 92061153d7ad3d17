// Package keys provides spend-key derivation and BLS signing for spend
// bundles.
//
// Keys are BLS12-381 (public keys in G1, signatures in G2). Derivation is
// deterministic: a root seed plus a key index always yields the same spend
// key, so a wallet can be reconstructed from its root seed alone.
package keys

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/bls"
)

// SeedSize is the required root seed length in bytes.
const SeedSize = 32

// PrivateKey and PublicKey fix the curve roles used throughout: public keys
// in G1, signatures in G2.
type (
	PrivateKey = bls.PrivateKey[bls.G1]
	PublicKey  = bls.PublicKey[bls.G1]
)

const derivationLabel = "verdin-spend-key-v1"

// DeriveSpendSeed deterministically derives the seed for the index-th spend
// key from a root seed.
func DeriveSpendSeed(rootSeed []byte, index uint32) ([]byte, error) {
	if len(rootSeed) != SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", SeedSize)
	}
	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(derivationLabel))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte{
		byte(index >> 24), byte(index >> 16), byte(index >> 8), byte(index),
	})
	sum := h.Sum(nil)
	if len(sum) < SeedSize {
		return nil, errors.New("kdf output too short")
	}
	out := make([]byte, SeedSize)
	copy(out, sum[:SeedSize])
	return out, nil
}

// GenerateKey derives a BLS private key from a seed.
func GenerateKey(seed []byte) (*bls.PrivateKey[bls.G1], error) {
	if len(seed) < SeedSize {
		return nil, fmt.Errorf("seed must be at least %d bytes", SeedSize)
	}
	return bls.KeyGen[bls.G1](seed, []byte(derivationLabel), nil)
}

// SpendKey derives the index-th spend key from a root seed in one step.
func SpendKey(rootSeed []byte, index uint32) (*bls.PrivateKey[bls.G1], error) {
	seed, err := DeriveSpendSeed(rootSeed, index)
	if err != nil {
		return nil, err
	}
	return GenerateKey(seed)
}
