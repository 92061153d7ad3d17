// Package types defines the ledger-facing value types shared across the
// driver: coins, spends, lineage proofs, and coin states. All types are
// immutable values with deterministic binary and CLVM encodings.
package types

import "verdin.dev/verdin/clvm"

// Bytes32 is a 32-byte identifier: a coin id, puzzle commitment, or other
// structural hash. It shares its representation with clvm.Hash.
type Bytes32 = clvm.Hash

// Bytes32FromBytes converts a 32-byte slice.
func Bytes32FromBytes(b []byte) (Bytes32, error) {
	return clvm.HashFromBytes(b)
}

// Bytes32FromHex parses a 64-character hex string.
func Bytes32FromHex(s string) (Bytes32, error) {
	return clvm.HashFromHex(s)
}
