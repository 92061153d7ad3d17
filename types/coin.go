package types

import (
	"crypto/sha256"

	"verdin.dev/verdin/clvm"
)

// Coin is an immutable, once-spendable value record. Its identity is a hash
// of the parent coin's id, the puzzle commitment, and the amount.
type Coin struct {
	ParentCoinID Bytes32
	PuzzleHash   Bytes32
	Amount       uint64
}

// ID returns the coin's identifier:
// sha256(parent_coin_id || puzzle_hash || minimal-int(amount)).
func (c Coin) ID() Bytes32 {
	h := sha256.New()
	h.Write(c.ParentCoinID[:])
	h.Write(c.PuzzleHash[:])
	h.Write(clvm.EncodeUint(c.Amount))
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// CoinState is a coin plus its ledger visibility: when it was created and,
// if spent, when.
type CoinState struct {
	Coin          Coin
	CreatedHeight *uint32
	SpentHeight   *uint32
}

// Spent reports whether the coin has been spent.
func (s CoinState) Spent() bool { return s.SpentHeight != nil }
