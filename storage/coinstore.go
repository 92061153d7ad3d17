package storage

import (
	"context"

	"verdin.dev/verdin/types"
)

// CoinStore tracks coin states as observed from the ledger. Implementations
// must apply updates idempotently: re-applying the same coin state is a
// no-op, and a later update for the same coin id (e.g. one adding a spent
// height) replaces the earlier row.
type CoinStore interface {
	// ApplyUpdates upserts a batch of coin states atomically.
	ApplyUpdates(ctx context.Context, updates []types.CoinState) error

	// UnspentCoins lists every coin without a spent height.
	UnspentCoins(ctx context.Context) ([]types.Coin, error)

	// UnspentCoinsByPuzzleHash lists unspent coins carrying the given
	// puzzle commitment.
	UnspentCoinsByPuzzleHash(ctx context.Context, puzzleHash types.Bytes32) ([]types.Coin, error)

	// CoinState returns a coin's state by id, or ErrCoinNotFound.
	CoinState(ctx context.Context, coinID types.Bytes32) (types.CoinState, error)

	// IsUsed reports whether any coin with the given puzzle hash exists.
	IsUsed(ctx context.Context, puzzleHash types.Bytes32) (bool, error)
}
