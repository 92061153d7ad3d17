package ledger

import (
	"context"

	"verdin.dev/verdin/types"
)

// Ledger is the operation surface shared by the in-process simulator and
// the gRPC client, so wallet code runs unchanged against either.
type Ledger interface {
	MintCoin(ctx context.Context, puzzleHash types.Bytes32, amount uint64) (types.Coin, error)
	CoinState(ctx context.Context, coinID types.Bytes32) (types.CoinState, error)
	UnspentCoins(ctx context.Context) ([]types.Coin, error)
	PushBundle(ctx context.Context, bundle types.SpendBundle) ([]types.CoinState, error)
}

var _ Ledger = (*Simulator)(nil)
