// Package memstore provides an in-memory coin store, used by the ledger
// simulator and in tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/types"
)

// Store is an in-memory coin store. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	states map[types.Bytes32]types.CoinState
}

var _ storage.CoinStore = (*Store)(nil)

func New() *Store {
	return &Store{states: make(map[types.Bytes32]types.CoinState)}
}

func (s *Store) ApplyUpdates(ctx context.Context, updates []types.CoinState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range updates {
		s.states[st.Coin.ID()] = st
	}
	return nil
}

func (s *Store) UnspentCoins(ctx context.Context) ([]types.Coin, error) {
	return s.unspent(ctx, nil)
}

func (s *Store) UnspentCoinsByPuzzleHash(ctx context.Context, puzzleHash types.Bytes32) ([]types.Coin, error) {
	return s.unspent(ctx, &puzzleHash)
}

func (s *Store) unspent(ctx context.Context, puzzleHash *types.Bytes32) ([]types.Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Coin, 0)
	for _, st := range s.states {
		if st.Spent() {
			continue
		}
		if puzzleHash != nil && st.Coin.PuzzleHash != *puzzleHash {
			continue
		}
		out = append(out, st.Coin)
	}
	// Deterministic order for callers that iterate results.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ID(), out[j].ID()
		return string(a[:]) < string(b[:])
	})
	return out, nil
}

func (s *Store) CoinState(ctx context.Context, coinID types.Bytes32) (types.CoinState, error) {
	if err := ctx.Err(); err != nil {
		return types.CoinState{}, err
	}
	s.mu.RLock()
	st, ok := s.states[coinID]
	s.mu.RUnlock()
	if !ok {
		return types.CoinState{}, storage.ErrCoinNotFound
	}
	return st, nil
}

func (s *Store) IsUsed(ctx context.Context, puzzleHash types.Bytes32) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.states {
		if st.Coin.PuzzleHash == puzzleHash {
			return true, nil
		}
	}
	return false, nil
}
