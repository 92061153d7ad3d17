// Package ledger provides an in-process ledger simulator for driver tests
// and tooling. It tracks coin states in a storage.CoinStore, archives puzzle
// reveals in an optional storage.CAS, and validates spend bundles without a
// full program evaluator: it recognizes the shipped puzzle templates
// structurally and derives their outputs from the solutions.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/conditions"
	"verdin.dev/verdin/keys"
	"verdin.dev/verdin/launch"
	"verdin.dev/verdin/layers"
	"verdin.dev/verdin/puzzles"
	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/types"
)

// Simulator is an in-process ledger. Safe for concurrent use.
//
// Each PushBundle call is one block: every spend in the bundle is validated
// against current state, then spent coins and created coins land at the
// same new height.
type Simulator struct {
	mu      sync.Mutex
	store   storage.CoinStore
	reveals storage.CAS
	genesis types.Bytes32
	height  uint32
	minted  uint64
}

// Options configures a Simulator.
type Options struct {
	// Store holds coin states. Required.
	Store storage.CoinStore
	// Reveals, if set, archives every pushed puzzle reveal by CID.
	Reveals storage.CAS
	// GenesisChallenge salts spend digests so signatures do not replay
	// across simulated networks.
	GenesisChallenge types.Bytes32
}

func New(opts Options) (*Simulator, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("ledger: coin store is required")
	}
	return &Simulator{
		store:   opts.Store,
		reveals: opts.Reveals,
		genesis: opts.GenesisChallenge,
	}, nil
}

// GenesisChallenge returns the digest salt spends must sign against.
func (s *Simulator) GenesisChallenge() types.Bytes32 { return s.genesis }

// Height returns the current block height.
func (s *Simulator) Height() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// MintCoin creates an unspent coin out of thin air at a new height. The
// parent coin id is derived from a mint counter, so distinct mints never
// collide.
func (s *Simulator) MintCoin(ctx context.Context, puzzleHash types.Bytes32, amount uint64) (types.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := sha256.New()
	h.Write([]byte("verdin-mint"))
	h.Write(s.genesis[:])
	var counter [8]byte
	binary.BigEndian.PutUint64(counter[:], s.minted)
	h.Write(counter[:])
	var parent types.Bytes32
	h.Sum(parent[:0])

	coin := types.Coin{ParentCoinID: parent, PuzzleHash: puzzleHash, Amount: amount}
	s.height++
	s.minted++
	created := s.height
	st := types.CoinState{Coin: coin, CreatedHeight: &created}
	if err := s.store.ApplyUpdates(ctx, []types.CoinState{st}); err != nil {
		return types.Coin{}, err
	}
	return coin, nil
}

// CoinState returns a coin's state, or storage.ErrCoinNotFound.
func (s *Simulator) CoinState(ctx context.Context, coinID types.Bytes32) (types.CoinState, error) {
	return s.store.CoinState(ctx, coinID)
}

// UnspentCoins lists every unspent coin.
func (s *Simulator) UnspentCoins(ctx context.Context) ([]types.Coin, error) {
	return s.store.UnspentCoins(ctx)
}

// PushBundle validates bundle against current state and, on success,
// applies it as one block. It returns the coin states the block created.
//
// Validation:
//   - every spent coin exists and is unspent, and no coin is spent twice
//   - each puzzle reveal's tree hash matches the coin's puzzle commitment
//   - outputs come from the recognized templates' solutions
//   - the aggregate signature covers every recognized key's spend digest
func (s *Simulator) PushBundle(ctx context.Context, bundle types.SpendBundle) ([]types.CoinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(bundle.Spends) == 0 {
		return nil, fmt.Errorf("ledger: empty spend bundle")
	}

	var (
		spentIDs = make(map[types.Bytes32]bool, len(bundle.Spends))
		spent    []types.CoinState
		created  []types.Coin
		pubKeys  []*keys.PublicKey
		digests  [][]byte
	)
	for _, spend := range bundle.Spends {
		id := spend.Coin.ID()
		if spentIDs[id] {
			return nil, fmt.Errorf("ledger: coin %s spent twice in bundle", id)
		}
		spentIDs[id] = true

		st, err := s.store.CoinState(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("ledger: coin %s: %w", id, err)
		}
		if st.Spent() {
			return nil, fmt.Errorf("ledger: coin %s is already spent", id)
		}

		puzzle, err := clvm.Deserialize(spend.PuzzleReveal)
		if err != nil {
			return nil, fmt.Errorf("ledger: coin %s: bad puzzle reveal: %w", id, err)
		}
		if clvm.TreeHash(puzzle) != spend.Coin.PuzzleHash {
			return nil, fmt.Errorf("ledger: coin %s: puzzle reveal does not match commitment", id)
		}
		solution, err := clvm.Deserialize(spend.Solution)
		if err != nil {
			return nil, fmt.Errorf("ledger: coin %s: bad solution: %w", id, err)
		}

		outputs, signers, err := spendOutputs(spend.Coin, puzzle, solution)
		if err != nil {
			return nil, fmt.Errorf("ledger: coin %s: %w", id, err)
		}
		created = append(created, outputs...)
		for _, pk := range signers {
			pubKeys = append(pubKeys, pk)
			digests = append(digests, keys.SpendDigest(s.genesis, id, clvm.TreeHash(solution)))
		}
		spent = append(spent, st)
	}

	if len(pubKeys) > 0 {
		if !keys.VerifyAggregate(pubKeys, digests, bundle.Signature) {
			return nil, fmt.Errorf("ledger: aggregate signature verification failed")
		}
	}

	if s.reveals != nil {
		for _, spend := range bundle.Spends {
			if _, err := s.reveals.Put(spend.PuzzleReveal); err != nil {
				return nil, fmt.Errorf("ledger: archiving puzzle reveal: %w", err)
			}
		}
	}

	s.height++
	h := s.height
	updates := make([]types.CoinState, 0, len(spent)+len(created))
	for _, st := range spent {
		st.SpentHeight = &h
		updates = append(updates, st)
	}
	var out []types.CoinState
	for _, coin := range created {
		st := types.CoinState{Coin: coin, CreatedHeight: &h}
		updates = append(updates, st)
		out = append(out, st)
	}
	if err := s.store.ApplyUpdates(ctx, updates); err != nil {
		return nil, err
	}
	return out, nil
}

// spendOutputs derives the coins a spend creates and the keys that must
// sign it, by structural recognition of the shipped templates.
func spendOutputs(coin types.Coin, puzzle, solution *clvm.Node) ([]types.Coin, []*keys.PublicKey, error) {
	// Launcher coins announce exactly one child.
	if clvm.TreeHash(puzzle) == puzzles.LauncherPuzzleHash {
		childPuzzleHash, amount, err := launch.ParseLauncherSolution(solution)
		if err != nil {
			return nil, nil, err
		}
		child := types.Coin{ParentCoinID: coin.ID(), PuzzleHash: childPuzzleHash, Amount: amount}
		return []types.Coin{child}, nil, nil
	}

	if sl, err := layers.SingletonCodec(layers.OpaqueCodec()).FromPuzzle(puzzle); err != nil {
		return nil, nil, err
	} else if sl != nil {
		_, _, innerSolution, err := layers.ParseSingletonSolution(solution)
		if err != nil {
			return nil, nil, err
		}
		p2, err := layers.P2FromPuzzle(sl.Inner.Program)
		if err != nil {
			return nil, nil, err
		}
		if p2 == nil {
			// Recognized singleton over an unknown inner template.
			// Without an evaluator the spend has no derivable outputs.
			return nil, nil, nil
		}
		conds, err := layers.P2ParseSolution(innerSolution)
		if err != nil {
			return nil, nil, err
		}
		outputs := createdCoins(coin, conds, func(cc conditions.CreateCoin) types.Bytes32 {
			// Odd-amount outputs stay inside the singleton: the top
			// layer wraps the declared inner hash.
			if cc.Amount%2 == 1 {
				return layers.SingletonPuzzleHash(sl.LauncherID, cc.PuzzleHash)
			}
			return cc.PuzzleHash
		})
		return outputs, []*keys.PublicKey{p2.PublicKey}, nil
	}

	if p2, err := layers.P2FromPuzzle(puzzle); err != nil {
		return nil, nil, err
	} else if p2 != nil {
		conds, err := layers.P2ParseSolution(solution)
		if err != nil {
			return nil, nil, err
		}
		outputs := createdCoins(coin, conds, func(cc conditions.CreateCoin) types.Bytes32 {
			return cc.PuzzleHash
		})
		return outputs, []*keys.PublicKey{p2.PublicKey}, nil
	}

	// Unrecognized template: accepted, but it can declare no outputs.
	return nil, nil, nil
}

func createdCoins(parent types.Coin, conds []conditions.Condition, wrap func(conditions.CreateCoin) types.Bytes32) []types.Coin {
	var out []types.Coin
	for _, cc := range conditions.CreatedCoins(conds) {
		out = append(out, types.Coin{
			ParentCoinID: parent.ID(),
			PuzzleHash:   wrap(cc),
			Amount:       cc.Amount,
		})
	}
	return out
}
