// Package launch creates singletons. A launcher is a one-time coin carrying
// the fixed launcher puzzle; spending it creates the singleton's eve coin
// and fixes the singleton's identity (the launcher coin's id) forever.
package launch

import (
	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/conditions"
	"verdin.dev/verdin/layers"
	"verdin.dev/verdin/puzzles"
	"verdin.dev/verdin/types"
)

// Launcher describes the one-time launch coin before it exists: the parent
// coin that will fund it and the amount it will carry (odd by convention,
// typically 1).
type Launcher struct {
	ParentCoinID types.Bytes32
	Amount       uint64
}

// New returns a launcher funded by the given parent coin.
func New(parentCoinID types.Bytes32, amount uint64) Launcher {
	return Launcher{ParentCoinID: parentCoinID, Amount: amount}
}

// Coin returns the launcher coin itself. Its id is the launcher id of the
// singleton being created.
func (l Launcher) Coin() types.Coin {
	return types.Coin{
		ParentCoinID: l.ParentCoinID,
		PuzzleHash:   puzzles.LauncherPuzzleHash,
		Amount:       l.Amount,
	}
}

// CreationCondition is the CREATE_COIN the funding parent's spend must
// declare for the launcher coin to exist.
func (l Launcher) CreationCondition() conditions.CreateCoin {
	return conditions.CreateCoin{
		PuzzleHash: puzzles.LauncherPuzzleHash,
		Amount:     l.Amount,
	}
}

// Result is everything a launch produces: the launcher's own spend, the
// predicted eve coin, and the eve proof the first singleton spend must
// carry.
type Result struct {
	LauncherSpend types.CoinSpend
	EveCoin       types.Coin
	Proof         types.EveProof
}

// Launch spends the launcher coin into the singleton's eve coin. The
// singleton wraps an inner puzzle with the given commitment; metadata, when
// non-nil, is announced in the launcher solution's key-value list. The eve
// coin is predicted purely from hashes; nothing is broadcast here.
func (l Launcher) Launch(innerPuzzleHash clvm.Hash, metadata *clvm.Node) (Result, error) {
	launcherCoin := l.Coin()
	launcherID := launcherCoin.ID()

	fullPuzzleHash := layers.SingletonPuzzleHash(launcherID, innerPuzzleHash)

	if metadata == nil {
		metadata = clvm.Nil()
	}
	solution := clvm.List(
		clvm.Atom(fullPuzzleHash[:]),
		clvm.Uint(l.Amount),
		metadata,
	)

	spend := types.CoinSpend{
		Coin:         launcherCoin,
		PuzzleReveal: clvm.Serialize(puzzles.SingletonLauncher()),
		Solution:     clvm.Serialize(solution),
	}

	eveCoin := types.Coin{
		ParentCoinID: launcherID,
		PuzzleHash:   fullPuzzleHash,
		Amount:       l.Amount,
	}
	proof := types.EveProof{
		ParentCoinID: launcherCoin.ParentCoinID,
		Amount:       launcherCoin.Amount,
	}
	return Result{LauncherSpend: spend, EveCoin: eveCoin, Proof: proof}, nil
}

// ParseLauncherSolution decodes a launcher solution into the declared full
// puzzle hash and amount of the singleton being created.
func ParseLauncherSolution(solution *clvm.Node) (types.Bytes32, uint64, error) {
	items, ok := clvm.ListItems(solution)
	if !ok || len(items) != 3 {
		return types.Bytes32{}, 0, errMalformedSolution
	}
	raw, isAtom := items[0].AtomBytes()
	if !isAtom {
		return types.Bytes32{}, 0, errMalformedSolution
	}
	fullHash, err := types.Bytes32FromBytes(raw)
	if err != nil {
		return types.Bytes32{}, 0, err
	}
	amount, err := clvm.AtomUint(items[1])
	if err != nil {
		return types.Bytes32{}, 0, err
	}
	return fullHash, amount, nil
}
