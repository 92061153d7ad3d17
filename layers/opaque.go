package layers

import (
	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/types"
)

// OpaqueLayer terminates a stack with an arbitrary program the driver does
// not interpret. It recognizes any tree, so it is the fallback innermost
// probe in a recognizer chain. Its solution is a raw tree.
type OpaqueLayer struct {
	Program *clvm.Node
}

func (l OpaqueLayer) ConstructPuzzle() (*clvm.Node, error) {
	if l.Program == nil {
		return nil, newError(KindMissingData, "opaque layer has no program; parse one or supply it")
	}
	return l.Program, nil
}

func (l OpaqueLayer) ConstructSolution(sol *clvm.Node) (*clvm.Node, error) {
	if sol == nil {
		return nil, newError(KindMissingData, "opaque layer solution is nil")
	}
	return sol, nil
}

func (l OpaqueLayer) TreeHash() (clvm.Hash, error) {
	if l.Program == nil {
		return clvm.Hash{}, newError(KindMissingData, "opaque layer has no program; parse one or supply it")
	}
	return clvm.TreeHash(l.Program), nil
}

// Solve assembles a bare spend of an opaque-puzzle coin.
func (l OpaqueLayer) Solve(coin types.Coin, sol *clvm.Node) (types.CoinSpend, error) {
	puzzle, err := l.ConstructPuzzle()
	if err != nil {
		return types.CoinSpend{}, err
	}
	solution, err := l.ConstructSolution(sol)
	if err != nil {
		return types.CoinSpend{}, err
	}
	return types.CoinSpend{
		Coin:         coin,
		PuzzleReveal: clvm.Serialize(puzzle),
		Solution:     clvm.Serialize(solution),
	}, nil
}

// OpaqueCodec recognizes every tree.
func OpaqueCodec() Codec[OpaqueLayer, *clvm.Node] {
	return Codec[OpaqueLayer, *clvm.Node]{
		FromPuzzle: func(puzzle *clvm.Node) (*OpaqueLayer, error) {
			return &OpaqueLayer{Program: puzzle}, nil
		},
		FromParentSpend: func(puzzle, solution *clvm.Node) (*OpaqueLayer, error) {
			return &OpaqueLayer{Program: puzzle}, nil
		},
	}
}
