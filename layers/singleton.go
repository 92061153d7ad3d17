package layers

import (
	"fmt"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/puzzles"
	"verdin.dev/verdin/types"
)

// SingletonLayer wraps an arbitrary inner layer with a persistent identity
// anchored to a one-time launcher coin. LauncherID never changes across the
// coin's lifetime; the inner layer (and therefore the full puzzle
// commitment) may change on every spend.
type SingletonLayer[I Layer[S], S any] struct {
	LauncherID types.Bytes32
	Inner      I
}

// SingletonSolution is the solution composite for a singleton spend. Field
// order is part of the wire contract: (proof, amount, inner_solution).
type SingletonSolution[S any] struct {
	Proof         types.Proof
	Amount        uint64
	InnerSolution S
}

// singletonStructNode builds the committed identity triple
// (mod_hash . (launcher_id . launcher_puzzle_hash)). The first and last are
// fixed protocol constants, never caller-supplied.
func singletonStructNode(launcherID types.Bytes32) *clvm.Node {
	return clvm.Pair(
		clvm.Atom(puzzles.SingletonTopLayerModHash[:]),
		clvm.Pair(
			clvm.Atom(launcherID[:]),
			clvm.Atom(puzzles.LauncherPuzzleHash[:]),
		),
	)
}

func singletonStructHash(launcherID types.Bytes32) clvm.Hash {
	return clvm.HashPair(
		clvm.HashAtom(puzzles.SingletonTopLayerModHash[:]),
		clvm.HashPair(
			clvm.HashAtom(launcherID[:]),
			clvm.HashAtom(puzzles.LauncherPuzzleHash[:]),
		),
	)
}

// SingletonPuzzleHash projects the full puzzle commitment of a singleton
// wrapping an inner puzzle with the given commitment. It is the pure-hash
// mirror of ConstructPuzzle and must never diverge from it.
func SingletonPuzzleHash(launcherID types.Bytes32, innerPuzzleHash clvm.Hash) clvm.Hash {
	return clvm.CurryTreeHash(
		puzzles.SingletonTopLayerModHash,
		singletonStructHash(launcherID),
		innerPuzzleHash,
	)
}

// ConstructPuzzle curries the singleton template with the identity struct
// and the inner layer's puzzle.
func (l SingletonLayer[I, S]) ConstructPuzzle() (*clvm.Node, error) {
	inner, err := l.Inner.ConstructPuzzle()
	if err != nil {
		return nil, err
	}
	return clvm.Curry(
		puzzles.SingletonTopLayer(),
		singletonStructNode(l.LauncherID),
		inner,
	), nil
}

// ConstructSolution emits (proof, amount, inner_solution) in exactly that
// order.
func (l SingletonLayer[I, S]) ConstructSolution(sol SingletonSolution[S]) (*clvm.Node, error) {
	if sol.Proof == nil {
		return nil, newError(KindMissingData, "singleton solution requires a lineage or eve proof")
	}
	inner, err := l.Inner.ConstructSolution(sol.InnerSolution)
	if err != nil {
		return nil, err
	}
	return clvm.List(sol.Proof.Node(), clvm.Uint(sol.Amount), inner), nil
}

// TreeHash computes the singleton's puzzle commitment from the inner
// layer's commitment alone.
func (l SingletonLayer[I, S]) TreeHash() (clvm.Hash, error) {
	innerHash, err := l.Inner.TreeHash()
	if err != nil {
		return clvm.Hash{}, err
	}
	return SingletonPuzzleHash(l.LauncherID, innerHash), nil
}

// InnerPuzzleHash returns the inner layer's commitment.
func (l SingletonLayer[I, S]) InnerPuzzleHash() (clvm.Hash, error) {
	return l.Inner.TreeHash()
}

// Solve assembles the spend record for coin: the full puzzle reveal and the
// solution, both serialized.
func (l SingletonLayer[I, S]) Solve(coin types.Coin, sol SingletonSolution[S]) (types.CoinSpend, error) {
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

// LineageProofForChild computes the proof this coin's child spend must
// supply: the current coin's parent id, the current inner puzzle
// commitment, and the current amount. Purely local; no lookups.
func (l SingletonLayer[I, S]) LineageProofForChild(parentCoinID types.Bytes32, parentAmount uint64) (types.LineageProof, error) {
	innerHash, err := l.Inner.TreeHash()
	if err != nil {
		return types.LineageProof{}, err
	}
	return types.LineageProof{
		ParentCoinID:    parentCoinID,
		InnerPuzzleHash: innerHash,
		Amount:          parentAmount,
	}, nil
}

// singletonArgs is the decoded committed state of a recognized singleton
// puzzle.
type singletonArgs struct {
	launcherID  types.Bytes32
	innerPuzzle *clvm.Node
}

// parseSingletonArgs recognizes the singleton template and validates its
// committed constants. (nil, nil) means the tree is not a singleton at all.
// A matched template with a wrong mod hash or launcher hash is a hard
// KindInvalidStruct error, never non-recognition.
func parseSingletonArgs(puzzle *clvm.Node) (*singletonArgs, error) {
	curried, ok := clvm.Uncurry(puzzle)
	if !ok {
		return nil, nil
	}
	if curried.ModHash != puzzles.SingletonTopLayerModHash {
		return nil, nil
	}
	if len(curried.Args) != 2 {
		return nil, newError(KindDeserialize,
			fmt.Sprintf("singleton template curried with %d args, want 2", len(curried.Args)))
	}

	st := curried.Args[0]
	if !st.IsPair() || !st.Rest().IsPair() {
		return nil, newError(KindDeserialize, "singleton struct is not (mod_hash launcher_id . launcher_puzzle_hash)")
	}
	modHash, err := structAtom(st.First())
	if err != nil {
		return nil, wrapError(KindDeserialize, "singleton struct mod hash", err)
	}
	launcherID, err := structAtom(st.Rest().First())
	if err != nil {
		return nil, wrapError(KindDeserialize, "singleton struct launcher id", err)
	}
	launcherHash, err := structAtom(st.Rest().Rest())
	if err != nil {
		return nil, wrapError(KindDeserialize, "singleton struct launcher puzzle hash", err)
	}

	if modHash != puzzles.SingletonTopLayerModHash || launcherHash != puzzles.LauncherPuzzleHash {
		return nil, newError(KindInvalidStruct, "singleton struct commits to foreign protocol constants")
	}

	return &singletonArgs{
		launcherID:  launcherID,
		innerPuzzle: curried.Args[1],
	}, nil
}

func structAtom(n *clvm.Node) (types.Bytes32, error) {
	b, ok := n.AtomBytes()
	if !ok {
		return types.Bytes32{}, fmt.Errorf("expected atom, got pair")
	}
	return types.Bytes32FromBytes(b)
}

// SingletonFromPuzzle probes puzzle for a singleton wrapping a layer
// recognized by inner. Inner non-recognition propagates as non-recognition:
// a layer cannot exist without a valid inner layer.
func SingletonFromPuzzle[I Layer[S], S any](puzzle *clvm.Node, inner PuzzleParser[I]) (*SingletonLayer[I, S], error) {
	args, err := parseSingletonArgs(puzzle)
	if err != nil {
		return nil, err
	}
	if args == nil {
		return nil, nil
	}
	ip, err := inner(args.innerPuzzle)
	if err != nil {
		return nil, err
	}
	if ip == nil {
		return nil, nil
	}
	return &SingletonLayer[I, S]{LauncherID: args.launcherID, Inner: *ip}, nil
}

// ParseSingletonSolution decodes a singleton solution into its proof,
// declared amount, and the inner solution tree.
func ParseSingletonSolution(solution *clvm.Node) (types.Proof, uint64, *clvm.Node, error) {
	items, ok := clvm.ListItems(solution)
	if !ok || len(items) != 3 {
		return nil, 0, nil, newError(KindDeserialize, "singleton solution must be (proof amount inner_solution)")
	}
	proof, err := types.ParseProof(items[0])
	if err != nil {
		return nil, 0, nil, wrapError(KindDeserialize, "singleton solution proof", err)
	}
	amount, err := clvm.AtomUint(items[1])
	if err != nil {
		return nil, 0, nil, wrapError(KindDeserialize, "singleton solution amount", err)
	}
	return proof, amount, items[2], nil
}

// SingletonFromParentSpend reconstructs the typed stack from a parent's
// already-broadcast spend: the same recognition as SingletonFromPuzzle plus
// decoding of the solution, recursing into the inner layer with the inner
// puzzle/solution pair.
func SingletonFromParentSpend[I Layer[S], S any](puzzle, solution *clvm.Node, inner SpendParser[I]) (*SingletonLayer[I, S], error) {
	args, err := parseSingletonArgs(puzzle)
	if err != nil {
		return nil, err
	}
	if args == nil {
		return nil, nil
	}
	_, _, innerSolution, err := ParseSingletonSolution(solution)
	if err != nil {
		return nil, err
	}
	ip, err := inner(args.innerPuzzle, innerSolution)
	if err != nil {
		return nil, err
	}
	if ip == nil {
		return nil, nil
	}
	return &SingletonLayer[I, S]{LauncherID: args.launcherID, Inner: *ip}, nil
}

// SingletonCodec composes a singleton codec over an inner layer codec.
func SingletonCodec[I Layer[S], S any](inner Codec[I, S]) Codec[SingletonLayer[I, S], SingletonSolution[S]] {
	return Codec[SingletonLayer[I, S], SingletonSolution[S]]{
		FromPuzzle: func(puzzle *clvm.Node) (*SingletonLayer[I, S], error) {
			return SingletonFromPuzzle[I, S](puzzle, inner.FromPuzzle)
		},
		FromParentSpend: func(puzzle, solution *clvm.Node) (*SingletonLayer[I, S], error) {
			return SingletonFromParentSpend[I, S](puzzle, solution, inner.FromParentSpend)
		},
	}
}

// SingletonLineageProofFromParentSpend re-derives a child's lineage proof
// when only the parent's raw puzzle tree is available, by recognizing the
// singleton template directly and hashing its embedded inner puzzle. The
// result is bit-identical to LineageProofForChild computed from the typed
// stack. (nil, nil) means the parent puzzle is not a singleton.
func SingletonLineageProofFromParentSpend(parentCoin types.Coin, parentPuzzle *clvm.Node) (*types.LineageProof, error) {
	args, err := parseSingletonArgs(parentPuzzle)
	if err != nil {
		return nil, err
	}
	if args == nil {
		return nil, nil
	}
	return &types.LineageProof{
		ParentCoinID:    parentCoin.ParentCoinID,
		InnerPuzzleHash: clvm.TreeHash(args.innerPuzzle),
		Amount:          parentCoin.Amount,
	}, nil
}
