package layers

import (
	"github.com/cloudflare/circl/sign/bls"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/conditions"
	"verdin.dev/verdin/puzzles"
	"verdin.dev/verdin/types"
)

// P2Layer is a leaf layer locking a coin to a BLS12-381 key: the p2
// template curried with the public key. Its solution is the condition list
// the spend declares; the key's signature over the spend digest authorizes
// it (signing happens in the keys package, enforcement in the ledger).
type P2Layer struct {
	PublicKey *bls.PublicKey[bls.G1]
}

// P2Solution carries the declared output conditions.
type P2Solution struct {
	Conditions []conditions.Condition
}

func (l P2Layer) publicKeyBytes() ([]byte, error) {
	if l.PublicKey == nil {
		return nil, newError(KindMissingData, "p2 layer has no public key")
	}
	b, err := l.PublicKey.MarshalBinary()
	if err != nil {
		return nil, wrapError(KindSerialize, "p2 public key", err)
	}
	return b, nil
}

func (l P2Layer) ConstructPuzzle() (*clvm.Node, error) {
	pk, err := l.publicKeyBytes()
	if err != nil {
		return nil, err
	}
	return clvm.Curry(puzzles.P2BLS(), clvm.Atom(pk)), nil
}

func (l P2Layer) ConstructSolution(sol P2Solution) (*clvm.Node, error) {
	return clvm.List(conditions.ListNode(sol.Conditions)), nil
}

func (l P2Layer) TreeHash() (clvm.Hash, error) {
	pk, err := l.publicKeyBytes()
	if err != nil {
		return clvm.Hash{}, err
	}
	return clvm.CurryTreeHash(puzzles.P2BLSModHash, clvm.HashAtom(pk)), nil
}

// Solve assembles a bare spend of a p2 coin.
func (l P2Layer) Solve(coin types.Coin, sol P2Solution) (types.CoinSpend, error) {
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

// P2FromPuzzle probes puzzle for the p2 template. A matched template whose
// curried key does not decode as a valid BLS public key is a hard error.
func P2FromPuzzle(puzzle *clvm.Node) (*P2Layer, error) {
	curried, ok := clvm.Uncurry(puzzle)
	if !ok {
		return nil, nil
	}
	if curried.ModHash != puzzles.P2BLSModHash {
		return nil, nil
	}
	if len(curried.Args) != 1 {
		return nil, newError(KindDeserialize, "p2 template curried with wrong arg count")
	}
	raw, isAtom := curried.Args[0].AtomBytes()
	if !isAtom {
		return nil, newError(KindDeserialize, "p2 public key is not an atom")
	}
	pk := new(bls.PublicKey[bls.G1])
	if err := pk.UnmarshalBinary(raw); err != nil {
		return nil, wrapError(KindDeserialize, "p2 public key", err)
	}
	return &P2Layer{PublicKey: pk}, nil
}

// P2FromParentSpend recognizes the puzzle and additionally checks the
// solution decodes as a condition list.
func P2FromParentSpend(puzzle, solution *clvm.Node) (*P2Layer, error) {
	layer, err := P2FromPuzzle(puzzle)
	if err != nil || layer == nil {
		return layer, err
	}
	if _, err := P2ParseSolution(solution); err != nil {
		return nil, err
	}
	return layer, nil
}

// P2ParseSolution decodes a p2 solution into its condition list.
func P2ParseSolution(solution *clvm.Node) ([]conditions.Condition, error) {
	items, ok := clvm.ListItems(solution)
	if !ok || len(items) != 1 {
		return nil, newError(KindDeserialize, "p2 solution must be (conditions)")
	}
	conds, err := conditions.ParseList(items[0])
	if err != nil {
		return nil, wrapError(KindDeserialize, "p2 conditions", err)
	}
	return conds, nil
}

// P2Codec bundles the p2 parsers.
func P2Codec() Codec[P2Layer, P2Solution] {
	return Codec[P2Layer, P2Solution]{
		FromPuzzle:      P2FromPuzzle,
		FromParentSpend: P2FromParentSpend,
	}
}
