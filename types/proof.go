package types

import (
	"fmt"

	"verdin.dev/verdin/clvm"
)

// Proof links a singleton spend to its chain of custody. Exactly one of two
// shapes accompanies each spend:
//
//   - EveProof for the first spend after launch, committing to the launcher
//     coin's parent and amount;
//   - LineageProof for every later spend, committing to the immediate
//     parent's id, the parent's inner puzzle commitment, and its amount.
//
// On the wire the two are distinguished purely by list length (2 vs 3);
// any other shape is a hard decoding error.
type Proof interface {
	// Node returns the proof's CLVM encoding.
	Node() *clvm.Node

	isProof()
}

// EveProof proves the first spend of a freshly launched singleton.
type EveProof struct {
	ParentCoinID Bytes32
	Amount       uint64
}

func (p EveProof) isProof() {}

func (p EveProof) Node() *clvm.Node {
	return clvm.List(clvm.Atom(p.ParentCoinID[:]), clvm.Uint(p.Amount))
}

// LineageProof proves a spend against its immediate parent's committed state.
type LineageProof struct {
	ParentCoinID    Bytes32
	InnerPuzzleHash Bytes32
	Amount          uint64
}

func (p LineageProof) isProof() {}

func (p LineageProof) Node() *clvm.Node {
	return clvm.List(
		clvm.Atom(p.ParentCoinID[:]),
		clvm.Atom(p.InnerPuzzleHash[:]),
		clvm.Uint(p.Amount),
	)
}

// ParseProof decodes a proof from its CLVM form, dispatching on list length.
func ParseProof(n *clvm.Node) (Proof, error) {
	items, ok := clvm.ListItems(n)
	if !ok {
		return nil, fmt.Errorf("types: proof must be a proper list")
	}
	switch len(items) {
	case 2:
		parent, err := atomBytes32(items[0])
		if err != nil {
			return nil, fmt.Errorf("types: eve proof parent: %w", err)
		}
		amount, err := clvm.AtomUint(items[1])
		if err != nil {
			return nil, fmt.Errorf("types: eve proof amount: %w", err)
		}
		return EveProof{ParentCoinID: parent, Amount: amount}, nil
	case 3:
		parent, err := atomBytes32(items[0])
		if err != nil {
			return nil, fmt.Errorf("types: lineage proof parent: %w", err)
		}
		innerHash, err := atomBytes32(items[1])
		if err != nil {
			return nil, fmt.Errorf("types: lineage proof inner puzzle hash: %w", err)
		}
		amount, err := clvm.AtomUint(items[2])
		if err != nil {
			return nil, fmt.Errorf("types: lineage proof amount: %w", err)
		}
		return LineageProof{ParentCoinID: parent, InnerPuzzleHash: innerHash, Amount: amount}, nil
	default:
		return nil, fmt.Errorf("types: proof must have 2 or 3 elements, got %d", len(items))
	}
}

func atomBytes32(n *clvm.Node) (Bytes32, error) {
	b, ok := n.AtomBytes()
	if !ok {
		return Bytes32{}, fmt.Errorf("expected atom, got pair")
	}
	return Bytes32FromBytes(b)
}
