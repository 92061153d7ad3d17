// Package conditions models the spend output declarations the driver and
// the ledger simulator care about. A condition list is a CLVM list of
// `(opcode arg...)` entries; opcodes the package does not know are carried
// through opaquely rather than rejected.
package conditions

import (
	"fmt"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/types"
)

// Condition opcodes.
const (
	OpCreateCoin     = 51
	OpAssertMyCoinID = 70
)

// Condition is one entry in a spend's output declaration list.
type Condition interface {
	Node() *clvm.Node
}

// CreateCoin declares a child coin with the given puzzle commitment and
// amount. Hint, when set, is an extra announcement atom used by wallets to
// find the coin; it does not affect the child's identity.
type CreateCoin struct {
	PuzzleHash types.Bytes32
	Amount     uint64
	Hint       *types.Bytes32
}

func (c CreateCoin) Node() *clvm.Node {
	items := []*clvm.Node{
		clvm.Uint(OpCreateCoin),
		clvm.Atom(c.PuzzleHash[:]),
		clvm.Uint(c.Amount),
	}
	if c.Hint != nil {
		items = append(items, clvm.List(clvm.Atom(c.Hint[:])))
	}
	return clvm.List(items...)
}

// AssertMyCoinID pins the spend to a specific coin id.
type AssertMyCoinID struct {
	CoinID types.Bytes32
}

func (c AssertMyCoinID) Node() *clvm.Node {
	return clvm.List(clvm.Uint(OpAssertMyCoinID), clvm.Atom(c.CoinID[:]))
}

// Unknown carries a condition the package does not model.
type Unknown struct {
	Raw *clvm.Node
}

func (c Unknown) Node() *clvm.Node { return c.Raw }

// ListNode encodes conditions into their CLVM list form.
func ListNode(conds []Condition) *clvm.Node {
	items := make([]*clvm.Node, len(conds))
	for i, c := range conds {
		items[i] = c.Node()
	}
	return clvm.List(items...)
}

// ParseList decodes a condition list. Unknown opcodes decode as Unknown;
// known opcodes with malformed arguments are errors.
func ParseList(n *clvm.Node) ([]Condition, error) {
	items, ok := clvm.ListItems(n)
	if !ok {
		return nil, fmt.Errorf("conditions: not a proper list")
	}
	out := make([]Condition, 0, len(items))
	for i, item := range items {
		c, err := parseOne(item)
		if err != nil {
			return nil, fmt.Errorf("conditions: entry %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseOne(n *clvm.Node) (Condition, error) {
	parts, ok := clvm.ListItems(n)
	if !ok || len(parts) == 0 {
		return nil, fmt.Errorf("condition must be a non-empty list")
	}
	op, err := clvm.AtomUint(parts[0])
	if err != nil {
		return Unknown{Raw: n}, nil
	}
	switch op {
	case OpCreateCoin:
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("CREATE_COIN wants 2 or 3 args, got %d", len(parts)-1)
		}
		ph, err := atomBytes32(parts[1])
		if err != nil {
			return nil, fmt.Errorf("CREATE_COIN puzzle hash: %w", err)
		}
		amount, err := clvm.AtomUint(parts[2])
		if err != nil {
			return nil, fmt.Errorf("CREATE_COIN amount: %w", err)
		}
		cc := CreateCoin{PuzzleHash: ph, Amount: amount}
		if len(parts) == 4 {
			hints, ok := clvm.ListItems(parts[3])
			if !ok || len(hints) == 0 {
				return nil, fmt.Errorf("CREATE_COIN memos must be a non-empty list")
			}
			hint, err := atomBytes32(hints[0])
			if err != nil {
				return nil, fmt.Errorf("CREATE_COIN hint: %w", err)
			}
			cc.Hint = &hint
		}
		return cc, nil
	case OpAssertMyCoinID:
		if len(parts) != 2 {
			return nil, fmt.Errorf("ASSERT_MY_COIN_ID wants 1 arg, got %d", len(parts)-1)
		}
		id, err := atomBytes32(parts[1])
		if err != nil {
			return nil, fmt.Errorf("ASSERT_MY_COIN_ID coin id: %w", err)
		}
		return AssertMyCoinID{CoinID: id}, nil
	default:
		return Unknown{Raw: n}, nil
	}
}

func atomBytes32(n *clvm.Node) (types.Bytes32, error) {
	b, ok := n.AtomBytes()
	if !ok {
		return types.Bytes32{}, fmt.Errorf("expected atom")
	}
	return types.Bytes32FromBytes(b)
}

// CreatedCoins filters the CREATE_COIN declarations out of a condition list.
func CreatedCoins(conds []Condition) []CreateCoin {
	var out []CreateCoin
	for _, c := range conds {
		if cc, ok := c.(CreateCoin); ok {
			out = append(out, cc)
		}
	}
	return out
}
