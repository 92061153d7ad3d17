package conditions

import (
	"testing"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/types"
)

func b32(fill byte) types.Bytes32 {
	var h types.Bytes32
	for i := range h {
		h[i] = fill
	}
	return h
}

func TestConditionList_RoundTrip(t *testing.T) {
	hint := b32(0x77)
	conds := []Condition{
		CreateCoin{PuzzleHash: b32(0x01), Amount: 1},
		CreateCoin{PuzzleHash: b32(0x02), Amount: 1023, Hint: &hint},
		AssertMyCoinID{CoinID: b32(0x03)},
	}
	got, err := ParseList(ListNode(conds))
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("condition count: got %d", len(got))
	}
	cc, ok := got[1].(CreateCoin)
	if !ok {
		t.Fatalf("expected CreateCoin, got %T", got[1])
	}
	if cc.Hint == nil || *cc.Hint != hint {
		t.Fatalf("hint lost in round trip")
	}
	if _, ok := got[2].(AssertMyCoinID); !ok {
		t.Fatalf("expected AssertMyCoinID, got %T", got[2])
	}
}

func TestParseList_UnknownOpcodePassesThrough(t *testing.T) {
	raw := clvm.List(clvm.List(clvm.Uint(49), clvm.Atom([]byte("whatever"))))
	got, err := ParseList(raw)
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("count: got %d", len(got))
	}
	if _, ok := got[0].(Unknown); !ok {
		t.Fatalf("expected Unknown, got %T", got[0])
	}
}

func TestParseList_MalformedKnownOpcode(t *testing.T) {
	cases := []*clvm.Node{
		// CREATE_COIN with a short puzzle hash.
		clvm.List(clvm.List(clvm.Uint(OpCreateCoin), clvm.Atom([]byte("short")), clvm.Uint(1))),
		// CREATE_COIN with a missing amount.
		clvm.List(clvm.List(clvm.Uint(OpCreateCoin), clvm.Atom(b32(1).Bytes()))),
		// ASSERT_MY_COIN_ID with extra args.
		clvm.List(clvm.List(clvm.Uint(OpAssertMyCoinID), clvm.Atom(b32(1).Bytes()), clvm.Uint(1))),
		// Improper list.
		clvm.Pair(clvm.One(), clvm.One()),
	}
	for i, n := range cases {
		if _, err := ParseList(n); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestCreatedCoins(t *testing.T) {
	conds := []Condition{
		AssertMyCoinID{CoinID: b32(1)},
		CreateCoin{PuzzleHash: b32(2), Amount: 1},
		Unknown{Raw: clvm.Nil()},
		CreateCoin{PuzzleHash: b32(3), Amount: 2},
	}
	got := CreatedCoins(conds)
	if len(got) != 2 {
		t.Fatalf("got %d created coins", len(got))
	}
	if got[0].PuzzleHash != b32(2) || got[1].PuzzleHash != b32(3) {
		t.Fatalf("order not preserved")
	}
}
