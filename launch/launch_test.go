package launch

import (
	"testing"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/layers"
	"verdin.dev/verdin/puzzles"
	"verdin.dev/verdin/types"
)

func b32(fill byte) types.Bytes32 {
	var h types.Bytes32
	for i := range h {
		h[i] = fill
	}
	return h
}

func TestLaunch_PredictedEveCoinMatchesConstructedPuzzle(t *testing.T) {
	inner := layers.OpaqueLayer{Program: clvm.List(clvm.One(), clvm.Uint(3))}
	innerHash, err := inner.TreeHash()
	if err != nil {
		t.Fatalf("TreeHash: %v", err)
	}

	launcher := New(b32(0x01), 1)
	res, err := launcher.Launch(innerHash, nil)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	// The eve coin's puzzle hash must equal the hash of the actually
	// constructed singleton puzzle for the same launcher id and inner.
	stack := layers.SingletonLayer[layers.OpaqueLayer, *clvm.Node]{
		LauncherID: launcher.Coin().ID(),
		Inner:      inner,
	}
	puzzle, err := stack.ConstructPuzzle()
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}
	if clvm.TreeHash(puzzle) != res.EveCoin.PuzzleHash {
		t.Fatalf("predicted eve puzzle hash %s != constructed %s",
			res.EveCoin.PuzzleHash, clvm.TreeHash(puzzle))
	}
	if res.EveCoin.ParentCoinID != launcher.Coin().ID() {
		t.Fatalf("eve coin parent is not the launcher coin")
	}
	if res.Proof.ParentCoinID != b32(0x01) || res.Proof.Amount != 1 {
		t.Fatalf("eve proof does not reference the launcher's parent: %#v", res.Proof)
	}
}

func TestLaunch_SpendRevealsLauncherTemplate(t *testing.T) {
	launcher := New(b32(0x02), 1)
	res, err := launcher.Launch(clvm.TreeHash(clvm.One()), nil)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	puzzle, err := clvm.Deserialize(res.LauncherSpend.PuzzleReveal)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if clvm.TreeHash(puzzle) != puzzles.LauncherPuzzleHash {
		t.Fatalf("launcher reveal is not the launcher template")
	}
	if res.LauncherSpend.Coin.PuzzleHash != puzzles.LauncherPuzzleHash {
		t.Fatalf("launcher coin carries the wrong puzzle hash")
	}
}

func TestParseLauncherSolution_RoundTrip(t *testing.T) {
	launcher := New(b32(0x03), 1)
	res, err := launcher.Launch(clvm.TreeHash(clvm.Nil()), clvm.List(clvm.Atom([]byte("k")), clvm.Atom([]byte("v"))))
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	solution, err := clvm.Deserialize(res.LauncherSpend.Solution)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	fullHash, amount, err := ParseLauncherSolution(solution)
	if err != nil {
		t.Fatalf("ParseLauncherSolution: %v", err)
	}
	if fullHash != res.EveCoin.PuzzleHash {
		t.Fatalf("declared full puzzle hash mismatch")
	}
	if amount != 1 {
		t.Fatalf("declared amount mismatch: %d", amount)
	}
}

func TestParseLauncherSolution_Rejects(t *testing.T) {
	cases := []*clvm.Node{
		clvm.Nil(),
		clvm.List(clvm.One()),
		clvm.List(clvm.Pair(clvm.One(), clvm.One()), clvm.Uint(1), clvm.Nil()),
		clvm.List(clvm.Atom([]byte("short")), clvm.Uint(1), clvm.Nil()),
	}
	for i, n := range cases {
		if _, _, err := ParseLauncherSolution(n); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
