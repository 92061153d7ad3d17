package layers

import (
	"bytes"
	"testing"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/conditions"
	"verdin.dev/verdin/keys"
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

func testKey(t *testing.T, fill byte) *keys.PrivateKey {
	t.Helper()
	key, err := keys.GenerateKey(bytes.Repeat([]byte{fill}, keys.SeedSize))
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return key
}

func opaqueStack(launcherID types.Bytes32, program *clvm.Node) SingletonLayer[OpaqueLayer, *clvm.Node] {
	return SingletonLayer[OpaqueLayer, *clvm.Node]{
		LauncherID: launcherID,
		Inner:      OpaqueLayer{Program: program},
	}
}

func TestSingleton_PuzzleRoundTrip(t *testing.T) {
	stack := opaqueStack(b32(0xA1), clvm.List(clvm.One(), clvm.Uint(42)))
	puzzle, err := stack.ConstructPuzzle()
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}

	codec := SingletonCodec(OpaqueCodec())
	got, err := codec.FromPuzzle(puzzle)
	if err != nil {
		t.Fatalf("FromPuzzle: %v", err)
	}
	if got == nil {
		t.Fatalf("FromPuzzle did not recognize our own puzzle")
	}
	if got.LauncherID != stack.LauncherID {
		t.Fatalf("launcher id: got %s want %s", got.LauncherID, stack.LauncherID)
	}
	if !clvm.Equal(got.Inner.Program, stack.Inner.Program) {
		t.Fatalf("inner program mismatch")
	}
}

func TestSingleton_ParentSpendRoundTrip(t *testing.T) {
	stack := opaqueStack(b32(0xB2), clvm.List(clvm.One()))
	coin := types.Coin{ParentCoinID: b32(0x01), PuzzleHash: mustTreeHash(t, stack), Amount: 1}

	proof := types.EveProof{ParentCoinID: b32(0x02), Amount: 1}
	sol := SingletonSolution[*clvm.Node]{
		Proof:         proof,
		Amount:        1,
		InnerSolution: clvm.Nil(),
	}
	spend, err := stack.Solve(coin, sol)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if spend.Coin != coin {
		t.Fatalf("spend coin mismatch")
	}

	puzzle, err := clvm.Deserialize(spend.PuzzleReveal)
	if err != nil {
		t.Fatalf("Deserialize(puzzle): %v", err)
	}
	solution, err := clvm.Deserialize(spend.Solution)
	if err != nil {
		t.Fatalf("Deserialize(solution): %v", err)
	}

	codec := SingletonCodec(OpaqueCodec())
	got, err := codec.FromParentSpend(puzzle, solution)
	if err != nil {
		t.Fatalf("FromParentSpend: %v", err)
	}
	if got == nil {
		t.Fatalf("FromParentSpend did not recognize our own spend")
	}
	if got.LauncherID != stack.LauncherID {
		t.Fatalf("launcher id mismatch")
	}

	gotProof, gotAmount, _, err := ParseSingletonSolution(solution)
	if err != nil {
		t.Fatalf("ParseSingletonSolution: %v", err)
	}
	if gotProof != types.Proof(proof) {
		t.Fatalf("proof mismatch: got %#v", gotProof)
	}
	if gotAmount != 1 {
		t.Fatalf("amount mismatch: got %d", gotAmount)
	}
}

type treeHasher interface {
	TreeHash() (clvm.Hash, error)
}

func mustTreeHash(t *testing.T, l treeHasher) types.Bytes32 {
	t.Helper()
	h, err := l.TreeHash()
	if err != nil {
		t.Fatalf("TreeHash: %v", err)
	}
	return h
}

func TestSingleton_HashTreeEquivalence(t *testing.T) {
	stacks := []SingletonLayer[OpaqueLayer, *clvm.Node]{
		opaqueStack(b32(0x01), clvm.Nil()),
		opaqueStack(b32(0x02), clvm.List(clvm.One(), clvm.Uint(7))),
		opaqueStack(b32(0x03), clvm.Pair(clvm.One(), clvm.One())),
	}
	for i, stack := range stacks {
		puzzle, err := stack.ConstructPuzzle()
		if err != nil {
			t.Fatalf("case %d: ConstructPuzzle: %v", i, err)
		}
		projected, err := stack.TreeHash()
		if err != nil {
			t.Fatalf("case %d: TreeHash: %v", i, err)
		}
		if got := clvm.TreeHash(puzzle); got != projected {
			t.Fatalf("case %d: projection %s != materialized %s", i, projected, got)
		}
	}
}

func TestSingleton_NestedSingletonHashEquivalence(t *testing.T) {
	// A singleton wrapping a singleton wrapping an opaque leaf: the
	// projection must recurse exactly like construction does.
	inner := opaqueStack(b32(0x0A), clvm.One())
	outer := SingletonLayer[SingletonLayer[OpaqueLayer, *clvm.Node], SingletonSolution[*clvm.Node]]{
		LauncherID: b32(0x0B),
		Inner:      inner,
	}
	puzzle, err := outer.ConstructPuzzle()
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}
	projected, err := outer.TreeHash()
	if err != nil {
		t.Fatalf("TreeHash: %v", err)
	}
	if got := clvm.TreeHash(puzzle); got != projected {
		t.Fatalf("projection %s != materialized %s", projected, got)
	}

	// And the doubly wrapped stack still parses back.
	codec := SingletonCodec(SingletonCodec(OpaqueCodec()))
	got, err := codec.FromPuzzle(puzzle)
	if err != nil {
		t.Fatalf("FromPuzzle: %v", err)
	}
	if got == nil || got.LauncherID != b32(0x0B) || got.Inner.LauncherID != b32(0x0A) {
		t.Fatalf("nested parse lost structure: %#v", got)
	}
}

func TestSingleton_LineageProofEquivalence(t *testing.T) {
	stack := opaqueStack(b32(0xC3), clvm.List(clvm.One(), clvm.Uint(9)))
	parentCoin := types.Coin{
		ParentCoinID: b32(0x10),
		PuzzleHash:   mustTreeHash(t, stack),
		Amount:       1,
	}

	fromStack, err := stack.LineageProofForChild(parentCoin.ParentCoinID, parentCoin.Amount)
	if err != nil {
		t.Fatalf("LineageProofForChild: %v", err)
	}

	puzzle, err := stack.ConstructPuzzle()
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}
	fromSpend, err := SingletonLineageProofFromParentSpend(parentCoin, puzzle)
	if err != nil {
		t.Fatalf("SingletonLineageProofFromParentSpend: %v", err)
	}
	if fromSpend == nil {
		t.Fatalf("parent puzzle not recognized as singleton")
	}
	if *fromSpend != fromStack {
		t.Fatalf("lineage proofs diverge:\n stack: %#v\n spend: %#v", fromStack, *fromSpend)
	}
}

func TestSingleton_ForeignTemplateIsAbsentNotError(t *testing.T) {
	foreign := clvm.Curry(puzzles.P2BLS(), clvm.Atom([]byte("not a singleton")))
	codec := SingletonCodec(OpaqueCodec())

	got, err := codec.FromPuzzle(foreign)
	if err != nil {
		t.Fatalf("foreign template must be absent, got error: %v", err)
	}
	if got != nil {
		t.Fatalf("foreign template must not be recognized")
	}

	// Same for a tree that is not curried at all.
	got, err = codec.FromPuzzle(clvm.List(clvm.One(), clvm.Uint(2)))
	if err != nil {
		t.Fatalf("non-curried tree must be absent, got error: %v", err)
	}
	if got != nil {
		t.Fatalf("non-curried tree must not be recognized")
	}
}

func TestSingleton_TamperedConstantsAreHardErrors(t *testing.T) {
	launcherID := b32(0xD4)
	tampered := puzzles.LauncherPuzzleHash
	tampered[0] ^= 0x01

	puzzle := clvm.Curry(
		puzzles.SingletonTopLayer(),
		clvm.Pair(
			clvm.Atom(puzzles.SingletonTopLayerModHash[:]),
			clvm.Pair(clvm.Atom(launcherID[:]), clvm.Atom(tampered[:])),
		),
		clvm.One(),
	)

	codec := SingletonCodec(OpaqueCodec())
	got, err := codec.FromPuzzle(puzzle)
	if err == nil {
		t.Fatalf("tampered launcher hash must be a hard error, got layer=%v", got)
	}
	if !IsInvalidStruct(err) {
		t.Fatalf("expected invalid-struct error, got %v", err)
	}

	// The lineage recovery path applies the same strictness.
	parent := types.Coin{ParentCoinID: b32(0x01), PuzzleHash: b32(0x02), Amount: 1}
	if _, err := SingletonLineageProofFromParentSpend(parent, puzzle); !IsInvalidStruct(err) {
		t.Fatalf("expected invalid-struct error from lineage recovery, got %v", err)
	}
}

func TestSingleton_MalformedArgsAfterMatchAreErrors(t *testing.T) {
	// Template matches but the struct shape is wrong: one curried arg.
	oneArg := clvm.Curry(puzzles.SingletonTopLayer(), clvm.One())
	codec := SingletonCodec(OpaqueCodec())
	if _, err := codec.FromPuzzle(oneArg); err == nil {
		t.Fatalf("expected error for wrong arg count")
	}

	// Struct is an atom rather than the identity triple.
	atomStruct := clvm.Curry(puzzles.SingletonTopLayer(), clvm.One(), clvm.One())
	if _, err := codec.FromPuzzle(atomStruct); err == nil {
		t.Fatalf("expected error for malformed struct")
	}
}

func TestSingleton_SolutionRequiresProof(t *testing.T) {
	stack := opaqueStack(b32(0xE5), clvm.One())
	_, err := stack.ConstructSolution(SingletonSolution[*clvm.Node]{Amount: 1, InnerSolution: clvm.Nil()})
	if !IsMissingData(err) {
		t.Fatalf("expected missing-data error, got %v", err)
	}
}

func TestOpaqueLayer_MissingProgram(t *testing.T) {
	var l OpaqueLayer
	if _, err := l.ConstructPuzzle(); !IsMissingData(err) {
		t.Fatalf("expected missing-data error, got %v", err)
	}
	if _, err := l.TreeHash(); !IsMissingData(err) {
		t.Fatalf("expected missing-data error, got %v", err)
	}
}

func TestSingleton_ConstructionIsDeterministic(t *testing.T) {
	build := func() []byte {
		stack := opaqueStack(b32(0xF6), clvm.List(clvm.Uint(1), clvm.Uint(2)))
		puzzle, err := stack.ConstructPuzzle()
		if err != nil {
			t.Fatalf("ConstructPuzzle: %v", err)
		}
		return clvm.Serialize(puzzle)
	}
	if !bytes.Equal(build(), build()) {
		t.Fatalf("construction is not reproducible")
	}
}

func TestP2Layer_RoundTrip(t *testing.T) {
	key := testKey(t, 0x31)
	layer := P2Layer{PublicKey: key.PublicKey()}

	puzzle, err := layer.ConstructPuzzle()
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}
	got, err := P2FromPuzzle(puzzle)
	if err != nil {
		t.Fatalf("P2FromPuzzle: %v", err)
	}
	if got == nil {
		t.Fatalf("p2 puzzle not recognized")
	}
	wantPK, err := layer.PublicKey.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	gotPK, err := got.PublicKey.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if !bytes.Equal(wantPK, gotPK) {
		t.Fatalf("public key did not round trip")
	}

	projected, err := layer.TreeHash()
	if err != nil {
		t.Fatalf("TreeHash: %v", err)
	}
	if clvm.TreeHash(puzzle) != projected {
		t.Fatalf("p2 hash projection diverges from tree")
	}
}

func TestP2Layer_InvalidCurriedKeyIsError(t *testing.T) {
	bad := clvm.Curry(puzzles.P2BLS(), clvm.Atom([]byte("garbage key")))
	if _, err := P2FromPuzzle(bad); err == nil {
		t.Fatalf("expected error for invalid curried key")
	}
}

func TestSingletonOverP2_FullStack(t *testing.T) {
	key := testKey(t, 0x77)
	stack := SingletonLayer[P2Layer, P2Solution]{
		LauncherID: b32(0x55),
		Inner:      P2Layer{PublicKey: key.PublicKey()},
	}

	childHint := b32(0x56)
	sol := SingletonSolution[P2Solution]{
		Proof:  types.EveProof{ParentCoinID: b32(0x01), Amount: 1},
		Amount: 1,
		InnerSolution: P2Solution{Conditions: []conditions.Condition{
			conditions.CreateCoin{PuzzleHash: b32(0x57), Amount: 1, Hint: &childHint},
		}},
	}
	coin := types.Coin{ParentCoinID: b32(0x02), PuzzleHash: mustTreeHash(t, stack), Amount: 1}
	spend, err := stack.Solve(coin, sol)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	puzzle, err := clvm.Deserialize(spend.PuzzleReveal)
	if err != nil {
		t.Fatalf("Deserialize(puzzle): %v", err)
	}
	solution, err := clvm.Deserialize(spend.Solution)
	if err != nil {
		t.Fatalf("Deserialize(solution): %v", err)
	}

	codec := SingletonCodec(P2Codec())
	got, err := codec.FromParentSpend(puzzle, solution)
	if err != nil {
		t.Fatalf("FromParentSpend: %v", err)
	}
	if got == nil {
		t.Fatalf("singleton-over-p2 spend not recognized")
	}
	if got.LauncherID != stack.LauncherID {
		t.Fatalf("launcher id mismatch")
	}

	_, _, innerSolution, err := ParseSingletonSolution(solution)
	if err != nil {
		t.Fatalf("ParseSingletonSolution: %v", err)
	}
	conds, err := P2ParseSolution(innerSolution)
	if err != nil {
		t.Fatalf("P2ParseSolution: %v", err)
	}
	created := conditions.CreatedCoins(conds)
	if len(created) != 1 || created[0].PuzzleHash != b32(0x57) {
		t.Fatalf("declared outputs lost: %#v", created)
	}
}
