// Package testkit runs shared conformance suites against storage
// implementations. Every reveal store and coin store backend runs the same
// suite so behavioral contracts hold across backends.
package testkit

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"verdin.dev/verdin/cidutil"
	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/types"
)

// reveal builds a small but real serialized program, since strict backends
// refuse bytes that do not deserialize.
func reveal(tag string) []byte {
	return clvm.Serialize(clvm.List(clvm.Atom([]byte(tag)), clvm.Uint(1)))
}

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := reveal("round trip")

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.RevealCID(want)
		if err != nil {
			t.Fatalf("RevealCID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}

		gotID, err := cidutil.RevealCID(got)
		if err != nil {
			t.Fatalf("RevealCID(got) failed: %v", err)
		}
		if gotID != id {
			t.Fatalf("Get returned bytes not matching requested CID")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := reveal("idempotent")

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := reveal("missing")
		id, err := cidutil.RevealCID(b)
		if err != nil {
			t.Fatalf("RevealCID failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		_, err = cas.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		_, err = cas.Put(b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}

// RunValidatingCASConformance runs the base suite plus the checks for
// backends that only accept canonical serialized programs.
func RunValidatingCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	RunCASConformance(t, newCAS)

	t.Run("RejectNonProgram", func(t *testing.T) {
		cas := newCAS(t)
		bad := [][]byte{
			[]byte("plainly not a program"),
			{0xFF},                           // pair marker with no operands
			append(reveal("trailing"), 0x80), // program followed by extra bytes
		}
		for _, b := range bad {
			if _, err := cas.Put(b); !errors.Is(err, storage.ErrInvalidReveal) {
				t.Fatalf("Put(%x): got err=%v want ErrInvalidReveal", b, err)
			}
		}
	})
}

// NewCoinStore constructs a fresh, empty CoinStore instance for a test.
// The returned store MUST be isolated from other tests.
type NewCoinStore func(t *testing.T) storage.CoinStore

func RunCoinStoreConformance(t *testing.T, newStore NewCoinStore) {
	t.Helper()

	coin := func(b byte, ph byte, amount uint64) types.Coin {
		var parent, puzzle types.Bytes32
		parent[0] = b
		puzzle[0] = ph
		return types.Coin{ParentCoinID: parent, PuzzleHash: puzzle, Amount: amount}
	}
	height := func(h uint32) *uint32 { return &h }

	t.Run("ApplyAndLookup", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		c := coin(1, 2, 100)
		st := types.CoinState{Coin: c, CreatedHeight: height(5)}
		if err := store.ApplyUpdates(ctx, []types.CoinState{st}); err != nil {
			t.Fatalf("ApplyUpdates failed: %v", err)
		}

		got, err := store.CoinState(ctx, c.ID())
		if err != nil {
			t.Fatalf("CoinState failed: %v", err)
		}
		if got.Coin != c {
			t.Fatalf("CoinState coin mismatch: got %+v want %+v", got.Coin, c)
		}
		if got.Spent() {
			t.Fatalf("coin should be unspent")
		}
		if got.CreatedHeight == nil || *got.CreatedHeight != 5 {
			t.Fatalf("created height mismatch: %v", got.CreatedHeight)
		}
	})

	t.Run("MissingCoin", func(t *testing.T) {
		store := newStore(t)
		var id types.Bytes32
		id[0] = 0xEE
		_, err := store.CoinState(context.Background(), id)
		if !storage.IsNotFound(err) {
			t.Fatalf("CoinState missing: got err=%v want ErrCoinNotFound", err)
		}
	})

	t.Run("IdempotentUpsert", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		c := coin(3, 4, 7)
		st := types.CoinState{Coin: c, CreatedHeight: height(1)}
		if err := store.ApplyUpdates(ctx, []types.CoinState{st}); err != nil {
			t.Fatalf("ApplyUpdates(1) failed: %v", err)
		}
		if err := store.ApplyUpdates(ctx, []types.CoinState{st}); err != nil {
			t.Fatalf("ApplyUpdates(2) failed: %v", err)
		}

		unspent, err := store.UnspentCoins(ctx)
		if err != nil {
			t.Fatalf("UnspentCoins failed: %v", err)
		}
		if len(unspent) != 1 {
			t.Fatalf("expected 1 unspent coin, got %d", len(unspent))
		}
	})

	t.Run("SpendTransition", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		c := coin(5, 6, 11)
		created := types.CoinState{Coin: c, CreatedHeight: height(1)}
		if err := store.ApplyUpdates(ctx, []types.CoinState{created}); err != nil {
			t.Fatalf("ApplyUpdates(created) failed: %v", err)
		}

		spent := types.CoinState{Coin: c, CreatedHeight: height(1), SpentHeight: height(2)}
		if err := store.ApplyUpdates(ctx, []types.CoinState{spent}); err != nil {
			t.Fatalf("ApplyUpdates(spent) failed: %v", err)
		}

		got, err := store.CoinState(ctx, c.ID())
		if err != nil {
			t.Fatalf("CoinState failed: %v", err)
		}
		if !got.Spent() {
			t.Fatalf("coin should be spent")
		}

		unspent, err := store.UnspentCoins(ctx)
		if err != nil {
			t.Fatalf("UnspentCoins failed: %v", err)
		}
		if len(unspent) != 0 {
			t.Fatalf("expected no unspent coins, got %d", len(unspent))
		}
	})

	t.Run("FilterByPuzzleHash", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		a := coin(1, 0xAA, 1)
		b := coin(2, 0xAA, 2)
		c := coin(3, 0xBB, 3)
		updates := []types.CoinState{
			{Coin: a, CreatedHeight: height(1)},
			{Coin: b, CreatedHeight: height(1)},
			{Coin: c, CreatedHeight: height(1)},
		}
		if err := store.ApplyUpdates(ctx, updates); err != nil {
			t.Fatalf("ApplyUpdates failed: %v", err)
		}

		got, err := store.UnspentCoinsByPuzzleHash(ctx, a.PuzzleHash)
		if err != nil {
			t.Fatalf("UnspentCoinsByPuzzleHash failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 coins, got %d", len(got))
		}
		for _, coin := range got {
			if coin.PuzzleHash != a.PuzzleHash {
				t.Fatalf("unexpected puzzle hash %s", coin.PuzzleHash)
			}
		}
	})

	t.Run("IsUsed", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		c := coin(9, 0xCC, 42)
		used, err := store.IsUsed(ctx, c.PuzzleHash)
		if err != nil {
			t.Fatalf("IsUsed failed: %v", err)
		}
		if used {
			t.Fatalf("puzzle hash should be unused before any coin exists")
		}

		st := types.CoinState{Coin: c, CreatedHeight: height(1), SpentHeight: height(2)}
		if err := store.ApplyUpdates(ctx, []types.CoinState{st}); err != nil {
			t.Fatalf("ApplyUpdates failed: %v", err)
		}

		used, err = store.IsUsed(ctx, c.PuzzleHash)
		if err != nil {
			t.Fatalf("IsUsed failed: %v", err)
		}
		if !used {
			t.Fatalf("puzzle hash should be used even after the coin is spent")
		}
	})
}
