package keys

import (
	"bytes"
	"path/filepath"
	"testing"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/types"
)

func testSeed(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, SeedSize)
}

func TestDeriveSpendSeed_Deterministic(t *testing.T) {
	a, err := DeriveSpendSeed(testSeed(0x5A), 0)
	if err != nil {
		t.Fatalf("DeriveSpendSeed: %v", err)
	}
	b, err := DeriveSpendSeed(testSeed(0x5A), 0)
	if err != nil {
		t.Fatalf("DeriveSpendSeed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("derivation not deterministic")
	}
	c, err := DeriveSpendSeed(testSeed(0x5A), 1)
	if err != nil {
		t.Fatalf("DeriveSpendSeed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("indices 0 and 1 derived the same seed")
	}
}

func TestDeriveSpendSeed_RejectsShortSeed(t *testing.T) {
	if _, err := DeriveSpendSeed([]byte("short"), 0); err == nil {
		t.Fatalf("expected error for short seed")
	}
}

func TestSignSpend_VerifyRoundTrip(t *testing.T) {
	key, err := SpendKey(testSeed(0x11), 0)
	if err != nil {
		t.Fatalf("SpendKey: %v", err)
	}
	var genesis, coinID types.Bytes32
	genesis[0] = 1
	coinID[0] = 2
	digest := SpendDigest(genesis, coinID, clvm.TreeHash(clvm.Nil()))

	sig, err := SignSpend(key, digest)
	if err != nil {
		t.Fatalf("SignSpend: %v", err)
	}
	if !Verify(key.PublicKey(), digest, sig) {
		t.Fatalf("signature did not verify")
	}

	var otherCoin types.Bytes32
	otherCoin[0] = 3
	wrong := SpendDigest(genesis, otherCoin, clvm.TreeHash(clvm.Nil()))
	if Verify(key.PublicKey(), wrong, sig) {
		t.Fatalf("signature verified against a different coin digest")
	}
}

func TestAggregateSignatures(t *testing.T) {
	k1, err := SpendKey(testSeed(0x21), 0)
	if err != nil {
		t.Fatalf("SpendKey: %v", err)
	}
	k2, err := SpendKey(testSeed(0x21), 1)
	if err != nil {
		t.Fatalf("SpendKey: %v", err)
	}
	d1 := SpendDigest(types.Bytes32{}, types.Bytes32{1}, clvm.TreeHash(clvm.Nil()))
	d2 := SpendDigest(types.Bytes32{}, types.Bytes32{2}, clvm.TreeHash(clvm.One()))

	s1, err := SignSpend(k1, d1)
	if err != nil {
		t.Fatalf("SignSpend: %v", err)
	}
	s2, err := SignSpend(k2, d2)
	if err != nil {
		t.Fatalf("SignSpend: %v", err)
	}
	agg, err := AggregateSignatures([][]byte{s1, s2})
	if err != nil {
		t.Fatalf("AggregateSignatures: %v", err)
	}
	pks := []*PublicKey{k1.PublicKey(), k2.PublicKey()}
	if !VerifyAggregate(pks, [][]byte{d1, d2}, agg) {
		t.Fatalf("aggregate signature did not verify")
	}
	if VerifyAggregate(pks, [][]byte{d2, d1}, agg) {
		t.Fatalf("aggregate verified with swapped digests")
	}
}

func TestDigestFor(t *testing.T) {
	msg := []byte("payload")
	a, err := DigestFor("sha256", msg)
	if err != nil {
		t.Fatalf("sha256: %v", err)
	}
	b, err := DigestFor("sha3-256", msg)
	if err != nil {
		t.Fatalf("sha3-256: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("sha256 and sha3-256 agreed, something is wrong")
	}
	if _, err := DigestFor("md5", msg); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if err := store.Init("alice", testSeed(0x42), false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Init("alice", testSeed(0x43), false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	got, err := store.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, testSeed(0x42)) {
		t.Fatalf("loaded seed differs")
	}
	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "alice" {
		t.Fatalf("List: got %v", names)
	}
}
