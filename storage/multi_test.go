package storage_test

import (
	"bytes"
	"testing"

	"verdin.dev/verdin/cidutil"
	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/storage/memcas"
	"verdin.dev/verdin/storage/testkit"
)

func TestMultiCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return storage.MultiCAS{Adapters: []storage.CAS{memcas.New(), memcas.New()}}
	})
}

func TestMultiCAS_ReadsFallBackInOrder(t *testing.T) {
	primary := memcas.New()
	secondary := memcas.New()
	multi := storage.MultiCAS{Adapters: []storage.CAS{primary, secondary}}

	// Seed only the secondary; reads must fall through to it.
	want := []byte("reveal in secondary")
	id, err := secondary.Put(want)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if primary.Has(id) {
		t.Fatalf("primary should not have the object")
	}

	got, err := multi.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Get bytes mismatch")
	}
	if !multi.Has(id) {
		t.Fatalf("Has should be true via fallback")
	}
}

func TestMultiCAS_WritesOnlyFirst(t *testing.T) {
	primary := memcas.New()
	secondary := memcas.New()
	multi := storage.MultiCAS{Adapters: []storage.CAS{primary, secondary}}

	id, err := multi.Put([]byte("reveal"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !primary.Has(id) {
		t.Fatalf("primary should have the object")
	}
	if secondary.Has(id) {
		t.Fatalf("secondary should not have the object")
	}
}

func TestMultiCAS_EmptyRejectsPut(t *testing.T) {
	multi := storage.MultiCAS{}
	if _, err := multi.Put([]byte("x")); err == nil {
		t.Fatalf("Put on empty MultiCAS should fail")
	}

	id, err := cidutil.RevealCID([]byte("x"))
	if err != nil {
		t.Fatalf("RevealCID failed: %v", err)
	}
	if _, err := multi.Get(id); !storage.IsNotFound(err) {
		t.Fatalf("Get on empty MultiCAS: got %v want ErrNotFound", err)
	}
}
