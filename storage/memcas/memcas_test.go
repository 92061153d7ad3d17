package memcas

import (
	"testing"

	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/storage/testkit"
)

func TestMemCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return New()
	})
}

func TestMemCAS_GetReturnsCopy(t *testing.T) {
	cas := New()
	id, err := cas.Put([]byte("reveal"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	b, err := cas.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	b[0] = 'X'

	again, err := cas.Get(id)
	if err != nil {
		t.Fatalf("Get(2) failed: %v", err)
	}
	if string(again) != "reveal" {
		t.Fatalf("stored bytes mutated through Get result: %q", again)
	}
}
