// Package memcas provides an in-memory reveal store, used by the ledger
// simulator and in tests.
package memcas

import (
	"sync"

	"github.com/ipfs/go-cid"

	"verdin.dev/verdin/cidutil"
	"verdin.dev/verdin/storage"
)

// CAS is an in-memory content-addressable store. Safe for concurrent use.
type CAS struct {
	mu      sync.RWMutex
	objects map[cid.Cid][]byte
}

var _ storage.CAS = (*CAS)(nil)

func New() *CAS {
	return &CAS{objects: make(map[cid.Cid][]byte)}
}

func (c *CAS) Put(bytes []byte) (cid.Cid, error) {
	id, err := cidutil.RevealCID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.objects[id]; !ok {
		cp := make([]byte, len(bytes))
		copy(cp, bytes)
		c.objects[id] = cp
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	c.mu.RLock()
	b, ok := c.objects[id]
	c.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	c.mu.RLock()
	_, ok := c.objects[id]
	c.mu.RUnlock()
	return ok
}
