// Package storage defines the persistence contracts the wallet layer needs:
// a content-addressable store for serialized puzzle reveals and a coin
// store tracking ledger-visible coin state.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable store, used for puzzle reveals keyed
// by the CID of their serialized bytes.
//
// Contract:
//   - Put MUST be idempotent.
//   - Stored objects MUST be immutable.
//   - CIDs MUST be derived from the bytes written; callers supply canonical
//     serialized programs. Durable backends reject anything else with
//     ErrInvalidReveal.
//   - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
