// Package storage defines the content-addressable store used for ledger
// snapshots and attestations.
//
// Objects are opaque byte blobs keyed by CIDv1 (raw codec, sha2-256).
// A store never interprets the bytes it holds; canonicalization is the
// caller's job and happens before Put.
package storage

import "github.com/ipfs/go-cid"

// CAS is the snapshot object store.
//
// Contract:
// - Put MUST be idempotent and derive the CID from the bytes written.
// - Stored objects MUST be immutable.
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
