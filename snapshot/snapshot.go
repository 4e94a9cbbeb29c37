// Package snapshot renders ledger state to canonical bytes, addresses those
// bytes by CID, and binds signer attestations to them.
//
// Canonical form is versioned, indented JSON with a trailing newline. The
// ledger export is already fully ordered, so marshaling is deterministic and
// the CID of a snapshot identifies the state exactly.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/govtoken/storage"
	"xdao.co/govtoken/token"
)

// Version is the snapshot document version. Decoders reject anything else.
const Version = 1

var (
	ErrVersion   = errors.New("snapshot: unsupported document version")
	ErrMalformed = errors.New("snapshot: malformed document")
)

// Snapshot is the durable form of a ledger at a block height.
type Snapshot struct {
	Version int         `json:"version"`
	State   token.State `json:"state"`
}

// Take captures the current state of l.
func Take(l *token.Ledger) Snapshot {
	return Snapshot{Version: Version, State: l.ExportState()}
}

// Canonical returns the canonical byte encoding of s.
func (s Snapshot) Canonical() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// CID derives the content address of s without storing it.
func (s Snapshot) CID() (cid.Cid, error) {
	b, err := s.Canonical()
	if err != nil {
		return cid.Undef, err
	}
	return storage.SumCID(b)
}

// Write captures l and stores the canonical snapshot in cas.
func Write(cas storage.CAS, l *token.Ledger) (cid.Cid, error) {
	b, err := Take(l).Canonical()
	if err != nil {
		return cid.Undef, err
	}
	return cas.Put(b)
}

// Load fetches and strictly decodes the snapshot at id.
func Load(cas storage.CAS, id cid.Cid) (Snapshot, error) {
	b, err := cas.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return Decode(b)
}

// Decode parses canonical snapshot bytes. Unknown fields are rejected so a
// truncated or foreign document cannot silently restore.
func Decode(b []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.Version != Version {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return s, nil
}

// Restore loads the snapshot at id and rebuilds a live ledger from it.
func Restore(cas storage.CAS, id cid.Cid) (*token.Ledger, error) {
	s, err := Load(cas, id)
	if err != nil {
		return nil, err
	}
	return token.RestoreLedger(s.State)
}
