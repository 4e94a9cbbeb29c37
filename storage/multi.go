package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// TieredCAS reads through an ordered list of stores. A snapshot daemon can
// front a durable archive with a fast ephemeral store; hydration order is the
// slice order, fixed by the caller, so retrieval stays deterministic.
//
// Put writes only to the first store. The tail tiers are read-only fallbacks.
type TieredCAS struct {
	Tiers []CAS
}

func (m TieredCAS) Put(data []byte) (cid.Cid, error) {
	if len(m.Tiers) == 0 {
		return cid.Undef, errors.New("storage: TieredCAS has no tiers")
	}
	return m.Tiers[0].Put(data)
}

func (m TieredCAS) Get(id cid.Cid) ([]byte, error) {
	for _, cas := range m.Tiers {
		b, err := cas.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m TieredCAS) Has(id cid.Cid) bool {
	for _, cas := range m.Tiers {
		if cas.Has(id) {
			return true
		}
	}
	return false
}
