package storage

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// SumCID derives the CIDv1 (raw codec, sha2-256) for data.
// Every store implementation keys objects by exactly this derivation.
func SumCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// SumString is SumCID rendered as the default base32 string.
// It returns "" only on a multihash failure, which with sha2-256 and the
// default length does not happen.
func SumString(data []byte) string {
	id, err := SumCID(data)
	if err != nil {
		return ""
	}
	return id.String()
}
