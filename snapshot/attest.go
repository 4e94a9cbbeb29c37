package snapshot

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/ipfs/go-cid"
	"golang.org/x/crypto/sha3"

	"xdao.co/govtoken/storage"
)

// Attestation algorithms.
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

var (
	ErrUnsupportedAlg = errors.New("snapshot: unsupported attestation algorithm")
	ErrBadPublicKey   = errors.New("snapshot: invalid attestation public key")
	ErrBadSignature   = errors.New("snapshot: attestation signature invalid")
)

// Attestation is a signer's statement that a snapshot CID is the state of a
// named chain at a height. The signature covers a sha3-256 digest of the
// statement, never the snapshot bytes themselves.
type Attestation struct {
	Version     int    `json:"version"`
	SnapshotCID string `json:"snapshotCID"`
	Height      uint64 `json:"height"`
	ChainID     uint64 `json:"chainId"`
	Alg         string `json:"alg"`
	PublicKey   string `json:"publicKey"`
	Signature   string `json:"signature"`
}

func attestationDigest(snapshotCID string, height, chainID uint64) []byte {
	msg := fmt.Sprintf("xdao.govtoken/attestation/v%d\ncid=%s\nheight=%d\nchain=%d\n",
		Version, snapshotCID, height, chainID)
	sum := sha3.Sum256([]byte(msg))
	return sum[:]
}

// AttestEd25519 signs the statement (id, height, chainID) with priv.
func AttestEd25519(priv ed25519.PrivateKey, id cid.Cid, height, chainID uint64) (Attestation, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return Attestation{}, ErrBadPublicKey
	}
	digest := attestationDigest(id.String(), height, chainID)
	return Attestation{
		Version:     Version,
		SnapshotCID: id.String(),
		Height:      height,
		ChainID:     chainID,
		Alg:         AlgEd25519,
		PublicKey:   base64.StdEncoding.EncodeToString(priv.Public().(ed25519.PublicKey)),
		Signature:   base64.StdEncoding.EncodeToString(ed25519.Sign(priv, digest)),
	}, nil
}

// AttestDilithium3 signs the statement (id, height, chainID) with priv.
// Dilithium3 keeps snapshot attestations verifiable against post-quantum
// adversaries; the ledger's own secp256k1 signatures are out of its scope.
func AttestDilithium3(priv *mode3.PrivateKey, id cid.Cid, height, chainID uint64) (Attestation, error) {
	if priv == nil {
		return Attestation{}, ErrBadPublicKey
	}
	pub, err := priv.Public().(*mode3.PublicKey).MarshalBinary()
	if err != nil {
		return Attestation{}, fmt.Errorf("%w: %v", ErrBadPublicKey, err)
	}
	digest := attestationDigest(id.String(), height, chainID)
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(priv, digest, sig)
	return Attestation{
		Version:     Version,
		SnapshotCID: id.String(),
		Height:      height,
		ChainID:     chainID,
		Alg:         AlgDilithium3,
		PublicKey:   base64.StdEncoding.EncodeToString(pub),
		Signature:   base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// Verify checks the attestation signature against its embedded public key.
// It does not check that the snapshot exists; pair it with CAS Has or Get.
func (a Attestation) Verify() error {
	if a.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, a.Version)
	}
	pub, err := base64.StdEncoding.DecodeString(a.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPublicKey, err)
	}
	sig, err := base64.StdEncoding.DecodeString(a.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	digest := attestationDigest(a.SnapshotCID, a.Height, a.ChainID)

	switch a.Alg {
	case AlgEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return ErrBadPublicKey
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return ErrBadSignature
		}
		return nil
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPublicKey, err)
		}
		if len(sig) != mode3.SignatureSize {
			return ErrBadSignature
		}
		if !mode3.Verify(&pk, digest, sig) {
			return ErrBadSignature
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedAlg, a.Alg)
	}
}

// Canonical returns the canonical byte encoding of a.
func (a Attestation) Canonical() ([]byte, error) {
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// WriteAttestation stores a in cas after verifying it.
func WriteAttestation(cas storage.CAS, a Attestation) (cid.Cid, error) {
	if err := a.Verify(); err != nil {
		return cid.Undef, err
	}
	b, err := a.Canonical()
	if err != nil {
		return cid.Undef, err
	}
	return cas.Put(b)
}

// LoadAttestation fetches, strictly decodes, and verifies the attestation
// at id.
func LoadAttestation(cas storage.CAS, id cid.Cid) (Attestation, error) {
	b, err := cas.Get(id)
	if err != nil {
		return Attestation{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var a Attestation
	if err := dec.Decode(&a); err != nil {
		return Attestation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := a.Verify(); err != nil {
		return Attestation{}, err
	}
	return a, nil
}
