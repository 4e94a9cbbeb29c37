// Package sigauth implements typed, domain-separated delegation
// authorizations: a signer produces an off-chain secp256k1 signature over a
// digest binding (protocol name, chain id, contract address) and
// (delegatee, nonce, expiry), and the ledger recovers the signer from it.
//
// Verification here is pure. Replay protection (nonces) and expiry
// enforcement live with the ledger state; this package only builds digests
// and recovers signers.
package sigauth

import (
	"crypto/ecdsa"
	"encoding/binary"
	"errors"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureLen is the length of a recoverable signature: r || s || v.
const SignatureLen = 65

var (
	ErrSignatureLength = errors.New("sigauth: signature must be 65 bytes")
	ErrRecoveryID      = errors.New("sigauth: invalid recovery id")
	ErrRecovery        = errors.New("sigauth: public key recovery failed")
)

// Domain binds signatures to one deployment. Changing any field invalidates
// previously issued signatures.
type Domain struct {
	Name     string
	ChainID  uint64
	Contract [20]byte
}

// Delegation is the signed payload: the signer asks that their votes be
// delegated to Delegatee, consuming Nonce, valid until the Unix time Expiry.
type Delegation struct {
	Delegatee [20]byte
	Nonce     uint64
	Expiry    uint64
}

var (
	domainTypeHash     = ethcrypto.Keccak256([]byte("EIP712Domain(string name,uint256 chainId,address verifyingContract)"))
	delegationTypeHash = ethcrypto.Keccak256([]byte("Delegation(address delegatee,uint256 nonce,uint256 expiry)"))
)

// word left-pads b into a 32-byte ABI word.
func word(b []byte) []byte {
	var w [32]byte
	copy(w[32-len(b):], b)
	return w[:]
}

func uintWord(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return word(b[:])
}

// Separator returns the 32-byte domain separator for d.
func (d Domain) Separator() []byte {
	return ethcrypto.Keccak256(
		domainTypeHash,
		ethcrypto.Keccak256([]byte(d.Name)),
		uintWord(d.ChainID),
		word(d.Contract[:]),
	)
}

// Digest returns the 32-byte signing digest for payload p under domain d:
// keccak256(0x19 0x01 || separator || structHash).
func Digest(d Domain, p Delegation) []byte {
	structHash := ethcrypto.Keccak256(
		delegationTypeHash,
		word(p.Delegatee[:]),
		uintWord(p.Nonce),
		uintWord(p.Expiry),
	)
	return ethcrypto.Keccak256([]byte{0x19, 0x01}, d.Separator(), structHash)
}

// RecoverSigner recovers the 20-byte signer address from a 65-byte
// signature over digest. The recovery id (last byte) may use either the raw
// 0/1 form or the 27/28 transaction convention.
func RecoverSigner(digest []byte, sig []byte) ([20]byte, error) {
	var signer [20]byte
	if len(sig) != SignatureLen {
		return signer, ErrSignatureLength
	}
	norm := make([]byte, SignatureLen)
	copy(norm, sig)
	if norm[64] >= 27 {
		norm[64] -= 27
	}
	if norm[64] > 1 {
		return signer, ErrRecoveryID
	}
	pub, err := ethcrypto.SigToPub(digest, norm)
	if err != nil {
		return signer, errors.Join(ErrRecovery, err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// Sign produces a 65-byte recoverable signature over the digest for payload
// p under domain d. Intended for off-chain issuance (CLI, tests).
func Sign(d Domain, p Delegation, key *ecdsa.PrivateKey) ([]byte, error) {
	return ethcrypto.Sign(Digest(d, p), key)
}
