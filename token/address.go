package token

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressLen is the byte length of an account address.
const AddressLen = 20

// Address identifies an account. The zero value is the null address, which
// can never hold funds or receive transfers.
type Address [AddressLen]byte

// ZeroAddress is the null address.
var ZeroAddress Address

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Hex renders a as 0x-prefixed lower-case hex.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// MarshalText renders a as 0x-prefixed lower-case hex.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText reads a hex address.
func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress reads a 0x-prefixed or bare 40-hex-digit address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, wrapError(KindAddress, RuleZeroAddress, "invalid address encoding", err)
	}
	if len(b) != AddressLen {
		return Address{}, newError(KindAddress, RuleZeroAddress, "invalid address length")
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// BytesToAddress truncates or left-pads b into an Address, keeping the
// rightmost 20 bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLen {
		b = b[len(b)-AddressLen:]
	}
	copy(a[AddressLen-len(b):], b)
	return a
}

// PubkeyToAddress derives the account address for a secp256k1 public key
// (keccak-256 of the uncompressed key, rightmost 20 bytes).
func PubkeyToAddress(pub *ecdsa.PublicKey) Address {
	return Address(ethcrypto.PubkeyToAddress(*pub))
}
