// Package uint96 implements the 96-bit unsigned quantities used for
// balances, allowances, and voting power.
//
// Inputs arrive as arbitrary-precision *uint256.Int values and are either
// rejected or, for the single infinite-allowance convention, clamped. All
// arithmetic on accepted values is checked; token amounts never silently
// wrap.
package uint96

import (
	"errors"
	"math/bits"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow  = errors.New("uint96: value exceeds 96 bits")
	ErrUnderflow = errors.New("uint96: subtraction underflow")
)

const hiMask = 1<<32 - 1

// Uint96 is an unsigned 96-bit integer. The zero value is zero.
type Uint96 struct {
	hi uint32
	lo uint64
}

// Max returns 2^96 - 1, which doubles as the infinite-allowance sentinel.
func Max() Uint96 {
	return Uint96{hi: hiMask, lo: ^uint64(0)}
}

// FromUint64 returns the Uint96 with value v. It cannot fail.
func FromUint64(v uint64) Uint96 {
	return Uint96{lo: v}
}

// FromUint256 downcasts v, rejecting anything above 2^96 - 1.
func FromUint256(v *uint256.Int) (Uint96, error) {
	if v == nil {
		return Uint96{}, nil
	}
	if v[3] != 0 || v[2] != 0 || v[1] > hiMask {
		return Uint96{}, ErrOverflow
	}
	return Uint96{hi: uint32(v[1]), lo: v[0]}, nil
}

// FromAllowance downcasts an allowance request. The maximum representable
// uint256 (2^256 - 1) is a request for the infinite-allowance sentinel and
// clamps to Max; every other out-of-range value is rejected. This is the only
// place a clamp is permitted.
func FromAllowance(v *uint256.Int) (Uint96, error) {
	if v != nil && v.Eq(maxUint256) {
		return Max(), nil
	}
	return FromUint256(v)
}

var maxUint256 = new(uint256.Int).Sub(new(uint256.Int), uint256.NewInt(1))

// Uint256 widens u.
func (u Uint96) Uint256() *uint256.Int {
	return &uint256.Int{u.lo, uint64(u.hi), 0, 0}
}

// Add returns u + v, or ErrOverflow if the sum does not fit in 96 bits.
func (u Uint96) Add(v Uint96) (Uint96, error) {
	lo, carry := bits.Add64(u.lo, v.lo, 0)
	hi := uint64(u.hi) + uint64(v.hi) + carry
	if hi > hiMask {
		return Uint96{}, ErrOverflow
	}
	return Uint96{hi: uint32(hi), lo: lo}, nil
}

// Sub returns u - v, or ErrUnderflow if v > u.
func (u Uint96) Sub(v Uint96) (Uint96, error) {
	lo, borrow := bits.Sub64(u.lo, v.lo, 0)
	hi, borrow := bits.Sub64(uint64(u.hi), uint64(v.hi), borrow)
	if borrow != 0 {
		return Uint96{}, ErrUnderflow
	}
	return Uint96{hi: uint32(hi), lo: lo}, nil
}

// Cmp returns -1, 0, or +1 comparing u against v.
func (u Uint96) Cmp(v Uint96) int {
	switch {
	case u.hi < v.hi:
		return -1
	case u.hi > v.hi:
		return 1
	case u.lo < v.lo:
		return -1
	case u.lo > v.lo:
		return 1
	}
	return 0
}

// IsZero reports whether u == 0.
func (u Uint96) IsZero() bool {
	return u.hi == 0 && u.lo == 0
}

// IsMax reports whether u is the infinite-allowance sentinel (2^96 - 1).
func (u Uint96) IsMax() bool {
	return u.hi == hiMask && u.lo == ^uint64(0)
}

// String renders u in decimal.
func (u Uint96) String() string {
	return u.Uint256().Dec()
}

// MarshalText renders u in decimal, so JSON carries amounts as strings.
func (u Uint96) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText reads a decimal string.
func (u *Uint96) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Parse reads a decimal string previously produced by String.
func Parse(s string) (Uint96, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Uint96{}, err
	}
	return FromUint256(v)
}
