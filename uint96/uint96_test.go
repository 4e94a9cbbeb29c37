package uint96

import (
	"testing"

	"github.com/holiman/uint256"
)

func u256(t *testing.T, dec string) *uint256.Int {
	t.Helper()
	v, err := uint256.FromDecimal(dec)
	if err != nil {
		t.Fatalf("FromDecimal(%q): %v", dec, err)
	}
	return v
}

// 2^96 - 1 and neighbors, as decimal strings.
const (
	decMax96     = "79228162514264337593543950335"
	decMax96Sub1 = "79228162514264337593543950334"
	decPow96     = "79228162514264337593543950336"
)

func TestFromUint256_Bounds(t *testing.T) {
	got, err := FromUint256(u256(t, decMax96))
	if err != nil {
		t.Fatalf("FromUint256(2^96-1): %v", err)
	}
	if !got.IsMax() {
		t.Fatalf("expected Max, got %s", got)
	}

	if _, err := FromUint256(u256(t, decPow96)); err != ErrOverflow {
		t.Fatalf("FromUint256(2^96) = %v, want ErrOverflow", err)
	}

	big := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	if _, err := FromUint256(big); err != ErrOverflow {
		t.Fatalf("FromUint256(2^200) = %v, want ErrOverflow", err)
	}

	zero, err := FromUint256(uint256.NewInt(0))
	if err != nil || !zero.IsZero() {
		t.Fatalf("FromUint256(0) = %s, %v", zero, err)
	}
}

func TestFromAllowance_SentinelClamp(t *testing.T) {
	maxWord := new(uint256.Int).Sub(new(uint256.Int), uint256.NewInt(1))

	got, err := FromAllowance(maxWord)
	if err != nil {
		t.Fatalf("FromAllowance(2^256-1): %v", err)
	}
	if !got.IsMax() {
		t.Fatalf("sentinel request must clamp to 2^96-1, got %s", got)
	}

	// One below the sentinel request is an ordinary overflow.
	oneBelow := new(uint256.Int).Sub(maxWord, uint256.NewInt(1))
	if _, err := FromAllowance(oneBelow); err != ErrOverflow {
		t.Fatalf("FromAllowance(2^256-2) = %v, want ErrOverflow", err)
	}

	// In-range values pass through unchanged.
	v, err := FromAllowance(uint256.NewInt(100))
	if err != nil {
		t.Fatalf("FromAllowance(100): %v", err)
	}
	if v.String() != "100" {
		t.Fatalf("FromAllowance(100) = %s", v)
	}
}

func TestAddSub(t *testing.T) {
	a := FromUint64(1<<63 + 5)
	b := FromUint64(1 << 63)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.String() != "18446744073709551621" { // 2^64 + 5
		t.Fatalf("Add = %s", sum)
	}

	diff, err := sum.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if diff.Cmp(a) != 0 {
		t.Fatalf("Sub round-trip = %s, want %s", diff, a)
	}

	if _, err := Max().Add(FromUint64(1)); err != ErrOverflow {
		t.Fatalf("Max+1 = %v, want ErrOverflow", err)
	}
	if _, err := FromUint64(0).Sub(FromUint64(1)); err != ErrUnderflow {
		t.Fatalf("0-1 = %v, want ErrUnderflow", err)
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	for _, dec := range []string{"0", "1", "18446744073709551616", decMax96Sub1, decMax96} {
		v, err := Parse(dec)
		if err != nil {
			t.Fatalf("Parse(%q): %v", dec, err)
		}
		if v.String() != dec {
			t.Fatalf("round-trip %q -> %q", dec, v.String())
		}
	}
	if _, err := Parse(decPow96); err == nil {
		t.Fatalf("Parse(2^96) should fail")
	}
}

func TestCmp(t *testing.T) {
	lo := FromUint64(7)
	hi, err := Parse(decMax96Sub1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if lo.Cmp(hi) != -1 || hi.Cmp(lo) != 1 || lo.Cmp(lo) != 0 {
		t.Fatalf("Cmp ordering broken")
	}
}
