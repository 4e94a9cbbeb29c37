package snapshot

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"xdao.co/govtoken/storage"
	"xdao.co/govtoken/storage/memcas"
	"xdao.co/govtoken/token"
)

func addr(b byte) token.Address {
	var a token.Address
	a[19] = b
	return a
}

func testLedger(t *testing.T) *token.Ledger {
	t.Helper()
	l, err := token.NewLedger(token.Config{
		Name:        "xDAO Govern",
		ChainID:     1337,
		Contract:    addr(0xFE),
		Holder:      addr(0xA1),
		Supply:      uint256.NewInt(1_000_000),
		GenesisTime: 1_700_000_000,
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if err := l.Delegate(addr(0xA1), addr(0xB2)); err != nil {
		t.Fatalf("Delegate: %v", err)
	}
	l.AdvanceBlock()
	if err := l.Transfer(addr(0xA1), addr(0xC3), uint256.NewInt(250)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	return l
}

func TestSnapshot_JSONShape(t *testing.T) {
	l, err := token.NewLedger(token.Config{
		ChainID:     7,
		Contract:    addr(0xFE),
		Holder:      addr(0xA1),
		Supply:      uint256.NewInt(500),
		GenesisTime: 1000,
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	b, err := Take(l).Canonical()
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}

	const want = `{
  "version": 1,
  "state": {
    "name": "xDAO Govern",
    "chainId": 7,
    "contract": "0x00000000000000000000000000000000000000fe",
    "supply": "500",
    "height": 1,
    "time": 1000,
    "nextEventSeq": 1,
    "accounts": [
      {
        "address": "0x00000000000000000000000000000000000000a1",
        "balance": "500",
        "delegate": "0x0000000000000000000000000000000000000000",
        "nonce": 0
      }
    ],
    "allowances": null
  }
}
`
	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", b)
	}
}

func TestSnapshot_CIDStable(t *testing.T) {
	l := testLedger(t)
	id1, err := Take(l).CID()
	if err != nil {
		t.Fatalf("CID(1): %v", err)
	}
	id2, err := Take(l).CID()
	if err != nil {
		t.Fatalf("CID(2): %v", err)
	}
	if id1 != id2 {
		t.Fatalf("CID not stable: %s vs %s", id1, id2)
	}

	// Any state change produces a different address.
	l.AdvanceBlock()
	id3, err := Take(l).CID()
	if err != nil {
		t.Fatalf("CID(3): %v", err)
	}
	if id3 == id1 {
		t.Fatalf("CID unchanged after state change")
	}
}

func TestSnapshot_WriteRestoreRoundTrip(t *testing.T) {
	cas := memcas.New()
	l := testLedger(t)

	id, err := Write(cas, l)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !cas.Has(id) {
		t.Fatalf("snapshot not stored")
	}

	restored, err := Restore(cas, id)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Height() != l.Height() {
		t.Fatalf("height = %d, want %d", restored.Height(), l.Height())
	}
	for _, a := range []token.Address{addr(0xA1), addr(0xB2), addr(0xC3)} {
		if got, want := restored.BalanceOf(a), l.BalanceOf(a); got.Cmp(want) != 0 {
			t.Fatalf("balance of %s = %s, want %s", a, got.String(), want.String())
		}
		if got, want := restored.Delegates(a), l.Delegates(a); got != want {
			t.Fatalf("delegate of %s = %s, want %s", a, got, want)
		}
	}
	for block := uint64(0); block < l.Height(); block++ {
		got, err := restored.GetPriorVotes(addr(0xB2), block)
		if err != nil {
			t.Fatalf("GetPriorVotes(%d): %v", block, err)
		}
		want, err := l.GetPriorVotes(addr(0xB2), block)
		if err != nil {
			t.Fatalf("GetPriorVotes(%d): %v", block, err)
		}
		if got.Cmp(want) != 0 {
			t.Fatalf("prior votes at %d = %s, want %s", block, got.String(), want.String())
		}
	}

	// Restoring preserves identity: the round-tripped snapshot has the same
	// CID.
	again, err := Take(restored).CID()
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if again != id {
		t.Fatalf("restored snapshot CID = %s, want %s", again, id)
	}
}

func TestSnapshot_DecodeRejections(t *testing.T) {
	if _, err := Decode([]byte(`{"version": 2, "state": {"height": 1}}`)); !errors.Is(err, ErrVersion) {
		t.Fatalf("version 2: %v", err)
	}
	if _, err := Decode([]byte(`{"version": 1, "extra": true}`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("unknown field: %v", err)
	}
	if _, err := Decode([]byte(`not json`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("junk: %v", err)
	}
}

func TestSnapshot_RestoreMissing(t *testing.T) {
	cas := memcas.New()
	id, err := storage.SumCID([]byte("absent"))
	if err != nil {
		t.Fatalf("SumCID: %v", err)
	}
	if _, err := Restore(cas, id); !storage.IsNotFound(err) {
		t.Fatalf("Restore missing: %v", err)
	}
}
