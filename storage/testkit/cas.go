// Package testkit holds the conformance suite every CAS backend must pass.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/govtoken/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("govtoken snapshot bytes")

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := storage.SumCID(want)
		if err != nil {
			t.Fatalf("SumCID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("DistinctObjects", func(t *testing.T) {
		cas := newCAS(t)
		a, err := cas.Put([]byte("object a"))
		if err != nil {
			t.Fatalf("Put(a) failed: %v", err)
		}
		b, err := cas.Put([]byte("object b"))
		if err != nil {
			t.Fatalf("Put(b) failed: %v", err)
		}
		if a == b {
			t.Fatalf("distinct bytes produced the same CID %s", a)
		}
		gotA, err := cas.Get(a)
		if err != nil || string(gotA) != "object a" {
			t.Fatalf("Get(a): %q, %v", gotA, err)
		}
		gotB, err := cas.Get(b)
		if err != nil || string(gotB) != "object b" {
			t.Fatalf("Get(b): %q, %v", gotB, err)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := storage.SumCID(b)
		if err != nil {
			t.Fatalf("SumCID failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})

	t.Run("GetReturnsIsolatedBytes", func(t *testing.T) {
		cas := newCAS(t)
		id, err := cas.Put([]byte("do not mutate me"))
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		first, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get(1) failed: %v", err)
		}
		for i := range first {
			first[i] = 0
		}
		second, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get(2) failed: %v", err)
		}
		if string(second) != "do not mutate me" {
			t.Fatalf("caller mutation leaked into the store: %q", second)
		}
	})
}
