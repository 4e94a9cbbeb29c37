package storage_test

import (
	"bytes"
	"testing"

	"xdao.co/govtoken/storage"
	"xdao.co/govtoken/storage/memcas"
	"xdao.co/govtoken/storage/testkit"
)

func TestTieredCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return storage.TieredCAS{Tiers: []storage.CAS{memcas.New(), memcas.New()}}
	})
}

func TestTieredCAS_ReadsFallThrough(t *testing.T) {
	front, back := memcas.New(), memcas.New()
	tiered := storage.TieredCAS{Tiers: []storage.CAS{front, back}}

	archived := []byte("old snapshot")
	id, err := back.Put(archived)
	if err != nil {
		t.Fatalf("Put(back): %v", err)
	}

	if !tiered.Has(id) {
		t.Fatalf("Has should see the back tier")
	}
	got, err := tiered.Get(id)
	if err != nil || !bytes.Equal(got, archived) {
		t.Fatalf("Get fell through wrong: %q, %v", got, err)
	}
	// The read does not promote the object.
	if front.Has(id) {
		t.Fatalf("front tier unexpectedly holds the object")
	}

	// Writes land only in the front tier.
	id2, err := tiered.Put([]byte("new snapshot"))
	if err != nil {
		t.Fatalf("Put(tiered): %v", err)
	}
	if !front.Has(id2) || back.Has(id2) {
		t.Fatalf("Put went to the wrong tier")
	}
}

func TestTieredCAS_Empty(t *testing.T) {
	var tiered storage.TieredCAS
	if _, err := tiered.Put([]byte("x")); err == nil {
		t.Fatalf("Put on empty TieredCAS should fail")
	}
	id, err := storage.SumCID([]byte("x"))
	if err != nil {
		t.Fatalf("SumCID: %v", err)
	}
	if _, err := tiered.Get(id); !storage.IsNotFound(err) {
		t.Fatalf("Get on empty TieredCAS: %v", err)
	}
}
