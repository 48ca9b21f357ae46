package pager

import "testing"

func TestInitLeaf(t *testing.T) {
	buf := NewPage()
	p := InitLeaf(buf)
	h := p.header()
	if h.NodeType != NodeLeaf || !h.IsRoot || h.NumCells != 0 || h.DataStart != PageSize {
		t.Fatalf("unexpected header after InitLeaf: %+v", h)
	}
}

func TestInsertAndReadSlot(t *testing.T) {
	p := InitLeaf(NewPage())
	if !p.Insert([]byte("k1"), []byte("v1")) {
		t.Fatal("expected insert to succeed")
	}
	if p.NumCells() != 1 {
		t.Fatalf("expected 1 cell, got %d", p.NumCells())
	}
	k, v := p.ReadSlot(0)
	if string(k) != "k1" || string(v) != "v1" {
		t.Fatalf("roundtrip mismatch: key=%q value=%q", k, v)
	}
}

func TestInsertFillsHeapBackward(t *testing.T) {
	p := InitLeaf(NewPage())
	startBefore := p.DataStart()
	p.Insert([]byte("a"), []byte("bb"))
	if p.DataStart() >= startBefore {
		t.Fatalf("expected data_start to shrink, got %d (was %d)", p.DataStart(), startBefore)
	}
}

func TestInsertFailsWhenFull(t *testing.T) {
	p := InitLeaf(NewPage())
	big := make([]byte, PageSize)
	if p.Insert([]byte("k"), big) {
		t.Fatal("expected insert of oversized payload to fail")
	}
}

func TestInsertUntilPageExactlyFull(t *testing.T) {
	p := InitLeaf(NewPage())
	count := 0
	for {
		key := []byte{byte(count), byte(count >> 8)}
		if !p.Insert(key, []byte("xxxxxxxx")) {
			break
		}
		count++
	}
	if count == 0 {
		t.Fatal("expected at least one row to fit")
	}
	// Next insert must also fail deterministically: 227 cells of 14 bytes
	// plus a 4-byte slot each leave only 2 bytes free.
	if p.Insert([]byte("overflow"), []byte("xxxxxxxx")) {
		t.Fatal("expected insert beyond capacity to fail")
	}
}

func TestTombstoneHidesSlot(t *testing.T) {
	p := InitLeaf(NewPage())
	p.Insert([]byte("k1"), []byte("v1"))
	p.Tombstone(0)
	if !p.IsTombstone(0) {
		t.Fatal("expected slot 0 to be tombstoned")
	}
	if p.LiveCount() != 0 {
		t.Fatalf("expected 0 live rows, got %d", p.LiveCount())
	}
}

func TestUpdateInPlacePreservesOffset(t *testing.T) {
	p := InitLeaf(NewPage())
	p.Insert([]byte("k1"), []byte("long-value"))
	before := p.getSlot(0).offset
	if !p.UpdateInPlace(0, []byte("k1"), []byte("short")) {
		t.Fatal("expected shrinking update to fit in place")
	}
	after := p.getSlot(0)
	if after.offset != before {
		t.Fatalf("expected offset to be preserved, before=%d after=%d", before, after.offset)
	}
	_, v := p.ReadSlot(0)
	if string(v) != "short" {
		t.Fatalf("expected updated value %q, got %q", "short", v)
	}
}

func TestUpdateInPlaceRejectsGrowth(t *testing.T) {
	p := InitLeaf(NewPage())
	p.Insert([]byte("k1"), []byte("v1"))
	if p.UpdateInPlace(0, []byte("k1"), []byte("a-much-longer-value-than-before")) {
		t.Fatal("expected growing update to be rejected for in-place write")
	}
}
