package arena

import "testing"

func TestAllocAdvancesOffset(t *testing.T) {
	a := New(64)
	b1 := a.Alloc(10)
	if len(b1) != 10 || a.Len() != 10 {
		t.Fatalf("expected 10 bytes allocated, got len=%d off=%d", len(b1), a.Len())
	}
	b2 := a.Alloc(5)
	if len(b2) != 5 || a.Len() != 15 {
		t.Fatalf("expected 15 bytes total, got off=%d", a.Len())
	}
}

func TestScopeRewindsOffset(t *testing.T) {
	a := New(64)
	a.Alloc(20)
	scope := a.Begin()
	a.Alloc(30)
	if a.Len() != 50 {
		t.Fatalf("expected 50 bytes allocated before End, got %d", a.Len())
	}
	scope.End()
	if a.Len() != 20 {
		t.Fatalf("expected scope to rewind to 20, got %d", a.Len())
	}
}

func TestAllocOutOfSpacePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-space allocation")
		}
	}()
	a := New(4)
	a.Alloc(8)
}

func TestAllocStringCopies(t *testing.T) {
	a := New(64)
	s := "hello"
	got := a.AllocString(s)
	if got != s {
		t.Fatalf("expected %q, got %q", s, got)
	}
}
