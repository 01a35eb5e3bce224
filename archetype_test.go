package archon

import "testing"

func TestArchetypeOrderIndependence(t *testing.T) {
	a := NewArchetype(10, 20, 30)
	b := NewArchetype(30, 10, 20)
	if !a.Equal(b) {
		t.Fatalf("archetypes built from permuted ids should compare equal: %v vs %v", a.Ids(), b.Ids())
	}
}

func TestArchetypeDedup(t *testing.T) {
	a := NewArchetype(5, 5, 1, 1, 1)
	if a.Len() != 2 {
		t.Fatalf("expected 2 distinct ids, got %d (%v)", a.Len(), a.Ids())
	}
}

func TestArchetypeWithWithoutRoundTrip(t *testing.T) {
	a := NewArchetype(1, 2)
	b := a.With(3).Without(3)
	if !a.Equal(b) {
		t.Fatalf("With then Without should round-trip: %v vs %v", a.Ids(), b.Ids())
	}
	if !a.With(1).Equal(a) {
		t.Fatalf("With an already-present id must be a no-op")
	}
	if !a.Without(99).Equal(a) {
		t.Fatalf("Without an absent id must be a no-op")
	}
}

func TestArchetypeContainsAllAndIntersects(t *testing.T) {
	a := NewArchetype(1, 2, 3)
	if !a.ContainsAll(NewArchetype(1, 3)) {
		t.Fatal("expected a to contain {1,3}")
	}
	if a.ContainsAll(NewArchetype(1, 4)) {
		t.Fatal("a should not contain {1,4}")
	}
	if !a.Intersects(NewArchetype(4, 2)) {
		t.Fatal("expected a to intersect {4,2}")
	}
	if a.Intersects(NewArchetype(7, 8)) {
		t.Fatal("a should not intersect {7,8}")
	}
}

func TestEmptyArchetype(t *testing.T) {
	if !EmptyArchetype.IsEmpty() {
		t.Fatal("EmptyArchetype must be empty")
	}
	if !NewArchetype().Equal(EmptyArchetype) {
		t.Fatal("NewArchetype() must equal EmptyArchetype")
	}
}
