package hexmap

import "testing"

func TestTilesWithinRadiusZeroIsJustCenter(t *testing.T) {
	m := New(8, 8)
	center := m.MakePos(3, 3)
	got := m.TilesWithinRadius(center, 0)
	if len(got) != 1 || got[0] != center {
		t.Fatalf("expected only the center tile, got %v", got)
	}
}

func TestTilesWithinRadiusOneIsSevenTiles(t *testing.T) {
	m := New(8, 8)
	center := m.MakePos(3, 3)
	got := m.TilesWithinRadius(center, 1)
	if len(got) != 7 {
		t.Fatalf("expected 7 tiles (center + 6 neighbors), got %d", len(got))
	}
}

func TestChebyshevDistanceToSelfIsZero(t *testing.T) {
	m := New(8, 8)
	pos := m.MakePos(2, 2)
	if d := m.ChebyshevDistance(pos, pos, 3); d != 0 {
		t.Fatalf("expected distance 0, got %d", d)
	}
}

func TestChebyshevDistanceToNeighborIsOne(t *testing.T) {
	m := New(8, 8)
	pos := m.MakePos(2, 2)
	neighbor := m.Neighbor(pos, DirRight)
	if d := m.ChebyshevDistance(pos, neighbor, 3); d != 1 {
		t.Fatalf("expected distance 1, got %d", d)
	}
}

func TestChebyshevDistanceBeyondMaxStepsSaturates(t *testing.T) {
	m := New(16, 16)
	a := m.MakePos(0, 0)
	b := m.MakePos(8, 8)
	d := m.ChebyshevDistance(a, b, 3)
	if d != 4 {
		t.Fatalf("expected saturated distance maxSteps+1=4, got %d", d)
	}
}
