package roadgraph

import (
	"testing"

	"holdground/hexmap"
)

func TestBuildRoadSetsSymmetricPathBits(t *testing.T) {
	m := hexmap.New(16, 16)
	g := NewGraph(m, 10)

	fromH, from, _ := g.Flags.Alloc()
	from.Pos = m.MakePos(2, 2)
	toH, to, _ := g.Flags.Alloc()
	to.Pos = m.NeighborN(from.Pos, hexmap.DirRight, 3)
	_ = toH

	if err := g.BuildRoad(fromH, hexmap.DirRight, toH, 3); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}

	if !from.HasPath(hexmap.DirRight) {
		t.Errorf("expected from-flag to have a path RIGHT")
	}
	if !to.HasPath(hexmap.DirRight.Reverse()) {
		t.Errorf("expected to-flag to have a path LEFT")
	}
	if !m.HasPathSymmetric(from.Pos, hexmap.DirRight) {
		t.Errorf("expected map path bits to be symmetric at the start tile")
	}
}

func TestBuildRoadRejectsOccupiedDirection(t *testing.T) {
	m := hexmap.New(16, 16)
	g := NewGraph(m, 10)
	h1, f1, _ := g.Flags.Alloc()
	f1.Pos = m.MakePos(1, 1)
	h2, f2, _ := g.Flags.Alloc()
	f2.Pos = m.NeighborN(f1.Pos, hexmap.DirRight, 2)
	h3, f3, _ := g.Flags.Alloc()
	f3.Pos = m.NeighborN(f1.Pos, hexmap.DirRight, 4)

	if err := g.BuildRoad(h1, hexmap.DirRight, h2, 2); err != nil {
		t.Fatalf("first BuildRoad: %v", err)
	}
	if err := g.BuildRoad(h1, hexmap.DirRight, h3, 4); err != ErrOccupiedDirection {
		t.Errorf("second BuildRoad on same direction = %v, want ErrOccupiedDirection", err)
	}
}

func TestDemolishRoadClearsBothEndpoints(t *testing.T) {
	m := hexmap.New(16, 16)
	g := NewGraph(m, 10)
	h1, f1, _ := g.Flags.Alloc()
	f1.Pos = m.MakePos(1, 1)
	h2, f2, _ := g.Flags.Alloc()
	f2.Pos = m.NeighborN(f1.Pos, hexmap.DirDown, 2)

	if err := g.BuildRoad(h1, hexmap.DirDown, h2, 2); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}
	if err := g.DemolishRoad(h1, hexmap.DirDown); err != nil {
		t.Fatalf("DemolishRoad: %v", err)
	}

	if f1.HasPath(hexmap.DirDown) {
		t.Errorf("expected path bit cleared on origin flag")
	}
	if f2.HasPath(hexmap.DirDown.Reverse()) {
		t.Errorf("expected path bit cleared on far flag")
	}
	if !m.HasPathSymmetric(f1.Pos, hexmap.DirDown) {
		t.Errorf("expected map path bits still symmetric (both cleared) after demolish")
	}
}

func TestSplitPathAtFlagPreservesTotalLength(t *testing.T) {
	m := hexmap.New(16, 16)
	g := NewGraph(m, 10)
	h1, f1, _ := g.Flags.Alloc()
	f1.Pos = m.MakePos(1, 1)
	h2, _, _ := g.Flags.Alloc()
	h2pos := m.NeighborN(f1.Pos, hexmap.DirRight, 6)

	if err := g.BuildRoad(h1, hexmap.DirRight, h2, 6); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}

	hNew, newFlag, _ := g.Flags.Alloc()
	newFlag.Pos = m.NeighborN(f1.Pos, hexmap.DirRight, 2)

	if err := g.SplitPathAtFlag(h1, hexmap.DirRight, hNew, 2); err != nil {
		t.Fatalf("SplitPathAtFlag: %v", err)
	}

	if f1.TileLen[hexmap.DirRight] != 2 {
		t.Errorf("first segment TileLen = %d, want 2", f1.TileLen[hexmap.DirRight])
	}
	if newFlag.TileLen[hexmap.DirRight] != 4 {
		t.Errorf("second segment TileLen = %d, want 4", newFlag.TileLen[hexmap.DirRight])
	}
	if f1.Endpoints[hexmap.DirRight].Flag != hNew {
		t.Errorf("expected origin flag's endpoint to now be the new flag")
	}
	_ = h2pos
}
