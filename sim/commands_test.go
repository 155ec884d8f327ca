package sim

import (
	"testing"

	"holdground/building"
	"holdground/hexmap"
	"holdground/roadgraph"
)

func TestBuildFlagPlacesAFlagOnAnEmptyPassableTile(t *testing.T) {
	st := newLandState(8, 8)
	pos := st.Map.MakePos(2, 2)

	h, err := st.BuildFlag(1, pos)
	if err != nil {
		t.Fatalf("BuildFlag returned error: %v", err)
	}
	if st.Map.GetObject(pos) != hexmap.ObjFlag {
		t.Fatalf("expected ObjFlag at %v, got %v", pos, st.Map.GetObject(pos))
	}
	if st.Graph.Flags.Get(h) == nil {
		t.Fatalf("expected flag handle %v to resolve in the graph arena", h)
	}
}

func TestBuildFlagRejectsAnOccupiedTile(t *testing.T) {
	st := newLandState(8, 8)
	pos := st.Map.MakePos(2, 2)

	if _, err := st.BuildFlag(1, pos); err != nil {
		t.Fatalf("first BuildFlag: %v", err)
	}
	if _, err := st.BuildFlag(1, pos); err == nil {
		t.Fatalf("expected second BuildFlag on the same tile to fail")
	}
}

func TestBuildRoadConnectsTwoFlagsWithFourTileLengthCategory(t *testing.T) {
	st := newLandState(8, 8)
	fromPos := st.Map.MakePos(2, 2)
	toPos := st.Map.NeighborN(fromPos, hexmap.DirRight, 4)

	from, err := st.BuildFlag(1, fromPos)
	if err != nil {
		t.Fatalf("BuildFlag(from): %v", err)
	}
	to, err := st.BuildFlag(1, toPos)
	if err != nil {
		t.Fatalf("BuildFlag(to): %v", err)
	}

	dirSeq := []hexmap.Direction{hexmap.DirRight, hexmap.DirRight, hexmap.DirRight, hexmap.DirRight}
	if err := st.BuildRoad(1, from, dirSeq); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}

	ff := st.Graph.Flags.Get(from)
	tf := st.Graph.Flags.Get(to)

	if !ff.HasPath(hexmap.DirRight) {
		t.Fatalf("expected from-flag's RIGHT path bit set")
	}
	if !tf.HasPath(hexmap.DirLeft) {
		t.Fatalf("expected to-flag's LEFT path bit set")
	}
	if ff.TileLen[hexmap.DirRight] != 4 {
		t.Fatalf("expected TileLen 4, got %d", ff.TileLen[hexmap.DirRight])
	}
	if got, want := ff.Length[hexmap.DirRight], roadgraph.LengthCategory(4); got != want {
		t.Fatalf("expected length category %d for a 4-tile road, got %d", want, got)
	}
	if ff.Endpoints[hexmap.DirRight].Flag != to {
		t.Fatalf("expected from-flag's endpoint to reference the to-flag handle")
	}
	if tf.Endpoints[hexmap.DirLeft].Flag != from {
		t.Fatalf("expected to-flag's endpoint to reference the from-flag handle")
	}
}

func TestBuildRoadRejectsAMixedLandAndWaterPath(t *testing.T) {
	st := newLandState(8, 8)
	fromPos := st.Map.MakePos(2, 2)
	from, err := st.BuildFlag(1, fromPos)
	if err != nil {
		t.Fatalf("BuildFlag: %v", err)
	}
	toPos := st.Map.NeighborN(fromPos, hexmap.DirRight, 2)
	if _, err := st.BuildFlag(1, toPos); err != nil {
		t.Fatalf("BuildFlag(to): %v", err)
	}

	waterPos := st.Map.Neighbor(fromPos, hexmap.DirRight)
	tile := st.Map.Tile(waterPos)
	tile.TerrainUp = 0
	tile.TerrainDown = 0

	if err := st.BuildRoad(1, from, []hexmap.Direction{hexmap.DirRight, hexmap.DirRight}); err == nil {
		t.Fatalf("expected BuildRoad over a water tile followed by a land tile to fail")
	}
}

func TestBuildBuildingRequiresAFlagAtItsDownRightNeighbor(t *testing.T) {
	st := newLandState(8, 8)
	pos := st.Map.MakePos(3, 3)

	if _, err := st.BuildBuilding(1, pos, building.TypeHut); err == nil {
		t.Fatalf("expected BuildBuilding without a supporting flag to fail")
	}

	flagPos := st.Map.Neighbor(pos, hexmap.DirDownRight)
	if _, err := st.BuildFlag(1, flagPos); err != nil {
		t.Fatalf("BuildFlag: %v", err)
	}

	h, err := st.BuildBuilding(1, pos, building.TypeHut)
	if err != nil {
		t.Fatalf("BuildBuilding: %v", err)
	}
	b := st.Buildings.Get(h)
	if b == nil || !b.Unfinished {
		t.Fatalf("expected a freshly built building marked Unfinished")
	}
	if st.Map.GetObject(pos) != hexmap.ObjLargeBuilding {
		t.Fatalf("expected a military building to occupy ObjLargeBuilding, got %v", st.Map.GetObject(pos))
	}
}

func TestDemolishSetsTheBuildingBurning(t *testing.T) {
	st := newLandState(8, 8)
	pos := st.Map.MakePos(4, 4)
	flagPos := st.Map.Neighbor(pos, hexmap.DirDownRight)
	if _, err := st.BuildFlag(1, flagPos); err != nil {
		t.Fatalf("BuildFlag: %v", err)
	}
	bh, err := st.BuildBuilding(1, pos, building.TypeHut)
	if err != nil {
		t.Fatalf("BuildBuilding: %v", err)
	}

	if err := st.Demolish(pos); err != nil {
		t.Fatalf("Demolish: %v", err)
	}
	b := st.Buildings.Get(bh)
	if !b.Burning {
		t.Fatalf("expected a demolished building to enter the Burning state")
	}
}
