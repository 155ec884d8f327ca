// Package hexmap implements the hex-tile lattice: tile storage, neighbor
// arithmetic, path-bit bookkeeping, and the periodic terrain-growth sweep.
//
// Grounded on eruntime/update.go and eruntime/timer.go for the
// update-on-a-cadence shape, and on original_source/src/map.h for the
// exact tile field semantics (height/owner/path/object/resource packing).
package hexmap

import (
	"unsafe"

	"holdground/simrand"
)

// UpdatePeriod is map_update_period (spec.md §4.1). Nothing reads it:
// sim.State.runTick calls Map.Update on every tick.
const UpdatePeriod = 8

// Map is the hex-tile lattice. It owns no other entity arena; RoadGraph,
// Building, and Serf store their own state and merely point back at a Pos.
type Map struct {
	geometry
	tiles []Tile

	// mapGoldDeposit tracks the total gold (ground + in transit + stored)
	// in the world, checked by the gold-conservation testable property.
	mapGoldDeposit uint64

	spiral     []spiralOffset
	spiralStep int
}

// New allocates a cols x rows map (both must be powers of two) with every
// tile zeroed (height 0, no object, no owner).
func New(cols, rows int) *Map {
	g := newGeometry(cols, rows)
	m := &Map{
		geometry: g,
		tiles:    make([]Tile, g.TileCount()),
		spiral:   buildSpiral(295),
	}
	return m
}

// Cols and Rows report the map dimensions.
func (m *Map) Cols() int { return m.cols }
func (m *Map) Rows() int { return m.rows }

// Tile returns a pointer to the tile at pos for in-place mutation.
func (m *Map) Tile(pos Pos) *Tile { return &m.tiles[pos] }

// Neighbor returns the tile position one step from pos in direction dir.
func (m *Map) Neighbor(pos Pos, dir Direction) Pos { return m.geometry.Neighbor(pos, dir) }

// NeighborN returns the tile position n steps from pos in direction dir.
func (m *Map) NeighborN(pos Pos, dir Direction, n int) Pos { return m.geometry.NeighborN(pos, dir, n) }

// GetHeight and SetHeight read/write a tile's height (0..31).
func (m *Map) GetHeight(pos Pos) uint8     { return m.tiles[pos].Height }
func (m *Map) SetHeight(pos Pos, h uint8)  { m.tiles[pos].Height = h & 0x1f }

// GetObject and SetObject read/write a tile's occupant.
func (m *Map) GetObject(pos Pos) Object { return m.tiles[pos].Object }
func (m *Map) SetObject(pos Pos, kind Object, index uint32) {
	m.tiles[pos].Object = kind
	m.tiles[pos].ObjectIndex = index
}

// AddPath sets the path bit toward dir on pos and the matching reverse bit
// on the neighbor, maintaining the path-symmetry invariant (spec.md §8).
func (m *Map) AddPath(pos Pos, dir Direction) {
	m.tiles[pos].SetPath(dir, true)
	np := m.Neighbor(pos, dir)
	m.tiles[np].SetPath(dir.Reverse(), true)
}

// RemovePath clears the path bit toward dir on pos and its neighbor's
// reverse bit.
func (m *Map) RemovePath(pos Pos, dir Direction) {
	m.tiles[pos].SetPath(dir, false)
	np := m.Neighbor(pos, dir)
	m.tiles[np].SetPath(dir.Reverse(), false)
}

// HasPathSymmetric checks the path-symmetry invariant for one edge; used by
// tests and by Invariant-class error detection.
func (m *Map) HasPathSymmetric(pos Pos, dir Direction) bool {
	here := m.tiles[pos].HasPath(dir)
	np := m.Neighbor(pos, dir)
	there := m.tiles[np].HasPath(dir.Reverse())
	return here == there
}

// RemoveGroundDeposit decrements a mineral deposit by n, clearing it to
// DepositNone once the amount hits zero.
func (m *Map) RemoveGroundDeposit(pos Pos, n uint8) {
	t := &m.tiles[pos]
	if t.DepositAmt <= n {
		t.DepositAmt = 0
		t.Deposit = DepositNone
	} else {
		t.DepositAmt -= n
	}
}

// RemoveFish decrements a water tile's fish count by n, floored at zero.
func (m *Map) RemoveFish(pos Pos, n uint8) {
	t := &m.tiles[pos]
	if t.DepositAmt <= n {
		t.DepositAmt = 0
	} else {
		t.DepositAmt -= n
	}
}

// GoldDeposit returns the world's tracked total gold, for the
// gold-conservation testable property.
func (m *Map) GoldDeposit() uint64 { return m.mapGoldDeposit }

// SetGoldDeposit is called by building/serf code whenever gold moves
// between ground deposits, transit, and inventories, to keep the
// conservation invariant auditable.
func (m *Map) SetGoldDeposit(total uint64) { m.mapGoldDeposit = total }

// Update advances the deterministic growth wavefront by one call.
// sim.State.runTick invokes this once per tick, without consulting
// UpdatePeriod; each call advances the center by one
// tile position and ages the object on every tile of the precomputed
// spiral around that center.
func (m *Map) Update(rng *simrand.Source) {
	center := Pos(m.spiralStep % m.TileCount())
	m.spiralStep++

	for _, off := range m.spiral {
		pos := m.offsetPos(center, off)
		m.updateTile(pos, rng)
	}
}

func (m *Map) offsetPos(center Pos, off spiralOffset) Pos {
	col := (m.Col(center) + off.dcol) & int(m.colMask)
	row := (m.Row(center) + off.drow) & int(m.rowMask)
	return m.MakePos(col, row)
}

func (m *Map) updateTile(pos Pos, rng *simrand.Source) {
	t := &m.tiles[pos]

	if t.IsWaterTerrain() {
		m.updateFish(t, rng)
		return
	}

	switch {
	case t.Object.IsField():
		m.ageField(t)
	case t.Object.IsSign():
		m.ageSign(t)
	case t.Object == ObjCadaver0 || t.Object == ObjCadaver1:
		t.Object = ObjNone
	case t.Object == ObjNewTree:
		t.Object = ObjTree0 + Object(rng.IntN(8))
	case t.Object == ObjNewPine:
		t.Object = ObjPine0 + Object(rng.IntN(8))
	}
}

func (m *Map) ageField(t *Tile) {
	if t.Object == ObjField5 {
		t.Object = ObjFieldExpired
		return
	}
	t.Object++
}

func (m *Map) ageSign(t *Tile) {
	t.Object = ObjNone
}

// fishMigrationDirections restricts fish migration to four of the six hex
// directions, matching original_source/src/map.c's water-spread pass
// rather than spreading across all six neighbors.
var fishMigrationDirections = [4]Direction{DirRight, DirDownRight, DirLeft, DirUpLeft}

func (m *Map) updateFish(t *Tile, rng *simrand.Source) {
	if t.DepositAmt < 10 && rng.Chance(1, 64) {
		t.DepositAmt++
	}
	if t.DepositAmt == 0 {
		return
	}
	dir := fishMigrationDirections[rng.IntN(len(fishMigrationDirections))]
	np := m.Neighbor(m.posOf(t), dir)
	neighbor := &m.tiles[np]
	if neighbor.IsWaterTerrain() {
		neighbor.DepositAmt++
		t.DepositAmt--
	}
}

// posOf recovers a Pos from a *Tile by pointer arithmetic into the backing
// slice; kept internal since callers should otherwise only ever pass Pos
// values around.
func (m *Map) posOf(t *Tile) Pos {
	base := uintptr(unsafe.Pointer(&m.tiles[0]))
	return Pos((uintptr(unsafe.Pointer(t)) - base) / unsafe.Sizeof(Tile{}))
}
