package hexmap

// Pos addresses a single tile as a packed (col, row) value: row in the high
// bits, col in the low bits, matching original_source/src/map.h's
// MAP_POS/MAP_POS_COL/MAP_POS_ROW macros.
type Pos uint32

// geometry precomputes the masks and direction deltas for one map size.
// Both dimensions must be powers of two (spec.md §3), which lets every
// wraparound collapse to a bitmask instead of a modulo.
type geometry struct {
	cols, rows   int
	colMask      Pos
	rowMask      Pos
	rowShift     uint
	posMask      Pos
	dirDeltas    [6]int32
}

func newGeometry(cols, rows int) geometry {
	if cols <= 0 || rows <= 0 || cols&(cols-1) != 0 || rows&(rows-1) != 0 {
		panic("hexmap: cols and rows must be powers of two")
	}
	rowShift := uint(0)
	for (1 << rowShift) < cols {
		rowShift++
	}
	g := geometry{
		cols:     cols,
		rows:     rows,
		colMask:  Pos(cols - 1),
		rowMask:  Pos(rows - 1),
		rowShift: rowShift,
	}
	g.posMask = Pos(cols*rows - 1)

	// Direction deltas on the packed (row<<rowShift | col) lattice, the
	// same "elongated hex" trick the original engine uses: six offsets
	// applied modulo the lattice size, precomputed once per map.
	rowStep := int32(1) << rowShift
	g.dirDeltas = [6]int32{
		1,             // RIGHT
		rowStep,       // DOWN_RIGHT
		rowStep - 1,   // DOWN
		-1,            // LEFT
		-rowStep,      // UP_LEFT
		-rowStep + 1,  // UP
	}
	return g
}

// Col extracts the column component of pos.
func (g geometry) Col(pos Pos) int { return int(pos & g.colMask) }

// Row extracts the row component of pos.
func (g geometry) Row(pos Pos) int { return int((pos >> g.rowShift) & g.rowMask) }

// MakePos packs a (col, row) pair into a Pos.
func (g geometry) MakePos(col, row int) Pos {
	return (Pos(row) << g.rowShift) | Pos(col)&g.colMask
}

// add combines pos with a signed delta, wrapping around the torus.
func (g geometry) add(pos Pos, delta int32) Pos {
	return Pos(int32(pos)+delta) & g.posMask
}

// Neighbor returns the tile one step from pos in direction dir.
func (g geometry) Neighbor(pos Pos, dir Direction) Pos {
	return g.add(pos, g.dirDeltas[dir])
}

// NeighborN returns the tile n steps from pos in direction dir (used by
// road-building and free-walking descent).
func (g geometry) NeighborN(pos Pos, dir Direction, n int) Pos {
	return g.add(pos, g.dirDeltas[dir]*int32(n))
}

// TileCount is the number of addressable tiles.
func (g geometry) TileCount() int { return g.cols * g.rows }
