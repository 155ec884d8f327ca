package hexmap

// spiralOffset is one step of the precomputed growth-wavefront spiral,
// expressed as a (col, row) offset from the sweep's current center.
type spiralOffset struct {
	dcol, drow int
}

// buildSpiral precomputes the first n positions of the classic hex spiral
// (ring 0, then ring 1, ring 2, ...) used to walk the map for the periodic
// terrain-growth sweep. Grounded on the BFS-ring idiom in
// alg/chokepoint.go, generalized here into a fixed deterministic table
// instead of a live BFS, since the sweep must visit tiles in the same
// order on every replay regardless of what is currently on the map.
//
// Ring radius r has 6r tiles (1 for r=0); the walk visits each ring by
// stepping DirDown r times from the ring's first tile (reached by moving
// UpLeft from center r times) and then walking each of the six directions
// in turn.
func buildSpiral(n int) []spiralOffset {
	offsets := make([]spiralOffset, 0, n)
	offsets = append(offsets, spiralOffset{0, 0})

	axial := [6][2]int{
		{1, 0},   // RIGHT
		{0, 1},   // DOWN_RIGHT
		{-1, 1},  // DOWN
		{-1, 0},  // LEFT
		{0, -1},  // UP_LEFT
		{1, -1},  // UP
	}

	for ring := 1; len(offsets) < n; ring++ {
		col, row := 0, -ring
		for side := 0; side < 6 && len(offsets) < n; side++ {
			dir := axial[(8-side)%6]
			for step := 0; step < ring && len(offsets) < n; step++ {
				offsets = append(offsets, spiralOffset{col, row})
				col += dir[0]
				row += dir[1]
			}
		}
	}

	return offsets[:n]
}
