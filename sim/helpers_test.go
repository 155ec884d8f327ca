package sim

import "holdground/hexmap"

// newLandState builds a State over a cols x rows map with every tile
// marked as land (TerrainUp/TerrainDown above the water threshold), since
// hexmap.New zero-values every tile as water terrain by default and
// BuildRoad rejects a mixed land/water path.
func newLandState(cols, rows int) *State {
	st := New(Config{
		Cols:              cols,
		Rows:              rows,
		FlagCapacity:      256,
		BuildingCapacity:  128,
		InventoryCapacity: 16,
		SerfCapacity:      512,
	}, 0x5a5a, 0x0001, 0x0001)

	for pos := hexmap.Pos(0); int(pos) < cols*rows; pos++ {
		tile := st.Map.Tile(pos)
		tile.TerrainUp = 5
		tile.TerrainDown = 5
		tile.HasOwner = true
		tile.Owner = 1
	}
	return st
}

// ownTiles marks each of the given positions as owned by player,
// for tests that need a second player's territory carved out of the
// default all-player-1 land newLandState produces.
func ownTiles(st *State, player uint8, positions ...hexmap.Pos) {
	for _, pos := range positions {
		tile := st.Map.Tile(pos)
		tile.HasOwner = true
		tile.Owner = player
	}
}
