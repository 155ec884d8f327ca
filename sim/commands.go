package sim

import (
	"holdground/building"
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/playerstate"
	"holdground/roadgraph"
	"holdground/serf"
	"holdground/territory"
)

// BuildFlag implements build_flag(player, pos): spec.md §8 scenario 1. The
// tile must be empty and passable; a fresh flag is allocated with every
// bookkeeping field zeroed.
func (st *State) BuildFlag(player uint8, pos hexmap.Pos) (entitystore.FlagHandle, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	tile := st.Map.Tile(pos)
	if tile.Object != hexmap.ObjNone || !tile.Passable() {
		return entitystore.NoFlag, blocked(pos, "occupied or impassable")
	}
	if !tile.HasOwner {
		return entitystore.NoFlag, notOwned(pos)
	}
	if tile.Owner != player {
		return entitystore.NoFlag, wrongOwner(pos, player)
	}

	h, f, err := st.Graph.Flags.Alloc()
	if err != nil {
		return entitystore.NoFlag, exhausted(KindFlag)
	}
	f.Pos = pos
	st.Map.SetObject(pos, hexmap.ObjFlag, uint32(h))
	return h, nil
}

// BuildRoad implements build_road(player, from, dir_seq): spec.md §8
// scenario 2. dirSeq is walked tile by tile (not assumed straight) so a
// bent road is laid exactly as requested; the source flag's facing slot is
// dirSeq[0] and the destination's is the reverse of dirSeq's last entry,
// matching how a flag's road bookkeeping only cares about the direction it
// faces locally, not the whole route's shape.
func (st *State) BuildRoad(player uint8, from entitystore.FlagHandle, dirSeq []hexmap.Direction) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	ff := st.Graph.Flags.Get(from)
	if ff == nil {
		return unknownHandle(KindFlag, entitystore.Handle(from))
	}
	if len(dirSeq) == 0 {
		return ErrNoPath
	}
	startDir := dirSeq[0]
	if ff.HasPath(startDir) {
		return roadgraph.ErrOccupiedDirection
	}

	pos := ff.Pos
	visited := map[hexmap.Pos]bool{pos: true}
	waterTiles, landTiles := 0, 0
	for _, dir := range dirSeq {
		next := st.Map.Neighbor(pos, dir)
		if visited[next] {
			return ErrNoPath
		}
		tile := st.Map.Tile(next)
		if tile.Object != hexmap.ObjNone && tile.Object != hexmap.ObjFlag {
			return blocked(next, "impassable")
		}
		if !tile.HasOwner {
			return notOwned(next)
		}
		if tile.Owner != player {
			return wrongOwner(next, player)
		}
		if tile.IsWaterTerrain() {
			waterTiles++
		} else {
			landTiles++
		}
		visited[next] = true
		pos = next
	}
	if waterTiles > 0 && landTiles > 0 {
		return ErrNoPath
	}
	if st.Map.GetObject(pos) != hexmap.ObjFlag {
		return ErrNoPath
	}

	toHandle := entitystore.FlagHandle(st.Map.Tile(pos).ObjectIndex)
	tf := st.Graph.Flags.Get(toHandle)
	if tf == nil {
		return unknownHandle(KindFlag, entitystore.Handle(toHandle))
	}
	endDir := dirSeq[len(dirSeq)-1].Reverse()
	if tf.HasPath(endDir) {
		return roadgraph.ErrOccupiedDirection
	}

	walk := ff.Pos
	for _, dir := range dirSeq {
		st.Map.AddPath(walk, dir)
		walk = st.Map.Neighbor(walk, dir)
	}

	tiles := len(dirSeq)
	cat := roadgraph.LengthCategory(tiles)

	ff.PathCon |= 1 << uint(startDir)
	ff.Endpoints[startDir] = roadgraph.Endpoint{Kind: roadgraph.EndpointFlag, Flag: toHandle}
	ff.Length[startDir] = cat
	ff.TileLen[startDir] = tiles
	ff.OtherEndDir[startDir] = endDir

	tf.PathCon |= 1 << uint(endDir)
	tf.Endpoints[endDir] = roadgraph.Endpoint{Kind: roadgraph.EndpointFlag, Flag: from}
	tf.Length[endDir] = cat
	tf.TileLen[endDir] = tiles
	tf.OtherEndDir[endDir] = startDir

	if waterTiles > 0 {
		ff.SetWaterSegment(startDir, true)
		tf.SetWaterSegment(endDir, true)
	}
	return nil
}

// classFor maps a military building's Type onto the influence tier
// territory.Recompute weighs it by.
func classFor(t building.Type) territory.BuildingClass {
	switch t {
	case building.TypeHut:
		return territory.ClassHut
	case building.TypeTower:
		return territory.ClassTower
	default:
		return territory.ClassFortress
	}
}

// BuildBuilding implements build_building(player, pos, type). Every
// non-castle type requires an existing flag at move_down_right(pos)
// (spec.md §8's flag/building coupling invariant); the flag's UP_LEFT
// endpoint is bound back to the new building so the scheduler can resolve
// deliveries without walking the building arena.
func (st *State) BuildBuilding(player uint8, pos hexmap.Pos, t building.Type) (entitystore.BuildingHandle, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	tile := st.Map.Tile(pos)
	if tile.Object != hexmap.ObjNone || !tile.Passable() {
		return entitystore.NoBuilding, blocked(pos, "occupied or impassable")
	}
	if !tile.HasOwner {
		return entitystore.NoBuilding, notOwned(pos)
	}
	if tile.Owner != player {
		return entitystore.NoBuilding, wrongOwner(pos, player)
	}

	var flagHandle entitystore.FlagHandle
	if t != building.TypeCastle {
		flagPos := st.Map.Neighbor(pos, hexmap.DirDownRight)
		if st.Map.GetObject(flagPos) != hexmap.ObjFlag {
			return entitystore.NoBuilding, blocked(flagPos, "missing flag")
		}
		flagHandle = entitystore.FlagHandle(st.Map.Tile(flagPos).ObjectIndex)
	}

	h, b, err := st.Buildings.Alloc()
	if err != nil {
		return entitystore.NoBuilding, exhausted(KindBuilding)
	}
	*b = building.Building{Pos: pos, Type: t, Player: player, Unfinished: true, Flag: flagHandle}

	objKind := hexmap.ObjSmallBuilding
	switch {
	case t == building.TypeCastle:
		objKind = hexmap.ObjCastle
	case t.IsMilitary():
		objKind = hexmap.ObjLargeBuilding
	}
	st.Map.SetObject(pos, objKind, uint32(h))

	if t != building.TypeCastle {
		if f := st.Graph.Flags.Get(flagHandle); f != nil {
			f.Endpoints[hexmap.DirUpLeft] = roadgraph.Endpoint{Kind: roadgraph.EndpointBuilding, Building: h}
		}
		st.flagBuilding[flagHandle] = h
	}

	if t.IsMilitary() || t == building.TypeCastle {
		st.militaryBuildings = append(st.militaryBuildings, territory.MilitaryBuilding{Pos: pos, Class: classFor(t), Owner: player})
		st.Territory.Recompute(st.Map, pos, st.militaryBuildings)
	}

	return h, nil
}

// removeMilitaryBuildingAt drops pos from the influence-scoring set, used
// when a military building is demolished.
func (st *State) removeMilitaryBuildingAt(pos hexmap.Pos) {
	out := st.militaryBuildings[:0]
	for _, mb := range st.militaryBuildings {
		if mb.Pos == pos {
			continue
		}
		out = append(out, mb)
	}
	st.militaryBuildings = out
}

// Demolish implements demolish(pos): spec.md §8 scenario 5. Trapped serfs
// either escape as LOST or are killed per building.Demolish's cap; any
// still-transporting resource routed through the torn-down flag is left
// for the next scheduler pass to discover as unreachable and return to
// the nearest inventory.
func (st *State) Demolish(pos hexmap.Pos) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	tile := st.Map.Tile(pos)
	if tile.Object != hexmap.ObjSmallBuilding && tile.Object != hexmap.ObjLargeBuilding && tile.Object != hexmap.ObjCastle {
		return blocked(pos, "no building")
	}
	bh := entitystore.BuildingHandle(tile.ObjectIndex)
	b := st.Buildings.Get(bh)
	if b == nil {
		return unknownHandle(KindBuilding, entitystore.Handle(bh))
	}

	eff := b.Demolish(st.Graph)
	for _, h := range eff.Escaping {
		if s := st.Serfs.Get(h); s != nil {
			s.State = serf.StateLost
		}
	}
	for _, h := range eff.Killed {
		st.Serfs.Free(h)
	}
	if b.Flag != entitystore.NoFlag {
		delete(st.flagBuilding, b.Flag)
	}

	if eff.TriggerTerritory {
		st.removeMilitaryBuildingAt(pos)
		lost := st.Territory.Recompute(st.Map, pos, st.militaryBuildings)
		for _, lt := range lost {
			st.Player(lt.From).Notify(playerstate.NotificationLostLand, uint32(lt.Pos))
		}
	}
	return nil
}

const maxPriorityValue = 25

// SetPriority implements set_priority(player, kind, value), clamped to
// spec.md §6's 0..25 priority scale.
func (st *State) SetPriority(player uint8, res inventory.Resource, value int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if value < 0 {
		value = 0
	}
	if value > maxPriorityValue {
		value = maxPriorityValue
	}
	p := st.Player(player)
	if int(res) < 0 || int(res) >= len(p.FlagPriorities) {
		return blocked(0, "unknown resource kind")
	}
	p.FlagPriorities[res] = value
	return nil
}

// SetKnightOccupation implements set_knight_occupation(player, level, min,
// max): level is the 0..3 threat tier a military building's garrison
// target applies at.
func (st *State) SetKnightOccupation(player uint8, level int, min, max uint8) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if level < 0 || level > 3 {
		return blocked(0, "invalid threat level")
	}
	st.Player(player).KnightOccupation[level] = playerstate.KnightOccupation{Min: min, Max: max}
	return nil
}

// SendGeologist implements send_geologist(flag): the nearest inventory
// reachable from flag with an idle geologist dispatches one, which begins
// wandering in StateLookingForGeoSpot. Returns ErrPartialFailure (the
// dispatch-failed error kind, spec.md §7) if no geologist is available
// anywhere on the flag's connected road network.
func (st *State) SendGeologist(flag entitystore.FlagHandle) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	f := st.Graph.Flags.Get(flag)
	if f == nil {
		return unknownHandle(KindFlag, entitystore.Handle(flag))
	}

	search := st.Scheduler.Search
	search.Reset()
	search.AddSource(flag)

	var invHandle entitystore.InventoryHandle
	found := false
	_ = search.Execute(func(h entitystore.FlagHandle, vf *roadgraph.Flag) bool {
		ih, ok := st.flagInventory[h]
		if !ok {
			return false
		}
		inv := st.Inventories.Get(ih)
		if inv == nil || !inv.HasSerf(inventory.SerfGeologist) {
			return false
		}
		invHandle = ih
		found = true
		return true
	})
	if !found {
		return ErrPartialFailure
	}

	inv := st.Inventories.Get(invHandle)
	inv.TakeSerf(inventory.SerfGeologist)

	sh, s, err := st.Serfs.Alloc()
	if err != nil {
		inv.AddSerf(inventory.SerfGeologist, 1)
		return exhausted(KindSerf)
	}
	*s = *serf.NewIdle(serf.KindGeologist, inv.Player, f.Pos)
	s.State = serf.StateLookingForGeoSpot
	_ = sh
	return nil
}

// Pause implements pause(on/off): idempotent, restoring the pre-pause
// game_speed exactly on resume (spec.md §8's round-trip law).
func (st *State) Pause(on bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Clock.SetPaused(on)
}

// SetGameSpeed implements set_game_speed(v).
func (st *State) SetGameSpeed(v uint32) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Clock.SetGameSpeed(v)
}
