// Package scheduler implements the per-tick transport scheduler: routing
// queued resources at each flag toward a destination, prioritizing pickup
// among competing slots, and recruiting transporters onto under-served
// road segments.
//
// Grounded on spec.md §4.5 and on eruntime/pathfinder/bfs.go's
// visited-map BFS generalized here to ride on package flagsearch's
// generational search instead of allocating fresh state every call.
package scheduler

import (
	"holdground/entitystore"
	"holdground/flagsearch"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/roadgraph"
)

// PriorityProvider exposes the per-player routing priorities the
// scheduler consults. Implemented by package playerstate's Player type;
// kept as a narrow interface here to avoid an import cycle between
// scheduler and playerstate.
type PriorityProvider interface {
	FlagPriority(res inventory.Resource) int
}

// InventoryLookup resolves the Inventory attached to a flag (if any),
// letting the scheduler decide whether a flag is itself a delivery
// destination without importing the building package directly.
type InventoryLookup interface {
	InventoryAt(h entitystore.FlagHandle) (*inventory.Inventory, bool)
	// BuildingAcceptsResource reports whether the building behind h
	// currently wants res, and the priority it assigns that request
	// (spec.md §4.6's stock-request-priority formula). ok is false when
	// there is no building, or it isn't requesting res at all.
	BuildingAcceptsResource(h entitystore.FlagHandle, res inventory.Resource) (priority int, ok bool)
}

// Scheduler runs one pass of resource dispatch across every flag.
type Scheduler struct {
	Graph   *roadgraph.Graph
	Search  *flagsearch.Search
	Lookup  InventoryLookup
	Players map[uint8]PriorityProvider
}

// New creates a Scheduler bound to the given road graph and lookup.
func New(g *roadgraph.Graph, lookup InventoryLookup) *Scheduler {
	return &Scheduler{
		Graph:   g,
		Search:  flagsearch.New(g.Flags),
		Lookup:  lookup,
		Players: make(map[uint8]PriorityProvider),
	}
}

// goodEnoughPriority is the threshold above which schedule_to_unknown_
// destination stops searching for a better match, per spec.md §4.5.
const goodEnoughPriority = 204

// RunPass processes every flag whose ResourcesWaiting bit is set,
// visiting handles in ascending order (spec.md §5's ordering guarantee).
func (s *Scheduler) RunPass(owner uint8) {
	s.Graph.Flags.Each(func(h entitystore.FlagHandle, f *roadgraph.Flag) {
		if !f.ResourcesWaiting() {
			return
		}
		f.ClearResourcesWaiting()
		s.dispatchFlag(h, f, owner)
	})
	s.recruitTransporters(owner)
}

func (s *Scheduler) dispatchFlag(h entitystore.FlagHandle, f *roadgraph.Flag, owner uint8) {
	for i := range f.Slots {
		slot := &f.Slots[i]
		if !slot.Occupied || slot.HasScheduledDir() {
			continue
		}
		if slot.Dest != entitystore.NoFlag {
			s.scheduleToKnownDestination(h, f, i, owner)
		} else {
			s.scheduleToUnknownDestination(h, f, i, owner)
		}
	}
}

// scheduleToKnownDestination runs a BFS from the idle-transporter-ranked
// neighbor set toward slot.Dest, claiming the first outbound direction
// that reaches it.
func (s *Scheduler) scheduleToKnownDestination(h entitystore.FlagHandle, f *roadgraph.Flag, slotIdx int, owner uint8) {
	slot := &f.Slots[slotIdx]
	target := slot.Dest

	s.Search.Reset()
	for _, dir := range idleTransporterDirections(f) {
		end := f.Endpoints[dir]
		if end.Kind == roadgraph.EndpointFlag {
			s.Search.AddSource(end.Flag)
		}
	}
	if len(idleTransporterDirections(f)) == 0 {
		s.Search.AddSource(h)
	}

	found := false
	player := s.Players[owner]
	_ = s.Search.Execute(func(visited entitystore.FlagHandle, vf *roadgraph.Flag) bool {
		if visited != target {
			return false
		}
		found = true
		return true
	})

	if !found {
		if inv, ok := s.Lookup.InventoryAt(target); ok {
			_ = inv // nothing is released at the destination; only the slot's Dest is cleared
		}
		slot.Dest = entitystore.NoFlag
		return
	}

	dir := pickOutboundDirection(f)
	if dir < 0 {
		return
	}
	slot.ScheduledDir = int8(dir) + 1
	s.prioritizePickup(f, hexmap.Direction(dir), player)
}

// resourceRoutesToBuilding reports whether res is in the "routable to a
// building" group spec.md §4.5 names: planks, stone, ore/steel/coal,
// gold ore/bar, lumber, and the food group.
func resourceRoutesToBuilding(res inventory.Resource) bool {
	switch res {
	case inventory.ResPlank, inventory.ResStone, inventory.ResIronOre,
		inventory.ResSteel, inventory.ResCoal, inventory.ResGoldOre,
		inventory.ResGoldBar, inventory.ResLumber,
		inventory.ResFish, inventory.ResPig, inventory.ResWheat,
		inventory.ResFlour, inventory.ResBread:
		return true
	default:
		return false
	}
}

func (s *Scheduler) scheduleToUnknownDestination(h entitystore.FlagHandle, f *roadgraph.Flag, slotIdx int, owner uint8) {
	slot := &f.Slots[slotIdx]

	if resourceRoutesToBuilding(slot.Kind) {
		s.routeToRequestingBuilding(h, f, slotIdx)
		return
	}
	s.routeToNearestInventory(h, f, slotIdx)
}

func (s *Scheduler) routeToRequestingBuilding(h entitystore.FlagHandle, f *roadgraph.Flag, slotIdx int) {
	slot := &f.Slots[slotIdx]
	res := slot.Kind

	s.Search.Reset()
	s.Search.AddSource(h)

	var best entitystore.FlagHandle
	bestPrio := -1
	_ = s.Search.Execute(func(visited entitystore.FlagHandle, vf *roadgraph.Flag) bool {
		if prio, ok := s.Lookup.BuildingAcceptsResource(visited, res); ok {
			if prio > bestPrio {
				best, bestPrio = visited, prio
			}
			if prio > goodEnoughPriority {
				return true
			}
		}
		return false
	})

	if bestPrio < 0 {
		slot.Dest = entitystore.NoFlag
		return
	}
	slot.Dest = best
	dir := pickOutboundDirection(f)
	if dir >= 0 {
		slot.ScheduledDir = int8(dir) + 1
	}
}

func (s *Scheduler) routeToNearestInventory(h entitystore.FlagHandle, f *roadgraph.Flag, slotIdx int) {
	slot := &f.Slots[slotIdx]

	s.Search.Reset()
	s.Search.AddSource(h)

	var best entitystore.FlagHandle
	found := false
	_ = s.Search.Execute(func(visited entitystore.FlagHandle, vf *roadgraph.Flag) bool {
		if inv, ok := s.Lookup.InventoryAt(visited); ok && inv.AcceptsResources() {
			best = visited
			found = true
			return true
		}
		return false
	})

	if !found {
		if h == slot.Dest || slot.Dest == entitystore.NoFlag {
			// Already sitting at the only candidate (or nowhere better
			// exists): spin the resource one edge out and back to keep
			// the deliver invariant satisfied rather than stalling it.
			s.spinInPlace(f, slotIdx)
		}
		return
	}

	slot.Dest = best
	dir := pickOutboundDirection(f)
	if dir >= 0 {
		slot.ScheduledDir = int8(dir) + 1
	}
}

func (s *Scheduler) spinInPlace(f *roadgraph.Flag, slotIdx int) {
	dir := pickOutboundDirection(f)
	if dir < 0 {
		return
	}
	f.Slots[slotIdx].ScheduledDir = int8(dir) + 1
}

// prioritizePickup records which slot is fetched next on dir in
// f.NextPickup[dir]: the one with the highest player.FlagPriority among
// all slots scheduled that way. Kept as a plain recomputation over the flag's 8 slots since that
// bound is small and fixed.
func (s *Scheduler) prioritizePickup(f *roadgraph.Flag, dir hexmap.Direction, player PriorityProvider) {
	best := -1
	bestPrio := -1
	for i := range f.Slots {
		slot := &f.Slots[i]
		if !slot.Occupied || !slot.HasScheduledDir() {
			continue
		}
		if hexmap.Direction(slot.ScheduledDir-1) != dir {
			continue
		}
		prio := 0
		if player != nil {
			prio = player.FlagPriority(slot.Kind)
		}
		if prio > bestPrio {
			best, bestPrio = i, prio
		}
	}
	if best >= 0 {
		f.NextPickup[dir] = uint8(best)
	}
}

// idleTransporterDirections ranks directions by idleness class
// (strictly-more-than-k slots queued on edge d), returning the
// directions to seed a BFS from, closest idleness class first.
func idleTransporterDirections(f *roadgraph.Flag) []hexmap.Direction {
	var dirs []hexmap.Direction
	for class := 0; class < 4; class++ {
		for d := 0; d < 6; d++ {
			dir := hexmap.Direction(d)
			if !f.HasPath(dir) {
				continue
			}
			if f.QueuedOnEdge(dir) > class {
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

func pickOutboundDirection(f *roadgraph.Flag) int {
	for d := 0; d < 6; d++ {
		if f.HasPath(hexmap.Direction(d)) {
			return d
		}
	}
	return -1
}

// recruitTransporters walks every flag once more, requesting a
// transporter on any path that is under its category maximum and has no
// request outstanding yet.
func (s *Scheduler) recruitTransporters(owner uint8) {
	s.Graph.Flags.Each(func(h entitystore.FlagHandle, f *roadgraph.Flag) {
		for d := 0; d < 6; d++ {
			dir := hexmap.Direction(d)
			if !f.HasPath(dir) {
				continue
			}
			if f.TransporterRequested&(1<<uint(dir)) != 0 {
				continue
			}
			max := roadgraph.MaxTransporters[f.Length[dir]]
			if int(f.QueuedOnEdge(dir)) >= max {
				continue
			}
			s.callTransporter(h, f, dir)
		}
	})
}

// callTransporter runs a two-source BFS (this flag and the far end),
// looking for the closer inventory with an idle TRANSPORTER (or SAILOR
// for a water segment) to dispatch, or one that could manufacture a
// generic serf into one.
func (s *Scheduler) callTransporter(h entitystore.FlagHandle, f *roadgraph.Flag, dir hexmap.Direction) {
	end := f.Endpoints[dir]
	s.Search.Reset()
	s.Search.AddSource(h)
	if end.Kind == roadgraph.EndpointFlag {
		s.Search.AddSource(end.Flag)
	}

	serfKind := inventory.SerfTransporter
	if f.IsWaterSegment(dir) {
		serfKind = inventory.SerfSailor
	}

	dispatched := false
	_ = s.Search.Execute(func(visited entitystore.FlagHandle, vf *roadgraph.Flag) bool {
		inv, ok := s.Lookup.InventoryAt(visited)
		if !ok {
			return false
		}
		if inv.TakeSerf(serfKind) {
			dispatched = true
			return true
		}
		if inv.TakeSerf(inventory.SerfGeneric) {
			inv.AddSerf(serfKind, 1)
			inv.TakeSerf(serfKind)
			dispatched = true
			return true
		}
		return false
	})

	if dispatched {
		f.TransporterRequested |= 1 << uint(dir)
		if end.Kind == roadgraph.EndpointFlag {
			if other := s.Graph.Flags.Get(end.Flag); other != nil {
				other.TransporterRequested |= 1 << uint(f.OtherEndDir[dir])
			}
		}
	}
}
