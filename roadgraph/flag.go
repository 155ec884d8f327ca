// Package roadgraph implements Flags and the road network connecting them:
// building and demolishing road segments, splitting a path by inserting an
// intermediate flag, and the per-direction resource slot bookkeeping a
// Flag carries.
//
// Grounded on typedef.go's struct style (plain exported fields, small
// bitfield-style enums) and on eruntime's road/transit handling idiom for
// the transporter/length packing.
package roadgraph

import (
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
)

// ResourceSlots is the number of resource slots a Flag can hold at once,
// one per incoming direction plus spares, matching spec.md §4.2.
const ResourceSlots = 8

// RoadLengthCategory buckets a road segment's tile length into one of eight
// categories (0..7) used to pick the maximum transporter count a segment
// may carry; see MaxTransporters.
type RoadLengthCategory uint8

// MaxTransporters gives the maximum number of dedicated transporters a
// segment of each category may be assigned, per spec.md §4.3.
var MaxTransporters = [8]int{1, 2, 3, 4, 6, 8, 11, 15}

// LengthCategory converts a tile count into its road-length category,
// following spec.md §4.3's breakpoint table: L>=24->7, >=18->6, >=13->5,
// >=10->4, >=7->3, >=6->2, >=4->1, else 0.
func LengthCategory(tiles int) RoadLengthCategory {
	switch {
	case tiles >= 24:
		return 7
	case tiles >= 18:
		return 6
	case tiles >= 13:
		return 5
	case tiles >= 10:
		return 4
	case tiles >= 7:
		return 3
	case tiles >= 6:
		return 2
	case tiles >= 4:
		return 1
	default:
		return 0
	}
}

// EndpointKind tags what a Flag's path in a given direction actually
// connects to at its far end: nothing, another Flag, or (for a flag sitting
// directly in front of a building) that building.
type EndpointKind uint8

const (
	EndpointNone EndpointKind = iota
	EndpointFlag
	EndpointBuilding
)

// Endpoint is the tagged union of "what's at the other end of this path
// segment" used by the Flag's per-direction neighbor table.
type Endpoint struct {
	Kind     EndpointKind
	Flag     entitystore.FlagHandle
	Building entitystore.BuildingHandle
}

// Flag is one road-network node: up to six outgoing path segments, a
// resource transfer buffer, and per-direction transporter/length
// bookkeeping. Field layout mirrors original_source/src/flag.h's
// flag_t (path_con bits, transporter bits, length[6], slot arrays)
// but keeps each concern in its own named Go field.
type Flag struct {
	Pos hexmap.Pos

	// PathCon bit i is set when a path leaves this flag in direction i.
	PathCon uint8
	// TransporterAssigned bit i is set when a dedicated transporter
	// currently serves the path in direction i.
	TransporterAssigned uint8
	// TransporterRequested bit i is set while the scheduler is actively
	// trying to recruit a transporter for direction i.
	TransporterRequested uint8

	Endpoints [6]Endpoint
	Length    [6]RoadLengthCategory
	// TileLen[i] is the exact tile count of the path leaving in direction
	// i, kept alongside the coarser Length category so tear-down can walk
	// the map path bits precisely instead of reconstructing a lossy
	// estimate from the category.
	TileLen [6]int

	// OtherEndDir[i] is the direction index used by the flag at the far
	// end of the path leaving in direction i, needed to remove both path
	// bits symmetrically without a lattice walk.
	OtherEndDir [6]Direction

	// Slots holds resources waiting for pickup at this flag; a slot with
	// Occupied == false is empty.
	Slots [ResourceSlots]ResourceSlot

	// resourcesWaiting mirrors the endpoint "resources waiting" bit in
	// spec.md §3; set whenever a slot transitions from empty to occupied,
	// cleared by the scheduler at the start of each flag's dispatch pass.
	resourcesWaiting bool

	// NextPickup[dir] holds the slot index that will be fetched next by
	// a transporter leaving in direction dir, as scheduler's
	// prioritizePickup computes it (spec.md §4.5).
	NextPickup [6]uint8

	// waterSegment[dir] marks a path as running entirely over water,
	// serviced by a SAILOR rather than a TRANSPORTER.
	waterSegment [6]bool

	// BldRequest bit i is set while the building behind this flag (if
	// any) has an outstanding resource request the scheduler should favor.
	BldRequest uint8

	// SearchNum/SearchDir are FlagSearch scratch fields, valid only
	// during the generation stamped into searchNum; see package
	// flagsearch.
	SearchNum uint32
	SearchDir hexmap.Direction
}

// ResourcesWaiting reports whether this flag has at least one resource
// slot awaiting scheduling.
func (f *Flag) ResourcesWaiting() bool { return f.resourcesWaiting }

// ClearResourcesWaiting clears the waiting bit; called by the scheduler
// at the start of a flag's dispatch pass.
func (f *Flag) ClearResourcesWaiting() { f.resourcesWaiting = false }

// MarkResourceWaiting sets the waiting bit, called whenever a new
// resource lands in a slot.
func (f *Flag) MarkResourceWaiting() { f.resourcesWaiting = true }

// SetWaterSegment marks the path leaving dir as a water crossing.
func (f *Flag) SetWaterSegment(dir Direction, water bool) { f.waterSegment[dir] = water }

// IsWaterSegment reports whether the path leaving dir is a water
// crossing, serviced by a sailor instead of a transporter.
func (f *Flag) IsWaterSegment(dir Direction) bool { return f.waterSegment[dir] }

// QueuedOnEdge counts how many slots are currently scheduled to leave in
// direction dir, used to rank idle-transporter directions and to cap
// recruitment at the segment's category maximum.
func (f *Flag) QueuedOnEdge(dir Direction) int {
	n := 0
	for i := range f.Slots {
		if f.Slots[i].Occupied && f.Slots[i].HasScheduledDir() && Direction(f.Slots[i].ScheduledDir-1) == dir {
			n++
		}
	}
	return n
}

// Direction is re-exported under the package's own name so callers of
// roadgraph don't need to additionally import hexmap for direction
// arithmetic local to the road graph.
type Direction = hexmap.Direction

// ResourceSlot is one pending delivery sitting at a flag. The zero value
// is a valid empty slot (Occupied == false), matching spec.md §3's "slot
// empty iff type == none" invariant without needing a sentinel Resource
// value.
type ResourceSlot struct {
	Occupied bool
	Kind     inventory.Resource
	// Dest is the flag this resource is ultimately routed toward; the
	// zero handle means "no specific destination yet" (still awaiting
	// scheduling).
	Dest entitystore.FlagHandle
	// ScheduledDir is 0 when not yet scheduled, or dir+1 once the
	// scheduler has committed this slot to leave in direction dir.
	ScheduledDir int8
}

// HasScheduledDir reports whether this slot has been assigned an
// outbound direction by the scheduler.
func (s *ResourceSlot) HasScheduledDir() bool { return s.ScheduledDir != 0 }

// Fill occupies an empty slot with a resource, marking it waiting for
// scheduling.
func (s *ResourceSlot) Fill(kind inventory.Resource) {
	*s = ResourceSlot{Occupied: true, Kind: kind}
}

// Clear empties the slot back to its default "no resource" state.
func (s *ResourceSlot) Clear() {
	*s = ResourceSlot{}
}

// HasPath reports whether a road segment leaves this flag in dir.
func (f *Flag) HasPath(dir Direction) bool {
	return f.PathCon&(1<<uint(dir)) != 0
}

// FreeDirection finds the lowest-numbered direction with no path, or -1 if
// all six are occupied (a Flag can host at most 6 roads).
func (f *Flag) FreeDirection() int {
	for d := 0; d < 6; d++ {
		if f.PathCon&(1<<uint(d)) == 0 {
			return d
		}
	}
	return -1
}

// IsTransporterAssigned reports whether direction dir already has a
// dedicated transporter walking it.
func (f *Flag) IsTransporterAssigned(dir Direction) bool {
	return f.TransporterAssigned&(1<<uint(dir)) != 0
}

// DepositResource occupies the first free slot with kind, optionally
// pre-assigning dest, and marks the flag as having resources waiting for
// the scheduler. Returns false if all 8 slots are already occupied.
func (f *Flag) DepositResource(kind inventory.Resource, dest entitystore.FlagHandle) bool {
	for i := range f.Slots {
		if !f.Slots[i].Occupied {
			f.Slots[i].Fill(kind)
			f.Slots[i].Dest = dest
			f.MarkResourceWaiting()
			return true
		}
	}
	return false
}
