package serf

import (
	"holdground/hexmap"
)

// Serf is one worker unit: its role, position, and current behavior
// state plus that state's payload.
type Serf struct {
	Type  Type
	Owner uint8

	Anim    uint16
	Counter int32 // 1/1000-tick units remaining until the next micro-step
	Pos     hexmap.Pos
	Tick    uint32

	State   State
	Payload Payload
}

// NewIdle creates a serf parked inside its home inventory.
func NewIdle(kind Type, owner uint8, pos hexmap.Pos) *Serf {
	return &Serf{Type: kind, Owner: owner, Pos: pos, State: StateIdleInStock}
}

// Step decrements the serf's counter by elapsed game time (in 1/1000-tick
// units) and, once it reaches zero or below, dispatches to the handler
// for its current state. The handler may chain through several states in
// a single call (spec.md §4.7: "handler runs zero or more transitions
// until the counter is non-positive"), so Step loops until either the
// counter goes positive again or the state stops changing.
func (s *Serf) Step(elapsed int32, ctx *Context) {
	s.Counter -= elapsed
	for s.Counter <= 0 {
		before := s.State
		handle(s, ctx)
		if s.State == before {
			break
		}
	}
}

// Context bundles the external dependencies a state handler needs:
// the map (for passability/occupancy), and small hooks back into the
// road graph / building / inventory / RNG layers. Kept as function
// fields rather than concrete package types to avoid serf depending on
// roadgraph/building/inventory/flagsearch directly — those packages
// already depend on entitystore and would create an import cycle if serf
// imported them back for full struct access; instead package sim wires
// these closures once per tick.
type Context struct {
	Map *hexmap.Map
	Rng RandomSource

	// WalkStep asks the road-graph layer to move the serf one segment in
	// dir from its current flag, returning the new position and whether
	// the flag at the far end was reached.
	WalkStep func(s *Serf, dir hexmap.Direction) (newPos hexmap.Pos, atFlag bool)

	// EnterBuilding/LeaveBuilding perform the building-side bookkeeping
	// (SerfPresent bit, stock handoff) for the ramp states.
	EnterBuilding func(s *Serf)
	LeaveBuilding func(s *Serf)

	// ProductionStep drives one quantum of the resident building's
	// production program (building.ProductionState.Advance) against the
	// building s.Payload.Production.Building names, depositing any output
	// onto the building's flag. Returns true if a unit was produced.
	ProductionStep func(s *Serf, anim uint16) bool

	// Notify appends a player notification (spec.md §7's user-visible
	// failures), e.g. (MINE_EMPTY, pos).
	Notify func(player uint8, kind string, pos hexmap.Pos)
}

// RandomSource is the narrow slice of *simrand.Source the FSM consumes,
// kept as an interface so serf does not import package simrand's
// concrete type into its public API.
type RandomSource interface {
	IntN(n int) int
	Chance(num, den int) bool
}
