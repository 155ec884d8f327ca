package serf

import (
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
)

// Payload is the serf's per-state tagged union. Field groups are named
// after serf.h's lettered union-member comments (the B/C/D/E/F slots
// inside serf_t's anonymous union) so a reader cross-referencing the
// original source can find the equivalent field quickly; unlike the
// original, each group here is a named Go field instead of a raw union
// member, per spec.md §9's "never reinterpret-cast" rule.
type Payload struct {
	// Walking covers WALKING/TRANSPORTING/DELIVERING: `Res` encodes
	// either a direction (>= 0) or a special marker (-1 target flag
	// reached, -2 destination cleared underfoot).
	Walking struct {
		DestFlag entitystore.FlagHandle
		Res      int8
		Dir      hexmap.Direction
		DirFF    hexmap.Direction
	}

	// EnteringBuilding / LeavingBuilding / ReadyToEnter / ReadyToLeave
	// share a single ramp-animation slot plus a follow-on state.
	Ramp struct {
		FieldB     int8
		SlopeLen   uint16
		NextState  State
	}

	// Digging/Building/BuildingCastle construction payload.
	Construction struct {
		Building     entitystore.BuildingHandle
		Substate     uint8 // digging: 0..5 hex-corner cycle
		MaterialStep uint8
	}

	// MoveResourceOut / WaitForResourceOut / DropResourceOut.
	MoveResource struct {
		Res       inventory.Resource
		ResDest   entitystore.FlagHandle
		NextState State
	}

	// FreeWalking is the pathless-movement descent used by a wide
	// family of terminal-action states (LOGGING, PLANTING, etc).
	FreeWalking struct {
		DistCol int8
		DistRow int8
		Neg1    int8
		Neg2    int8
		Flags   uint8
	}

	// Mining's four-phase cycle.
	Mining struct {
		Substate    uint8
		Pos         hexmap.Pos
		Deposit     hexmap.DepositKind
	}

	// Production covers SMELTING/MILLING/BAKING/PIGFARMING/BUTCHERING/
	// MAKING_WEAPON/MAKING_TOOL/BUILDING_BOAT/SAWING.
	Production struct {
		Building entitystore.BuildingHandle
		Counter  uint16
	}

	// Combat covers every KNIGHT_* state.
	Combat struct {
		DefenderHandle entitystore.SerfHandle
		FieldB         uint8 // selected defender slot / round counter
		Rounds         uint8
		AttackerWon    bool
		TargetBuilding entitystore.BuildingHandle
	}

	// Lost covers LOST/LOST_SAILOR: a count of steps spent wandering,
	// up to the limit at which the serf is given up for dead.
	Lost struct {
		FieldB int8
	}

	// IdlePath covers IDLE_ON_PATH/WAIT_IDLE_ON_PATH/WAKE_AT_FLAG/
	// WAKE_ON_PATH: where on a road segment the serf is parked.
	IdlePath struct {
		Flag entitystore.FlagHandle
		Dir  hexmap.Direction
	}
}
