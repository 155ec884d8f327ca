// Package serf implements the serf state machine: the ~76-state enum,
// its tagged-union payload, and the per-tick dispatch that advances one
// serf by one step.
//
// Grounded bit-for-bit on original_source/src/serf.h's serf_state_t
// ordering (spec.md §4.7), with the payload struct's field groups
// following serf.h's lettered union-member comments (B/C/D/E/F slots).
package serf

// State enumerates every serf behavior mode, in the same order as
// original_source/src/serf.h's serf_state_t so state numbers in a loaded
// save match this package's values exactly.
type State int

const (
	StateNull State = iota
	StateIdleInStock
	StateWalking
	StateTransporting
	StateEnteringBuilding
	StateLeavingBuilding
	StateReadyToEnter
	StateReadyToLeave
	StateDigging
	StateBuilding
	StateBuildingCastle
	StateMoveResourceOut
	StateWaitForResourceOut
	StateDropResourceOut
	StateDelivering
	StateReadyToLeaveInventory
	StateFreeWalking
	StateLogging
	StatePlanningLogging
	StatePlanningPlanting
	StatePlanting
	StatePlanningStonecutting
	StateStonecutterFreeWalking
	StateStonecutting
	StateSawing
	StateLost
	StateLostSailor
	StateFreeSailing
	StateEscapeBuilding
	StateMining
	StateSmelting
	StatePlanningFishing
	StateFishing
	StatePlanningFarming
	StateFarming
	StateMilling
	StateBaking
	StatePigfarming
	StateButchering
	StateMakingWeapon
	StateMakingTool
	StateBuildingBoat
	StateLookingForGeoSpot
	StateSamplingGeoSpot
	StateKnightEngagingBuilding
	StateKnightPrepareAttacking
	StateKnightLeaveForFight
	StateKnightPrepareDefending
	StateKnightAttacking
	StateKnightDefending
	StateKnightAttackingVictory
	StateKnightAttackingDefeat
	StateKnightOccupyEnemyBuilding
	StateKnightFreeWalking
	StateKnightEngageDefendingFree
	StateKnightEngageAttackingFree
	StateKnightEngageAttackingFreeJoin
	StateKnightPrepareAttackingFree
	StateKnightPrepareDefendingFree
	StateKnightPrepareDefendingFreeWait
	StateKnightAttackingFree
	StateKnightDefendingFree
	StateKnightAttackingVictoryFree
	StateKnightDefendingVictoryFree
	StateKnightAttackingFreeWait
	StateKnightLeaveForWalkToFight
	StateIdleOnPath
	StateWaitIdleOnPath
	StateWakeAtFlag
	StateWakeOnPath
	StateDefendingHut
	StateDefendingTower
	StateDefendingFortress
	StateScatter
	StateFinishedBuilding
	StateDefendingCastle
	StateKnightAttackingDefeatFree
)

// String names a state for logging, matching serf.h's
// serf_get_state_name convention of an upper-snake identifier.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

var stateNames = map[State]string{
	StateNull:                          "NULL",
	StateIdleInStock:                   "IDLE_IN_STOCK",
	StateWalking:                       "WALKING",
	StateTransporting:                  "TRANSPORTING",
	StateEnteringBuilding:              "ENTERING_BUILDING",
	StateLeavingBuilding:                "LEAVING_BUILDING",
	StateReadyToEnter:                  "READY_TO_ENTER",
	StateReadyToLeave:                  "READY_TO_LEAVE",
	StateDigging:                       "DIGGING",
	StateBuilding:                      "BUILDING",
	StateBuildingCastle:                "BUILDING_CASTLE",
	StateMoveResourceOut:               "MOVE_RESOURCE_OUT",
	StateWaitForResourceOut:            "WAIT_FOR_RESOURCE_OUT",
	StateDropResourceOut:               "DROP_RESOURCE_OUT",
	StateDelivering:                    "DELIVERING",
	StateReadyToLeaveInventory:         "READY_TO_LEAVE_INVENTORY",
	StateFreeWalking:                   "FREE_WALKING",
	StateLogging:                       "LOGGING",
	StatePlanningLogging:               "PLANNING_LOGGING",
	StatePlanningPlanting:              "PLANNING_PLANTING",
	StatePlanting:                      "PLANTING",
	StatePlanningStonecutting:          "PLANNING_STONECUTTING",
	StateStonecutterFreeWalking:        "STONECUTTER_FREE_WALKING",
	StateStonecutting:                  "STONECUTTING",
	StateSawing:                        "SAWING",
	StateLost:                          "LOST",
	StateLostSailor:                    "LOST_SAILOR",
	StateFreeSailing:                   "FREE_SAILING",
	StateEscapeBuilding:                "ESCAPE_BUILDING",
	StateMining:                        "MINING",
	StateSmelting:                      "SMELTING",
	StatePlanningFishing:               "PLANNING_FISHING",
	StateFishing:                       "FISHING",
	StatePlanningFarming:               "PLANNING_FARMING",
	StateFarming:                       "FARMING",
	StateMilling:                       "MILLING",
	StateBaking:                        "BAKING",
	StatePigfarming:                    "PIGFARMING",
	StateButchering:                    "BUTCHERING",
	StateMakingWeapon:                  "MAKING_WEAPON",
	StateMakingTool:                    "MAKING_TOOL",
	StateBuildingBoat:                  "BUILDING_BOAT",
	StateLookingForGeoSpot:             "LOOKING_FOR_GEO_SPOT",
	StateSamplingGeoSpot:               "SAMPLING_GEO_SPOT",
	StateKnightEngagingBuilding:        "KNIGHT_ENGAGING_BUILDING",
	StateKnightPrepareAttacking:        "KNIGHT_PREPARE_ATTACKING",
	StateKnightLeaveForFight:           "KNIGHT_LEAVE_FOR_FIGHT",
	StateKnightPrepareDefending:        "KNIGHT_PREPARE_DEFENDING",
	StateKnightAttacking:               "KNIGHT_ATTACKING",
	StateKnightDefending:               "KNIGHT_DEFENDING",
	StateKnightAttackingVictory:        "KNIGHT_ATTACKING_VICTORY",
	StateKnightAttackingDefeat:         "KNIGHT_ATTACKING_DEFEAT",
	StateKnightOccupyEnemyBuilding:     "KNIGHT_OCCUPY_ENEMY_BUILDING",
	StateKnightFreeWalking:             "KNIGHT_FREE_WALKING",
	StateKnightEngageDefendingFree:     "KNIGHT_ENGAGE_DEFENDING_FREE",
	StateKnightEngageAttackingFree:     "KNIGHT_ENGAGE_ATTACKING_FREE",
	StateKnightEngageAttackingFreeJoin: "KNIGHT_ENGAGE_ATTACKING_FREE_JOIN",
	StateKnightPrepareAttackingFree:    "KNIGHT_PREPARE_ATTACKING_FREE",
	StateKnightPrepareDefendingFree:    "KNIGHT_PREPARE_DEFENDING_FREE",
	StateKnightPrepareDefendingFreeWait: "KNIGHT_PREPARE_DEFENDING_FREE_WAIT",
	StateKnightAttackingFree:           "KNIGHT_ATTACKING_FREE",
	StateKnightDefendingFree:           "KNIGHT_DEFENDING_FREE",
	StateKnightAttackingVictoryFree:    "KNIGHT_ATTACKING_VICTORY_FREE",
	StateKnightDefendingVictoryFree:    "KNIGHT_DEFENDING_VICTORY_FREE",
	StateKnightAttackingFreeWait:       "KNIGHT_ATTACKING_FREE_WAIT",
	StateKnightLeaveForWalkToFight:     "KNIGHT_LEAVE_FOR_WALK_TO_FIGHT",
	StateIdleOnPath:                    "IDLE_ON_PATH",
	StateWaitIdleOnPath:                "WAIT_IDLE_ON_PATH",
	StateWakeAtFlag:                    "WAKE_AT_FLAG",
	StateWakeOnPath:                    "WAKE_ON_PATH",
	StateDefendingHut:                  "DEFENDING_HUT",
	StateDefendingTower:                "DEFENDING_TOWER",
	StateDefendingFortress:             "DEFENDING_FORTRESS",
	StateScatter:                       "SCATTER",
	StateFinishedBuilding:              "FINISHED_BUILDING",
	StateDefendingCastle:               "DEFENDING_CASTLE",
	StateKnightAttackingDefeatFree:     "KNIGHT_ATTACKING_DEFEAT_FREE",
}

// Type enumerates the serf kind (distinct from State): what role a serf
// plays, independent of which behavior state it is currently in.
type Type uint8

const (
	KindTransporter Type = iota
	KindSailor
	KindGeneric
	KindKnight0
	KindKnight1
	KindKnight2
	KindKnight3
	KindKnight4
	KindLumberjack
	KindSawmillWorker
	KindStonecutter
	KindForester
	KindMiner
	KindSmelter
	KindFisherman
	KindPigFarmer
	KindButcher
	KindFarmer
	KindMiller
	KindBaker
	KindBoatBuilder
	KindToolmaker
	KindWeaponSmith
	KindGeologist
)

// IsKnight reports whether t is one of the five knight ranks.
func (t Type) IsKnight() bool { return t >= KindKnight0 && t <= KindKnight4 }

// Rank returns a knight's combat rank 0..4, or -1 if t is not a knight.
func (t Type) Rank() int {
	if !t.IsKnight() {
		return -1
	}
	return int(t - KindKnight0)
}
