package serf

import "holdground/hexmap"

// handle dispatches one micro-step for s's current state. The switch is
// the single per-tick dispatch spec.md §9 asks for; shared walk/animate
// prologues live in helpers.go. Many terminal production/combat states
// share a handful of shapes (fixed-interval production loop, ramp
// animation, free-walk descent); those shapes are factored into the
// helpers rather than repeated per state.
func handle(s *Serf, ctx *Context) {
	switch s.State {
	case StateIdleInStock:
		// Dispatched externally (via ReadyToLeaveInventory) by the
		// scheduler/building layer requesting this serf; nothing to do
		// on its own.
		s.Counter = 0

	case StateReadyToLeaveInventory:
		s.State = StateWalking
		s.Counter = animTicks(16)

	case StateWalking, StateTransporting, StateDelivering:
		stepWalking(s, ctx)

	case StateEnteringBuilding:
		if ctx.EnterBuilding != nil {
			ctx.EnterBuilding(s)
		}
		s.State = s.Payload.Ramp.NextState
		s.Counter = animTicks(s.Payload.Ramp.SlopeLen)

	case StateLeavingBuilding:
		if ctx.LeaveBuilding != nil {
			ctx.LeaveBuilding(s)
		}
		s.State = s.Payload.Ramp.NextState
		s.Counter = animTicks(s.Payload.Ramp.SlopeLen)

	case StateReadyToEnter:
		s.State = StateEnteringBuilding
		s.Counter = animTicks(s.Payload.Ramp.SlopeLen)

	case StateReadyToLeave:
		s.State = StateLeavingBuilding
		s.Counter = animTicks(s.Payload.Ramp.SlopeLen)

	case StateDigging:
		stepDigging(s, ctx)

	case StateBuilding, StateBuildingCastle:
		stepBuilding(s, ctx)

	case StateMoveResourceOut, StateWaitForResourceOut, StateDropResourceOut:
		stepMoveResourceOut(s, ctx)

	case StateFreeWalking, StateKnightFreeWalking:
		stepFreeWalking(s, ctx)

	case StateLogging, StatePlanting, StateStonecutting,
		StateFishing, StateFarming, StateSamplingGeoSpot:
		stepTerminalAction(s, ctx)

	case StatePlanningLogging, StatePlanningPlanting, StatePlanningStonecutting,
		StatePlanningFishing, StatePlanningFarming:
		stepPlanning(s, ctx)

	case StateStonecutterFreeWalking:
		stepFreeWalking(s, ctx)

	case StateLookingForGeoSpot:
		stepLookingForGeoSpot(s, ctx)

	case StateMining:
		stepMining(s, ctx)

	case StateSmelting, StateMilling, StateBaking, StatePigfarming,
		StateButchering, StateMakingWeapon, StateMakingTool,
		StateBuildingBoat, StateSawing:
		stepProductionLoop(s, ctx)

	case StateKnightEngagingBuilding, StateKnightPrepareAttacking,
		StateKnightLeaveForFight, StateKnightPrepareDefending,
		StateKnightAttacking, StateKnightDefending,
		StateKnightAttackingVictory, StateKnightAttackingDefeat,
		StateKnightOccupyEnemyBuilding,
		StateKnightEngageDefendingFree, StateKnightEngageAttackingFree,
		StateKnightEngageAttackingFreeJoin, StateKnightPrepareAttackingFree,
		StateKnightPrepareDefendingFree, StateKnightPrepareDefendingFreeWait,
		StateKnightAttackingFree, StateKnightDefendingFree,
		StateKnightAttackingVictoryFree, StateKnightDefendingVictoryFree,
		StateKnightAttackingFreeWait, StateKnightLeaveForWalkToFight,
		StateKnightAttackingDefeatFree:
		stepCombat(s, ctx)

	case StateLost, StateLostSailor:
		stepLost(s, ctx)

	case StateFreeSailing:
		stepFreeWalking(s, ctx)

	case StateEscapeBuilding:
		s.State = StateLost
		s.Payload.Lost.FieldB = 0
		s.Counter = animTicks(1)

	case StateIdleOnPath, StateWaitIdleOnPath, StateWakeAtFlag, StateWakeOnPath:
		stepIdleOnPath(s, ctx)

	case StateDefendingHut, StateDefendingTower, StateDefendingFortress,
		StateDefendingCastle:
		// Garrisoned knight: no per-tick behavior of its own until
		// combat is triggered externally (the attacking knight's
		// KNIGHT_ENGAGING_BUILDING transition picks a defender).
		s.Counter = animTicks(16)

	case StateScatter:
		stepFreeWalking(s, ctx)

	case StateFinishedBuilding:
		s.State = StateReadyToLeave
		s.Counter = animTicks(1)

	default:
		s.Counter = animTicks(1)
	}
}

// animTicks converts an anim-unit count into the 1/1000-tick Counter
// unit state handlers decrement against.
func animTicks(anim uint16) int32 {
	return int32(anim) * 1000
}

// neighborForDir is a small convenience used by several handlers to walk
// the map from the serf's current tile.
func neighborForDir(m *hexmap.Map, pos hexmap.Pos, dir hexmap.Direction) hexmap.Pos {
	return m.Neighbor(pos, dir)
}
