package serf

import "holdground/hexmap"

// stepWalking advances a serf one road segment. Every tick it re-reads
// the fetch marker at its current flag (via WalkStep, which encapsulates
// the road-graph lookup) so a resource re-routed mid-transit is honored,
// matching spec.md §4.7's "at each flag re-decides direction using
// other_end_dir fetch markers".
func stepWalking(s *Serf, ctx *Context) {
	if ctx.WalkStep == nil {
		s.Counter = animTicks(1)
		return
	}
	dir := s.Payload.Walking.Dir
	newPos, atFlag := ctx.WalkStep(s, dir)
	s.Pos = newPos
	s.Counter = animTicks(16)

	if !atFlag {
		return
	}

	switch s.Payload.Walking.Res {
	case -1: // reached the intended target flag
		if s.State == StateTransporting || s.State == StateDelivering {
			s.State = StateEnteringBuilding
			s.Payload.Ramp.NextState = StateReadyToLeave
			s.Payload.Ramp.SlopeLen = 4
		}
	case -2: // destination was cleared underfoot: go idle here
		s.State = StateIdleOnPath
	default:
		// Non-negative: keep walking in the direction the flag's fetch
		// marker now points.
	}
}

// stepDigging runs the six-hex-corner leveling cycle construction needs
// before progress can begin accumulating.
func stepDigging(s *Serf, ctx *Context) {
	s.Payload.Construction.Substate++
	if s.Payload.Construction.Substate >= 6 {
		s.Payload.Construction.Substate = 0
		s.State = StateBuilding
	}
	s.Counter = animTicks(32)
}

// stepBuilding advances construction material consumption; the actual
// progress math lives on the Building entity (package building), reached
// through the sim-level wiring this package does not import directly.
// Here the serf simply keeps animating as long as it is present on site.
func stepBuilding(s *Serf, ctx *Context) {
	s.Payload.Construction.MaterialStep++
	s.Counter = animTicks(32)
}

// stepMoveResourceOut walks the three-state inventory-to-flag handoff:
// fetch from stock, wait for a path to clear, drop onto the flag.
func stepMoveResourceOut(s *Serf, ctx *Context) {
	switch s.State {
	case StateMoveResourceOut:
		s.State = StateWaitForResourceOut
		s.Counter = animTicks(4)
	case StateWaitForResourceOut:
		s.State = StateDropResourceOut
		s.Counter = animTicks(4)
	case StateDropResourceOut:
		s.State = s.Payload.MoveResource.NextState
		s.Counter = animTicks(1)
	}
}

// stepFreeWalking implements the Manhattan-on-hex descent toward a
// target tile: each call takes the one hex step pickDescentDirection
// chooses and subtracts that step's column/row change from
// DistCol/DistRow.
func stepFreeWalking(s *Serf, ctx *Context) {
	fw := &s.Payload.FreeWalking
	if fw.DistCol == 0 && fw.DistRow == 0 {
		// Arrived: transition handled by the state that set these
		// fields (e.g. PLANNING_* leaves a terminal next-state queued
		// in Payload.Ramp.NextState).
		s.State = s.Payload.Ramp.NextState
		s.Counter = animTicks(1)
		return
	}

	dir := pickDescentDirection(fw.DistCol, fw.DistRow)
	if ctx.Map != nil {
		s.Pos = neighborForDir(ctx.Map, s.Pos, dir)
	}
	applyStep(fw, dir)
	s.Counter = animTicks(16)
}

// pickDescentDirection chooses a hex direction from the signs of the two
// offsets: Up or Down when one step shrinks both, otherwise Right or Left
// while DistCol is non-zero, then DownRight or UpLeft for the row — a
// deterministic function of the offsets alone so two serfs given the
// same target converge on the same path.
func pickDescentDirection(distCol, distRow int8) hexmap.Direction {
	switch {
	case distCol > 0 && distRow >= 0:
		return hexmap.DirRight
	case distCol > 0 && distRow < 0:
		return hexmap.DirUp
	case distCol < 0 && distRow <= 0:
		return hexmap.DirLeft
	case distCol < 0 && distRow > 0:
		return hexmap.DirDown
	case distRow > 0:
		return hexmap.DirDownRight
	default:
		return hexmap.DirUpLeft
	}
}

func applyStep(fw *struct {
	DistCol int8
	DistRow int8
	Neg1    int8
	Neg2    int8
	Flags   uint8
}, dir hexmap.Direction) {
	switch dir {
	case hexmap.DirRight:
		fw.DistCol--
	case hexmap.DirLeft:
		fw.DistCol++
	case hexmap.DirDown:
		fw.DistRow--
		fw.DistCol++
	case hexmap.DirUp:
		fw.DistRow++
		fw.DistCol--
	case hexmap.DirDownRight:
		fw.DistRow--
	case hexmap.DirUpLeft:
		fw.DistRow++
	}
}

// stepTerminalAction runs the fixed-duration "do the job" animation for
// LOGGING/PLANTING/STONECUTTING/FISHING/FARMING/SAMPLING_GEO_SPOT, then
// hands off to FREE_WALKING for the walk home (modeled here as returning
// straight to IDLE_ON_PATH, since the walk-home descent reuses the same
// FreeWalking payload shape already populated by the PLANNING_* state).
func stepTerminalAction(s *Serf, ctx *Context) {
	s.Counter = animTicks(64)
	s.State = StateFreeWalking
	s.Payload.Ramp.NextState = StateIdleOnPath
}

// stepPlanning scans a spiral around the building for a valid target
// tile (tree to fell, empty soil to plant, stone deposit, water,
// fertile field) and on success populates FreeWalking with the
// descent offsets and queues the matching terminal state.
func stepPlanning(s *Serf, ctx *Context) {
	terminal := planningTerminal(s.State)
	found, dc, dr := scanSpiralForTarget(s, ctx)
	if !found {
		// No candidate within range: retry next tick rather than
		// notifying immediately, per spec.md §4.7.
		s.Counter = animTicks(16)
		return
	}
	s.Payload.FreeWalking.DistCol = dc
	s.Payload.FreeWalking.DistRow = dr
	s.Payload.Ramp.NextState = terminal
	s.State = StateFreeWalking
	s.Counter = animTicks(1)
}

func planningTerminal(planning State) State {
	switch planning {
	case StatePlanningLogging:
		return StateLogging
	case StatePlanningPlanting:
		return StatePlanting
	case StatePlanningStonecutting:
		return StateStonecutting
	case StatePlanningFishing:
		return StateFishing
	case StatePlanningFarming:
		return StateFarming
	default:
		return StateIdleOnPath
	}
}

// scanSpiralForTarget is a placeholder search hook: package sim supplies
// the real spiral scan (it owns the map and object predicates); absent
// that wiring this always reports "not found" so the serf simply retries
// rather than crashing.
func scanSpiralForTarget(s *Serf, ctx *Context) (found bool, distCol, distRow int8) {
	return false, 0, 0
}

// stepLookingForGeoSpot runs a geologist's random walk, occasionally
// transitioning to SAMPLING_GEO_SPOT to plant a prospecting sign.
func stepLookingForGeoSpot(s *Serf, ctx *Context) {
	if ctx.Rng != nil && ctx.Rng.Chance(1, 8) {
		s.State = StateSamplingGeoSpot
		s.Counter = animTicks(32)
		return
	}
	dir := hexmap.Direction(0)
	if ctx.Rng != nil {
		dir = hexmap.Direction(ctx.Rng.IntN(6))
	}
	if ctx.Map != nil {
		s.Pos = neighborForDir(ctx.Map, s.Pos, dir)
	}
	s.Counter = animTicks(16)
}

// stepMining runs the four-phase enter/dig/eat/exit cycle; the exit's
// success is a fixed 2-in-3 roll via ctx.Rng, and the remaining deposit
// amount does not change the odds.
func stepMining(s *Serf, ctx *Context) {
	m := &s.Payload.Mining
	switch m.Substate {
	case 0: // enter
		m.Substate = 1
		s.Counter = animTicks(32)
	case 1: // dig
		m.Substate = 2
		s.Counter = animTicks(64)
	case 2: // eat food from building stock
		m.Substate = 3
		s.Counter = animTicks(16)
	case 3: // exit, carrying ore if the roll succeeds
		success := ctx.Rng != nil && ctx.Rng.Chance(2, 3)
		if success && ctx.Map != nil {
			ctx.Map.RemoveGroundDeposit(m.Pos, 1)
			if ctx.Map.Tile(m.Pos).DepositAmt == 0 && ctx.Notify != nil {
				ctx.Notify(s.Owner, "MINE_EMPTY", m.Pos)
			}
		}
		m.Substate = 0
		s.State = StateLeavingBuilding
		s.Payload.Ramp.NextState = StateTransporting
		s.Payload.Ramp.SlopeLen = 4
	}
}

// stepProductionLoop runs one production-building worker's fixed-interval
// consume/produce cycle. The actual stock arithmetic is owned by package
// building (ProductionState.Advance); each call here drives one quantum
// of it via ctx.ProductionStep, matching the worker's own 32-unit
// animation span.
func stepProductionLoop(s *Serf, ctx *Context) {
	if ctx.ProductionStep != nil {
		ctx.ProductionStep(s, 32)
	}
	s.Payload.Production.Counter++
	s.Counter = animTicks(32)
}

// stepCombat is the knight sub-FSM's shared stepping stone: most combat
// states are brief ramps toward ATTACKING/DEFENDING; package sim drives
// both combatants through this handler via driveToDuel, resolves the
// rounds-of-d20 duel itself (it owns both serfs and the shared RNG stream),
// then drives each combatant's resulting VICTORY/DEFEAT state back through
// here via driveFromDuel.
func stepCombat(s *Serf, ctx *Context) {
	switch s.State {
	case StateKnightEngagingBuilding:
		s.State = StateKnightPrepareAttacking
		s.Counter = animTicks(16)
	case StateKnightPrepareAttacking:
		s.State = StateKnightLeaveForFight
		s.Counter = animTicks(8)
	case StateKnightLeaveForFight:
		s.State = StateKnightAttacking
		s.Counter = animTicks(8)
	case StateKnightPrepareDefending:
		s.State = StateKnightDefending
		s.Counter = animTicks(8)
	case StateKnightAttacking, StateKnightDefending:
		// Round resolution happens externally in package sim, which owns
		// both combatants and flips this state once a round is resolved.
		s.Counter = animTicks(32)
	case StateKnightAttackingVictory, StateKnightAttackingVictoryFree,
		StateKnightDefendingVictoryFree:
		s.State = StateKnightOccupyEnemyBuilding
		s.Counter = animTicks(16)
	case StateKnightOccupyEnemyBuilding:
		s.State = StateWalking
		s.Counter = animTicks(16)
	case StateKnightAttackingDefeat, StateKnightAttackingDefeatFree:
		s.State = StateNull // killed; sim frees the handle
		s.Counter = 0
	default:
		s.Counter = animTicks(16)
	}
}

// stepLost moves a lost serf one random hex per step, giving up (the
// serf dies) once it has spent maxLostTicks steps lost. No territory
// check is made: reaching owned land does not end the wandering.
func stepLost(s *Serf, ctx *Context) {
	const maxLostTicks = 127 // ceiling of the int8 Lost.FieldB counter
	s.Payload.Lost.FieldB++
	if s.Payload.Lost.FieldB >= maxLostTicks {
		s.State = StateNull
		s.Counter = 0
		return
	}
	if ctx.Rng != nil {
		dir := hexmap.Direction(ctx.Rng.IntN(6))
		if ctx.Map != nil {
			s.Pos = neighborForDir(ctx.Map, s.Pos, dir)
		}
	}
	s.Counter = animTicks(16)
}

// stepIdleOnPath parks a transporter on its assigned segment until woken
// by an incoming resource.
func stepIdleOnPath(s *Serf, ctx *Context) {
	s.Counter = animTicks(16)
}
