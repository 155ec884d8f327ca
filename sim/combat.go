package sim

import (
	"holdground/building"
	"holdground/entitystore"
	"holdground/playerstate"
	"holdground/serf"
	"holdground/territory"
)

// duelStartHP is each combatant's hit-point pool going into a round-of-d20
// duel; duelMaxRounds caps the exchange so a pair of evenly matched ranks
// can't stall the tick indefinitely (ties on the final round favor the
// defender, matching the garrison's home-ground edge).
const (
	duelStartHP   = 60
	duelMaxRounds = 20
)

// resolveDuel runs spec.md §4.7's KNIGHT_ATTACKING rounds-of-d20 duel: each
// round both sides roll a d20 biased by their rank, and the higher roll
// carves the difference (plus one) off the loser's hit points. roll must
// return a value in [1,20]; attackerRank/defenderRank are knight ranks
// (0..4, per serf.Type.Rank).
func resolveDuel(attackerRank, defenderRank int, roll func() int) (attackerWon bool, rounds int) {
	attackerHP, defenderHP := duelStartHP, duelStartHP
	for rounds = 1; rounds <= duelMaxRounds; rounds++ {
		attackerRoll := roll() + attackerRank*2
		defenderRoll := roll() + defenderRank*2
		switch {
		case attackerRoll > defenderRoll:
			defenderHP -= (attackerRoll - defenderRoll) + 1
		case defenderRoll > attackerRoll:
			attackerHP -= (defenderRoll - attackerRoll) + 1
		default:
			attackerHP--
		}
		if defenderHP <= 0 {
			return true, rounds
		}
		if attackerHP <= 0 {
			return false, rounds
		}
	}
	return attackerHP > defenderHP, rounds
}

// driveToDuel steps a freshly-assigned knight serf through its combat
// sub-FSM's approach ramp (ENGAGING_BUILDING/PREPARE_*/LEAVE_FOR_FIGHT for
// the attacker, PREPARE_DEFENDING for the defender) until it reaches
// ATTACKING or DEFENDING, using the real serf.Step/stepCombat transition
// logic rather than setting the terminal state directly.
func driveToDuel(s *serf.Serf, start, stop serf.State) {
	ctx := &serf.Context{}
	s.State = start
	for s.State != stop {
		before := s.State
		s.Counter = 0
		s.Step(0, ctx)
		if s.State == before {
			return
		}
	}
}

// driveFromDuel steps both combatants out of ATTACKING/DEFENDING through
// the victory/defeat/occupy ramp once the round outcome is known, so the
// kill/home-walk transitions are real FSM steps rather than hand-set
// terminal states.
func driveFromDuel(attacker, defender *serf.Serf, attackerWon bool) {
	ctx := &serf.Context{}
	if attackerWon {
		attacker.State = serf.StateKnightAttackingVictory
		defender.State = serf.StateKnightAttackingDefeat
	} else {
		attacker.State = serf.StateKnightAttackingDefeat
		defender.State = serf.StateKnightDefending
	}
	attacker.Counter = 0
	attacker.Step(0, ctx)
	defender.Counter = 0
	defender.Step(0, ctx)
}

// Attack implements attack(player, target_flag, knights): spec.md §8
// scenario 6. It dispatches up to knights knights from the attacker's
// first garrisoned military building in handle order
// (findAttackingBuilding), resolves one duel per pair against
// the defending building's garrison (weakest defender first, per
// building.DischargeWeakest), and — if every defender falls — hands the
// building to the attacker and recomputes territory around it.
//
// Each duel drives both knights through the real KNIGHT_* sub-FSM (§4.7)
// via driveToDuel/driveFromDuel, with the round-by-round outcome decided by
// resolveDuel's rounds-of-d20 mechanic rather than a single coin flip.
func (st *State) Attack(player uint8, targetFlag entitystore.FlagHandle, knights int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	defenderBH, ok := st.flagBuilding[targetFlag]
	if !ok {
		return unknownHandle(KindFlag, entitystore.Handle(targetFlag))
	}
	defBldg := st.Buildings.Get(defenderBH)
	if defBldg == nil {
		return unknownHandle(KindBuilding, entitystore.Handle(defenderBH))
	}
	if !defBldg.Type.IsMilitary() || defBldg.Player == player {
		return blocked(defBldg.Pos, "not an attackable enemy military building")
	}

	_, attBldg := st.findAttackingBuilding(player, knights)
	if attBldg == nil {
		return ErrPartialFailure
	}

	rankOf := func(h entitystore.SerfHandle) int {
		s := st.Serfs.Get(h)
		if s == nil {
			return -1
		}
		return s.Type.Rank()
	}

	dispatched := 0
	attackerWon := true
	for dispatched < knights && len(attBldg.Garrison()) > 0 {
		attacker := attBldg.DischargeWeakest(rankOf)
		dispatched++

		if len(defBldg.Garrison()) == 0 {
			attackerWon = true
			st.Serfs.Free(attacker)
			break
		}
		defender := defBldg.DischargeWeakest(rankOf)

		attackerRank := rankOf(attacker)
		defenderRank := rankOf(defender)
		if attackerRank < 0 {
			attackerRank = 0
		}
		if defenderRank < 0 {
			defenderRank = 0
		}

		attackerS := st.Serfs.Get(attacker)
		defenderS := st.Serfs.Get(defender)
		if attackerS != nil {
			driveToDuel(attackerS, serf.StateKnightEngagingBuilding, serf.StateKnightAttacking)
		}
		if defenderS != nil {
			driveToDuel(defenderS, serf.StateKnightPrepareDefending, serf.StateKnightDefending)
		}

		attackerWins, _ := resolveDuel(attackerRank, defenderRank, func() int { return st.Rng.IntN(20) + 1 })

		if attackerS != nil && defenderS != nil {
			driveFromDuel(attackerS, defenderS, attackerWins)
		}

		if attackerWins {
			st.Serfs.Free(defender)
			st.Serfs.Free(attacker)
		} else {
			st.Serfs.Free(attacker)
			defBldg.AddKnight(defender)
			attackerWon = false
			break
		}
	}

	if attackerWon && len(defBldg.Garrison()) == 0 {
		defeatedOwner := defBldg.Player
		st.occupyEnemyBuilding(defenderBH, defBldg, player)
		st.Player(player).Notify(playerstate.NotificationVictoryFight, uint32(defBldg.Pos))
		st.Player(defeatedOwner).Notify(playerstate.NotificationDefeatFight, uint32(defBldg.Pos))
	} else if !attackerWon {
		st.Player(player).Notify(playerstate.NotificationDefeatFight, uint32(attBldg.Pos))
	}
	return nil
}

// findAttackingBuilding returns the first military building owned by
// player with at least one garrisoned knight, used as the dispatch source.
func (st *State) findAttackingBuilding(player uint8, knights int) (entitystore.BuildingHandle, *building.Building) {
	var foundH entitystore.BuildingHandle
	var found *building.Building
	st.Buildings.Each(func(h entitystore.BuildingHandle, b *building.Building) {
		if found != nil {
			return
		}
		if b.Player == player && b.Type.IsMilitary() && len(b.Garrison()) > 0 {
			foundH, found = h, b
		}
	})
	return foundH, found
}

// occupyEnemyBuilding hands a fully-defeated building to the attacker and
// recomputes territory around it so land ownership follows the capture
// within the influence radius (spec.md §8 scenario 6).
func (st *State) occupyEnemyBuilding(_ entitystore.BuildingHandle, b *building.Building, newOwner uint8) {
	oldOwner := b.Player
	b.Player = newOwner

	st.removeMilitaryBuildingAt(b.Pos)
	st.militaryBuildings = append(st.militaryBuildings, territory.MilitaryBuilding{
		Pos: b.Pos, Class: classFor(b.Type), Owner: newOwner,
	})
	lost := st.Territory.Recompute(st.Map, b.Pos, st.militaryBuildings)
	for _, lt := range lost {
		if lt.From == oldOwner || lt.From == newOwner {
			st.Player(lt.From).Notify(playerstate.NotificationLostLand, uint32(lt.Pos))
		}
	}

	if b.Serf != entitystore.NoSerf {
		if s := st.Serfs.Get(b.Serf); s != nil {
			s.State = serf.StateLost
		}
		b.Serf = entitystore.NoSerf
	}
}
