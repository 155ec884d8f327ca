package sim

import (
	"testing"

	"holdground/building"
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/serf"
)

func garrisonKnight(t *testing.T, st *State, b *building.Building, owner uint8, rank serf.Type, pos hexmap.Pos) entitystore.SerfHandle {
	t.Helper()
	h, s, err := st.Serfs.Alloc()
	if err != nil {
		t.Fatalf("Serfs.Alloc: %v", err)
	}
	*s = *serf.NewIdle(rank, owner, pos)
	b.AddKnight(h)
	return h
}

func TestAttackTransfersABuildingWhoseGarrisonIsWipedOut(t *testing.T) {
	st := newLandState(16, 16)

	attPos := st.Map.MakePos(2, 2)
	attFlagPos := st.Map.Neighbor(attPos, hexmap.DirDownRight)
	if _, err := st.BuildFlag(1, attFlagPos); err != nil {
		t.Fatalf("BuildFlag(attacker): %v", err)
	}
	attBH, err := st.BuildBuilding(1, attPos, building.TypeFortress)
	if err != nil {
		t.Fatalf("BuildBuilding(attacker): %v", err)
	}
	attBldg := st.Buildings.Get(attBH)
	garrisonKnight(t, st, attBldg, 1, serf.KindKnight4, attPos)

	defPos := st.Map.MakePos(2, 10)
	defFlagPos := st.Map.Neighbor(defPos, hexmap.DirDownRight)
	ownTiles(st, 2, defPos, defFlagPos)
	defFlagH, err := st.BuildFlag(2, defFlagPos)
	if err != nil {
		t.Fatalf("BuildFlag(defender): %v", err)
	}
	defBH, err := st.BuildBuilding(2, defPos, building.TypeHut)
	if err != nil {
		t.Fatalf("BuildBuilding(defender): %v", err)
	}
	defBldg := st.Buildings.Get(defBH)
	garrisonKnight(t, st, defBldg, 2, serf.KindKnight0, defPos)

	if err := st.Attack(1, defFlagH, 1); err != nil {
		t.Fatalf("Attack: %v", err)
	}

	// The duel's outcome is decided by resolveDuel's rounds-of-d20 roll, not
	// a fixed coin flip, so either side can win this single rank-4-vs-rank-0
	// pairing; assert the state is self-consistent for whichever side did.
	notes := st.Player(1).Notifications()
	if len(notes) == 0 {
		t.Fatalf("expected the attacker to receive a notification either way")
	}
	if defBldg.Player == 1 {
		if len(defBldg.Garrison()) != 0 {
			t.Fatalf("expected a captured hut to have lost its original garrison")
		}
	} else if defBldg.Player != 2 {
		t.Fatalf("expected the hut to remain with player 2 or transfer to player 1, got %d", defBldg.Player)
	}
}

func TestResolveDuelStronglyFavorsTheHigherRank(t *testing.T) {
	rolls := []int{15, 3, 18, 2, 20, 1}
	i := 0
	roll := func() int {
		v := rolls[i%len(rolls)]
		i++
		return v
	}
	won, rounds := resolveDuel(4, 0, roll)
	if !won {
		t.Fatalf("expected the rank-4 attacker to win against a rank-0 defender with favorable rolls")
	}
	if rounds == 0 || rounds > duelMaxRounds {
		t.Fatalf("expected a round count within [1, %d], got %d", duelMaxRounds, rounds)
	}
}

func TestResolveDuelTiesFavorTheDefender(t *testing.T) {
	// Equal ranks, identical rolls each round: the attacker ties every
	// round and so loses by resolveDuel's tie-favors-defender rule.
	roll := func() int { return 10 }
	won, _ := resolveDuel(2, 2, roll)
	if won {
		t.Fatalf("expected ties to favor the defender")
	}
}

func TestDemolishSendsTrappedServersIntoLostState(t *testing.T) {
	st := newLandState(8, 8)
	pos := st.Map.MakePos(3, 3)
	flagPos := st.Map.Neighbor(pos, hexmap.DirDownRight)
	if _, err := st.BuildFlag(1, flagPos); err != nil {
		t.Fatalf("BuildFlag: %v", err)
	}
	bh, err := st.BuildBuilding(1, pos, building.TypeHut)
	if err != nil {
		t.Fatalf("BuildBuilding: %v", err)
	}
	b := st.Buildings.Get(bh)

	sh, s, err := st.Serfs.Alloc()
	if err != nil {
		t.Fatalf("Serfs.Alloc: %v", err)
	}
	*s = *serf.NewIdle(serf.KindKnight0, 1, pos)
	b.AddKnight(sh)

	if err := st.Demolish(pos); err != nil {
		t.Fatalf("Demolish: %v", err)
	}

	got := st.Serfs.Get(sh)
	if got == nil {
		t.Fatalf("expected the garrisoned knight to still exist as a serf entity")
	}
	if got.State != serf.StateLost {
		t.Fatalf("expected the knight to transition to StateLost, got %v", got.State)
	}
}

