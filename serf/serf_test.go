package serf

import (
	"testing"

	"holdground/hexmap"
)

type fakeRNG struct {
	n       int
	results []bool
	i       int
}

func (f *fakeRNG) IntN(n int) int { return f.n % n }
func (f *fakeRNG) Chance(num, den int) bool {
	if f.i >= len(f.results) {
		return false
	}
	v := f.results[f.i]
	f.i++
	return v
}

func TestStepWalkingAdvancesAndEntersOnArrival(t *testing.T) {
	m := hexmap.New(4, 4)
	s := NewIdle(KindTransporter, 1, m.MakePos(0, 0))
	s.State = StateTransporting
	s.Payload.Walking.Res = -1

	ctx := &Context{
		WalkStep: func(s *Serf, dir hexmap.Direction) (hexmap.Pos, bool) {
			return m.MakePos(0, 1), true
		},
	}

	s.Step(0, ctx)

	if s.State != StateEnteringBuilding {
		t.Fatalf("expected StateEnteringBuilding, got %s", s.State)
	}
	if s.Payload.Ramp.NextState != StateReadyToLeave {
		t.Fatalf("expected ramp next state ReadyToLeave, got %s", s.Payload.Ramp.NextState)
	}
}

func TestStepWalkingGoesIdleWhenDestinationCleared(t *testing.T) {
	m := hexmap.New(4, 4)
	s := NewIdle(KindTransporter, 1, m.MakePos(0, 0))
	s.State = StateTransporting
	s.Payload.Walking.Res = -2

	ctx := &Context{
		WalkStep: func(s *Serf, dir hexmap.Direction) (hexmap.Pos, bool) {
			return s.Pos, true
		},
	}
	s.Step(0, ctx)

	if s.State != StateIdleOnPath {
		t.Fatalf("expected StateIdleOnPath, got %s", s.State)
	}
}

func TestStepDiggingCyclesSixSubstatesThenBuilds(t *testing.T) {
	m := hexmap.New(4, 4)
	s := NewIdle(KindGeneric, 1, m.MakePos(0, 0))
	s.State = StateDigging
	ctx := &Context{}

	for i := 0; i < 5; i++ {
		stepDigging(s, ctx)
		if s.State != StateDigging {
			t.Fatalf("unexpected transition out of digging at substate %d", i)
		}
	}
	stepDigging(s, ctx)
	if s.State != StateBuilding {
		t.Fatalf("expected StateBuilding after sixth substate, got %s", s.State)
	}
}

func TestStepMiningConsumesDepositOnSuccessfulRoll(t *testing.T) {
	m := hexmap.New(4, 4)
	pos := m.MakePos(1, 1)

	s := NewIdle(KindMiner, 1, pos)
	s.State = StateMining
	s.Payload.Mining.Pos = pos
	s.Payload.Mining.Substate = 3

	ctx := &Context{Map: m, Rng: &fakeRNG{results: []bool{true}}}
	stepMining(s, ctx)

	if s.State != StateLeavingBuilding {
		t.Fatalf("expected StateLeavingBuilding, got %s", s.State)
	}
	if s.Payload.Ramp.NextState != StateTransporting {
		t.Fatalf("expected ramp next state Transporting, got %s", s.Payload.Ramp.NextState)
	}
}

func TestStepMiningNotifiesMineEmptyOnceTheDepositIsExhausted(t *testing.T) {
	m := hexmap.New(4, 4)
	pos := m.MakePos(1, 1)
	m.Tile(pos).DepositAmt = 1

	s := NewIdle(KindMiner, 3, pos)
	s.State = StateMining
	s.Payload.Mining.Pos = pos
	s.Payload.Mining.Substate = 3

	var notifiedPlayer uint8
	var notifiedKind string
	ctx := &Context{
		Map: m,
		Rng: &fakeRNG{results: []bool{true}},
		Notify: func(player uint8, kind string, pos hexmap.Pos) {
			notifiedPlayer = player
			notifiedKind = kind
		},
	}
	stepMining(s, ctx)

	if m.Tile(pos).DepositAmt != 0 {
		t.Fatalf("expected the deposit to be exhausted, got %d", m.Tile(pos).DepositAmt)
	}
	if notifiedKind != "MINE_EMPTY" {
		t.Fatalf("expected a MINE_EMPTY notification, got %q", notifiedKind)
	}
	if notifiedPlayer != 3 {
		t.Fatalf("expected the notification to carry the miner's owning player, got %d", notifiedPlayer)
	}
}

func TestStepMiningDoesNotNotifyWhenDepositRemains(t *testing.T) {
	m := hexmap.New(4, 4)
	pos := m.MakePos(1, 1)
	m.Tile(pos).DepositAmt = 5

	s := NewIdle(KindMiner, 3, pos)
	s.State = StateMining
	s.Payload.Mining.Pos = pos
	s.Payload.Mining.Substate = 3

	notified := false
	ctx := &Context{
		Map: m,
		Rng: &fakeRNG{results: []bool{true}},
		Notify: func(player uint8, kind string, pos hexmap.Pos) {
			notified = true
		},
	}
	stepMining(s, ctx)

	if notified {
		t.Fatalf("expected no notification while deposit remains")
	}
}

func TestStepCombatDefeatKillsAttacker(t *testing.T) {
	m := hexmap.New(4, 4)
	s := NewIdle(KindKnight0, 1, m.MakePos(0, 0))
	s.State = StateKnightAttackingDefeat
	stepCombat(s, &Context{})

	if s.State != StateNull {
		t.Fatalf("expected StateNull on defeat, got %s", s.State)
	}
}

func TestKnightIsKnightAndRank(t *testing.T) {
	if !KindKnight2.IsKnight() {
		t.Fatal("KindKnight2 should report IsKnight")
	}
	if KindKnight2.Rank() != 2 {
		t.Fatalf("expected rank 2, got %d", KindKnight2.Rank())
	}
	if KindMiner.IsKnight() {
		t.Fatal("KindMiner should not report IsKnight")
	}
	if KindMiner.Rank() != -1 {
		t.Fatalf("expected rank -1 for non-knight, got %d", KindMiner.Rank())
	}
}
