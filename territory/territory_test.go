package territory

import (
	"testing"

	"holdground/hexmap"
)

func TestRecomputeAssignsTileToNearerBuilding(t *testing.T) {
	m := hexmap.New(32, 32)
	s := New()

	near := m.MakePos(10, 10)
	far := m.MakePos(10, 13)

	buildings := []MilitaryBuilding{
		{Pos: near, Class: ClassHut, Owner: 1},
		{Pos: far, Class: ClassHut, Owner: 2},
	}

	s.Recompute(m, near, buildings)

	owner, ok := s.Owner(near)
	if !ok || owner != 1 {
		t.Fatalf("expected tile at the hut itself owned by player 1, got owner=%d ok=%v", owner, ok)
	}
}

func TestRecomputeTieLeavesTileUnowned(t *testing.T) {
	m := hexmap.New(16, 16)
	s := New()

	a := m.MakePos(2, 2)
	b := m.MakePos(2, 2+2)
	mid := m.MakePos(2, 3)

	buildings := []MilitaryBuilding{
		{Pos: a, Class: ClassHut, Owner: 1},
		{Pos: b, Class: ClassHut, Owner: 2},
	}
	s.Recompute(m, mid, buildings)

	if _, ok := s.Owner(mid); ok {
		t.Fatalf("expected a tied-influence tile to remain unowned")
	}
}

func TestLandAreaTracksOwnershipFlips(t *testing.T) {
	m := hexmap.New(16, 16)
	s := New()
	pos := m.MakePos(4, 4)

	s.Recompute(m, pos, []MilitaryBuilding{{Pos: pos, Class: ClassFortress, Owner: 1}})
	if s.LandArea(1) == 0 {
		t.Fatal("expected player 1 to have gained land area")
	}

	before := s.LandArea(1)
	s.Recompute(m, pos, []MilitaryBuilding{{Pos: pos, Class: ClassFortress, Owner: 2}})
	if s.LandArea(2) == 0 {
		t.Fatal("expected player 2 to have gained land area after capture")
	}
	if s.LandArea(1) >= before {
		t.Fatal("expected player 1's land area to shrink after losing tiles")
	}
}

func TestThreatLevelClampsAtMax(t *testing.T) {
	m := hexmap.New(16, 16)
	pos := m.MakePos(0, 0)
	far := m.MakePos(8, 8)

	if got := ThreatLevel(m, pos, []hexmap.Pos{far}); got != maxThreatLevel {
		t.Fatalf("expected threat level clamped to %d, got %d", maxThreatLevel, got)
	}
}

func TestThreatLevelZeroWhenEnemyOnSameTile(t *testing.T) {
	m := hexmap.New(16, 16)
	pos := m.MakePos(5, 5)

	if got := ThreatLevel(m, pos, []hexmap.Pos{pos}); got != 0 {
		t.Fatalf("expected threat level 0, got %d", got)
	}
}
