package playerstate

import (
	"testing"

	"holdground/inventory"
)

func TestNewSeedsMiddlingPriorities(t *testing.T) {
	p := New(0)
	if p.FlagPriority(0) != maxFlagPriority/2 {
		t.Fatalf("expected default flag priority %d, got %d", maxFlagPriority/2, p.FlagPriority(0))
	}
}

func TestNotifyDropsOldestAtCapacity(t *testing.T) {
	p := New(0)
	for i := 0; i < notificationCapacity+10; i++ {
		p.Notify(NotificationFoundGold, uint32(i))
	}
	got := p.Notifications()
	if len(got) != notificationCapacity {
		t.Fatalf("expected queue capped at %d, got %d", notificationCapacity, len(got))
	}
	if got[0].Pos != 10 {
		t.Fatalf("expected oldest surviving entry to be pos 10, got %d", got[0].Pos)
	}
}

func TestUpdateSpawnsGenericWhenNoKnightConversionPending(t *testing.T) {
	p := New(0)
	p.ReproductionCounter = 1
	spawned := false
	p.Update(5, func() bool { return false }, func() { spawned = true }, func() bool { return false })

	if !spawned {
		t.Fatal("expected spawnGeneric to be called")
	}
	if p.KnightToSpawn != 1 {
		t.Fatalf("expected KnightToSpawn incremented to 1, got %d", p.KnightToSpawn)
	}
}

func TestUpdateCapsKnightToSpawnAtTwo(t *testing.T) {
	p := New(0)
	p.KnightToSpawn = maxKnightToSpawn
	p.ReproductionCounter = 1
	p.Update(5, func() bool { return false }, func() {}, func() bool { return false })

	if p.KnightToSpawn != maxKnightToSpawn {
		t.Fatalf("expected KnightToSpawn capped at %d, got %d", maxKnightToSpawn, p.KnightToSpawn)
	}
}

func TestAllowsRouteIsUnrestrictedByDefault(t *testing.T) {
	p := New(0)
	if !p.AllowsRoute(inventory.ResLumber) {
		t.Fatal("expected an empty routable set to allow every resource")
	}
}

func TestAllowsRouteRespectsEmbargoSet(t *testing.T) {
	p := New(0)
	p.RoutableResources = []inventory.Resource{inventory.ResLumber, inventory.ResPlank}
	if !p.AllowsRoute(inventory.ResPlank) {
		t.Fatal("expected ResPlank to be allowed")
	}
	if p.AllowsRoute(inventory.ResCoal) {
		t.Fatal("expected ResCoal to be disallowed under the embargo set")
	}
}

func TestUpdateSamplesLandStatsAtInterval(t *testing.T) {
	p := New(0)
	p.LandScore = 42
	p.Update(landSampleInterval, nil, nil, nil)

	stats := p.LandStats()
	if len(stats) != 1 {
		t.Fatalf("expected one sample after crossing the interval, got %d", len(stats))
	}
	if stats[0].Land != 42 {
		t.Fatalf("expected sampled land score 42, got %d", stats[0].Land)
	}
}
