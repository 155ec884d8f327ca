package scheduler

import (
	"testing"

	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/roadgraph"
)

type fakeLookup struct {
	inventories map[entitystore.FlagHandle]*inventory.Inventory
}

func (l *fakeLookup) InventoryAt(h entitystore.FlagHandle) (*inventory.Inventory, bool) {
	inv, ok := l.inventories[h]
	return inv, ok
}

func (l *fakeLookup) BuildingAcceptsResource(h entitystore.FlagHandle, res inventory.Resource) (int, bool) {
	return 0, false
}

func TestScheduleToUnknownDestinationRoutesToNearestInventory(t *testing.T) {
	m := hexmap.New(16, 16)
	g := roadgraph.NewGraph(m, 4)

	h1, f1, _ := g.Flags.Alloc()
	f1.Pos = m.MakePos(0, 0)
	h2, f2, _ := g.Flags.Alloc()
	f2.Pos = m.NeighborN(f1.Pos, hexmap.DirRight, 2)

	if err := g.BuildRoad(h1, hexmap.DirRight, h2, 2); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}

	lookup := &fakeLookup{inventories: map[entitystore.FlagHandle]*inventory.Inventory{
		h2: {ResourceMode: inventory.TrafficIn},
	}}
	s := New(g, lookup)

	f1.DepositResource(inventory.ResSword, entitystore.NoFlag)
	s.RunPass(0)

	slot := &f1.Slots[0]
	if slot.Dest != h2 {
		t.Errorf("expected slot routed to inventory flag %v, got %v", h2, slot.Dest)
	}
	if !slot.HasScheduledDir() {
		t.Errorf("expected slot to have a scheduled direction")
	}
}

func TestRecruitTransportersSetsRequestedBitBothEnds(t *testing.T) {
	m := hexmap.New(16, 16)
	g := roadgraph.NewGraph(m, 4)

	h1, f1, _ := g.Flags.Alloc()
	f1.Pos = m.MakePos(0, 0)
	h2, f2, _ := g.Flags.Alloc()
	f2.Pos = m.NeighborN(f1.Pos, hexmap.DirRight, 2)
	if err := g.BuildRoad(h1, hexmap.DirRight, h2, 2); err != nil {
		t.Fatalf("BuildRoad: %v", err)
	}

	inv := &inventory.Inventory{}
	inv.AddSerf(inventory.SerfTransporter, 1)
	lookup := &fakeLookup{inventories: map[entitystore.FlagHandle]*inventory.Inventory{h1: inv}}
	s := New(g, lookup)

	s.RunPass(0)

	if f1.TransporterRequested&(1<<uint(hexmap.DirRight)) == 0 {
		t.Errorf("expected TransporterRequested bit set on origin flag")
	}
	if f2.TransporterRequested&(1<<uint(hexmap.DirRight.Reverse())) == 0 {
		t.Errorf("expected TransporterRequested bit set on far flag")
	}
}
