package building

import (
	"testing"

	"holdground/entitystore"
)

func TestStockPriorityIsAlwaysEven(t *testing.T) {
	for total := uint8(0); total <= 8; total++ {
		p := StockPriority(1<<15, total)
		if p%2 != 0 {
			t.Errorf("StockPriority(.., %d) = %d, want even", total, p)
		}
	}
}

func TestTotalStockCapsAtEight(t *testing.T) {
	b := &Building{Stock1: Stock{Present: 10, Incoming: 10}}
	if got := b.TotalStock1(); got != 8 {
		t.Errorf("TotalStock1 = %d, want 8 (capped)", got)
	}
}

func TestAdvanceConstructionRequiresBuilderPresent(t *testing.T) {
	b := &Building{Unfinished: true, Payload: Payload{PlanksNeeded: 2, StoneNeeded: 1}}
	if b.AdvanceConstruction(1000) {
		t.Fatalf("expected no progress without a builder present")
	}
	if b.Progress != 0 {
		t.Errorf("Progress = %d, want 0", b.Progress)
	}
}

func TestAdvanceConstructionCompletesOnceMaterialsDelivered(t *testing.T) {
	b := &Building{
		Unfinished:  true,
		SerfPresent: true,
		Payload:     Payload{PlanksNeeded: 1, StoneNeeded: 1},
	}
	b.Stock1.Incoming = 1
	b.Stock2.Incoming = 1

	done := false
	for i := 0; i < 100 && !done; i++ {
		done = b.AdvanceConstruction(1000)
	}
	if !done {
		t.Fatalf("expected construction to complete")
	}
	if b.Unfinished {
		t.Errorf("expected Unfinished == false after completion")
	}
}

func TestDemolishCapsEscapingServersAt12(t *testing.T) {
	b := &Building{Type: TypeHut}
	for i := 0; i < 15; i++ {
		b.AddKnight(entitystore.SerfHandle(i + 1))
	}
	eff := b.Demolish(nil)
	if len(eff.Escaping) != maxEscapingServers {
		t.Errorf("len(Escaping) = %d, want %d", len(eff.Escaping), maxEscapingServers)
	}
	if len(eff.Killed) != 15-maxEscapingServers {
		t.Errorf("len(Killed) = %d, want %d", len(eff.Killed), 15-maxEscapingServers)
	}
	if !eff.TriggerTerritory {
		t.Errorf("expected military building demolish to trigger territory recompute")
	}
}
