package inventory

import "testing"

func TestTakeResourceNeverUnderflows(t *testing.T) {
	inv := &Inventory{}
	inv.AddResource(ResPlank, 3)

	if inv.TakeResource(ResPlank, 5) {
		t.Fatalf("expected TakeResource to fail when stock is insufficient")
	}
	if inv.Resources[ResPlank] != 3 {
		t.Errorf("Resources[ResPlank] = %d, want unchanged 3", inv.Resources[ResPlank])
	}

	if !inv.TakeResource(ResPlank, 3) {
		t.Fatalf("expected TakeResource to succeed with exact stock")
	}
	if inv.Resources[ResPlank] != 0 {
		t.Errorf("Resources[ResPlank] = %d, want 0", inv.Resources[ResPlank])
	}
}

func TestOutQueueRespectsDepth(t *testing.T) {
	inv := &Inventory{}
	if !inv.QueueOut(ResLumber, 1) {
		t.Fatalf("expected first QueueOut to succeed")
	}
	if !inv.QueueOut(ResPlank, 2) {
		t.Fatalf("expected second QueueOut to succeed")
	}
	if inv.QueueOut(ResStone, 3) {
		t.Fatalf("expected third QueueOut to fail: out-queue depth is 2")
	}

	e, ok := inv.PopOut()
	if !ok || e.Res != ResLumber {
		t.Errorf("PopOut = %+v, %v; want ResLumber entry first (FIFO)", e, ok)
	}
}

func TestHasSerfAndTakeSerf(t *testing.T) {
	inv := &Inventory{}
	if inv.HasSerf(SerfTransporter) {
		t.Fatalf("expected no transporter initially")
	}
	inv.AddSerf(SerfTransporter, 2)
	if !inv.TakeSerf(SerfTransporter) {
		t.Fatalf("expected TakeSerf to succeed")
	}
	if inv.Serfs[SerfTransporter] != 1 {
		t.Errorf("Serfs[SerfTransporter] = %d, want 1", inv.Serfs[SerfTransporter])
	}
}
