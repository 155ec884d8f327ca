package tick

import "testing"

func TestAdvanceAccumulatesGameTickAndDerivesAnimDelta(t *testing.T) {
	var gotDeltas []uint32
	c := New(func(elapsed uint32) { gotDeltas = append(gotDeltas, elapsed) })
	c.GameSpeed = 1 << animShift // exactly one anim unit per real tick

	c.Advance()
	c.Advance()

	if len(gotDeltas) != 2 {
		t.Fatalf("expected 2 recorded deltas, got %d", len(gotDeltas))
	}
	for _, d := range gotDeltas {
		if d != 1 {
			t.Fatalf("expected anim delta 1 per tick, got %d", d)
		}
	}
	if c.Anim() != 2 {
		t.Fatalf("expected anim counter 2, got %d", c.Anim())
	}
}

func TestPauseZeroesGameSpeedAndSuppressesUpdate(t *testing.T) {
	called := false
	c := New(func(elapsed uint32) { called = true })
	c.SetPaused(true)
	c.Advance()

	if called {
		t.Fatal("expected Update not to be called while paused")
	}
	if c.GameSpeed != 0 {
		t.Fatalf("expected GameSpeed 0 while paused, got %d", c.GameSpeed)
	}
}

func TestIdempotentPauseRestoresPriorGameSpeed(t *testing.T) {
	c := New(func(elapsed uint32) {})
	c.GameSpeed = 0x40000

	c.SetPaused(true)
	c.SetPaused(false)

	if c.GameSpeed != 0x40000 {
		t.Fatalf("expected game speed restored to 0x40000, got 0x%x", c.GameSpeed)
	}
}

func TestSetGameSpeedWhilePausedTakesEffectOnResume(t *testing.T) {
	c := New(func(elapsed uint32) {})
	c.GameSpeed = 0x20000

	c.SetPaused(true)
	c.SetGameSpeed(0x80000)
	c.SetPaused(false)

	if c.GameSpeed != 0x80000 {
		t.Fatalf("expected resumed speed 0x80000, got 0x%x", c.GameSpeed)
	}
}
