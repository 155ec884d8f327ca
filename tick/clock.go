// Package tick drives the master clock: a fixed 20ms real-time tick that
// accumulates game_speed into game_tick, derives anim = game_tick >> 16,
// and calls a single Update hook in the fixed order spec.md §4.10
// requires (Map, Player, AI, FlagScheduler, Building, Serf, Stats) —
// ordering that callers fold into their own Update func, since tick
// itself only owns the clock, not the entities it drives.
//
// Grounded on eruntime/timer.go's start/stop/halt/resume/nexttick shape,
// generalized from a 1-second ticker with an integer tick counter to a
// 20ms ticker with game_speed-scaled accumulation.
package tick

import "time"

// DefaultGameSpeed is spec.md §6's default: 2 game ticks advance per real
// 20ms tick.
const DefaultGameSpeed uint32 = 0x20000

const animShift = 16

// RealTickDuration is the fixed real-time period between clock pulses.
const RealTickDuration = 20 * time.Millisecond

// Clock is the master clock. Update is called once per real tick (unless
// paused) with the elapsed anim delta since the previous call.
type Clock struct {
	GameTick  uint32
	GameSpeed uint32

	prevAnimSpeed uint32 // game_speed saved across a pause/resume cycle
	paused        bool

	ticker *time.Ticker
	stopCh chan struct{}

	Update func(elapsedAnim uint32)
}

// New creates a clock at the default game speed, not yet started.
func New(update func(elapsedAnim uint32)) *Clock {
	return &Clock{GameSpeed: DefaultGameSpeed, Update: update}
}

// Start begins the real-time ticker driving Advance every RealTickDuration.
func (c *Clock) Start() {
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(RealTickDuration)
	c.stopCh = make(chan struct{})
	go func() {
		for {
			select {
			case <-c.ticker.C:
				c.Advance()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop halts and destroys the ticker; the clock can be Start-ed again
// later from wherever GameTick left off.
func (c *Clock) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stopCh)
	c.ticker = nil
}

// Advance performs one real-tick's worth of work: accumulate game_speed
// into game_tick, derive the anim delta, and invoke Update unless paused.
// Exposed directly (not just via the ticker goroutine) so callers driving
// the simulation from their own loop (tests, a headless step command) can
// call it synchronously without starting a goroutine.
func (c *Clock) Advance() {
	if c.paused {
		return
	}
	before := c.GameTick >> animShift
	c.GameTick += c.GameSpeed
	after := c.GameTick >> animShift
	if c.Update != nil {
		c.Update(after - before)
	}
}

// Paused reports whether the clock is currently halted.
func (c *Clock) Paused() bool { return c.paused }

// SetPaused implements the idempotent pause(on/off) command: pausing
// zeroes game_speed (halting all advancement) while remembering the prior
// speed so unpausing restores it exactly, per spec.md §7's idempotent-pause
// testable property.
func (c *Clock) SetPaused(on bool) {
	if on == c.paused {
		return
	}
	if on {
		c.prevAnimSpeed = c.GameSpeed
		c.GameSpeed = 0
		c.paused = true
	} else {
		c.GameSpeed = c.prevAnimSpeed
		c.paused = false
	}
}

// SetGameSpeed changes the advancement rate; it is a no-op while paused
// (the new speed takes effect on resume) so pause/resume always restores
// exactly the speed in effect at the moment pause was requested.
func (c *Clock) SetGameSpeed(v uint32) {
	if c.paused {
		c.prevAnimSpeed = v
		return
	}
	c.GameSpeed = v
}

// Anim returns the current anim counter (game_tick >> 16).
func (c *Clock) Anim() uint32 { return c.GameTick >> animShift }
