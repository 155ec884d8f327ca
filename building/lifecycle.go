package building

import (
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/roadgraph"
)

// progressFull is the Progress value at which construction is complete;
// material breakpoints are spaced evenly below it by the number of planks
// or stones needed.
const progressFull = 65535

// AdvanceConstruction applies anim ticks' worth of construction progress.
// While leveling (Progress == 0), the site must first be flattened before
// progress can begin accumulating — callers check ground flatness
// externally and only call this once the site is flat. Returns true once
// construction completes (Unfinished flips to false on this call).
func (b *Building) AdvanceConstruction(anim uint16) bool {
	if !b.Unfinished {
		return false
	}
	if !b.SerfPresent {
		return false // no builder on site: no progress
	}

	if uint32(b.Progress)+uint32(anim) >= progressFull {
		b.Progress = progressFull
	} else {
		b.Progress += anim
	}

	b.consumeMaterialsAtBreakpoints()

	if b.Progress >= progressFull && b.Stock1.Present >= b.Payload.PlanksNeeded && b.Stock2.Present >= b.Payload.StoneNeeded {
		b.Unfinished = false
		return true
	}
	return false
}

// consumeMaterialsAtBreakpoints spends one unit of plank/stone stock per
// even division of the needed total across the progress range, matching
// spec.md §4.6's "consumes planks and stones at progress breakpoints".
func (b *Building) consumeMaterialsAtBreakpoints() {
	if b.Payload.PlanksNeeded > 0 {
		step := progressFull / uint32(b.Payload.PlanksNeeded)
		want := uint8(uint32(b.Progress) / step)
		if want > b.Payload.PlanksNeeded {
			want = b.Payload.PlanksNeeded
		}
		if want > b.Stock1.Present && b.Stock1.Incoming > 0 {
			delta := want - b.Stock1.Present
			if delta > b.Stock1.Incoming {
				delta = b.Stock1.Incoming
			}
			b.Stock1.Present += delta
			b.Stock1.Incoming -= delta
		}
	}
	if b.Payload.StoneNeeded > 0 {
		step := progressFull / uint32(b.Payload.StoneNeeded)
		want := uint8(uint32(b.Progress) / step)
		if want > b.Payload.StoneNeeded {
			want = b.Payload.StoneNeeded
		}
		if want > b.Stock2.Present && b.Stock2.Incoming > 0 {
			delta := want - b.Stock2.Present
			if delta > b.Stock2.Incoming {
				delta = b.Stock2.Incoming
			}
			b.Stock2.Present += delta
			b.Stock2.Incoming -= delta
		}
	}
}

// LoseBuilder reverts the outstanding serf request but keeps progress,
// per spec.md §4.6's failure semantics for construction that loses its
// builder mid-way.
func (b *Building) LoseBuilder() {
	b.SerfPresent = false
	b.serfRequested = false
}

// DemolishEffects bundles everything the caller (package sim) needs to
// apply when a building is torn down: the handle used for any remaining
// garrison knights (escape vs. kill), and whether territory needs a
// recompute.
type DemolishEffects struct {
	Escaping         []entitystore.SerfHandle
	Killed           []entitystore.SerfHandle
	GoldReturned     uint16
	TriggerTerritory bool
}

// maxEscapingServers is the cap on trapped serfs released as ESCAPING
// rather than killed outright, per spec.md §4.6.
const maxEscapingServers = 12

// Demolish sets the burning bit and computes the serf-release plan. The
// caller is responsible for: clearing the map path/object, canceling
// outbound transported resources via the attached Flag, updating the
// global gold-deposit counter by GoldReturned, and updating the player's
// building score.
func (b *Building) Demolish(g *roadgraph.Graph) DemolishEffects {
	b.Burning = true
	b.BurnTick = burnTicksFor(b.Type)

	trapped := append([]entitystore.SerfHandle{}, b.garrison...)
	if b.Serf != entitystore.NoSerf {
		trapped = append([]entitystore.SerfHandle{b.Serf}, trapped...)
	}
	b.garrison = nil
	b.Serf = entitystore.NoSerf

	eff := DemolishEffects{TriggerTerritory: b.Type.IsMilitary()}
	for i, h := range trapped {
		if i < maxEscapingServers {
			eff.Escaping = append(eff.Escaping, h)
		} else {
			eff.Killed = append(eff.Killed, h)
		}
	}

	if g != nil && b.Flag != entitystore.NoFlag {
		if f := g.Flags.Get(b.Flag); f != nil {
			for d := 0; d < 6; d++ {
				dir := hexmap.Direction(d)
				if f.HasPath(dir) {
					_ = g.DemolishRoad(b.Flag, dir)
				}
			}
		}
	}

	return eff
}

// burnTicksFor gives the decay duration before a demolished building's
// tile is finally freed; castles and stocks (the largest footprints) burn
// longest.
func burnTicksFor(t Type) uint16 {
	switch t {
	case TypeCastle, TypeStock:
		return 200
	case TypeHut, TypeTower, TypeFortress:
		return 150
	default:
		return 100
	}
}

// AdvanceBurn ticks the burn countdown; returns true once it has reached
// zero and the building's tile may be freed back to the map.
func (b *Building) AdvanceBurn(anim uint16) bool {
	if !b.Burning {
		return false
	}
	if uint16(anim) >= b.BurnTick {
		b.BurnTick = 0
		return true
	}
	b.BurnTick -= anim
	return false
}
