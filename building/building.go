// Package building implements the Building entity: construction progress,
// per-type production rules, stock accounting, and the demolish lifecycle.
//
// Grounded on spec.md §4.6 and on typedef.go's struct-with-small-enum
// style; the packed present/incoming stock byte follows the "nibble pair
// named as a small struct" convention spec.md §9 calls for.
package building

import (
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
)

// Type enumerates the building kinds, in save-format order.
type Type int

const (
	TypeCastle Type = iota
	TypeStock
	TypeHut
	TypeTower
	TypeFortress
	TypeLumberjack
	TypeSawmill
	TypeStonecutter
	TypeForester
	TypeFisher
	TypeMineCoal
	TypeMineIron
	TypeMineGold
	TypeMineStone
	TypeSmelterIron
	TypeSmelterGold
	TypeFarm
	TypeMill
	TypeBakery
	TypeButcher
	TypePigfarm
	TypeBoatbuilder
	TypeToolmaker
	TypeWeaponsmith
)

// IsMilitary reports whether t garrisons knights.
func (t Type) IsMilitary() bool {
	return t == TypeHut || t == TypeTower || t == TypeFortress || t == TypeCastle
}

// Stock is a packed present/incoming resource counter, named per spec.md
// §9's "bitfield-packed counts become named sub-fields" rule. Packed
// byte form is present<<4|incoming, matching the save format (spec.md §6).
type Stock struct {
	Present  uint8 // 0..15
	Incoming uint8 // 0..15
}

// Packed returns the single save-format byte for this stock counter.
func (s Stock) Packed() uint8 { return s.Present<<4 | (s.Incoming & 0xf) }

// Unpack fills s from a save-format byte.
func (s *Stock) Unpack(b uint8) {
	s.Present = b >> 4
	s.Incoming = b & 0xf
}

// PayloadKind tags Building's union payload.
type PayloadKind uint8

const (
	PayloadUnfinished PayloadKind = iota
	PayloadInventory
	PayloadFlag
)

// Payload is Building's tagged union: unfinished construction state,
// or (once finished) either an owned Inventory (castle/stock) or a
// pointer back to its Flag (every other building type).
type Payload struct {
	Kind PayloadKind

	// Valid when Kind == PayloadUnfinished.
	PlanksNeeded uint8
	StoneNeeded  uint8
	Level        uint8

	// Valid when Kind == PayloadInventory.
	Inventory entitystore.InventoryHandle

	// Valid when Kind == PayloadFlag.
	Flag entitystore.FlagHandle
}

// Building is one constructed (or under-construction) structure.
type Building struct {
	Pos    hexmap.Pos
	Type   Type
	Player uint8
	Flag   entitystore.FlagHandle

	Stock1 Stock
	Stock2 Stock

	Progress uint16 // 0..65535
	Burning  bool
	BurnTick uint16 // ticks remaining before the tile is freed

	SerfPresent bool
	Unfinished  bool

	Payload Payload

	// Production tracks progress through ProductionProgram(Type) once the
	// building is finished; Stock1 doubles as the single production input
	// buffer at that point (construction and production never overlap).
	Production ProductionState

	// Serf is either the occupying production worker, or (for military
	// buildings) the head of the garrison's knight list.
	Serf entitystore.SerfHandle

	// serfRequested mirrors spec.md §4.6's "serf_requested" retry bit:
	// set while send_serf_to_building is outstanding.
	serfRequested bool

	// needKnight is set while a military building is under-garrisoned.
	needKnight bool

	// garrison lists the knight serf handles currently stationed here,
	// weakest-discharge order is the caller's responsibility (package
	// serf owns individual knight state).
	garrison []entitystore.SerfHandle
}

// TotalStock1 and TotalStock2 report present+incoming, capped at 8 for
// the priority formula in spec.md §4.6.
func (b *Building) TotalStock1() uint8 { return capAt8(b.Stock1.Present + b.Stock1.Incoming) }
func (b *Building) TotalStock2() uint8 { return capAt8(b.Stock2.Present + b.Stock2.Incoming) }

func capAt8(v uint8) uint8 {
	if v > 8 {
		return 8
	}
	return v
}

// StockPriority computes the even-only priority stock requests are
// ranked by: `priority >> (8 + total_stock)`, clamped to a player scale.
// basePriority is the player-configured scale for this resource kind.
func StockPriority(basePriority int, totalStock uint8) int {
	p := basePriority >> (8 + totalStock)
	return p &^ 1 // even-only, so a "fetched" event can halve it cleanly
}

// RequestsSerf reports whether the building currently has an outstanding
// serf request.
func (b *Building) RequestsSerf() bool { return b.serfRequested }

// SetSerfRequested sets or clears the retry bit.
func (b *Building) SetSerfRequested(v bool) { b.serfRequested = v }

// NeedsKnight reports whether a military building is under-garrisoned.
func (b *Building) NeedsKnight() bool { return b.needKnight }

// SetNeedsKnight sets or clears the under-garrisoned flag, driven by the
// garrison-maintenance pass comparing the current garrison size against
// RequiredKnights' min for the building's current threat level.
func (b *Building) SetNeedsKnight(v bool) { b.needKnight = v }

// Garrison returns the current knight handles stationed here.
func (b *Building) Garrison() []entitystore.SerfHandle { return b.garrison }

// AddKnight appends a knight to the garrison list.
func (b *Building) AddKnight(h entitystore.SerfHandle) {
	b.garrison = append(b.garrison, h)
}

// DischargeWeakest removes and returns the weakest knight handle (caller
// supplies the rank lookup, since rank lives on the serf payload), or
// NoSerf if the garrison is empty.
func (b *Building) DischargeWeakest(rankOf func(entitystore.SerfHandle) int) entitystore.SerfHandle {
	if len(b.garrison) == 0 {
		return entitystore.NoSerf
	}
	weakestIdx := 0
	weakestRank := rankOf(b.garrison[0])
	for i := 1; i < len(b.garrison); i++ {
		if r := rankOf(b.garrison[i]); r < weakestRank {
			weakestIdx, weakestRank = i, r
		}
	}
	h := b.garrison[weakestIdx]
	b.garrison = append(b.garrison[:weakestIdx], b.garrison[weakestIdx+1:]...)
	return h
}

// RequiredKnights looks up the garrison minimum and maximum for a player's current
// threat level from their knight_occupation table (spec.md §4.6).
func RequiredKnights(knightOccupation [4][2]uint8, threatLevel uint8) (min, max uint8) {
	if threatLevel > 3 {
		threatLevel = 3
	}
	return knightOccupation[threatLevel][0], knightOccupation[threatLevel][1]
}

// MaxPriorityFor reports whether this building type accepts res as
// an input, and at what priority its current request stands, used by
// the scheduler's routeToRequestingBuilding. A priority of -1 means "not
// requesting". While under construction the request is for planks/stone
// building materials; once finished, a building can request the input
// resource its current production rule consumes.
func (b *Building) MaxPriorityFor(res inventory.Resource, prioTable [inventory.ResourceCount]int) int {
	if b.Unfinished {
		switch res {
		case inventory.ResPlank:
			if b.Stock1.Present+b.Stock1.Incoming >= b.Payload.PlanksNeeded {
				return -1
			}
			return StockPriority(prioTable[res], b.TotalStock1())
		case inventory.ResStone:
			if b.Stock2.Present+b.Stock2.Incoming >= b.Payload.StoneNeeded {
				return -1
			}
			return StockPriority(prioTable[res], b.TotalStock2())
		default:
			return -1
		}
	}

	rules := ProductionProgram(b.Type)
	if len(rules) == 0 {
		return -1
	}
	rule := rules[b.Production.RuleIndex%len(rules)]
	if rule.In == noInput || rule.In != res {
		return -1
	}
	if uint16(b.Stock1.Present)+uint16(b.Stock1.Incoming) >= rule.InCount {
		return -1
	}
	return StockPriority(prioTable[res], b.TotalStock1())
}
