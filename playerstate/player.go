// Package playerstate holds per-player economy tuning (priorities,
// distribution ratios, knight occupation targets) and the slow-moving
// counters driven once per tick: reproduction, serf-to-knight conversion,
// notifications, and sampled statistics rings.
//
// Grounded on typedef.Guild's priority/ratio field groups and
// eruntime/treasury.go's periodic-sample pattern, generalized from guild
// economy to per-player settler economy.
package playerstate

import (
	"github.com/gookit/goutil/arrutil"

	"holdground/inventory"
)

const (
	maxFlagPriority      = 25
	toolPriorityCount    = 9
	notificationCapacity = 64
	landStatsRingSize    = 112
	resourceStatsRingSize = 120

	landSampleInterval     = 1500
	resourceSampleInterval = 6000

	maxKnightToSpawn = 2
)

// NotificationKind mirrors game.c's per-player message categories
// (spec.md §4.8/§7 lists these as the examples a notification queue
// carries).
type NotificationKind int

const (
	NotificationMineEmpty NotificationKind = iota
	NotificationNewStockBuilt
	NotificationUnderAttack
	NotificationLostLand
	NotificationFoundGold
	NotificationFoundIron
	NotificationFoundCoal
	NotificationFoundStone
	NotificationEmergencyActivated
	NotificationEmergencyNeutralized
	NotificationCallToArmsClosed
	NotificationVictoryFight
	NotificationDefeatFight
)

// Notification is a single queued (kind, pos) entry.
type Notification struct {
	Kind NotificationKind
	Pos  uint32
}

// KnightOccupation gives the min/max garrison a military building should
// hold at a given threat level (0..3).
type KnightOccupation struct {
	Min, Max uint8
}

// LandStatsSample and ResourceStatsSample are one ring-buffer entry each,
// taken every landSampleInterval / resourceSampleInterval ticks
// respectively.
type LandStatsSample struct {
	Land      uint32
	Buildings uint32
	Military  uint32
}

type ResourceStatsSample struct {
	Resources [inventory.ResourceCount]uint32
}

// Player is one player's economy state.
type Player struct {
	Number uint8

	Active, HasCastle bool
	CycleInProgress   bool
	CycleKnightLoop   bool

	// FlagPriorities[res] is the transport-dispatch priority for res,
	// 0..25 (spec.md §6); InventoryPriority[res] biases inventory
	// stocking the same way. ToolPriority[t] (0..8) weights toolmaker
	// output among the nine tool kinds.
	FlagPriorities    [inventory.ResourceCount]int
	InventoryPriority [inventory.ResourceCount]int
	ToolPriority      [toolPriorityCount]int

	// Distribution ratios: how food/planks/steel/coal/wheat are split
	// among the consumer types that compete for them.
	FoodDistribution  [3]uint8 // per mine type: coal, iron, gold
	PlanksDistribution [3]uint8
	SteelDistribution  [2]uint8
	CoalDistribution   [3]uint8
	WheatDistribution  [2]uint8

	KnightOccupation [4]KnightOccupation

	// RoutableResources restricts which resources this player's flags will
	// carry at all (e.g. an embargo set mid-game); empty means unrestricted.
	RoutableResources []inventory.Resource

	ReproductionCounter int32
	KnightToSpawn       uint8

	LandScore     uint32
	MilitaryScore uint32
	BuildingScore uint32

	notifications []Notification

	landTickAccum     int32
	resourceTickAccum int32
	landStats         []LandStatsSample
	resourceStats     []ResourceStatsSample
}

// New returns a player with the priority defaults tabulated in spec.md
// §6: every flag/inventory priority starts at a middling value so the
// scheduler has something sane to rank against before a player sets
// custom priorities.
func New(number uint8) *Player {
	p := &Player{Number: number}
	for i := range p.FlagPriorities {
		p.FlagPriorities[i] = maxFlagPriority / 2
		p.InventoryPriority[i] = maxFlagPriority / 2
	}
	for i := range p.ToolPriority {
		p.ToolPriority[i] = toolPriorityCount / 2
	}
	return p
}

// FlagPriority implements scheduler.PriorityProvider.
func (p *Player) FlagPriority(res inventory.Resource) int {
	if int(res) < 0 || int(res) >= len(p.FlagPriorities) {
		return 0
	}
	return p.FlagPriorities[res]
}

// AllowsRoute reports whether res is in the player's routable set. An
// empty RoutableResources means every resource is routable, matching the
// default (no embargo) case. Grounded on
// eruntime/state_manager.go's arrutil.Contains membership check.
func (p *Player) AllowsRoute(res inventory.Resource) bool {
	if len(p.RoutableResources) == 0 {
		return true
	}
	return arrutil.Contains(p.RoutableResources, res)
}

// Notify appends a notification, dropping the oldest entry once the
// queue is at capacity (spec.md §4.8: "queue of up to 64").
func (p *Player) Notify(kind NotificationKind, pos uint32) {
	if len(p.notifications) >= notificationCapacity {
		p.notifications = p.notifications[1:]
	}
	p.notifications = append(p.notifications, Notification{Kind: kind, Pos: pos})
}

// Notifications returns the queue in arrival order.
func (p *Player) Notifications() []Notification { return p.notifications }

// ClearNotifications empties the queue (e.g. after the embedding caller
// has drained it).
func (p *Player) ClearNotifications() { p.notifications = nil }

// Update runs one tick's worth of per-player bookkeeping: reproduction
// countdown, stats sampling. hasSwordAndShield/spawnGeneric/convertToKnight
// are supplied by the caller (package sim owns inventories and the serf
// arena) so this package stays free of those imports.
func (p *Player) Update(elapsed int32, hasSwordAndShield func() bool, spawnGeneric func(), convertToKnight func() bool) {
	p.ReproductionCounter -= elapsed
	if p.ReproductionCounter <= 0 {
		p.ReproductionCounter += defaultReproductionPeriod
		if p.KnightToSpawn > 0 && hasSwordAndShield != nil && hasSwordAndShield() {
			if convertToKnight != nil && convertToKnight() {
				p.KnightToSpawn--
			}
		} else if spawnGeneric != nil {
			spawnGeneric()
			if p.KnightToSpawn < maxKnightToSpawn {
				p.KnightToSpawn++
			}
		}
	}

	p.landTickAccum += elapsed
	for p.landTickAccum >= landSampleInterval {
		p.landTickAccum -= landSampleInterval
		p.pushLandSample()
	}

	p.resourceTickAccum += elapsed
	for p.resourceTickAccum >= resourceSampleInterval {
		p.resourceTickAccum -= resourceSampleInterval
		p.pushResourceSample(ResourceStatsSample{})
	}
}

const defaultReproductionPeriod = 4000

func (p *Player) pushLandSample() {
	s := LandStatsSample{Land: p.LandScore, Buildings: p.BuildingScore, Military: p.MilitaryScore}
	p.landStats = append(p.landStats, s)
	if len(p.landStats) > landStatsRingSize {
		p.landStats = p.landStats[len(p.landStats)-landStatsRingSize:]
	}
}

func (p *Player) pushResourceSample(s ResourceStatsSample) {
	p.resourceStats = append(p.resourceStats, s)
	if len(p.resourceStats) > resourceStatsRingSize {
		p.resourceStats = p.resourceStats[len(p.resourceStats)-resourceStatsRingSize:]
	}
}

// LandStats and ResourceStats expose the sampled rings read-only.
func (p *Player) LandStats() []LandStatsSample         { return p.landStats }
func (p *Player) ResourceStats() []ResourceStatsSample { return p.resourceStats }
