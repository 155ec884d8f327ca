// Package inventory implements the per-stock resource and serf counters
// backing castles and warehouses, including the spawn queue and the
// resource/serf in-out-stop traffic modes.
//
// Grounded on typedef.go's small-enum style and eruntime's resource-ledger
// idiom (present/incoming counters adjusted in place rather than recomputed
// from history).
package inventory

// Resource enumerates the 25 tradeable resource kinds plus the synthetic
// ResGroup marker, indexing Inventory's resources[26] array.
type Resource int

const (
	ResLumber Resource = iota
	ResPlank
	ResBoat
	ResStone
	ResIronOre
	ResSteel
	ResCoal
	ResGoldOre
	ResGoldBar
	ResShovel
	ResHammer
	ResRod
	ResCleaver
	ResScythe
	ResAxe
	ResSaw
	ResPick
	ResPincer
	ResSword
	ResShield
	ResFish
	ResPig
	ResWheat
	ResFlour
	ResBread
	ResGroup // synthetic marker used only by scheduler routing tables
)

// ResourceCount is the number of real resource slots (excludes the
// synthetic ResGroup marker).
const ResourceCount = 25

// SerfType enumerates the 27 serf kinds, matching the save format's
// serfs[27] array.
type SerfType int

const (
	SerfTransporter SerfType = iota
	SerfSailor
	SerfGeneric
	SerfKnight0
	SerfKnight1
	SerfKnight2
	SerfKnight3
	SerfKnight4
	SerfLumberjack
	SerfSawmillWorker
	SerfStonecutter
	SerfForester
	SerfMiner
	SerfSmelter
	SerfFisherman
	SerfPigFarmer
	SerfButcher
	SerfFarmer
	SerfMiller
	SerfBaker
	SerfBoatBuilder
	SerfToolmaker
	SerfWeaponSmith
	SerfGeologist
	SerfGeneric2
	SerfDead
	SerfSpare
)

// SerfTypeCount is the number of serf kind slots.
const SerfTypeCount = 27

// TrafficMode controls whether an inventory accepts, stops, or ejects a
// category of cargo.
type TrafficMode uint8

const (
	TrafficIn TrafficMode = iota
	TrafficStop
	TrafficOut
)

// OutQueueDepth is the maximum number of pending (resource, dest_flag)
// hand-offs an inventory can queue toward its flag at once.
const OutQueueDepth = 2
