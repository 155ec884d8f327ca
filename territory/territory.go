// Package territory recomputes tile ownership around military buildings
// whenever one is built, demolished, or captured: an influence field is
// added per building, each affected tile's owner becomes the
// highest-influence player, and land-area totals and each military
// building's threat level are kept consistent with the result.
//
// Grounded on alg/hq.go's score-and-rank candidate pattern (here: rank
// players by influence per tile rather than territories by HQ
// suitability) and alg/chokepoint.go's BFS-radius impact scoring,
// repurposed from guild-war scoring to military influence accumulation
// (spec.md §4.9).
package territory

import "holdground/hexmap"

// BuildingClass distinguishes the three influence-radius tiers; castle
// shares fortress's class for influence purposes.
type BuildingClass int

const (
	ClassHut BuildingClass = iota
	ClassTower
	ClassFortress
)

const (
	distClassCount = 10
	maxThreatLevel = 3
)

// InfluenceTable holds military_influence[10*type+dist_class]: for each
// building class and ring distance (0..9), how much influence that
// building contributes to its owner's channel at that ring.
type InfluenceTable [3 * distClassCount]int

// DefaultInfluenceTable is a falling-off-with-distance curve: closer
// rings count for more, and influence reaches zero past ring 9. Higher
// building classes project further and stronger, matching the
// hut < tower < fortress/castle escalation in spec.md §4.9.
func DefaultInfluenceTable() InfluenceTable {
	var t InfluenceTable
	base := [3]int{4, 6, 9}
	for class := 0; class < 3; class++ {
		for dist := 0; dist < distClassCount; dist++ {
			v := base[class] - dist
			if v < 0 {
				v = 0
			}
			t[class*distClassCount+dist] = v
		}
	}
	return t
}

func (t InfluenceTable) at(class BuildingClass, dist int) int {
	if dist < 0 || dist >= distClassCount {
		return 0
	}
	return t[int(class)*distClassCount+dist]
}

// MilitaryBuilding is the minimal view territory needs of a military
// building: its position, class, and owner.
type MilitaryBuilding struct {
	Pos   hexmap.Pos
	Class BuildingClass
	Owner uint8
}

// Recompute radius around an affected event (spec.md §4.9: "window
// around the event"). It is generous enough to cover the strongest
// building class's full influence falloff.
const RecomputeRadius = distClassCount - 1

// System owns per-tile ownership and per-player land totals; it holds no
// reference to the map's tile storage directly (to avoid a territory<->
// hexmap ownership-field dependency both ways), instead tracking
// ownership in its own parallel map keyed by Pos.
type System struct {
	Influence InfluenceTable
	owner     map[hexmap.Pos]uint8
	hasOwner  map[hexmap.Pos]bool
	landArea  map[uint8]uint32
}

// New creates an empty territory system (no tile owned by anyone yet).
func New() *System {
	return &System{
		Influence: DefaultInfluenceTable(),
		owner:     make(map[hexmap.Pos]uint8),
		hasOwner:  make(map[hexmap.Pos]bool),
		landArea:  make(map[uint8]uint32),
	}
}

// Owner reports pos's current owner, if any.
func (s *System) Owner(pos hexmap.Pos) (player uint8, owned bool) {
	return s.owner[pos], s.hasOwner[pos]
}

// LandArea returns a player's total owned tile count.
func (s *System) LandArea(player uint8) uint32 { return s.landArea[player] }

// Recompute re-derives ownership for every tile within RecomputeRadius of
// trigger's position, summing influence from every military building
// whose own influence still reaches into that window, then assigning each
// tile to the argmax player (ties leave the tile's existing owner
// unchanged, per spec.md §4.9's "ties yield no change").
func (s *System) Recompute(m *hexmap.Map, trigger hexmap.Pos, buildings []MilitaryBuilding) []LostTile {
	window := m.TilesWithinRadius(trigger, RecomputeRadius)
	var changes []LostTile

	for _, tile := range window {
		scores := make(map[uint8]int)
		for _, b := range buildings {
			d := m.ChebyshevDistance(b.Pos, tile, RecomputeRadius)
			if d > RecomputeRadius {
				continue
			}
			scores[b.Owner] += s.Influence.at(b.Class, d)
		}
		newOwner, ok := argmaxNoTie(scores)
		if !ok {
			continue
		}

		oldOwner, hadOwner := s.owner[tile], s.hasOwner[tile]
		if hadOwner && oldOwner == newOwner {
			continue
		}
		if hadOwner {
			s.landArea[oldOwner]--
			changes = append(changes, LostTile{Pos: tile, From: oldOwner, To: newOwner})
		}
		s.owner[tile] = newOwner
		s.hasOwner[tile] = true
		s.landArea[newOwner]++
	}
	return changes
}

// LostTile records one ownership flip, e.g. to drive a LOST_LAND
// notification for the player who lost it.
type LostTile struct {
	Pos      hexmap.Pos
	From, To uint8
}

// argmaxNoTie returns the player with the strictly highest score, or
// ok=false if scores is empty or the top score is tied between two or
// more players (spec.md §4.9: "ties yield no change").
func argmaxNoTie(scores map[uint8]int) (player uint8, ok bool) {
	best := 0
	bestPlayer := uint8(0)
	tie := false
	first := true
	for p, v := range scores {
		switch {
		case first || v > best:
			best, bestPlayer, tie, first = v, p, false, false
		case v == best:
			tie = true
		}
	}
	if first || tie || best <= 0 {
		return 0, false
	}
	return bestPlayer, true
}

// EnemyTilesNear returns every tile within radius of pos that the system
// currently has assigned to a player other than player, the input
// ThreatLevel needs to find the nearest hostile tile to a garrison.
func (s *System) EnemyTilesNear(m *hexmap.Map, pos hexmap.Pos, player uint8, radius int) []hexmap.Pos {
	window := m.TilesWithinRadius(pos, radius)
	var enemy []hexmap.Pos
	for _, tile := range window {
		if owner, ok := s.owner[tile], s.hasOwner[tile]; ok && owner != player {
			enemy = append(enemy, tile)
		}
	}
	return enemy
}

// ThreatLevel returns the Chebyshev distance from pos to the nearest tile
// in enemyTiles, clamped to 0..maxThreatLevel (spec.md §4.9: drives a
// military building's occupation-level threshold).
func ThreatLevel(m *hexmap.Map, pos hexmap.Pos, enemyTiles []hexmap.Pos) int {
	best := maxThreatLevel + 1
	for _, e := range enemyTiles {
		d := m.ChebyshevDistance(pos, e, maxThreatLevel)
		if d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	if best > maxThreatLevel {
		return maxThreatLevel
	}
	return best
}
