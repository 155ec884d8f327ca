package building

import "holdground/inventory"

// Rule is one step of a building's production program: consume `In`
// units of an input resource and, once `Ticks` anim units have elapsed,
// emit `Out` units of the output resource. A Rule whose In is noInput
// (-1) has no input requirement (e.g. a lumberjack needs no stock, only
// worker time).
type Rule struct {
	In       inventory.Resource
	InCount  uint16
	Out      inventory.Resource
	OutCount uint16
	Ticks    uint16
}

// noInput marks a Rule that consumes nothing, only worker time.
const noInput = inventory.Resource(-1)

// ProductionProgram returns the ordered production rules for a building
// type; buildings not in this table (castle, stock, the military types
// and the forester) return nil.
func ProductionProgram(t Type) []Rule {
	switch t {
	case TypeSawmill:
		return []Rule{{In: inventory.ResLumber, InCount: 1, Out: inventory.ResPlank, OutCount: 1, Ticks: 200}}
	case TypeSmelterIron:
		return []Rule{{In: inventory.ResIronOre, InCount: 1, Out: inventory.ResSteel, OutCount: 1, Ticks: 384}}
	case TypeSmelterGold:
		return []Rule{{In: inventory.ResGoldOre, InCount: 1, Out: inventory.ResGoldBar, OutCount: 1, Ticks: 384}}
	case TypeMill:
		return []Rule{{In: inventory.ResWheat, InCount: 1, Out: inventory.ResFlour, OutCount: 1, Ticks: 256}}
	case TypeBakery:
		return []Rule{{In: inventory.ResFlour, InCount: 1, Out: inventory.ResBread, OutCount: 1, Ticks: 256}}
	case TypeButcher:
		return []Rule{{In: inventory.ResPig, InCount: 1, Out: inventory.ResFish, OutCount: 2, Ticks: 256}}
	case TypePigfarm:
		return []Rule{{In: inventory.ResWheat, InCount: 1, Out: inventory.ResPig, OutCount: 1, Ticks: 2200}}
	case TypeToolmaker:
		return []Rule{{In: inventory.ResPlank, InCount: 1, Out: inventory.ResHammer, OutCount: 1, Ticks: 320}}
	case TypeWeaponsmith:
		return []Rule{
			{In: inventory.ResSteel, InCount: 1, Out: inventory.ResSword, OutCount: 1, Ticks: 384},
			{In: inventory.ResSteel, InCount: 1, Out: inventory.ResShield, OutCount: 1, Ticks: 384},
		}
	case TypeBoatbuilder:
		return []Rule{{In: inventory.ResPlank, InCount: 1, Out: inventory.ResBoat, OutCount: 1, Ticks: 400}}
	case TypeLumberjack:
		return []Rule{{In: noInput, Out: inventory.ResLumber, OutCount: 1, Ticks: 400}}
	case TypeStonecutter:
		return []Rule{{In: noInput, Out: inventory.ResStone, OutCount: 1, Ticks: 400}}
	case TypeFisher:
		return []Rule{{In: noInput, Out: inventory.ResFish, OutCount: 1, Ticks: 300}}
	case TypeFarm:
		return []Rule{{In: noInput, Out: inventory.ResWheat, OutCount: 1, Ticks: 2800}}
	case TypeMineCoal:
		return []Rule{{In: noInput, Out: inventory.ResCoal, OutCount: 1, Ticks: 720}}
	case TypeMineIron:
		return []Rule{{In: noInput, Out: inventory.ResIronOre, OutCount: 1, Ticks: 720}}
	case TypeMineGold:
		return []Rule{{In: noInput, Out: inventory.ResGoldOre, OutCount: 1, Ticks: 720}}
	case TypeMineStone:
		return []Rule{{In: noInput, Out: inventory.ResStone, OutCount: 1, Ticks: 720}}
	default:
		return nil
	}
}

// ProductionState tracks one building's position within its production
// program: the active rule index and ticks accumulated toward it.
type ProductionState struct {
	RuleIndex int
	Progress  uint16
}

// Advance applies anim ticks of work against rules, given callbacks that
// check and consume the input stock. Whenever a rule completes this call
// it returns the rule's output resource and count with ok == true (the
// caller deposits the output onto the building's flag).
func (ps *ProductionState) Advance(rules []Rule, anim uint16, haveInput func(inventory.Resource, uint16) bool, consumeInput func(inventory.Resource, uint16)) (produced inventory.Resource, count uint16, ok bool) {
	if len(rules) == 0 {
		return 0, 0, false
	}
	rule := rules[ps.RuleIndex]

	if rule.In != noInput && !haveInput(rule.In, rule.InCount) {
		return 0, 0, false
	}

	ps.Progress += anim
	if ps.Progress < rule.Ticks {
		return 0, 0, false
	}
	ps.Progress -= rule.Ticks

	if rule.In != noInput {
		consumeInput(rule.In, rule.InCount)
	}

	ps.RuleIndex = (ps.RuleIndex + 1) % len(rules)
	return rule.Out, rule.OutCount, true
}
