package inventory

import "holdground/entitystore"

// OutEntry is one pending resource handoff queued toward the inventory's
// attached flag.
type OutEntry struct {
	Valid bool
	Res   Resource
	Dest  entitystore.FlagHandle
}

// Inventory is the storage backing a castle or stock: per-resource and
// per-serf-type counts, a small out-queue toward its flag, and the two
// traffic-mode settings controlling whether it accepts or ejects cargo.
type Inventory struct {
	Player   uint8
	Flag     entitystore.FlagHandle
	Building entitystore.BuildingHandle

	Resources [26]uint16
	Serfs     [SerfTypeCount]uint16

	OutQueue [OutQueueDepth]OutEntry

	SpawnPriority uint16

	ResourceMode TrafficMode
	SerfMode     TrafficMode
}

// AddResource increments a stock count.
func (inv *Inventory) AddResource(r Resource, n uint16) {
	inv.Resources[r] += n
}

// TakeResource decrements a stock count, returning false if insufficient
// (stock arithmetic never underflows, per spec.md §4.6).
func (inv *Inventory) TakeResource(r Resource, n uint16) bool {
	if inv.Resources[r] < n {
		return false
	}
	inv.Resources[r] -= n
	return true
}

// HasSerf reports whether at least one serf of kind t is idle in stock.
func (inv *Inventory) HasSerf(t SerfType) bool {
	return inv.Serfs[t] > 0
}

// TakeSerf decrements the idle count for serf kind t, returning false if
// none are available.
func (inv *Inventory) TakeSerf(t SerfType) bool {
	if inv.Serfs[t] == 0 {
		return false
	}
	inv.Serfs[t]--
	return true
}

// AddSerf increments the idle count for serf kind t (a serf returning to
// stock, or spawned directly into it).
func (inv *Inventory) AddSerf(t SerfType, n uint16) {
	inv.Serfs[t] += n
}

// QueueOut enqueues a resource handoff toward dest if there is a free
// out-queue slot, returning false if the queue is full.
func (inv *Inventory) QueueOut(r Resource, dest entitystore.FlagHandle) bool {
	for i := range inv.OutQueue {
		if !inv.OutQueue[i].Valid {
			inv.OutQueue[i] = OutEntry{Valid: true, Res: r, Dest: dest}
			return true
		}
	}
	return false
}

// PopOut removes and returns the first queued out-entry, if any.
func (inv *Inventory) PopOut() (OutEntry, bool) {
	for i := range inv.OutQueue {
		if inv.OutQueue[i].Valid {
			e := inv.OutQueue[i]
			inv.OutQueue[i] = OutEntry{}
			return e, true
		}
	}
	return OutEntry{}, false
}

// AcceptsResources reports whether this inventory currently takes
// deliveries (ResourceMode != TrafficOut — TrafficStop still accepts,
// matching the original's "stop = hold what you have, keep receiving"
// semantics).
func (inv *Inventory) AcceptsResources() bool {
	return inv.ResourceMode != TrafficOut
}
