package entitystore

// The simulation kernel distinguishes Flag, Building, Inventory, and Serf
// handles by type even though all four are plain Handle values underneath,
// so a mistaken swap (passing a Handle meant for a Building where a Serf
// handle is expected) is a compile error rather than a silent corruption.

// FlagHandle references a slot in a Flag arena.
type FlagHandle Handle

// BuildingHandle references a slot in a Building arena.
type BuildingHandle Handle

// InventoryHandle references a slot in an Inventory arena.
type InventoryHandle Handle

// SerfHandle references a slot in a Serf arena.
type SerfHandle Handle

// NoFlag, NoBuilding, NoInventory, and NoSerf are the sentinel "absent"
// handles; Handle 0 is never issued by Alloc, so these double as the
// zero values of their respective types.
const (
	NoFlag      FlagHandle      = 0
	NoBuilding  BuildingHandle  = 0
	NoInventory InventoryHandle = 0
	NoSerf      SerfHandle      = 0
)
