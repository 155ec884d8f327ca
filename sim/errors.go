// Package sim wires every sub-package into one mutex-guarded simulation
// state and exposes the embedding command surface spec.md §6 names:
// build_flag, build_road, build_building, demolish, set_priority,
// set_knight_occupation, send_geologist, attack, pause, set_game_speed.
//
// Grounded on eruntime.go's single RWMutex-guarded state struct holding
// every subsystem slice; narrowed here to one mutex rather than the
// teacher's per-territory/per-guild locks, since spec.md §5 guarantees no
// suspension point exists within a tick and a single lock is simpler to
// reason about under that guarantee.
package sim

import (
	"errors"
	"fmt"

	"holdground/entitystore"
	"holdground/hexmap"
)

// ErrExhausted reports an entity arena at capacity.
var ErrExhausted = errors.New("sim: arena exhausted")

// ErrNotOwned / ErrWrongOwner report a territory ownership check failure.
var ErrNotOwned = errors.New("sim: tile not owned by any player")
var ErrWrongOwner = errors.New("sim: tile owned by a different player")

// ErrBlocked reports an impassable tile, occupied object, or excessive
// height delta at a build site.
var ErrBlocked = errors.New("sim: position blocked")

// ErrNoPath reports a road connection that cannot exist (mixed land/water,
// self-crossing, dead end).
var ErrNoPath = errors.New("sim: no viable road path")

// ErrPartialFailure reports a serf dispatch that could not be completed;
// the originating request bit is left set for retry on a later pass.
var ErrPartialFailure = errors.New("sim: dispatch failed, retry pending")

// ErrUnreachable reports a scheduler pass that found no destination for a
// queued resource.
var ErrUnreachable = errors.New("sim: no reachable destination")

// ErrInvariant reports a corrupted internal invariant (e.g. an
// asymmetric path bit) — a bug, fatal in debug builds.
var ErrInvariant = errors.New("sim: invariant violated")

// Kind tags which arena, position, or resource a wrapped error concerns.
type Kind string

const (
	KindFlag       Kind = "flag"
	KindBuilding   Kind = "building"
	KindInventory  Kind = "inventory"
	KindSerf       Kind = "serf"
	KindPlayerNote Kind = "player-notification"
)

// exhausted wraps ErrExhausted with the arena kind that hit capacity.
func exhausted(k Kind) error {
	return fmt.Errorf("%w: %s", ErrExhausted, k)
}

func notOwned(pos hexmap.Pos) error {
	return fmt.Errorf("%w: pos=%d", ErrNotOwned, pos)
}

func wrongOwner(pos hexmap.Pos, player uint8) error {
	return fmt.Errorf("%w: pos=%d player=%d", ErrWrongOwner, pos, player)
}

func blocked(pos hexmap.Pos, reason string) error {
	return fmt.Errorf("%w: pos=%d reason=%s", ErrBlocked, pos, reason)
}

// unknownHandle reports a command referencing a handle that is not (or no
// longer) live in its arena.
func unknownHandle(k Kind, h entitystore.Handle) error {
	return fmt.Errorf("%w: unknown %s handle %d", ErrInvariant, k, h)
}
