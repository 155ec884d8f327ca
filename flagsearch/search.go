// Package flagsearch implements the generational breadth-first search used
// to find a path (or test reachability) across the road graph without
// allocating a fresh visited-set on every call.
//
// Grounded on eruntime/pathfinder/bfs.go's queue-plus-visited-map shape,
// generalized per spec.md §4.3 into a generational scheme: instead of a
// map cleared every call, each Flag carries a SearchNum scratch field and
// a monotonically increasing counter stamps "visited in this generation"
// directly onto the flag, so repeated searches over the same graph cost
// no allocation.
package flagsearch

import (
	"errors"

	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/roadgraph"
)

// ErrStepLimitExceeded is a fatal-class error: a search walked more than
// MaxSteps flags without terminating, which can only mean the road graph
// itself is malformed (a cycle in what should be a tree, a dangling
// endpoint pointing nowhere). spec.md §4.3 calls this case out explicitly
// as a programmer error, not a recoverable condition.
var ErrStepLimitExceeded = errors.New("flagsearch: exceeded max search steps")

// MaxSteps bounds a single Execute call; chosen to comfortably exceed any
// plausible road network (65536, per spec.md §4.3) while still catching a
// runaway walk quickly.
const MaxSteps = 65536

// Search carries one generation's BFS state across the Flag arena. A
// Search is cheap to create and reusable: call Reset between logically
// distinct searches instead of allocating a new one.
type Search struct {
	flags   *entitystore.Arena[entitystore.FlagHandle, roadgraph.Flag]
	counter uint32
	queue   []entitystore.FlagHandle
}

// New creates a Search bound to the given Flag arena. The counter starts
// at 1 so a Flag's zero-valued SearchNum (never touched) is distinguishable
// from "visited in generation 0".
func New(flags *entitystore.Arena[entitystore.FlagHandle, roadgraph.Flag]) *Search {
	return &Search{flags: flags, counter: 1}
}

// Reset starts a fresh generation, invalidating every flag's previous
// SearchNum stamp without touching the flags themselves.
func (s *Search) Reset() {
	s.counter++
	s.queue = s.queue[:0]
}

// AddSource seeds the search from h, marking it visited in the current
// generation. Call before Execute; may be called multiple times for a
// multi-source search (e.g. "can any of these flags reach a warehouse").
func (s *Search) AddSource(h entitystore.FlagHandle) {
	f := s.flags.Get(h)
	if f == nil || f.SearchNum == s.counter {
		return
	}
	f.SearchNum = s.counter
	s.queue = append(s.queue, h)
}

// Visitor is called once per flag dequeued during Execute, in the order
// the flag was reached. Returning true stops the search early (e.g. once
// a target has been found).
type Visitor func(h entitystore.FlagHandle, f *roadgraph.Flag) (stop bool)

// Execute drains the queue built by AddSource, visiting each flag's
// unvisited neighbors in descending direction order (5 down to 0,
// matching the original engine's scan order so search results are
// reproducible) and calling visit on every flag dequeued. It returns
// ErrStepLimitExceeded if more than MaxSteps flags are dequeued without
// the visitor requesting a stop — a malformed graph, not a normal result.
func (s *Search) Execute(visit Visitor) error {
	steps := 0
	for len(s.queue) > 0 {
		h := s.queue[0]
		s.queue = s.queue[1:]
		steps++
		if steps > MaxSteps {
			return ErrStepLimitExceeded
		}

		f := s.flags.Get(h)
		if f == nil {
			continue
		}
		if visit(h, f) {
			return nil
		}

		for d := 5; d >= 0; d-- {
			dir := hexmap.Direction(d)
			if !f.HasPath(dir) {
				continue
			}
			end := f.Endpoints[dir]
			if end.Kind != roadgraph.EndpointFlag {
				continue
			}
			nf := s.flags.Get(end.Flag)
			if nf == nil || nf.SearchNum == s.counter {
				continue
			}
			nf.SearchNum = s.counter
			nf.SearchDir = dir
			s.queue = append(s.queue, end.Flag)
		}
	}
	return nil
}

// Single runs a one-shot search from source looking for target, returning
// whether target is reachable. It allocates nothing beyond the Search
// itself reused across calls.
func Single(s *Search, source, target entitystore.FlagHandle) (bool, error) {
	s.Reset()
	s.AddSource(source)
	found := false
	err := s.Execute(func(h entitystore.FlagHandle, f *roadgraph.Flag) bool {
		if h == target {
			found = true
			return true
		}
		return false
	})
	return found, err
}
