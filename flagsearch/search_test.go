package flagsearch

import (
	"testing"

	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/roadgraph"
)

func buildChain(t *testing.T, n int) (*roadgraph.Graph, []entitystore.FlagHandle) {
	t.Helper()
	m := hexmap.New(32, 32)
	g := roadgraph.NewGraph(m, n+1)
	handles := make([]entitystore.FlagHandle, n)
	for i := 0; i < n; i++ {
		h, f, err := g.Flags.Alloc()
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		f.Pos = m.NeighborN(m.MakePos(0, 0), hexmap.DirRight, i*2)
		handles[i] = h
	}
	for i := 0; i < n-1; i++ {
		if err := g.BuildRoad(handles[i], hexmap.DirRight, handles[i+1], 2); err != nil {
			t.Fatalf("BuildRoad %d: %v", i, err)
		}
	}
	return g, handles
}

func TestSingleFindsReachableTarget(t *testing.T) {
	g, handles := buildChain(t, 5)
	s := New(g.Flags)

	found, err := Single(s, handles[0], handles[4])
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if !found {
		t.Errorf("expected handles[4] to be reachable from handles[0]")
	}
}

func TestSingleReportsUnreachableTarget(t *testing.T) {
	m := hexmap.New(32, 32)
	g := roadgraph.NewGraph(m, 4)
	h1, f1, _ := g.Flags.Alloc()
	f1.Pos = m.MakePos(0, 0)
	h2, f2, _ := g.Flags.Alloc()
	f2.Pos = m.MakePos(10, 10) // disconnected

	s := New(g.Flags)
	found, err := Single(s, h1, h2)
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if found {
		t.Errorf("expected disconnected flags to be unreachable")
	}
}

func TestExecuteVisitsEveryReachableFlagOnce(t *testing.T) {
	g, handles := buildChain(t, 4)
	s := New(g.Flags)
	s.Reset()
	s.AddSource(handles[0])

	visited := make(map[entitystore.FlagHandle]int)
	err := s.Execute(func(h entitystore.FlagHandle, f *roadgraph.Flag) bool {
		visited[h]++
		return false
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(visited) != len(handles) {
		t.Errorf("visited %d flags, want %d", len(visited), len(handles))
	}
	for h, count := range visited {
		if count != 1 {
			t.Errorf("flag %v visited %d times, want 1", h, count)
		}
	}
}

func TestGenerationsDoNotLeakBetweenSearches(t *testing.T) {
	g, handles := buildChain(t, 3)
	s := New(g.Flags)

	if _, err := Single(s, handles[0], handles[2]); err != nil {
		t.Fatalf("first Single: %v", err)
	}
	// A second, independent search from a different source must not see
	// stale SearchNum stamps from the first generation.
	found, err := Single(s, handles[2], handles[0])
	if err != nil {
		t.Fatalf("second Single: %v", err)
	}
	if !found {
		t.Errorf("expected reverse search to also find handles[0] reachable")
	}
}
