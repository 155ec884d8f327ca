package roadgraph

import (
	"errors"

	"holdground/entitystore"
	"holdground/hexmap"
)

// ErrOccupiedDirection is returned by BuildRoad when the requested
// direction at either endpoint already carries a path.
var ErrOccupiedDirection = errors.New("roadgraph: direction already has a path")

// ErrNotAdjacentFlags is returned by SplitPathAtFlag when the supplied
// flag does not actually sit on the path being split.
var ErrNotAdjacentFlags = errors.New("roadgraph: flag is not on this path")

// Graph owns the Flag arena and the map it is laid out on. Building and
// demolishing roads only ever touches the two endpoint flags plus the
// map's path bits — it never walks or rewrites any other flag, keeping
// the concurrency story the single state-mutex spec.md §5 describes.
type Graph struct {
	Flags *entitystore.Arena[entitystore.FlagHandle, Flag]
	Map   *hexmap.Map
}

// NewGraph creates an empty road graph over m with room for capacity
// flags.
func NewGraph(m *hexmap.Map, capacity int) *Graph {
	return &Graph{
		Flags: entitystore.NewArena[entitystore.FlagHandle, Flag](capacity),
		Map:   m,
	}
}

// BuildRoad lays a path from flag from in direction dir, running tiles
// tiles long, to flag to. Both flags must already
// exist at their positions and have a free slot in the direction facing
// each other; the map's path bits are set symmetrically across every tile
// the road crosses.
func (g *Graph) BuildRoad(from entitystore.FlagHandle, dir hexmap.Direction, to entitystore.FlagHandle, tiles int) error {
	ff := g.Flags.Get(from)
	tf := g.Flags.Get(to)
	if ff == nil || tf == nil {
		return errors.New("roadgraph: unknown flag handle")
	}
	if ff.HasPath(dir) {
		return ErrOccupiedDirection
	}
	rev := dir.Reverse()
	if tf.HasPath(rev) {
		return ErrOccupiedDirection
	}

	pos := ff.Pos
	for i := 0; i < tiles; i++ {
		stepDir := dir
		g.Map.AddPath(pos, stepDir)
		pos = g.Map.Neighbor(pos, stepDir)
	}

	cat := LengthCategory(tiles)
	ff.PathCon |= 1 << uint(dir)
	ff.Endpoints[dir] = Endpoint{Kind: EndpointFlag, Flag: to}
	ff.Length[dir] = cat
	ff.TileLen[dir] = tiles
	ff.OtherEndDir[dir] = rev

	tf.PathCon |= 1 << uint(rev)
	tf.Endpoints[rev] = Endpoint{Kind: EndpointFlag, Flag: from}
	tf.Length[rev] = cat
	tf.TileLen[rev] = tiles
	tf.OtherEndDir[rev] = dir

	return nil
}

// DemolishRoad removes the path leaving handle h in direction dir,
// clearing both endpoints' bookkeeping and the underlying map path bits.
// Any transporter currently assigned to the segment is left to the
// scheduler to reassign; DemolishRoad itself only tears down topology.
func (g *Graph) DemolishRoad(h entitystore.FlagHandle, dir hexmap.Direction) error {
	f := g.Flags.Get(h)
	if f == nil {
		return errors.New("roadgraph: unknown flag handle")
	}
	if !f.HasPath(dir) {
		return nil
	}

	end := f.Endpoints[dir]
	otherDir := f.OtherEndDir[dir]

	pos := f.Pos
	length := f.TileLen[dir]
	for i := 0; i < length; i++ {
		g.Map.RemovePath(pos, dir)
		pos = g.Map.Neighbor(pos, dir)
	}

	f.PathCon &^= 1 << uint(dir)
	f.TransporterAssigned &^= 1 << uint(dir)
	f.TransporterRequested &^= 1 << uint(dir)
	f.Endpoints[dir] = Endpoint{}

	if end.Kind == EndpointFlag {
		if other := g.Flags.Get(end.Flag); other != nil {
			other.PathCon &^= 1 << uint(otherDir)
			other.TransporterAssigned &^= 1 << uint(otherDir)
			other.TransporterRequested &^= 1 << uint(otherDir)
			other.Endpoints[otherDir] = Endpoint{}
		}
	}

	return nil
}

// SplitPathAtFlag inserts newFlag into the middle of the path leaving h in
// direction dir, turning one road into two shorter ones that meet at
// newFlag. tilesToNew is the tile count from h to newFlag, which must
// already be allocated and placed on the map (the caller is responsible
// for planting the flag object itself); SplitPathAtFlag only rewires the Flag bookkeeping
// and recomputes the two new length categories.
func (g *Graph) SplitPathAtFlag(h entitystore.FlagHandle, dir hexmap.Direction, newFlag entitystore.FlagHandle, tilesToNew int) error {
	f := g.Flags.Get(h)
	if f == nil {
		return errors.New("roadgraph: unknown flag handle")
	}
	if !f.HasPath(dir) {
		return ErrNotAdjacentFlags
	}

	end := f.Endpoints[dir]
	if end.Kind != EndpointFlag {
		return ErrNotAdjacentFlags
	}
	otherDir := f.OtherEndDir[dir]
	other := g.Flags.Get(end.Flag)
	if other == nil {
		return ErrNotAdjacentFlags
	}
	totalTiles := f.TileLen[dir]
	if tilesToNew < 1 || tilesToNew >= totalTiles {
		return ErrNotAdjacentFlags
	}

	nf := g.Flags.Get(newFlag)
	if nf == nil {
		return errors.New("roadgraph: unknown new flag handle")
	}

	remaining := totalTiles - tilesToNew
	firstCat := LengthCategory(tilesToNew)
	secondCat := LengthCategory(remaining)

	f.Length[dir] = firstCat
	f.TileLen[dir] = tilesToNew
	f.Endpoints[dir] = Endpoint{Kind: EndpointFlag, Flag: newFlag}
	f.OtherEndDir[dir] = dir.Reverse()

	nf.PathCon |= (1 << uint(dir.Reverse())) | (1 << uint(dir))
	nf.Endpoints[dir.Reverse()] = Endpoint{Kind: EndpointFlag, Flag: h}
	nf.Length[dir.Reverse()] = firstCat
	nf.TileLen[dir.Reverse()] = tilesToNew
	nf.OtherEndDir[dir.Reverse()] = dir

	nf.Endpoints[dir] = Endpoint{Kind: EndpointFlag, Flag: end.Flag}
	nf.Length[dir] = secondCat
	nf.TileLen[dir] = remaining
	nf.OtherEndDir[dir] = otherDir

	other.Endpoints[otherDir] = Endpoint{Kind: EndpointFlag, Flag: newFlag}
	other.Length[otherDir] = secondCat
	other.TileLen[otherDir] = remaining
	other.OtherEndDir[otherDir] = dir

	return nil
}
