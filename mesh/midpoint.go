package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshseq/types"
)

// Midpoint is the synthesized vertex shared by every face that uses an edge
type Midpoint struct {
	Edge  Edge
	Coord r3.Vec
	ID    VertexID
}

// MidpointMap owns one midpoint per unique edge for the duration of a single
// mesh read. It only grows, and it is not safe for concurrent use.
type MidpointMap struct {
	points     *Points
	numCorners int // points present before any midpoint was added
	midpoints  map[types.EdgeKey]*Midpoint
}

func NewMidpointMap(points *Points) *MidpointMap {
	return &MidpointMap{
		points:     points,
		numCorners: points.Len(),
		midpoints:  make(map[types.EdgeKey]*Midpoint),
	}
}

// GetOrCreate returns the midpoint vertex of edge a-b, appending the average
// of ca and cb to the point buffer the first time the edge is seen. A
// degenerate edge is its own midpoint.
func (mm *MidpointMap) GetOrCreate(a, b VertexID, ca, cb r3.Vec) VertexID {
	if a == b {
		return a
	}
	e := NewEdge(a, b)
	key := e.Key()
	if mp, ok := mm.midpoints[key]; ok {
		return mp.ID
	}
	coord := r3.Scale(0.5, r3.Add(ca, cb))
	mp := &Midpoint{Edge: e, Coord: coord, ID: mm.points.Append(coord)}
	mm.midpoints[key] = mp
	return mp.ID
}

// Preload registers a midpoint coordinate read from a file, later lookups of
// the edge reuse it instead of averaging the endpoints
func (mm *MidpointMap) Preload(a, b VertexID, coord r3.Vec) VertexID {
	if a == b {
		return a
	}
	e := NewEdge(a, b)
	key := e.Key()
	if mp, ok := mm.midpoints[key]; ok {
		return mp.ID
	}
	mp := &Midpoint{Edge: e, Coord: coord, ID: mm.points.Append(coord)}
	mm.midpoints[key] = mp
	return mp.ID
}

func (mm *MidpointMap) Lookup(a, b VertexID) (*Midpoint, bool) {
	mp, ok := mm.midpoints[NewEdge(a, b).Key()]
	return mp, ok
}

func (mm *MidpointMap) Len() int { return len(mm.midpoints) }

func (mm *MidpointMap) Points() *Points { return mm.points }

func (mm *MidpointMap) NumCorners() int { return mm.numCorners }
