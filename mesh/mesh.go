package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshseq/types"
	"github.com/notargets/meshseq/utils"
)

// VertexID indexes the flat point coordinate array, 3 doubles per vertex
type VertexID int

// Edge is an unordered vertex pair, always stored with A <= B
type Edge struct {
	A, B VertexID
}

func NewEdge(a, b VertexID) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

func (e Edge) Key() types.EdgeKey {
	return types.NewEdgeKey([2]int{int(e.A), int(e.B)})
}

func (e Edge) String() string { return fmt.Sprintf("[%d,%d]", e.A, e.B) }

// Points is the owned, append-only coordinate buffer of a mesh
type Points struct {
	coords *utils.DynBuffer[float64]
}

func NewPoints(capacity int) *Points {
	return &Points{coords: utils.NewDynBuffer[float64](3 * capacity)}
}

// NewPointsFromCoords copies a flat x,y,z coordinate array
func NewPointsFromCoords(coords []float64) (*Points, error) {
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("coordinate array length %d is not a multiple of 3", len(coords))
	}
	p := NewPoints(len(coords) / 3)
	p.coords.Add(coords...)
	return p, nil
}

func (p *Points) Len() int { return p.coords.Len() / 3 }

func (p *Points) At(id VertexID) r3.Vec {
	i := 3 * int(id)
	return r3.Vec{X: p.coords.At(i), Y: p.coords.At(i + 1), Z: p.coords.At(i + 2)}
}

func (p *Points) Append(v r3.Vec) VertexID {
	id := VertexID(p.Len())
	p.coords.Add(v.X, v.Y, v.Z)
	return id
}

// Coords returns the live flat coordinate storage
func (p *Points) Coords() []float64 { return p.coords.Cells() }

// Triangle holds either 3 corner IDs or 3 corners followed by the midpoints
// of edges c0-c1, c1-c2 and c2-c0
type Triangle struct {
	IDs       [6]VertexID
	Quadratic bool
	Tag       int              // Region tag for interior faces, side set for exterior faces
	Kind      types.RecordKind // Encoding of the originating record
	Record    int              // Index of the originating record within its array
	Face      int              // Local tetrahedron face
}

func (t Triangle) Vertices() []VertexID {
	if t.Quadratic {
		return t.IDs[:]
	}
	return t.IDs[:3]
}

func (t Triangle) Corners() [3]VertexID {
	return [3]VertexID{t.IDs[0], t.IDs[1], t.IDs[2]}
}

// Mesh is an indexed triangle soup over a shared point buffer. NumCorners is
// the count of input points, everything after it was synthesized as a midpoint.
type Mesh struct {
	Points     *Points
	Triangles  []Triangle
	NumCorners int
}

func (m *Mesh) NumMidpoints() int { return m.Points.Len() - m.NumCorners }

func (m *Mesh) Quadratic() bool {
	return len(m.Triangles) != 0 && m.Triangles[0].Quadratic
}
