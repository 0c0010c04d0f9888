package mesh

import (
	"sort"

	"github.com/notargets/meshseq/utils"
)

// EdgeUse counts how many triangles use each corner edge. Entry (a,b) with
// a < b holds the count, midpoints do not take part.
func EdgeUse(m *Mesh) utils.CSR {
	var (
		Nv  = max(m.Points.Len(), 1)
		dok = utils.NewDOK(Nv, Nv)
	)
	for _, tri := range m.Triangles {
		c := tri.Corners()
		for i := 0; i < 3; i++ {
			a, b := c[i], c[(i+1)%3]
			if a == b {
				continue
			}
			e := NewEdge(a, b)
			dok.Increment(int(e.A), int(e.B))
		}
	}
	dok.SetReadOnly("EdgeUse")
	return dok.ToCSR()
}

// EdgesWithUse returns the sorted edges whose use count satisfies keep
func EdgesWithUse(m *Mesh, keep func(count int) bool) (edges []Edge) {
	EdgeUse(m).DoNonZero(func(i, j int, v float64) {
		if keep(int(v)) {
			edges = append(edges, Edge{A: VertexID(i), B: VertexID(j)})
		}
	})
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return
}

// BoundaryEdges are used by exactly one triangle, the rim of an open surface
func BoundaryEdges(m *Mesh) []Edge {
	return EdgesWithUse(m, func(count int) bool { return count == 1 })
}

// NonManifoldEdges are shared by more than two triangles
func NonManifoldEdges(m *Mesh) []Edge {
	return EdgesWithUse(m, func(count int) bool { return count > 2 })
}
