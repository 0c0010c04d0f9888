package mesh

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshseq/types"
)

type Stats struct {
	Points           int
	Corners          int
	Midpoints        int
	Triangles        int
	Quadratic        bool
	ByKind           map[types.RecordKind]int
	ByTag            map[int]int
	Edges            int
	BoundaryEdges    int
	NonManifoldEdges int
	Area             float64 // Sum of flat corner triangle areas
	BBox             [2][3]float64
}

func TriangleArea(p0, p1, p2 r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)))
}

func Statistics(m *Mesh) (st Stats) {
	st = Stats{
		Points:    m.Points.Len(),
		Corners:   m.NumCorners,
		Midpoints: m.NumMidpoints(),
		Triangles: len(m.Triangles),
		Quadratic: m.Quadratic(),
		ByKind:    make(map[types.RecordKind]int),
		ByTag:     make(map[int]int),
	}
	for _, tri := range m.Triangles {
		st.ByKind[tri.Kind]++
		st.ByTag[tri.Tag]++
		c := tri.Corners()
		st.Area += TriangleArea(m.Points.At(c[0]), m.Points.At(c[1]), m.Points.At(c[2]))
	}
	edgeUse := EdgeUse(m)
	st.Edges = edgeUse.NNZ()
	edgeUse.DoNonZero(func(i, j int, v float64) {
		switch {
		case v == 1:
			st.BoundaryEdges++
		case v > 2:
			st.NonManifoldEdges++
		}
	})
	if st.Points != 0 {
		var (
			coords = m.Points.Coords()
			axis   = make([]float64, st.Points)
		)
		for dim := 0; dim < 3; dim++ {
			for i := range axis {
				axis[i] = coords[3*i+dim]
			}
			st.BBox[0][dim], st.BBox[1][dim] = floats.Min(axis), floats.Max(axis)
		}
	}
	return
}

// PrintStatistics prints mesh statistics
func (st Stats) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Points: %d (%d corners, %d midpoints)\n", st.Points, st.Corners, st.Midpoints)
	fmt.Fprintf(w, "  Triangles: %d (quadratic: %v)\n", st.Triangles, st.Quadratic)
	for _, kind := range []types.RecordKind{types.RecordInterior, types.RecordExterior} {
		if n := st.ByKind[kind]; n != 0 {
			fmt.Fprintf(w, "    %s: %d\n", kind, n)
		}
	}
	tags := make([]int, 0, len(st.ByTag))
	for tag := range st.ByTag {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	fmt.Fprintf(w, "  Tags:\n")
	for _, tag := range tags {
		fmt.Fprintf(w, "    %d: %d\n", tag, st.ByTag[tag])
	}
	fmt.Fprintf(w, "  Edges: %d (boundary %d, non-manifold %d)\n", st.Edges, st.BoundaryEdges, st.NonManifoldEdges)
	fmt.Fprintf(w, "  Area: %.6g\n", st.Area)
	fmt.Fprintf(w, "  Bounds: %v - %v\n", st.BBox[0], st.BBox[1])
}
