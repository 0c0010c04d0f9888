package mesh

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshseq/types"
)

func triIDs(m *Mesh) (ids [][]VertexID) {
	for _, tri := range m.Triangles {
		ids = append(ids, tri.Vertices())
	}
	return
}

func TestParseRecords(t *testing.T) {
	interior, err := ParseInterior([]int{7, 0, 1, 2, 3, 8, 1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []InteriorFace{
		{Tag: 7, Vertices: [4]VertexID{0, 1, 2, 3}},
		{Tag: 8, Vertices: [4]VertexID{1, 2, 3, 4}},
	}, interior)

	exterior, err := ParseExterior([]int{3, 0, 1, 2, 3, -1, 5, -1, 6})
	require.NoError(t, err)
	require.Len(t, exterior, 1)
	assert.Equal(t, [4]int{-1, 5, -1, 6}, exterior[0].Sides)
	assert.Equal(t, 2, exterior[0].BoundaryFaces())
	assert.Equal(t, types.RecordExterior, exterior[0].Kind())

	_, err = ParseInterior([]int{1, 2, 3})
	assert.True(t, errors.Is(err, ErrRecordLength))
	_, err = ParseExterior(make([]int, 10))
	assert.True(t, errors.Is(err, ErrRecordLength))

	empty, err := ParseInterior(nil)
	assert.NoError(t, err)
	assert.Len(t, empty, 0)
}

func TestDecodeInterior_Linear(t *testing.T) {
	pts := newTestPoints(t, 4)
	dec := NewDecoder(pts, nil, false)
	require.NoError(t, dec.DecodeInterior([]InteriorFace{{Tag: 7, Vertices: [4]VertexID{0, 1, 2, 3}}}))

	m := dec.Mesh()
	expected := [][]VertexID{
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
		{0, 2, 1},
	}
	if diff := cmp.Diff(expected, triIDs(m)); diff != "" {
		t.Errorf("linear faces mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, pts.Len()) // No midpoints in linear mode
	for f, tri := range m.Triangles {
		assert.Equal(t, f, tri.Face)
		assert.Equal(t, 7, tri.Tag)
		assert.Equal(t, 0, tri.Record)
		assert.Equal(t, types.RecordInterior, tri.Kind)
		assert.False(t, tri.Quadratic)
	}
}

func TestDecodeInterior_OutwardNormals(t *testing.T) {
	pts := newTestPoints(t, 5)
	dec := NewDecoder(pts, nil, false)
	tets := []InteriorFace{
		{Vertices: [4]VertexID{0, 1, 2, 3}},
		{Vertices: [4]VertexID{1, 2, 3, 4}},
	}
	require.NoError(t, dec.DecodeInterior(tets))
	require.Len(t, dec.Mesh().Triangles, 8)
	for _, tri := range dec.Mesh().Triangles {
		var center r3.Vec
		for _, v := range tets[tri.Record].Vertices {
			center = r3.Add(center, pts.At(v))
		}
		center = r3.Scale(0.25, center)
		c := tri.Corners()
		p0, p1, p2 := pts.At(c[0]), pts.At(c[1]), pts.At(c[2])
		normal := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
		faceCenter := r3.Scale(1./3., r3.Add(p0, r3.Add(p1, p2)))
		assert.Greater(t, r3.Dot(normal, r3.Sub(faceCenter, center)), 0.,
			"tet %d face %d points inward", tri.Record, tri.Face)
	}
}

func TestDecodeInterior_Quadratic(t *testing.T) {
	pts := newTestPoints(t, 4)
	dec := NewDecoder(pts, nil, true)
	require.NoError(t, dec.DecodeInterior([]InteriorFace{{Vertices: [4]VertexID{0, 1, 2, 3}}}))

	// Midpoints are numbered in first-use order: 01, 13, 30, 12, 23, 20
	expected := [][]VertexID{
		{0, 1, 3, 4, 5, 6},
		{1, 2, 3, 7, 8, 5},
		{2, 0, 3, 9, 6, 8},
		{0, 2, 1, 9, 7, 4},
	}
	if diff := cmp.Diff(expected, triIDs(dec.Mesh())); diff != "" {
		t.Errorf("quadratic faces mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 10, pts.Len())
	assert.Equal(t, 6, dec.Midpoints().Len())
	assert.Equal(t, 6, dec.Mesh().NumMidpoints())
	assert.Equal(t, r3.Vec{X: 0.5}, pts.At(4))
	assert.Equal(t, r3.Vec{Y: 0.5}, pts.At(9))
	assert.Equal(t, r3.Vec{X: 0.5, Y: 0.5}, pts.At(7))
	assert.True(t, dec.Mesh().Quadratic())
}

func TestDecodeInterior_VertexGrowth(t *testing.T) {
	{ // Quadratic: at most 6 new points per tet, shared edges reuse midpoints
		pts := newTestPoints(t, 5)
		dec := NewDecoder(pts, nil, true)
		require.NoError(t, dec.DecodeInterior([]InteriorFace{{Vertices: [4]VertexID{0, 1, 2, 3}}}))
		assert.Equal(t, 5+6, pts.Len())
		require.NoError(t, dec.DecodeInterior([]InteriorFace{{Vertices: [4]VertexID{1, 2, 3, 4}}}))
		// Edges 12, 23, 13 are shared, only 14, 24, 34 are new
		assert.Equal(t, 5+9, pts.Len())
		assert.Len(t, dec.Mesh().Triangles, 8)
	}
	{ // Linear: no growth
		pts := newTestPoints(t, 5)
		dec := NewDecoder(pts, nil, false)
		require.NoError(t, dec.DecodeInterior([]InteriorFace{
			{Vertices: [4]VertexID{0, 1, 2, 3}},
			{Vertices: [4]VertexID{1, 2, 3, 4}},
		}))
		assert.Equal(t, 5, pts.Len())
		assert.Len(t, dec.Mesh().Triangles, 8)
	}
}

func TestDecodeExterior_SharedMidpoints(t *testing.T) {
	pts := newTestPoints(t, 4)
	dec := NewDecoder(pts, nil, true)
	tet := [4]VertexID{0, 1, 2, 3}
	require.NoError(t, dec.DecodeInterior([]InteriorFace{{Tag: 1, Vertices: tet}}))
	nPoints := pts.Len()

	require.NoError(t, dec.DecodeExterior([]ExteriorFace{{Tag: 1, Vertices: tet, Sides: [4]int{10, -1, -1, 20}}}))
	assert.Equal(t, nPoints, pts.Len(), "exterior pass must reuse interior midpoints")

	tris := dec.Mesh().Triangles
	require.Len(t, tris, 6)
	ext := tris[4:]
	assert.Equal(t, types.RecordExterior, ext[0].Kind)
	assert.Equal(t, 0, ext[0].Face)
	assert.Equal(t, 10, ext[0].Tag)
	assert.Equal(t, 3, ext[1].Face)
	assert.Equal(t, 20, ext[1].Tag)
	// Same six IDs as the matching interior faces
	assert.Equal(t, tris[0].IDs, ext[0].IDs)
	assert.Equal(t, tris[3].IDs, ext[1].IDs)
}

func TestDecode_MixedRecords(t *testing.T) {
	pts := newTestPoints(t, 5)
	dec := NewDecoder(pts, nil, false)
	records := []Record{
		InteriorFace{Tag: 1, Vertices: [4]VertexID{0, 1, 2, 3}},
		ExteriorFace{Tag: 2, Vertices: [4]VertexID{1, 2, 3, 4}, Sides: [4]int{-1, 4, -1, -1}},
	}
	require.NoError(t, dec.Decode(records))
	tris := dec.Mesh().Triangles
	require.Len(t, tris, 5)
	assert.Equal(t, [3]VertexID{2, 3, 4}, tris[4].Corners())
	assert.Equal(t, 1, tris[4].Record)
	assert.Equal(t, 4, tris[4].Tag)
}

func TestDecode_MalformedConnectivity(t *testing.T) {
	type testCase struct {
		name   string
		decode func(*Decoder) error
		record int
		corner int
		vertex VertexID
		kind   types.RecordKind
	}
	good := [4]VertexID{0, 1, 2, 3}
	tests := []testCase{
		{
			name: "interior one past the end",
			decode: func(d *Decoder) error {
				return d.DecodeInterior([]InteriorFace{{Vertices: good}, {Vertices: [4]VertexID{0, 1, 2, 4}}})
			},
			record: 1, corner: 3, vertex: 4, kind: types.RecordInterior,
		},
		{
			name: "interior negative",
			decode: func(d *Decoder) error {
				return d.DecodeInterior([]InteriorFace{{Vertices: [4]VertexID{-1, 1, 2, 3}}})
			},
			record: 0, corner: 0, vertex: -1, kind: types.RecordInterior,
		},
		{
			name: "exterior one past the end",
			decode: func(d *Decoder) error {
				return d.DecodeExterior([]ExteriorFace{
					{Vertices: good, Sides: [4]int{1, 1, 1, 1}},
					{Vertices: good, Sides: [4]int{1, 1, 1, 1}},
					{Vertices: [4]VertexID{0, 4, 2, 3}, Sides: [4]int{-1, -1, -1, -1}},
				})
			},
			record: 2, corner: 1, vertex: 4, kind: types.RecordExterior,
		},
		{
			name: "mixed",
			decode: func(d *Decoder) error {
				return d.Decode([]Record{InteriorFace{Vertices: good}, ExteriorFace{Vertices: [4]VertexID{0, 1, 9, 3}}})
			},
			record: 1, corner: 2, vertex: 9, kind: types.RecordExterior,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pts := newTestPoints(t, 4)
			dec := NewDecoder(pts, nil, true)
			err := tc.decode(dec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedConnectivity))
			var mce *MalformedConnectivityError
			require.True(t, errors.As(err, &mce))
			assert.Equal(t, tc.record, mce.Record)
			assert.Equal(t, tc.corner, mce.Corner)
			assert.Equal(t, tc.vertex, mce.Vertex)
			assert.Equal(t, tc.kind, mce.Kind)
			assert.Equal(t, 4, mce.PointCount)
			// Nothing from the valid leading records is kept
			assert.Len(t, dec.Mesh().Triangles, 0)
			assert.Equal(t, 4, pts.Len())
			assert.Equal(t, 0, dec.Midpoints().Len())
		})
	}
}

func TestDecode_MidpointsAreNotCorners(t *testing.T) {
	pts := newTestPoints(t, 4)
	dec := NewDecoder(pts, nil, true)
	require.NoError(t, dec.DecodeInterior([]InteriorFace{{Vertices: [4]VertexID{0, 1, 2, 3}}}))
	// Point 4 exists now, but only as a midpoint
	err := dec.DecodeInterior([]InteriorFace{{Vertices: [4]VertexID{0, 1, 2, 4}}})
	assert.True(t, errors.Is(err, ErrMalformedConnectivity))
	assert.Len(t, dec.Mesh().Triangles, 4)
}

func TestNewDecoder_ForeignMidpointMap(t *testing.T) {
	mm := NewMidpointMap(newTestPoints(t, 4))
	assert.Panics(t, func() { NewDecoder(newTestPoints(t, 4), mm, true) })
	assert.NotPanics(t, func() { NewDecoder(mm.Points(), mm, true) })
}
