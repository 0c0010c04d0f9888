package mesh

import (
	"errors"
	"fmt"

	"github.com/notargets/meshseq/types"
)

var ErrMalformedConnectivity = errors.New("malformed connectivity")

// MalformedConnectivityError reports a record corner that does not index an
// input point. It aborts the whole decode.
type MalformedConnectivityError struct {
	Kind       types.RecordKind
	Record     int
	Corner     int
	Vertex     VertexID
	PointCount int
}

func (e *MalformedConnectivityError) Error() string {
	return fmt.Sprintf("%s: %s record %d corner %d references vertex %d, have %d points",
		ErrMalformedConnectivity, e.Kind, e.Record, e.Corner, e.Vertex, e.PointCount)
}

func (e *MalformedConnectivityError) Unwrap() error { return ErrMalformedConnectivity }

// TetFaces lists the local vertices of each tetrahedron face. Every face winds
// counterclockwise seen from outside a positively oriented tetrahedron, and
// faces are always emitted in this order.
var TetFaces = [4][3]int{
	{0, 1, 3}, // Face 0
	{1, 2, 3}, // Face 1
	{2, 0, 3}, // Face 2
	{0, 2, 1}, // Face 3
}

// Decoder turns interior and exterior tetrahedron records into triangles.
// Corner indices must reference the points present when the decoder was
// created, synthesized midpoints are never valid corners.
type Decoder struct {
	quadratic  bool
	numCorners int
	midpoints  *MidpointMap
	mesh       *Mesh
}

// NewDecoder decodes into points. Passing a nil midpoint map starts a fresh
// one, passing a shared map lets several decoders reuse midpoints; the map must
// have been built over the same points.
func NewDecoder(points *Points, midpoints *MidpointMap, quadratic bool) *Decoder {
	if midpoints == nil {
		midpoints = NewMidpointMap(points)
	}
	if midpoints.points != points {
		panic(fmt.Errorf("midpoint map was built over a different point buffer"))
	}
	return &Decoder{
		quadratic:  quadratic,
		numCorners: midpoints.numCorners,
		midpoints:  midpoints,
		mesh: &Mesh{
			Points:     points,
			NumCorners: midpoints.numCorners,
		},
	}
}

func (d *Decoder) Mesh() *Mesh { return d.mesh }

func (d *Decoder) Midpoints() *MidpointMap { return d.midpoints }

func (d *Decoder) Quadratic() bool { return d.quadratic }

// DecodeInterior appends the four faces of every tetrahedron, in record order
func (d *Decoder) DecodeInterior(records []InteriorFace) error {
	for i, rec := range records {
		if err := d.validate(rec, i); err != nil {
			return err
		}
	}
	d.grow(4 * len(records))
	for i, rec := range records {
		d.emitInterior(rec, i)
	}
	return nil
}

// DecodeExterior appends only the faces of each record that carry a side set
func (d *Decoder) DecodeExterior(records []ExteriorFace) error {
	var nFaces int
	for i, rec := range records {
		if err := d.validate(rec, i); err != nil {
			return err
		}
		nFaces += rec.BoundaryFaces()
	}
	d.grow(nFaces)
	for i, rec := range records {
		d.emitExterior(rec, i)
	}
	return nil
}

// Decode accepts a mixed record stream, the record index reported on error is
// the position within records
func (d *Decoder) Decode(records []Record) error {
	for i, rec := range records {
		if err := d.validate(rec, i); err != nil {
			return err
		}
	}
	for i, rec := range records {
		switch r := rec.(type) {
		case InteriorFace:
			d.emitInterior(r, i)
		case ExteriorFace:
			d.emitExterior(r, i)
		}
	}
	return nil
}

// Validate checks interior and exterior records without decoding them
func (d *Decoder) Validate(interior []InteriorFace, exterior []ExteriorFace) error {
	for i, rec := range interior {
		if err := d.validate(rec, i); err != nil {
			return err
		}
	}
	for i, rec := range exterior {
		if err := d.validate(rec, i); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) validate(rec Record, index int) error {
	switch rec.(type) {
	case InteriorFace, ExteriorFace:
	default:
		return fmt.Errorf("unsupported record type %T at index %d", rec, index)
	}
	for c, v := range rec.Corners() {
		if v < 0 || int(v) >= d.numCorners {
			return &MalformedConnectivityError{
				Kind:       rec.Kind(),
				Record:     index,
				Corner:     c,
				Vertex:     v,
				PointCount: d.numCorners,
			}
		}
	}
	return nil
}

func (d *Decoder) grow(n int) {
	if free := cap(d.mesh.Triangles) - len(d.mesh.Triangles); free < n {
		tris := make([]Triangle, len(d.mesh.Triangles), len(d.mesh.Triangles)+n)
		copy(tris, d.mesh.Triangles)
		d.mesh.Triangles = tris
	}
}

func (d *Decoder) emitInterior(rec InteriorFace, index int) {
	for f := range TetFaces {
		d.emitFace(rec.Vertices, f, rec.Tag, types.RecordInterior, index)
	}
}

func (d *Decoder) emitExterior(rec ExteriorFace, index int) {
	for f, side := range rec.Sides {
		if side < 0 {
			continue
		}
		d.emitFace(rec.Vertices, f, side, types.RecordExterior, index)
	}
}

func (d *Decoder) emitFace(verts [4]VertexID, face, tag int, kind types.RecordKind, index int) {
	var (
		lv  = TetFaces[face]
		tri = Triangle{
			Quadratic: d.quadratic,
			Tag:       tag,
			Kind:      kind,
			Record:    index,
			Face:      face,
		}
	)
	for i := 0; i < 3; i++ {
		tri.IDs[i] = verts[lv[i]]
	}
	if d.quadratic {
		pts := d.mesh.Points
		for i := 0; i < 3; i++ {
			a, b := tri.IDs[i], tri.IDs[(i+1)%3]
			tri.IDs[3+i] = d.midpoints.GetOrCreate(a, b, pts.At(a), pts.At(b))
		}
	}
	d.mesh.Triangles = append(d.mesh.Triangles, tri)
}
