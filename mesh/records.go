package mesh

import (
	"errors"
	"fmt"

	"github.com/notargets/meshseq/types"
)

var ErrRecordLength = errors.New("connectivity array length is not a multiple of the record width")

// Record is implemented only by InteriorFace and ExteriorFace
type Record interface {
	Kind() types.RecordKind
	Corners() [4]VertexID
}

// InteriorFace is a tetrahedron that lies inside the volume, encoded as
// [tag, v0, v1, v2, v3]
type InteriorFace struct {
	Tag      int
	Vertices [4]VertexID
}

func (InteriorFace) Kind() types.RecordKind { return types.RecordInterior }
func (f InteriorFace) Corners() [4]VertexID { return f.Vertices }

// ExteriorFace is a tetrahedron touching the boundary, encoded as
// [tag, v0, v1, v2, v3, s0, s1, s2, s3]. Sides[f] is the side set of local
// face f, or negative when that face is not on the boundary.
type ExteriorFace struct {
	Tag      int
	Vertices [4]VertexID
	Sides    [4]int
}

func (ExteriorFace) Kind() types.RecordKind { return types.RecordExterior }
func (f ExteriorFace) Corners() [4]VertexID { return f.Vertices }

// BoundaryFaces counts the faces that carry a side set
func (f ExteriorFace) BoundaryFaces() (n int) {
	for _, s := range f.Sides {
		if s >= 0 {
			n++
		}
	}
	return
}

func ParseInterior(raw []int) ([]InteriorFace, error) {
	width := types.RecordInterior.Width()
	if len(raw)%width != 0 {
		return nil, fmt.Errorf("%w: interior array has %d ints, width %d", ErrRecordLength, len(raw), width)
	}
	recs := make([]InteriorFace, len(raw)/width)
	for i := range recs {
		r := raw[i*width : (i+1)*width]
		recs[i] = InteriorFace{
			Tag:      r[0],
			Vertices: [4]VertexID{VertexID(r[1]), VertexID(r[2]), VertexID(r[3]), VertexID(r[4])},
		}
	}
	return recs, nil
}

func ParseExterior(raw []int) ([]ExteriorFace, error) {
	width := types.RecordExterior.Width()
	if len(raw)%width != 0 {
		return nil, fmt.Errorf("%w: exterior array has %d ints, width %d", ErrRecordLength, len(raw), width)
	}
	recs := make([]ExteriorFace, len(raw)/width)
	for i := range recs {
		r := raw[i*width : (i+1)*width]
		recs[i] = ExteriorFace{
			Tag:      r[0],
			Vertices: [4]VertexID{VertexID(r[1]), VertexID(r[2]), VertexID(r[3]), VertexID(r[4])},
			Sides:    [4]int{r[5], r[6], r[7], r[8]},
		}
	}
	return recs, nil
}
