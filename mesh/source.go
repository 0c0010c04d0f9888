package mesh

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshseq/types"
	"github.com/notargets/meshseq/utils"
)

// MidpointRecord is a midpoint coordinate stored alongside the connectivity
type MidpointRecord struct {
	Edge  [2]int     `json:"edge"`
	Coord [3]float64 `json:"coord"`
}

// Source holds the raw arrays of one mesh file, already resident in memory
type Source struct {
	Name      string           `json:"name,omitempty"`
	Coords    []float64        `json:"coords"`
	Interior  []int            `json:"interior,omitempty"`
	Exterior  []int            `json:"exterior,omitempty"`
	Midpoints []MidpointRecord `json:"midpoints,omitempty"`
}

func (src *Source) NumPoints() int { return len(src.Coords) / 3 }

// ReadMesh decodes the interior then the exterior records of src with one
// midpoint map, so an edge shared by both passes gets a single midpoint.
// Stored midpoints are only used for a quadratic mesh.
func ReadMesh(src *Source, quadratic bool) (*Mesh, error) {
	var (
		err      error
		points   *Points
		interior []InteriorFace
		exterior []ExteriorFace
	)
	if points, err = NewPointsFromCoords(src.Coords); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	if interior, err = ParseInterior(src.Interior); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	if exterior, err = ParseExterior(src.Exterior); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	mm := NewMidpointMap(points)
	dec := NewDecoder(points, mm, quadratic)
	// Records are checked before midpoints are preloaded so a failed read
	// leaves nothing behind
	if err = dec.Validate(interior, exterior); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	if quadratic {
		for i, mr := range src.Midpoints {
			a, b := mr.Edge[0], mr.Edge[1]
			if a < 0 || b < 0 || a >= mm.numCorners || b >= mm.numCorners {
				return nil, fmt.Errorf("%s: %w: midpoint %d edge [%d,%d], have %d points",
					src.Name, ErrMalformedConnectivity, i, a, b, mm.numCorners)
			}
			if key := types.NewEdgeKey(mr.Edge); key.Degenerate() {
				return nil, fmt.Errorf("%s: %w: midpoint %d has degenerate edge %s",
					src.Name, ErrMalformedConnectivity, i, key)
			}
			mm.Preload(VertexID(a), VertexID(b), r3.Vec{X: mr.Coord[0], Y: mr.Coord[1], Z: mr.Coord[2]})
		}
	}
	if err = dec.DecodeInterior(interior); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	if err = dec.DecodeExterior(exterior); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	return dec.Mesh(), nil
}

// DecodeAll reads independent meshes concurrently, each with its own midpoint
// map. Sources are split into contiguous buckets, one goroutine per bucket, and
// the first failure cancels the remaining work.
func DecodeAll(ctx context.Context, sources []*Source, quadratic bool, parallelDegree int) ([]*Mesh, error) {
	var (
		meshes = make([]*Mesh, len(sources))
		pm     = utils.NewPartitionMap(parallelDegree, len(sources))
	)
	if len(sources) == 0 {
		return meshes, nil
	}
	eg, egCtx := errgroup.WithContext(ctx)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		eg.Go(func() error {
			for k := kMin; k < kMax; k++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				m, err := ReadMesh(sources[k], quadratic)
				if err != nil {
					return err
				}
				meshes[k] = m
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}
