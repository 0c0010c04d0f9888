package writers

import (
	"io"

	"github.com/ghodss/yaml"

	"github.com/notargets/meshseq/mesh"
)

type TriangleRecord struct {
	IDs  []mesh.VertexID `json:"ids"`
	Tag  int             `json:"tag"`
	Kind string          `json:"kind"`
}

// TriangleDocument is the YAML form of a decoded mesh
type TriangleDocument struct {
	Title     string           `json:"title,omitempty"`
	Quadratic bool             `json:"quadratic"`
	Points    [][3]float64     `json:"points"`
	Triangles []TriangleRecord `json:"triangles"`
}

func NewTriangleDocument(m *mesh.Mesh, title string) *TriangleDocument {
	doc := &TriangleDocument{
		Title:     title,
		Quadratic: m.Quadratic(),
		Points:    make([][3]float64, m.Points.Len()),
		Triangles: make([]TriangleRecord, len(m.Triangles)),
	}
	for i := range doc.Points {
		p := m.Points.At(mesh.VertexID(i))
		doc.Points[i] = [3]float64{p.X, p.Y, p.Z}
	}
	for i, tri := range m.Triangles {
		doc.Triangles[i] = TriangleRecord{
			IDs:  append([]mesh.VertexID(nil), tri.Vertices()...),
			Tag:  tri.Tag,
			Kind: tri.Kind.String(),
		}
	}
	return doc
}

func WriteYAML(w io.Writer, m *mesh.Mesh, title string) error {
	data, err := yaml.Marshal(NewTriangleDocument(m, title))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
