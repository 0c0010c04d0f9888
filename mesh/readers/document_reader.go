package readers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/meshseq/mesh"
	"github.com/notargets/meshseq/types"
)

// Document is the YAML (or JSON) form of a tet mesh file:
//
//	title: two tets
//	points:
//	  - [0, 0, 0]
//	  - [1, 0, 0]
//	interior:
//	  - [1, 0, 1, 2, 3]          # tag, v0..v3
//	exterior:
//	  - [2, 1, 2, 3, 4, 7, 7, 7, -1] # tag, v0..v3, side set per face
//	midpoints:
//	  - {edge: [0, 1], coord: [0.5, 0, 0]}
//
// The record sections may also use their SLAC names tetrahedron_interior and
// tetrahedron_exterior.
type Document struct {
	Title     string                `json:"title,omitempty"`
	Points    [][3]float64          `json:"points"`
	Interior  [][]int               `json:"interior,omitempty"`
	Exterior  [][]int               `json:"exterior,omitempty"`
	Midpoints []mesh.MidpointRecord `json:"midpoints,omitempty"`
}

// UnmarshalJSON resolves every record section key through types.NewRecordKind.
// Sections naming the same kind are concatenated in key order.
func (doc *Document) UnmarshalJSON(data []byte) error {
	var head struct {
		Title     string                `json:"title"`
		Points    [][3]float64          `json:"points"`
		Midpoints []mesh.MidpointRecord `json:"midpoints"`
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &sections); err != nil {
		return err
	}
	*doc = Document{Title: head.Title, Points: head.Points, Midpoints: head.Midpoints}
	keys := make([]string, 0, len(sections))
	for key := range sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		var rows *[][]int
		switch types.NewRecordKind(key) {
		case types.RecordInterior:
			rows = &doc.Interior
		case types.RecordExterior:
			rows = &doc.Exterior
		default:
			continue
		}
		var section [][]int
		if err := json.Unmarshal(sections[key], &section); err != nil {
			return fmt.Errorf("section %s: %w", key, err)
		}
		*rows = append(*rows, section...)
	}
	return nil
}

func ReadDocumentFile(filename string) (*mesh.Source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	src, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if src.Name == "" {
		src.Name = filepath.Base(filename)
	}
	return src, nil
}

func ParseDocument(data []byte) (*mesh.Source, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse mesh document: %w", err)
	}
	return doc.Source()
}

// Source flattens the document rows into the raw record arrays
func (doc *Document) Source() (*mesh.Source, error) {
	var (
		err error
		src = &mesh.Source{
			Name:      doc.Title,
			Coords:    make([]float64, 0, 3*len(doc.Points)),
			Midpoints: doc.Midpoints,
		}
	)
	for _, p := range doc.Points {
		src.Coords = append(src.Coords, p[0], p[1], p[2])
	}
	if src.Interior, err = flatten(doc.Interior, types.RecordInterior); err != nil {
		return nil, err
	}
	if src.Exterior, err = flatten(doc.Exterior, types.RecordExterior); err != nil {
		return nil, err
	}
	return src, nil
}

func flatten(rows [][]int, kind types.RecordKind) ([]int, error) {
	width := kind.Width()
	flat := make([]int, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: %s row %d has %d ints, want %d",
				mesh.ErrRecordLength, kind, i, len(row), width)
		}
		flat = append(flat, row...)
	}
	return flat, nil
}

// NewDocument is the inverse of Document.Source
func NewDocument(src *mesh.Source) (*Document, error) {
	if len(src.Coords)%3 != 0 {
		return nil, fmt.Errorf("coordinate array length %d is not a multiple of 3", len(src.Coords))
	}
	doc := &Document{
		Title:     src.Name,
		Points:    make([][3]float64, len(src.Coords)/3),
		Midpoints: src.Midpoints,
	}
	for i := range doc.Points {
		copy(doc.Points[i][:], src.Coords[3*i:3*i+3])
	}
	var err error
	if doc.Interior, err = split(src.Interior, types.RecordInterior); err != nil {
		return nil, err
	}
	if doc.Exterior, err = split(src.Exterior, types.RecordExterior); err != nil {
		return nil, err
	}
	return doc, nil
}

func split(flat []int, kind types.RecordKind) ([][]int, error) {
	width := kind.Width()
	if len(flat)%width != 0 {
		return nil, fmt.Errorf("%w: %s array has %d ints, width %d", mesh.ErrRecordLength, kind, len(flat), width)
	}
	rows := make([][]int, 0, len(flat)/width)
	for i := 0; i < len(flat); i += width {
		rows = append(rows, append([]int(nil), flat[i:i+width]...))
	}
	return rows, nil
}

// WriteDocument renders src as YAML
func WriteDocument(src *mesh.Source) ([]byte, error) {
	doc, err := NewDocument(src)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
