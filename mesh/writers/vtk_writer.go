package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notargets/meshseq/mesh"
)

// VTK legacy cell types
const (
	VTKTriangle          = 5
	VTKQuadraticTriangle = 22
)

func WriteVTKFile(filename string, m *mesh.Mesh, title string) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteVTK(file, m, title)
}

// WriteVTK writes m as a legacy ASCII unstructured grid with the triangle tag
// and originating record kind as cell data
func WriteVTK(w io.Writer, m *mesh.Mesh, title string) error {
	bw := bufio.NewWriter(w)
	title = strings.ReplaceAll(title, "\n", " ")
	if title == "" {
		title = "meshseq"
	}
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", title)

	np := m.Points.Len()
	fmt.Fprintf(bw, "POINTS %d double\n", np)
	coords := m.Points.Coords()
	for i := 0; i < np; i++ {
		fmt.Fprintf(bw, "%g %g %g\n", coords[3*i], coords[3*i+1], coords[3*i+2])
	}

	var size int
	for _, tri := range m.Triangles {
		size += 1 + len(tri.Vertices())
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", len(m.Triangles), size)
	for _, tri := range m.Triangles {
		verts := tri.Vertices()
		fmt.Fprintf(bw, "%d", len(verts))
		for _, v := range verts {
			fmt.Fprintf(bw, " %d", v)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", len(m.Triangles))
	for _, tri := range m.Triangles {
		cellType := VTKTriangle
		if tri.Quadratic {
			cellType = VTKQuadraticTriangle
		}
		fmt.Fprintf(bw, "%d\n", cellType)
	}
	if len(m.Triangles) != 0 {
		fmt.Fprintf(bw, "CELL_DATA %d\n", len(m.Triangles))
		fmt.Fprintf(bw, "SCALARS tag int 1\nLOOKUP_TABLE default\n")
		for _, tri := range m.Triangles {
			fmt.Fprintf(bw, "%d\n", tri.Tag)
		}
		fmt.Fprintf(bw, "SCALARS kind int 1\nLOOKUP_TABLE default\n")
		for _, tri := range m.Triangles {
			fmt.Fprintf(bw, "%d\n", tri.Kind)
		}
	}
	return bw.Flush()
}
