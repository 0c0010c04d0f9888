package readers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/meshseq/mesh"
)

var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*mesh.Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".yaml", ".yml", ".json":
		return ReadDocumentFile(filename)
	case ".tet":
		return ReadBinaryFile(filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
