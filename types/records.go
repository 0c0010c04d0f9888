package types

import "strings"

// RecordKind tags the fixed-width connectivity encodings found in a tet mesh
// file. It is a closed set, consumers switch on it.
type RecordKind uint8

const (
	RecordNone RecordKind = iota
	RecordInterior
	RecordExterior
)

// Width is the number of integers a record of this kind occupies in the raw
// connectivity array
func (rk RecordKind) Width() int {
	switch rk {
	case RecordInterior:
		return 5
	case RecordExterior:
		return 9
	default:
		return 0
	}
}

func (rk RecordKind) String() string {
	switch rk {
	case RecordInterior:
		return "Interior"
	case RecordExterior:
		return "Exterior"
	default:
		return "None"
	}
}

var RecordNameMap = map[string]RecordKind{
	"interior":             RecordInterior,
	"tetrahedron_interior": RecordInterior,
	"exterior":             RecordExterior,
	"tetrahedron_exterior": RecordExterior,
}

func NewRecordKind(name string) RecordKind {
	if rk, ok := RecordNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return rk
	}
	return RecordNone
}
