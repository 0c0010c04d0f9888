package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// DOK wraps a dictionary of keys sparse matrix used to accumulate counts
// before converting to CSR for traversal
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }

// Increment adds one to the count stored at i,j
func (m DOK) Increment(i, j int) {
	m.checkWritable()
	m.M.Set(i, j, m.At(i, j)+1)
}

func (m *DOK) SetReadOnly(name ...string) {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// NNZ is the number of stored entries
func (m CSR) NNZ() int { return m.M.NNZ() }

// DoNonZero visits the stored entries in row order
func (m CSR) DoNonZero(fn func(i, j int, v float64)) {
	m.M.DoNonZero(fn)
}
