package readers

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/notargets/meshseq/mesh"
	"github.com/notargets/meshseq/types"
)

/*
The binary tet format is little endian throughout:

	magic        [4]byte "TETM"
	nPoints      uint32
	nInterior    uint32  records of 5 int32
	nExterior    uint32  records of 9 int32
	nMidpoints   uint32
	coords       [3*nPoints]float64
	interior     [5*nInterior]int32
	exterior     [9*nExterior]int32
	midpoints    nMidpoints x {a, b int32; x, y, z float64}
*/
var (
	binaryMagic = [4]byte{'T', 'E', 'T', 'M'}

	ErrBadMagic  = errors.New("not a binary tet mesh")
	ErrTruncated = errors.New("truncated binary tet mesh")
	ErrTooLarge  = errors.New("binary tet mesh header count too large")

	ErrOutOfRange = errors.New("value does not fit in int32")
)

// MaxBinaryCount bounds every header count so a corrupt header cannot trigger
// a huge allocation
const MaxBinaryCount = 1 << 28

type binaryHeader struct {
	Magic      [4]byte
	NPoints    uint32
	NInterior  uint32
	NExterior  uint32
	NMidpoints uint32
}

type binaryMidpoint struct {
	A, B    int32
	X, Y, Z float64
}

func ReadBinaryFile(filename string) (*mesh.Source, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, err := ReadBinary(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	src.Name = filepath.Base(filename)
	return src, nil
}

func ReadBinary(r io.Reader) (*mesh.Source, error) {
	var hdr binaryHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, truncated("header", err)
	}
	if hdr.Magic != binaryMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, hdr.Magic[:])
	}
	for _, n := range []uint32{hdr.NPoints, hdr.NInterior, hdr.NExterior, hdr.NMidpoints} {
		if n > MaxBinaryCount {
			return nil, fmt.Errorf("%w: %d", ErrTooLarge, n)
		}
	}
	var (
		src = &mesh.Source{}
		err error
	)
	if src.Coords, err = readSection[float64](r, 3*int(hdr.NPoints), "coordinates"); err != nil {
		return nil, err
	}
	if src.Interior, err = readInts(r, int(hdr.NInterior)*types.RecordInterior.Width(), "interior"); err != nil {
		return nil, err
	}
	if src.Exterior, err = readInts(r, int(hdr.NExterior)*types.RecordExterior.Width(), "exterior"); err != nil {
		return nil, err
	}
	mids, err := readSection[binaryMidpoint](r, int(hdr.NMidpoints), "midpoints")
	if err != nil {
		return nil, err
	}
	if len(mids) != 0 {
		src.Midpoints = make([]mesh.MidpointRecord, len(mids))
		for i, mp := range mids {
			src.Midpoints[i] = mesh.MidpointRecord{
				Edge:  [2]int{int(mp.A), int(mp.B)},
				Coord: [3]float64{mp.X, mp.Y, mp.Z},
			}
		}
	}
	return src, nil
}

// readChunk is the most values read by one call, sections grow as their data
// arrives so a header count alone never sizes an allocation
const readChunk = 1 << 14

func readSection[T any](r io.Reader, n int, section string) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	var (
		out   = make([]T, 0, min(n, readChunk))
		chunk = make([]T, min(n, readChunk))
	)
	for len(out) < n {
		c := chunk[:min(n-len(out), readChunk)]
		if err := binary.Read(r, binary.LittleEndian, c); err != nil {
			return nil, truncated(section, err)
		}
		out = append(out, c...)
	}
	return out, nil
}

func readInts(r io.Reader, n int, section string) ([]int, error) {
	raw, err := readSection[int32](r, n, section)
	if err != nil || raw == nil {
		return nil, err
	}
	ints := make([]int, n)
	for i, v := range raw {
		ints[i] = int(v)
	}
	return ints, nil
}

func truncated(section string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, section)
	}
	return fmt.Errorf("reading %s: %w", section, err)
}

// WriteBinary is the inverse of ReadBinary
func WriteBinary(w io.Writer, src *mesh.Source) error {
	if len(src.Coords)%3 != 0 {
		return fmt.Errorf("coordinate array length %d is not a multiple of 3", len(src.Coords))
	}
	iw, ew := types.RecordInterior.Width(), types.RecordExterior.Width()
	if len(src.Interior)%iw != 0 || len(src.Exterior)%ew != 0 {
		return mesh.ErrRecordLength
	}
	counts := [4]int{len(src.Coords) / 3, len(src.Interior) / iw, len(src.Exterior) / ew, len(src.Midpoints)}
	for _, n := range counts {
		if n > MaxBinaryCount {
			return fmt.Errorf("%w: %d", ErrTooLarge, n)
		}
	}
	hdr := binaryHeader{
		Magic:      binaryMagic,
		NPoints:    uint32(counts[0]),
		NInterior:  uint32(counts[1]),
		NExterior:  uint32(counts[2]),
		NMidpoints: uint32(counts[3]),
	}
	interior, err := toInt32(src.Interior, "interior")
	if err != nil {
		return err
	}
	exterior, err := toInt32(src.Exterior, "exterior")
	if err != nil {
		return err
	}
	mids := make([]binaryMidpoint, len(src.Midpoints))
	for i, mp := range src.Midpoints {
		edge, err := toInt32(mp.Edge[:], "midpoints")
		if err != nil {
			return err
		}
		mids[i] = binaryMidpoint{
			A: edge[0], B: edge[1],
			X: mp.Coord[0], Y: mp.Coord[1], Z: mp.Coord[2],
		}
	}
	for _, data := range []any{hdr, src.Coords, interior, exterior, mids} {
		if err = binary.Write(w, binary.LittleEndian, data); err != nil {
			return err
		}
	}
	return nil
}

func toInt32(ints []int, section string) ([]int32, error) {
	out := make([]int32, len(ints))
	for i, v := range ints {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s value %d at %d", ErrOutOfRange, section, v, i)
		}
		out[i] = int32(v)
	}
	return out, nil
}
