package mesh

import "testing"

// unitTetCoords is a positively oriented tetrahedron plus a fifth point that
// forms a second positive tetrahedron {1,2,3,4} sharing face {1,2,3}
var unitTetCoords = []float64{
	0, 0, 0, // 0
	1, 0, 0, // 1
	0, 1, 0, // 2
	0, 0, 1, // 3
	1, 1, 1, // 4
}

func newTestPoints(t testing.TB, n int) *Points {
	t.Helper()
	p, err := NewPointsFromCoords(unitTetCoords[:3*n])
	if err != nil {
		t.Fatal(err)
	}
	return p
}
