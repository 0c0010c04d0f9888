package utils

// DynBuffer is a growable buffer with amortized doubling
type DynBuffer[T any] struct {
	cells []T
}

func NewDynBuffer[T any](capacity int) *DynBuffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &DynBuffer[T]{cells: make([]T, 0, capacity)}
}

func (db *DynBuffer[T]) Add(vals ...T) {
	need := len(db.cells) + len(vals)
	if need > cap(db.cells) {
		db.Grow(need)
	}
	db.cells = append(db.cells, vals...)
}

// Grow makes room for at least n cells, doubling the current capacity when
// that is larger
func (db *DynBuffer[T]) Grow(n int) {
	if n <= cap(db.cells) {
		return
	}
	newCap := 2 * cap(db.cells)
	if newCap < n {
		newCap = n
	}
	bigger := make([]T, len(db.cells), newCap)
	copy(bigger, db.cells)
	db.cells = bigger
}

func (db *DynBuffer[T]) At(i int) T { return db.cells[i] }

func (db *DynBuffer[T]) Len() int { return len(db.cells) }

// Cells returns the live portion of the buffer, it aliases the storage
func (db *DynBuffer[T]) Cells() []T { return db.cells }
