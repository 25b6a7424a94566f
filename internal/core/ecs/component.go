package ecs

import (
	"fmt"

	"github.com/dodscene/dodscene/internal/core/buffer"
)

// Table is a dense component table: parallel ids and rows arrays with one
// logical count. Row order is insertion order modulo swap-remove.
type Table[T any] struct {
	ids   *buffer.Array[EntityID]
	rows  *buffer.Array[T]
	count int
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{
		ids:  buffer.NewArray[EntityID](1),
		rows: buffer.NewArray[T](1),
	}
}

// Append adds a row at the end and returns its index.
func (t *Table[T]) Append(id EntityID, row T) int {
	i := t.count
	t.ids.Put(i, id)
	t.rows.Put(i, row)
	t.count++
	return i
}

// Find scans for id and returns its row, or -1.
func (t *Table[T]) Find(id EntityID) int {
	for i := 0; i < t.count; i++ {
		if t.ids.At(i) == id {
			return i
		}
	}
	return -1
}

// Remove swap-removes id: the last row is copied over id's row and the count
// shrinks by one. It returns the freed row and the id that moved into it
// (NoEntity when the removed row was the last one).
func (t *Table[T]) Remove(id EntityID) (row int, moved EntityID) {
	row = t.Find(id)
	if row < 0 {
		panic(fmt.Errorf("%w: entity %d missing from table", ErrInconsistent, id))
	}
	t.count--
	last := t.count
	if row == last {
		return row, NoEntity
	}
	moved = t.ids.At(last)
	t.ids.Overwrite(row, last)
	t.rows.Overwrite(row, last)
	return row, moved
}

func (t *Table[T]) Len() int { return t.count }

// Size is the backing capacity in rows.
func (t *Table[T]) Size() int { return t.ids.Size() }

func (t *Table[T]) ID(i int) EntityID { return t.ids.At(i) }

// Row returns a pointer to row i. Valid until the next Append.
func (t *Table[T]) Row(i int) *T { return t.rows.Ptr(i) }

// IDs returns the live id column. Borrowed view.
func (t *Table[T]) IDs() []EntityID { return t.ids.Slice(t.count) }

// Rows returns the live row column. Borrowed view.
func (t *Table[T]) Rows() []T { return t.rows.Slice(t.count) }

func (t *Table[T]) Each(fn func(EntityID, *T)) {
	for i := 0; i < t.count; i++ {
		fn(t.ids.At(i), t.rows.Ptr(i))
	}
}
