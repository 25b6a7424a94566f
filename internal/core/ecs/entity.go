package ecs

import (
	"math"

	"github.com/dodscene/dodscene/internal/core/buffer"
)

// EntityID is the join key across every table. Ids are plain integers:
// deleted ids go back to a free list and are handed out again.
type EntityID uint32

// NoEntity is returned where no id applies.
const NoEntity EntityID = math.MaxUint32

// Allocator issues entity ids and recycles released ones LIFO.
type Allocator struct {
	free      *buffer.Array[EntityID]
	freeCount int
	issued    uint32
}

func NewAllocator() *Allocator {
	return &Allocator{free: buffer.NewArray[EntityID](1)}
}

// Next pops the most recently released id. ok is false when the free list
// is empty and the caller has to Mint.
func (a *Allocator) Next() (id EntityID, ok bool) {
	if a.freeCount == 0 {
		return NoEntity, false
	}
	a.freeCount--
	return a.free.At(a.freeCount), true
}

// Mint returns a brand-new id.
func (a *Allocator) Mint() EntityID {
	id := EntityID(a.issued)
	a.issued++
	return id
}

// Acquire reuses a released id if there is one, else mints.
func (a *Allocator) Acquire() EntityID {
	if id, ok := a.Next(); ok {
		return id
	}
	return a.Mint()
}

// Release pushes id on the free list. Releasing the same id twice is not
// detected.
func (a *Allocator) Release(id EntityID) {
	a.free.Put(a.freeCount, id)
	a.freeCount++
}

// Issued is the number of distinct ids ever minted.
func (a *Allocator) Issued() uint32 { return a.issued }

func (a *Allocator) FreeCount() int { return a.freeCount }

// Free returns the free list, bottom to top. Borrowed view.
func (a *Allocator) Free() []EntityID {
	return a.free.Slice(a.freeCount)
}
