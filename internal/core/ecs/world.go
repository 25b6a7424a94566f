package ecs

import (
	"fmt"
	"math/rand/v2"

	"github.com/dodscene/dodscene/internal/core/buffer"
)

// member is the per-kind live index row. It carries no data: the table's
// row index is the entity's write slot within its kind.
type member struct{}

// World owns id allocation, the instance-kind table, the per-kind live
// index and the registry of component tables.
//
// The kind table is indexed directly by id and never compacted: entries for
// released ids go stale until the id is reused. Liveness comes from the
// member index, not from the kind table.
type World struct {
	ids      *Allocator
	kinds    *buffer.Array[Kind]
	slots    *buffer.Array[int32]
	members  [KindCount]*Table[member]
	registry *Registry
	caps     Capabilities
}

func NewWorld(caps Capabilities) *World {
	if caps == nil {
		caps = DefaultCapabilities
	}
	w := &World{
		ids:      NewAllocator(),
		kinds:    buffer.NewArray[Kind](1),
		slots:    buffer.NewArray[int32](1),
		registry: NewRegistry(),
		caps:     caps,
	}
	for k := range w.members {
		w.members[k] = NewTable[member]()
	}
	return w
}

func (w *World) Allocator() *Allocator { return w.ids }
func (w *World) Registry() *Registry   { return w.registry }

// Capabilities returns the flags for kind.
func (w *World) Capabilities(kind Kind) Capability {
	return w.caps.Capabilities(kind)
}

// Spawn issues an id for a new entity of kind and assigns it the next write
// slot of that kind. Component rows are the caller's job.
func (w *World) Spawn(kind Kind) (EntityID, int, error) {
	if !kind.Valid() {
		return NoEntity, -1, fmt.Errorf("spawn %s: %w", kind, ErrUnknownKind)
	}
	id := w.ids.Acquire()
	w.kinds.Put(int(id), kind)
	slot := w.members[kind].Append(id, member{})
	w.slots.Put(int(id), int32(slot))
	return id, slot, nil
}

// Despawn removes id from every table its kind participates in, compacts
// the kind's write slots and releases the id. The entity that moved into
// the freed slot is returned (NoEntity if none moved).
func (w *World) Despawn(id EntityID) (kind Kind, slot int, moved EntityID, err error) {
	if !w.Alive(id) {
		return 0, -1, NoEntity, fmt.Errorf("despawn %d: %w", id, ErrNotLive)
	}
	kind = w.kinds.At(int(id))
	w.ids.Release(id)
	w.registry.RemoveAll(id, w.caps.Capabilities(kind))
	slot, moved = w.members[kind].Remove(id)
	if moved != NoEntity {
		w.slots.Put(int(moved), int32(slot))
	}
	return kind, slot, moved, nil
}

// Alive reports whether id currently names a live entity.
func (w *World) Alive(id EntityID) bool {
	if uint32(id) >= w.ids.Issued() {
		return false
	}
	kind := w.kinds.At(int(id))
	if !kind.Valid() {
		return false
	}
	slot := int(w.slots.At(int(id)))
	m := w.members[kind]
	return slot < m.Len() && m.ID(slot) == id
}

// Pick returns a uniformly random live entity of kind.
func (w *World) Pick(kind Kind, rng *rand.Rand) (EntityID, error) {
	if !kind.Valid() {
		return NoEntity, fmt.Errorf("pick %s: %w", kind, ErrUnknownKind)
	}
	m := w.members[kind]
	if m.Len() == 0 {
		return NoEntity, fmt.Errorf("pick %s: %w", kind, ErrNoEntities)
	}
	return m.ID(rng.IntN(m.Len())), nil
}

// Kind returns the recorded kind of id. Stale for released ids.
func (w *World) Kind(id EntityID) Kind { return w.kinds.At(int(id)) }

// Slot returns the write slot of a live id within its kind.
func (w *World) Slot(id EntityID) int { return int(w.slots.At(int(id))) }

// Count is the number of live entities of kind.
func (w *World) Count(kind Kind) int { return w.members[kind].Len() }

// Members lists the live ids of kind in write-slot order. Borrowed view.
func (w *World) Members(kind Kind) []EntityID { return w.members[kind].IDs() }

// KindSize is the backing capacity of the instance-kind table.
func (w *World) KindSize() int { return w.kinds.Size() }
