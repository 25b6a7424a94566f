package event

import "github.com/dodscene/dodscene/internal/core/ecs"

// EntityCreated is emitted after an entity has rows in all its tables.
type EntityCreated struct {
	ID   ecs.EntityID
	Kind ecs.Kind
	Slot int
}

// EntityDeleted is emitted after an entity has been swap-removed and its id
// released. Moved is the entity that took over Slot, or ecs.NoEntity.
type EntityDeleted struct {
	ID    ecs.EntityID
	Kind  ecs.Kind
	Slot  int
	Moved ecs.EntityID
}
