package ecs

import "errors"

var (
	ErrUnknownKind = errors.New("unknown entity kind")
	ErrNoEntities  = errors.New("no entities of this kind")
	ErrNotLive     = errors.New("entity is not live")

	// ErrInconsistent marks a table/allocator desync. It is only ever
	// raised through panic.
	ErrInconsistent = errors.New("ecs: internal consistency fault")
)
