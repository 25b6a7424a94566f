package scene

import (
	"errors"

	"github.com/dodscene/dodscene/internal/core/ecs"
)

var (
	// ErrNoEntities: delete requested for a kind with no live members.
	ErrNoEntities  = ecs.ErrNoEntities
	ErrUnknownKind = ecs.ErrUnknownKind
	ErrNotLive     = ecs.ErrNotLive

	ErrSharedLightData = errors.New("scene: light data can back only one kind")
)
