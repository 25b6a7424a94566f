package system

import (
	"time"

	coresys "github.com/dodscene/dodscene/internal/core/system"
	"github.com/dodscene/dodscene/internal/core/event"
	"github.com/dodscene/dodscene/internal/scene"
)

// NominalFrame is the frame length a scene dt of 1 stands for.
const NominalFrame = time.Second / 60

// SceneSystem delivers last frame's events, then runs the scene update
// kernels. Phase 2 (Update).
type SceneSystem struct {
	scene *scene.Scene
	bus   *event.Bus
}

func NewSceneSystem(sc *scene.Scene, bus *event.Bus) *SceneSystem {
	return &SceneSystem{scene: sc, bus: bus}
}

func (s *SceneSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SceneSystem) Update(dt time.Duration) {
	if s.bus != nil {
		s.bus.Flush()
	}
	s.scene.Update(FrameFactor(dt))
}

// FrameFactor converts a wall-clock step into the scene's frame-rate
// correction factor.
func FrameFactor(dt time.Duration) float32 {
	return float32(float64(dt) / float64(NominalFrame))
}
