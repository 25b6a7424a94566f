package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/dodscene/dodscene/internal/core/system"
	"github.com/dodscene/dodscene/internal/scripting"
)

// ScriptSystem calls the scenario's on_frame hook. Phase 1 (Script).
type ScriptSystem struct {
	lua   *scripting.Engine
	frame uint64
	log   *zap.Logger
}

func NewScriptSystem(lua *scripting.Engine, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptSystem{lua: lua, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseScript }

func (s *ScriptSystem) Update(dt time.Duration) {
	if err := s.lua.OnFrame(s.frame, float64(FrameFactor(dt))); err != nil {
		s.log.Warn("script frame hook failed", zap.Uint64("frame", s.frame), zap.Error(err))
	}
	s.frame++
}
