package system

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	coresys "github.com/dodscene/dodscene/internal/core/system"
	"github.com/dodscene/dodscene/internal/scene"
)

// CommandKind names a scene operation requested from outside the frame loop.
type CommandKind uint8

const (
	CmdCreateSolid CommandKind = iota
	CmdDeleteSolid
	CmdCreateLight
	CmdDeleteLight
	CmdMoveCamera   // Delta: forward, right, up
	CmdRotateCamera // Delta: roll, pitch, yaw
)

func (k CommandKind) String() string {
	switch k {
	case CmdCreateSolid:
		return "create_solid"
	case CmdDeleteSolid:
		return "delete_solid"
	case CmdCreateLight:
		return "create_light"
	case CmdDeleteLight:
		return "delete_light"
	case CmdMoveCamera:
		return "move_camera"
	case CmdRotateCamera:
		return "rotate_camera"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind  CommandKind
	Delta mgl32.Vec3
}

// InputSystem drains commands queued by other goroutines (the HUD's key
// reader) and applies them to the scene on the frame goroutine.
// Phase 0 (Input).
type InputSystem struct {
	queue       chan Command
	scene       *scene.Scene
	maxPerFrame int
	log         *zap.Logger
}

func NewInputSystem(sc *scene.Scene, queueSize, maxPerFrame int, log *zap.Logger) *InputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &InputSystem{
		queue:       make(chan Command, queueSize),
		scene:       sc,
		maxPerFrame: maxPerFrame,
		log:         log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Push queues cmd without blocking. It reports false when the queue is full.
func (s *InputSystem) Push(cmd Command) bool {
	select {
	case s.queue <- cmd:
		return true
	default:
		return false
	}
}

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerFrame; i++ {
		select {
		case cmd := <-s.queue:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *InputSystem) apply(cmd Command) {
	var err error
	switch cmd.Kind {
	case CmdCreateSolid:
		_, err = s.scene.CreateSolid()
	case CmdDeleteSolid:
		_, err = s.scene.DeleteSolid()
	case CmdCreateLight:
		_, err = s.scene.CreateLight()
	case CmdDeleteLight:
		_, err = s.scene.DeleteLight()
	case CmdMoveCamera:
		s.scene.MoveCamera(cmd.Delta[0], cmd.Delta[1], cmd.Delta[2])
	case CmdRotateCamera:
		s.scene.RotateCamera(cmd.Delta[0], cmd.Delta[1], cmd.Delta[2])
	default:
		s.log.Warn("unknown command", zap.Uint8("kind", uint8(cmd.Kind)))
		return
	}
	if err == nil {
		return
	}
	if errors.Is(err, scene.ErrNoEntities) {
		s.log.Debug("command ignored", zap.Stringer("cmd", cmd.Kind), zap.Error(err))
		return
	}
	s.log.Error("command failed", zap.Stringer("cmd", cmd.Kind), zap.Error(err))
}
