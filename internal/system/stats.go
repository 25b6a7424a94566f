package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/dodscene/dodscene/internal/core/system"
	"github.com/dodscene/dodscene/internal/core/event"
	"github.com/dodscene/dodscene/internal/scene"
)

// StatsSystem logs table occupancy every interval frames, along with the
// creates and deletes seen on the bus since the last report.
// Phase 3 (Output).
type StatsSystem struct {
	scene    *scene.Scene
	interval int
	frames   int
	created  int
	deleted  int
	log      *zap.Logger
}

func NewStatsSystem(sc *scene.Scene, bus *event.Bus, interval int, log *zap.Logger) *StatsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &StatsSystem{scene: sc, interval: interval, log: log}
	if bus != nil {
		event.Subscribe(bus, func(event.EntityCreated) { s.created++ })
		event.Subscribe(bus, func(event.EntityDeleted) { s.deleted++ })
	}
	return s
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *StatsSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.frames++
	if s.frames%s.interval != 0 {
		return
	}
	cam := s.scene.Camera()
	s.log.Info("scene stats",
		zap.Int("frame", s.frames),
		zap.Object("tables", s.scene.Stats()),
		zap.Int("created", s.created),
		zap.Int("deleted", s.deleted),
		zap.Float32s("camera", cam.Position[:]))
	s.created, s.deleted = 0, 0
}
