package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dodscene/dodscene/internal/core/buffer"
	"github.com/dodscene/dodscene/internal/core/ecs"
	"github.com/dodscene/dodscene/internal/core/event"
	"github.com/dodscene/dodscene/internal/data"
)

// LightStride is the number of floats per light record:
// position xyz, padding, color rgb, strength.
const LightStride = 8

// Euler is the orientation row of a rotating solid, in degrees.
type Euler struct {
	Angles   mgl32.Vec3
	Velocity mgl32.Vec3 // degrees per frame
}

// Light is the color row of a point light.
type Light struct {
	Color    mgl32.Vec3
	Strength float32
}

// Scene holds every live object in dense tables and turns them into
// renderer-facing buffers once per frame. It is single-writer: the caller
// serializes all calls.
type Scene struct {
	world *ecs.World
	caps  [ecs.KindCount]ecs.Capability

	positions *ecs.Table[mgl32.Vec3]
	eulers    *ecs.Table[Euler]
	lights    *ecs.Table[Light]

	// Output buffers are indexed by write slot, not by id.
	transforms     [ecs.KindCount]*buffer.Array[mgl32.Mat4]
	transformCount [ecs.KindCount]int
	lightData      *buffer.Array[float32]
	lightDataCount int

	camera Camera

	spawner *Spawner
	rng     *rand.Rand
	bus     *event.Bus
	log     *zap.Logger
}

type options struct {
	caps  ecs.Capabilities
	spawn *data.SpawnTable
	rng   *rand.Rand
	bus   *event.Bus
	log   *zap.Logger
}

type Option func(*options)

// WithCapabilities replaces the kind → tables lookup.
func WithCapabilities(caps ecs.Capabilities) Option {
	return func(o *options) { o.caps = caps }
}

// WithSpawnTable sets the ranges default component data is sampled from.
func WithSpawnTable(t *data.SpawnTable) Option {
	return func(o *options) { o.spawn = t }
}

// WithRand sets the random source for spawning and random deletes.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithBus makes the scene emit EntityCreated/EntityDeleted.
func WithBus(b *event.Bus) Option {
	return func(o *options) { o.bus = b }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func New(opts ...Option) (*Scene, error) {
	o := options{caps: ecs.DefaultCapabilities}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	s := &Scene{
		world:     ecs.NewWorld(o.caps),
		positions: ecs.NewTable[mgl32.Vec3](),
		eulers:    ecs.NewTable[Euler](),
		lights:    ecs.NewTable[Light](),
		lightData: buffer.NewArray[float32](LightStride),
		camera:    newCamera(),
		spawner:   NewSpawner(o.spawn, o.rng),
		rng:       o.rng,
		bus:       o.bus,
		log:       o.log,
	}

	lightKinds := 0
	for k := ecs.Kind(0); k < ecs.KindCount; k++ {
		s.caps[k] = o.caps.Capabilities(k)
		s.transforms[k] = buffer.NewArray[mgl32.Mat4](1)
		if s.caps[k].Has(ecs.HasLight) {
			lightKinds++
		}
	}
	if lightKinds > 1 {
		return nil, ErrSharedLightData
	}

	reg := s.world.Registry()
	reg.Register(ecs.HasPosition, s.positions)
	reg.Register(ecs.HasEuler, s.eulers)
	reg.Register(ecs.HasLight, s.lights)
	return s, nil
}

// Create adds an entity of kind with freshly sampled component data and
// returns its id. Reused ids come off the free list most-recent first.
func (s *Scene) Create(kind ecs.Kind) (ecs.EntityID, error) {
	id, slot, err := s.world.Spawn(kind)
	if err != nil {
		return ecs.NoEntity, fmt.Errorf("create: %w", err)
	}
	caps := s.caps[kind]

	if caps.Has(ecs.HasPosition) {
		s.positions.Append(id, s.spawner.Position(kind))
	}
	if caps.Has(ecs.HasEuler) {
		s.eulers.Append(id, s.spawner.Euler())
	}
	if caps.Has(ecs.HasLight) {
		s.lights.Append(id, s.spawner.Light())
	}

	if caps.Has(ecs.HasTransform) {
		s.transforms[kind].Put(s.transformCount[kind], mgl32.Ident4())
		s.transformCount[kind]++
	}
	if caps.Has(ecs.HasLight) {
		var zero [LightStride]float32
		s.lightData.Set(s.lightDataCount, zero[:]...)
		s.lightDataCount++
	}

	s.log.Debug("entity created",
		zap.Uint32("id", uint32(id)),
		zap.Stringer("kind", kind),
		zap.Int("slot", slot))
	event.Emit(s.bus, event.EntityCreated{ID: id, Kind: kind, Slot: slot})
	return id, nil
}

func (s *Scene) CreateSolid() (ecs.EntityID, error) { return s.Create(ecs.KindSolid) }
func (s *Scene) CreateLight() (ecs.EntityID, error) { return s.Create(ecs.KindLight) }

// Delete removes a uniformly random live entity of kind. With no live
// entity of that kind it returns ErrNoEntities and changes nothing.
func (s *Scene) Delete(kind ecs.Kind) (ecs.EntityID, error) {
	id, err := s.world.Pick(kind, s.rng)
	if err != nil {
		return ecs.NoEntity, fmt.Errorf("delete: %w", err)
	}
	if err := s.remove(id); err != nil {
		return ecs.NoEntity, err
	}
	return id, nil
}

func (s *Scene) DeleteSolid() (ecs.EntityID, error) { return s.Delete(ecs.KindSolid) }
func (s *Scene) DeleteLight() (ecs.EntityID, error) { return s.Delete(ecs.KindLight) }

// DeleteID removes a specific live entity.
func (s *Scene) DeleteID(id ecs.EntityID) error {
	return s.remove(id)
}

func (s *Scene) remove(id ecs.EntityID) error {
	kind, slot, moved, err := s.world.Despawn(id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	caps := s.caps[kind]

	// Stale output rows are rewritten by the next Update.
	if caps.Has(ecs.HasTransform) {
		s.transformCount[kind]--
	}
	if caps.Has(ecs.HasLight) {
		s.lightDataCount--
	}

	s.log.Debug("entity deleted",
		zap.Uint32("id", uint32(id)),
		zap.Stringer("kind", kind),
		zap.Int("slot", slot))
	event.Emit(s.bus, event.EntityDeleted{ID: id, Kind: kind, Slot: slot, Moved: moved})
	return nil
}

// Alive reports whether id names a live entity.
func (s *Scene) Alive(id ecs.EntityID) bool { return s.world.Alive(id) }

// Kind returns the kind of a live entity.
func (s *Scene) Kind(id ecs.EntityID) (ecs.Kind, bool) {
	if !s.world.Alive(id) {
		return 0, false
	}
	return s.world.Kind(id), true
}

// Count is the number of live entities of kind.
func (s *Scene) Count(kind ecs.Kind) int {
	if !kind.Valid() {
		return 0
	}
	return s.world.Count(kind)
}

// MoveCamera displaces the camera along its own forward, right and up axes.
// The view matrix follows at the next Update.
func (s *Scene) MoveCamera(dForward, dRight, dUp float32) {
	s.camera.Move(dForward, dRight, dUp)
}

// RotateCamera adds to the camera angles in record order: roll (x),
// pitch (y), yaw (z). The basis follows at the next Update.
func (s *Scene) RotateCamera(dRoll, dPitch, dYaw float32) {
	s.camera.Rotate(dRoll, dPitch, dYaw)
}

// Camera returns a copy of the camera record.
func (s *Scene) Camera() Camera { return s.camera }

// Stats is a snapshot of table occupancy.
type Stats struct {
	Solids       int
	Lights       int
	Issued       uint32
	Free         int
	KindSize     int
	PositionSize int
	EulerSize    int
	LightSize    int
}

func (s *Scene) Stats() Stats {
	ids := s.world.Allocator()
	return Stats{
		Solids:       s.world.Count(ecs.KindSolid),
		Lights:       s.world.Count(ecs.KindLight),
		Issued:       ids.Issued(),
		Free:         ids.FreeCount(),
		KindSize:     s.world.KindSize(),
		PositionSize: s.positions.Size(),
		EulerSize:    s.eulers.Size(),
		LightSize:    s.lights.Size(),
	}
}

func (st Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("solids", st.Solids)
	enc.AddInt("lights", st.Lights)
	enc.AddUint32("issued", st.Issued)
	enc.AddInt("free", st.Free)
	enc.AddInt("kind_size", st.KindSize)
	enc.AddInt("position_size", st.PositionSize)
	enc.AddInt("euler_size", st.EulerSize)
	enc.AddInt("light_size", st.LightSize)
	return nil
}
