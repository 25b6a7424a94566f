package scene

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dodscene/dodscene/internal/core/ecs"
	"github.com/dodscene/dodscene/internal/core/event"
	"github.com/dodscene/dodscene/internal/data"
)

func fixed(v float32) data.Range { return data.Range{Min: v, Max: v} }

// fixedSpawns makes every sampled value deterministic.
func fixedSpawns() *data.SpawnTable {
	return &data.SpawnTable{
		Solid: data.SolidSpawn{
			Position:        fixed(1),
			Angle:           fixed(0),
			AngularVelocity: fixed(0),
		},
		Light: data.LightSpawn{
			Position: fixed(4),
			Color:    fixed(0.75),
			Strength: fixed(3),
		},
	}
}

func newTestScene(t *testing.T, opts ...Option) *Scene {
	t.Helper()
	base := []Option{
		WithSpawnTable(fixedSpawns()),
		WithRand(rand.New(rand.NewPCG(42, 7))),
	}
	s, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Scene, kind ecs.Kind) ecs.EntityID {
	t.Helper()
	id, err := s.Create(kind)
	if err != nil {
		t.Fatalf("create %s: %v", kind, err)
	}
	return id
}

func TestEndToEndScenario(t *testing.T) {
	s := newTestScene(t)
	solid := mustCreate(t, s, ecs.KindSolid)
	light := mustCreate(t, s, ecs.KindLight)
	if solid != 0 || light != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", solid, light)
	}

	s.Update(1.0)
	f := s.Frame()
	if n := len(f.Transforms(ecs.KindSolid)); n != 1 {
		t.Fatalf("expected 1 solid transform, got %d", n)
	}
	if n := len(f.Transforms(ecs.KindLight)); n != 1 {
		t.Fatalf("expected 1 light transform, got %d", n)
	}
	ld := f.LightData()
	if f.LightCount() != 1 || len(ld) != LightStride {
		t.Fatalf("expected one light record, got count=%d len=%d", f.LightCount(), len(ld))
	}
	want := [LightStride]float32{4, 4, 4, 0, 0.75, 0.75, 0.75, 3}
	for i, v := range want {
		if ld[i] != v {
			t.Fatalf("light data[%d] = %v, want %v (%v)", i, ld[i], v, ld)
		}
	}

	if _, err := s.DeleteSolid(); err != nil {
		t.Fatalf("delete solid: %v", err)
	}
	if s.positions.Len() != 1 || s.eulers.Len() != 0 {
		t.Fatalf("solid rows not removed: positions=%d eulers=%d", s.positions.Len(), s.eulers.Len())
	}
	if n := len(s.Frame().Transforms(ecs.KindSolid)); n != 0 {
		t.Fatalf("solid transform count not dropped: %d", n)
	}
	if n := len(s.Frame().Transforms(ecs.KindLight)); n != 1 {
		t.Fatalf("light transform count disturbed: %d", n)
	}
	free := s.world.Allocator().Free()
	if len(free) != 1 || free[0] != 0 {
		t.Fatalf("expected id 0 on the free list, got %v", free)
	}

	if again := mustCreate(t, s, ecs.KindSolid); again != 0 {
		t.Fatalf("expected reused id 0, got %d", again)
	}
}

func TestSolidTransformIsTranslation(t *testing.T) {
	s := newTestScene(t)
	mustCreate(t, s, ecs.KindSolid)
	*s.positions.Row(0) = mgl32.Vec3{1, 2, 3}

	s.Update(1)

	want := mgl32.Translate3D(1, 2, 3)
	got := s.Frame().Transforms(ecs.KindSolid)[0]
	if got != want {
		t.Fatalf("transform\n%v\nwant\n%v", got, want)
	}
}

func TestEulerAngleWraps(t *testing.T) {
	spawns := fixedSpawns()
	spawns.Solid.Angle = fixed(350)
	spawns.Solid.AngularVelocity = fixed(1)
	s := newTestScene(t, WithSpawnTable(spawns))
	mustCreate(t, s, ecs.KindSolid)

	s.Update(20)

	got := s.eulers.Row(0).Angles
	if got != (mgl32.Vec3{10, 10, 10}) {
		t.Fatalf("expected wrapped angles 10, got %v", got)
	}
}

func TestEulerNegativeVelocityWraps(t *testing.T) {
	spawns := fixedSpawns()
	spawns.Solid.Angle = fixed(5)
	spawns.Solid.AngularVelocity = fixed(-10)
	s := newTestScene(t, WithSpawnTable(spawns))
	mustCreate(t, s, ecs.KindSolid)

	s.Update(1)

	if got := s.eulers.Row(0).Angles[0]; got != 355 {
		t.Fatalf("expected 355, got %v", got)
	}
}

func TestRotationIgnoresXAngle(t *testing.T) {
	s := newTestScene(t)
	mustCreate(t, s, ecs.KindSolid)
	s.eulers.Row(0).Angles = mgl32.Vec3{45, 0, 0}

	s.Update(1)

	m := s.Frame().Transforms(ecs.KindSolid)[0]
	if m.Mat3() != mgl32.Ident3() {
		t.Fatalf("x angle leaked into the rotation: %v", m.Mat3())
	}
}

func TestLIFOIdReuse(t *testing.T) {
	s := newTestScene(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, s, ecs.KindSolid)
	}
	if err := s.DeleteID(0); err != nil {
		t.Fatalf("delete 0: %v", err)
	}
	if err := s.DeleteID(2); err != nil {
		t.Fatalf("delete 2: %v", err)
	}
	if got := mustCreate(t, s, ecs.KindLight); got != 2 {
		t.Fatalf("expected id 2 first, got %d", got)
	}
	if got := mustCreate(t, s, ecs.KindSolid); got != 0 {
		t.Fatalf("expected id 0 second, got %d", got)
	}
	if got := mustCreate(t, s, ecs.KindSolid); got != 3 {
		t.Fatalf("expected fresh id 3, got %d", got)
	}
}

func TestSwapRemoveMovesLastRow(t *testing.T) {
	s := newTestScene(t)
	for i := 0; i < 4; i++ {
		mustCreate(t, s, ecs.KindSolid)
		*s.positions.Row(i) = mgl32.Vec3{float32(i), 0, 0}
		s.eulers.Row(i).Velocity = mgl32.Vec3{float32(i), 0, 0}
	}

	if err := s.DeleteID(1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if s.positions.Len() != 3 || s.eulers.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d/%d", s.positions.Len(), s.eulers.Len())
	}
	if s.positions.ID(1) != 3 || *s.positions.Row(1) != (mgl32.Vec3{3, 0, 0}) {
		t.Fatalf("last position row not moved into row 1")
	}
	if s.eulers.ID(1) != 3 || s.eulers.Row(1).Velocity[0] != 3 {
		t.Fatalf("last euler row not moved into row 1")
	}
	if *s.positions.Row(0) != (mgl32.Vec3{0, 0, 0}) || *s.positions.Row(2) != (mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("other rows disturbed")
	}
	if s.world.Slot(3) != 1 {
		t.Fatalf("moved entity should own write slot 1, has %d", s.world.Slot(3))
	}
}

func TestDeleteEmptyKind(t *testing.T) {
	s := newTestScene(t)
	mustCreate(t, s, ecs.KindSolid)
	before := s.Stats()

	if _, err := s.DeleteLight(); !errors.Is(err, ErrNoEntities) {
		t.Fatalf("expected ErrNoEntities, got %v", err)
	}
	if s.Stats() != before {
		t.Fatalf("failed delete changed state: %+v vs %+v", s.Stats(), before)
	}
}

func TestDeleteIDNotLive(t *testing.T) {
	s := newTestScene(t)
	if err := s.DeleteID(9); !errors.Is(err, ErrNotLive) {
		t.Fatalf("expected ErrNotLive, got %v", err)
	}
	id := mustCreate(t, s, ecs.KindLight)
	if err := s.DeleteID(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteID(id); !errors.Is(err, ErrNotLive) {
		t.Fatalf("expected ErrNotLive on second delete, got %v", err)
	}
	if s.Frame().LightCount() != 0 {
		t.Fatalf("light data not shrunk")
	}
}

func TestCreateUnknownKind(t *testing.T) {
	s := newTestScene(t)
	if _, err := s.Create(ecs.KindCount); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRejectsSharedLightData(t *testing.T) {
	caps := &ecs.CapabilityTable{
		ecs.KindSolid: ecs.HasTransform | ecs.HasLight,
		ecs.KindLight: ecs.HasTransform | ecs.HasLight,
	}
	if _, err := New(WithCapabilities(caps)); !errors.Is(err, ErrSharedLightData) {
		t.Fatalf("expected ErrSharedLightData, got %v", err)
	}
}

func TestEventsEmitted(t *testing.T) {
	bus := event.NewBus()
	var created []event.EntityCreated
	var deleted []event.EntityDeleted
	event.Subscribe(bus, func(ev event.EntityCreated) { created = append(created, ev) })
	event.Subscribe(bus, func(ev event.EntityDeleted) { deleted = append(deleted, ev) })

	s := newTestScene(t, WithBus(bus))
	a := mustCreate(t, s, ecs.KindSolid)
	b := mustCreate(t, s, ecs.KindSolid)
	if err := s.DeleteID(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	bus.Flush()

	if len(created) != 2 || created[1].ID != b || created[1].Slot != 1 {
		t.Fatalf("unexpected created events %+v", created)
	}
	if len(deleted) != 1 || deleted[0].ID != a || deleted[0].Moved != b || deleted[0].Slot != 0 {
		t.Fatalf("unexpected deleted events %+v", deleted)
	}
}

type sizedTable interface {
	Len() int
	Size() int
}

// checkInvariants verifies table density, id uniqueness and that every
// output slot holds the data of the entity that owns it.
func checkInvariants(t *testing.T, s *Scene) {
	t.Helper()
	solids := s.Count(ecs.KindSolid)
	lights := s.Count(ecs.KindLight)

	if s.positions.Len() != solids+lights {
		t.Fatalf("positions %d != live %d", s.positions.Len(), solids+lights)
	}
	if s.eulers.Len() != solids || s.lights.Len() != lights {
		t.Fatalf("eulers %d/%d lights %d/%d", s.eulers.Len(), solids, s.lights.Len(), lights)
	}
	for _, tbl := range []sizedTable{s.positions, s.eulers, s.lights} {
		if tbl.Len() > tbl.Size() {
			t.Fatalf("length %d exceeds capacity %d", tbl.Len(), tbl.Size())
		}
	}

	seen := make(map[ecs.EntityID]bool)
	for _, id := range s.positions.IDs() {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
		if !s.Alive(id) {
			t.Fatalf("position row for dead id %d", id)
		}
	}
	for _, id := range s.world.Allocator().Free() {
		if seen[id] {
			t.Fatalf("free id %d is live", id)
		}
	}

	for kind := ecs.Kind(0); kind < ecs.KindCount; kind++ {
		if n := len(s.Frame().Transforms(kind)); n != s.Count(kind) {
			t.Fatalf("%s transforms %d != live %d", kind, n, s.Count(kind))
		}
		for slot, id := range s.world.Members(kind) {
			if s.world.Slot(id) != slot {
				t.Fatalf("%s id %d slot %d, want %d", kind, id, s.world.Slot(id), slot)
			}
		}
	}
	if s.Frame().LightCount() != lights {
		t.Fatalf("light data %d != lights %d", s.Frame().LightCount(), lights)
	}
}

func checkOutputs(t *testing.T, s *Scene) {
	t.Helper()
	f := s.Frame()
	for i, id := range s.positions.IDs() {
		kind := s.world.Kind(id)
		m := f.Transforms(kind)[s.world.Slot(id)]
		p := s.positions.Rows()[i]
		if m.Col(3).Vec3() != p {
			t.Fatalf("id %d translation %v, want %v", id, m.Col(3).Vec3(), p)
		}
	}
	for i, id := range s.eulers.IDs() {
		var want mgl32.Mat4
		writeRotation(&want, s.eulers.Rows()[i].Angles)
		got := f.Transforms(ecs.KindSolid)[s.world.Slot(id)]
		for _, k := range []int{0, 1, 2, 4, 5, 8, 9, 10} {
			if got[k] != want[k] {
				t.Fatalf("solid %d rotation element %d is %v, want %v", id, k, got[k], want[k])
			}
		}
	}
	ld := f.LightData()
	for i, id := range s.lights.IDs() {
		row := ld[s.world.Slot(id)*LightStride:]
		l := s.lights.Rows()[i]
		if row[4] != l.Color[0] || row[7] != l.Strength {
			t.Fatalf("light %d record %v does not match %+v", id, row[:LightStride], l)
		}
		if p := s.positions.Rows()[s.positions.Find(id)]; row[0] != p[0] || row[2] != p[2] {
			t.Fatalf("light %d position %v, want %v", id, row[:3], p)
		}
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	s, err := New(WithRand(rng))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for step := 0; step < 2000; step++ {
		kind := ecs.Kind(rng.IntN(int(ecs.KindCount)))
		if rng.IntN(3) == 0 && s.Count(kind) > 0 {
			if _, err := s.Delete(kind); err != nil {
				t.Fatalf("step %d delete: %v", step, err)
			}
		} else if _, err := s.Create(kind); err != nil {
			t.Fatalf("step %d create: %v", step, err)
		}
		if step%50 == 0 {
			s.Update(1)
			checkOutputs(t, s)
		}
		checkInvariants(t, s)
	}
	s.Update(0.5)
	checkOutputs(t, s)
}

func TestIssuedBoundedByPeakPopulation(t *testing.T) {
	s := newTestScene(t)
	for round := 0; round < 10; round++ {
		for i := 0; i < 5; i++ {
			mustCreate(t, s, ecs.KindLight)
		}
		for i := 0; i < 5; i++ {
			if _, err := s.DeleteLight(); err != nil {
				t.Fatalf("delete: %v", err)
			}
		}
	}
	if st := s.Stats(); st.Issued != 5 || st.Free != 5 {
		t.Fatalf("expected 5 issued and 5 free, got %+v", st)
	}
}

func TestRotationStaysWithItsSolidAfterDeletes(t *testing.T) {
	s, err := New(WithRand(rand.New(rand.NewPCG(11, 13))))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for i := 0; i < 4; i++ {
		mustCreate(t, s, ecs.KindSolid)
		mustCreate(t, s, ecs.KindLight)
	}
	s.Update(1)
	checkOutputs(t, s)

	// id 0 is the first solid, id 5 the third light: both leave a hole
	// that the last member of the kind moves into.
	if err := s.DeleteID(0); err != nil {
		t.Fatalf("delete 0: %v", err)
	}
	if err := s.DeleteID(5); err != nil {
		t.Fatalf("delete 5: %v", err)
	}
	s.Update(1)
	checkOutputs(t, s)
	checkInvariants(t, s)

	if s.world.Slot(6) != 0 {
		t.Fatalf("last solid should fill slot 0, got %d", s.world.Slot(6))
	}
}
