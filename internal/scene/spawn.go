package scene

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dodscene/dodscene/internal/core/ecs"
	"github.com/dodscene/dodscene/internal/data"
)

// Spawner samples default component data for new entities.
type Spawner struct {
	table *data.SpawnTable
	rng   *rand.Rand
}

func NewSpawner(table *data.SpawnTable, rng *rand.Rand) *Spawner {
	if table == nil {
		table = data.DefaultSpawnTable()
	}
	return &Spawner{table: table, rng: rng}
}

func (sp *Spawner) sample(r data.Range) float32 {
	if r.Max == r.Min {
		return r.Min
	}
	return r.Min + sp.rng.Float32()*(r.Max-r.Min)
}

func (sp *Spawner) vec3(r data.Range) mgl32.Vec3 {
	return mgl32.Vec3{sp.sample(r), sp.sample(r), sp.sample(r)}
}

// Position samples a spawn position for kind.
func (sp *Spawner) Position(kind ecs.Kind) mgl32.Vec3 {
	if kind == ecs.KindLight {
		return sp.vec3(sp.table.Light.Position)
	}
	return sp.vec3(sp.table.Solid.Position)
}

func (sp *Spawner) Euler() Euler {
	return Euler{
		Angles:   sp.vec3(sp.table.Solid.Angle),
		Velocity: sp.vec3(sp.table.Solid.AngularVelocity),
	}
}

func (sp *Spawner) Light() Light {
	return Light{
		Color:    sp.vec3(sp.table.Light.Color),
		Strength: sp.sample(sp.table.Light.Strength),
	}
}
