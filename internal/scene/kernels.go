package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dodscene/dodscene/internal/core/ecs"
)

// Update advances the scene by dt (a frame-rate correction factor: 1 means
// one nominal frame) and rewrites every live output slot. Passes run over
// the table lengths as they stand on entry.
func (s *Scene) Update(dt float32) {
	s.updatePositions()
	s.updateEulers(dt)
	s.updateLights()
	s.camera.update()
}

// updatePositions writes translations into the transform buffer and light
// positions into the light data, at each entity's write slot.
func (s *Scene) updatePositions() {
	for i := 0; i < s.positions.Len(); i++ {
		id := s.positions.ID(i)
		kind := s.world.Kind(id)
		slot := s.world.Slot(id)
		caps := s.caps[kind]
		p := s.positions.Row(i)

		if caps.Has(ecs.HasTransform) {
			m := s.transforms[kind].Ptr(slot)
			m[0], m[5], m[10], m[15] = 1, 1, 1, 1
			m[12], m[13], m[14] = p[0], p[1], p[2]
		}
		if caps.Has(ecs.HasLight) {
			row := s.lightData.Row(slot)
			row[0], row[1], row[2] = p[0], p[1], p[2]
		}
	}
}

// updateEulers spins every solid and writes its rotation block.
func (s *Scene) updateEulers(dt float32) {
	for i := 0; i < s.eulers.Len(); i++ {
		e := s.eulers.Row(i)
		for axis := 0; axis < 3; axis++ {
			e.Angles[axis] = wrapDegrees(e.Angles[axis] + dt*e.Velocity[axis])
		}

		id := s.eulers.ID(i)
		kind := s.world.Kind(id)
		if !s.caps[kind].Has(ecs.HasTransform) {
			continue
		}
		writeRotation(s.transforms[kind].Ptr(s.world.Slot(id)), e.Angles)
	}
}

// writeRotation fills the upper 3x3 of m from the y and z angles. The x
// angle is tracked but not applied.
func writeRotation(m *mgl32.Mat4, angles mgl32.Vec3) {
	sy, cy := sincos(angles[1])
	sz, cz := sincos(angles[2])

	m[0] = cy * cz
	m[1] = cy * sz
	m[2] = -sy
	m[4] = -sz
	m[5] = cz
	m[8] = sy * cz
	m[9] = sy * sz
	m[10] = cy
}

// updateLights copies color and strength into the light data.
func (s *Scene) updateLights() {
	s.lights.Each(func(id ecs.EntityID, l *Light) {
		row := s.lightData.Row(s.world.Slot(id))
		row[4], row[5], row[6] = l.Color[0], l.Color[1], l.Color[2]
		row[7] = l.Strength
	})
}

func sincos(deg float32) (float32, float32) {
	sin, cos := math.Sincos(float64(mgl32.DegToRad(deg)))
	return float32(sin), float32(cos)
}

// wrapDegrees maps a into [0, 360).
func wrapDegrees(a float32) float32 {
	w := float32(math.Mod(float64(a), 360))
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		w = 0
	}
	return w
}
