package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dodscene/dodscene/internal/core/ecs"
)

// Frame is a borrowed view of the renderer-facing buffers. Its slices alias
// scene storage: read them between Update and the next mutating call, and
// never write through them.
type Frame struct {
	s *Scene
}

func (s *Scene) Frame() Frame { return Frame{s: s} }

// Transforms returns the live model matrices of kind in write-slot order.
func (f Frame) Transforms(kind ecs.Kind) []mgl32.Mat4 {
	if !kind.Valid() {
		return nil
	}
	return f.s.transforms[kind].Slice(f.s.transformCount[kind])
}

// LightData returns LightStride floats per live light.
func (f Frame) LightData() []float32 {
	return f.s.lightData.Slice(f.s.lightDataCount)
}

func (f Frame) LightCount() int { return f.s.lightDataCount }

func (f Frame) View() mgl32.Mat4 { return f.s.camera.View }

func (f Frame) CameraPosition() mgl32.Vec3 { return f.s.camera.Position }
