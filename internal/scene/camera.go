package scene

import "github.com/go-gl/mathgl/mgl32"

// MaxPitch keeps the forward vector off the poles.
const MaxPitch = 89

// Camera is the player record: raw simulation state plus the basis and view
// matrix derived from it on every Update.
//
// Euler holds degrees in record order: x roll, y pitch, z yaw. Roll is kept
// but does not feed the basis.
type Camera struct {
	Position mgl32.Vec3
	Euler    mgl32.Vec3

	Forward mgl32.Vec3
	Right   mgl32.Vec3
	Up      mgl32.Vec3

	View mgl32.Mat4
}

func newCamera() Camera {
	c := Camera{
		Position: mgl32.Vec3{-10, 0, 0},
		Forward:  mgl32.Vec3{1, 0, 0},
		Right:    mgl32.Vec3{0, -1, 0},
		Up:       mgl32.Vec3{0, 0, 1},
	}
	c.update()
	return c
}

// Move displaces the camera in its own axes.
func (c *Camera) Move(dForward, dRight, dUp float32) {
	c.Position = c.Position.
		Add(c.Forward.Mul(dForward)).
		Add(c.Right.Mul(dRight)).
		Add(c.Up.Mul(dUp))
}

// Rotate adds to the angles. Roll and yaw wrap; pitch clamps.
func (c *Camera) Rotate(dRoll, dPitch, dYaw float32) {
	c.Euler[0] = wrapDegrees(c.Euler[0] + dRoll)
	c.Euler[1] = mgl32.Clamp(c.Euler[1]+dPitch, -MaxPitch, MaxPitch)
	c.Euler[2] = wrapDegrees(c.Euler[2] + dYaw)
}

// update recomputes the basis from pitch and yaw (z up) and builds the
// view matrix.
func (c *Camera) update() {
	sp, cp := sincos(c.Euler[1])
	sy, cy := sincos(c.Euler[2])

	f := mgl32.Vec3{cy * cp, sy * cp, sp}.Normalize()
	r := mgl32.Vec3{f[1], -f[0], 0}.Normalize()
	u := r.Cross(f).Normalize()
	c.Forward, c.Right, c.Up = f, r, u

	p := c.Position
	c.View = mgl32.Mat4{
		r[0], u[0], -f[0], 0,
		r[1], u[1], -f[1], 0,
		r[2], u[2], -f[2], 0,
		-r.Dot(p), -u.Dot(p), f.Dot(p), 1,
	}
}

// Yaw and Pitch in degrees.
func (c Camera) Yaw() float32   { return c.Euler[2] }
func (c Camera) Pitch() float32 { return c.Euler[1] }

