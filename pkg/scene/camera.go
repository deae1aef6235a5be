package scene

import "math"

// maxPitch keeps the camera from flipping over the poles
const maxPitch = math.Pi/2.0 - 0.1

// Camera is a pinhole perspective camera
type Camera struct {
	Position Vector3
	Forward  Vector3
	Up       Vector3
	Right    Vector3
	FOV      float64 // vertical field of view in radians
	Pitch    float64
	Yaw      float64
}

// NewCamera creates a camera at position looking at target. fovDegrees is vertical.
func NewCamera(position, target Vector3, fovDegrees float64) *Camera {
	c := &Camera{
		Position: position,
		FOV:      fovDegrees * math.Pi / 180.0,
	}
	c.LookAt(target)
	return c
}

// LookAt points the camera at target
func (c *Camera) LookAt(target Vector3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.Length() == 0 {
		dir = V3(0, 0, 1)
	}
	c.Pitch = clampPitch(math.Asin(dir.Y))
	c.Yaw = math.Atan2(dir.X, dir.Z)
	c.updateBasis()
}

// Rotate turns the camera by the given angles in radians
func (c *Camera) Rotate(yawDelta, pitchDelta float64) {
	c.Yaw += yawDelta
	c.Pitch = clampPitch(c.Pitch + pitchDelta)
	c.updateBasis()
}

func clampPitch(p float64) float64 {
	if p > maxPitch {
		return maxPitch
	}
	if p < -maxPitch {
		return -maxPitch
	}
	return p
}

func (c *Camera) updateBasis() {
	c.Forward = Vector3{
		X: math.Cos(c.Pitch) * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: math.Cos(c.Pitch) * math.Cos(c.Yaw),
	}.Normalize()

	worldUp := V3(0, 1, 0)
	c.Right = worldUp.Cross(c.Forward).Normalize()
	c.Up = c.Forward.Cross(c.Right).Normalize()
}

// Ray returns the primary ray through the center of pixel (x, y)
func (c *Camera) Ray(x, y, width, height int) Ray {
	ndcX := (2.0*(float64(x)+0.5)/float64(width) - 1.0)
	ndcY := 1.0 - 2.0*(float64(y)+0.5)/float64(height)

	aspectRatio := float64(width) / float64(height)
	half := math.Tan(c.FOV / 2)

	dir := c.Forward.
		Add(c.Right.Mul(ndcX * half * aspectRatio)).
		Add(c.Up.Mul(ndcY * half)).
		Normalize()

	return Ray{Origin: c.Position, Direction: dir}
}
