package scene

import "math"

// hitEpsilon rejects self-intersections right at the ray origin
const hitEpsilon = 0.001

// Shape is a primitive in its node's local space
type Shape interface {
	// Intersect returns the nearest distance along r and the surface normal there.
	Intersect(r Ray) (t float64, normal Vector3, ok bool)
}

// Sphere centered at the local origin
type Sphere struct {
	Radius float64
}

// Intersect implements Shape
func (s Sphere) Intersect(ray Ray) (float64, Vector3, bool) {
	oc := ray.Origin

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, Vector3{}, false
	}

	sq := math.Sqrt(discriminant)
	t := (-b - sq) / (2.0 * a)
	if t <= hitEpsilon {
		// origin inside the sphere, take the far root
		t = (-b + sq) / (2.0 * a)
		if t <= hitEpsilon {
			return 0, Vector3{}, false
		}
	}

	return t, ray.At(t).Normalize(), true
}

// Ellipsoid centered at the local origin with per-axis radii
type Ellipsoid struct {
	Radii Vector3
}

// Intersect implements Shape. The ray is mapped into unit-sphere space.
func (e Ellipsoid) Intersect(ray Ray) (float64, Vector3, bool) {
	inv := Vector3{X: 1 / e.Radii.X, Y: 1 / e.Radii.Y, Z: 1 / e.Radii.Z}

	local := Ray{
		Origin:    ray.Origin.MulVec(inv),
		Direction: ray.Direction.MulVec(inv),
	}

	// Sphere.Intersect does not require a unit direction, so t stays in world units.
	t, _, ok := Sphere{Radius: 1}.Intersect(local)
	if !ok {
		return 0, Vector3{}, false
	}

	p := ray.At(t)
	normal := Vector3{
		X: p.X * inv.X * inv.X,
		Y: p.Y * inv.Y * inv.Y,
		Z: p.Z * inv.Z * inv.Z,
	}.Normalize()

	return t, normal, true
}

// Cylinder standing on the local origin along +Y, capped at both ends
type Cylinder struct {
	Radius float64
	Height float64
}

// Intersect implements Shape
func (c Cylinder) Intersect(ray Ray) (float64, Vector3, bool) {
	best := math.MaxFloat64
	var bestNormal Vector3

	// Side wall: x^2 + z^2 = r^2
	a := ray.Direction.X*ray.Direction.X + ray.Direction.Z*ray.Direction.Z
	b := 2 * (ray.Origin.X*ray.Direction.X + ray.Origin.Z*ray.Direction.Z)
	cc := ray.Origin.X*ray.Origin.X + ray.Origin.Z*ray.Origin.Z - c.Radius*c.Radius

	if a > 1e-12 {
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= hitEpsilon || t >= best {
					continue
				}
				p := ray.At(t)
				if p.Y >= 0 && p.Y <= c.Height {
					best = t
					bestNormal = Vector3{X: p.X, Y: 0, Z: p.Z}.Normalize()
				}
			}
		}
	}

	// Caps
	for _, lid := range [2]struct {
		y      float64
		normal Vector3
	}{{0, V3(0, -1, 0)}, {c.Height, V3(0, 1, 0)}} {
		t := intersectPlane(ray, V3(0, lid.y, 0), lid.normal)
		if t <= hitEpsilon || t >= best {
			continue
		}
		p := ray.At(t)
		if p.X*p.X+p.Z*p.Z <= c.Radius*c.Radius {
			best = t
			bestNormal = lid.normal
		}
	}

	if best == math.MaxFloat64 {
		return 0, Vector3{}, false
	}
	return best, bestNormal, true
}

// Plane is a finite square on local y=0 facing +Y
type Plane struct {
	HalfSize float64
}

// Intersect implements Shape
func (pl Plane) Intersect(ray Ray) (float64, Vector3, bool) {
	t := intersectPlane(ray, Vector3{}, V3(0, 1, 0))
	if t <= hitEpsilon || t == math.MaxFloat64 {
		return 0, Vector3{}, false
	}
	p := ray.At(t)
	if math.Abs(p.X) > pl.HalfSize || math.Abs(p.Z) > pl.HalfSize {
		return 0, Vector3{}, false
	}
	normal := V3(0, 1, 0)
	if ray.Direction.Y > 0 {
		normal = V3(0, -1, 0)
	}
	return t, normal, true
}

// intersectPlane finds the distance to an infinite plane, MaxFloat64 when parallel
func intersectPlane(ray Ray, pointOnPlane Vector3, normal Vector3) float64 {
	denom := ray.Direction.Dot(normal)
	if math.Abs(denom) < 0.0001 {
		return math.MaxFloat64
	}
	return pointOnPlane.Sub(ray.Origin).Dot(normal) / denom
}
