package noise

import (
	"math"
	"math/rand"
)

// NoiseGenerator produces gradient noise and seeded random values
type NoiseGenerator struct {
	rng *rand.Rand
}

// NewNoiseGenerator creates a new noise generator with the given seed
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	return &NoiseGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// RandomFloat returns a random float in range [0.0, 1.0)
func (ng *NoiseGenerator) RandomFloat() float64 {
	return ng.rng.Float64()
}

// RandomRange returns a random float in range [min, max)
func (ng *NoiseGenerator) RandomRange(min, max float64) float64 {
	return min + ng.rng.Float64()*(max-min)
}

// Perlin2D generates 2D Perlin noise in roughly [-1, 1]
func (ng *NoiseGenerator) Perlin2D(x, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	x1 := x0 + 1.0
	y0 := math.Floor(y)
	y1 := y0 + 1.0

	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)

	g00 := gradient2D(hash(int(x0), int(y0), 0, int(seed)))
	g10 := gradient2D(hash(int(x1), int(y0), 0, int(seed)))
	g01 := gradient2D(hash(int(x0), int(y1), 0, int(seed)))
	g11 := gradient2D(hash(int(x1), int(y1), 0, int(seed)))

	dp00 := dot2D(g00[0], g00[1], x-x0, y-y0)
	dp10 := dot2D(g10[0], g10[1], x-x1, y-y0)
	dp01 := dot2D(g01[0], g01[1], x-x0, y-y1)
	dp11 := dot2D(g11[0], g11[1], x-x1, y-y1)

	v0 := lerp(dp00, dp10, sx)
	v1 := lerp(dp01, dp11, sx)
	return lerp(v0, v1, sy)
}

// Perlin3D generates 3D Perlin noise. The third axis is usually time.
func (ng *NoiseGenerator) Perlin3D(x, y, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	x1 := x0 + 1.0
	y0 := math.Floor(y)
	y1 := y0 + 1.0
	z0 := math.Floor(z)
	z1 := z0 + 1.0

	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)
	sz := smoothstep(z - z0)

	s := int(seed)
	dp000 := dot3D(gradient3D(hash3(int(x0), int(y0), int(z0), s)), x-x0, y-y0, z-z0)
	dp100 := dot3D(gradient3D(hash3(int(x1), int(y0), int(z0), s)), x-x1, y-y0, z-z0)
	dp010 := dot3D(gradient3D(hash3(int(x0), int(y1), int(z0), s)), x-x0, y-y1, z-z0)
	dp110 := dot3D(gradient3D(hash3(int(x1), int(y1), int(z0), s)), x-x1, y-y1, z-z0)
	dp001 := dot3D(gradient3D(hash3(int(x0), int(y0), int(z1), s)), x-x0, y-y0, z-z1)
	dp101 := dot3D(gradient3D(hash3(int(x1), int(y0), int(z1), s)), x-x1, y-y0, z-z1)
	dp011 := dot3D(gradient3D(hash3(int(x0), int(y1), int(z1), s)), x-x0, y-y1, z-z1)
	dp111 := dot3D(gradient3D(hash3(int(x1), int(y1), int(z1), s)), x-x1, y-y1, z-z1)

	v00 := lerp(dp000, dp100, sx)
	v10 := lerp(dp010, dp110, sx)
	v01 := lerp(dp001, dp101, sx)
	v11 := lerp(dp011, dp111, sx)

	v0 := lerp(v00, v10, sy)
	v1 := lerp(v01, v11, sy)
	return lerp(v0, v1, sz)
}

// FBM3D sums octaves of Perlin3D. The result is normalized by the total amplitude.
func (ng *NoiseGenerator) FBM3D(x, y, z float64, octaves int, lacunarity, gain float64, seed int64) float64 {
	if octaves < 1 {
		octaves = 1
	}

	result := 0.0
	amplitude := 1.0
	frequency := 1.0
	total := 0.0

	for i := 0; i < octaves; i++ {
		result += ng.Perlin3D(x*frequency, y*frequency, z*frequency, seed+int64(i)) * amplitude
		total += amplitude
		amplitude *= gain
		frequency *= lacunarity
	}

	return result / total
}

// hash combines the coordinates and seed to create a unique hash
func hash(x, y, z, seed int) int {
	h := seed + x*374761393 + y*668265263 + z*374761393
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// hash3 is hash with a distinct multiplier for z so that lattice
// points differing only in z do not collide.
func hash3(x, y, z, seed int) int {
	return hash(x, y, 0, seed+z*1442695041)
}

func gradient2D(hash int) [2]float64 {
	switch hash & 7 {
	case 0:
		return [2]float64{1, 0}
	case 1:
		return [2]float64{-1, 0}
	case 2:
		return [2]float64{0, 1}
	case 3:
		return [2]float64{0, -1}
	case 4:
		return [2]float64{1, 1}
	case 5:
		return [2]float64{-1, 1}
	case 6:
		return [2]float64{1, -1}
	default:
		return [2]float64{-1, -1}
	}
}

// gradient3D picks one of the 12 cube-edge directions
func gradient3D(hash int) [3]float64 {
	switch (hash & 0xFFFF) % 12 {
	case 0:
		return [3]float64{1, 1, 0}
	case 1:
		return [3]float64{-1, 1, 0}
	case 2:
		return [3]float64{1, -1, 0}
	case 3:
		return [3]float64{-1, -1, 0}
	case 4:
		return [3]float64{1, 0, 1}
	case 5:
		return [3]float64{-1, 0, 1}
	case 6:
		return [3]float64{1, 0, -1}
	case 7:
		return [3]float64{-1, 0, -1}
	case 8:
		return [3]float64{0, 1, 1}
	case 9:
		return [3]float64{0, -1, 1}
	case 10:
		return [3]float64{0, 1, -1}
	default:
		return [3]float64{0, -1, -1}
	}
}

func dot2D(x1, y1, x2, y2 float64) float64 {
	return x1*x2 + y1*y2
}

func dot3D(g [3]float64, x, y, z float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// smoothstep is the improved Perlin fade: 6t^5 - 15t^4 + 10t^3
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}
