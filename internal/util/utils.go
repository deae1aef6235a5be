package util

import (
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Lerp linearly interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts value to the range [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampInt restricts value to the range [min, max]
func ClampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SmoothStep is the Hermite step between edges a and b
func SmoothStep(a, b, t float64) float64 {
	if a == b {
		if t < a {
			return 0
		}
		return 1
	}
	t = Clamp((t-a)/(b-a), 0, 1)
	return t * t * (3 - 2*t)
}

// EaseOutSine eases t in [0,1] out along a quarter sine wave
func EaseOutSine(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

// Luminance returns Rec. 709 relative luminance of linear rgb in [0,1]
func Luminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDirIfNotExist creates a directory if it doesn't exist
func CreateDirIfNotExist(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// GetFileNameWithoutExt returns the file name without extension
func GetFileNameWithoutExt(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
