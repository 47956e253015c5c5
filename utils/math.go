package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func LerpV3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// DampFactor is the per-step weight of an exponential chase toward a target.
// Capped at 1 so a large delta never overshoots.
func DampFactor(rate, dt float32) float32 {
	f := rate * dt
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

func Clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// RotateY rotates v around the world Y axis.
func RotateY(v mgl32.Vec3, angle float32) mgl32.Vec3 {
	s := float32(math.Sin(float64(angle)))
	c := float32(math.Cos(float64(angle)))
	return mgl32.Vec3{
		c*v[0] + s*v[2],
		v[1],
		-s*v[0] + c*v[2],
	}
}
