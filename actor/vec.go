package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AngleSteps is the number of fixed directions acceleration is snapped to
// during integration. Motion stays visually stable because a body pushed at a
// near-constant angle always resolves to the same quantized direction.
const AngleSteps = 32

// AngleStep is the quantization unit, 2π/32.
const AngleStep = 2 * math.Pi / AngleSteps

// Cross returns the scalar z component of the 2D cross product a × b.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Perp returns the counter-clockwise perpendicular of v.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// Rotate rotates v by theta radians around the origin.
func Rotate(v mgl64.Vec2, theta float64) mgl64.Vec2 {
	sin, cos := math.Sincos(theta)
	return mgl64.Vec2{
		v.X()*cos - v.Y()*sin,
		v.X()*sin + v.Y()*cos,
	}
}

// Limit clamps the magnitude of v to max without changing its direction.
// The comparison is done on squared magnitudes to avoid a sqrt in the
// common non-clamping case.
func Limit(v mgl64.Vec2, max float64) mgl64.Vec2 {
	if max <= 0 {
		return mgl64.Vec2{}
	}
	if v.LenSqr() <= max*max {
		return v
	}
	return v.Normalize().Mul(max)
}

// SafeNormalize returns the unit vector of v, or the zero vector when v has
// zero (or near-zero) length. mgl64.Vec2.Normalize on a zero vector yields
// NaN components; every normalization in the collision path goes through
// this guard instead.
func SafeNormalize(v mgl64.Vec2) mgl64.Vec2 {
	lenSqr := v.LenSqr()
	if lenSqr < 1e-16 {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / math.Sqrt(lenSqr))
}

// Project returns the projection of v onto axis. axis is not required to be
// unit length; a zero axis projects to the zero vector.
func Project(v, axis mgl64.Vec2) mgl64.Vec2 {
	lenSqr := axis.LenSqr()
	if lenSqr < 1e-16 {
		return mgl64.Vec2{}
	}
	return axis.Mul(v.Dot(axis) / lenSqr)
}

// SnapAngle quantizes the direction of v to the nearest of the 32 fixed
// angles, preserving magnitude. A zero vector snaps to itself.
func SnapAngle(v mgl64.Vec2) mgl64.Vec2 {
	lenSqr := v.LenSqr()
	if lenSqr < 1e-16 {
		return mgl64.Vec2{}
	}

	angle := math.Atan2(v.Y(), v.X())
	snapped := math.Round(angle/AngleStep) * AngleStep

	sin, cos := math.Sincos(snapped)
	length := math.Sqrt(lenSqr)
	return mgl64.Vec2{cos * length, sin * length}
}
