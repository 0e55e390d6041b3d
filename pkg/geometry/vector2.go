package geometry

import "math"

// Epsilon is the length below which a vector is treated as having no direction
const Epsilon = 1e-9

// Vector2 is a 2D point, usually in normalized image coordinates
// (x=0 left, y=0 top).
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector2 creates a new 2D vector
func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(other Vector2) Vector2 { return Vector2{X: v.X + other.X, Y: v.Y + other.Y} }
func (v Vector2) Sub(other Vector2) Vector2 { return Vector2{X: v.X - other.X, Y: v.Y - other.Y} }
func (v Vector2) Mul(s float64) Vector2     { return Vector2{X: v.X * s, Y: v.Y * s} }
func (v Vector2) Dot(other Vector2) float64 { return v.X*other.X + v.Y*other.Y }

// Length returns the magnitude of the vector
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points
func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Length()
}

// NormalizeOr returns the unit vector of v, or fallback when v has no direction
func (v Vector2) NormalizeOr(fallback Vector2) Vector2 {
	length := v.Length()
	if length < Epsilon {
		return fallback
	}
	return v.Mul(1.0 / length)
}

// Scale multiplies each component independently
func (v Vector2) Scale(sx, sy float64) Vector2 {
	return Vector2{X: v.X * sx, Y: v.Y * sy}
}

// Clamp01 clamps both components into [0,1]
func (v Vector2) Clamp01() Vector2 {
	return Vector2{X: Clamp(v.X, 0, 1), Y: Clamp(v.Y, 0, 1)}
}

// IsFinite reports whether neither component is NaN or infinite
func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Array returns the point as a serializable [x, y] pair
func (v Vector2) Array() [2]float64 {
	return [2]float64{v.X, v.Y}
}

// DistanceToSegment returns the distance from p to segment ab
func DistanceToSegment(p, a, b Vector2) float64 {
	return p.Distance(ClosestPointOnSegment(p, a, b))
}

// ClosestPointOnSegment projects p onto segment ab, with the parameter clamped to [0,1]
func ClosestPointOnSegment(p, a, b Vector2) Vector2 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < Epsilon*Epsilon {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mul(t))
}

// Clamp limits value to [lo, hi]. NaN clamps to lo.
func Clamp(value, lo, hi float64) float64 {
	if value > hi {
		return hi
	}
	if value >= lo {
		return value
	}
	return lo
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
