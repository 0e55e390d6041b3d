package geometry

import "math"

// PointInPolygon reports whether p lies inside the polygon using ray casting.
// The polygon may be non-axis-aligned and concave; vertex order does not matter.
func PointInPolygon(p Vector2, polygon []Vector2) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			crossX := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < crossX {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds2D returns the component-wise minimum and maximum of points
func Bounds2D(points []Vector2) (Vector2, Vector2) {
	if len(points) == 0 {
		return Vector2{}, Vector2{}
	}
	lo := Vector2{X: math.Inf(1), Y: math.Inf(1)}
	hi := Vector2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range points {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// Centroid returns the average of points
func Centroid(points []Vector2) Vector2 {
	if len(points) == 0 {
		return Vector2{}
	}
	var sum Vector2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}
