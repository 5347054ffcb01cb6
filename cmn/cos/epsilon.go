package cos

import "math"

// ScoreEqual implements spec.md section 4.1's relative-epsilon score
// comparison: two scores are equal when |a-b| < eps * max(|a|, |b|, 1).
func ScoreEqual(a, b, eps float64) bool {
	d := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	scale = math.Max(scale, 1)
	return d < eps*scale
}
