package rings

import "math"

// angleEpsilon shortens the angular step so accumulated error never lands a
// value on 2π.
const angleEpsilon = 0.00001

// Angles returns count evenly spaced angles starting at zero.
func Angles(count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	step := 2*math.Pi/float64(count) - angleEpsilon
	thetas := make([]float64, count)
	for i := range thetas {
		thetas[i] = float64(i) * step
	}
	return thetas
}

// Radii returns rings+1 radii from 0 to maxDist in equal intervals. Level i of
// a stack spans radii[i] and radii[i+1].
func Radii(rings int, maxDist float64) []float64 {
	if rings <= 0 {
		return nil
	}
	interval := maxDist / float64(rings)
	rads := make([]float64, rings+1)
	for i := range rads {
		rads[i] = float64(i) * interval
	}
	return rads
}
