// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import "sort"

// Fitter fits a piecewise polynomial of bounded degree to sensor data and
// evaluates it on the target timeline. It is an optional backend for
// higher-order interpolation of numeric sensors; when absent, the cache
// falls back to LinearInterpolate.
type Fitter interface {
	FitEvaluate(xi, yi, x []float64, maxDegree int) ([]float64, error)
}

// LinearInterpolate calculates y-coordinate values for the x positions by
// linear interpolation of the N fixed (xi, yi) points, safely.
//
// The xi values must be sorted in ascending order with no duplicates (the
// output form of the cleaning pass) and N must be at least 1. It is safe in
// the sense that a single fixed point reverts to zeroth-order interpolation,
// and data is never extrapolated linearly past the edges of xi; the closest
// endpoint value is used instead.
func LinearInterpolate(xi, yi, x []float64) []float64 {
	y := make([]float64, len(x))

	// A single fixed point cannot support a slope; broadcast it.
	if len(xi) == 1 {
		for i := range y {
			y[i] = yi[0]
		}
		return y
	}

	for i, q := range x {
		// Find the lowest xi value >= q (end of the segment containing q)
		// and clamp queries outside the range onto the closest segment.
		end := sort.SearchFloat64s(xi, q)
		if end == 0 {
			end = 1
		} else if end == len(xi) {
			end = len(xi) - 1
		}
		start := end - 1

		// Weight such that xi[start] => 0 and xi[end] => 1, clipped to
		// [0, 1] so values beyond the range equal the boundary value.
		w := (q - xi[start]) / (xi[end] - xi[start])
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		y[i] = (1-w)*yi[start] + w*yi[end]
	}
	return y
}
