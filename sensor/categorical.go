// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

type (
	// Categorical is the run-length representation of a categorical sensor
	// aligned to the cache timeline: a sequence of (value, start, end) runs
	// produced by an external builder. This library treats it as opaque
	// apart from selection.
	Categorical interface {
		// Select applies a time-selection spec to the aligned data and
		// returns the selected view without mutating the receiver.
		Select(sel Selection) any
	}

	// CategoricalBuilder converts cleaned sensor events into a Categorical
	// by holding the nearest prior value at each timeline sample. The dump
	// period decides event boundary placement and props carries any
	// builder-specific tuning keys resolved for the sensor.
	CategoricalBuilder func(
		timestamps []float64,
		values []any,
		timeline []float64,
		dumpPeriod float64,
		props Properties,
	) (Categorical, error)
)
