// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import "fmt"

type (
	// Series is raw (uninterpolated) sensor data: parallel sequences of
	// timestamps (UTC seconds since the Unix epoch, not necessarily sorted
	// or unique) and values, plus an optional status code per data point.
	// It is the only contract a sensor data source needs to implement.
	Series interface {
		// Name returns the sensor name.
		Name() string

		// DType returns the element type of the value sequence.
		DType() DType

		// Timestamps returns the timestamp of each data point.
		Timestamps() []float64

		// Values returns the value of each data point. Each element is a
		// single logical reading; array-valued readings appear as one
		// opaque element rather than being flattened.
		Values() []any

		// Statuses returns the status code of each data point, or nil if
		// the source has no status field.
		Statuses() []string

		// HasData reports whether the sensor has at least one data point.
		HasData() bool
	}

	// RecordSeries is raw sensor data held in memory in column form. It is
	// the typical shape of sensor data read from observation files, and is
	// also the output form of the cleaning pass.
	RecordSeries struct {
		name   string
		dtype  DType
		times  []float64
		values []any
		status []string
	}
)

// NewRecordSeries wraps in-memory column data as a Series. The times and
// values sequences must have equal length; status may be nil if the source
// records no status codes.
func NewRecordSeries(
	name string,
	dtype DType,
	times []float64,
	values []any,
	status []string,
) *RecordSeries {
	return &RecordSeries{name, dtype, times, values, status}
}

// DummySeries creates a single-point series used as filler when no sensor
// data are available. If value is nil, a type-appropriate default is used
// instead (NaN, -1, empty string, false or nil); otherwise the series takes
// its element type from the value.
func DummySeries(
	name string,
	value any,
	dtype DType,
	timestamp float64,
) *RecordSeries {
	if value == nil {
		value = dtype.defaultValue()
	} else {
		dtype = DTypeOf(value)
	}
	return &RecordSeries{
		name:   name,
		dtype:  dtype,
		times:  []float64{timestamp},
		values: []any{value},
	}
}

// Name returns the sensor name.
func (s *RecordSeries) Name() string {
	return s.name
}

// DType returns the element type of the value sequence.
func (s *RecordSeries) DType() DType {
	return s.dtype
}

// Timestamps returns the timestamp of each data point.
func (s *RecordSeries) Timestamps() []float64 {
	return s.times
}

// Values returns the value of each data point.
func (s *RecordSeries) Values() []any {
	return s.values
}

// Statuses returns the status code of each data point, or nil if the series
// has no status field.
func (s *RecordSeries) Statuses() []string {
	return s.status
}

// HasData reports whether the sensor has at least one data point.
func (s *RecordSeries) HasData() bool {
	return len(s.times) > 0
}

// String returns a short human-friendly description of the series.
func (s *RecordSeries) String() string {
	return fmt.Sprintf("<sensor.RecordSeries %q len=%d type=%q>",
		s.name, len(s.times), s.dtype)
}
