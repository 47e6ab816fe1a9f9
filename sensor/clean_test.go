// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor_test

import (
	"testing"

	"github.com/sarao-sdp/telescope-sdks/go/data/sensor"
	"github.com/stretchr/testify/require"
)

func TestCleanSortsChronologically(t *testing.T) {
	raw := sensor.NewRecordSeries("anc_wind_speed", sensor.DTypeFloat,
		[]float64{3, 1, 2},
		[]any{3.0, 1.0, 2.0},
		nil,
	)
	cleaned := sensor.Clean(raw)
	require.Equal(t, []float64{1, 2, 3}, cleaned.Timestamps())
	require.Equal(t, []any{1.0, 2.0, 3.0}, cleaned.Values())
	require.Equal(t, sensor.DTypeFloat, cleaned.DType())
	require.Equal(t, "anc_wind_speed", cleaned.Name())
}

func TestCleanKeepsLastOfDuplicateRun(t *testing.T) {
	// The sort is stable, so within the run at t=2 the original order is
	// preserved and "c" wins over "b".
	raw := sensor.NewRecordSeries("obs_label", sensor.DTypeString,
		[]float64{2, 1, 2},
		[]any{"b", "a", "c"},
		nil,
	)
	cleaned := sensor.Clean(raw)
	require.Equal(t, []float64{1, 2}, cleaned.Timestamps())
	require.Equal(t, []any{"a", "c"}, cleaned.Values())
}

func TestCleanFiltersStatusAfterCollapsing(t *testing.T) {
	// The run at t=1 is represented by its last data point, whose status
	// ("unknown") discards the whole run even though an earlier point in
	// the run was nominal.
	raw := sensor.NewRecordSeries("ant_temp", sensor.DTypeFloat,
		[]float64{1, 1, 2, 3, 4, 5},
		[]any{10.0, 11.0, 12.0, 13.0, 14.0, 15.0},
		[]string{"nominal", "unknown", "nominal", "warn", "error", "failure"},
	)
	cleaned := sensor.Clean(raw)
	require.Equal(t, []float64{2, 3, 4}, cleaned.Timestamps())
	require.Equal(t, []any{12.0, 13.0, 14.0}, cleaned.Values())

	// The status field only plays a role here and is not propagated.
	require.Nil(t, cleaned.Statuses())
}

func TestCleanWithoutStatusField(t *testing.T) {
	raw := sensor.NewRecordSeries("ant_temp", sensor.DTypeFloat,
		[]float64{1, 2},
		[]any{10.0, 20.0},
		nil,
	)
	cleaned := sensor.Clean(raw)
	require.Equal(t, []float64{1, 2}, cleaned.Timestamps())
	require.Equal(t, []any{10.0, 20.0}, cleaned.Values())
}

func TestCleanEmpty(t *testing.T) {
	raw := sensor.NewRecordSeries("ant_temp", sensor.DTypeFloat,
		nil, nil, nil)
	cleaned := sensor.Clean(raw)
	require.False(t, cleaned.HasData())
	require.Empty(t, cleaned.Timestamps())
}

func TestCleanMismatchedLengths(t *testing.T) {
	// Malformed input degrades to the common prefix rather than failing.
	raw := sensor.NewRecordSeries("ant_temp", sensor.DTypeFloat,
		[]float64{1, 2, 3},
		[]any{10.0, 20.0},
		nil,
	)
	cleaned := sensor.Clean(raw)
	require.Equal(t, []float64{1, 2}, cleaned.Timestamps())
	require.Equal(t, []any{10.0, 20.0}, cleaned.Values())
}
