// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import (
	"context"
	"log/slog"
	"reflect"
	"sort"

	"github.com/sarao-sdp/telescope-sdks/go/data/internal/log"
)

type (
	// CleanOption represents a single option for Clean.
	CleanOption interface{ clean(*CleanOptions) }

	// CleanOptions are the resolved options for Clean.
	CleanOptions struct {
		Logger *slog.Logger
	}
)

// Clean sorts a raw series chronologically and discards duplicate
// timestamps and unreadable sensor values.
//
// The sort is stable, so within a run of equal timestamps the original
// relative order is preserved and the last data point of the run wins. If
// values disagree within a run this is logged at debug level and the last
// value is still kept. Data points whose status is not one of "nominal",
// "warn" or "error" indicate that the sensor could not be read and are
// dropped after duplicates are collapsed. The status field does not appear
// in the output as this is the only place it plays a role.
//
// Malformed input degrades gracefully; Clean never fails.
func Clean(s Series, opt ...CleanOption) *RecordSeries {
	var opts CleanOptions
	opts.Apply(opt)
	logger := log.Wrap(opts.Logger)
	ctx := context.Background()

	x := s.Timestamps()
	y := s.Values()
	z := s.Statuses()
	n := min(len(x), len(y))
	if z != nil {
		n = min(n, len(z))
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return x[order[i]] < x[order[j]]
	})

	times := make([]float64, 0, n)
	values := make([]any, 0, n)

	for i := 0; i < n; {
		// Find the run of equal timestamps starting at i; its last data
		// point represents the run.
		j := i
		for j+1 < n && x[order[j+1]] == x[order[i]] {
			j++
		}
		k := order[j]

		for m := i; m < j; m++ {
			if !valuesEqual(y[order[m]], y[k]) {
				logger.Debug(ctx,
					"sensor has duplicate timestamps with different values - keeping last one",
					slog.String("sensor", s.Name()),
					slog.Float64("timestamp", x[k]),
					slog.Any("dropped", y[order[m]]),
					slog.Any("kept", y[k]),
				)
			}
		}

		if z == nil || validStatus(z[k]) {
			times = append(times, x[k])
			values = append(values, y[k])
		}
		i = j + 1
	}

	return &RecordSeries{
		name:   s.Name(),
		dtype:  s.DType(),
		times:  times,
		values: values,
	}
}

// validStatus reports whether the sensor value was readable when sampled.
func validStatus(status string) bool {
	return status == "nominal" || status == "warn" || status == "error"
}

// valuesEqual compares two sensor values, including opaque array-valued
// readings.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Apply resolves the provided list of options.
func (o *CleanOptions) Apply(opts []CleanOption, rest ...CleanOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.clean(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.clean(o)
		}
	}
}

func (o *CleanOptions) clean(opt *CleanOptions) {
	if o != nil {
		*opt = *o
	}
}
