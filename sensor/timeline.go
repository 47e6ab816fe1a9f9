// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import (
	"fmt"

	"github.com/relvacode/iso8601"
	"github.com/sosodev/duration"
)

type (
	// Timeline supplies the fixed target timestamps (ascending UTC seconds
	// since the Unix epoch) onto which sensor values are interpolated. The
	// cache holds the timeline by reference and materializes it on first
	// extraction, so implementations may defer expensive reads until then.
	Timeline interface {
		Timestamps() []float64
	}

	// FixedTimeline is an already materialized timeline.
	FixedTimeline []float64
)

// Timestamps returns the timeline samples.
func (t FixedTimeline) Timestamps() []float64 {
	return t
}

// NewTimeline builds a timeline of n samples spaced dumpPeriod seconds
// apart, starting at an ISO 8601 observation start time.
func NewTimeline(start string, n int, dumpPeriod float64) (FixedTimeline, error) {
	t0, err := iso8601.ParseString(start)
	if err != nil {
		return nil, fmt.Errorf("invalid observation start time %q: %w", start, err)
	}
	base := float64(t0.UnixNano()) / 1e9
	timeline := make(FixedTimeline, n)
	for i := range timeline {
		timeline[i] = base + float64(i)*dumpPeriod
	}
	return timeline, nil
}

// ParsePeriod converts an ISO 8601 duration such as "PT8S" to seconds, the
// unit used for dump periods throughout this library.
func ParsePeriod(iso string) (float64, error) {
	d, err := duration.Parse(iso)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", iso, err)
	}
	return d.ToTimeDuration().Seconds(), nil
}
