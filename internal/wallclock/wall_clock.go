// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package wallclock

import (
	"context"
	"time"
)

type (
	// WallClock abstracts the subset of packages context and time used by
	// this library.
	WallClock interface {
		WithTimeoutCause(
			parent context.Context,
			timeout time.Duration,
			cause error,
		) (context.Context, context.CancelFunc)
		Now() time.Time
	}

	wallClock struct{}
)

// WithTimeoutCause indirects context.WithTimeoutCause.
func (wallClock) WithTimeoutCause(
	parent context.Context,
	timeout time.Duration,
	cause error,
) (context.Context, context.CancelFunc) {
	return context.WithTimeoutCause(parent, timeout, cause)
}

// Now indirects time.Now.
func (wallClock) Now() time.Time {
	return time.Now()
}

// Instance is a WallClock singleton used for indirect time-based references
// to packages context and time. Test code can set the instance to interpose
// on functions and control apparent time.
var Instance WallClock = wallClock{}
