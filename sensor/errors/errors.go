// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package errors

import (
	"errors"
	"fmt"
)

type (
	// NotFound errors indicate a sensor name that is absent from the cache
	// and does not match any virtual sensor template. For fallback lookups,
	// Label names the logical sensor type and Tried lists every candidate
	// name that failed.
	NotFound struct {
		Name  string
		Label string
		Tried []string
	}

	// InvalidRequest errors indicate a sensor request that can never
	// succeed, such as applying time selection to raw sensor data.
	InvalidRequest string
)

var (
	ErrNotFound       = errors.New("sensor not found")
	ErrInvalidRequest = errors.New("invalid request")
)

func (e NotFound) Error() string {
	if len(e.Tried) > 0 {
		return fmt.Sprintf("%s: could not find any %s sensor, tried %v",
			ErrNotFound, e.Label, e.Tried)
	}
	return fmt.Sprintf("%s: %q does not match an actual name or virtual template",
		ErrNotFound, e.Name)
}

func (NotFound) Unwrap() error {
	return ErrNotFound
}

func (e InvalidRequest) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, string(e))
}

func (InvalidRequest) Unwrap() error {
	return ErrInvalidRequest
}
