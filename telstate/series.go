// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package telstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/relvacode/iso8601"

	"github.com/sarao-sdp/telescope-sdks/go/data/sensor"
	serrors "github.com/sarao-sdp/telescope-sdks/go/data/sensor/errors"
)

// Series is raw sensor data stored in the telescope state. The sample range
// is fetched once at construction, but the encoded values are only decoded
// on first access, since a Series is typically replaced by its extracted
// form right after that.
type Series struct {
	name    string
	dtype   sensor.DType
	samples []Sample
	times   []float64
	values  []any
}

// NewSeries fetches the history of the named telescope state sensor and
// wraps it as a sensor.Series. It fails with a NotFound error if the key is
// absent or holds an immutable attribute rather than a sensor.
func NewSeries(ctx context.Context, c *Client, name string) (*Series, error) {
	has, err := c.Has(ctx, name)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf(
			"%w: no sensor named %q in telstate (key not found)",
			serrors.ErrNotFound, name)
	}

	immutable, err := c.IsImmutable(ctx, name)
	if err != nil {
		return nil, err
	}
	if immutable {
		return nil, fmt.Errorf(
			"%w: no sensor named %q in telstate (it's an attribute)",
			serrors.ErrNotFound, name)
	}

	samples, err := c.GetRange(ctx, name)
	if err != nil {
		return nil, err
	}

	s := &Series{name: name, dtype: sensor.DTypeObject, samples: samples}
	if len(samples) > 0 {
		// Decode one value to derive the element type up front.
		s.dtype = sensor.DTypeOf(decodeValue(samples[0].Value))
	}
	return s, nil
}

// Name returns the sensor name.
func (s *Series) Name() string {
	return s.name
}

// DType returns the element type of the value sequence.
func (s *Series) DType() sensor.DType {
	return s.dtype
}

// Timestamps returns the timestamp of each data point.
func (s *Series) Timestamps() []float64 {
	if s.times == nil {
		s.times = make([]float64, len(s.samples))
		for i, sample := range s.samples {
			s.times[i] = sample.Time
		}
	}
	return s.times
}

// Values returns the decoded value of each data point. Decoding happens at
// most once; later calls return the cached result.
func (s *Series) Values() []any {
	if s.values == nil {
		s.values = make([]any, len(s.samples))
		for i, sample := range s.samples {
			s.values[i] = decodeValue(sample.Value)
		}
	}
	return s.values
}

// Statuses returns nil; the telescope state records no status codes.
func (s *Series) Statuses() []string {
	return nil
}

// HasData reports whether the sensor has at least one data point.
func (s *Series) HasData() bool {
	return len(s.samples) > 0
}

// String returns a short human-friendly description of the series.
func (s *Series) String() string {
	return fmt.Sprintf("<telstate.Series %q len=%d type=%q>",
		s.name, len(s.samples), s.dtype)
}

// decodeValue unpacks one stored value from its encoded representation:
// JSON first, then an ISO 8601 timestamp (converted to Unix seconds), and
// when unsure the raw string itself, which is correct for string sensors.
// Array- and object-valued samples stay opaque single values so that the
// value sequence remains logically one-dimensional.
func decodeValue(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		switch t := v.(type) {
		case json.Number:
			if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
				return i
			}
			if f, err := t.Float64(); err == nil {
				return f
			}
			return t.String()
		default:
			return v
		}
	}

	str := string(data)
	if ts, err := iso8601.ParseString(str); err == nil {
		return float64(ts.UnixNano()) / 1e9
	}
	return str
}
