// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

// Package sensor stores cached and uncached (raw) telescope sensor data and
// aligns it to a fixed observation timeline.
//
// Sensor data is a one-dimensional time series of values sampled at
// irregular times. A Cache stores sensor data by name: entries start as raw
// Series views and are converted exactly once, on first access, into either
// a numeric array linearly interpolated onto the cache timeline or a
// run-length Categorical produced by an external builder. The cache also
// resolves virtual sensors from name-pattern templates and applies an
// optional time selection to extracted data.
package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sarao-sdp/telescope-sdks/go/data/internal/log"
	"github.com/sarao-sdp/telescope-sdks/go/data/sensor/errors"
)

type (
	// Cache stores sensor data by name, extracting and interpolating each
	// sensor at most once. It is not safe for concurrent use; the extract-
	// once guarantee assumes exclusive access during resolution.
	Cache struct {
		entries map[string]*entry
		order   []string

		timeline   Timeline
		timestamps []float64
		dumpPeriod float64
		keep       Selection

		classProps    []classProperties
		exactProps    map[string]Properties
		resolvedProps map[string]Properties

		virtual     []virtualTemplate
		fitter      Fitter
		categorical CategoricalBuilder

		logger     log.Logger
		slogger    *slog.Logger
		degreeWarn sync.Once
	}

	NotFoundError       = errors.NotFound
	InvalidRequestError = errors.InvalidRequest

	entryState int

	entry struct {
		state entryState
		raw   Series
		value any
	}
)

var (
	ErrNotFound       = errors.ErrNotFound
	ErrInvalidRequest = errors.ErrInvalidRequest
)

const (
	stateUnresolved entryState = iota
	stateResolving
	stateResolved
)

// New creates a sensor cache from an initial mapping of sensor names to raw
// series, the target timeline and the dump period (seconds between timeline
// samples). Alias rules are expanded immediately; everything else is
// resolved on demand.
func New(
	data map[string]Series,
	timeline Timeline,
	dumpPeriod float64,
	opt ...Option,
) (*Cache, error) {
	var opts Options
	opts.Apply(opt)

	c := &Cache{
		entries:       make(map[string]*entry, len(data)),
		timeline:      timeline,
		dumpPeriod:    dumpPeriod,
		keep:          opts.Selection,
		resolvedProps: make(map[string]Properties),
		fitter:        opts.Fitter,
		categorical:   opts.Categorical,
		logger:        log.Wrap(opts.Logger),
		slogger:       opts.Logger,
	}
	c.classProps, c.exactProps = splitProperties(opts.Properties)

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.Add(name, data[name])
	}

	for _, t := range opts.Virtual {
		re, err := compileTemplate(t.Pattern)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid virtual sensor template %q: %w", t.Pattern, err)
		}
		c.virtual = append(c.virtual, virtualTemplate{t.Pattern, re, t.Construct})
	}

	aliases := make([]string, 0, len(opts.Aliases))
	for alias := range opts.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		original := opts.Aliases[alias]
		for _, name := range append([]string(nil), c.order...) {
			if strings.Contains(name, original) {
				sibling := strings.Replace(name, original, alias, 1)
				c.Add(sibling, c.entries[name].raw)
			}
		}
	}

	return c, nil
}

// Add registers raw data for a sensor, replacing any existing entry. It is
// primarily intended for virtual sensor constructors that create associated
// sensors alongside the requested one.
func (c *Cache) Add(name string, s Series) {
	if _, ok := c.entries[name]; !ok {
		c.order = append(c.order, name)
	}
	c.entries[name] = &entry{raw: s}
}

// Names returns the current sensor names in insertion order. Virtual
// sensors appear only once they have been resolved.
func (c *Cache) Names() []string {
	return append([]string(nil), c.order...)
}

// Timestamps returns the materialized timeline onto which sensor values are
// interpolated.
func (c *Cache) Timestamps() []float64 {
	if c.timestamps == nil {
		c.timestamps = c.timeline.Timestamps()
	}
	return c.timestamps
}

// DumpPeriod returns the nominal spacing between timeline samples in
// seconds.
func (c *Cache) DumpPeriod() float64 {
	return c.dumpPeriod
}

// Data returns the sensor values interpolated to the cache timeline with
// the preset time selection applied. This is the end-user extraction path;
// library routines that need more control should use Get.
func (c *Cache) Data(name string) (any, error) {
	return c.Get(name, WithSelect(true))
}

// Get returns the data of the named sensor. By default the raw data is
// extracted on first access: cleaned, interpolated onto the cache timeline
// according to the resolved sensor properties, and cached so that later
// calls return the same resolved value. WithRaw(true) skips extraction and
// returns the entry as-is, WithSelect(true) applies the preset time
// selection to extracted data, and WithOverrides supplies call-site
// property overrides.
//
// The result is a []float64 for numeric sensors, a Categorical for
// categorical sensors, or a Series when extraction is skipped on a sensor
// that has not yet been resolved.
func (c *Cache) Get(name string, opt ...GetOption) (any, error) {
	var opts GetOptions
	opts.Apply(opt)

	if opts.Select && opts.Raw {
		return nil, errors.InvalidRequest(
			"cannot apply selection on raw sensor data")
	}

	e, existed := c.entries[name]
	if !existed {
		series, matched, err := c.matchVirtual(name)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, errors.NotFound{Name: name}
		}
		// A virtual entry is cached only once it has been resolved, so a
		// raw request leaves no placeholder behind.
		if opts.Raw {
			return series, nil
		}
		e = &entry{raw: series}
		c.Add(name, series)
		c.entries[name] = e
	}

	if e.state == stateResolved {
		if opts.Select {
			return c.applySelection(e.value), nil
		}
		return e.value, nil
	}

	if opts.Raw {
		return e.raw, nil
	}

	if e.state == stateResolving {
		return nil, errors.InvalidRequest(fmt.Sprintf(
			"sensor %q is already being resolved", name))
	}

	e.state = stateResolving
	value, err := c.extract(name, e.raw, opts.Overrides)
	if err != nil {
		e.state = stateUnresolved
		if !existed {
			c.remove(name)
		}
		return nil, err
	}
	e.state = stateResolved
	e.value = value

	if opts.Select {
		return c.applySelection(value), nil
	}
	return value, nil
}

// remove drops an entry added during a failed virtual resolution.
func (c *Cache) remove(name string) {
	delete(c.entries, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// GetWithFallback returns the selected data for a type of sensor that may
// have one of several names, trying each candidate in turn. The label names
// the sensor type for informational purposes only.
func (c *Cache) GetWithFallback(label string, names []string) (any, error) {
	for _, name := range names {
		value, err := c.Get(name, WithSelect(true))
		if err == nil {
			return value, nil
		}
		if _, ok := err.(errors.NotFound); !ok {
			return nil, err
		}
		c.logger.Debug(context.Background(),
			"sensor candidate not found, trying next option",
			slog.String("label", label),
			slog.String("sensor", name),
		)
	}
	return nil, errors.NotFound{Label: label, Tried: names}
}

// String returns a verbose listing of the cached sensors and virtual
// templates without triggering extraction.
func (c *Cache) String() string {
	names := c.Names()
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Actual sensors\n--------------\n")
	for _, name := range names {
		value, err := c.Get(name, WithRaw(true))
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s : %s\n", name, describe(value))
	}
	b.WriteString("\nVirtual sensors\n---------------\n")
	for _, t := range c.virtual {
		fmt.Fprintf(&b, "%s : <virtual sensor>\n", t.pattern)
	}
	return b.String()
}

func describe(value any) string {
	switch v := value.(type) {
	case []float64:
		return fmt.Sprintf("<float64 array len=%d>", len(v))
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// applySelection returns the selected view of a resolved value. The cached
// value is never mutated.
func (c *Cache) applySelection(value any) any {
	switch v := value.(type) {
	case []float64:
		return Apply(c.keep, v)
	case Categorical:
		return v.Select(c.keep)
	default:
		return value
	}
}

// extract runs the cleaning pass and interpolates the sensor onto the cache
// timeline, dispatching on the resolved categorical property. Unusable data
// never fails extraction; it is replaced by a single dummy sample.
func (c *Cache) extract(name string, raw Series, overrides Properties) (any, error) {
	ctx := context.Background()
	timeline := c.Timestamps()
	props := c.resolveProperties(name, overrides)

	var cleaned *RecordSeries
	if raw.HasData() {
		cleaned = Clean(raw, WithLogger{c.slogger})
	}
	if cleaned == nil || !cleaned.HasData() {
		initial, _ := props.InitialValue()
		cleaned = DummySeries(name, initial, raw.DType(), 0)
		c.logger.Warn(ctx,
			"no usable data found for sensor - replaced with dummy data",
			slog.String("sensor", name),
			slog.Any("value", cleaned.Values()[0]),
		)
	}

	categ, ok := props.Categorical()
	if !ok {
		categ = !cleaned.DType().IsFloat()
	}
	props["categorical"] = categ

	if categ {
		if c.categorical == nil {
			return nil, errors.InvalidRequest(fmt.Sprintf(
				"sensor %q is categorical but no categorical builder is configured",
				name))
		}
		return c.categorical(
			cleaned.Timestamps(), cleaned.Values(), timeline, c.dumpPeriod, props)
	}

	degree := props.InterpDegree()
	props["interp_degree"] = degree

	xi := cleaned.Timestamps()
	yi, err := float64Values(cleaned)
	if err != nil {
		return nil, errors.InvalidRequest(fmt.Sprintf(
			"sensor %q cannot be interpolated numerically: %s", name, err))
	}

	// Interpolating past the edges of the sensor data clamps to the
	// boundary value, which may be a poor stand-in; tell the user.
	if degree > 0 && len(xi) > 1 && len(timeline) > 0 {
		if xi[0] > timeline[0] {
			c.logger.Warn(ctx,
				"first sensor data point arrives after start of data set - extrapolation may lead to ridiculous values",
				slog.String("sensor", name),
				slog.Float64("gap_seconds", xi[0]-timeline[0]),
			)
		}
		if xi[len(xi)-1] < timeline[len(timeline)-1] {
			c.logger.Warn(ctx,
				"last sensor data point arrives before end of data set - extrapolation may lead to ridiculous values",
				slog.String("sensor", name),
				slog.Float64("gap_seconds", timeline[len(timeline)-1]-xi[len(xi)-1]),
			)
		}
	}

	if c.fitter != nil {
		value, err := c.fitter.FitEvaluate(xi, yi, timeline, degree)
		if err == nil {
			return value, nil
		}
		c.logger.Warn(ctx,
			"polynomial fit failed - falling back to linear interpolation",
			slog.String("sensor", name),
			slog.String("error", err.Error()),
		)
	} else if degree != 1 {
		c.degreeWarn.Do(func() {
			c.logger.Warn(ctx,
				"no fitter configured for requested interpolation degree - falling back to linear interpolation",
				slog.String("sensor", name),
				slog.Int("interp_degree", degree),
			)
		})
	}
	return LinearInterpolate(xi, yi, timeline), nil
}

// float64Values coerces the cleaned values of a numerically dispatched
// sensor to float64.
func float64Values(s *RecordSeries) ([]float64, error) {
	values := s.Values()
	out := make([]float64, len(values))
	for i, value := range values {
		switch v := value.(type) {
		case float64:
			out[i] = v
		case float32:
			out[i] = float64(v)
		case int:
			out[i] = float64(v)
		case int32:
			out[i] = float64(v)
		case int64:
			out[i] = float64(v)
		case uint32:
			out[i] = float64(v)
		case uint64:
			out[i] = float64(v)
		case bool:
			if v {
				out[i] = 1
			}
		default:
			return nil, fmt.Errorf("value %v of type %T is not numeric", value, value)
		}
	}
	return out, nil
}
