// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import "log/slog"

type (
	// Option represents a single option for the cache.
	Option interface{ cache(*Options) }

	// Options are the resolved options for the cache.
	Options struct {
		Selection   Selection
		Properties  map[string]Properties
		Virtual     []VirtualTemplate
		Aliases     map[string]string
		Fitter      Fitter
		Categorical CategoricalBuilder
		Logger      *slog.Logger
	}

	// GetOption represents a single option for the Get method.
	GetOption interface{ get(*GetOptions) }

	// GetOptions are the resolved options for the Get method.
	GetOptions struct {
		Select    bool
		Raw       bool
		Overrides Properties
	}

	// WithTimeSelection sets the default time selection applied to
	// extracted sensor data on request.
	WithTimeSelection struct{ Selection }

	// WithProperties sets the property table governing sensor
	// interpretation. Keys are exact sensor names, or "*suffix" patterns
	// shared by every sensor name ending in that suffix.
	WithProperties map[string]Properties

	// WithVirtual registers virtual sensor templates. Templates are
	// scanned in the given order and the first match wins, so more
	// specific patterns must come first.
	WithVirtual []VirtualTemplate

	// WithAliases adds alternate names for sensors, mapping each alias to
	// an original name fragment. Every existing sensor name containing the
	// original fragment gains a sibling entry with the fragment replaced,
	// sharing the same underlying raw data.
	WithAliases map[string]string

	// WithFitter sets the optional backend for higher-degree polynomial
	// interpolation of numeric sensors.
	WithFitter struct{ Fitter }

	// WithCategorical sets the builder invoked to construct the run-length
	// representation of categorical sensors.
	WithCategorical CategoricalBuilder

	// WithLogger enables logging with the provided slog logger.
	WithLogger struct{ *slog.Logger }

	// WithSelect requests that the preset time selection be applied to the
	// interpolated data before it is returned.
	WithSelect bool

	// WithRaw requests the raw (unextracted) form of the sensor data. The
	// entry is returned as-is and nothing is cached.
	WithRaw bool

	// WithOverrides supplies call-site property overrides, taking
	// precedence over the per-class and per-sensor property tables.
	WithOverrides Properties
)

func (o WithTimeSelection) cache(opt *Options) { opt.Selection = o.Selection }

func (o WithProperties) cache(opt *Options) { opt.Properties = o }

func (o WithVirtual) cache(opt *Options) { opt.Virtual = append(opt.Virtual, o...) }

func (o WithAliases) cache(opt *Options) { opt.Aliases = o }

func (o WithFitter) cache(opt *Options) { opt.Fitter = o.Fitter }

func (o WithCategorical) cache(opt *Options) { opt.Categorical = CategoricalBuilder(o) }

func (o WithLogger) cache(opt *Options) { opt.Logger = o.Logger }

func (o WithLogger) clean(opt *CleanOptions) { opt.Logger = o.Logger }

func (o WithSelect) get(opt *GetOptions) { opt.Select = bool(o) }

func (o WithRaw) get(opt *GetOptions) { opt.Raw = bool(o) }

func (o WithOverrides) get(opt *GetOptions) { opt.Overrides = Properties(o) }

// Apply resolves the provided list of options.
func (o *Options) Apply(opts []Option, rest ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.cache(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.cache(o)
		}
	}
}

func (o *Options) cache(opt *Options) {
	if o != nil {
		*opt = *o
	}
}

// Apply resolves the provided list of options.
func (o *GetOptions) Apply(opts []GetOption, rest ...GetOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.get(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.get(o)
		}
	}
}

func (o *GetOptions) get(opt *GetOptions) {
	if o != nil {
		*opt = *o
	}
}
