// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

// Package telstate provides a client of the telescope state service, the
// key/value store holding live sensor readings and observation attributes,
// and a sensor.Series view over its range queries.
//
// Requests are blob arrays published to the service's invocation topic;
// responses arrive on a per-client response topic, matched to their request
// by correlation data.
package telstate

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarao-sdp/telescope-sdks/go/data/internal/log"
	"github.com/sarao-sdp/telescope-sdks/go/data/internal/wallclock"
	"github.com/sarao-sdp/telescope-sdks/go/data/mqtt"
	"github.com/sarao-sdp/telescope-sdks/go/data/telstate/errors"
	"github.com/sarao-sdp/telescope-sdks/go/data/telstate/internal/resp"
)

type (
	// Client represents a client of the telescope state service.
	Client struct {
		client        mqtt.Client
		logger        log.Logger
		requestTopic  string
		responseTopic string

		mu        sync.Mutex
		listening bool
		pending   map[string]chan []byte
	}

	// ClientOption represents a single option for the client.
	ClientOption interface{ client(*ClientOptions) }

	// ClientOptions are the resolved options for the client.
	ClientOptions struct {
		Logger       *slog.Logger
		RequestTopic string
	}

	// Sample is one stored sensor reading: an encoded value and the time
	// it was recorded, in seconds since the Unix epoch.
	Sample struct {
		Value []byte
		Time  float64
	}

	// InvokeOption represents a single option for Has, IsImmutable or Get.
	InvokeOption interface{ invoke(*InvokeOptions) }

	// InvokeOptions are the resolved options for Has, IsImmutable or Get.
	InvokeOptions struct {
		Timeout time.Duration
	}

	// RangeOption represents a single option for GetRange.
	RangeOption interface{ rng(*RangeOptions) }

	// RangeOptions are the resolved options for GetRange.
	RangeOptions struct {
		Start   float64
		End     float64
		Timeout time.Duration
	}

	// WithLogger enables logging with the provided slog logger.
	WithLogger struct{ *slog.Logger }

	// WithRequestTopic overrides the service invocation topic.
	WithRequestTopic string

	// WithTimeout sets a per-call timeout.
	WithTimeout time.Duration

	// WithStart sets the inclusive start time of a range query, in seconds
	// since the Unix epoch (default 0, i.e. everything).
	WithStart float64

	// WithEnd sets the exclusive end time of a range query. The default
	// leaves the range open-ended.
	WithEnd float64

	ServiceError  = errors.Service
	PayloadError  = errors.Payload
	ArgumentError = errors.Argument
)

var (
	ErrService      = errors.ErrService
	ErrPayload      = errors.ErrPayload
	ErrArgument     = errors.ErrArgument
	ErrNotListening = errors.ErrNotListening
)

const defaultRequestTopic = "telstate/v1/command/invoke"

// New creates a new telescope state client on top of a connected MQTT
// client.
func New(client mqtt.Client, opt ...ClientOption) (*Client, error) {
	var opts ClientOptions
	opts.Apply(opt)

	requestTopic := opts.RequestTopic
	if requestTopic == "" {
		requestTopic = defaultRequestTopic
	}

	return &Client{
		client:        client,
		logger:        log.Wrap(opts.Logger),
		requestTopic:  requestTopic,
		responseTopic: "clients/" + client.ClientID() + "/telstate/response",
		pending:       make(map[string]chan []byte),
	}, nil
}

// Listen to the response topic. Returns a function to stop listening. Must
// be called before any telescope state methods.
func (c *Client) Listen(ctx context.Context) (func(), error) {
	sub, err := c.client.Subscribe(ctx, c.responseTopic, c.onResponse,
		mqtt.WithQoS(1))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.listening = true
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.listening = false
		c.mu.Unlock()
		if err := sub.Unsubscribe(context.Background()); err != nil {
			c.logger.Err(context.Background(), err)
		}
	}, nil
}

// Has reports whether a key is present in the telescope state.
func (c *Client) Has(
	ctx context.Context,
	name string,
	opt ...InvokeOption,
) (bool, error) {
	var opts InvokeOptions
	opts.Apply(opt)

	data, err := c.invoke(ctx, opts.Timeout, "EXISTS", name)
	if err != nil {
		return false, err
	}
	n, err := resp.Number(data)
	return err == nil && n > 0, err
}

// IsImmutable reports whether a key holds a single immutable attribute
// rather than a timestamped sensor history.
func (c *Client) IsImmutable(
	ctx context.Context,
	name string,
	opt ...InvokeOption,
) (bool, error) {
	var opts InvokeOptions
	opts.Apply(opt)

	data, err := c.invoke(ctx, opts.Timeout, "TYPE", name)
	if err != nil {
		return false, err
	}
	typ, err := resp.String(data)
	if err != nil {
		return false, err
	}
	switch typ {
	case "immutable":
		return true, nil
	case "mutable":
		return false, nil
	default:
		return false, resp.PayloadError("unknown key type %q", typ)
	}
}

// Get returns the latest encoded value of the given key.
func (c *Client) Get(
	ctx context.Context,
	name string,
	opt ...InvokeOption,
) ([]byte, error) {
	var opts InvokeOptions
	opts.Apply(opt)

	data, err := c.invoke(ctx, opts.Timeout, "GET", name)
	if err != nil {
		return nil, err
	}
	return resp.Blob[[]byte](data)
}

// GetRange returns the stored (value, time) samples of the given key within
// the requested time range, in chronological order.
func (c *Client) GetRange(
	ctx context.Context,
	name string,
	opt ...RangeOption,
) ([]Sample, error) {
	var opts RangeOptions
	opts.Apply(opt)

	args := []string{
		"RANGE", name,
		strconv.FormatFloat(opts.Start, 'f', -1, 64),
	}
	if opts.End > 0 {
		args = append(args, strconv.FormatFloat(opts.End, 'f', -1, 64))
	}

	data, err := c.invoke(ctx, opts.Timeout, args...)
	if err != nil {
		return nil, err
	}

	values, times, err := resp.Samples(data)
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, len(values))
	for i := range values {
		samples[i] = Sample{values[i], times[i]}
	}
	return samples, nil
}

// invoke publishes one request and waits for its correlated response.
func (c *Client) invoke(
	ctx context.Context,
	timeout time.Duration,
	args ...string,
) ([]byte, error) {
	if args[1] == "" {
		return nil, errors.Argument{Name: "name"}
	}

	correlation := uuid.New()
	key := string(correlation[:])
	ch := make(chan []byte, 1)

	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return nil, errors.ErrNotListening
	}
	c.pending[key] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = wallclock.Instance.WithTimeoutCause(
			ctx, timeout, context.DeadlineExceeded)
		defer cancel()
	}

	err := c.client.Publish(ctx, c.requestTopic, resp.FormatBlobArray(args...),
		mqtt.WithQoS(1),
		mqtt.WithCorrelationData(correlation[:]),
		mqtt.WithResponseTopic(c.responseTopic),
	)
	if err != nil {
		return nil, err
	}

	select {
	case data := <-ch:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// onResponse routes a response payload to its waiting request.
func (c *Client) onResponse(_ context.Context, msg *mqtt.Message) error {
	key := string(msg.CorrelationData)

	c.mu.Lock()
	ch, ok := c.pending[key]
	delete(c.pending, key)
	c.mu.Unlock()

	if ok {
		ch <- append([]byte(nil), msg.Payload...)
	}
	return nil
}

// Apply resolves the provided list of options.
func (o *ClientOptions) Apply(opts []ClientOption, rest ...ClientOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.client(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.client(o)
		}
	}
}

// Apply resolves the provided list of options.
func (o *InvokeOptions) Apply(opts []InvokeOption, rest ...InvokeOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.invoke(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.invoke(o)
		}
	}
}

// Apply resolves the provided list of options.
func (o *RangeOptions) Apply(opts []RangeOption, rest ...RangeOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.rng(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.rng(o)
		}
	}
}

func (o *ClientOptions) client(opt *ClientOptions) {
	if o != nil {
		*opt = *o
	}
}

func (o WithLogger) client(opt *ClientOptions) { opt.Logger = o.Logger }

func (o WithRequestTopic) client(opt *ClientOptions) {
	opt.RequestTopic = string(o)
}

func (o WithTimeout) invoke(opt *InvokeOptions) {
	opt.Timeout = time.Duration(o)
}

func (o WithTimeout) rng(opt *RangeOptions) { opt.Timeout = time.Duration(o) }

func (o WithStart) rng(opt *RangeOptions) { opt.Start = float64(o) }

func (o WithEnd) rng(opt *RangeOptions) { opt.End = float64(o) }
