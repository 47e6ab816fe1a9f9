// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package telstate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarao-sdp/telescope-sdks/go/data/mqtt"
	"github.com/sarao-sdp/telescope-sdks/go/data/sensor"
	"github.com/sarao-sdp/telescope-sdks/go/data/telstate"
	"github.com/sarao-sdp/telescope-sdks/go/data/telstate/internal/resp"
)

// fakeClient is an in-memory mqtt.Client that dispatches each published
// request to a scripted responder and delivers the response synchronously
// on the subscribed response topic.
type fakeClient struct {
	t            *testing.T
	respond      func(args []string) []byte
	topic        string
	handler      mqtt.MessageHandler
	requests     [][]string
	requestTopic string
	unsubscribed bool
}

type fakeSubscription struct{ c *fakeClient }

func (c *fakeClient) ClientID() string {
	return "test-client"
}

func (c *fakeClient) Subscribe(
	_ context.Context,
	topic string,
	handler mqtt.MessageHandler,
	_ ...mqtt.SubscribeOption,
) (mqtt.Subscription, error) {
	c.topic = topic
	c.handler = handler
	return &fakeSubscription{c}, nil
}

func (c *fakeClient) Publish(
	ctx context.Context,
	topic string,
	payload []byte,
	opts ...mqtt.PublishOption,
) error {
	var opt mqtt.PublishOptions
	opt.Apply(opts)
	c.requestTopic = topic

	args, err := resp.BlobArray[string](payload)
	require.NoError(c.t, err)
	c.requests = append(c.requests, args)

	require.Equal(c.t, c.topic, opt.ResponseTopic)
	require.NotEmpty(c.t, opt.CorrelationData)

	return c.handler(ctx, &mqtt.Message{
		Topic:   opt.ResponseTopic,
		Payload: c.respond(args),
		PublishOptions: mqtt.PublishOptions{
			CorrelationData: opt.CorrelationData,
		},
	})
}

func (s *fakeSubscription) Unsubscribe(context.Context) error {
	s.c.unsubscribed = true
	return nil
}

func newTestClient(
	t *testing.T,
	respond func(args []string) []byte,
) (*telstate.Client, *fakeClient, func()) {
	fake := &fakeClient{t: t, respond: respond}
	client, err := telstate.New(fake)
	require.NoError(t, err)

	stop, err := client.Listen(context.Background())
	require.NoError(t, err)
	return client, fake, stop
}

func TestHas(t *testing.T) {
	ctx := context.Background()
	client, fake, stop := newTestClient(t, func(args []string) []byte {
		if args[1] == "anc_wind_speed" {
			return []byte(":1\r\n")
		}
		return []byte(":0\r\n")
	})
	defer stop()

	has, err := client.Has(ctx, "anc_wind_speed")
	require.NoError(t, err)
	require.True(t, has)

	has, err = client.Has(ctx, "nonexistent")
	require.NoError(t, err)
	require.False(t, has)

	require.Equal(t, [][]string{
		{"EXISTS", "anc_wind_speed"},
		{"EXISTS", "nonexistent"},
	}, fake.requests)
	require.Equal(t, "telstate/v1/command/invoke", fake.requestTopic)
}

func TestIsImmutable(t *testing.T) {
	ctx := context.Background()
	types := map[string][]byte{
		"obs_params":     []byte("+immutable\r\n"),
		"anc_wind_speed": []byte("+mutable\r\n"),
		"weird":          []byte("+frozen\r\n"),
	}
	client, _, stop := newTestClient(t, func(args []string) []byte {
		return types[args[1]]
	})
	defer stop()

	immutable, err := client.IsImmutable(ctx, "obs_params")
	require.NoError(t, err)
	require.True(t, immutable)

	immutable, err = client.IsImmutable(ctx, "anc_wind_speed")
	require.NoError(t, err)
	require.False(t, immutable)

	_, err = client.IsImmutable(ctx, "weird")
	require.ErrorIs(t, err, telstate.ErrPayload)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	client, fake, stop := newTestClient(t, func(args []string) []byte {
		return resp.FormatBlob("300.5")
	})
	defer stop()

	value, err := client.Get(ctx, "anc_air_pressure")
	require.NoError(t, err)
	require.Equal(t, []byte("300.5"), value)
	require.Equal(t, [][]string{{"GET", "anc_air_pressure"}}, fake.requests)
}

func TestGetRange(t *testing.T) {
	ctx := context.Background()
	client, fake, stop := newTestClient(t, func(args []string) []byte {
		return resp.FormatBlobArray("10", "1000.5", "20", "1001.5")
	})
	defer stop()

	samples, err := client.GetRange(ctx, "cbf_count")
	require.NoError(t, err)
	require.Equal(t, []telstate.Sample{
		{Value: []byte("10"), Time: 1000.5},
		{Value: []byte("20"), Time: 1001.5},
	}, samples)

	_, err = client.GetRange(ctx, "cbf_count",
		telstate.WithStart(1000), telstate.WithEnd(1002))
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"RANGE", "cbf_count", "0"},
		{"RANGE", "cbf_count", "1000", "1002"},
	}, fake.requests)
}

func TestServiceError(t *testing.T) {
	ctx := context.Background()
	client, _, stop := newTestClient(t, func(args []string) []byte {
		return []byte("-ERR internal error\r\n")
	})
	defer stop()

	_, err := client.Get(ctx, "anc_wind_speed")
	require.ErrorIs(t, err, telstate.ErrService)
	require.Contains(t, err.Error(), "internal error")
}

func TestEmptyName(t *testing.T) {
	ctx := context.Background()
	client, fake, stop := newTestClient(t, func(args []string) []byte {
		return []byte(":0\r\n")
	})
	defer stop()

	_, err := client.Has(ctx, "")
	require.ErrorIs(t, err, telstate.ErrArgument)
	require.Empty(t, fake.requests)
}

func TestNotListening(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{t: t}
	client, err := telstate.New(fake)
	require.NoError(t, err)

	_, err = client.Has(ctx, "anc_wind_speed")
	require.ErrorIs(t, err, telstate.ErrNotListening)

	fake.respond = func(args []string) []byte { return []byte(":1\r\n") }
	stop, err := client.Listen(ctx)
	require.NoError(t, err)

	_, err = client.Has(ctx, "anc_wind_speed")
	require.NoError(t, err)

	stop()
	require.True(t, fake.unsubscribed)
	_, err = client.Has(ctx, "anc_wind_speed")
	require.ErrorIs(t, err, telstate.ErrNotListening)
}

func TestRequestTopicOption(t *testing.T) {
	fake := &fakeClient{t: t, respond: func(args []string) []byte {
		return []byte(":1\r\n")
	}}
	client, err := telstate.New(fake,
		telstate.WithRequestTopic("site/telstate/invoke"))
	require.NoError(t, err)

	stop, err := client.Listen(context.Background())
	require.NoError(t, err)
	defer stop()

	_, err = client.Has(context.Background(), "anc_wind_speed")
	require.NoError(t, err)
	require.Equal(t, "site/telstate/invoke", fake.requestTopic)
}

func TestNewSeries(t *testing.T) {
	ctx := context.Background()
	client, _, stop := newTestClient(t, func(args []string) []byte {
		switch args[0] {
		case "EXISTS":
			return []byte(":1\r\n")
		case "TYPE":
			return []byte("+mutable\r\n")
		default:
			return resp.FormatBlobArray(
				"300.5", "1000",
				"301.25", "1001",
			)
		}
	})
	defer stop()

	series, err := telstate.NewSeries(ctx, client, "anc_air_pressure")
	require.NoError(t, err)
	require.Equal(t, "anc_air_pressure", series.Name())
	require.Equal(t, sensor.DTypeFloat, series.DType())
	require.True(t, series.HasData())
	require.Equal(t, []float64{1000, 1001}, series.Timestamps())
	require.Equal(t, []any{300.5, 301.25}, series.Values())
	require.Nil(t, series.Statuses())

	// Values are decoded at most once.
	first := series.Values()
	second := series.Values()
	require.Same(t, &first[0], &second[0])
}

func TestNewSeriesNotFound(t *testing.T) {
	ctx := context.Background()
	client, _, stop := newTestClient(t, func(args []string) []byte {
		return []byte(":0\r\n")
	})
	defer stop()

	_, err := telstate.NewSeries(ctx, client, "nonexistent")
	require.ErrorIs(t, err, sensor.ErrNotFound)
	require.Contains(t, err.Error(), "nonexistent")
}

func TestNewSeriesAttribute(t *testing.T) {
	ctx := context.Background()
	client, _, stop := newTestClient(t, func(args []string) []byte {
		if args[0] == "EXISTS" {
			return []byte(":1\r\n")
		}
		return []byte("+immutable\r\n")
	})
	defer stop()

	_, err := telstate.NewSeries(ctx, client, "obs_params")
	require.ErrorIs(t, err, sensor.ErrNotFound)
	require.Contains(t, err.Error(), "attribute")
}

func TestSeriesInCache(t *testing.T) {
	ctx := context.Background()
	client, _, stop := newTestClient(t, func(args []string) []byte {
		switch args[0] {
		case "EXISTS":
			return []byte(":1\r\n")
		case "TYPE":
			return []byte("+mutable\r\n")
		default:
			return resp.FormatBlobArray("10.0", "1", "20.0", "3")
		}
	})
	defer stop()

	series, err := telstate.NewSeries(ctx, client, "anc_air_pressure")
	require.NoError(t, err)

	cache, err := sensor.New(
		map[string]sensor.Series{"anc_air_pressure": series},
		sensor.FixedTimeline{0, 1, 2, 3, 4}, 1,
	)
	require.NoError(t, err)

	value, err := cache.Data("anc_air_pressure")
	require.NoError(t, err)
	require.Equal(t, []float64{10, 10, 15, 20, 20}, value)
}
