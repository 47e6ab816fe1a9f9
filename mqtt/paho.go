// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package mqtt

import (
	"context"

	"github.com/eclipse/paho.golang/paho"
)

type (
	// PahoClient implements Client on top of a connected paho.golang
	// client. The caller owns the connection lifecycle.
	PahoClient struct {
		client   *paho.Client
		clientID string
	}

	pahoSubscription struct {
		client *paho.Client
		topic  string
		done   func()
	}
)

// NewPahoClient wraps a connected paho client. The client ID must match the
// one the session was established with.
func NewPahoClient(client *paho.Client, clientID string) *PahoClient {
	return &PahoClient{client, clientID}
}

// ClientID returns the identifier used by this client.
func (c *PahoClient) ClientID() string {
	return c.clientID
}

// Publish sends a publish request to the MQTT broker.
func (c *PahoClient) Publish(
	ctx context.Context,
	topic string,
	payload []byte,
	opts ...PublishOption,
) error {
	var opt PublishOptions
	opt.Apply(opts)

	pub := &paho.Publish{
		QoS:     opt.QoS,
		Topic:   topic,
		Payload: payload,
		Properties: &paho.PublishProperties{
			ContentType:     opt.ContentType,
			CorrelationData: opt.CorrelationData,
			ResponseTopic:   opt.ResponseTopic,
			User:            mapToUserProperties(opt.UserProperties),
		},
	}

	res, err := c.client.Publish(ctx, pub)

	// Paho may return (nil, nil) for QoS 0.
	if pub.QoS == 0 && res == nil && err == nil {
		return nil
	}
	return err
}

// Subscribe sends a subscription request to the MQTT broker and registers
// the handler for messages received on the topic.
func (c *PahoClient) Subscribe(
	ctx context.Context,
	topic string,
	handler MessageHandler,
	opts ...SubscribeOption,
) (Subscription, error) {
	var opt SubscribeOptions
	opt.Apply(opts)

	done := c.client.AddOnPublishReceived(
		func(pb paho.PublishReceived) (bool, error) {
			if !IsTopicFilterMatch(topic, pb.Packet.Topic) {
				return false, nil
			}
			return true, handler(ctx, buildMessage(pb.Packet))
		},
	)

	sub := &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{{
			Topic:   topic,
			QoS:     opt.QoS,
			NoLocal: opt.NoLocal,
		}},
	}
	if _, err := c.client.Subscribe(ctx, sub); err != nil {
		done()
		return nil, err
	}

	return &pahoSubscription{c.client, topic, done}, nil
}

// Unsubscribe this subscription.
func (s *pahoSubscription) Unsubscribe(ctx context.Context) error {
	unsub := &paho.Unsubscribe{Topics: []string{s.topic}}
	if _, err := s.client.Unsubscribe(ctx, unsub); err != nil {
		return err
	}
	s.done()
	return nil
}

func buildMessage(p *paho.Publish) *Message {
	msg := &Message{
		Topic:   p.Topic,
		Payload: p.Payload,
		PublishOptions: PublishOptions{
			QoS: p.QoS,
		},
	}
	if p.Properties != nil {
		msg.ContentType = p.Properties.ContentType
		msg.CorrelationData = p.Properties.CorrelationData
		msg.ResponseTopic = p.Properties.ResponseTopic
		msg.UserProperties = userPropertiesToMap(p.Properties.User)
	}
	return msg
}

func mapToUserProperties(m map[string]string) paho.UserProperties {
	ups := make(paho.UserProperties, 0, len(m))
	for key, value := range m {
		ups = append(ups, paho.UserProperty{Key: key, Value: value})
	}
	return ups
}

func userPropertiesToMap(ups paho.UserProperties) map[string]string {
	if len(ups) == 0 {
		return nil
	}
	m := make(map[string]string, len(ups))
	for _, up := range ups {
		m[up.Key] = up.Value
	}
	return m
}
