// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

// Package mqtt defines the MQTT client contract consumed by the telescope
// state client, along with an implementation backed by paho.golang.
// Connection management (dialing, reconnection, authentication) is owned by
// the caller, who supplies a connected client.
package mqtt

import "context"

type (
	// Client represents the underlying MQTT client utilized by this
	// library.
	Client interface {
		// Subscribe sends a subscription request to the MQTT broker. It
		// returns a subscription object which can be used to unsubscribe.
		Subscribe(
			ctx context.Context,
			topic string,
			handler MessageHandler,
			opts ...SubscribeOption,
		) (Subscription, error)

		// Publish sends a publish request to the MQTT broker.
		Publish(
			ctx context.Context,
			topic string,
			payload []byte,
			opts ...PublishOption,
		) error

		// ClientID returns the identifier used by this client.
		ClientID() string
	}

	// Message represents a received message.
	Message struct {
		Topic   string
		Payload []byte
		PublishOptions
	}

	// MessageHandler is a callback function used to handle messages
	// received on the subscribed topic.
	MessageHandler func(context.Context, *Message) error

	// Subscription represents an open subscription.
	Subscription interface {
		// Unsubscribe this subscription.
		Unsubscribe(ctx context.Context) error
	}

	// SubscribeOptions are the resolved subscribe options.
	SubscribeOptions struct {
		NoLocal bool
		QoS     byte
	}

	// SubscribeOption represents a single subscribe option.
	SubscribeOption interface{ subscribe(*SubscribeOptions) }

	// PublishOptions are the resolved publish options.
	PublishOptions struct {
		ContentType     string
		CorrelationData []byte
		QoS             byte
		ResponseTopic   string
		UserProperties  map[string]string
	}

	// PublishOption represents a single publish option.
	PublishOption interface{ publish(*PublishOptions) }

	// WithQoS sets the quality-of-service level of a publish or subscribe.
	WithQoS byte

	// WithNoLocal requests that the broker not forward messages published
	// by this client back to it.
	WithNoLocal bool

	// WithContentType sets the content type of a publish.
	WithContentType string

	// WithCorrelationData sets the correlation data of a publish.
	WithCorrelationData []byte

	// WithResponseTopic sets the response topic of a publish.
	WithResponseTopic string

	// WithUserProperties sets the user properties of a publish.
	WithUserProperties map[string]string
)

func (o WithQoS) publish(opt *PublishOptions) { opt.QoS = byte(o) }

func (o WithQoS) subscribe(opt *SubscribeOptions) { opt.QoS = byte(o) }

func (o WithNoLocal) subscribe(opt *SubscribeOptions) { opt.NoLocal = bool(o) }

func (o WithContentType) publish(opt *PublishOptions) { opt.ContentType = string(o) }

func (o WithCorrelationData) publish(opt *PublishOptions) {
	opt.CorrelationData = []byte(o)
}

func (o WithResponseTopic) publish(opt *PublishOptions) {
	opt.ResponseTopic = string(o)
}

func (o WithUserProperties) publish(opt *PublishOptions) {
	opt.UserProperties = map[string]string(o)
}

// Apply resolves the provided list of options.
func (o *SubscribeOptions) Apply(
	opts []SubscribeOption,
	rest ...SubscribeOption,
) {
	for _, opt := range opts {
		if opt != nil {
			opt.subscribe(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.subscribe(o)
		}
	}
}

// Apply resolves the provided list of options.
func (o *PublishOptions) Apply(opts []PublishOption, rest ...PublishOption) {
	for _, opt := range opts {
		if opt != nil {
			opt.publish(o)
		}
	}
	for _, opt := range rest {
		if opt != nil {
			opt.publish(o)
		}
	}
}

func (o *SubscribeOptions) subscribe(opt *SubscribeOptions) {
	if o != nil {
		*opt = *o
	}
}

func (o *PublishOptions) publish(opt *PublishOptions) {
	if o != nil {
		*opt = *o
	}
}
