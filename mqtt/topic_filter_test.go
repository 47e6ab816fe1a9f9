// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package mqtt_test

import (
	"testing"

	"github.com/sarao-sdp/telescope-sdks/go/data/mqtt"
	"github.com/stretchr/testify/require"
)

func TestTopicFilterMatch(t *testing.T) {
	tests := []struct {
		filter   string
		topic    string
		expected bool
	}{
		{"clients/+/telstate/response", "clients/c1/telstate/response", true},
		{"clients/+/telstate/response", "clients/c2/telstate/response", true},
		{"clients/+/telstate/response", "clients/c1/telstate/response/x", false},
		{"telstate/#", "telstate", true},
		{"telstate/#", "telstate/v1", true},
		{"telstate/#", "telstate/v1/command/invoke", true},
		{"telstate/v1/command/invoke", "telstate/v1/command/invoke", true},
		{"telstate/v1/command/invoke", "telstate/v1/command/other", false},
		{"clients/+/telstate/#", "clients/c1/telstate", true},
		{"clients/+/telstate/#", "clients/c1/telstate/response/x", true},
		{"clients/#/telstate", "clients/c1/telstate", false}, // Invalid filter
	}

	for _, test := range tests {
		isMatched := mqtt.IsTopicFilterMatch(test.filter, test.topic)
		require.Equal(
			t,
			test.expected,
			isMatched,
			"Topic filter: %s, Topic name: %s",
			test.filter,
			test.topic,
		)
	}
}
