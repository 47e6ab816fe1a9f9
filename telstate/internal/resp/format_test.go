// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package resp_test

import (
	"testing"

	"github.com/sarao-sdp/telescope-sdks/go/data/telstate/internal/resp"
	"github.com/stretchr/testify/require"
)

func TestFormatBlob(t *testing.T) {
	require.Equal(t,
		[]byte("$8\r\nobs_wind\r\n"),
		resp.FormatBlob("obs_wind"),
	)
}

func TestFormatBlobArray(t *testing.T) {
	require.Equal(t,
		[]byte("*2\r\n$6\r\nEXISTS\r\n$8\r\nobs_wind\r\n"),
		resp.FormatBlobArray("EXISTS", "obs_wind"),
	)
	require.Equal(t,
		[]byte("*3\r\n$5\r\nRANGE\r\n$8\r\nobs_wind\r\n$1\r\n0\r\n"),
		resp.FormatBlobArray("RANGE", "obs_wind", "0"),
	)
}
