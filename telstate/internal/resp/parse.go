// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package resp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarao-sdp/telescope-sdks/go/data/telstate/errors"
)

// Bytes constrains the output forms of a parsed blob.
type Bytes interface{ ~[]byte | ~string }

// PayloadError builds a formatted payload error.
func PayloadError(format string, args ...any) errors.Payload {
	return errors.Payload(fmt.Sprintf(format, args...))
}

func parseStr(typ byte, data []byte) (arg string, idx int, err error) {
	sep := bytes.Index(data, separator)
	if sep < 0 {
		return "", 0, PayloadError("missing separator")
	}

	arg = string(data[1:sep])
	idx = sep + len(separator)

	switch data[0] {
	case '-':
		return "", 0, errors.Service(strings.TrimPrefix(arg, "ERR "))
	case typ:
		return arg, idx, nil
	default:
		return "", 0, PayloadError("wrong type %q", data[0])
	}
}

func parseNum(typ byte, data []byte) (num, idx int, err error) {
	val, idx, err := parseStr(typ, data)
	if err != nil {
		return 0, 0, err
	}

	num, err = strconv.Atoi(val)
	if err != nil {
		return 0, 0, PayloadError("invalid number %q", val)
	}

	return num, idx, nil
}

func parseBlob[T Bytes](typ byte, data []byte) (blob T, idx int, err error) {
	var zero T

	n, idx, err := parseNum(typ, data)
	if err != nil {
		return zero, 0, err
	}

	if n == -1 {
		return zero, idx, nil
	}

	length := len(data) - idx - len(separator)
	if length < n {
		return zero, idx, PayloadError("insufficient data")
	}

	if data[idx+n] != separator[0] || data[idx+n+1] != separator[1] {
		return zero, idx, PayloadError("missing separator")
	}

	return T(data[idx : idx+n]), idx + n + len(separator), nil
}

// String parses a simple string response.
func String(data []byte) (string, error) {
	str, _, err := parseStr('+', data)
	return str, err
}

// Number parses a numeric response.
func Number(data []byte) (int, error) {
	num, _, err := parseNum(':', data)
	return num, err
}

// Blob parses a single blob response.
func Blob[T Bytes](data []byte) (T, error) {
	blob, _, err := parseBlob[T]('$', data)
	return blob, err
}

// BlobArray parses a blob array response.
func BlobArray[T Bytes](data []byte) ([]T, error) {
	n, idx, err := parseNum('*', data)
	if err != nil {
		return nil, err
	}

	ary := make([]T, n)
	for i := 0; i < n; i++ {
		data = data[idx:]
		ary[i], idx, err = parseBlob[T]('$', data)
		if err != nil {
			return nil, err
		}
	}

	return ary, nil
}

// Samples parses a RANGE response: a blob array of alternating value and
// timestamp blobs, where timestamps are decimal seconds since the Unix
// epoch. It returns the values and timestamps as parallel sequences.
func Samples(data []byte) (values [][]byte, times []float64, err error) {
	ary, err := BlobArray[[]byte](data)
	if err != nil {
		return nil, nil, err
	}
	if len(ary)%2 != 0 {
		return nil, nil, PayloadError("odd sample array length %d", len(ary))
	}

	n := len(ary) / 2
	values = make([][]byte, n)
	times = make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = ary[2*i]
		times[i], err = strconv.ParseFloat(string(ary[2*i+1]), 64)
		if err != nil {
			return nil, nil, PayloadError("invalid timestamp %q", ary[2*i+1])
		}
	}
	return values, times, nil
}
