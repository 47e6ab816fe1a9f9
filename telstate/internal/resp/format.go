// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package resp

import "strconv"

var separator = []byte{'\r', '\n'}

// FormatBlob frames a single argument as a length-prefixed blob.
func FormatBlob(blob string) []byte {
	data := strconv.AppendInt([]byte{'$'}, int64(len(blob)), 10)
	data = append(data, separator...)
	data = append(data, blob...)
	data = append(data, separator...)
	return data
}

// FormatBlobArray frames a command and its arguments as a blob array, the
// request form of every telescope state invocation.
func FormatBlobArray(ary ...string) []byte {
	data := strconv.AppendInt([]byte{'*'}, int64(len(ary)), 10)
	data = append(data, separator...)
	for _, blob := range ary {
		data = append(data, FormatBlob(blob)...)
	}
	return data
}
