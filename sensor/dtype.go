// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

import "math"

// DType tags the element type of a sensor value sequence.
type DType int

// The following are the supported element types. Anything that is not a
// scalar number, string or boolean (notably array-valued readings) is
// treated as an opaque object and compared only for equality.
const (
	DTypeFloat DType = iota
	DTypeInt
	DTypeString
	DTypeBool
	DTypeObject
)

// IsFloat reports whether the element type is floating-point. Sensors whose
// type is not floating-point default to categorical interpolation.
func (t DType) IsFloat() bool {
	return t == DTypeFloat
}

// String returns the element type name.
func (t DType) String() string {
	switch t {
	case DTypeFloat:
		return "float64"
	case DTypeInt:
		return "int64"
	case DTypeString:
		return "string"
	case DTypeBool:
		return "bool"
	default:
		return "object"
	}
}

// defaultValue is the filler used when a sensor has no usable data and no
// initial_value property.
func (t DType) defaultValue() any {
	switch t {
	case DTypeFloat:
		return math.NaN()
	case DTypeInt:
		return int64(-1)
	case DTypeString:
		return ""
	case DTypeBool:
		return false
	default:
		return nil
	}
}

// DTypeOf derives the element type tag of a single sensor value. Slices,
// maps and other non-scalar values map to DTypeObject, preserving the
// invariant that sensor values are logically one-dimensional.
func DTypeOf(value any) DType {
	switch value.(type) {
	case float64, float32:
		return DTypeFloat
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return DTypeInt
	case string:
		return DTypeString
	case bool:
		return DTypeBool
	default:
		return DTypeObject
	}
}
