// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package sensor

type (
	// Selection specifies a subset of timeline-aligned samples: a single
	// index, a contiguous range, a sequence of indices or a boolean mask.
	// A nil Selection selects everything.
	Selection interface {
		// Resolve returns the selected indices into a sequence of length n.
		// Indices outside [0, n) are discarded.
		Resolve(n int) []int
	}

	// Index selects a single sample.
	Index int

	// Range selects the contiguous half-open index range [Start, Stop).
	Range struct {
		Start int
		Stop  int
	}

	// Indices selects an explicit sequence of samples.
	Indices []int

	// Mask selects the samples whose mask entry is true.
	Mask []bool
)

// Resolve returns the selected indices into a sequence of length n.
func (s Index) Resolve(n int) []int {
	if int(s) < 0 || int(s) >= n {
		return nil
	}
	return []int{int(s)}
}

// Resolve returns the selected indices into a sequence of length n.
func (s Range) Resolve(n int) []int {
	start, stop := s.Start, s.Stop
	if start < 0 {
		start = 0
	}
	if stop > n {
		stop = n
	}
	if start >= stop {
		return nil
	}
	idx := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		idx = append(idx, i)
	}
	return idx
}

// Resolve returns the selected indices into a sequence of length n.
func (s Indices) Resolve(n int) []int {
	idx := make([]int, 0, len(s))
	for _, i := range s {
		if i >= 0 && i < n {
			idx = append(idx, i)
		}
	}
	return idx
}

// Resolve returns the selected indices into a sequence of length n.
func (s Mask) Resolve(n int) []int {
	idx := make([]int, 0, n)
	for i, keep := range s {
		if i >= n {
			break
		}
		if keep {
			idx = append(idx, i)
		}
	}
	return idx
}

// Apply returns the subset of data chosen by the selection. A nil selection
// returns the data unchanged; the input is never mutated.
func Apply[T any](sel Selection, data []T) []T {
	if sel == nil {
		return data
	}
	idx := sel.Resolve(len(data))
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = data[j]
	}
	return out
}
