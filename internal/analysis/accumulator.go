// SPDX-License-Identifier: MIT
package analysis

import "fmt"

// Accumulator reassembles an unbounded stream of arbitrarily sized chunks
// into consecutive, non-overlapping windows of exactly Size samples. Every
// pushed sample appears in exactly one window, in order, or is still
// buffered.
//
// Accumulator is not safe for concurrent use. It is owned by the producer.
type Accumulator struct {
	size int
	buf  []float32
}

// NewAccumulator panics if size is not positive.
func NewAccumulator(size int) *Accumulator {
	if size <= 0 {
		panic(fmt.Sprintf("analysis: accumulator size must be positive, got %d", size))
	}
	return &Accumulator{size: size, buf: make([]float32, 0, size)}
}

// Push appends chunk and returns a completed window when one is available.
// The returned slice is handed over to the caller; the accumulator keeps no
// reference to it.
//
// A chunk larger than the free space can complete more than one window. Only
// one is returned per call, the rest stays buffered, so callers drain with
//
//	for w, ok := acc.Push(chunk); ok; w, ok = acc.Push(nil) {
//		...
//	}
func (a *Accumulator) Push(chunk []float32) ([]float32, bool) {
	if len(a.buf) >= a.size {
		// Already holds a full window from an earlier oversized chunk.
		window := a.buf[:a.size:a.size]
		a.buf = a.carry(a.buf[a.size:], chunk)
		return window, true
	}

	need := a.size - len(a.buf)
	if len(chunk) < need {
		a.buf = append(a.buf, chunk...)
		return nil, false
	}

	window := append(a.buf, chunk[:need]...)
	a.buf = a.carry(chunk[need:], nil)
	return window, true
}

// carry builds a fresh buffer holding head followed by tail.
func (a *Accumulator) carry(head, tail []float32) []float32 {
	next := make([]float32, 0, max(a.size, len(head)+len(tail)))
	next = append(next, head...)
	return append(next, tail...)
}

// Buffered returns the number of samples waiting for the next window.
func (a *Accumulator) Buffered() int { return len(a.buf) }

// Size returns the window length.
func (a *Accumulator) Size() int { return a.size }

// Reset discards buffered samples.
func (a *Accumulator) Reset() { a.buf = a.buf[:0] }
