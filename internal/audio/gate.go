// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"sync/atomic"
)

// Gate silences chunks whose peak absolute amplitude stays below a
// threshold. A closed gate zeroes the chunk in place rather than dropping
// it, so downstream windows keep their timing.
//
// The threshold can be changed from any goroutine while the audio callback
// is applying the gate.
type Gate struct {
	enabled   atomic.Bool
	threshold atomic.Uint32 // math.Float32bits of a value in [0, 1]
}

// NewGate returns a gate that is enabled when threshold > 0.
func NewGate(threshold float64) *Gate {
	g := &Gate{}
	g.SetThreshold(threshold)
	g.enabled.Store(threshold > 0)
	return g
}

func (g *Gate) Enable()  { g.enabled.Store(true) }
func (g *Gate) Disable() { g.enabled.Store(false) }

func (g *Gate) Enabled() bool { return g != nil && g.enabled.Load() }

// SetThreshold adjusts the noise gate threshold.
// The value is in the range of 0.0-1.0 where 0=always open, 1=always closed.
func (g *Gate) SetThreshold(threshold float64) {
	threshold = min(max(threshold, 0), 1)
	g.threshold.Store(math.Float32bits(float32(threshold)))
}

// Threshold returns the current threshold in [0, 1].
func (g *Gate) Threshold() float64 {
	return float64(math.Float32frombits(g.threshold.Load()))
}

// Apply zeroes chunk when the gate is enabled and the chunk's peak is below
// the threshold. It reports whether the chunk passed. A nil gate passes
// everything.
func (g *Gate) Apply(chunk []float32) bool {
	if !g.Enabled() {
		return true
	}
	if Peak(chunk) >= math.Float32frombits(g.threshold.Load()) {
		return true
	}
	clear(chunk)
	return false
}

// Peak returns the largest absolute sample value in chunk.
func Peak(chunk []float32) float32 {
	var peak float32
	for _, s := range chunk {
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	return peak
}
