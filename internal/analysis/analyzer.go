// SPDX-License-Identifier: MIT
package analysis

import (
	"sync"
	"sync/atomic"

	"freqscope/internal/fft"
	"freqscope/internal/log"
)

// Analyzer is the producer side of the pipeline. Every chunk handed to
// Process is accumulated; each completed window is tapered, transformed and
// published to the shared spectrum before Process returns.
type Analyzer struct {
	mu          sync.Mutex // Serializes Process so chunks are consumed in arrival order
	acc         *Accumulator
	window      *fft.Window
	transformer fft.Transformer
	spectrum    []float32
	shared      *SharedSpectrum

	windows atomic.Uint64
	samples atomic.Uint64
}

// NewAnalyzer wires a transformer to shared. window may be nil for no taper.
func NewAnalyzer(shared *SharedSpectrum, transformer fft.Transformer, window *fft.Window) *Analyzer {
	size := transformer.Size()
	log.Infof("Analysis: Initializing analyzer (Window: %d, Transform: %s, Taper: %v)",
		size, transformer.Name(), window.Func())
	return &Analyzer{
		acc:         NewAccumulator(size),
		window:      window,
		transformer: transformer,
		spectrum:    make([]float32, size),
		shared:      shared,
	}
}

// Process implements AudioProcessor. It never logs and only allocates the
// accumulator's next buffer per completed window.
func (a *Analyzer) Process(chunk []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.samples.Add(uint64(len(chunk)))
	for w, ok := a.acc.Push(chunk); ok; w, ok = a.acc.Push(nil) {
		a.window.Apply(w)
		a.transformer.Magnitudes(a.spectrum, w)
		a.shared.Publish(a.spectrum)
		a.windows.Add(1)
	}
}

// Windows returns how many windows have been transformed.
func (a *Analyzer) Windows() uint64 { return a.windows.Load() }

// Samples returns how many samples have been pushed.
func (a *Analyzer) Samples() uint64 { return a.samples.Load() }

// Buffered returns the samples waiting for the next window.
func (a *Analyzer) Buffered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acc.Buffered()
}

// Close implements ClosableProcessor.
func (a *Analyzer) Close() error {
	log.Infof("Analysis: Closing analyzer after %d windows (%d samples)", a.Windows(), a.Samples())
	return nil
}
