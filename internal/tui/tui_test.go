// SPDX-License-Identifier: MIT
package tui

import (
	"sync"
	"testing"

	"freqscope/internal/analysis"
	"freqscope/internal/transport"
)

// recordingTransport keeps every message sent to it.
type recordingTransport struct {
	mu   sync.Mutex
	msgs []any
}

func (r *recordingTransport) Send(data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, data)
	return nil
}

func (r *recordingTransport) Close() error { return nil }

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func (r *recordingTransport) last() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return nil
	}
	return r.msgs[len(r.msgs)-1]
}

var _ transport.Transport = (*recordingTransport)(nil)

// newTestPipeline returns a graph of five 20px bars over a 16 bin spectrum
// whose loudest displayed bin is 2.
func newTestPipeline(t *testing.T) (*analysis.SharedSpectrum, *analysis.Graph) {
	t.Helper()
	shared := analysis.NewSharedSpectrum()
	selector := analysis.BinSelector{WindowSize: 16, SampleRate: 1600, MaxFrequency: 500}
	graph := analysis.NewGraph(shared, selector, 100, 200)

	spectrum := make([]float32, 16)
	copy(spectrum, []float32{0, 1, 5, 2, 0.5})
	shared.Publish(spectrum)
	return shared, graph
}
