// SPDX-License-Identifier: MIT
// Package utils holds signal generators and doubles shared by tests across
// the module.
package utils

import (
	"math"
	"math/rand/v2"
	"sync"
)

// MockTransport records everything sent to it. It satisfies the
// transport.Transport interface.
type MockTransport struct {
	mu     sync.Mutex
	sent   []any
	closed bool
}

// Send stores the value. Float slices are copied so later mutation by the
// sender does not leak into the record.
func (m *MockTransport) Send(data any) error {
	switch v := data.(type) {
	case []float32:
		data = append([]float32(nil), v...)
	case []float64:
		data = append([]float64(nil), v...)
	}
	m.mu.Lock()
	m.sent = append(m.sent, data)
	m.mu.Unlock()
	return nil
}

func (m *MockTransport) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of everything received so far.
func (m *MockTransport) Sent() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.sent...)
}

// Last returns the most recent value, or nil.
func (m *MockTransport) Last() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GenerateSineWave returns size samples of a 0.9 amplitude sine.
func GenerateSineWave(size int, sampleRate, frequency float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * 0.9)
	}
	return buffer
}

// GenerateComplexWave returns a 440 Hz fundamental with two harmonics.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = float32(signal * 0.9)
	}
	return buffer
}

// GenerateRamp returns 0, 1, 2, ... so reassembled streams can be checked
// sample by sample.
func GenerateRamp(size int) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		buffer[i] = float32(i)
	}
	return buffer
}

// SplitRandom cuts samples into consecutive chunks of 0..maxChunk samples.
// Empty chunks are included on purpose: drivers do deliver them.
func SplitRandom(samples []float32, maxChunk int, rng *rand.Rand) [][]float32 {
	var chunks [][]float32
	for len(samples) > 0 {
		n := rng.IntN(maxChunk + 1)
		if n > len(samples) {
			n = len(samples)
		}
		chunks = append(chunks, samples[:n:n])
		samples = samples[n:]
	}
	return chunks
}

// SplitSizes cuts samples into chunks of the given sizes, cycling through
// sizes until the input is used up.
func SplitSizes(samples []float32, sizes ...int) [][]float32 {
	var chunks [][]float32
	for i := 0; len(samples) > 0; i++ {
		n := sizes[i%len(sizes)]
		if n > len(samples) {
			n = len(samples)
		}
		chunks = append(chunks, samples[:n:n])
		samples = samples[n:]
	}
	return chunks
}

// FindPeakBin returns the index of the largest magnitude in [startBin, endBin].
func FindPeakBin(magnitudes []float32, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}
	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}
	return peakBin
}
