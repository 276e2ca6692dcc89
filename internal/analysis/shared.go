// SPDX-License-Identifier: MIT
package analysis

import "sync"

// SharedSpectrum is the hand-off between the audio callback, which
// publishes a spectrum after every completed window, and the render loop,
// which copies it out once per tick. Each field has a single writer:
//
//	spectrum  audio callback (Publish)
//	paused    input handling (TogglePause / SetPaused)
//	cursor    input handling (SetCursor / ClearCursor)
//
// Lock hold times are bounded by one spectrum copy. Nothing here blocks on
// the other side.
type SharedSpectrum struct {
	mu         sync.Mutex
	spectrum   []float32
	generation uint64

	pauseMu sync.Mutex
	paused  bool

	cursorMu  sync.Mutex
	cursor    int
	hasCursor bool
}

func NewSharedSpectrum() *SharedSpectrum {
	return &SharedSpectrum{}
}

// Publish replaces the stored spectrum with a copy of spectrum. It runs
// regardless of the pause flag; pausing only freezes readers.
func (s *SharedSpectrum) Publish(spectrum []float32) {
	s.mu.Lock()
	if cap(s.spectrum) < len(spectrum) {
		s.spectrum = make([]float32, len(spectrum))
	}
	s.spectrum = s.spectrum[:len(spectrum)]
	copy(s.spectrum, spectrum)
	s.generation++
	s.mu.Unlock()
}

// Latest copies the stored spectrum into dst (reallocating only when dst is
// too small) and returns it with its generation.
func (s *SharedSpectrum) Latest(dst []float32) ([]float32, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(dst) < len(s.spectrum) {
		dst = make([]float32, len(s.spectrum))
	}
	dst = dst[:len(s.spectrum)]
	copy(dst, s.spectrum)
	return dst, s.generation
}

func (s *SharedSpectrum) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// TogglePause flips the pause flag and returns the new state.
func (s *SharedSpectrum) TogglePause() bool {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	s.paused = !s.paused
	return s.paused
}

func (s *SharedSpectrum) SetPaused(paused bool) {
	s.pauseMu.Lock()
	s.paused = paused
	s.pauseMu.Unlock()
}

func (s *SharedSpectrum) Paused() bool {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	return s.paused
}

// SetCursor records the last observed horizontal position in graph pixels.
func (s *SharedSpectrum) SetCursor(x int) {
	s.cursorMu.Lock()
	s.cursor, s.hasCursor = x, true
	s.cursorMu.Unlock()
}

// ClearCursor forgets the cursor, e.g. when the pointer leaves the graph.
func (s *SharedSpectrum) ClearCursor() {
	s.cursorMu.Lock()
	s.cursor, s.hasCursor = 0, false
	s.cursorMu.Unlock()
}

// Cursor returns the cursor position and whether one has been set.
func (s *SharedSpectrum) Cursor() (int, bool) {
	s.cursorMu.Lock()
	defer s.cursorMu.Unlock()
	return s.cursor, s.hasCursor
}
