// SPDX-License-Identifier: MIT
package analysis

import "freqscope/internal/note"

// MaxBinsDisplayed returns how many leading bins cover frequencies up to
// maxFrequency, capped at the spectrum length.
func MaxBinsDisplayed(maxFrequency float64, spectrumLen int, sampleRate float64) int {
	if sampleRate <= 0 || maxFrequency <= 0 {
		return 0
	}
	n := int(maxFrequency * float64(spectrumLen) / sampleRate)
	return min(n, spectrumLen)
}

// SelectBin maps a horizontal position to the bin drawn under it. Positions
// at or beyond the right edge of the last bar, negative positions and a
// degenerate layout (no bars, zero-width bars) select nothing.
func SelectBin(cursor, barWidth, maxBins int) (int, bool) {
	if barWidth <= 0 || maxBins <= 0 || cursor < 0 {
		return 0, false
	}
	if cursor >= barWidth*maxBins {
		return 0, false
	}
	return (cursor / barWidth) % maxBins, true
}

// BinSelector holds the stream parameters needed to turn a cursor into a
// bin and a bin into a note.
type BinSelector struct {
	WindowSize   int
	SampleRate   float64
	MaxFrequency float64
}

// MaxBinsDisplayed for a spectrum of spectrumLen bins.
func (s BinSelector) MaxBinsDisplayed(spectrumLen int) int {
	return MaxBinsDisplayed(s.MaxFrequency, spectrumLen, s.SampleRate)
}

// BarWidth is the whole-pixel width of one bar across width pixels, or 0
// when nothing can be displayed.
func (s BinSelector) BarWidth(width, spectrumLen int) int {
	bins := s.MaxBinsDisplayed(spectrumLen)
	if bins <= 0 || width <= 0 {
		return 0
	}
	return width / bins
}

// Select returns the bin under cursor for a working spectrum of spectrumLen
// bins. Before the first full window has been transformed there is nothing
// to select.
func (s BinSelector) Select(cursor, barWidth, spectrumLen int) (int, bool) {
	if spectrumLen < s.WindowSize || spectrumLen == 0 {
		return 0, false
	}
	return SelectBin(cursor, barWidth, s.MaxBinsDisplayed(spectrumLen))
}

// Status derives the note for bin of a spectrum with spectrumLen bins.
func (s BinSelector) Status(bin, spectrumLen int) note.Status {
	return note.NewStatus(note.BinIndexToFrequency(bin, spectrumLen, s.SampleRate))
}
