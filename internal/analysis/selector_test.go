// SPDX-License-Identifier: MIT
package analysis

import "testing"

func TestSelectBin(t *testing.T) {
	tests := []struct {
		name     string
		cursor   int
		barWidth int
		maxBins  int
		want     int
		wantOK   bool
	}{
		{"origin", 0, 5, 10, 0, true},
		{"inside first bar", 4, 5, 10, 0, true},
		{"second bar", 5, 5, 10, 1, true},
		{"last bar", 49, 5, 10, 9, true},
		{"right edge of last bar", 50, 5, 10, 0, false},
		{"beyond last bar", 52, 5, 10, 0, false},
		{"negative cursor", -1, 5, 10, 0, false},
		{"zero bar width", 3, 0, 10, 0, false},
		{"no bins", 3, 5, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBin(tt.cursor, tt.barWidth, tt.maxBins)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SelectBin(%d, %d, %d) = (%d, %v), want (%d, %v)",
					tt.cursor, tt.barWidth, tt.maxBins, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMaxBinsDisplayed(t *testing.T) {
	tests := []struct {
		maxFreq     float64
		spectrumLen int
		sampleRate  float64
		want        int
	}{
		{3000, 4096, 44100, 278},
		{22050, 4096, 44100, 2048},
		{1e6, 4096, 44100, 4096},
		{3000, 0, 44100, 0},
		{0, 4096, 44100, 0},
		{3000, 4096, 0, 0},
	}
	for _, tt := range tests {
		if got := MaxBinsDisplayed(tt.maxFreq, tt.spectrumLen, tt.sampleRate); got != tt.want {
			t.Errorf("MaxBinsDisplayed(%v, %d, %v) = %d, want %d", tt.maxFreq, tt.spectrumLen, tt.sampleRate, got, tt.want)
		}
	}
}

func TestBinSelectorStartupTransient(t *testing.T) {
	s := BinSelector{WindowSize: 4096, SampleRate: 44100, MaxFrequency: 3000}
	for _, n := range []int{0, 1, 4095} {
		if _, ok := s.Select(0, 5, n); ok {
			t.Errorf("Select with spectrum of %d bins returned a bin", n)
		}
	}
	if w := s.BarWidth(1500, 0); w != 0 {
		t.Errorf("BarWidth with no spectrum = %d, want 0", w)
	}
}

func TestBinSelectorSelect(t *testing.T) {
	s := BinSelector{WindowSize: 4096, SampleRate: 44100, MaxFrequency: 3000}
	barWidth := s.BarWidth(1500, 4096)
	if barWidth != 5 {
		t.Fatalf("BarWidth = %d, want 5", barWidth)
	}
	if bin, ok := s.Select(41*barWidth+2, barWidth, 4096); !ok || bin != 41 {
		t.Errorf("Select = %d, %v, want 41", bin, ok)
	}
	if _, ok := s.Select(278*barWidth, barWidth, 4096); ok {
		t.Error("cursor past the last bar selected a bin")
	}

	st := s.Status(41, 4096)
	if st.Name() != "A " || st.Octave() != 4 {
		t.Errorf("Status(41) = %v, want A 4", st)
	}
}
