// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
	"strings"

	"freqscope/internal/note"
)

// Graph layout in virtual pixels.
const (
	GroundHeight = 30  // Gap below the bars
	PaddingTop   = 10  // Gap above the tallest possible bar
	peakHeadroom = 1.1 // The loudest bar reaches 1/1.1 of the drawable height
)

// FrequencyData is the payload attached to each bar.
type FrequencyData struct {
	Note                note.Status `json:"note"`
	AmplitudePercentage uint8       `json:"amplitude_percentage"` // Relative to the loudest bin
	BinIndex            int         `json:"bin"`
}

// Bar is one rectangle of the graph. Y grows downwards from the top edge.
type Bar struct {
	X, Y          int
	Width, Height int
	Data          FrequencyData
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	Bars         []Bar
	Selected     int // Index into Bars, valid when HasSelection
	HasSelection bool
	PeakBar      int // Loudest displayed bar, -1 when there are no bars
	Paused       bool
	SpectrumLen  int
	Generation   uint64
}

// Empty reports the startup transient: no window has been transformed yet.
func (f Frame) Empty() bool { return len(f.Bars) == 0 }

// SelectedBar returns the bar under the cursor.
func (f Frame) SelectedBar() (Bar, bool) {
	if !f.HasSelection || f.Selected >= len(f.Bars) {
		return Bar{}, false
	}
	return f.Bars[f.Selected], true
}

// FocusBar returns the selected bar, falling back to the loudest one.
func (f Frame) FocusBar() (Bar, bool) {
	if bar, ok := f.SelectedBar(); ok {
		return bar, true
	}
	if f.PeakBar < 0 || f.PeakBar >= len(f.Bars) {
		return Bar{}, false
	}
	return f.Bars[f.PeakBar], true
}

// Graph turns the shared spectrum into bars once per tick. It keeps its
// own working copy, which is left untouched while paused.
//
// Graph is used from the render loop only.
type Graph struct {
	shared   *SharedSpectrum
	selector BinSelector
	width    int
	height   int

	working    []float32
	generation uint64
}

func NewGraph(shared *SharedSpectrum, selector BinSelector, width, height int) *Graph {
	return &Graph{
		shared:   shared,
		selector: selector,
		width:    width,
		height:   height,
		working:  make([]float32, 0, selector.WindowSize),
	}
}

// Resize changes the virtual canvas. It takes effect on the next Run.
func (g *Graph) Resize(width, height int) {
	g.width, g.height = width, height
}

func (g *Graph) Width() int  { return g.width }
func (g *Graph) Height() int { return g.height }

// BarWidth of the current layout, 0 before the first spectrum arrives.
func (g *Graph) BarWidth() int {
	return g.selector.BarWidth(g.width, len(g.working))
}

// Working returns the spectrum the last frame was built from. The slice is
// owned by the graph and only valid until the next Run.
func (g *Graph) Working() []float32 { return g.working }

// Run builds the next frame.
func (g *Graph) Run() Frame {
	paused := g.shared.Paused()
	if !paused {
		g.working, g.generation = g.shared.Latest(g.working)
	}

	frame := Frame{
		PeakBar:     -1,
		Paused:      paused,
		SpectrumLen: len(g.working),
		Generation:  g.generation,
	}
	if len(g.working) < g.selector.WindowSize || len(g.working) == 0 {
		return frame
	}

	bins := g.selector.MaxBinsDisplayed(len(g.working))
	barWidth := g.selector.BarWidth(g.width, len(g.working))
	if bins == 0 {
		return frame
	}

	var peak float32
	for _, m := range g.working {
		peak = max(peak, m)
	}

	drawable := max(g.height-GroundHeight-PaddingTop, 0)
	frame.Bars = make([]Bar, bins)
	for i, mag := range g.working[:bins] {
		var barHeight int
		var amplitude uint8
		if peak > 0 {
			barHeight = int(float32(drawable) * mag / (peak * peakHeadroom))
			amplitude = uint8(math.Round(float64(mag / peak * 100)))
		}
		frame.Bars[i] = Bar{
			X:      barWidth * i,
			Y:      g.height - GroundHeight - barHeight,
			Width:  barWidth,
			Height: barHeight,
			Data: FrequencyData{
				Note:                g.selector.Status(i, len(g.working)),
				AmplitudePercentage: amplitude,
				BinIndex:            i,
			},
		}
		if frame.PeakBar < 0 || mag > g.working[frame.PeakBar] {
			frame.PeakBar = i
		}
	}

	if cursor, ok := g.shared.Cursor(); ok {
		frame.Selected, frame.HasSelection = g.selector.Select(cursor, barWidth, len(g.working))
	}
	return frame
}

// ColorMode selects how bars are coloured.
type ColorMode int

const (
	ColorAmplitude ColorMode = iota // Blue for quiet bins through red for the loudest
	ColorError                      // Green in tune, red sharp, yellow flat
)

// ParseColorMode accepts "amplitude" and "error".
func ParseColorMode(name string) (ColorMode, error) {
	switch strings.ToLower(name) {
	case "", "amplitude":
		return ColorAmplitude, nil
	case "error":
		return ColorError, nil
	default:
		return ColorAmplitude, fmt.Errorf("unknown color mode %q", name)
	}
}

// RGB is an opaque 8-bit colour.
type RGB struct{ R, G, B uint8 }

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Background is the canvas colour behind the bars.
var Background = RGB{240, 240, 240}

var (
	colorSharp  = RGB{239, 71, 111}
	colorFlat   = RGB{255, 209, 102}
	colorInTune = RGB{6, 214, 160}
	redRange    = [2]float64{63, 200}
	blueRange   = [2]float64{104, 184}
)

const (
	errorGap   = 20
	amplitudeG = 36
)

// Color returns the fill colour of b under mode.
func (b Bar) Color(mode ColorMode) RGB {
	if mode == ColorError {
		switch e := b.Data.Note.ErrorPercentage; {
		case e > errorGap:
			return colorSharp
		case e < -errorGap:
			return colorFlat
		default:
			return colorInTune
		}
	}

	a := float64(b.Data.AmplitudePercentage) / 100
	return RGB{
		R: uint8(math.Round(a*(redRange[1]-redRange[0]) + redRange[0])),
		G: amplitudeG,
		B: uint8(math.Round((1-a)*(blueRange[1]-blueRange[0]) + blueRange[0])),
	}
}

// FormatStatus renders the one-line console summary for bar.
func FormatStatus(f Frame, bar Bar) string {
	d := bar.Data
	return fmt.Sprintf("Buffer_len: %6d Amplitude Percentage: %3d Freq[%4d]: %10.2fHz (%s%d). Out of tune: %4d%%",
		f.SpectrumLen, d.AmplitudePercentage, d.BinIndex, d.Note.FrequencyHz, d.Note.Name(), d.Note.Octave(), d.Note.ErrorPercentage)
}
