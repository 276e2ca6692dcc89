// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the taper applied to a window before transforming it.
type WindowFunc int

const (
	Rectangular WindowFunc = iota // No taper; the raw samples are transformed
	BartlettHann
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

var windowNames = map[WindowFunc]string{
	Rectangular:     "none",
	BartlettHann:    "bartletthann",
	Blackman:        "blackman",
	BlackmanNuttall: "blackmannuttall",
	Hann:            "hann",
	Hamming:         "hamming",
	Lanczos:         "lanczos",
	Nuttall:         "nuttall",
}

func (w WindowFunc) String() string {
	if name, ok := windowNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WindowFunc(%d)", int(w))
}

// ParseWindowFunc converts a name (case-insensitive) to a WindowFunc.
// Unknown names return Rectangular and an error.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "", "none", "rectangular":
		return Rectangular, nil
	case "hanning":
		return Hann, nil
	}
	for w, n := range windowNames {
		if n == strings.ToLower(name) {
			return w, nil
		}
	}
	return Rectangular, fmt.Errorf("unknown window function name: %q", name)
}

// Window holds precomputed taper coefficients for one window size.
// A nil *Window is the rectangular window and leaves samples untouched.
type Window struct {
	fn     WindowFunc
	coeffs []float32
}

// NewWindow returns the coefficients of fn over size samples, or nil for
// Rectangular.
func NewWindow(fn WindowFunc, size int) *Window {
	if fn == Rectangular {
		return nil
	}
	// gonum's window functions multiply in place, so start from ones.
	seq := make([]float64, size)
	for i := range seq {
		seq[i] = 1
	}
	switch fn {
	case BartlettHann:
		window.BartlettHann(seq)
	case Blackman:
		window.Blackman(seq)
	case BlackmanNuttall:
		window.BlackmanNuttall(seq)
	case Hann:
		window.Hann(seq)
	case Hamming:
		window.Hamming(seq)
	case Lanczos:
		window.Lanczos(seq)
	case Nuttall:
		window.Nuttall(seq)
	default:
		panic(fmt.Sprintf("fft: unhandled window function %v", fn))
	}
	coeffs := make([]float32, size)
	for i, c := range seq {
		coeffs[i] = float32(c)
	}
	return &Window{fn: fn, coeffs: coeffs}
}

// Apply tapers samples in place.
func (w *Window) Apply(samples []float32) {
	if w == nil {
		return
	}
	for i := range samples {
		samples[i] *= w.coeffs[i]
	}
}

func (w *Window) Func() WindowFunc {
	if w == nil {
		return Rectangular
	}
	return w.fn
}
