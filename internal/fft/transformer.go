// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math/cmplx"

	"freqscope/pkg/bitint"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend names accepted by New.
const (
	BackendRecursive = "recursive"
	BackendGonum     = "gonum"
	BackendGoDSP     = "godsp"
)

// Transformer computes magnitude spectra for windows of one fixed size.
// Implementations are not safe for concurrent use; each producer owns one.
type Transformer interface {
	// Magnitudes writes |X[k]| of window into dst. Both slices must have
	// length Size(); anything else panics.
	Magnitudes(dst, window []float32)
	Size() int
	Name() string
}

// Compile-time checks for interface implementations.
var (
	_ Transformer = (*Recursive)(nil)
	_ Transformer = (*Gonum)(nil)
	_ Transformer = (*GoDSP)(nil)
)

// New returns the named backend for windows of size samples.
func New(backend string, size int) (Transformer, error) {
	if !bitint.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", size)
	}
	switch backend {
	case BackendRecursive, "":
		return NewRecursive(size), nil
	case BackendGonum:
		return NewGonum(size), nil
	case BackendGoDSP:
		return NewGoDSP(size), nil
	default:
		return nil, fmt.Errorf("unknown fft backend %q", backend)
	}
}

func checkLengths(size int, dst, window []float32) {
	if len(window) != size || len(dst) != size {
		panic(fmt.Sprintf("fft: window %d / spectrum %d, transformer size %d", len(window), len(dst), size))
	}
}

// Recursive is the radix-2 transform from this package with its twiddle
// table and work buffers allocated once, so Magnitudes is allocation free.
type Recursive struct {
	size     int
	twiddles []complex64
	in       []complex64
	out      []complex64
}

// NewRecursive panics when size is not a power of two.
func NewRecursive(size int) *Recursive {
	mustPowerOfTwo(size)
	return &Recursive{
		size:     size,
		twiddles: twiddles(size),
		in:       make([]complex64, size),
		out:      make([]complex64, size),
	}
}

func (r *Recursive) Magnitudes(dst, window []float32) {
	checkLengths(r.size, dst, window)
	for i, s := range window {
		r.in[i] = complex(s, 0)
	}
	transform(r.out, r.in, 1, r.twiddles, 1)
	Magnitudes(dst, r.out)
}

func (r *Recursive) Size() int    { return r.size }
func (r *Recursive) Name() string { return BackendRecursive }

// Gonum delegates to gonum's complex FFT (FFTPACK) in double precision.
type Gonum struct {
	size int
	fft  *fourier.CmplxFFT
	in   []complex128
	out  []complex128
}

func NewGonum(size int) *Gonum {
	mustPowerOfTwo(size)
	return &Gonum{
		size: size,
		fft:  fourier.NewCmplxFFT(size),
		in:   make([]complex128, size),
		out:  make([]complex128, size),
	}
}

func (g *Gonum) Magnitudes(dst, window []float32) {
	checkLengths(g.size, dst, window)
	for i, s := range window {
		g.in[i] = complex(float64(s), 0)
	}
	g.fft.Coefficients(g.out, g.in)
	for i, c := range g.out {
		dst[i] = float32(cmplx.Abs(c))
	}
}

func (g *Gonum) Size() int    { return g.size }
func (g *Gonum) Name() string { return BackendGonum }

// GoDSP delegates to github.com/mjibson/go-dsp. It allocates its result on
// every call.
type GoDSP struct {
	size int
	in   []float64
}

func NewGoDSP(size int) *GoDSP {
	mustPowerOfTwo(size)
	return &GoDSP{size: size, in: make([]float64, size)}
}

func (g *GoDSP) Magnitudes(dst, window []float32) {
	checkLengths(g.size, dst, window)
	for i, s := range window {
		g.in[i] = float64(s)
	}
	for i, c := range dspfft.FFTReal(g.in) {
		dst[i] = float32(cmplx.Abs(c))
	}
}

func (g *GoDSP) Size() int    { return g.size }
func (g *GoDSP) Name() string { return BackendGoDSP }
