// SPDX-License-Identifier: MIT
/*
Package fft turns analysis windows into magnitude spectra.

The primary transform is a recursive radix-2 Cooley-Tukey decimation in
time. Each level splits its input into even and odd samples, transforms
both halves and combines them with one butterfly per output pair:

	X[k]       = E[k] + W(k,n) * O[k]
	X[k + n/2] = E[k] - W(k,n) * O[k]     W(k,n) = exp(-2πik/n)

The even/odd split is expressed as a stride over the original input rather
than as copied sub-slices, and both halves are written into adjacent ranges
of a single output buffer, so a transform allocates nothing beyond its
output. No bit-reversal pass is needed: the strided recursion reads the
input in bit-reversed order on its own.

Only power-of-two lengths are supported. Any other length is an internal
contract violation and panics. Output is unnormalized: magnitudes scale
with input amplitude and window length.
*/
package fft

import (
	"fmt"
	"math"

	"freqscope/pkg/bitint"
)

// FFT returns the discrete Fourier transform of signal. It panics when
// len(signal) is not a power of two.
func FFT(signal []complex64) []complex64 {
	n := len(signal)
	mustPowerOfTwo(n)
	out := make([]complex64, n)
	transform(out, signal, 1, twiddles(n), 1)
	return out
}

// Transform converts a real window into its magnitude spectrum. The result
// has the same length as window, bin k standing for k*sampleRate/len(window) Hz.
func Transform(window []float32) []float32 {
	mustPowerOfTwo(len(window))
	in := make([]complex64, len(window))
	for i, s := range window {
		in[i] = complex(s, 0)
	}
	spectrum := make([]float32, len(window))
	Magnitudes(spectrum, FFT(in))
	return spectrum
}

// Magnitudes writes the complex modulus of each coefficient into dst.
func Magnitudes(dst []float32, coeffs []complex64) {
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		dst[i] = float32(math.Sqrt(float64(re*re + im*im)))
	}
}

// transform writes the DFT of src[0], src[stride], src[2*stride], ... into
// dst, which also fixes the transform length. tw holds exp(-2πik/N) for the
// top-level length N; twStride maps this level's k/n onto that table.
func transform(dst, src []complex64, stride int, tw []complex64, twStride int) {
	n := len(dst)
	if n == 1 {
		dst[0] = src[0]
		return
	}

	half := n / 2
	transform(dst[:half], src, stride*2, tw, twStride*2)
	transform(dst[half:], src[stride:], stride*2, tw, twStride*2)

	for k := 0; k < half; k++ {
		t := tw[k*twStride] * dst[half+k]
		e := dst[k]
		dst[k] = e + t
		dst[half+k] = e - t
	}
}

// twiddles precomputes exp(-2πik/n) for k in [0, n/2). Angles are evaluated
// in double precision before narrowing, which keeps the deep levels of a
// large transform from accumulating phase error.
func twiddles(n int) []complex64 {
	tw := make([]complex64, n/2)
	for k := range tw {
		sin, cos := math.Sincos(-2 * math.Pi * float64(k) / float64(n))
		tw[k] = complex(float32(cos), float32(sin))
	}
	return tw
}

func mustPowerOfTwo(n int) {
	if !bitint.IsPowerOfTwo(n) {
		panic(fmt.Sprintf("fft: length %d is not a power of two", n))
	}
}
