// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"freqscope/pkg/utils"
)

const (
	testFFTSize    = 4096
	testSampleRate = 44100
)

// naiveDFT is the O(n²) definition evaluated in double precision.
func naiveDFT(x []complex64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range n {
		var sum complex128
		for j := range n {
			angle := -2 * math.Pi * float64(k*j) / float64(n)
			sum += complex128(x[j]) * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

func TestFFTMatchesNaiveDFT(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, n := range []int{1, 2, 4, 8, 64, 256} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			x := make([]complex64, n)
			for i := range x {
				x[i] = complex(float32(rng.Float64()*2-1), float32(rng.Float64()*2-1))
			}
			got := FFT(x)
			want := naiveDFT(x)
			for k := range want {
				if d := cmplx.Abs(complex128(got[k]) - want[k]); d > 1e-3*float64(n) {
					t.Fatalf("bin %d: got %v, want %v (|diff| %g)", k, got[k], want[k], d)
				}
			}
		})
	}
}

func TestFFTLengthOneIsIdentity(t *testing.T) {
	in := []complex64{complex(0.25, -1)}
	if out := FFT(in); out[0] != in[0] {
		t.Errorf("FFT(%v) = %v, want input unchanged", in, out)
	}
}

func TestFFTDoesNotModifyInput(t *testing.T) {
	in := []complex64{1, 2, 3, 4, 5, 6, 7, 8}
	orig := append([]complex64(nil), in...)
	FFT(in)
	for i := range in {
		if in[i] != orig[i] {
			t.Fatalf("input modified at %d: %v != %v", i, in[i], orig[i])
		}
	}
}

func TestTransformZeros(t *testing.T) {
	spectrum := Transform(make([]float32, testFFTSize))
	if len(spectrum) != testFFTSize {
		t.Fatalf("len = %d, want %d", len(spectrum), testFFTSize)
	}
	for i, m := range spectrum {
		if m != 0 {
			t.Fatalf("bin %d = %v, want 0", i, m)
		}
	}
}

func TestTransformImpulseIsFlat(t *testing.T) {
	window := make([]float32, 64)
	window[0] = 1
	for i, m := range Transform(window) {
		if math.Abs(float64(m)-1) > 1e-6 {
			t.Fatalf("bin %d = %v, want 1", i, m)
		}
	}
}

func TestTransformSinePeak(t *testing.T) {
	tests := []float64{110, 440, 1000, 2637, 5000}
	for _, freq := range tests {
		t.Run(fmt.Sprintf("%.0fHz", freq), func(t *testing.T) {
			window := utils.GenerateSineWave(testFFTSize, testSampleRate, freq)
			spectrum := Transform(window)

			want := int(math.Round(freq * testFFTSize / testSampleRate))
			got := utils.FindPeakBin(spectrum, 0, testFFTSize/2)
			if got < want-1 || got > want+1 {
				t.Errorf("peak bin = %d, want %d±1", got, want)
			}
		})
	}
}

func TestTransformBinCentredSineMagnitude(t *testing.T) {
	// A sine sitting exactly on bin 64 concentrates A*N/2 in that bin and
	// its mirror, and is unnormalized.
	const bin = 64
	freq := float64(bin) * testSampleRate / testFFTSize
	spectrum := Transform(utils.GenerateSineWave(testFFTSize, testSampleRate, freq))

	want := 0.9 * testFFTSize / 2
	for _, k := range []int{bin, testFFTSize - bin} {
		if math.Abs(float64(spectrum[k])-want)/want > 1e-3 {
			t.Errorf("bin %d = %v, want %v", k, spectrum[k], want)
		}
	}
}

func TestTransformSymmetricForRealInput(t *testing.T) {
	spectrum := Transform(utils.GenerateComplexWave(1024, testSampleRate))
	for k := 1; k < 512; k++ {
		a, b := float64(spectrum[k]), float64(spectrum[1024-k])
		if math.Abs(a-b) > 1e-3*math.Max(1, a) {
			t.Fatalf("bin %d = %v but mirror = %v", k, a, b)
		}
	}
}

func TestTransformPanicsOnNonPowerOfTwo(t *testing.T) {
	for _, n := range []int{0, 3, 100, 4095} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Transform(len %d) did not panic", n)
				}
			}()
			Transform(make([]float32, n))
		})
	}
}

func TestFFTPanicsOnNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FFT(len 6) did not panic")
		}
	}()
	FFT(make([]complex64, 6))
}

func BenchmarkTransform(b *testing.B) {
	window := utils.GenerateComplexWave(testFFTSize, testSampleRate)
	b.ReportAllocs()
	for b.Loop() {
		Transform(window)
	}
}
