// SPDX-License-Identifier: MIT
package analysis

// AudioProcessor consumes chunks of mono float32 samples. Process is called
// from the audio callback, so implementations must return promptly and must
// not retain chunk after returning.
type AudioProcessor interface {
	Process(chunk []float32)
}

// ClosableProcessor combines AudioProcessor with a Close method for resource cleanup.
type ClosableProcessor interface {
	AudioProcessor
	Close() error
}

// SpectrumProvider gives consumers (graph, UDP publisher) read access to
// the latest magnitude spectrum without coupling them to the producer.
type SpectrumProvider interface {
	// Latest copies the most recent spectrum into dst, growing it if
	// needed, and returns the slice along with its generation. Generation
	// zero with an empty slice means no window has completed yet.
	Latest(dst []float32) ([]float32, uint64)
	// Generation increments once per published spectrum.
	Generation() uint64
}

// Compile-time checks for interface implementations.
var (
	_ ClosableProcessor = (*Analyzer)(nil)
	_ SpectrumProvider  = (*SharedSpectrum)(nil)
)
