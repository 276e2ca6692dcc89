// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"freqscope/internal/analysis"
	"freqscope/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultChunkFrames is used by the synthetic sources when no buffer size
// is configured.
const DefaultChunkFrames = 512

// runner owns the goroutine behind a synthetic source.
type runner struct {
	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func (r *runner) start(loop func(stop <-chan struct{})) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("source already started")
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.running = true
	go func() {
		defer close(r.done)
		loop(r.stop)
	}()
	return nil
}

// Stop halts the source and waits for its goroutine.
func (r *runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	close(r.stop)
	<-r.done
	r.running = false
	return nil
}

// Done is closed when the source stops delivering, either because it was
// stopped or because it ran out of samples.
func (r *runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		return nil
	}
	return r.done
}

// pacer sleeps one chunk period between deliveries when enabled.
type pacer struct {
	ticker *time.Ticker
}

func newPacer(realtime bool, frames int, sampleRate float64) pacer {
	if !realtime {
		return pacer{}
	}
	period := time.Duration(float64(frames) / sampleRate * float64(time.Second))
	return pacer{ticker: time.NewTicker(period)}
}

// wait returns false when stop is closed.
func (p pacer) wait(stop <-chan struct{}) bool {
	if p.ticker == nil {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}
	select {
	case <-stop:
		return false
	case <-p.ticker.C:
		return true
	}
}

func (p pacer) close() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

// FileSource replays a mono PCM WAV file.
type FileSource struct {
	runner

	// Realtime paces chunks at the file's sample rate. Tests turn it off.
	Realtime bool
	// Loop rewinds at the end of the file instead of stopping.
	Loop bool

	path       string
	file       *os.File
	decoder    *wav.Decoder
	buf        *audio.IntBuffer
	chunk      []float32
	sampleRate int
	bitDepth   int
}

// OpenFileSource validates the WAV header and positions the decoder at the
// first sample. frames <= 0 selects DefaultChunkFrames.
func OpenFileSource(path string, frames int) (*FileSource, error) {
	if frames <= 0 {
		frames = DefaultChunkFrames
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%s: invalid WAV file", path)
	}
	if decoder.NumChans != 1 {
		f.Close()
		return nil, fmt.Errorf("%s: %d channels, only mono files are supported", path, decoder.NumChans)
	}
	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		f.Close()
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, bitDepth)
	}
	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: reading WAV PCM data: %w", path, err)
	}
	if decoder.PCMLen() == 0 {
		f.Close()
		return nil, fmt.Errorf("%s: no samples", path)
	}

	return &FileSource{
		Realtime:   true,
		path:       path,
		file:       f,
		decoder:    decoder,
		buf:        &audio.IntBuffer{Format: decoder.Format(), Data: make([]int, frames), SourceBitDepth: bitDepth},
		chunk:      make([]float32, frames),
		sampleRate: int(decoder.SampleRate),
		bitDepth:   bitDepth,
	}, nil
}

func (s *FileSource) Name() string { return fmt.Sprintf("file %q", s.path) }

// SampleRate of the file, which the analysis must be configured with.
func (s *FileSource) SampleRate() int { return s.sampleRate }

func (s *FileSource) Start(sink analysis.AudioProcessor) error {
	log.Infof("Audio: Replaying %s (%d Hz, %d-bit)", s.path, s.sampleRate, s.bitDepth)
	return s.start(func(stop <-chan struct{}) { s.run(sink, stop) })
}

func (s *FileSource) run(sink analysis.AudioProcessor, stop <-chan struct{}) {
	p := newPacer(s.Realtime, len(s.chunk), float64(s.sampleRate))
	defer p.close()

	scale := 1 / float32(int(1)<<(s.bitDepth-1))
	for {
		n, err := s.decoder.PCMBuffer(s.buf)
		if err != nil {
			log.Errorf("Audio: Error decoding %s: %v", s.path, err)
			return
		}
		if n == 0 {
			if !s.Loop {
				log.Infof("Audio: Reached end of %s", s.path)
				return
			}
			if err := s.decoder.Rewind(); err != nil {
				log.Errorf("Audio: Error rewinding %s: %v", s.path, err)
				return
			}
			continue
		}

		for i, v := range s.buf.Data[:n] {
			s.chunk[i] = float32(v) * scale
		}
		sink.Process(s.chunk[:n])

		if !p.wait(stop) {
			return
		}
	}
}

// Close stops playback and closes the file.
func (s *FileSource) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	return s.file.Close()
}

// ToneSource synthesises a continuous sine wave.
type ToneSource struct {
	runner

	// Realtime paces chunks at SampleRate. Tests turn it off.
	Realtime bool

	frequency  float64
	amplitude  float64
	sampleRate float64
	chunk      []float32
	phase      float64
	// limit stops the source after this many samples; 0 runs until Stop.
	limit int
}

// NewToneSource returns a 0.9 amplitude sine at frequency Hz.
func NewToneSource(frequency, sampleRate float64, frames int) *ToneSource {
	if frames <= 0 {
		frames = DefaultChunkFrames
	}
	return &ToneSource{
		Realtime:   true,
		frequency:  frequency,
		amplitude:  0.9,
		sampleRate: sampleRate,
		chunk:      make([]float32, frames),
	}
}

// Limit stops the source after n samples. Chunks are not split, so up to
// one extra chunk minus one sample may be delivered.
func (s *ToneSource) Limit(n int) *ToneSource {
	s.limit = n
	return s
}

func (s *ToneSource) Name() string { return fmt.Sprintf("tone %.2f Hz", s.frequency) }

func (s *ToneSource) Start(sink analysis.AudioProcessor) error {
	log.Infof("Audio: Generating %.2f Hz tone at %.0f Hz", s.frequency, s.sampleRate)
	return s.start(func(stop <-chan struct{}) { s.run(sink, stop) })
}

func (s *ToneSource) run(sink analysis.AudioProcessor, stop <-chan struct{}) {
	p := newPacer(s.Realtime, len(s.chunk), s.sampleRate)
	defer p.close()

	step := 2 * math.Pi * s.frequency / s.sampleRate
	sent := 0
	for s.limit == 0 || sent < s.limit {
		for i := range s.chunk {
			s.chunk[i] = float32(s.amplitude * math.Sin(s.phase))
			s.phase = math.Mod(s.phase+step, 2*math.Pi)
		}
		sink.Process(s.chunk)
		sent += len(s.chunk)

		if !p.wait(stop) {
			return
		}
	}
}
