// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"freqscope/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrAlreadyRecording is returned by StartRecording while a file is open.
var ErrAlreadyRecording = errors.New("already recording")

const wavFormatPCM = 1

// Recorder writes the raw mono input to a PCM WAV file. Write is called
// from the audio callback; Start and Stop from the control goroutine.
type Recorder struct {
	sampleRate int
	bitDepth   int

	isRecording atomic.Bool
	mu          sync.Mutex // Guards the fields below against Stop racing Write
	outputFile  *os.File
	wavEncoder  *wav.Encoder
	sampleBuf   *audio.IntBuffer
	written     int
}

// NewRecorder returns an idle recorder. bitDepth must be 16, 24 or 32.
func NewRecorder(sampleRate, bitDepth int) *Recorder {
	return &Recorder{sampleRate: sampleRate, bitDepth: bitDepth}
}

// StartRecording creates filename (and its directory) and begins encoding.
func (r *Recorder) StartRecording(filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRecording.Load() {
		return ErrAlreadyRecording
	}
	switch r.bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", r.bitDepth)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create recording directory: %w", err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create recording: %w", err)
	}

	r.outputFile = file
	r.wavEncoder = wav.NewEncoder(file, r.sampleRate, r.bitDepth, 1, wavFormatPCM)
	r.sampleBuf = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: r.sampleRate},
		SourceBitDepth: r.bitDepth,
	}
	r.written = 0
	r.isRecording.Store(true)

	log.Infof("Recording: Writing %d-bit mono WAV to %s", r.bitDepth, filename)
	return nil
}

// Write encodes chunk when recording. Samples outside [-1, 1] are clipped.
func (r *Recorder) Write(chunk []float32) {
	if r == nil || !r.isRecording.Load() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wavEncoder == nil {
		return
	}

	if cap(r.sampleBuf.Data) < len(chunk) {
		r.sampleBuf.Data = make([]int, len(chunk))
	}
	r.sampleBuf.Data = r.sampleBuf.Data[:len(chunk)]
	scale := float64(int(1)<<(r.bitDepth-1) - 1)
	for i, s := range chunk {
		r.sampleBuf.Data[i] = int(float64(min(max(s, -1), 1)) * scale)
	}

	if err := r.wavEncoder.Write(r.sampleBuf); err != nil {
		log.Errorf("Recording: Error writing to WAV file: %v", err)
		return
	}
	r.written += len(chunk)
}

// StopRecording finalizes the WAV header and closes the file.
func (r *Recorder) StopRecording() error {
	if !r.isRecording.Swap(false) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.wavEncoder != nil {
		errs = append(errs, r.wavEncoder.Close())
		r.wavEncoder = nil
	}
	if r.outputFile != nil {
		log.Infof("Recording: Wrote %d samples to %s", r.written, r.outputFile.Name())
		errs = append(errs, r.outputFile.Close())
		r.outputFile = nil
	}
	return errors.Join(errs...)
}

// Recording reports whether a file is open.
func (r *Recorder) Recording() bool { return r != nil && r.isRecording.Load() }
