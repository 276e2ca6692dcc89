// SPDX-License-Identifier: MIT
/*
Package audio delivers mono float32 chunks to an analysis.AudioProcessor.

Sources:
  - Engine captures from a PortAudio input device
  - FileSource replays a mono PCM WAV file
  - ToneSource synthesises a sine wave

Every chunk passes through a Chain on its way to the processor: the raw
samples are recorded if a Recorder is active, then the noise Gate may zero
them, then the processor consumes them. The chunk buffer belongs to the
source and is reused for the next callback.

Thread Safety:
  - The PortAudio callback runs on a driver thread and must return promptly
  - Gate and Recorder state is switched with atomics from other goroutines
  - Stop waits until no further chunk will be delivered
*/
package audio

import (
	"fmt"
	"runtime"
	"time"

	"freqscope/internal/analysis"
	"freqscope/internal/config"
	"freqscope/internal/log"

	"github.com/gordonklaus/portaudio"
)

// Source produces chunks until stopped.
type Source interface {
	// Start begins delivering chunks to sink. It must not block.
	Start(sink analysis.AudioProcessor) error
	// Stop halts delivery. No chunk reaches sink after Stop returns.
	Stop() error
	Name() string
}

// Compile-time checks for interface implementations.
var (
	_ Source                  = (*Engine)(nil)
	_ Source                  = (*FileSource)(nil)
	_ Source                  = (*ToneSource)(nil)
	_ analysis.AudioProcessor = (*Chain)(nil)
)

// Chain applies recording and gating before handing a chunk to Processor.
// Recorder and Gate may be nil.
type Chain struct {
	Recorder  *Recorder
	Gate      *Gate
	Processor analysis.AudioProcessor
}

func (c *Chain) Process(chunk []float32) {
	c.Recorder.Write(chunk)
	c.Gate.Apply(chunk)
	c.Processor.Process(chunk)
}

// Engine captures a mono float32 stream from a PortAudio input device.
// PortAudio must be initialized before NewEngine.
type Engine struct {
	config *config.AudioConfig

	inputBuffer  []float32
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream
	sink         analysis.AudioProcessor
}

func NewEngine(cfg *config.AudioConfig) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.InputDevice)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:      cfg,
		inputDevice: inputDevice,
		inputBuffer: make([]float32, max(cfg.FramesPerBuffer, 1024)),
	}
	if cfg.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}
	return e, nil
}

func (e *Engine) Name() string {
	return fmt.Sprintf("device %q", e.inputDevice.Name)
}

// Start opens and starts the input stream.
func (e *Engine) Start(sink analysis.AudioProcessor) error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.config.InputChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // No output device
			Device:   nil,
		},
		FramesPerBuffer: e.config.FramesPerBuffer, // 0 lets the driver choose
		SampleRate:      e.config.SampleRate,
	}

	e.sink = sink
	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	log.Infof("Audio: Capturing from %s at %.0f Hz (latency %v)", e.inputDevice.Name, e.config.SampleRate, e.inputLatency)
	return nil
}

// Stop stops and closes the stream. PortAudio no longer invokes the
// callback once Stop returns.
func (e *Engine) Stop() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return fmt.Errorf("failed to stop input stream: %w", err)
	}
	if err := e.inputStream.Close(); err != nil {
		return fmt.Errorf("failed to close input stream: %w", err)
	}
	e.inputStream = nil
	return nil
}

// processInputStream is the PortAudio callback. It copies the driver
// buffer so the chain may modify it, and otherwise allocates only when the
// driver delivers a larger buffer than any before.
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if cap(e.inputBuffer) < len(in) {
		e.inputBuffer = make([]float32, len(in))
	}
	buf := e.inputBuffer[:len(in)]
	copy(buf, in)
	e.sink.Process(buf)
}
