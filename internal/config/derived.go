// SPDX-License-Identifier: MIT
package config

import (
	"path/filepath"
	"time"

	"freqscope/internal/analysis"
)

// TickInterval is the period of the render loop.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Display.TickRate)
}

// WindowDuration is the real time covered by one analysis window.
func (c *Config) WindowDuration() time.Duration {
	return time.Duration(float64(c.Analysis.WindowSize) / c.Audio.SampleRate * float64(time.Second))
}

// BinResolution is the width of one spectrum bin in Hz.
func (c *Config) BinResolution() float64 {
	return c.Audio.SampleRate / float64(c.Analysis.WindowSize)
}

// MaxDisplayedBins is how many leading bins the graph draws.
func (c *Config) MaxDisplayedBins() int {
	return analysis.MaxBinsDisplayed(c.Display.MaxFrequency, c.Analysis.WindowSize, c.Audio.SampleRate)
}

// BinSelector returns the selector the graph lays bars out with.
func (c *Config) BinSelector() analysis.BinSelector {
	return analysis.BinSelector{
		WindowSize:   c.Analysis.WindowSize,
		SampleRate:   c.Audio.SampleRate,
		MaxFrequency: c.Display.MaxFrequency,
	}
}

// RecordingPath resolves where the WAV tap writes, generating a timestamped
// name when none is configured.
func (c *Config) RecordingPath(now time.Time) string {
	name := c.Recording.OutputFile
	if name == "" {
		name = "recording-" + now.UTC().Format("02-01-2006-150405") + ".wav"
	}
	if filepath.IsAbs(name) || c.Recording.OutputDir == "" {
		return name
	}
	return filepath.Join(c.Recording.OutputDir, name)
}
