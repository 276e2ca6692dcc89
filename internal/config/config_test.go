// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"Defaults", func(c *Config) {}, nil},
		{"Stereo rejected", func(c *Config) { c.Audio.InputChannels = 2 }, ErrChannels},
		{"Sample rate too low", func(c *Config) { c.Audio.SampleRate = 4000 }, ErrSampleRate},
		{"Window 100", func(c *Config) { c.Analysis.WindowSize = 100 }, ErrWindowSize},
		{"Window 4095", func(c *Config) { c.Analysis.WindowSize = 4095 }, ErrWindowSize},
		{"Window 0", func(c *Config) { c.Analysis.WindowSize = 0 }, ErrWindowSize},
		{"Unknown transform", func(c *Config) { c.Analysis.Transform = "fftw" }, ErrUnknownValue},
		{"Unknown window", func(c *Config) { c.Analysis.WindowFunction = "kaiser" }, ErrUnknownValue},
		{"Window name case", func(c *Config) { c.Analysis.WindowFunction = "Hann" }, nil},
		{"Above nyquist", func(c *Config) { c.Display.MaxFrequency = 30000 }, ErrMaxFrequency},
		{"Zero max frequency", func(c *Config) { c.Display.MaxFrequency = 0 }, ErrMaxFrequency},
		{"Zero tick rate", func(c *Config) { c.Display.TickRate = 0 }, ErrTickRate},
		{"Flat graph", func(c *Config) { c.Display.Height = 40 }, ErrGeometry},
		{"Unknown colors", func(c *Config) { c.Display.Colors = "rainbow" }, ErrUnknownValue},
		{"File source without file", func(c *Config) { c.Audio.Source = SourceFile }, ErrInputFile},
		{"File source", func(c *Config) { c.Audio.Source = SourceFile; c.Audio.InputFile = "a.wav" }, nil},
		{"Gate above one", func(c *Config) { c.Audio.GateThreshold = 2 }, ErrUnknownValue},
		{"Odd bit depth", func(c *Config) { c.Recording.Enabled = true; c.Recording.BitDepth = 12 }, ErrUnknownValue},
		{"UDP window 16384", func(c *Config) { c.Transport.UDPEnabled = true; c.Analysis.WindowSize = 1 << 14 }, nil},
		{"UDP window 32768", func(c *Config) { c.Transport.UDPEnabled = true; c.Analysis.WindowSize = 1 << 15 }, ErrUDPWindow},
		{"UDP window 65536", func(c *Config) { c.Transport.UDPEnabled = true; c.Analysis.WindowSize = 1 << 16 }, ErrUDPWindow},
		{"Window 65536 without UDP", func(c *Config) { c.Analysis.WindowSize = 1 << 16 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := NewConfig()

	if got := cfg.TickInterval(); got != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", got)
	}
	// 3000 * 4096 / 44100 = 278.6 -> 278
	if got := cfg.MaxDisplayedBins(); got != 278 {
		t.Errorf("MaxDisplayedBins = %d, want 278", got)
	}
	if got, want := cfg.MaxDisplayedBins(), cfg.BinSelector().MaxBinsDisplayed(cfg.Analysis.WindowSize); got != want {
		t.Errorf("MaxDisplayedBins = %d, graph draws %d", got, want)
	}
	// 10.9 * 4096 / 44100 = 1.01; truncating 10.9 to 10 first would give 0.
	cfg.Display.MaxFrequency = 10.9
	if got := cfg.MaxDisplayedBins(); got != 1 {
		t.Errorf("MaxDisplayedBins(10.9 Hz) = %d, want 1", got)
	}
	if got := cfg.BinResolution(); got < 10.76 || got > 10.77 {
		t.Errorf("BinResolution = %f, want ~10.766", got)
	}
	if got := cfg.WindowDuration(); got < 92*time.Millisecond || got > 93*time.Millisecond {
		t.Errorf("WindowDuration = %v, want ~92.9ms", got)
	}
}

func TestRecordingPath(t *testing.T) {
	cfg := NewConfig()
	now := time.Date(2026, 10, 18, 9, 30, 15, 0, time.UTC)

	got := cfg.RecordingPath(now)
	want := filepath.Join(DefaultRecordingDir, "recording-18-10-2026-093015.wav")
	if got != want {
		t.Errorf("RecordingPath = %q, want %q", got, want)
	}

	cfg.Recording.OutputFile = "/tmp/take.wav"
	if got := cfg.RecordingPath(now); got != "/tmp/take.wav" {
		t.Errorf("absolute output file should be used as is, got %q", got)
	}

	cfg.Recording.OutputFile = "take.wav"
	if got := cfg.RecordingPath(now); !strings.HasSuffix(got, filepath.Join("recordings", "take.wav")) {
		t.Errorf("relative output file should join output dir, got %q", got)
	}
}
