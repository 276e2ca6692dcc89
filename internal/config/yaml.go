// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"freqscope/internal/analysis"
	applog "freqscope/internal/log"
	"freqscope/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "freqscope.yaml"

var (
	ErrWindowSize   = errors.New("analysis.window_size must be a power of two")
	ErrChannels     = errors.New("audio.input_channels must be 1")
	ErrSampleRate   = errors.New("audio.sample_rate out of range")
	ErrMaxFrequency = errors.New("display.max_frequency must be in (0, nyquist]")
	ErrTickRate     = errors.New("display.tick_rate must be positive")
	ErrGeometry     = errors.New("display.width and display.height must leave room for bars")
	ErrUnknownValue = errors.New("unknown value")
	ErrInputFile    = errors.New("audio.input_file is required when audio.source is file")
	ErrUDPWindow    = errors.New("analysis.window_size too large for one UDP packet")
)

var knownWindowFunctions = map[string]bool{
	"none": true, "rectangular": true, "hann": true, "hanning": true, "hamming": true,
	"blackman": true, "blackmannuttall": true, "bartletthann": true, "lanczos": true, "nuttall": true,
}

// LoadConfig builds the configuration with Load and validates it.
func LoadConfig(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load builds the configuration from defaults, the YAML file at path and
// FREQSCOPE_* environment overrides without validating it, so callers can
// apply further overrides first. When path is empty DefaultConfigFile is
// used if present, otherwise defaults alone.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		applog.Debugf("Config: loaded %s", path)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	a := c.Audio
	if a.InputChannels != 1 {
		return fmt.Errorf("%w, got %d", ErrChannels, a.InputChannels)
	}
	if a.SampleRate < MinSampleRate || a.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: %.0f Hz not in [%d, %d]", ErrSampleRate, a.SampleRate, MinSampleRate, MaxSampleRate)
	}
	switch a.Source {
	case SourceMic, SourceTone:
	case SourceFile:
		if a.InputFile == "" {
			return ErrInputFile
		}
	default:
		return fmt.Errorf("%w: audio.source %q", ErrUnknownValue, a.Source)
	}
	if a.GateThreshold < 0 || a.GateThreshold > 1 {
		return fmt.Errorf("%w: audio.gate_threshold %.3f not in [0, 1]", ErrUnknownValue, a.GateThreshold)
	}

	ws := c.Analysis.WindowSize
	if !bitint.IsPowerOfTwo(ws) || ws < MinWindowSize || ws > MaxWindowSize {
		return fmt.Errorf("%w: got %d (try %d or %d)", ErrWindowSize, ws,
			bitint.PrevPowerOfTwo(ws), bitint.NextPowerOfTwo(ws))
	}
	if !knownWindowFunctions[strings.ToLower(c.Analysis.WindowFunction)] {
		return fmt.Errorf("%w: analysis.window_function %q", ErrUnknownValue, c.Analysis.WindowFunction)
	}
	switch c.Analysis.Transform {
	case TransformRecursive, TransformGonum, TransformGoDSP:
	default:
		return fmt.Errorf("%w: analysis.transform %q", ErrUnknownValue, c.Analysis.Transform)
	}

	d := c.Display
	if d.MaxFrequency <= 0 || d.MaxFrequency > a.SampleRate/2 {
		return fmt.Errorf("%w: got %.1f Hz, nyquist is %.1f Hz", ErrMaxFrequency, d.MaxFrequency, a.SampleRate/2)
	}
	if d.TickRate <= 0 {
		return fmt.Errorf("%w, got %d", ErrTickRate, d.TickRate)
	}
	if d.Width <= 0 || d.Height <= analysis.GroundHeight+analysis.PaddingTop {
		return fmt.Errorf("%w: %dx%d", ErrGeometry, d.Width, d.Height)
	}
	switch d.Colors {
	case ColorsAmplitude, ColorsError:
	default:
		return fmt.Errorf("%w: display.colors %q", ErrUnknownValue, d.Colors)
	}

	if c.Recording.Enabled && c.Recording.BitDepth != 16 && c.Recording.BitDepth != 24 && c.Recording.BitDepth != 32 {
		return fmt.Errorf("%w: recording.bit_depth %d", ErrUnknownValue, c.Recording.BitDepth)
	}
	if c.Transport.UDPEnabled && c.Transport.UDPSendInterval <= 0 {
		return fmt.Errorf("%w: transport.udp_send_interval must be positive", ErrUnknownValue)
	}
	if c.Transport.UDPEnabled && ws > MaxUDPWindowSize {
		return fmt.Errorf("%w: got %d, at most %d with transport.udp_enabled", ErrUDPWindow, ws, MaxUDPWindowSize)
	}
	return nil
}

// applyEnvOverrides applies FREQSCOPE_* variables on top of the file values.
// Unparseable values are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	envBool("FREQSCOPE_DEBUG", &c.Debug)
	envString("FREQSCOPE_LOG_LEVEL", &c.LogLevel)
	envInt("FREQSCOPE_DEVICE", &c.Audio.InputDevice)
	envFloat("FREQSCOPE_SAMPLE_RATE", &c.Audio.SampleRate)
	envBool("FREQSCOPE_LOOP", &c.Audio.Loop)
	envInt("FREQSCOPE_WINDOW_SIZE", &c.Analysis.WindowSize)
	envString("FREQSCOPE_TRANSFORM", &c.Analysis.Transform)
	envFloat("FREQSCOPE_MAX_FREQUENCY", &c.Display.MaxFrequency)
	envBool("FREQSCOPE_WS_ENABLED", &c.Transport.WebSocketEnabled)
	envString("FREQSCOPE_WS_ADDRESS", &c.Transport.WebSocketAddress)
	envBool("FREQSCOPE_UDP_ENABLED", &c.Transport.UDPEnabled)
	envString("FREQSCOPE_UDP_TARGET_ADDRESS", &c.Transport.UDPTargetAddress)
	if val, ok := os.LookupEnv("FREQSCOPE_UDP_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = dur
		} else {
			applog.Warnf("Config: ignoring FREQSCOPE_UDP_SEND_INTERVAL=%q: %v", val, err)
		}
	}
}

func envString(key string, dst *string) {
	if val, ok := os.LookupEnv(key); ok {
		*dst = val
		applog.Debugf("Config: %s overrides to %q", key, val)
	}
}

func envBool(key string, dst *bool) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			applog.Warnf("Config: ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = b
	}
}

func envInt(key string, dst *int) {
	if val, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			applog.Warnf("Config: ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = i
	}
}

func envFloat(key string, dst *float64) {
	if val, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			applog.Warnf("Config: ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = f
	}
}
