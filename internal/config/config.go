// SPDX-License-Identifier: MIT
package config

import "time"

// Core configuration constants that define the boundaries and defaults
// for the analyzer.
const (
	DefaultChannels        = 1           // Mono; multi-channel analysis is not supported
	DefaultDeviceID        = MinDeviceID // System default input device
	DefaultFramesPerBuffer = 0           // Let the driver pick its buffer size
	DefaultSampleRate      = 44100       // CD-quality audio
	DefaultSource          = SourceMic
	DefaultToneFrequency   = 440.0 // A4

	DefaultWindowSize     = 4096 // 2^12, ~93ms at 44.1kHz
	DefaultWindowFunction = "none"
	DefaultTransform      = TransformRecursive

	DefaultMaxFrequency = 3000.0 // Hz shown on the graph
	DefaultWidth        = 1500   // Virtual graph width in pixels
	DefaultHeight       = 600    // Virtual graph height in pixels
	DefaultTickRate     = 20     // Render ticks per second
	DefaultColors       = ColorsAmplitude

	DefaultRecordingDir = "./recordings"
	DefaultBitDepth     = 16

	DefaultWebSocketAddress = ":8080"
	DefaultUDPTarget        = "127.0.0.1:9090"
	DefaultUDPSendInterval  = 50 * time.Millisecond

	// Hardware and processing limits
	MinDeviceID   = -1 // -1 represents system default device
	MinSampleRate = 8000
	MaxSampleRate = 192000
	MinWindowSize = 2
	MaxWindowSize = 1 << 16

	// MaxUDPWindowSize is the largest window whose lower half fits one UDP
	// datagram: 14 header bytes + 4 per magnitude within 65507 bytes.
	MaxUDPWindowSize = 1 << 14
)

// Input sources.
const (
	SourceMic  = "mic"
	SourceFile = "file"
	SourceTone = "tone"
)

// Transform backends.
const (
	TransformRecursive = "recursive"
	TransformGonum     = "gonum"
	TransformGoDSP     = "godsp"
)

// Bar colouring modes.
const (
	ColorsAmplitude = "amplitude"
	ColorsError     = "error"
)

// Config is the complete runtime configuration. It is built from defaults,
// an optional YAML file, FREQSCOPE_* environment variables and finally
// command line flags, in that order.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"` // Empty keeps stderr (headless) or discards (TUI)
	Command  string `yaml:"-"`        // One-off command ("list") instead of running the analyzer

	Audio     AudioConfig     `yaml:"audio"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Display   DisplayConfig   `yaml:"display"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default)
	SampleRate      float64 `yaml:"sample_rate"`       // Hz
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Driver chunk size, 0 for driver default
	LowLatency      bool    `yaml:"low_latency"`       // Request the device's low input latency
	InputChannels   int     `yaml:"input_channels"`    // Must be 1
	GateThreshold   float64 `yaml:"gate_threshold"`    // 0 disables the gate, otherwise peak level in (0,1]
	Source          string  `yaml:"source"`            // mic, file or tone
	InputFile       string  `yaml:"input_file"`        // WAV path when source is file
	Loop            bool    `yaml:"loop"`              // Replay the file from the start when it ends
	ToneFrequency   float64 `yaml:"tone_frequency"`    // Hz when source is tone
}

// AnalysisConfig holds spectral analysis settings.
type AnalysisConfig struct {
	WindowSize     int    `yaml:"window_size"`     // Samples per transform, power of two
	WindowFunction string `yaml:"window_function"` // none, hann, hamming, ...
	Transform      string `yaml:"transform"`       // recursive, gonum or godsp
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	MaxFrequency float64 `yaml:"max_frequency"` // Highest frequency drawn, Hz
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	TickRate     int     `yaml:"tick_rate"`
	Colors       string  `yaml:"colors"`
	Headless     bool    `yaml:"headless"` // Print a status line instead of drawing
}

// RecordingConfig holds settings for the WAV tap on the capture stream.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputDir  string `yaml:"output_dir"`
	OutputFile string `yaml:"output_file"` // Empty generates recording-DD-MM-YYYY-HHMMSS.wav
	BitDepth   int    `yaml:"bit_depth"`
}

// TransportConfig holds settings for publishing analysis results.
type TransportConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketAddress string        `yaml:"websocket_address"`
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"`
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`
}

// NewConfig creates a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			InputChannels:   DefaultChannels,
			Source:          DefaultSource,
			ToneFrequency:   DefaultToneFrequency,
		},
		Analysis: AnalysisConfig{
			WindowSize:     DefaultWindowSize,
			WindowFunction: DefaultWindowFunction,
			Transform:      DefaultTransform,
		},
		Display: DisplayConfig{
			MaxFrequency: DefaultMaxFrequency,
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			TickRate:     DefaultTickRate,
			Colors:       DefaultColors,
		},
		Recording: RecordingConfig{
			OutputDir: DefaultRecordingDir,
			BitDepth:  DefaultBitDepth,
		},
		Transport: TransportConfig{
			WebSocketAddress: DefaultWebSocketAddress,
			UDPTargetAddress: DefaultUDPTarget,
			UDPSendInterval:  DefaultUDPSendInterval,
		},
	}
}
