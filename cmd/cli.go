// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"os"

	"freqscope/internal/config"
	"freqscope/pkg/build"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagValues receives the raw flag values. They are copied onto the loaded
// configuration only when the user set them, so file and environment
// values survive unless overridden.
type flagValues struct {
	configFile string

	deviceID        int
	channels        int
	sampleRate      float64
	framesPerBuffer int
	lowLatency      bool
	inputFile       string
	loop            bool
	toneFrequency   float64
	gate            float64

	windowSize     int
	windowFunction string
	transform      string

	maxFrequency float64
	tickRate     int
	colors       string
	headless     bool

	record     bool
	outputFile string
	bitDepth   int

	webSocket string
	udp       string

	logLevel string
	logFile  string
	verbose  bool
}

// ParseArgs parses the command line (without the program name) into a
// validated configuration. It returns a nil configuration and no error when
// there is nothing to run, as after --help or --version.
func ParseArgs(args []string) (*config.Config, error) {
	return parse(args, os.Stdout)
}

func parse(args []string, out io.Writer) (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	var (
		opts flagValues
		cfg  *config.Config
	)

	load := func(cmd *cobra.Command, command string) error {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return err
		}
		applyFlags(cmd.Flags(), &opts, loaded)
		loaded.Command = command
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
		return nil
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return load(cmd, "")
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// List command
	var plain bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd, "list"); err != nil {
				return err
			}
			if plain {
				cfg.Display.Headless = true
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&plain, "plain", false, "Print the device list instead of opening the browser")
	rootCmd.AddCommand(listCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "",
		"YAML configuration file (default "+config.DefaultConfigFile+" if present)")

	// Audio Device Configuration
	flags.IntVarP(&opts.deviceID, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	flags.IntVarP(&opts.channels, "channels", "c", config.DefaultChannels,
		"Number of input channels (only mono is supported)")
	flags.Float64VarP(&opts.sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	flags.IntVarP(&opts.framesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per buffer (0 lets the driver choose)")
	flags.BoolVarP(&opts.lowLatency, "low-latency", "l", false,
		"Use the device's low input latency")
	flags.StringVarP(&opts.inputFile, "input", "i", "",
		"Analyze a mono WAV file instead of a capture device")
	flags.BoolVar(&opts.loop, "loop", false,
		"Replay the --input file from the start when it ends")
	flags.Float64Var(&opts.toneFrequency, "tone", config.DefaultToneFrequency,
		"Analyze a generated sine of this frequency instead of a capture device")
	flags.Float64Var(&opts.gate, "gate", 0,
		"Silence chunks whose peak is below this level in (0, 1]; 0 disables the gate")
	rootCmd.MarkFlagsMutuallyExclusive("input", "tone")

	// Analysis Configuration
	flags.IntVar(&opts.windowSize, "window-size", config.DefaultWindowSize,
		"Samples per transform, a power of two")
	flags.StringVar(&opts.windowFunction, "window", config.DefaultWindowFunction,
		"Window function: none, hann, hamming, blackman, blackmannuttall, bartletthann, lanczos, nuttall")
	flags.StringVar(&opts.transform, "transform", config.DefaultTransform,
		"Transform backend: recursive, gonum or godsp")

	// Display Configuration
	flags.Float64Var(&opts.maxFrequency, "max-frequency", config.DefaultMaxFrequency,
		"Highest frequency shown on the graph, in Hz")
	flags.IntVar(&opts.tickRate, "tick-rate", config.DefaultTickRate,
		"Graph refreshes per second")
	flags.StringVar(&opts.colors, "colors", config.DefaultColors,
		"Bar colours: amplitude or error")
	flags.BoolVar(&opts.headless, "headless", false,
		"Print a status line instead of drawing the graph")

	// Recording Configuration
	flags.BoolVarP(&opts.record, "record", "r", false,
		"Record audio from the input to a WAV file")
	flags.StringVarP(&opts.outputFile, "output", "o", "",
		"Output file name. Default is recording-DD-MM-YYYY-HHMMSS.wav")
	flags.IntVar(&opts.bitDepth, "bit-depth", config.DefaultBitDepth,
		"Recording bit depth: 16, 24 or 32")

	// Transport Configuration
	flags.StringVar(&opts.webSocket, "ws", "",
		"Serve frames over WebSocket on this address")
	flags.Lookup("ws").NoOptDefVal = config.DefaultWebSocketAddress
	flags.StringVar(&opts.udp, "udp", "",
		"Stream spectrum packets over UDP to this address")
	flags.Lookup("udp").NoOptDefVal = config.DefaultUDPTarget

	// Debug Configuration
	flags.StringVar(&opts.logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "",
		"Write logs to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show verbose output")

	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(fs *pflag.FlagSet, opts *flagValues, cfg *config.Config) {
	set := fs.Changed

	if set("device") {
		cfg.Audio.InputDevice = opts.deviceID
	}
	if set("channels") {
		cfg.Audio.InputChannels = opts.channels
	}
	if set("sample-rate") {
		cfg.Audio.SampleRate = opts.sampleRate
	}
	if set("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer = opts.framesPerBuffer
	}
	if set("low-latency") {
		cfg.Audio.LowLatency = opts.lowLatency
	}
	if set("input") {
		cfg.Audio.Source = config.SourceFile
		cfg.Audio.InputFile = opts.inputFile
	}
	if set("loop") {
		cfg.Audio.Loop = opts.loop
	}
	if set("tone") {
		cfg.Audio.Source = config.SourceTone
		cfg.Audio.ToneFrequency = opts.toneFrequency
	}
	if set("gate") {
		cfg.Audio.GateThreshold = opts.gate
	}

	if set("window-size") {
		cfg.Analysis.WindowSize = opts.windowSize
	}
	if set("window") {
		cfg.Analysis.WindowFunction = opts.windowFunction
	}
	if set("transform") {
		cfg.Analysis.Transform = opts.transform
	}

	if set("max-frequency") {
		cfg.Display.MaxFrequency = opts.maxFrequency
	}
	if set("tick-rate") {
		cfg.Display.TickRate = opts.tickRate
	}
	if set("colors") {
		cfg.Display.Colors = opts.colors
	}
	if set("headless") {
		cfg.Display.Headless = opts.headless
	}

	if set("record") {
		cfg.Recording.Enabled = opts.record
	}
	if set("output") {
		cfg.Recording.OutputFile = opts.outputFile
	}
	if set("bit-depth") {
		cfg.Recording.BitDepth = opts.bitDepth
	}

	if set("ws") {
		cfg.Transport.WebSocketEnabled = true
		cfg.Transport.WebSocketAddress = opts.webSocket
	}
	if set("udp") {
		cfg.Transport.UDPEnabled = true
		cfg.Transport.UDPTargetAddress = opts.udp
	}

	if set("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if set("log-file") {
		cfg.LogFile = opts.logFile
	}
	if opts.verbose {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
}
