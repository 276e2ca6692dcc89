// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"freqscope/cmd"
	"freqscope/internal/analysis"
	"freqscope/internal/audio"
	"freqscope/internal/config"
	"freqscope/internal/fft"
	"freqscope/internal/log"
	"freqscope/internal/transport"
	"freqscope/internal/transport/udp"
	"freqscope/internal/tui"
	"freqscope/pkg/build"
)

// main is the entry point for the analyzer.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and configuration
//   - Execute one-off commands if requested
//   - Build the analysis pipeline and transports
//
// 2. Concurrent Phase (Hot Path):
//   - The source delivers chunks to the analyzer on its own goroutine
//   - The render loop turns the latest spectrum into frames
//   - Publishers push frames and spectra to network clients
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals or quit from the UI
//   - Stop the source before anything it writes into
//   - Close the recording, transports and audio subsystem
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	// Development builds run without ldflags.
	if err := build.Initialize(); err != nil {
		log.Debugf("Build: %v", err)
	}

	// One thread for the source and analyzer, one for rendering and I/O.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		return
	}

	closeLog, err := configureLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if cfg.Command != "" {
		if err := executeCommand(cfg); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if err := run(cfg); err != nil {
		log.Errorf("%v", err)
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configureLogging applies the level and destination. The TUI owns the
// terminal, so its logs go to LogFile or nowhere.
func configureLogging(cfg *config.Config) (func(), error) {
	if err := log.Configure(cfg.LogLevel, cfg.Debug); err != nil {
		log.Warnf("Log: %v", err)
	}

	interactive := !cfg.Display.Headless
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
		return func() { _ = f.Close() }, nil
	case interactive:
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

// executeCommand handles one-off commands that don't require the analyzer
// to be running, such as listing available audio devices.
func executeCommand(cfg *config.Config) error {
	switch cfg.Command {
	case "list":
		if err := audio.Initialize(); err != nil {
			return err
		}
		defer audio.Terminate()

		if cfg.Display.Headless {
			devices, err := audio.HostDevices()
			if err != nil {
				return err
			}
			audio.ListDevices(os.Stdout, devices)
			return nil
		}

		sel, err := tui.StartDeviceListUI(audio.HostDevices)
		if err != nil {
			return err
		}
		if sel != nil {
			fmt.Printf("Run with: %s %s\n", build.GetBuildFlags().Name, sel.Args())
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

// pipeline holds everything started by run, in shutdown order.
type pipeline struct {
	source     audio.Source
	recorder   *audio.Recorder
	recording  string
	publisher  *udp.UDPPublisher
	sender     *udp.UDPSender
	transports transport.Multi
	analyzer   *analysis.Analyzer
	portaudio  bool
}

func run(cfg *config.Config) error {
	p := &pipeline{}
	defer p.shutdown()

	if cfg.Audio.Source == config.SourceMic {
		if err := audio.Initialize(); err != nil {
			return err
		}
		p.portaudio = true
	}

	source, err := newSource(cfg)
	if err != nil {
		return err
	}
	p.source = source

	transformer, err := fft.New(cfg.Analysis.Transform, cfg.Analysis.WindowSize)
	if err != nil {
		return err
	}
	windowFunc, err := fft.ParseWindowFunc(cfg.Analysis.WindowFunction)
	if err != nil {
		return err
	}
	colors, err := analysis.ParseColorMode(cfg.Display.Colors)
	if err != nil {
		return err
	}

	shared := analysis.NewSharedSpectrum()
	p.analyzer = analysis.NewAnalyzer(shared, transformer, fft.NewWindow(windowFunc, cfg.Analysis.WindowSize))

	chain := &audio.Chain{
		Gate:      audio.NewGate(cfg.Audio.GateThreshold),
		Processor: p.analyzer,
	}
	if cfg.Recording.Enabled {
		p.recorder = audio.NewRecorder(int(cfg.Audio.SampleRate), cfg.Recording.BitDepth)
		p.recording = cfg.RecordingPath(time.Now())
		if err := p.recorder.StartRecording(p.recording); err != nil {
			return err
		}
		chain.Recorder = p.recorder
	}

	if err := p.startTransports(cfg, shared); err != nil {
		return err
	}

	graph := analysis.NewGraph(shared, cfg.BinSelector(), cfg.Display.Width, cfg.Display.Height)

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first chunk delivered marks the start of the hot path.
	if err := source.Start(chain); err != nil {
		return err
	}
	log.Infof("Main: analyzing %s (window %d, %s, %s, %d bins of %.2f Hz shown)", source.Name(),
		cfg.Analysis.WindowSize, windowFunc, transformer.Name(), cfg.MaxDisplayedBins(), cfg.BinResolution())

	opts := tui.Options{
		Graph:     graph,
		Shared:    shared,
		Transport: p.transports,
		Colors:    colors,
		Interval:  cfg.TickInterval(),
		Source:    source.Name(),
	}
	if cfg.Display.Headless {
		// A file that plays out ends a headless run.
		if done, ok := source.(interface{ Done() <-chan struct{} }); ok && cfg.Audio.Source == config.SourceFile {
			var cancel context.CancelFunc
			ctx, cancel = context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-done.Done():
					cancel()
				case <-ctx.Done():
				}
			}()
		}
		return tui.RunHeadless(ctx, opts, os.Stdout)
	}
	return tui.Run(ctx, opts)
}

func newSource(cfg *config.Config) (audio.Source, error) {
	switch cfg.Audio.Source {
	case config.SourceFile:
		src, err := audio.OpenFileSource(cfg.Audio.InputFile, cfg.Audio.FramesPerBuffer)
		if err != nil {
			return nil, err
		}
		src.Loop = cfg.Audio.Loop
		// The file decides the rate; recheck what depends on it.
		cfg.Audio.SampleRate = float64(src.SampleRate())
		if err := cfg.Validate(); err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("invalid configuration for %s: %w", src.Name(), err)
		}
		return src, nil
	case config.SourceTone:
		return audio.NewToneSource(cfg.Audio.ToneFrequency, cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer), nil
	default:
		return audio.NewEngine(&cfg.Audio)
	}
}

func (p *pipeline) startTransports(cfg *config.Config, shared *analysis.SharedSpectrum) error {
	if cfg.Transport.WebSocketEnabled {
		ws, err := transport.NewWebSocketTransport(cfg.Transport.WebSocketAddress)
		if err != nil {
			return err
		}
		p.transports = append(p.transports, ws)
	}
	if cfg.Debug {
		p.transports = append(p.transports, transport.NewLoggingTransport())
	}

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return err
		}
		p.sender = sender
		publisher, err := udp.NewUDPPublisher(cfg.Transport.UDPSendInterval, sender, shared)
		if err != nil {
			return err
		}
		publisher.Start()
		p.publisher = publisher
	}
	return nil
}

// ==================== SHUTDOWN PHASE (Cold Path) ====================

// shutdown releases whatever run managed to start. The source stops first
// so nothing writes into the recorder or analyzer after they close.
func (p *pipeline) shutdown() {
	var errs []error
	if p.source != nil {
		errs = append(errs, p.source.Stop())
		if c, ok := p.source.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	if p.recorder.Recording() {
		if err := p.recorder.StopRecording(); err != nil {
			errs = append(errs, err)
		} else {
			fmt.Printf("\nRecording saved to: %s\n", p.recording)
		}
	}
	if p.publisher != nil {
		errs = append(errs, p.publisher.Close())
	}
	if p.sender != nil {
		errs = append(errs, p.sender.Close())
	}
	if p.transports != nil {
		errs = append(errs, p.transports.Close())
	}
	if p.analyzer != nil {
		errs = append(errs, p.analyzer.Close())
	}
	if p.portaudio {
		errs = append(errs, audio.Terminate())
	}
	if err := errors.Join(errs...); err != nil {
		log.Warnf("Main: shutdown: %v", err)
	}
}
