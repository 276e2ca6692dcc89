// SPDX-License-Identifier: MIT
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freqscope/internal/analysis"
	"freqscope/internal/log"
	"freqscope/internal/transport"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#EF476F")).
			Padding(0, 1).
			Bold(true)
)

// Rows taken by the title, status and help lines.
const chromeRows = 5

// Options wires the live view to the pipeline.
type Options struct {
	Graph     *analysis.Graph
	Shared    *analysis.SharedSpectrum
	Transport transport.Transport // Receives a FrameMessage per tick, may be nil
	Colors    analysis.ColorMode
	Interval  time.Duration
	Source    string
}

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// AnalyzerModel is the Bubble Tea model drawing the live spectrum.
type AnalyzerModel struct {
	opts  Options
	keys  analyzerKeys
	help  help.Model
	frame analysis.Frame

	width, height int
	sendErrs      int
}

func NewAnalyzerModel(opts Options) AnalyzerModel {
	if opts.Interval <= 0 {
		opts.Interval = 50 * time.Millisecond
	}
	return AnalyzerModel{
		opts:  opts,
		keys:  newAnalyzerKeys(),
		help:  help.New(),
		frame: analysis.Frame{PeakBar: -1},
	}
}

func (m AnalyzerModel) Init() tea.Cmd {
	return tick(m.opts.Interval)
}

// Frame returns the frame drawn by the last tick.
func (m AnalyzerModel) Frame() analysis.Frame { return m.frame }

func (m AnalyzerModel) canvas() canvas {
	return canvas{
		cols:    m.width,
		rows:    max(m.height-chromeRows, 1),
		graphW:  m.opts.Graph.Width(),
		graphH:  m.opts.Graph.Height(),
		ground:  analysis.GroundHeight,
		padding: analysis.PaddingTop,
	}
}

func (m AnalyzerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.frame = m.opts.Graph.Run()
		if m.opts.Transport != nil {
			if err := m.opts.Transport.Send(transport.NewFrameMessage(m.frame)); err != nil {
				// Transports fail per client; keep drawing and log the first few.
				if m.sendErrs < 3 {
					log.Warnf("TUI: publishing frame: %v", err)
				}
				m.sendErrs++
			}
		}
		return m, tick(m.opts.Interval)

	case tea.MouseMsg:
		if m.width > 0 {
			m.opts.Shared.SetCursor(m.canvas().toVirtual(msg.X))
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			paused := m.opts.Shared.TogglePause()
			log.Debugf("TUI: paused=%v", paused)
		case key.Matches(msg, m.keys.Clear):
			m.opts.Shared.ClearCursor()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Left):
			m.nudge(-1)
		case key.Matches(msg, m.keys.Right):
			m.nudge(1)
		}
	}
	return m, nil
}

// nudge moves the cursor by whole bars, starting from the focused bar.
func (m AnalyzerModel) nudge(dir int) {
	bar, ok := m.frame.FocusBar()
	if !ok || bar.Width <= 0 {
		return
	}
	last := len(m.frame.Bars) - 1
	next := min(max(bar.Data.BinIndex+dir, 0), last)
	m.opts.Shared.SetCursor(next*bar.Width + bar.Width/2)
}

func (m AnalyzerModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sb strings.Builder
	title := titleStyle.Render("freqscope")
	if m.opts.Source != "" {
		title += " " + infoStyle.Render(m.opts.Source)
	}
	if m.frame.Paused {
		title += " " + pausedStyle.Render("PAUSED")
	}
	sb.WriteString(title)
	sb.WriteString("\n\n")

	sb.WriteString(m.canvas().render(m.frame, m.opts.Colors))
	sb.WriteString("\n\n")

	sb.WriteString(statusStyle.Render(statusLine(m.frame)))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// statusLine describes the focused bar, or the startup state.
func statusLine(f analysis.Frame) string {
	bar, ok := f.FocusBar()
	if !ok {
		if f.Empty() {
			return "Waiting for the first analysis window..."
		}
		return "No bar selected"
	}
	return analysis.FormatStatus(f, bar)
}

// Run draws the live view until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		NewAnalyzerModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
