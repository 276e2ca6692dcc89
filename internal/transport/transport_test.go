// SPDX-License-Identifier: MIT
package transport

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"freqscope/internal/analysis"
	"freqscope/internal/log"
	"freqscope/internal/note"
	"freqscope/pkg/utils"
)

type failingTransport struct{ err error }

func (f failingTransport) Send(any) error { return f.err }
func (f failingTransport) Close() error   { return f.err }

func testFrame() analysis.Frame {
	bar := func(bin int, amp uint8) analysis.Bar {
		return analysis.Bar{Data: analysis.FrequencyData{
			Note:                note.NewStatus(note.BinIndexToFrequency(bin, 4096, 44100)),
			AmplitudePercentage: amp,
			BinIndex:            bin,
		}}
	}
	return analysis.Frame{
		Bars:         []analysis.Bar{bar(0, 1), bar(1, 20), bar(41, 100)},
		Selected:     1,
		HasSelection: true,
		PeakBar:      2,
		SpectrumLen:  4096,
		Generation:   7,
	}
}

func TestNewFrameMessage(t *testing.T) {
	msg := NewFrameMessage(testFrame())
	if msg.Type != "frame" || msg.Generation != 7 || msg.SpectrumLen != 4096 || len(msg.Bars) != 3 {
		t.Fatalf("unexpected header: %+v", msg)
	}
	if msg.Selected == nil || msg.Selected.Bin != 1 {
		t.Errorf("Selected = %+v, want bin 1", msg.Selected)
	}
	if msg.Peak == nil || msg.Peak.Note != "A " || msg.Peak.Octave != 4 || msg.Peak.Amplitude != 100 {
		t.Errorf("Peak = %+v, want A 4 at 100%%", msg.Peak)
	}
	if msg.Bars[0].Note != "--" {
		t.Errorf("DC bar note = %q, want --", msg.Bars[0].Note)
	}

	empty := NewFrameMessage(analysis.Frame{PeakBar: -1})
	if empty.Selected != nil || empty.Peak != nil || len(empty.Bars) != 0 {
		t.Errorf("empty frame message = %+v", empty)
	}
}

func TestMulti(t *testing.T) {
	a, b := &utils.MockTransport{}, &utils.MockTransport{}
	m := Multi{a, b}
	if err := m.Send("hello"); err != nil {
		t.Fatal(err)
	}
	if a.Last() != "hello" || b.Last() != "hello" {
		t.Error("message not fanned out to every transport")
	}
	if err := m.Close(); err != nil || !a.Closed() || !b.Closed() {
		t.Errorf("Close() = %v, closed = %v/%v", err, a.Closed(), b.Closed())
	}

	boom := errors.New("boom")
	c := &utils.MockTransport{}
	m = Multi{failingTransport{boom}, c}
	if err := m.Send(1); !errors.Is(err, boom) {
		t.Errorf("Send error = %v, want boom", err)
	}
	if c.Last() != 1 {
		t.Error("a failing transport stopped the fan-out")
	}
}

func TestLoggingTransport(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	prev := log.GetLevel()
	t.Cleanup(func() {
		log.SetLevel(prev)
		log.SetOutput(os.Stderr)
	})
	log.SetLevel(log.LevelDebug)

	lt := NewLoggingTransport()
	if err := lt.Send(NewFrameMessage(testFrame())); err != nil {
		t.Fatal(err)
	}
	if err := lt.Send(map[string]int{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if err := lt.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"frame 7 ", "bin 1 10.77Hz", `{"x":1}`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
