// SPDX-License-Identifier: MIT
// Package transport publishes analysis frames to outside consumers.
package transport

import (
	"errors"

	"freqscope/internal/analysis"
)

// Transport defines a generic interface for sending processed data or events.
// Implementations should be thread-safe and must not block the render loop.
type Transport interface {
	Send(data any) error
	Close() error
}

// Multi fans one message out to several transports.
type Multi []Transport

func (m Multi) Send(data any) error {
	var errs []error
	for _, t := range m {
		if err := t.Send(data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// BarMessage is the wire form of one bar.
type BarMessage struct {
	Bin         int     `json:"bin"`
	FrequencyHz float32 `json:"frequency_hz"`
	Note        string  `json:"note"`
	Octave      int     `json:"octave"`
	Error       int8    `json:"error_percentage"`
	Deviation   int8    `json:"deviation"`
	Amplitude   uint8   `json:"amplitude_percentage"`
}

// FrameMessage is the wire form of one frame.
type FrameMessage struct {
	Type        string       `json:"type"`
	Generation  uint64       `json:"generation"`
	Paused      bool         `json:"paused"`
	SpectrumLen int          `json:"spectrum_len"`
	Selected    *BarMessage  `json:"selected,omitempty"`
	Peak        *BarMessage  `json:"peak,omitempty"`
	Bars        []BarMessage `json:"bars"`
}

func newBarMessage(b analysis.Bar) BarMessage {
	d := b.Data
	return BarMessage{
		Bin:         d.BinIndex,
		FrequencyHz: d.Note.FrequencyHz,
		Note:        d.Note.Name(),
		Octave:      d.Note.Octave(),
		Error:       d.Note.ErrorPercentage,
		Deviation:   d.Note.Deviation,
		Amplitude:   d.AmplitudePercentage,
	}
}

// NewFrameMessage flattens f for JSON consumers.
func NewFrameMessage(f analysis.Frame) FrameMessage {
	msg := FrameMessage{
		Type:        "frame",
		Generation:  f.Generation,
		Paused:      f.Paused,
		SpectrumLen: f.SpectrumLen,
		Bars:        make([]BarMessage, len(f.Bars)),
	}
	for i, b := range f.Bars {
		msg.Bars[i] = newBarMessage(b)
	}
	if b, ok := f.SelectedBar(); ok {
		bm := newBarMessage(b)
		msg.Selected = &bm
	}
	if f.PeakBar >= 0 && f.PeakBar < len(f.Bars) {
		bm := newBarMessage(f.Bars[f.PeakBar])
		msg.Peak = &bm
	}
	return msg
}
