// SPDX-License-Identifier: MIT
package udp

import (
	"errors"
	"slices"
	"testing"

	"freqscope/internal/config"
)

func TestPacketLayout(t *testing.T) {
	b := AppendPacket(nil, 0x01020304, 0x0A0B0C0D0E0F1011, []float32{1})
	want := []byte{
		0x01, 0x02, 0x03, 0x04, // sequence
		0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10, 0x11, // timestamp
		0x00, 0x01, // count
		0x3F, 0x80, 0x00, 0x00, // 1.0f
	}
	if !slices.Equal(b, want) {
		t.Errorf("AppendPacket = % x\nwant           % x", b, want)
	}
}

func TestDecodePacket(t *testing.T) {
	mags := []float32{0, 0.5, 1234.25, 3e9}
	b := AppendPacket(make([]byte, 0, 64), 9, -42, mags)

	p, err := DecodePacket(b)
	if err != nil {
		t.Fatal(err)
	}
	if p.Sequence != 9 || p.Timestamp != -42 || !slices.Equal(p.Magnitudes, mags) {
		t.Errorf("DecodePacket = %+v", p)
	}

	if _, err := DecodePacket(b[:HeaderSize-1]); !errors.Is(err, ErrShortPacket) {
		t.Errorf("short packet error = %v", err)
	}
	if _, err := DecodePacket(b[:len(b)-1]); err == nil {
		t.Error("expected error for truncated body")
	}
}

func TestAppendPacketReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, HeaderSize+4*256)
	mags := make([]float32, 256)
	allocs := testing.AllocsPerRun(20, func() {
		buf = AppendPacket(buf[:0], 1, 2, mags)
	})
	if allocs > 0 {
		t.Errorf("AppendPacket allocated %.1f times with a large enough buffer", allocs)
	}
}

func TestPacketSizeLimit(t *testing.T) {
	tests := []struct {
		windowSize int
		fits       bool
	}{
		{config.DefaultWindowSize, true},
		{config.MaxUDPWindowSize, true},
		{config.MaxUDPWindowSize * 2, false},
		{config.MaxWindowSize, false},
	}
	for _, tt := range tests {
		// One magnitude per bin below Nyquist.
		size := PacketSize(tt.windowSize / 2)
		if got := size <= MaxPayload; got != tt.fits {
			t.Errorf("window %d: packet of %d bytes fits = %v, want %v", tt.windowSize, size, got, tt.fits)
		}
	}
	if got := len(AppendPacket(nil, 1, 2, make([]float32, 3))); got != PacketSize(3) {
		t.Errorf("AppendPacket length = %d, PacketSize(3) = %d", got, PacketSize(3))
	}
}
