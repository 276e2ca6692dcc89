// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
)

// setupPortAudio initializes PortAudio or skips on hosts without audio.
func setupPortAudio(t *testing.T) {
	t.Helper()
	if err := Initialize(); err != nil {
		t.Skipf("PortAudio unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := Terminate(); err != nil {
			t.Errorf("Failed to terminate PortAudio: %v", err)
		}
	})
}

func mockDevices(t *testing.T, devices []*portaudio.DeviceInfo, err error) {
	t.Helper()
	orig := paDevicesFunc
	t.Cleanup(func() { paDevicesFunc = orig })
	paDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return devices, err }
}

func TestHostDevices(t *testing.T) {
	setupPortAudio(t)

	devices, err := HostDevices()
	if err != nil {
		t.Fatalf("HostDevices error: %v", err)
	}
	if len(devices) == 0 {
		t.Skip("No audio devices found on system")
	}
	for i, d := range devices {
		if d.ID != i {
			t.Errorf("Device ID mismatch: got %d, want %d", d.ID, i)
		}
		if d.Name == "" {
			t.Errorf("Device %d has empty name", i)
		}
		if d.DefaultSampleRate <= 0 {
			t.Errorf("Device %d has invalid sample rate: %f", i, d.DefaultSampleRate)
		}
	}
}

func TestHostDevices_paDevicesError(t *testing.T) {
	mockDevices(t, nil, fmt.Errorf("mock error"))

	_, err := HostDevices()
	if err == nil || !strings.Contains(err.Error(), "mock error") {
		t.Errorf("expected mock error, got %v", err)
	}
}

func TestInputDevice(t *testing.T) {
	mockDevices(t, []*portaudio.DeviceInfo{
		{Name: "Built-in Microphone", MaxInputChannels: 1},
		{Name: "Built-in Output", MaxOutputChannels: 2},
	}, nil)

	tests := []struct {
		id      int
		want    string
		wantErr string
	}{
		{0, "Built-in Microphone", ""},
		{1, "", "no input channels"},
		{2, "", "invalid device ID"},
		{-5, "", "invalid device ID"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.id), func(t *testing.T) {
			dev, err := InputDevice(tt.id)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("InputDevice(%d) error = %v, want %q", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil || dev.Name != tt.want {
				t.Errorf("InputDevice(%d) = %v, %v", tt.id, dev, err)
			}
		})
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		in, out int
		want    string
	}{
		{2, 2, "Input/Output"},
		{1, 0, "Input"},
		{0, 2, "Output"},
		{0, 0, ""},
	}
	for _, tt := range tests {
		d := Device{MaxInputChannels: tt.in, MaxOutputChannels: tt.out}
		if got := d.Type(); got != tt.want {
			t.Errorf("Type(%d in, %d out) = %q, want %q", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestInputDevices(t *testing.T) {
	devices := []Device{
		{ID: 0, MaxOutputChannels: 2},
		{ID: 1, MaxInputChannels: 1},
		{ID: 2, MaxInputChannels: 2, MaxOutputChannels: 2},
	}
	inputs := InputDevices(devices)
	if len(inputs) != 2 || inputs[0].ID != 1 || inputs[1].ID != 2 {
		t.Errorf("InputDevices = %+v", inputs)
	}
}

func TestListDevices(t *testing.T) {
	var buf bytes.Buffer
	ListDevices(&buf, []Device{{
		ID:                3,
		Name:              "USB Mic",
		MaxInputChannels:  1,
		DefaultSampleRate: 48000,
		LowInputLatency:   5 * time.Millisecond,
		HighInputLatency:  20 * time.Millisecond,
		IsDefaultInput:    true,
	}})

	out := buf.String()
	for _, want := range []string{
		"[3] USB Mic (Input) *default input*",
		"Input channels: 1, Output channels: 0",
		"Default sample rate: 48000 Hz",
		"Latency: Low=5.00ms, High=20.00ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ListDevices output missing %q:\n%s", want, out)
		}
	}
}
