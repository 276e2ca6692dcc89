// SPDX-License-Identifier: MIT
package audio

import "time"

// Device describes one PortAudio host device.
type Device struct {
	ID                int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	LowInputLatency   time.Duration
	HighInputLatency  time.Duration
	IsDefaultInput    bool
}

// Type returns "Input", "Output" or "Input/Output", empty for a device
// with no channels.
func (d Device) Type() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	default:
		return ""
	}
}

// CanCapture reports whether the device offers a mono input.
func (d Device) CanCapture() bool { return d.MaxInputChannels > 0 }

// InputDevices filters devices down to those that can capture.
func InputDevices(devices []Device) []Device {
	var inputs []Device
	for _, d := range devices {
		if d.CanCapture() {
			inputs = append(inputs, d)
		}
	}
	return inputs
}
