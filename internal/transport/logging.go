// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"

	"freqscope/internal/log"
)

// LoggingTransport writes a one-line summary of each message at DEBUG.
type LoggingTransport struct{}

func NewLoggingTransport() *LoggingTransport {
	log.Infof("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs frames by their focus bar and anything else as JSON.
func (lt *LoggingTransport) Send(data any) error {
	if log.GetLevel() > log.LevelDebug {
		return nil
	}
	switch msg := data.(type) {
	case FrameMessage:
		focus := msg.Selected
		if focus == nil {
			focus = msg.Peak
		}
		if focus == nil {
			log.Debugf("Transport: frame %d (no spectrum yet)", msg.Generation)
			return nil
		}
		log.Debugf("Transport: frame %d %s%d bin %d %.2fHz %+d%%",
			msg.Generation, focus.Note, focus.Octave, focus.Bin, focus.FrequencyHz, focus.Error)
	default:
		b, err := json.Marshal(data)
		if err != nil {
			log.Debugf("Transport: %T %+v", data, data)
			return nil
		}
		log.Debugf("Transport: %s", b)
	}
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	log.Debugf("Transport: LoggingTransport closed")
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
