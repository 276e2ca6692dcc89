// SPDX-License-Identifier: MIT
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"freqscope/internal/log"
	"freqscope/internal/transport"
)

// RunHeadless prints the status line of every tick to w, overwriting it in
// place, until ctx is cancelled.
func RunHeadless(ctx context.Context, opts Options, w io.Writer) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var width int
	for {
		select {
		case <-ctx.Done():
			_, err := fmt.Fprintln(w)
			return err
		case <-ticker.C:
		}

		frame := opts.Graph.Run()
		if opts.Transport != nil {
			if err := opts.Transport.Send(transport.NewFrameMessage(frame)); err != nil {
				log.Debugf("Headless: publishing frame: %v", err)
			}
		}

		line := statusLine(frame)
		if frame.Paused {
			line += " [paused]"
		}
		// Pad over any longer previous line.
		pad := max(width-len(line), 0)
		width = len(line)
		if _, err := fmt.Fprintf(w, "\r%s%*s", line, pad, ""); err != nil {
			return err
		}
	}
}
