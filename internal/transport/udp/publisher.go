// SPDX-License-Identifier: MIT
package udp

import (
	"fmt"
	"sync"
	"time"

	"freqscope/internal/analysis"
	applog "freqscope/internal/log"
)

// PacketSender is the part of UDPSender the publisher needs.
type PacketSender interface {
	Send(packet []byte) error
}

// UDPPublisher periodically fetches the latest spectrum, packs its lower
// half into a datagram and sends it. A tick that finds no new spectrum
// since the last packet sends nothing.
type UDPPublisher struct {
	sender   PacketSender
	provider analysis.SpectrumProvider
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop

	sequenceNum    uint32
	lastGeneration uint64
	sendErrors     int

	// Reused on every tick.
	spectrum []float32
	packet   []byte
}

// NewUDPPublisher creates and initializes a new UDPPublisher. An interval
// <= 0 defaults to 16ms (~60Hz).
func NewUDPPublisher(interval time.Duration, sender PacketSender, provider analysis.SpectrumProvider) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("UDPPublisher: spectrum provider cannot be nil")
	}
	if interval <= 0 {
		interval = 16 * time.Millisecond
		applog.Warnf("UDPPublisher: Invalid interval provided, defaulting to %s", interval)
	}

	applog.Infof("UDPPublisher: Initializing (Interval: %s)", interval)
	return &UDPPublisher{
		sender:   sender,
		provider: provider,
		interval: interval,
		now:      time.Now,
	}, nil
}

// Start launches the publishing goroutine. Calling Start on a running
// publisher is a no-op.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running.")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}
	ticker, doneChan := p.ticker, p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the goroutine to exit and waits for it. Safe to call more
// than once.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("UDPPublisher: Stopped after %d packets", p.Sent())
	return nil
}

// SendErrors returns the number of failed sends. Only the publishing
// goroutine updates it, so read it after Stop.
func (p *UDPPublisher) SendErrors() int { return p.sendErrors }

// Sent returns the number of packets sent.
func (p *UDPPublisher) Sent() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sequenceNum
}

// publish sends one packet if the spectrum changed. It reports whether a
// packet went out.
func (p *UDPPublisher) publish() bool {
	var gen uint64
	p.spectrum, gen = p.provider.Latest(p.spectrum)
	if gen == 0 || gen == p.lastGeneration || len(p.spectrum) == 0 {
		return false
	}
	p.lastGeneration = gen

	half := p.spectrum[:min(len(p.spectrum)/2, MaxMagnitudes)]

	p.mu.Lock()
	p.sequenceNum++
	seq := p.sequenceNum
	p.mu.Unlock()

	p.packet = AppendPacket(p.packet[:0], seq, p.now().UnixNano(), half)
	if err := p.sender.Send(p.packet); err != nil {
		p.sendErrors++
		if p.sendErrors == 1 {
			applog.Warnf("UDPPublisher: Error sending packet %d (%d bytes): %v", seq, len(p.packet), err)
		} else {
			applog.Debugf("UDPPublisher: Error sending packet %d: %v", seq, err)
		}
		return false
	}
	applog.Debugf("UDPPublisher: Sent packet %d (%d bytes)", seq, len(p.packet))
	return true
}

// Close stops the publisher.
func (p *UDPPublisher) Close() error {
	return p.Stop()
}

// Ensure UDPPublisher satisfies the io.Closer interface at compile time.
var _ interface{ Close() error } = (*UDPPublisher)(nil)
