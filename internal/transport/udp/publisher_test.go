// SPDX-License-Identifier: MIT
package udp

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"freqscope/internal/analysis"
)

type recordingSender struct {
	mu      sync.Mutex
	packets [][]byte
	err     error
}

func (r *recordingSender) Send(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.packets = append(r.packets, append([]byte(nil), p...))
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.packets)
}

func newTestPublisher(t *testing.T, sender PacketSender, shared *analysis.SharedSpectrum) *UDPPublisher {
	t.Helper()
	p, err := NewUDPPublisher(time.Millisecond, sender, shared)
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time { return time.Unix(0, 1234) }
	return p
}

func TestNewUDPPublisherValidation(t *testing.T) {
	shared := analysis.NewSharedSpectrum()
	if _, err := NewUDPPublisher(time.Second, nil, shared); err == nil {
		t.Error("expected error for nil sender")
	}
	if _, err := NewUDPPublisher(time.Second, &recordingSender{}, nil); err == nil {
		t.Error("expected error for nil provider")
	}
	p, err := NewUDPPublisher(0, &recordingSender{}, shared)
	if err != nil || p.interval != 16*time.Millisecond {
		t.Errorf("default interval = %v, %v", p.interval, err)
	}
}

func TestPublishSkipsUnchangedSpectrum(t *testing.T) {
	shared := analysis.NewSharedSpectrum()
	sender := &recordingSender{}
	p := newTestPublisher(t, sender, shared)

	if p.publish() {
		t.Fatal("published before any spectrum existed")
	}

	shared.Publish([]float32{1, 2, 3, 4, 4, 3, 2, 1})
	if !p.publish() {
		t.Fatal("first spectrum not published")
	}
	if p.publish() {
		t.Error("unchanged generation published twice")
	}

	shared.Publish([]float32{5, 6, 7, 8, 8, 7, 6, 5})
	if !p.publish() {
		t.Fatal("new generation not published")
	}

	if sender.count() != 2 {
		t.Fatalf("sent %d packets, want 2", sender.count())
	}
	pkt, err := DecodePacket(sender.packets[1])
	if err != nil {
		t.Fatal(err)
	}
	if pkt.Sequence != 2 || pkt.Timestamp != 1234 {
		t.Errorf("header = seq %d ts %d", pkt.Sequence, pkt.Timestamp)
	}
	// Only the lower half of the spectrum goes out.
	if len(pkt.Magnitudes) != 4 || pkt.Magnitudes[3] != 8 {
		t.Errorf("magnitudes = %v, want [5 6 7 8]", pkt.Magnitudes)
	}
}

func TestPublishSendError(t *testing.T) {
	shared := analysis.NewSharedSpectrum()
	shared.Publish([]float32{1, 2})
	p := newTestPublisher(t, &recordingSender{err: errors.New("unreachable")}, shared)
	if p.publish() {
		t.Error("publish reported success on send error")
	}
	shared.Publish([]float32{3, 4})
	p.publish()
	if got := p.SendErrors(); got != 2 {
		t.Errorf("SendErrors() = %d, want 2", got)
	}
}

func TestPublisherStartStop(t *testing.T) {
	shared := analysis.NewSharedSpectrum()
	sender := &recordingSender{}
	p := newTestPublisher(t, sender, shared)

	p.Start()
	p.Start() // No-op while running
	shared.Publish([]float32{1, 2, 3, 4})

	deadline := time.Now().Add(2 * time.Second)
	for sender.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("publisher never sent")
		}
		time.Sleep(time.Millisecond)
	}
	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if p.Sent() != 1 {
		t.Errorf("Sent() = %d, want 1", p.Sent())
	}
}

func TestPublisherOverUDP(t *testing.T) {
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Skipf("cannot listen on loopback: %v", err)
	}
	defer listener.Close()

	sender, err := NewUDPSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer sender.Close()

	shared := analysis.NewSharedSpectrum()
	shared.Publish([]float32{0.25, 0.5, 0.5, 0.25})
	p := newTestPublisher(t, sender, shared)
	if !p.publish() {
		t.Fatal("publish failed")
	}

	buf := make([]byte, 1500)
	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatal(err)
	}
	pkt, err := DecodePacket(buf[:n])
	if err != nil {
		t.Fatal(err)
	}
	if pkt.Sequence != 1 || len(pkt.Magnitudes) != 2 || pkt.Magnitudes[1] != 0.5 {
		t.Errorf("received %+v", pkt)
	}
}

func TestUDPSenderClose(t *testing.T) {
	sender, err := NewUDPSender("127.0.0.1:9")
	if err != nil {
		t.Skipf("cannot dial loopback: %v", err)
	}
	if err := sender.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sender.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := sender.Send([]byte{1}); !errors.Is(err, ErrSenderClosed) {
		t.Errorf("Send after Close = %v", err)
	}
	if sender.Target().Port != 9 {
		t.Errorf("Target() = %v", sender.Target())
	}
}

func TestNewUDPSenderBadAddress(t *testing.T) {
	if _, err := NewUDPSender("not an address"); err == nil {
		t.Error("expected resolve error")
	}
}
