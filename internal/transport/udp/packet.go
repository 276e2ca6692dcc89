// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

/*
UDP Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Magnitude Count   | uint16         | 2            | Number of floats (N)    |
| Magnitudes        | []float32      | N * 4        | Spectrum bins 0..N-1    |
+-----------------------------------------------------------------------------+

N is half the analysis window: bins above Nyquist mirror the lower half
and are not sent.
*/

// HeaderSize is the number of bytes before the magnitudes.
const HeaderSize = 4 + 8 + 2

// MaxMagnitudes is the largest count the header can describe.
const MaxMagnitudes = math.MaxUint16

// MaxPayload is the largest IPv4 UDP payload. Larger packets fail to send.
const MaxPayload = 65507

// PacketSize is the encoded length of a packet carrying n magnitudes.
func PacketSize(n int) int { return HeaderSize + 4*n }

var ErrShortPacket = errors.New("udp: packet shorter than its header")

// Packet is a decoded spectrum datagram.
type Packet struct {
	Sequence   uint32
	Timestamp  int64
	Magnitudes []float32
}

// AppendPacket encodes a packet onto dst and returns the extended slice.
// It panics if mags has more than MaxMagnitudes entries.
func AppendPacket(dst []byte, seq uint32, timestamp int64, mags []float32) []byte {
	if len(mags) > MaxMagnitudes {
		panic(fmt.Sprintf("udp: %d magnitudes exceed packet limit", len(mags)))
	}
	dst = binary.BigEndian.AppendUint32(dst, seq)
	dst = binary.BigEndian.AppendUint64(dst, uint64(timestamp))
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(mags)))
	for _, m := range mags {
		dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(m))
	}
	return dst
}

// DecodePacket parses a datagram produced by AppendPacket.
func DecodePacket(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return Packet{}, ErrShortPacket
	}
	p := Packet{
		Sequence:  binary.BigEndian.Uint32(b[0:4]),
		Timestamp: int64(binary.BigEndian.Uint64(b[4:12])),
	}
	n := int(binary.BigEndian.Uint16(b[12:14]))
	body := b[HeaderSize:]
	if len(body) != n*4 {
		return Packet{}, fmt.Errorf("udp: header announces %d magnitudes, body holds %d bytes", n, len(body))
	}
	p.Magnitudes = make([]float32, n)
	for i := range p.Magnitudes {
		p.Magnitudes[i] = math.Float32frombits(binary.BigEndian.Uint32(body[i*4:]))
	}
	return p, nil
}
