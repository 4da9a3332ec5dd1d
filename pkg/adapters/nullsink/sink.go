// Package nullsink provides no-op sink implementations.
package nullsink

import (
	"image"

	"github.com/user/yuvenc/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(seq int64, img image.Image) error {
	return nil
}

// SavePacket does nothing.
func (s *Sink) SavePacket(seq int64, data []byte) error {
	return nil
}

// SaveRunJSON does nothing.
func (s *Sink) SaveRunJSON(data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)

// Packets is a ports.PacketSink that counts and drops every packet.
// It backs dry runs.
type Packets struct {
	Count int
	Bytes int64
}

// NewPackets creates a discarding packet sink.
func NewPackets() *Packets {
	return &Packets{}
}

// WritePacket drops the packet.
func (p *Packets) WritePacket(pkt ports.Packet) error {
	p.Count++
	p.Bytes += int64(len(pkt.Data))
	return nil
}

// Close does nothing.
func (p *Packets) Close() error {
	return nil
}

var _ ports.PacketSink = (*Packets)(nil)
