package mocks

import (
	"image"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// PacketSink is a mock implementation of ports.PacketSink that records
// every packet it accepts.
type PacketSink struct {
	mu sync.Mutex

	WritePacketFunc func(pkt ports.Packet) error
	CloseFunc       func() error

	Packets     []ports.Packet
	CloseCalled bool
}

// NewPacketSink creates a new mock PacketSink.
func NewPacketSink() *PacketSink {
	return &PacketSink{}
}

func (m *PacketSink) WritePacket(pkt ports.Packet) error {
	if m.WritePacketFunc != nil {
		if err := m.WritePacketFunc(pkt); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Packets = append(m.Packets, pkt)
	return nil
}

func (m *PacketSink) Close() error {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Seqs returns the sequence numbers of the recorded packets in write order.
func (m *PacketSink) Seqs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	seqs := make([]int64, len(m.Packets))
	for i, pkt := range m.Packets {
		seqs[i] = pkt.Seq
	}
	return seqs
}

var _ ports.PacketSink = (*PacketSink)(nil)

// PacketInspector records every inspected packet.
type PacketInspector struct {
	mu      sync.Mutex
	Packets []ports.Packet
}

func (m *PacketInspector) Inspect(pkt ports.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Packets = append(m.Packets, pkt)
}

var _ ports.PacketInspector = (*PacketInspector)(nil)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Frames  map[int64]image.Image
	Packets map[int64][]byte
	RunJSON []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[int64]image.Image),
		Packets: make(map[int64][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveFrame(seq int64, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[seq] = img
	return nil
}

func (m *DebugSink) SavePacket(seq int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Packets[seq] = append([]byte(nil), data...)
	return nil
}

func (m *DebugSink) SaveRunJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunJSON = data
	return nil
}

// FrameCount returns the number of saved frame previews.
func (m *DebugSink) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Frames)
}

// PacketCount returns the number of saved packet dumps.
func (m *DebugSink) PacketCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Packets)
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                              { return false }
func (m *NullSink) SaveFrame(seq int64, img image.Image) error { return nil }
func (m *NullSink) SavePacket(seq int64, data []byte) error    { return nil }
func (m *NullSink) SaveRunJSON(data []byte) error              { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
