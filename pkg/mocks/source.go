package mocks

import (
	"io"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
// Without ReadFrameFunc it produces Frames frames, filling each buffer with
// the frame index, then returns io.EOF.
type FrameSource struct {
	mu sync.Mutex

	Frames        int
	ReadFrameFunc func(index int, buf []byte) error
	CloseFunc     func() error

	// Recorded calls for verification
	Reads       int
	CloseCalled bool
}

// NewFrameSource creates a source producing n frames.
func NewFrameSource(n int) *FrameSource {
	return &FrameSource{Frames: n}
}

func (m *FrameSource) ReadFrame(buf []byte) error {
	m.mu.Lock()
	index := m.Reads
	m.Reads++
	m.mu.Unlock()

	if m.ReadFrameFunc != nil {
		return m.ReadFrameFunc(index, buf)
	}
	if index >= m.Frames {
		return io.EOF
	}
	for i := range buf {
		buf[i] = byte(index)
	}
	return nil
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.FrameSource = (*FrameSource)(nil)
