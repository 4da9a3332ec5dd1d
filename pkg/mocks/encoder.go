package mocks

import (
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
// Without overrides it emits one packet per frame, carrying the frame's
// sequence number and the first byte of its data.
type VideoEncoder struct {
	mu sync.Mutex

	BeginFunc  func(opts ports.EncoderOptions) error
	EncodeFunc func(frame ports.Frame) (*ports.Packet, error)
	FlushFunc  func() (*ports.Packet, error)
	CloseFunc  func() error

	// Recorded calls for verification
	BeginCalled  bool
	BeginOptions ports.EncoderOptions
	EncodeCalls  []int64
	FlushCalls   int
	CloseCalled  bool
}

func (m *VideoEncoder) Begin(opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.BeginOptions = opts
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(opts)
	}
	return nil
}

func (m *VideoEncoder) Encode(frame ports.Frame) (*ports.Packet, error) {
	m.mu.Lock()
	m.EncodeCalls = append(m.EncodeCalls, frame.Seq)
	m.mu.Unlock()
	if m.EncodeFunc != nil {
		return m.EncodeFunc(frame)
	}
	var payload []byte
	if len(frame.Data) > 0 {
		payload = []byte{frame.Data[0]}
	}
	return &ports.Packet{Seq: frame.Seq, Data: payload}, nil
}

func (m *VideoEncoder) Flush() (*ports.Packet, error) {
	m.mu.Lock()
	m.FlushCalls++
	m.mu.Unlock()
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return nil, nil
}

func (m *VideoEncoder) Close() error {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// EncodedSeqs returns the sequence numbers passed to Encode, in call order.
func (m *VideoEncoder) EncodedSeqs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.EncodeCalls...)
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)

// DelayingEncoder holds back the frames listed in Delay and returns them,
// in ascending order, from Flush. Every other frame is emitted immediately.
// It models a codec with B-frame reordering.
type DelayingEncoder struct {
	VideoEncoder

	Delay   map[int64]bool
	pending []ports.Packet
}

// NewDelayingEncoder creates a DelayingEncoder holding back the given frames.
func NewDelayingEncoder(delayed ...int64) *DelayingEncoder {
	d := &DelayingEncoder{Delay: make(map[int64]bool)}
	for _, seq := range delayed {
		d.Delay[seq] = true
	}
	d.EncodeFunc = func(frame ports.Frame) (*ports.Packet, error) {
		pkt := ports.Packet{Seq: frame.Seq, Data: []byte{byte(frame.Seq)}}
		if d.Delay[frame.Seq] {
			d.pending = append(d.pending, pkt)
			return nil, nil
		}
		return &pkt, nil
	}
	d.FlushFunc = func() (*ports.Packet, error) {
		if len(d.pending) == 0 {
			return nil, nil
		}
		pkt := d.pending[0]
		d.pending = d.pending[1:]
		return &pkt, nil
	}
	return d
}

var _ ports.VideoEncoder = (*DelayingEncoder)(nil)
