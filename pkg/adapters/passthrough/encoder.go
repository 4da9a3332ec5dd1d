// Package passthrough provides a VideoEncoder that emits every frame
// unchanged. Its output is a raw YUV420P stream, which makes it useful to
// verify the pipeline without a codec.
package passthrough

import (
	"errors"
	"fmt"

	"github.com/user/yuvenc/pkg/ports"
)

// ErrNotInitialized is returned when Encode is called before Begin.
var ErrNotInitialized = errors.New("passthrough: encoder not initialized")

// Encoder copies frames into packets.
type Encoder struct {
	frameSize int
}

// New creates a passthrough encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin records the frame size.
func (e *Encoder) Begin(opts ports.EncoderOptions) error {
	if !opts.Geometry.Valid() {
		return fmt.Errorf("passthrough: invalid geometry %dx%d", opts.Geometry.Width, opts.Geometry.Height)
	}
	e.frameSize = opts.Geometry.FrameSize()
	return nil
}

// Encode returns the frame's bytes as a packet with the frame's sequence number.
func (e *Encoder) Encode(frame ports.Frame) (*ports.Packet, error) {
	if e.frameSize == 0 {
		return nil, ErrNotInitialized
	}
	if len(frame.Data) != e.frameSize {
		return nil, fmt.Errorf("passthrough: frame %d has %d bytes, want %d", frame.Seq, len(frame.Data), e.frameSize)
	}
	return &ports.Packet{Seq: frame.Seq, Data: frame.Data}, nil
}

// Flush never has pending output.
func (e *Encoder) Flush() (*ports.Packet, error) {
	return nil, nil
}

// Close resets the encoder.
func (e *Encoder) Close() error {
	e.frameSize = 0
	return nil
}

var _ ports.VideoEncoder = (*Encoder)(nil)
