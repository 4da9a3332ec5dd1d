// Package rawsource reads planar YUV 4:2:0 frames from a file or stream.
package rawsource

import (
	"bufio"
	"io"
	"os"

	"github.com/user/yuvenc/pkg/ports"
)

// Stdin is the input path that selects standard input.
const Stdin = "-"

// Source reads fixed-size frames from an io.Reader.
type Source struct {
	r      *bufio.Reader
	closer io.Closer
}

// New creates a Source over r. If r is an io.Closer it is closed by Close.
func New(r io.Reader) *Source {
	s := &Source{r: bufio.NewReaderSize(r, 1<<20)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Open opens path through fs, or standard input when path is "-".
// Standard input is never closed.
func Open(fs ports.FileSystem, path string) (*Source, error) {
	if path == Stdin {
		return &Source{r: bufio.NewReaderSize(os.Stdin, 1<<20)}, nil
	}
	rc, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	return New(rc), nil
}

// ReadFrame fills buf completely. It returns io.EOF when the input is
// exhausted at a frame boundary and io.ErrUnexpectedEOF on a short read.
func (s *Source) ReadFrame(buf []byte) error {
	_, err := io.ReadFull(s.r, buf)
	return err
}

// Close closes the underlying input.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ ports.FrameSource = (*Source)(nil)
