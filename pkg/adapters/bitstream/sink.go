// Package bitstream writes encoded packets to a file as a raw elementary
// stream: payloads are concatenated with no container or framing.
package bitstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/user/yuvenc/pkg/ports"
)

// ErrLocked is returned when another process is writing the same output.
var ErrLocked = errors.New("bitstream: output is locked by another run")

// Sink appends packet payloads to an output file. While open it holds an
// exclusive lock on "<path>.lock" so two runs never interleave output.
type Sink struct {
	path  string
	lock  *flock.Flock
	file  io.WriteCloser
	w     *bufio.Writer
	bytes int64
}

// Create locks path and truncates it for writing.
func Create(fs ports.FileSystem, path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	file, err := fs.Create(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create output: %w", err)
	}

	return &Sink{
		path: path,
		lock: lock,
		file: file,
		w:    bufio.NewWriterSize(file, 256<<10),
	}, nil
}

// WritePacket appends the packet payload.
func (s *Sink) WritePacket(pkt ports.Packet) error {
	if s.w == nil {
		return fmt.Errorf("bitstream: write to closed sink %s", s.path)
	}
	n, err := s.w.Write(pkt.Data)
	s.bytes += int64(n)
	return err
}

// Bytes returns the number of bytes accepted so far.
func (s *Sink) Bytes() int64 {
	return s.bytes
}

// Path returns the output path.
func (s *Sink) Path() string {
	return s.path
}

// Close flushes buffered data, closes the file and releases the lock.
// Calling Close more than once is a no-op.
func (s *Sink) Close() error {
	if s.w == nil {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	s.w = nil

	if err := s.lock.Unlock(); err != nil && flushErr == nil && closeErr == nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

var _ ports.PacketSink = (*Sink)(nil)
