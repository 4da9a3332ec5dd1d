// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	"github.com/user/yuvenc/pkg/ports"
	"golang.org/x/image/draw"
)

// DefaultThumbnailWidth is the width frame previews are scaled to.
const DefaultThumbnailWidth = 160

// Sink saves debug output to files:
//
//	<base>/frames/frame-0000.png   scaled frame previews
//	<base>/packets/packet-0000.bin encoded packet payloads
//	<base>/run.json                the run outcome
type Sink struct {
	baseDir    string
	fs         ports.FileSystem
	thumbWidth int
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir:    baseDir,
		fs:         fs,
		thumbWidth: DefaultThumbnailWidth,
	}
}

// WithThumbnailWidth sets the preview width; 0 keeps the original size.
func (s *Sink) WithThumbnailWidth(width int) *Sink {
	s.thumbWidth = width
	return s
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame saves a PNG preview of a frame.
func (s *Sink) SaveFrame(seq int64, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, s.thumbnail(img)); err != nil {
		return fmt.Errorf("encode frame preview: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", seq))
	return s.fs.WriteFile(path, buf.Bytes())
}

// SavePacket saves the raw payload of a packet.
func (s *Sink) SavePacket(seq int64, data []byte) error {
	dir := filepath.Join(s.baseDir, "packets")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("packet-%04d.bin", seq))
	return s.fs.WriteFile(path, data)
}

// SaveRunJSON saves the run outcome.
func (s *Sink) SaveRunJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "run.json")
	return s.fs.WriteFile(path, data)
}

func (s *Sink) thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if s.thumbWidth <= 0 || b.Dx() <= s.thumbWidth {
		return img
	}
	height := b.Dy() * s.thumbWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.thumbWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
