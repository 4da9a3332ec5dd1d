// Package patternsource generates synthetic test frames.
package patternsource

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// Source renders a moving test pattern: colour bars, a box sweeping across
// the picture and the frame number. Output is deterministic per frame index.
type Source struct {
	geometry ports.Geometry
	frames   int
	next     int
	dc       *gg.Context
}

// New creates a Source producing frames pictures of the given geometry.
func New(g ports.Geometry, frames int) (*Source, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("patternsource: invalid geometry %dx%d", g.Width, g.Height)
	}
	return &Source{
		geometry: g,
		frames:   frames,
		dc:       gg.NewContext(g.Width, g.Height),
	}, nil
}

var bars = [][3]float64{
	{0.75, 0.75, 0.75},
	{0.75, 0.75, 0},
	{0, 0.75, 0.75},
	{0, 0.75, 0},
	{0.75, 0, 0.75},
	{0.75, 0, 0},
	{0, 0, 0.75},
}

// ReadFrame renders the next frame into buf.
func (s *Source) ReadFrame(buf []byte) error {
	if s.next >= s.frames {
		return io.EOF
	}
	if len(buf) < s.geometry.FrameSize() {
		return io.ErrShortBuffer
	}

	s.render(s.next)
	if err := yuv.FromImage(s.dc.Image(), s.geometry, buf); err != nil {
		return err
	}
	s.next++
	return nil
}

func (s *Source) render(index int) {
	w := float64(s.geometry.Width)
	h := float64(s.geometry.Height)
	dc := s.dc

	barWidth := w / float64(len(bars))
	for i, c := range bars {
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(float64(i)*barWidth, 0, math.Ceil(barWidth), h)
		dc.Fill()
	}

	// Sweep once per second at 25 fps.
	size := h / 4
	x := math.Mod(float64(index)*(w/25), w+size) - size
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(x, h/2-size/2, size, size)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, h-20, w, 20)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", index), w/2, h-10, 0.5, 0.5)
}

// Close does nothing.
func (s *Source) Close() error {
	return nil
}

var _ ports.FrameSource = (*Source)(nil)
