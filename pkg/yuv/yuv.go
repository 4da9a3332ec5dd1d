// Package yuv converts between planar YUV 4:2:0 (I420) buffers and images.
package yuv

import (
	"fmt"
	"image"
	"image/color"

	"github.com/user/yuvenc/pkg/ports"
)

// ToImage wraps an I420 buffer as an image.YCbCr without copying.
// The buffer must stay untouched while the image is in use.
func ToImage(data []byte, g ports.Geometry) (*image.YCbCr, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid geometry %dx%d", g.Width, g.Height)
	}
	if len(data) < g.FrameSize() {
		return nil, fmt.Errorf("buffer holds %d bytes, frame needs %d", len(data), g.FrameSize())
	}

	ySize := g.LumaSize()
	cSize := g.ChromaSize()
	return &image.YCbCr{
		Y:              data[:ySize],
		Cb:             data[ySize : ySize+cSize],
		Cr:             data[ySize+cSize : ySize+2*cSize],
		YStride:        g.Width,
		CStride:        g.Width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, g.Width, g.Height),
	}, nil
}

// FromImage converts img into I420 and stores it in dst, which must be at
// least g.FrameSize() bytes. img is sampled from its bounds origin; chroma is
// the average of each 2x2 block.
func FromImage(img image.Image, g ports.Geometry, dst []byte) error {
	if !g.Valid() {
		return fmt.Errorf("invalid geometry %dx%d", g.Width, g.Height)
	}
	if len(dst) < g.FrameSize() {
		return fmt.Errorf("buffer holds %d bytes, frame needs %d", len(dst), g.FrameSize())
	}

	b := img.Bounds()
	ySize := g.LumaSize()
	cSize := g.ChromaSize()
	yPlane := dst[:ySize]
	uPlane := dst[ySize : ySize+cSize]
	vPlane := dst[ySize+cSize : ySize+2*cSize]
	cw := g.Width / 2

	for cy := 0; cy < g.Height/2; cy++ {
		for cx := 0; cx < cw; cx++ {
			var sumCb, sumCr int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := cx*2+dx, cy*2+dy
					r, gr, bl := sample(img, b.Min.X+x, b.Min.Y+y)
					yy, cb, cr := color.RGBToYCbCr(r, gr, bl)
					yPlane[y*g.Width+x] = yy
					sumCb += int(cb)
					sumCr += int(cr)
				}
			}
			uPlane[cy*cw+cx] = uint8((sumCb + 2) / 4)
			vPlane[cy*cw+cx] = uint8((sumCr + 2) / 4)
		}
	}
	return nil
}

func sample(img image.Image, x, y int) (uint8, uint8, uint8) {
	if rgba, ok := img.(*image.RGBA); ok {
		i := rgba.PixOffset(x, y)
		return rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
