package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"qgraphic/pkg/frame"
)

// rgb565ToRGBA bit-expands a 5/6/5 channel into 8-bit RGBA, matching the
// standard RGB565→RGBA8888 replication expansion. Out-of-range components
// saturate to the channel's limits.
func rgb565ToRGBA(px frame.Pixel) color.RGBA {
	clamp := func(v, limit int) byte {
		if v < 0 {
			return 0
		}
		if v > limit {
			return byte(limit)
		}
		return byte(v)
	}
	r5 := clamp(px.R, 0x1F)
	g6 := clamp(px.G, 0x3F)
	b5 := clamp(px.B, 0x1F)
	return color.RGBA{
		R: r5<<3 | r5>>2,
		G: g6<<2 | g6>>4,
		B: b5<<3 | b5>>2,
		A: 0xFF,
	}
}

// ToRGBAImage renders f as a 64×32 *image.RGBA with full RGB565
// bit-expansion, suitable as the source for an upscale.
func ToRGBAImage(f *frame.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			img.SetRGBA(x, y, rgb565ToRGBA(f.GetPixel(x, y)))
		}
	}
	return img
}

// ExportPreviewPNG upscales f by scale (nearest-neighbor, matching the
// blocky LED-matrix look the raster was designed for) and writes it to w as
// a PNG. scale must be at least 1.
func ExportPreviewPNG(f *frame.Frame, scale int, w io.Writer) error {
	if scale < 1 {
		return fmt.Errorf("codec: preview scale must be >= 1, got %d", scale)
	}
	src := ToRGBAImage(f)
	dstRect := image.Rect(0, 0, frame.Width*scale, frame.Height*scale)
	dst := image.NewRGBA(dstRect)
	draw.NearestNeighbor.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)
	return png.Encode(w, dst)
}
