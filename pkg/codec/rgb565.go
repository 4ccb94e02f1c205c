package codec

import (
	"errors"

	"qgraphic/pkg/frame"
	"qgraphic/pkg/grid"
)

// RawFrameSize is the fixed byte length of a raw RGB565 frame buffer.
const RawFrameSize = frame.Width * frame.Height * 2

// ErrInvalidRawFrameSize is returned when a raw RGB565 buffer's length is
// not exactly RawFrameSize.
var ErrInvalidRawFrameSize = errors.New("codec: raw RGB565 frame must be 4096 bytes")

// EncodeRGB565 packs f into the 4096-byte row-major RGB565 layout.
func EncodeRGB565(f *frame.Frame) []byte {
	data := make([]byte, RawFrameSize)
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			px := f.GetPixel(x, y)
			value := uint16(px.R&0x1F)<<11 | uint16(px.G&0x3F)<<5 | uint16(px.B&0x1F)
			idx := grid.GetGridIndex(x, y, frame.Width) * 2
			data[idx] = byte(value & 0xFF)
			data[idx+1] = byte(value >> 8 & 0xFF)
		}
	}
	return data
}

// DecodeRGB565 unpacks a 4096-byte row-major RGB565 buffer into a Frame.
func DecodeRGB565(data []byte) (*frame.Frame, error) {
	if len(data) != RawFrameSize {
		return nil, ErrInvalidRawFrameSize
	}
	rows := make([][]frame.Pixel, frame.Height)
	for y := 0; y < frame.Height; y++ {
		row := make([]frame.Pixel, frame.Width)
		for x := 0; x < frame.Width; x++ {
			idx := grid.GetGridIndex(x, y, frame.Width) * 2
			value := uint16(data[idx]) | uint16(data[idx+1])<<8
			row[x] = frame.Pixel{
				R: int(value >> 11 & 0x1F),
				G: int(value >> 5 & 0x3F),
				B: int(value & 0x1F),
			}
		}
		rows[y] = row
	}
	return frame.NewFromRows(rows), nil
}
