// Package codec implements the .qgc frame file format, the raw RGB565
// buffer layout, and a PNG preview exporter.
package codec

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"errors"
	"io"
	"os"

	"qgraphic/pkg/frame"
)

// QGCMagic is the fixed 4-byte header of every .qgc file.
const QGCMagic = "QGC1"

// ErrInvalidFrameFormat is returned when a .qgc payload is missing its
// magic bytes or carries unsupported dimensions.
var ErrInvalidFrameFormat = errors.New("codec: invalid .qgc frame format")

type qgcPayload struct {
	W      int       `json:"w"`
	H      int       `json:"h"`
	Pixels [][][3]int `json:"pixels"`
}

// SaveQGC writes f to path as magic + zlib(level 6)-compressed JSON.
func SaveQGC(f *frame.Frame, path string) error {
	data, err := EncodeQGC(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// EncodeQGC serializes f into the in-memory .qgc byte representation.
func EncodeQGC(f *frame.Frame) ([]byte, error) {
	payload := qgcPayload{W: frame.Width, H: frame.Height}
	for _, row := range f.Rows() {
		jsonRow := make([][3]int, len(row))
		for x, px := range row {
			jsonRow[x] = [3]int{px.R, px.G, px.B}
		}
		payload.Pixels = append(payload.Pixels, jsonRow)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, 6)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(QGCMagic)+compressed.Len())
	out = append(out, []byte(QGCMagic)...)
	out = append(out, compressed.Bytes()...)
	return out, nil
}

// LoadQGC reads a .qgc file from path.
func LoadQGC(path string) (*frame.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeQGC(data)
}

// DecodeQGC parses the in-memory .qgc byte representation produced by
// EncodeQGC/SaveQGC.
func DecodeQGC(data []byte) (*frame.Frame, error) {
	if len(data) < len(QGCMagic) || string(data[:len(QGCMagic)]) != QGCMagic {
		return nil, ErrInvalidFrameFormat
	}
	zr, err := zlib.NewReader(bytes.NewReader(data[len(QGCMagic):]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}

	var payload qgcPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.W != frame.Width || payload.H != frame.Height || len(payload.Pixels) != frame.Height {
		return nil, ErrInvalidFrameFormat
	}

	rows := make([][]frame.Pixel, frame.Height)
	for y, jsonRow := range payload.Pixels {
		if len(jsonRow) != frame.Width {
			return nil, ErrInvalidFrameFormat
		}
		row := make([]frame.Pixel, frame.Width)
		for x, px := range jsonRow {
			row[x] = frame.Pixel{R: px[0], G: px[1], B: px[2]}
		}
		rows[y] = row
	}
	return frame.NewFromRows(rows), nil
}
