// Package frame implements the 64×32 RGB565 pixel raster QGraphic programs
// draw on, and its drawing primitives.
package frame

import (
	"fmt"
	"math"
)

// Width and Height are the fixed dimensions of every Frame.
const (
	Width  = 64
	Height = 32
)

// Pixel is one RGB565-component pixel. Components are stored unmodified
// even when out of their nominal range (r:0..31, g:0..63, b:0..31) — they
// only saturate when rendered.
type Pixel struct {
	R, G, B int
}

// OnChange is invoked once per pixel write, receiving the Frame that
// changed. Bulk primitives (MakeRect, MakeLine, Fill, ...) write through
// SetColor, so they fire once for every pixel they set.
type OnChange func(*Frame)

// Frame is a mutable 64×32 pixel grid with raster primitives. The zero
// value is not usable; construct with New.
type Frame struct {
	display  [Height][Width]Pixel
	onChange OnChange
}

// New returns a Frame with every pixel black and no change listener.
func New() *Frame {
	return &Frame{}
}

// NewFromRows builds a Frame from a 32×64 pixel grid, e.g. decoded from a
// .qgc payload. It panics if the dimensions don't match Height/Width; the
// caller (pkg/codec) validates dimensions before calling this.
func NewFromRows(rows [][]Pixel) *Frame {
	if len(rows) != Height {
		panic(fmt.Sprintf("frame: want %d rows, got %d", Height, len(rows)))
	}
	f := &Frame{}
	for y, row := range rows {
		if len(row) != Width {
			panic(fmt.Sprintf("frame: want %d columns, got %d", Width, len(row)))
		}
		copy(f.display[y][:], row)
	}
	return f
}

// SetOnChange installs (or clears, with nil) the change-notification
// listener.
func (f *Frame) SetOnChange(fn OnChange) {
	f.onChange = fn
}

func (f *Frame) notifyChange() {
	if f.onChange != nil {
		f.onChange(f)
	}
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// Rows returns the underlying 32×64 pixel grid as a fresh [][]Pixel, e.g.
// for JSON/codec serialization.
func (f *Frame) Rows() [][]Pixel {
	rows := make([][]Pixel, Height)
	for y := 0; y < Height; y++ {
		row := make([]Pixel, Width)
		copy(row, f.display[y][:])
		rows[y] = row
	}
	return rows
}

// SetRed replaces the red channel of the pixel at (x, y).
func (f *Frame) SetRed(x, y, value int) {
	f.display[y][x].R = value
	f.notifyChange()
}

// SetGreen replaces the green channel of the pixel at (x, y).
func (f *Frame) SetGreen(x, y, value int) {
	f.display[y][x].G = value
	f.notifyChange()
}

// SetBlue replaces the blue channel of the pixel at (x, y).
func (f *Frame) SetBlue(x, y, value int) {
	f.display[y][x].B = value
	f.notifyChange()
}

// SetColor replaces all three channels of the pixel at (x, y).
func (f *Frame) SetColor(x, y, r, g, b int) {
	f.display[y][x] = Pixel{R: r, G: g, B: b}
	f.notifyChange()
}

// GetPixel reads the pixel at (x, y).
func (f *Frame) GetPixel(x, y int) Pixel { return f.display[y][x] }

// GetRed reads the red channel at (x, y).
func (f *Frame) GetRed(x, y int) int { return f.display[y][x].R }

// GetGreen reads the green channel at (x, y).
func (f *Frame) GetGreen(x, y int) int { return f.display[y][x].G }

// GetBlue reads the blue channel at (x, y).
func (f *Frame) GetBlue(x, y int) int { return f.display[y][x].B }

// MakeRect fills an inclusive axis-aligned rectangle between (x1,y1) and
// (x2,y2). Corners need not be ordered; no clipping is applied (callers
// supply in-range coordinates).
func (f *Frame) MakeRect(x1, y1, x2, y2, r, g, b int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			f.SetColor(x, y, r, g, b)
		}
	}
}

// MakeLine draws a Bresenham line from (x1,y1) to (x2,y2), silently
// clipping any sample outside the 64×32 window.
func (f *Frame) MakeLine(x1, y1, x2, y2, r, g, b int) {
	dx := absInt(x2 - x1)
	dy := -absInt(y2 - y1)
	sx, sy := 1, 1
	if x1 >= x2 {
		sx = -1
	}
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if inBounds(x1, y1) {
			f.SetColor(x1, y1, r, g, b)
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// MakeCurve draws a quadratic Bézier from (x1,y1) to (x2,y2) with control
// point (cx,cy), rasterised as a chain of Bresenham line segments between
// consecutive rounded samples.
func (f *Frame) MakeCurve(x1, y1, x2, y2, cx, cy, r, g, b int) {
	fx1, fy1 := float64(x1), float64(y1)
	fx2, fy2 := float64(x2), float64(y2)
	fcx, fcy := float64(cx), float64(cy)

	steps := int(math.Max(math.Abs(fx2-fx1), math.Abs(fy2-fy1)))*3 + 8
	havePrev := false
	prevX, prevY := 0, 0
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		mt := 1.0 - t
		x := mt*mt*fx1 + 2*mt*t*fcx + t*t*fx2
		y := mt*mt*fy1 + 2*mt*t*fcy + t*t*fy2
		xi := int(math.Round(x))
		yi := int(math.Round(y))
		if havePrev {
			f.MakeLine(prevX, prevY, xi, yi, r, g, b)
		}
		prevX, prevY = xi, yi
		havePrev = true
	}
}

// MakeOval fills an axis-aligned ellipse inscribed in the corner-ordered
// rectangle between (x1,y1) and (x2,y2). Degenerate dimensions clamp to a
// minimum radius of 1.
func (f *Frame) MakeOval(x1, y1, x2, y2, r, g, b int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	cx := float64(x1+x2) / 2.0
	cy := float64(y1+y2) / 2.0
	rx := math.Max(1.0, float64(x2-x1)/2.0)
	ry := math.Max(1.0, float64(y2-y1)/2.0)

	for y := y1; y <= y2; y++ {
		if y < 0 || y >= Height {
			continue
		}
		ny := (float64(y) - cy) / ry
		t := 1.0 - ny*ny
		if t < 0 {
			continue
		}
		span := rx * math.Sqrt(t)
		xa := int(math.Round(cx - span))
		xb := int(math.Round(cx + span))
		for x := xa; x <= xb; x++ {
			if x >= 0 && x < Width {
				f.SetColor(x, y, r, g, b)
			}
		}
	}
}

// Fill performs an iterative 4-neighbour flood fill starting at (startX,
// startY). It is a no-op when the replacement color equals the seed color,
// and out-of-range seeds are ignored.
func (f *Frame) Fill(startX, startY, r, g, b int) {
	if !inBounds(startX, startY) {
		return
	}
	target := f.display[startY][startX]
	replacement := Pixel{R: r, G: g, B: b}
	if target == replacement {
		return
	}

	type coord struct{ x, y int }
	stack := []coord{{startX, startY}}
	visited := make(map[coord]bool)

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[c] {
			continue
		}
		visited[c] = true
		if f.display[c.y][c.x] != target {
			continue
		}
		f.SetColor(c.x, c.y, r, g, b)
		if c.x > 0 {
			stack = append(stack, coord{c.x - 1, c.y})
		}
		if c.x < Width-1 {
			stack = append(stack, coord{c.x + 1, c.y})
		}
		if c.y > 0 {
			stack = append(stack, coord{c.x, c.y - 1})
		}
		if c.y < Height-1 {
			stack = append(stack, coord{c.x, c.y + 1})
		}
	}
}

// SelectedPixel is one entry of a moveSelection payload: the original
// location and the color that lived there.
type SelectedPixel struct {
	X, Y  int
	Color Pixel
}

// MoveSelection clears every listed original position to black, then writes
// each color at (x+dx, y+dy) for destinations that remain in range.
func (f *Frame) MoveSelection(pixels []SelectedPixel, dx, dy int) {
	for _, p := range pixels {
		if inBounds(p.X, p.Y) {
			f.SetColor(p.X, p.Y, 0, 0, 0)
		}
	}
	for _, p := range pixels {
		nx, ny := p.X+dx, p.Y+dy
		if inBounds(nx, ny) {
			f.SetColor(nx, ny, p.Color.R, p.Color.G, p.Color.B)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
