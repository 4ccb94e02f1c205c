package frame

import "testing"

func TestSetColorGetPixel(t *testing.T) {
	f := New()
	f.SetColor(5, 10, 31, 63, 31)
	got := f.GetPixel(5, 10)
	want := Pixel{R: 31, G: 63, B: 31}
	if got != want {
		t.Errorf("GetPixel(5,10) = %+v; want %+v", got, want)
	}
	if f.GetRed(5, 10) != 31 || f.GetGreen(5, 10) != 63 || f.GetBlue(5, 10) != 31 {
		t.Errorf("channel getters disagree with GetPixel: %+v", got)
	}
}

func TestSetChannelPreservesOthers(t *testing.T) {
	f := New()
	f.SetColor(0, 0, 10, 20, 30)
	f.SetRed(0, 0, 5)
	if got := f.GetPixel(0, 0); got != (Pixel{R: 5, G: 20, B: 30}) {
		t.Errorf("SetRed changed other channels: %+v", got)
	}
	f.SetGreen(0, 0, 6)
	if got := f.GetPixel(0, 0); got != (Pixel{R: 5, G: 6, B: 30}) {
		t.Errorf("SetGreen changed other channels: %+v", got)
	}
	f.SetBlue(0, 0, 7)
	if got := f.GetPixel(0, 0); got != (Pixel{R: 5, G: 6, B: 7}) {
		t.Errorf("SetBlue changed other channels: %+v", got)
	}
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	f := New()
	calls := 0
	f.SetOnChange(func(*Frame) { calls++ })
	f.SetColor(0, 0, 1, 1, 1)
	f.SetRed(0, 0, 2)
	f.MakeRect(0, 0, 1, 1, 3, 3, 3)
	if calls != 2+4 {
		t.Errorf("onChange fired %d times; want %d", calls, 6)
	}
}

func TestMakeRectFillsInclusiveBounds(t *testing.T) {
	f := New()
	f.MakeRect(2, 2, 4, 3, 1, 2, 3)
	for y := 2; y <= 3; y++ {
		for x := 2; x <= 4; x++ {
			if got := f.GetPixel(x, y); got != (Pixel{1, 2, 3}) {
				t.Errorf("pixel (%d,%d) = %+v; want filled", x, y, got)
			}
		}
	}
	if got := f.GetPixel(5, 2); got != (Pixel{}) {
		t.Errorf("pixel outside rect was painted: %+v", got)
	}
}

func TestMakeRectReversedCorners(t *testing.T) {
	a := New()
	a.MakeRect(4, 3, 2, 2, 9, 9, 9)
	b := New()
	b.MakeRect(2, 2, 4, 3, 9, 9, 9)
	if a.Rows()[2][2] != b.Rows()[2][2] || a.Rows()[3][4] != b.Rows()[3][4] {
		t.Errorf("reversed-corner rect did not match ordered-corner rect")
	}
}

func TestMakeLineEndpoints(t *testing.T) {
	f := New()
	f.MakeLine(0, 0, 5, 0, 1, 1, 1)
	for x := 0; x <= 5; x++ {
		if got := f.GetPixel(x, 0); got != (Pixel{1, 1, 1}) {
			t.Errorf("horizontal line missing pixel at x=%d: %+v", x, got)
		}
	}
}

func TestMakeLineClipsOutOfBounds(t *testing.T) {
	f := New()
	// should not panic even though the line starts off-canvas
	f.MakeLine(-5, -5, 5, 5, 1, 1, 1)
}

func TestMakeOvalFillsCenterAndLeftEdge(t *testing.T) {
	f := New()
	f.MakeOval(10, 10, 20, 16, 2, 2, 2)
	if got := f.GetPixel(15, 13); got != (Pixel{2, 2, 2}) {
		t.Errorf("oval center not painted: %+v", got)
	}
	if got := f.GetPixel(10, 13); got != (Pixel{2, 2, 2}) {
		t.Errorf("oval left-edge row not painted: %+v", got)
	}
}

func TestFillBoundedRegion(t *testing.T) {
	f := New()
	f.MakeRect(0, 0, 9, 9, 5, 5, 5)
	f.Fill(5, 5, 1, 1, 1)
	for y := 0; y <= 9; y++ {
		for x := 0; x <= 9; x++ {
			if got := f.GetPixel(x, y); got != (Pixel{1, 1, 1}) {
				t.Errorf("fill missed pixel (%d,%d): %+v", x, y, got)
			}
		}
	}
	if got := f.GetPixel(10, 10); got != (Pixel{}) {
		t.Errorf("fill leaked past the painted region: %+v", got)
	}
}

func TestFillNoopWhenTargetEqualsReplacement(t *testing.T) {
	f := New()
	calls := 0
	f.SetOnChange(func(*Frame) { calls++ })
	f.Fill(0, 0, 0, 0, 0)
	if calls != 0 {
		t.Errorf("Fill with matching color fired %d changes; want 0", calls)
	}
}

func TestFillOutOfBoundsIsNoop(t *testing.T) {
	f := New()
	f.Fill(-1, -1, 9, 9, 9)
	f.Fill(Width, Height, 9, 9, 9)
}

func TestMoveSelectionShiftsAndClears(t *testing.T) {
	f := New()
	f.SetColor(3, 3, 7, 7, 7)
	pixels := []SelectedPixel{{X: 3, Y: 3, Color: Pixel{7, 7, 7}}}
	f.MoveSelection(pixels, 2, 0)
	if got := f.GetPixel(3, 3); got != (Pixel{}) {
		t.Errorf("original position not cleared: %+v", got)
	}
	if got := f.GetPixel(5, 3); got != (Pixel{7, 7, 7}) {
		t.Errorf("destination not painted: %+v", got)
	}
}

func TestMoveSelectionIdentityForZeroDelta(t *testing.T) {
	f := New()
	f.SetColor(3, 3, 7, 7, 7)
	pixels := []SelectedPixel{{X: 3, Y: 3, Color: Pixel{7, 7, 7}}}
	f.MoveSelection(pixels, 0, 0)
	if got := f.GetPixel(3, 3); got != (Pixel{7, 7, 7}) {
		t.Errorf("zero-delta move should be an identity, got %+v", got)
	}
}

func TestMoveSelectionDropsOffCanvasDestination(t *testing.T) {
	f := New()
	f.SetColor(0, 0, 7, 7, 7)
	pixels := []SelectedPixel{{X: 0, Y: 0, Color: Pixel{7, 7, 7}}}
	f.MoveSelection(pixels, -1, 0)
	if got := f.GetPixel(0, 0); got != (Pixel{}) {
		t.Errorf("original should still be cleared even if destination is off-canvas: %+v", got)
	}
}

func TestNewFromRowsRoundTrip(t *testing.T) {
	f := New()
	f.SetColor(1, 1, 4, 5, 6)
	rows := f.Rows()
	g := NewFromRows(rows)
	if g.GetPixel(1, 1) != f.GetPixel(1, 1) {
		t.Errorf("NewFromRows did not preserve pixel data")
	}
}
