package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left corner", 2, 3, true},
		{"last cell", 5, 4, true},
		{"right edge is exclusive", 6, 3, false},
		{"bottom edge is exclusive", 2, 5, false},
		{"left of rect", 1, 3, false},
		{"above rect", 2, 2, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectEdgesAndCenter(t *testing.T) {
	r := NewRect(10, 20, 6, 4)
	if r.Right() != 16 || r.Bottom() != 24 {
		t.Errorf("Right/Bottom = %d/%d, expected 16/24", r.Right(), r.Bottom())
	}
	if cx, cy := r.Center(); cx != 13 || cy != 22 {
		t.Errorf("Center() = (%d, %d), expected (13, 22)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 0, 0},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestNewViewportCenters(t *testing.T) {
	// A 5x4 image at 2 columns per pixel is 10x4 terminal cells.
	v := NewViewport(NewRect(0, 2, 30, 10), 5, 4, 2)

	expected := NewRect(10, 5, 10, 4)
	if v.Origin != expected {
		t.Errorf("Origin = %+v, expected %+v", v.Origin, expected)
	}
}

func TestNewViewportOverflow(t *testing.T) {
	v := NewViewport(NewRect(1, 1, 8, 3), 10, 10, 2)
	if v.Origin.X != 1 || v.Origin.Y != 1 {
		t.Errorf("oversized image should anchor at the area corner, got %+v", v.Origin)
	}

	v = NewViewport(NewRect(0, 0, 10, 10), 2, 2, 0)
	if v.CellWidth != 1 {
		t.Errorf("CellWidth = %d, expected 1 for a zero width", v.CellWidth)
	}
}

func TestViewportPixelAt(t *testing.T) {
	v := Viewport{Origin: NewRect(10, 5, 10, 4), Clip: NewRect(10, 5, 10, 4), CellWidth: 2}

	tests := []struct {
		name       string
		col, row   int
		x, y       int
		expectedOK bool
	}{
		{"first pixel left half", 10, 5, 0, 0, true},
		{"first pixel right half", 11, 5, 0, 0, true},
		{"second pixel", 12, 5, 1, 0, true},
		{"last pixel", 19, 8, 4, 3, true},
		{"left of image", 9, 5, 0, 0, false},
		{"right of image", 20, 5, 0, 0, false},
		{"below image", 10, 9, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, ok := v.PixelAt(tc.col, tc.row)
			if ok != tc.expectedOK {
				t.Fatalf("PixelAt(%d, %d) ok = %v, expected %v", tc.col, tc.row, ok, tc.expectedOK)
			}
			if ok && (x != tc.x || y != tc.y) {
				t.Errorf("PixelAt(%d, %d) = (%d, %d), expected (%d, %d)", tc.col, tc.row, x, y, tc.x, tc.y)
			}
		})
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(NewRect(0, 0, 40, 20), 7, 6, 3)
	for y := 0; y < 6; y++ {
		for x := 0; x < 7; x++ {
			col, row := v.CellOf(x, y)
			for dc := 0; dc < 3; dc++ {
				gx, gy, ok := v.PixelAt(col+dc, row)
				if !ok || gx != x || gy != y {
					t.Errorf("PixelAt(CellOf(%d, %d)+%d) = (%d, %d, %v)", x, y, dc, gx, gy, ok)
				}
			}
		}
	}
}

func TestCursorMove(t *testing.T) {
	c := Cursor{X: 0, Y: 0}

	c = c.Move(ActionLeft, 4, 3)
	if c != (Cursor{0, 0}) {
		t.Errorf("Move left at the edge = %+v, expected (0, 0)", c)
	}

	c = c.Move(ActionRight, 4, 3).Move(ActionDown, 4, 3)
	if c != (Cursor{1, 1}) {
		t.Errorf("Move = %+v, expected (1, 1)", c)
	}

	for i := 0; i < 10; i++ {
		c = c.Move(ActionRight, 4, 3).Move(ActionDown, 4, 3)
	}
	if c != (Cursor{3, 2}) {
		t.Errorf("Move past the corner = %+v, expected (3, 2)", c)
	}

	if got := c.Move(ActionReveal, 4, 3); got != c {
		t.Error("non-movement action should leave the cursor alone")
	}
}

func TestActionString(t *testing.T) {
	if ActionReveal.String() != "Reveal" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}

func TestViewportClipsOverflow(t *testing.T) {
	area := NewRect(1, 1, 8, 3)
	v := NewViewport(area, 10, 10, 2)

	if v.Visible() != area {
		t.Fatalf("Visible() = %+v, expected %+v", v.Visible(), area)
	}
	if _, _, ok := v.PixelAt(2, 6); ok {
		t.Error("a click below the visible area should not hit a pixel")
	}
	if x, y, ok := v.PixelAt(3, 2); !ok || x != 1 || y != 1 {
		t.Errorf("PixelAt(3, 2) = (%d, %d, %v), expected (1, 1, true)", x, y, ok)
	}
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	if got := a.Intersect(NewRect(5, 5, 10, 10)); got != NewRect(5, 5, 5, 5) {
		t.Errorf("Intersect = %+v, expected {5 5 5 5}", got)
	}
	if got := a.Intersect(NewRect(20, 20, 2, 2)); got != (Rect{}) {
		t.Errorf("disjoint Intersect = %+v, expected empty", got)
	}
}

func TestViewportNoRoomHidesEverything(t *testing.T) {
	// A terminal too short for the canvas leaves a negative-height area.
	v := NewViewport(NewRect(1, 3, 78, -2), 4, 3, 2)

	if v.Visible() != (Rect{}) {
		t.Fatalf("Visible() = %+v, expected empty", v.Visible())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			col, row := v.CellOf(x, y)
			if _, _, ok := v.PixelAt(col, row); ok {
				t.Errorf("PixelAt(CellOf(%d, %d)) hit a pixel with no visible canvas", x, y)
			}
		}
	}

	v = NewViewport(NewRect(0, 0, 0, 10), 2, 2, 2)
	if _, _, ok := v.PixelAt(v.Origin.X, v.Origin.Y); ok {
		t.Error("a zero-width area should not accept clicks")
	}
}
