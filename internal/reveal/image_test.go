package reveal

import (
	"bytes"
	"image/color"
	"testing"
)

func TestMotifForLevel(t *testing.T) {
	expected := []Motif{MotifCircle, MotifSquare, MotifTriangle, MotifHeart, MotifStar}
	for level := 1; level <= 15; level++ {
		want := expected[(level-1)%5]
		if got := MotifForLevel(level); got != want {
			t.Errorf("MotifForLevel(%d) = %v, expected %v", level, got, want)
		}
	}
}

func TestForegroundColor(t *testing.T) {
	tests := []struct {
		level    int
		expected color.RGBA
	}{
		{1, color.RGBA{70, 130, 190, 255}},
		{2, color.RGBA{90, 160, 230, 255}},
		{10, color.RGBA{50, 100, 150, 255}},
		{11, color.RGBA{70, 130, 190, 255}},
	}

	for _, tc := range tests {
		if got := ForegroundColor(tc.level); got != tc.expected {
			t.Errorf("ForegroundColor(%d) = %v, expected %v", tc.level, got, tc.expected)
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	for level := 1; level <= 10; level++ {
		d := Dimensions(MustTotalCells(level))
		a := Synthesize(d.Width, d.Height, level)
		b := Synthesize(d.Width, d.Height, level)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("Synthesize(%d, %d, %d) is not deterministic", d.Width, d.Height, level)
		}
	}
}

func TestSynthesizeBounds(t *testing.T) {
	img := Synthesize(7, 5, 3)
	b := img.Bounds()
	if b.Dx() != 7 || b.Dy() != 5 {
		t.Fatalf("image bounds = %v, expected 7x5", b)
	}
	if len(img.Pix) != 7*5*4 {
		t.Errorf("len(Pix) = %d, expected %d", len(img.Pix), 7*5*4)
	}
}

func TestSynthesizeColors(t *testing.T) {
	// Only background and foreground may appear, all fully opaque.
	for level := 1; level <= 5; level++ {
		img := Synthesize(10, 10, level)
		fg := ForegroundColor(level)
		fgCount := 0
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				c := img.RGBAAt(x, y)
				switch c {
				case fg:
					fgCount++
				case BackgroundColor:
				default:
					t.Fatalf("level %d: unexpected color %v at (%d, %d)", level, c, x, y)
				}
			}
		}
		if fgCount == 0 {
			t.Errorf("level %d (%v): motif drew no cells", level, MotifForLevel(level))
		}
	}
}

func TestSynthesizeCircle(t *testing.T) {
	// 10x10: center (5,5), radius 3.
	img := Synthesize(10, 10, 1)
	fg := ForegroundColor(1)

	if img.RGBAAt(5, 5) != fg {
		t.Error("circle center should be foreground")
	}
	if img.RGBAAt(8, 5) != fg {
		t.Error("circle edge (distance 3) should be foreground")
	}
	if img.RGBAAt(8, 8) != BackgroundColor {
		t.Error("diagonal corner (distance 4.24) should be background")
	}
	if img.RGBAAt(0, 0) != BackgroundColor {
		t.Error("canvas corner should be background")
	}
}

func TestSynthesizeSquare(t *testing.T) {
	img := Synthesize(10, 10, 2)
	fg := ForegroundColor(2)

	if img.RGBAAt(2, 2) != fg || img.RGBAAt(8, 8) != fg {
		t.Error("square corners at Chebyshev distance 3 should be foreground")
	}
	if img.RGBAAt(1, 5) != BackgroundColor || img.RGBAAt(9, 5) != BackgroundColor {
		t.Error("cells outside the box should be background")
	}
}

func TestSynthesizeTriangle(t *testing.T) {
	// The wedge is widest at row cy-r = 2 and narrows to a point at cy+r = 8.
	img := Synthesize(10, 10, 3)
	fg := ForegroundColor(3)

	if img.RGBAAt(5, 1) != BackgroundColor {
		t.Error("row above the wedge should be background")
	}
	if img.RGBAAt(5, 2) != fg || img.RGBAAt(0, 2) != fg {
		t.Error("top row of the wedge should be foreground across its width")
	}
	if img.RGBAAt(5, 8) != fg || img.RGBAAt(6, 8) != BackgroundColor {
		t.Error("bottom point of the wedge should be a single cell")
	}
	if img.RGBAAt(1, 9) != BackgroundColor {
		t.Error("far left of the bottom row should be background")
	}
}

func TestSynthesizeZeroRadius(t *testing.T) {
	// min(2,2)/3 == 0: the triangle wedge is empty, the circle is one cell.
	tri := Synthesize(2, 2, 3)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if tri.RGBAAt(x, y) != BackgroundColor {
				t.Errorf("zero-radius triangle drew (%d, %d)", x, y)
			}
		}
	}

	circle := Synthesize(2, 2, 1)
	if circle.RGBAAt(1, 1) != ForegroundColor(1) {
		t.Error("zero-radius circle should draw its center")
	}
}

func TestMotifString(t *testing.T) {
	if MotifStar.String() != "star" || Motif(99).String() != "unknown" {
		t.Error("unexpected motif names")
	}
}

// expectCells checks individual cells against the motif's foreground color.
func expectCells(t *testing.T, level int, cells []struct {
	x, y int
	fg   bool
	name string
}) {
	t.Helper()
	img := Synthesize(12, 12, level)
	fg := ForegroundColor(level)
	for _, c := range cells {
		got := img.RGBAAt(c.x, c.y) == fg
		if got != c.fg {
			t.Errorf("%s (%d, %d): foreground = %v, expected %v", c.name, c.x, c.y, got, c.fg)
		}
	}
}

func TestSynthesizeHeart(t *testing.T) {
	// 12x12: center (6,6), radius 4.
	expectCells(t, 4, []struct {
		x, y int
		fg   bool
		name string
	}{
		{6, 2, true, "top point"},
		{6, 6, true, "center"},
		{2, 6, true, "left lobe edge"},
		{10, 8, true, "right lobe, cut-off row"},
		{6, 9, false, "below the r/2 cut"},
		{2, 9, false, "below the r/2 cut, left"},
		{6, 1, false, "above the top point"},
		{1, 6, false, "outside the left lobe"},
		{3, 3, false, "shoulder gap"},
	})
}

func TestSynthesizeStar(t *testing.T) {
	// 12x12: center (6,6), radius 4; one petal points along +x.
	expectCells(t, 5, []struct {
		x, y int
		fg   bool
		name string
	}{
		{6, 6, true, "center"},
		{10, 6, true, "petal tip along +x"},
		{7, 3, true, "upper petal tip"},
		{3, 4, true, "upper left petal"},
		{3, 8, true, "lower left petal"},
		{5, 4, false, "notch between upper petals"},
		{7, 5, false, "notch beside the +x petal"},
		{11, 6, false, "past the petal tip"},
		{2, 6, false, "left notch"},
	})
}
