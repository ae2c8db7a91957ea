package reveal

import (
	"image"
	"image/color"
	"math"
)

// Motif is the geometric shape drawn into a level's image.
type Motif uint8

const (
	MotifCircle Motif = iota
	MotifSquare
	MotifTriangle
	MotifHeart
	MotifStar
	motifCount // Sentinel value for iteration
)

// String returns the motif name.
func (m Motif) String() string {
	switch m {
	case MotifCircle:
		return "circle"
	case MotifSquare:
		return "square"
	case MotifTriangle:
		return "triangle"
	case MotifHeart:
		return "heart"
	case MotifStar:
		return "star"
	default:
		return "unknown"
	}
}

// MotifForLevel cycles through the motifs every five levels.
func MotifForLevel(level int) Motif {
	n := (level - 1) % int(motifCount)
	if n < 0 {
		n += int(motifCount)
	}
	return Motif(n)
}

// BackgroundColor fills every cell outside the motif.
var BackgroundColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// HiddenColor is drawn over cells that have not been revealed yet.
var HiddenColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// ForegroundColor returns the motif color for a level.
func ForegroundColor(level int) color.RGBA {
	return color.RGBA{
		R: uint8(50 + mod(level*20, 200)),
		G: uint8(100 + mod(level*30, 150)),
		B: uint8(150 + mod(level*40, 100)),
		A: 255,
	}
}

// Synthesize renders the level's image into a width x height RGBA buffer.
// Identical arguments always produce a bit-identical buffer.
func Synthesize(width, height, level int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))

	cx := width / 2
	cy := height / 2
	radius := min(width, height) / 3
	motif := MotifForLevel(level)
	fg := ForegroundColor(level)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if motif.contains(x-cx, y-cy, y, cy, radius) {
				img.SetRGBA(x, y, fg)
			} else {
				img.SetRGBA(x, y, BackgroundColor)
			}
		}
	}

	return img
}

// contains is the per-motif membership predicate. dx and dy are offsets
// from the canvas center; y and cy are absolute rows for the triangle wedge.
func (m Motif) contains(dx, dy, y, cy, r int) bool {
	switch m {
	case MotifCircle:
		return math.Sqrt(float64(dx*dx+dy*dy)) <= float64(r)

	case MotifSquare:
		return abs(dx) <= r && abs(dy) <= r

	case MotifTriangle:
		// Zero radius makes the wedge width undefined; nothing is drawn.
		if r == 0 || y < cy-r {
			return false
		}
		return float64(abs(dx)) <= float64(r*(cy+r-y))/float64(r)

	case MotifHeart:
		fx, fy, fr := float64(dx), float64(dy), float64(r)
		eq := math.Pow(fx*fx+fy*fy-fr*fr, 3) - fx*fx*fy*fy*fy
		return eq <= 0 && fy <= fr/2

	case MotifStar:
		angle := math.Atan2(float64(dy), float64(dx))
		dist := math.Sqrt(float64(dx*dx + dy*dy))
		return dist <= float64(r)*(0.5+0.5*math.Cos(5*angle))
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// mod is a non-negative remainder so negative levels never underflow a channel.
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
