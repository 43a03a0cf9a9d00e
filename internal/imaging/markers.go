package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

const (
	defaultMarkerColor  = "#FF0000"
	defaultOutlineColor = "#00FF00"
	markerRadius        = 3
)

// grayBase renders the raster's intensities as an opaque RGBA canvas.
func grayBase(raster *region.Raster) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, raster.Width(), raster.Height()))
	for row := 0; row < raster.Height(); row++ {
		for col := 0; col < raster.Width(); col++ {
			v := uint8(raster.At(row, col))
			out.SetRGBA(col, row, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// resolveColor parses hex, falling back to def on empty or invalid input.
func resolveColor(hex, def string) color.NRGBA {
	c, err := parseHexColor(hex)
	if err != nil {
		c, _ = parseHexColor(def)
	}
	return c
}

// SeedMarkers draws every seed over the grayscale raster as a filled dot
// with its 1-based index beside it, in seed order.
//
// markerHex is "#RRGGBB" or "#RRGGBBAA"; empty or invalid values fall back
// to red.
func SeedMarkers(raster *region.Raster, seeds []region.Seed, markerHex string) *image.RGBA {
	out := grayBase(raster)
	fg := resolveColor(markerHex, defaultMarkerColor)
	bg := color.NRGBA{A: 180}

	for i, s := range seeds {
		drawDot(out, s.Col, s.Row, markerRadius, fg)
		drawLabel(out, s.Col+markerRadius+2, s.Row-2, strconv.Itoa(i+1), fg, bg)
	}
	return out
}

// Outline draws the 4-connected boundary of every mask over the grayscale
// raster.
func Outline(raster *region.Raster, masks []*region.Mask, outlineHex string) (*image.RGBA, error) {
	out := grayBase(raster)
	c := resolveColor(outlineHex, defaultOutlineColor)

	for i, m := range masks {
		if m.Width() != raster.Width() || m.Height() != raster.Height() {
			return nil, fmt.Errorf("mask %d is %dx%d, want %dx%d: %w",
				i+1, m.Width(), m.Height(), raster.Width(), raster.Height(), region.ErrShapeMismatch)
		}
		edge := m.Boundary()
		for row := 0; row < edge.Height(); row++ {
			for col := 0; col < edge.Width(); col++ {
				if edge.At(row, col) {
					out.Set(col, row, c)
				}
			}
		}
	}
	return out, nil
}

// drawDot fills a disc of radius r centered on (cx, cy), clipped to img.
func drawDot(img *image.RGBA, cx, cy, r int, c color.Color) {
	bounds := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if p.In(bounds) {
				img.Set(p.X, p.Y, c)
			}
		}
	}
}

// glyphs is a 3x5 pixel font for the digits used in seed labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws text with a background box at (x, y), clipped to img.
// Characters without a glyph leave a blank cell.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.Color) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(bounds) {
				img.Set(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				p := image.Pt(cx+col, y+row)
				if p.In(bounds) {
					img.Set(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
