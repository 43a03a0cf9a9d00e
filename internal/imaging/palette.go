package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// LabelColor describes the display color assigned to one region.
type LabelColor struct {
	Index int    `json:"index"` // 1-based region index
	Hex   string `json:"hex"`   // "#RRGGBB"
}

// LabelPalette returns n well separated colors, one per region, by stepping
// the hue around the HSV wheel at fixed saturation and value.
func LabelPalette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hsv(float64(i)*360/float64(n), 0.85, 0.95)
	}
	return out
}

// ColorizeLabels paints each region in its palette color over a black
// background. Like region.LabelPreview, later regions overwrite earlier
// ones where they overlap.
func ColorizeLabels(masks []*region.Mask) (*image.RGBA, []LabelColor, error) {
	if len(masks) == 0 {
		return nil, nil, region.ErrEmptyMaskList
	}
	w, h := masks[0].Width(), masks[0].Height()

	palette := LabelPalette(len(masks))
	legend := make([]LabelColor, len(masks))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range out.Pix {
		if i%4 == 3 {
			out.Pix[i] = 255
		}
	}

	for i, m := range masks {
		if m.Width() != w || m.Height() != h {
			return nil, nil, fmt.Errorf("mask %d is %dx%d, want %dx%d: %w", i+1, m.Width(), m.Height(), w, h, region.ErrShapeMismatch)
		}
		r, g, b := palette[i].RGB255()
		c := color.RGBA{R: r, G: g, B: b, A: 255}
		legend[i] = LabelColor{Index: i + 1, Hex: palette[i].Hex()}
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				if m.At(row, col) {
					out.SetRGBA(col, row, c)
				}
			}
		}
	}
	return out, legend, nil
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func parseHexColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
