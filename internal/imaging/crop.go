package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// CropResult is one region cut out of the color image.
type CropResult struct {
	ImageResult
	// Bounds is the cropped rectangle in source pixel coordinates.
	Bounds region.Bounds `json:"bounds"`
}

// CropRegion extracts the bounding box of mask from the raster's color
// image. Pixels inside the box but outside the mask are fully transparent.
func CropRegion(raster *region.Raster, mask *region.Mask, scale float64) (*CropResult, error) {
	if mask.Width() != raster.Width() || mask.Height() != raster.Height() {
		return nil, fmt.Errorf("mask %dx%d vs raster %dx%d: %w",
			mask.Width(), mask.Height(), raster.Width(), raster.Height(), region.ErrShapeMismatch)
	}
	box := mask.Bounds()
	if box.Empty() {
		return nil, fmt.Errorf("cannot crop an empty region")
	}

	full := image.NewNRGBA(image.Rect(0, 0, raster.Width(), raster.Height()))
	for row := box.Min.Y; row < box.Max.Y; row++ {
		for col := box.Min.X; col < box.Max.X; col++ {
			if !mask.At(row, col) {
				continue
			}
			c := raster.ColorAt(row, col)
			full.SetNRGBA(col, row, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}

	cropped := imaging.Crop(full, box)
	enc, err := EncodePNG(cropped, scale)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		ImageResult: *enc,
		Bounds:      region.Bounds{X1: box.Min.X, Y1: box.Min.Y, X2: box.Max.X, Y2: box.Max.Y},
	}, nil
}
