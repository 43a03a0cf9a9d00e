package region

import (
	"fmt"
	"image"
	"image/color"
)

// checkShapes verifies that every mask is width×height.
func checkShapes(width, height int, masks []*Mask) error {
	for i, m := range masks {
		if m.width != width || m.height != height {
			return fmt.Errorf("mask %d is %dx%d, want %dx%d: %w", i+1, m.width, m.height, width, height, ErrShapeMismatch)
		}
	}
	return nil
}

// LabelPreview assigns every region a distinct intensity band.
//
// Masks are painted in slice order; mask i (0-based) writes (i+1)*(255/n)
// into each of its pixels, so where regions overlap the later one wins.
// Pixels in no region are 0. An empty slice returns ErrEmptyMaskList.
func LabelPreview(masks []*Mask) (*LabeledPreview, error) {
	if len(masks) == 0 {
		return nil, ErrEmptyMaskList
	}
	w, h := masks[0].width, masks[0].height
	if err := checkShapes(w, h, masks); err != nil {
		return nil, err
	}

	p := &LabeledPreview{width: w, height: h, values: make([]float64, w*h)}
	step := 255 / float64(len(masks))
	for i, m := range masks {
		v := float64(i+1) * step
		for j, b := range m.bits {
			if b {
				p.values[j] = v
			}
		}
	}
	return p, nil
}

// Union returns the logical OR of masks as a width×height mask. With no
// masks the result is all false. Masks of another shape are ignored.
func Union(width, height int, masks ...*Mask) *Mask {
	out := newMask(width, height)
	for _, m := range masks {
		if m.width != width || m.height != height {
			continue
		}
		for i, b := range m.bits {
			if b {
				out.bits[i] = true
			}
		}
	}
	return out
}

// Overlay copies the raster's color pixels wherever any mask is set and
// paints every other pixel opaque black.
//
// Rasters without a color image contribute their grayscale intensity.
func Overlay(raster *Raster, masks []*Mask) (*image.RGBA, error) {
	if err := checkShapes(raster.width, raster.height, masks); err != nil {
		return nil, err
	}
	combined := Union(raster.width, raster.height, masks...)

	out := image.NewRGBA(image.Rect(0, 0, raster.width, raster.height))
	for row := 0; row < raster.height; row++ {
		for col := 0; col < raster.width; col++ {
			if combined.bits[row*raster.width+col] {
				out.SetRGBA(col, row, raster.ColorAt(row, col))
			} else {
				out.SetRGBA(col, row, color.RGBA{A: 255})
			}
		}
	}
	return out, nil
}
