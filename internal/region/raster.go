package region

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Seed is a pixel coordinate in raster index space.
type Seed struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the seed as (row,col).
func (s Seed) String() string {
	return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
}

// Raster is an immutable grayscale intensity grid with an optional
// co-registered color image used only for visualization.
//
// The engine never mutates a Raster, so one value can be shared by any
// number of growth runs.
type Raster struct {
	width  int
	height int
	pix    []uint8
	color  *image.RGBA
}

// NewRaster copies gray (and color, if non-nil) into a new Raster anchored
// at the origin.
//
// Parameters:
//   - gray: Single-channel intensity samples. Must have a non-empty bounds.
//   - color: Optional color image. When non-nil its bounds must have the
//     same width and height as gray.
//
// Returns ErrShapeMismatch (wrapped) when the color image dimensions differ.
func NewRaster(gray *image.Gray, colorImg image.Image) (*Raster, error) {
	if gray == nil {
		return nil, fmt.Errorf("nil grayscale image")
	}
	b := gray.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty grayscale image")
	}

	r := &Raster{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]uint8, b.Dx()*b.Dy()),
	}
	for y := 0; y < r.height; y++ {
		off := gray.PixOffset(b.Min.X, b.Min.Y+y)
		copy(r.pix[y*r.width:(y+1)*r.width], gray.Pix[off:off+r.width])
	}

	if colorImg != nil {
		cb := colorImg.Bounds()
		if cb.Dx() != r.width || cb.Dy() != r.height {
			return nil, fmt.Errorf("color image %dx%d vs grayscale %dx%d: %w",
				cb.Dx(), cb.Dy(), r.width, r.height, ErrShapeMismatch)
		}
		rgba := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
		draw.Draw(rgba, rgba.Bounds(), colorImg, cb.Min, draw.Src)
		r.color = rgba
	}

	return r, nil
}

// RasterFromValues builds a Raster from row-major intensity rows. All rows
// must have the same length. It is mostly useful for tests and synthetic
// inputs.
func RasterFromValues(rows [][]uint8) (*Raster, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty raster")
	}
	w := len(rows[0])
	gray := image.NewGray(image.Rect(0, 0, w, len(rows)))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d samples, want %d: %w", y, len(row), w, ErrShapeMismatch)
		}
		copy(gray.Pix[y*gray.Stride:y*gray.Stride+w], row)
	}
	return NewRaster(gray, nil)
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// Contains reports whether s lies inside the raster.
func (r *Raster) Contains(s Seed) bool {
	return s.Row >= 0 && s.Row < r.height && s.Col >= 0 && s.Col < r.width
}

// At returns the intensity at (row, col). The coordinate must be in bounds.
func (r *Raster) At(row, col int) float64 {
	return float64(r.pix[row*r.width+col])
}

// Gray returns a copy of the intensity samples as an image.
func (r *Raster) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.width, r.height))
	copy(g.Pix, r.pix)
	return g
}

// HasColor reports whether a color image was supplied.
func (r *Raster) HasColor() bool { return r.color != nil }

// ColorAt returns the visualization color at (row, col). Without a color
// image the grayscale intensity is returned as an opaque gray.
func (r *Raster) ColorAt(row, col int) color.RGBA {
	if r.color != nil {
		off := r.color.PixOffset(col, row)
		p := r.color.Pix[off : off+4 : off+4]
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	v := r.pix[row*r.width+col]
	return color.RGBA{R: v, G: v, B: v, A: 255}
}
