package region

import "image"

// Mask is an immutable H×W boolean grid produced by one growth run.
type Mask struct {
	width  int
	height int
	bits   []bool
}

func newMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (m *Mask) Width() int { return m.width }

// Height returns the number of rows.
func (m *Mask) Height() int { return m.height }

// At reports whether (row, col) is set. Out of range coordinates are unset.
func (m *Mask) At(row, col int) bool {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return false
	}
	return m.bits[row*m.width+col]
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Bounds returns the smallest rectangle (x = col, y = row, max exclusive)
// containing every set pixel. An empty mask returns image.Rectangle{}.
func (m *Mask) Bounds() image.Rectangle {
	minX, minY := m.width, m.height
	maxX, maxY := -1, -1
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			if !m.bits[row*m.width+col] {
				continue
			}
			if col < minX {
				minX = col
			}
			if col > maxX {
				maxX = col
			}
			if row < minY {
				minY = row
			}
			if row > maxY {
				maxY = row
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Equal reports whether both masks have the same shape and the same set pixels.
func (m *Mask) Equal(o *Mask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

// Subset reports whether every pixel set in m is also set in o.
func (m *Mask) Subset(o *Mask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i, b := range m.bits {
		if b && !o.bits[i] {
			return false
		}
	}
	return true
}

// Image renders the mask as a grayscale image: 255 where set, 0 elsewhere.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for i, b := range m.bits {
		if b {
			img.Pix[i] = 255
		}
	}
	return img
}

// boundary reports whether a set pixel touches an unset 4-neighbor or the
// raster edge.
func (m *Mask) boundary(row, col int) bool {
	if !m.At(row, col) {
		return false
	}
	for _, d := range neighbors {
		if !m.At(row+d.dRow, col+d.dCol) {
			return true
		}
	}
	return false
}

// Boundary returns a mask of the region's outline pixels.
func (m *Mask) Boundary() *Mask {
	out := newMask(m.width, m.height)
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			out.bits[row*m.width+col] = m.boundary(row, col)
		}
	}
	return out
}

// LabeledPreview is a synthetic intensity grid where every pixel of region
// i (1-based) carries i*(255/n) and unlabeled pixels carry 0.
type LabeledPreview struct {
	width  int
	height int
	values []float64
}

// Width returns the number of columns.
func (p *LabeledPreview) Width() int { return p.width }

// Height returns the number of rows.
func (p *LabeledPreview) Height() int { return p.height }

// At returns the label value at (row, col).
func (p *LabeledPreview) At(row, col int) float64 {
	return p.values[row*p.width+col]
}

// Image converts the preview to 8-bit grayscale, truncating fractional values.
func (p *LabeledPreview) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.width, p.height))
	for i, v := range p.values {
		img.Pix[i] = uint8(v)
	}
	return img
}
