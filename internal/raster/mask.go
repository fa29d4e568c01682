package raster

// Mask is a binary grid isolating the pixels of one class.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// DeriveMask returns a mask of the same shape as img that is true exactly
// where the pixel holds class.
func DeriveMask(img *LabelImage, class int) *Mask {
	m := NewMask(img.Width, img.Height)
	for i, v := range img.Pix {
		m.Pix[i] = v == class
	}
	return m
}

// At reports whether (row, col) is foreground. Pixels outside the grid are
// background.
func (m *Mask) At(row, col int) bool {
	if row < 0 || col < 0 || row >= m.Height || col >= m.Width {
		return false
	}
	return m.Pix[row*m.Width+col]
}

// Set marks (row, col). Out-of-range addresses are ignored.
func (m *Mask) Set(row, col int, v bool) {
	if row < 0 || col < 0 || row >= m.Height || col >= m.Width {
		return
	}
	m.Pix[row*m.Width+col] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no foreground.
func (m *Mask) Empty() bool {
	for _, v := range m.Pix {
		if v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.Width, m.Height)
	copy(c.Pix, m.Pix)
	return c
}

// Bytes returns the mask as 8-bit pixels (0 or 255), row-major.
func (m *Mask) Bytes() []byte {
	out := make([]byte, len(m.Pix))
	for i, v := range m.Pix {
		if v {
			out[i] = 255
		}
	}
	return out
}
