package terrain

import "github.com/go-gl/mathgl/mgl64"

// HeightField is a regular grid of elevations with bilinear interpolation.
// Heights[i][j] is the elevation at (OriginX + j*Spacing, OriginY + i*Spacing).
// Queries outside the grid clamp to the border.
type HeightField struct {
	Heights [][]float64
	OriginX float64
	OriginY float64
	Spacing float64
}

// NewHeightField builds a height field from a rectangular grid. The grid
// must have at least 2x2 samples and a positive spacing.
func NewHeightField(heights [][]float64, originX, originY, spacing float64) *HeightField {
	return &HeightField{
		Heights: heights,
		OriginX: originX,
		OriginY: originY,
		Spacing: spacing,
	}
}

func (h *HeightField) Height(x, y float64) float64 {
	i, j, u, v := h.locate(x, y)

	h00 := h.Heights[i][j]
	h01 := h.Heights[i][j+1]
	h10 := h.Heights[i+1][j]
	h11 := h.Heights[i+1][j+1]

	return h00*(1-u)*(1-v) + h01*u*(1-v) + h10*(1-u)*v + h11*u*v
}

func (h *HeightField) Normal(x, y float64) mgl64.Vec3 {
	// Central differences of the interpolated surface.
	d := h.Spacing / 2
	dhdx := (h.Height(x+d, y) - h.Height(x-d, y)) / (2 * d)
	dhdy := (h.Height(x, y+d) - h.Height(x, y-d)) / (2 * d)

	return mgl64.Vec3{-dhdx, -dhdy, 1}.Normalize()
}

// locate returns the cell indices and the fractional coordinates within it.
func (h *HeightField) locate(x, y float64) (i, j int, u, v float64) {
	fx := (x - h.OriginX) / h.Spacing
	fy := (y - h.OriginY) / h.Spacing

	rows := len(h.Heights)
	cols := len(h.Heights[0])

	j = clampIndex(int(fx), cols-2)
	i = clampIndex(int(fy), rows-2)

	u = clampFrac(fx - float64(j))
	v = clampFrac(fy - float64(i))

	return i, j, u, v
}

func clampIndex(k, hi int) int {
	if k < 0 {
		return 0
	}
	if k > hi {
		return hi
	}
	return k
}

func clampFrac(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
