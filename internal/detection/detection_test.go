package detection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

var (
	felt  = imaging.Pixel{B: 60, G: 110, R: 30, A: 255}
	white = imaging.Pixel{B: 250, G: 250, R: 250, A: 255}
	red   = imaging.Pixel{B: 20, G: 20, R: 200, A: 255}
)

func feltLab() colorspace.LabColor {
	return colorspace.RGBToLab(felt.R, felt.G, felt.B, felt.A)
}

// newBuffer builds a tightly packed width x height buffer filled from fill.
func newBuffer(t *testing.T, width, height int, fill func(x, y int) imaging.Pixel) *imaging.PixelBuffer {
	t.Helper()
	stride := width * imaging.BytesPerPixel
	pix := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := fill(x, y)
			i := y*stride + x*imaging.BytesPerPixel
			pix[i], pix[i+1], pix[i+2], pix[i+3] = p.B, p.G, p.R, p.A
		}
	}
	buf, err := imaging.NewPixelBuffer(width, height, stride, pix)
	require.NoError(t, err)
	return buf
}

// inDisc reports whether (x, y) lies within radius of (cx, cy).
func inDisc(x, y, cx, cy, radius int) bool {
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// maskFrom builds a mask from rows of '#' (foreground) and '.' characters.
func maskFrom(rows ...string) *Mask {
	m := NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			m.Set(x, y, c == '#')
		}
	}
	return m
}
