package detection

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// Mask is a binary image marking foreground pixels.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// NewMask creates an empty width x height mask.
func NewMask(width, height int) *Mask {
	return &Mask{width: width, height: height, bits: make([]bool, width*height)}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// At reports whether (x, y) is foreground. Coordinates outside the mask are
// background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Set marks (x, y) as foreground or background. Out of range coordinates are
// ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.bits[y*m.width+x] = on
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, on := range m.bits {
		if on {
			n++
		}
	}
	return n
}

// Gray renders the mask as a white-on-black grayscale image.
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for i, on := range m.bits {
		if on {
			img.Pix[(i/m.width)*img.Stride+i%m.width] = 0xff
		}
	}
	return img
}

// maskFromImage thresholds img at mid-gray.
func maskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			m.bits[y*m.width+x] = g.Y >= 0x80
		}
	}
	return m
}

// MaskOptions controls BuildMask.
type MaskOptions struct {
	// Threshold is the minimum distance from the cloth color for a pixel to
	// count as foreground.
	Threshold float64

	// Distance scores a pixel against the cloth color. Nil selects Delta-E94
	// with the graphic arts profile.
	Distance colorspace.DistanceFunc

	// Workers is the number of goroutines sweeping rows. Zero or less uses
	// one per CPU.
	Workers int
}

// BuildMask marks every pixel whose distance from cloth is at least
// opts.Threshold.
//
// The cloth color is always the reference (first) argument of the distance
// function. Rows are split into contiguous bands, one per worker; each worker
// writes only its own rows and keeps its own cache of distances by exact
// pixel value, so the result is identical to a serial sweep.
func BuildMask(buf *imaging.PixelBuffer, cloth colorspace.LabColor, opts MaskOptions) (*Mask, error) {
	if math.IsNaN(opts.Threshold) || opts.Threshold < 0 {
		return nil, fmt.Errorf("threshold must be a non-negative number, got %v", opts.Threshold)
	}

	distance := opts.Distance
	if distance == nil {
		distance = colorspace.DeltaE94
	}

	width, height := buf.Width(), buf.Height()
	mask := NewMask(width, height)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	band := (height + workers - 1) / workers

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for w := 0; w < workers; w++ {
		y0 := w * band
		y1 := min(y0+band, height)
		if y0 >= y1 {
			continue
		}

		wg.Add(1)
		go func(w, y0, y1 int) {
			defer wg.Done()
			memo := make(map[uint32]float64)

			for y := y0; y < y1; y++ {
				for x := 0; x < width; x++ {
					p, err := buf.ReadPixel(x, y)
					if err != nil {
						errs[w] = err
						return
					}
					d, ok := memo[p.Key()]
					if !ok {
						d = distance(cloth, colorspace.RGBToLab(p.R, p.G, p.B, p.A))
						memo[p.Key()] = d
					}
					mask.bits[y*width+x] = d >= opts.Threshold
				}
			}
		}(w, y0, y1)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("mask sweep: %w", err)
		}
	}
	return mask, nil
}
