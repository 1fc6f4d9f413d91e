package imaging

import (
	"fmt"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
// The same color is given as:
//   - Hex: "#RRGGBB" (alpha excluded)
//   - RGB and RGBA: 8-bit components
//   - HSL: for quick human inspection
//   - Lab: CIE-LAB, the space used for cloth and ball separation
type ColorResult struct {
	Hex  string              `json:"hex"`
	RGB  RGBColor            `json:"rgb"`
	RGBA RGBAColor           `json:"rgba"`
	HSL  HSLColor            `json:"hsl"`
	Lab  colorspace.LabColor `json:"lab"`
}

// NewColorResult describes a pixel in every representation.
func NewColorResult(p Pixel) ColorResult {
	h, s, l := colorspace.HSL(p.R, p.G, p.B)
	return ColorResult{
		Hex:  colorspace.HexRGB(p.R, p.G, p.B),
		RGB:  RGBColor{R: p.R, G: p.G, B: p.B},
		RGBA: RGBAColor{R: p.R, G: p.G, B: p.B, A: p.A},
		HSL:  HSLColor{H: h, S: s, L: l},
		Lab:  colorspace.RGBToLab(p.R, p.G, p.B, p.A),
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - buf: The decoded pixel buffer to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: wraps ErrOutOfBounds if coordinates are outside the buffer.
func SampleColor(buf *PixelBuffer, x, y int) (*ColorResult, error) {
	p, err := buf.ReadPixel(x, y)
	if err != nil {
		return nil, err
	}
	result := NewColorResult(p)
	return &result, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
	// DeltaE is the CIE94 distance from the previous sample. It is absent
	// for the first point.
	DeltaE *float64 `json:"delta_e,omitempty"`
}

// MultiColorResult contains color samples from multiple points.
//
// Results are returned in the same order as the input points.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a single call.
//
// Each sample after the first also carries its CIE94 distance from the
// previous sample, which is how a threshold for object detection is found by
// walking a path across the cloth and onto a ball.
//
// On error no partial results are returned.
func SampleColorsMulti(buf *PixelBuffer, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	var previous *colorspace.LabColor
	for _, p := range points {
		color, err := SampleColor(buf, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		sample := LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		}
		if previous != nil {
			d := colorspace.DeltaE94(*previous, color.Lab)
			sample.DeltaE = &d
		}
		lab := color.Lab
		previous = &lab
		results = append(results, sample)
	}

	return &MultiColorResult{Samples: results}, nil
}
