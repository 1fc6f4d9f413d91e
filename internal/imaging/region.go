package imaging

import (
	"fmt"
	"image"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// FullRegion covers every pixel of a width x height image.
func FullRegion(width, height int) Region {
	return Region{X1: 0, Y1: 0, X2: width, Y2: height}
}

// Dx returns the region width.
func (r Region) Dx() int { return r.X2 - r.X1 }

// Dy returns the region height.
func (r Region) Dy() int { return r.Y2 - r.Y1 }

// Area returns the number of pixels covered, or 0 for inverted regions.
func (r Region) Area() int {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Validate checks the region against a width x height image.
//
// A region with zero area fails with ErrDegenerateSampleRegion; a region
// reaching outside the image fails with ErrOutOfBounds.
func (r Region) Validate(width, height int) error {
	if r.Area() == 0 {
		return fmt.Errorf("%w: (%d,%d)-(%d,%d) has zero area", ErrDegenerateSampleRegion, r.X1, r.Y1, r.X2, r.Y2)
	}
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("%w: region (%d,%d)-(%d,%d) outside %dx%d image", ErrOutOfBounds, r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	return nil
}
