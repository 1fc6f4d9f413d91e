package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
)

// Point represents a 2D point
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                int     `json:"delta_x"`
	DeltaY                int     `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"`
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
}

// MeasureDistance calculates the distance between two points of buf.
func MeasureDistance(buf *PixelBuffer, p1, p2 Point) (*DistanceResult, error) {
	for _, p := range []Point{p1, p2} {
		if _, err := buf.Offset(p.X, p.Y); err != nil {
			return nil, err
		}
	}

	deltaX := p2.X - p1.X
	deltaY := p2.Y - p1.Y
	distance := math.Hypot(float64(deltaX), float64(deltaY))

	// 0 = horizontal right, 90 = down
	angle := math.Atan2(float64(deltaY), float64(deltaX)) * 180 / math.Pi

	return &DistanceResult{
		DistancePixels:        math.Round(distance*100) / 100,
		DeltaX:                deltaX,
		DeltaY:                deltaY,
		AngleDegrees:          math.Round(angle*10) / 10,
		DistancePercentWidth:  math.Round(distance/float64(buf.Width())*1000) / 10,
		DistancePercentHeight: math.Round(distance/float64(buf.Height())*1000) / 10,
	}, nil
}

// CompareRegionsResult contains the colorimetric comparison of two regions.
type CompareRegionsResult struct {
	SimilarityScore float64 `json:"similarity_score"`
	PixelsDifferent int     `json:"pixels_different"`
	TotalPixels     int     `json:"total_pixels"`
	SameSize        bool    `json:"same_size"`
	Region1Size     Point   `json:"region1_size"`
	Region2Size     Point   `json:"region2_size"`
	AverageDeltaE   float64 `json:"average_delta_e"`
	MaxDeltaE       float64 `json:"max_delta_e"`
}

// CompareRegions compares two regions of buf pixel by pixel using Delta-E94.
//
// The overlap is the smaller of the two sizes, aligned at each region's
// top-left corner. A pixel pair counts as different when its distance is at
// least threshold, the same rule the segmenter uses to tell a ball from cloth.
func CompareRegions(buf *PixelBuffer, r1, r2 Region, threshold float64) (*CompareRegionsResult, error) {
	for _, r := range []Region{r1, r2} {
		if err := r.Validate(buf.Width(), buf.Height()); err != nil {
			return nil, fmt.Errorf("invalid region: %w", err)
		}
	}

	w1, h1 := r1.Dx(), r1.Dy()
	w2, h2 := r2.Dx(), r2.Dy()
	minW := min(w1, w2)
	minH := min(h1, h2)

	totalPixels := minW * minH
	pixelsDifferent := 0
	var total, maxDelta float64

	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			p1, err := buf.ReadPixel(r1.X1+dx, r1.Y1+dy)
			if err != nil {
				return nil, err
			}
			p2, err := buf.ReadPixel(r2.X1+dx, r2.Y1+dy)
			if err != nil {
				return nil, err
			}

			d := colorspace.DeltaE94(
				colorspace.RGBToLab(p1.R, p1.G, p1.B, p1.A),
				colorspace.RGBToLab(p2.R, p2.G, p2.B, p2.A),
			)
			total += d
			maxDelta = math.Max(maxDelta, d)
			if d >= threshold {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)

	return &CompareRegionsResult{
		SimilarityScore: math.Round(similarity*1000) / 1000,
		PixelsDifferent: pixelsDifferent,
		TotalPixels:     totalPixels,
		SameSize:        w1 == w2 && h1 == h2,
		Region1Size:     Point{X: w1, Y: h1},
		Region2Size:     Point{X: w2, Y: h2},
		AverageDeltaE:   math.Round(total/float64(totalPixels)*100) / 100,
		MaxDeltaE:       math.Round(maxDelta*100) / 100,
	}, nil
}
