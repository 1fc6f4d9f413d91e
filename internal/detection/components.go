package detection

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// Blob is one 8-connected group of foreground pixels.
type Blob struct {
	// Index is the position of the blob in scan order, starting at 0.
	Index int `json:"index"`

	// Pixels lists every member in the order the fill reached it.
	Pixels []imaging.Point `json:"-"`

	// Bounds is the smallest region containing every member.
	Bounds imaging.Region `json:"bounds"`

	// Area is the number of member pixels.
	Area int `json:"area"`

	// CentroidX and CentroidY are the mean member coordinates.
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`

	// Roundness compares the area to the disc whose diameter is the longer
	// bounding side: close to 1 for a ball, lower for streaks and slivers.
	// Square blobs score above 1.
	Roundness float64 `json:"roundness"`

	// Fill is the share of the bounding box covered by the blob.
	Fill float64 `json:"fill"`
}

// Components labels the 8-connected foreground groups of m.
//
// Seeds are taken row-major, so blob order is deterministic: a blob comes
// before another when its topmost-leftmost pixel does. Groups with fewer
// than minPixels members are dropped; minPixels <= 1 keeps every group.
func Components(m *Mask, minPixels int) []Blob {
	visited := make([]bool, m.width*m.height)
	blobs := make([]Blob, 0)

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.At(x, y) && !visited[y*m.width+x] {
				pixels := make([]imaging.Point, 0)
				floodFill(m, visited, x, y, &pixels)
				if len(pixels) >= minPixels {
					blobs = append(blobs, newBlob(len(blobs), pixels))
				}
			}
		}
	}

	return blobs
}

// floodFill performs iterative flood-fill from a starting point.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large blobs. Marks visited pixels and appends them to pixels.
// Uses 8-connectivity (includes diagonal neighbors).
func floodFill(m *Mask, visited []bool, startX, startY int, pixels *[]imaging.Point) {
	stack := []imaging.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= m.width || p.Y < 0 || p.Y >= m.height {
			continue
		}
		i := p.Y*m.width + p.X
		if visited[i] || !m.bits[i] {
			continue
		}

		visited[i] = true
		*pixels = append(*pixels, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, imaging.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

func newBlob(index int, pixels []imaging.Point) Blob {
	xs := make([]float64, len(pixels))
	ys := make([]float64, len(pixels))
	bounds := imaging.Region{X1: pixels[0].X, Y1: pixels[0].Y, X2: pixels[0].X + 1, Y2: pixels[0].Y + 1}

	for i, p := range pixels {
		xs[i], ys[i] = float64(p.X), float64(p.Y)
		bounds.X1 = min(bounds.X1, p.X)
		bounds.Y1 = min(bounds.Y1, p.Y)
		bounds.X2 = max(bounds.X2, p.X+1)
		bounds.Y2 = max(bounds.Y2, p.Y+1)
	}

	area := len(pixels)
	diameter := float64(max(bounds.Dx(), bounds.Dy()))

	return Blob{
		Index:     index,
		Pixels:    pixels,
		Bounds:    bounds,
		Area:      area,
		CentroidX: stat.Mean(xs, nil),
		CentroidY: stat.Mean(ys, nil),
		Roundness: float64(area) / (math.Pi * diameter * diameter / 4),
		Fill:      float64(area) / float64(bounds.Area()),
	}
}
