package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// ErrInvalidBall reports inconsistent inputs to NewBallOnTable.
var ErrInvalidBall = errors.New("invalid ball")

// Point is a position in image pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a physical rectangle in inches. X and Y locate its center,
// measured from the top-left corner of the play field as framed in the image.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame is the pixel size of the image an object was found in.
type Frame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Scale returns inches per pixel along x and y for a play field framed by f.
//
// The image is assumed to show exactly the play field. Its longer side maps
// to the table length and its shorter side to the table width, so portrait
// and landscape photos of the same table give the same physical sizes.
func (f Frame) Scale(d Dimensions) (sx, sy float64, err error) {
	if f.Width <= 0 || f.Height <= 0 {
		return 0, 0, fmt.Errorf("%w: frame %dx%d has no area", ErrInvalidBall, f.Width, f.Height)
	}
	if f.Width >= f.Height {
		return d.LengthInches / float64(f.Width), d.WidthInches / float64(f.Height), nil
	}
	return d.WidthInches / float64(f.Width), d.LengthInches / float64(f.Height), nil
}

// BallOnTable is one object found on the cloth. It is immutable; build it
// with NewBallOnTable.
type BallOnTable struct {
	id        uuid.UUID
	data      map[int]byte
	location  Point
	bounds    imaging.Region
	tableSize TableSize
	frame     Frame
	physical  Rect
}

// NewBallOnTable validates its inputs and derives the physical rectangle.
//
// indexed maps byte offsets in the source buffer to the channel byte found
// there and is copied. location is the image-space centroid and bounds the
// image-space bounding box; both must lie inside frame.
func NewBallOnTable(indexed map[int]byte, location Point, bounds imaging.Region, size TableSize, frame Frame) (BallOnTable, error) {
	dims, err := size.Dimensions()
	if err != nil {
		return BallOnTable{}, err
	}
	sx, sy, err := frame.Scale(dims)
	if err != nil {
		return BallOnTable{}, err
	}
	if len(indexed) == 0 {
		return BallOnTable{}, fmt.Errorf("%w: no pixel data", ErrInvalidBall)
	}
	if err := bounds.Validate(frame.Width, frame.Height); err != nil {
		return BallOnTable{}, fmt.Errorf("%w: bounds: %v", ErrInvalidBall, err)
	}
	if location.X < float64(bounds.X1) || location.X >= float64(bounds.X2) ||
		location.Y < float64(bounds.Y1) || location.Y >= float64(bounds.Y2) {
		return BallOnTable{}, fmt.Errorf("%w: location (%.1f,%.1f) outside bounds", ErrInvalidBall, location.X, location.Y)
	}

	data := make(map[int]byte, len(indexed))
	for k, v := range indexed {
		data[k] = v
	}

	return BallOnTable{
		id:        uuid.New(),
		data:      data,
		location:  location,
		bounds:    bounds,
		tableSize: size,
		frame:     frame,
		physical: Rect{
			X:      location.X * sx,
			Y:      location.Y * sy,
			Width:  float64(bounds.Dx()) * sx,
			Height: float64(bounds.Dy()) * sy,
		},
	}, nil
}

// ballFromPixels gathers the raw bytes of every channel of every pixel and
// builds the ball.
func ballFromPixels(buf *imaging.PixelBuffer, pixels []imaging.Point, location Point, bounds imaging.Region, size TableSize) (BallOnTable, error) {
	indexed := make(map[int]byte, len(pixels)*imaging.BytesPerPixel)
	for _, p := range pixels {
		offset, err := buf.Offset(p.X, p.Y)
		if err != nil {
			return BallOnTable{}, err
		}
		for c := 0; c < imaging.BytesPerPixel; c++ {
			b, err := buf.ByteAt(offset + c)
			if err != nil {
				return BallOnTable{}, err
			}
			indexed[offset+c] = b
		}
	}
	return NewBallOnTable(indexed, location, bounds, size, Frame{Width: buf.Width(), Height: buf.Height()})
}

// ID returns the unique identifier assigned at construction.
func (b BallOnTable) ID() string { return b.id.String() }

// IndexedData returns a copy of the offset to byte map.
func (b BallOnTable) IndexedData() map[int]byte {
	out := make(map[int]byte, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out
}

// Data returns the raw bytes ordered by buffer offset.
func (b BallOnTable) Data() []byte {
	offsets := make([]int, 0, len(b.data))
	for k := range b.data {
		offsets = append(offsets, k)
	}
	sort.Ints(offsets)

	out := make([]byte, len(offsets))
	for i, k := range offsets {
		out[i] = b.data[k]
	}
	return out
}

// PixelCount returns the number of pixels the ball covers.
func (b BallOnTable) PixelCount() int { return len(b.data) / imaging.BytesPerPixel }

// Location returns the image-space centroid.
func (b BallOnTable) Location() Point { return b.location }

// Bounds returns the image-space bounding box.
func (b BallOnTable) Bounds() imaging.Region { return b.bounds }

// TableSize returns the table the geometry was computed for.
func (b BallOnTable) TableSize() TableSize { return b.tableSize }

// Physical returns the real-world rectangle in inches.
func (b BallOnTable) Physical() Rect { return b.physical }

// PhysicalLocation returns the center of the ball in inches.
func (b BallOnTable) PhysicalLocation() Point {
	return Point{X: b.physical.X, Y: b.physical.Y}
}

// DiameterInches is the longer physical side of the bounding box.
func (b BallOnTable) DiameterInches() float64 {
	return math.Max(b.physical.Width, b.physical.Height)
}

// SizeRatio compares the measured diameter with BallDiameterInches. Values
// well above 1 usually mean touching balls were merged into one object.
func (b BallOnTable) SizeRatio() float64 {
	return b.DiameterInches() / BallDiameterInches
}

type ballJSON struct {
	ID             string         `json:"id"`
	Location       Point          `json:"location"`
	Bounds         imaging.Region `json:"bounds"`
	Pixels         int            `json:"pixels"`
	TableSize      TableSize      `json:"table_size"`
	Physical       Rect           `json:"physical_inches"`
	DiameterInches float64        `json:"diameter_inches"`
	SizeRatio      float64        `json:"size_ratio"`
}

// MarshalJSON reports the geometry. Raw pixel bytes are left out.
func (b BallOnTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(ballJSON{
		ID:             b.ID(),
		Location:       Point{X: round2(b.location.X), Y: round2(b.location.Y)},
		Bounds:         b.bounds,
		Pixels:         b.PixelCount(),
		TableSize:      b.tableSize,
		Physical:       Rect{X: round2(b.physical.X), Y: round2(b.physical.Y), Width: round2(b.physical.Width), Height: round2(b.physical.Height)},
		DiameterInches: round2(b.DiameterInches()),
		SizeRatio:      round2(b.SizeRatio()),
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
