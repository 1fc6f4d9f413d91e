package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

func sampleData() map[int]byte {
	return map[int]byte{8: 0xB0, 9: 0xB1, 10: 0xB2, 11: 0xFF, 0: 0xA0, 1: 0xA1, 2: 0xA2, 3: 0xFF}
}

func TestNewBallOnTable_Geometry(t *testing.T) {
	// 200x100 landscape frame of a 9ft table: 0.5 inch per pixel both ways.
	ball, err := NewBallOnTable(
		sampleData(),
		Point{X: 40, Y: 30},
		imaging.Region{X1: 35, Y1: 25, X2: 45, Y2: 35},
		NineFoot,
		Frame{Width: 200, Height: 100},
	)
	require.NoError(t, err)

	assert.Equal(t, Rect{X: 20, Y: 15, Width: 5, Height: 5}, ball.Physical())
	assert.Equal(t, Point{X: 20, Y: 15}, ball.PhysicalLocation())
	assert.Equal(t, Point{X: 40, Y: 30}, ball.Location())
	assert.Equal(t, NineFoot, ball.TableSize())
	assert.InDelta(t, 5, ball.DiameterInches(), 1e-9)
	assert.InDelta(t, 2, ball.SizeRatio(), 1e-9)
	assert.Equal(t, 2, ball.PixelCount())
}

func TestNewBallOnTable_PortraitFrame(t *testing.T) {
	// Same table photographed upright: the long side is now the height.
	ball, err := NewBallOnTable(
		sampleData(),
		Point{X: 30, Y: 40},
		imaging.Region{X1: 25, Y1: 35, X2: 35, Y2: 45},
		NineFoot,
		Frame{Width: 100, Height: 200},
	)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 15, Y: 20, Width: 5, Height: 5}, ball.Physical())
}

func TestNewBallOnTable_Validation(t *testing.T) {
	frame := Frame{Width: 100, Height: 50}
	bounds := imaging.Region{X1: 10, Y1: 10, X2: 20, Y2: 20}
	loc := Point{X: 15, Y: 15}

	tests := []struct {
		name    string
		data    map[int]byte
		loc     Point
		bounds  imaging.Region
		size    TableSize
		frame   Frame
		wantErr error
	}{
		{"unknown size", sampleData(), loc, bounds, TableSize(0), frame, ErrUnknownTableSize},
		{"empty frame", sampleData(), loc, bounds, NineFoot, Frame{}, ErrInvalidBall},
		{"no data", map[int]byte{}, loc, bounds, NineFoot, frame, ErrInvalidBall},
		{"bounds outside frame", sampleData(), loc, imaging.Region{X1: 90, Y1: 10, X2: 110, Y2: 20}, NineFoot, frame, ErrInvalidBall},
		{"empty bounds", sampleData(), loc, imaging.Region{X1: 10, Y1: 10, X2: 10, Y2: 20}, NineFoot, frame, ErrInvalidBall},
		{"location outside bounds", sampleData(), Point{X: 25, Y: 15}, bounds, NineFoot, frame, ErrInvalidBall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBallOnTable(tt.data, tt.loc, tt.bounds, tt.size, tt.frame)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBallOnTable_Immutable(t *testing.T) {
	data := sampleData()
	ball, err := NewBallOnTable(data, Point{X: 1, Y: 1}, imaging.Region{X1: 0, Y1: 0, X2: 3, Y2: 3}, SevenFoot, Frame{Width: 10, Height: 10})
	require.NoError(t, err)

	data[0] = 0x00
	assert.Equal(t, byte(0xA0), ball.IndexedData()[0], "input map is copied")

	out := ball.IndexedData()
	out[1] = 0x00
	assert.Equal(t, byte(0xA1), ball.IndexedData()[1], "returned map is a copy")

	assert.Equal(t, []byte{0xA0, 0xA1, 0xA2, 0xFF, 0xB0, 0xB1, 0xB2, 0xFF}, ball.Data())
}

func TestBallOnTable_IDsAreUnique(t *testing.T) {
	mk := func() BallOnTable {
		b, err := NewBallOnTable(sampleData(), Point{X: 1, Y: 1}, imaging.Region{X1: 0, Y1: 0, X2: 3, Y2: 3}, SevenFoot, Frame{Width: 10, Height: 10})
		require.NoError(t, err)
		return b
	}
	a, b := mk(), mk()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Len(t, a.ID(), 36)
}

func TestBallOnTable_JSON(t *testing.T) {
	ball, err := NewBallOnTable(sampleData(), Point{X: 40, Y: 30}, imaging.Region{X1: 35, Y1: 25, X2: 45, Y2: 35}, NineFoot, Frame{Width: 200, Height: 100})
	require.NoError(t, err)

	raw, err := json.Marshal(ball)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, ball.ID(), got["id"])
	assert.Equal(t, "9ft", got["table_size"])
	assert.Equal(t, 5.0, got["diameter_inches"])
	assert.Equal(t, 2.0, got["pixels"])
	assert.Equal(t, map[string]interface{}{"x": 20.0, "y": 15.0, "width": 5.0, "height": 5.0}, got["physical_inches"])
	assert.NotContains(t, got, "data")
}
