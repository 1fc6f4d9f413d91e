package detection

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

func TestComponents(t *testing.T) {
	m := maskFrom(
		"##....#",
		"##.....",
		".....#.",
		"....#..",
	)

	all := Components(m, 0)
	require.Len(t, all, 3)
	assert.Equal(t, []int{4, 1, 2}, []int{all[0].Area, all[1].Area, all[2].Area})

	blobs := Components(m, 2)
	want := []Blob{
		{
			Index:     0,
			Bounds:    imaging.Region{X1: 0, Y1: 0, X2: 2, Y2: 2},
			Area:      4,
			CentroidX: 0.5,
			CentroidY: 0.5,
			Roundness: 4 / math.Pi,
			Fill:      1,
		},
		{
			Index:     1,
			Bounds:    imaging.Region{X1: 4, Y1: 2, X2: 6, Y2: 4},
			Area:      2,
			CentroidX: 4.5,
			CentroidY: 2.5,
			Roundness: 2 / math.Pi,
			Fill:      0.5,
		},
	}

	opts := cmp.Options{
		cmpopts.IgnoreFields(Blob{}, "Pixels"),
		cmpopts.EquateApprox(0, 1e-12),
	}
	if diff := cmp.Diff(want, blobs, opts); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, blobs[1].Pixels, 2)
}

func TestComponents_DiagonalsConnect(t *testing.T) {
	m := maskFrom(
		"#...",
		".#..",
		"..#.",
		"...#",
	)
	blobs := Components(m, 0)
	require.Len(t, blobs, 1)
	assert.Equal(t, 4, blobs[0].Area)
}

func TestComponents_Empty(t *testing.T) {
	assert.Empty(t, Components(NewMask(5, 5), 0))
}

func TestComponents_Disc(t *testing.T) {
	m := NewMask(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			m.Set(x, y, inDisc(x, y, 20, 20, 5))
		}
	}

	blobs := Components(m, 0)
	require.Len(t, blobs, 1)

	b := blobs[0]
	assert.Equal(t, 81, b.Area)
	assert.Equal(t, imaging.Region{X1: 15, Y1: 15, X2: 26, Y2: 26}, b.Bounds)
	assert.InDelta(t, 20, b.CentroidX, 1e-9)
	assert.InDelta(t, 20, b.CentroidY, 1e-9)
	assert.InDelta(t, 0.85, b.Roundness, 0.01)
}

func TestComponents_LargeBlobDoesNotRecurse(t *testing.T) {
	m := NewMask(500, 500)
	for i := range m.bits {
		m.bits[i] = true
	}
	blobs := Components(m, 0)
	require.Len(t, blobs, 1)
	assert.Equal(t, 250000, blobs[0].Area)
}
