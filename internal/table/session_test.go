package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pooltable-mcp/internal/detection"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

func newSession(t *testing.T, w, h int, discs ...disc) *Session {
	t.Helper()
	buf, err := imaging.Decode(tableImage(w, h, discs...))
	require.NoError(t, err)
	return NewSession("table.png", buf)
}

func TestSession_ClothColor(t *testing.T) {
	s := newSession(t, 40, 20, disc{20, 10, 3, cue})
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "table.png", s.Path())

	p, region, err := s.ClothColor()
	require.NoError(t, err)
	assert.Equal(t, imaging.PixelFromNRGBA(felt), p)
	assert.Equal(t, imaging.Region{X1: 10, Y1: 5, X2: 30, Y2: 15}, region)

	again, _, err := s.ClothColor()
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestSession_ClothColorDegenerate(t *testing.T) {
	s := newSession(t, 1, 1)
	_, _, err := s.ClothColor()

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ClothColorKnown, serr.Stage)
	assert.ErrorIs(t, err, imaging.ErrDegenerateSampleRegion)
}

func TestSession_FailureKeepsLastReport(t *testing.T) {
	s := newSession(t, 80, 40, disc{40, 20, 5, cue})
	assert.Nil(t, s.Last())

	good, err := s.Analyze(NewAnalyzer(Options{}, nil), NineFoot)
	require.NoError(t, err)
	require.Same(t, good, s.Last())

	_, err = s.Analyze(NewAnalyzer(Options{Segment: detection.Options{Metric: "bogus"}}, nil), NineFoot)
	require.Error(t, err)
	assert.Same(t, good, s.Last())

	_, err = s.Analyze(NewAnalyzer(Options{}, nil), TableSize(0))
	require.Error(t, err)
	assert.Same(t, good, s.Last())

	p, _, err := s.ClothColor()
	require.NoError(t, err)
	assert.Equal(t, good.ClothPixel, p)
}

func TestSession_AnalyzeDiscardsAnnotations(t *testing.T) {
	s := newSession(t, 80, 40, disc{40, 20, 5, cue})
	require.NoError(t, imaging.DrawGrid(s.Buffer(), 10, false, imaging.Pixel{R: 255, A: 255}))
	require.True(t, s.Buffer().Modified())

	report, err := s.Analyze(NewAnalyzer(Options{}, nil), NineFoot)
	require.NoError(t, err)
	assert.False(t, s.Buffer().Modified())
	assert.Len(t, report.Balls, 1)
}
