package table

import (
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/pooltable-mcp/internal/cloth"
	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/detection"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
	"github.com/ironsheep/pooltable-mcp/internal/logger"
)

const component = "analyzer"

// Options configures an Analyzer.
type Options struct {
	// Segment controls foreground separation.
	Segment detection.Options

	// MaxDimension downscales larger images before analysis. Zero disables
	// downscaling. Only Analyze honors it; AnalyzeBuffer takes the buffer as is.
	MaxDimension int
}

// Report is the full outcome of one analysis pass.
type Report struct {
	ID               string              `json:"id"`
	TableSize        TableSize           `json:"table_size"`
	Width            int                 `json:"width"`
	Height           int                 `json:"height"`
	Stride           int                 `json:"stride"`
	SampleRegion     imaging.Region      `json:"sample_region"`
	Cloth            imaging.ColorResult `json:"cloth"`
	Threshold        float64             `json:"threshold"`
	Metric           colorspace.Metric   `json:"metric"`
	Profile          string              `json:"profile"`
	ForegroundPixels int                 `json:"foreground_pixels"`
	Balls            []BallOnTable       `json:"balls"`
	Blobs            []detection.Blob    `json:"blobs"`
	ElapsedMillis    int64               `json:"elapsed_ms"`

	// Buffer is the analyzed pixel buffer. ClothPixel is the exact cloth value.
	Buffer     *imaging.PixelBuffer `json:"-"`
	ClothPixel imaging.Pixel        `json:"-"`
}

// Analyzer runs the decode, cloth, segment and mapping pipeline. It holds
// only configuration and is safe for concurrent use; every call works on its
// own buffer.
type Analyzer struct {
	opts Options
	log  logger.Logger
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(opts Options, log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.Nop()
	}
	return &Analyzer{opts: opts, log: log}
}

// Options returns the analyzer configuration.
func (a *Analyzer) Options() Options { return a.opts }

// Analyze decodes img and finds the balls on it.
//
// On failure the error is a *StageError naming the state that could not be
// reached, and no buffer or balls are returned.
func (a *Analyzer) Analyze(img image.Image, size TableSize) (*imaging.PixelBuffer, []BallOnTable, error) {
	report, err := a.Run(img, size)
	if err != nil {
		return nil, nil, err
	}
	return report.Buffer, report.Balls, nil
}

// AnalyzeBuffer is Analyze for an already decoded buffer.
func (a *Analyzer) AnalyzeBuffer(buf *imaging.PixelBuffer, size TableSize) ([]BallOnTable, error) {
	report, err := a.RunBuffer(buf, size)
	if err != nil {
		return nil, err
	}
	return report.Balls, nil
}

// Run is Analyze returning the full report.
func (a *Analyzer) Run(img image.Image, size TableSize) (*Report, error) {
	start := time.Now()

	if img != nil {
		img = imaging.Downscale(img, a.opts.MaxDimension)
	}
	buf, err := imaging.Decode(img)
	if err != nil {
		return nil, a.fail(Decoded, err)
	}
	return a.fromDecoded(buf, size, start)
}

// RunBuffer is AnalyzeBuffer returning the full report.
func (a *Analyzer) RunBuffer(buf *imaging.PixelBuffer, size TableSize) (*Report, error) {
	if buf == nil {
		return nil, a.fail(Decoded, fmt.Errorf("%w: nil buffer", imaging.ErrDecode))
	}
	return a.fromDecoded(buf, size, time.Now())
}

func (a *Analyzer) fromDecoded(buf *imaging.PixelBuffer, size TableSize, start time.Time) (*Report, error) {
	id := uuid.NewString()
	a.log.Debug(component, "buffer decoded", map[string]interface{}{
		"analysis": id,
		"width":    buf.Width(),
		"height":   buf.Height(),
		"stride":   buf.Stride(),
	})

	// Decoded -> ClothColorKnown
	region := cloth.CenterRegion(buf.Width(), buf.Height())
	clothPixel, err := cloth.FindDominantColor(buf, region)
	if err != nil {
		return nil, a.fail(ClothColorKnown, err)
	}
	clothLab := colorspace.RGBToLab(clothPixel.R, clothPixel.G, clothPixel.B, clothPixel.A)
	a.log.Debug(component, "cloth color found", map[string]interface{}{
		"analysis": id,
		"hex":      clothLab.Hex(),
		"lab":      clothLab.String(),
	})

	// ClothColorKnown -> Segmented
	seg, err := detection.Segment(buf, clothLab, a.opts.Segment)
	if err != nil {
		return nil, a.fail(Segmented, err)
	}
	a.log.Debug(component, "segmentation complete", map[string]interface{}{
		"analysis":   id,
		"foreground": seg.Foreground,
		"blobs":      len(seg.Blobs),
	})

	// Segmented -> Done
	if _, err := size.Dimensions(); err != nil {
		return nil, a.fail(Done, err)
	}
	balls := make([]BallOnTable, 0, len(seg.Blobs))
	for _, blob := range seg.Blobs {
		ball, err := ballFromPixels(buf, blob.Pixels, Point{X: blob.CentroidX, Y: blob.CentroidY}, blob.Bounds, size)
		if err != nil {
			return nil, a.fail(Done, err)
		}
		balls = append(balls, ball)
	}

	metric := a.opts.Segment.Metric
	if metric == "" {
		metric = colorspace.MetricCIE94
	}

	report := &Report{
		ID:               id,
		TableSize:        size,
		Width:            buf.Width(),
		Height:           buf.Height(),
		Stride:           buf.Stride(),
		SampleRegion:     region,
		Cloth:            imaging.NewColorResult(clothPixel),
		Threshold:        seg.Threshold,
		Metric:           metric,
		Profile:          a.opts.Segment.Application.String(),
		ForegroundPixels: seg.Foreground,
		Balls:            balls,
		Blobs:            seg.Blobs,
		ElapsedMillis:    time.Since(start).Milliseconds(),
		Buffer:           buf,
		ClothPixel:       clothPixel,
	}

	a.log.Info(component, "analysis complete", map[string]interface{}{
		"analysis":   id,
		"table_size": size.String(),
		"balls":      len(balls),
		"elapsed_ms": report.ElapsedMillis,
	})
	return report, nil
}

func (a *Analyzer) fail(stage State, err error) error {
	serr := &StageError{Stage: stage, Err: err}
	a.log.Error(component, serr, map[string]interface{}{"stage": stage.String()})
	return serr
}
