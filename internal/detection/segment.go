package detection

import (
	"fmt"

	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// DefaultThreshold is the Delta-E94 distance from the cloth at which a pixel
// stops looking like cloth.
const DefaultThreshold = 10.0

// Options controls Segment. The zero value is usable: CIE94 with the graphic
// arts profile, no blur, no opening, every component kept, one worker per CPU.
// A zero Threshold selects DefaultThreshold.
type Options struct {
	Threshold     float64
	Metric        colorspace.Metric
	Application   colorspace.Application
	MinBlobPixels int
	MorphRadius   float64
	BlurRadius    float64
	Workers       int
}

// Result is the outcome of segmenting one buffer against a cloth color.
type Result struct {
	Mask       *Mask   `json:"-"`
	Blobs      []Blob  `json:"blobs"`
	Foreground int     `json:"foreground_pixels"`
	Threshold  float64 `json:"threshold"`
}

// Segment separates foreground objects from the cloth.
//
// The pipeline is: optional Gaussian blur, threshold mask against cloth,
// optional morphological opening, then 8-connected components in scan order.
// The input buffer is only read.
func Segment(buf *imaging.PixelBuffer, cloth colorspace.LabColor, opts Options) (*Result, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	distance, err := opts.Metric.Distance(opts.Application)
	if err != nil {
		return nil, err
	}

	src, err := Smooth(buf, opts.BlurRadius)
	if err != nil {
		return nil, fmt.Errorf("blur: %w", err)
	}

	mask, err := BuildMask(src, cloth, MaskOptions{
		Threshold: threshold,
		Distance:  distance,
		Workers:   opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	mask = Open(mask, opts.MorphRadius)

	return &Result{
		Mask:       mask,
		Blobs:      Components(mask, opts.MinBlobPixels),
		Foreground: mask.Count(),
		Threshold:  threshold,
	}, nil
}
