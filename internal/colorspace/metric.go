package colorspace

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Metric names a color difference formula.
type Metric string

// Supported metrics. CIE94 is computed in this package; the others delegate to
// go-colorful and are reported on the same 0-100 scale.
const (
	MetricCIE94     Metric = "cie94"
	MetricCIE76     Metric = "cie76"
	MetricCIEDE2000 Metric = "ciede2000"
)

// DistanceFunc scores sample against a reference color.
type DistanceFunc func(reference, sample LabColor) float64

// ParseMetric resolves a metric name. An empty name selects CIE94.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return MetricCIE94, nil
	case MetricCIE94, MetricCIE76, MetricCIEDE2000:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color metric %q", name)
	}
}

// Distance returns the scoring function for the metric. The application
// profile only affects CIE94.
func (m Metric) Distance(app Application) (DistanceFunc, error) {
	switch m {
	case MetricCIE94, "":
		k := app.Constants()
		return func(reference, sample LabColor) float64 {
			return DeltaE94With(reference, sample, k)
		}, nil
	case MetricCIE76:
		return func(reference, sample LabColor) float64 {
			return toColorful(reference).DistanceLab(toColorful(sample)) * 100
		}, nil
	case MetricCIEDE2000:
		return func(reference, sample LabColor) float64 {
			return toColorful(reference).DistanceCIEDE2000(toColorful(sample)) * 100
		}, nil
	default:
		return nil, fmt.Errorf("unknown color metric %q", string(m))
	}
}

// toColorful maps LAB onto go-colorful's unit scale (L in [0,1]). The
// returned color may lie outside the sRGB gamut; it is only used for
// distance computations, which convert straight back to LAB.
func toColorful(c LabColor) colorful.Color {
	return colorful.Lab(c.l/100, c.a/100, c.b/100)
}

// Hex formats the color as "#RRGGBB" after converting it back to sRGB.
func (c LabColor) Hex() string {
	n := LabToRGB(c)
	return HexRGB(n.R, n.G, n.B)
}

// HexRGB formats 8-bit channels as "#RRGGBB".
func HexRGB(r, g, b uint8) string {
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return strings.ToUpper(col.Hex())
}

// ParseHex parses "#RRGGBB" or "#RGB" into a LAB color with opaque alpha.
func ParseHex(s string) (LabColor, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return LabColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return RGBToLab(r, g, b, 0xff), nil
}

// HSL returns hue in degrees [0,360) and saturation and lightness in percent
// for an 8-bit sRGB color.
func HSL(r, g, b uint8) (h, s, l int) {
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	hf, sf, lf := col.Hsl()
	return int(hf), int(sf * 100), int(lf * 100)
}
