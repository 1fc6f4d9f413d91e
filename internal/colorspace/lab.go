package colorspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidColorComponent reports an explicitly constructed LAB value outside
// the declared domain.
var ErrInvalidColorComponent = errors.New("invalid color component")

// LAB domain limits accepted by NewLabColor.
const (
	MinL  = 0.0
	MaxL  = 100.0
	MinAB = -128.0
	MaxAB = 128.0
)

// Reference white (D65, 2° observer) scaled to Y = 100.
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

// CIE nonlinearity breakpoints.
const (
	labEpsilon = 0.008856
	labKappa   = 7.787
	labOffset  = 16.0 / 116.0
)

// rgbToXYZ is the linear sRGB to XYZ matrix (rows X, Y, Z).
var rgbToXYZ = mat.NewDense(3, 3, []float64{
	0.412453, 0.357580, 0.180423,
	0.212671, 0.715160, 0.072169,
	0.019334, 0.119193, 0.950227,
})

var (
	forward [3][3]float64
	inverse [3][3]float64

	// expanded[v] is the gamma-expanded value of channel byte v, scaled by 100.
	expanded [256]float64
)

func init() {
	var inv mat.Dense
	if err := inv.Inverse(rgbToXYZ); err != nil {
		panic(fmt.Sprintf("colorspace: RGB to XYZ matrix is singular: %v", err))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			forward[i][j] = rgbToXYZ.At(i, j)
			inverse[i][j] = inv.At(i, j)
		}
	}
	for v := 0; v < 256; v++ {
		expanded[v] = gammaExpand(float64(v)/255.0) * 100.0
	}
}

// LabColor is an immutable CIE-LAB color with a preserved alpha byte.
//
// Alpha plays no part in the color model; it is carried so a color derived
// from a pixel can be turned back into that pixel.
type LabColor struct {
	l, a, b float64
	alpha   uint8
}

// NewLabColor validates and builds a LabColor.
//
// L must lie in [0,100] and a, b in [-128,128]; all three must be finite.
// Violations fail with ErrInvalidColorComponent.
func NewLabColor(l, a, b float64, alpha uint8) (LabColor, error) {
	for _, v := range []float64{l, a, b} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return LabColor{}, fmt.Errorf("%w: non-finite value in (%g, %g, %g)", ErrInvalidColorComponent, l, a, b)
		}
	}
	if l < MinL || l > MaxL {
		return LabColor{}, fmt.Errorf("%w: L*=%g must be within [%g,%g]", ErrInvalidColorComponent, l, MinL, MaxL)
	}
	if a < MinAB || a > MaxAB || b < MinAB || b > MaxAB {
		return LabColor{}, fmt.Errorf("%w: a*=%g b*=%g must be within [%g,%g]", ErrInvalidColorComponent, a, b, MinAB, MaxAB)
	}
	return LabColor{l: l, a: a, b: b, alpha: alpha}, nil
}

// MustLab is NewLabColor for constants known to be valid. It panics otherwise.
func MustLab(l, a, b float64) LabColor {
	c, err := NewLabColor(l, a, b, 0xff)
	if err != nil {
		panic(err)
	}
	return c
}

// L returns lightness.
func (c LabColor) L() float64 { return c.l }

// A returns the green-red axis value.
func (c LabColor) A() float64 { return c.a }

// B returns the blue-yellow axis value.
func (c LabColor) B() float64 { return c.b }

// Alpha returns the alpha byte preserved from the source pixel.
func (c LabColor) Alpha() uint8 { return c.alpha }

// Chroma returns sqrt(a² + b²).
func (c LabColor) Chroma() float64 { return math.Hypot(c.a, c.b) }

// String formats the color as "L*a*b*(l, a, b)".
func (c LabColor) String() string {
	return fmt.Sprintf("L*a*b*(%.2f, %.2f, %.2f)", c.l, c.a, c.b)
}

type labJSON struct {
	L     float64 `json:"l"`
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Alpha uint8   `json:"alpha"`
}

// MarshalJSON implements json.Marshaler.
func (c LabColor) MarshalJSON() ([]byte, error) {
	return json.Marshal(labJSON{
		L:     math.Round(c.l*100) / 100,
		A:     math.Round(c.a*100) / 100,
		B:     math.Round(c.b*100) / 100,
		Alpha: c.alpha,
	})
}

// UnmarshalJSON implements json.Unmarshaler with the NewLabColor checks.
func (c *LabColor) UnmarshalJSON(data []byte) error {
	var v labJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewLabColor(v.L, v.A, v.B, v.Alpha)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RGBToLab converts an 8-bit sRGB color to CIE-LAB.
//
// The steps are: normalize to [0,1], gamma-expand and scale by 100, apply the
// sRGB to XYZ matrix, divide by the D65 white, apply the CIE nonlinearity,
// then L = 116Y-16, a = 500(X-Y), b = 200(Y-Z). L is floored at 0 because
// near-black inputs can undershoot numerically. Alpha is carried through
// unchanged.
func RGBToLab(r, g, b, alpha uint8) LabColor {
	rl, gl, bl := expanded[r], expanded[g], expanded[b]

	x := (forward[0][0]*rl + forward[0][1]*gl + forward[0][2]*bl) / whiteX
	y := (forward[1][0]*rl + forward[1][1]*gl + forward[1][2]*bl) / whiteY
	z := (forward[2][0]*rl + forward[2][1]*gl + forward[2][2]*bl) / whiteZ

	fx, fy, fz := labF(x), labF(y), labF(z)

	return LabColor{
		l:     math.Max(116.0*fy-16.0, 0),
		a:     500.0 * (fx - fy),
		b:     200.0 * (fy - fz),
		alpha: alpha,
	}
}

// FromColor converts any Go color to LAB via its non-premultiplied 8-bit value.
func FromColor(c color.Color) LabColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBToLab(n.R, n.G, n.B, n.A)
}

// LabToRGB converts a LAB color back to 8-bit sRGB.
//
// It is the exact inverse of RGBToLab up to 8-bit rounding: the CIE
// nonlinearity is undone, the white point reapplied, the inverse of the
// RGB to XYZ matrix applied and the sRGB transfer curve reapplied. Results
// outside the sRGB gamut are clipped per channel. The preserved alpha is
// returned unchanged.
func LabToRGB(c LabColor) color.NRGBA {
	fy := (c.l + 16.0) / 116.0
	fx := fy + c.a/500.0
	fz := fy - c.b/200.0

	x := labFInv(fx) * whiteX
	y := labFInv(fy) * whiteY
	z := labFInv(fz) * whiteZ

	r := (inverse[0][0]*x + inverse[0][1]*y + inverse[0][2]*z) / 100.0
	g := (inverse[1][0]*x + inverse[1][1]*y + inverse[1][2]*z) / 100.0
	b := (inverse[2][0]*x + inverse[2][1]*y + inverse[2][2]*z) / 100.0

	return color.NRGBA{
		R: to8(gammaCompress(r)),
		G: to8(gammaCompress(g)),
		B: to8(gammaCompress(b)),
		A: c.alpha,
	}
}

func gammaExpand(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

func gammaCompress(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + labOffset
}

func labFInv(f float64) float64 {
	if t := f * f * f; t > labEpsilon {
		return t
	}
	return (f - labOffset) / labKappa
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
