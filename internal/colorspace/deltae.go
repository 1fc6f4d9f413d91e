package colorspace

import (
	"fmt"
	"math"
	"strings"
)

// Application selects the Delta-E94 weighting profile.
type Application int

const (
	// GraphicArts is the default CIE94 profile.
	GraphicArts Application = iota
	// Textiles doubles the lightness tolerance.
	Textiles
)

// DeltaEConstants holds the five coefficients that shape the CIE94 formula.
type DeltaEConstants struct {
	Name string  `json:"name"`
	KL   float64 `json:"kl"` // lightness weight
	K1   float64 `json:"k1"` // chroma scaling of SC
	K2   float64 `json:"k2"` // chroma scaling of SH
	KC   float64 `json:"kc"` // chroma weight
	KH   float64 `json:"kh"` // hue weight
}

// profiles is indexed by Application and never written after package init.
var profiles = [...]DeltaEConstants{
	GraphicArts: {Name: "graphic-arts", KL: 1, K1: 0.045, K2: 0.015, KC: 1, KH: 1},
	Textiles:    {Name: "textiles", KL: 2, K1: 0.048, K2: 0.014, KC: 1, KH: 1},
}

// Constants returns a copy of the coefficient profile. Unknown values fall
// back to GraphicArts.
func (a Application) Constants() DeltaEConstants {
	if a < 0 || int(a) >= len(profiles) {
		return profiles[GraphicArts]
	}
	return profiles[a]
}

// String returns the profile name.
func (a Application) String() string {
	return a.Constants().Name
}

// Applications lists every known profile in declaration order.
func Applications() []Application {
	out := make([]Application, len(profiles))
	for i := range profiles {
		out[i] = Application(i)
	}
	return out
}

// ParseApplication resolves a profile name such as "graphic-arts" or
// "textiles". Matching ignores case, spaces, dashes and underscores. An empty
// name selects GraphicArts.
func ParseApplication(name string) (Application, error) {
	norm := normalizeName(name)
	if norm == "" {
		return GraphicArts, nil
	}
	for i, p := range profiles {
		if normalizeName(p.Name) == norm {
			return Application(i), nil
		}
	}
	return GraphicArts, fmt.Errorf("unknown delta-e profile %q", name)
}

// Profile looks up the coefficients of a named profile.
func Profile(name string) (DeltaEConstants, error) {
	app, err := ParseApplication(name)
	if err != nil {
		return DeltaEConstants{}, err
	}
	return app.Constants(), nil
}

func normalizeName(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// DeltaE94 returns the CIE94 color difference using the GraphicArts profile.
func DeltaE94(c1, c2 LabColor) float64 {
	return DeltaE94With(c1, c2, profiles[GraphicArts])
}

// DeltaE94With returns the CIE94 color difference for a coefficient profile.
//
// SC and SH are both scaled by the chroma of c1, so the result is not
// symmetric: DeltaE94With(x, y, k) and DeltaE94With(y, x, k) differ whenever
// the two chromas differ. Use the reference color (the cloth) as c1.
//
// See http://www.brucelindbloom.com/index.html?Eqn_DeltaE_CIE94.html
func DeltaE94With(c1, c2 LabColor, k DeltaEConstants) float64 {
	deltaL := c1.l - c2.l
	chroma1 := math.Sqrt(c1.a*c1.a + c1.b*c1.b)
	chroma2 := math.Sqrt(c2.a*c2.a + c2.b*c2.b)
	deltaC := chroma1 - chroma2
	deltaA := c1.a - c2.a
	deltaB := c1.b - c2.b

	// The radical is non-negative in theory but rounding can push it below 0.
	radical := deltaA*deltaA + deltaB*deltaB - deltaC*deltaC
	if radical < 0 {
		radical = 0
	}
	deltaH := math.Sqrt(radical)

	const sl = 1.0
	sc := 1.0 + k.K1*chroma1
	sh := 1.0 + k.K2*chroma1

	termL := deltaL / (k.KL * sl)
	termC := deltaC / (k.KC * sc)
	termH := deltaH / (k.KH * sh)

	return math.Sqrt(termL*termL + termC*termC + termH*termH)
}
