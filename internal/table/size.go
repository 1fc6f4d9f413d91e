package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTableSize reports a table size with no entry in the dimension
// lookup.
var ErrUnknownTableSize = errors.New("unknown table size")

// BallDiameterInches is the nominal diameter of a ball on the table.
const BallDiameterInches = 2.5

// TableSize names a standard physical table.
type TableSize int

const (
	SevenFoot TableSize = iota + 1
	EightFoot
	EightFootPro
	NineFoot
	TenFootSnooker
	TwelveFootSnooker
)

// Dimensions is the size of a play field in inches, measured between the
// cushion noses. Length is always the longer side.
type Dimensions struct {
	LengthInches float64 `json:"length_inches"`
	WidthInches  float64 `json:"width_inches"`
}

var sizeNames = map[TableSize]string{
	SevenFoot:         "7ft",
	EightFoot:         "8ft",
	EightFootPro:      "8ft-pro",
	NineFoot:          "9ft",
	TenFootSnooker:    "10ft-snooker",
	TwelveFootSnooker: "12ft-snooker",
}

var playFields = map[TableSize]Dimensions{
	SevenFoot:         {LengthInches: 78, WidthInches: 39},
	EightFoot:         {LengthInches: 88, WidthInches: 44},
	EightFootPro:      {LengthInches: 92, WidthInches: 46},
	NineFoot:          {LengthInches: 100, WidthInches: 50},
	TenFootSnooker:    {LengthInches: 112, WidthInches: 56},
	TwelveFootSnooker: {LengthInches: 140, WidthInches: 70},
}

// Sizes lists every known table size from smallest to largest.
func Sizes() []TableSize {
	return []TableSize{SevenFoot, EightFoot, EightFootPro, NineFoot, TenFootSnooker, TwelveFootSnooker}
}

// String returns the short name, such as "9ft".
func (s TableSize) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TableSize(%d)", int(s))
}

// Dimensions returns the play field of s.
func (s TableSize) Dimensions() (Dimensions, error) {
	d, ok := playFields[s]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %d", ErrUnknownTableSize, int(s))
	}
	return d, nil
}

// ParseTableSize resolves names like "9ft", "9 ft", "9-foot", "8ft pro" or
// "12ft_snooker". Matching ignores case.
func ParseTableSize(name string) (TableSize, error) {
	norm := normalizeSize(name)
	for _, s := range Sizes() {
		if normalizeSize(sizeNames[s]) == norm {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTableSize, name)
}

func normalizeSize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "", "foot", "ft", "feet", "ft").Replace(s)
	return s
}

// MarshalText implements encoding.TextMarshaler so sizes appear by name in
// JSON.
func (s TableSize) MarshalText() ([]byte, error) {
	if _, ok := sizeNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTableSize, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TableSize) UnmarshalText(text []byte) error {
	parsed, err := ParseTableSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
