package imaging

import (
	"fmt"
	"strconv"
)

// AnnotateResult contains an annotated copy of the image as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Boxes       int    `json:"boxes"`
	GridSpacing int    `json:"grid_spacing,omitempty"`
}

// Box is an outlined rectangle with an optional numeric label.
type Box struct {
	Bounds Region
	Label  string
	Color  Pixel
}

// DrawBoxes outlines each box in the working buffer of buf and writes its
// label above the top-left corner. Parts of a box outside the image are
// skipped.
func DrawBoxes(buf *PixelBuffer, boxes []Box) {
	labelBg := Pixel{A: 180}
	for _, box := range boxes {
		r := box.Bounds
		for x := r.X1; x < r.X2; x++ {
			_ = buf.WritePixel(x, r.Y1, box.Color)
			_ = buf.WritePixel(x, r.Y2-1, box.Color)
		}
		for y := r.Y1; y < r.Y2; y++ {
			_ = buf.WritePixel(r.X1, y, box.Color)
			_ = buf.WritePixel(r.X2-1, y, box.Color)
		}
		if box.Label != "" {
			drawLabel(buf, r.X1, r.Y1-labelHeight-1, box.Label, box.Color, labelBg)
		}
	}
}

// DrawGrid draws grid lines every spacing pixels into the working buffer,
// optionally labelling each intersection with its coordinates. It helps pick
// coordinates for interactive color sampling.
func DrawGrid(buf *PixelBuffer, spacing int, showCoordinates bool, lineColor Pixel) error {
	if spacing <= 0 {
		return fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}
	width, height := buf.Width(), buf.Height()

	for x := spacing; x < width; x += spacing {
		for y := 0; y < height; y++ {
			_ = buf.WritePixel(x, y, lineColor)
		}
	}
	for y := spacing; y < height; y += spacing {
		for x := 0; x < width; x++ {
			_ = buf.WritePixel(x, y, lineColor)
		}
	}

	if showCoordinates {
		fg := Pixel{R: 255, G: 255, B: 255, A: 255}
		bg := Pixel{A: 180}
		for y := spacing; y < height; y += spacing {
			for x := spacing; x < width; x += spacing {
				drawLabel(buf, x+2, y+2, fmt.Sprintf("%d,%d", x, y), fg, bg)
			}
		}
	}
	return nil
}

// Render encodes the visible contents of buf (annotations included) as a
// base64 PNG.
func Render(buf *PixelBuffer, boxes, gridSpacing int) (*AnnotateResult, error) {
	encoded, err := EncodePNGBase64(buf.ToNRGBA())
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &AnnotateResult{
		Width:       buf.Width(),
		Height:      buf.Height(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Boxes:       boxes,
		GridSpacing: gridSpacing,
	}, nil
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func ParseHexColor(hex string) (Pixel, error) {
	if len(hex) == 0 {
		return Pixel{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Pixel{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Pixel{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return Pixel{}, fmt.Errorf("invalid hex color length")
	}

	return Pixel{R: r, G: g, B: b, A: a}, nil
}

const (
	glyphWidth  = 4
	labelHeight = 7
)

// glyphs is a 3x5 pixel font for digits and comma.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text with a background box at (x, y). Pixels falling
// outside the buffer are dropped by WritePixel's bounds check.
func drawLabel(buf *PixelBuffer, x, y int, text string, fg, bg Pixel) {
	labelWidth := len(text) * glyphWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			_ = buf.WritePixel(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += glyphWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					_ = buf.WritePixel(cx+col, y+row, fg)
				}
			}
		}
		cx += glyphWidth
	}
}
