// Package cloth finds the color of the table cloth in a photograph.
//
// The cloth is assumed to cover most of the centered quadrant of the image,
// so the most frequent exact pixel value in that region is taken as the
// background color every other pixel is compared against.
package cloth

import (
	"fmt"
	"sort"

	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// CenterRegion returns the centered quadrant of a width x height image: a
// rectangle of size (width/2, height/2) whose top-left corner is
// (width/4, height/4).
//
// Images smaller than 2 pixels on a side produce a zero-area region, which
// FindDominantColor rejects with ErrDegenerateSampleRegion.
func CenterRegion(width, height int) imaging.Region {
	x, y := width/4, height/4
	return imaging.Region{X1: x, Y1: y, X2: x + width/2, Y2: y + height/2}
}

// tally counts exact BGRA values in first-seen order.
type tally struct {
	order  []imaging.Pixel
	counts map[uint32]int
	total  int
}

func count(buf *imaging.PixelBuffer, region imaging.Region) (*tally, error) {
	if err := region.Validate(buf.Width(), buf.Height()); err != nil {
		return nil, err
	}

	t := &tally{counts: make(map[uint32]int)}
	for y := region.Y1; y < region.Y2; y++ {
		for x := region.X1; x < region.X2; x++ {
			p, err := buf.ReadPixel(x, y)
			if err != nil {
				return nil, err
			}
			key := p.Key()
			if _, seen := t.counts[key]; !seen {
				t.order = append(t.order, p)
			}
			t.counts[key]++
			t.total++
		}
	}
	return t, nil
}

// FindDominantColor returns the most frequent exact pixel value in region.
//
// Pixels are visited row-major, top to bottom and left to right. When two
// values share the highest count the one encountered first wins, so the
// result is deterministic for a given buffer.
//
// # Errors
//
//   - wraps imaging.ErrDegenerateSampleRegion if the region has zero area
//   - wraps imaging.ErrOutOfBounds if the region reaches outside buf
func FindDominantColor(buf *imaging.PixelBuffer, region imaging.Region) (imaging.Pixel, error) {
	t, err := count(buf, region)
	if err != nil {
		return imaging.Pixel{}, fmt.Errorf("cloth sample: %w", err)
	}

	best := t.order[0]
	bestCount := t.counts[best.Key()]
	for _, p := range t.order[1:] {
		if c := t.counts[p.Key()]; c > bestCount {
			best, bestCount = p, c
		}
	}
	return best, nil
}

// PaletteEntry is one exact color of a sampled region with its frequency.
type PaletteEntry struct {
	Color      imaging.ColorResult `json:"color"`
	Pixel      imaging.Pixel       `json:"-"`
	Count      int                 `json:"count"`
	Percentage float64             `json:"percentage"`
}

// Palette returns up to n of the most frequent exact colors in region,
// most frequent first. Equal counts keep scan order, so Palette(...)[0]
// always agrees with FindDominantColor. n <= 0 returns every color.
func Palette(buf *imaging.PixelBuffer, region imaging.Region, n int) ([]PaletteEntry, error) {
	t, err := count(buf, region)
	if err != nil {
		return nil, fmt.Errorf("cloth palette: %w", err)
	}

	entries := make([]PaletteEntry, 0, len(t.order))
	for _, p := range t.order {
		c := t.counts[p.Key()]
		entries = append(entries, PaletteEntry{
			Color:      imaging.NewColorResult(p),
			Pixel:      p,
			Count:      c,
			Percentage: float64(c) / float64(t.total) * 100,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}
