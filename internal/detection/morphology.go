package detection

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// Open applies a morphological opening (erosion then dilation) with a
// circular structuring element. Foreground specks narrower than the element
// disappear; larger shapes keep roughly their size. A radius below 1 returns
// m unchanged.
func Open(m *Mask, radius float64) *Mask {
	if radius < 1 {
		return m
	}
	eroded := effect.Erode(m.Gray(), radius)
	return maskFromImage(effect.Dilate(eroded, radius))
}

// Smooth returns a Gaussian-blurred copy of the source bytes of buf.
// Annotations in the working buffer are ignored. Blurring before the mask is
// built evens out cloth texture and sensor noise. A radius of 0 or less
// returns buf itself.
func Smooth(buf *imaging.PixelBuffer, radius float64) (*imaging.PixelBuffer, error) {
	if radius <= 0 {
		return buf, nil
	}
	src, err := imaging.NewPixelBuffer(buf.Width(), buf.Height(), buf.Stride(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return imaging.Decode(blur.Gaussian(src, radius))
}
