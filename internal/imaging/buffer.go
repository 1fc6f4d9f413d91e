package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel is the size of one packed BGRA pixel.
const BytesPerPixel = 4

// Pixel is a single packed pixel in BGRA byte order.
//
// The field order mirrors the in-memory layout produced by typical bitmap
// APIs, so readers that need RGB semantics use the named fields rather than
// positional access.
type Pixel struct {
	B uint8 `json:"b"`
	G uint8 `json:"g"`
	R uint8 `json:"r"`
	A uint8 `json:"a"`
}

// NRGBA returns the pixel as a non-premultiplied Go color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Key packs the pixel into a single comparable value in B,G,R,A order.
func (p Pixel) Key() uint32 {
	return uint32(p.B)<<24 | uint32(p.G)<<16 | uint32(p.R)<<8 | uint32(p.A)
}

// PixelFromNRGBA converts a non-premultiplied color to a BGRA pixel.
func PixelFromNRGBA(c color.NRGBA) Pixel {
	return Pixel{B: c.B, G: c.G, R: c.R, A: c.A}
}

// PixelBuffer owns the decoded bytes of one image in BGRA order.
//
// Rows are stride bytes apart; stride is at least width*4 and may include
// alignment padding at the end of each row. The source bytes never change
// after construction. WritePixel copies them into a working buffer on first
// use, and every later read through the image.Image methods sees the working
// buffer, which is how annotated output is produced without disturbing the
// analysis input.
//
// A PixelBuffer is owned by one analysis session and is not safe for
// concurrent writes. Concurrent reads of the source bytes are safe.
type PixelBuffer struct {
	width  int
	height int
	stride int
	pix    []byte
	work   []byte
}

// NewPixelBuffer wraps raw BGRA bytes handed over by an external decoder.
//
// The slice is copied. It must hold at least stride*height bytes and stride
// must be at least width*4.
func NewPixelBuffer(width, height, stride int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image has zero dimension (%dx%d)", ErrDecode, width, height)
	}
	if stride < width*BytesPerPixel {
		return nil, fmt.Errorf("%w: stride %d is smaller than row width %d", ErrDecode, stride, width*BytesPerPixel)
	}
	if len(pix) < stride*height {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrDecode, len(pix), stride*height)
	}

	buf := make([]byte, stride*height)
	copy(buf, pix)
	return &PixelBuffer{width: width, height: height, stride: stride, pix: buf}, nil
}

// Decode converts a decoded image into a BGRA PixelBuffer.
//
// For *image.RGBA and *image.NRGBA sources the stride of the source is kept,
// so any row padding survives the conversion. Other image types are packed
// with stride width*4. Premultiplied sources are converted to straight alpha.
func Decode(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrDecode)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image has zero dimension (%dx%d)", ErrDecode, width, height)
	}

	stride := width * BytesPerPixel
	switch src := img.(type) {
	case *image.NRGBA:
		stride = src.Stride
	case *image.RGBA:
		stride = src.Stride
	}

	buf := &PixelBuffer{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			in := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			out := buf.pix[y*stride:]
			for x := 0; x < width; x++ {
				i := x * BytesPerPixel
				out[i], out[i+1], out[i+2], out[i+3] = in[i+2], in[i+1], in[i], in[i+3]
			}
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			in := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			out := buf.pix[y*stride:]
			for x := 0; x < width; x++ {
				i := x * BytesPerPixel
				if in[i+3] == 0xff {
					out[i], out[i+1], out[i+2], out[i+3] = in[i+2], in[i+1], in[i], in[i+3]
					continue
				}
				c := color.NRGBAModel.Convert(color.RGBA{R: in[i], G: in[i+1], B: in[i+2], A: in[i+3]}).(color.NRGBA)
				out[i], out[i+1], out[i+2], out[i+3] = c.B, c.G, c.R, c.A
			}
		}
	default:
		for y := 0; y < height; y++ {
			out := buf.pix[y*stride:]
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				i := x * BytesPerPixel
				out[i], out[i+1], out[i+2], out[i+3] = c.B, c.G, c.R, c.A
			}
		}
	}

	return buf, nil
}

// Width returns the image width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Stride returns the byte distance between the starts of two rows.
func (b *PixelBuffer) Stride() int { return b.stride }

// Len returns the number of bytes in the buffer (stride*height).
func (b *PixelBuffer) Len() int { return len(b.pix) }

// Bytes returns a copy of the source bytes.
func (b *PixelBuffer) Bytes() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}

// Modified reports whether WritePixel has created a working buffer.
func (b *PixelBuffer) Modified() bool { return b.work != nil }

// Offset returns the byte offset of pixel (x, y).
//
// It fails with ErrOutOfBounds when the coordinate lies outside the image or
// when the four bytes of the pixel would extend past the end of the buffer.
func (b *PixelBuffer) Offset(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d image", ErrOutOfBounds, x, y, b.width, b.height)
	}
	offset := y*b.stride + x*BytesPerPixel
	if offset+BytesPerPixel > len(b.pix) {
		return 0, fmt.Errorf("%w: (%d,%d) resolves to offset %d past buffer end %d", ErrOutOfBounds, x, y, offset, len(b.pix))
	}
	return offset, nil
}

// ReadPixel returns the source pixel at (x, y).
func (b *PixelBuffer) ReadPixel(x, y int) (Pixel, error) {
	offset, err := b.Offset(x, y)
	if err != nil {
		return Pixel{}, err
	}
	return Pixel{B: b.pix[offset], G: b.pix[offset+1], R: b.pix[offset+2], A: b.pix[offset+3]}, nil
}

// WritePixel stores p at (x, y) in the working buffer.
func (b *PixelBuffer) WritePixel(x, y int, p Pixel) error {
	offset, err := b.Offset(x, y)
	if err != nil {
		return err
	}
	if b.work == nil {
		b.work = make([]byte, len(b.pix))
		copy(b.work, b.pix)
	}
	b.work[offset], b.work[offset+1], b.work[offset+2], b.work[offset+3] = p.B, p.G, p.R, p.A
	return nil
}

// ColorAt returns the source color at (x, y) in RGBA order.
func (b *PixelBuffer) ColorAt(x, y int) (color.NRGBA, error) {
	p, err := b.ReadPixel(x, y)
	if err != nil {
		return color.NRGBA{}, err
	}
	return p.NRGBA(), nil
}

// ByteAt returns the source byte at a raw offset.
func (b *PixelBuffer) ByteAt(offset int) (byte, error) {
	if offset < 0 || offset >= len(b.pix) {
		return 0, fmt.Errorf("%w: offset %d outside buffer of %d bytes", ErrOutOfBounds, offset, len(b.pix))
	}
	return b.pix[offset], nil
}

// Reset discards the working buffer and any annotations written to it.
func (b *PixelBuffer) Reset() {
	b.work = nil
}

// ColorModel implements image.Image.
func (b *PixelBuffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// At implements image.Image. It reads the working buffer when one exists and
// returns transparent black outside the image.
func (b *PixelBuffer) At(x, y int) color.Color {
	offset, err := b.Offset(x, y)
	if err != nil {
		return color.NRGBA{}
	}
	src := b.pix
	if b.work != nil {
		src = b.work
	}
	return color.NRGBA{R: src[offset+2], G: src[offset+1], B: src[offset], A: src[offset+3]}
}

// ToNRGBA copies the visible contents (working buffer if present) into a
// tightly packed *image.NRGBA suitable for encoders.
func (b *PixelBuffer) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(b.Bounds())
	src := b.pix
	if b.work != nil {
		src = b.work
	}
	for y := 0; y < b.height; y++ {
		in := src[y*b.stride:]
		row := out.Pix[y*out.Stride:]
		for x := 0; x < b.width; x++ {
			i := x * BytesPerPixel
			row[i], row[i+1], row[i+2], row[i+3] = in[i+2], in[i+1], in[i], in[i+3]
		}
	}
	return out
}
