// Package imaging holds the pixel-level layer of the table analyzer.
//
// Images are loaded and decoded through the Go image ecosystem and turned into
// a PixelBuffer: BGRA bytes plus a row stride, with bounds-checked pixel
// access. Everything above this package (cloth sampling, segmentation, the
// analyzer) reads pixels only through PixelBuffer.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// A pixel (x, y) lives at byte offset y*stride + x*4. Any coordinate outside
// the image, or an offset that would run past the end of the bytes, fails
// with ErrOutOfBounds.
//
// # Annotation
//
// The source bytes of a PixelBuffer never change. DrawGrid, DrawBoxes and
// WritePixel write into a working copy created on first use, and the
// image.Image view of the buffer (At, ToNRGBA, Render) shows that copy.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A PixelBuffer may be read
// from many goroutines but written by one.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - Lab: CIE-LAB under D65, see package colorspace
package imaging
