package imaging

import "errors"

// Sentinel errors returned by this package. Callers should match them with
// errors.Is because they are usually wrapped with coordinate or path details.
var (
	// ErrDecode reports an image that cannot become a PixelBuffer, such as a
	// zero width or height, or raw bytes that do not cover the declared rows.
	ErrDecode = errors.New("decode error")

	// ErrOutOfBounds reports a pixel coordinate or region outside the buffer
	// extent, including offsets that would read past the end of the bytes.
	ErrOutOfBounds = errors.New("coordinates out of bounds")

	// ErrUnsupportedFormat reports a file whose format has no registered decoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrCorruptImage reports a file in a known format that failed to decode.
	ErrCorruptImage = errors.New("corrupt image")

	// ErrDegenerateSampleRegion reports a sample rectangle with zero area.
	ErrDegenerateSampleRegion = errors.New("degenerate sample region")
)
