package table

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/pooltable-mcp/internal/cloth"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
)

// Session owns the buffer of one loaded image and remembers the last
// successful results computed from it. A failed call leaves earlier results
// in place.
//
// Session is safe for concurrent use; calls are serialized.
type Session struct {
	mu     sync.Mutex
	id     string
	path   string
	buf    *imaging.PixelBuffer
	cloth  *imaging.Pixel
	region imaging.Region
	last   *Report
}

// NewSession wraps buf, which the session takes ownership of.
func NewSession(path string, buf *imaging.PixelBuffer) *Session {
	return &Session{id: uuid.NewString(), path: path, buf: buf}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Path returns the file the buffer was loaded from, if any.
func (s *Session) Path() string { return s.path }

// Buffer returns the session's pixel buffer.
func (s *Session) Buffer() *imaging.PixelBuffer { return s.buf }

// ClothColor returns the cloth color and the region it was sampled from,
// computing it on first use.
func (s *Session) ClothColor() (imaging.Pixel, imaging.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cloth != nil {
		return *s.cloth, s.region, nil
	}

	region := cloth.CenterRegion(s.buf.Width(), s.buf.Height())
	p, err := cloth.FindDominantColor(s.buf, region)
	if err != nil {
		return imaging.Pixel{}, region, &StageError{Stage: ClothColorKnown, Err: err}
	}
	s.cloth, s.region = &p, region
	return p, region, nil
}

// Analyze runs a over the session buffer. The annotations of any previous
// call are discarded first. On success the report and cloth color are kept;
// on failure the previous ones stay.
func (s *Session) Analyze(a *Analyzer, size TableSize) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	report, err := a.RunBuffer(s.buf, size)
	if err != nil {
		return nil, err
	}

	p := report.ClothPixel
	s.cloth, s.region = &p, report.SampleRegion
	s.last = report
	return report, nil
}

// Last returns the most recent successful report, or nil.
func (s *Session) Last() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
