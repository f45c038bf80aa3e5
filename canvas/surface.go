package canvas

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// Display is the host-side target that shows presented frames.
type Display interface {
	// Present shows buf. Implementations must not retain buf after
	// returning; the surface reuses it for the next frame.
	Present(buf *image.NRGBA) error
	// Clear removes whatever is currently shown.
	Clear() error
}

// Surface is an addressable pixel buffer whose dimensions track the viewport.
type Surface struct {
	display Display
	scaler  draw.Scaler

	mu       sync.Mutex
	width    int
	height   int
	buf      *image.NRGBA
	captured bool
}

// NewSurface creates a surface of the given size presenting to display.
func NewSurface(display Display, width, height int) (*Surface, error) {
	if display == nil {
		return nil, ErrNilDisplay
	}

	width, height = clampDims(width, height)

	logrus.WithFields(logrus.Fields{
		"function": "NewSurface",
		"width":    width,
		"height":   height,
	}).Debug("Creating canvas surface")

	return &Surface{
		display: display,
		scaler:  draw.BiLinear,
		width:   width,
		height:  height,
		buf:     image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Resize sets the dimensions used from the next Capture on. Non-positive
// dimensions are clamped to 1.
func (s *Surface) Resize(width, height int) {
	width, height = clampDims(width, height)

	s.mu.Lock()
	defer s.mu.Unlock()

	if width == s.width && height == s.height {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Surface.Resize",
		"old_width":  s.width,
		"old_height": s.height,
		"new_width":  width,
		"new_height": height,
	}).Debug("Canvas surface resized")

	s.width = width
	s.height = height
}

// Size returns the current target dimensions.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Capture draws src into the pixel buffer, scaled to the target dimensions,
// and returns the buffer. The buffer is only valid until the next call to
// Capture or Clear and must not be retained by the caller.
func (s *Surface) Capture(src image.Image) *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf.Rect.Dx() != s.width || s.buf.Rect.Dy() != s.height {
		s.buf = image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	}

	srcBounds := src.Bounds()
	if srcBounds.Dx() == s.width && srcBounds.Dy() == s.height {
		draw.Copy(s.buf, image.Point{}, src, srcBounds, draw.Src, nil)
	} else {
		s.scaler.Scale(s.buf, s.buf.Rect, src, srcBounds, draw.Src, nil)
	}
	s.captured = true

	return s.buf
}

// Present commits the current buffer to the display.
func (s *Surface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.captured {
		return ErrNoFrame
	}
	if err := s.display.Present(s.buf); err != nil {
		return fmt.Errorf("present %dx%d frame: %w", s.buf.Rect.Dx(), s.buf.Rect.Dy(), err)
	}
	return nil
}

// Clear resets the buffer to fully transparent and clears the display.
func (s *Surface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.buf.Pix)
	s.captured = false

	if err := s.display.Clear(); err != nil {
		return fmt.Errorf("clear display: %w", err)
	}
	return nil
}

func clampDims(width, height int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
