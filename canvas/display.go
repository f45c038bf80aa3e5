package canvas

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryDisplay keeps a private copy of the most recently presented frame.
// It is safe for concurrent use and is handy for hosts that composite the
// overlay themselves.
type MemoryDisplay struct {
	mu       sync.RWMutex
	last     *image.NRGBA
	presents int
	clears   int
}

// NewMemoryDisplay creates an empty in-memory display.
func NewMemoryDisplay() *MemoryDisplay {
	return &MemoryDisplay{}
}

// Present copies buf into the display.
func (m *MemoryDisplay) Present(buf *image.NRGBA) error {
	if buf == nil {
		return ErrNoFrame
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last == nil || m.last.Rect != buf.Rect {
		m.last = image.NewNRGBA(buf.Rect)
	}
	copy(m.last.Pix, buf.Pix)
	m.presents++
	return nil
}

// Clear drops the stored frame.
func (m *MemoryDisplay) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = nil
	m.clears++
	return nil
}

// Frame returns a copy of the last presented frame, or nil if the display
// is clear.
func (m *MemoryDisplay) Frame() *image.NRGBA {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.last == nil {
		return nil
	}
	frame := image.NewNRGBA(m.last.Rect)
	copy(frame.Pix, m.last.Pix)
	return frame
}

// Counts returns how many times Present and Clear were called.
func (m *MemoryDisplay) Counts() (presents, clears int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.presents, m.clears
}

// PNGSequenceDisplay writes every presented frame to dir as a numbered
// PNG file (frame_00000.png, frame_00001.png, ...).
type PNGSequenceDisplay struct {
	dir     string
	encoder png.Encoder

	mu      sync.Mutex
	written int
}

// NewPNGSequenceDisplay creates dir if needed and returns a display that
// writes into it.
func NewPNGSequenceDisplay(dir string) (*PNGSequenceDisplay, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewPNGSequenceDisplay",
		"dir":      dir,
	}).Info("Writing presented frames as PNG sequence")

	return &PNGSequenceDisplay{
		dir:     dir,
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}, nil
}

// Present encodes buf to the next file in the sequence.
func (p *PNGSequenceDisplay) Present(buf *image.NRGBA) error {
	if buf == nil {
		return ErrNoFrame
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	path := filepath.Join(p.dir, fmt.Sprintf("frame_%05d.png", p.written))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := p.encoder.Encode(w, buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	p.written++
	return nil
}

// Clear is a no-op for a file sequence; frames already written stay on disk.
func (p *PNGSequenceDisplay) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "PNGSequenceDisplay.Clear",
		"written":  p.written,
	}).Debug("Display cleared")
	return nil
}

// Written returns the number of frames written so far.
func (p *PNGSequenceDisplay) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}
