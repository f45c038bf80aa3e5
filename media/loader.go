package media

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// Decoders registered for LoadDirectory.
	_ "image/jpeg"
	_ "image/png"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// defaultGIFDelay is used for GIF frames declaring a delay of 0 or 10 ms,
// matching what browsers do for such frames.
const defaultGIFDelay = 100 * time.Millisecond

var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// LoadDirectory decodes every image file in dir, in lexical file name
// order, into a clip playing at fps frames per second.
func LoadDirectory(dir string, fps float64) (*Clip, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %v fps", ErrInvalidFrameRate, fps)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}

	frames := make([]image.Image, 0, len(names))
	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "LoadDirectory",
		"dir":         dir,
		"frame_count": len(frames),
		"fps":         fps,
	}).Info("Loaded frame sequence")

	return NewClip(frames, time.Duration(float64(time.Second)/fps))
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "decodeFile",
		"path":     path,
		"format":   format,
		"bounds":   img.Bounds().String(),
	}).Trace("Decoded frame")

	return img, nil
}

// DecodeGIF decodes an animated GIF into a clip, compositing each frame
// over the previous ones according to its disposal method.
func DecodeGIF(r io.Reader) (*Clip, error) {
	anim, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(anim.Image) == 0 {
		return nil, ErrNoFrames
	}

	bounds := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if bounds.Empty() {
		bounds = anim.Image[0].Bounds()
	}

	canvas := image.NewNRGBA(bounds)
	frames := make([]image.Image, 0, len(anim.Image))
	delays := make([]time.Duration, 0, len(anim.Image))

	for i, paletted := range anim.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(anim.Disposal) {
			disposal = anim.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, paletted.Bounds(), paletted, paletted.Bounds().Min, draw.Over)
		frames = append(frames, cloneNRGBA(canvas))
		delays = append(delays, gifDelay(anim.Delay, i))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, paletted.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "DecodeGIF",
		"frame_count": len(frames),
		"width":       bounds.Dx(),
		"height":      bounds.Dy(),
	}).Info("Decoded animated GIF")

	return NewClipWithDelays(frames, delays)
}

// LoadGIF opens path and decodes it with DecodeGIF.
func LoadGIF(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gif: %w", err)
	}
	defer f.Close()
	return DecodeGIF(f)
}

func gifDelay(delays []int, i int) time.Duration {
	if i >= len(delays) || delays[i] <= 1 {
		return defaultGIFDelay
	}
	return time.Duration(delays[i]) * 10 * time.Millisecond
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
