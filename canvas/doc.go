// Package canvas provides the drawable surface the overlay composites into.
//
// A Surface owns exactly one pixel buffer, a non-premultiplied RGBA image
// whose size follows the viewport. Resize only records the new target size;
// the buffer is reallocated at the start of the next Capture, so a frame is
// never captured at one size and presented at another.
//
//	display := canvas.NewMemoryDisplay()
//	surface, err := canvas.NewSurface(display, 1280, 720)
//	if err != nil {
//	    return err
//	}
//
//	buf := surface.Capture(frame) // scaled to 1280x720
//	// ... mutate buf ...
//	err = surface.Present()
//
// Presented buffers are handed to a Display, the host's actual drawing
// target. MemoryDisplay keeps the last frame in memory and
// PNGSequenceDisplay writes every frame to disk.
package canvas
