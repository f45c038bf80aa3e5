// Package frame implements one tick of the chroma-key compositor.
//
// A tick reads the current frame of a Source into a canvas.Surface,
// keys out the green-screen background and presents the result:
//
//	Source frame → Surface.Capture (scaled) → KeyEffect → Surface.Present
//
// Ticks are atomic: a whole frame is classified within one call and no
// state is carried from one tick to the next apart from statistics.
// A source that has not decoded enough data yet makes the tick a no-op;
// the caller is expected to keep scheduling and try again next frame.
//
//	processor, err := frame.NewProcessor(chroma.DefaultThresholdConfig())
//	if err != nil {
//	    return err
//	}
//	processed, err := processor.Tick(surface, source)
//
// Processor is not safe for concurrent Tick calls; statistics may be read
// from any goroutine.
package frame
