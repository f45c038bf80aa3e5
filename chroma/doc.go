// Package chroma implements green-screen pixel classification and the
// in-place keying effects built on top of it.
//
// # Classification
//
// A pixel is background when it is both close to pure green and green
// dominant:
//
//	d     = sqrt(r² + (g-255)² + b²)
//	ratio = g / max(r+g+b, 1)
//	background = d < Distance && ratio > Ratio
//
// Both comparisons are strict, so a pixel sitting exactly on either
// threshold is kept. The zero-sum guard makes black pixels produce a
// ratio of 0 instead of NaN.
//
//	classifier := chroma.NewClassifier(chroma.DefaultThresholdConfig())
//	if classifier.IsBackground(10, 240, 5) {
//	    // key it out
//	}
//
// # Effects
//
// Effects operate in place on a non-premultiplied RGBA buffer and report
// how many pixels they changed:
//
//	chain := chroma.NewEffectChain()
//	chain.AddEffect(chroma.NewKeyEffect(classifier))
//	keyed, err := chain.Apply(buffer)
//
// The KeyEffect only ever writes the alpha channel of background pixels.
// Red, green and blue are never modified, and neither is any channel of a
// foreground pixel.
//
// # Known Limitations
//
// The ratio test accepts any green-dominant hue, so yellow-greens close
// enough to pure green are keyed as well. Tighten Ratio if the footage
// contains such colors in the foreground.
package chroma
