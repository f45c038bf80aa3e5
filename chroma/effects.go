package chroma

import (
	"fmt"
	"image"
)

// Effect processes a pixel buffer in place.
type Effect interface {
	// Apply modifies buf and returns the number of pixels it changed.
	Apply(buf *image.NRGBA) (int, error)
	// GetName returns the effect name for identification.
	GetName() string
}

// EffectChain manages multiple effects applied in sequence.
type EffectChain struct {
	effects []Effect
}

// NewEffectChain creates an empty effect chain.
func NewEffectChain() *EffectChain {
	return &EffectChain{
		effects: make([]Effect, 0),
	}
}

// AddEffect appends an effect to the chain.
func (ec *EffectChain) AddEffect(effect Effect) {
	ec.effects = append(ec.effects, effect)
}

// Apply runs every effect over buf in order and returns the total number
// of pixels changed.
func (ec *EffectChain) Apply(buf *image.NRGBA) (int, error) {
	if buf == nil {
		return 0, ErrNilBuffer
	}

	total := 0
	for i, effect := range ec.effects {
		n, err := effect.Apply(buf)
		if err != nil {
			return total, fmt.Errorf("effect %d (%s) failed: %w", i, effect.GetName(), err)
		}
		total += n
	}

	return total, nil
}

// GetEffectCount returns the number of effects in the chain.
func (ec *EffectChain) GetEffectCount() int {
	return len(ec.effects)
}

// Clear removes all effects from the chain.
func (ec *EffectChain) Clear() {
	ec.effects = ec.effects[:0]
}

// KeyEffect makes green-screen background pixels fully transparent.
type KeyEffect struct {
	classifier *Classifier
}

// NewKeyEffect creates a keying effect driven by classifier.
func NewKeyEffect(classifier *Classifier) *KeyEffect {
	return &KeyEffect{
		classifier: classifier,
	}
}

// Apply sets alpha to 0 on every background pixel. Foreground pixels and
// the colour channels of background pixels are left exactly as drawn.
func (ke *KeyEffect) Apply(buf *image.NRGBA) (int, error) {
	if buf == nil {
		return 0, ErrNilBuffer
	}

	bounds := buf.Rect
	width := bounds.Dx()
	keyed := 0

	for y := 0; y < bounds.Dy(); y++ {
		row := buf.Pix[y*buf.Stride : y*buf.Stride+width*4]
		for i := 0; i < len(row); i += 4 {
			if ke.classifier.IsBackground(row[i], row[i+1], row[i+2]) {
				row[i+3] = 0
				keyed++
			}
		}
	}

	return keyed, nil
}

// GetName returns the effect name.
func (ke *KeyEffect) GetName() string {
	cfg := ke.classifier.Config()
	return fmt.Sprintf("ChromaKey(d<%.1f, g>%.2f)", cfg.Distance, cfg.Ratio)
}
