package frame

import (
	"fmt"
	"time"

	"github.com/opd-ai/greenscreen/canvas"
	"github.com/opd-ai/greenscreen/chroma"
	"github.com/sirupsen/logrus"
)

// Processor runs the capture, key and present cycle.
type Processor struct {
	classifier *chroma.Classifier
	effects    *chroma.EffectChain
	stats      *Stats
	now        func() time.Time
}

// NewProcessor validates cfg and creates a processor whose effect chain
// holds a single chroma KeyEffect.
func NewProcessor(cfg chroma.ThresholdConfig) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid threshold config: %w", err)
	}

	classifier := chroma.NewClassifier(cfg)
	effects := chroma.NewEffectChain()
	effects.AddEffect(chroma.NewKeyEffect(classifier))

	logrus.WithFields(logrus.Fields{
		"function":           "NewProcessor",
		"distance_threshold": cfg.Distance,
		"ratio_threshold":    cfg.Ratio,
	}).Debug("Frame processor created")

	return &Processor{
		classifier: classifier,
		effects:    effects,
		stats:      &Stats{},
		now:        time.Now,
	}, nil
}

// Classifier returns the pixel classifier used by the processor.
func (p *Processor) Classifier() *chroma.Classifier {
	return p.classifier
}

// GetEffectChain returns the effect chain applied to every captured frame.
// Effects added here run after the chroma key.
func (p *Processor) GetEffectChain() *chroma.EffectChain {
	return p.effects
}

// Tick processes the current frame of source into surface. It returns
// false with a nil error when the source is not ready yet, in which case
// the surface is left unchanged.
func (p *Processor) Tick(surface *canvas.Surface, source Source) (bool, error) {
	if surface == nil {
		return false, ErrNilSurface
	}
	if source == nil {
		return false, ErrNilSource
	}

	start := p.now()
	p.stats.recordTick()

	state := source.ReadyState()
	if !state.CanRenderFrame() {
		p.stats.recordSkip()
		logrus.WithFields(logrus.Fields{
			"function":    "Processor.Tick",
			"ready_state": state.String(),
		}).Trace("Source not ready, skipping tick")
		return false, nil
	}

	img := source.CurrentFrame()
	if img == nil {
		p.stats.recordSkip()
		return false, nil
	}

	buf := surface.Capture(img)

	keyed, err := p.effects.Apply(buf)
	if err != nil {
		return false, fmt.Errorf("effects processing failed: %w", err)
	}

	if err := surface.Present(); err != nil {
		return false, err
	}

	p.stats.recordProcessed(keyed, buf.Rect.Dx()*buf.Rect.Dy(), p.now().Sub(start))
	return true, nil
}

// Stats returns a snapshot of the processor statistics.
func (p *Processor) Stats() StatsSnapshot {
	return p.stats.Snapshot()
}

// ResetStats zeroes all statistics.
func (p *Processor) ResetStats() {
	p.stats.Reset()
}
