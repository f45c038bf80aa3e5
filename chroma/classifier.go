package chroma

import (
	"fmt"
	"math"
)

const (
	// DefaultDistanceThreshold is the maximum Euclidean distance from pure
	// green (exclusive) for a pixel to count as background.
	DefaultDistanceThreshold = 100.0

	// DefaultRatioThreshold is the minimum green share of r+g+b (exclusive)
	// for a pixel to count as background.
	DefaultRatioThreshold = 0.4
)

// ThresholdConfig holds the two thresholds of the background policy.
// It is immutable once handed to a Classifier.
type ThresholdConfig struct {
	Distance float64 `yaml:"distance"`
	Ratio    float64 `yaml:"ratio"`
}

// DefaultThresholdConfig returns the thresholds tuned for the overlay footage.
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{
		Distance: DefaultDistanceThreshold,
		Ratio:    DefaultRatioThreshold,
	}
}

// Validate checks that Distance is non-negative and Ratio lies in [0, 1].
func (c ThresholdConfig) Validate() error {
	if math.IsNaN(c.Distance) || c.Distance < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, c.Distance)
	}
	if math.IsNaN(c.Ratio) || c.Ratio < 0 || c.Ratio > 1 {
		return fmt.Errorf("%w: %v (must be within [0, 1])", ErrInvalidRatio, c.Ratio)
	}
	return nil
}

// Classification is the full outcome of classifying one pixel.
type Classification struct {
	Background bool
	Distance   float64
	GreenRatio float64
}

// Classifier decides whether a pixel belongs to the green-screen background.
// It is stateless after construction and safe for concurrent use.
type Classifier struct {
	cfg           ThresholdConfig
	distanceLimit int // squared distances below this pass the distance test
}

// NewClassifier creates a classifier for the given thresholds. The
// configuration is not validated here; callers that accept user input
// should call Validate first.
func NewClassifier(cfg ThresholdConfig) *Classifier {
	return &Classifier{
		cfg:           cfg,
		distanceLimit: squaredDistanceLimit(cfg.Distance),
	}
}

// Config returns the thresholds the classifier was built with.
func (c *Classifier) Config() ThresholdConfig {
	return c.cfg
}

// Classify computes the distance from pure green, the green ratio and the
// resulting background decision for one pixel.
func (c *Classifier) Classify(r, g, b uint8) Classification {
	distance := math.Sqrt(float64(greenDistanceSq(r, g, b)))
	ratio := greenRatio(r, g, b)

	return Classification{
		Background: distance < c.cfg.Distance && ratio > c.cfg.Ratio,
		Distance:   distance,
		GreenRatio: ratio,
	}
}

// IsBackground reports the same decision as Classify without computing the
// square root.
func (c *Classifier) IsBackground(r, g, b uint8) bool {
	if greenDistanceSq(r, g, b) >= c.distanceLimit {
		return false
	}
	return greenRatio(r, g, b) > c.cfg.Ratio
}

// maxDistanceSq is the squared distance of the farthest color from pure
// green.
const maxDistanceSq = 3 * 255 * 255

// squaredDistanceLimit returns the smallest n with math.Sqrt(n) >= distance.
// math.Sqrt is monotonic, so n < limit holds exactly when the distance of
// a pixel with squared distance n is below the threshold.
func squaredDistanceLimit(distance float64) int {
	if !(distance > 0) {
		return 0
	}
	if distance > math.Sqrt(maxDistanceSq) {
		return maxDistanceSq + 1
	}

	limit := int(math.Ceil(distance * distance))
	for limit > 0 && math.Sqrt(float64(limit-1)) >= distance {
		limit--
	}
	for math.Sqrt(float64(limit)) < distance {
		limit++
	}
	return limit
}

// greenDistanceSq returns r² + (g-255)² + b².
func greenDistanceSq(r, g, b uint8) int {
	dr := int(r)
	dg := int(g) - 255
	db := int(b)
	return dr*dr + dg*dg + db*db
}

// greenRatio returns g / max(r+g+b, 1).
func greenRatio(r, g, b uint8) float64 {
	sum := int(r) + int(g) + int(b)
	if sum < 1 {
		sum = 1
	}
	return float64(g) / float64(sum)
}
