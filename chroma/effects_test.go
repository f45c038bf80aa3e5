package chroma

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBuffer(pixels ...color.NRGBA) *image.NRGBA {
	buf := image.NewNRGBA(image.Rect(0, 0, len(pixels), 1))
	for x, p := range pixels {
		buf.SetNRGBA(x, 0, p)
	}
	return buf
}

func TestKeyEffect_ReferenceBuffer(t *testing.T) {
	buf := createTestBuffer(
		color.NRGBA{0, 255, 0, 255},
		color.NRGBA{255, 0, 0, 255},
		color.NRGBA{10, 240, 5, 255},
		color.NRGBA{100, 100, 100, 255},
	)

	effect := NewKeyEffect(NewClassifier(DefaultThresholdConfig()))
	keyed, err := effect.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, keyed)

	assert.Equal(t, color.NRGBA{0, 255, 0, 0}, buf.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, buf.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{10, 240, 5, 0}, buf.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{100, 100, 100, 255}, buf.NRGBAAt(3, 0))
}

func TestKeyEffect_LeavesForegroundUntouched(t *testing.T) {
	buf := createTestBuffer(
		color.NRGBA{200, 10, 30, 17},
		color.NRGBA{12, 34, 56, 128},
	)
	before := append([]byte(nil), buf.Pix...)

	effect := NewKeyEffect(NewClassifier(DefaultThresholdConfig()))
	keyed, err := effect.Apply(buf)
	require.NoError(t, err)
	assert.Zero(t, keyed)
	assert.Equal(t, before, buf.Pix)
}

func TestKeyEffect_SubImage(t *testing.T) {
	full := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(full.Pix); i += 4 {
		full.Pix[i+1] = 255
		full.Pix[i+3] = 255
	}
	sub := full.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	effect := NewKeyEffect(NewClassifier(DefaultThresholdConfig()))
	keyed, err := effect.Apply(sub)
	require.NoError(t, err)
	assert.Equal(t, 4, keyed)
	assert.Equal(t, uint8(255), full.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), full.NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(0), full.NRGBAAt(2, 2).A)
	assert.Equal(t, uint8(255), full.NRGBAAt(3, 3).A)
}

func TestKeyEffect_NilBuffer(t *testing.T) {
	effect := NewKeyEffect(NewClassifier(DefaultThresholdConfig()))
	_, err := effect.Apply(nil)
	assert.ErrorIs(t, err, ErrNilBuffer)
	assert.Equal(t, "ChromaKey(d<100.0, g>0.40)", effect.GetName())
}

type failingEffect struct{}

func (failingEffect) Apply(*image.NRGBA) (int, error) { return 0, errors.New("boom") }
func (failingEffect) GetName() string                 { return "Failing" }

func TestEffectChain(t *testing.T) {
	chain := NewEffectChain()
	assert.Equal(t, 0, chain.GetEffectCount())

	buf := createTestBuffer(color.NRGBA{0, 255, 0, 255}, color.NRGBA{0, 0, 255, 255})
	keyed, err := chain.Apply(buf)
	require.NoError(t, err)
	assert.Zero(t, keyed)

	chain.AddEffect(NewKeyEffect(NewClassifier(DefaultThresholdConfig())))
	assert.Equal(t, 1, chain.GetEffectCount())

	keyed, err = chain.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, keyed)

	chain.AddEffect(failingEffect{})
	_, err = chain.Apply(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effect 1 (Failing) failed")

	chain.Clear()
	assert.Equal(t, 0, chain.GetEffectCount())

	_, err = chain.Apply(nil)
	assert.ErrorIs(t, err, ErrNilBuffer)
}
