package frame

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/opd-ai/greenscreen/canvas"
	"github.com/opd-ai/greenscreen/chroma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	state ReadyState
	frame image.Image
	reads int
}

func (m *mockSource) ReadyState() ReadyState { return m.state }

func (m *mockSource) CurrentFrame() image.Image {
	m.reads++
	return m.frame
}

func referenceFrame() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(2, 0, color.NRGBA{10, 240, 5, 255})
	img.SetNRGBA(3, 0, color.NRGBA{100, 100, 100, 255})
	return img
}

func newTestSurface(t *testing.T, width, height int) (*canvas.Surface, *canvas.MemoryDisplay) {
	t.Helper()
	display := canvas.NewMemoryDisplay()
	surface, err := canvas.NewSurface(display, width, height)
	require.NoError(t, err)
	return surface, display
}

func TestNewProcessor_RejectsInvalidConfig(t *testing.T) {
	_, err := NewProcessor(chroma.ThresholdConfig{Distance: -1, Ratio: 0.4})
	assert.ErrorIs(t, err, chroma.ErrInvalidDistance)

	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, p.GetEffectChain().GetEffectCount())
	assert.Equal(t, chroma.DefaultThresholdConfig(), p.Classifier().Config())
}

func TestProcessor_TickKeysReferenceFrame(t *testing.T) {
	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)

	surface, display := newTestSurface(t, 4, 1)
	source := &mockSource{state: HaveEnoughData, frame: referenceFrame()}

	processed, err := p.Tick(surface, source)
	require.NoError(t, err)
	assert.True(t, processed)

	out := display.Frame()
	require.NotNil(t, out)

	wantAlpha := []uint8{0, 255, 0, 255}
	for x, want := range wantAlpha {
		got := out.NRGBAAt(x, 0)
		assert.Equal(t, want, got.A, "pixel %d", x)
	}
	// colour channels are untouched, even on keyed pixels
	assert.Equal(t, color.NRGBA{10, 240, 5, 0}, out.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{100, 100, 100, 255}, out.NRGBAAt(3, 0))

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Ticks)
	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, int64(2), stats.KeyedPixels)
	assert.Equal(t, int64(4), stats.TotalPixels)
	assert.InDelta(t, 0.5, stats.KeyedFraction(), 1e-9)
}

func TestProcessor_TickNotReadyIsNoOp(t *testing.T) {
	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)

	surface, display := newTestSurface(t, 4, 1)

	for _, state := range []ReadyState{HaveNothing, HaveMetadata} {
		source := &mockSource{state: state, frame: referenceFrame()}
		processed, err := p.Tick(surface, source)
		require.NoError(t, err)
		assert.False(t, processed)
		assert.Zero(t, source.reads, "frame must not be read at %s", state)
	}

	presents, _ := display.Counts()
	assert.Zero(t, presents)

	stats := p.Stats()
	assert.Equal(t, int64(2), stats.Ticks)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Zero(t, stats.Processed)
}

func TestProcessor_TickNilFrameIsNoOp(t *testing.T) {
	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)

	surface, display := newTestSurface(t, 4, 1)
	processed, err := p.Tick(surface, &mockSource{state: HaveCurrentData})
	require.NoError(t, err)
	assert.False(t, processed)

	presents, _ := display.Counts()
	assert.Zero(t, presents)
}

func TestProcessor_TickNilArguments(t *testing.T) {
	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)

	surface, _ := newTestSurface(t, 1, 1)
	_, err = p.Tick(nil, &mockSource{})
	assert.ErrorIs(t, err, ErrNilSurface)
	_, err = p.Tick(surface, nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestProcessor_ResizeBetweenTicks(t *testing.T) {
	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)

	surface, display := newTestSurface(t, 8, 8)
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	source := &mockSource{state: HaveEnoughData, frame: src}

	_, err = p.Tick(surface, source)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), display.Frame().Rect)

	surface.Resize(20, 10)

	_, err = p.Tick(surface, source)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), display.Frame().Rect)
	assert.Equal(t, int64(8*8+20*10), p.Stats().TotalPixels)
}

func TestProcessor_ResetStats(t *testing.T) {
	p, err := NewProcessor(chroma.DefaultThresholdConfig())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	p.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}

	surface, _ := newTestSurface(t, 4, 1)
	_, err = p.Tick(surface, &mockSource{state: HaveEnoughData, frame: referenceFrame()})
	require.NoError(t, err)

	stats := p.Stats()
	assert.Equal(t, time.Millisecond, stats.LastTick)
	assert.Equal(t, time.Millisecond, stats.PeakTick)
	assert.Equal(t, time.Millisecond, stats.AverageTick)

	p.ResetStats()
	assert.Equal(t, StatsSnapshot{}, p.Stats())
}

func TestReadyState_String(t *testing.T) {
	assert.Equal(t, "HAVE_NOTHING", HaveNothing.String())
	assert.Equal(t, "HAVE_CURRENT_DATA", HaveCurrentData.String())
	assert.Equal(t, "HAVE_ENOUGH_DATA", HaveEnoughData.String())
	assert.Equal(t, "UNKNOWN", ReadyState(42).String())
	assert.False(t, HaveMetadata.CanRenderFrame())
	assert.True(t, HaveCurrentData.CanRenderFrame())
}
