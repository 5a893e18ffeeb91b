package scene

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/iburimskiy/shift-rings/internal/config"
	"github.com/iburimskiy/shift-rings/internal/render"
	"github.com/iburimskiy/shift-rings/internal/rings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferSink struct {
	uploads [][]float32
}

func (b *bufferSink) Upload(v []float32) { b.uploads = append(b.uploads, append([]float32(nil), v...)) }
func (b *bufferSink) DrawLines()         {}

func testConfig() *config.Config {
	c := config.Default()
	c.Seed = "test"
	c.Layers = []config.Layer{
		{Name: "front", Rings: 10, Angles: 6, SeedShift: 0.1, Drift: config.DefaultDrift(config.DriftRigid)},
		{Name: "jitter", Rings: 5, Angles: 3, Drift: config.DefaultDrift(config.DriftJitter)},
		{Name: "back", Rings: 8, Angles: 4, Hidden: true, Drift: config.DefaultDrift(config.DriftStep)},
	}
	return c
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	cfg := testConfig()
	s, err := New(cfg, render.NewViewport(400, 300, 1), NewRand(cfg))
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newTestScene(t)

	require.Len(t, s.Layers, 3)
	front := s.Layers[0].Stack
	assert.Equal(t, rings.Point{X: 200, Y: 150}, front.Center())
	radii := front.Radii()
	require.Len(t, radii, 11)
	assert.InDelta(t, 200, radii[10], 1e-9)

	assert.IsType(t, &rings.RigidDrift{}, front.Policy())
	assert.IsType(t, &rings.JitterDrift{}, s.Layers[1].Stack.Policy())
	assert.IsType(t, &rings.StepDrift{}, s.Layers[2].Stack.Policy())
}

func TestNew_UnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Layers[0].Drift.Strategy = "spiral"
	_, err := New(cfg, render.NewViewport(10, 10, 1), NewRand(cfg))
	require.Error(t, err)
}

func TestLines_SkipsHidden(t *testing.T) {
	s := newTestScene(t)
	assert.Len(t, s.Lines(), 10*6+5*3)
}

func TestAdvance_MovesHiddenLayers(t *testing.T) {
	s := newTestScene(t)

	for i := 0; i < 5; i++ {
		s.Advance()
	}

	assert.Equal(t, 5, s.Tick())
	for _, l := range s.Layers {
		assert.Equal(t, 5, l.Stack.Tick(), l.Name)
	}
}

func TestSeededScenesAgree(t *testing.T) {
	a := newTestScene(t)
	b := newTestScene(t)

	for i := 0; i < 80; i++ {
		a.Advance()
		b.Advance()
	}

	assert.Equal(t, a.Layers[0].Stack.Levels(), b.Layers[0].Stack.Levels())
}

func TestUpload(t *testing.T) {
	cfg := testConfig()
	s, err := New(cfg, render.NewViewport(300, 300, 1), NewRand(cfg))
	require.NoError(t, err)
	sink := &bufferSink{}

	buf := s.Upload(sink, nil)

	require.Len(t, sink.uploads, 1)
	assert.Len(t, buf, (10*6+5*3)*4)
	for _, v := range buf {
		assert.LessOrEqual(t, v, float32(1.0001))
		assert.GreaterOrEqual(t, v, float32(-1.0001))
	}
}

func TestDraw(t *testing.T) {
	s := newTestScene(t)
	canvas, err := render.NewCanvas(s.Viewport(), 1, color.White)
	require.NoError(t, err)

	s.Draw(canvas)

	// the innermost level starts at the center
	r, _, _, _ := canvas.Image().At(200, 150).RGBA()
	assert.Greater(t, r, uint32(0))
}

func TestResize(t *testing.T) {
	s := newTestScene(t)

	require.NoError(t, s.Resize(render.NewViewport(1000, 200, 2)))

	front := s.Layers[0].Stack
	assert.Equal(t, rings.Point{X: 500, Y: 100}, front.Center())
	radii := front.Radii()
	require.Len(t, radii, 11)
	assert.InDelta(t, 500, radii[10], 1e-9)
	assert.Equal(t, 2.0, s.Viewport().Ratio)
}

func TestSetScale(t *testing.T) {
	s := newTestScene(t)
	s.SetScale(0)
	s.Advance()

	rigid := s.Layers[0].Stack.Policy().(*rings.RigidDrift)
	assert.Equal(t, 0.0, rigid.State().Target)
	step := s.Layers[2].Stack.Policy().(*rings.StepDrift)
	assert.Equal(t, 0.0, step.Rotation())
}

func TestPolicy_Constant(t *testing.T) {
	p, err := Policy(config.Drift{Strategy: config.DriftConstant, Rotation: 0.13}, nil)
	require.NoError(t, err)
	assert.Equal(t, rings.ConstantDrift{Rotation: 0.13}, p)
}

func TestSnapshot(t *testing.T) {
	s := newTestScene(t)
	path := filepath.Join(t.TempDir(), "frame.png")

	require.NoError(t, s.Snapshot(path, 1, color.White))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}
