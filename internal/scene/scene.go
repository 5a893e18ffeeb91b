// Package scene assembles ring stacks from configuration and advances them
// together, one tick per rendered frame.
package scene

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/shift-rings/internal/config"
	"github.com/iburimskiy/shift-rings/internal/render"
	"github.com/iburimskiy/shift-rings/internal/rings"
)

type Layer struct {
	Name   string
	Hidden bool
	Stack  *rings.Stack
}

// Scene is every layer drawn over one viewport.
type Scene struct {
	Layers   []*Layer
	viewport render.Viewport
	lines    []rings.Line
}

// NewRand returns the PRNG a scene samples drift targets from. An unset seed
// falls back to the wall clock.
func NewRand(cfg *config.Config) *rand.Rand {
	seed, ok := cfg.SeedValue()
	if !ok {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New builds every configured layer centered in vp.
func New(cfg *config.Config, vp render.Viewport, src rings.Source) (*Scene, error) {
	s := &Scene{viewport: vp}
	for _, lc := range cfg.Layers {
		policy, err := Policy(lc.Drift, src)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", lc.Name, err)
		}
		stack, err := rings.Build(rings.BuildOptions{
			Rings:     lc.Rings,
			Angles:    lc.Angles,
			SeedShift: lc.SeedShift,
			MaxDist:   vp.MaxDist(),
			Center:    vp.Center(),
			Policy:    policy,
		})
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", lc.Name, err)
		}
		s.Layers = append(s.Layers, &Layer{Name: lc.Name, Hidden: lc.Hidden, Stack: stack})
	}
	return s, nil
}

// Policy builds the drift strategy a layer is configured with.
func Policy(d config.Drift, src rings.Source) (rings.DriftPolicy, error) {
	switch d.Strategy {
	case config.DriftRigid:
		return rings.NewRigidDrift(d.MaxShiftAngle, d.Momentum, d.Impulse, src), nil
	case config.DriftJitter:
		return rings.NewJitterDrift(d.RootScale, d.JitterScale, d.Momentum, d.Impulse, src), nil
	case config.DriftStep:
		return rings.NewStepDrift(d.Initial, d.Momentum, src), nil
	case config.DriftConstant:
		return rings.ConstantDrift{Rotation: d.Rotation}, nil
	default:
		return nil, fmt.Errorf("unknown drift strategy %q", d.Strategy)
	}
}

func (s *Scene) Viewport() render.Viewport { return s.viewport }

// Lines returns the lines of every visible layer. The slice is reused by the
// next call.
func (s *Scene) Lines() []rings.Line {
	s.lines = s.lines[:0]
	for _, l := range s.Layers {
		if l.Hidden {
			continue
		}
		s.lines = l.Stack.DrawInto(s.lines)
	}
	return s.lines
}

// Advance moves every layer, hidden ones included, forward one tick.
func (s *Scene) Advance() {
	for _, l := range s.Layers {
		l.Stack.Update()
	}
}

// Draw strokes the visible lines onto a fresh frame of surface.
func (s *Scene) Draw(surface render.PathSurface) {
	surface.Clear()
	render.StrokeLines(surface, s.Lines())
}

// Upload maps the visible lines to clip space and hands them to surface.
// dst is reused as the vertex buffer and returned.
func (s *Scene) Upload(surface render.BufferSurface, dst []float32) []float32 {
	dst = dst[:0]
	for _, l := range s.Layers {
		if l.Hidden {
			continue
		}
		lines := l.Stack.DrawInto(s.lines[:0])
		dst = rings.Vertices(dst, lines, l.Stack.Center())
		s.lines = lines
	}
	surface.Upload(dst)
	return dst
}

// Snapshot renders the current frame to a PNG file at path.
func (s *Scene) Snapshot(path string, lineWidth float64, clr color.Color) error {
	canvas, err := render.NewCanvas(s.viewport, lineWidth, clr)
	if err != nil {
		return err
	}
	s.Draw(canvas)
	return canvas.SavePNG(path)
}

// Resize recenters every layer and stretches its radii to the new viewport.
func (s *Scene) Resize(vp render.Viewport) error {
	s.viewport = vp
	for _, l := range s.Layers {
		levels := len(l.Stack.Radii()) - 1
		if err := l.Stack.Resize(vp.Center(), rings.Radii(levels, vp.MaxDist())); err != nil {
			return fmt.Errorf("layer %s: %w", l.Name, err)
		}
	}
	return nil
}

// SetScale sets the impulse amplitude of every layer whose policy supports
// it.
func (s *Scene) SetScale(scale float64) {
	for _, l := range s.Layers {
		if sc, ok := l.Stack.Policy().(rings.Scaler); ok {
			sc.SetScale(scale)
		}
	}
}

// Tick is the number of frames the scene has advanced.
func (s *Scene) Tick() int {
	if len(s.Layers) == 0 {
		return 0
	}
	return s.Layers[0].Stack.Tick()
}
