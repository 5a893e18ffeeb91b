package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Frame pacing
	TargetFPS = 35

	// Rigid drift parameters
	MaxShiftAngle = 2.15
	Momentum      = 50
	Impulse       = 26

	// Jitter drift parameters
	JitterRootScale = 0.7
	JitterScale     = 0.003
	JitterMomentum  = 15
	JitterImpulse   = 7

	// Step drift parameters
	StepInitial  = 0.1
	StepMomentum = 15

	SeedShift = 0.1
	LineWidth = 1

	ColorShiftSpeed = 0.01
)

// Surfaces accepted by Config.Surface.
const (
	SurfacePath     = "path"
	SurfaceBuffer   = "buffer"
	SurfaceTerminal = "terminal"
)

// Drift strategies accepted by Layer.Drift.Strategy.
const (
	DriftRigid    = "rigid"
	DriftJitter   = "jitter"
	DriftStep     = "step"
	DriftConstant = "constant"
)

var ErrInvalid = errors.New("invalid config")

// Config describes a whole scene.
type Config struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	FPS     float64 `yaml:"fps"`
	Seed    string  `yaml:"seed"`
	Surface string  `yaml:"surface"`

	LineWidth float64 `yaml:"line_width"`
	LineColor Color   `yaml:"line_color"`
	// HueCycle tints lines with a slowly rotating hue instead of LineColor.
	HueCycle bool `yaml:"hue_cycle"`

	Audio     string  `yaml:"audio"`
	AudioGain float64 `yaml:"audio_gain"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Layers []Layer `yaml:"layers"`
}

type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Layer is one ring stack drawn over the same center.
type Layer struct {
	Name      string  `yaml:"name"`
	Rings     int     `yaml:"rings"`
	Angles    int     `yaml:"angles"`
	SeedShift float64 `yaml:"seed_shift"`
	// Hidden layers still advance every frame but are not drawn.
	Hidden bool  `yaml:"hidden"`
	Drift  Drift `yaml:"drift"`
}

type Drift struct {
	Strategy      string  `yaml:"strategy"`
	MaxShiftAngle float64 `yaml:"max_shift_angle"`
	Momentum      int     `yaml:"momentum"`
	Impulse       int     `yaml:"impulse"`
	RootScale     float64 `yaml:"root_scale"`
	JitterScale   float64 `yaml:"jitter_scale"`
	Initial       float64 `yaml:"initial"`
	Rotation      float64 `yaml:"rotation"`
}

// Default returns the scene of the WebGL sketch: a coarse single-spoke layer
// on screen and a dense hidden layer advancing alongside it.
func Default() *Config {
	return &Config{
		Width:     WindowWidth,
		Height:    WindowHeight,
		FPS:       TargetFPS,
		Surface:   SurfaceBuffer,
		LineWidth: LineWidth,
		LineColor: Color{R: 255, G: 255, B: 255},
		AudioGain: 1,
		LogLevel:  "info",
		Layers: []Layer{
			{Name: "spoke", Rings: 20, Angles: 1, SeedShift: SeedShift, Drift: DefaultDrift(DriftRigid)},
			{Name: "lattice", Rings: 200, Angles: 18, SeedShift: SeedShift, Hidden: true, Drift: DefaultDrift(DriftRigid)},
		},
	}
}

// DefaultDrift returns the stock parameters of a strategy.
func DefaultDrift(strategy string) Drift {
	switch strategy {
	case DriftJitter:
		return Drift{Strategy: strategy, RootScale: JitterRootScale, JitterScale: JitterScale, Momentum: JitterMomentum, Impulse: JitterImpulse}
	case DriftStep:
		return Drift{Strategy: strategy, Initial: StepInitial, Momentum: StepMomentum}
	case DriftConstant:
		return Drift{Strategy: strategy}
	default:
		return Drift{Strategy: DriftRigid, MaxShiftAngle: MaxShiftAngle, Momentum: Momentum, Impulse: Impulse}
	}
}

// Load reads a YAML scene file over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected. A
// layer without a drift block gets the rigid defaults.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for i := range c.Layers {
		if c.Layers[i].Drift.Strategy == "" {
			c.Layers[i].Drift = DefaultDrift(DriftRigid)
		}
	}
	return c, nil
}

// driftKeys are the keys a drift block may carry.
var driftKeys = func() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(Drift{})
	for i := 0; i < t.NumField(); i++ {
		keys[strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]] = true
	}
	return keys
}()

// UnmarshalYAML lays the block over the defaults of the strategy it names,
// so keys left out keep those defaults and explicit zeros stay zero.
func (d *Drift) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !driftKeys[key.Value] {
				return fmt.Errorf("line %d: field %s not found in drift", key.Line, key.Value)
			}
		}
	}
	var head struct {
		Strategy string `yaml:"strategy"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	*d = DefaultDrift(head.Strategy)

	type plain Drift
	return value.Decode((*plain)(d))
}

// Validate reports the first problem that would break the animation.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %v", ErrInvalid, c.FPS)
	}
	switch c.Surface {
	case SurfacePath, SurfaceBuffer, SurfaceTerminal:
	default:
		return fmt.Errorf("%w: unknown surface %q", ErrInvalid, c.Surface)
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalid)
	}
	for i, l := range c.Layers {
		if err := l.validate(); err != nil {
			return fmt.Errorf("%w: layer %d (%s): %v", ErrInvalid, i, l.Name, err)
		}
	}
	return nil
}

func (l Layer) validate() error {
	if l.Rings < 1 {
		return fmt.Errorf("rings %d < 1", l.Rings)
	}
	if l.Angles < 1 {
		return fmt.Errorf("angles %d < 1", l.Angles)
	}
	d := l.Drift
	switch d.Strategy {
	case DriftRigid, DriftJitter:
		if d.Momentum < 1 || d.Impulse < 1 {
			return fmt.Errorf("momentum %d and impulse %d must be positive", d.Momentum, d.Impulse)
		}
		if d.Impulse >= d.Momentum {
			return fmt.Errorf("impulse %d must be shorter than momentum %d", d.Impulse, d.Momentum)
		}
	case DriftStep:
		if d.Momentum < 1 {
			return fmt.Errorf("momentum %d must be positive", d.Momentum)
		}
	case DriftConstant:
	default:
		return fmt.Errorf("unknown drift strategy %q", d.Strategy)
	}
	return nil
}

// SeedValue hashes Seed into a PRNG seed. ok is false when no seed is set.
func (c *Config) SeedValue() (seed uint64, ok bool) {
	if c.Seed == "" {
		return 0, false
	}
	return xxhash.Sum64String(c.Seed), true
}
