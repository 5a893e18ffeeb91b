package rings

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLevelMismatch means the radius table does not have one more entry
	// than there are levels.
	ErrLevelMismatch = errors.New("rings: radii must have exactly one more entry than levels")
	// ErrEmpty means a stack was requested without levels or angles.
	ErrEmpty = errors.New("rings: stack needs at least one level and one angle")
	// ErrNoPolicy means a stack was requested without a drift policy.
	ErrNoPolicy = errors.New("rings: stack needs a drift policy")
)

// Stack is a fixed-size window of ring levels. Level 0 is the innermost and
// newest; every Update computes a new level 0 and drops the outermost one, so
// a rotation propagates outward one level per tick.
type Stack struct {
	levels [][]Shift
	radii  []float64
	center Point
	policy DriftPolicy
	tick   int
}

// NewStack wraps existing levels. All levels must have the same length.
func NewStack(levels [][]Shift, radii []float64, center Point, policy DriftPolicy) (*Stack, error) {
	if len(levels) == 0 || len(levels[0]) == 0 {
		return nil, ErrEmpty
	}
	if policy == nil {
		return nil, ErrNoPolicy
	}
	if len(radii) != len(levels)+1 {
		return nil, fmt.Errorf("%w: %d levels, %d radii", ErrLevelMismatch, len(levels), len(radii))
	}
	width := len(levels[0])
	for i, level := range levels {
		if len(level) != width {
			return nil, fmt.Errorf("rings: level %d has %d shifts, want %d", i, len(level), width)
		}
	}
	return &Stack{
		levels: levels,
		radii:  radii,
		center: center,
		policy: policy,
	}, nil
}

// BuildOptions describes a freshly seeded stack.
type BuildOptions struct {
	Rings  int
	Angles int
	// SeedShift is the angular offset between consecutive levels of the
	// initial history.
	SeedShift float64
	MaxDist   float64
	Center    Point
	Policy    DriftPolicy
}

// Build creates a stack whose initial levels spiral by SeedShift per level.
func Build(opts BuildOptions) (*Stack, error) {
	if opts.Rings <= 0 || opts.Angles <= 0 {
		return nil, ErrEmpty
	}
	curr := Angles(opts.Angles)
	levels := make([][]Shift, opts.Rings)
	for i := range levels {
		next := make([]float64, len(curr))
		for j, a := range curr {
			next[j] = math.Mod(a+opts.SeedShift, twoPi)
		}
		level := make([]Shift, len(curr))
		for j := range level {
			level[j] = Shift{Angle: curr[j], ParentAngle: next[j]}
		}
		levels[i] = level
		curr = next
	}
	return NewStack(levels, Radii(opts.Rings, opts.MaxDist), opts.Center, opts.Policy)
}

// Draw returns one line per shift, levels in storage order.
func (s *Stack) Draw() []Line {
	return s.DrawInto(make([]Line, 0, s.Size()))
}

// DrawInto appends the stack's lines to dst.
func (s *Stack) DrawInto(dst []Line) []Line {
	for i, level := range s.levels {
		radius, parent := s.radii[i], s.radii[i+1]
		for _, shift := range level {
			dst = append(dst, shift.LineSegment(s.center, radius, parent))
		}
	}
	return dst
}

// Update advances the stack by one tick.
func (s *Stack) Update() {
	first := s.levels[0]
	curr := make([]float64, len(first))
	for j, shift := range first {
		curr[j] = shift.Angle
	}
	next := s.policy.NextAngles(curr, s.tick)

	level := make([]Shift, len(curr))
	for j := range level {
		level[j] = Shift{Angle: next[j], ParentAngle: curr[j]}
	}

	last := len(s.levels) - 1
	copy(s.levels[1:], s.levels[:last])
	s.levels[0] = level
	s.tick++
}

// Resize moves the stack to a new center and radius table, keeping its
// angular history.
func (s *Stack) Resize(center Point, radii []float64) error {
	if len(radii) != len(s.levels)+1 {
		return fmt.Errorf("%w: %d levels, %d radii", ErrLevelMismatch, len(s.levels), len(radii))
	}
	s.center = center
	s.radii = radii
	return nil
}

// Size is the number of lines Draw returns.
func (s *Stack) Size() int {
	n := 0
	for _, level := range s.levels {
		n += len(level)
	}
	return n
}

// Levels returns a deep copy of the levels.
func (s *Stack) Levels() [][]Shift {
	out := make([][]Shift, len(s.levels))
	for i, level := range s.levels {
		out[i] = append([]Shift(nil), level...)
	}
	return out
}

func (s *Stack) Radii() []float64 { return append([]float64(nil), s.radii...) }

func (s *Stack) Center() Point { return s.center }

func (s *Stack) Tick() int { return s.tick }

func (s *Stack) Policy() DriftPolicy { return s.policy }
