package rings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seq replays fixed uniform samples, repeating the last one when exhausted.
type seq struct {
	vals []float64
	n    int
}

func (s *seq) Float64() float64 {
	v := s.vals[min(s.n, len(s.vals)-1)]
	s.n++
	return v
}

func TestRigidDrift_CycleStartSamplesTarget(t *testing.T) {
	d := NewRigidDrift(2, 10, 4, &seq{vals: []float64{1.0}})

	d.NextAngles([]float64{0}, 0)

	st := d.State()
	assert.InDelta(t, 1.0, st.Target, 1e-12)
	assert.Equal(t, 0.0, st.Origin)
	assert.Equal(t, 0.0, st.Rotation)
}

func TestRigidDrift_InterpolatesThenHolds(t *testing.T) {
	src := &seq{vals: []float64{0.75}}
	d := NewRigidDrift(2, 10, 4, src)
	// target = 2 * (0.75 - 0.5) = 0.5

	var rotations []float64
	for tick := 0; tick < 10; tick++ {
		d.NextAngles([]float64{0}, tick)
		rotations = append(rotations, d.State().Rotation)
	}

	for cycle := 0; cycle <= 4; cycle++ {
		assert.InDelta(t, float64(cycle)*0.5/4, rotations[cycle], 1e-12, "cycle %d", cycle)
	}
	assert.InDelta(t, 0.5, rotations[4], 1e-12)
	for cycle := 5; cycle < 10; cycle++ {
		assert.Equal(t, rotations[4], rotations[cycle], "cycle %d", cycle)
	}
	assert.Equal(t, 1, src.n, "only one sample per cycle")
}

func TestRigidDrift_NextCycleStartsFromHeldRotation(t *testing.T) {
	src := &seq{vals: []float64{0.75, 0.25}}
	d := NewRigidDrift(2, 6, 3, src)

	for tick := 0; tick < 6; tick++ {
		d.NextAngles([]float64{0}, tick)
	}
	held := d.State().Rotation

	d.NextAngles([]float64{0}, 6)
	st := d.State()
	assert.Equal(t, held, st.Origin)
	assert.InDelta(t, -0.5, st.Target, 1e-12)
	assert.Equal(t, held, st.Rotation, "cycle 0 keeps the origin rotation")

	d.NextAngles([]float64{0}, 9)
	assert.InDelta(t, -0.5, d.State().Rotation, 1e-12)
}

func TestRigidDrift_AppliesRotation(t *testing.T) {
	d := NewRigidDrift(2, 4, 1, &seq{vals: []float64{1.0}})
	current := []float64{0.5, 1.5, 3}

	d.NextAngles(current, 0)
	next := d.NextAngles(current, 1)

	for i, a := range current {
		assert.InDelta(t, math.Mod(a-1.0, 2*math.Pi), next[i], 1e-12)
	}
}

func TestRigidDrift_KeepsNegativeRemainders(t *testing.T) {
	d := NewRigidDrift(2, 4, 1, &seq{vals: []float64{1.0}})

	d.NextAngles([]float64{0.2}, 0)
	next := d.NextAngles([]float64{0.2}, 1)

	require.Len(t, next, 1)
	assert.InDelta(t, -0.8, next[0], 1e-12)
}

func TestRigidDrift_Scale(t *testing.T) {
	d := NewRigidDrift(2, 4, 2, &seq{vals: []float64{1.0}})
	var s Scaler = d
	s.SetScale(0.5)

	d.NextAngles([]float64{0}, 0)

	assert.InDelta(t, 0.5, d.State().Target, 1e-12)
}

func TestJitterDrift_PerAngleTargets(t *testing.T) {
	// root = 1 * (1.0 - 0.5); jitters use 0.0 and 1.0
	src := &seq{vals: []float64{1.0, 0.0, 1.0}}
	d := NewJitterDrift(1, 0.2, 10, 2, src)
	current := []float64{1, 2}

	d.NextAngles(current, 0)
	assert.Equal(t, []float64{0, 0}, d.Rotations(), "cycle 0 eases from zero")

	d.NextAngles(current, 1)
	rot := d.Rotations()
	assert.InDelta(t, 0.2, rot[0], 1e-12)
	assert.InDelta(t, 0.3, rot[1], 1e-12)

	next := d.NextAngles(current, 2)
	assert.InDelta(t, 1-0.4, next[0], 1e-12)
	assert.InDelta(t, 2-0.6, next[1], 1e-12)

	held := d.NextAngles(current, 7)
	assert.Equal(t, next, held)
}

func TestJitterDrift_ResamplesWhenCountChanges(t *testing.T) {
	d := NewJitterDrift(1, 0, 10, 2, &seq{vals: []float64{1.0}})

	d.NextAngles([]float64{0}, 0)
	next := d.NextAngles([]float64{0, 0, 0}, 1)

	assert.Len(t, next, 3)
	assert.Len(t, d.Rotations(), 3)
}

func TestStepDrift(t *testing.T) {
	src := &seq{vals: []float64{0.9, 0.1}}
	d := NewStepDrift(0.1, 3, src)
	assert.Equal(t, 0.1, d.Rotation())

	d.NextAngles([]float64{0}, 0)
	assert.InDelta(t, 0.4, d.Rotation(), 1e-12)

	d.NextAngles([]float64{0}, 1)
	d.NextAngles([]float64{0}, 2)
	assert.InDelta(t, 0.4, d.Rotation(), 1e-12)

	d.NextAngles([]float64{0}, 3)
	assert.InDelta(t, -0.4, d.Rotation(), 1e-12)
}

func TestConstantDrift(t *testing.T) {
	d := ConstantDrift{Rotation: math.Pi / 2}
	next := d.NextAngles([]float64{math.Pi, 0}, 42)
	assert.InDelta(t, math.Pi/2, next[0], 1e-12)
	assert.InDelta(t, -math.Pi/2, next[1], 1e-12)
}
