package rings

import "math"

const twoPi = 2 * math.Pi

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// DriftPolicy turns the current level-0 angles into the next level's angles.
// Policies may keep state between calls; tick increases by one per call.
type DriftPolicy interface {
	NextAngles(current []float64, tick int) []float64
}

// Scaler is implemented by policies whose impulse amplitude can be modulated
// while running.
type Scaler interface {
	SetScale(scale float64)
}

// rotate subtracts rotation from every angle. math.Mod keeps the sign of the
// dividend, so angles may go negative when the rotation is positive.
func rotate(current []float64, rotation func(i int) float64) []float64 {
	next := make([]float64, len(current))
	for i, a := range current {
		next[i] = math.Mod(a-rotation(i), twoPi)
	}
	return next
}

// DriftState is the rotation bookkeeping of a momentum cycle.
type DriftState struct {
	// Rotation is the rotation applied on the latest tick.
	Rotation float64
	// Target is the rotation sampled at the start of the current cycle.
	Target float64
	// Origin is the rotation reached when the current cycle started.
	Origin float64
}

// RigidDrift rotates every angle by the same amount. Each momentum cycle
// samples a new target and eases linearly toward it over the first Impulse
// ticks, then holds the last interpolated rotation until the cycle ends.
type RigidDrift struct {
	MaxShiftAngle float64
	Momentum      int
	Impulse       int
	Rand          Source

	scale float64
	state DriftState
}

// NewRigidDrift returns a rigid policy with unit amplitude scale.
func NewRigidDrift(maxShift float64, momentum, impulse int, src Source) *RigidDrift {
	return &RigidDrift{
		MaxShiftAngle: maxShift,
		Momentum:      momentum,
		Impulse:       impulse,
		Rand:          src,
		scale:         1,
	}
}

func (d *RigidDrift) NextAngles(current []float64, tick int) []float64 {
	cycle := tick % d.Momentum
	if cycle == 0 {
		d.state.Target = d.MaxShiftAngle * d.scale * (d.Rand.Float64() - 0.5)
		d.state.Origin = d.state.Rotation
	}
	if cycle <= d.Impulse {
		diff := d.state.Target - d.state.Origin
		d.state.Rotation = d.state.Origin + (float64(cycle) * diff / float64(d.Impulse))
	}
	rotation := d.state.Rotation
	return rotate(current, func(int) float64 { return rotation })
}

func (d *RigidDrift) SetScale(scale float64) { d.scale = scale }

// State returns a copy of the cycle bookkeeping.
func (d *RigidDrift) State() DriftState { return d.state }

// JitterDrift gives every angle its own target, a shared root rotation plus a
// small per-angle offset, so segments of a ring desynchronize slightly. Each
// cycle eases from zero to the targets over Impulse ticks.
type JitterDrift struct {
	RootScale   float64
	JitterScale float64
	Momentum    int
	Impulse     int
	Rand        Source

	targets   []float64
	rotations []float64
}

func NewJitterDrift(rootScale, jitterScale float64, momentum, impulse int, src Source) *JitterDrift {
	return &JitterDrift{
		RootScale:   rootScale,
		JitterScale: jitterScale,
		Momentum:    momentum,
		Impulse:     impulse,
		Rand:        src,
	}
}

func (d *JitterDrift) NextAngles(current []float64, tick int) []float64 {
	cycle := tick % d.Momentum
	if cycle == 0 || len(d.targets) != len(current) {
		root := d.RootScale * (d.Rand.Float64() - 0.5)
		d.targets = make([]float64, len(current))
		for i := range d.targets {
			d.targets[i] = root + d.JitterScale*(d.Rand.Float64()-0.5)
		}
		if len(d.rotations) != len(current) {
			d.rotations = make([]float64, len(current))
		}
	}
	if cycle <= d.Impulse {
		for i, t := range d.targets {
			d.rotations[i] = t * float64(cycle) / float64(d.Impulse)
		}
	}
	return rotate(current, func(i int) float64 { return d.rotations[i] })
}

// Rotations returns a copy of the per-angle rotations of the latest tick.
func (d *JitterDrift) Rotations() []float64 {
	return append([]float64(nil), d.rotations...)
}

// StepDrift jumps to a new random rotation at the start of every momentum
// cycle and applies it unchanged until the next one.
type StepDrift struct {
	Momentum int
	Rand     Source

	scale    float64
	rotation float64
}

func NewStepDrift(initial float64, momentum int, src Source) *StepDrift {
	return &StepDrift{Momentum: momentum, Rand: src, scale: 1, rotation: initial}
}

func (d *StepDrift) NextAngles(current []float64, tick int) []float64 {
	if tick%d.Momentum == 0 {
		d.rotation = d.scale * (d.Rand.Float64() - 0.5)
	}
	rotation := d.rotation
	return rotate(current, func(int) float64 { return rotation })
}

func (d *StepDrift) SetScale(scale float64) { d.scale = scale }

// Rotation returns the rotation currently applied.
func (d *StepDrift) Rotation() float64 { return d.rotation }

// ConstantDrift applies the same rotation every tick.
type ConstantDrift struct {
	Rotation float64
}

func (d ConstantDrift) NextAngles(current []float64, _ int) []float64 {
	return rotate(current, func(int) float64 { return d.Rotation })
}
