package driftscape

import "math"

// Oscillator produces a bounded sinusoidal offset:
//
//	offset(t) = Amplitude * sin(Frequency*t + Phase)
//
// Frequency is angular (radians per second). A negative or non-finite
// Amplitude, or a zero or non-finite Frequency, yields a flat zero offset.
type Oscillator struct {
	Amplitude float64
	Frequency float64
	Phase     float64
}

// Offset returns the oscillator's value at elapsed time t (seconds). The
// result is always within [-Amplitude, Amplitude].
func (o Oscillator) Offset(t float64) float64 {
	if !o.active() || !isFinite(t) {
		return 0
	}
	v := o.Amplitude * math.Sin(o.Frequency*t+o.Phase)
	// sin is bounded but guard against rounding past the amplitude.
	return math.Max(-o.Amplitude, math.Min(o.Amplitude, v))
}

func (o Oscillator) active() bool {
	return o.Amplitude > 0 && isFinite(o.Amplitude) &&
		o.Frequency != 0 && isFinite(o.Frequency) && isFinite(o.Phase)
}

// Float applies an independent oscillator to each axis. Axes with distinct
// frequencies never re-synchronize, which keeps neighbouring entities from
// bobbing in lockstep.
type Float [3]Oscillator

// Offset returns the per-axis offsets at elapsed time t.
func (f Float) Offset(t float64) Vec3 {
	return Vec3{f[0].Offset(t), f[1].Offset(t), f[2].Offset(t)}
}

// Spin accumulates rotation at a constant rate per axis (radians per second).
// The accumulated angle wraps into [0, 2π) every step so long sessions never
// lose precision.
type Spin struct {
	Rate  Vec3
	angle Vec3
}

// Advance adds Rate*dt to the accumulated angle, wrapping each axis.
// Non-finite rates or deltas leave that axis untouched.
func (s *Spin) Advance(dt float64) {
	if !(dt > 0) || !isFinite(dt) {
		return
	}
	for i := 0; i < 3; i++ {
		r := s.Rate[i]
		if r == 0 || !isFinite(r) {
			continue
		}
		s.angle[i] = wrapAngle(s.angle[i] + r*dt)
	}
}

// Angle returns the current accumulated rotation.
func (s *Spin) Angle() Vec3 {
	return s.angle
}

// Reset sets the accumulated rotation back to zero.
func (s *Spin) Reset() {
	s.angle = Vec3{}
}

// Turn is a rotation derived from elapsed time alone: angle(t) = Rate*t mod 2π.
// Unlike Spin it carries no state and can be replayed from any t.
type Turn struct {
	Rate Vec3
}

// Angle returns the rotation at elapsed time t.
func (r Turn) Angle(t float64) Vec3 {
	var out Vec3
	if !isFinite(t) {
		return out
	}
	for i := 0; i < 3; i++ {
		if r.Rate[i] == 0 || !isFinite(r.Rate[i]) {
			continue
		}
		out[i] = wrapAngle(r.Rate[i] * t)
	}
	return out
}

// MotionProfile holds the per-entity procedural motion parameters. It is
// copied into the entity at creation and never changes afterwards; only the
// Spin accumulator inside the entity record advances.
type MotionProfile struct {
	// Float is added to the entity's base position.
	Float Float
	// Spin accumulates rotation from frame deltas.
	Spin Vec3
	// Turn derives rotation from elapsed time.
	Turn Vec3
}

// IsZero reports whether the profile produces no motion at all.
func (m MotionProfile) IsZero() bool {
	return m == MotionProfile{}
}

// motionState is the per-entity mutable part of motion: the spin accumulator.
type motionState struct {
	spin Spin
}

// sample computes the position and rotation deltas for elapsed time t after
// advancing the spin accumulator by dt.
func (m *MotionProfile) sample(st *motionState, t, dt float64) (pos, rot Vec3) {
	st.spin.Rate = m.Spin
	st.spin.Advance(dt)
	pos = m.Float.Offset(t)
	turn := Turn{Rate: m.Turn}.Angle(t)
	spin := st.spin.Angle()
	for i := 0; i < 3; i++ {
		rot[i] = wrapAngle(turn[i] + spin[i])
	}
	return pos, rot
}
