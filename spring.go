package driftscape

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Integrator selects how a Spring advances.
type Integrator uint8

const (
	// IntegratorEuler is semi-implicit Euler on a unit mass:
	//
	//	a = Stiffness*(Target-Current) - Damping*Velocity
	//	Velocity += a*dt
	//	Current  += Velocity*dt
	IntegratorEuler Integrator = iota
	// IntegratorAnalytic uses the closed-form damped harmonic oscillator
	// from harmonica with ω = √Stiffness and ζ = Damping/(2√Stiffness).
	IntegratorAnalytic
)

const (
	defaultStiffness = 170
	defaultDamping   = 26
	defaultRestDelta = 0.001

	// maxSpringStep bounds a single Euler sub-step. Larger frame deltas are
	// split so stiff springs stay stable.
	maxSpringStep = 1.0 / 120
	// maxSpringSubsteps caps the work a single Step call may do. A delta
	// that would need more is truncated.
	maxSpringSubsteps = 64
)

// SpringConfig holds the tunable parameters of a Spring. Zero fields take the
// defaults (stiffness 170, damping 26, rest delta 0.001), which are
// critically damped-ish and settle in well under a second.
type SpringConfig struct {
	Stiffness  float64
	Damping    float64
	RestDelta  float64
	Integrator Integrator
}

// CriticalDamping returns the damping coefficient that critically damps a
// unit-mass spring of the given stiffness.
func CriticalDamping(stiffness float64) float64 {
	if !(stiffness > 0) {
		return 0
	}
	return 2 * math.Sqrt(stiffness)
}

func (c SpringConfig) withDefaults() SpringConfig {
	if !(c.Stiffness > 0) || !isFinite(c.Stiffness) {
		c.Stiffness = defaultStiffness
	}
	// An undamped spring never settles, so zero damping also takes the default.
	if !(c.Damping > 0) || !isFinite(c.Damping) {
		c.Damping = defaultDamping
	}
	if !(c.RestDelta > 0) || !isFinite(c.RestDelta) {
		c.RestDelta = defaultRestDelta
	}
	return c
}

// Spring smooths a target signal by damped integration. The zero value is
// not usable; create springs with NewSpring.
type Spring struct {
	Target    float64
	Current   float64
	Velocity  float64
	Stiffness float64
	Damping   float64
	RestDelta float64

	integrator Integrator
	settled    bool

	// analytic coefficients are cached per dt; frame deltas are usually
	// identical tick to tick.
	analytic   harmonica.Spring
	analyticDt float64

	// resets counts self-heals after a non-finite step.
	resets int
}

// NewSpring creates a spring at rest on initial.
func NewSpring(initial float64, cfg SpringConfig) *Spring {
	cfg = cfg.withDefaults()
	if !isFinite(initial) {
		initial = 0
	}
	return &Spring{
		Target:     initial,
		Current:    initial,
		Stiffness:  cfg.Stiffness,
		Damping:    cfg.Damping,
		RestDelta:  cfg.RestDelta,
		integrator: cfg.Integrator,
		settled:    true,
	}
}

// SetTarget moves the equilibrium. A changed target wakes a settled spring.
// Non-finite targets are ignored.
func (s *Spring) SetTarget(target float64) {
	if !isFinite(target) || target == s.Target {
		return
	}
	s.Target = target
	s.settled = false
}

// Snap jumps straight to value with zero velocity.
func (s *Spring) Snap(value float64) {
	if !isFinite(value) {
		return
	}
	s.Target = value
	s.Current = value
	s.Velocity = 0
	s.settled = true
}

// Settled reports whether the spring is at rest on its target.
func (s *Spring) Settled() bool {
	return s.settled
}

// Resets returns how many times the spring recovered from a non-finite state.
func (s *Spring) Resets() int {
	return s.resets
}

// Step advances the spring by dt seconds and returns the new current value.
// A settled spring is not integrated unless its fields were moved off rest
// directly. If integration produces NaN or ±Inf the spring snaps to its
// target and Step reports healed=true.
func (s *Spring) Step(dt float64) (current float64, healed bool) {
	if !(dt > 0) {
		return s.Current, false
	}
	if s.settled {
		if !isFinite(s.Target) {
			s.Target = s.Current
		}
		if s.Current == s.Target && s.Velocity == 0 {
			return s.Current, false
		}
		s.settled = false
	}
	if !isFinite(dt) {
		s.heal()
		return s.Current, true
	}

	switch s.integrator {
	case IntegratorAnalytic:
		s.stepAnalytic(dt)
	default:
		s.stepEuler(dt)
	}

	if !isFinite(s.Current) || !isFinite(s.Velocity) {
		s.heal()
		return s.Current, true
	}

	if math.Abs(s.Current-s.Target) < s.RestDelta && math.Abs(s.Velocity) < s.RestDelta {
		s.Current = s.Target
		s.Velocity = 0
		s.settled = true
	}
	return s.Current, false
}

func (s *Spring) heal() {
	s.Current = s.Target
	s.Velocity = 0
	s.settled = true
	s.resets++
}

// stepEuler integrates with sub-steps no longer than the stability bound of
// the configured stiffness and damping.
func (s *Spring) stepEuler(dt float64) {
	h := maxSpringStep
	if s.Damping > 0 {
		h = math.Min(h, 1/s.Damping)
	}
	if s.Stiffness > 0 {
		h = math.Min(h, 1/math.Sqrt(s.Stiffness))
	}
	n := int(math.Ceil(dt / h))
	if n < 1 {
		n = 1
	}
	if n > maxSpringSubsteps {
		n = maxSpringSubsteps
		dt = h * float64(n)
	}
	step := dt / float64(n)
	for i := 0; i < n; i++ {
		a := s.Stiffness*(s.Target-s.Current) - s.Damping*s.Velocity
		s.Velocity += a * step
		s.Current += s.Velocity * step
	}
}

func (s *Spring) stepAnalytic(dt float64) {
	if dt != s.analyticDt {
		omega := math.Sqrt(s.Stiffness)
		zeta := 0.0
		if omega > 0 {
			zeta = s.Damping / (2 * omega)
		}
		s.analytic = harmonica.NewSpring(dt, omega, zeta)
		s.analyticDt = dt
	}
	s.Current, s.Velocity = s.analytic.Update(s.Current, s.Velocity, s.Target)
}
