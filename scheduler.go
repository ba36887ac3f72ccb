package driftscape

import (
	"context"
	"sync"
	"time"
)

// defaultMaxDelta bounds a single tick's Δt so a stalled tab or a debugger
// pause does not hand the springs one enormous step.
const defaultMaxDelta = 250 * time.Millisecond

// Clock is a monotonic time source. Now returns the time elapsed since an
// arbitrary fixed epoch and never decreases.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock reads the process monotonic clock.
type MonotonicClock struct {
	epoch time.Time
}

// NewMonotonicClock creates a clock whose epoch is the current instant.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{epoch: time.Now()}
}

// Now returns the time since the clock was created.
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// ManualClock is a controllable clock for tests and scripted replays.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Duration
}

// NewManualClock creates a clock reading start.
func NewManualClock(start time.Duration) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// Set moves the clock to t. Moving backwards is ignored so the clock stays monotonic.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}

// TickInfo is the instant every stage of one tick observes.
type TickInfo struct {
	Frame   uint64
	Elapsed float64 // seconds since the scheduler started
	Delta   float64 // seconds since the previous tick, clamped to MaxDelta
}

// Stage names, in the order the scene registers them.
const (
	StageMotion    = "motion"
	StageScroll    = "scroll"
	StageSprings   = "springs"
	StageViewport  = "viewport"
	StageParticles = "particles"
	StageAssemble  = "assemble"
	StagePresent   = "present"
)

// Stage is one step of the per-tick pipeline.
type Stage struct {
	Name string
	Run  func(TickInfo) error
}

// StageTiming is how long one stage took on the last timed tick.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Scheduler samples the clock once per tick and runs its stages in
// registration order with that single sample.
type Scheduler struct {
	clock    Clock
	stages   []Stage
	maxDelta time.Duration

	start   time.Duration
	last    time.Duration
	frame   uint64
	started bool

	timed   bool
	timings []StageTiming
}

// NewScheduler creates a scheduler starting now on clock. A nil clock uses a
// MonotonicClock; a non-positive maxDelta uses 250ms.
func NewScheduler(clock Clock, maxDelta time.Duration) *Scheduler {
	if clock == nil {
		clock = NewMonotonicClock()
	}
	if maxDelta <= 0 {
		maxDelta = defaultMaxDelta
	}
	now := clock.Now()
	return &Scheduler{clock: clock, maxDelta: maxDelta, start: now, last: now}
}

// AddStage appends a stage to the pipeline.
func (s *Scheduler) AddStage(name string, run func(TickInfo) error) {
	s.stages = append(s.stages, Stage{Name: name, Run: run})
}

// Stages returns the registered stage names in run order.
func (s *Scheduler) Stages() []string {
	out := make([]string, len(s.stages))
	for i, st := range s.stages {
		out[i] = st.Name
	}
	return out
}

// SetTimed enables per-stage timing, read back with Timings.
func (s *Scheduler) SetTimed(enabled bool) {
	s.timed = enabled
}

// Timings returns the per-stage durations of the last timed tick. The slice
// is reused by the next tick.
func (s *Scheduler) Timings() []StageTiming {
	return s.timings
}

// Frame returns the number of ticks run so far.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// sample reads the clock exactly once and derives the tick instant. The
// first tick has Δt = 0.
func (s *Scheduler) sample() TickInfo {
	now := s.clock.Now()
	var dt time.Duration
	if s.started {
		dt = now - s.last
	}
	s.started = true
	if dt < 0 {
		dt = 0
	}
	if dt > s.maxDelta {
		dt = s.maxDelta
	}
	if now > s.last {
		s.last = now
	}
	s.frame++
	return TickInfo{
		Frame:   s.frame,
		Elapsed: (now - s.start).Seconds(),
		Delta:   dt.Seconds(),
	}
}

// Tick samples the clock and runs every stage in order. A failing stage
// stops the tick and its error is returned; later stages do not run.
func (s *Scheduler) Tick() (TickInfo, error) {
	info := s.sample()
	s.timings = s.timings[:0]
	for _, st := range s.stages {
		var t0 time.Time
		if s.timed {
			t0 = time.Now()
		}
		err := st.Run(info)
		if s.timed {
			s.timings = append(s.timings, StageTiming{Name: st.Name, Duration: time.Since(t0)})
		}
		if err != nil {
			return info, err
		}
	}
	return info, nil
}

// FrameSource is the host's frame-callback primitive. Register arranges for
// tick to be called once per displayed frame until cancel is called. Calls
// to tick never overlap.
type FrameSource interface {
	Register(tick func()) (cancel func(), err error)
}

// TickerSource drives frames from a time.Ticker, for headless hosts and
// servers. The zero value ticks at 60 FPS.
type TickerSource struct {
	FPS int
}

// Register starts the ticker goroutine.
func (ts TickerSource) Register(tick func()) (func(), error) {
	fps := ts.FPS
	if fps <= 0 {
		fps = 60
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				tick()
			}
		}
	}()
	return cancel, nil
}

// ManualFrames is a FrameSource stepped by hand, for tests and scripted replays.
type ManualFrames struct {
	mu   sync.Mutex
	tick func()
}

// Register stores tick. Registering twice replaces the previous callback.
func (m *ManualFrames) Register(tick func()) (func(), error) {
	m.mu.Lock()
	m.tick = tick
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.tick = nil
		m.mu.Unlock()
	}, nil
}

// Registered reports whether a callback is currently registered.
func (m *ManualFrames) Registered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick != nil
}

// Step delivers n frames. It reports false once nothing is registered.
func (m *ManualFrames) Step(n int) bool {
	for i := 0; i < n; i++ {
		m.mu.Lock()
		tick := m.tick
		m.mu.Unlock()
		if tick == nil {
			return false
		}
		tick()
	}
	return true
}
