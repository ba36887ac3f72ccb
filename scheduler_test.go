package driftscape

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingClock counts reads so tests can assert one sample per tick.
type countingClock struct {
	*ManualClock
	reads int
}

func (c *countingClock) Now() time.Duration {
	c.reads++
	return c.ManualClock.Now()
}

func TestSchedulerStageOrderAndInstant(t *testing.T) {
	clock := &countingClock{ManualClock: NewManualClock(time.Second)}
	s := NewScheduler(clock, 0)
	clock.reads = 0

	var order []string
	var seen []TickInfo
	for _, name := range []string{StageMotion, StageScroll, StageSprings, StageAssemble} {
		name := name
		s.AddStage(name, func(ti TickInfo) error {
			order = append(order, name)
			seen = append(seen, ti)
			clock.Advance(5 * time.Millisecond) // stages must not observe this
			return nil
		})
	}

	clock.Advance(16 * time.Millisecond)
	info, err := s.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if clock.reads != 1 {
		t.Errorf("clock read %d times in one tick, want 1", clock.reads)
	}
	if joinNames(order) != "motion,scroll,springs,assemble" {
		t.Errorf("order = %v", order)
	}
	for i, ti := range seen {
		if ti != info {
			t.Errorf("stage %d saw %+v, tick was %+v", i, ti, info)
		}
	}
	if info.Frame != 1 || info.Delta != 0 {
		t.Errorf("first tick = %+v, want frame 1 with zero delta", info)
	}
	assertNear(t, "elapsed", info.Elapsed, 0.016)
	if got := s.Stages(); len(got) != 4 || got[0] != StageMotion {
		t.Errorf("Stages = %v", got)
	}
}

func TestSchedulerDeltaClamped(t *testing.T) {
	clock := NewManualClock(0)
	s := NewScheduler(clock, 100*time.Millisecond)
	s.Tick()

	clock.Advance(16 * time.Millisecond)
	info, _ := s.Tick()
	assertNear(t, "delta", info.Delta, 0.016)

	clock.Advance(5 * time.Second)
	info, _ = s.Tick()
	assertNear(t, "clamped delta", info.Delta, 0.1)
	assertNear(t, "elapsed", info.Elapsed, 5.016)
	if s.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", s.Frame())
	}
}

func TestSchedulerStopsAtFailingStage(t *testing.T) {
	s := NewScheduler(NewManualClock(0), 0)
	boom := errors.New("boom")
	ran := false
	s.AddStage("a", func(TickInfo) error { return boom })
	s.AddStage("b", func(TickInfo) error { ran = true; return nil })
	if _, err := s.Tick(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if ran {
		t.Error("stage after a failure ran")
	}
}

func TestSchedulerTimings(t *testing.T) {
	s := NewScheduler(NewManualClock(0), 0)
	s.AddStage("a", func(TickInfo) error { return nil })
	s.Tick()
	if len(s.Timings()) != 0 {
		t.Error("timings recorded while untimed")
	}
	s.SetTimed(true)
	s.Tick()
	if tm := s.Timings(); len(tm) != 1 || tm[0].Name != "a" {
		t.Errorf("Timings = %+v", tm)
	}
}

func TestManualClockMonotonic(t *testing.T) {
	c := NewManualClock(time.Second)
	c.Advance(-time.Second)
	c.Set(0)
	if c.Now() != time.Second {
		t.Errorf("Now = %v, clock went backwards", c.Now())
	}
	c.Set(3 * time.Second)
	if c.Now() != 3*time.Second {
		t.Errorf("Now = %v, want 3s", c.Now())
	}
}

func TestManualFrames(t *testing.T) {
	var m ManualFrames
	if m.Step(1) {
		t.Error("Step with nothing registered should report false")
	}
	n := 0
	cancel, err := m.Register(func() { n++ })
	if err != nil {
		t.Fatal(err)
	}
	m.Step(3)
	if n != 3 {
		t.Errorf("ticks = %d, want 3", n)
	}
	cancel()
	if m.Registered() || m.Step(1) {
		t.Error("still registered after cancel")
	}
}

func TestTickerSource(t *testing.T) {
	var n atomic.Int32
	cancel, err := TickerSource{FPS: 200}.Register(func() { n.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if n.Load() < 3 {
		t.Fatalf("ticker delivered %d frames", n.Load())
	}
	time.Sleep(20 * time.Millisecond)
	after := n.Load()
	time.Sleep(50 * time.Millisecond)
	if n.Load() != after {
		t.Error("ticks delivered after cancel")
	}
}
