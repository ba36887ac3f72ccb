package driftscape

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestRevealStartsHidden(t *testing.T) {
	var pose RevealPose
	g := newReveal(&pose, RevealConfig{Duration: 0.8, From: RevealPose{OffsetY: -0.5}})
	if pose != (RevealPose{Opacity: 0, OffsetY: -0.5, Scale: 1}) {
		t.Errorf("initial pose = %+v", pose)
	}
	g.Update(0.5)
	if pose.Opacity != 0 {
		t.Error("reveal moved before Start")
	}
}

func TestRevealRunsToRest(t *testing.T) {
	var pose RevealPose
	g := newReveal(&pose, RevealConfig{Duration: 0.8, From: RevealPose{OffsetY: -0.5}, Ease: ease.Linear})
	g.Start()
	g.Update(0.4)
	assertNear(t, "half opacity", pose.Opacity, 0.5)
	assertNear(t, "half offset", pose.OffsetY, -0.25)
	if g.Done {
		t.Error("done halfway")
	}
	g.Update(0.5)
	if !g.Done || pose != restPose {
		t.Errorf("after full duration pose = %+v done = %v", pose, g.Done)
	}
}

func TestRevealDelayCarriesOvershoot(t *testing.T) {
	var pose RevealPose
	cfg := RevealConfig{Duration: 1, Ease: ease.Linear}.Staggered(2, 0.1)
	g := newReveal(&pose, cfg)
	g.Start()
	g.Update(0.1)
	if pose.Opacity != 0 {
		t.Errorf("opacity %v during delay", pose.Opacity)
	}
	g.Update(0.35)
	if d := pose.Opacity - 0.25; d > 1e-6 || d < -1e-6 {
		t.Errorf("opacity = %v, want 0.25 after the delay overshoot", pose.Opacity)
	}
}

func TestRevealFinish(t *testing.T) {
	var pose RevealPose
	g := newReveal(&pose, RevealConfig{Duration: 3, Delay: 2, From: RevealPose{Scale: 0.5}})
	g.Finish()
	if !g.Done || !g.Started() || pose != restPose {
		t.Errorf("Finish left pose %+v done %v", pose, g.Done)
	}
}

func TestRevealZeroDuration(t *testing.T) {
	var pose RevealPose
	g := newReveal(&pose, RevealConfig{})
	g.Start()
	g.Update(1.0 / 60)
	if !g.Done || pose != restPose {
		t.Errorf("zero-duration reveal: pose %+v done %v", pose, g.Done)
	}
}

func TestLoopCycles(t *testing.T) {
	l := newLoop(LoopConfig{Channel: ChannelParallaxY, Keyframes: []float64{0, -0.2, 0}, Duration: 2, Ease: ease.Linear})
	if l == nil {
		t.Fatal("newLoop returned nil")
	}
	if v := l.update(0); v != 0 {
		t.Errorf("initial = %v", v)
	}
	v := l.update(0.5)
	if d := v + 0.1; d > 1e-6 || d < -1e-6 {
		t.Errorf("quarter cycle = %v, want -0.1", v)
	}
	l.update(0.5)
	l.update(1)
	v = l.update(0.5)
	if d := v + 0.1; d > 1e-5 || d < -1e-5 {
		t.Errorf("second cycle quarter = %v, want -0.1", v)
	}
}

func TestLoopDegenerate(t *testing.T) {
	if newLoop(LoopConfig{Keyframes: []float64{1}, Duration: 1}) != nil {
		t.Error("single keyframe should not loop")
	}
	if newLoop(LoopConfig{Keyframes: []float64{0, 1}}) != nil {
		t.Error("zero duration should not loop")
	}
}
