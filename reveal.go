package driftscape

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RevealPose is the offset an entity is revealed from. Opacity and Scale are
// multipliers, OffsetY is added to the position.
type RevealPose struct {
	Opacity float64
	OffsetY float64
	Scale   float64
}

// restPose is where every reveal ends.
var restPose = RevealPose{Opacity: 1, OffsetY: 0, Scale: 1}

// RevealConfig describes an entrance animation started when an entity's
// viewport trigger first reports Visible.
type RevealConfig struct {
	// Duration of the animation in seconds.
	Duration float32
	// Delay before the animation starts, in seconds.
	Delay float32
	// From is the pose held until the reveal starts. A zero Scale means 1.
	From RevealPose
	// Ease defaults to ease.OutCubic.
	Ease ease.TweenFunc
}

// Staggered returns a copy of cfg whose delay is extended by index*step,
// for sequencing a row of entities.
func (cfg RevealConfig) Staggered(index int, step float32) RevealConfig {
	cfg.Delay += float32(index) * step
	return cfg
}

// TweenGroup animates up to 4 float64 fields simultaneously. Call Update(dt)
// each frame after Start; the group writes eased values straight into the
// target fields.
//
// There is no global animation manager; the scene updates the groups it owns.
type TweenGroup struct {
	tweens  [4]*gween.Tween
	count   int
	fields  [4]*float64
	delay   float32
	started bool
	Done    bool
}

// Start arms the group. The delay counts down from the next Update.
// Starting an already started group is a no-op.
func (g *TweenGroup) Start() {
	g.started = true
}

// Started reports whether Start has been called.
func (g *TweenGroup) Started() bool {
	return g.started
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Nothing happens before Start or after Done.
func (g *TweenGroup) Update(dt float32) {
	if g.Done || !g.started || dt <= 0 {
		return
	}
	if g.delay > 0 {
		g.delay -= dt
		if g.delay > 0 {
			return
		}
		// carry the overshoot into the tween
		dt = -g.delay
		g.delay = 0
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Finish jumps every field to its end value.
func (g *TweenGroup) Finish() {
	g.started = true
	g.delay = 0
	for i := 0; i < g.count; i++ {
		val, _ := g.tweens[i].Set(1 << 20)
		*g.fields[i] = float64(val)
	}
	g.Done = true
}

// newReveal creates a TweenGroup that moves pose from cfg.From to the rest
// pose. The pose is set to cfg.From immediately so the entity starts hidden.
func newReveal(pose *RevealPose, cfg RevealConfig) *TweenGroup {
	from := cfg.From
	if from.Scale == 0 {
		from.Scale = 1
	}
	fn := cfg.Ease
	if fn == nil {
		fn = ease.OutCubic
	}
	d := cfg.Duration
	if d < 0 {
		d = 0
	}
	*pose = from
	g := &TweenGroup{count: 3, delay: max(cfg.Delay, 0)}
	g.tweens[0] = gween.New(float32(from.Opacity), float32(restPose.Opacity), d, fn)
	g.tweens[1] = gween.New(float32(from.OffsetY), float32(restPose.OffsetY), d, fn)
	g.tweens[2] = gween.New(float32(from.Scale), float32(restPose.Scale), d, fn)
	g.fields[0] = &pose.Opacity
	g.fields[1] = &pose.OffsetY
	g.fields[2] = &pose.Scale
	return g
}

// LoopConfig is a keyframed animation on one channel that repeats forever,
// e.g. the scroll hint that bobs through [0, 10, 0] every two seconds.
type LoopConfig struct {
	Channel Channel
	// Keyframes are visited in order, evenly spaced over Duration.
	Keyframes []float64
	// Duration of one full cycle in seconds.
	Duration float32
	// Ease defaults to ease.InOutSine.
	Ease ease.TweenFunc
}

// loopChannel drives a LoopConfig through a looping gween.Sequence.
type loopChannel struct {
	channel Channel
	seq     *gween.Sequence
	value   float64
}

// newLoop builds the looping sequence. Configs with fewer than two keyframes
// or a non-positive duration produce nil (no motion).
func newLoop(cfg LoopConfig) *loopChannel {
	n := len(cfg.Keyframes)
	if n < 2 || cfg.Duration <= 0 {
		return nil
	}
	fn := cfg.Ease
	if fn == nil {
		fn = ease.InOutSine
	}
	seg := cfg.Duration / float32(n-1)
	tweens := make([]*gween.Tween, 0, n-1)
	for i := 1; i < n; i++ {
		tweens = append(tweens, gween.New(float32(cfg.Keyframes[i-1]), float32(cfg.Keyframes[i]), seg, fn))
	}
	seq := gween.NewSequence(tweens...)
	seq.SetLoop(-1)
	return &loopChannel{channel: cfg.Channel, seq: seq, value: cfg.Keyframes[0]}
}

func (l *loopChannel) update(dt float32) float64 {
	if dt > 0 {
		v, _, _ := l.seq.Update(dt)
		l.value = float64(v)
	}
	return l.value
}
