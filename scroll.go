package driftscape

import (
	"math"
	"sync/atomic"
)

// scrollEpsilon is the smallest scrollable height used as a denominator.
// A page that cannot scroll therefore always reports progress 0.
const scrollEpsilon = 1e-6

// ScrollSample is the last observed scroll position.
type ScrollSample struct {
	// Offset is the raw scroll offset in host units (CSS pixels).
	Offset float64
	// Progress is Offset normalised by the scrollable height, clamped to [0, 1].
	Progress float64
}

// NewScrollSample normalises a raw scroll reading. scrollHeight is the full
// document height and viewportHeight the visible height; their difference is
// the scrollable distance. A non-positive scrollable distance yields progress 0.
func NewScrollSample(offset, scrollHeight, viewportHeight float64) ScrollSample {
	if !isFinite(offset) {
		offset = 0
	}
	scrollable := scrollHeight - viewportHeight
	if !isFinite(scrollable) {
		scrollable = 0
	}
	p := offset / math.Max(scrollable, scrollEpsilon)
	if scrollable < scrollEpsilon {
		p = 0
	}
	return ScrollSample{Offset: offset, Progress: clamp01(p)}
}

// MapRange linearly maps value from [domainLow, domainHigh] onto
// [rangeLow, rangeHigh]. The value is clamped to the domain first, so inputs
// outside it saturate to the matching range endpoint. A zero-width domain
// maps everything to rangeLow. Domain endpoints hit their range endpoints exactly.
func MapRange(value, domainLow, domainHigh, rangeLow, rangeHigh float64) float64 {
	span := domainHigh - domainLow
	if span == 0 || !isFinite(span) || math.IsNaN(value) {
		return rangeLow
	}
	t := (value - domainLow) / span
	if t <= 0 {
		return rangeLow
	}
	if t >= 1 {
		return rangeHigh
	}
	return lerp(rangeLow, rangeHigh, t)
}

// ScrollCell is a last-value-wins cell holding the current ScrollSample. It
// has exactly one writer (the host's scroll listener) and is read by the
// render loop; writes are atomic pointer swaps so neither side blocks.
type ScrollCell struct {
	v           atomic.Pointer[ScrollSample]
	unsupported atomic.Bool
}

// NewScrollCell creates a cell holding the zero sample.
func NewScrollCell() *ScrollCell {
	c := &ScrollCell{}
	c.v.Store(&ScrollSample{})
	return c
}

// Store publishes a new sample. Intermediate samples between two reads are lost.
func (c *ScrollCell) Store(s ScrollSample) {
	c.v.Store(&s)
}

// Update normalises and stores a raw reading in one call.
func (c *ScrollCell) Update(offset, scrollHeight, viewportHeight float64) {
	c.Store(NewScrollSample(offset, scrollHeight, viewportHeight))
}

// Load returns the most recently stored sample.
func (c *ScrollCell) Load() ScrollSample {
	if p := c.v.Load(); p != nil {
		return *p
	}
	return ScrollSample{}
}

// SetSupported records whether the host can observe scrolling at all.
func (c *ScrollCell) SetSupported(ok bool) {
	c.unsupported.Store(!ok)
}

// Supported reports whether scroll observation is available.
func (c *ScrollCell) Supported() bool {
	return !c.unsupported.Load()
}

// ScrollBinding maps scroll progress through a linear range onto one visual
// channel of an entity. With a Spring config the mapped value becomes the
// spring's target and the smoothed output is applied instead.
type ScrollBinding struct {
	Channel    Channel
	DomainLow  float64
	DomainHigh float64
	RangeLow   float64
	RangeHigh  float64
	Spring     *SpringConfig
}

// Map returns the binding's raw (unsmoothed) value for a progress ratio.
func (b ScrollBinding) Map(progress float64) float64 {
	lo, hi := b.DomainLow, b.DomainHigh
	if lo == 0 && hi == 0 {
		hi = 1
	}
	return MapRange(progress, lo, hi, b.RangeLow, b.RangeHigh)
}

// Settled returns the value the binding rests on when scrolling cannot be
// observed: the start of its range, i.e. no parallax.
func (b ScrollBinding) Settled() float64 {
	return b.RangeLow
}

// channelValues accumulates per-channel contributions for one entity in one
// tick. Additive channels start at 0, multiplicative ones at 1.
type channelValues [channelCount]float64

func newChannelValues() channelValues {
	var v channelValues
	v[ChannelOpacity] = 1
	v[ChannelScale] = 1
	return v
}

func (v *channelValues) apply(ch Channel, x float64) {
	switch ch {
	case ChannelOpacity, ChannelScale:
		v[ch] *= x
	default:
		if ch < channelCount {
			v[ch] += x
		}
	}
}
