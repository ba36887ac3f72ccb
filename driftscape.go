package driftscape

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector used for positions, Euler rotations, scales, and
// rotation rates throughout the API.
type Vec3 = mgl64.Vec3

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// ParseColor parses a CSS-style hex color ("#8b5cf6", "8b5cf6", "#8b5cf6cc").
// Alpha defaults to 1 when only six digits are given.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("parse color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MustParseColor is like ParseColor but panics on malformed input. Intended
// for package-level literals.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic("driftscape: " + err.Error())
	}
	return c
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	r, g, b, a := to255(c.R), to255(c.G), to255(c.B), to255(c.A)
	if a == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// Scale returns the color with RGB multiplied by f. Alpha is unchanged.
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

func to255(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}

// Rect is an axis-aligned screen rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersection returns the overlapping region of r and other. The result has
// zero area when the rectangles do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Area returns Width*Height, or 0 for empty or inverted rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Inset shrinks the rectangle by m on every side. A negative m grows it,
// matching the sign convention of an IntersectionObserver root margin
// ("-50px" shrinks the root).
func (r Rect) Inset(m float64) Rect {
	return Rect{r.X + m, r.Y + m, r.Width - 2*m, r.Height - 2*m}
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// EventType identifies a kind of viewport event.
type EventType uint8

const (
	EventEnteredViewport EventType = iota // NotVisible -> Visible
	EventLeftViewport                     // Visible -> NotVisible (repeating triggers only)
)

// String returns the event name used in logs and on the wire.
func (e EventType) String() string {
	switch e {
	case EventEnteredViewport:
		return "enteredViewport"
	case EventLeftViewport:
		return "leftViewport"
	default:
		return "unknown"
	}
}

// ViewportState is the visibility state of an observed entity.
type ViewportState uint8

const (
	NotVisible ViewportState = iota
	Visible
)

// String returns "visible" or "not-visible".
func (s ViewportState) String() string {
	if s == Visible {
		return "visible"
	}
	return "not-visible"
}

// Channel selects the visual parameter a ScrollBinding drives.
type Channel uint8

const (
	ChannelParallaxX Channel = iota // added to position X
	ChannelParallaxY                // added to position Y
	ChannelParallaxZ                // added to position Z
	ChannelRotateX                  // added to rotation X (radians)
	ChannelRotateY                  // added to rotation Y (radians)
	ChannelRotateZ                  // added to rotation Z (radians)
	ChannelOpacity                  // multiplies material opacity
	ChannelScale                    // multiplies uniform scale
	channelCount
)

var channelNames = [channelCount]string{
	"parallax-x", "parallax-y", "parallax-z",
	"rotate-x", "rotate-y", "rotate-z",
	"opacity", "scale",
}

// String returns the channel's config name.
func (c Channel) String() string {
	if c < channelCount {
		return channelNames[c]
	}
	return "unknown"
}

// ParseChannel resolves a config name ("parallax-y", "opacity", ...) to a Channel.
func ParseChannel(s string) (Channel, error) {
	for i, n := range channelNames {
		if n == s {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scroll channel %q", s)
}

// isFinite reports whether v is neither NaN nor ±Inf.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// wrapAngle maps a into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// math.Mod can return values that round up to exactly 2π after the add.
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 clamps v into [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
