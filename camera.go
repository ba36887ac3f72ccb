package driftscape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// dollyAnim holds active move-to tweens for the camera position.
type dollyAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a perspective camera looking at Target from Position.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	// FovY is the vertical field of view in degrees.
	FovY float64
	Near float64
	Far  float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	view  Mat4
	proj  Mat4
	dirty bool

	dolly *dollyAnim
}

// NewCamera creates a camera at (0, 0, 10) looking at the origin with a 50°
// vertical field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Position: Vec3{0, 0, 10},
		Up:       Vec3{0, 1, 0},
		FovY:     50,
		Near:     0.1,
		Far:      1000,
		Viewport: viewport,
		dirty:    true,
	}
}

// MarkDirty forces a recomputation of the view and projection matrices.
// Call it after changing exported fields directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// SetViewport changes the output rectangle, e.g. after a resize.
func (c *Camera) SetViewport(vp Rect) {
	c.Viewport = vp
	c.dirty = true
}

// MoveTo animates the camera position over duration seconds.
func (c *Camera) MoveTo(pos Vec3, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutSine
	}
	a := &dollyAnim{}
	for i := 0; i < 3; i++ {
		a.tweens[i] = gween.New(float32(c.Position[i]), float32(pos[i]), duration, easeFn)
	}
	c.dolly = a
}

// Moving reports whether a MoveTo animation is in progress.
func (c *Camera) Moving() bool {
	return c.dolly != nil
}

// update advances an active MoveTo animation.
func (c *Camera) update(dt float32) {
	if c.dolly == nil || dt <= 0 {
		return
	}
	all := true
	for i := 0; i < 3; i++ {
		if c.dolly.done[i] {
			continue
		}
		val, done := c.dolly.tweens[i].Update(dt)
		c.Position[i] = float64(val)
		c.dolly.done[i] = done
		all = all && done
	}
	if all {
		c.dolly = nil
	}
	c.dirty = true
}

func (c *Camera) compute() {
	if !c.dirty {
		return
	}
	c.dirty = false
	up := c.Up
	if up.Len() == 0 {
		up = Vec3{0, 1, 0}
	}
	c.view = mgl64.LookAtV(c.Position, c.Target, up)
	aspect := 1.0
	if c.Viewport.Width > 0 && c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	c.proj = mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() Mat4 {
	c.compute()
	return c.view
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() Mat4 {
	c.compute()
	return c.proj
}

// Project maps a world point to screen coordinates inside Viewport, with
// the origin at the viewport's top-left. ok is false for points behind the
// camera.
func (c *Camera) Project(p Vec3) (x, y float64, ok bool) {
	c.compute()
	clip := c.proj.Mul4(c.view).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
	x = c.Viewport.X + (ndcX+1)/2*c.Viewport.Width
	y = c.Viewport.Y + (1-ndcY)/2*c.Viewport.Height
	return x, y, true
}

// ScreenBounds returns the screen-space square covering a sphere of the
// given radius at center. Spheres behind the camera report an empty Rect.
func (c *Camera) ScreenBounds(center Vec3, radius float64) Rect {
	x, y, ok := c.Project(center)
	if !ok {
		return Rect{}
	}
	dist := center.Sub(c.Position).Len()
	if dist <= radius || dist == 0 {
		return c.Viewport
	}
	// projected radius in pixels for a perspective camera
	half := math.Tan(mgl64.DegToRad(c.FovY) / 2)
	r := radius / (dist * half) * c.Viewport.Height / 2
	return Rect{X: x - r, Y: y - r, Width: 2 * r, Height: 2 * r}
}
