package ebitenview

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashhawks/driftscape"
)

func cameraState(w, h float64) driftscape.CameraState {
	vp := driftscape.Rect{Width: w, Height: h}
	cam := driftscape.NewCamera(vp)
	return driftscape.CameraState{
		Position:   cam.Position,
		View:       cam.View(),
		Projection: cam.Projection(),
		Viewport:   vp,
		FovY:       cam.FovY,
	}
}

func TestEdgeCounts(t *testing.T) {
	tests := []struct {
		name string
		geom driftscape.Geometry
		want int
	}{
		{"box", driftscape.Box{Width: 1, Height: 1, Depth: 1}, 12},
		{"sphere", driftscape.Sphere{Radius: 1}, 3 * ringSegments},
		{"icosahedron", driftscape.Icosahedron{Radius: 1}, 3 * ringSegments},
		{"torus", driftscape.Torus{Radius: 1, Tube: 0.1, TubularSegments: 20}, 40},
		{"pyramid", driftscape.Cone{Radius: 1, Height: 1, Segments: 4}, 8},
		{"prism", driftscape.Cylinder{RadiusTop: 1, RadiusBottom: 1, Height: 1, Segments: 6}, 18},
		{"group", driftscape.Group{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, edges(tt.geom), tt.want)
		})
	}
}

func TestRingClosed(t *testing.T) {
	r := ring(2, 0, 8, axisY)
	require.Len(t, r, 8)
	assert.InDelta(t, r[0][0].X(), r[7][1].X(), 1e-9)
	assert.InDelta(t, r[0][0].Z(), r[7][1].Z(), 1e-9)
	for _, e := range r {
		assert.InDelta(t, 2, e[0].Len(), 1e-9)
		assert.Zero(t, e[0].Y())
	}
}

func TestEdgeCacheReuses(t *testing.T) {
	c := make(edgeCache)
	box := driftscape.Box{Width: 1, Height: 2, Depth: 3}
	a := c.get(box)
	b := c.get(box)
	require.NotEmpty(t, a)
	assert.Same(t, &a[0], &b[0])
	assert.Len(t, c, 1)
}

func TestProjectorCenter(t *testing.T) {
	p := newProjector(cameraState(800, 600))
	x, y, ok := p.project(identity, driftscape.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 400, x, 1e-3)
	assert.InDelta(t, 300, y, 1e-3)

	// +Y is up in world space and down on screen.
	_, y, ok = p.project(identity, driftscape.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.Less(t, y, float32(300))

	_, _, ok = p.project(identity, driftscape.Vec3{0, 0, 20})
	assert.False(t, ok, "point behind the camera")
}

func TestProjectedRadius(t *testing.T) {
	cam := cameraState(800, 600)
	near := projectedRadius(cam, driftscape.Vec3{}, 1)
	far := projectedRadius(cam, driftscape.Vec3{0, 0, -10}, 1)
	assert.Greater(t, near, far)
	assert.InDelta(t, 1/(10*math.Tan(25*math.Pi/180))*300, near, 1e-6)
	assert.Zero(t, projectedRadius(cam, cam.Position, 1))
}

func TestToNRGBA(t *testing.T) {
	c := driftscape.Color{R: 1, G: 0.5, B: 2, A: 1}
	assert.Equal(t, color.NRGBA{255, 128, 255, 153}, toNRGBA(c, 0.6))
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 0.0, clampOffset(-50, 2000, 500))
	assert.Equal(t, 700.0, clampOffset(700, 2000, 500))
	assert.Equal(t, 1500.0, clampOffset(9000, 2000, 500))
	assert.Equal(t, 0.0, clampOffset(100, 300, 500), "document shorter than the window")
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	assert.Equal(t, []byte{127, 63, 0, 128, 10, 20, 30, 255}, img.Pix)
}

func TestGameSurfaceLifecycle(t *testing.T) {
	g := NewGame(RunConfig{Width: 320, Height: 240})
	require.Error(t, g.Init(driftscape.Rect{}))
	require.NoError(t, g.Init(driftscape.Rect{Width: 320, Height: 240}))

	cell := driftscape.NewScrollCell()
	cancel, err := g.SubscribeScroll(cell)
	require.NoError(t, err)
	g.scrollBy(120)
	assert.Equal(t, 120.0, cell.Load().Offset)
	cancel()
	g.scrollBy(120)
	assert.Equal(t, 120.0, cell.Load().Offset, "cancelled subscription receives nothing")

	ticks := 0
	stop, err := g.Register(func() { ticks++ })
	require.NoError(t, err)
	require.NoError(t, g.Present(&driftscape.Frame{}))
	require.NoError(t, g.Close())
	assert.ErrorIs(t, g.Present(&driftscape.Frame{}), driftscape.ErrStopped)
	stop()
	assert.Zero(t, ticks)
}
