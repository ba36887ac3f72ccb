package driftscape

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	if cam.Position != (Vec3{0, 0, 10}) {
		t.Errorf("Position = %v, want (0,0,10)", cam.Position)
	}
	if cam.FovY != 50 {
		t.Errorf("FovY = %f, want 50", cam.FovY)
	}
	if cam.Viewport.Width != 800 || cam.Viewport.Height != 600 {
		t.Errorf("Viewport = %v, want 800x600", cam.Viewport)
	}
}

func TestCameraProjectCenter(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	x, y, ok := cam.Project(Vec3{})
	if !ok {
		t.Fatal("origin reported behind camera")
	}
	if !approxEqual(x, 400, 1e-6) || !approxEqual(y, 300, 1e-6) {
		t.Errorf("Project(origin) = (%f,%f), want (400,300)", x, y)
	}
}

func TestCameraProjectAxes(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	x, _, _ := cam.Project(Vec3{1, 0, 0})
	if x <= 400 {
		t.Errorf("+X projected to x=%f, want right of center", x)
	}
	_, y, _ := cam.Project(Vec3{0, 1, 0})
	if y >= 300 {
		t.Errorf("+Y projected to y=%f, want above center", y)
	}
}

func TestCameraProjectBehind(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	if _, _, ok := cam.Project(Vec3{0, 0, 20}); ok {
		t.Error("point behind camera reported visible")
	}
	if r := cam.ScreenBounds(Vec3{0, 0, 20}, 1); r.Area() != 0 {
		t.Errorf("ScreenBounds behind camera = %v, want empty", r)
	}
}

func TestCameraScreenBoundsShrinkWithDistance(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	near := cam.ScreenBounds(Vec3{0, 0, 5}, 1)
	far := cam.ScreenBounds(Vec3{0, 0, -5}, 1)
	if !(near.Width > far.Width) {
		t.Errorf("near width %f should exceed far width %f", near.Width, far.Width)
	}
	if !near.Contains(400, 300) {
		t.Errorf("bounds %v do not contain the projected center", near)
	}
}

func TestCameraMoveTo(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.MoveTo(Vec3{0, 2, 8}, 1.0, ease.Linear)
	if !cam.Moving() {
		t.Fatal("Moving() = false after MoveTo")
	}
	cam.update(0.5)
	if !approxEqual(cam.Position[1], 1, 1e-5) {
		t.Errorf("Y at half time = %f, want 1", cam.Position[1])
	}
	cam.update(0.6)
	if cam.Moving() {
		t.Error("still moving after duration")
	}
	if !approxEqual(cam.Position[2], 8, 1e-5) {
		t.Errorf("Z = %f, want 8", cam.Position[2])
	}
}
