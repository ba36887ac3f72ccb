// Package ebitenview renders driftscape scenes in an [Ebitengine] window.
//
// A [Game] is at once the scene's rendering surface, its frame source, and
// a mouse-wheel scroll source over a virtual document, so a scene can be
// previewed and scrolled on the desktop:
//
//	err := ebitenview.Run(driftscape.DefaultSceneConfig(), ebitenview.RunConfig{
//		Title: "driftscape", Width: 1280, Height: 720, ShowFPS: true,
//	})
//
// [Ebitengine]: https://ebitengine.org
package ebitenview

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/hashhawks/driftscape"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
	// wheelStep is how many document pixels one wheel notch scrolls.
	wheelStep = 60
)

// RunConfig configures the preview window.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// DocumentHeight is the height of the virtual page scrolled with the
	// mouse wheel. Zero means four window heights.
	DocumentHeight float64
	// ScreenshotDir receives PNGs queued with Game.Screenshot. Zero means ".".
	ScreenshotDir string
	Background    color.Color
}

func (rc RunConfig) withDefaults() RunConfig {
	if rc.Width <= 0 {
		rc.Width = defaultWidth
	}
	if rc.Height <= 0 {
		rc.Height = defaultHeight
	}
	if rc.DocumentHeight <= 0 {
		rc.DocumentHeight = 4 * float64(rc.Height)
	}
	if rc.ScreenshotDir == "" {
		rc.ScreenshotDir = "."
	}
	if rc.Background == nil {
		rc.Background = color.NRGBA{0x0b, 0x0b, 0x12, 0xff}
	}
	if rc.Title == "" {
		rc.Title = "driftscape"
	}
	return rc
}

// drawItem is the part of a DrawItem the window needs, copied at Present.
type drawItem struct {
	world  driftscape.Mat4
	visual driftscape.Visual
	center driftscape.Vec3
	radius float64
}

// Game implements ebiten.Game, driftscape.Surface, driftscape.FrameSource,
// and driftscape.ScrollSource.
type Game struct {
	cfg RunConfig
	log zerolog.Logger

	mu       sync.Mutex
	tick     func()
	cell     *driftscape.ScrollCell
	offset   float64
	closed   bool
	ready    bool
	viewport driftscape.Rect

	// last presented frame
	camera   driftscape.CameraState
	items    []drawItem
	cloud    []driftscape.Vec3
	cloudM   driftscape.Mat4
	cloudC   driftscape.Color
	ambient  float64
	hasFrame bool

	edges edgeCache

	screenshotQueue []string
}

// NewGame creates a window game for rc.
func NewGame(rc RunConfig) *Game {
	return &Game{cfg: rc.withDefaults(), log: zerolog.Nop(), edges: make(edgeCache)}
}

// Run opens a window and runs the scene until the window is closed or Escape
// is pressed. host may carry intersection and clock collaborators; its
// Surface and Frames are replaced by the window, and a nil Scroll source is
// replaced by the mouse wheel.
func Run(cfg *driftscape.SceneConfig, rc RunConfig, host driftscape.Host, opts ...driftscape.Option) error {
	g := NewGame(rc)
	host.Surface = g
	host.Frames = g
	if host.Scroll == nil {
		host.Scroll = g
	}
	if cfg == nil {
		cfg = driftscape.DefaultSceneConfig()
	}
	cfg.Viewport = driftscape.ViewportConfig{Width: float64(g.cfg.Width), Height: float64(g.cfg.Height)}

	scene, err := driftscape.Start(cfg, host, opts...)
	if err != nil {
		return err
	}
	defer scene.Stop()
	g.log = scene.Logger().With().Str("surface", "ebiten").Logger()

	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	if fps := cfg.Scheduler.FPS; fps > 0 {
		ebiten.SetTPS(fps)
	}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Init implements driftscape.Surface.
func (g *Game) Init(vp driftscape.Rect) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("ebitenview: invalid viewport %vx%v", vp.Width, vp.Height)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.viewport = vp
	g.ready = true
	return nil
}

// Present implements driftscape.Surface. It copies what Draw needs so the
// frame can be reused by the scene.
func (g *Game) Present(f *driftscape.Frame) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return driftscape.ErrStopped
	}
	g.camera = f.Camera
	g.items = g.items[:0]
	for _, it := range f.BackToFront() {
		g.items = append(g.items, drawItem{world: it.World, visual: it.Visual, center: it.Center, radius: it.Radius})
	}
	g.cloud = nil
	if f.Cloud != nil {
		g.cloud = f.Cloud.Positions
		g.cloudM = f.Cloud.World
		g.cloudC = f.Cloud.Material.Color
		g.cloudC.A = f.Cloud.Material.Opacity
	}
	g.ambient = 0
	for _, l := range f.Lights {
		if l.Kind == driftscape.LightAmbient {
			g.ambient += l.Intensity
		}
	}
	g.hasFrame = true
	return nil
}

// Close implements driftscape.Surface. The window exits on its next update.
func (g *Game) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

// Register implements driftscape.FrameSource. Frames are delivered from
// Update, once per ebiten tick.
func (g *Game) Register(tick func()) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tick = tick
	return func() {
		g.mu.Lock()
		g.tick = nil
		g.mu.Unlock()
	}, nil
}

// SubscribeScroll implements driftscape.ScrollSource over the mouse wheel.
func (g *Game) SubscribeScroll(cell *driftscape.ScrollCell) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cell = cell
	cell.Update(g.offset, g.cfg.DocumentHeight, float64(g.cfg.Height))
	return func() {
		g.mu.Lock()
		g.cell = nil
		g.mu.Unlock()
	}, nil
}

// scrollBy moves the virtual document and publishes the new sample.
func (g *Game) scrollBy(dy float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offset = clampOffset(g.offset+dy, g.cfg.DocumentHeight, float64(g.cfg.Height))
	if g.cell != nil {
		g.cell.Update(g.offset, g.cfg.DocumentHeight, float64(g.cfg.Height))
	}
}

func clampOffset(offset, docHeight, viewHeight float64) float64 {
	return math.Max(0, math.Min(offset, docHeight-viewHeight))
}

// Screenshot queues a labeled screenshot, captured at the end of the next Draw.
func (g *Game) Screenshot(label string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.screenshotQueue = append(g.screenshotQueue, label)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scrollBy(-dy * wheelStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.Screenshot("preview")
	}
	g.mu.Lock()
	tick, closed := g.tick, g.closed
	g.mu.Unlock()
	if closed {
		return ebiten.Termination
	}
	if tick != nil {
		tick()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasFrame {
		return
	}
	proj := newProjector(g.camera)

	if len(g.cloud) > 0 {
		clr := toNRGBA(g.cloudC, 1)
		for _, p := range g.cloud {
			if x, y, ok := proj.project(g.cloudM, p); ok {
				vector.DrawFilledRect(screen, x, y, 1, 1, clr, false)
			}
		}
	}

	for i := range g.items {
		g.drawItem(screen, proj, &g.items[i])
	}

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nscroll: %.0f", ebiten.ActualFPS(), ebiten.ActualTPS(), g.offset))
	}
	g.flushScreenshots(screen)
}

func (g *Game) drawItem(screen *ebiten.Image, proj projector, it *drawItem) {
	mat := it.visual.Material
	if mat.Opacity <= 0 {
		return
	}
	light := shade(mat, g.ambient)
	clr := toNRGBA(mat.Color.Scale(light), mat.Opacity)

	if !mat.Wireframe {
		cx, cy, ok := proj.project(identity, it.center)
		if ok {
			r := projectedRadius(g.camera, it.center, it.radius)
			fill := toNRGBA(mat.Color.Scale(light), mat.Opacity*0.35)
			vector.DrawFilledCircle(screen, cx, cy, float32(r), fill, true)
		}
	}
	for _, e := range g.edges.get(it.visual.Geometry) {
		x0, y0, ok0 := proj.project(it.world, e[0])
		x1, y1, ok1 := proj.project(it.world, e[1])
		if ok0 && ok1 {
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		}
	}
}

var identity = driftscape.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// shade is a flat lighting factor: ambient plus emissive plus a fixed key light.
func shade(m driftscape.Material, ambient float64) float64 {
	return math.Min(1, ambient+m.EmissiveIntensity+0.5)
}

// projectedRadius converts a world radius at center into pixels.
func projectedRadius(cam driftscape.CameraState, center driftscape.Vec3, radius float64) float64 {
	dist := center.Sub(cam.Position).Len()
	if dist <= 0 {
		return 0
	}
	half := math.Tan(cam.FovY * math.Pi / 360)
	return radius / (dist * half) * cam.Viewport.Height / 2
}

func toNRGBA(c driftscape.Color, alpha float64) color.NRGBA {
	to8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{to8(c.R), to8(c.G), to8(c.B), to8(c.A * alpha)}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
