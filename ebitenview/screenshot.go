package ebitenview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hashhawks/driftscape"
)

// flushScreenshots writes every queued label as a PNG of the rendered frame.
// Called at the end of Draw with g.mu held.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}
	defer func() { g.screenshotQueue = g.screenshotQueue[:0] }()

	if err := os.MkdirAll(g.cfg.ScreenshotDir, 0o755); err != nil {
		g.log.Error().Err(err).Str("dir", g.cfg.ScreenshotDir).Msg("screenshot mkdir failed")
		return
	}

	bounds := screen.Bounds()
	pixels := make([]byte, 4*bounds.Dx()*bounds.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, bounds.Dx(), bounds.Dy())

	now := time.Now()
	for _, label := range g.screenshotQueue {
		path := filepath.Join(g.cfg.ScreenshotDir, driftscape.SnapshotFileName(now, label, "png"))
		if err := writePNG(path, img); err != nil {
			g.log.Error().Err(err).Msg("screenshot failed")
			continue
		}
		g.log.Info().Str("path", path).Msg("screenshot written")
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
