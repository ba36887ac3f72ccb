package driftscape

// fpsWindow is how often the FrameMeter refreshes its reading, in seconds.
const fpsWindow = 0.5

// FrameMeter measures the tick rate over a rolling half-second window.
// The zero value is ready to use.
type FrameMeter struct {
	acc    float64
	frames int
	fps    float64
}

// Observe records one tick that took dt seconds.
func (m *FrameMeter) Observe(dt float64) {
	if !(dt > 0) || !isFinite(dt) {
		return
	}
	m.acc += dt
	m.frames++
	if m.acc < fpsWindow {
		return
	}
	m.fps = float64(m.frames) / m.acc
	m.acc = 0
	m.frames = 0
}

// FPS returns the rate measured over the last full window, or 0 before one
// has elapsed.
func (m *FrameMeter) FPS() float64 {
	return m.fps
}
