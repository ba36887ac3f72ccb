package driftscape

// DrawItem is one render-ready entity handed to the Surface.
type DrawItem struct {
	ID   EntityID
	Name string
	// World is the entity's model matrix, parents already applied.
	World Mat4
	// Transform is the entity's local transform for this tick.
	Transform Transform
	// Visual carries the effective material; Opacity already includes scroll,
	// reveal, and loop factors.
	Visual Visual
	// Center is the world-space origin of the entity.
	Center Vec3
	// Radius bounds the entity's geometry in world units.
	Radius float64
	// Depth is the view-space distance along the camera's forward axis.
	Depth float64

	order int // insertion order, for stable sorting
}

// CloudItem describes the particle cloud for one frame.
type CloudItem struct {
	// Positions are cloud-local points. Shared, MUST NOT be mutated.
	Positions []Vec3
	// World is the cloud's aggregate rotation.
	World    Mat4
	Material Material
	Size     float64
}

// CameraState is the camera snapshot a frame was assembled with.
type CameraState struct {
	Position   Vec3
	View       Mat4
	Projection Mat4
	Viewport   Rect
	FovY       float64
}

// Frame is the per-tick output of the scene. A Frame is reused between
// ticks; surfaces must not retain it past Present.
type Frame struct {
	Number  uint64
	Elapsed float64
	Delta   float64

	// Items are in entity insertion order.
	Items  []DrawItem
	Cloud  *CloudItem
	Lights []Light
	Camera CameraState

	// Degraded capabilities in effect for this frame.
	ScrollSupported       bool
	IntersectionSupported bool

	sortBuf []DrawItem
	sorted  []DrawItem
	cloud   CloudItem
}

// Surface is the rendering collaborator. Init is called once from Start;
// an error there aborts the mount with ErrRenderUnavailable. Present is
// called once per tick with the assembled frame. Close releases the surface
// and is called exactly once from Stop.
type Surface interface {
	Init(viewport Rect) error
	Present(frame *Frame) error
	Close() error
}

// BackToFront returns the frame's items ordered farthest first, for painter's
// algorithm surfaces. Items at equal depth keep insertion order. The result is
// owned by the frame and reused by the next call.
func (f *Frame) BackToFront() []DrawItem {
	n := len(f.Items)
	if cap(f.sorted) < n {
		f.sorted = make([]DrawItem, n)
		f.sortBuf = make([]DrawItem, n)
	}
	f.sorted = f.sorted[:n]
	f.sortBuf = f.sortBuf[:n]
	copy(f.sorted, f.Items)
	if n <= 1 {
		return f.sorted
	}

	a := f.sorted
	b := f.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(f.sorted, f.sortBuf)
	}
	return f.sorted
}

// itemLessOrEqual orders far items first. Using <= for order keeps the sort stable.
func itemLessOrEqual(a, b *DrawItem) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.order <= b.order
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []DrawItem, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if itemLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// nopSurface discards frames. Used for headless scenes.
type nopSurface struct{}

func (nopSurface) Init(Rect) error      { return nil }
func (nopSurface) Present(*Frame) error { return nil }
func (nopSurface) Close() error         { return nil }

// NopSurface returns a Surface that accepts and discards every frame.
func NopSurface() Surface { return nopSurface{} }
