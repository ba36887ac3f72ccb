package ebitenview

import (
	"math"

	"github.com/hashhawks/driftscape"
)

// edge is a line segment in geometry-local space.
type edge [2]driftscape.Vec3

// ringSegments is used for round outlines whose geometry gives no count.
const ringSegments = 16

// edges returns the wireframe outline of g. Shapes are approximated just
// closely enough to read in a preview window.
func edges(g driftscape.Geometry) []edge {
	switch g := g.(type) {
	case driftscape.Box:
		return boxEdges(g.Width/2, g.Height/2, g.Depth/2)
	case driftscape.Sphere:
		return sphereEdges(g.Radius)
	case driftscape.Icosahedron:
		return sphereEdges(g.Radius)
	case driftscape.Torus:
		n := g.TubularSegments
		if n < 3 {
			n = ringSegments
		}
		out := ring(g.Radius+g.Tube, 0, n, axisZ)
		return append(out, ring(g.Radius-g.Tube, 0, n, axisZ)...)
	case driftscape.Cone:
		return prismEdges(0, g.Radius, g.Height, g.Segments)
	case driftscape.Cylinder:
		return prismEdges(g.RadiusTop, g.RadiusBottom, g.Height, g.Segments)
	default:
		return nil
	}
}

func boxEdges(x, y, z float64) []edge {
	c := [8]driftscape.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	idx := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([]edge, len(idx))
	for i, p := range idx {
		out[i] = edge{c[p[0]], c[p[1]]}
	}
	return out
}

type axis uint8

const (
	axisY axis = iota // ring in the XZ plane
	axisZ             // ring in the XY plane
	axisX             // ring in the YZ plane
)

// ring returns n segments of a circle of radius r, offset by h along the axis.
func ring(r, h float64, n int, ax axis) []edge {
	pt := func(i int) driftscape.Vec3 {
		a := float64(i) / float64(n) * 2 * math.Pi
		u, v := math.Cos(a)*r, math.Sin(a)*r
		switch ax {
		case axisZ:
			return driftscape.Vec3{u, v, h}
		case axisX:
			return driftscape.Vec3{h, u, v}
		default:
			return driftscape.Vec3{u, h, v}
		}
	}
	out := make([]edge, n)
	for i := 0; i < n; i++ {
		out[i] = edge{pt(i), pt(i + 1)}
	}
	return out
}

func sphereEdges(r float64) []edge {
	out := ring(r, 0, ringSegments, axisY)
	out = append(out, ring(r, 0, ringSegments, axisZ)...)
	return append(out, ring(r, 0, ringSegments, axisX)...)
}

// prismEdges outlines a cone (top radius 0) or cylinder along Y.
func prismEdges(top, bottom, height float64, segments int) []edge {
	if segments < 3 {
		segments = ringSegments
	}
	h := height / 2
	out := ring(bottom, -h, segments, axisY)
	if top > 0 {
		out = append(out, ring(top, h, segments, axisY)...)
	}
	apex := driftscape.Vec3{0, h, 0}
	for i := 0; i < segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		base := driftscape.Vec3{math.Cos(a) * bottom, -h, math.Sin(a) * bottom}
		if top > 0 {
			out = append(out, edge{base, driftscape.Vec3{math.Cos(a) * top, h, math.Sin(a) * top}})
		} else {
			out = append(out, edge{base, apex})
		}
	}
	return out
}

// edgeCache memoises outlines per geometry value.
type edgeCache map[driftscape.Geometry][]edge

func (c edgeCache) get(g driftscape.Geometry) []edge {
	if e, ok := c[g]; ok {
		return e
	}
	e := edges(g)
	c[g] = e
	return e
}

// projector maps world points to screen pixels for one frame.
type projector struct {
	vp       driftscape.Mat4 // projection * view
	viewport driftscape.Rect
}

func newProjector(cam driftscape.CameraState) projector {
	return projector{vp: cam.Projection.Mul4(cam.View), viewport: cam.Viewport}
}

// project returns screen coordinates of p transformed by model. ok is false
// behind the camera.
func (p projector) project(model driftscape.Mat4, pt driftscape.Vec3) (x, y float32, ok bool) {
	clip := p.vp.Mul4(model).Mul4x1(pt.Vec4(1))
	if clip[3] <= 1e-6 {
		return 0, 0, false
	}
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	x = float32(p.viewport.X + (nx+1)/2*p.viewport.Width)
	y = float32(p.viewport.Y + (1-ny)/2*p.viewport.Height)
	return x, y, true
}
