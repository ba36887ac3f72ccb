package driftscape

import (
	"math"
	"testing"
)

func box() Visual {
	return Visual{Geometry: Box{Width: 1, Height: 1, Depth: 1}}
}

func assembleOnce(c *Composer, t, dt float64, sample ScrollSample, supported bool) *Frame {
	f := &Frame{}
	c.applyMotion(t, dt)
	c.applyScroll(sample, supported)
	c.stepSprings(dt, nil)
	c.updateAnimations(dt)
	c.assemble(f, identityMatrix)
	return f
}

func TestComposerInsertionOrder(t *testing.T) {
	c := NewComposer()
	var ids []EntityID
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, c.CreateEntity(EntityDesc{Name: name, Visual: box()}, MotionProfile{}))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not increasing: %v", ids)
		}
	}
	var names []string
	c.ForEachEntity(func(e *Entity) { names = append(names, e.Name) })
	if got := joinNames(names); got != "a,b,c,d" {
		t.Errorf("visit order = %s", got)
	}
	f := assembleOnce(c, 0, 0, ScrollSample{}, true)
	for i, it := range f.Items {
		if it.ID != ids[i] {
			t.Errorf("item %d id = %d, want %d", i, it.ID, ids[i])
		}
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}

func TestComposerDefaults(t *testing.T) {
	c := NewComposer()
	id := c.CreateEntity(EntityDesc{Visual: Visual{Geometry: Sphere{Radius: 1}}}, MotionProfile{})
	e := c.Entity(id)
	if e.Base.Scale != (Vec3{1, 1, 1}) {
		t.Errorf("scale = %v, want unit", e.Base.Scale)
	}
	if e.BaseVisual.Material != DefaultMaterial() {
		t.Errorf("material = %+v, want default", e.BaseVisual.Material)
	}
	if e.Pose() != restPose {
		t.Errorf("pose = %+v, want rest", e.Pose())
	}
	if e.World() != identityMatrix {
		t.Error("new entity world should be identity")
	}
}

func TestComposerRemoveCascades(t *testing.T) {
	c := NewComposer()
	var removed []EntityID
	c.onRemove = func(id EntityID) { removed = append(removed, id) }

	root := c.CreateEntity(EntityDesc{Name: "root", Visual: Visual{Geometry: Group{}}}, MotionProfile{})
	child := c.CreateEntity(EntityDesc{Name: "child", Parent: root, Visual: box()}, MotionProfile{})
	grand := c.CreateEntity(EntityDesc{Name: "grand", Parent: child, Visual: box()}, MotionProfile{})
	other := c.CreateEntity(EntityDesc{Name: "other", Visual: box()}, MotionProfile{})

	if !c.RemoveEntity(root) {
		t.Fatal("RemoveEntity(root) = false")
	}
	if c.RemoveEntity(root) {
		t.Error("second removal should report false")
	}
	if c.RemoveEntity(999) {
		t.Error("unknown id should report false")
	}
	if len(removed) != 3 {
		t.Fatalf("onRemove calls = %v, want root, child, grand", removed)
	}
	for _, id := range []EntityID{root, child, grand} {
		if c.Entity(id) != nil {
			t.Errorf("entity %d still live", id)
		}
	}
	if c.Lookup("grand") != 0 || c.Lookup("other") != other {
		t.Error("Lookup should skip removed entities")
	}

	visited := 0
	c.ForEachEntity(func(*Entity) { visited++ })
	if visited != 1 || c.Len() != 1 {
		t.Errorf("visited %d, Len %d, want 1 and 1", visited, c.Len())
	}

	c.compact()
	if len(c.entities) != 1 || len(c.index) != 1 {
		t.Errorf("after compact: %d records, %d indexed", len(c.entities), len(c.index))
	}
	if next := c.CreateEntity(EntityDesc{}, MotionProfile{}); next <= other {
		t.Errorf("id %d reused after removal", next)
	}
}

func TestComposerRemoveDuringWalk(t *testing.T) {
	c := NewComposer()
	a := c.CreateEntity(EntityDesc{Name: "a"}, MotionProfile{})
	b := c.CreateEntity(EntityDesc{Name: "b"}, MotionProfile{})
	_ = a
	var seen []string
	c.ForEachEntity(func(e *Entity) {
		seen = append(seen, e.Name)
		if e.Name == "a" {
			c.RemoveEntity(b)
		}
	})
	if joinNames(seen) != "a" {
		t.Errorf("visited %v after removing b mid-walk", seen)
	}
}

func TestComposerNilVisitorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ForEachEntity(nil) did not panic")
		}
	}()
	NewComposer().ForEachEntity(nil)
}

func TestComposerUnknownParentIsRoot(t *testing.T) {
	c := NewComposer()
	id := c.CreateEntity(EntityDesc{Parent: 42}, MotionProfile{})
	if c.Entity(id).Parent != 0 {
		t.Error("unknown parent should make a root")
	}
}

func TestComposerGroupNotDrawn(t *testing.T) {
	c := NewComposer()
	g := c.CreateEntity(EntityDesc{Name: "g", Transform: Transform{Position: Vec3{0, 0, -3}}, Visual: Visual{Geometry: Group{}}}, MotionProfile{})
	c.CreateEntity(EntityDesc{Name: "kid", Parent: g, Transform: Transform{Position: Vec3{1, 0, 0}}, Visual: box()}, MotionProfile{})
	c.CreateEntity(EntityDesc{Name: "bare"}, MotionProfile{})

	f := assembleOnce(c, 0, 0, ScrollSample{}, true)
	if len(f.Items) != 1 || f.Items[0].Name != "kid" {
		t.Fatalf("items = %+v, want only kid", f.Items)
	}
	if f.Items[0].Center != (Vec3{1, 0, -3}) {
		t.Errorf("kid center = %v, want (1,0,-3)", f.Items[0].Center)
	}
	if !approxEqual(f.Items[0].Depth, 3, epsilon) {
		t.Errorf("depth = %v, want 3", f.Items[0].Depth)
	}
}

func TestComposerAssemble(t *testing.T) {
	c := NewComposer()
	mat := DefaultMaterial()
	mat.Opacity = 0.8
	id := c.CreateEntity(EntityDesc{
		Transform: Transform{Position: Vec3{2, 1, 0}, Scale: Uniform(2)},
		Visual:    Visual{Geometry: Box{Width: 1, Height: 1, Depth: 1}, Material: mat},
		Scroll: []ScrollBinding{
			{Channel: ChannelParallaxY, RangeLow: 0, RangeHigh: -4},
			{Channel: ChannelOpacity, DomainLow: 0.5, DomainHigh: 1, RangeLow: 1, RangeHigh: 0},
			{Channel: ChannelRotateZ, RangeLow: 0, RangeHigh: math.Pi},
		},
	}, MotionProfile{Float: Float{0: {Amplitude: 0.5, Frequency: 1}}})

	f := assembleOnce(c, math.Pi/2, 0, ScrollSample{Progress: 0.75}, true)
	e := c.Entity(id)
	if got := e.Transform.Position; !approxEqual(got[0], 2.5, epsilon) || !approxEqual(got[1], -2, epsilon) {
		t.Errorf("position = %v, want (2.5, -2, 0)", got)
	}
	if !approxEqual(e.Transform.Rotation[2], 0.75*math.Pi, epsilon) {
		t.Errorf("rotation z = %v", e.Transform.Rotation[2])
	}
	if !approxEqual(e.Visual.Material.Opacity, 0.4, epsilon) {
		t.Errorf("opacity = %v, want 0.4", e.Visual.Material.Opacity)
	}
	if e.BaseVisual.Material.Opacity != 0.8 {
		t.Error("base material must not change")
	}
	if len(f.Items) != 1 || !approxEqual(f.Items[0].Radius, 2*math.Sqrt(3)/2, 1e-9) {
		t.Errorf("radius = %v", f.Items[0].Radius)
	}
}

func TestComposerScrollUnsupportedSettles(t *testing.T) {
	c := NewComposer()
	id := c.CreateEntity(EntityDesc{
		Visual: box(),
		Scroll: []ScrollBinding{
			{Channel: ChannelParallaxY, RangeLow: 1, RangeHigh: -4, Spring: &SpringConfig{}},
			{Channel: ChannelParallaxX, RangeLow: 3, RangeHigh: 9},
		},
	}, MotionProfile{})
	assembleOnce(c, 0, 1.0/60, ScrollSample{Progress: 1}, false)
	pos := c.Entity(id).Transform.Position
	if pos[0] != 3 || pos[1] != 1 {
		t.Errorf("position = %v, want settled (3, 1, 0)", pos)
	}
}

func TestComposerSpringSmooths(t *testing.T) {
	c := NewComposer()
	id := c.CreateEntity(EntityDesc{
		Visual: box(),
		Scroll: []ScrollBinding{{Channel: ChannelParallaxY, RangeLow: 0, RangeHigh: -2, Spring: &SpringConfig{}}},
	}, MotionProfile{})

	assembleOnce(c, 0, 1.0/60, ScrollSample{Progress: 1}, true)
	y := c.Entity(id).Transform.Position[1]
	if y >= 0 || y <= -2 {
		t.Errorf("first smoothed step y = %v, want strictly between 0 and -2", y)
	}
	for i := 0; i < 300; i++ {
		assembleOnce(c, 0, 1.0/60, ScrollSample{Progress: 1}, true)
	}
	if y := c.Entity(id).Transform.Position[1]; y != -2 {
		t.Errorf("settled y = %v, want -2", y)
	}
	if sp := c.Entity(id).Springs(); len(sp) != 1 || !sp[0].Settled() {
		t.Error("spring should have settled")
	}
}

func TestComposerParentWorld(t *testing.T) {
	c := NewComposer()
	p := c.CreateEntity(EntityDesc{Transform: Transform{Position: Vec3{0, 0, -3}, Rotation: Vec3{0, math.Pi / 2, 0}}, Visual: Visual{Geometry: Group{}}}, MotionProfile{})
	k := c.CreateEntity(EntityDesc{Parent: p, Transform: Transform{Position: Vec3{1, 0, 0}}, Visual: box()}, MotionProfile{})
	assembleOnce(c, 0, 0, ScrollSample{}, true)
	center := c.Entity(k).World().Col(3).Vec3()
	want := Vec3{0, 0, -4}
	for i := 0; i < 3; i++ {
		if !approxEqual(center[i], want[i], 1e-9) {
			t.Fatalf("child world center = %v, want %v", center, want)
		}
	}
}
