package driftscape

// Composer owns the authoritative list of entity records. Records live in an
// arena slice in insertion order and are found by id through an index; the
// order never changes across ticks, so assembled frames are deterministic.
//
// Removal marks the record (and its descendants) removed immediately, so no
// traversal visits it again, and reclaims the storage at the next tick
// boundary.
type Composer struct {
	entities []*Entity
	index    map[EntityID]*Entity
	nextID   EntityID
	pending  int // removed records awaiting compaction

	// onRemove is called once for every entity removed, descendants included.
	onRemove func(id EntityID)
}

// NewComposer creates an empty composer.
func NewComposer() *Composer {
	return &Composer{index: make(map[EntityID]*Entity)}
}

// CreateEntity adds an entity and returns its id. A zero Scale in the
// descriptor's transform means unit scale and a zero Material means
// DefaultMaterial. An unknown or removed Parent makes the entity a root.
func (c *Composer) CreateEntity(desc EntityDesc, motion MotionProfile) EntityID {
	c.nextID++
	id := c.nextID

	parent := desc.Parent
	if p, ok := c.index[parent]; !ok || p.removed {
		parent = 0
	}
	base := desc.Transform
	if base.Scale == (Vec3{}) {
		base.Scale = Vec3{1, 1, 1}
	}
	vis := desc.Visual
	if vis.Material == (Material{}) {
		vis.Material = DefaultMaterial()
	}

	e := &Entity{
		ID:         id,
		Name:       desc.Name,
		Parent:     parent,
		Base:       base,
		Transform:  base,
		Visual:     vis,
		BaseVisual: vis,
		motion:     motion,
		pose:       restPose,
		channels:   newChannelValues(),
		world:      identityMatrix,
	}
	for _, b := range desc.Scroll {
		if b.Channel >= channelCount {
			continue
		}
		sc := scrollChannel{binding: b}
		if b.Spring != nil {
			sc.spring = NewSpring(b.Settled(), *b.Spring)
		}
		e.bindings = append(e.bindings, sc)
	}
	if desc.Trigger != nil {
		trig := *desc.Trigger
		e.trigger = &trig
		if desc.Reveal != nil {
			e.reveal = newReveal(&e.pose, *desc.Reveal)
		}
	}
	for _, lc := range desc.Loops {
		if l := newLoop(lc); l != nil {
			e.loops = append(e.loops, l)
		}
	}

	c.entities = append(c.entities, e)
	c.index[id] = e
	return id
}

// RemoveEntity removes an entity and all of its descendants. It reports
// false when id is unknown or already removed.
func (c *Composer) RemoveEntity(id EntityID) bool {
	e, ok := c.index[id]
	if !ok || e.removed {
		return false
	}
	c.markRemoved(e)
	// Parents always precede their children, so one forward pass finds every
	// descendant.
	for _, x := range c.entities {
		if x.removed || x.Parent == 0 {
			continue
		}
		if p := c.index[x.Parent]; p != nil && p.removed {
			c.markRemoved(x)
		}
	}
	return true
}

func (c *Composer) markRemoved(e *Entity) {
	e.removed = true
	c.pending++
	if c.onRemove != nil {
		c.onRemove(e.ID)
	}
}

// Entity returns the live record for id, or nil.
func (c *Composer) Entity(id EntityID) *Entity {
	e := c.index[id]
	if e == nil || e.removed {
		return nil
	}
	return e
}

// Lookup returns the id of the first live entity named name, or 0.
func (c *Composer) Lookup(name string) EntityID {
	for _, e := range c.entities {
		if !e.removed && e.Name == name {
			return e.ID
		}
	}
	return 0
}

// ForEachEntity calls visit for every live entity in insertion order. An
// entity removed during the walk is not visited afterwards. Panics if visit
// is nil.
func (c *Composer) ForEachEntity(visit func(e *Entity)) {
	if visit == nil {
		panic("driftscape: ForEachEntity called with nil visitor")
	}
	n := len(c.entities)
	for i := 0; i < n; i++ {
		e := c.entities[i]
		if e.removed {
			continue
		}
		visit(e)
	}
}

// Len returns the number of live entities.
func (c *Composer) Len() int {
	return len(c.entities) - c.pending
}

// compact reclaims removed records. Called at the tick boundary only.
func (c *Composer) compact() {
	if c.pending == 0 {
		return
	}
	live := c.entities[:0]
	for _, e := range c.entities {
		if e.removed {
			delete(c.index, e.ID)
			continue
		}
		live = append(live, e)
	}
	for i := len(live); i < len(c.entities); i++ {
		c.entities[i] = nil
	}
	c.entities = live
	c.pending = 0
}

// applyMotion samples every entity's motion profile and resets the channel
// accumulators for the tick.
func (c *Composer) applyMotion(t, dt float64) {
	for _, e := range c.entities {
		if e.removed {
			continue
		}
		e.motionPos, e.motionRot = e.motion.sample(&e.motionSt, t, dt)
		e.channels = newChannelValues()
	}
}

// applyScroll maps the scroll sample through every binding. Unsmoothed
// bindings contribute immediately; smoothed ones only retarget their spring.
// Without scroll support every binding rests on its settled value.
func (c *Composer) applyScroll(sample ScrollSample, supported bool) {
	for _, e := range c.entities {
		if e.removed {
			continue
		}
		for i := range e.bindings {
			b := &e.bindings[i]
			v := b.binding.Settled()
			if supported {
				v = b.binding.Map(sample.Progress)
			}
			switch {
			case b.spring == nil:
				e.channels.apply(b.binding.Channel, v)
			case supported:
				b.spring.SetTarget(v)
			default:
				b.spring.Snap(v)
			}
		}
	}
}

// stepSprings integrates every scroll spring and applies its output. onHeal,
// when non-nil, is told about every spring that had to self-heal. It returns
// the number of springs still moving.
func (c *Composer) stepSprings(dt float64, onHeal func(e *Entity, ch Channel)) (active int) {
	for _, e := range c.entities {
		if e.removed {
			continue
		}
		for i := range e.bindings {
			b := &e.bindings[i]
			if b.spring == nil {
				continue
			}
			v, healed := b.spring.Step(dt)
			if healed && onHeal != nil {
				onHeal(e, b.binding.Channel)
			}
			if !b.spring.Settled() {
				active++
			}
			e.channels.apply(b.binding.Channel, v)
		}
	}
	return active
}

// updateAnimations advances reveals and loops.
func (c *Composer) updateAnimations(dt float64) {
	d := float32(dt)
	for _, e := range c.entities {
		if e.removed {
			continue
		}
		if e.reveal != nil {
			e.reveal.Update(d)
		}
		for _, l := range e.loops {
			e.channels.apply(l.channel, l.update(d))
		}
	}
}

// assemble combines base transform, motion, channels, and reveal pose into
// each entity's local and world transforms and writes the drawable entities
// to f.Items in insertion order. Group entities only contribute their matrix.
func (c *Composer) assemble(f *Frame, view Mat4) {
	f.Items = f.Items[:0]
	for i, e := range c.entities {
		if e.removed {
			continue
		}
		ch := &e.channels
		base := &e.Base
		local := Transform{
			Position: base.Position.Add(e.motionPos).Add(Vec3{
				ch[ChannelParallaxX],
				ch[ChannelParallaxY] + e.pose.OffsetY,
				ch[ChannelParallaxZ],
			}),
			Rotation: Vec3{
				wrapAngle(base.Rotation[0] + e.motionRot[0] + ch[ChannelRotateX]),
				wrapAngle(base.Rotation[1] + e.motionRot[1] + ch[ChannelRotateY]),
				wrapAngle(base.Rotation[2] + e.motionRot[2] + ch[ChannelRotateZ]),
			},
			Scale: base.Scale.Mul(ch[ChannelScale] * e.pose.Scale),
		}
		e.Transform = local
		e.Visual = e.BaseVisual
		e.Visual.Material.Opacity = clamp01(e.BaseVisual.Material.Opacity * ch[ChannelOpacity] * e.pose.Opacity)

		m := local.Matrix()
		if e.Parent != 0 {
			if p := c.index[e.Parent]; p != nil {
				m = p.world.Mul4(m)
			}
		}
		e.world = m

		g := e.Visual.Geometry
		if g == nil || g.Kind() == GeometryGroup {
			continue
		}
		center := m.Col(3).Vec3()
		f.Items = append(f.Items, DrawItem{
			ID:        e.ID,
			Name:      e.Name,
			World:     m,
			Transform: local,
			Visual:    e.Visual,
			Center:    center,
			Radius:    g.BoundingRadius() * worldScale(m),
			Depth:     -transformPoint(view, center)[2],
			order:     i,
		})
	}
}

// worldScale returns the largest axis scale encoded in m.
func worldScale(m Mat4) float64 {
	return maxScale(Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()})
}
