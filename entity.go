package driftscape

// EntityID identifies an entity within one Composer. IDs are never reused
// for the lifetime of the composer; 0 is never a valid ID.
type EntityID uint32

// EntityDesc is the static description of an entity, accepted at creation.
type EntityDesc struct {
	Name string
	// Parent, when non-zero, makes this entity's transform relative to the
	// parent's world transform. The parent must already exist.
	Parent    EntityID
	Transform Transform
	Visual    Visual
	// Scroll bindings are applied in order each tick.
	Scroll []ScrollBinding
	// Trigger, when set, registers the entity with the viewport controller.
	Trigger *Trigger
	// Reveal animates the entity in when its trigger first reports Visible.
	// Ignored without a Trigger.
	Reveal *RevealConfig
	// Loops run continuously from scene start.
	Loops []LoopConfig
}

// Entity is the per-entity record owned by a Composer. The exported fields
// reflect the state assembled on the most recent tick; callers MUST NOT
// mutate them.
type Entity struct {
	ID     EntityID
	Name   string
	Parent EntityID

	// Base is the transform the entity was created with.
	Base Transform
	// Transform is the local transform after motion, scroll, reveal, and
	// loop contributions for the current tick.
	Transform Transform
	// Visual is the effective visual for the current tick (opacity already
	// multiplied by scroll and reveal factors).
	Visual Visual
	// BaseVisual is the visual the entity was created with.
	BaseVisual Visual

	motion   MotionProfile
	motionSt motionState

	bindings []scrollChannel
	reveal   *TweenGroup
	pose     RevealPose
	loops    []*loopChannel
	trigger  *Trigger

	// per-tick scratch
	motionPos Vec3
	motionRot Vec3
	channels  channelValues

	world   Mat4
	removed bool
}

// scrollChannel is a ScrollBinding plus its optional smoothing spring.
type scrollChannel struct {
	binding ScrollBinding
	spring  *Spring
}

// World returns the entity's world matrix from the most recent tick.
func (e *Entity) World() Mat4 {
	return e.world
}

// Motion returns the entity's immutable motion profile.
func (e *Entity) Motion() MotionProfile {
	return e.motion
}

// Removed reports whether the entity has been removed. Removed entities are
// skipped by every traversal even before their storage is reclaimed.
func (e *Entity) Removed() bool {
	return e.removed
}

// Springs returns the smoothing springs of the entity's scroll bindings, in
// binding order. Bindings without smoothing contribute nil.
func (e *Entity) Springs() []*Spring {
	out := make([]*Spring, len(e.bindings))
	for i, b := range e.bindings {
		out[i] = b.spring
	}
	return out
}

// Reveal returns the entity's reveal group, or nil.
func (e *Entity) Reveal() *TweenGroup {
	return e.reveal
}

// Pose returns the entity's current reveal pose. Entities without a reveal
// rest at opacity 1, offset 0, scale 1.
func (e *Entity) Pose() RevealPose {
	return e.pose
}

// Trigger returns the entity's viewport trigger, or nil.
func (e *Entity) Trigger() *Trigger {
	return e.trigger
}
