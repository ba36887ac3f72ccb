package driftscape

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// ScrollSource is the host's scroll-offset and document-height primitive.
// SubscribeScroll starts writing samples into cell until cancel is called.
// Returning ErrUnsupported puts the scene in scroll-degraded mode.
type ScrollSource interface {
	SubscribeScroll(cell *ScrollCell) (cancel func(), err error)
}

// ScrollSourceFunc adapts a function to ScrollSource. Scripted hosts that
// write the scroll cell themselves use a no-op function to mark scroll as
// supported.
type ScrollSourceFunc func(cell *ScrollCell) (cancel func(), err error)

// SubscribeScroll calls f(cell).
func (f ScrollSourceFunc) SubscribeScroll(cell *ScrollCell) (func(), error) { return f(cell) }

// IntersectionSource is the host's visibility primitive. Observe starts
// reporting the entity's intersection ratio into m until cancel is called.
// Returning ErrUnsupported puts the scene in trigger-degraded mode.
type IntersectionSource interface {
	Observe(id EntityID, trig Trigger, m *Membership) (cancel func(), err error)
}

// Host bundles the collaborators a scene is mounted on. Only Surface is
// required. A nil Frames means the caller drives Scene.Tick itself; a nil
// Scroll or Intersections source means the capability is unavailable.
type Host struct {
	Surface       Surface
	Frames        FrameSource
	Scroll        ScrollSource
	Intersections IntersectionSource
	// Clock defaults to a MonotonicClock.
	Clock Clock
}

// Option configures a Scene at Start.
type Option func(*Scene)

// WithLogger sets the scene's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// WithEntityStore mirrors viewport events into store from the first tick.
func WithEntityStore(store EntityStore) Option {
	return func(s *Scene) { s.store = store }
}

// triggerMode is how the scene learns entity visibility.
type triggerMode uint8

const (
	triggersHost triggerMode = iota
	triggersProjected
	triggersUnsupported
)

// Scene is a mounted, running decorative scene: the handle returned by
// Start. All methods are safe to call from any goroutine; subscribers run
// on the frame goroutine after the tick's frame has been presented.
type Scene struct {
	mu  sync.Mutex
	log zerolog.Logger

	host     Host
	composer *Composer
	viewport *ViewportController
	scroll   *ScrollCell
	camera   *Camera
	lights   []Light
	cloud    *ParticleCloud
	sched    *Scheduler
	frame    Frame
	meter    FrameMeter

	handlers handlerRegistry
	store    EntityStore
	script   *HostScript

	triggers     triggerMode
	observers    map[EntityID]func()
	cancelFrames func()
	cancelScroll func()
	surfaceReady bool
	stopped      bool
	debug        bool

	events        []ViewportEvent
	removed       []EntityID // awaiting ForgetEntity
	activeSprings int
	heals         int
}

// Start mounts a scene described by cfg on host. A nil cfg uses
// DefaultSceneConfig. If the surface cannot be initialised Start returns an
// error wrapping ErrRenderUnavailable and no frame loop is started. Missing
// scroll or intersection capabilities degrade the scene instead of failing.
// Everything acquired before a failure is released again.
func Start(cfg *SceneConfig, host Host, opts ...Option) (s *Scene, err error) {
	if cfg == nil {
		cfg = DefaultSceneConfig()
	}
	s = &Scene{
		log:       zerolog.Nop(),
		host:      host,
		composer:  NewComposer(),
		viewport:  NewViewportController(),
		scroll:    NewScrollCell(),
		observers: make(map[EntityID]func()),
		debug:     cfg.Debug,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("start scene: %w", err)
	}
	s.composer.onRemove = s.unobserve
	s.setupCamera(cfg)
	s.frame.Camera = s.cameraState()

	if host.Surface == nil {
		return nil, fmt.Errorf("start scene: %w: no surface", ErrRenderUnavailable)
	}
	if err := host.Surface.Init(s.camera.Viewport); err != nil {
		s.log.Error().Err(err).Msg("rendering surface unavailable")
		return nil, fmt.Errorf("start scene: %w: %w", ErrRenderUnavailable, err)
	}
	s.surfaceReady = true
	defer func() {
		if err != nil {
			_ = s.release()
		}
	}()

	s.subscribeScroll()
	s.setupTriggers(cfg)
	for _, lc := range cfg.Lights {
		l, _ := lc.light()
		s.lights = append(s.lights, l)
	}
	if cfg.Particles != nil {
		s.cloud = NewParticleCloud(cfg.Particles.cloud())
	}
	parents := make(map[string]EntityID, len(cfg.Entities))
	for i := range cfg.Entities {
		ec := &cfg.Entities[i]
		desc, motion, berr := ec.build(parents[ec.Parent], i)
		if berr != nil {
			return nil, fmt.Errorf("start scene: entity %q: %w", ec.Name, berr)
		}
		id := s.createEntity(desc, motion)
		if ec.Name != "" {
			parents[ec.Name] = id
		}
	}

	s.sched = NewScheduler(host.Clock, cfg.Scheduler.maxDelta())
	s.sched.SetTimed(s.debug)
	s.addStages()

	if host.Frames != nil {
		cancel, ferr := host.Frames.Register(s.onFrame)
		if ferr != nil {
			s.log.Error().Err(ferr).Msg("frame registration failed")
			return nil, fmt.Errorf("start scene: %w: %w", ErrRenderUnavailable, ferr)
		}
		s.cancelFrames = cancel
	}

	s.log.Info().
		Int("entities", s.composer.Len()).
		Int("particles", s.cloudCount()).
		Bool("scroll", s.scroll.Supported()).
		Str("triggers", s.triggerModeName()).
		Msg("scene started")
	return s, nil
}

func (s *Scene) setupCamera(cfg *SceneConfig) {
	w, h := cfg.Viewport.Width, cfg.Viewport.Height
	if !(w > 0) || !(h > 0) {
		w, h = 1280, 720
	}
	s.camera = NewCamera(Rect{Width: w, Height: h})
	cc := cfg.Camera
	if cc.Position != (Vec3{}) {
		s.camera.Position = cc.Position
	}
	s.camera.Target = cc.Target
	if cc.FovY > 0 {
		s.camera.FovY = cc.FovY
	}
	if cc.Near > 0 {
		s.camera.Near = cc.Near
	}
	if cc.Far > 0 {
		s.camera.Far = cc.Far
	}
	s.camera.MarkDirty()
}

func (s *Scene) subscribeScroll() {
	if s.host.Scroll == nil {
		s.scroll.SetSupported(false)
		s.log.Warn().Msg("scroll observation unavailable; scroll-linked parameters stay settled")
		return
	}
	cancel, err := s.host.Scroll.SubscribeScroll(s.scroll)
	if err != nil {
		s.scroll.SetSupported(false)
		if errors.Is(err, ErrUnsupported) {
			s.log.Warn().Msg("scroll observation unsupported; scroll-linked parameters stay settled")
		} else {
			s.log.Warn().Err(err).Msg("scroll subscription failed; scroll-linked parameters stay settled")
		}
		return
	}
	s.scroll.SetSupported(true)
	s.cancelScroll = cancel
}

func (s *Scene) setupTriggers(cfg *SceneConfig) {
	switch {
	case s.host.Intersections != nil:
		s.triggers = triggersHost
	case cfg.ProjectedTriggers:
		s.triggers = triggersProjected
	default:
		s.degradeTriggers(nil)
	}
}

func (s *Scene) degradeTriggers(err error) {
	if s.triggers == triggersUnsupported {
		return
	}
	s.triggers = triggersUnsupported
	s.viewport.SetUnsupported()
	for id, cancel := range s.observers {
		cancel()
		delete(s.observers, id)
	}
	ev := s.log.Warn()
	if err != nil && !errors.Is(err, ErrUnsupported) {
		ev = ev.Err(err)
	}
	ev.Msg("intersection observation unavailable; triggers default to visible")
}

// createEntity adds an entity and starts observing its trigger.
func (s *Scene) createEntity(desc EntityDesc, motion MotionProfile) EntityID {
	id := s.composer.CreateEntity(desc, motion)
	e := s.composer.Entity(id)
	if e.trigger == nil {
		return id
	}
	m := s.viewport.Observe(id, *e.trigger)
	if s.triggers != triggersHost {
		return id
	}
	cancel, err := s.host.Intersections.Observe(id, *e.trigger, m)
	switch {
	case err == nil:
		if cancel != nil {
			s.observers[id] = cancel
		}
	case errors.Is(err, ErrUnsupported):
		s.degradeTriggers(err)
	default:
		// This entity alone cannot be observed; keep it visible.
		s.log.Warn().Err(err).Uint32("entity", uint32(id)).Msg("observe failed; entity defaults to visible")
		m.forceVisible()
	}
	return id
}

// unobserve releases the host observation of a removed entity.
func (s *Scene) unobserve(id EntityID) {
	if cancel, ok := s.observers[id]; ok {
		cancel()
		delete(s.observers, id)
	}
	s.viewport.Unobserve(id)
	s.removed = append(s.removed, id)
}

// CreateEntity adds an entity to a running scene.
func (s *Scene) CreateEntity(desc EntityDesc, motion MotionProfile) (EntityID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0, ErrStopped
	}
	return s.createEntity(desc, motion), nil
}

// RemoveEntity removes an entity and its descendants. The entity is hidden
// from the next assembled frame on; false means it did not exist.
func (s *Scene) RemoveEntity(id EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	return s.composer.RemoveEntity(id)
}

// ForEachEntity visits every live entity in insertion order.
func (s *Scene) ForEachEntity(visit func(e *Entity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composer.ForEachEntity(visit)
}

// Lookup returns the id of the first entity with the given name, or 0.
func (s *Scene) Lookup(name string) EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composer.Lookup(name)
}

// addStages registers the fixed per-tick order: motion, scroll mapping,
// springs, viewport poll with reveals, particles, assembly, presentation.
func (s *Scene) addStages() {
	s.sched.AddStage(StageMotion, func(ti TickInfo) error {
		s.composer.applyMotion(ti.Elapsed, ti.Delta)
		return nil
	})
	s.sched.AddStage(StageScroll, func(TickInfo) error {
		s.composer.applyScroll(s.scroll.Load(), s.scroll.Supported())
		return nil
	})
	s.sched.AddStage(StageSprings, func(ti TickInfo) error {
		s.activeSprings = s.composer.stepSprings(ti.Delta, s.onSpringHeal)
		return nil
	})
	s.sched.AddStage(StageViewport, func(ti TickInfo) error {
		for _, ev := range s.viewport.Poll(ti.Frame) {
			if ev.Type == EventEnteredViewport {
				s.startReveal(ev.Entity)
			}
			s.events = append(s.events, ev)
		}
		s.composer.updateAnimations(ti.Delta)
		s.camera.update(float32(ti.Delta))
		return nil
	})
	s.sched.AddStage(StageParticles, func(ti TickInfo) error {
		if s.cloud != nil {
			s.cloud.update(ti.Delta)
		}
		return nil
	})
	s.sched.AddStage(StageAssemble, func(ti TickInfo) error {
		s.assemble(ti)
		return nil
	})
	s.sched.AddStage(StagePresent, func(TickInfo) error {
		return s.host.Surface.Present(&s.frame)
	})
}

func (s *Scene) onSpringHeal(e *Entity, ch Channel) {
	s.heals++
	s.log.Warn().
		Uint32("entity", uint32(e.ID)).
		Str("name", e.Name).
		Stringer("channel", ch).
		Msg("spring produced a non-finite value; reset to target")
}

// startReveal begins an entity's reveal on its first entry. In degraded
// trigger mode the reveal jumps to its end so content is never held hidden.
func (s *Scene) startReveal(id EntityID) {
	e := s.composer.Entity(id)
	if e == nil || e.reveal == nil || e.reveal.Started() {
		return
	}
	if s.triggers == triggersUnsupported {
		e.reveal.Finish()
		return
	}
	e.reveal.Start()
}

func (s *Scene) assemble(ti TickInfo) {
	f := &s.frame
	f.Number = ti.Frame
	f.Elapsed = ti.Elapsed
	f.Delta = ti.Delta
	f.Lights = s.lights
	f.Camera = s.cameraState()
	f.ScrollSupported = s.scroll.Supported()
	f.IntersectionSupported = s.triggers != triggersUnsupported
	s.composer.assemble(f, f.Camera.View)
	f.Cloud = nil
	if s.cloud != nil {
		f.cloud = CloudItem{
			Positions: s.cloud.Positions(),
			World:     s.cloud.Matrix(),
			Material:  s.cloud.material,
			Size:      s.cloud.size,
		}
		f.Cloud = &f.cloud
	}
	if s.triggers == triggersProjected {
		s.observeProjected()
	}
}

// observeProjected reports each triggered entity's intersection with the
// viewport by projecting its bounding sphere through the camera. The reports
// are polled on the next tick, like those of an asynchronous observer.
func (s *Scene) observeProjected() {
	vp := s.camera.Viewport
	s.composer.ForEachEntity(func(e *Entity) {
		if e.trigger == nil {
			return
		}
		r := 0.5
		if g := e.BaseVisual.Geometry; g != nil && g.BoundingRadius() > 0 {
			r = g.BoundingRadius() * maxScale(e.Base.Scale)
		}
		bounds := s.camera.ScreenBounds(e.world.Col(3).Vec3(), r)
		s.viewport.Report(e.ID, IntersectionRatio(bounds, vp, e.trigger.RootMargin))
	})
}

func (s *Scene) cameraState() CameraState {
	return CameraState{
		Position:   s.camera.Position,
		View:       s.camera.View(),
		Projection: s.camera.Projection(),
		Viewport:   s.camera.Viewport,
		FovY:       s.camera.FovY,
	}
}

func (s *Scene) onFrame() {
	if err := s.Tick(); err != nil && !errors.Is(err, ErrStopped) {
		s.log.Warn().Err(err).Msg("tick failed")
	}
}

// Tick runs one frame: it samples the clock once, runs every stage in order,
// presents the frame, then delivers the tick's viewport events to the entity
// store and subscribers. Hosts with a FrameSource never call it directly.
func (s *Scene) Tick() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	s.composer.compact()
	if s.script != nil {
		s.script.step(s)
	}
	s.events = s.events[:0]
	info, err := s.sched.Tick()
	s.meter.Observe(info.Delta)
	if s.debug {
		s.debugLog(info)
	}
	var events []ViewportEvent
	if len(s.events) > 0 {
		events = slices.Clone(s.events)
	}
	var removed []EntityID
	if len(s.removed) > 0 {
		removed = slices.Clone(s.removed)
		s.removed = s.removed[:0]
	}
	store := s.store
	s.mu.Unlock()

	for _, ev := range events {
		s.log.Debug().
			Stringer("event", ev.Type).
			Uint32("entity", uint32(ev.Entity)).
			Float64("ratio", ev.Ratio).
			Msg("viewport")
		if store != nil {
			store.EmitEvent(ev)
		}
		s.handlers.dispatch(ev)
	}
	if f, ok := store.(EntityForgetter); ok {
		for _, id := range removed {
			f.ForgetEntity(id)
		}
	}
	if err != nil {
		return fmt.Errorf("tick %d: %w", info.Frame, err)
	}
	return nil
}

// Stop unmounts the scene. The frame registration, the scroll subscription,
// every intersection observation, and the surface are released together.
// Stop is idempotent; only the first call can return an error (from closing
// the surface).
func (s *Scene) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	err := s.release()
	s.log.Info().Uint64("frames", s.sched.Frame()).Msg("scene stopped")
	return err
}

// release tears down every host registration acquired so far.
func (s *Scene) release() error {
	if s.cancelFrames != nil {
		s.cancelFrames()
		s.cancelFrames = nil
	}
	if s.cancelScroll != nil {
		s.cancelScroll()
		s.cancelScroll = nil
	}
	for id, cancel := range s.observers {
		cancel()
		delete(s.observers, id)
	}
	if s.surfaceReady {
		s.surfaceReady = false
		if err := s.host.Surface.Close(); err != nil {
			return fmt.Errorf("close surface: %w", err)
		}
	}
	return nil
}

// Stopped reports whether Stop has been called.
func (s *Scene) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Scroll returns the scene's scroll cell. Hosts without a ScrollSource may
// write to it directly after calling SetSupported(true).
func (s *Scene) Scroll() *ScrollCell {
	return s.scroll
}

// Viewport returns the scene's viewport controller.
func (s *Scene) Viewport() *ViewportController {
	return s.viewport
}

// Camera returns the scene camera. Mutate it only from subscribers or
// between ticks, and call MarkDirty afterwards.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// SetViewport resizes the output, e.g. when the host window changes size.
func (s *Scene) SetViewport(vp Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.SetViewport(vp)
}

// Cloud returns the particle cloud, or nil when the scene has none.
func (s *Scene) Cloud() *ParticleCloud {
	return s.cloud
}

// Frame returns the most recently assembled frame. It is overwritten by the
// next tick and must only be read between ticks.
func (s *Scene) Frame() *Frame {
	return &s.frame
}

// ScrollSupported reports whether scroll observation is available.
func (s *Scene) ScrollSupported() bool {
	return s.scroll.Supported()
}

// IntersectionSupported reports whether viewport triggers are observed at
// all; false means every trigger is permanently Visible.
func (s *Scene) IntersectionSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggers != triggersUnsupported
}

// SpringResets returns how many spring self-heals have happened.
func (s *Scene) SpringResets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heals
}

// FPS returns the measured tick rate.
func (s *Scene) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meter.FPS()
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, per-stage
// timings and frame stats are logged at debug level every tick.
func (s *Scene) SetDebugMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = enabled
	s.sched.SetTimed(enabled)
}

// Logger returns the scene's logger.
func (s *Scene) Logger() zerolog.Logger {
	return s.log
}

func (s *Scene) cloudCount() int {
	if s.cloud == nil {
		return 0
	}
	return s.cloud.Count()
}

func (s *Scene) triggerModeName() string {
	switch s.triggers {
	case triggersHost:
		return "host"
	case triggersProjected:
		return "projected"
	default:
		return "unsupported"
	}
}

