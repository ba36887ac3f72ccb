package driftscape

import "sync"

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, viewport events are forwarded to the store.
type EntityStore interface {
	EmitEvent(event ViewportEvent)
}

// EntityStoreFunc adapts a function to EntityStore.
type EntityStoreFunc func(event ViewportEvent)

// EmitEvent calls f(event).
func (f EntityStoreFunc) EmitEvent(event ViewportEvent) { f(event) }

// EntityForgetter is implemented by stores that keep per-entity state. The
// scene calls ForgetEntity once for each removed entity, after the viewport
// events of the tick that compacts it.
type EntityForgetter interface {
	ForgetEntity(id EntityID)
}

// --- Handler registry ---

type viewportHandler struct {
	id uint32
	fn func(ViewportEvent)
}

type handlerRegistry struct {
	mu      sync.Mutex
	entered []viewportHandler
	left    []viewportHandler
	nextID  uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.mu.Lock()
	defer h.reg.mu.Unlock()
	switch h.event {
	case EventEnteredViewport:
		h.reg.entered = removeViewportHandler(h.reg.entered, h.id)
	case EventLeftViewport:
		h.reg.left = removeViewportHandler(h.reg.left, h.id)
	}
}

func removeViewportHandler(s []viewportHandler, id uint32) []viewportHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = viewportHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) add(event EventType, fn func(ViewportEvent)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	h := viewportHandler{id: r.nextID, fn: fn}
	switch event {
	case EventEnteredViewport:
		r.entered = append(r.entered, h)
	case EventLeftViewport:
		r.left = append(r.left, h)
	default:
		return CallbackHandle{}
	}
	return CallbackHandle{id: h.id, reg: r, event: event}
}

// dispatch calls every handler registered for ev.Type. Handlers may
// subscribe or remove themselves; the iteration runs over a snapshot.
func (r *handlerRegistry) dispatch(ev ViewportEvent) {
	r.mu.Lock()
	var hs []viewportHandler
	switch ev.Type {
	case EventEnteredViewport:
		hs = r.entered
	case EventLeftViewport:
		hs = r.left
	}
	snapshot := make([]viewportHandler, len(hs))
	copy(snapshot, hs)
	r.mu.Unlock()
	for _, h := range snapshot {
		h.fn(ev)
	}
}

// Subscribe registers fn for events of the given type. Unknown types return
// a zero handle whose Remove is a no-op.
func (s *Scene) Subscribe(event EventType, fn func(ViewportEvent)) CallbackHandle {
	if fn == nil {
		return CallbackHandle{}
	}
	return s.handlers.add(event, fn)
}

// OnEnteredViewport registers fn for enteredViewport events.
func (s *Scene) OnEnteredViewport(fn func(ViewportEvent)) CallbackHandle {
	return s.Subscribe(EventEnteredViewport, fn)
}

// OnLeftViewport registers fn for leftViewport events. One-shot triggers
// never produce them.
func (s *Scene) OnLeftViewport(fn func(ViewportEvent)) CallbackHandle {
	return s.Subscribe(EventLeftViewport, fn)
}
