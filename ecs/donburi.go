package ecs

import (
	"sync"

	"github.com/hashhawks/driftscape"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ViewportEventType is the Donburi event type for driftscape viewport events.
// Subscribe to this in your ECS systems to receive enter and leave transitions.
var ViewportEventType = events.NewEventType[driftscape.ViewportEvent]()

// VisibilityData mirrors the last known viewport state of a scene entity.
type VisibilityData struct {
	Entity  driftscape.EntityID
	Visible bool
	Ratio   float64
	// Frame is the scene frame of the last transition.
	Frame uint64
	// Entries counts enteredViewport events seen for the entity.
	Entries int
}

// Visibility is attached to one Donburi entity per observed scene entity.
var Visibility = donburi.NewComponentType[VisibilityData]()

// DonburiStore is an EntityStore backed by a Donburi world.
type DonburiStore struct {
	mu    sync.Mutex
	world donburi.World
	byID  map[driftscape.EntityID]donburi.Entity
	query *donburi.Query
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Viewport events are published to ViewportEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{
		world: world,
		byID:  make(map[driftscape.EntityID]donburi.Entity),
		query: donburi.NewQuery(filter.Contains(Visibility)),
	}
}

// EmitEvent publishes the event and updates the entity's Visibility component.
func (s *DonburiStore) EmitEvent(event driftscape.ViewportEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[event.Entity]
	if !ok || !s.world.Valid(e) {
		e = s.world.Create(Visibility)
		s.byID[event.Entity] = e
	}
	entry := s.world.Entry(e)
	v := Visibility.Get(entry)
	v.Entity = event.Entity
	v.Visible = event.Type == driftscape.EventEnteredViewport
	v.Ratio = event.Ratio
	v.Frame = event.Frame
	if v.Visible {
		v.Entries++
	}

	ViewportEventType.Publish(s.world, event)
}

// Entity returns the Donburi entity mirroring a scene entity.
func (s *DonburiStore) Entity(id driftscape.EntityID) (donburi.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	return e, ok && s.world.Valid(e)
}

// VisibleCount returns how many mirrored entities are currently visible.
func (s *DonburiStore) VisibleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	s.query.Each(s.world, func(entry *donburi.Entry) {
		if Visibility.Get(entry).Visible {
			n++
		}
	})
	return n
}

// ForgetEntity removes the mirror of a scene entity. A Scene calls it for
// every removed entity.
func (s *DonburiStore) ForgetEntity(id driftscape.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.byID[id]; ok {
		if s.world.Valid(e) {
			s.world.Remove(e)
		}
		delete(s.byID, id)
	}
}
