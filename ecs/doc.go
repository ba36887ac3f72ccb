// Package ecs provides ECS adapters for driftscape's viewport events.
//
// The primary adapter is [NewDonburiStore], which bridges enteredViewport and
// leftViewport events into a [Donburi] world. Every event is published as a
// typed event on [ViewportEventType], and the store mirrors each observed
// scene entity as a Donburi entity carrying a [Visibility] component, so ECS
// systems can either react to transitions or query the current state.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
