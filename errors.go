package driftscape

import "errors"

var (
	// ErrRenderUnavailable is returned by Start when the rendering surface
	// cannot be initialised. No frame loop is started.
	ErrRenderUnavailable = errors.New("driftscape: rendering surface unavailable")

	// ErrUnsupported is returned by a host capability (scroll or intersection
	// observation) that the environment does not provide. The scene degrades
	// instead of failing.
	ErrUnsupported = errors.New("driftscape: capability unsupported")

	// ErrStopped is returned by operations on a scene that has been stopped.
	ErrStopped = errors.New("driftscape: scene stopped")
)
