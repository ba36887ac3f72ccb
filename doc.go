// Package driftscape drives a decorative, scroll-reactive 3D background
// scene: floating shapes, a particle starfield, parallax and fades linked to
// page scroll, and entrance reveals fired when entities enter the viewport.
//
// The package owns the animation state only. Everything that touches the
// outside world is a collaborator passed in a [Host]: a [Surface] that draws
// assembled frames, a [FrameSource] that calls back once per displayed frame,
// and optional [ScrollSource] and [IntersectionSource] capabilities. Ready
// made hosts live in sub-packages: ebitenview (desktop window), termview
// (terminal) and wsbridge (a browser page over a WebSocket).
//
// # Quick start
//
//	scene, err := driftscape.Start(driftscape.DefaultSceneConfig(), driftscape.Host{
//		Surface: surface,
//		Frames:  driftscape.TickerSource{FPS: 60},
//	}, driftscape.WithLogger(log))
//	if err != nil {
//		return err // wraps ErrRenderUnavailable when the surface failed
//	}
//	defer scene.Stop()
//
// Scenes are described declaratively by a [SceneConfig], which round-trips
// through YAML with [LoadConfig] and [SaveConfig].
//
// # Tick pipeline
//
// Every tick samples the [Clock] once and runs a fixed pipeline:
//
//  1. motion: float oscillators, spins and turns ([MotionProfile])
//  2. scroll: the latest [ScrollSample] mapped through every [ScrollBinding]
//  3. springs: smoothed bindings step toward their targets ([Spring])
//  4. viewport: trigger memberships are polled; first entries start reveals
//  5. particles: the [ParticleCloud] rotates
//  6. assemble: local and world transforms, effective opacity, [Frame.Items]
//  7. present: the frame is handed to the surface
//
// Viewport events are delivered after present, outside the scene lock, to
// the [EntityStore] and to handlers registered with [Scene.OnEnteredViewport]
// and [Scene.OnLeftViewport]. Handlers may call [Scene.Stop].
//
// # Degraded hosts
//
// A missing or unsupported scroll source leaves every scroll-linked value at
// its settled start. A missing intersection source either projects entity
// bounds through the camera ([SceneConfig.ProjectedTriggers]) or, failing
// that, treats every trigger as visible so no content stays hidden.
//
// # Replays
//
// A [HostScript] replays scroll and intersection input one step per tick and
// records [Snapshot]s, for headless runs and regression tests.
package driftscape
