package driftscape

import "time"

// debugMaxEntities is the entity count above which debug mode warns that
// per-tick cost is growing.
const debugMaxEntities = 1000

// debugLog logs per-tick timing and frame stats at debug level. Only called
// when Scene.debug is true.
func (s *Scene) debugLog(info TickInfo) {
	var total time.Duration
	ev := s.log.Debug().
		Uint64("frame", info.Frame).
		Float64("elapsed", info.Elapsed).
		Float64("dt", info.Delta).
		Int("items", len(s.frame.Items)).
		Int("springs_active", s.activeSprings).
		Float64("fps", s.meter.FPS())
	for _, t := range s.sched.Timings() {
		ev = ev.Dur(t.Name, t.Duration)
		total += t.Duration
	}
	ev.Dur("total", total).Msg("tick")

	if n := s.composer.Len(); n > debugMaxEntities {
		s.log.Warn().Int("entities", n).Int("threshold", debugMaxEntities).Msg("entity count exceeds debug threshold")
	}
}
