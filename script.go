package driftscape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// scriptStep is a single host action in a script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`

	// scroll
	Offset         float64  `json:"offset,omitempty"`
	ScrollHeight   float64  `json:"scrollHeight,omitempty"`
	ViewportHeight float64  `json:"viewportHeight,omitempty"`
	Progress       *float64 `json:"progress,omitempty"`

	// intersect, remove
	Entity string  `json:"entity,omitempty"`
	Ratio  float64 `json:"ratio,omitempty"`

	// resize
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// wait
	Frames int `json:"frames,omitempty"`
}

// hostScript is the top-level JSON structure for a host script.
type hostScript struct {
	FrameMs int          `json:"frameMs,omitempty"`
	Steps   []scriptStep `json:"steps"`
}

// EntitySnapshot is one entity's assembled state at a snapshot.
type EntitySnapshot struct {
	ID       EntityID `json:"id"`
	Name     string   `json:"name"`
	Position Vec3     `json:"position"`
	Rotation Vec3     `json:"rotation"`
	Scale    Vec3     `json:"scale"`
	Opacity  float64  `json:"opacity"`
}

// Snapshot records the scene state at a "snapshot" step.
type Snapshot struct {
	Label         string           `json:"label"`
	Frame         uint64           `json:"frame"`
	Elapsed       float64          `json:"elapsed"`
	Progress      float64          `json:"progress"`
	CloudRotation Vec3             `json:"cloudRotation"`
	Entities      []EntitySnapshot `json:"entities"`
}

// HostScript replays scroll and intersection input one step per tick, for
// headless runs and tests. Attach to a Scene via SetHostScript.
//
// Actions:
//
//	scroll     offset/scrollHeight/viewportHeight, or progress in [0, 1]
//	intersect  entity (by name) and ratio
//	remove     entity (by name)
//	resize     width and height
//	wait       frames
//	snapshot   label
type HostScript struct {
	steps     []scriptStep
	frameDur  time.Duration
	cursor    int
	waitCount int
	done      bool

	snapshots []Snapshot
	// SnapshotDir, when set, receives one JSON file per snapshot.
	SnapshotDir string
	// OnSnapshot, when set, is called with every snapshot as it is taken.
	OnSnapshot func(Snapshot)
}

// LoadHostScript parses a JSON host script.
func LoadHostScript(jsonData []byte) (*HostScript, error) {
	var script hostScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse host script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse host script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "scroll", "wait", "snapshot", "resize":
		case "intersect", "remove":
			if st.Entity == "" {
				return nil, fmt.Errorf("parse host script: step %d: %s needs an entity", i, st.Action)
			}
		default:
			return nil, fmt.Errorf("parse host script: step %d: unknown action %q", i, st.Action)
		}
	}
	fd := 16 * time.Millisecond
	if script.FrameMs > 0 {
		fd = time.Duration(script.FrameMs) * time.Millisecond
	}
	return &HostScript{steps: script.Steps, frameDur: fd}, nil
}

// SetHostScript attaches a script to the scene. The script's step method is
// called at the start of every tick, before the clock is sampled.
func (s *Scene) SetHostScript(script *HostScript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = script
}

// FrameDuration is the per-frame clock advance the script was written for.
// Hosts driving a ManualClock advance it by this much per frame.
func (r *HostScript) FrameDuration() time.Duration {
	return r.frameDur
}

// Done reports whether all steps in the script have been executed.
func (r *HostScript) Done() bool {
	return r.done
}

// Snapshots returns every snapshot taken so far.
func (r *HostScript) Snapshots() []Snapshot {
	return r.snapshots
}

// step advances the script by one frame. Called from Scene.Tick.
func (r *HostScript) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "scroll":
		if st.Progress != nil {
			p := clamp01(*st.Progress)
			s.scroll.Store(ScrollSample{Offset: st.Offset, Progress: p})
		} else {
			s.scroll.Update(st.Offset, st.ScrollHeight, st.ViewportHeight)
		}
	case "intersect":
		if id := s.composer.Lookup(st.Entity); id != 0 {
			s.viewport.Report(id, st.Ratio)
		} else {
			s.log.Warn().Str("entity", st.Entity).Msg("script: intersect on unknown entity")
		}
	case "remove":
		if id := s.composer.Lookup(st.Entity); id != 0 {
			s.composer.RemoveEntity(id)
		}
	case "resize":
		if st.Width > 0 && st.Height > 0 {
			s.camera.SetViewport(Rect{Width: st.Width, Height: st.Height})
		}
	case "snapshot":
		r.snapshot(s, st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// snapshot records the most recently assembled state of every live entity.
func (r *HostScript) snapshot(s *Scene, label string) {
	snap := Snapshot{
		Label:    label,
		Frame:    s.frame.Number,
		Elapsed:  s.frame.Elapsed,
		Progress: s.scroll.Load().Progress,
	}
	if s.cloud != nil {
		snap.CloudRotation = s.cloud.Rotation()
	}
	s.composer.ForEachEntity(func(e *Entity) {
		snap.Entities = append(snap.Entities, EntitySnapshot{
			ID:       e.ID,
			Name:     e.Name,
			Position: e.Transform.Position,
			Rotation: e.Transform.Rotation,
			Scale:    e.Transform.Scale,
			Opacity:  e.Visual.Material.Opacity,
		})
	})
	r.snapshots = append(r.snapshots, snap)
	if r.OnSnapshot != nil {
		r.OnSnapshot(snap)
	}
	if r.SnapshotDir != "" {
		if err := writeSnapshot(r.SnapshotDir, snap); err != nil {
			s.log.Warn().Err(err).Str("label", label).Msg("script: snapshot not written")
		}
	}
}

func writeSnapshot(dir string, snap Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, SnapshotFileName(time.Now(), snap.Label, "json"))
	return os.WriteFile(path, b, 0o644)
}

// SnapshotFileName builds a timestamped, filesystem-safe file name for a
// labeled capture, e.g. "20260102_150405_hero-top.json".
func SnapshotFileName(at time.Time, label, ext string) string {
	return fmt.Sprintf("%s_%s.%s", at.Format("20060102_150405"), sanitizeLabel(label), ext)
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
