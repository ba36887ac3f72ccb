package driftscape

import (
	"os"
	"strings"
	"testing"
	"time"
)

const walkthrough = `{
  "frameMs": 100,
  "steps": [
    {"action": "snapshot", "label": "start"},
    {"action": "scroll", "progress": 0.5},
    {"action": "intersect", "entity": "card", "ratio": 0.8},
    {"action": "wait", "frames": 3},
    {"action": "snapshot", "label": "after wait"},
    {"action": "remove", "entity": "orb"},
    {"action": "resize", "width": 640, "height": 480},
    {"action": "snapshot", "label": "end"}
  ]
}`

func runScript(t *testing.T, s *Scene, clock *ManualClock, script *HostScript, limit int) int {
	t.Helper()
	n := 0
	for !script.Done() && n < limit {
		clock.Advance(script.FrameDuration())
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		n++
	}
	return n
}

func TestHostScriptWalkthrough(t *testing.T) {
	script, err := LoadHostScript([]byte(walkthrough))
	if err != nil {
		t.Fatal(err)
	}
	if script.FrameDuration() != 100*time.Millisecond {
		t.Errorf("FrameDuration = %v", script.FrameDuration())
	}
	dir := t.TempDir()
	script.SnapshotDir = dir
	var seen []string
	script.OnSnapshot = func(snap Snapshot) { seen = append(seen, snap.Label) }

	s, clock := startTestScene(t, testSceneConfig(), Host{
		Surface:       &fakeSurface{},
		Scroll:        &fakeScroll{},
		Intersections: newFakeObserver(),
	})
	s.SetHostScript(script)

	// snapshot, scroll, intersect, 3 waits, snapshot, remove, resize, snapshot
	if n := runScript(t, s, clock, script, 100); n != 10 {
		t.Errorf("script ran %d ticks, want 10", n)
	}
	if strings.Join(seen, "|") != "start|after wait|end" {
		t.Errorf("OnSnapshot labels = %v", seen)
	}

	snaps := script.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snaps))
	}
	// a snapshot records the frame assembled on the previous tick
	if snaps[0].Frame != 0 || snaps[1].Frame != 6 || snaps[2].Frame != 9 {
		t.Errorf("frames = %d, %d, %d", snaps[0].Frame, snaps[1].Frame, snaps[2].Frame)
	}
	if snaps[1].Progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", snaps[1].Progress)
	}
	mid := snaps[1].Entities
	if len(mid) != 2 || mid[0].Name != "card" || mid[1].Name != "orb" {
		t.Fatalf("entities = %+v", mid)
	}
	// revealed for four 100ms ticks of a linear 1s reveal
	if !approxEqual(mid[0].Opacity, 0.4, 1e-6) {
		t.Errorf("card opacity = %v, want 0.4", mid[0].Opacity)
	}
	if !approxEqual(mid[1].Opacity, 0.5, 1e-9) {
		t.Errorf("orb opacity = %v, want 0.5", mid[1].Opacity)
	}
	if end := snaps[2].Entities; len(end) != 1 || end[0].Name != "card" {
		t.Errorf("entities after remove = %+v", end)
	}
	if s.Camera().Viewport != (Rect{Width: 640, Height: 480}) {
		t.Errorf("viewport = %+v", s.Camera().Viewport)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("snapshot files = %d, want 3", len(files))
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".json") {
			t.Errorf("unexpected file %s", f.Name())
		}
	}
}

func TestHostScriptScrollOffsets(t *testing.T) {
	script, err := LoadHostScript([]byte(`{"steps": [
		{"action": "scroll", "offset": 350, "scrollHeight": 2000, "viewportHeight": 600}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if script.FrameDuration() != 16*time.Millisecond {
		t.Errorf("default FrameDuration = %v", script.FrameDuration())
	}
	s, clock := startTestScene(t, testSceneConfig(), Host{Surface: &fakeSurface{}, Scroll: &fakeScroll{}})
	s.SetHostScript(script)
	runScript(t, s, clock, script, 10)
	if got := s.Scroll().Load(); got.Offset != 350 || got.Progress != 0.25 {
		t.Errorf("scroll = %+v", got)
	}
}

func TestHostScriptUnknownEntity(t *testing.T) {
	script, err := LoadHostScript([]byte(`{"steps": [
		{"action": "intersect", "entity": "ghost", "ratio": 1},
		{"action": "remove", "entity": "ghost"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s, clock := startTestScene(t, testSceneConfig(), Host{Surface: &fakeSurface{}})
	s.SetHostScript(script)
	runScript(t, s, clock, script, 10)
	if !script.Done() {
		t.Error("script should finish")
	}
	if s.Lookup("card") == 0 || s.Lookup("orb") == 0 {
		t.Error("unknown entity steps must not touch live entities")
	}
}

func TestLoadHostScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"bad json", `{"steps": [`, "parse host script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "jump"}]}`, `unknown action "jump"`},
		{"intersect without entity", `{"steps": [{"action": "intersect", "ratio": 1}]}`, "intersect needs an entity"},
		{"remove without entity", `{"steps": [{"action": "wait"}, {"action": "remove"}]}`, "step 1: remove needs an entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadHostScript([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSnapshotFileName(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := SnapshotFileName(at, "hero top/1", "png"); got != "20260102_150405_hero_top_1.png" {
		t.Errorf("SnapshotFileName = %q", got)
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hero-top", "hero-top"},
		{"  ", "unlabeled"},
		{"", "unlabeled"},
		{"a/b\\c:d", "a_b_c_d"},
		{"v1.2", "v1.2"},
		{"ünï", "_n_"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
