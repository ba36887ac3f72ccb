package driftscape

import (
	"math"
	"testing"
)

func TestParticleCloudBounds(t *testing.T) {
	c := NewParticleCloud(CloudConfig{Count: 5000, HalfExtent: 10, Seed: 42})
	if c.Count() != 5000 {
		t.Fatalf("Count = %d, want 5000", c.Count())
	}
	for i, p := range c.Positions() {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < -10 || p[axis] >= 10 {
				t.Fatalf("point %d axis %d = %v outside [-10, 10)", i, axis, p[axis])
			}
		}
	}
}

func TestParticleCloudPositionsStable(t *testing.T) {
	c := NewParticleCloud(CloudConfig{Count: 1000, HalfExtent: 5, Rate: Vec3{0.03, 0.03, 0}, Seed: 7})
	before := c.Checksum()
	for i := 0; i < 600; i++ {
		c.update(1.0 / 60)
	}
	if after := c.Checksum(); after != before {
		t.Errorf("checksum changed across ticks: %x -> %x", before, after)
	}
	rot := c.Rotation()
	if !approxEqual(rot[0], 0.3, 1e-9) || !approxEqual(rot[1], 0.3, 1e-9) || rot[2] != 0 {
		t.Errorf("rotation after 10s = %v, want (0.3, 0.3, 0)", rot)
	}
}

func TestParticleCloudSeeded(t *testing.T) {
	a := NewParticleCloud(CloudConfig{Count: 100, HalfExtent: 1, Seed: 99})
	b := NewParticleCloud(CloudConfig{Count: 100, HalfExtent: 1, Seed: 99})
	if a.Checksum() != b.Checksum() {
		t.Error("same seed produced different clouds")
	}
	c := NewParticleCloud(CloudConfig{Count: 100, HalfExtent: 1, Seed: 100})
	if a.Checksum() == c.Checksum() {
		t.Error("different seeds produced identical clouds")
	}
}

func TestParticleCloudDegenerate(t *testing.T) {
	c := NewParticleCloud(CloudConfig{Count: -5, HalfExtent: math.NaN(), Rate: Vec3{math.Inf(1), 1, 0}})
	if c.Count() != 0 || c.HalfExtent() != 0 {
		t.Errorf("Count = %d HalfExtent = %v, want 0 and 0", c.Count(), c.HalfExtent())
	}
	c.update(1)
	if r := c.Rotation(); r[0] != 0 || !approxEqual(r[1], 1, epsilon) {
		t.Errorf("rotation = %v, non-finite rate should be dropped", r)
	}
	c.update(math.NaN())
	c.update(-1)
	if r := c.Rotation(); !approxEqual(r[1], 1, epsilon) {
		t.Errorf("bad deltas advanced rotation to %v", r)
	}
}

func TestParticleCloudWraps(t *testing.T) {
	c := NewParticleCloud(CloudConfig{Count: 1, Rate: Vec3{1, 0, 0}, Seed: 1})
	for i := 0; i < 100; i++ {
		c.update(0.25)
	}
	if r := c.Rotation()[0]; r < 0 || r >= 2*math.Pi {
		t.Errorf("rotation %v not wrapped", r)
	}
}

func TestRangeRandom(t *testing.T) {
	r := Range{Min: 2, Max: 3}
	for i := 0; i < 100; i++ {
		if v := r.Random(); v < 2 || v >= 3 {
			t.Fatalf("Random = %v outside [2, 3)", v)
		}
	}
	if v := (Range{Min: 4, Max: 4}).Random(); v != 4 {
		t.Errorf("degenerate range = %v", v)
	}
}
