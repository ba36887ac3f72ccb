package driftscape

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// CloudConfig controls how a ParticleCloud is generated and drifts.
type CloudConfig struct {
	// Count is the number of points. Non-positive counts give an empty cloud.
	Count int
	// HalfExtent is half the edge length of the cube the points fill.
	HalfExtent float64
	// Rate is the bulk rotation speed per axis in radians per second.
	Rate Vec3
	// Seed makes generation reproducible. Zero picks a random seed.
	Seed uint64
	// Material is used for the point sprites.
	Material Material
	// Size is the point sprite size in world units.
	Size float64
}

// ParticleCloud is a fixed set of points that drift together. Positions are
// generated once and never rewritten; each tick only the cloud's aggregate
// rotation changes, so per-frame cost is independent of Count.
type ParticleCloud struct {
	positions  []Vec3
	halfExtent float64
	rate       Vec3
	rotation   Vec3
	material   Material
	size       float64
}

// NewParticleCloud generates cfg.Count points uniformly inside the cube
// [-HalfExtent, HalfExtent]³.
func NewParticleCloud(cfg CloudConfig) *ParticleCloud {
	n := cfg.Count
	if n < 0 {
		n = 0
	}
	h := cfg.HalfExtent
	if !isFinite(h) || h < 0 {
		h = 0
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	span := Range{-h, h}
	positions := make([]Vec3, n)
	for i := range positions {
		positions[i] = Vec3{span.random(rng), span.random(rng), span.random(rng)}
	}
	for i := 0; i < 3; i++ {
		if !isFinite(cfg.Rate[i]) {
			cfg.Rate[i] = 0
		}
	}
	return &ParticleCloud{
		positions:  positions,
		halfExtent: h,
		rate:       cfg.Rate,
		material:   cfg.Material,
		size:       cfg.Size,
	}
}

// update advances the bulk rotation by dt seconds.
func (c *ParticleCloud) update(dt float64) {
	if !(dt > 0) || !isFinite(dt) {
		return
	}
	for i := 0; i < 3; i++ {
		if c.rate[i] != 0 {
			c.rotation[i] = wrapAngle(c.rotation[i] + c.rate[i]*dt)
		}
	}
}

// Positions returns the cloud's points in cloud-local space. The slice is
// shared with the cloud and MUST NOT be mutated.
func (c *ParticleCloud) Positions() []Vec3 {
	return c.positions
}

// Count returns the number of points.
func (c *ParticleCloud) Count() int {
	return len(c.positions)
}

// HalfExtent returns the half edge length of the bounding cube.
func (c *ParticleCloud) HalfExtent() float64 {
	return c.halfExtent
}

// Rotation returns the cloud's current aggregate rotation (radians per axis,
// each in [0, 2π)).
func (c *ParticleCloud) Rotation() Vec3 {
	return c.rotation
}

// Matrix returns the cloud's model matrix.
func (c *ParticleCloud) Matrix() Mat4 {
	return Transform{Rotation: c.rotation, Scale: Vec3{1, 1, 1}}.Matrix()
}

// Checksum hashes the raw bits of every position. Two calls return the same
// value for as long as the positions are untouched.
func (c *ParticleCloud) Checksum() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, p := range c.positions {
		for _, v := range p {
			b := math.Float64bits(v)
			for i := range buf {
				buf[i] = byte(b >> (8 * i))
			}
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}

// random returns a value in [Min, Max) drawn from rng.
func (r Range) random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Random returns a random float64 in [Min, Max) from the global source.
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
