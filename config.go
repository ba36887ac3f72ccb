package driftscape

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// SceneConfig is the declarative description of a scene accepted by Start.
// It round-trips through YAML.
type SceneConfig struct {
	Viewport  ViewportConfig   `yaml:"viewport"`
	Camera    CameraConfig     `yaml:"camera"`
	Lights    []LightConfig    `yaml:"lights,omitempty"`
	Entities  []EntityConfig   `yaml:"entities"`
	Particles *ParticlesConfig `yaml:"particles,omitempty"`
	Scheduler SchedulerConfig  `yaml:"scheduler"`

	// ProjectedTriggers makes the scene observe its own triggers by projecting
	// entity bounds through the camera when the host has no intersection source.
	ProjectedTriggers bool `yaml:"projected_triggers"`
	Debug             bool `yaml:"debug"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CameraConfig struct {
	Position Vec3    `yaml:"position"`
	Target   Vec3    `yaml:"target"`
	FovY     float64 `yaml:"fov_y"`
	Near     float64 `yaml:"near,omitempty"`
	Far      float64 `yaml:"far,omitempty"`
}

type LightConfig struct {
	Kind      string  `yaml:"kind"` // "ambient" | "point"
	Position  Vec3    `yaml:"position,omitempty"`
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

type SchedulerConfig struct {
	FPS        int `yaml:"fps"`
	MaxDeltaMs int `yaml:"max_delta_ms"`
}

type ParticlesConfig struct {
	Count      int     `yaml:"count"`
	HalfExtent float64 `yaml:"half_extent"`
	Rate       Vec3    `yaml:"rate"`
	Seed       uint64  `yaml:"seed,omitempty"`
	Color      string  `yaml:"color"`
	Opacity    float64 `yaml:"opacity"`
	Size       float64 `yaml:"size"`
}

type EntityConfig struct {
	Name string `yaml:"name"`
	// Parent names an entity declared earlier in the list.
	Parent   string         `yaml:"parent,omitempty"`
	Position Vec3           `yaml:"position"`
	Rotation Vec3           `yaml:"rotation,omitempty"`
	Scale    float64        `yaml:"scale,omitempty"` // uniform; 0 means 1
	Geometry GeometryConfig `yaml:"geometry"`
	Material MaterialConfig `yaml:"material,omitempty"`
	Motion   MotionConfig   `yaml:"motion,omitempty"`
	Scroll   []ScrollConfig `yaml:"scroll,omitempty"`
	Trigger  *TriggerConfig `yaml:"trigger,omitempty"`
	Reveal   *RevealYAML    `yaml:"reveal,omitempty"`
	Loops    []LoopYAML     `yaml:"loops,omitempty"`
}

type GeometryConfig struct {
	Kind            string  `yaml:"kind"`
	Width           float64 `yaml:"width,omitempty"`
	Height          float64 `yaml:"height,omitempty"`
	Depth           float64 `yaml:"depth,omitempty"`
	Radius          float64 `yaml:"radius,omitempty"`
	RadiusTop       float64 `yaml:"radius_top,omitempty"`
	RadiusBottom    float64 `yaml:"radius_bottom,omitempty"`
	Tube            float64 `yaml:"tube,omitempty"`
	Detail          int     `yaml:"detail,omitempty"`
	Segments        int     `yaml:"segments,omitempty"`
	RadialSegments  int     `yaml:"radial_segments,omitempty"`
	TubularSegments int     `yaml:"tubular_segments,omitempty"`
}

type MaterialConfig struct {
	Color             string   `yaml:"color,omitempty"`
	Emissive          string   `yaml:"emissive,omitempty"`
	EmissiveIntensity float64  `yaml:"emissive_intensity,omitempty"`
	Opacity           *float64 `yaml:"opacity,omitempty"` // nil means 1
	Transparent       bool     `yaml:"transparent,omitempty"`
	Wireframe         bool     `yaml:"wireframe,omitempty"`
	Metalness         float64  `yaml:"metalness,omitempty"`
	Roughness         *float64 `yaml:"roughness,omitempty"` // nil means 1
}

type OscillatorConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Phase     float64 `yaml:"phase,omitempty"`
}

type MotionConfig struct {
	Float [3]OscillatorConfig `yaml:"float,omitempty"`
	Spin  Vec3                `yaml:"spin,omitempty"`
	Turn  Vec3                `yaml:"turn,omitempty"`
}

type ScrollConfig struct {
	Channel string        `yaml:"channel"`
	Domain  [2]float64    `yaml:"domain"`
	Range   [2]float64    `yaml:"range"`
	Spring  *SpringConfig `yaml:"spring,omitempty"`
}

type TriggerConfig struct {
	Threshold  float64 `yaml:"threshold"`
	Once       *bool   `yaml:"once"` // required
	RootMargin float64 `yaml:"root_margin,omitempty"`
}

type RevealYAML struct {
	Duration    float32  `yaml:"duration"`
	Delay       float32  `yaml:"delay,omitempty"`
	Stagger     float32  `yaml:"stagger,omitempty"` // added per entity index within the list
	FromOpacity float64  `yaml:"from_opacity"`
	FromOffsetY float64  `yaml:"from_offset_y,omitempty"`
	FromScale   *float64 `yaml:"from_scale,omitempty"`
	Ease        string   `yaml:"ease,omitempty"`
}

type LoopYAML struct {
	Channel   string    `yaml:"channel"`
	Keyframes []float64 `yaml:"keyframes"`
	Duration  float32   `yaml:"duration"`
	Ease      string    `yaml:"ease,omitempty"`
}

// MarshalYAML writes the integrator by name.
func (i Integrator) MarshalYAML() (any, error) {
	if i == IntegratorAnalytic {
		return "analytic", nil
	}
	return "euler", nil
}

// UnmarshalYAML reads "euler" or "analytic".
func (i *Integrator) UnmarshalYAML(n *yaml.Node) error {
	switch strings.ToLower(n.Value) {
	case "", "euler":
		*i = IntegratorEuler
	case "analytic":
		*i = IntegratorAnalytic
	default:
		return fmt.Errorf("line %d: unknown integrator %q", n.Line, n.Value)
	}
	return nil
}

// SpringConfig is embedded in YAML with snake_case keys.
func (c SpringConfig) MarshalYAML() (any, error) {
	return struct {
		Stiffness  float64    `yaml:"stiffness,omitempty"`
		Damping    float64    `yaml:"damping,omitempty"`
		RestDelta  float64    `yaml:"rest_delta,omitempty"`
		Integrator Integrator `yaml:"integrator"`
	}{c.Stiffness, c.Damping, c.RestDelta, c.Integrator}, nil
}

func (c *SpringConfig) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Stiffness  float64    `yaml:"stiffness"`
		Damping    float64    `yaml:"damping"`
		RestDelta  float64    `yaml:"rest_delta"`
		Integrator Integrator `yaml:"integrator"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*c = SpringConfig{raw.Stiffness, raw.Damping, raw.RestDelta, raw.Integrator}
	return nil
}

// LoadConfig reads a YAML scene config from path.
func LoadConfig(path string) (*SceneConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes and validates a YAML scene config.
func ParseConfig(data []byte) (*SceneConfig, error) {
	var c SceneConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse scene config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(path string, c *SceneConfig) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks every name and reference in the config. It reports all
// problems at once.
func (c *SceneConfig) Validate() error {
	var errs []error
	for i, l := range c.Lights {
		if _, err := l.light(); err != nil {
			errs = append(errs, fmt.Errorf("lights[%d]: %w", i, err))
		}
	}
	if c.Particles != nil && c.Particles.Color != "" {
		if _, err := ParseColor(c.Particles.Color); err != nil {
			errs = append(errs, fmt.Errorf("particles: %w", err))
		}
	}
	seen := make(map[string]bool, len(c.Entities))
	for i := range c.Entities {
		ec := &c.Entities[i]
		if ec.Parent != "" && !seen[ec.Parent] {
			errs = append(errs, fmt.Errorf("entities[%d] %q: parent %q is not declared before it", i, ec.Name, ec.Parent))
		}
		if _, _, err := ec.build(0, i); err != nil {
			errs = append(errs, fmt.Errorf("entities[%d] %q: %w", i, ec.Name, err))
		}
		if ec.Name != "" {
			seen[ec.Name] = true
		}
	}
	return errors.Join(errs...)
}

// maxDelta returns the configured clamp, or zero for the default.
func (s SchedulerConfig) maxDelta() time.Duration {
	return time.Duration(s.MaxDeltaMs) * time.Millisecond
}

func (l LightConfig) light() (Light, error) {
	col := ColorWhite
	if l.Color != "" {
		var err error
		if col, err = ParseColor(l.Color); err != nil {
			return Light{}, err
		}
	}
	switch strings.ToLower(l.Kind) {
	case "ambient":
		return AmbientLight(col, l.Intensity), nil
	case "point":
		return PointLight(l.Position, col, l.Intensity), nil
	default:
		return Light{}, fmt.Errorf("unknown light kind %q", l.Kind)
	}
}

func (p *ParticlesConfig) cloud() CloudConfig {
	mat := Material{Color: ColorWhite, Opacity: p.Opacity, Transparent: p.Opacity < 1}
	if c, err := ParseColor(p.Color); err == nil {
		mat.Color = c
	}
	return CloudConfig{
		Count:      p.Count,
		HalfExtent: p.HalfExtent,
		Rate:       p.Rate,
		Seed:       p.Seed,
		Material:   mat,
		Size:       p.Size,
	}
}

// ParseGeometryKind resolves a config name ("box", "torus", ...).
func ParseGeometryKind(s string) (GeometryKind, error) {
	for i, n := range geometryNames {
		if n == s {
			return GeometryKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown geometry kind %q", s)
}

func (g GeometryConfig) geometry() (Geometry, error) {
	kind, err := ParseGeometryKind(strings.ToLower(g.Kind))
	if err != nil {
		return nil, err
	}
	switch kind {
	case GeometryBox:
		return Box{Width: g.Width, Height: g.Height, Depth: g.Depth}, nil
	case GeometrySphere:
		return Sphere{Radius: g.Radius}, nil
	case GeometryIcosahedron:
		return Icosahedron{Radius: g.Radius, Detail: g.Detail}, nil
	case GeometryTorus:
		return Torus{Radius: g.Radius, Tube: g.Tube, RadialSegments: g.RadialSegments, TubularSegments: g.TubularSegments}, nil
	case GeometryCone:
		return Cone{Radius: g.Radius, Height: g.Height, Segments: g.Segments}, nil
	case GeometryCylinder:
		return Cylinder{RadiusTop: g.RadiusTop, RadiusBottom: g.RadiusBottom, Height: g.Height, Segments: g.Segments}, nil
	case GeometryPoints:
		return Points{}, nil
	default:
		return Group{}, nil
	}
}

func (m MaterialConfig) material() (Material, error) {
	out := DefaultMaterial()
	var err error
	if m.Color != "" {
		if out.Color, err = ParseColor(m.Color); err != nil {
			return out, err
		}
	}
	if m.Emissive != "" {
		if out.Emissive, err = ParseColor(m.Emissive); err != nil {
			return out, err
		}
	}
	out.EmissiveIntensity = m.EmissiveIntensity
	if m.Opacity != nil {
		out.Opacity = clamp01(*m.Opacity)
	}
	out.Transparent = m.Transparent || out.Opacity < 1
	out.Wireframe = m.Wireframe
	out.Metalness = m.Metalness
	if m.Roughness != nil {
		out.Roughness = *m.Roughness
	}
	return out, nil
}

func (m MotionConfig) profile() MotionProfile {
	var p MotionProfile
	for i, o := range m.Float {
		p.Float[i] = Oscillator{Amplitude: o.Amplitude, Frequency: o.Frequency, Phase: o.Phase}
	}
	p.Spin = m.Spin
	p.Turn = m.Turn
	return p
}

// build converts the entity config to a descriptor. parent is the resolved
// parent id and index the entity's position in the list, used for reveal
// staggering.
func (ec *EntityConfig) build(parent EntityID, index int) (EntityDesc, MotionProfile, error) {
	geo, err := ec.Geometry.geometry()
	if err != nil {
		return EntityDesc{}, MotionProfile{}, err
	}
	mat, err := ec.Material.material()
	if err != nil {
		return EntityDesc{}, MotionProfile{}, err
	}
	scale := ec.Scale
	if scale == 0 {
		scale = 1
	}
	desc := EntityDesc{
		Name:      ec.Name,
		Parent:    parent,
		Transform: Transform{Position: ec.Position, Rotation: ec.Rotation, Scale: Uniform(scale)},
		Visual:    Visual{Geometry: geo, Material: mat},
	}
	for _, sc := range ec.Scroll {
		ch, err := ParseChannel(sc.Channel)
		if err != nil {
			return EntityDesc{}, MotionProfile{}, err
		}
		desc.Scroll = append(desc.Scroll, ScrollBinding{
			Channel:    ch,
			DomainLow:  sc.Domain[0],
			DomainHigh: sc.Domain[1],
			RangeLow:   sc.Range[0],
			RangeHigh:  sc.Range[1],
			Spring:     sc.Spring,
		})
	}
	if t := ec.Trigger; t != nil {
		if t.Once == nil {
			return EntityDesc{}, MotionProfile{}, errors.New("trigger: once must be set explicitly")
		}
		if !isFinite(t.Threshold) || t.Threshold < 0 || t.Threshold > 1 {
			return EntityDesc{}, MotionProfile{}, fmt.Errorf("trigger: threshold %v outside [0, 1]", t.Threshold)
		}
		desc.Trigger = &Trigger{Threshold: t.Threshold, Once: *t.Once, RootMargin: t.RootMargin}
	}
	if r := ec.Reveal; r != nil {
		fn, err := ParseEase(r.Ease)
		if err != nil {
			return EntityDesc{}, MotionProfile{}, err
		}
		from := RevealPose{Opacity: r.FromOpacity, OffsetY: r.FromOffsetY, Scale: 1}
		if r.FromScale != nil {
			from.Scale = *r.FromScale
		}
		rc := RevealConfig{Duration: r.Duration, Delay: r.Delay, From: from, Ease: fn}.Staggered(index, r.Stagger)
		desc.Reveal = &rc
	}
	for _, l := range ec.Loops {
		ch, err := ParseChannel(l.Channel)
		if err != nil {
			return EntityDesc{}, MotionProfile{}, err
		}
		fn, err := ParseEase(l.Ease)
		if err != nil {
			return EntityDesc{}, MotionProfile{}, err
		}
		desc.Loops = append(desc.Loops, LoopConfig{Channel: ch, Keyframes: l.Keyframes, Duration: l.Duration, Ease: fn})
	}
	return desc, ec.Motion.profile(), nil
}

var easeByName = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-quart":       ease.InQuart,
	"out-quart":      ease.OutQuart,
	"in-out-quart":   ease.InOutQuart,
	"in-quint":       ease.InQuint,
	"out-quint":      ease.OutQuint,
	"in-out-quint":   ease.InOutQuint,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
}

// ParseEase resolves an easing name such as "out-cubic". The empty name
// returns nil, which selects each animation's default.
func ParseEase(name string) (ease.TweenFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := easeByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown ease %q", name)
	}
	return fn, nil
}

func ptr[T any](v T) *T { return &v }

// DefaultSceneConfig returns the hero scene: three floating cubes, two orbs
// with wireframe rings, a pyramid, a hexagonal prism, a helix of eight
// spheres, a bouncing scroll hint, and a 5000-point starfield.
func DefaultSceneConfig() *SceneConfig {
	const (
		violet = "#8b5cf6"
		cyan   = "#06b6d4"
		orange = "#f97316"
		pink   = "#ec4899"
	)
	// 0.01 rad per frame at 60 FPS
	const frameSpin = 0.6

	// Each cube and orb gets its own phase so none of them bob in step.
	cube := func(index int, name string, pos Vec3, scale float64) EntityConfig {
		phase := float64(index) * 2 * math.Pi / 3
		return EntityConfig{
			Name:     name,
			Position: pos,
			Scale:    scale,
			Geometry: GeometryConfig{Kind: "box", Width: 1, Height: 1, Depth: 1},
			Material: MaterialConfig{Color: violet, Emissive: violet, EmissiveIntensity: 0.2, Opacity: ptr(0.8), Transparent: true},
			Motion: MotionConfig{
				Float: [3]OscillatorConfig{1: {Amplitude: 0.5, Frequency: 0.5, Phase: phase}},
				Spin:  Vec3{frameSpin, frameSpin, 0},
			},
			Scroll: []ScrollConfig{
				{Channel: "parallax-y", Domain: [2]float64{0, 1}, Range: [2]float64{0, -2 * scale}, Spring: &SpringConfig{}},
				{Channel: "rotate-z", Domain: [2]float64{0, 1}, Range: [2]float64{0, math.Pi / 2}},
			},
			Trigger: &TriggerConfig{Threshold: 0.1, Once: ptr(true), RootMargin: 50},
			Reveal:  &RevealYAML{Duration: 0.8, Stagger: 0.1, FromOpacity: 0, FromOffsetY: -0.5},
		}
	}
	orb := func(index int, name string, pos Vec3, color string) []EntityConfig {
		phase := float64(index) * math.Pi
		return []EntityConfig{
			{
				Name:     name,
				Position: pos,
				Geometry: GeometryConfig{Kind: "icosahedron", Radius: 0.8, Detail: 1},
				Material: MaterialConfig{Color: color, Emissive: color, EmissiveIntensity: 0.3, Opacity: ptr(0.9), Transparent: true, Metalness: 0.8, Roughness: ptr(0.1)},
				Motion: MotionConfig{
					Float: [3]OscillatorConfig{
						{Amplitude: 0.2, Frequency: 0.5, Phase: math.Pi/2 + phase},
						{Amplitude: 0.3, Frequency: 0.8, Phase: phase},
					},
					Spin: Vec3{0.3, 0.48, 0},
				},
				Scroll: []ScrollConfig{
					{Channel: "opacity", Domain: [2]float64{0.5, 1}, Range: [2]float64{1, 0.2}},
				},
			},
			{
				Name:     name + "-ring",
				Position: pos,
				Scale:    1.5,
				Geometry: GeometryConfig{Kind: "torus", Radius: 1, Tube: 0.05, RadialSegments: 8, TubularSegments: 32},
				Material: MaterialConfig{Color: color, Emissive: color, EmissiveIntensity: 0.5, Opacity: ptr(0.6), Transparent: true, Wireframe: true},
				Motion:   MotionConfig{Spin: Vec3{0.6, 0, 0.9}},
			},
		}
	}

	cfg := &SceneConfig{
		Viewport: ViewportConfig{Width: 1280, Height: 720},
		Camera:   CameraConfig{Position: Vec3{0, 0, 10}, FovY: 50, Near: 0.1, Far: 1000},
		Lights: []LightConfig{
			{Kind: "ambient", Color: "#ffffff", Intensity: 0.2},
			{Kind: "point", Position: Vec3{10, 10, 10}, Color: violet, Intensity: 1},
			{Kind: "point", Position: Vec3{-10, -10, -10}, Color: cyan, Intensity: 0.5},
		},
		Particles: &ParticlesConfig{
			Count:      5000,
			HalfExtent: 10,
			Rate:       Vec3{0.03, 0.03, 0},
			Color:      cyan,
			Opacity:    0.6,
			Size:       0.02,
		},
		Scheduler:         SchedulerConfig{FPS: 60, MaxDeltaMs: 250},
		ProjectedTriggers: true,
	}
	cfg.Entities = append(cfg.Entities,
		cube(0, "cube-left", Vec3{-2, 1, 0}, 1),
		cube(1, "cube-right", Vec3{2, -1, -2}, 0.8),
		cube(2, "cube-top", Vec3{0, 2, -1}, 1.2),
	)
	cfg.Entities = append(cfg.Entities, orb(0, "orb-violet", Vec3{-4, -2, -1}, violet)...)
	cfg.Entities = append(cfg.Entities, orb(1, "orb-cyan", Vec3{4, 1, -3}, cyan)...)
	cfg.Entities = append(cfg.Entities,
		EntityConfig{
			Name:     "pyramid",
			Position: Vec3{3, 2, -2},
			Geometry: GeometryConfig{Kind: "cone", Radius: 0.6, Height: 1.2, Segments: 4},
			Material: MaterialConfig{Color: cyan, Emissive: cyan, EmissiveIntensity: 0.2, Opacity: ptr(0.8), Transparent: true, Wireframe: true},
			Motion: MotionConfig{
				Float: [3]OscillatorConfig{1: {Amplitude: 0.5, Frequency: 0.7}},
				Turn:  Vec3{0, 0.3, 0},
			},
		},
		EntityConfig{
			Name:     "prism",
			Position: Vec3{-3, -1, 1},
			Geometry: GeometryConfig{Kind: "cylinder", RadiusTop: 0.5, RadiusBottom: 0.5, Height: 1.5, Segments: 6},
			Material: MaterialConfig{Color: orange, Emissive: orange, EmissiveIntensity: 0.3, Opacity: ptr(0.7), Transparent: true},
			Motion: MotionConfig{
				Float: [3]OscillatorConfig{0: {Amplitude: 0.3, Frequency: 0.5, Phase: math.Pi / 2}},
				Turn:  Vec3{0.2, 0, 0.4},
			},
		},
		EntityConfig{
			Name:     "helix",
			Position: Vec3{0, 0, -3},
			Geometry: GeometryConfig{Kind: "group"},
			Motion: MotionConfig{
				Float: [3]OscillatorConfig{2: {Amplitude: 0.4, Frequency: 0.6}},
				Turn:  Vec3{0, 0.5, 0},
			},
			Scroll: []ScrollConfig{
				{Channel: "rotate-y", Domain: [2]float64{0, 1}, Range: [2]float64{0, 2 * math.Pi}, Spring: &SpringConfig{Integrator: IntegratorAnalytic}},
			},
		},
	)
	for i := 0; i < 8; i++ {
		a := float64(i) / 8 * 2 * math.Pi
		cfg.Entities = append(cfg.Entities, EntityConfig{
			Name:     fmt.Sprintf("helix-%d", i),
			Parent:   "helix",
			Position: Vec3{math.Cos(a) * 0.8, float64(i)*0.2 - 0.8, math.Sin(a) * 0.8},
			Geometry: GeometryConfig{Kind: "sphere", Radius: 0.1},
			Material: MaterialConfig{Color: pink, Emissive: pink, EmissiveIntensity: 0.4},
		})
	}
	cfg.Entities = append(cfg.Entities, EntityConfig{
		Name:     "scroll-hint",
		Position: Vec3{0, -3.2, 2},
		Geometry: GeometryConfig{Kind: "sphere", Radius: 0.06},
		Material: MaterialConfig{Color: violet, Emissive: violet, EmissiveIntensity: 0.6},
		Scroll: []ScrollConfig{
			{Channel: "opacity", Domain: [2]float64{0, 0.1}, Range: [2]float64{1, 0}},
		},
		Loops: []LoopYAML{
			{Channel: "parallax-y", Keyframes: []float64{0, -0.2, 0}, Duration: 2, Ease: "in-out-sine"},
		},
	})
	return cfg
}
