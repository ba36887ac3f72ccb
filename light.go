package driftscape

// LightKind selects how a Light contributes to shading.
type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightPoint
)

// String returns "ambient" or "point".
func (k LightKind) String() string {
	if k == LightPoint {
		return "point"
	}
	return "ambient"
}

// Light is a light descriptor passed through to the rendering surface with
// every frame. The engine does not shade anything itself.
type Light struct {
	Kind      LightKind
	Position  Vec3 // ignored for ambient lights
	Color     Color
	Intensity float64
}

// AmbientLight returns an ambient light of the given intensity.
func AmbientLight(c Color, intensity float64) Light {
	return Light{Kind: LightAmbient, Color: c, Intensity: intensity}
}

// PointLight returns a point light at pos.
func PointLight(pos Vec3, c Color, intensity float64) Light {
	return Light{Kind: LightPoint, Position: pos, Color: c, Intensity: intensity}
}
