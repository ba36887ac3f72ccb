package driftscape

// GeometryKind distinguishes the closed set of geometry variants.
type GeometryKind uint8

const (
	GeometryBox GeometryKind = iota
	GeometrySphere
	GeometryIcosahedron
	GeometryTorus
	GeometryCone
	GeometryCylinder
	GeometryGroup // transform-only; children inherit its world matrix
	GeometryPoints
)

var geometryNames = [...]string{"box", "sphere", "icosahedron", "torus", "cone", "cylinder", "group", "points"}

// String returns the config name of the kind.
func (k GeometryKind) String() string {
	if int(k) < len(geometryNames) {
		return geometryNames[k]
	}
	return "unknown"
}

// Geometry is one of Box, Sphere, Icosahedron, Torus, Cone, Cylinder, Group,
// or Points. The set is closed: the unexported method keeps other packages
// from adding variants, so surfaces can switch exhaustively on Kind.
type Geometry interface {
	Kind() GeometryKind
	// BoundingRadius is the radius of a sphere around the local origin that
	// encloses the unscaled shape. Used for screen-bounds projection.
	BoundingRadius() float64
	sealed()
}

// Box is an axis-aligned cuboid centered on the origin.
type Box struct {
	Width, Height, Depth float64
}

// Sphere is a UV sphere.
type Sphere struct {
	Radius float64
}

// Icosahedron is a subdivided icosahedron; Detail 0 is the plain 20-face solid.
type Icosahedron struct {
	Radius float64
	Detail int
}

// Torus is a ring in the XY plane.
type Torus struct {
	Radius          float64 // center of the tube to center of the torus
	Tube            float64 // tube radius
	RadialSegments  int
	TubularSegments int
}

// Cone is a cone pointing up the Y axis. Segments 4 gives a pyramid.
type Cone struct {
	Radius   float64
	Height   float64
	Segments int
}

// Cylinder is a capped cylinder along the Y axis. Segments 6 gives a hexagonal prism.
type Cylinder struct {
	RadiusTop    float64
	RadiusBottom float64
	Height       float64
	Segments     int
}

// Group has no visual output. It exists so child entities can share a
// transform (the helix of spheres rotates as one).
type Group struct{}

// Points renders a point sprite per vertex. Used by the particle cloud.
type Points struct {
	Size            float64
	SizeAttenuation bool
}

func (Box) Kind() GeometryKind         { return GeometryBox }
func (Sphere) Kind() GeometryKind      { return GeometrySphere }
func (Icosahedron) Kind() GeometryKind { return GeometryIcosahedron }
func (Torus) Kind() GeometryKind       { return GeometryTorus }
func (Cone) Kind() GeometryKind        { return GeometryCone }
func (Cylinder) Kind() GeometryKind    { return GeometryCylinder }
func (Group) Kind() GeometryKind       { return GeometryGroup }
func (Points) Kind() GeometryKind      { return GeometryPoints }

func (g Box) BoundingRadius() float64 {
	return 0.5 * Vec3{g.Width, g.Height, g.Depth}.Len()
}
func (g Sphere) BoundingRadius() float64      { return g.Radius }
func (g Icosahedron) BoundingRadius() float64 { return g.Radius }
func (g Torus) BoundingRadius() float64       { return g.Radius + g.Tube }
func (g Cone) BoundingRadius() float64 {
	return Vec3{g.Radius, g.Height / 2, 0}.Len()
}
func (g Cylinder) BoundingRadius() float64 {
	r := max(g.RadiusTop, g.RadiusBottom)
	return Vec3{r, g.Height / 2, 0}.Len()
}
func (Group) BoundingRadius() float64  { return 0 }
func (Points) BoundingRadius() float64 { return 0 }

func (Box) sealed()         {}
func (Sphere) sealed()      {}
func (Icosahedron) sealed() {}
func (Torus) sealed()       {}
func (Cone) sealed()        {}
func (Cylinder) sealed()    {}
func (Group) sealed()       {}
func (Points) sealed()      {}

// Material is a standard PBR-ish material descriptor. Surfaces interpret it
// as far as they are able; terminal previews ignore metalness entirely.
type Material struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Opacity           float64
	Transparent       bool
	Wireframe         bool
	Metalness         float64
	Roughness         float64
}

// DefaultMaterial returns an opaque white material with roughness 1.
func DefaultMaterial() Material {
	return Material{Color: ColorWhite, Opacity: 1, Roughness: 1}
}

// Visual pairs a geometry variant with its material.
type Visual struct {
	Geometry Geometry
	Material Material
}
