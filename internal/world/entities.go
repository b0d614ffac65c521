package world

import "fight-club/internal/geom"

// ID is the identifier type shared by every entity collection. Zero is the
// sentinel for "absent"; real identifiers are allocated from
// World.idCounter and are never reused within a run (spec.md §3).
type ID uint64

// NoID is the sentinel absent-identifier value.
const NoID ID = 0

// Body couples a shape (radius, plus arc length/rotation for shields and
// static arcs) with a material for mass/friction/restitution lookups.
type Body struct {
	Radius       float64
	ArcLength    float64 // nonzero only for CircleArc-shaped bodies (shields)
	ArcRotation  float64
	MaterialType MaterialType
}

// Mass derives a circular body's mass from its material density and disk
// area, matching the source's density * area sizing.
func (b Body) Mass() float64 {
	area := 3.141592653589793 * b.Radius * b.Radius
	return b.MaterialType.Density() * area
}

// Occupation is the channeled action an actor is currently performing. At
// most one of BeamID, BoundedAreaID/FieldID (spraying), or GunID
// (shooting) is set; Kind discriminates which.
type OccupationKind int

const (
	OccupationNone OccupationKind = iota
	OccupationBeaming
	OccupationSpraying
	OccupationShooting
)

type Occupation struct {
	Kind         OccupationKind
	BeamID       ID
	BoundedAreaID ID
	FieldID      ID
	GunID        ID
}

// DelayedMagickStatus tracks a charging directed magick through its
// lifecycle (spec.md §4.7).
type DelayedMagickStatus int

const (
	DelayedStarted DelayedMagickStatus = iota
	DelayedThrow
	DelayedShoot
)

// DelayedMagick records a charging Earth/Ice directed magick awaiting
// CompleteDirectedMagick.
type DelayedMagick struct {
	Started float64
	Status  DelayedMagickStatus
	Power   Power
}

// Player is the persistent identity behind at most one live Actor at a
// time.
type Player struct {
	ID        ID
	Active    bool
	Name      string
	ActorID   ID // NoID when the player has no live actor
	SpawnTime float64
	Deaths    uint64
}

// Actor is a playable character: a circular body with a spell sequence,
// aura, and occupation.
type Actor struct {
	ID              ID
	PlayerID        ID
	Active          bool
	Name            string
	Body            Body
	Position        geom.Vec2
	Health          float64
	Effect          Effect
	Aura            Aura
	Velocity        geom.Vec2
	DynamicForce    geom.Vec2
	CurrentDirection geom.Vec2
	TargetDirection  geom.Vec2
	SpellElements    []Element
	Moving           bool
	DelayedMagick    *DelayedMagick
	PositionZ        float64
	VelocityZ        float64
	Occupation       Occupation
}

// Projectile is a moving magick-carrying bullet.
type Projectile struct {
	ID           ID
	Body         Body
	Position     geom.Vec2
	Health       float64
	Magick       Magick
	Velocity     geom.Vec2
	DynamicForce geom.Vec2
	PositionZ    float64
	VelocityZ    float64
}

// StaticObject is an immovable body that can still absorb magick and take
// damage (its mass participates in collision impulses but it never
// translates).
type StaticObject struct {
	ID       ID
	Body     Body
	Position geom.Vec2
	Rotation float64
	Health   float64
	Effect   Effect
}

// Beam is a straight-line magick ray in flight, reflecting off shields and
// reflective auras up to Settings.MaxBeamDepth times.
type Beam struct {
	ID       ID
	ActorID  ID
	Magick   Magick
	Deadline float64
}

// StaticArea is a permanent (level-authored) region applying a magick to
// bodies that overlap it; static areas stack but only the most recently
// added one contributes friction (spec.md §4.3).
type StaticArea struct {
	ID           ID
	Shape        StaticAreaShape
	MaterialType MaterialType
	Position     geom.Vec2
	Rotation     float64
	Magick       Magick
}

// StaticAreaShape discriminates a static area's disk-vs-rectangle shape.
type StaticAreaShape struct {
	IsRectangle bool
	Radius      float64 // valid when !IsRectangle
	Width       float64 // valid when IsRectangle
	Height      float64
}

// TempArea is a transient disk-shaped magick region, expiring at Deadline.
type TempArea struct {
	ID       ID
	Radius   float64
	Position geom.Vec2
	Magick   Magick
	Deadline float64
}

// RingSector is an annulus restricted to an angular span around an
// actor's current direction — the shape shared by BoundedArea and Field.
type RingSector struct {
	MinRadius float64
	MaxRadius float64
	Angle     float64
}

// BoundedArea is a ring-sector region attached to an actor, applying a
// magick to bodies within it.
type BoundedArea struct {
	ID       ID
	ActorID  ID
	Shape    RingSector
	Magick   Magick
	Deadline float64
}

// Field is a ring-sector region attached to an actor, applying a radial
// push force to bodies within it.
type Field struct {
	ID       ID
	ActorID  ID
	Shape    RingSector
	Force    float64
	Deadline float64
}

// Gun is a temporary ranged-attack emitter firing bullets at a fixed
// period until ShotsLeft reaches zero.
type Gun struct {
	ID                ID
	ActorID           ID
	ShotsLeft         uint64
	ShotPeriod        float64
	BulletForceFactor float64
	BulletPower       Power
	LastShot          float64
}

// Shield is a circle-arc body blocking beams and magick in its angular
// span, decaying as Power is depleted.
type Shield struct {
	ID       ID
	ActorID  ID
	Body     Body // Body.ArcLength/ArcRotation describe the arc
	Position geom.Vec2
	Created  float64
	Power    float64
}

// TempObstacle is a temporary, destructible circular obstacle (e.g. an
// Earth wall) with its own health and magick.
type TempObstacle struct {
	ID       ID
	ActorID  ID
	Body     Body
	Position geom.Vec2
	Health   float64
	Magick   Magick
	Effect   Effect
	Deadline float64
}
