package engine

import (
	"math"

	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// resistMagick zeroes power[i] wherever resistance[i] is non-default, and
// zeroes everything if resistance[Shield] is non-default (an aura shield
// blocks every element at once). Ported from engine.rs `resist_magick`.
func resistMagick[T comparable](resistance [world.ElementCount]T, power *world.Power) {
	var zero T
	shield := resistance[world.Shield] == zero
	for i := range power {
		gate := resistance[i] == zero
		if !gate || !shield {
			power[i] = 0
		}
	}
}

// addMagickToEffect deposits magick into target's effect, gated by
// resistance, then applies the fixed post-composition rules. Ported from
// engine.rs `add_magick_to_effect`.
func addMagickToEffect[T comparable](now float64, target world.Effect, magick world.Magick, resistance [world.ElementCount]T) world.Effect {
	var zero T
	shield := resistance[world.Shield] == zero
	power := target.Power
	applied := target.Applied
	for i := 0; i < world.ElementCount; i++ {
		if magick.Power[i] > 0 {
			gate := resistance[i] == zero
			if gate && shield {
				if magick.Power[i] > power[i] {
					power[i] = magick.Power[i]
				}
			} else {
				power[i] = 0
			}
			applied[i] = now
		}
	}
	target2 := power
	if target2[world.Water] > 0 && target2[world.Fire] > 0 {
		power[world.Water] = 0
		power[world.Fire] = 0
		power[world.Steam] = target2[world.Water]
		applied[world.Steam] = now
	}
	if target2[world.Poison] > 0 && target2[world.Life] > 0 {
		power[world.Poison] = 0
		power[world.Life] = 0
	}
	if target2[world.Cold] > 0 && target2[world.Fire] > 0 {
		power[world.Cold] = 0
		power[world.Fire] = 0
	}
	if target2[world.Ice] > 0 && target2[world.Fire] > 0 {
		power[world.Ice] = 0
		power[world.Fire] = 0
	}
	if target2[world.Water] > 0 && target2[world.Cold] > 0 {
		power[world.Ice] = math.Max(target2[world.Water], target2[world.Cold])
		applied[world.Ice] = now
		power[world.Water] = 0
		power[world.Cold] = 0
	}
	return world.Effect{Applied: applied, Power: power}
}

// decayEffect clears power[e] wherever it has outlived its element's
// duration since it was (re)applied.
func decayEffect(now float64, effect *world.Effect) {
	for i := 0; i < world.ElementCount; i++ {
		if now-effect.Applied[i] >= world.Element(i).Duration() {
			effect.Power[i] = 0
		}
	}
}

// decayAura bleeds aura power at a constant rate, clearing its element set
// once depleted.
func decayAura(duration, decayFactor float64, aura *world.Aura) {
	aura.Power -= duration * decayFactor
	if aura.Power <= 0 {
		aura.Power = 0
		aura.Elements = [world.ElementCount]bool{}
	}
}

// getDamage computes the health-damage rate implied by an effect's power
// vector, per spec.md §4.4.
func getDamage(power world.Power) float64 {
	return (1+power[world.Water])*power[world.Lightning]/world.Lightning.Duration() -
		power[world.Life]/world.Life.Duration() +
		power[world.Arcane]/world.Arcane.Duration() +
		power[world.Cold]/world.Cold.Duration() +
		power[world.Fire]/world.Fire.Duration() +
		power[world.Steam]/world.Steam.Duration() +
		power[world.Poison]/world.Poison.Duration()
}

// damageHealth applies getDamage's rate over duration, scaled by the body's
// mass, clamping health from above at 1 (it is never restored past full).
func damageHealth(duration, damageFactor, mass float64, power world.Power, health *float64) {
	*health = math.Min(*health-getDamage(power)*damageFactor*duration/mass, 1)
}

// canAbsorbPhysicalDamage reports whether an aura's element set shields its
// owner from collision damage (Shield or Earth).
func canAbsorbPhysicalDamage(elements [world.ElementCount]bool) bool {
	return elements[world.Shield] || elements[world.Earth]
}

// canReflectBeams reports whether an aura's element set reflects beams.
func canReflectBeams(elements [world.ElementCount]bool) bool {
	return elements[world.Shield]
}

// ringSectorContains reports whether a circular body at objPos with radius
// objRadius overlaps the annulus [min,max] around ownerPos, restricted (when
// angle < tau) to the sector spanning ±angle/2 around direction. Bodies are
// treated as circles throughout this engine (see internal/geom/toi.go), so
// containment is tested against the body's center and radius rather than an
// exact triangle clip of its shape.
func ringSectorContains(objPos geom.Vec2, objRadius float64, ownerPos geom.Vec2, ring world.RingSector, direction geom.Vec2) bool {
	dist := objPos.Distance(ownerPos)
	insideInner := dist+objRadius < ring.MinRadius
	outerOverlap := dist <= ring.MaxRadius+objRadius
	if insideInner || !outerOverlap {
		return false
	}
	if ring.Angle >= 2*math.Pi {
		return true
	}
	arc := geom.Arc{Circle: geom.Circle{Center: ownerPos, Radius: ring.MaxRadius}, Direction: direction, HalfAngle: ring.Angle / 2}
	return arc.ContainsDirection(objPos)
}

// pushObject adds the radial field force from owner position `from` toward
// `position`, per engine.rs `push_object`.
func pushObject(from geom.Vec2, force, maxDistance float64, position geom.Vec2, dynamicForce *geom.Vec2) {
	toPosition := position.Sub(from)
	norm := toPosition.Norm()
	*dynamicForce = dynamicForce.Add(toPosition.Scale((1/norm - 1/maxDistance) * force))
}

// applyAreasAndFields resolves static areas, temp areas, and bounded areas
// into actor/projectile/static-object/temp-obstacle effects, and fields into
// actor/projectile dynamic forces. Grounded on engine.rs
// `intersect_objects_with_areas` / `intersect_objects_with_all_fields`.
func applyAreasAndFields(w *world.World) {
	var noResistance [world.ElementCount]bool

	for i := range w.Actors {
		a := &w.Actors[i]
		for _, ba := range w.BoundedAreas {
			owner := findActor(w, ba.ActorID)
			if owner == nil || owner.ID == a.ID {
				continue
			}
			if ringSectorContains(a.Position, a.Body.Radius, owner.Position, ba.Shape, owner.CurrentDirection) {
				a.Effect = addMagickToEffect(w.Time, a.Effect, ba.Magick, a.Aura.Elements)
			}
		}
		for _, area := range w.TempAreas {
			if a.Position.Distance(area.Position) <= area.Radius+a.Body.Radius {
				a.Effect = addMagickToEffect(w.Time, a.Effect, area.Magick, a.Aura.Elements)
			}
		}
		if a.PositionZ-a.Body.Radius <= 1.1920929e-7 {
			if sa, ok := lastStaticArea(w, a.Position, a.Body.Radius); ok {
				addDryFrictionForce(a.Body.Mass(), a.Velocity, sa.MaterialType, w.Settings.GravitationalAcceleration, &a.DynamicForce)
				a.Effect = addMagickToEffect(w.Time, a.Effect, sa.Magick, a.Aura.Elements)
			}
		}
	}
	// Bounded areas intersect projectiles too, but the source discards the
	// resulting effect (a projectile's effect is always DEFAULT_EFFECT) —
	// only the friction force below has an observable effect on a
	// projectile's motion.
	for i := range w.Projectiles {
		p := &w.Projectiles[i]
		if p.PositionZ-p.Body.Radius <= 1.1920929e-7 {
			if sa, ok := lastStaticArea(w, p.Position, p.Body.Radius); ok {
				addDryFrictionForce(p.Body.Mass(), p.Velocity, sa.MaterialType, w.Settings.GravitationalAcceleration, &p.DynamicForce)
			}
		}
	}
	for i := range w.StaticObjects {
		o := &w.StaticObjects[i]
		for _, ba := range w.BoundedAreas {
			owner := findActor(w, ba.ActorID)
			if owner == nil {
				continue
			}
			if ringSectorContains(o.Position, o.Body.Radius, owner.Position, ba.Shape, owner.CurrentDirection) {
				o.Effect = addMagickToEffect(w.Time, o.Effect, ba.Magick, noResistance)
			}
		}
	}
	for i := range w.TempObstacles {
		t := &w.TempObstacles[i]
		for _, ba := range w.BoundedAreas {
			owner := findActor(w, ba.ActorID)
			if owner == nil {
				continue
			}
			if ringSectorContains(t.Position, t.Body.Radius, owner.Position, ba.Shape, owner.CurrentDirection) {
				t.Effect = addMagickToEffect(w.Time, t.Effect, ba.Magick, noResistance)
			}
		}
	}

	applyFields(w)
}

// addDryFrictionForce subtracts a ground-friction term from dynamicForce,
// directed against velocity, with magnitude mass × the surface's friction
// coefficient × gravity (independent of speed). Ported from engine.rs
// `add_dry_friction_force`.
func addDryFrictionForce(mass float64, velocity geom.Vec2, surface world.MaterialType, gravity float64, dynamicForce *geom.Vec2) {
	speed := velocity.Norm()
	if speed != 0 {
		*dynamicForce = dynamicForce.Sub(velocity.Scale(mass * surface.Friction() * gravity / speed))
	}
}

func applyFields(w *world.World) {
	for i := range w.Actors {
		a := &w.Actors[i]
		for _, f := range w.Fields {
			owner := findActor(w, f.ActorID)
			if owner == nil || owner.ID == a.ID {
				continue
			}
			if ringSectorContains(a.Position, a.Body.Radius, owner.Position, f.Shape, owner.CurrentDirection) {
				pushObject(owner.Position, f.Force, f.Shape.MaxRadius, a.Position, &a.DynamicForce)
			}
		}
	}
	for i := range w.Projectiles {
		p := &w.Projectiles[i]
		for _, f := range w.Fields {
			owner := findActor(w, f.ActorID)
			if owner == nil {
				continue
			}
			if ringSectorContains(p.Position, p.Body.Radius, owner.Position, f.Shape, owner.CurrentDirection) {
				pushObject(owner.Position, f.Force, f.Shape.MaxRadius, p.Position, &p.DynamicForce)
			}
		}
	}
}

// lastStaticArea returns the most recently appended static area overlapping
// a circular body, matching the source's "only the last intersecting static
// area contributes" rule.
func lastStaticArea(w *world.World, pos geom.Vec2, radius float64) (world.StaticArea, bool) {
	var result world.StaticArea
	found := false
	for _, sa := range w.StaticAreas {
		if staticAreaContains(sa, pos, radius) {
			result = sa
			found = true
		}
	}
	return result, found
}

func staticAreaContains(sa world.StaticArea, pos geom.Vec2, radius float64) bool {
	if !sa.Shape.IsRectangle {
		return pos.Distance(sa.Position) <= sa.Shape.Radius+radius
	}
	local := pos.Sub(sa.Position).Rotated(-sa.Rotation)
	return local.X >= -sa.Shape.Width/2-radius && local.X <= sa.Shape.Width/2+radius &&
		local.Y >= -sa.Shape.Height/2-radius && local.Y <= sa.Shape.Height/2+radius
}

func findActor(w *world.World, id world.ID) *world.Actor {
	i := w.FindActor(id)
	if i < 0 {
		return nil
	}
	return &w.Actors[i]
}
