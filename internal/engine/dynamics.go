package engine

import (
	"math"

	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// isActorImmobilized reports whether an actor's Ice effect prevents it from
// rotating or accelerating under its own power.
func isActorImmobilized(a *world.Actor) bool {
	return a.Effect.Power[world.Ice] > 0
}

// normalizeAngle wraps angle into [-pi, pi).
func normalizeAngle(angle float64) float64 {
	turns := angle/(2*math.Pi) + 0.5
	return (turns - math.Floor(turns) - 0.5) * 2 * math.Pi
}

// currentDirectionAfterRotation steps current toward target at angular rate
// maxRotationSpeed over duration, taking the shorter way around.
func currentDirectionAfterRotation(current, target geom.Vec2, duration, maxRotationSpeed float64) geom.Vec2 {
	diff := normalizeAngle(target.Angle() - current.Angle())
	step := math.Copysign(math.Min(math.Abs(diff), maxRotationSpeed*duration), diff)
	return current.Rotated(step)
}

func updateActorCurrentDirection(duration, maxRotationSpeed float64, a *world.Actor) {
	if isActorImmobilized(a) {
		return
	}
	a.CurrentDirection = currentDirectionAfterRotation(a.CurrentDirection, a.TargetDirection, duration, maxRotationSpeed)
}

func updateActorDynamicForce(moveForce float64, a *world.Actor) {
	moving := a.Moving && a.DelayedMagick == nil && a.Occupation.Kind == world.OccupationNone && !isActorImmobilized(a)
	if moving {
		a.DynamicForce = a.DynamicForce.Add(a.CurrentDirection.Scale(moveForce))
	}
}

// updateVelocity applies a symplectic-style half-step impulse from
// dynamicForce, snapping to zero when the resulting displacement over
// duration would be negligible.
func updateVelocity(duration, mass float64, dynamicForce geom.Vec2, minMoveDistance float64, velocity *geom.Vec2) {
	*velocity = velocity.Add(dynamicForce.Scale(duration / (2 * mass)))
	if velocity.Norm()*duration <= minMoveDistance {
		*velocity = geom.Zero
	}
}

func updatePosition(duration float64, velocity geom.Vec2, position *geom.Vec2) {
	*position = position.Add(velocity.Scale(duration))
}

func updateVelocityZ(duration, height, gravitationalAcceleration, positionZ float64, velocityZ *float64) {
	if positionZ-height > 2.220446049250313e-16 {
		*velocityZ -= duration * gravitationalAcceleration / 2
	} else {
		*velocityZ = 0
	}
}

func updatePositionZ(duration, height, velocityZ float64, positionZ *float64) {
	*positionZ = math.Max(height, *positionZ+duration*velocityZ)
}

// updateActors runs rotation, translation force, magical damage, effect and
// aura decay, and vertical motion for every actor. Ported from engine.rs
// `update_actors`.
func updateActors(now, duration float64, settings world.Settings, actors []world.Actor) {
	for i := range actors {
		a := &actors[i]
		updateActorCurrentDirection(duration, settings.MaxRotationSpeed, a)
		updateActorDynamicForce(settings.MoveForce, a)
		resistMagick(a.Aura.Elements, &a.Effect.Power)
		damageHealth(duration, settings.MagicalDamageFactor, a.Body.Mass(), a.Effect.Power, &a.Health)
		decayEffect(now, &a.Effect)
		decayAura(duration, settings.DecayFactor, &a.Aura)
		updateVelocity(duration, a.Body.Mass(), a.DynamicForce, settings.MinMoveDistance, &a.Velocity)
		updateVelocityZ(duration, a.Body.Radius, settings.GravitationalAcceleration, a.PositionZ, &a.VelocityZ)
		updatePositionZ(duration, a.Body.Radius, a.VelocityZ, &a.PositionZ)
	}
}

// updateProjectiles runs vertical motion and velocity integration for every
// projectile. Ported from engine.rs `update_projectiles`.
func updateProjectiles(duration float64, settings world.Settings, projectiles []world.Projectile) {
	for i := range projectiles {
		p := &projectiles[i]
		updateVelocity(duration, p.Body.Mass(), p.DynamicForce, settings.MinMoveDistance, &p.Velocity)
		updatePositionZ(duration, p.Body.Radius, p.VelocityZ, &p.PositionZ)
		updateVelocityZ(duration, p.Body.Radius, settings.GravitationalAcceleration, p.PositionZ, &p.VelocityZ)
	}
}

// updateStaticObjects decays and damages static objects' accumulated
// effects. Static objects never translate. Ported from engine.rs
// `update_static_objects`.
func updateStaticObjects(now, duration float64, settings world.Settings, objects []world.StaticObject) {
	for i := range objects {
		o := &objects[i]
		decayEffect(now, &o.Effect)
		damageHealth(duration, settings.MagicalDamageFactor, o.Body.Mass(), o.Effect.Power, &o.Health)
	}
}

// updateShields bleeds a shield's power at the standard decay rate. Ported
// from engine.rs `update_shields`.
func updateShields(duration float64, settings world.Settings, shields []world.Shield) {
	for i := range shields {
		shields[i].Power -= duration * settings.DecayFactor
	}
}

// updateTempObstacles resists and damages a temp obstacle's health, gated by
// its own magick power acting as its resistance profile. Ported from
// engine.rs `update_temp_obstacles`.
func updateTempObstacles(duration float64, settings world.Settings, obstacles []world.TempObstacle) {
	for i := range obstacles {
		t := &obstacles[i]
		resistMagick(t.Magick.Power, &t.Effect.Power)
		damageHealth(duration, settings.MagicalDamageFactor, t.Body.Mass(), t.Effect.Power, &t.Health)
	}
}
