package engine

import (
	"math"

	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// castMagick dispatches a cast Magick from actor to its effect, grounded on
// engine.rs `start_directed_magick` / `start_area_of_effect_magick` /
// `self_magick`. The element composition determines which delivery shape
// the cast takes: a continuous beam for Arcane/Life, a throw-or-shoot
// delayed magick for Earth/Ice, a bounded area (plus radial field for pure
// Water) for Water/Cold/Fire/Steam/Poison, a shield for Shield, or — with
// no recognized element present — a direct deposit into the actor's own
// effect.
func castMagick(w *world.World, actor *world.Actor, magick world.Magick) {
	dispatchMagick(w, actor, magick, w.Settings.SprayAngle)
}

// dispatchAreaOfEffectMagick routes a magick cast via the explicit
// StartAreaOfEffectMagick wire action: the same element routing as
// castMagick, but any bounded-area/field delivery spans the full circle
// (angle=2π) rather than the narrow cone in front of the actor. Ported
// from engine.rs `start_area_of_effect_magick`, which calls the same
// per-element handlers as `start_directed_magick` with angle forced to
// std::f64::consts::TAU.
func dispatchAreaOfEffectMagick(w *world.World, actor *world.Actor, magick world.Magick) {
	dispatchMagick(w, actor, magick, 2*math.Pi)
}

// dispatchMagick is the shared element-routing table behind both
// castMagick (narrow cone) and dispatchAreaOfEffectMagick (full circle):
// Shield routes to one of the three shield deliveries, Earth/Ice starts a
// charging delayed magick, Arcane/Life emits a continuous beam, and the
// remaining elemental set sprays a ring-sector bounded area (plus a
// radial field when the cast is pure Water). Anything left over with no
// recognized delivery element deposits straight into the caster's own
// effect.
func dispatchMagick(w *world.World, actor *world.Actor, magick world.Magick, areaAngle float64) {
	elements := magick.Power
	switch {
	case elements[world.Shield] > 0:
		castShield(w, actor, magick)
	case elements[world.Earth] > 0 || elements[world.Ice] > 0:
		startDelayedMagick(w, actor, magick)
	case elements[world.Arcane] > 0 || elements[world.Life] > 0:
		startBeam(w, actor, magick)
	case elements[world.Water] > 0 || elements[world.Cold] > 0 || elements[world.Fire] > 0 ||
		elements[world.Steam] > 0 || elements[world.Poison] > 0:
		startAreaOfEffectMagick(w, actor, magick, areaAngle)
	default:
		selfMagick(w, actor, magick)
	}
}

// selfMagick deposits a cast with no recognized delivery element straight
// into the caster's own effect. Ported from engine.rs `self_magick`.
func selfMagick(w *world.World, actor *world.Actor, magick world.Magick) {
	actor.Effect = addMagickToEffect(w.Time, actor.Effect, magick, actor.Aura.Elements)
}

// startBeam attaches a continuous beam occupation to the actor, replacing
// whatever occupation it already held. Ported from engine.rs
// `start_directed_magick` (Arcane/Life branch) + `add_beam`.
func startBeam(w *world.World, actor *world.Actor, magick world.Magick) {
	id := w.NextID()
	w.Beams = append(w.Beams, world.Beam{ID: id, ActorID: actor.ID, Magick: magick, Deadline: w.Time + w.Settings.DirectedMagickDuration})
	actor.Occupation = world.Occupation{Kind: world.OccupationBeaming, BeamID: id}
}

// startAreaOfEffectMagick attaches a ring-sector bounded area in front of
// the actor, plus a matching radial field when the cast is pure Water.
// Ported from engine.rs `start_area_of_effect_magick`.
func startAreaOfEffectMagick(w *world.World, actor *world.Actor, magick world.Magick, angle float64) {
	shape := world.RingSector{
		MinRadius: actor.Body.Radius + w.Settings.Margin,
		MaxRadius: actor.Body.Radius + w.Settings.Margin + magick.Sum()*w.Settings.SprayDistanceFactor,
		Angle:     angle,
	}
	id := w.NextID()
	w.BoundedAreas = append(w.BoundedAreas, world.BoundedArea{
		ID: id, ActorID: actor.ID, Shape: shape, Magick: magick,
		Deadline: w.Time + w.Settings.AreaOfEffectMagickDuration,
	})
	actor.Occupation = world.Occupation{Kind: world.OccupationSpraying, BoundedAreaID: id}

	if pureWater(magick.Power) {
		fieldID := w.NextID()
		w.Fields = append(w.Fields, world.Field{
			ID: fieldID, ActorID: actor.ID, Shape: shape,
			Force: magick.Power[world.Water] * w.Settings.MagicForceMultiplier,
			Deadline: w.Time + w.Settings.AreaOfEffectMagickDuration,
		})
		actor.Occupation.FieldID = fieldID
	}
}

func pureWater(power world.Power) bool {
	if power[world.Water] <= 0 {
		return false
	}
	for i, p := range power {
		if i != int(world.Water) && p > 0 {
			return false
		}
	}
	return true
}

// startDelayedMagick begins charging an Earth or Ice cast: the actor holds
// it until completeDirectedMagick fires on DirectedMagickDuration elapsed.
// Ported from engine.rs `start_directed_magick` (Earth/Ice branch).
func startDelayedMagick(w *world.World, actor *world.Actor, magick world.Magick) {
	actor.DelayedMagick = &world.DelayedMagick{Started: w.Time, Status: world.DelayedStarted, Power: magick.Power}
}

// completeDirectedMagick resolves a fully-charged delayed magick into
// either a thrown heavy projectile (Earth present) or a burst of Ice shots
// from a temporary gun. Ported from engine.rs `complete_directed_magick`.
func completeDirectedMagick(w *world.World, actor *world.Actor) {
	dm := actor.DelayedMagick
	if dm == nil {
		return
	}
	magick := world.Magick{Power: dm.Power}
	if dm.Power[world.Earth] > 0 {
		throwProjectile(w, actor, magick)
	} else {
		attachGun(w, actor, magick)
	}
	actor.DelayedMagick = nil
}

// throwProjectile launches a single heavy projectile along the actor's
// current direction. Ported from engine.rs `Shot::Throw` handling inside
// `handle_completed_magicks`.
func throwProjectile(w *world.World, actor *world.Actor, magick world.Magick) {
	radius := w.Settings.GunBulletRadius * (1 + magick.Sum())
	origin := actor.Position.Add(actor.CurrentDirection.Scale(actor.Body.Radius + radius + w.Settings.Margin))
	speed := w.Settings.MaxActorSpeed * (1 + magick.Sum())
	w.Projectiles = append(w.Projectiles, world.Projectile{
		ID: w.NextID(),
		Body: world.Body{Radius: radius, MaterialType: world.MaterialStone},
		Position: origin,
		Health:   1,
		Magick:   magick,
		Velocity: actor.CurrentDirection.Scale(speed),
	})
}

// attachGun replaces an Ice-charged delayed magick with a temporary gun
// that fires a short burst. Ported from engine.rs `Shot::Shoot` handling.
func attachGun(w *world.World, actor *world.Actor, magick world.Magick) {
	id := w.NextID()
	w.Guns = append(w.Guns, world.Gun{
		ID: id, ActorID: actor.ID, ShotsLeft: 3,
		ShotPeriod:        w.Settings.BaseGunFirePeriod,
		BulletForceFactor: 1 + magick.Sum(),
		BulletPower:       magick.Power,
		LastShot:          w.Time,
	})
	actor.Occupation = world.Occupation{Kind: world.OccupationShooting, GunID: id}
}

// castShield interprets the other elements present alongside Shield to
// choose one of three shield deliveries: an Earth-anchored temp obstacle
// wall, a Water/Cold/Fire/Steam/Poison spray of short-lived temp areas, or
// otherwise (Shield alone or with only Lightning/Life/Arcane/Ice) a
// reflecting aura set on the actor itself.
// Ported from engine.rs `cast_shield` + its three `cast_*_shield` helpers.
func castShield(w *world.World, actor *world.Actor, magick world.Magick) {
	power := magick.Power
	switch {
	case power[world.Earth] > 0:
		castEarthBasedShield(w, actor, magick)
	case power[world.Water] > 0 || power[world.Cold] > 0 || power[world.Fire] > 0 ||
		power[world.Steam] > 0 || power[world.Poison] > 0:
		castSprayBasedShield(w, actor, magick)
	default:
		castReflectingShield(w, actor, magick)
	}
}

func castEarthBasedShield(w *world.World, actor *world.Actor, magick world.Magick) {
	radius := actor.Body.Radius * (1 + magick.Sum())
	position := actor.Position.Add(actor.CurrentDirection.Scale(actor.Body.Radius + radius + w.Settings.Margin))
	w.TempObstacles = append(w.TempObstacles, world.TempObstacle{
		ID: w.NextID(), ActorID: actor.ID,
		Body:     world.Body{Radius: radius, MaterialType: world.MaterialStone},
		Position: position,
		Health:   1,
		Magick:   magick,
		Deadline: w.Time + w.Settings.TempObstacleMagickDuration,
	})
}

func castSprayBasedShield(w *world.World, actor *world.Actor, magick world.Magick) {
	castSpray(w, actor, magick)
}

// castSpray scatters a handful of short-lived temp areas in a cone ahead of
// the actor. Ported from engine.rs `cast_spray`.
func castSpray(w *world.World, actor *world.Actor, magick world.Magick) {
	const sprayCount = 5
	spread := w.Settings.SprayAngle
	for i := 0; i < sprayCount; i++ {
		offset := spread * (float64(i)/float64(sprayCount-1) - 0.5)
		direction := actor.CurrentDirection.Rotated(offset)
		distance := actor.Body.Radius + w.Settings.Margin + magick.Sum()*w.Settings.SprayDistanceFactor
		position := actor.Position.Add(direction.Scale(distance))
		w.TempAreas = append(w.TempAreas, world.TempArea{
			ID: w.NextID(), Radius: w.Settings.GunBulletRadius * 2,
			Position: position, Magick: magick,
			Deadline: w.Time + w.Settings.TempAreaDuration,
		})
	}
}

func castReflectingShield(w *world.World, actor *world.Actor, magick world.Magick) {
	radiusFactor := magick.Sum()
	if magick.Power[world.Earth] > 0 || magick.Power[world.Ice] > 0 || onlyShield(magick.Power) {
		radiusFactor = 1.0
	}
	elements := [world.ElementCount]bool{}
	count := 0
	for i, p := range magick.Power {
		if p > 0 {
			elements[i] = true
			count++
		}
	}
	if count > 1 {
		elements[world.Shield] = false
	}
	actor.Aura = world.Aura{Applied: w.Time, Power: radiusFactor, Radius: actor.Body.Radius * (1 + radiusFactor), Elements: elements}
}

func onlyShield(power world.Power) bool {
	for i, p := range power {
		if i != int(world.Shield) && p > 0 {
			return false
		}
	}
	return power[world.Shield] > 0
}

// updateActorOccupations clears an actor's channeled occupation once its
// backing beam/bounded-area/gun has expired or been removed, and
// advances a charging delayed magick to completion once its duration has
// elapsed. Ported from engine.rs `update_actor_occupations` +
// `update_actor_delayed_magick`.
func updateActorOccupations(w *world.World) {
	for i := range w.Actors {
		a := &w.Actors[i]
		switch a.Occupation.Kind {
		case world.OccupationBeaming:
			if w.FindBeam(a.Occupation.BeamID) < 0 {
				a.Occupation = world.Occupation{}
			}
		case world.OccupationSpraying:
			if w.FindBoundedArea(a.Occupation.BoundedAreaID) < 0 {
				a.Occupation = world.Occupation{}
			}
		case world.OccupationShooting:
			if w.FindGun(a.Occupation.GunID) < 0 {
				a.Occupation = world.Occupation{}
			}
		}
		if a.DelayedMagick != nil && a.DelayedMagick.Status == world.DelayedStarted &&
			w.Time-a.DelayedMagick.Started >= w.Settings.DirectedMagickDuration {
			completeDirectedMagick(w, a)
		}
	}
}

// shootFromGuns fires one bullet per gun whose ShotPeriod has elapsed since
// LastShot, decrementing ShotsLeft; expired guns are swept out in the
// tick's eviction step. Ported from engine.rs `shoot_from_guns`.
func shootFromGuns(w *world.World) {
	for i := range w.Guns {
		g := &w.Guns[i]
		if g.ShotsLeft == 0 || w.Time-g.LastShot < g.ShotPeriod {
			continue
		}
		owner := findActor(w, g.ActorID)
		if owner == nil {
			g.ShotsLeft = 0
			continue
		}
		radius := w.Settings.GunBulletRadius * g.BulletForceFactor
		speed := w.Settings.MaxActorSpeed * g.BulletForceFactor
		angle := w.Settings.GunHalfGroupingAngle * (2*randUnit(w) - 1)
		direction := owner.CurrentDirection.Rotated(angle)
		origin := owner.Position.Add(direction.Scale(owner.Body.Radius + radius + w.Settings.Margin))
		w.Projectiles = append(w.Projectiles, world.Projectile{
			ID: w.NextID(), Body: world.Body{Radius: radius, MaterialType: world.MaterialStone},
			Position: origin, Health: 1,
			Magick:   world.Magick{Power: g.BulletPower},
			Velocity: direction.Scale(speed),
		})
		g.LastShot = w.Time
		g.ShotsLeft--
	}
}

// randUnit draws a uniform [0,1) sample from the engine's deterministic
// RNG, threaded in on each tick (see tick.go Advance). When no generator
// has been set (unit tests that don't exercise randomness) it falls back
// to a fixed mid-range value rather than touching the global math/rand
// source.
func randUnit(w *world.World) float64 {
	if currentRNG == nil {
		return 0.5
	}
	return currentRNG.Float64()
}

// spawnPlayerActors spawns a fresh Actor for every active, actor-less
// Player whose spawn delay has elapsed. Ported from engine.rs
// `spawn_player_actors`.
func spawnPlayerActors(w *world.World) {
	for i := range w.Players {
		p := &w.Players[i]
		if !p.Active || p.ActorID != world.NoID {
			continue
		}
		delay := w.Settings.ActorRespawnDelay
		if p.SpawnTime == 0 {
			delay = w.Settings.InitialActorSpawnDelay
		}
		if w.Time-p.SpawnTime < delay {
			continue
		}
		actor := world.Actor{
			ID: w.NextID(), PlayerID: p.ID, Active: true, Name: p.Name,
			Body:             world.Body{Radius: 1.0, MaterialType: world.MaterialFlesh},
			Position:         randomSpawnPosition(w),
			Health:           1,
			CurrentDirection: geom.Vec2{X: 1},
			TargetDirection:  geom.Vec2{X: 1},
		}
		w.Actors = append(w.Actors, actor)
		p.ActorID = actor.ID
	}
}

func randomSpawnPosition(w *world.World) geom.Vec2 {
	midX := (w.Bounds.Min.X + w.Bounds.Max.X) / 2
	midY := (w.Bounds.Min.Y + w.Bounds.Max.Y) / 2
	dx := (w.Bounds.Max.X - w.Bounds.Min.X) / 4
	dy := (w.Bounds.Max.Y - w.Bounds.Min.Y) / 4
	return geom.Vec2{
		X: midX + dx*(2*randUnit(w)-1),
		Y: midY + dy*(2*randUnit(w)-1),
	}
}

// updatePlayerSpawnTime records when a player's actor died, so
// spawnPlayerActors can enforce ActorRespawnDelay before it returns.
// Ported from engine.rs `update_player_spawn_time`.
func updatePlayerSpawnTime(w *world.World) {
	for i := range w.Players {
		p := &w.Players[i]
		if p.ActorID == world.NoID {
			continue
		}
		if w.FindActor(p.ActorID) < 0 {
			p.SpawnTime = w.Time
			p.Deaths++
			p.ActorID = world.NoID
		}
	}
}

// isActive reports whether a body at position with the given health is
// still within the arena's kill bounds and alive. Ported from engine.rs
// `is_active`.
func isActive(bounds geom.Rect, position geom.Vec2, health float64) bool {
	return health > 0 && bounds.Contains(position)
}

// removeInactiveActorsOccupationResults clears the beam/bounded-area/field
// entities owned by actors about to be filtered out as inactive, so they
// don't linger as orphaned effects for one extra tick. Ported from
// engine.rs `remove_inactive_actors_occupation_results`.
func removeInactiveActorsOccupationResults(w *world.World) {
	dead := make(map[world.ID]bool)
	for i := range w.Actors {
		a := &w.Actors[i]
		if !isActive(w.Bounds, a.Position, a.Health) {
			dead[a.ID] = true
		}
	}
	if len(dead) == 0 {
		return
	}
	w.Beams = filterBeams(w.Beams, func(b world.Beam) bool { return !dead[b.ActorID] })
	w.BoundedAreas = filterBoundedAreas(w.BoundedAreas, func(b world.BoundedArea) bool { return !dead[b.ActorID] })
	w.Fields = filterFields(w.Fields, func(f world.Field) bool { return !dead[f.ActorID] })
	w.Guns = filterGuns(w.Guns, func(g world.Gun) bool { return !dead[g.ActorID] })
}

func filterBeams(in []world.Beam, keep func(world.Beam) bool) []world.Beam {
	out := in[:0]
	for _, b := range in {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func filterBoundedAreas(in []world.BoundedArea, keep func(world.BoundedArea) bool) []world.BoundedArea {
	out := in[:0]
	for _, b := range in {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func filterFields(in []world.Field, keep func(world.Field) bool) []world.Field {
	out := in[:0]
	for _, f := range in {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func filterGuns(in []world.Gun, keep func(world.Gun) bool) []world.Gun {
	out := in[:0]
	for _, g := range in {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}
