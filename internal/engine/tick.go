package engine

import (
	"math/rand"

	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// epsilonDuration is the minimal time slice used when advancing a
// collision's winning pair to its impact point, and the threshold below
// which move_objects treats the remaining tick budget as exhausted.
const epsilonDuration = 1.1920929e-7

// currentRNG is the deterministic generator threaded through the current
// call to Advance, consulted by anything that needs randomness (gun
// spread, actor spawn jitter). It is package-scoped rather than passed
// through every call because the source threads a single `&mut impl Rng`
// through `Engine::update` the same way — a borrowed resource for the
// duration of one tick, not part of any entity's persistent state.
var currentRNG *rand.Rand

// Advance steps the world forward by one fixed tick of `duration` seconds,
// following the fourteen-stage order of engine.rs `Engine::update`:
// evict expired collections, reconcile occupations, spawn players, fire
// guns, resolve areas and fields into effects, run per-type dynamics,
// cast beams, resolve collisions, reset forces, retain only active
// entities, and finally record spawn times for players whose actor died.
// Delayed magicks whose charge time has elapsed complete during the
// occupation step near the start of the tick.
func Advance(w *world.World, duration float64, rng *rand.Rand, beams *BeamCollider) {
	currentRNG = rng
	defer func() { currentRNG = nil }()

	w.Frame++
	w.Time += duration

	evictExpired(w)

	updateActorOccupations(w)
	spawnPlayerActors(w)
	shootFromGuns(w)

	applyAreasAndFields(w)

	updateActors(w.Time, duration, w.Settings, w.Actors)
	updateProjectiles(duration, w.Settings, w.Projectiles)
	updateStaticObjects(w.Time, duration, w.Settings, w.StaticObjects)
	updateShields(duration, w.Settings, w.Shields)
	updateTempObstacles(duration, w.Settings, w.TempObstacles)

	if beams != nil {
		beams.Update(w)
	}

	moveObjects(duration, w, w.Settings.PhysicalDamageFactor, epsilonDuration)

	for i := range w.Actors {
		w.Actors[i].DynamicForce = geom.Zero
	}
	for i := range w.Projectiles {
		w.Projectiles[i].DynamicForce = geom.Zero
	}

	removeInactiveActorsOccupationResults(w)
	retainAliveActors(w)
	retainMovingOrActiveProjectiles(w)
	retainActiveStaticObjects(w)
	retainPoweredShields(w)
	retainHealthyTempObstacles(w)

	updatePlayerSpawnTime(w)
}

func retainAliveActors(w *world.World) {
	out := w.Actors[:0]
	for _, a := range w.Actors {
		if isActive(w.Bounds, a.Position, a.Health) {
			out = append(out, a)
		}
	}
	w.Actors = out
}

func retainMovingOrActiveProjectiles(w *world.World) {
	out := w.Projectiles[:0]
	for _, p := range w.Projectiles {
		stopped := p.VelocityZ == 0 && p.Velocity.Norm() <= epsilonDuration
		if isActive(w.Bounds, p.Position, p.Health) && !stopped {
			out = append(out, p)
		}
	}
	w.Projectiles = out
}

// retainActiveStaticObjects drops any static object reduced to zero
// health or pushed outside the arena bounds. Static objects take magical
// damage in updateStaticObjects and collision damage in resolvePair; the
// retain is part of engine.rs's fourteen-stage order.
func retainActiveStaticObjects(w *world.World) {
	out := w.StaticObjects[:0]
	for _, o := range w.StaticObjects {
		if isActive(w.Bounds, o.Position, o.Health) {
			out = append(out, o)
		}
	}
	w.StaticObjects = out
}

func retainPoweredShields(w *world.World) {
	out := w.Shields[:0]
	for _, s := range w.Shields {
		if s.Power > 0 {
			out = append(out, s)
		}
	}
	w.Shields = out
}

func retainHealthyTempObstacles(w *world.World) {
	out := w.TempObstacles[:0]
	for _, t := range w.TempObstacles {
		if t.Health > 0 {
			out = append(out, t)
		}
	}
	w.TempObstacles = out
}

// evictExpired removes every deadline- or count-bounded collection entry
// whose lifetime has ended, mirroring the first stage of engine.rs
// `Engine::update`.
func evictExpired(w *world.World) {
	w.BoundedAreas = evictByDeadline(w.BoundedAreas, w.Time, func(b world.BoundedArea) float64 { return b.Deadline })
	w.Fields = evictByDeadline(w.Fields, w.Time, func(f world.Field) float64 { return f.Deadline })
	w.TempAreas = evictByDeadline(w.TempAreas, w.Time, func(t world.TempArea) float64 { return t.Deadline })
	w.Beams = evictByDeadline(w.Beams, w.Time, func(b world.Beam) float64 { return b.Deadline })
	w.Guns = evictGuns(w.Guns)
	w.TempObstacles = evictByDeadline(w.TempObstacles, w.Time, func(t world.TempObstacle) float64 { return t.Deadline })
}

func evictByDeadline[T any](in []T, now float64, deadline func(T) float64) []T {
	out := in[:0]
	for _, v := range in {
		if now < deadline(v) {
			out = append(out, v)
		}
	}
	return out
}

func evictGuns(in []world.Gun) []world.Gun {
	out := in[:0]
	for _, g := range in {
		if g.ShotsLeft > 0 {
			out = append(out, g)
		}
	}
	return out
}
