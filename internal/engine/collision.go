package engine

import (
	"fight-club/internal/game/spatial"
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// kind discriminates which World collection a collision participant belongs
// to. Go has no trait-object equivalent of the source's dynamic dispatch
// over collidable bodies, so collision candidates are named by (kind, index)
// pairs and dispatched through collide below — the same shape as the
// source's `Index` enum and `collide_ordered_objects` match.
type kind int

const (
	kindActor kind = iota
	kindProjectile
	kindStaticObject
	kindShield
	kindTempObstacle
)

// less gives Index a total order, used to canonicalize (lhs, rhs) pairs
// before dispatch the way the source's derived Ord on `Index` does.
func (k kind) less(ki int, other kind, oi int) bool {
	if k != other {
		return k < other
	}
	return ki < oi
}

type participant struct {
	k kind
	i int
}

// moveObjects repeatedly finds the earliest collision among every
// collidable pair, resolves it, advances everyone else by that much time,
// and repeats until the tick's duration budget is exhausted. Ported from
// engine.rs `move_objects`.
func moveObjects(duration float64, w *world.World, damageFactor, epsilonDuration float64) {
	durationLeft := duration
	for {
		lhs, rhs, toi, found := earliestCollision(w, durationLeft)
		if !found {
			advanceAll(w, durationLeft)
			return
		}
		advanceAllExcept(w, toi.Toi, lhs, rhs)
		collide(w, lhs, rhs, toi, damageFactor, epsilonDuration)
		step := toi.Toi
		if minStep := duration / 10; minStep > step {
			step = minStep
		}
		durationLeft -= step
		if durationLeft <= 1.1920929e-7 {
			return
		}
	}
}

func circleOf(w *world.World, p participant) (geom.Circle, geom.Vec2) {
	switch p.k {
	case kindActor:
		a := &w.Actors[p.i]
		return geom.Circle{Center: a.Position, Radius: a.Body.Radius}, a.Velocity
	case kindProjectile:
		v := &w.Projectiles[p.i]
		return geom.Circle{Center: v.Position, Radius: v.Body.Radius}, v.Velocity
	case kindStaticObject:
		o := &w.StaticObjects[p.i]
		return geom.Circle{Center: o.Position, Radius: o.Body.Radius}, geom.Zero
	case kindShield:
		s := &w.Shields[p.i]
		return geom.Circle{Center: s.Position, Radius: s.Body.Radius}, geom.Zero
	default:
		t := &w.TempObstacles[p.i]
		return geom.Circle{Center: t.Position, Radius: t.Body.Radius}, geom.Zero
	}
}

// legalPair reports whether two collections are allowed to collide at all,
// mirroring engine.rs `move_objects`'s explicit loop nest: static bodies
// against each dynamic kind, and dynamic kinds against each other
// (actor-actor and projectile-projectile only for i<j, to avoid duplicate
// or self pairs).
func legalPair(a, b participant) bool {
	if a.k == b.k {
		return a.k == kindActor || a.k == kindProjectile
	}
	isStatic := func(k kind) bool { return k == kindStaticObject || k == kindShield || k == kindTempObstacle }
	isDynamic := func(k kind) bool { return k == kindActor || k == kindProjectile }
	if isStatic(a.k) && isDynamic(b.k) {
		return true
	}
	if isStatic(b.k) && isDynamic(a.k) {
		return true
	}
	return (a.k == kindActor && b.k == kindProjectile) || (a.k == kindProjectile && b.k == kindActor)
}

// allParticipants lists every collidable body in the world, tagged by kind.
func allParticipants(w *world.World) []participant {
	all := make([]participant, 0, len(w.Actors)+len(w.Projectiles)+len(w.StaticObjects)+len(w.Shields)+len(w.TempObstacles))
	for i := range w.Actors {
		all = append(all, participant{kindActor, i})
	}
	for i := range w.Projectiles {
		all = append(all, participant{kindProjectile, i})
	}
	for i := range w.StaticObjects {
		all = append(all, participant{kindStaticObject, i})
	}
	for i := range w.Shields {
		all = append(all, participant{kindShield, i})
	}
	for i := range w.TempObstacles {
		all = append(all, participant{kindTempObstacle, i})
	}
	return all
}

type sapBound struct {
	p        participant
	minX, maxX float32
}

func (b sapBound) GetBounds() (float32, float32) { return b.minX, b.maxX }

func earliestCollision(w *world.World, durationLeft float64) (participant, participant, geom.TOIResult, bool) {
	all := allParticipants(w)
	bounds := make([]spatial.SAPEntity, len(all))
	for i, p := range all {
		c, v := circleOf(w, p)
		reach := float32(c.Radius + v.Norm()*durationLeft)
		x := float32(c.Center.X)
		bounds[i] = sapBound{p: p, minX: x - reach, maxX: x + reach}
	}
	sap := spatial.NewSweepAndPrune(len(all))
	candidates := sap.Update(bounds)

	var bestLHS, bestRHS participant
	var best geom.TOIResult
	found := false
	for _, pair := range candidates {
		lhs, rhs := all[pair.A], all[pair.B]
		if !legalPair(lhs, rhs) {
			continue
		}
		lc, lv := circleOf(w, lhs)
		rc, rv := circleOf(w, rhs)
		toi, ok := geom.SweptCircleTOI(lc, rc, lv, rv, durationLeft)
		if !ok {
			continue
		}
		if !found || toi.Toi < best.Toi {
			best, bestLHS, bestRHS, found = toi, lhs, rhs, true
		}
	}
	return bestLHS, bestRHS, best, found
}

// advanceAll moves every dynamic body forward by duration with its current
// velocity (no collision occurred within the remaining budget).
func advanceAll(w *world.World, duration float64) {
	for i := range w.Actors {
		updatePosition(duration, w.Actors[i].Velocity, &w.Actors[i].Position)
	}
	for i := range w.Projectiles {
		updatePosition(duration, w.Projectiles[i].Velocity, &w.Projectiles[i].Position)
	}
}

// advanceAllExcept moves every dynamic body forward by duration except the
// two participants about to collide (those are advanced, to the impact
// point, inside collide/resolvePair).
func advanceAllExcept(w *world.World, duration float64, lhs, rhs participant) {
	skip := func(p participant) bool {
		return (p.k == lhs.k && p.i == lhs.i) || (p.k == rhs.k && p.i == rhs.i)
	}
	for i := range w.Actors {
		if skip(participant{kindActor, i}) {
			continue
		}
		updatePosition(duration, w.Actors[i].Velocity, &w.Actors[i].Position)
	}
	for i := range w.Projectiles {
		if skip(participant{kindProjectile, i}) {
			continue
		}
		updatePosition(duration, w.Projectiles[i].Velocity, &w.Projectiles[i].Position)
	}
}

// collide canonicalizes (lhs, rhs) by kind/index order, then dispatches to
// the resolver through a small set of body accessors — Go's stand-in for
// the source's `dyn CollidingObject<T>` trait objects.
func collide(w *world.World, lhs, rhs participant, toi geom.TOIResult, damageFactor, epsilonDuration float64) {
	if lhs.k.less(lhs.i, rhs.k, rhs.i) {
		resolvePair(w, lhs, rhs, toi, damageFactor, epsilonDuration)
	} else {
		resolvePair(w, rhs, lhs, toi, damageFactor, epsilonDuration)
	}
}

// body is the minimal per-kind accessor set resolvePair needs. Resistance
// is reported as a bool mask (a power resistance is reduced to its nonzero
// elements) so lhs and rhs can share one apply path despite the source's two
// resistance-type instantiations (bool for actors/static bodies, f64 power
// for projectiles/temp obstacles acting as their own resistance).
type body struct {
	material     world.MaterialType
	mass         float64
	position     geom.Vec2
	setPosition  func(geom.Vec2)
	velocity     geom.Vec2
	setVelocity  func(geom.Vec2)
	radius       float64
	magick       world.Magick
	resistance   [world.ElementCount]bool
	effect       world.Effect
	setEffect    func(world.Effect)
	health       float64
	setHealth    func(float64)
	auraElements [world.ElementCount]bool
	isStatic     bool
}

func bodyOf(w *world.World, p participant) body {
	switch p.k {
	case kindActor:
		a := &w.Actors[p.i]
		return body{
			material: a.Body.MaterialType, mass: a.Body.Mass(), position: a.Position,
			setPosition: func(v geom.Vec2) { a.Position = v },
			velocity:    a.Velocity, setVelocity: func(v geom.Vec2) { a.Velocity = v },
			radius: a.Body.Radius, magick: world.Magick{}, resistance: a.Aura.Elements,
			effect: a.Effect, setEffect: func(e world.Effect) { a.Effect = e },
			health: a.Health, setHealth: func(h float64) { a.Health = h },
			auraElements: a.Aura.Elements, isStatic: false,
		}
	case kindProjectile:
		v := &w.Projectiles[p.i]
		return body{
			material: v.Body.MaterialType, mass: v.Body.Mass(), position: v.Position,
			setPosition: func(x geom.Vec2) { v.Position = x },
			velocity:    v.Velocity, setVelocity: func(x geom.Vec2) { v.Velocity = x },
			radius: v.Body.Radius, magick: v.Magick, resistance: nonzeroMask(v.Magick.Power),
			effect: world.Effect{}, setEffect: func(world.Effect) {},
			health: v.Health, setHealth: func(h float64) { v.Health = h },
			auraElements: [world.ElementCount]bool{}, isStatic: false,
		}
	case kindStaticObject:
		o := &w.StaticObjects[p.i]
		return body{
			material: o.Body.MaterialType, mass: o.Body.Mass(), position: o.Position,
			setPosition: func(geom.Vec2) {}, velocity: geom.Zero, setVelocity: func(geom.Vec2) {},
			radius: o.Body.Radius, magick: world.Magick{}, resistance: [world.ElementCount]bool{},
			effect: o.Effect, setEffect: func(e world.Effect) { o.Effect = e },
			health: o.Health, setHealth: func(h float64) { o.Health = h },
			auraElements: [world.ElementCount]bool{}, isStatic: true,
		}
	case kindShield:
		s := &w.Shields[p.i]
		return body{
			material: s.Body.MaterialType, mass: s.Body.Mass(), position: s.Position,
			setPosition: func(geom.Vec2) {}, velocity: geom.Zero, setVelocity: func(geom.Vec2) {},
			radius: s.Body.Radius, magick: world.Magick{}, resistance: allTrue(),
			effect: world.Effect{}, setEffect: func(world.Effect) {},
			health: 0, setHealth: func(float64) {},
			auraElements: [world.ElementCount]bool{}, isStatic: true,
		}
	default:
		t := &w.TempObstacles[p.i]
		return body{
			material: t.Body.MaterialType, mass: t.Body.Mass(), position: t.Position,
			setPosition: func(geom.Vec2) {}, velocity: geom.Zero, setVelocity: func(geom.Vec2) {},
			radius: t.Body.Radius, magick: t.Magick, resistance: nonzeroMask(t.Magick.Power),
			effect: t.Effect, setEffect: func(e world.Effect) { t.Effect = e },
			health: t.Health, setHealth: func(h float64) { t.Health = h },
			auraElements: [world.ElementCount]bool{}, isStatic: true,
		}
	}
}

func nonzeroMask(power world.Power) [world.ElementCount]bool {
	var mask [world.ElementCount]bool
	for i, p := range power {
		mask[i] = p != 0
	}
	return mask
}

func allTrue() [world.ElementCount]bool {
	var mask [world.ElementCount]bool
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// resolvePair applies the impulse/penetration/magick-exchange/damage
// sequence to a canonically-ordered pair. Ported from engine.rs
// `apply_impact` and `get_contact`.
func resolvePair(w *world.World, lhs, rhs participant, toi geom.TOIResult, damageFactor, epsilonDuration float64) {
	l := bodyOf(w, lhs)
	r := bodyOf(w, rhs)

	lhsKE := getKineticEnergy(l.mass, l.velocity)
	rhsKE := getKineticEnergy(r.mass, r.velocity)

	deltaVelocity := l.velocity.Sub(r.velocity)
	massSum := l.mass + r.mass
	lhsVelocity := l.velocity.Sub(deltaVelocity.Scale(r.mass * (1 + l.material.Restitution()) / massSum))
	rhsVelocity := r.velocity.Add(deltaVelocity.Scale(l.mass * (1 + r.material.Restitution()) / massSum))

	l.setPosition(l.position.Add(l.velocity.Scale(toi.Toi)).Add(lhsVelocity.Scale(epsilonDuration)))
	r.setPosition(r.position.Add(r.velocity.Scale(toi.Toi)).Add(rhsVelocity.Scale(epsilonDuration)))
	l.setVelocity(lhsVelocity)
	r.setVelocity(rhsVelocity)

	lPos := l.position.Add(l.velocity.Scale(toi.Toi)).Add(lhsVelocity.Scale(epsilonDuration))
	rPos := r.position.Add(r.velocity.Scale(toi.Toi)).Add(rhsVelocity.Scale(epsilonDuration))
	dist, normal := geom.Penetration(lPos, rPos, l.radius, r.radius)
	if dist < 0 {
		switch {
		case l.isStatic:
			r.setPosition(rPos.Add(normal.Scale(-dist)))
		case r.isStatic:
			l.setPosition(lPos.Add(normal.Scale(dist)))
		default:
			half := -dist / 2
			l.setPosition(lPos.Add(normal.Scale(-half * r.mass / massSum)))
			r.setPosition(rPos.Add(normal.Scale(half * l.mass / massSum)))
		}
	}

	l.setEffect(addMagickToEffect(w.Time, l.effect, r.magick, l.resistance))
	r.setEffect(addMagickToEffect(w.Time, r.effect, l.magick, r.resistance))

	handleCollisionDamage(lhsKE, damageFactor, lhsVelocity, l)
	handleCollisionDamage(rhsKE, damageFactor, rhsVelocity, r)
}

func handleCollisionDamage(prevKE, damageFactor float64, velocity geom.Vec2, b body) {
	if canAbsorbPhysicalDamage(b.auraElements) {
		return
	}
	health := b.health - absF(getKineticEnergy(b.mass, velocity)-prevKE)*damageFactor/b.mass
	b.setHealth(health)
}

func getKineticEnergy(mass float64, velocity geom.Vec2) float64 {
	return mass * velocity.DotSelf() / 2
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
