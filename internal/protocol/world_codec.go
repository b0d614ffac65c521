package protocol

import (
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// This file holds the binary encode/decode pair for every entity type and
// for the World's own scalar fields, shared by WorldSnapshot (full state)
// and WorldUpdate (added/changed diffs) encoding in codec.go.

func (w *writer) power(p world.Power) {
	for _, v := range p {
		w.f64(v)
	}
}

func (r *reader) power() (world.Power, error) {
	var p world.Power
	for i := range p {
		v, err := r.f64()
		if err != nil {
			return p, err
		}
		p[i] = v
	}
	return p, nil
}

func (w *writer) magick(m world.Magick) { w.power(m.Power) }
func (r *reader) magick() (world.Magick, error) {
	p, err := r.power()
	return world.Magick{Power: p}, err
}

func (w *writer) body(b world.Body) {
	w.f64(b.Radius)
	w.f64(b.ArcLength)
	w.f64(b.ArcRotation)
	w.u32(uint32(b.MaterialType))
}

func (r *reader) body() (world.Body, error) {
	var b world.Body
	var err error
	if b.Radius, err = r.f64(); err != nil {
		return b, err
	}
	if b.ArcLength, err = r.f64(); err != nil {
		return b, err
	}
	if b.ArcRotation, err = r.f64(); err != nil {
		return b, err
	}
	m, err := r.u32()
	if err != nil {
		return b, err
	}
	b.MaterialType = world.MaterialType(m)
	return b, nil
}

func (w *writer) id(id world.ID) { w.u64(uint64(id)) }
func (r *reader) id() (world.ID, error) {
	v, err := r.u64()
	return world.ID(v), err
}

func (w *writer) effect(e world.Effect) { w.power(e.Applied); w.power(e.Power) }
func (r *reader) effect() (world.Effect, error) {
	var e world.Effect
	var err error
	if e.Applied, err = r.power(); err != nil {
		return e, err
	}
	if e.Power, err = r.power(); err != nil {
		return e, err
	}
	return e, nil
}

func (w *writer) aura(a world.Aura) {
	w.f64(a.Applied)
	w.f64(a.Power)
	w.f64(a.Radius)
	for _, e := range a.Elements {
		w.boolean(e)
	}
}

func (r *reader) aura() (world.Aura, error) {
	var a world.Aura
	var err error
	if a.Applied, err = r.f64(); err != nil {
		return a, err
	}
	if a.Power, err = r.f64(); err != nil {
		return a, err
	}
	if a.Radius, err = r.f64(); err != nil {
		return a, err
	}
	for i := range a.Elements {
		if a.Elements[i], err = r.boolean(); err != nil {
			return a, err
		}
	}
	return a, nil
}

func (w *writer) occupation(o world.Occupation) {
	w.u32(uint32(o.Kind))
	w.id(o.BeamID)
	w.id(o.BoundedAreaID)
	w.id(o.FieldID)
	w.id(o.GunID)
}

func (r *reader) occupation() (world.Occupation, error) {
	var o world.Occupation
	k, err := r.u32()
	if err != nil {
		return o, err
	}
	o.Kind = world.OccupationKind(k)
	if o.BeamID, err = r.id(); err != nil {
		return o, err
	}
	if o.BoundedAreaID, err = r.id(); err != nil {
		return o, err
	}
	if o.FieldID, err = r.id(); err != nil {
		return o, err
	}
	if o.GunID, err = r.id(); err != nil {
		return o, err
	}
	return o, nil
}

func (w *writer) ringSector(s world.RingSector) { w.f64(s.MinRadius); w.f64(s.MaxRadius); w.f64(s.Angle) }
func (r *reader) ringSector() (world.RingSector, error) {
	var s world.RingSector
	var err error
	if s.MinRadius, err = r.f64(); err != nil {
		return s, err
	}
	if s.MaxRadius, err = r.f64(); err != nil {
		return s, err
	}
	if s.Angle, err = r.f64(); err != nil {
		return s, err
	}
	return s, nil
}

func (w *writer) rect(rc geom.Rect) { w.vec2(rc.Min); w.vec2(rc.Max) }
func (r *reader) rect() (geom.Rect, error) {
	min, err := r.vec2()
	if err != nil {
		return geom.Rect{}, err
	}
	max, err := r.vec2()
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{Min: min, Max: max}, nil
}

func (w *writer) settings(s world.Settings) {
	w.f64(s.MaxMagicPower)
	w.f64(s.DecayFactor)
	w.f64(s.Margin)
	w.f64(s.PhysicalDamageFactor)
	w.f64(s.MagicalDamageFactor)
	w.f64(s.MaxBeamLength)
	w.f64(s.MaxRotationSpeed)
	w.f64(s.MoveForce)
	w.f64(s.MagicForceMultiplier)
	w.u32(uint32(s.MaxSpellElements))
	w.u32(uint32(s.MaxBeamDepth))
	w.f64(s.GravitationalAcceleration)
	w.f64(s.SprayDistanceFactor)
	w.f64(s.SprayAngle)
	w.f64(s.DirectedMagickDuration)
	w.f64(s.SprayForceFactor)
	w.f64(s.AreaOfEffectMagickDuration)
	w.f64(s.BorderWidth)
	w.f64(s.MinMoveDistance)
	w.f64(s.InitialActorSpawnDelay)
	w.f64(s.ActorRespawnDelay)
	w.f64(s.BaseGunFirePeriod)
	w.f64(s.GunBulletRadius)
	w.f64(s.GunHalfGroupingAngle)
	w.f64(s.TempObstacleMagickDuration)
	w.f64(s.TempAreaDuration)
	w.f64(s.MaxActorSpeed)
	w.f64(s.UpdatePeriod)
}

func (r *reader) settings() (world.Settings, error) {
	var s world.Settings
	floats := []*float64{
		&s.MaxMagicPower, &s.DecayFactor, &s.Margin, &s.PhysicalDamageFactor, &s.MagicalDamageFactor,
		&s.MaxBeamLength, &s.MaxRotationSpeed, &s.MoveForce, &s.MagicForceMultiplier,
	}
	for _, p := range floats {
		v, err := r.f64()
		if err != nil {
			return s, err
		}
		*p = v
	}
	maxSpell, err := r.u32()
	if err != nil {
		return s, err
	}
	s.MaxSpellElements = int(maxSpell)
	maxDepth, err := r.u32()
	if err != nil {
		return s, err
	}
	s.MaxBeamDepth = int(maxDepth)
	rest := []*float64{
		&s.GravitationalAcceleration, &s.SprayDistanceFactor, &s.SprayAngle, &s.DirectedMagickDuration,
		&s.SprayForceFactor, &s.AreaOfEffectMagickDuration, &s.BorderWidth, &s.MinMoveDistance,
		&s.InitialActorSpawnDelay, &s.ActorRespawnDelay, &s.BaseGunFirePeriod, &s.GunBulletRadius,
		&s.GunHalfGroupingAngle, &s.TempObstacleMagickDuration, &s.TempAreaDuration, &s.MaxActorSpeed,
		&s.UpdatePeriod,
	}
	for _, p := range rest {
		v, err := r.f64()
		if err != nil {
			return s, err
		}
		*p = v
	}
	return s, nil
}

func (w *writer) player(p world.Player) {
	w.id(p.ID)
	w.boolean(p.Active)
	w.str(p.Name)
	w.id(p.ActorID)
	w.f64(p.SpawnTime)
	w.u64(p.Deaths)
}

func (r *reader) player() (world.Player, error) {
	var p world.Player
	var err error
	if p.ID, err = r.id(); err != nil {
		return p, err
	}
	if p.Active, err = r.boolean(); err != nil {
		return p, err
	}
	if p.Name, err = r.str(); err != nil {
		return p, err
	}
	if p.ActorID, err = r.id(); err != nil {
		return p, err
	}
	if p.SpawnTime, err = r.f64(); err != nil {
		return p, err
	}
	if p.Deaths, err = r.u64(); err != nil {
		return p, err
	}
	return p, nil
}

func (w *writer) actor(a world.Actor) {
	w.id(a.ID)
	w.id(a.PlayerID)
	w.boolean(a.Active)
	w.str(a.Name)
	w.body(a.Body)
	w.vec2(a.Position)
	w.f64(a.Health)
	w.effect(a.Effect)
	w.aura(a.Aura)
	w.vec2(a.Velocity)
	w.vec2(a.DynamicForce)
	w.vec2(a.CurrentDirection)
	w.vec2(a.TargetDirection)
	w.u32(uint32(len(a.SpellElements)))
	for _, e := range a.SpellElements {
		w.u32(uint32(e))
	}
	w.boolean(a.Moving)
	w.boolean(a.DelayedMagick != nil)
	if a.DelayedMagick != nil {
		w.f64(a.DelayedMagick.Started)
		w.u32(uint32(a.DelayedMagick.Status))
		w.power(a.DelayedMagick.Power)
	}
	w.f64(a.PositionZ)
	w.f64(a.VelocityZ)
	w.occupation(a.Occupation)
}

func (r *reader) actor() (world.Actor, error) {
	var a world.Actor
	var err error
	if a.ID, err = r.id(); err != nil {
		return a, err
	}
	if a.PlayerID, err = r.id(); err != nil {
		return a, err
	}
	if a.Active, err = r.boolean(); err != nil {
		return a, err
	}
	if a.Name, err = r.str(); err != nil {
		return a, err
	}
	if a.Body, err = r.body(); err != nil {
		return a, err
	}
	if a.Position, err = r.vec2(); err != nil {
		return a, err
	}
	if a.Health, err = r.f64(); err != nil {
		return a, err
	}
	if a.Effect, err = r.effect(); err != nil {
		return a, err
	}
	if a.Aura, err = r.aura(); err != nil {
		return a, err
	}
	if a.Velocity, err = r.vec2(); err != nil {
		return a, err
	}
	if a.DynamicForce, err = r.vec2(); err != nil {
		return a, err
	}
	if a.CurrentDirection, err = r.vec2(); err != nil {
		return a, err
	}
	if a.TargetDirection, err = r.vec2(); err != nil {
		return a, err
	}
	n, err := r.u32()
	if err != nil {
		return a, err
	}
	if n > 0 {
		a.SpellElements = make([]world.Element, n)
		for i := range a.SpellElements {
			e, err := r.u32()
			if err != nil {
				return a, err
			}
			a.SpellElements[i] = world.Element(e)
		}
	}
	if a.Moving, err = r.boolean(); err != nil {
		return a, err
	}
	hasDelayed, err := r.boolean()
	if err != nil {
		return a, err
	}
	if hasDelayed {
		dm := &world.DelayedMagick{}
		if dm.Started, err = r.f64(); err != nil {
			return a, err
		}
		status, err := r.u32()
		if err != nil {
			return a, err
		}
		dm.Status = world.DelayedMagickStatus(status)
		if dm.Power, err = r.power(); err != nil {
			return a, err
		}
		a.DelayedMagick = dm
	}
	if a.PositionZ, err = r.f64(); err != nil {
		return a, err
	}
	if a.VelocityZ, err = r.f64(); err != nil {
		return a, err
	}
	if a.Occupation, err = r.occupation(); err != nil {
		return a, err
	}
	return a, nil
}

func (w *writer) projectile(p world.Projectile) {
	w.id(p.ID)
	w.body(p.Body)
	w.vec2(p.Position)
	w.f64(p.Health)
	w.magick(p.Magick)
	w.vec2(p.Velocity)
	w.vec2(p.DynamicForce)
	w.f64(p.PositionZ)
	w.f64(p.VelocityZ)
}

func (r *reader) projectile() (world.Projectile, error) {
	var p world.Projectile
	var err error
	if p.ID, err = r.id(); err != nil {
		return p, err
	}
	if p.Body, err = r.body(); err != nil {
		return p, err
	}
	if p.Position, err = r.vec2(); err != nil {
		return p, err
	}
	if p.Health, err = r.f64(); err != nil {
		return p, err
	}
	if p.Magick, err = r.magick(); err != nil {
		return p, err
	}
	if p.Velocity, err = r.vec2(); err != nil {
		return p, err
	}
	if p.DynamicForce, err = r.vec2(); err != nil {
		return p, err
	}
	if p.PositionZ, err = r.f64(); err != nil {
		return p, err
	}
	if p.VelocityZ, err = r.f64(); err != nil {
		return p, err
	}
	return p, nil
}

func (w *writer) staticObject(o world.StaticObject) {
	w.id(o.ID)
	w.body(o.Body)
	w.vec2(o.Position)
	w.f64(o.Rotation)
	w.f64(o.Health)
	w.effect(o.Effect)
}

func (r *reader) staticObject() (world.StaticObject, error) {
	var o world.StaticObject
	var err error
	if o.ID, err = r.id(); err != nil {
		return o, err
	}
	if o.Body, err = r.body(); err != nil {
		return o, err
	}
	if o.Position, err = r.vec2(); err != nil {
		return o, err
	}
	if o.Rotation, err = r.f64(); err != nil {
		return o, err
	}
	if o.Health, err = r.f64(); err != nil {
		return o, err
	}
	if o.Effect, err = r.effect(); err != nil {
		return o, err
	}
	return o, nil
}

func (w *writer) beam(b world.Beam) { w.id(b.ID); w.id(b.ActorID); w.magick(b.Magick); w.f64(b.Deadline) }
func (r *reader) beam() (world.Beam, error) {
	var b world.Beam
	var err error
	if b.ID, err = r.id(); err != nil {
		return b, err
	}
	if b.ActorID, err = r.id(); err != nil {
		return b, err
	}
	if b.Magick, err = r.magick(); err != nil {
		return b, err
	}
	if b.Deadline, err = r.f64(); err != nil {
		return b, err
	}
	return b, nil
}

func (w *writer) staticAreaShape(s world.StaticAreaShape) {
	w.boolean(s.IsRectangle)
	w.f64(s.Radius)
	w.f64(s.Width)
	w.f64(s.Height)
}
func (r *reader) staticAreaShape() (world.StaticAreaShape, error) {
	var s world.StaticAreaShape
	var err error
	if s.IsRectangle, err = r.boolean(); err != nil {
		return s, err
	}
	if s.Radius, err = r.f64(); err != nil {
		return s, err
	}
	if s.Width, err = r.f64(); err != nil {
		return s, err
	}
	if s.Height, err = r.f64(); err != nil {
		return s, err
	}
	return s, nil
}

func (w *writer) staticArea(a world.StaticArea) {
	w.id(a.ID)
	w.staticAreaShape(a.Shape)
	w.u32(uint32(a.MaterialType))
	w.vec2(a.Position)
	w.f64(a.Rotation)
	w.magick(a.Magick)
}
func (r *reader) staticArea() (world.StaticArea, error) {
	var a world.StaticArea
	var err error
	if a.ID, err = r.id(); err != nil {
		return a, err
	}
	if a.Shape, err = r.staticAreaShape(); err != nil {
		return a, err
	}
	m, err := r.u32()
	if err != nil {
		return a, err
	}
	a.MaterialType = world.MaterialType(m)
	if a.Position, err = r.vec2(); err != nil {
		return a, err
	}
	if a.Rotation, err = r.f64(); err != nil {
		return a, err
	}
	if a.Magick, err = r.magick(); err != nil {
		return a, err
	}
	return a, nil
}

func (w *writer) tempArea(a world.TempArea) {
	w.id(a.ID)
	w.f64(a.Radius)
	w.vec2(a.Position)
	w.magick(a.Magick)
	w.f64(a.Deadline)
}
func (r *reader) tempArea() (world.TempArea, error) {
	var a world.TempArea
	var err error
	if a.ID, err = r.id(); err != nil {
		return a, err
	}
	if a.Radius, err = r.f64(); err != nil {
		return a, err
	}
	if a.Position, err = r.vec2(); err != nil {
		return a, err
	}
	if a.Magick, err = r.magick(); err != nil {
		return a, err
	}
	if a.Deadline, err = r.f64(); err != nil {
		return a, err
	}
	return a, nil
}

func (w *writer) boundedArea(a world.BoundedArea) {
	w.id(a.ID)
	w.id(a.ActorID)
	w.ringSector(a.Shape)
	w.magick(a.Magick)
	w.f64(a.Deadline)
}
func (r *reader) boundedArea() (world.BoundedArea, error) {
	var a world.BoundedArea
	var err error
	if a.ID, err = r.id(); err != nil {
		return a, err
	}
	if a.ActorID, err = r.id(); err != nil {
		return a, err
	}
	if a.Shape, err = r.ringSector(); err != nil {
		return a, err
	}
	if a.Magick, err = r.magick(); err != nil {
		return a, err
	}
	if a.Deadline, err = r.f64(); err != nil {
		return a, err
	}
	return a, nil
}

func (w *writer) field(f world.Field) {
	w.id(f.ID)
	w.id(f.ActorID)
	w.ringSector(f.Shape)
	w.f64(f.Force)
	w.f64(f.Deadline)
}
func (r *reader) field() (world.Field, error) {
	var f world.Field
	var err error
	if f.ID, err = r.id(); err != nil {
		return f, err
	}
	if f.ActorID, err = r.id(); err != nil {
		return f, err
	}
	if f.Shape, err = r.ringSector(); err != nil {
		return f, err
	}
	if f.Force, err = r.f64(); err != nil {
		return f, err
	}
	if f.Deadline, err = r.f64(); err != nil {
		return f, err
	}
	return f, nil
}

func (w *writer) gun(g world.Gun) {
	w.id(g.ID)
	w.id(g.ActorID)
	w.u64(g.ShotsLeft)
	w.f64(g.ShotPeriod)
	w.f64(g.BulletForceFactor)
	w.power(g.BulletPower)
	w.f64(g.LastShot)
}
func (r *reader) gun() (world.Gun, error) {
	var g world.Gun
	var err error
	if g.ID, err = r.id(); err != nil {
		return g, err
	}
	if g.ActorID, err = r.id(); err != nil {
		return g, err
	}
	if g.ShotsLeft, err = r.u64(); err != nil {
		return g, err
	}
	if g.ShotPeriod, err = r.f64(); err != nil {
		return g, err
	}
	if g.BulletForceFactor, err = r.f64(); err != nil {
		return g, err
	}
	if g.BulletPower, err = r.power(); err != nil {
		return g, err
	}
	if g.LastShot, err = r.f64(); err != nil {
		return g, err
	}
	return g, nil
}

func (w *writer) shield(s world.Shield) {
	w.id(s.ID)
	w.id(s.ActorID)
	w.body(s.Body)
	w.vec2(s.Position)
	w.f64(s.Created)
	w.f64(s.Power)
}
func (r *reader) shield() (world.Shield, error) {
	var s world.Shield
	var err error
	if s.ID, err = r.id(); err != nil {
		return s, err
	}
	if s.ActorID, err = r.id(); err != nil {
		return s, err
	}
	if s.Body, err = r.body(); err != nil {
		return s, err
	}
	if s.Position, err = r.vec2(); err != nil {
		return s, err
	}
	if s.Created, err = r.f64(); err != nil {
		return s, err
	}
	if s.Power, err = r.f64(); err != nil {
		return s, err
	}
	return s, nil
}

func (w *writer) tempObstacle(t world.TempObstacle) {
	w.id(t.ID)
	w.id(t.ActorID)
	w.body(t.Body)
	w.vec2(t.Position)
	w.f64(t.Health)
	w.magick(t.Magick)
	w.effect(t.Effect)
	w.f64(t.Deadline)
}
func (r *reader) tempObstacle() (world.TempObstacle, error) {
	var t world.TempObstacle
	var err error
	if t.ID, err = r.id(); err != nil {
		return t, err
	}
	if t.ActorID, err = r.id(); err != nil {
		return t, err
	}
	if t.Body, err = r.body(); err != nil {
		return t, err
	}
	if t.Position, err = r.vec2(); err != nil {
		return t, err
	}
	if t.Health, err = r.f64(); err != nil {
		return t, err
	}
	if t.Magick, err = r.magick(); err != nil {
		return t, err
	}
	if t.Effect, err = r.effect(); err != nil {
		return t, err
	}
	if t.Deadline, err = r.f64(); err != nil {
		return t, err
	}
	return t, nil
}
