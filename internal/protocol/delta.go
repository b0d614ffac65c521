package protocol

import (
	"math"

	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// epsilon is the semantic-equality tolerance for delta synthesis
// (spec.md §8): floats within epsilon of each other are treated as equal
// so denormal floating-point noise doesn't churn the wire.
const epsilon = 1e-12

func floatEq(a, b float64) bool { return math.Abs(a-b) <= epsilon }
func vecEq(a, b geom.Vec2) bool { return a.AlmostEqual(b, epsilon) }
func powerEq(a, b world.Power) bool {
	for i := range a {
		if !floatEq(a[i], b[i]) {
			return false
		}
	}
	return true
}
func effectEq(a, b world.Effect) bool { return powerEq(a.Power, b.Power) && powerEq(a.Applied, b.Applied) }
func auraEq(a, b world.Aura) bool {
	if !floatEq(a.Applied, b.Applied) || !floatEq(a.Power, b.Power) || !floatEq(a.Radius, b.Radius) {
		return false
	}
	return a.Elements == b.Elements
}
func bodyEq(a, b world.Body) bool {
	return floatEq(a.Radius, b.Radius) && floatEq(a.ArcLength, b.ArcLength) &&
		floatEq(a.ArcRotation, b.ArcRotation) && a.MaterialType == b.MaterialType
}
func elementsEq(a, b []world.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
func delayedMagickEq(a, b *world.DelayedMagick) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return floatEq(a.Started, b.Started) && a.Status == b.Status && powerEq(a.Power, b.Power)
}

// CollectionDelta records the per-collection diff between two world
// snapshots: entities present in new but not old are Added, entities
// present in both but semantically different are Changed, and ids present
// in old but absent from new are Removed.
type CollectionDelta[T any] struct {
	Added   []T
	Changed []T
	Removed []world.ID
}

func diffCollection[T any](old, new []T, id func(T) world.ID, equal func(a, b T) bool) CollectionDelta[T] {
	var d CollectionDelta[T]
	oldIdx := make(map[world.ID]int, len(old))
	for i, v := range old {
		oldIdx[id(v)] = i
	}
	seen := make(map[world.ID]bool, len(new))
	for _, v := range new {
		nid := id(v)
		seen[nid] = true
		if oi, ok := oldIdx[nid]; ok {
			if !equal(old[oi], v) {
				d.Changed = append(d.Changed, v)
			}
		} else {
			d.Added = append(d.Added, v)
		}
	}
	for _, v := range old {
		if !seen[id(v)] {
			d.Removed = append(d.Removed, id(v))
		}
	}
	return d
}

func applyCollection[T any](base []T, d CollectionDelta[T], id func(T) world.ID) []T {
	removed := make(map[world.ID]bool, len(d.Removed))
	for _, rid := range d.Removed {
		removed[rid] = true
	}
	changed := make(map[world.ID]T, len(d.Changed))
	for _, v := range d.Changed {
		changed[id(v)] = v
	}
	out := base[:0]
	for _, v := range base {
		vid := id(v)
		if removed[vid] {
			continue
		}
		if cv, ok := changed[vid]; ok {
			out = append(out, cv)
		} else {
			out = append(out, v)
		}
	}
	out = append(out, d.Added...)
	return out
}

// WorldUpdate is the delta payload sent to a session whose ack is within
// the history ring: the world's current scalar fields plus an
// added/changed/removed diff per entity collection (spec.md §4.8, §4.10).
type WorldUpdate struct {
	Frame     uint64
	Time      float64
	IDCounter uint64
	Bounds    geom.Rect
	Settings  world.Settings

	Players       CollectionDelta[world.Player]
	Actors        CollectionDelta[world.Actor]
	Projectiles   CollectionDelta[world.Projectile]
	StaticObjects CollectionDelta[world.StaticObject]
	Beams         CollectionDelta[world.Beam]
	StaticAreas   CollectionDelta[world.StaticArea]
	TempAreas     CollectionDelta[world.TempArea]
	BoundedAreas  CollectionDelta[world.BoundedArea]
	Fields        CollectionDelta[world.Field]
	Guns          CollectionDelta[world.Gun]
	Shields       CollectionDelta[world.Shield]
	TempObstacles CollectionDelta[world.TempObstacle]
}

// MakeWorldUpdate computes the delta that carries old forward to new.
// Ported from the intent of world.rs's `GameUpdate::World` replacement
// semantics, generalized per spec.md §4.8 into explicit per-collection
// added/changed/removed sets rather than a whole-world replace.
func MakeWorldUpdate(old, new WorldSnapshot) WorldUpdate {
	return WorldUpdate{
		Frame:     new.Frame,
		Time:      new.Time,
		IDCounter: new.IDCounter,
		Bounds:    new.Bounds,
		Settings:  new.Settings,

		Players: diffCollection(old.Players, new.Players,
			func(p world.Player) world.ID { return p.ID }, playerEq),
		Actors: diffCollection(old.Actors, new.Actors,
			func(a world.Actor) world.ID { return a.ID }, actorEq),
		Projectiles: diffCollection(old.Projectiles, new.Projectiles,
			func(p world.Projectile) world.ID { return p.ID }, projectileEq),
		StaticObjects: diffCollection(old.StaticObjects, new.StaticObjects,
			func(o world.StaticObject) world.ID { return o.ID }, staticObjectEq),
		Beams: diffCollection(old.Beams, new.Beams,
			func(b world.Beam) world.ID { return b.ID }, beamEq),
		StaticAreas: diffCollection(old.StaticAreas, new.StaticAreas,
			func(a world.StaticArea) world.ID { return a.ID }, staticAreaEq),
		TempAreas: diffCollection(old.TempAreas, new.TempAreas,
			func(a world.TempArea) world.ID { return a.ID }, tempAreaEq),
		BoundedAreas: diffCollection(old.BoundedAreas, new.BoundedAreas,
			func(a world.BoundedArea) world.ID { return a.ID }, boundedAreaEq),
		Fields: diffCollection(old.Fields, new.Fields,
			func(f world.Field) world.ID { return f.ID }, fieldEq),
		Guns: diffCollection(old.Guns, new.Guns,
			func(g world.Gun) world.ID { return g.ID }, gunEq),
		Shields: diffCollection(old.Shields, new.Shields,
			func(s world.Shield) world.ID { return s.ID }, shieldEq),
		TempObstacles: diffCollection(old.TempObstacles, new.TempObstacles,
			func(t world.TempObstacle) world.ID { return t.ID }, tempObstacleEq),
	}
}

// ApplyWorldUpdate folds u onto base, returning the resulting snapshot.
// For any (old, new) pair, ApplyWorldUpdate(old, MakeWorldUpdate(old, new))
// reproduces new up to the epsilon semantic-equality tolerance used to
// build the delta (spec.md §8 delta round-trip property).
func ApplyWorldUpdate(base WorldSnapshot, u WorldUpdate) WorldSnapshot {
	return WorldSnapshot{
		Frame:     u.Frame,
		Time:      u.Time,
		IDCounter: u.IDCounter,
		Bounds:    u.Bounds,
		Settings:  u.Settings,

		Players:       applyCollection(base.Players, u.Players, func(p world.Player) world.ID { return p.ID }),
		Actors:        applyCollection(base.Actors, u.Actors, func(a world.Actor) world.ID { return a.ID }),
		Projectiles:   applyCollection(base.Projectiles, u.Projectiles, func(p world.Projectile) world.ID { return p.ID }),
		StaticObjects: applyCollection(base.StaticObjects, u.StaticObjects, func(o world.StaticObject) world.ID { return o.ID }),
		Beams:         applyCollection(base.Beams, u.Beams, func(b world.Beam) world.ID { return b.ID }),
		StaticAreas:   applyCollection(base.StaticAreas, u.StaticAreas, func(a world.StaticArea) world.ID { return a.ID }),
		TempAreas:     applyCollection(base.TempAreas, u.TempAreas, func(a world.TempArea) world.ID { return a.ID }),
		BoundedAreas:  applyCollection(base.BoundedAreas, u.BoundedAreas, func(a world.BoundedArea) world.ID { return a.ID }),
		Fields:        applyCollection(base.Fields, u.Fields, func(f world.Field) world.ID { return f.ID }),
		Guns:          applyCollection(base.Guns, u.Guns, func(g world.Gun) world.ID { return g.ID }),
		Shields:       applyCollection(base.Shields, u.Shields, func(s world.Shield) world.ID { return s.ID }),
		TempObstacles: applyCollection(base.TempObstacles, u.TempObstacles, func(t world.TempObstacle) world.ID { return t.ID }),
	}
}

// AddAllRemoved folds the removals of an earlier delta into a later one,
// so a client whose ack predates several intervening ticks still learns
// about every entity that died anywhere in between, not just in the most
// recent tick (spec.md §4.8 `add_all_removed`).
func AddAllRemoved(into, earlier WorldUpdate) WorldUpdate {
	into.Players.Removed = append(into.Players.Removed, earlier.Players.Removed...)
	into.Actors.Removed = append(into.Actors.Removed, earlier.Actors.Removed...)
	into.Projectiles.Removed = append(into.Projectiles.Removed, earlier.Projectiles.Removed...)
	into.StaticObjects.Removed = append(into.StaticObjects.Removed, earlier.StaticObjects.Removed...)
	into.Beams.Removed = append(into.Beams.Removed, earlier.Beams.Removed...)
	into.StaticAreas.Removed = append(into.StaticAreas.Removed, earlier.StaticAreas.Removed...)
	into.TempAreas.Removed = append(into.TempAreas.Removed, earlier.TempAreas.Removed...)
	into.BoundedAreas.Removed = append(into.BoundedAreas.Removed, earlier.BoundedAreas.Removed...)
	into.Fields.Removed = append(into.Fields.Removed, earlier.Fields.Removed...)
	into.Guns.Removed = append(into.Guns.Removed, earlier.Guns.Removed...)
	into.Shields.Removed = append(into.Shields.Removed, earlier.Shields.Removed...)
	into.TempObstacles.Removed = append(into.TempObstacles.Removed, earlier.TempObstacles.Removed...)
	return into
}

func playerEq(a, b world.Player) bool {
	return a.Active == b.Active && a.Name == b.Name && a.ActorID == b.ActorID &&
		floatEq(a.SpawnTime, b.SpawnTime) && a.Deaths == b.Deaths
}

func occupationEq(a, b world.Occupation) bool {
	return a.Kind == b.Kind && a.BeamID == b.BeamID && a.BoundedAreaID == b.BoundedAreaID &&
		a.FieldID == b.FieldID && a.GunID == b.GunID
}

func actorEq(a, b world.Actor) bool {
	return a.PlayerID == b.PlayerID && a.Active == b.Active && a.Name == b.Name &&
		bodyEq(a.Body, b.Body) && vecEq(a.Position, b.Position) && floatEq(a.Health, b.Health) &&
		effectEq(a.Effect, b.Effect) && auraEq(a.Aura, b.Aura) && vecEq(a.Velocity, b.Velocity) &&
		vecEq(a.CurrentDirection, b.CurrentDirection) && vecEq(a.TargetDirection, b.TargetDirection) &&
		elementsEq(a.SpellElements, b.SpellElements) && a.Moving == b.Moving &&
		delayedMagickEq(a.DelayedMagick, b.DelayedMagick) &&
		floatEq(a.PositionZ, b.PositionZ) && floatEq(a.VelocityZ, b.VelocityZ) &&
		occupationEq(a.Occupation, b.Occupation)
}

func projectileEq(a, b world.Projectile) bool {
	return bodyEq(a.Body, b.Body) && vecEq(a.Position, b.Position) && floatEq(a.Health, b.Health) &&
		powerEq(a.Magick.Power, b.Magick.Power) && vecEq(a.Velocity, b.Velocity) &&
		floatEq(a.PositionZ, b.PositionZ) && floatEq(a.VelocityZ, b.VelocityZ)
}

func staticObjectEq(a, b world.StaticObject) bool {
	return bodyEq(a.Body, b.Body) && vecEq(a.Position, b.Position) && floatEq(a.Rotation, b.Rotation) &&
		floatEq(a.Health, b.Health) && effectEq(a.Effect, b.Effect)
}

func beamEq(a, b world.Beam) bool {
	return a.ActorID == b.ActorID && powerEq(a.Magick.Power, b.Magick.Power) && floatEq(a.Deadline, b.Deadline)
}

func staticAreaEq(a, b world.StaticArea) bool {
	return a.Shape == b.Shape && a.MaterialType == b.MaterialType && vecEq(a.Position, b.Position) &&
		floatEq(a.Rotation, b.Rotation) && powerEq(a.Magick.Power, b.Magick.Power)
}

func tempAreaEq(a, b world.TempArea) bool {
	return floatEq(a.Radius, b.Radius) && vecEq(a.Position, b.Position) &&
		powerEq(a.Magick.Power, b.Magick.Power) && floatEq(a.Deadline, b.Deadline)
}

func ringSectorEq(a, b world.RingSector) bool {
	return floatEq(a.MinRadius, b.MinRadius) && floatEq(a.MaxRadius, b.MaxRadius) && floatEq(a.Angle, b.Angle)
}

func boundedAreaEq(a, b world.BoundedArea) bool {
	return a.ActorID == b.ActorID && ringSectorEq(a.Shape, b.Shape) &&
		powerEq(a.Magick.Power, b.Magick.Power) && floatEq(a.Deadline, b.Deadline)
}

func fieldEq(a, b world.Field) bool {
	return a.ActorID == b.ActorID && ringSectorEq(a.Shape, b.Shape) &&
		floatEq(a.Force, b.Force) && floatEq(a.Deadline, b.Deadline)
}

func gunEq(a, b world.Gun) bool {
	return a.ActorID == b.ActorID && a.ShotsLeft == b.ShotsLeft && floatEq(a.ShotPeriod, b.ShotPeriod) &&
		floatEq(a.BulletForceFactor, b.BulletForceFactor) && powerEq(a.BulletPower, b.BulletPower) &&
		floatEq(a.LastShot, b.LastShot)
}

func shieldEq(a, b world.Shield) bool {
	return a.ActorID == b.ActorID && bodyEq(a.Body, b.Body) && vecEq(a.Position, b.Position) &&
		floatEq(a.Created, b.Created) && floatEq(a.Power, b.Power)
}

func tempObstacleEq(a, b world.TempObstacle) bool {
	return a.ActorID == b.ActorID && bodyEq(a.Body, b.Body) && vecEq(a.Position, b.Position) &&
		floatEq(a.Health, b.Health) && powerEq(a.Magick.Power, b.Magick.Power) && effectEq(a.Effect, b.Effect) &&
		floatEq(a.Deadline, b.Deadline)
}
