package protocol

import (
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// WorldSnapshot is the full-world payload sent to a session whose
// ack_world_frame is zero or older than the history ring (spec.md §4.10
// step 8, §8).
type WorldSnapshot struct {
	Frame     uint64
	Time      float64
	IDCounter uint64
	Bounds    geom.Rect
	Settings  world.Settings

	Players       []world.Player
	Actors        []world.Actor
	Projectiles   []world.Projectile
	StaticObjects []world.StaticObject
	Beams         []world.Beam
	StaticAreas   []world.StaticArea
	TempAreas     []world.TempArea
	BoundedAreas  []world.BoundedArea
	Fields        []world.Field
	Guns          []world.Gun
	Shields       []world.Shield
	TempObstacles []world.TempObstacle
}

// SnapshotWorld captures every field of w into a WorldSnapshot.
func SnapshotWorld(w *world.World) WorldSnapshot {
	return WorldSnapshot{
		Frame:         w.Frame,
		Time:          w.Time,
		IDCounter:     w.IDCounter(),
		Bounds:        w.Bounds,
		Settings:      w.Settings,
		Players:       append([]world.Player(nil), w.Players...),
		Actors:        append([]world.Actor(nil), w.Actors...),
		Projectiles:   append([]world.Projectile(nil), w.Projectiles...),
		StaticObjects: append([]world.StaticObject(nil), w.StaticObjects...),
		Beams:         append([]world.Beam(nil), w.Beams...),
		StaticAreas:   append([]world.StaticArea(nil), w.StaticAreas...),
		TempAreas:     append([]world.TempArea(nil), w.TempAreas...),
		BoundedAreas:  append([]world.BoundedArea(nil), w.BoundedAreas...),
		Fields:        append([]world.Field(nil), w.Fields...),
		Guns:          append([]world.Gun(nil), w.Guns...),
		Shields:       append([]world.Shield(nil), w.Shields...),
		TempObstacles: append([]world.TempObstacle(nil), w.TempObstacles...),
	}
}

// ToWorld reconstructs a *world.World from a snapshot, e.g. for the
// smoke-test client or an admin GetWorld response that needs a real
// *world.World to run read-only queries against.
func (s WorldSnapshot) ToWorld() *world.World {
	w := world.New(s.Bounds, s.Settings)
	w.Frame = s.Frame
	w.Time = s.Time
	w.SetIDCounter(s.IDCounter)
	w.Players = s.Players
	w.Actors = s.Actors
	w.Projectiles = s.Projectiles
	w.StaticObjects = s.StaticObjects
	w.Beams = s.Beams
	w.StaticAreas = s.StaticAreas
	w.TempAreas = s.TempAreas
	w.BoundedAreas = s.BoundedAreas
	w.Fields = s.Fields
	w.Guns = s.Guns
	w.Shields = s.Shields
	w.TempObstacles = s.TempObstacles
	return w
}
