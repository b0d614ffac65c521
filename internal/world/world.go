package world

import "fight-club/internal/geom"

// World is the plain-aggregate value type the whole simulation advances.
// It exclusively owns every entity collection; entities reference each
// other only by ID, never by pointer (spec.md §3, §9). A *World is owned
// by exactly one goroutine — the game loop — for its entire lifetime.
type World struct {
	Frame     uint64
	Time      float64
	idCounter uint64
	Bounds    geom.Rect
	Settings  Settings

	Players        []Player
	Actors         []Actor
	Projectiles    []Projectile
	StaticObjects  []StaticObject
	Beams          []Beam
	StaticAreas    []StaticArea
	TempAreas      []TempArea
	BoundedAreas   []BoundedArea
	Fields         []Field
	Guns           []Gun
	Shields        []Shield
	TempObstacles  []TempObstacle
}

// New builds an empty world with the given bounds and settings.
func New(bounds geom.Rect, settings Settings) *World {
	return &World{
		Bounds:   bounds,
		Settings: settings,
	}
}

// NextID allocates a fresh, never-reused, nonzero identifier.
func (w *World) NextID() ID {
	w.idCounter++
	return ID(w.idCounter)
}

// IDCounter exposes the raw counter, e.g. for snapshotting.
func (w *World) IDCounter() uint64 { return w.idCounter }

// SetIDCounter restores the counter, used when a World is reconstructed
// from a snapshot (the counter itself is part of the wire format).
func (w *World) SetIDCounter(v uint64) { w.idCounter = v }

// FindPlayer returns the index of the player with the given id, or -1.
func (w *World) FindPlayer(id ID) int { return findIndex(len(w.Players), func(i int) ID { return w.Players[i].ID }, id) }

// FindActor returns the index of the actor with the given id, or -1.
func (w *World) FindActor(id ID) int { return findIndex(len(w.Actors), func(i int) ID { return w.Actors[i].ID }, id) }

// FindProjectile returns the index of the projectile with the given id, or -1.
func (w *World) FindProjectile(id ID) int {
	return findIndex(len(w.Projectiles), func(i int) ID { return w.Projectiles[i].ID }, id)
}

// FindStaticObject returns the index of the static object with the given id, or -1.
func (w *World) FindStaticObject(id ID) int {
	return findIndex(len(w.StaticObjects), func(i int) ID { return w.StaticObjects[i].ID }, id)
}

// FindGun returns the index of the gun with the given id, or -1.
func (w *World) FindGun(id ID) int { return findIndex(len(w.Guns), func(i int) ID { return w.Guns[i].ID }, id) }

// FindShield returns the index of the shield with the given id, or -1.
func (w *World) FindShield(id ID) int {
	return findIndex(len(w.Shields), func(i int) ID { return w.Shields[i].ID }, id)
}

// FindBeam returns the index of the beam with the given id, or -1.
func (w *World) FindBeam(id ID) int { return findIndex(len(w.Beams), func(i int) ID { return w.Beams[i].ID }, id) }

// FindBoundedArea returns the index of the bounded area with the given id, or -1.
func (w *World) FindBoundedArea(id ID) int {
	return findIndex(len(w.BoundedAreas), func(i int) ID { return w.BoundedAreas[i].ID }, id)
}

// FindField returns the index of the field with the given id, or -1.
func (w *World) FindField(id ID) int {
	return findIndex(len(w.Fields), func(i int) ID { return w.Fields[i].ID }, id)
}

// FindTempObstacle returns the index of the temp obstacle with the given id, or -1.
func (w *World) FindTempObstacle(id ID) int {
	return findIndex(len(w.TempObstacles), func(i int) ID { return w.TempObstacles[i].ID }, id)
}

// findIndex is a tiny linear-scan helper. Collections stay in the tens to
// low hundreds (spec.md §3), so a linear scan is the specified lookup
// strategy rather than a missing optimization.
func findIndex(n int, at func(int) ID, id ID) int {
	for i := 0; i < n; i++ {
		if at(i) == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies the world (used by the game loop's history ring: each
// retained past world must be independent of subsequent mutation).
func (w *World) Clone() *World {
	c := *w
	c.Players = append([]Player(nil), w.Players...)
	c.Actors = append([]Actor(nil), w.Actors...)
	for i := range c.Actors {
		c.Actors[i].SpellElements = append([]Element(nil), w.Actors[i].SpellElements...)
		if w.Actors[i].DelayedMagick != nil {
			dm := *w.Actors[i].DelayedMagick
			c.Actors[i].DelayedMagick = &dm
		}
	}
	c.Projectiles = append([]Projectile(nil), w.Projectiles...)
	c.StaticObjects = append([]StaticObject(nil), w.StaticObjects...)
	c.Beams = append([]Beam(nil), w.Beams...)
	c.StaticAreas = append([]StaticArea(nil), w.StaticAreas...)
	c.TempAreas = append([]TempArea(nil), w.TempAreas...)
	c.BoundedAreas = append([]BoundedArea(nil), w.BoundedAreas...)
	c.Fields = append([]Field(nil), w.Fields...)
	c.Guns = append([]Gun(nil), w.Guns...)
	c.Shields = append([]Shield(nil), w.Shields...)
	c.TempObstacles = append([]TempObstacle(nil), w.TempObstacles...)
	return &c
}
