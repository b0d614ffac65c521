package engine

import (
	"fight-club/internal/geom"
	"fight-club/internal/world"
)

// EmittedBeam is a single ray segment cast during one tick, kept for the
// renderer: the client draws initial beams from their caster and reflected
// beams off shields and reflective auras.
type EmittedBeam struct {
	Origin    geom.Vec2
	Direction geom.Vec2
	Length    float64
	Depth     int
	Magick    world.Magick
}

// BeamCollider casts every in-flight beam against the world each tick,
// chasing reflections up to Settings.MaxBeamDepth. Ported from engine.rs
// `BeamCollider::update`.
type BeamCollider struct {
	Initial   []EmittedBeam
	Reflected []EmittedBeam
}

func (bc *BeamCollider) Update(w *world.World) {
	bc.Initial = bc.Initial[:0]
	bc.Reflected = bc.Reflected[:0]
	for _, beam := range w.Beams {
		owner := findActor(w, beam.ActorID)
		if owner == nil {
			continue
		}
		direction := owner.CurrentDirection
		origin := owner.Position.Add(direction.Scale(owner.Body.Radius + w.Settings.Margin))
		length := w.Settings.MaxBeamLength
		reflected, ok := intersectBeam(w, beam.Magick, origin, direction, 0, &length)
		if ok {
			bc.Reflected = append(bc.Reflected, reflected)
		}
		bc.Initial = append(bc.Initial, EmittedBeam{Origin: origin, Direction: direction, Length: length, Depth: 0, Magick: beam.Magick})
	}
	for i := 0; i < len(bc.Reflected); i++ {
		beam := &bc.Reflected[i]
		origin := beam.Origin.Add(beam.Direction.Scale(w.Settings.Margin))
		length := beam.Length
		reflected, ok := intersectBeam(w, beam.Magick, origin, beam.Direction, beam.Depth, &length)
		beam.Length = length
		if ok {
			reflected.Length += w.Settings.Margin
			bc.Reflected = append(bc.Reflected, reflected)
		}
	}
}

// intersectBeam finds the nearest hit along a ray (if any closer than
// *length), applies the beam's magick to the hit target, and — if the
// target reflects and depth allows it — returns the reflected continuation.
// Hit priority follows engine.rs `intersect_beam`: actors, then
// projectiles, then static objects, then shields, then temp obstacles, each
// pass only able to shrink *length further.
func intersectBeam(w *world.World, magick world.Magick, origin, direction geom.Vec2, depth int, length *float64) (EmittedBeam, bool) {
	type hit struct {
		kind   int // 0 actor, 1 projectile, 2 staticObject, 3 shield, 4 tempObstacle
		index  int
		normal geom.Vec2
	}
	var best *hit

	scan := func(kind int, n int, at func(int) (geom.Vec2, float64)) {
		for i := 0; i < n; i++ {
			center, radius := at(i)
			circle := geom.Circle{Center: center, Radius: radius}
			ray := geom.Segment{Begin: origin, End: origin.Add(direction.Scale(*length))}
			point, ok := circle.FirstIntersectionWithLine(ray)
			if !ok {
				continue
			}
			dist := origin.Distance(point)
			if dist > *length {
				continue
			}
			*length = dist
			normal := point.Sub(center)
			best = &hit{kind: kind, index: i, normal: normal}
		}
	}

	scan(0, len(w.Actors), func(i int) (geom.Vec2, float64) { return w.Actors[i].Position, w.Actors[i].Body.Radius })
	scan(1, len(w.Projectiles), func(i int) (geom.Vec2, float64) { return w.Projectiles[i].Position, w.Projectiles[i].Body.Radius })
	scan(2, len(w.StaticObjects), func(i int) (geom.Vec2, float64) { return w.StaticObjects[i].Position, w.StaticObjects[i].Body.Radius })
	scan(3, len(w.Shields), func(i int) (geom.Vec2, float64) { return w.Shields[i].Position, w.Shields[i].Body.Radius })
	scan(4, len(w.TempObstacles), func(i int) (geom.Vec2, float64) { return w.TempObstacles[i].Position, w.TempObstacles[i].Body.Radius })

	if best == nil {
		return EmittedBeam{}, false
	}

	canReflect := false
	switch best.kind {
	case 0:
		a := &w.Actors[best.index]
		a.Effect = addMagickToEffect(w.Time, a.Effect, magick, a.Aura.Elements)
		canReflect = canReflectBeams(a.Aura.Elements)
	case 1:
		canReflect = false
	case 2:
		o := &w.StaticObjects[best.index]
		var noResistance [world.ElementCount]bool
		o.Effect = addMagickToEffect(w.Time, o.Effect, magick, noResistance)
		canReflect = false
	case 3:
		canReflect = true
	case 4:
		canReflect = false
	}

	if depth < w.Settings.MaxBeamDepth && canReflect {
		normal := best.normal.Normalized()
		reflectedDir := direction.Sub(normal.Scale(2 * direction.Cos(normal)))
		return EmittedBeam{
			Origin:    origin.Add(direction.Scale(*length)),
			Direction: reflectedDir,
			Length:    w.Settings.MaxBeamLength,
			Depth:     depth + 1,
			Magick:    magick,
		}, true
	}
	return EmittedBeam{}, false
}
