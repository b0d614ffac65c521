package geom

import "math"

// TOIResult is the outcome of a swept-shape time-of-impact query.
type TOIResult struct {
	// Toi is the time, in [0, duration], at which the shapes first touch.
	Toi float64
	// Normal points from the lhs body's center toward the rhs body's
	// center at the moment of impact.
	Normal Vec2
}

// SweptCircleTOI computes the earliest time within [0, duration] at which
// two moving circles touch, given their current positions and constant
// velocities over the query window. All dynamic and static bodies in this
// simulation are circles (actors, projectiles, shields, temp obstacles,
// static objects), so a closed-form moving-circle-vs-moving-circle solve
// covers every collidable pair without a general polygon narrow phase.
//
// A static body is represented with velocity Zero; the formula reduces to
// the moving-circle-vs-static-circle case automatically.
func SweptCircleTOI(lhs, rhs Circle, lhsVel, rhsVel Vec2, duration float64) (TOIResult, bool) {
	relPos := lhs.Center.Sub(rhs.Center)
	relVel := lhsVel.Sub(rhsVel)
	radiusSum := lhs.Radius + rhs.Radius

	// Already overlapping: report an immediate impact so the caller's
	// penetration-correction step can resolve it.
	if relPos.Norm() <= radiusSum {
		normal := rhs.Center.Sub(lhs.Center)
		if normal.DotSelf() == 0 {
			normal = Vec2{X: 1}
		} else {
			normal = normal.Normalized()
		}
		return TOIResult{Toi: 0, Normal: normal}, true
	}

	a := relVel.DotSelf()
	b := 2 * relPos.Dot(relVel)
	c := relPos.DotSelf() - radiusSum*radiusSum

	if a == 0 {
		// No relative motion: shapes never meet within the window.
		return TOIResult{}, false
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return TOIResult{}, false
	}

	sqrtDisc := math.Sqrt(disc)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)
	toi, ok := earliestNonNegative(t1, t2, duration)
	if !ok {
		return TOIResult{}, false
	}

	lhsAtImpact := lhs.Center.Add(lhsVel.Scale(toi))
	rhsAtImpact := rhs.Center.Add(rhsVel.Scale(toi))
	normal := rhsAtImpact.Sub(lhsAtImpact)
	if normal.DotSelf() == 0 {
		normal = Vec2{X: 1}
	} else {
		normal = normal.Normalized()
	}
	return TOIResult{Toi: toi, Normal: normal}, true
}

// Penetration reports the signed gap between two circle surfaces (negative
// when overlapping) and the unit normal from lhs toward rhs. Used after a
// TOI impact to correct residual penetration left by the discrete step.
func Penetration(lhsCenter, rhsCenter Vec2, lhsRadius, rhsRadius float64) (dist float64, normal Vec2) {
	delta := rhsCenter.Sub(lhsCenter)
	d := delta.Norm()
	if d == 0 {
		return -(lhsRadius + rhsRadius), Vec2{X: 1}
	}
	return d - (lhsRadius + rhsRadius), delta.Scale(1 / d)
}

func earliestNonNegative(t1, t2, max float64) (float64, bool) {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 >= 0 && t1 <= max {
		return t1, true
	}
	if t2 >= 0 && t2 <= max {
		return t2, true
	}
	return 0, false
}
