package geom

import "math"

// epsilon mirrors the source's use of f32::EPSILON for point-on-line and
// tangency checks against f64 geometry.
const epsilon = 1.1920929e-7

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	Min, Max Vec2
}

// NewRect builds a rectangle from its min and max corners.
func NewRect(min, max Vec2) Rect { return Rect{Min: min, Max: max} }

// Contains reports whether point lies within the rectangle, inclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Width returns the rectangle's width.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the rectangle's height.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// InnerQuartile returns the rectangle spanning the middle half of r along
// both axes, used to pick randomized spawn positions away from the walls.
func (r Rect) InnerQuartile() Rect {
	w, h := r.Width(), r.Height()
	return Rect{
		Min: Vec2{r.Min.X + w/4, r.Min.Y + h/4},
		Max: Vec2{r.Max.X - w/4, r.Max.Y - h/4},
	}
}

// Segment is a directed line segment.
type Segment struct {
	Begin, End Vec2
}

// NewSegment builds a segment between two points.
func NewSegment(begin, end Vec2) Segment { return Segment{Begin: begin, End: end} }

// HasPoint reports whether point lies on the segment (within tolerance).
func (s Segment) HasPoint(point Vec2) bool {
	toEnd := s.End.Sub(point)
	if toEnd.DotSelf() == 0 {
		return true
	}
	toBegin := s.Begin.Sub(point)
	if toBegin.DotSelf() == 0 {
		return true
	}
	return math.Abs(1.0+toBegin.Cos(toEnd)) <= epsilon
}

// Nearest returns the point on the infinite line through the segment that
// is closest to point.
func (s Segment) Nearest(point Vec2) Vec2 {
	toEnd := s.End.Sub(s.Begin)
	toEndSq := toEnd.DotSelf()
	if toEndSq == 0 {
		return s.Begin
	}
	toPoint := point.Sub(s.Begin)
	return s.Begin.Add(toEnd.Scale(toPoint.Dot(toEnd) / toEndSq))
}

// Circle is a disk defined by center and radius.
type Circle struct {
	Center Vec2
	Radius float64
}

// NewCircle builds a circle.
func NewCircle(center Vec2, radius float64) Circle { return Circle{Center: center, Radius: radius} }

// Contains reports whether the point lies inside or on the circle.
func (c Circle) Contains(p Vec2) bool { return c.Center.Distance(p) <= c.Radius }

// FirstIntersectionWithSegment returns the first point (from segment.Begin)
// where the segment crosses the circle's boundary, or false if it never
// does. Mirrors the source's begin-inside-circle handling so that a ray
// cast from inside a disk still finds the correct exit point.
func (c Circle) FirstIntersectionWithSegment(s Segment) (Vec2, bool) {
	beginInside := s.Begin.Distance(c.Center)-c.Radius < -epsilon
	if beginInside && s.End.Distance(c.Center)-c.Radius < -epsilon {
		return Vec2{}, false
	}
	var line Segment
	if beginInside {
		line = NewSegment(s.End, s.Begin)
	} else {
		line = s
	}
	point, ok := c.FirstIntersectionWithLine(line)
	if !ok {
		return Vec2{}, false
	}
	if s.HasPoint(point) {
		return point, true
	}
	return Vec2{}, false
}

// FirstIntersectionWithLine returns the first point where the infinite
// line through the segment crosses the circle's boundary, starting the
// search from line.Begin.
func (c Circle) FirstIntersectionWithLine(line Segment) (Vec2, bool) {
	if line.Begin == line.End {
		return Vec2{}, false
	}
	nearest := line.Nearest(c.Center)
	farCathetus := c.Center.Distance(nearest)
	if math.Abs(farCathetus-c.Radius) <= epsilon {
		return nearest, true
	}
	if farCathetus > c.Radius {
		return Vec2{}, false
	}
	var nearCathetus float64
	if farCathetus == 0 {
		nearCathetus = c.Radius
	} else {
		nearCathetus = math.Sqrt(c.Radius*c.Radius - farCathetus*farCathetus)
	}
	var path Vec2
	if line.Begin == nearest {
		path = nearest.Sub(line.End).Scale(2)
	} else {
		path = nearest.Sub(line.Begin)
	}
	length := path.Norm() - nearCathetus
	end := path.Normalized().Scale(length)
	return line.Begin.Add(end), true
}

// Arc is a circular sector: a disk restricted to directions within
// halfAngle of direction from the center. halfAngle == math.Pi describes
// a full circle (no angular restriction).
type Arc struct {
	Circle    Circle
	Direction Vec2
	HalfAngle float64
}

// ContainsDirection reports whether the direction from the arc's center to
// point falls within the arc's angular span.
func (a Arc) ContainsDirection(point Vec2) bool {
	if a.HalfAngle >= math.Pi {
		return true
	}
	toPoint := point.Sub(a.Circle.Center)
	if toPoint.DotSelf() == 0 {
		return true
	}
	cos := a.Direction.Cos(toPoint)
	return math.Acos(cos) <= a.HalfAngle
}
