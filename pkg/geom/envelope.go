package geom

import "math"

// Envelope is an axis-aligned bounding rectangle. The zero value is a
// degenerate (non-null) envelope at the origin; NullEnvelope returns the
// null state (MaxX < MinX).
type Envelope struct {
	MinX, MaxX, MinY, MaxY float64
}

// NewEnvelope builds a non-null envelope from two opposite corners,
// normalizing min/max.
func NewEnvelope(x1, y1, x2, y2 float64) Envelope {
	e := Envelope{MinX: x1, MaxX: x2, MinY: y1, MaxY: y2}
	if e.MinX > e.MaxX {
		e.MinX, e.MaxX = e.MaxX, e.MinX
	}
	if e.MinY > e.MaxY {
		e.MinY, e.MaxY = e.MaxY, e.MinY
	}
	return e
}

// NullEnvelope returns the canonical null envelope.
func NullEnvelope() Envelope {
	return Envelope{MinX: 0, MaxX: -1, MinY: 0, MaxY: -1}
}

// IsNull reports whether the envelope is in the null state.
func (e Envelope) IsNull() bool { return e.MaxX < e.MinX }

// Width returns MaxX-MinX, or 0 for a null envelope.
func (e Envelope) Width() float64 {
	if e.IsNull() {
		return 0
	}
	return e.MaxX - e.MinX
}

// Height returns MaxY-MinY, or 0 for a null envelope.
func (e Envelope) Height() float64 {
	if e.IsNull() {
		return 0
	}
	return e.MaxY - e.MinY
}

// ExpandToInclude returns the smallest envelope containing both e and the
// point (x,y). Expanding a null envelope yields the degenerate envelope
// at that point.
func (e Envelope) ExpandToInclude(x, y float64) Envelope {
	if e.IsNull() {
		return Envelope{MinX: x, MaxX: x, MinY: y, MaxY: y}
	}
	return Envelope{
		MinX: math.Min(e.MinX, x),
		MaxX: math.Max(e.MaxX, x),
		MinY: math.Min(e.MinY, y),
		MaxY: math.Max(e.MaxY, y),
	}
}

// ExpandToIncludeEnvelope unions e with other.
func (e Envelope) ExpandToIncludeEnvelope(other Envelope) Envelope {
	if other.IsNull() {
		return e
	}
	if e.IsNull() {
		return other
	}
	return Envelope{
		MinX: math.Min(e.MinX, other.MinX),
		MaxX: math.Max(e.MaxX, other.MaxX),
		MinY: math.Min(e.MinY, other.MinY),
		MaxY: math.Max(e.MaxY, other.MaxY),
	}
}

// ExpandBy grows the envelope by delta on every side. A negative delta
// shrinks it; shrinking past degeneracy yields a null envelope.
func (e Envelope) ExpandBy(delta float64) Envelope {
	if e.IsNull() {
		return e
	}
	ex := Envelope{MinX: e.MinX - delta, MaxX: e.MaxX + delta, MinY: e.MinY - delta, MaxY: e.MaxY + delta}
	if ex.MinX > ex.MaxX || ex.MinY > ex.MaxY {
		return NullEnvelope()
	}
	return ex
}

// Intersects reports whether e and other share at least one point.
func (e Envelope) Intersects(other Envelope) bool {
	if e.IsNull() || other.IsNull() {
		return false
	}
	return !(other.MinX > e.MaxX || other.MaxX < e.MinX || other.MinY > e.MaxY || other.MaxY < e.MinY)
}

// Intersection returns the overlapping region of e and other, or the null
// envelope if they don't intersect.
func (e Envelope) Intersection(other Envelope) Envelope {
	if !e.Intersects(other) {
		return NullEnvelope()
	}
	return Envelope{
		MinX: math.Max(e.MinX, other.MinX),
		MaxX: math.Min(e.MaxX, other.MaxX),
		MinY: math.Max(e.MinY, other.MinY),
		MaxY: math.Min(e.MaxY, other.MaxY),
	}
}

// ContainsPoint reports whether (x,y) lies within the envelope, inclusive.
func (e Envelope) ContainsPoint(x, y float64) bool {
	if e.IsNull() {
		return false
	}
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// CenterX and CenterY return the envelope's midpoint coordinates.
func (e Envelope) CenterX() float64 { return (e.MinX + e.MaxX) / 2 }
func (e Envelope) CenterY() float64 { return (e.MinY + e.MaxY) / 2 }
