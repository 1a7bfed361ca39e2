package graph

// Rectangle is an axis-aligned, half-open pixel region: [MinX, MaxX) ×
// [MinY, MaxY). It describes both product bounds (rooted at the origin) and
// the per-tile regions the scheduler drives.
type Rectangle struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width returns MaxX - MinX, clamped to zero.
func (r Rectangle) Width() int {
	if r.MaxX <= r.MinX {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns MaxY - MinY, clamped to zero.
func (r Rectangle) Height() int {
	if r.MaxY <= r.MinY {
		return 0
	}
	return r.MaxY - r.MinY
}

// IsEmpty reports whether the rectangle encloses no area.
func (r Rectangle) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Intersects reports whether r and other overlap on a non-empty area.
func (r Rectangle) Intersects(other Rectangle) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.MinX < other.MaxX && other.MinX < r.MaxX &&
		r.MinY < other.MaxY && other.MinY < r.MaxY
}

// Union returns the smallest rectangle enclosing both r and other. Unioning
// with the zero Rectangle (itself empty) returns the other operand
// unchanged, so callers can fold over a slice starting from the zero value.
func (r Rectangle) Union(other Rectangle) Rectangle {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rectangle{
		MinX: min(r.MinX, other.MinX),
		MinY: min(r.MinY, other.MinY),
		MaxX: max(r.MaxX, other.MaxX),
		MaxY: max(r.MaxY, other.MaxY),
	}
}

// boundsOf returns the origin-rooted Rectangle for a product.
func boundsOf(p interface {
	SceneWidth() int
	SceneHeight() int
}) Rectangle {
	return Rectangle{MinX: 0, MinY: 0, MaxX: p.SceneWidth(), MaxY: p.SceneHeight()}
}
