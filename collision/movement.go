package collision

// Box is an axis-aligned rectangle in pixel space, anchored at its top-left
// corner.
type Box struct {
	X, Y, W, H float64
}

// Overlaps reports whether b and o share any interior area.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X &&
		b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

// SolidChecker is satisfied by *Resolver.
type SolidChecker interface {
	IsSolid(x, y float64) bool
}

// Move applies (dx, dy) to box one axis at a time, Y first. A step on an
// axis is refused when either leading-edge corner lands in a solid pixel or
// the moved box overlaps a blocker; the other axis still gets its chance,
// which lets a box slide along walls.
func Move(s SolidChecker, box Box, dx, dy float64, blockers []Box) (moved Box, blockedX, blockedY bool) {
	if dy != 0 {
		next := box
		next.Y += dy
		edge := next.Y
		if dy > 0 {
			edge = next.Y + next.H - 1
		}
		if s.IsSolid(next.X, edge) || s.IsSolid(next.X+next.W-1, edge) || hitsAny(next, blockers) {
			blockedY = true
		} else {
			box = next
		}
	}

	if dx != 0 {
		next := box
		next.X += dx
		edge := next.X
		if dx > 0 {
			edge = next.X + next.W - 1
		}
		if s.IsSolid(edge, next.Y) || s.IsSolid(edge, next.Y+next.H-1) || hitsAny(next, blockers) {
			blockedX = true
		} else {
			box = next
		}
	}

	return box, blockedX, blockedY
}

func hitsAny(b Box, blockers []Box) bool {
	for _, o := range blockers {
		if b.Overlaps(o) {
			return true
		}
	}
	return false
}
