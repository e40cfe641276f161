package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// Vec is a point or displacement in world space.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// DistanceTo returns the Euclidean distance from v to o.
func (v Vec) DistanceTo(o Vec) float64 { return o.Sub(v).Len() }

// Rect is an axis-aligned hitbox.
type Rect struct {
	Center        Vec
	Width, Height float64
}

// Points returns the four corners followed by the center.
func (r Rect) Points() [5]Vec {
	hw, hh := r.Width/2, r.Height/2
	c := r.Center
	return [5]Vec{
		{c.X - hw, c.Y - hh},
		{c.X + hw, c.Y - hh},
		{c.X - hw, c.Y + hh},
		{c.X + hw, c.Y + hh},
		c,
	}
}

// HalfAngle returns the half-width in radians of a swing arc. Unknown arc
// types swing as a stab.
func HalfAngle(arc inventory.ArcType) float64 {
	switch arc {
	case inventory.ArcMedium:
		return 3 * math.Pi / 8
	case inventory.ArcWide:
		return 5 * math.Pi / 8
	default:
		return math.Pi / 8
	}
}

// angleDiff returns |a-b| normalised into [0, π].
func angleDiff(a, b float64) float64 {
	return math.Abs(math.Atan2(math.Sin(a-b), math.Cos(a-b)))
}

// CanHit reports whether a swing from origin facing angle with the given arc
// and reach touches target. Only the target's four corners and center are
// tested; a point counts when it is within reach and within the arc's
// half-angle of the facing.
func CanHit(origin Vec, angle float64, arc inventory.ArcType, reach float64, target Rect) bool {
	half := HalfAngle(arc)
	for _, p := range target.Points() {
		d := p.Sub(origin)
		dist := d.Len()
		if dist > reach {
			continue
		}
		if dist == 0 {
			return true
		}
		if angleDiff(math.Atan2(d.Y, d.X), angle) <= half {
			return true
		}
	}
	return false
}

// AttackContext is the transient description of one swing.
type AttackContext struct {
	Origin Vec
	// Angle is the facing in radians; 0 points towards +X.
	Angle float64
	Arc   inventory.ArcType
	Range float64
}

// Hits reports whether the swing touches target.
func (a AttackContext) Hits(target Rect) bool {
	return CanHit(a.Origin, a.Angle, a.Arc, a.Range, target)
}

// FacingTowards returns the angle from origin to p.
func FacingTowards(origin, p Vec) float64 {
	d := p.Sub(origin)
	return math.Atan2(d.Y, d.X)
}
