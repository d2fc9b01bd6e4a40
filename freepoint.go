// Package freepoint finds the closest robot-reachable free point on a
// 2D occupancy grid map. It is meant to correct navigation goal or
// start poses that fall on or near obstacles.
package freepoint

import (
	"errors"
	"math"

	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/freepoint/occgrid"
)

const (
	DefaultRobotRadius    = 0.3
	DefaultMaxDistance    = 15.0
	DefaultAngleIncrement = 2.0
)

var ErrInvalidParams = errors.New("invalid search parameter")

// Finder searches an occupancy grid for free points. It holds no state
// between queries, so a Finder may be shared by concurrent callers.
type Finder struct {
	grid              *occgrid.Grid
	robotRadius       float32
	maxDistance       float32
	distanceIncrement float32
	angleIncrement    float32
}

type Option func(*Finder)

// WithRobotRadius sets the clearance disc radius in meters (default 0.3).
func WithRobotRadius(r float32) Option {
	return func(f *Finder) {
		f.robotRadius = r
	}
}

// WithMaxDistance sets the search radius bound in meters (default 15.0).
func WithMaxDistance(d float32) Option {
	return func(f *Finder) {
		f.maxDistance = d
	}
}

// WithDistanceIncrement sets the radial step in meters
// (default: the grid resolution).
func WithDistanceIncrement(d float32) Option {
	return func(f *Finder) {
		f.distanceIncrement = d
	}
}

// WithAngleIncrement sets the angular step in degrees (default 2.0).
func WithAngleIncrement(deg float32) Option {
	return func(f *Finder) {
		f.angleIncrement = deg
	}
}

// New creates a Finder on g. Parameters are validated here so that the
// search itself can not fail: a negative radius or distance, a
// non-positive increment, or an angle increment outside (0, 360]
// returns ErrInvalidParams.
func New(g *occgrid.Grid, opts ...Option) (*Finder, error) {
	f := &Finder{
		grid:              g,
		robotRadius:       DefaultRobotRadius,
		maxDistance:       DefaultMaxDistance,
		distanceIncrement: g.Resolution(),
		angleIncrement:    DefaultAngleIncrement,
	}
	for _, o := range opts {
		o(f)
	}
	if f.robotRadius < 0 || f.maxDistance <= 0 ||
		f.distanceIncrement <= 0 ||
		f.angleIncrement <= 0 || f.angleIncrement > 360 {
		return nil, ErrInvalidParams
	}
	return f, nil
}

// IsFree reports whether the disc of the robot radius around p lies
// entirely in free cells. A cell blocks the disc if its center is
// within the radius and it is occupied, unknown or out of the grid.
// The z component of p is ignored.
func (f *Finder) IsFree(p mat.Vec3) bool {
	p = mat.Vec3{p[0], p[1], 0}
	c := f.grid.ToCell(p)
	if f.grid.At(c) != occgrid.Free {
		return false
	}
	// Cell centers within the radius of p are at most
	// radius/resolution + 0.5 cells away from the cell containing p.
	n := int(math.Ceil(float64(f.robotRadius/f.grid.Resolution() + 0.5)))
	rSq := f.robotRadius * f.robotRadius
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			q := [2]int{c[0] + dx, c[1] + dy}
			d := f.grid.PointAt(q).Sub(p)
			if d[0]*d[0]+d[1]*d[1] > rSq {
				continue
			}
			if f.grid.At(q) != occgrid.Free {
				return false
			}
		}
	}
	return true
}

// ClosestFreePoint searches outward from p in rings of increasing
// radius, scanning each ring counter-clockwise from angle zero, and
// returns the first free point found. A free p is returned unchanged.
// The second return value is false if there is no free point within
// the distance bound.
func (f *Finder) ClosestFreePoint(p mat.Vec3) (mat.Vec3, bool) {
	p = mat.Vec3{p[0], p[1], 0}
	if f.IsFree(p) {
		return p, true
	}
	aInc := float64(f.angleIncrement)
	for i := 1; ; i++ {
		r := float32(i) * f.distanceIncrement
		if r > f.maxDistance {
			break
		}
		for j := 0; float64(j)*aInc < 360; j++ {
			a := float64(j) * aInc * math.Pi / 180
			q := mat.Vec3{
				p[0] + r*float32(math.Cos(a)),
				p[1] + r*float32(math.Sin(a)),
				0,
			}
			if f.IsFree(q) {
				return q, true
			}
		}
	}
	return mat.Vec3{}, false
}
