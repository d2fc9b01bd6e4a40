// Package occgrid loads and queries 2D occupancy grid maps.
package occgrid

import (
	"errors"
	"math"

	"github.com/seqsense/pcgol/mat"
)

// CellState is the occupancy classification of a single grid cell.
type CellState uint8

const (
	Unknown CellState = iota
	Free
	Occupied
)

func (s CellState) String() string {
	switch s {
	case Free:
		return "free"
	case Occupied:
		return "occupied"
	}
	return "unknown"
}

var (
	ErrResolution = errors.New("resolution must be positive")
	ErrGridSize   = errors.New("grid size must be positive")
	ErrCellCount  = errors.New("cell count does not match grid size")
)

// Grid is a read-only planar occupancy map.
// The z component of world coordinates is ignored.
type Grid struct {
	cells         []CellState
	size          [2]int
	origin        mat.Vec3
	resolution    float32
	resolutionInv float32
}

// New creates a Grid of size (width, height) cells. origin is the world
// coordinate of the corner of cell (0, 0), and cells is the row-major
// cell state list starting from that cell.
func New(resolution float32, size [2]int, origin mat.Vec3, cells []CellState) (*Grid, error) {
	if resolution <= 0 {
		return nil, ErrResolution
	}
	if size[0] <= 0 || size[1] <= 0 {
		return nil, ErrGridSize
	}
	if len(cells) != size[0]*size[1] {
		return nil, ErrCellCount
	}
	return &Grid{
		cells:         cells,
		size:          size,
		origin:        mat.Vec3{origin[0], origin[1], 0},
		resolution:    resolution,
		resolutionInv: 1 / resolution,
	}, nil
}

func (g *Grid) Width() int {
	return g.size[0]
}

func (g *Grid) Height() int {
	return g.size[1]
}

func (g *Grid) Resolution() float32 {
	return g.resolution
}

func (g *Grid) Origin() mat.Vec3 {
	return g.origin
}

// ToCell converts a world coordinate to cell indices.
// The result may be out of the grid bounds.
func (g *Grid) ToCell(p mat.Vec3) [2]int {
	pos := p.Sub(g.origin)
	return [2]int{
		int(math.Floor(float64(pos[0] * g.resolutionInv))),
		int(math.Floor(float64(pos[1] * g.resolutionInv))),
	}
}

// PointAt returns the world coordinate of the center of cell c.
func (g *Grid) PointAt(c [2]int) mat.Vec3 {
	return g.origin.Add(mat.Vec3{
		(float32(c[0]) + 0.5) * g.resolution,
		(float32(c[1]) + 0.5) * g.resolution,
		0,
	})
}

// At returns the state of cell c. Out-of-bounds cells are Unknown.
func (g *Grid) At(c [2]int) CellState {
	if c[0] < 0 || c[0] >= g.size[0] || c[1] < 0 || c[1] >= g.size[1] {
		return Unknown
	}
	return g.cells[c[0]+c[1]*g.size[0]]
}

// StateAt returns the state of the cell containing the world coordinate p.
func (g *Grid) StateAt(p mat.Vec3) CellState {
	return g.At(g.ToCell(p))
}
