package domain

import "math"

// Position is a tile coordinate on the active floor.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shift returns the position displaced by (dx, dy).
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Chebyshev is the king-move distance: diagonal steps count as one.
func (p Position) Chebyshev(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// DistanceTo is the straight-line distance, used for ranged effects.
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// IsAdjacent reports whether other is within one king move.
func (p Position) IsAdjacent(other Position) bool {
	return p != other && p.Chebyshev(other) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
