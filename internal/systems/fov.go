package systems

import (
	"delve-server/internal/domain"
)

// Octant transforms for recursive shadowcasting.
var fovMultipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// UpdateVisibility recomputes the visible set around origin and marks
// every visible tile explored. Runs after each successful player action
// and on floor entry; nothing else writes the visibility flags.
func UpdateVisibility(w *domain.World, origin domain.Position, radius int) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			w.Tiles[y][x].Visible = false
		}
	}
	if radius <= 0 {
		return
	}

	reveal(w, origin.X, origin.Y)
	for i := 0; i < 8; i++ {
		castLight(w, origin.X, origin.Y, 1, 1.0, 0.0, radius,
			fovMultipliers[0][i], fovMultipliers[1][i],
			fovMultipliers[2][i], fovMultipliers[3][i])
	}
}

func reveal(w *domain.World, x, y int) {
	if tile := w.TileAt(x, y); tile != nil {
		tile.Visible = true
		tile.Explored = true
	}
}

func castLight(w *domain.World, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for dx < 0 {
			dx++
			dy = -j

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			x := cx + dx*xx + dy*xy
			y := cy + dx*yx + dy*yy

			if float64(dx*dx+dy*dy) < radiusSq {
				reveal(w, x, y)
			}

			if blocked {
				if opaque(w, x, y) {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if opaque(w, x, y) && j < radius {
				blocked = true
				castLight(w, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// opaque reports whether the cell stops sight. Out of bounds counts as
// opaque.
func opaque(w *domain.World, x, y int) bool {
	if !w.InBounds(x, y) {
		return true
	}
	return !w.Tiles[y][x].Transparent
}
