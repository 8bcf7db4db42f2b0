package systems

import (
	"delve-server/internal/domain"
)

// EvaluateMove validates a single-step displacement without mutating
// anything. It returns the destination on success, or Impossible with
// the player-facing reason.
func EvaluateMove(w *domain.World, actor *domain.Entity, dx, dy int) (domain.Position, error) {
	dest := actor.Pos.Shift(dx, dy)

	if !w.InBounds(dest.X, dest.Y) {
		return dest, domain.Impossiblef("You can't walk off the edge of the world.")
	}
	if !w.IsWalkable(dest.X, dest.Y) {
		return dest, domain.Impossiblef("The wall is in the way.")
	}
	if blocker := w.BlockingEntityAt(dest.X, dest.Y); blocker != nil && blocker.ID != actor.ID {
		return dest, domain.Impossiblef("Something is in the way.")
	}
	return dest, nil
}
