package systems

import (
	"math/rand"

	"delve-server/internal/domain"
	"delve-server/pkg/logger"
)

// NextAction synthesizes the actor's action for this activation and
// mutates its behavior state: path caches, the confusion countdown and
// the restoration of the wrapped strategy. The second result is false
// when the activation was consumed by a state transition alone; the
// caller then re-queues the actor with zero delay and resolves nothing.
func NextAction(w *domain.World, log *domain.MessageLog, rng *rand.Rand, tick int64, actor, player *domain.Entity, crowdPenalty int) (domain.Action, bool) {
	behavior := actor.Behavior
	if behavior == nil {
		// Dead actors are discarded before their AI runs.
		logger.System("ai").Warnf("NextAction called for dead actor %s", actor.Name)
		return domain.Action{Kind: domain.ActionWait}, true
	}

	switch behavior.Kind {
	case domain.BehaviorHostile:
		return hostileAction(w, behavior, actor, player, crowdPenalty), true
	case domain.BehaviorConfused:
		return confusedAction(log, rng, tick, behavior, actor)
	default:
		logger.System("ai").Warnf("unknown behavior kind %q on %s", behavior.Kind, actor.Name)
		return domain.Action{Kind: domain.ActionWait}, true
	}
}

// hostileAction pursues the player. Attack when adjacent and seen;
// otherwise refresh the cached path while the actor's tile is inside
// the player's field of view, then walk the cache. The visibility check
// is symmetric: standing in the player's FOV means the player is seen.
func hostileAction(w *domain.World, behavior *domain.Behavior, actor, player *domain.Entity, crowdPenalty int) domain.Action {
	visible := w.IsVisible(actor.Pos.X, actor.Pos.Y)
	dist := actor.Pos.Chebyshev(player.Pos)

	if visible && dist <= 1 {
		return domain.Action{
			Kind: domain.ActionMelee,
			Dx:   player.Pos.X - actor.Pos.X,
			Dy:   player.Pos.Y - actor.Pos.Y,
		}
	}

	if visible {
		behavior.Path = FindPath(w, actor.Pos, player.Pos, crowdPenalty)
	}

	if len(behavior.Path) > 0 {
		next := behavior.Path[0]
		behavior.Path = behavior.Path[1:]
		return domain.Action{
			Kind: domain.ActionMove,
			Dx:   next.X - actor.Pos.X,
			Dy:   next.Y - actor.Pos.Y,
		}
	}

	return domain.Action{Kind: domain.ActionWait}
}

// confusedAction stumbles in a random compass direction, bumping into
// whatever is there. When the countdown is spent the wrapped behavior
// returns exactly as it was and the activation emits nothing.
func confusedAction(log *domain.MessageLog, rng *rand.Rand, tick int64, behavior *domain.Behavior, actor *domain.Entity) (domain.Action, bool) {
	if behavior.TurnsRemaining <= 0 {
		log.Add(tick, domain.TierInfo, "The %s is no longer confused.", actor.Name)
		actor.Behavior = behavior.Previous
		return domain.Action{}, false
	}

	behavior.TurnsRemaining--
	dir := domain.CompassDirs[rng.Intn(len(domain.CompassDirs))]
	return domain.Action{Kind: domain.ActionBump, Dx: dir[0], Dy: dir[1]}, true
}
