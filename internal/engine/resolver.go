package engine

import (
	"fmt"

	"delve-server/internal/domain"
	"delve-server/internal/systems"
)

// resolve executes one action for actor and returns its tick cost.
// Failures are Impossible with a player-facing reason and guarantee
// nothing was mutated; the caller decides what a failure costs.
func (inst *Instance) resolve(actor *domain.Entity, action domain.Action) (int, error) {
	w, log, tick := inst.World, inst.Log, inst.Scheduler.CurrentTick()

	switch action.Kind {
	case domain.ActionWait:
		return domain.BaseDelay, nil

	case domain.ActionMove:
		dest, err := systems.EvaluateMove(w, actor, action.Dx, action.Dy)
		if err != nil {
			return 0, err
		}
		w.MoveTo(actor, dest)
		return actor.Fighter.MoveDelay, nil

	case domain.ActionMelee:
		dest := actor.Pos.Shift(action.Dx, action.Dy)
		target := w.ActorAt(dest.X, dest.Y)
		if target == nil {
			return 0, domain.Impossiblef("Nothing to attack.")
		}
		systems.ResolveMelee(w, log, inst.Rng, tick, actor, target)
		return w.MeleeDelay(actor), nil

	case domain.ActionBump:
		kind := domain.ActionMove
		if w.ActorAt(actor.Pos.X+action.Dx, actor.Pos.Y+action.Dy) != nil {
			kind = domain.ActionMelee
		}
		return inst.resolve(actor, domain.Action{Kind: kind, Dx: action.Dx, Dy: action.Dy})

	case domain.ActionPickUp:
		if err := systems.PickUp(w, log, tick, actor); err != nil {
			return 0, err
		}
		return domain.BaseDelay, nil

	case domain.ActionDrop:
		if err := systems.Drop(w, log, tick, actor, action.Key); err != nil {
			return 0, err
		}
		return domain.BaseDelay, nil

	case domain.ActionUse:
		if err := systems.UseItem(w, log, inst.Rng, tick, actor, action.Key, action.Target); err != nil {
			return 0, err
		}
		return domain.BaseDelay, nil

	case domain.ActionWield:
		if err := systems.Wield(w, log, tick, actor, action.Key); err != nil {
			return 0, err
		}
		return domain.BaseDelay, nil

	case domain.ActionWear:
		if err := systems.Wear(w, log, tick, actor, action.Key); err != nil {
			return 0, err
		}
		return domain.BaseDelay, nil

	case domain.ActionDescend:
		if actor.Pos != w.Downstairs {
			return 0, domain.Impossiblef("There are no stairs here.")
		}
		inst.descend()
		return actor.Fighter.MoveDelay, nil

	default:
		return 0, fmt.Errorf("unresolvable action kind %d", action.Kind)
	}
}
