package systems

import (
	"math/rand"

	"delve-server/internal/domain"
	"delve-server/pkg/logger"
)

// UseItem activates one unit of the stack at key against an optional
// target position. Each effect validates everything before mutating;
// the unit is consumed, and its record destroyed, only on success.
func UseItem(w *domain.World, log *domain.MessageLog, rng *rand.Rand, tick int64, actor *domain.Entity, key string, target *domain.Position) error {
	if actor.Inventory == nil {
		return domain.Impossiblef("You cannot carry anything.")
	}
	stack, ok := actor.Inventory.Get(key)
	if !ok {
		return domain.Impossiblef("You don't have that item.")
	}
	unit := w.Get(stack.Items[len(stack.Items)-1])
	if unit == nil || unit.Item == nil || !unit.Item.IsConsumable() {
		return domain.Impossiblef("You can't use the %s.", stack.Name)
	}

	var err error
	switch unit.Item.Consumable {
	case domain.ConsumableHealing:
		err = drinkHealing(log, tick, actor, unit)
	case domain.ConsumableLightning:
		err = castLightning(w, log, tick, actor, unit)
	case domain.ConsumableConfusion:
		err = castConfusion(w, log, tick, actor, unit, target)
	case domain.ConsumableFireball:
		err = castFireball(w, log, tick, actor, unit, target)
	default:
		logger.System("consumable").Warnf("unknown consumable kind %q on %s", unit.Item.Consumable, unit.Name)
		err = domain.Impossiblef("You can't use the %s.", stack.Name)
	}
	if err != nil {
		return err
	}

	// The effect landed: destroy exactly one unit.
	id, _ := actor.Inventory.RemoveOne(key)
	w.Unregister(id)
	return nil
}

func drinkHealing(log *domain.MessageLog, tick int64, actor, unit *domain.Entity) error {
	if actor.Fighter.HP >= actor.Fighter.MaxHP {
		return domain.Impossiblef("Your health is already full.")
	}
	recovered := actor.Fighter.Heal(unit.Item.Power)
	log.Add(tick, domain.TierInfo, "You consume the %s, and recover %d HP!", unit.Name, recovered)
	return nil
}

// castLightning strikes the closest visible actor within range; no
// aiming involved.
func castLightning(w *domain.World, log *domain.MessageLog, tick int64, actor, unit *domain.Entity) error {
	var victim *domain.Entity
	closest := float64(unit.Item.Range) + 1.0

	for _, e := range w.All() {
		if e.ID == actor.ID || !e.IsActor() || !e.IsAlive() {
			continue
		}
		if !w.IsVisible(e.Pos.X, e.Pos.Y) {
			continue
		}
		if d := actor.Pos.DistanceTo(e.Pos); d < closest {
			closest = d
			victim = e
		}
	}

	if victim == nil {
		return domain.Impossiblef("No enemy is close enough to strike.")
	}

	log.Add(tick, domain.TierCombat, "A lightning bolt strikes the %s with a loud thunder, for %d damage!",
		victim.Name, unit.Item.Power)
	ApplyDamage(w, log, tick, victim, unit.Item.Power)
	return nil
}

func castConfusion(w *domain.World, log *domain.MessageLog, tick int64, actor, unit *domain.Entity, target *domain.Position) error {
	if target == nil {
		return domain.Impossiblef("You must select a target.")
	}
	if !w.IsVisible(target.X, target.Y) {
		return domain.Impossiblef("You cannot target an area that you cannot see.")
	}
	victim := w.ActorAt(target.X, target.Y)
	if victim == nil {
		return domain.Impossiblef("You must select an enemy to target.")
	}
	if victim.ID == actor.ID {
		return domain.Impossiblef("You cannot confuse yourself!")
	}

	log.Add(tick, domain.TierInfo, "The eyes of the %s look vacant, as it starts to stumble around!", victim.Name)
	victim.Behavior = domain.NewConfused(victim.Behavior, unit.Item.Turns)
	return nil
}

// castFireball burns every actor within the blast radius, the caster
// included.
func castFireball(w *domain.World, log *domain.MessageLog, tick int64, actor, unit *domain.Entity, target *domain.Position) error {
	if target == nil {
		return domain.Impossiblef("You must select a target.")
	}
	if !w.IsVisible(target.X, target.Y) {
		return domain.Impossiblef("You cannot target an area that you cannot see.")
	}

	center := *target
	log.Add(tick, domain.TierCombat, "The fireball explodes, engulfing everything within %d tiles!", unit.Item.Radius)

	// Collect before damaging: death edits must not disturb the sweep.
	var victims []*domain.Entity
	for _, e := range w.All() {
		if !e.IsActor() || !e.IsAlive() {
			continue
		}
		if e.Pos.DistanceTo(center) <= float64(unit.Item.Radius) {
			victims = append(victims, e)
		}
	}
	for _, victim := range victims {
		log.Add(tick, domain.TierCombat, "The %s is engulfed in a fiery explosion, taking %d damage!",
			victim.Name, unit.Item.Power)
		ApplyDamage(w, log, tick, victim, unit.Item.Power)
	}
	return nil
}
