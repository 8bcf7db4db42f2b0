package systems

import (
	"delve-server/internal/domain"
)

// PickUp moves the first item lying at the actor's tile into its
// inventory. The item leaves the map but stays in the arena. All
// failure checks run before anything mutates.
func PickUp(w *domain.World, log *domain.MessageLog, tick int64, actor *domain.Entity) error {
	if actor.Inventory == nil {
		return domain.Impossiblef("You cannot carry anything.")
	}
	items := w.ItemsAt(actor.Pos.X, actor.Pos.Y)
	if len(items) == 0 {
		return domain.Impossiblef("There is nothing here to pick up.")
	}

	item := items[0]
	key, err := actor.Inventory.Add(item.ID, item.Name)
	if err != nil {
		return err
	}
	w.Displace(item)

	log.Add(tick, domain.TierInfo, "You picked up the %s (%s).", item.Name, key)
	return nil
}

// Drop places the whole stack at key onto the floor at the actor's
// position and clears any equipment reference to that key.
func Drop(w *domain.World, log *domain.MessageLog, tick int64, actor *domain.Entity, key string) error {
	if actor.Inventory == nil {
		return domain.Impossiblef("You cannot carry anything.")
	}
	if _, ok := actor.Inventory.Get(key); !ok {
		return domain.Impossiblef("You don't have that item.")
	}

	stack, _ := actor.Inventory.RemoveStack(key)
	for _, id := range stack.Items {
		item := w.Get(id)
		if item == nil {
			continue
		}
		item.Pos = actor.Pos
		w.Place(item)
	}

	if stack.Count() > 1 {
		log.Add(tick, domain.TierInfo, "You dropped %d %ss.", stack.Count(), stack.Name)
	} else {
		log.Add(tick, domain.TierInfo, "You dropped the %s.", stack.Name)
	}
	return nil
}

// Wield points the single weapon slot at key. The previous weapon stays
// in inventory; only the reference moves.
func Wield(w *domain.World, log *domain.MessageLog, tick int64, actor *domain.Entity, key string) error {
	item, err := equippableAt(w, actor, key)
	if err != nil {
		return err
	}
	if !item.Item.IsWeapon() {
		return domain.Impossiblef("You can't wield that.")
	}

	actor.Inventory.Wielded = key
	log.Add(tick, domain.TierInfo, "You are now wielding the %s.", item.Name)
	return nil
}

// Wear points the item's armor slot at key, replacing whatever
// reference occupied that slot.
func Wear(w *domain.World, log *domain.MessageLog, tick int64, actor *domain.Entity, key string) error {
	item, err := equippableAt(w, actor, key)
	if err != nil {
		return err
	}
	if !item.Item.IsArmor() {
		return domain.Impossiblef("You can't wear that.")
	}

	actor.Inventory.Armor[item.Item.Slot] = key
	log.Add(tick, domain.TierInfo, "You are now wearing the %s.", item.Name)
	return nil
}

func equippableAt(w *domain.World, actor *domain.Entity, key string) (*domain.Entity, error) {
	if actor.Inventory == nil {
		return nil, domain.Impossiblef("You cannot carry anything.")
	}
	stack, ok := actor.Inventory.Get(key)
	if !ok {
		return nil, domain.Impossiblef("You don't have that item.")
	}
	item := w.Get(stack.Items[0])
	if item == nil || item.Item == nil {
		return nil, domain.Impossiblef("You can't equip that.")
	}
	return item, nil
}
