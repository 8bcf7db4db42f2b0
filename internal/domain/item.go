package domain

// Item marks an entity as carryable. Field groups are capability
// markers: MeleeDamage > 0 makes a weapon, Slot != SlotNone armor,
// Consumable != ConsumableNone a one-shot usable. An item may combine
// capabilities, though the stock templates do not.
type Item struct {
	Consumable ConsumableKind `json:"consumable,omitempty"`
	// Power is the effect magnitude: HP healed or damage dealt.
	Power int `json:"power,omitempty"`
	// Range limits lightning target distance.
	Range int `json:"range,omitempty"`
	// Radius is the fireball blast radius.
	Radius int `json:"radius,omitempty"`
	// Turns is the confusion duration.
	Turns int `json:"turns,omitempty"`

	MeleeDamage int `json:"meleeDamage,omitempty"`
	MeleeDelay  int `json:"meleeDelay,omitempty"`

	Defense int       `json:"defense,omitempty"`
	Slot    ArmorSlot `json:"slot,omitempty"`
}

func (it *Item) IsWeapon() bool {
	return it.MeleeDamage > 0
}

func (it *Item) IsArmor() bool {
	return it.Slot != SlotNone
}

func (it *Item) IsConsumable() bool {
	return it.Consumable != ConsumableNone
}
