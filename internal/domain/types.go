package domain

// EntityKind is the coarse classification used by spawning, rendering
// and the save store.
type EntityKind string

const (
	KindPlayer  EntityKind = "PLAYER"
	KindMonster EntityKind = "MONSTER"
	KindItem    EntityKind = "ITEM"
)

// ArmorSlot names the five wearable positions. SlotNone marks an item
// that is not armor.
type ArmorSlot string

const (
	SlotNone  ArmorSlot = ""
	SlotHead  ArmorSlot = "head"
	SlotBody  ArmorSlot = "body"
	SlotHands ArmorSlot = "hands"
	SlotFeet  ArmorSlot = "feet"
	SlotCloak ArmorSlot = "cloak"
)

// ArmorSlots lists wearable slots in display order.
var ArmorSlots = []ArmorSlot{SlotHead, SlotBody, SlotHands, SlotFeet, SlotCloak}

// ConsumableKind discriminates the closed family of one-shot item
// effects. The consumable system matches it exhaustively.
type ConsumableKind string

const (
	ConsumableNone      ConsumableKind = ""
	ConsumableHealing   ConsumableKind = "healing"
	ConsumableLightning ConsumableKind = "lightning"
	ConsumableConfusion ConsumableKind = "confusion"
	ConsumableFireball  ConsumableKind = "fireball"
)

// RenderOrder controls client draw layering; higher draws on top.
// Scheduling never reads it.
type RenderOrder int

const (
	RenderCorpse RenderOrder = iota + 1
	RenderItem
	RenderActor
)
