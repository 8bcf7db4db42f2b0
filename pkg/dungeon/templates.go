package dungeon

import (
	"math/rand"

	"delve-server/internal/domain"
	"delve-server/pkg/utils"
)

// MonsterTemplate is a spawnable monster archetype. Spawn copies the
// fighter block, so live entities never share state with the template.
type MonsterTemplate struct {
	Name    string
	Glyph   domain.Glyph
	Fighter domain.Fighter
}

// Spawn mints a monster at pos. IDs come from the floor rng, so the
// same seed produces the same monster roster.
func (t MonsterTemplate) Spawn(rng *rand.Rand, pos domain.Position) *domain.Entity {
	fighter := t.Fighter
	fighter.HP = fighter.MaxHP
	return &domain.Entity{
		ID:          domain.EntityID(utils.DeterministicID(rng, "m_")),
		Kind:        domain.KindMonster,
		Name:        t.Name,
		Pos:         pos,
		Glyph:       t.Glyph,
		Blocks:      true,
		RenderOrder: domain.RenderActor,
		Fighter:     &fighter,
		Behavior:    domain.NewHostile(),
	}
}

// ItemTemplate is a spawnable item archetype.
type ItemTemplate struct {
	Name  string
	Glyph domain.Glyph
	Item  domain.Item
}

// Spawn mints an item entity at pos.
func (t ItemTemplate) Spawn(rng *rand.Rand, pos domain.Position) *domain.Entity {
	item := t.Item
	return &domain.Entity{
		ID:          domain.EntityID(utils.DeterministicID(rng, "i_")),
		Kind:        domain.KindItem,
		Name:        t.Name,
		Pos:         pos,
		Glyph:       t.Glyph,
		RenderOrder: domain.RenderItem,
		Item:        &item,
	}
}

// Monsters.

var Orc = MonsterTemplate{
	Name:  "orc",
	Glyph: domain.MakeGlyph(0x3F7F3F, 'o'),
	Fighter: domain.Fighter{
		MaxHP:         10,
		BaseDefense:   0,
		UnarmedDamage: 3,
		MoveDelay:     10,
		MeleeDelay:    10,
	},
}

var Troll = MonsterTemplate{
	Name:  "troll",
	Glyph: domain.MakeGlyph(0x007F00, 'T'),
	Fighter: domain.Fighter{
		MaxHP:         16,
		BaseDefense:   1,
		UnarmedDamage: 4,
		MoveDelay:     15,
		MeleeDelay:    15,
	},
}

// Weapons.

var Dagger = ItemTemplate{
	Name:  "dagger",
	Glyph: domain.MakeGlyph(0x00BFFF, ')'),
	Item: domain.Item{
		MeleeDamage: 2,
		MeleeDelay:  10,
	},
}

var Sword = ItemTemplate{
	Name:  "sword",
	Glyph: domain.MakeGlyph(0x00BFFF, ')'),
	Item: domain.Item{
		MeleeDamage: 4,
		MeleeDelay:  12,
	},
}

// Armor.

var LeatherArmor = ItemTemplate{
	Name:  "leather armor",
	Glyph: domain.MakeGlyph(0x8B4513, '['),
	Item: domain.Item{
		Defense: 1,
		Slot:    domain.SlotBody,
	},
}

var ChainMail = ItemTemplate{
	Name:  "chain mail",
	Glyph: domain.MakeGlyph(0x8B4513, '['),
	Item: domain.Item{
		Defense: 3,
		Slot:    domain.SlotBody,
	},
}

// Consumables.

var HealthPotion = ItemTemplate{
	Name:  "health potion",
	Glyph: domain.MakeGlyph(0x7F00FF, '!'),
	Item: domain.Item{
		Consumable: domain.ConsumableHealing,
		Power:      4,
	},
}

var LightningScroll = ItemTemplate{
	Name:  "lightning scroll",
	Glyph: domain.MakeGlyph(0xFFFF00, '~'),
	Item: domain.Item{
		Consumable: domain.ConsumableLightning,
		Power:      20,
		Range:      5,
	},
}

var ConfusionScroll = ItemTemplate{
	Name:  "confusion scroll",
	Glyph: domain.MakeGlyph(0xCF3FFF, '~'),
	Item: domain.Item{
		Consumable: domain.ConsumableConfusion,
		Turns:      10,
	},
}

var FireballScroll = ItemTemplate{
	Name:  "fireball scroll",
	Glyph: domain.MakeGlyph(0xFF0000, '~'),
	Item: domain.Item{
		Consumable: domain.ConsumableFireball,
		Power:      12,
		Radius:     3,
	},
}

// Spawn tables. Slices, not maps, so picks are seed-stable; weights are
// percentages and each table sums to 100.

type monsterEntry struct {
	template MonsterTemplate
	weight   int
}

type itemEntry struct {
	template ItemTemplate
	weight   int
}

var monsterTable = []monsterEntry{
	{Orc, 80},
	{Troll, 20},
}

var itemTable = []itemEntry{
	{HealthPotion, 35},
	{LightningScroll, 10},
	{ConfusionScroll, 10},
	{FireballScroll, 10},
	{Dagger, 8},
	{Sword, 7},
	{LeatherArmor, 10},
	{ChainMail, 10},
}

func pickMonster(rng *rand.Rand) MonsterTemplate {
	roll := rng.Intn(100)
	for _, entry := range monsterTable {
		if roll < entry.weight {
			return entry.template
		}
		roll -= entry.weight
	}
	return monsterTable[0].template
}

func pickItem(rng *rand.Rand) ItemTemplate {
	roll := rng.Intn(100)
	for _, entry := range itemTable {
		if roll < entry.weight {
			return entry.template
		}
		roll -= entry.weight
	}
	return itemTable[0].template
}
