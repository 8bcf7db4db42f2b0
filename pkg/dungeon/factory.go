package dungeon

import (
	"math/rand"

	"delve-server/internal/domain"
)

// PlayerID is the default identity of the controlled entity, stable
// across floors, saves and reconnects.
const PlayerID domain.EntityID = "player"

// PlayerCapacity is the number of inventory letters the player can
// occupy.
const PlayerCapacity = 26

var playerTemplate = MonsterTemplate{
	Name:  "player",
	Glyph: domain.MakeGlyph(0xFFFFFF, '@'),
	Fighter: domain.Fighter{
		MaxHP:         30,
		BaseDefense:   0,
		UnarmedDamage: 1,
		MoveDelay:     10,
		MeleeDelay:    10,
	},
}

// NewPlayer spawns the adventurer at start with the standard kit: a
// wielded dagger and worn leather armor. The gear joins the arena as
// carried records, never the map.
func NewPlayer(w *domain.World, rng *rand.Rand, id domain.EntityID, start domain.Position) *domain.Entity {
	player := playerTemplate.Spawn(rng, start)
	player.ID = id
	player.Kind = domain.KindPlayer
	player.Inventory = domain.NewInventory(PlayerCapacity)
	w.Spawn(player)

	dagger := Dagger.Spawn(rng, start)
	w.Register(dagger)
	if key, err := player.Inventory.Add(dagger.ID, dagger.Name); err == nil {
		player.Inventory.Wielded = key
	}

	leather := LeatherArmor.Spawn(rng, start)
	w.Register(leather)
	if key, err := player.Inventory.Add(leather.ID, leather.Name); err == nil {
		player.Inventory.Armor[domain.SlotBody] = key
	}

	return player
}
