package dungeon

import (
	"math/rand"

	"delve-server/internal/domain"
)

// Floor layout bounds.
const (
	MapWidth  = 80
	MapHeight = 43

	MaxRooms = 30
	RoomMin  = 6
	RoomMax  = 10

	MaxMonstersPerRoom = 2
	MaxItemsPerRoom    = 2
)

// Generate builds a complete floor at depth: carved rooms, monsters,
// loot and the downstairs. The returned spawn list is not registered in
// the world yet; the engine decides what joins the arena and when.
func Generate(depth int, rng *rand.Rand) (*domain.World, []*domain.Entity, domain.Position) {
	return NewFloor(depth, rng).
		WithRooms(MaxRooms, RoomMin, RoomMax).
		SpawnMonsters(MaxMonstersPerRoom).
		SpawnItems(MaxItemsPerRoom).
		WithDownstairs().
		Build()
}
