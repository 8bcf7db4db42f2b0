package systems

import (
	"os"
	"testing"

	"delve-server/internal/domain"
	"delve-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	os.Exit(m.Run())
}

// newTestWorld returns an all-floor, all-transparent world.
func newTestWorld(width, height int) *domain.World {
	w := domain.NewWorld(width, height, 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w.Tiles[y][x].Walkable = true
			w.Tiles[y][x].Transparent = true
		}
	}
	return w
}

func setWall(w *domain.World, x, y int) {
	w.Tiles[y][x].Walkable = false
	w.Tiles[y][x].Transparent = false
}

// revealAll marks the whole map visible, as if FOV covered everything.
func revealAll(w *domain.World) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			w.Tiles[y][x].Visible = true
			w.Tiles[y][x].Explored = true
		}
	}
}

// spawnActor places a living test actor with round stats.
func spawnActor(w *domain.World, id domain.EntityID, name string, x, y int) *domain.Entity {
	e := &domain.Entity{
		ID:          id,
		Kind:        domain.KindMonster,
		Name:        name,
		Pos:         domain.Position{X: x, Y: y},
		Glyph:       domain.MakeGlyph(0x3F7F3F, 'o'),
		Blocks:      true,
		RenderOrder: domain.RenderActor,
		Fighter:     &domain.Fighter{HP: 10, MaxHP: 10, UnarmedDamage: 3, MoveDelay: 10, MeleeDelay: 10},
		Behavior:    domain.NewHostile(),
		Inventory:   domain.NewInventory(26),
	}
	w.Spawn(e)
	return e
}

// spawnItem places a carryable entity on the floor.
func spawnItem(w *domain.World, id domain.EntityID, name string, x, y int, item *domain.Item) *domain.Entity {
	e := &domain.Entity{
		ID:          id,
		Kind:        domain.KindItem,
		Name:        name,
		Pos:         domain.Position{X: x, Y: y},
		Glyph:       domain.MakeGlyph(0x7F00FF, '!'),
		RenderOrder: domain.RenderItem,
		Item:        item,
	}
	w.Spawn(e)
	return e
}

func lastMessage(t *testing.T, log *domain.MessageLog) domain.Message {
	t.Helper()
	if len(log.Entries) == 0 {
		t.Fatal("message log is empty")
	}
	return log.Entries[len(log.Entries)-1]
}
