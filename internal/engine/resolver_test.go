package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delve-server/internal/domain"
)

func TestResolve_WaitCostsBaseDelay(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionWait})
	require.NoError(t, err)
	assert.Equal(t, domain.BaseDelay, delay)
}

func TestResolve_MoveShiftsActorAndCostsMoveDelay(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionMove, Dx: 1, Dy: 0})
	require.NoError(t, err)
	assert.Equal(t, player.Fighter.MoveDelay, delay)
	assert.Equal(t, domain.Position{X: 3, Y: 2}, player.Pos)
	assert.Same(t, player, inst.World.ActorAt(3, 2))
}

func TestResolve_MoveIntoWallFailsCleanly(t *testing.T) {
	w := newTestWorld(5, 5)
	setWall(w, 3, 2)
	inst, player := newBareInstance(w, 2, 2)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionMove, Dx: 1, Dy: 0})
	require.EqualError(t, err, "The wall is in the way.")
	assert.True(t, domain.IsImpossible(err))
	assert.Equal(t, domain.Position{X: 2, Y: 2}, player.Pos)
}

func TestResolve_MoveOffTheEdgeFailsCleanly(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 0, 0)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionMove, Dx: -1, Dy: 0})
	require.EqualError(t, err, "You can't walk off the edge of the world.")
	assert.True(t, domain.IsImpossible(err))
	assert.Equal(t, domain.Position{X: 0, Y: 0}, player.Pos)
}

func TestResolve_MoveIntoOccupiedTileFailsCleanly(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	spawnActor(w, "orc1", "orc", 3, 2)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionMove, Dx: 1, Dy: 0})
	require.EqualError(t, err, "Something is in the way.")
	assert.Equal(t, domain.Position{X: 2, Y: 2}, player.Pos)
}

func TestResolve_MeleeHurtsAdjacentTarget(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	orc := spawnActor(w, "orc1", "orc", 3, 2)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionMelee, Dx: 1, Dy: 0})
	require.NoError(t, err)
	assert.Equal(t, player.Fighter.MeleeDelay, delay)

	// Unarmed 1..3 against defense 0 always lands.
	assert.Less(t, orc.Fighter.HP, orc.Fighter.MaxHP)
	assert.Equal(t, domain.TierCombat, lastMessage(t, inst.Log).Tier)
}

func TestResolve_MeleeAtEmptyTileFails(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionMelee, Dx: 1, Dy: 0})
	require.EqualError(t, err, "Nothing to attack.")
	assert.True(t, domain.IsImpossible(err))
}

func TestResolve_MeleeDelayComesFromWieldedWeapon(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	spawnActor(w, "orc1", "orc", 3, 2)
	spawnItem(w, "sword1", "sword", 2, 2, &domain.Item{MeleeDamage: 4, MeleeDelay: 12})

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionPickUp})
	require.NoError(t, err)
	_, err = inst.resolve(player, domain.Action{Kind: domain.ActionWield, Key: "a"})
	require.NoError(t, err)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionMelee, Dx: 1, Dy: 0})
	require.NoError(t, err)
	assert.Equal(t, 12, delay)
}

func TestResolve_BumpAttacksWhenOccupied(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	orc := spawnActor(w, "orc1", "orc", 3, 2)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionBump, Dx: 1, Dy: 0})
	require.NoError(t, err)
	assert.Equal(t, player.Fighter.MeleeDelay, delay)
	assert.Less(t, orc.Fighter.HP, orc.Fighter.MaxHP)
	assert.Equal(t, domain.Position{X: 2, Y: 2}, player.Pos)
}

func TestResolve_BumpMovesWhenFree(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionBump, Dx: 0, Dy: 1})
	require.NoError(t, err)
	assert.Equal(t, player.Fighter.MoveDelay, delay)
	assert.Equal(t, domain.Position{X: 2, Y: 3}, player.Pos)
}

func TestResolve_BumpForwardsMoveFailures(t *testing.T) {
	w := newTestWorld(5, 5)
	setWall(w, 3, 2)
	inst, player := newBareInstance(w, 2, 2)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionBump, Dx: 1, Dy: 0})
	require.EqualError(t, err, "The wall is in the way.")
	assert.True(t, domain.IsImpossible(err))
}

// A corpse neither blocks the tile nor soaks the attack: bumping into
// one walks over it.
func TestResolve_BumpIgnoresCorpses(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	orc := spawnActor(w, "orc1", "orc", 3, 2)
	orc.Fighter.HP = 1

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionBump, Dx: 1, Dy: 0})
	require.NoError(t, err)
	require.False(t, orc.IsAlive())

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionBump, Dx: 1, Dy: 0})
	require.NoError(t, err)
	assert.Equal(t, player.Fighter.MoveDelay, delay)
	assert.Equal(t, domain.Position{X: 3, Y: 2}, player.Pos)
}

func TestResolve_PickUpTakesItemOffTheMap(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	potion := spawnItem(w, "p1", "health potion", 2, 2,
		&domain.Item{Consumable: domain.ConsumableHealing, Power: 4})

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionPickUp})
	require.NoError(t, err)
	assert.Equal(t, domain.BaseDelay, delay)

	stack, ok := player.Inventory.Get("a")
	require.True(t, ok)
	assert.Equal(t, "health potion", stack.Name)
	assert.Empty(t, w.ItemsAt(2, 2))
	assert.Same(t, potion, w.Get(potion.ID)) // off the map, still in the arena
}

func TestResolve_UseHealingConsumesTheUnit(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	potion := spawnItem(w, "p1", "health potion", 2, 2,
		&domain.Item{Consumable: domain.ConsumableHealing, Power: 4})
	player.Fighter.HP = 20

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionPickUp})
	require.NoError(t, err)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionUse, Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, domain.BaseDelay, delay)
	assert.Equal(t, 24, player.Fighter.HP)

	_, ok := player.Inventory.Get("a")
	assert.False(t, ok)
	assert.Nil(t, w.Get(potion.ID))
}

func TestResolve_UseAtFullHealthKeepsTheItem(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	spawnItem(w, "p1", "health potion", 2, 2,
		&domain.Item{Consumable: domain.ConsumableHealing, Power: 4})

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionPickUp})
	require.NoError(t, err)

	_, err = inst.resolve(player, domain.Action{Kind: domain.ActionUse, Key: "a"})
	require.EqualError(t, err, "Your health is already full.")

	stack, ok := player.Inventory.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, stack.Count())
}

func TestResolve_DescendRequiresTheStairs(t *testing.T) {
	w := newTestWorld(5, 5)
	w.Downstairs = domain.Position{X: 4, Y: 4}
	inst, player := newBareInstance(w, 2, 2)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionDescend})
	require.EqualError(t, err, "There are no stairs here.")
	assert.Equal(t, 1, inst.World.Depth)
}

func TestResolve_DescendBuildsTheNextFloor(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	w.Downstairs = player.Pos

	// Carried gear must survive the trip down.
	spawnItem(w, "p1", "health potion", 2, 2,
		&domain.Item{Consumable: domain.ConsumableHealing, Power: 4})
	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionPickUp})
	require.NoError(t, err)

	delay, err := inst.resolve(player, domain.Action{Kind: domain.ActionDescend})
	require.NoError(t, err)
	assert.Equal(t, player.Fighter.MoveDelay, delay)

	next := inst.World
	require.NotSame(t, w, next)
	assert.Equal(t, 2, next.Depth)

	require.Same(t, player, next.Get(player.ID))
	assert.True(t, next.IsWalkable(player.Pos.X, player.Pos.Y))
	assert.Same(t, player, next.ActorAt(player.Pos.X, player.Pos.Y))

	// The potion record crossed over with its owner, still off the map.
	stack, ok := player.Inventory.Get("a")
	require.True(t, ok)
	carried := next.Get(stack.Items[0])
	require.NotNil(t, carried)
	assert.False(t, next.OnMap(carried))

	// The new floor's monsters joined the timeline. The player did not:
	// its turn is still resolving and the loop re-pushes it afterwards.
	require.NotZero(t, inst.Scheduler.Len())
	for _, entry := range inst.Scheduler.Entries() {
		monster := next.Get(entry.ID)
		require.NotNil(t, monster)
		assert.True(t, monster.IsActor())
		assert.NotEqual(t, player.ID, entry.ID)
	}
}

func TestResolve_UnknownKindIsNotImpossible(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)

	_, err := inst.resolve(player, domain.Action{Kind: domain.ActionKind(99)})
	require.Error(t, err)
	assert.False(t, domain.IsImpossible(err))
}
