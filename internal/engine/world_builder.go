package engine

import (
	"math/rand"

	"delve-server/internal/domain"
	"delve-server/internal/systems"
	"delve-server/pkg/dungeon"

	"github.com/sirupsen/logrus"
)

// floorSource derives the layout rng for one floor from the master
// seed. Floor layouts never depend on how much randomness combat and AI
// consumed, so any floor can be regenerated on load.
func floorSource(seed int64, depth int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(depth)))
}

// buildFirstFloor carves floor 1, equips the player, and schedules
// every actor at tick zero, the player first.
func (inst *Instance) buildFirstFloor() {
	rng := floorSource(inst.Seed, 1)
	world, spawns, start := dungeon.Generate(1, rng)

	player := dungeon.NewPlayer(world, rng, inst.PlayerID, start)
	inst.World = world
	inst.Scheduler.Push(player.ID, 0)

	for _, e := range spawns {
		world.Spawn(e)
		if e.IsActor() {
			inst.Scheduler.Push(e.ID, 0)
		}
	}

	systems.UpdateVisibility(world, player.Pos, domain.VisionRadius)
	inst.Log.Add(0, domain.TierWelcome, "Hello and welcome, adventurer, to yet another dungeon!")
}

// descend replaces the floor with the next one down. The player keeps
// its record, inventory and scheduler identity; everything else on the
// old floor is abandoned, and the new floor's monsters join the
// timeline at the current tick. The caller re-pushes the player.
func (inst *Instance) descend() {
	player := inst.World.Get(inst.PlayerID)
	depth := inst.World.Depth + 1

	world, spawns, start := dungeon.Generate(depth, floorSource(inst.Seed, depth))

	carryOver(inst.World, world, player)
	player.Pos = start
	world.Spawn(player)
	inst.World = world

	inst.Scheduler.Reset()
	for _, e := range spawns {
		world.Spawn(e)
		if e.IsActor() {
			inst.Scheduler.PushAfter(e.ID, 0)
		}
	}

	inst.Log.Add(inst.Scheduler.CurrentTick(), domain.TierLevel, "You descend the staircase.")
	inst.logger().WithFields(logrus.Fields{
		"depth":  depth,
		"spawns": len(spawns),
	}).Info("Floor descended.")
}

// carryOver registers the player's carried item records in the new
// arena so inventory references stay resolvable.
func carryOver(old, next *domain.World, player *domain.Entity) {
	if player.Inventory == nil {
		return
	}
	for _, key := range player.Inventory.Keys() {
		stack, _ := player.Inventory.Get(key)
		for _, id := range stack.Items {
			if item := old.Get(id); item != nil {
				next.Register(item)
			}
		}
	}
}
