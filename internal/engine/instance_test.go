package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delve-server/internal/domain"
	"delve-server/internal/network"
	"delve-server/pkg/api"
)

func waitSnapshot(t *testing.T, sub chan api.ServerResponse) api.ServerResponse {
	t.Helper()
	select {
	case snap, ok := <-sub:
		if !ok {
			t.Fatal("snapshot channel closed")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
	}
	return api.ServerResponse{}
}

// waitUntil drains snapshots until one matches cond.
func waitUntil(t *testing.T, sub chan api.ServerResponse, cond func(api.ServerResponse) bool) api.ServerResponse {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-sub:
			if !ok {
				t.Fatal("snapshot channel closed")
			}
			if cond(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for a matching snapshot")
		}
	}
}

func findEntity(snap api.ServerResponse, id domain.EntityID) (api.EntityView, bool) {
	for _, e := range snap.Entities {
		if e.ID == string(id) {
			return e, true
		}
	}
	return api.EntityView{}, false
}

func stopRun(t *testing.T, cancel context.CancelFunc, stopped chan struct{}) {
	t.Helper()
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("instance loop did not stop")
	}
}

func TestPlayerTurn_ImpossibleActionRePrompts(t *testing.T) {
	w := newTestWorld(5, 5)
	setWall(w, 3, 2)
	inst, player := newBareInstance(w, 2, 2)
	inst.Scheduler.Push(player.ID, 0)
	id, tick := inst.Scheduler.Pop()
	require.Equal(t, player.ID, id)

	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionMove, Dx: 1, Dy: 0}}
	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionWait}}

	require.True(t, inst.playerTurn(context.Background(), player, tick))

	// The refused move surfaced as a warning and cost nothing; only the
	// wait consumed time.
	warned := false
	for _, m := range inst.Log.Entries {
		if m.Tier == domain.TierWarning && m.Text == "The wall is in the way." {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.Equal(t, domain.Position{X: 2, Y: 2}, player.Pos)

	require.Equal(t, 1, inst.Scheduler.Len())
	nextID, nextTick := inst.Scheduler.Pop()
	assert.Equal(t, player.ID, nextID)
	assert.Equal(t, int64(domain.BaseDelay), nextTick)
}

func TestPlayerTurn_IgnoresCommandsFromStrangers(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)
	inst.Scheduler.Push(player.ID, 0)
	_, tick := inst.Scheduler.Pop()

	inst.CommandChan <- domain.InternalCommand{Actor: "impostor", Action: domain.Action{Kind: domain.ActionWait}}
	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionMove, Dx: 1, Dy: 0}}

	require.True(t, inst.playerTurn(context.Background(), player, tick))
	assert.Equal(t, domain.Position{X: 3, Y: 2}, player.Pos)
}

func TestPlayerTurn_StopsWhenContextEnds(t *testing.T) {
	inst, player := newBareInstance(newTestWorld(5, 5), 2, 2)
	inst.Scheduler.Push(player.ID, 0)
	_, tick := inst.Scheduler.Pop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, inst.playerTurn(ctx, player, tick))
}

func TestPlayerTurn_ServesRefreshesWhileWaiting(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	inst.Hub = network.NewBroadcaster()
	sub := inst.Hub.Register(player.ID)

	inst.Scheduler.Push(player.ID, 0)
	_, tick := inst.Scheduler.Pop()

	done := make(chan bool, 1)
	go func() {
		done <- inst.playerTurn(context.Background(), player, tick)
	}()

	waitSnapshot(t, sub) // the yield

	// A refresh is served without consuming the turn.
	inst.RefreshChan <- player.ID
	refreshed := waitSnapshot(t, sub)
	assert.Equal(t, api.StatePlaying, refreshed.State)
	assert.Equal(t, string(player.ID), refreshed.ActiveID)

	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionWait}}
	waitSnapshot(t, sub) // the post-action state

	select {
	case ok := <-done:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("player turn did not finish")
	}

	// One turn consumed, refresh included.
	require.Equal(t, 1, inst.Scheduler.Len())
	_, nextTick := inst.Scheduler.Pop()
	assert.Equal(t, int64(domain.BaseDelay), nextTick)
}

func TestRun_MonstersActBetweenPlayerYields(t *testing.T) {
	w := newTestWorld(7, 7)
	inst, player := newBareInstance(w, 1, 1)
	orc := spawnActor(w, "orc1", "orc", 5, 1)
	revealAll(w)

	inst.Hub = network.NewBroadcaster()
	sub := inst.Hub.Register(player.ID)

	inst.Scheduler.Push(player.ID, 0)
	inst.Scheduler.Push(orc.ID, 0)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		inst.Run(ctx)
		close(stopped)
	}()

	waitSnapshot(t, sub) // the tick-0 yield
	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionWait}}

	// By the next yield the orc has taken its turn and closed in.
	snap := waitUntil(t, sub, func(s api.ServerResponse) bool {
		return s.Tick == int64(domain.BaseDelay)
	})
	view, ok := findEntity(snap, orc.ID)
	require.True(t, ok, "orc not visible in the snapshot")
	assert.Equal(t, 4, view.Pos.X)
	assert.Equal(t, 1, view.Pos.Y)

	stopRun(t, cancel, stopped)
}

func TestRun_DeathEndsTheRun(t *testing.T) {
	w := newTestWorld(5, 5)
	inst, player := newBareInstance(w, 2, 2)
	player.Fighter.HP = 1
	spawnActor(w, "orc1", "orc", 3, 2)
	revealAll(w)

	inst.Hub = network.NewBroadcaster()
	sub := inst.Hub.Register(player.ID)

	inst.Scheduler.Push(player.ID, 0)
	inst.Scheduler.Push("orc1", 0)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		inst.Run(ctx)
		close(stopped)
	}()

	waitSnapshot(t, sub)
	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionWait}}

	// Any orc hit kills at 1 HP; the final snapshot reports the death.
	snap := waitUntil(t, sub, func(s api.ServerResponse) bool {
		return s.State == api.StateDead
	})
	require.NotNil(t, snap.Stats)
	assert.True(t, snap.Stats.IsDead)
	assert.Equal(t, 0, snap.Stats.HP)

	died := false
	for _, m := range snap.Messages {
		if m.Text == "You died!" {
			died = true
		}
	}
	assert.True(t, died)

	// The aftermath still answers, the world stays frozen.
	inst.CommandChan <- domain.InternalCommand{Actor: player.ID, Action: domain.Action{Kind: domain.ActionWait}}
	again := waitSnapshot(t, sub)
	assert.Equal(t, api.StateDead, again.State)

	stopRun(t, cancel, stopped)
}

func TestRun_SavesOnShutdown(t *testing.T) {
	store := &memStore{}
	hub := network.NewBroadcaster()
	inst := NewInstance(Options{Seed: 5, Hub: hub, Store: store})
	sub := hub.Register(inst.PlayerID)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		inst.Run(ctx)
		close(stopped)
	}()

	waitSnapshot(t, sub) // the loop reached the player prompt
	stopRun(t, cancel, stopped)

	require.Equal(t, 1, store.count())
	state := store.last(t)
	assert.Equal(t, 1, state.Depth)
	assert.Equal(t, inst.PlayerID, state.PlayerID)

	// The interrupted prompt is saved as the head of the queue.
	require.NotEmpty(t, state.Queue)
	assert.Equal(t, inst.PlayerID, state.Queue[0].ID)
}

func TestInstance_AutosaveFollowsTheClock(t *testing.T) {
	store := &memStore{}
	inst := NewInstance(Options{Seed: 5, Store: store, AutosaveTicks: 20})

	inst.maybeAutosave()
	assert.Zero(t, store.count()) // nothing owed at tick zero

	inst.Scheduler.Push("pacer", 25)
	for inst.Scheduler.CurrentTick() < 25 {
		inst.Scheduler.Pop()
	}
	inst.maybeAutosave()
	require.Equal(t, 1, store.count())
	assert.Equal(t, int64(25), store.last(t).CurrentTick)

	// The cadence rearms from the save point.
	inst.maybeAutosave()
	assert.Equal(t, 1, store.count())
}
