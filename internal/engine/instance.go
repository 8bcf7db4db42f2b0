package engine

import (
	"context"
	"math/rand"

	"delve-server/internal/domain"
	"delve-server/internal/network"
	"delve-server/internal/systems"

	"github.com/sirupsen/logrus"
)

// Instance is one isolated dungeon run: a world, its timeline, and the
// goroutine that owns both. Nothing outside that goroutine touches the
// world or the scheduler; clients talk through the channels and read
// immutable snapshots off the hub.
type Instance struct {
	ID    int
	World *domain.World

	Scheduler *Scheduler
	Log       *domain.MessageLog
	Rng       *rand.Rand
	Seed      int64

	PlayerID domain.EntityID

	Hub   *network.Broadcaster
	Store SaveStore

	CrowdPenalty  int
	AutosaveTicks int64
	lastSaveTick  int64

	// CommandChan carries decoded player actions. RefreshChan carries
	// snapshot requests, which never cost a turn.
	CommandChan chan domain.InternalCommand
	RefreshChan chan domain.EntityID

	tape     []domain.CommandRecord
	gameOver bool
}

// NewInstance builds a fresh run: first floor carved, the player
// equipped and placed, every actor scheduled at tick zero.
func NewInstance(opts Options) *Instance {
	opts = opts.withDefaults()

	inst := &Instance{
		ID:            opts.ID,
		Scheduler:     NewScheduler(),
		Log:           domain.NewMessageLog(MessageLimit),
		Rng:           rand.New(rand.NewSource(opts.Seed)),
		Seed:          opts.Seed,
		PlayerID:      opts.PlayerID,
		Hub:           opts.Hub,
		Store:         opts.Store,
		CrowdPenalty:  opts.CrowdPenalty,
		AutosaveTicks: opts.AutosaveTicks,
		CommandChan:   make(chan domain.InternalCommand, commandBuffer),
		RefreshChan:   make(chan domain.EntityID, refreshBuffer),
	}
	inst.buildFirstFloor()
	return inst
}

// Run drives the activation loop until the context ends. Pop the next
// due actor; the player yields to the network, monsters think and act
// inline; dead actors' stale entries lapse silently.
func (inst *Instance) Run(ctx context.Context) {
	inst.logger().WithFields(logrus.Fields{
		"seed":   inst.Seed,
		"player": inst.PlayerID,
	}).Info("Instance loop running.")
	defer inst.saveSession("shutdown")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if inst.gameOver {
			inst.serveAftermath(ctx)
			return
		}

		id, tick := inst.Scheduler.Pop()
		actor := inst.World.Get(id)
		if actor == nil || !actor.IsAlive() {
			continue
		}

		if id == inst.PlayerID {
			if !inst.playerTurn(ctx, actor, tick) {
				return
			}
		} else {
			inst.monsterTurn(actor, tick)
		}

		if player := inst.World.Get(inst.PlayerID); player == nil || !player.IsAlive() {
			inst.endRun()
		}
	}
}

// playerTurn publishes the yield snapshot and blocks until the player
// commits a possible action. Impossible actions cost no time and
// re-prompt; refreshes are served while waiting. Returns false when the
// context ended first.
func (inst *Instance) playerTurn(ctx context.Context, actor *domain.Entity, tick int64) bool {
	inst.publish()

	for {
		select {
		case <-ctx.Done():
			return false

		case id := <-inst.RefreshChan:
			inst.publishTo(id)

		case cmd := <-inst.CommandChan:
			if cmd.Actor != inst.PlayerID {
				continue
			}

			delay, err := inst.resolve(actor, cmd.Action)
			if err != nil {
				if domain.IsImpossible(err) {
					inst.Log.Add(tick, domain.TierWarning, "%s", err.Error())
					inst.publish()
					continue
				}
				inst.logger().WithError(err).
					WithField("action", cmd.Action.Kind.String()).
					Error("Player action rejected.")
				continue
			}

			inst.tape = append(inst.tape, domain.CommandRecord{Tick: tick, Action: cmd.Action})
			systems.UpdateVisibility(inst.World, actor.Pos, domain.VisionRadius)
			if actor.IsAlive() {
				inst.Scheduler.PushAfter(inst.PlayerID, delay)
			}
			inst.maybeAutosave()
			inst.publish()
			return true
		}
	}
}

// monsterTurn runs one AI activation. A behavior restore costs no time;
// a blocked action costs the fallback delay, so the timeline always
// advances and a cornered monster cannot freeze the loop.
func (inst *Instance) monsterTurn(actor *domain.Entity, tick int64) {
	player := inst.World.Get(inst.PlayerID)

	action, ok := systems.NextAction(inst.World, inst.Log, inst.Rng, tick, actor, player, inst.CrowdPenalty)
	if !ok {
		inst.Scheduler.PushAfter(actor.ID, 0)
		return
	}

	delay, err := inst.resolve(actor, action)
	if err != nil {
		if !domain.IsImpossible(err) {
			inst.logger().WithError(err).
				WithField("actor", actor.Name).
				Error("AI action failed.")
		}
		delay = domain.FallbackDelay
	}
	inst.Scheduler.PushAfter(actor.ID, delay)
}

// endRun flips the instance into aftermath mode. The timeline stops;
// the final state keeps serving.
func (inst *Instance) endRun() {
	if inst.gameOver {
		return
	}
	inst.gameOver = true
	inst.logger().WithFields(logrus.Fields{
		"depth": inst.World.Depth,
		"tape":  len(inst.tape),
	}).Info("Run ended.")
	inst.publish()
}

// serveAftermath answers snapshot requests after the run ended so the
// death screen renders and reconnects still see the final world.
func (inst *Instance) serveAftermath(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-inst.RefreshChan:
			inst.publishTo(id)
		case <-inst.CommandChan:
			inst.publish()
		}
	}
}

func (inst *Instance) maybeAutosave() {
	if inst.AutosaveTicks <= 0 {
		return
	}
	if inst.Scheduler.CurrentTick()-inst.lastSaveTick >= inst.AutosaveTicks {
		inst.saveSession("autosave")
	}
}

// saveSession persists the current state when a store is attached.
func (inst *Instance) saveSession(reason string) {
	if inst.Store == nil {
		return
	}
	state := inst.CaptureState()
	if err := inst.Store.Save(state); err != nil {
		inst.logger().WithError(err).Error("Session save failed.")
		return
	}
	inst.lastSaveTick = state.CurrentTick
	inst.logger().WithFields(logrus.Fields{
		"reason":   reason,
		"entities": len(state.Entities),
		"queued":   len(state.Queue),
	}).Info("Session saved.")
}
