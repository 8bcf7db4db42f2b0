package engine

import (
	"math/rand"

	"delve-server/internal/domain"
	"delve-server/internal/systems"
	"delve-server/pkg/dungeon"
)

// SessionState is the serializable image of one instance. The floor
// layout is not stored: it regenerates from (Seed, Depth), so the image
// carries only what the dice cannot reproduce: explored ground, the
// entity arena, the timeline and the narrative.
type SessionState struct {
	Seed        int64
	Depth       int
	CurrentTick int64
	NextSeq     uint64
	PlayerID    domain.EntityID

	// RngSeed reseeds the action dice on load. Drawn fresh at save
	// time, so reloading the same file replays the same rolls.
	RngSeed int64

	Width    int
	Height   int
	Explored []byte // row-major bitmap

	Entities []EntityRecord
	Queue    []TurnItem
	Tape     []domain.CommandRecord
	Messages []domain.Message
}

// EntityRecord pairs an entity document with its map membership.
// Carried items are registered off-map.
type EntityRecord struct {
	Entity *domain.Entity `json:"entity"`
	OnMap  bool           `json:"onMap"`
}

// SaveStore persists session images. Implementations live outside the
// engine; a nil store disables persistence.
type SaveStore interface {
	Save(state *SessionState) error
}

// CaptureState freezes the instance into a save image. Call it only
// from the instance goroutine.
func (inst *Instance) CaptureState() *SessionState {
	w := inst.World

	entities := make([]EntityRecord, 0, len(w.All()))
	for _, e := range w.All() {
		entities = append(entities, EntityRecord{Entity: e, OnMap: w.OnMap(e)})
	}

	queue := inst.Scheduler.Entries()
	if player := w.Get(inst.PlayerID); player != nil && player.IsAlive() && !queuedFor(queue, inst.PlayerID) {
		// The save caught the player mid-prompt: popped, waiting for
		// input. Requeue it at the head of the current tick so the
		// reloaded run prompts immediately.
		head := TurnItem{ID: inst.PlayerID, Tick: inst.Scheduler.CurrentTick()}
		queue = append([]TurnItem{head}, queue...)
	}

	return &SessionState{
		Seed:        inst.Seed,
		Depth:       w.Depth,
		CurrentTick: inst.Scheduler.CurrentTick(),
		NextSeq:     inst.Scheduler.NextSeq(),
		PlayerID:    inst.PlayerID,
		RngSeed:     inst.Rng.Int63(),
		Width:       w.Width,
		Height:      w.Height,
		Explored:    packExplored(w),
		Entities:    entities,
		Queue:       queue,
		Tape:        append([]domain.CommandRecord(nil), inst.tape...),
		Messages:    append([]domain.Message(nil), inst.Log.Entries...),
	}
}

func queuedFor(entries []TurnItem, id domain.EntityID) bool {
	for _, entry := range entries {
		if entry.ID == id {
			return true
		}
	}
	return false
}

// RestoreInstance rebuilds an instance from a saved image: the floor
// regenerates from the saved seed and depth, then the saved arena and
// timeline replace the generated spawns.
func RestoreInstance(state *SessionState, opts Options) *Instance {
	opts = opts.withDefaults()
	opts.Seed = state.Seed

	world, _, _ := dungeon.Generate(state.Depth, floorSource(state.Seed, state.Depth))
	unpackExplored(world, state.Explored)

	for _, rec := range state.Entities {
		world.Register(rec.Entity)
		if rec.OnMap {
			world.Place(rec.Entity)
		}
	}

	inst := &Instance{
		ID:           opts.ID,
		World:        world,
		Scheduler:    NewScheduler(),
		Log:          domain.NewMessageLog(MessageLimit),
		Rng:          rand.New(rand.NewSource(state.RngSeed)),
		Seed:         state.Seed,
		PlayerID:     state.PlayerID,
		Hub:          opts.Hub,
		Store:        opts.Store,
		CrowdPenalty: opts.CrowdPenalty,

		AutosaveTicks: opts.AutosaveTicks,
		lastSaveTick:  state.CurrentTick,

		CommandChan: make(chan domain.InternalCommand, commandBuffer),
		RefreshChan: make(chan domain.EntityID, refreshBuffer),
	}
	inst.Scheduler.Restore(state.Queue, state.CurrentTick, state.NextSeq)
	inst.Log.Entries = append(inst.Log.Entries, state.Messages...)
	inst.tape = append(inst.tape, state.Tape...)

	if player := world.Get(inst.PlayerID); player != nil {
		inst.gameOver = !player.IsAlive()
		systems.UpdateVisibility(world, player.Pos, domain.VisionRadius)
	}
	return inst
}

func packExplored(w *domain.World) []byte {
	bits := make([]byte, (w.Width*w.Height+7)/8)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.Tiles[y][x].Explored {
				i := y*w.Width + x
				bits[i/8] |= 1 << (i % 8)
			}
		}
	}
	return bits
}

func unpackExplored(w *domain.World, bits []byte) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			i := y*w.Width + x
			if i/8 < len(bits) && bits[i/8]&(1<<(i%8)) != 0 {
				w.Tiles[y][x].Explored = true
			}
		}
	}
}
