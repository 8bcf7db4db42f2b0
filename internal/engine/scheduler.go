package engine

import (
	"container/heap"
	"sort"

	"delve-server/internal/domain"
	"delve-server/pkg/logger"
)

// Scheduler is the discrete-event timeline of one game instance. Time
// is a tick counter that advances only when an activation pops; wall
// clocks never touch it. Each instance owns exactly one Scheduler and
// only the instance goroutine calls it.
type Scheduler struct {
	queue   TurnQueue
	seq     uint64
	current int64
}

func NewScheduler() *Scheduler {
	return &Scheduler{queue: make(TurnQueue, 0)}
}

// Push schedules id at the absolute tick due. Entries pushed at the
// same tick keep their push order.
func (s *Scheduler) Push(id domain.EntityID, due int64) {
	item := &TurnItem{ID: id, Tick: due, Seq: s.seq}
	s.seq++
	heap.Push(&s.queue, item)
}

// PushAfter schedules id delay ticks after the current clock.
func (s *Scheduler) PushAfter(id domain.EntityID, delay int) {
	s.Push(id, s.current+int64(delay))
}

// Pop removes the earliest activation and advances the clock to it.
// Live actors are always re-pushed, so an empty pop means the loop lost
// track of its actors.
func (s *Scheduler) Pop() (domain.EntityID, int64) {
	if s.queue.Len() == 0 {
		logger.Log.Fatalf("scheduler: pop on an empty queue")
	}
	item := heap.Pop(&s.queue).(*TurnItem)
	s.current = item.Tick
	return item.ID, item.Tick
}

func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// CurrentTick is the due tick of the last popped activation.
func (s *Scheduler) CurrentTick() int64 {
	return s.current
}

// NextSeq is the sequence the next push will receive.
func (s *Scheduler) NextSeq() uint64 {
	return s.seq
}

// Reset drops every pending activation. The clock and the sequence
// counter keep running, so time never rewinds across floors.
func (s *Scheduler) Reset() {
	s.queue = make(TurnQueue, 0)
}

// Entries returns a copy of the pending activations sorted by pop
// order, for the debug surface and the save store.
func (s *Scheduler) Entries() []TurnItem {
	out := make([]TurnItem, len(s.queue))
	for i, item := range s.queue {
		out[i] = *item
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tick != out[j].Tick {
			return out[i].Tick < out[j].Tick
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Restore rebuilds the timeline from saved entries. The sequence
// counter resumes at nextSeq or above the highest saved entry,
// whichever is larger, so fresh pushes sort after every restored peer.
func (s *Scheduler) Restore(entries []TurnItem, current int64, nextSeq uint64) {
	s.queue = make(TurnQueue, 0, len(entries))
	s.current = current
	s.seq = nextSeq
	for i := range entries {
		item := entries[i]
		if item.Seq >= s.seq {
			s.seq = item.Seq + 1
		}
		item.Index = len(s.queue)
		s.queue = append(s.queue, &item)
	}
	heap.Init(&s.queue)
}
