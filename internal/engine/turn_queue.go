package engine

import (
	"delve-server/internal/domain"
)

// TurnItem is one pending activation: the entity due at Tick. Seq is
// assigned at push time and strictly increases, so entries sharing a
// tick pop in push order no matter how the heap shuffles them.
type TurnItem struct {
	ID   domain.EntityID `json:"id"`
	Tick int64           `json:"tick"`
	Seq  uint64          `json:"seq"`

	Index int `json:"-"` // heap position, maintained by Swap
}

// TurnQueue implements heap.Interface as a min-heap on (Tick, Seq).
type TurnQueue []*TurnItem

func (q TurnQueue) Len() int { return len(q) }

func (q TurnQueue) Less(i, j int) bool {
	if q[i].Tick != q[j].Tick {
		return q[i].Tick < q[j].Tick
	}
	return q[i].Seq < q[j].Seq
}

func (q TurnQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].Index = i
	q[j].Index = j
}

func (q *TurnQueue) Push(x any) {
	n := len(*q)
	item := x.(*TurnItem)
	item.Index = n
	*q = append(*q, item)
}

func (q *TurnQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid a stale reference in the backing array
	item.Index = -1
	*q = old[0 : n-1]
	return item
}
