package systems

import (
	"container/heap"

	"delve-server/internal/domain"
)

// pathNode is one frontier entry. seq keeps equal-cost pops in push
// order so path choice is stable across runs.
type pathNode struct {
	pos  domain.Position
	cost int
	seq  int
}

type pathFrontier []pathNode

func (f pathFrontier) Len() int { return len(f) }

func (f pathFrontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f pathFrontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *pathFrontier) Push(x any) { *f = append(*f, x.(pathNode)) }

func (f *pathFrontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// FindPath runs a uniform-cost search from start to goal. Cardinal
// steps cost 2 and diagonal steps 3, so routes prefer straight runs
// without forbidding diagonals. Walls are impassable; tiles holding a
// movement-blocking entity stay passable but carry crowdPenalty extra,
// so actors route around crowds yet squeeze through when there is no
// other way. The result excludes start and includes goal; nil when the
// goal is unreachable.
func FindPath(w *domain.World, start, goal domain.Position, crowdPenalty int) []domain.Position {
	if start == goal {
		return nil
	}

	frontier := &pathFrontier{{pos: start, cost: 0, seq: 0}}
	heap.Init(frontier)
	seq := 1

	dist := map[domain.Position]int{start: 0}
	prev := map[domain.Position]domain.Position{}

	for frontier.Len() > 0 {
		cur := heap.Pop(frontier).(pathNode)
		if cur.pos == goal {
			break
		}
		if cur.cost > dist[cur.pos] {
			continue
		}

		for _, d := range domain.CompassDirs {
			next := cur.pos.Shift(d[0], d[1])
			if !w.IsWalkable(next.X, next.Y) {
				continue
			}

			stepCost := domain.CostCardinal
			if d[0] != 0 && d[1] != 0 {
				stepCost = domain.CostDiagonal
			}
			if w.BlockingEntityAt(next.X, next.Y) != nil {
				stepCost += crowdPenalty
			}

			nextCost := cur.cost + stepCost
			if known, ok := dist[next]; !ok || nextCost < known {
				dist[next] = nextCost
				prev[next] = cur.pos
				heap.Push(frontier, pathNode{pos: next, cost: nextCost, seq: seq})
				seq++
			}
		}
	}

	if _, ok := prev[goal]; !ok {
		return nil
	}

	var path []domain.Position
	for at := goal; at != start; at = prev[at] {
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
