package dungeon

import (
	"math/rand"

	"delve-server/internal/domain"
)

// Rect is a room footprint including its surrounding wall ring; carving
// opens only the interior, so touching rects still share a wall.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// LevelBuilder assembles one floor step by step: carve the layout, roll
// the spawns, place the way down. Every random draw comes from the one
// rng, so a seed fully determines the floor.
type LevelBuilder struct {
	depth    int
	width    int
	height   int
	rooms    []Rect
	world    *domain.World
	entities []*domain.Entity
	occupied map[domain.Position]bool
	rng      *rand.Rand
}

// NewFloor starts a builder for the given depth.
func NewFloor(depth int, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		depth:    depth,
		width:    MapWidth,
		height:   MapHeight,
		occupied: make(map[domain.Position]bool),
		rng:      rng,
	}
}

// WithSize overrides the default map dimensions.
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

// WithRooms digs up to maxRooms non-overlapping rooms into a solid wall
// grid and joins each new room to the previous one with an L-corridor.
// Placements that would overlap are discarded, so sparse floors happen.
func (b *LevelBuilder) WithRooms(maxRooms, minSize, maxSize int) *LevelBuilder {
	b.world = domain.NewWorld(b.width, b.height, b.depth)

	b.rooms = make([]Rect, 0, maxRooms)
	for i := 0; i < maxRooms; i++ {
		w := b.randRange(minSize, maxSize)
		h := b.randRange(minSize, maxSize)
		x := b.randRange(1, b.width-w-1)
		y := b.randRange(1, b.height-h-1)

		room := Rect{X: x, Y: y, W: w, H: h}

		overlaps := false
		for _, other := range b.rooms {
			if room.Intersects(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		b.carveRoom(room)

		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := room.Center()

			if b.rng.Intn(2) == 0 {
				b.carveHCorridor(prevX, currX, prevY)
				b.carveVCorridor(prevY, currY, currX)
			} else {
				b.carveVCorridor(prevY, currY, prevX)
				b.carveHCorridor(prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, room)
	}

	b.occupied[b.startPos()] = true
	return b
}

// SpawnMonsters rolls 0..maxPerRoom hostiles for every room after the
// first; the first room stays clear so the player never wakes up in
// melee.
func (b *LevelBuilder) SpawnMonsters(maxPerRoom int) *LevelBuilder {
	for i := 1; i < len(b.rooms); i++ {
		count := b.rng.Intn(maxPerRoom + 1)
		for n := 0; n < count; n++ {
			pos, ok := b.openSpot(b.rooms[i])
			if !ok {
				continue
			}
			monster := pickMonster(b.rng).Spawn(b.rng, pos)
			b.entities = append(b.entities, monster)
			b.occupied[pos] = true
		}
	}
	return b
}

// SpawnItems rolls 0..maxPerRoom items for every room, the first one
// included.
func (b *LevelBuilder) SpawnItems(maxPerRoom int) *LevelBuilder {
	for _, room := range b.rooms {
		count := b.rng.Intn(maxPerRoom + 1)
		for n := 0; n < count; n++ {
			pos, ok := b.openSpot(room)
			if !ok {
				continue
			}
			item := pickItem(b.rng).Spawn(b.rng, pos)
			b.entities = append(b.entities, item)
			b.occupied[pos] = true
		}
	}
	return b
}

// WithDownstairs puts the way down at the center of the last room, the
// spot farthest along the corridor chain from the start.
func (b *LevelBuilder) WithDownstairs() *LevelBuilder {
	if len(b.rooms) == 0 {
		return b
	}
	cx, cy := b.rooms[len(b.rooms)-1].Center()
	b.world.Downstairs = domain.Position{X: cx, Y: cy}
	return b
}

// Build returns the carved world, its spawn list and the player start.
// Spawns are not yet registered; the caller owns arena membership.
func (b *LevelBuilder) Build() (*domain.World, []*domain.Entity, domain.Position) {
	return b.world, b.entities, b.startPos()
}

func (b *LevelBuilder) startPos() domain.Position {
	if len(b.rooms) > 0 {
		cx, cy := b.rooms[0].Center()
		return domain.Position{X: cx, Y: cy}
	}
	return domain.Position{X: b.width / 2, Y: b.height / 2}
}

// openSpot rolls interior positions until it finds a walkable tile no
// spawn has claimed yet. Bounded attempts; crowded rooms may come up
// empty.
func (b *LevelBuilder) openSpot(room Rect) (domain.Position, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		pos := domain.Position{
			X: b.randRange(room.X+1, room.X+room.W-1),
			Y: b.randRange(room.Y+1, room.Y+room.H-1),
		}
		if b.world.IsWalkable(pos.X, pos.Y) && !b.occupied[pos] {
			return pos, true
		}
	}
	return domain.Position{}, false
}

func (b *LevelBuilder) carveRoom(room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			b.carve(x, y)
		}
	}
}

func (b *LevelBuilder) carveHCorridor(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		b.carve(x, y)
	}
}

func (b *LevelBuilder) carveVCorridor(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		b.carve(x, y)
	}
}

func (b *LevelBuilder) carve(x, y int) {
	tile := b.world.TileAt(x, y)
	tile.Walkable = true
	tile.Transparent = true
}

func (b *LevelBuilder) randRange(min, max int) int {
	return b.rng.Intn(max-min+1) + min
}
