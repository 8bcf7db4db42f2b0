package domain

// Tile is one map cell. Visible and Explored are owned by the FOV
// system; the rules layer only reads them. Visible implies Explored.
type Tile struct {
	Walkable    bool `json:"walkable"`
	Transparent bool `json:"transparent"`
	Explored    bool `json:"explored"`
	Visible     bool `json:"visible"`
}

// World is the active floor: the tile grid plus the entity arena and
// its spatial index. The arena owns every entity record whether it is
// on the map or carried in an inventory; the spatial index tracks only
// on-map entities. Iteration follows registration order, so runs with
// the same seed walk entities identically.
type World struct {
	Width      int
	Height     int
	Depth      int
	Downstairs Position
	Tiles      [][]Tile // row-major, Tiles[y][x]

	registry map[EntityID]*Entity
	order    []EntityID
	spatial  map[int][]EntityID
}

// NewWorld allocates an empty world of wall tiles.
func NewWorld(width, height, depth int) *World {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}
	return &World{
		Width:    width,
		Height:   height,
		Depth:    depth,
		Tiles:    tiles,
		registry: make(map[EntityID]*Entity),
		spatial:  make(map[int][]EntityID),
	}
}

func (w *World) index(x, y int) int {
	return y*w.Width + x
}

func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// TileAt returns the cell at (x, y), or nil out of bounds.
func (w *World) TileAt(x, y int) *Tile {
	if !w.InBounds(x, y) {
		return nil
	}
	return &w.Tiles[y][x]
}

func (w *World) IsWalkable(x, y int) bool {
	return w.InBounds(x, y) && w.Tiles[y][x].Walkable
}

func (w *World) IsTransparent(x, y int) bool {
	return w.InBounds(x, y) && w.Tiles[y][x].Transparent
}

func (w *World) IsVisible(x, y int) bool {
	return w.InBounds(x, y) && w.Tiles[y][x].Visible
}

// Register adds the record to the arena without placing it on the map.
// Carried items exist only here.
func (w *World) Register(e *Entity) {
	if _, ok := w.registry[e.ID]; ok {
		return
	}
	w.registry[e.ID] = e
	w.order = append(w.order, e.ID)
}

// Unregister removes the record from the arena and the map.
func (w *World) Unregister(id EntityID) {
	e, ok := w.registry[id]
	if !ok {
		return
	}
	w.Displace(e)
	delete(w.registry, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Get resolves an ID against the arena; nil when absent.
func (w *World) Get(id EntityID) *Entity {
	return w.registry[id]
}

// All returns every registered entity in registration order.
func (w *World) All() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.registry[id])
	}
	return out
}

// Spawn registers the entity and places it on the map in one step.
func (w *World) Spawn(e *Entity) {
	w.Register(e)
	w.Place(e)
}

// Place puts a registered entity onto the spatial index at its Pos.
func (w *World) Place(e *Entity) {
	idx := w.index(e.Pos.X, e.Pos.Y)
	for _, id := range w.spatial[idx] {
		if id == e.ID {
			return
		}
	}
	w.spatial[idx] = append(w.spatial[idx], e.ID)
}

// Displace removes the entity from the spatial index only; the record
// stays registered. Picked-up items are displaced, not unregistered.
func (w *World) Displace(e *Entity) {
	w.removeFromCell(e.ID, w.index(e.Pos.X, e.Pos.Y))
}

// MoveTo updates the spatial index and the entity position together.
func (w *World) MoveTo(e *Entity, pos Position) {
	w.removeFromCell(e.ID, w.index(e.Pos.X, e.Pos.Y))
	e.Pos = pos
	w.Place(e)
}

func (w *World) removeFromCell(id EntityID, idx int) {
	cell := w.spatial[idx]
	for i, cur := range cell {
		if cur == id {
			w.spatial[idx] = append(cell[:i], cell[i+1:]...)
			return
		}
	}
}

// OnMap reports whether the entity currently occupies its tile in the
// spatial index. Carried items are registered but never on the map.
func (w *World) OnMap(e *Entity) bool {
	for _, id := range w.spatial[w.index(e.Pos.X, e.Pos.Y)] {
		if id == e.ID {
			return true
		}
	}
	return false
}

// EntitiesAt returns the on-map entities at (x, y) in placement order.
func (w *World) EntitiesAt(x, y int) []*Entity {
	ids := w.spatial[w.index(x, y)]
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e := w.registry[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// ActorAt returns the living actor at (x, y), nil when none. Corpses do
// not count.
func (w *World) ActorAt(x, y int) *Entity {
	for _, e := range w.EntitiesAt(x, y) {
		if e.IsActor() && e.IsAlive() {
			return e
		}
	}
	return nil
}

// BlockingEntityAt returns the movement-blocking entity at (x, y).
func (w *World) BlockingEntityAt(x, y int) *Entity {
	for _, e := range w.EntitiesAt(x, y) {
		if e.Blocks {
			return e
		}
	}
	return nil
}

// ItemsAt returns the carryable entities lying at (x, y).
func (w *World) ItemsAt(x, y int) []*Entity {
	var out []*Entity
	for _, e := range w.EntitiesAt(x, y) {
		if e.IsItem() {
			out = append(out, e)
		}
	}
	return out
}

// WieldedWeapon resolves the actor's wielded item, nil when unarmed.
func (w *World) WieldedWeapon(e *Entity) *Item {
	inv := e.Inventory
	if inv == nil || inv.Wielded == "" {
		return nil
	}
	stack, ok := inv.Get(inv.Wielded)
	if !ok || stack.Count() == 0 {
		return nil
	}
	item := w.Get(stack.Items[0])
	if item == nil || item.Item == nil {
		return nil
	}
	return item.Item
}

// MeleeDamage is the weapon damage when wielding, else unarmed damage.
func (w *World) MeleeDamage(e *Entity) int {
	if weapon := w.WieldedWeapon(e); weapon != nil && weapon.IsWeapon() {
		return weapon.MeleeDamage
	}
	return e.Fighter.UnarmedDamage
}

// MeleeDelay is the weapon swing delay when wielding, else the actor's
// base melee delay.
func (w *World) MeleeDelay(e *Entity) int {
	if weapon := w.WieldedWeapon(e); weapon != nil && weapon.MeleeDelay > 0 {
		return weapon.MeleeDelay
	}
	return e.Fighter.MeleeDelay
}

// Defense is base defense plus every worn armor piece.
func (w *World) Defense(e *Entity) int {
	total := e.Fighter.BaseDefense
	inv := e.Inventory
	if inv == nil {
		return total
	}
	for _, key := range inv.Armor {
		stack, ok := inv.Get(key)
		if !ok || stack.Count() == 0 {
			continue
		}
		if piece := w.Get(stack.Items[0]); piece != nil && piece.Item != nil {
			total += piece.Item.Defense
		}
	}
	return total
}
