package engine

import (
	"sort"

	"delve-server/internal/domain"
	"delve-server/pkg/api"
)

// publish sends the player a fresh snapshot.
func (inst *Instance) publish() {
	inst.publishTo(inst.PlayerID)
}

// publishTo serves a snapshot to one subscriber. Building a snapshot
// walks the whole grid, so instances nobody watches skip it.
func (inst *Instance) publishTo(id domain.EntityID) {
	if inst.Hub == nil || !inst.Hub.HasSubscriber(id) {
		return
	}
	inst.Hub.SendTo(id, inst.Snapshot())
}

// Snapshot renders the world as the player knows it: explored tiles,
// entities in sight, own stats and inventory, recent messages. The
// result shares nothing mutable with the simulation.
func (inst *Instance) Snapshot() api.ServerResponse {
	w := inst.World
	player := w.Get(inst.PlayerID)

	resp := api.ServerResponse{
		Type:     "UPDATE",
		Tick:     inst.Scheduler.CurrentTick(),
		Depth:    w.Depth,
		State:    api.StatePlaying,
		PlayerID: string(inst.PlayerID),
		ActiveID: string(inst.PlayerID),
		Grid:     &api.GridMeta{Width: w.Width, Height: w.Height},
		Tiles:    buildTiles(w),
		Entities: buildEntities(w),
		Messages: buildMessages(inst.Log),
	}
	if player != nil {
		if !player.IsAlive() {
			resp.State = api.StateDead
		}
		resp.Stats = playerStats(w, player)
		resp.Inventory = buildInventory(player.Inventory)
	}
	return resp
}

func buildTiles(w *domain.World) []api.TileView {
	var tiles []api.TileView
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			tile := w.Tiles[y][x]
			if !tile.Explored {
				continue
			}
			view := api.TileView{
				X: x, Y: y,
				Symbol:     ".",
				Color:      "#333333",
				IsVisible:  tile.Visible,
				IsExplored: true,
			}
			switch {
			case !tile.Walkable:
				view.IsWall = true
				view.Symbol = "#"
				view.Color = "#666666"
			case w.Downstairs.X == x && w.Downstairs.Y == y:
				view.Symbol = ">"
				view.Color = "#FFFFFF"
			}
			tiles = append(tiles, view)
		}
	}
	return tiles
}

// buildEntities lists what the player can currently see, lowest render
// order first so the client draws corpses under items under actors.
func buildEntities(w *domain.World) []api.EntityView {
	var views []api.EntityView
	for _, e := range w.All() {
		if !w.OnMap(e) || !w.IsVisible(e.Pos.X, e.Pos.Y) {
			continue
		}
		views = append(views, entityView(e))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Order < views[j].Order
	})
	return views
}

func entityView(e *domain.Entity) api.EntityView {
	view := api.EntityView{
		ID:    string(e.ID),
		Kind:  string(e.Kind),
		Name:  e.Name,
		Order: int(e.RenderOrder),
	}
	view.Pos.X = e.Pos.X
	view.Pos.Y = e.Pos.Y
	view.Render.Symbol = string(e.Glyph.Char())
	view.Render.Color = e.Glyph.HexColor()

	if e.Fighter != nil {
		view.Stats = &api.StatsView{
			HP:     e.Fighter.HP,
			MaxHP:  e.Fighter.MaxHP,
			IsDead: !e.IsAlive(),
		}
	}
	return view
}

// playerStats exposes the full sheet, equipment effects included.
func playerStats(w *domain.World, player *domain.Entity) *api.StatsView {
	return &api.StatsView{
		HP:     player.Fighter.HP,
		MaxHP:  player.Fighter.MaxHP,
		Damage: w.MeleeDamage(player),
		Delay:  w.MeleeDelay(player),
		Armor:  w.Defense(player),
		IsDead: !player.IsAlive(),
	}
}

func buildInventory(inv *domain.Inventory) *api.InventoryView {
	if inv == nil {
		return nil
	}
	view := &api.InventoryView{
		Capacity: inv.Capacity,
		Slots:    make([]api.SlotView, 0, len(inv.Stacks)),
	}
	for _, key := range inv.Keys() {
		stack, _ := inv.Get(key)
		slot := api.SlotView{
			Key:     key,
			Name:    stack.Name,
			Count:   stack.Count(),
			Wielded: inv.Wielded == key,
		}
		for _, worn := range inv.Armor {
			if worn == key {
				slot.Worn = true
				break
			}
		}
		view.Slots = append(view.Slots, slot)
	}
	return view
}

func buildMessages(log *domain.MessageLog) []api.MessageView {
	recent := log.Recent(RecentMessages)
	views := make([]api.MessageView, 0, len(recent))
	for _, m := range recent {
		views = append(views, api.MessageView{
			Text: m.Text,
			Tier: string(m.Tier),
			Tick: m.Tick,
		})
	}
	return views
}
