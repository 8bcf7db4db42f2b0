package api

import (
	"encoding/json"
)

// --- SERVER -> CLIENT ---

// Game states carried in ServerResponse.State.
const (
	StatePlaying = "PLAYING"
	StateDead    = "DEAD"
)

// ServerResponse is the full world snapshot sent to a client. One is
// emitted whenever the simulation yields to the player and after every
// resolved player action, so the client never tracks deltas.
type ServerResponse struct {
	// Type is currently always "UPDATE".
	Type string `json:"type"`

	// Tick is the simulation clock at snapshot time.
	Tick int64 `json:"tick"`

	// Depth is the dungeon floor the player is on, starting at 1.
	Depth int `json:"depth"`

	// State reports whether the run is still live.
	State string `json:"state"`

	// PlayerID identifies the entity this client controls.
	PlayerID string `json:"playerId,omitempty"`

	// ActiveID is the entity whose turn it is. The client should only
	// accept input while ActiveID == PlayerID.
	ActiveID string `json:"activeId,omitempty"`

	// Grid carries the full map dimensions.
	Grid *GridMeta `json:"grid,omitempty"`

	// Tiles lists every explored tile; unexplored tiles are omitted.
	Tiles []TileView `json:"tiles,omitempty"`

	// Entities lists the entities currently in the player's sight.
	Entities []EntityView `json:"entities,omitempty"`

	// Stats are the player's own numbers.
	Stats *StatsView `json:"stats,omitempty"`

	// Inventory is the player's keyed item listing.
	Inventory *InventoryView `json:"inventory,omitempty"`

	// Messages are the most recent log entries, oldest first.
	Messages []MessageView `json:"messages,omitempty"`
}

// GridMeta tells the client what grid to allocate before tiles arrive.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView is the render DTO for one explored map cell.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	// IsWall marks the cell impassable.
	IsWall bool `json:"isWall"`

	// IsVisible means the cell is in the current field of view and
	// renders bright; explored-but-unseen cells render dim.
	IsVisible bool `json:"isVisible"`

	IsExplored bool `json:"isExplored"`
}

// EntityView is the render DTO for one visible entity.
type EntityView struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // PLAYER, MONSTER, ITEM
	Name string `json:"name"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	Render struct {
		Symbol string `json:"symbol"`
		Color  string `json:"color"`
	} `json:"render"`

	// Order is the draw layer; higher draws on top.
	Order int `json:"order"`

	// Stats is present for actors. Other actors expose HP only; the
	// owner gets the full StatsView in ServerResponse.Stats.
	Stats *StatsView `json:"stats,omitempty"`
}

// StatsView carries fighter numbers.
type StatsView struct {
	HP     int  `json:"hp"`
	MaxHP  int  `json:"maxHp"`
	Damage int  `json:"damage,omitempty"`
	Delay  int  `json:"delay,omitempty"`
	Armor  int  `json:"armor,omitempty"`
	IsDead bool `json:"isDead"`
}

// InventoryView lists occupied inventory keys in alphabet order.
type InventoryView struct {
	Capacity int        `json:"capacity"`
	Slots    []SlotView `json:"slots"`
}

// SlotView is one occupied inventory key.
type SlotView struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`

	Wielded bool `json:"wielded,omitempty"`
	Worn    bool `json:"worn,omitempty"`
}

// MessageView is one game log line.
type MessageView struct {
	Text string `json:"text"`
	Tier string `json:"tier"`
	Tick int64  `json:"tick"`
}

// --- CLIENT -> SERVER ---

// ActionInit requests a snapshot without consuming the turn. Every
// other action string matches the engine's wire names.
const ActionInit = "INIT"

// ClientCommand is the envelope for every client message. Payload shape
// depends on Action; actions without parameters send no payload.
type ClientCommand struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload parameterizes MOVE, ATTACK and BUMP.
type DirectionPayload struct {
	Dx int `json:"dx"` // -1, 0 or 1
	Dy int `json:"dy"`
}

// ItemPayload parameterizes DROP, WIELD and WEAR by inventory key.
type ItemPayload struct {
	Key string `json:"key"`
}

// UsePayload parameterizes USE: the inventory key plus an optional
// target position for aimed consumables.
type UsePayload struct {
	Key    string           `json:"key"`
	Target *PositionPayload `json:"target,omitempty"`
}

// PositionPayload is an absolute map coordinate.
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}
