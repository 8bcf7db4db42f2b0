package domain

// InternalCommand is one decoded action traveling over the instance
// channel, tagged with the issuing entity.
type InternalCommand struct {
	Actor  EntityID `json:"actor"`
	Action Action   `json:"action"`
}

// CommandRecord is one entry of the player action tape. The tape is
// persisted with saves so a session can be inspected after the fact.
type CommandRecord struct {
	Tick   int64  `json:"tick"`
	Action Action `json:"action"`
}
