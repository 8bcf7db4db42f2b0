package domain

// Entity is one record in the world arena. Component pointers mark
// capabilities: nil means the entity lacks that capability. Entities
// never reference their container; containers hold EntityIDs and the
// arena resolves them.
type Entity struct {
	ID          EntityID    `json:"id"`
	Kind        EntityKind  `json:"kind"`
	Name        string      `json:"name"`
	Pos         Position    `json:"pos"`
	Glyph       Glyph       `json:"glyph"`
	Blocks      bool        `json:"blocks"`
	RenderOrder RenderOrder `json:"renderOrder"`

	Fighter   *Fighter   `json:"fighter,omitempty"`
	Behavior  *Behavior  `json:"behavior,omitempty"`
	Inventory *Inventory `json:"inventory,omitempty"`
	Item      *Item      `json:"item,omitempty"`
}

// IsActor reports whether the entity fights and takes scheduled turns.
func (e *Entity) IsActor() bool {
	return e.Fighter != nil
}

// IsAlive holds exactly while the entity has a behavior. Death clears
// Behavior and nothing restores it, so corpses are actors that are not
// alive.
func (e *Entity) IsAlive() bool {
	return e.Behavior != nil
}

// IsItem reports whether the entity can enter an inventory.
func (e *Entity) IsItem() bool {
	return e.Item != nil
}
