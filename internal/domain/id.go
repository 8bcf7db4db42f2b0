package domain

import "delve-server/pkg/utils"

// EntityID identifies an arena record for its whole lifetime, including
// while the entity is carried inside an inventory and off the map.
type EntityID string

// Nobody is the zero EntityID.
const Nobody EntityID = ""

// NewEntityID mints a fresh identifier for a spawned entity.
func NewEntityID() EntityID {
	return EntityID(utils.GenerateID())
}
