package engine

import (
	"time"

	"delve-server/internal/domain"
	"delve-server/internal/network"
	"delve-server/pkg/dungeon"
)

// Bounds on per-instance buffers.
const (
	// MessageLimit caps the narrative log kept in memory.
	MessageLimit = 100

	// RecentMessages is how many log lines ride each snapshot.
	RecentMessages = 50

	commandBuffer = 16
	refreshBuffer = 4
)

// Options configures one game instance. Seed is the master seed; every
// floor derives its layout seed from it, so a run is fully described by
// (Seed, player action tape).
type Options struct {
	ID           int
	Seed         int64
	CrowdPenalty int

	// PlayerID names the controlled entity. Instances sharing a hub
	// need distinct IDs.
	PlayerID domain.EntityID

	Hub   *network.Broadcaster
	Store SaveStore

	// AutosaveTicks saves whenever at least this many ticks passed
	// since the last save. Zero disables autosaving.
	AutosaveTicks int64
}

// withDefaults fills the zero values a caller left open.
func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.CrowdPenalty == 0 {
		o.CrowdPenalty = domain.DefaultCrowdPenalty
	}
	if o.PlayerID == domain.Nobody {
		o.PlayerID = dungeon.PlayerID
	}
	return o
}
