package domain

// Action costs in ticks.
const (
	// BaseDelay covers waiting and inventory handling (pick up, drop,
	// use, wield, wear).
	BaseDelay = 10

	// FallbackDelay is charged when an AI-issued action resolves
	// Impossible, so a blocked monster still spends its turn.
	FallbackDelay = 10
)

const (
	// VisionRadius is the player FOV radius in tiles.
	VisionRadius = 8

	// DefaultCrowdPenalty is the additive path cost for tiles occupied
	// by a blocking entity. Tunable through config.
	DefaultCrowdPenalty = 10

	// Path step costs. Diagonals cost more so routes prefer straight
	// runs without forbidding diagonal movement.
	CostCardinal = 2
	CostDiagonal = 3
)

// InventoryKeys is the fixed slot alphabet; a fresh stack takes the
// first free letter.
const InventoryKeys = "abcdefghijklmnopqrstuvwxyz"

// CompassDirs lists the 8 movement directions, clockwise from north.
var CompassDirs = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}
