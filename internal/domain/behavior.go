package domain

// BehaviorKind discriminates the closed set of actor strategies.
type BehaviorKind string

const (
	BehaviorHostile  BehaviorKind = "hostile"
	BehaviorConfused BehaviorKind = "confused"
)

// Behavior is the per-actor strategy state. Hostile pursuit caches its
// last computed path. Confusion wraps the strategy it displaced and
// restores it when TurnsRemaining runs out; the wrapped state survives
// untouched so restoration is exact.
type Behavior struct {
	Kind BehaviorKind `json:"kind"`

	Path []Position `json:"path,omitempty"`

	Previous       *Behavior `json:"previous,omitempty"`
	TurnsRemaining int       `json:"turnsRemaining,omitempty"`
}

// NewHostile returns a fresh pursuit behavior with no cached path.
func NewHostile() *Behavior {
	return &Behavior{Kind: BehaviorHostile}
}

// NewConfused wraps previous for turns activations of random stumbling.
func NewConfused(previous *Behavior, turns int) *Behavior {
	return &Behavior{Kind: BehaviorConfused, Previous: previous, TurnsRemaining: turns}
}
