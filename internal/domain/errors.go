package domain

import (
	"errors"
	"fmt"
)

// Impossible signals a locally-recoverable invalid action: the actor
// keeps its turn, no state was mutated, and the message is shown to the
// player. Every other error in the rules layer is an invariant violation
// and must not be swallowed.
type Impossible struct {
	Reason string
}

func (e *Impossible) Error() string {
	return e.Reason
}

// Impossiblef builds an Impossible with a formatted player-facing reason.
func Impossiblef(format string, args ...any) error {
	return &Impossible{Reason: fmt.Sprintf(format, args...)}
}

// IsImpossible reports whether err is (or wraps) an Impossible.
func IsImpossible(err error) bool {
	var imp *Impossible
	return errors.As(err, &imp)
}
