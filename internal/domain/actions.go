package domain

import "strings"

// ActionKind is the numeric discriminator of the action family.
type ActionKind uint8

const (
	ActionUnknown ActionKind = iota
	ActionWait
	ActionMove
	ActionMelee
	ActionBump
	ActionPickUp
	ActionDrop
	ActionUse
	ActionWield
	ActionWear
	ActionDescend
)

var actionStringToKind = map[string]ActionKind{
	"WAIT":    ActionWait,
	"MOVE":    ActionMove,
	"ATTACK":  ActionMelee,
	"BUMP":    ActionBump,
	"PICKUP":  ActionPickUp,
	"DROP":    ActionDrop,
	"USE":     ActionUse,
	"WIELD":   ActionWield,
	"WEAR":    ActionWear,
	"DESCEND": ActionDescend,
}

var actionKindToString = map[ActionKind]string{
	ActionWait:    "WAIT",
	ActionMove:    "MOVE",
	ActionMelee:   "ATTACK",
	ActionBump:    "BUMP",
	ActionPickUp:  "PICKUP",
	ActionDrop:    "DROP",
	ActionUse:     "USE",
	ActionWield:   "WIELD",
	ActionWear:    "WEAR",
	ActionDescend: "DESCEND",
}

// ParseActionKind converts a wire verb into an ActionKind,
// case-insensitively. Unrecognized verbs map to ActionUnknown.
func ParseActionKind(s string) ActionKind {
	if kind, ok := actionStringToKind[strings.ToUpper(s)]; ok {
		return kind
	}
	return ActionUnknown
}

func (a ActionKind) String() string {
	if s, ok := actionKindToString[a]; ok {
		return s
	}
	return "UNKNOWN"
}

// Action is one member of the closed action family. Kind selects the
// variant; the remaining fields are parameters and only the ones noted
// for that variant are meaningful.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Move, Melee, Bump
	Dx int `json:"dx,omitempty"`
	Dy int `json:"dy,omitempty"`

	// Drop, Use, Wield, Wear
	Key string `json:"key,omitempty"`

	// Use, for ground-targeted consumables
	Target *Position `json:"target,omitempty"`
}

func (a Action) String() string {
	return a.Kind.String()
}
