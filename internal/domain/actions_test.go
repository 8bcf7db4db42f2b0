package domain

import "testing"

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		input    string
		expected ActionKind
	}{
		{"MOVE", ActionMove},
		{"move", ActionMove},
		{"Move", ActionMove},
		{"ATTACK", ActionMelee},
		{"BUMP", ActionBump},
		{"WAIT", ActionWait},
		{"PICKUP", ActionPickUp},
		{"DROP", ActionDrop},
		{"USE", ActionUse},
		{"WIELD", ActionWield},
		{"WEAR", ActionWear},
		{"DESCEND", ActionDescend},
		{"TELEPORT", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		result := ParseActionKind(tt.input)
		if result != tt.expected {
			t.Errorf("ParseActionKind(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestActionKind_String(t *testing.T) {
	tests := []struct {
		kind     ActionKind
		expected string
	}{
		{ActionMove, "MOVE"},
		{ActionMelee, "ATTACK"},
		{ActionDescend, "DESCEND"},
		{ActionUnknown, "UNKNOWN"},
		{ActionKind(200), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("ActionKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestParseActionKind_RoundTrip(t *testing.T) {
	for s, kind := range actionStringToKind {
		if got := ParseActionKind(kind.String()); got != kind {
			t.Errorf("round trip for %q: got %v, want %v", s, got, kind)
		}
	}
}
