package systems

import (
	"testing"

	"delve-server/internal/domain"
)

func TestUpdateVisibility_RadiusBound(t *testing.T) {
	w := newTestWorld(21, 21)
	origin := domain.Position{X: 10, Y: 10}

	UpdateVisibility(w, origin, domain.VisionRadius)

	cases := []struct {
		name    string
		x, y    int
		visible bool
	}{
		{"origin", 10, 10, true},
		{"seven east", 17, 10, true},
		{"eight east", 18, 10, false},
		{"seven north", 10, 3, true},
		{"eight north", 10, 2, false},
		{"inside diagonal", 15, 15, true},
		{"outside diagonal", 16, 16, false},
		{"far corner", 20, 20, false},
	}
	for _, tc := range cases {
		if got := w.IsVisible(tc.x, tc.y); got != tc.visible {
			t.Errorf("%s (%d,%d): visible = %v, want %v", tc.name, tc.x, tc.y, got, tc.visible)
		}
	}
}

func TestUpdateVisibility_WallCastsShadow(t *testing.T) {
	w := newTestWorld(21, 21)
	origin := domain.Position{X: 10, Y: 10}
	setWall(w, 10, 7)

	UpdateVisibility(w, origin, domain.VisionRadius)

	if !w.IsVisible(10, 7) {
		t.Error("the wall itself should be lit")
	}
	for _, y := range []int{6, 5, 4} {
		if w.IsVisible(10, y) {
			t.Errorf("(10,%d) behind the wall should be shadowed", y)
		}
	}
	// Same rows, well off the shadow column.
	if !w.IsVisible(6, 7) {
		t.Error("(6,7) is unobstructed and should be lit")
	}
	if !w.IsVisible(13, 6) {
		t.Error("(13,6) is unobstructed and should be lit")
	}
}

func TestUpdateVisibility_ExploredPersists(t *testing.T) {
	w := newTestWorld(30, 21)
	UpdateVisibility(w, domain.Position{X: 5, Y: 10}, domain.VisionRadius)

	if !w.TileAt(8, 10).Explored {
		t.Fatal("(8,10) should be explored from the first position")
	}

	UpdateVisibility(w, domain.Position{X: 24, Y: 10}, domain.VisionRadius)

	if w.IsVisible(8, 10) {
		t.Error("(8,10) should drop out of sight after moving away")
	}
	if !w.TileAt(8, 10).Explored {
		t.Error("(8,10) should stay explored after moving away")
	}
	if !w.IsVisible(27, 10) {
		t.Error("(27,10) should be lit from the new position")
	}
}

func TestUpdateVisibility_ZeroRadiusIsBlind(t *testing.T) {
	w := newTestWorld(9, 9)
	UpdateVisibility(w, domain.Position{X: 4, Y: 4}, 0)

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if w.IsVisible(x, y) {
				t.Fatalf("(%d,%d) lit with zero radius", x, y)
			}
		}
	}
}
