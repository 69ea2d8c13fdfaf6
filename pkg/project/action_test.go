package project

import (
	"slices"
	"testing"
)

func img(w, h int) Image { return Image{Path: "p.png", Width: w, Height: h} }

// build applies AddImage n times.
func build(n int) State {
	s := State{}
	for range n {
		s = AddImage(img(100, 50))(s)
	}
	return s
}

func ids(s State) []int {
	out := make([]int, len(s.Images))
	for i, im := range s.Images {
		out[i] = im.ID
	}
	return out
}

func wraps(s State) []bool {
	out := make([]bool, len(s.Images))
	for i, im := range s.Images {
		out[i] = im.AllowWrap
	}
	return out
}

func TestAddImage(t *testing.T) {
	s := build(3)
	if got := ids(s); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("ids = %v, want [0 1 2]", got)
	}
	if s.Counter != 3 {
		t.Errorf("Counter = %d, want 3", s.Counter)
	}
	if !slices.Equal(wraps(s), []bool{true, true, true}) {
		t.Errorf("new images should allow wrap: %v", wraps(s))
	}
}

func TestMoveImage(t *testing.T) {
	tests := []struct {
		name string
		id   int
		by   int
		want []int
	}{
		{"up", 2, -1, []int{0, 2, 1, 3}},
		{"down", 0, 1, []int{1, 0, 2, 3}},
		{"clamp front", 2, -10, []int{2, 0, 1, 3}},
		{"clamp back", 1, 10, []int{0, 2, 3, 1}},
		{"zero", 1, 0, []int{0, 1, 2, 3}},
		{"unknown id", 42, 1, []int{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MoveImage(tt.id, tt.by)(build(4))
			if got := ids(s); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastImageAlwaysWraps(t *testing.T) {
	s := build(3)
	s = SetAllowWrap(1, false)(s)
	s = SetAllowWrap(2, false)(s)
	if !slices.Equal(wraps(s), []bool{true, false, true}) {
		t.Fatalf("last image must keep wrap: %v", wraps(s))
	}

	// moving the glued image to the end turns its break back on
	s = MoveImage(1, 5)(s)
	if got := ids(s); !slices.Equal(got, []int{0, 2, 1}) {
		t.Fatalf("ids = %v", got)
	}
	if !slices.Equal(wraps(s), []bool{true, true, true}) {
		t.Errorf("wraps after move = %v", wraps(s))
	}

	// removing the last image promotes the new last image
	s = SetAllowWrap(2, false)(s)
	s = RemoveImage(1)(s)
	if !slices.Equal(wraps(s), []bool{true, true}) {
		t.Errorf("wraps after remove = %v", wraps(s))
	}
}

func TestRemoveImage(t *testing.T) {
	s := RemoveImage(1)(build(3))
	if got := ids(s); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("ids = %v, want [0 2]", got)
	}
	if s.Counter != 3 {
		t.Errorf("Counter = %d, want 3", s.Counter)
	}
	if got := RemoveImage(9)(s); !slices.Equal(ids(got), ids(s)) {
		t.Error("removing an unknown id should not change the state")
	}
}

func TestClearImages(t *testing.T) {
	s := ClearImages()(build(3))
	if s.Len() != 0 || s.Counter != 3 {
		t.Errorf("after clear: len %d counter %d", s.Len(), s.Counter)
	}
	s = AddImage(img(1, 1))(s)
	if s.Images[0].ID != 3 {
		t.Errorf("ids must not be reused, got %d", s.Images[0].ID)
	}
}

func TestLoadNormalizes(t *testing.T) {
	in := State{Images: []Image{{ID: 4, AllowWrap: false}}, Counter: 5}
	s := Load(in)(build(2))
	if s.Counter != 5 || !s.Images[0].AllowWrap {
		t.Errorf("Load = %+v", s)
	}
	if in.Images[0].AllowWrap {
		t.Error("Load must not modify its argument")
	}
}

func TestActionsArePure(t *testing.T) {
	s := build(3)
	s = SetAllowWrap(0, false)(s)
	before := slices.Clone(s.Images)

	actions := []Action{
		AddImage(img(1, 2)),
		RemoveImage(1),
		MoveImage(0, 2),
		SetAllowWrap(0, true),
		ClearImages(),
		Noop(),
	}
	for _, a := range actions {
		_ = a(s)
		if !slices.Equal(s.Images, before) {
			t.Fatalf("action modified its input: %v", s.Images)
		}
	}
}

func TestImageRatio(t *testing.T) {
	if got := img(200, 50).HeightToWidthRatio(); got != 0.25 {
		t.Errorf("ratio = %v, want 0.25", got)
	}
	if got := (Image{}).HeightToWidthRatio(); got != 0 {
		t.Errorf("zero width ratio = %v", got)
	}
}
