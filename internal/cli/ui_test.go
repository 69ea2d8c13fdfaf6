package cli

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		images, pages int
		want          string
	}{
		{1, 1, "Print 1 image on 1 page"},
		{4, 2, "Print 4 images on 2 pages"},
		{0, 0, "Print 0 images on 0 pages"},
	}
	for _, tt := range tests {
		if got := summary(tt.images, tt.pages); got != tt.want {
			t.Errorf("summary(%d, %d) = %q, want %q", tt.images, tt.pages, got, tt.want)
		}
	}
}

func TestPageTable(t *testing.T) {
	out := pageTable([]string{"a.png", "b.png", "c.png"}, []int{2, 1})

	for _, want := range []string{"Page", "a.png, b.png", "c.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "b.png, c.png") {
		t.Errorf("table groups images across pages:\n%s", out)
	}
}

func TestPageTableShortNames(t *testing.T) {
	// More page slots than names must not panic.
	out := pageTable([]string{"a.png"}, []int{2, 1})
	if !strings.Contains(out, "a.png") {
		t.Errorf("table missing a.png:\n%s", out)
	}
}
