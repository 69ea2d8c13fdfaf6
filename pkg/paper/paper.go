// Package paper describes physical page sizes and the printable area left
// inside a margin. All lengths are in millimetres.
package paper

import (
	"slices"
	"strings"

	"github.com/matzehuels/sliced/pkg/errors"
)

// Size is a portrait paper format.
type Size struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width_mm"`
	Height float64 `json:"height_mm"`
}

// Supported paper sizes.
var (
	A3     = Size{Name: "a3", Width: 297, Height: 420}
	A4     = Size{Name: "a4", Width: 210, Height: 297}
	A5     = Size{Name: "a5", Width: 148, Height: 210}
	Letter = Size{Name: "letter", Width: 215.9, Height: 279.4}
	Legal  = Size{Name: "legal", Width: 215.9, Height: 355.6}
)

// Default is the paper used when none is given.
var Default = A4

var sizes = []Size{A3, A4, A5, Letter, Legal}

// Names returns the names accepted by Lookup.
func Names() []string {
	names := make([]string, len(sizes))
	for i, s := range sizes {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a paper size by case-insensitive name.
func Lookup(name string) (Size, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	i := slices.IndexFunc(sizes, func(s Size) bool { return s.Name == name })
	if i < 0 {
		return Size{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown paper size %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return sizes[i], nil
}

// Usable returns the printable width and height inside margin on all sides.
func (s Size) Usable(margin float64) (width, height float64) {
	return s.Width - 2*margin, s.Height - 2*margin
}

// RelativeHeight returns the printable height measured in printable widths.
// Image heights are expressed in the same unit once every image is scaled to
// the page width, so this is the page height the optimizer works with.
func (s Size) RelativeHeight(margin float64) (float64, error) {
	if margin < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative")
	}
	w, h := s.Usable(margin)
	if w <= 0 || h <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig,
			"margin %.1fmm leaves no printable area on %s", margin, s.Name)
	}
	return h / w, nil
}
