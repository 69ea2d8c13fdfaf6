package project

import "slices"

// Image is one entry of a project. Width and Height are pixel dimensions
// of the source file; only their ratio matters for layout.
type Image struct {
	ID        int    `json:"id"`
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MIME      string `json:"mime,omitempty"`
	AllowWrap bool   `json:"allow_wrap"`
}

// HeightToWidthRatio implements layout.Image.
func (img Image) HeightToWidthRatio() float64 {
	if img.Width == 0 {
		return 0
	}
	return float64(img.Height) / float64(img.Width)
}

// WrapAllowed implements layout.Image.
func (img Image) WrapAllowed() bool { return img.AllowWrap }

// State is the ordered image list plus the next image id.
// Treat it as immutable: actions return new states and never modify the
// Images slice of their input.
type State struct {
	Images  []Image `json:"images"`
	Counter int     `json:"counter"`
}

// Index returns the position of the image with the given id, or -1.
func (s State) Index(id int) int {
	return slices.IndexFunc(s.Images, func(img Image) bool { return img.ID == id })
}

// Len returns the number of images.
func (s State) Len() int { return len(s.Images) }

// withLastWrap returns images with the last entry forced to allow a break.
// images must be a slice owned by the caller.
func withLastWrap(images []Image) []Image {
	if len(images) > 0 {
		images[len(images)-1].AllowWrap = true
	}
	return images
}
