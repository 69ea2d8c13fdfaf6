package render

// Image is a source image ready for embedding. Data holds the encoded file
// exactly as read from disk.
type Image struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	Data      []byte `json:"-"`
	MIME      string `json:"mime"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
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
