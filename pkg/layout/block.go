package layout

// Image is the view of an input image the optimizer needs.
type Image interface {
	// HeightToWidthRatio is the image height divided by its width.
	HeightToWidthRatio() float64
	// WrapAllowed reports whether a new page may start after this image.
	WrapAllowed() bool
}

// Block is the unit of placement: one or more consecutive images that must
// stay on the same page.
type Block struct {
	Height     float64 `json:"height"`
	ImageCount int     `json:"image_count"`
}

// Aggregate merges images into blocks. A block ends at every image that
// allows wrapping; its height is the summed ratio of the images it covers.
//
// The last image must allow wrapping. Trailing images after the last
// wrap-allowed image are not part of any block. Callers keep this invariant
// when they mutate the image sequence (see package project).
func Aggregate[I Image](images []I) []Block {
	var (
		blocks []Block
		height float64
		count  int
	)
	for _, img := range images {
		height += img.HeightToWidthRatio()
		count++
		if img.WrapAllowed() {
			blocks = append(blocks, Block{Height: height, ImageCount: count})
			height, count = 0, 0
		}
	}
	return blocks
}

// ImageTotal returns the number of original images the blocks represent.
func ImageTotal(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += b.ImageCount
	}
	return n
}

// Ratio is a plain [Image] value.
type Ratio struct {
	Height float64 `json:"ratio"`
	Wrap   bool    `json:"allow_wrap"`
}

// HeightToWidthRatio implements [Image].
func (r Ratio) HeightToWidthRatio() float64 { return r.Height }

// WrapAllowed implements [Image].
func (r Ratio) WrapAllowed() bool { return r.Wrap }
