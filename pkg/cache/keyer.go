package cache

// Keyer derives cache keys for the two cached stages of the pipeline.
type Keyer interface {
	// LayoutKey returns the key for a page assignment computed from the
	// images identified by imagesHash.
	LayoutKey(imagesHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for a rendered document of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a page assignment.
type LayoutKeyOpts struct {
	PageHeight               float64 `json:"page_height"`
	MaxScaling               float64 `json:"max_scaling"`
	PageLimit                int     `json:"page_limit"`
	OptimizeWorstPage        bool    `json:"optimize_worst_page"`
	MinimizeHeightDifference bool    `json:"minimize_height_difference"`
}

// ArtifactKeyOpts holds every option that changes rendered output.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Paper   string  `json:"paper"`
	Margin  float64 `json:"margin"`
	Padding bool    `json:"padding"`
	Title   string  `json:"title"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(imagesHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", imagesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
