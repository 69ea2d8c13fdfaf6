package layout

// Config selects the cost model and constraints of a layout search.
type Config struct {
	// MaxScaling is the largest allowed ratio of content height to page
	// height before a page is penalized. Zero means unlimited.
	MaxScaling float64 `json:"max_scaling,omitempty" toml:"max_scaling"`

	// PageLimit is the maximum number of pages. Zero means unlimited.
	PageLimit int `json:"page_limit,omitempty" toml:"page_limit"`

	// OptimizeWorstPage minimizes the cost of the worst page instead of the
	// sum over all pages.
	OptimizeWorstPage bool `json:"optimize_worst_page,omitempty" toml:"optimize_worst_page"`

	// MinimizeHeightDifference scores pages by relative height deviation
	// instead of blank space.
	MinimizeHeightDifference bool `json:"minimize_height_difference,omitempty" toml:"minimize_height_difference"`
}

// Clamp returns c with negative limits replaced by zero (unlimited).
func (c Config) Clamp() Config {
	if c.MaxScaling < 0 {
		c.MaxScaling = 0
	}
	if c.PageLimit < 0 {
		c.PageLimit = 0
	}
	return c
}
