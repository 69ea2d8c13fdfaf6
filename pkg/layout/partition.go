package layout

import "math"

// cell is one dynamic-programming entry: the best cost for a prefix and the
// number of blocks on its last page.
type cell struct {
	cost   float64
	blocks int
}

// Partition returns the optimal number of images per page, ignoring
// Config.PageLimit. pageHeight is the relative page height and must be
// positive.
//
// The search is O(n²) in the number of blocks. Among layouts of equal cost
// the one with the shortest last page wins, applied recursively.
func Partition(blocks []Block, pageHeight float64, cfg Config) []int {
	if len(blocks) == 0 {
		return []int{}
	}

	// dp[i]: best layout of blocks[0..i].
	dp := make([]cell, len(blocks))
	dp[0] = cell{
		cost:   PageCost(blocks[0].Height, pageHeight, cfg.MaxScaling, cfg.MinimizeHeightDifference),
		blocks: 1,
	}
	for i := 1; i < len(blocks); i++ {
		dp[i] = cell{cost: math.Inf(1)}
		var height float64
		for j := i; j >= 0; j-- {
			height += blocks[j].Height
			last := PageCost(height, pageHeight, cfg.MaxScaling, cfg.MinimizeHeightDifference)
			var prefix float64
			if j > 0 {
				prefix = dp[j-1].cost
			}
			if cost := cfg.combine(last, prefix); cost < dp[i].cost {
				dp[i] = cell{cost: cost, blocks: i - j + 1}
			}
		}
	}

	pages := []int{}
	for i := len(dp) - 1; i >= 0; i -= dp[i].blocks {
		pages = append(pages, ImageTotal(blocks[i-dp[i].blocks+1:i+1]))
	}
	reverse(pages)
	return pages
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
