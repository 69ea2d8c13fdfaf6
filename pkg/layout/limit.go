package layout

import "math"

// PartitionWithLimit returns the optimal number of images per page using at
// most cfg.PageLimit pages.
//
// If the unconstrained optimum from [Partition] already fits, it is returned
// unchanged; the limit never adds pages. Otherwise the result has exactly
// PageLimit pages and is found by an O(n²·m) search over (prefix, page
// count). That search ignores cfg.MaxScaling.
func PartitionWithLimit(blocks []Block, pageHeight float64, cfg Config) []int {
	pages := Partition(blocks, pageHeight, cfg)
	if cfg.PageLimit <= 0 || len(pages) <= cfg.PageLimit {
		return pages
	}

	n, m := len(blocks), cfg.PageLimit
	cost := func(h float64) float64 {
		return PageCost(h, pageHeight, 0, cfg.MinimizeHeightDifference)
	}

	// dp[i*m+k]: best layout of blocks[0..i] on exactly k+1 pages.
	dp := make([]cell, n*m)
	for i := range dp {
		dp[i] = cell{cost: math.Inf(1)}
	}
	at := func(i, k int) *cell { return &dp[i*m+k] }

	var height float64
	for i := 0; i < n; i++ {
		height += blocks[i].Height
		*at(i, 0) = cell{cost: cost(height), blocks: i + 1}
	}

	for i := 1; i < n; i++ {
		height = 0
		for j := i; j >= 1; j-- {
			height += blocks[j].Height
			last := cost(height)
			for k := 1; k < m && k <= i; k++ {
				prev := at(j-1, k-1)
				if c := cfg.combine(last, prev.cost); c < at(i, k).cost {
					*at(i, k) = cell{cost: c, blocks: i - j + 1}
				}
			}
		}
	}

	pages = pages[:0]
	for i, k := n-1, m-1; i >= 0 && k >= 0; k-- {
		run := at(i, k).blocks
		pages = append(pages, ImageTotal(blocks[i-run+1:i+1]))
		i -= run
	}
	reverse(pages)
	return pages
}

// Layout aggregates images into blocks and partitions them, honoring the
// page limit. The result holds the number of images on each page in order.
func Layout[I Image](images []I, pageHeight float64, cfg Config) []int {
	return PartitionWithLimit(Aggregate(images), pageHeight, cfg.Clamp())
}

// GroupByPage slices items into consecutive groups of the given sizes.
// Sizes beyond the available items are truncated.
func GroupByPage[T any](items []T, pages []int) [][]T {
	groups := make([][]T, 0, len(pages))
	start := 0
	for _, n := range pages {
		end := min(start+n, len(items))
		groups = append(groups, items[start:end])
		start = end
	}
	return groups
}
