// Package layout decides how a sequence of images is split across pages.
//
// # Overview
//
// The optimizer works on aspect ratios only. Every image contributes its
// height relative to a unit page width, and a page is "good" when the summed
// height of its images is close to the page's relative height (usable height
// divided by usable width).
//
// The computation has two stages:
//
//  1. [Aggregate] collapses images into [Block] values. Consecutive images
//     whose page break is disabled are glued to the next image and placed as
//     one unit.
//  2. [Partition] and [PartitionWithLimit] run a dynamic program over the
//     blocks and return the number of original images on each page.
//
// # Cost Models
//
// [PageCost] scores one candidate page. By default it measures the fraction
// of the page left blank (or the fraction the content overflows). With
// [Config.MinimizeHeightDifference] it measures the relative height deviation
// instead. Exceeding [Config.MaxScaling] adds [ScalingPenalty], which makes a
// page effectively infeasible without making the search fail.
//
// Page costs are aggregated either as a sum or, with
// [Config.OptimizeWorstPage], as the maximum over all pages.
//
// # Page Limit
//
// When [Config.PageLimit] is set and the unconstrained optimum uses more
// pages, a second search finds the best layout with exactly PageLimit pages.
// That search ignores MaxScaling: fitting into fewer pages may require
// arbitrary downscaling.
//
// # Usage
//
//	pages := layout.Layout(images, 297.0/210.0, layout.Config{PageLimit: 4})
//	for _, group := range layout.GroupByPage(images, pages) {
//	    // render group on one page
//	}
//
// All functions are pure: identical inputs always produce identical outputs.
package layout
