package layout

import "math"

// ScalingPenalty is added to the cost of a page whose content would have to
// be shrunk by more than the configured maximum. It dominates any regular
// page cost, so such pages are only chosen when nothing else is possible.
const ScalingPenalty = 1_000_000

// PageCost returns the badness of placing content of the given relative
// height on a page of relative height pageHeight. pageHeight must be
// positive.
//
// The default cost is the fraction of the page left blank, or the fraction of
// the content that does not fit when it is too large. With
// minimizeHeightDifference the cost is |pageHeight-height|/pageHeight, which
// penalizes downscaled content more strongly. maxScaling of zero disables the
// scaling penalty.
func PageCost(height, pageHeight, maxScaling float64, minimizeHeightDifference bool) float64 {
	tooLarge := height > pageHeight

	var scalingCost float64
	if tooLarge && maxScaling > 0 && height/pageHeight > maxScaling {
		scalingCost = ScalingPenalty
	}

	if minimizeHeightDifference {
		return math.Abs(pageHeight-height)/pageHeight + scalingCost
	}
	if tooLarge {
		return 1 - pageHeight/height + scalingCost
	}
	return 1 - height/pageHeight + scalingCost
}

// combine aggregates the cost of the last page with the cost of the layout
// before it.
func (c Config) combine(last, prefix float64) float64 {
	if c.OptimizeWorstPage {
		return math.Max(last, prefix)
	}
	return last + prefix
}
