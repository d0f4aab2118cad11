package pricing

import (
	"math"

	"github.com/jonathan/price-agent/internal/types"
)

// round2 rounds to the reporting unit (two decimals).
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// stockFactor is the uniform adjustment applied to all three bounds based
// on the winning offer's stock level.
func stockFactor(inStock int) float64 {
	switch {
	case inStock == 1:
		return 1.02
	case inStock == 3:
		return 0.98
	case inStock > 3:
		return 0.97
	default: // 0 or 2
		return 1.00
	}
}

// PricePoints derives the (min, mid, max) resale bounds from the best
// offer. Returns nil when there is no best offer or it carries no usable
// wholesale price, matching the "all bounds undefined" case.
func (t *StrategyTable) PricePoints(offer *types.SupplierOffer) *types.PricePoints {
	if offer == nil || offer.WholesalePrice <= 0 {
		return nil
	}

	m := tierConstants[t.TierFor(offer.SourceName)]
	wholesale := offer.WholesalePrice

	points := types.PricePoints{
		Min: round2(wholesale*m.MinMult + m.MinAdd),
		Mid: round2(wholesale*m.MidMult + m.MidAdd),
		Max: round2(wholesale*m.MaxMult + m.MaxAdd),
	}

	factor := stockFactor(offer.InStock)
	points.Min = round2(points.Min * factor)
	points.Mid = round2(points.Mid * factor)
	points.Max = round2(points.Max * factor)

	return &points
}
