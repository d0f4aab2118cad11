package pricing

import "github.com/jonathan/price-agent/internal/types"

// ResolveFinalPrice combines the supplier retail floor, the competitor
// observation, an explicit competitor floor metafield, and the computed
// bounds into one final price. Precedence, first match wins:
//
//  1. a non-zero supplier retail price is authoritative;
//  2. with no market signal at all, fall back to the max bound;
//  3. otherwise clamp the lowest observed competitor price: above max sell
//     at max, below min pull back to mid, in range match the market.
//
// Returns nil when there is no best offer (and therefore no bounds).
func ResolveFinalPrice(offer *types.SupplierOffer, observation types.CompetitorObservation, explicitFloor *float64, points *types.PricePoints) *float64 {
	if offer != nil && offer.RetailPrice > 0 {
		price := offer.RetailPrice
		return &price
	}

	if points == nil {
		return nil
	}

	observed := lowestObserved(observation.Price, explicitFloor)
	if observed == nil {
		max := points.Max
		return &max
	}

	switch {
	case *observed > points.Max:
		price := points.Max
		return &price
	case *observed < points.Min:
		// A steep undercut is not matched outright; pull back to mid.
		price := points.Mid
		return &price
	default:
		price := *observed
		return &price
	}
}

// lowestObserved returns the smaller of the probed competitor price and the
// explicit competitor floor, or whichever is present, or nil.
func lowestObserved(probed, explicit *float64) *float64 {
	switch {
	case probed == nil:
		return explicit
	case explicit == nil:
		return probed
	case *explicit < *probed:
		return explicit
	default:
		return probed
	}
}
