package types

// MergedItem pairs a catalog item with the supplier offers matched to it.
// BestOffer is nil when no offer matched; when non-nil it is always an
// element of Offers.
type MergedItem struct {
	CatalogItem

	Offers    []SupplierOffer `json:"offers"`
	BestOffer *SupplierOffer  `json:"best_offer,omitempty"`
}

// BestSupplierName returns the source name of the winning offer, or "" when
// no offer matched.
func (m MergedItem) BestSupplierName() string {
	if m.BestOffer == nil {
		return ""
	}
	return m.BestOffer.SourceName
}

// PricePoints holds the resale-price bounds derived from the best offer.
// Invariant: Min <= Mid <= Max.
type PricePoints struct {
	Min float64 `json:"min"`
	Mid float64 `json:"mid"`
	Max float64 `json:"max"`
}

// CompetitorObservation is the outcome of probing a competitor price source.
// A nil Price means no usable price was found, not zero.
type CompetitorObservation struct {
	Price *float64 `json:"price"`
}

// ResolvedItem is a merged item carried through pricing: bounds, the
// competitor observation, and the single resolved final price.
// FinalPrice is nil only when no best offer exists.
type ResolvedItem struct {
	MergedItem

	// Points is nil when there is no best offer to derive bounds from.
	Points     *PricePoints          `json:"points,omitempty"`
	Competitor CompetitorObservation `json:"competitor"`
	FinalPrice *float64              `json:"final_price,omitempty"`
}
