package types

// SupplierOffer is one supplier's stated wholesale terms for a part number.
// Many offers may reference the same part number across sources.
type SupplierOffer struct {
	PartNumber     string  `json:"part_number"`
	Name           string  `json:"name"`
	Warranty       string  `json:"warranty"`
	InStock        int     `json:"instock"`
	WholesalePrice float64 `json:"wholesale_price"`

	// RetailPrice is a supplier-mandated retail floor. Zero means unset.
	RetailPrice float64 `json:"retail_price,omitempty"`

	// SourceName and NormalizationFactor are stamped by the aggregator.
	SourceName          string  `json:"source_name,omitempty"`
	NormalizationFactor float64 `json:"normalization_factor,omitempty"`
}

// NormalizedPrice returns the wholesale price corrected for cross-supplier
// comparison. A zero factor is treated as 1 so raw adapter output compares
// sanely before the aggregator stamps it.
func (o SupplierOffer) NormalizedPrice() float64 {
	factor := o.NormalizationFactor
	if factor == 0 {
		factor = 1
	}
	return o.WholesalePrice * factor
}
