package pricing

import "strings"

// deltaExclusionOffset is subtracted when the winning supplier matches the
// configured exclusion marker.
const deltaExclusionOffset = 30

// Amplification thresholds, checked highest first. Tuned business
// heuristics preserved as-is.
const (
	deltaAmplifyHigh = 200
	deltaAmplifyMid  = 150
	deltaAmplifyLow  = 100
)

// AdjustedDelta computes the margin emitted as the delta metafield:
// final price minus wholesale, with the supplier exclusion offset applied
// before tier amplification.
func AdjustedDelta(finalPrice, wholesalePrice float64, supplierName, exclusionMarker string) float64 {
	delta := finalPrice - wholesalePrice

	if exclusionMarker != "" && strings.Contains(supplierName, exclusionMarker) {
		delta -= deltaExclusionOffset
	}

	switch {
	case delta >= deltaAmplifyHigh:
		delta *= 1.2
	case delta >= deltaAmplifyMid:
		delta *= 1.15
	case delta >= deltaAmplifyLow:
		delta *= 1.1
	}

	return delta
}
