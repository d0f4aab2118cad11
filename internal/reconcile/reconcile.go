// Package reconcile matches catalog items to aggregated supplier offers and
// selects the best offer per item.
package reconcile

import (
	"strings"

	"github.com/samber/lo"

	"github.com/jonathan/price-agent/internal/types"
)

// offerIndex maps a lowercased part number to the aggregate positions of
// the offers referencing it. Positions keep matches in first-seen aggregate
// order without rescanning the full offer list per item.
type offerIndex map[string][]int

func buildIndex(offers []types.SupplierOffer) offerIndex {
	index := make(offerIndex, len(offers))
	for i, offer := range offers {
		key := strings.ToLower(offer.PartNumber)
		if key == "" {
			continue
		}
		index[key] = append(index[key], i)
	}
	return index
}

// matchPositions returns the aggregate positions of offers matching the
// item's part number or alias, in first-seen order.
func (idx offerIndex) matchPositions(item types.CatalogItem) []int {
	primary := idx[strings.ToLower(item.PartNumber)]
	if item.PartNumber == "" {
		primary = nil
	}

	var alias []int
	if item.AltPartNumber != "" && !strings.EqualFold(item.AltPartNumber, item.PartNumber) {
		alias = idx[strings.ToLower(item.AltPartNumber)]
	}

	if len(alias) == 0 {
		return primary
	}
	if len(primary) == 0 {
		return alias
	}

	// Merge the two position lists so ties still resolve to the offer seen
	// first in the aggregate, regardless of which field it matched.
	merged := make([]int, 0, len(primary)+len(alias))
	p, a := 0, 0
	for p < len(primary) && a < len(alias) {
		if primary[p] < alias[a] {
			merged = append(merged, primary[p])
			p++
		} else {
			merged = append(merged, alias[a])
			a++
		}
	}
	merged = append(merged, primary[p:]...)
	merged = append(merged, alias[a:]...)
	return merged
}

// Merge pairs every catalog item with its matching offers and selects the
// best offer by minimal normalized wholesale price. Items with zero matches
// are kept with an empty offer list and no best offer. Ties keep the
// first-encountered offer.
func Merge(items []types.CatalogItem, offers []types.SupplierOffer) []types.MergedItem {
	index := buildIndex(offers)

	return lo.Map(items, func(item types.CatalogItem, _ int) types.MergedItem {
		positions := index.matchPositions(item)

		matched := make([]types.SupplierOffer, 0, len(positions))
		for _, pos := range positions {
			matched = append(matched, offers[pos])
		}

		merged := types.MergedItem{
			CatalogItem: item,
			Offers:      matched,
		}

		if len(matched) > 0 {
			best := lo.MinBy(matched, func(a, b types.SupplierOffer) bool {
				return a.NormalizedPrice() < b.NormalizedPrice()
			})
			merged.BestOffer = &best
		}

		return merged
	})
}
