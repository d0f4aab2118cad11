// Package supplier defines the adapter contract for wholesale price feeds
// and aggregates canonical offers across all configured sources.
package supplier

import (
	"context"
	"fmt"

	"github.com/jonathan/price-agent/internal/types"
)

// FetchFunc is the adapter contract: fetch one supplier's feed and return
// canonical offers. Adapters enforce their own minimum-count sanity
// threshold and return an error rather than a suspiciously small result.
type FetchFunc func(ctx context.Context) ([]types.SupplierOffer, error)

// Source is one registered supplier feed.
type Source struct {
	// Name is the supplier's declared identity; it keys the pricing tier
	// table and is stamped onto every offer.
	Name string

	// NormalizationFactor corrects the wholesale price for unit/currency/
	// quality differences before cross-supplier comparison. Zero means 1.
	NormalizationFactor float64

	Fetch FetchFunc
}

// Aggregate fetches every source in order and returns the combined offer
// list, each offer tagged with its source name and normalization factor.
// Any adapter failure aborts the whole run: a partial catalog update risks
// mispricing items silently.
//
// Sources are fetched sequentially so the aggregate order is deterministic;
// best-offer tie-breaking downstream depends on first-seen order.
func Aggregate(ctx context.Context, sources []Source) ([]types.SupplierOffer, error) {
	var all []types.SupplierOffer

	for _, source := range sources {
		offers, err := source.Fetch(ctx)
		if err != nil {
			return nil, &AdapterError{Source: source.Name, Cause: err}
		}

		factor := source.NormalizationFactor
		if factor == 0 {
			factor = 1
		}

		for _, offer := range offers {
			offer.SourceName = source.Name
			offer.NormalizationFactor = factor
			all = append(all, offer)
		}
	}

	return all, nil
}

// GuardMinimumCount is the data-quality guard adapters use before
// returning: a below-threshold result count indicates a partial or corrupt
// feed and is treated as a failure.
func GuardMinimumCount(source string, offers []types.SupplierOffer, minimum int) error {
	if len(offers) < minimum {
		return fmt.Errorf("less than %d offers found from %s (got %d)", minimum, source, len(offers))
	}
	return nil
}
