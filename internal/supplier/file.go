package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/price-agent/internal/types"
)

// FileSourceConfig declares one JSON feed file as a supplier source.
type FileSourceConfig struct {
	// Name is the supplier identity stamped onto every offer.
	Name string

	// Path points at a JSON array of offers.
	Path string

	// NormalizationFactor corrects the wholesale price for comparison.
	// Zero means 1.
	NormalizationFactor float64

	// MinCount is the data-quality floor: fewer offers than this is
	// treated as a truncated feed and fails the fetch. Zero disables
	// the guard.
	MinCount int
}

// FileSource builds a Source that reads offers from a local JSON file.
// External feed formats are converted to this shape out of band; the
// pipeline only consumes the canonical offer list.
func FileSource(cfg FileSourceConfig) Source {
	return Source{
		Name:                cfg.Name,
		NormalizationFactor: cfg.NormalizationFactor,
		Fetch: func(_ context.Context) ([]types.SupplierOffer, error) {
			data, err := os.ReadFile(cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to read offers file %s: %w", cfg.Path, err)
			}

			var offers []types.SupplierOffer
			if err := json.Unmarshal(data, &offers); err != nil {
				return nil, fmt.Errorf("failed to parse offers file %s: %w", cfg.Path, err)
			}

			if cfg.MinCount > 0 {
				if err := GuardMinimumCount(cfg.Name, offers, cfg.MinCount); err != nil {
					return nil, err
				}
			}

			return offers, nil
		},
	}
}
