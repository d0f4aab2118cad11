// Package pricing computes resale price bounds, resolves the final price
// against competitor data, and derives the margin metafield value.
package pricing

import "fmt"

// Tier names a markup strategy. Membership is declared per supplier in the
// run configuration; it is never inferred from offer data.
type Tier string

// Strategy tiers.
const (
	TierAggressive Tier = "aggressive"
	TierPremium    Tier = "premium"
	TierMiddle     Tier = "middle"
)

// markup holds the six constants of one tier, applied as
// bound = wholesale*mult + add.
type markup struct {
	MinMult, MinAdd float64
	MidMult, MidAdd float64
	MaxMult, MaxAdd float64
}

// Tuned per-tier constants. These are business heuristics carried over
// as-is; do not adjust without product sign-off.
var tierConstants = map[Tier]markup{
	TierAggressive: {MinMult: 1.05, MinAdd: 25, MidMult: 1.10, MidAdd: 50, MaxMult: 1.15, MaxAdd: 75},
	TierPremium:    {MinMult: 1.10, MinAdd: 50, MidMult: 1.20, MidAdd: 100, MaxMult: 1.30, MaxAdd: 150},
	TierMiddle:     {MinMult: 1.07, MinAdd: 50, MidMult: 1.15, MidAdd: 100, MaxMult: 1.20, MaxAdd: 150},
}

// StrategyTable maps supplier identities to tiers. Suppliers absent from
// the table (and the empty identity) use the middle tier.
type StrategyTable struct {
	membership map[string]Tier
}

// NewStrategyTable builds the tier membership table and verifies that every
// tier's constants are monotonic, so min <= mid <= max holds for any
// wholesale price before the uniform stock adjustment is applied.
func NewStrategyTable(aggressive, premium []string) (*StrategyTable, error) {
	for tier, m := range tierConstants {
		if m.MinMult > m.MidMult || m.MidMult > m.MaxMult {
			return nil, fmt.Errorf("tier %s multipliers are not monotonic", tier)
		}
		if m.MinAdd > m.MidAdd || m.MidAdd > m.MaxAdd {
			return nil, fmt.Errorf("tier %s addends are not monotonic", tier)
		}
	}

	membership := make(map[string]Tier, len(aggressive)+len(premium))
	for _, name := range aggressive {
		membership[name] = TierAggressive
	}
	for _, name := range premium {
		if existing, ok := membership[name]; ok && existing != TierPremium {
			return nil, fmt.Errorf("supplier %q assigned to both %s and %s tiers", name, existing, TierPremium)
		}
		membership[name] = TierPremium
	}

	return &StrategyTable{membership: membership}, nil
}

// TierFor returns the tier for a supplier identity, defaulting to middle.
func (t *StrategyTable) TierFor(supplierName string) Tier {
	if tier, ok := t.membership[supplierName]; ok {
		return tier
	}
	return TierMiddle
}
