package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/price-agent/internal/types"
)

func newTable(t *testing.T) *StrategyTable {
	t.Helper()
	table, err := NewStrategyTable([]string{"cheap-co"}, []string{"premium-co"})
	require.NoError(t, err)
	return table
}

func TestNewStrategyTable_RejectsDualMembership(t *testing.T) {
	_, err := NewStrategyTable([]string{"both"}, []string{"both"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestTierFor(t *testing.T) {
	table := newTable(t)

	assert.Equal(t, TierAggressive, table.TierFor("cheap-co"))
	assert.Equal(t, TierPremium, table.TierFor("premium-co"))
	assert.Equal(t, TierMiddle, table.TierFor("anyone-else"))
	assert.Equal(t, TierMiddle, table.TierFor(""))
}

func TestStockFactor_ExactValues(t *testing.T) {
	assert.InDelta(t, 1.02, stockFactor(1), 1e-9)
	assert.InDelta(t, 1.00, stockFactor(2), 1e-9)
	assert.InDelta(t, 0.98, stockFactor(3), 1e-9)
	assert.InDelta(t, 0.97, stockFactor(4), 1e-9)
	assert.InDelta(t, 1.00, stockFactor(0), 1e-9)
	assert.InDelta(t, 0.97, stockFactor(50), 1e-9)
}

func TestPricePoints_MiddleTierConstants(t *testing.T) {
	table := newTable(t)
	offer := &types.SupplierOffer{SourceName: "unlisted", WholesalePrice: 100, InStock: 2}

	points := table.PricePoints(offer)
	require.NotNil(t, points)
	assert.InDelta(t, 157.0, points.Min, 1e-9) // 100*1.07 + 50
	assert.InDelta(t, 215.0, points.Mid, 1e-9) // 100*1.15 + 100
	assert.InDelta(t, 270.0, points.Max, 1e-9) // 100*1.20 + 150
}

func TestPricePoints_StockAdjustmentApplied(t *testing.T) {
	table := newTable(t)
	offer := &types.SupplierOffer{SourceName: "unlisted", WholesalePrice: 100, InStock: 1}

	points := table.PricePoints(offer)
	require.NotNil(t, points)
	assert.InDelta(t, 160.14, points.Min, 1e-9) // 157 * 1.02
	assert.InDelta(t, 219.30, points.Mid, 1e-9) // 215 * 1.02
	assert.InDelta(t, 275.40, points.Max, 1e-9) // 270 * 1.02
}

func TestPricePoints_OrderingHoldsForAllTierStockCombinations(t *testing.T) {
	table := newTable(t)
	suppliers := []string{"cheap-co", "premium-co", "unlisted"}
	stocks := []int{0, 1, 2, 3, 4, 10}
	wholesales := []float64{1, 42.5, 100, 999.99, 12000}

	for _, supplier := range suppliers {
		for _, stock := range stocks {
			for _, wholesale := range wholesales {
				offer := &types.SupplierOffer{SourceName: supplier, WholesalePrice: wholesale, InStock: stock}
				points := table.PricePoints(offer)
				require.NotNil(t, points)
				assert.LessOrEqual(t, points.Min, points.Mid,
					"supplier=%s stock=%d wholesale=%v", supplier, stock, wholesale)
				assert.LessOrEqual(t, points.Mid, points.Max,
					"supplier=%s stock=%d wholesale=%v", supplier, stock, wholesale)
			}
		}
	}
}

func TestPricePoints_NilWithoutBestOffer(t *testing.T) {
	table := newTable(t)
	assert.Nil(t, table.PricePoints(nil))
	assert.Nil(t, table.PricePoints(&types.SupplierOffer{WholesalePrice: 0}))
}

func floatPtr(v float64) *float64 { return &v }

func TestResolveFinalPrice_DecisionTable(t *testing.T) {
	points := &types.PricePoints{Min: 100, Mid: 120, Max: 150}
	offer := &types.SupplierOffer{WholesalePrice: 80}

	// Supplier retail floor always wins, competitor data ignored.
	withRetail := &types.SupplierOffer{WholesalePrice: 80, RetailPrice: 500}
	got := ResolveFinalPrice(withRetail, types.CompetitorObservation{Price: floatPtr(90)}, nil, points)
	require.NotNil(t, got)
	assert.InDelta(t, 500.0, *got, 1e-9)

	// No market signal at all falls back to max.
	got = ResolveFinalPrice(offer, types.CompetitorObservation{}, nil, points)
	require.NotNil(t, got)
	assert.InDelta(t, 150.0, *got, 1e-9)

	// Steep undercut pulls back to mid, not min.
	got = ResolveFinalPrice(offer, types.CompetitorObservation{Price: floatPtr(90)}, nil, points)
	require.NotNil(t, got)
	assert.InDelta(t, 120.0, *got, 1e-9)

	// Competitor above max clamps to max.
	got = ResolveFinalPrice(offer, types.CompetitorObservation{Price: floatPtr(200)}, nil, points)
	require.NotNil(t, got)
	assert.InDelta(t, 150.0, *got, 1e-9)

	// In-range competitor price is matched.
	got = ResolveFinalPrice(offer, types.CompetitorObservation{Price: floatPtr(110)}, nil, points)
	require.NotNil(t, got)
	assert.InDelta(t, 110.0, *got, 1e-9)
}

func TestResolveFinalPrice_ExplicitFloorCombines(t *testing.T) {
	points := &types.PricePoints{Min: 100, Mid: 120, Max: 150}
	offer := &types.SupplierOffer{WholesalePrice: 80}

	// Explicit floor alone counts as a market signal.
	got := ResolveFinalPrice(offer, types.CompetitorObservation{}, floatPtr(130), points)
	require.NotNil(t, got)
	assert.InDelta(t, 130.0, *got, 1e-9)

	// When both are present the lower one is observed.
	got = ResolveFinalPrice(offer, types.CompetitorObservation{Price: floatPtr(140)}, floatPtr(105), points)
	require.NotNil(t, got)
	assert.InDelta(t, 105.0, *got, 1e-9)
}

func TestResolveFinalPrice_NilWithoutBounds(t *testing.T) {
	got := ResolveFinalPrice(nil, types.CompetitorObservation{}, nil, nil)
	assert.Nil(t, got)
}

func TestAdjustedDelta_Amplification(t *testing.T) {
	// wholesale=100, final=310 => base 210 => >=200 amplifies by 1.2
	delta := AdjustedDelta(310, 100, "anyone", "")
	assert.InDelta(t, 252.0, delta, 1e-6)

	delta = AdjustedDelta(260, 100, "anyone", "")
	assert.InDelta(t, 184.0, delta, 1e-6) // 160 * 1.15

	delta = AdjustedDelta(210, 100, "anyone", "")
	assert.InDelta(t, 121.0, delta, 1e-6) // 110 * 1.1

	delta = AdjustedDelta(150, 100, "anyone", "")
	assert.InDelta(t, 50.0, delta, 1e-6) // below every threshold
}

func TestAdjustedDelta_ExclusionAppliedBeforeAmplification(t *testing.T) {
	// base 210, marker subtracts 30 first => 180 => x1.15 = 207,
	// not 210*1.2 - 30 = 222.
	delta := AdjustedDelta(310, 100, "shch-supply", "shch")
	assert.InDelta(t, 207.0, delta, 1e-6)

	// Marker set but supplier does not match: untouched order.
	delta = AdjustedDelta(310, 100, "other", "shch")
	assert.InDelta(t, 252.0, delta, 1e-6)
}
