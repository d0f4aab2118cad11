package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/price-agent/internal/types"
)

func resolvedItem() types.ResolvedItem {
	final := 210.0
	return types.ResolvedItem{
		MergedItem: types.MergedItem{
			CatalogItem: types.CatalogItem{
				ID:         "gid://shopify/Product/1",
				Title:      "Compressor X",
				PartNumber: "ABC-1",
				SKU:        "SKU-1",
			},
			BestOffer: &types.SupplierOffer{
				SourceName:     "acme",
				WholesalePrice: 100,
				InStock:        2,
				Warranty:       "12m",
			},
		},
		FinalPrice: &final,
	}
}

func TestBuildBulkLines_ExactWireShape(t *testing.T) {
	lines, err := BuildBulkLines([]types.ResolvedItem{resolvedItem()},
		PayloadOptions{LocationID: "gid://shopify/Location/97195786556"})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	// delta = 210 - 100 = 110, amplified x1.1 = 121
	assert.JSONEq(t, `{
		"input": {
			"id": "gid://shopify/Product/1",
			"title": "Compressor X",
			"variants": [{
				"price": "210",
				"barcode": "ABC-1",
				"sku": "SKU-1^acme",
				"inventoryManagement": "SHOPIFY",
				"inventoryQuantities": {
					"availableQuantity": 12,
					"locationId": "gid://shopify/Location/97195786556"
				},
				"inventoryItem": { "cost": "100" }
			}],
			"metafields": [
				{ "namespace": "custom", "key": "delta", "value": "121", "type": "number_integer" },
				{ "namespace": "custom", "key": "warranty", "value": "12m", "type": "single_line_text_field" }
			]
		}
	}`, lines[0])
}

func TestBuildBulkLines_OutOfStockZeroesQuantity(t *testing.T) {
	item := resolvedItem()
	item.BestOffer.InStock = 0

	lines, err := BuildBulkLines([]types.ResolvedItem{item},
		PayloadOptions{LocationID: "gid://shopify/Location/1"})
	require.NoError(t, err)
	assert.Contains(t, lines[0], `"availableQuantity":0`)
}

func TestBuildBulkLines_ExclusionMarkerAppliedToDelta(t *testing.T) {
	item := resolvedItem()
	item.BestOffer.SourceName = "shch-supply"

	lines, err := BuildBulkLines([]types.ResolvedItem{item},
		PayloadOptions{LocationID: "gid://shopify/Location/1", DeltaExclusionMarker: "shch"})
	require.NoError(t, err)

	// delta = 110 - 30 = 80, below every amplification threshold
	assert.Contains(t, lines[0], `"value":"80"`)
}

func TestBuildBulkLines_NoOfferDegradesToZeroes(t *testing.T) {
	item := types.ResolvedItem{
		MergedItem: types.MergedItem{
			CatalogItem: types.CatalogItem{
				ID:         "gid://shopify/Product/9",
				Title:      "Orphan",
				PartNumber: "ZZZ-9",
				SKU:        "SKU-9",
			},
		},
	}

	lines, err := BuildBulkLines([]types.ResolvedItem{item},
		PayloadOptions{LocationID: "gid://shopify/Location/1"})
	require.NoError(t, err)
	assert.Contains(t, lines[0], `"price":"0"`)
	assert.Contains(t, lines[0], `"cost":"0"`)
	assert.Contains(t, lines[0], `"sku":"SKU-9^"`)
	assert.Contains(t, lines[0], `"availableQuantity":0`)
}

func TestBuildBulkLines_RoundsToWholeUnits(t *testing.T) {
	item := resolvedItem()
	final := 219.3
	item.FinalPrice = &final
	item.BestOffer.WholesalePrice = 99.6

	lines, err := BuildBulkLines([]types.ResolvedItem{item},
		PayloadOptions{LocationID: "gid://shopify/Location/1"})
	require.NoError(t, err)
	assert.Contains(t, lines[0], `"price":"219"`)
	assert.Contains(t, lines[0], `"cost":"100"`)
}
